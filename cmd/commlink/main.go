package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	logs "github.com/danmuck/smplog"

	"github.com/danmuck/serialcomm/internal/comm"
	"github.com/danmuck/serialcomm/internal/config"
	"github.com/danmuck/serialcomm/internal/link"
	"github.com/danmuck/serialcomm/internal/logging"
	"github.com/danmuck/serialcomm/internal/metrics"
	"github.com/danmuck/serialcomm/internal/wire"
)

func main() {
	logging.ConfigureRuntime()

	configPath := flag.String("config", "commlink.toml", "path to commlink config file")
	spinInterval := flag.Duration("spin-interval", 5*time.Millisecond, "interval between Spin() calls")
	loopback := flag.Bool("loopback", true, "use an in-memory loopback link instead of a real serial port")
	flag.Parse()

	if err := run(*configPath, *spinInterval, *loopback); err != nil {
		fmt.Fprintf(os.Stderr, "commlink: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string, spinInterval time.Duration, loopback bool) error {
	file, err := config.LoadFile(configPath)
	if err != nil {
		return err
	}

	readTimeout, err := time.ParseDuration(file.Link.ReadTimeout)
	if err != nil {
		return fmt.Errorf("link read_timeout: %w", err)
	}
	receiptTimeout, err := time.ParseDuration(file.Communicator.ReceiptTimeout)
	if err != nil {
		return fmt.Errorf("communicator receipt_timeout: %w", err)
	}

	if !loopback {
		// No third-party serial driver library appears anywhere in the
		// example pack this module was learned from, so there is no
		// hardware-backed link.ByteLink shipped here; a real port plugs
		// into the same interface link.Loopback implements.
		return fmt.Errorf("real serial link not implemented in this build, run with -loopback")
	}
	l := link.NewLoopback(readTimeout)

	rec := metrics.New(file.Link.Port)
	c := comm.New(l, comm.Config{
		QueueSize:            uint16(file.Communicator.QueueSize),
		ReceiptTimeout:       receiptTimeout,
		MaxTransmissions:     uint8(file.Communicator.MaxTransmissions),
		DuplicateSuppression: file.Communicator.DuplicateSuppression,
		DuplicateWindow:      file.Communicator.DuplicateWindow,
	}, rec)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := l.Open(ctx); err != nil {
		return fmt.Errorf("open link: %w", err)
	}
	defer l.Close()

	logs.Infof("commlink started port=%q baud=%d queue_size=%d max_transmissions=%d",
		file.Link.Port, file.Link.Baud, file.Communicator.QueueSize, file.Communicator.MaxTransmissions)

	ticker := time.NewTicker(spinInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logs.Infof("commlink shutting down")
			return nil
		case <-ticker.C:
			if err := c.Spin(); err != nil {
				return fmt.Errorf("spin: %w", err)
			}
			for n := c.MessagesAvailable(); n > 0; n-- {
				msg, ok := c.Receive(wire.WildcardID)
				if !ok {
					break
				}
				logs.Infof("commlink delivered id=%d priority=%d bytes=%d", msg.ID(), msg.Priority(), msg.DataLength())
			}
		}
	}
}
