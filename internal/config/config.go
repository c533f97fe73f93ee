// Package config loads and validates the TOML configuration consumed by
// cmd/commlink: the serial link parameters and the Communicator's tunable
// protocol parameters.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// LinkConfig describes the serial port a Communicator is bound to.
type LinkConfig struct {
	Port        string `toml:"port"`
	Baud        int    `toml:"baud"`
	DataBits    int    `toml:"data_bits"`
	Parity      string `toml:"parity"`
	StopBits    int    `toml:"stop_bits"`
	ReadTimeout string `toml:"read_timeout"`
}

// CommunicatorConfig is the TOML-facing mirror of comm.Config.
type CommunicatorConfig struct {
	QueueSize            int    `toml:"queue_size"`
	ReceiptTimeout       string `toml:"receipt_timeout"`
	MaxTransmissions     int    `toml:"max_transmissions"`
	DuplicateSuppression bool   `toml:"duplicate_suppression"`
	DuplicateWindow      int    `toml:"duplicate_window"`
}

// File is the top-level shape of a commlink.toml file.
type File struct {
	Link        LinkConfig         `toml:"link"`
	Communicator CommunicatorConfig `toml:"communicator"`
}

// DefaultFile mirrors link.DefaultConfig and comm.DefaultConfig's values.
func DefaultFile() File {
	return File{
		Link: LinkConfig{
			Port:        "/dev/ttyUSB0",
			Baud:        115200,
			DataBits:    8,
			Parity:      "none",
			StopBits:    1,
			ReadTimeout: "30ms",
		},
		Communicator: CommunicatorConfig{
			QueueSize:        10,
			ReceiptTimeout:   "100ms",
			MaxTransmissions: 5,
			DuplicateWindow:  64,
		},
	}
}

// LoadFile reads and validates a commlink.toml at path, starting from
// DefaultFile and overlaying only the keys present in the file.
func LoadFile(path string) (File, error) {
	cfg := DefaultFile()

	var raw File
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return File{}, fmt.Errorf("load commlink config (%s): %w", path, err)
	}

	if meta.IsDefined("link", "port") {
		cfg.Link.Port = raw.Link.Port
	}
	if meta.IsDefined("link", "baud") {
		cfg.Link.Baud = raw.Link.Baud
	}
	if meta.IsDefined("link", "data_bits") {
		cfg.Link.DataBits = raw.Link.DataBits
	}
	if meta.IsDefined("link", "parity") {
		cfg.Link.Parity = raw.Link.Parity
	}
	if meta.IsDefined("link", "stop_bits") {
		cfg.Link.StopBits = raw.Link.StopBits
	}
	if meta.IsDefined("link", "read_timeout") {
		cfg.Link.ReadTimeout = raw.Link.ReadTimeout
	}

	if meta.IsDefined("communicator", "queue_size") {
		cfg.Communicator.QueueSize = raw.Communicator.QueueSize
	}
	if meta.IsDefined("communicator", "receipt_timeout") {
		cfg.Communicator.ReceiptTimeout = raw.Communicator.ReceiptTimeout
	}
	if meta.IsDefined("communicator", "max_transmissions") {
		cfg.Communicator.MaxTransmissions = raw.Communicator.MaxTransmissions
	}
	if meta.IsDefined("communicator", "duplicate_suppression") {
		cfg.Communicator.DuplicateSuppression = raw.Communicator.DuplicateSuppression
	}
	if meta.IsDefined("communicator", "duplicate_window") {
		cfg.Communicator.DuplicateWindow = raw.Communicator.DuplicateWindow
	}

	if err := Validate(cfg); err != nil {
		return File{}, err
	}
	return cfg, nil
}

// Validate checks the parsed config for internally consistent values.
func Validate(cfg File) error {
	if strings.TrimSpace(cfg.Link.Port) == "" {
		return fmt.Errorf("link config missing port")
	}
	if cfg.Link.Baud <= 0 {
		return fmt.Errorf("link config baud must be positive, got %d", cfg.Link.Baud)
	}
	if _, err := time.ParseDuration(cfg.Link.ReadTimeout); err != nil {
		return fmt.Errorf("link config read_timeout: %w", err)
	}
	switch strings.ToLower(strings.TrimSpace(cfg.Link.Parity)) {
	case "none", "odd", "even":
	default:
		return fmt.Errorf("link config parity must be none|odd|even, got %q", cfg.Link.Parity)
	}

	if cfg.Communicator.QueueSize <= 0 {
		return fmt.Errorf("communicator config queue_size must be positive, got %d", cfg.Communicator.QueueSize)
	}
	if _, err := time.ParseDuration(cfg.Communicator.ReceiptTimeout); err != nil {
		return fmt.Errorf("communicator config receipt_timeout: %w", err)
	}
	if cfg.Communicator.MaxTransmissions <= 0 {
		return fmt.Errorf("communicator config max_transmissions must be positive")
	}
	return nil
}
