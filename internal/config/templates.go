package config

import (
	"fmt"
	"os"
)

const fileTemplate = `[link]
port = "/dev/ttyUSB0"
baud = 115200
data_bits = 8
parity = "none"
stop_bits = 1
read_timeout = "30ms"

[communicator]
queue_size = 10
receipt_timeout = "100ms"
max_transmissions = 5
duplicate_suppression = false
duplicate_window = 64
`

// WriteTemplate writes a default commlink.toml to path, refusing
// to overwrite an existing file unless overwrite is true.
func WriteTemplate(path string, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config already exists: %s", path)
		}
	}
	return os.WriteFile(path, []byte(fileTemplate), 0o600)
}
