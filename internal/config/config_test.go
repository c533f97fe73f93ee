package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadFileDefaultsWhenKeysAbsent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "commlink.toml")
	if err := os.WriteFile(path, []byte("\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	want := DefaultFile()
	if cfg != want {
		t.Fatalf("cfg = %+v, want defaults %+v", cfg, want)
	}
}

func TestLoadFileOverridesPresentKeys(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "commlink.toml")
	content := `
[link]
port = "/dev/ttyACM0"
baud = 9600

[communicator]
queue_size = 32
max_transmissions = 3
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Link.Port != "/dev/ttyACM0" {
		t.Fatalf("port = %q, want override", cfg.Link.Port)
	}
	if cfg.Link.Baud != 9600 {
		t.Fatalf("baud = %d, want override", cfg.Link.Baud)
	}
	if cfg.Link.ReadTimeout != DefaultFile().Link.ReadTimeout {
		t.Fatalf("read_timeout = %q, want default preserved", cfg.Link.ReadTimeout)
	}
	if cfg.Communicator.QueueSize != 32 {
		t.Fatalf("queue_size = %d, want override", cfg.Communicator.QueueSize)
	}
	if cfg.Communicator.MaxTransmissions != 3 {
		t.Fatalf("max_transmissions = %d, want override", cfg.Communicator.MaxTransmissions)
	}
}

func TestLoadFileRejectsBadDuration(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "commlink.toml")
	content := `
[communicator]
receipt_timeout = "not-a-duration"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	if _, err := LoadFile(path); err == nil {
		t.Fatalf("expected validation error")
	}
}

func TestLoadFileRejectsBadParity(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "commlink.toml")
	content := `
[link]
parity = "quantum"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	if _, err := LoadFile(path); err == nil {
		t.Fatalf("expected validation error")
	}
}

func TestWriteTemplateRefusesOverwriteWithoutForce(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "commlink.toml")
	if err := WriteTemplate(path, false); err != nil {
		t.Fatalf("first write: %v", err)
	}
	if err := WriteTemplate(path, false); err == nil {
		t.Fatalf("expected refusal to overwrite")
	}
	if err := WriteTemplate(path, true); err != nil {
		t.Fatalf("forced overwrite: %v", err)
	}
}
