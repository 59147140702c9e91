package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "echoctl.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadServerConfigAppliesDefaults(t *testing.T) {
	path := writeConfig(t, `name = "echo-a"`)
	cfg, err := LoadServerConfig(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Name != "echo-a" {
		t.Fatalf("name = %q", cfg.Name)
	}
	if cfg.BindIP != "0.0.0.0" || cfg.Port != 9000 || cfg.Backlog != 128 || cfg.MaxMsgLen != 20 {
		t.Fatalf("defaults not applied: %+v", cfg)
	}
	if cfg.AdminAddr != "" {
		t.Fatalf("admin plane should default to disabled, got %q", cfg.AdminAddr)
	}
}

func TestLoadServerConfigFullFile(t *testing.T) {
	path := writeConfig(t, `
name = "echo-b"
bind_ip = "127.0.0.1"
port = 9400
backlog = 64
max_msg_len = 32
admin_addr = ":9500"
cors_origins = ["http://localhost:8080"]
`)
	cfg, err := LoadServerConfig(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.BindIP != "127.0.0.1" || cfg.Port != 9400 || cfg.Backlog != 64 || cfg.MaxMsgLen != 32 {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if cfg.AdminAddr != ":9500" || len(cfg.CorsOrigins) != 1 {
		t.Fatalf("admin settings not parsed: %+v", cfg)
	}
}

func TestLoadServerConfigRejectsInvalid(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"bad port", `port = 99999`},
		{"bad bind ip", `bind_ip = "example.com"`},
		{"ipv6 bind ip", `bind_ip = "::1"`},
		{"zero backlog", `backlog = 0`},
		{"zero max_msg_len", `max_msg_len = 0`},
		{"blank name", `name = " "`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := LoadServerConfig(writeConfig(t, tc.body)); err == nil {
				t.Fatalf("expected validation error")
			}
		})
	}
}

func TestLoadServerConfigMissingFile(t *testing.T) {
	if _, err := LoadServerConfig(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Fatalf("expected load error for missing file")
	}
}
