package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/danmuck/echoctl/internal/config"
)

// fileOverride mirrors ServerConfig for the optional local override file;
// only keys actually present in the file are applied.
type fileOverride struct {
	Name        string   `toml:"name"`
	BindIP      string   `toml:"bind_ip"`
	Port        int      `toml:"port"`
	Backlog     int      `toml:"backlog"`
	MaxMsgLen   int      `toml:"max_msg_len"`
	AdminAddr   string   `toml:"admin_addr"`
	CorsOrigins []string `toml:"cors_origins"`
}

// loadConfig resolves the effective server config: built-in defaults, then
// the config file, then a sibling local_<name> override for per-machine
// tweaks that stay out of version control.
func loadConfig(path string) (config.ServerConfig, error) {
	if strings.TrimSpace(path) == "" {
		return config.DefaultServerConfig(), nil
	}
	cfg, err := config.LoadServerConfig(path)
	if err != nil {
		return config.ServerConfig{}, err
	}
	dir, name := filepath.Split(path)
	cfg, err = applyLocalOverride(cfg, filepath.Join(dir, "local_"+name))
	if err != nil {
		return config.ServerConfig{}, err
	}
	if err := config.ValidateServerConfig(cfg); err != nil {
		return config.ServerConfig{}, err
	}
	return cfg, nil
}

func applyLocalOverride(cfg config.ServerConfig, path string) (config.ServerConfig, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return config.ServerConfig{}, fmt.Errorf("stat local override: %w", err)
	}

	var raw fileOverride
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return config.ServerConfig{}, fmt.Errorf("load local override: %w", err)
	}

	if meta.IsDefined("name") {
		if v := strings.TrimSpace(raw.Name); v != "" {
			cfg.Name = v
		}
	}
	if meta.IsDefined("bind_ip") {
		cfg.BindIP = strings.TrimSpace(raw.BindIP)
	}
	if meta.IsDefined("port") {
		cfg.Port = raw.Port
	}
	if meta.IsDefined("backlog") {
		cfg.Backlog = raw.Backlog
	}
	if meta.IsDefined("max_msg_len") {
		cfg.MaxMsgLen = raw.MaxMsgLen
	}
	if meta.IsDefined("admin_addr") {
		cfg.AdminAddr = strings.TrimSpace(raw.AdminAddr)
	}
	if meta.IsDefined("cors_origins") {
		cfg.CorsOrigins = raw.CorsOrigins
	}
	return cfg, nil
}
