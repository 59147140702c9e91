package config

import (
	"fmt"
	"net"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// ServerConfig is the echoctl service configuration.
type ServerConfig struct {
	Name        string   `toml:"name"`
	BindIP      string   `toml:"bind_ip"`
	Port        int      `toml:"port"`
	Backlog     int      `toml:"backlog"`
	MaxMsgLen   int      `toml:"max_msg_len"`
	AdminAddr   string   `toml:"admin_addr"`
	CorsOrigins []string `toml:"cors_origins"`
}

func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Name:      "echoctl",
		BindIP:    "0.0.0.0",
		Port:      9000,
		Backlog:   128,
		MaxMsgLen: 20,
	}
}

func LoadServerConfig(path string) (ServerConfig, error) {
	cfg := DefaultServerConfig()
	if err := loadToml(path, &cfg); err != nil {
		return ServerConfig{}, err
	}
	if err := ValidateServerConfig(cfg); err != nil {
		return ServerConfig{}, err
	}
	return cfg, nil
}

func loadToml(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config load failed (%s): %w", path, err)
	}
	if err := toml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("config parse failed (%s): %w", path, err)
	}
	return nil
}

func ValidateServerConfig(cfg ServerConfig) error {
	if strings.TrimSpace(cfg.Name) == "" {
		return fmt.Errorf("server config missing name")
	}
	ip := net.ParseIP(strings.TrimSpace(cfg.BindIP))
	if ip == nil || ip.To4() == nil {
		return fmt.Errorf("server config bind_ip %q is not an IPv4 address", cfg.BindIP)
	}
	if cfg.Port < 0 || cfg.Port > 65535 {
		return fmt.Errorf("server config port %d out of range", cfg.Port)
	}
	if cfg.Backlog <= 0 {
		return fmt.Errorf("server config backlog must be positive")
	}
	if cfg.MaxMsgLen <= 0 {
		return fmt.Errorf("server config max_msg_len must be positive")
	}
	return nil
}
