package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config defines server configuration.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	DB      DBConfig      `yaml:"db"`
	Log     LogConfig     `yaml:"log"`
	Session SessionConfig `yaml:"session"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type DBConfig struct {
	Path string `yaml:"path"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

type SessionConfig struct {
	// Timeout is the idle window after which a session is considered
	// expired. Zero disables tracking.
	Timeout time.Duration `yaml:"timeout"`
}

// Load reads configuration from an optional .env file, an optional
// YAML file, and environment variables, in increasing precedence.
func Load() (Config, error) {
	// Best effort; a missing .env is the normal case.
	_ = godotenv.Load()

	cfg := Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		DB: DBConfig{
			Path: "twinplanner.db",
		},
		Log: LogConfig{
			Level: "info",
		},
		Session: SessionConfig{
			Timeout: 10 * time.Minute,
		},
	}

	if path := os.Getenv("TWINPLAN_CONFIG_PATH"); path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if host := os.Getenv("TWINPLAN_SERVER_HOST"); host != "" {
		cfg.Server.Host = host
	}
	if portStr := os.Getenv("TWINPLAN_SERVER_PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return Config{}, fmt.Errorf("invalid TWINPLAN_SERVER_PORT: %w", err)
		}
		cfg.Server.Port = port
	}
	if dbPath := os.Getenv("TWINPLAN_DB_PATH"); dbPath != "" {
		cfg.DB.Path = dbPath
	}
	if level := os.Getenv("TWINPLAN_LOG_LEVEL"); level != "" {
		cfg.Log.Level = level
	}
	if timeoutStr := os.Getenv("TWINPLAN_SESSION_TIMEOUT"); timeoutStr != "" {
		timeout, err := time.ParseDuration(timeoutStr)
		if err != nil {
			return Config{}, fmt.Errorf("invalid TWINPLAN_SESSION_TIMEOUT: %w", err)
		}
		cfg.Session.Timeout = timeout
	}

	return cfg, nil
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}
