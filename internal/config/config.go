package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"
)

type AppConfig struct {
	CommandAddr       string
	ResponseAddr      string
	CommandBufferSize int
	ReadTimeout       time.Duration
	DialTimeout       time.Duration

	TimeControl int
	AdminAddr   string
	GamesDir    string

	RedisURL      string
	DatabaseURL   string
	SessionTTLSec int

	MessagesDir string
}

func Load() (*AppConfig, error) {
	cfg := &AppConfig{
		CommandAddr:       "127.0.0.1:65432",
		ResponseAddr:      "127.0.0.1:65433",
		CommandBufferSize: 1024,
		DialTimeout:       5 * time.Second,
		TimeControl:       600,
		AdminAddr:         "127.0.0.1:8065",
		GamesDir:          "games",
		SessionTTLSec:     86400,
	}

	if v := strings.TrimSpace(os.Getenv("COMMAND_ADDR")); v != "" {
		cfg.CommandAddr = v
	}
	if v := strings.TrimSpace(os.Getenv("RESPONSE_ADDR")); v != "" {
		cfg.ResponseAddr = v
	}
	if v := strings.TrimSpace(os.Getenv("COMMAND_BUFFER_SIZE")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.CommandBufferSize = n
		}
	}
	if v := strings.TrimSpace(os.Getenv("PROTOCOL_READ_TIMEOUT_SEC")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.ReadTimeout = time.Duration(n) * time.Second
		}
	}
	if v := strings.TrimSpace(os.Getenv("PROTOCOL_DIAL_TIMEOUT_SEC")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.DialTimeout = time.Duration(n) * time.Second
		}
	}
	if v := strings.TrimSpace(os.Getenv("TIME_CONTROL")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.TimeControl = n
		}
	}
	// an explicitly empty ADMIN_ADDR (or "off") disables the operator surface
	if v, ok := os.LookupEnv("ADMIN_ADDR"); ok {
		v = strings.TrimSpace(v)
		if strings.EqualFold(v, "off") {
			v = ""
		}
		cfg.AdminAddr = v
	}
	if v := strings.TrimSpace(os.Getenv("GAMES_DIR")); v != "" {
		cfg.GamesDir = v
	}

	cfg.RedisURL = strings.TrimSpace(os.Getenv("REDIS_URL"))
	cfg.DatabaseURL = strings.TrimSpace(os.Getenv("DATABASE_URL"))
	if v := strings.TrimSpace(os.Getenv("SESSION_TTL_SEC")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.SessionTTLSec = n
		}
	}
	cfg.MessagesDir = strings.TrimSpace(os.Getenv("MESSAGES_DIR"))

	if cfg.CommandAddr == cfg.ResponseAddr {
		return nil, errors.New("COMMAND_ADDR and RESPONSE_ADDR must differ")
	}
	return cfg, nil
}
