package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"COMMAND_ADDR", "RESPONSE_ADDR", "COMMAND_BUFFER_SIZE", "TIME_CONTROL", "GAMES_DIR", "REDIS_URL", "DATABASE_URL"} {
		t.Setenv(k, "")
	}
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.CommandAddr != "127.0.0.1:65432" || cfg.ResponseAddr != "127.0.0.1:65433" {
		t.Fatalf("addrs=%s %s", cfg.CommandAddr, cfg.ResponseAddr)
	}
	if cfg.CommandBufferSize != 1024 || cfg.TimeControl != 600 || cfg.GamesDir != "games" {
		t.Fatalf("cfg=%+v", cfg)
	}
	if cfg.ReadTimeout != 0 || cfg.DialTimeout != 5*time.Second {
		t.Fatalf("timeouts read=%v dial=%v", cfg.ReadTimeout, cfg.DialTimeout)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("COMMAND_ADDR", "0.0.0.0:7000")
	t.Setenv("RESPONSE_ADDR", "192.168.4.1:7001")
	t.Setenv("COMMAND_BUFFER_SIZE", "64")
	t.Setenv("PROTOCOL_READ_TIMEOUT_SEC", "3")
	t.Setenv("TIME_CONTROL", "abc")
	t.Setenv("ADMIN_ADDR", "off")
	t.Setenv("SESSION_TTL_SEC", "60")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.CommandAddr != "0.0.0.0:7000" || cfg.CommandBufferSize != 64 || cfg.ReadTimeout != 3*time.Second {
		t.Fatalf("cfg=%+v", cfg)
	}
	if cfg.TimeControl != 600 {
		t.Fatalf("unparsable TIME_CONTROL should keep default, got %d", cfg.TimeControl)
	}
	if cfg.AdminAddr != "" || cfg.SessionTTLSec != 60 {
		t.Fatalf("admin=%q ttl=%d", cfg.AdminAddr, cfg.SessionTTLSec)
	}
}

func TestLoadRejectsSameAddr(t *testing.T) {
	t.Setenv("COMMAND_ADDR", "127.0.0.1:9000")
	t.Setenv("RESPONSE_ADDR", "127.0.0.1:9000")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for identical addresses")
	}
}
