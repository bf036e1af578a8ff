package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"
)

// Server captures HTTP server level configuration.
type Server struct {
	Addr            string
	LogLevel        slog.Level
	ShutdownTimeout time.Duration
	MaxBodyBytes    int64
	// AdminToken guards destructive endpoints. Empty disables them.
	AdminToken string
}

const (
	defaultAddr            = ":8080"
	defaultShutdownTimeout = 10 * time.Second
	defaultMaxBodyBytes    = 1 << 20
)

// FromEnv builds a Server config from environment variables so main stays
// lean. Unset variables fall back to development defaults; malformed ones are
// reported.
func FromEnv() (Server, error) {
	return fromLookup(os.LookupEnv)
}

func fromLookup(lookup func(string) (string, bool)) (Server, error) {
	cfg := Server{
		Addr:            defaultAddr,
		LogLevel:        slog.LevelInfo,
		ShutdownTimeout: defaultShutdownTimeout,
		MaxBodyBytes:    defaultMaxBodyBytes,
	}

	if v, ok := lookup("KEYSTORE_ADDR"); ok && v != "" {
		cfg.Addr = v
	}
	if v, ok := lookup("KEYSTORE_LOG_LEVEL"); ok && v != "" {
		if err := cfg.LogLevel.UnmarshalText([]byte(v)); err != nil {
			return Server{}, fmt.Errorf("KEYSTORE_LOG_LEVEL: %w", err)
		}
	}
	if v, ok := lookup("KEYSTORE_SHUTDOWN_TIMEOUT"); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Server{}, fmt.Errorf("KEYSTORE_SHUTDOWN_TIMEOUT: %w", err)
		}
		cfg.ShutdownTimeout = d
	}
	if v, ok := lookup("KEYSTORE_MAX_BODY_BYTES"); ok && v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return Server{}, fmt.Errorf("KEYSTORE_MAX_BODY_BYTES: %w", err)
		}
		cfg.MaxBodyBytes = n
	}
	cfg.AdminToken, _ = lookup("KEYSTORE_ADMIN_TOKEN")

	return cfg, nil
}
