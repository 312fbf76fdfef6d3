// Package main is the entry point for the listhub server.
//
// main() stays minimal: read configuration from environment variables,
// create the logger, hand everything to internal/server. All actual logic
// lives in the internal packages.
//
// CONFIGURATION (environment variables):
//
//	PORT              HTTP port (default 8080)
//	DB_PATH           SQLite database file (default data/listhub.db)
//	JWT_SECRET        required; HMAC secret for session tokens, min 16 chars
//	                  generate one with: openssl rand -hex 32
//	SESSION_TTL       session lifetime, Go duration syntax (default 1h)
//	BASE_URL          public origin used in verification links
//	                  (default http://localhost:{PORT})
//	REDIS_ADDR        host:port of Redis for verification tokens;
//	                  empty = embedded in-process store
//	MAILEROO_API_KEY  enables real email delivery; empty = log-only sender
//	MAILEROO_FROM     From address for verification emails
package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/tanvir/listhub/internal/server"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))

	port := 8080
	if portStr := os.Getenv("PORT"); portStr != "" {
		var err error
		port, err = strconv.Atoi(portStr)
		if err != nil {
			logger.Error("invalid PORT value", slog.String("value", portStr))
			os.Exit(1)
		}
	}

	dbPath := "data/listhub.db"
	if envDB := os.Getenv("DB_PATH"); envDB != "" {
		dbPath = envDB
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		logger.Error("failed to create database directory",
			slog.String("dir", filepath.Dir(dbPath)),
			slog.String("error", err.Error()),
		)
		os.Exit(1)
	}

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		logger.Error("JWT_SECRET must be set (openssl rand -hex 32)")
		os.Exit(1)
	}

	sessionTTL := time.Hour
	if ttlStr := os.Getenv("SESSION_TTL"); ttlStr != "" {
		var err error
		sessionTTL, err = time.ParseDuration(ttlStr)
		if err != nil {
			logger.Error("invalid SESSION_TTL value", slog.String("value", ttlStr))
			os.Exit(1)
		}
	}

	baseURL := os.Getenv("BASE_URL")
	if baseURL == "" {
		baseURL = fmt.Sprintf("http://localhost:%d", port)
	}

	cfg := server.Config{
		Port:           port,
		DBPath:         dbPath,
		JWTSecret:      jwtSecret,
		SessionTTL:     sessionTTL,
		BaseURL:        baseURL,
		RedisAddr:      os.Getenv("REDIS_ADDR"),
		MailerooAPIKey: os.Getenv("MAILEROO_API_KEY"),
		MailerooFrom:   os.Getenv("MAILEROO_FROM"),
	}

	srv, err := server.New(cfg, logger)
	if err != nil {
		logger.Error("failed to create server", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Start() blocks until the server is shut down (Ctrl+C or SIGTERM)
	if err := srv.Start(); err != nil {
		logger.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
