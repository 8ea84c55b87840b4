// Package main is the entry point for the VoIP user management API.
//
// main stays minimal: read configuration from the environment, build the
// logger, hand both to the server package, and exit non-zero on failure.
// Everything else lives in internal/.
package main

import (
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/sakif/voip-user-api/internal/auth"
	"github.com/sakif/voip-user-api/internal/server"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel(),
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

	dbPath := "data/voip.db"
	if envDB := os.Getenv("DB_PATH"); envDB != "" {
		dbPath = envDB
	}
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
			logger.Error("failed to create database directory",
				slog.String("dir", filepath.Dir(dbPath)),
				slog.String("error", err.Error()),
			)
			os.Exit(1)
		}
	}

	// The signing secret is mandatory. A server that silently falls back to
	// a built-in default secret is signing forgeable tokens.
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		logger.Error("JWT_SECRET must be set (e.g. JWT_SECRET=$(openssl rand -hex 32))")
		os.Exit(1)
	}

	tokenLifetime := auth.DefaultTokenLifetime
	if ttl := os.Getenv("JWT_TTL"); ttl != "" {
		var err error
		tokenLifetime, err = time.ParseDuration(ttl)
		if err != nil || tokenLifetime <= 0 {
			logger.Error("invalid JWT_TTL value", slog.String("value", ttl))
			os.Exit(1)
		}
	}

	cfg := server.Config{
		Port:               port,
		DBPath:             dbPath,
		JWTSecret:          jwtSecret,
		TokenLifetime:      tokenLifetime,
		BootstrapUsername:  os.Getenv("BOOTSTRAP_USERNAME"),
		BootstrapPassword:  os.Getenv("BOOTSTRAP_PASSWORD"),
		BootstrapName:      os.Getenv("BOOTSTRAP_NAME"),
		BootstrapExtension: os.Getenv("BOOTSTRAP_EXTENSION"),
	}

	srv, err := server.New(cfg, logger)
	if err != nil {
		logger.Error("failed to create server", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Start blocks until the server is shut down via SIGINT/SIGTERM.
	if err := srv.Start(); err != nil {
		logger.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func logLevel() slog.Level {
	switch os.Getenv("LOG_LEVEL") {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
