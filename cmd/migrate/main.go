package main

import (
	"fmt"
	"net/url"
	"os"

	"github.com/5280sourcegroup/website/config"
	"github.com/5280sourcegroup/website/migrations"
	"github.com/5280sourcegroup/website/pkg/db"
	"github.com/5280sourcegroup/website/pkg/logger"
	"go.uber.org/zap"
)

const usage = "usage: migrate [up|down]"

func main() {
	direction, err := parseDirection(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	err = logger.Initialize(logger.Config{
		Level:       cfg.Logging.Level,
		LogDir:      cfg.Logging.Dir,
		Environment: cfg.Server.AppEnv,
		ServiceName: "sourcegroup-migrate",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if !cfg.Database.Enabled() {
		logger.Error("DATABASE_URL is required to run migrations")
		os.Exit(1)
	}

	logger.Info("Starting database migrations",
		zap.String("direction", string(direction)),
		zap.String("database", maskDatabaseURL(cfg.Database.URL)))

	if err := db.RunMigrations(cfg.Database.URL, cfg.Database.CACertPath, migrations.FS, direction); err != nil {
		logger.Error("Failed to run migrations", zap.Error(err))
		os.Exit(1)
	}

	logger.Info("Database migrations completed successfully")
}

func parseDirection(args []string) (db.Direction, error) {
	if len(args) == 0 {
		return db.Up, nil
	}
	switch d := db.Direction(args[0]); d {
	case db.Up, db.Down:
		return d, nil
	default:
		return "", fmt.Errorf("unknown direction %q", args[0])
	}
}

// maskDatabaseURL hides the password for logging
func maskDatabaseURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return "***"
	}
	return u.Redacted()
}
