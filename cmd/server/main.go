package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"leadintel/server/config"
	"leadintel/server/internal/api"
	"leadintel/server/internal/dashboard"
	"leadintel/server/internal/database"
	"leadintel/server/internal/narrative"
	"leadintel/server/internal/postgres"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.WithError(err).Fatal("Failed to load configuration")
	}

	level, err := logrus.ParseLevel(cfg.Server.LogLevel)
	if err != nil {
		logger.WithError(err).Warn("Invalid log level, using info")
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	source, closeSource, err := openSource(cfg, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize data store")
	}
	defer closeSource()

	var client narrative.Client
	if cfg.Narrative.APIKey != "" {
		client = narrative.NewAnthropicClient(cfg.Narrative.APIKey, cfg.Narrative.Model, cfg.Narrative.MaxTokens)
		logger.WithField("model", cfg.Narrative.Model).Info("Narrative generation enabled")
	} else {
		logger.Info("No Anthropic API key set, serving fallback talking points only")
	}
	generator := narrative.NewGenerator(client, cfg.Narrative.Timeout, logger)

	service := dashboard.NewService(source, cfg, generator, logger)
	handler := api.NewHandler(service, logger)
	router := api.NewRouter(handler, cfg.Server.AllowedOrigins)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	logger.Infof("Starting server on port %d", cfg.Server.Port)
	if err := http.ListenAndServe(addr, router); err != nil {
		logger.WithError(err).Fatal("Server failed to start")
	}
}

// openSource returns the configured data store and its close function.
func openSource(cfg *config.Config, logger *logrus.Logger) (dashboard.DataSource, func(), error) {
	switch cfg.Store.Driver {
	case "postgres":
		if cfg.Store.DatabaseURL == "" {
			return nil, nil, errors.New("DATABASE_URL is required for the postgres store")
		}
		store, err := postgres.New(context.Background(), cfg.Store.DatabaseURL, logger)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("Using remote Postgres store")
		return store, store.Close, nil

	case "sqlite", "":
		if err := os.MkdirAll(filepath.Dir(cfg.Store.SQLitePath), 0o755); err != nil {
			return nil, nil, fmt.Errorf("create database directory: %w", err)
		}
		logger.Infof("Using database at: %s", cfg.Store.SQLitePath)

		db, err := database.NewDatabase(cfg.Store.SQLitePath, logger)
		if err != nil {
			return nil, nil, err
		}
		closeDB := func() {
			if err := db.Close(); err != nil {
				logger.WithError(err).Error("Failed to close database")
			}
		}

		logger.Info("Running database migrations...")
		if err := db.RunMigrations(); err != nil {
			closeDB()
			return nil, nil, fmt.Errorf("run migrations: %w", err)
		}

		if cfg.Store.SeedFile != "" {
			fixture, err := database.LoadFixture(cfg.Store.SeedFile)
			if err != nil {
				closeDB()
				return nil, nil, err
			}
			if err := db.Seed(fixture); err != nil {
				closeDB()
				return nil, nil, err
			}
		}
		return db, closeDB, nil

	default:
		return nil, nil, fmt.Errorf("unknown STORE_DRIVER %q", cfg.Store.Driver)
	}
}
