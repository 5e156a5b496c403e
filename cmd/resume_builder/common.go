package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jonathan/resume-builder/internal/config"
	"github.com/jonathan/resume-builder/internal/db"
	"github.com/jonathan/resume-builder/internal/store"
)

var configPath string

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a JSON or YAML config file")
}

// loadConfig resolves the effective configuration: file values (if a
// file is given), DATABASE_URL from the environment, then defaults.
func loadConfig() (config.Config, error) {
	cfg := config.Config{}
	if configPath != "" {
		loaded, err := config.LoadConfig(configPath)
		if err != nil {
			return config.Config{}, err
		}
		cfg = *loaded
	}
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	cfg = cfg.MergeWithDefaults(config.Defaults())
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// openStore builds the persistence store the configuration selects.
// The returned closer releases the database connection, if one was opened.
func openStore(ctx context.Context, cfg config.Config) (store.Store, func(), error) {
	if cfg.DatabaseURL != "" {
		database, err := db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		if err := database.EnsureSchema(ctx); err != nil {
			database.Close()
			return nil, nil, err
		}
		return store.NewDBStore(database), database.Close, nil
	}

	fileStore, err := store.NewFileStore(cfg.DataDir)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open data directory: %w", err)
	}
	return fileStore, func() {}, nil
}
