/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package config

import (
	stderrors "errors"
	"fmt"
	"io/fs"
	"log/slog"
	"slices"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/suparena/portalnetwork/errors"
)

// Backend names a document store implementation.
type Backend string

const (
	BackendYAML     Backend = "yaml"
	BackendDynamoDB Backend = "dynamodb"
	BackendSQLite   Backend = "sqlite"
)

// Backends lists the supported backends.
func Backends() []Backend {
	return []Backend{BackendYAML, BackendDynamoDB, BackendSQLite}
}

// AWS holds the DynamoDB connection settings.
type AWS struct {
	AccessKey string `env:"AWS_ACCESS_KEY"`
	SecretKey string `env:"AWS_SECRET_KEY"`
	Region    string `env:"AWS_REGION"`
	Table     string `env:"AWS_DDB_TABLE"`
}

// Config is the portal network configuration, read from the environment.
type Config struct {
	Backend    Backend `env:"PORTAL_BACKEND" envDefault:"yaml"`
	DataFile   string  `env:"PORTAL_DATA_FILE" envDefault:"portal-data.yml"`
	SQLitePath string  `env:"PORTAL_SQLITE_PATH" envDefault:"portal-data.db"`
	Document   string  `env:"PORTAL_DOCUMENT" envDefault:"portals"`
	LogLevel   string  `env:"PORTAL_LOG_LEVEL" envDefault:"info"`
	AWS        AWS
}

// Load reads the given .env files, or ".env" when none are given, and then
// parses the environment. Missing files are ignored and variables already set
// in the environment take precedence over file values.
func Load(envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, file := range envFiles {
		if err := godotenv.Load(file); err != nil && !stderrors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", file, err)
		}
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// Validate reports every problem with the configuration of the selected backend.
func (c Config) Validate() error {
	var errs []error
	if c.Document == "" {
		errs = append(errs, errors.NewValidationError("PORTAL_DOCUMENT", "must not be empty"))
	}
	if _, err := parseLevel(c.LogLevel); err != nil {
		errs = append(errs, errors.NewValidationError("PORTAL_LOG_LEVEL", err.Error()))
	}
	errs = append(errs, c.ValidateBackend(c.Backend))
	return stderrors.Join(errs...)
}

// ValidateBackend checks the settings required by backend b, which need not be
// the configured one.
func (c Config) ValidateBackend(b Backend) error {
	var errs []error
	switch b {
	case BackendYAML:
		if c.DataFile == "" {
			errs = append(errs, errors.NewValidationError("PORTAL_DATA_FILE", "required for the yaml backend"))
		}
	case BackendSQLite:
		if c.SQLitePath == "" {
			errs = append(errs, errors.NewValidationError("PORTAL_SQLITE_PATH", "required for the sqlite backend"))
		}
	case BackendDynamoDB:
		if c.AWS.Region == "" {
			errs = append(errs, errors.NewValidationError("AWS_REGION", "required for the dynamodb backend"))
		}
		if c.AWS.Table == "" {
			errs = append(errs, errors.NewValidationError("AWS_DDB_TABLE", "required for the dynamodb backend"))
		}
	default:
		errs = append(errs, errors.NewValidationError("PORTAL_BACKEND",
			fmt.Sprintf("unknown backend %q, want one of %v", b, Backends())))
	}
	return stderrors.Join(errs...)
}

// SlogLevel returns the configured log level, or info when it cannot be parsed.
func (c Config) SlogLevel() slog.Level {
	level, err := parseLevel(c.LogLevel)
	if err != nil {
		return slog.LevelInfo
	}
	return level
}

// Known reports whether b is a supported backend.
func (b Backend) Known() bool {
	return slices.Contains(Backends(), b)
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, err
	}
	return level, nil
}
