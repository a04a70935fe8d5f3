// Copyright (c) 2026 Lectoria. All rights reserved.
// Author: velmoras.dev@gmail.com

/*
Package config handles application-wide settings and environment parsing.

It leverages 'caarlos0/env' to map OS environment variables into a strongly-typed
Go struct, providing early validation and default values.

Usage:

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}

Architecture:

  - Immutability: Once loaded, configuration is read-only.
  - DI-Friendly: Passed to core components (DB, Redis, Storage) via constructors.
  - Zero Hidden State: No global variables are used to store config.

This ensures the application is Twelve-Factor compliant by storing config in the env.
*/
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// PDF import modes selectable via PDF_IMPORT_MODE.
const (
	// PDFModeViewer creates one synthetic chapter that defers to the embedded
	// PDF viewer (the default behavior).
	PDFModeViewer = "viewer"

	// PDFModeExtract runs staged text extraction and heading-based chapter
	// splitting instead.
	PDFModeExtract = "extract"
)

// # Configuration Schema

// Config holds all runtime configuration for the Lectoria API server.
type Config struct {

	// Server settings
	ServerPort  string `env:"SERVER_PORT"  envDefault:"8080"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// Relational Database (PostgreSQL)
	DatabaseURL string `env:"DATABASE_URL,required"`

	// MigrationPath is the filesystem path to the SQL migrations directory.
	MigrationPath string `env:"MIGRATION_PATH" envDefault:"./data/migrations"`

	// Key-Value Cache (Redis)
	RedisURL string `env:"REDIS_URL,required"`

	// AdminPasswordHash is the bcrypt hash of the back-office password.
	AdminPasswordHash string `env:"ADMIN_PASSWORD_HASH,required"`

	// AdminSessionSecret signs admin session cookies (HMAC-SHA256).
	AdminSessionSecret string `env:"ADMIN_SESSION_SECRET,required"`

	// Object Storage (Cloudflare R2 / S3-compatible). When Bucket or Endpoint
	// is empty the blob store starts in disabled mode: imports proceed but
	// cover/PDF uploads report storage.ErrDisabled.
	S3Bucket    string `env:"S3_BUCKET"`
	S3Region    string `env:"S3_REGION"     envDefault:"auto"`
	S3Endpoint  string `env:"S3_ENDPOINT"`
	S3AccessKey string `env:"S3_ACCESS_KEY"`
	S3SecretKey string `env:"S3_SECRET_KEY"`
	S3PublicURL string `env:"S3_PUBLIC_URL"`

	// PDF ingestion
	PDFImportMode string        `env:"PDF_IMPORT_MODE" envDefault:"viewer"`
	OCRLanguages  string        `env:"OCR_LANGUAGES"   envDefault:"eng+spa"`
	OCRBudget     time.Duration `env:"OCR_BUDGET"      envDefault:"5m"`

	// Cross-Origin Resource Sharing
	ExtraOrigins string `env:"EXTRA_ORIGINS"`
}

// # Configuration Loading

// Load parses environment variables into a [Config] struct.
func Load() (*Config, error) {

	// Initialize an empty config struct
	cfg := &Config{}

	// Use the 'env' package to map environment variables to struct fields.
	// This will fail if any field marked with 'required' is missing.
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	if cfg.PDFImportMode != PDFModeViewer && cfg.PDFImportMode != PDFModeExtract {
		return nil, fmt.Errorf("config: PDF_IMPORT_MODE must be %q or %q, got %q",
			PDFModeViewer, PDFModeExtract, cfg.PDFImportMode)
	}

	return cfg, nil
}

// IsDevelopment reports whether the server is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction reports whether the server is running in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
