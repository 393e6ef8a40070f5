// Copyright (c) 2026 Libris. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package config handles application-wide settings and environment parsing.

It leverages 'caarlos0/env' to map OS environment variables into a strongly-typed
Go struct, providing early validation and default values. A local .env file is
loaded first when present (development convenience; real deployments set the
environment directly).

Usage:

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}

Architecture:

  - Immutability: Once loaded, configuration is read-only.
  - DI-Friendly: Passed to core components via constructors.
  - Zero Hidden State: No global variables are used to store config.
*/
package config

import (
	"fmt"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// # Configuration Schema

// Config holds all runtime configuration for the Libris API server.
type Config struct {

	// Server settings
	ServerPort  string `env:"PORT"        envDefault:"3000"`
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	Debug       bool   `env:"DEBUG"       envDefault:"false"`

	// App store: this system's own SQLite database (user accounts).
	AppDBPath string `env:"APP_DB_PATH" envDefault:"./data/app.db"`

	// Library store: the externally maintained Calibre metadata.db.
	// Never written to by this system.
	LibraryDBPath string `env:"CALIBRE_DB_PATH,required"`

	// LibraryRoot is the directory containing the book folders referenced by
	// the library store's relative paths. Defaults to the directory holding
	// the library database, which is where Calibre keeps it.
	LibraryRoot string `env:"LIBRARY_PATH"`

	// MigrationPath is the filesystem path to the app-store SQL migrations.
	MigrationPath string `env:"MIGRATION_PATH" envDefault:"./data/migrations"`

	// JWTSecret signs session tokens. The fallback default is a documented
	// hardening gap: fine for local use, unacceptable in production.
	JWTSecret string `env:"JWT_SECRET" envDefault:"your-secret-key"`

	// AdminEmail bootstraps an approved admin account at startup when set.
	AdminEmail string `env:"ADMIN_EMAIL"`

	// OAuth provider credentials. A provider is enabled only when both its
	// client id and secret are present.
	GoogleClientID     string `env:"GOOGLE_CLIENT_ID"`
	GoogleClientSecret string `env:"GOOGLE_CLIENT_SECRET"`
	GithubClientID     string `env:"GITHUB_CLIENT_ID"`
	GithubClientSecret string `env:"GITHUB_CLIENT_SECRET"`

	// FrontendOrigin is the SPA origin allowed by CORS and the target of
	// OAuth redirects.
	FrontendOrigin string `env:"FRONTEND_ORIGIN" envDefault:"http://localhost:5173"`

	// OAuthCallbackBase is this server's externally reachable base URL used
	// to build provider callback URLs.
	OAuthCallbackBase string `env:"OAUTH_CALLBACK_BASE" envDefault:"http://localhost:3000"`
}

// # Configuration Loading

// Load parses environment variables into a [Config] struct.
func Load() (*Config, error) {

	// A missing .env file is not an error; deployed environments configure
	// the process directly.
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	if cfg.LibraryRoot == "" {
		cfg.LibraryRoot = filepath.Dir(cfg.LibraryDBPath)
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

// AllowedOrigin returns the browser origin permitted by CORS.
func (c *Config) AllowedOrigin() string {
	return c.FrontendOrigin
}
