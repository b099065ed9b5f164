// Package config reads service configuration from environment variables so
// main stays lean.
package config

import (
	"os"
)

// Config holds the application-level settings. Database settings live in the
// database package next to the pool they configure.
type Config struct {
	// Port the HTTP server listens on.
	Port string
	// AdminToken gates the /api/admin routes. Empty disables admin access
	// entirely rather than leaving it open.
	AdminToken string
	// Backend selects the store: "postgres" (default) or "memory" for local
	// development without a database.
	Backend string
}

// FromEnv builds a Config from environment variables with development
// defaults.
func FromEnv() Config {
	return Config{
		Port:       getEnv("PORT", "8080"),
		AdminToken: os.Getenv("ADMIN_TOKEN"),
		Backend:    getEnv("STORE_BACKEND", "postgres"),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
