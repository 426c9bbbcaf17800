// Package config loads the server configuration from the environment.
package config

import (
	"os"
	"strconv"
)

// Config holds everything the server binary needs to wire the store.
type Config struct {
	// Addr is the listen address for the HTTP surface.
	Addr string

	// RecordServiceURL is the base URL of the remote data service's REST
	// endpoint. Ignored when DatabaseURL is set.
	RecordServiceURL string

	// RecordServiceKey is the API key sent to the record and storage services.
	RecordServiceKey string

	// DatabaseURL, when set, connects the record-service client directly to
	// the collaborator's Postgres instead of its REST surface.
	DatabaseURL string

	// StorageURL is the base URL of the blob storage service.
	StorageURL string

	// StorageBucket is the bucket receiving image uploads.
	StorageBucket string

	// JWTSecret verifies access tokens from the identity collaborator.
	// Empty disables signature verification (local development only).
	JWTSecret string

	// SessionSecret signs the cookie sessions.
	SessionSecret string

	// ImageCapacity caps the number of images per draft.
	ImageCapacity int
}

// Load reads the configuration, applying local-development defaults for
// anything unset.
func Load() Config {
	return Config{
		Addr:             getEnv("GLIMPSE_ADDR", ":8080"),
		RecordServiceURL: getEnv("RECORD_SERVICE_URL", "http://localhost:54321"),
		RecordServiceKey: os.Getenv("RECORD_SERVICE_KEY"),
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		StorageURL:       getEnv("STORAGE_URL", "http://localhost:54321"),
		StorageBucket:    getEnv("STORAGE_BUCKET", "images"),
		JWTSecret:        os.Getenv("JWT_SECRET"),
		SessionSecret:    getEnv("SESSION_SECRET", "dev-session-secret"),
		ImageCapacity:    getEnvInt("IMAGE_CAPACITY", 10),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}
