package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, "http://localhost:54321", cfg.RecordServiceURL)
	assert.Equal(t, "images", cfg.StorageBucket)
	assert.Equal(t, "dev-session-secret", cfg.SessionSecret)
	assert.Equal(t, 10, cfg.ImageCapacity)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("GLIMPSE_ADDR", ":9999")
	t.Setenv("RECORD_SERVICE_URL", "https://records.example.com")
	t.Setenv("DATABASE_URL", "postgres://localhost/glimpse")
	t.Setenv("IMAGE_CAPACITY", "5")

	cfg := Load()
	assert.Equal(t, ":9999", cfg.Addr)
	assert.Equal(t, "https://records.example.com", cfg.RecordServiceURL)
	assert.Equal(t, "postgres://localhost/glimpse", cfg.DatabaseURL)
	assert.Equal(t, 5, cfg.ImageCapacity)
}

func TestLoad_BadIntFallsBack(t *testing.T) {
	t.Setenv("IMAGE_CAPACITY", "not-a-number")
	assert.Equal(t, 10, Load().ImageCapacity)

	t.Setenv("IMAGE_CAPACITY", "-3")
	assert.Equal(t, 10, Load().ImageCapacity)
}
