package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("STORY_TTL", "")
	t.Setenv("MEDIA_BACKEND", "")

	cfg := Load()

	assert.Equal(t, "3002", cfg.Port)
	assert.Equal(t, "social_media_app", cfg.MongoDatabase)
	assert.Equal(t, "cloudinary", cfg.MediaBackend)
	assert.Equal(t, "zynq_media", cfg.CloudinaryFolder)
	assert.Equal(t, 24*time.Hour, cfg.StoryTTL)
	assert.Equal(t, 72*time.Hour, cfg.JWTTTL)
	assert.False(t, cfg.RequireAuth)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "8081")
	t.Setenv("STORAGE_BACKEND", "MEMORY")
	t.Setenv("MONGO_TRANSACTIONS", "true")
	t.Setenv("RATE_LIMIT", "10")
	t.Setenv("RATE_LIMIT_WINDOW", "30s")
	t.Setenv("ENV", "production")

	cfg := Load()

	assert.Equal(t, "8081", cfg.Port)
	assert.Equal(t, "memory", cfg.StorageBackend)
	assert.True(t, cfg.MongoTransactions)
	assert.Equal(t, int64(10), cfg.RateLimit)
	assert.Equal(t, 30*time.Second, cfg.RateLimitWindow)
	assert.True(t, cfg.IsProduction())
}

func TestLoadInvalidValuesFallBack(t *testing.T) {
	t.Setenv("RATE_LIMIT", "lots")
	t.Setenv("S3_USE_SSL", "maybe")
	t.Setenv("JWT_TTL", "forever")

	cfg := Load()

	assert.Equal(t, int64(120), cfg.RateLimit)
	assert.False(t, cfg.S3UseSSL)
	assert.Equal(t, 72*time.Hour, cfg.JWTTTL)
}
