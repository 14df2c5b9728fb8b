package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_UsesDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "8000", cfg.Port)
	assert.False(t, cfg.PreloadNLP)
	assert.True(t, cfg.ServeDist)
	assert.Equal(t, "dist", cfg.DistDir)
	assert.Equal(t, 30*time.Second, cfg.IdleTimeout)
	assert.Equal(t, 1000, cfg.GzipMinSize)
	assert.Equal(t, []string{
		"http://localhost:3000",
		"http://127.0.0.1:3000",
		"http://localhost:5173",
		"http://127.0.0.1:5173",
	}, cfg.AllowedOrigins)
}

func TestLoad_ReadsEnvironmentOverrides(t *testing.T) {
	t.Setenv("REFSCORE_PRELOAD_NLP", "1")
	t.Setenv("REFSCORE_PORT", "9999")
	t.Setenv("REFSCORE_SERVE_DIST", "0")
	t.Setenv("REFSCORE_ALLOWED_ORIGINS", "https://refscore.example, https://staging.refscore.example")

	cfg := Load()

	assert.True(t, cfg.PreloadNLP)
	assert.Equal(t, "9999", cfg.Port)
	assert.False(t, cfg.ServeDist)
	assert.Equal(t, []string{
		"https://refscore.example",
		"https://staging.refscore.example",
	}, cfg.AllowedOrigins)
}
