package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielpatrickdp/agri-advisor/internal/profile"
)

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("Default().Validate: %v", err)
	}
}

func TestLoad_File(t *testing.T) {
	cfg, err := Load(filepath.Join("testdata", "advisor.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "/var/lib/agri/advisor.db", cfg.DBPath)
	assert.Equal(t, BackendGemini, cfg.Generation.Backend)
	assert.Equal(t, 45*time.Second, cfg.Generation.Timeout)
	assert.Equal(t, "hi", cfg.Response.Language)
	assert.Equal(t, 150, cfg.Response.MaxWords)
	assert.False(t, cfg.Response.Emojis)
	assert.True(t, cfg.Response.Markdown, "unset keys keep defaults")
	assert.Equal(t, profile.PolicyAnyProfile, cfg.Profile.Policy)
	assert.Equal(t, 2, cfg.Knowledge.TopPerCategory)
	assert.Equal(t, 10, cfg.Knowledge.MaxKeywords)
	assert.True(t, cfg.Logging.Development)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("AGRI_DB", "env.db")
	t.Setenv("AGRI_GEN_ADDR", "gen:9000")
	t.Setenv("AGRI_GEN_TIMEOUT", "12")
	t.Setenv("AGRI_MAX_WORDS", "80")
	t.Setenv("AGRI_PROFILE_POLICY", "any")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "env.db", cfg.DBPath)
	assert.Equal(t, "gen:9000", cfg.Generation.Addr)
	assert.Equal(t, 12*time.Second, cfg.Generation.Timeout)
	assert.Equal(t, 80, cfg.Response.MaxWords)
	assert.Equal(t, profile.PolicyAnyProfile, cfg.Profile.Policy)
}

func TestLoad_EnvBeatsFile(t *testing.T) {
	t.Setenv("AGRI_GEN_TIMEOUT", "1m")
	cfg, err := Load(filepath.Join("testdata", "advisor.yaml"))
	require.NoError(t, err)
	assert.Equal(t, time.Minute, cfg.Generation.Timeout)
}

func TestLoad_BadEnv(t *testing.T) {
	t.Setenv("AGRI_MAX_WORDS", "many")
	if _, err := Load(""); err == nil {
		t.Fatal("expected error for non-numeric AGRI_MAX_WORDS")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"unknown backend", func(c *Config) { c.Generation.Backend = "ollama" }},
		{"gemini without key", func(c *Config) { c.Generation.Backend = BackendGemini }},
		{"grpc without addr", func(c *Config) { c.Generation.Addr = "" }},
		{"zero timeout", func(c *Config) { c.Generation.Timeout = 0 }},
		{"zero words", func(c *Config) { c.Response.MaxWords = 0 }},
		{"bad language", func(c *Config) { c.Response.Language = "fr" }},
		{"bad policy", func(c *Config) { c.Profile.Policy = "maybe" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}
