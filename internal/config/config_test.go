package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		Server:   ServerConfig{Mode: "debug"},
		Database: DatabaseConfig{Driver: "mysql"},
		Certificate: CertificateConfig{
			VerifyBaseURL:   "https://skillup.app/",
			CodeLength:      12,
			MaxCodeAttempts: 5,
		},
	}
}

func TestValidateTrimsVerifyBaseURL(t *testing.T) {
	cfg := validConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "https://skillup.app", cfg.Certificate.VerifyBaseURL)
}

func TestValidateRejectsShortSecretInRelease(t *testing.T) {
	cfg := validConfig()
	cfg.Server.Mode = "release"
	cfg.Identity.Secret = "short"
	assert.Error(t, cfg.Validate())

	cfg.Identity.Secret = "0123456789abcdef0123456789abcdef"
	assert.NoError(t, cfg.Validate())
}

func TestValidateRejectsBadCertificateSettings(t *testing.T) {
	cfg := validConfig()
	cfg.Certificate.VerifyBaseURL = "skillup.app"
	assert.Error(t, cfg.Validate())

	cfg = validConfig()
	cfg.Certificate.CodeLength = 4
	assert.Error(t, cfg.Validate())

	cfg = validConfig()
	cfg.Database.Driver = "oracle"
	assert.Error(t, cfg.Validate())
}

func TestLoadConfigFromDir(t *testing.T) {
	dir := t.TempDir()
	content := []byte(`
server:
  port: "9090"
  mode: debug
database:
  driver: postgres
storage:
  type: minio
certificate:
  verify_base_url: https://certs.example.com/
catalog:
  cache_ttl_minutes: 5
`)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), content, 0o644))

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, "https://certs.example.com", cfg.Certificate.VerifyBaseURL)
	assert.Equal(t, 12, cfg.Certificate.CodeLength)
	assert.Equal(t, 5, cfg.Certificate.MaxCodeAttempts)
	assert.Equal(t, "5m0s", cfg.Catalog.CacheTTL().String())
}
