package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestParse_DefaultsAndFlags(t *testing.T) {
	dir := t.TempDir()
	opts, err := parse([]string{
		"-a", ":9090", "-d", "postgres://db", "-k", "secret",
		"-c", filepath.Join(dir, "missing.yaml"), "-env-file", filepath.Join(dir, "missing.env"),
	}, envconfig.MapLookuper(nil))
	require.NoError(t, err)

	assert.Equal(t, ":9090", opts.Address)
	assert.Equal(t, "postgres://db", opts.DatabaseDSN)
	assert.Equal(t, 2*time.Hour, opts.SessionTTL)
	assert.Equal(t, 5, opts.MaxFailedAttempts)
	assert.Equal(t, 30*time.Minute, opts.LockoutDuration)
	assert.Equal(t, "587", opts.SMTP.Port)
	assert.Empty(t, opts.Redis.Address)
	assert.False(t, opts.TrustProxy)
}

func TestParse_Layering(t *testing.T) {
	dir := t.TempDir()
	cfg := writeFile(t, dir, "config.yaml", `
address: ":7000"
database_dsn: "postgres://from-file"
field_key: "file-key"
session_ttl: 90m
redis:
  address: "redis:6379"
  db: 2
smtp:
  host: "smtp.shop.com"
  admin_email: "owner@shop.com"
`)
	envFile := writeFile(t, dir, ".env", "FIELD_KEY=dotenv-key\nREDIS_DB=3\nLOCKOUT_DURATION=10m\n")

	env := envconfig.MapLookuper(map[string]string{
		"SERVER_ADDRESS": ":8000",
		"REDIS_DB":       "4",
		"TRUST_PROXY":    "true",
	})
	opts, err := parse([]string{"-a", ":6000", "-c", cfg, "-env-file", envFile}, env)
	require.NoError(t, err)

	assert.Equal(t, ":8000", opts.Address, "process env beats file and flags")
	assert.Equal(t, "postgres://from-file", opts.DatabaseDSN)
	assert.Equal(t, "dotenv-key", opts.FieldKey, ".env beats file")
	assert.Equal(t, 4, opts.Redis.DB, "process env beats .env")
	assert.Equal(t, "redis:6379", opts.Redis.Address)
	assert.Equal(t, 90*time.Minute, opts.SessionTTL)
	assert.Equal(t, 10*time.Minute, opts.LockoutDuration)
	assert.Equal(t, "smtp.shop.com", opts.SMTP.Host)
	assert.Equal(t, "owner@shop.com", opts.SMTP.AdminEmail)
	assert.True(t, opts.TrustProxy)
}

func TestParse_ConfigPathFromEnv(t *testing.T) {
	dir := t.TempDir()
	cfg := writeFile(t, dir, "alt.yaml", "database_dsn: postgres://alt\nfield_key: k\n")

	opts, err := parse([]string{"-env-file", ""}, envconfig.MapLookuper(map[string]string{"CONFIG": cfg}))
	require.NoError(t, err)
	assert.Equal(t, "postgres://alt", opts.DatabaseDSN)
}

func TestParse_Invalid(t *testing.T) {
	dir := t.TempDir()
	bad := writeFile(t, dir, "bad.yaml", "address: [unclosed")

	_, err := parse([]string{"-c", bad, "-env-file", ""}, envconfig.MapLookuper(nil))
	assert.Error(t, err)

	_, err = parse([]string{"-c", "", "-env-file", "", "-k", "key"}, envconfig.MapLookuper(nil))
	assert.ErrorContains(t, err, "database DSN")

	_, err = parse([]string{"-c", "", "-env-file", "", "-d", "postgres://db", "-k", "key"},
		envconfig.MapLookuper(map[string]string{"TLS_CERT_FILE": "certs/server.crt"}))
	assert.ErrorContains(t, err, "TLS")

	for _, interval := range []string{"0s", "-1m"} {
		_, err = parse([]string{"-c", "", "-env-file", "", "-d", "postgres://db", "-k", "key"},
			envconfig.MapLookuper(map[string]string{"DISCOUNT_SWEEP_INTERVAL": interval}))
		assert.ErrorContains(t, err, "sweep interval", interval)
	}

	_, err = parse([]string{"-no-such-flag"}, envconfig.MapLookuper(nil))
	assert.Error(t, err)
}
