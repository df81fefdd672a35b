package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleConfig = `
api:
  environment: test
  port: "9000"
  base_url: localhost:9000
  allowed_cors_domains: [http://a.test, http://b.test]
  jwt_signing_key: secret
  jwt_ttl: 30m
gin:
  mode: test
database:
  driver: postgres
postgres:
  host: db
  port: "5432"
  user: u
  password: p
  db: tickets
  sslmode: disable
redis:
  addr: redis:6379
rate_limit:
  enabled: true
  rate: 2
  burst: 4
log:
  level: info
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	return path
}

func TestLoad(t *testing.T) {
	conf, err := Load(writeConfig(t, sampleConfig))
	require.NoError(t, err)

	assert.Equal(t, "9000", conf.API.Port)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, conf.API.AllowedCORSDomains)
	assert.Equal(t, 30*time.Minute, conf.API.JWTTTL)
	assert.Equal(t, DriverPostgres, conf.Database.Driver)
	assert.Equal(t, "db", conf.Postgres.Host)
	assert.Equal(t, 4, conf.RateLimit.Burst)
	assert.Equal(t, "info", conf.Log.Level)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("API_PORT", "7000")
	t.Setenv("POSTGRES_HOST", "elsewhere")

	conf, err := Load(writeConfig(t, sampleConfig))
	require.NoError(t, err)

	assert.Equal(t, "7000", conf.API.Port)
	assert.Equal(t, "elsewhere", conf.Postgres.Host)
}

func TestLoadRejectsUnknownDriver(t *testing.T) {
	_, err := Load(writeConfig(t, `
api:
  port: "1"
  jwt_signing_key: k
gin:
  mode: test
database:
  driver: sqlite
`))
	assert.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
	assert.Error(t, err)
}
