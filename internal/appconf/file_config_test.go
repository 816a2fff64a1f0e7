package appconf

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadFileConfig(t *testing.T) {
	path := writeConfigFile(t, `
server:
  port: 4000
  env: staging
  apiKeys:
    - alpha
    - beta
  rateLimit: 50
db:
  path: /var/lib/transit/transit.db
ors:
  apiKey: secret
  profile: cycling-regular
  timeoutSeconds: 5
  requestsPerSecond: 2
  refreshMinutes: 60
`)

	cfg, err := LoadFileConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 4000, cfg.Server.Port)
	assert.Equal(t, "staging", cfg.Server.Env)
	assert.Equal(t, []string{"alpha", "beta"}, cfg.Server.ApiKeys)
	assert.Equal(t, 50, cfg.Server.RateLimit)
	assert.Equal(t, "/var/lib/transit/transit.db", cfg.DB.Path)
	assert.Equal(t, "secret", cfg.ORS.APIKey)
	assert.Equal(t, 5*time.Second, cfg.ORS.Timeout())
	assert.Equal(t, 60*time.Minute, cfg.ORS.RefreshInterval())
}

func TestLoadFileConfigRejectsInvalidPort(t *testing.T) {
	path := writeConfigFile(t, `
server:
  port: 0
`)

	_, err := LoadFileConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid config file")
}

func TestLoadFileConfigRejectsUnknownEnvironment(t *testing.T) {
	path := writeConfigFile(t, `
server:
  port: 4000
  env: prod
`)

	_, err := LoadFileConfig(path)
	require.Error(t, err)
}

func TestLoadFileConfigMissingFile(t *testing.T) {
	_, err := LoadFileConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestORSConfigTimeoutDefault(t *testing.T) {
	assert.Equal(t, 10*time.Second, ORSConfig{}.Timeout())
}

func TestEnvFlagToEnvironment(t *testing.T) {
	assert.Equal(t, Test, EnvFlagToEnvironment("test"))
	assert.Equal(t, Staging, EnvFlagToEnvironment("staging"))
	assert.Equal(t, Production, EnvFlagToEnvironment("production"))
	assert.Equal(t, Development, EnvFlagToEnvironment("development"))
	assert.Equal(t, Development, EnvFlagToEnvironment("anything-else"))
}
