package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var envKeys = []string{
	"PROJTRACK_CONFIG_PATH",
	"PROJTRACK_CACHE_PATH",
	"PROJTRACK_GITHUB_API_URL",
	"PROJTRACK_GITHUB_OWNER",
	"PROJTRACK_GITHUB_REPO",
	"PROJTRACK_GITHUB_BRANCH",
	"PROJTRACK_GITHUB_PATH",
	"PROJTRACK_SERVER_HOST",
	"PROJTRACK_SERVER_PORT",
	"PROJTRACK_LOG_FILE",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range envKeys {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, Defaults(), cfg)
	assert.False(t, cfg.Remote.Enabled())
	assert.Equal(t, "127.0.0.1:8080", cfg.Server.Addr())
}

func TestLoad_FileThenEnv(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "projtrack.yaml")
	err := os.WriteFile(path, []byte(`
cache:
  path: /var/lib/projtrack/cache.db
remote:
  owner: flyzhenghao
  repo: AI-Project-List
server:
  port: 9000
log:
  file: /tmp/projtrack.log
`), 0644)
	require.NoError(t, err)

	t.Setenv("PROJTRACK_CONFIG_PATH", path)
	t.Setenv("PROJTRACK_GITHUB_BRANCH", "gh-pages")
	t.Setenv("PROJTRACK_SERVER_PORT", "9100")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/var/lib/projtrack/cache.db", cfg.Cache.Path)
	assert.Equal(t, "flyzhenghao", cfg.Remote.Owner)
	assert.Equal(t, "AI-Project-List", cfg.Remote.Repo)
	assert.Equal(t, "gh-pages", cfg.Remote.Branch)
	assert.Equal(t, "data.json", cfg.Remote.Path)
	assert.Equal(t, "https://api.github.com", cfg.Remote.APIURL)
	assert.Equal(t, 9100, cfg.Server.Port)
	assert.Equal(t, "/tmp/projtrack.log", cfg.Log.File)
	assert.True(t, cfg.Remote.Enabled())
}

func TestLoad_Errors(t *testing.T) {
	testCases := []struct {
		name string
		env  map[string]string
	}{
		{name: "bad port", env: map[string]string{"PROJTRACK_SERVER_PORT": "eighty"}},
		{name: "port out of range", env: map[string]string{"PROJTRACK_SERVER_PORT": "70000"}},
		{name: "owner without repo", env: map[string]string{"PROJTRACK_GITHUB_OWNER": "me"}},
		{name: "missing config file", env: map[string]string{"PROJTRACK_CONFIG_PATH": "/nonexistent/projtrack.yaml"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tc.env {
				t.Setenv(k, v)
			}

			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("cache: [unclosed"), 0644))
	t.Setenv("PROJTRACK_CONFIG_PATH", path)

	_, err := Load()
	assert.Error(t, err)
}
