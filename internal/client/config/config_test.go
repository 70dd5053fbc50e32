package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaults() Config {
	var c Config
	c.LoadDefaults()
	return c
}

func writeTempJSON(t *testing.T, data map[string]any) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cfg.json")
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

// isolate runs the test in an empty directory so a stray .env is not picked up.
func isolate(t *testing.T) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func TestLoadDefaults(t *testing.T) {
	c := defaults()

	assert.Equal(t, "http://127.0.0.1:8080", c.APIBaseURL)
	assert.Equal(t, 15*time.Second, c.RequestTimeout)
	assert.Equal(t, 5*time.Second, c.OnlineCheckInterval)
	assert.Equal(t, "warn", c.LogLevel)
	assert.Equal(t, filepath.Join("~/.newsclient", "newsclient.db"), c.DBPath())
	assert.Equal(t, filepath.Join("~/.newsclient", "cookies.txt"), c.CookiePath())
}

func TestLoad_DefaultsOnly(t *testing.T) {
	isolate(t)

	cfg, err := Load(nil)
	require.NoError(t, err)
	if diff := cmp.Diff(defaults(), *cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestParseFlags(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    func(c *Config)
		wantErr bool
	}{
		{
			name: "all flags",
			args: []string{"-a", "https://api.example.com", "-m", "s3://papers", "-d", "/data", "-o", "/dl",
				"-t", "7", "-i", "10", "-r", "127.0.0.1:6379", "-l", "debug", "-unrelated", "x"},
			want: func(c *Config) {
				c.APIBaseURL = "https://api.example.com"
				c.MediaBaseURL = "s3://papers"
				c.DataDir = "/data"
				c.DownloadDir = "/dl"
				c.RequestTimeout = 7 * time.Second
				c.OnlineCheckInterval = 10 * time.Second
				c.RedisAddr = "127.0.0.1:6379"
				c.LogLevel = "debug"
			},
		},
		{name: "bad interval", args: []string{"-i", "abc"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaults()
			err := parseFlags(&cfg, tt.args)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)

			want := defaults()
			tt.want(&want)
			assert.Empty(t, cmp.Diff(want, cfg))
		})
	}
}

func TestParseJson(t *testing.T) {
	path := writeTempJSON(t, map[string]any{
		"api_base_url":          "https://news.example.com/api",
		"online_check_interval": "30s",
		"request_timeout":       2000000000,
		"redis_db":              2,
	})

	cfg := defaults()
	require.NoError(t, parseJson(&cfg, []string{"-config", path}))

	assert.Equal(t, "https://news.example.com/api", cfg.APIBaseURL)
	assert.Equal(t, 30*time.Second, cfg.OnlineCheckInterval)
	assert.Equal(t, 2*time.Second, cfg.RequestTimeout)
	assert.Equal(t, 2, cfg.RedisDB)
	assert.Equal(t, "warn", cfg.LogLevel, "absent keys keep earlier values")

	unchanged := defaults()
	require.NoError(t, parseJson(&unchanged, nil))
	assert.Equal(t, defaults(), unchanged)

	bad := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{ not json`), 0o600))
	require.Error(t, parseJson(&cfg, []string{"-c", bad}))

	require.Error(t, parseJson(&cfg, []string{"-c", filepath.Join(t.TempDir(), "missing.json")}))
}

func TestLoad_Precedence(t *testing.T) {
	isolate(t)

	require.NoError(t, os.WriteFile(".env", []byte("NEWSCLIENT_LOG_LEVEL=info\nNEWSCLIENT_REDIS_ADDR=dotenv:6379\n"), 0o600))
	t.Cleanup(func() {
		_ = os.Unsetenv("NEWSCLIENT_LOG_LEVEL")
		_ = os.Unsetenv("NEWSCLIENT_REDIS_ADDR")
	})
	t.Setenv("NEWSCLIENT_API_BASE_URL", "https://env.example.com")
	t.Setenv("NEWSCLIENT_REQUEST_TIMEOUT", "9s")

	path := writeTempJSON(t, map[string]any{"api_base_url": "https://json.example.com"})

	cfg, err := Load([]string{"-c", path, "-t", "3"})
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.LogLevel, "from .env")
	assert.Equal(t, "dotenv:6379", cfg.RedisAddr, "from .env")
	assert.Equal(t, "https://json.example.com", cfg.APIBaseURL, "json overrides env")
	assert.Equal(t, 3*time.Second, cfg.RequestTimeout, "flags override env")
}

func TestLoad_ExplicitDotenvMissing(t *testing.T) {
	isolate(t)

	_, err := Load([]string{"-e", "does-not-exist.env"})
	require.Error(t, err)
}

func TestLoad_BadEnvValue(t *testing.T) {
	isolate(t)
	t.Setenv("NEWSCLIENT_REDIS_DB", "not-a-number")

	_, err := Load(nil)
	require.Error(t, err)
}
