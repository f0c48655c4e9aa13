package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "nutriplan.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "app:\n  name: NutriPlan\n"))

	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8082", cfg.API.BaseURL)
	assert.Equal(t, 30*time.Second, cfg.API.Timeout)
	assert.Equal(t, BackendSQLite, cfg.Credentials.Backend)
	assert.Equal(t, 1500.0, cfg.Nutrition.FallbackDailyCalories)
	assert.Equal(t, 0.75, cfg.Nutrition.WarningRatio)
	assert.Equal(t, 5, cfg.Nutrition.AdviceLimit)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr())
}

func TestLoad_FileAndEnvOverrides(t *testing.T) {
	path := writeConfig(t, `
api:
  base_url: https://api.example.com
  timeout: 5s
credentials:
  backend: redis
`)
	t.Setenv("NUTRIPLAN_NUTRITION_ADVICE_LIMIT", "3")

	cfg, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, "https://api.example.com", cfg.API.BaseURL)
	assert.Equal(t, 5*time.Second, cfg.API.Timeout)
	assert.Equal(t, BackendRedis, cfg.Credentials.Backend)
	assert.Equal(t, 3, cfg.Nutrition.AdviceLimit)
}

func TestLoad_Invalid(t *testing.T) {
	tests := map[string]string{
		"RelativeURL":  "api:\n  base_url: /api\n",
		"BadBackend":   "credentials:\n  backend: s3\n",
		"BadSampling":  "monitoring:\n  sampling_rate: 2\n",
		"ZeroFallback": "nutrition:\n  fallback_daily_calories: 0\n",
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeConfig(t, body))
			assert.ErrorContains(t, err, "invalid configuration")
		})
	}
}

func TestWatch_AppliesChanges(t *testing.T) {
	path := writeConfig(t, "app:\n  log_level: info\n")
	_, v, err := LoadWithViper(path)
	require.NoError(t, err)

	changed := make(chan *Config, 4)
	Watch(v, func(c *Config) {
		select {
		case changed <- c:
		default:
		}
	}, nil)

	require.NoError(t, os.WriteFile(path, []byte("app:\n  log_level: debug\n"), 0o600))

	deadline := time.After(5 * time.Second)
	for {
		select {
		case c := <-changed:
			// a truncate can be observed before the new content lands
			if c.App.LogLevel == "debug" {
				return
			}
		case <-deadline:
			t.Fatal("config change was not observed")
		}
	}
}
