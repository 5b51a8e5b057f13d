package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "./iran_pottery_dataset", cfg.Dataset.Path)
	assert.Equal(t, "iran_pottery_metadata.json", cfg.Dataset.JSONFile)
	assert.Equal(t, "iran_pottery_metadata.csv", cfg.Dataset.CSVFile)

	assert.Equal(t, 25*time.Second, cfg.HTTP.Timeout)
	assert.Equal(t, 4, cfg.HTTP.Retries)
	assert.Equal(t, 2*time.Second, cfg.HTTP.RetryDelay)
	assert.Equal(t, 10*1024, cfg.HTTP.MinImageSize)
	assert.NotEmpty(t, cfg.HTTP.UserAgents)

	assert.Equal(t, 200, cfg.Harvest.MaxImages)
	assert.Equal(t, 16, cfg.Harvest.Workers)
	assert.Equal(t, time.Second, cfg.Harvest.QueryDelay)
	assert.Len(t, cfg.Harvest.Queries, 16)

	assert.NotEmpty(t, cfg.Periods.PreIslamic)
	assert.NotEmpty(t, cfg.Periods.Islamic)

	assert.NoError(t, cfg.Validate())
}

func TestLoadFromFile(t *testing.T) {
	content := `
dataset:
  path: /tmp/pottery
  json_file: out.json
harvest:
  max_images: 50
  workers: 8
http:
  retries: 2
logging:
  level: debug
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg := DefaultConfig()
	require.NoError(t, cfg.LoadFromFile(path))

	assert.Equal(t, "/tmp/pottery", cfg.Dataset.Path)
	assert.Equal(t, "out.json", cfg.Dataset.JSONFile)
	assert.Equal(t, 50, cfg.Harvest.MaxImages)
	assert.Equal(t, 8, cfg.Harvest.Workers)
	assert.Equal(t, 2, cfg.HTTP.Retries)
	assert.Equal(t, "debug", cfg.Logging.Level)

	// Untouched keys keep their defaults.
	assert.Equal(t, "iran_pottery_metadata.csv", cfg.Dataset.CSVFile)
	assert.Equal(t, 25*time.Second, cfg.HTTP.Timeout)
}

func TestLoadFromFileMissing(t *testing.T) {
	cfg := DefaultConfig()
	err := cfg.LoadFromFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadFromFileInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("dataset: ["), 0644))

	cfg := DefaultConfig()
	assert.Error(t, cfg.LoadFromFile(path))
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("METHARVEST_DATASET_PATH", "/env/pottery")
	t.Setenv("METHARVEST_BASE_URL", "http://localhost:9999/v1")
	t.Setenv("METHARVEST_MAX_IMAGES", "25")
	t.Setenv("METHARVEST_WORKERS", "4")
	t.Setenv("METHARVEST_LOG_LEVEL", "warn")

	cfg := DefaultConfig()
	require.NoError(t, cfg.LoadFromEnv())

	assert.Equal(t, "/env/pottery", cfg.Dataset.Path)
	assert.Equal(t, "http://localhost:9999/v1", cfg.HTTP.BaseURL)
	assert.Equal(t, 25, cfg.Harvest.MaxImages)
	assert.Equal(t, 4, cfg.Harvest.Workers)
	assert.Equal(t, "warn", cfg.Logging.Level)
}

func TestLoadFromEnvIgnoresInvalidNumbers(t *testing.T) {
	t.Setenv("METHARVEST_MAX_IMAGES", "not-a-number")
	t.Setenv("METHARVEST_WORKERS", "-3")

	cfg := DefaultConfig()
	require.NoError(t, cfg.LoadFromEnv())

	assert.Equal(t, 200, cfg.Harvest.MaxImages)
	assert.Equal(t, 16, cfg.Harvest.Workers)
}

func TestMergeCommandLineFlags(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MergeCommandLineFlags(map[string]interface{}{
		"dataset":    "/flag/pottery",
		"max-images": 10,
		"workers":    2,
		"log-level":  "debug",
	})

	assert.Equal(t, "/flag/pottery", cfg.Dataset.Path)
	assert.Equal(t, 10, cfg.Harvest.MaxImages)
	assert.Equal(t, 2, cfg.Harvest.Workers)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestMergeCommandLineFlagsSkipsZeroValues(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MergeCommandLineFlags(map[string]interface{}{
		"dataset":    "",
		"max-images": 0,
	})

	assert.Equal(t, "./iran_pottery_dataset", cfg.Dataset.Path)
	assert.Equal(t, 200, cfg.Harvest.MaxImages)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"missing dataset path", func(c *Config) { c.Dataset.Path = "" }, "dataset path is required"},
		{"missing base URL", func(c *Config) { c.HTTP.BaseURL = "" }, "base URL is required"},
		{"zero timeout", func(c *Config) { c.HTTP.Timeout = 0 }, "timeout must be positive"},
		{"zero retries", func(c *Config) { c.HTTP.Retries = 0 }, "retries must be positive"},
		{"negative retry delay", func(c *Config) { c.HTTP.RetryDelay = -time.Second }, "retry delay cannot be negative"},
		{"no user agents", func(c *Config) { c.HTTP.UserAgents = nil }, "at least one user agent is required"},
		{"zero max images", func(c *Config) { c.Harvest.MaxImages = 0 }, "max images must be positive"},
		{"zero workers", func(c *Config) { c.Harvest.Workers = 0 }, "workers must be positive"},
		{"no queries", func(c *Config) { c.Harvest.Queries = nil }, "at least one search query is required"},
		{"bad log level", func(c *Config) { c.Logging.Level = "verbose" }, "invalid log level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidateReportsAllErrors(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Dataset.Path = ""
	cfg.Harvest.Workers = 0

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dataset path is required")
	assert.Contains(t, err.Error(), "workers must be positive")
}

func TestLoadPrecedence(t *testing.T) {
	content := `
harvest:
  max_images: 50
  workers: 8
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	// Env beats file; flags beat env.
	t.Setenv("METHARVEST_MAX_IMAGES", "30")

	cfg, err := Load(path, map[string]interface{}{"workers": 2})
	require.NoError(t, err)

	assert.Equal(t, 30, cfg.Harvest.MaxImages)
	assert.Equal(t, 2, cfg.Harvest.Workers)
}
