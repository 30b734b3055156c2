package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAppliesDefaults(t *testing.T) {
	c, err := Parse([]byte("environment: test\n"))
	require.NoError(t, err)

	assert.Equal(t, "test", c.Environment)
	assert.Equal(t, "http://localhost:8000", c.Analysis.BaseURL)
	assert.Equal(t, []string{"BTC", "ETH"}, c.Analysis.Assets)
	assert.Equal(t, "BTC", c.Analysis.DefaultAsset)
	assert.Equal(t, 10*time.Second, c.Analysis.Timeout)
	assert.Equal(t, "none", c.Cache.Type)
	assert.Equal(t, "none", c.Sink.Type)
	assert.Equal(t, 8080, c.Server.Port)
	assert.Equal(t, "info", c.Log.Level)
}

func TestParseNormalizesAssets(t *testing.T) {
	c, err := Parse([]byte(`
analysis:
  base_url: http://analysis:8000/
  assets: [" btc", "eth", "sol"]
  default_asset: eth
`))
	require.NoError(t, err)
	assert.Equal(t, []string{"BTC", "ETH", "SOL"}, c.Analysis.Assets)
	assert.Equal(t, "ETH", c.Analysis.DefaultAsset)
	assert.Equal(t, "http://analysis:8000", c.Analysis.BaseURL)
}

func TestParseRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"unknown cache type", "cache:\n  type: disk\n"},
		{"unknown sink type", "sink:\n  type: s3\n"},
		{"bad asset symbol", "analysis:\n  assets: [\"BTC-USD\"]\n"},
		{"default asset not listed", "analysis:\n  assets: [ETH]\n  default_asset: BTC\n"},
		{"kafka sink without brokers", "sink:\n  type: kafka\nkafka:\n  brokers: []\n"},
		{"bad base url", "analysis:\n  base_url: not a url\n"},
		{"bad log level", "log:\n  level: loud\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestLoadWithEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("environment: test\n"), 0o600))

	t.Setenv("ANALYSIS_BASE_URL", "http://remote:9000")
	t.Setenv("ASSETS", "BTC,ETH,DOGE")
	t.Setenv("CACHE_TYPE", "redis")
	t.Setenv("REDIS_PORT", " 6380 ")
	t.Setenv("CLICKHOUSE_PORT", "9440")
	t.Setenv("PORT", "not-a-port")

	c, err := LoadWithEnv(path)
	require.NoError(t, err)
	assert.Equal(t, "http://remote:9000", c.Analysis.BaseURL)
	assert.Equal(t, []string{"BTC", "ETH", "DOGE"}, c.Analysis.Assets)
	assert.Equal(t, "redis", c.Cache.Type)
	assert.Equal(t, 6380, c.Cache.Redis.Port)
	assert.Equal(t, 9440, c.ClickHouse.Port)
	assert.Equal(t, 8080, c.Server.Port, "unparsable PORT keeps the configured value")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestRepositoryConfigIsValid(t *testing.T) {
	_, err := Load(filepath.Join("..", "..", "config", "config.yaml"))
	assert.NoError(t, err)
}
