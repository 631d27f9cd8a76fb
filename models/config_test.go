package models

import (
	"os"
	"path"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfig(t *testing.T) {
	t.Run("should read defaults from a yaml file", func(t *testing.T) {
		configFilePath := path.Join(t.TempDir(), "config.yml")
		assert.NoError(t, os.WriteFile(configFilePath, []byte(
			"debug: true\n"+
				"api:\n"+
				"  port: \"5000\"\n"+
				"  feedpath: /data/feeds\n"+
				"elasticsearch:\n"+
				"  url: http://localhost:9200\n"), 0644))

		cfg, err := LoadConfig(configFilePath)
		assert.NoError(t, err)

		assert.True(t, cfg.Debug)
		assert.Equal(t, "5000", cfg.Api.Port)
		assert.Equal(t, "/data/feeds", cfg.Api.FeedPath)
		assert.Equal(t, "http://localhost:9200", cfg.Elasticsearch.Url)
	})

	t.Run("should let environment variables override file values", func(t *testing.T) {
		configFilePath := path.Join(t.TempDir(), "config.yml")
		assert.NoError(t, os.WriteFile(configFilePath, []byte("api:\n  port: \"5000\"\n"), 0644))

		t.Setenv("VARIOME_API_INTERNAL_PORT", "8080")

		cfg, err := LoadConfig(configFilePath)
		assert.NoError(t, err)
		assert.Equal(t, "8080", cfg.Api.Port)
	})

	t.Run("should work without a file", func(t *testing.T) {
		cfg, err := LoadConfig("")
		assert.NoError(t, err)
		assert.NotNil(t, cfg)
	})

	t.Run("should reject a missing file", func(t *testing.T) {
		_, err := LoadConfig("/nonexistent/config.yml")
		assert.Error(t, err)
	})
}
