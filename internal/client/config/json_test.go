package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseJSON_AllFields(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "conf.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"backend_url": "https://json.example",
		"backend_api_key": "anon",
		"request_timeout": 15000000000,
		"local_db_path": "cache.db",
		"s3_region": "eu-central-1",
		"s3_endpoint": "http://127.0.0.1:9000",
		"s3_access_key": "ak",
		"s3_secret_key": "sk",
		"s3_bucket": "buck"
	}`), 0o600))
	resetArgs(t, "-config="+path)

	var cfg Config
	cfg.LoadDefaults()
	parseJSON(&cfg)

	assert.Equal(t, "https://json.example", cfg.BackendURL)
	assert.Equal(t, "anon", cfg.BackendAPIKey)
	assert.Equal(t, 15*time.Second, cfg.RequestTimeout)
	assert.Equal(t, "cache.db", cfg.LocalDBPath)
	assert.Equal(t, "eu-central-1", cfg.Storage.Region)
	assert.Equal(t, "http://127.0.0.1:9000", cfg.Storage.BaseEndpoint)
	assert.Equal(t, "ak", cfg.Storage.AccessKey)
	assert.Equal(t, "sk", cfg.Storage.SecretKey)
	assert.Equal(t, "buck", cfg.Storage.Bucket)
}

func TestParseJSON_NoFlagIsNoop(t *testing.T) {
	resetArgs(t)

	var cfg Config
	cfg.LoadDefaults()
	before := cfg
	parseJSON(&cfg)

	assert.Equal(t, before, cfg)
}

func TestParseJSON_MissingFilePanics(t *testing.T) {
	resetArgs(t, "-c", filepath.Join(t.TempDir(), "nope.json"))

	var cfg Config
	cfg.LoadDefaults()

	assert.Panics(t, func() { parseJSON(&cfg) })
}

func TestParseJSON_BadJSONPanics(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "conf.json")
	require.NoError(t, os.WriteFile(path, []byte(`{broken`), 0o600))
	resetArgs(t, "-c", path)

	var cfg Config
	cfg.LoadDefaults()

	assert.Panics(t, func() { parseJSON(&cfg) })
}
