package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/arthlor/yeser/internal/flagx"
	"github.com/arthlor/yeser/internal/timex"
)

// jsonConfig is the DTO for the optional JSON config file. timex.Duration
// lets intervals be written either as strings like "10s" or as integer
// nanoseconds.
type jsonConfig struct {
	BackendURL     string         `json:"backend_url"`
	BackendAPIKey  string         `json:"backend_api_key"`
	RequestTimeout timex.Duration `json:"request_timeout"`
	LocalDBPath    string         `json:"local_db_path"`
	S3Region       string         `json:"s3_region"`
	S3Endpoint     string         `json:"s3_endpoint"`
	S3AccessKey    string         `json:"s3_access_key"`
	S3SecretKey    string         `json:"s3_secret_key"`
	S3Bucket       string         `json:"s3_bucket"`
}

// parseJSON overlays Config with values from the JSON file named by the
// -c/-config flag. No flag, no JSON stage. Read or decode errors panic;
// a broken explicit config file should not be silently ignored.
func parseJSON(cfg *Config) {
	path := flagx.ConfigFileFlag()
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	var jc jsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.BackendURL != "" {
		cfg.BackendURL = jc.BackendURL
	}
	if jc.BackendAPIKey != "" {
		cfg.BackendAPIKey = jc.BackendAPIKey
	}
	if jc.RequestTimeout.Duration != 0 {
		cfg.RequestTimeout = time.Duration(jc.RequestTimeout.Duration)
	}
	if jc.LocalDBPath != "" {
		cfg.LocalDBPath = jc.LocalDBPath
	}
	if jc.S3Region != "" {
		cfg.Storage.Region = jc.S3Region
	}
	if jc.S3Endpoint != "" {
		cfg.Storage.BaseEndpoint = jc.S3Endpoint
	}
	if jc.S3AccessKey != "" {
		cfg.Storage.AccessKey = jc.S3AccessKey
	}
	if jc.S3SecretKey != "" {
		cfg.Storage.SecretKey = jc.S3SecretKey
	}
	if jc.S3Bucket != "" {
		cfg.Storage.Bucket = jc.S3Bucket
	}
}
