package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

// parseEnv overlays Config with environment variables, loading a .env file
// first when one exists in the working directory. A missing .env is fine;
// plain environment variables still apply.
func parseEnv(cfg *Config) {
	_ = godotenv.Load()

	setString := func(key string, dst *string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}

	setString("YESER_BACKEND_URL", &cfg.BackendURL)
	setString("YESER_BACKEND_API_KEY", &cfg.BackendAPIKey)
	setString("YESER_LOCAL_DB", &cfg.LocalDBPath)
	setString("YESER_S3_REGION", &cfg.Storage.Region)
	setString("YESER_S3_ENDPOINT", &cfg.Storage.BaseEndpoint)
	setString("YESER_S3_ACCESS_KEY", &cfg.Storage.AccessKey)
	setString("YESER_S3_SECRET_KEY", &cfg.Storage.SecretKey)
	setString("YESER_S3_BUCKET", &cfg.Storage.Bucket)

	if v := os.Getenv("YESER_REQUEST_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.RequestTimeout = d
		}
	}
}
