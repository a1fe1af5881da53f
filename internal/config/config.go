// Package config provides configuration management for the scraper.
package config

import (
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration values for the scraper.
type Config struct {
	// Source page
	BaseURL    string
	TargetPath string

	// Scraping
	Limit       int
	HTTPTimeout time.Duration
	MaxRetries  int

	// Storage
	DynamoDBTable string // empty disables DynamoDB, CSV fallback takes over
	CSVPath       string
	S3Bucket      string // empty disables S3 snapshots

	// AWS / application
	AWSRegion string
	LogLevel  string
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	// Load .env file if it exists (for local development)
	_ = godotenv.Load()

	cfg := &Config{
		BaseURL:    getEnv("BASE_URL", "https://ultimosismo.igp.gob.pe"),
		TargetPath: getEnv("TARGET_PATH", "/ultimo-sismo/sismos-reportados"),

		Limit:       getEnvInt("LIMIT", 10),
		HTTPTimeout: time.Duration(getEnvInt("HTTP_TIMEOUT_SECONDS", 10)) * time.Second,
		MaxRetries:  getEnvInt("MAX_RETRIES", 3),

		DynamoDBTable: getEnv("DDB_TABLE", ""),
		CSVPath:       getEnv("CSV_PATH", "sismos.csv"),
		S3Bucket:      getEnv("S3_BUCKET", ""),

		AWSRegion: getEnv("AWS_REGION", "us-east-1"),
		LogLevel:  getEnv("LOG_LEVEL", "info"),
	}

	return cfg, nil
}

// TargetURL returns the absolute URL of the reported-events page.
func (c *Config) TargetURL() string {
	base, err := url.Parse(c.BaseURL)
	if err != nil {
		return c.BaseURL + c.TargetPath
	}
	ref, err := url.Parse(c.TargetPath)
	if err != nil {
		return c.BaseURL + c.TargetPath
	}
	return base.ResolveReference(ref).String()
}

// DynamoDBEnabled reports whether events should be written to DynamoDB.
func (c *Config) DynamoDBEnabled() bool {
	return c.DynamoDBTable != ""
}

// S3Enabled reports whether snapshots should be uploaded to S3.
func (c *Config) S3Enabled() bool {
	return c.S3Bucket != ""
}

// getEnv retrieves an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt retrieves an environment variable as int or returns a default value.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}
