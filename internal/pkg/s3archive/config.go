package s3archive

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/ManuelReschke/PayFox/internal/pkg/env"
)

// Config holds the callback archive bucket configuration
type Config struct {
	AccessKeyID     string
	SecretAccessKey string
	Region          string
	BucketName      string
	EndpointURL     string // Optional for S3-compatible services
	Prefix          string
	Enabled         bool
}

// LoadConfig loads the archive configuration from environment variables
func LoadConfig() (*Config, error) {
	config := &Config{
		AccessKeyID:     env.GetEnv("S3_ACCESS_KEY_ID", ""),
		SecretAccessKey: env.GetEnv("S3_SECRET_ACCESS_KEY", ""),
		Region:          env.GetEnv("S3_REGION", "us-east-1"),
		BucketName:      env.GetEnv("S3_ARCHIVE_BUCKET", ""),
		EndpointURL:     env.GetEnv("S3_ENDPOINT_URL", ""),
		Prefix:          strings.Trim(env.GetEnv("S3_ARCHIVE_PREFIX", "callbacks"), "/"),
		Enabled:         env.GetEnv("S3_ARCHIVE_ENABLED", "false") == "true",
	}

	// Validate required fields if the archive is enabled
	if config.Enabled {
		if config.AccessKeyID == "" {
			return nil, errors.New("S3_ACCESS_KEY_ID is required when the callback archive is enabled")
		}
		if config.SecretAccessKey == "" {
			return nil, errors.New("S3_SECRET_ACCESS_KEY is required when the callback archive is enabled")
		}
		if config.BucketName == "" {
			return nil, errors.New("S3_ARCHIVE_BUCKET is required when the callback archive is enabled")
		}
	}

	return config, nil
}

// IsEnabled returns true if callbacks are archived
func (c *Config) IsEnabled() bool {
	return c.Enabled
}

var unsafeKeyChars = regexp.MustCompile(`[^A-Za-z0-9._-]`)

// ObjectKey generates the object key for one archived callback.
// Format: <prefix>/<ledger>/YYYY/MM/DD/<txn>-<unixnano>.json
func (c *Config) ObjectKey(ledger, transactionID string, receivedAt time.Time) string {
	t := receivedAt.UTC()
	txn := unsafeKeyChars.ReplaceAllString(transactionID, "_")
	if txn == "" {
		txn = "unknown"
	}
	key := fmt.Sprintf("%s/%04d/%02d/%02d/%s-%d.json", ledger, t.Year(), t.Month(), t.Day(), txn, t.UnixNano())
	if c.Prefix == "" {
		return key
	}
	return c.Prefix + "/" + key
}
