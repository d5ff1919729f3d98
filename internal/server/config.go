package server

import (
	"fmt"
	"time"

	"github.com/Veraticus/tally/internal/common"
)

// Config holds the HTTP service settings.
type Config struct {
	Addr           string
	MaxUploadMB    int64
	MaxConcurrent  int
	RequestTimeout time.Duration
	// TLS serves HTTPS with a self-signed localhost certificate kept in CertDir.
	TLS     bool
	CertDir string
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Addr:           ":8080",
		MaxUploadMB:    20,
		MaxConcurrent:  4,
		RequestTimeout: 2 * time.Minute,
	}
}

// Validate checks the configuration for unusable values.
func (c Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("%w: server.addr is required", common.ErrMissingConfig)
	}
	if c.MaxUploadMB <= 0 {
		return fmt.Errorf("%w: server.max_upload_mb must be positive", common.ErrInvalidConfig)
	}
	if c.MaxConcurrent <= 0 {
		return fmt.Errorf("%w: server.max_concurrent must be positive", common.ErrInvalidConfig)
	}
	if c.TLS && c.CertDir == "" {
		return fmt.Errorf("%w: server.cert_dir is required with TLS", common.ErrMissingConfig)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("%w: server.request_timeout must be positive", common.ErrInvalidConfig)
	}
	return nil
}
