package config

import (
	"github.com/spf13/viper"

	"github.com/Veraticus/tally/internal/server"
	"github.com/Veraticus/tally/internal/taxonomy"
)

// LoadServerConfig reads the HTTP service settings.
func LoadServerConfig() (*server.Config, error) {
	config := server.DefaultConfig()

	if v := viper.GetString("server.addr"); v != "" {
		config.Addr = v
	}
	if viper.IsSet("server.max_upload_mb") {
		config.MaxUploadMB = viper.GetInt64("server.max_upload_mb")
	}
	if viper.IsSet("server.max_concurrent") {
		config.MaxConcurrent = viper.GetInt("server.max_concurrent")
	}
	if viper.IsSet("server.request_timeout") {
		config.RequestTimeout = viper.GetDuration("server.request_timeout")
	}

	config.TLS = viper.GetBool("server.tls")
	if v := viper.GetString("server.cert_dir"); v != "" {
		config.CertDir = ExpandPath(v)
	} else if config.TLS {
		config.CertDir = ExpandPath("~/.config/tally/certs")
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// LoadTaxonomy returns the taxonomy named by taxonomy.file, or the built-in
// default when none is configured.
func LoadTaxonomy() (*taxonomy.Taxonomy, error) {
	path := viper.GetString("taxonomy.file")
	if path == "" {
		return taxonomy.Default(), nil
	}
	return taxonomy.Load(ExpandPath(path))
}
