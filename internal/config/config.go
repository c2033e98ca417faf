// Package config defines service configuration structures and loading hooks.
//
// Configuration is layered: compiled defaults, then an optional YAML file,
// then environment variables with the AISVC_ prefix. External errors are
// wrapped via this package's sentinel kinds.
package config

// Config contains process configuration for the AI service.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// APIKey is the shared key clients must present in X-API-Key. The
	// default is a development key; deployments override it.
	APIKey string `koanf:"api_key"`

	// AllowedOrigins configures CORS. The default is permissive because the
	// service normally sits behind the platform API gateway.
	AllowedOrigins []string `koanf:"allowed_origins"`

	// MaxSegmentationBatch caps the number of HCP profiles accepted in a
	// single classification request.
	MaxSegmentationBatch int `koanf:"max_segmentation_batch"`

	// MetricsEnabled toggles the /metrics endpoint.
	MetricsEnabled bool `koanf:"metrics_enabled"`
}

// New creates a Config with compiled defaults.
func New() *Config {
	return &Config{
		LogLevel:             "info",
		Addr:                 ":8090",
		APIKey:               "dev-key",
		AllowedOrigins:       []string{"*"},
		MaxSegmentationBatch: 1000,
		MetricsEnabled:       true,
	}
}
