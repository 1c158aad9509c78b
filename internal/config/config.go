package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// imdsTokenEndpoint is the Azure Instance Metadata Service token endpoint
// available from inside any Azure compute resource with a managed identity.
const imdsTokenEndpoint = "http://169.254.169.254/metadata/identity/oauth2/token"

// Config holds all configuration for the application
type Config struct {
	// Application settings
	Port       string `envconfig:"PORT" default:"8000"`
	AppName    string `envconfig:"APP_NAME" default:"Redis Cache API"`
	AppVersion string `envconfig:"APP_VERSION" default:"1.0.0"`
	Debug      bool   `envconfig:"DEBUG" default:"false"`

	// Default key for GET /cache when no key is provided
	DefaultKey string `envconfig:"DEFAULT_KEY" default:"default"`

	// Store connection settings
	RedisHost     string `envconfig:"REDIS_HOST" default:"localhost"`
	RedisPort     int    `envconfig:"REDIS_PORT" default:"6379"`
	RedisPassword string `envconfig:"REDIS_PASSWORD"`
	RedisUsername string `envconfig:"REDIS_USERNAME"`
	RedisSSL      bool   `envconfig:"REDIS_SSL" default:"false"`
	RedisDB       int    `envconfig:"REDIS_DB" default:"0"`

	// Connection-level policies applied once at client build time
	RedisConnectTimeout   time.Duration `envconfig:"REDIS_CONNECT_TIMEOUT" default:"5s"`
	RedisRequestTimeout   time.Duration `envconfig:"REDIS_REQUEST_TIMEOUT" default:"5s"`
	RedisLivenessInterval time.Duration `envconfig:"REDIS_LIVENESS_INTERVAL" default:"30s"`

	// Managed identity (Entra ID) authentication
	RedisUseEntraID  bool   `envconfig:"REDIS_USE_ENTRAID" default:"false"`
	AzureClientID    string `envconfig:"AZURE_CLIENT_ID"`
	IdentityEndpoint string `envconfig:"IDENTITY_ENDPOINT"`
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	if err != nil {
		return nil, err
	}

	if cfg.IdentityEndpoint == "" {
		cfg.IdentityEndpoint = imdsTokenEndpoint
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// validate rejects configurations that would select conflicting auth modes.
func (c *Config) validate() error {
	if c.RedisUseEntraID && c.RedisPassword != "" {
		return fmt.Errorf("REDIS_USE_ENTRAID and REDIS_PASSWORD are mutually exclusive")
	}
	if c.RedisPort <= 0 || c.RedisPort > 65535 {
		return fmt.Errorf("REDIS_PORT %d out of range", c.RedisPort)
	}
	if c.RedisDB < 0 {
		return fmt.Errorf("REDIS_DB must not be negative")
	}
	return nil
}

// RedisAddr returns the host:port address of the store.
func (c *Config) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.RedisHost, c.RedisPort)
}
