// Package config loads mongo-init settings from the environment.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Capi12YT/demo-avoris/mongoinit/log"
	"github.com/Capi12YT/demo-avoris/mongoinit/mongo"
	"github.com/Capi12YT/demo-avoris/mongoinit/provision"
	libZap "github.com/Capi12YT/demo-avoris/mongoinit/zap"
	"github.com/caarlos0/env/v11"
)

// ErrInvalidConfig is returned when a loaded value cannot be used.
var ErrInvalidConfig = errors.New("invalid mongo-init config")

// Config holds every setting the bootstrap reads from the environment.
// Defaults provision the application database.
type Config struct {
	EnvName  string `env:"ENV_NAME"  envDefault:"local"`
	LogLevel string `env:"LOG_LEVEL"`

	// URI takes precedence over Host and Port when set.
	URI  string `env:"MONGO_INIT_URI"`
	Host string `env:"MONGO_INIT_HOST" envDefault:"localhost"`
	Port string `env:"MONGO_INIT_PORT" envDefault:"27017"`

	// Provisioning fields default to provision.DefaultPlan, seeded by Load.
	Database   string `env:"MONGO_INIT_DATABASE"`
	Username   string `env:"MONGO_INIT_USERNAME"`
	Password   string `env:"MONGO_INIT_PASSWORD"`
	Role       string `env:"MONGO_INIT_ROLE"`
	Collection string `env:"MONGO_INIT_COLLECTION"`
	IndexField string `env:"MONGO_INIT_INDEX_FIELD"`

	Timeout                time.Duration `env:"MONGO_INIT_TIMEOUT"                  envDefault:"30s"`
	ServerSelectionTimeout time.Duration `env:"MONGO_INIT_SERVER_SELECTION_TIMEOUT" envDefault:"5s"`

	// TLSCACert is a base64 encoded PEM bundle. Empty disables explicit TLS.
	TLSCACert string `env:"MONGO_INIT_TLS_CA_CERT"`
}

// Load parses the environment over the default plan and validates the result.
func Load() (Config, error) {
	cfg := fromPlan(provision.DefaultPlan())
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func fromPlan(plan provision.Plan) Config {
	return Config{
		Database:   plan.Database,
		Username:   plan.Username,
		Password:   plan.Password,
		Role:       plan.Role,
		Collection: plan.Collection,
		IndexField: plan.IndexField,
	}
}

// Validate checks values the parser cannot.
func (c Config) Validate() error {
	if strings.TrimSpace(c.EnvName) != "" {
		if _, err := libZap.ParseEnvironment(c.EnvName); err != nil {
			return fmt.Errorf("%w: ENV_NAME: %w", ErrInvalidConfig, err)
		}
	}

	if strings.TrimSpace(c.LogLevel) != "" {
		if _, err := log.ParseLevel(c.LogLevel); err != nil {
			return fmt.Errorf("%w: LOG_LEVEL: %w", ErrInvalidConfig, err)
		}
	}

	if c.Timeout <= 0 {
		return fmt.Errorf("%w: MONGO_INIT_TIMEOUT must be positive", ErrInvalidConfig)
	}

	if c.ServerSelectionTimeout <= 0 {
		return fmt.Errorf("%w: MONGO_INIT_SERVER_SELECTION_TIMEOUT must be positive", ErrInvalidConfig)
	}

	if err := c.Plan().Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	if _, err := c.MongoURI(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	return nil
}

// MongoURI returns MONGO_INIT_URI, or a URI built from host and port.
func (c Config) MongoURI() (string, error) {
	if uri := strings.TrimSpace(c.URI); uri != "" {
		return uri, nil
	}

	return mongo.BuildURI(mongo.URIConfig{Host: c.Host, Port: c.Port})
}

// Plan maps the provisioning fields onto a provision.Plan.
func (c Config) Plan() provision.Plan {
	return provision.Plan{
		Database:   c.Database,
		Username:   c.Username,
		Password:   c.Password,
		Role:       c.Role,
		Collection: c.Collection,
		IndexField: c.IndexField,
	}
}

// TLS returns the client TLS settings, or nil when no CA is configured.
func (c Config) TLS() *mongo.TLSConfig {
	if strings.TrimSpace(c.TLSCACert) == "" {
		return nil
	}

	return &mongo.TLSConfig{CACertBase64: strings.TrimSpace(c.TLSCACert)}
}
