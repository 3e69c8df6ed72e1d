// Package config loads runtime configuration from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds everything the serve command needs to wire the process.
// Variables are read with the POSTBOARD_ prefix, e.g. POSTBOARD_MONGO_URI.
type Config struct {
	Port       int           `envconfig:"PORT" default:"8080"`
	MongoURI   string        `envconfig:"MONGO_URI" default:"mongodb://localhost:27017"`
	MongoDB    string        `envconfig:"MONGO_DB" default:"postboard"`
	AuthDBPath string        `envconfig:"AUTH_DB_PATH" default:"data/auth"`
	SessionTTL time.Duration `envconfig:"SESSION_TTL" default:"720h"`
	BcryptCost int           `envconfig:"BCRYPT_COST" default:"10"`
	LogLevel   string        `envconfig:"LOG_LEVEL" default:"info"`
}

// Load reads and validates the configuration.
func Load() (Config, error) {
	var cfg Config
	if err := envconfig.Process("postboard", &cfg); err != nil {
		return Config{}, fmt.Errorf("process env config: %w", err)
	}
	return cfg, nil
}
