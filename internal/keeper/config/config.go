package config

import (
	"fmt"
	"strings"

	"golang-verdict-keeper/pkg/common"
	"golang-verdict-keeper/pkg/config"
)

// Config holds the full configuration for the verdict keeper.
type Config struct {
	App      config.App      `mapstructure:"app"`
	Logger   config.Logger   `mapstructure:"logger"`
	Database config.Database `mapstructure:"database"`
}

// Load loads the keeper configuration from the given path.
func Load(path string) (*Config, error) {
	var cfg Config
	if err := config.Load(path, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the required connection settings and applies the
// database name default. All missing fields are reported at once.
func (c *Config) Validate() error {
	var missing []string
	if c.Database.Host == "" {
		missing = append(missing, "database.host")
	}
	if c.Database.Port == 0 {
		missing = append(missing, "database.port")
	}
	if c.Database.User == "" {
		missing = append(missing, "database.user")
	}
	if c.Database.Password == "" {
		missing = append(missing, "database.password")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required config fields: %s", strings.Join(missing, ", "))
	}
	if c.Database.DBName == "" {
		c.Database.DBName = common.DefaultDatabaseName
	}
	return nil
}
