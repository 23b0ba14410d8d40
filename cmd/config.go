package cmd

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

const (
	defaultPort          = 8080
	defaultMaxUsers      = 4
	defaultMinUsers      = 1
	defaultPingPeriodSec = 30
)

type Config struct {
	Apps struct {
		LogLevel string `yaml:"log_level"`
		Rest     struct {
			Port int `yaml:"port"`
		} `yaml:"rest"`
	} `yaml:"apps"`
	Rooms struct {
		MaxUsers      int `yaml:"max_users"`
		MinUsers      int `yaml:"min_users"`
		PingPeriodSec int `yaml:"ping_period_sec"`
	} `yaml:"rooms"`
}

// ParseConfig reads the YAML config at path. A missing file is not an
// error: defaults are returned so the server can run unconfigured.
func ParseConfig(path string, logger *zap.Logger) (*Config, error) {
	var config Config

	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Warn("Config file not found, using defaults", zap.String("path", path))
			config.applyDefaults()
			return &config, nil
		}
		logger.Error("Failed to open config file", zap.Error(err))
		return nil, fmt.Errorf("error opening file %w", err)
	}
	defer file.Close()

	err = yaml.NewDecoder(file).Decode(&config)
	if err != nil {
		logger.Error("Failed to decode config file", zap.Error(err))
		return nil, fmt.Errorf("error decoding file %w", err)
	}

	config.applyDefaults()
	return &config, nil
}

// applyDefaults fills unset or out-of-range values. MaxUsers and MinUsers
// must both be at least 1.
func (c *Config) applyDefaults() {
	if c.Apps.Rest.Port <= 0 {
		c.Apps.Rest.Port = defaultPort
	}
	if c.Rooms.MaxUsers < 1 {
		c.Rooms.MaxUsers = defaultMaxUsers
	}
	if c.Rooms.MinUsers < 1 {
		c.Rooms.MinUsers = defaultMinUsers
	}
	if c.Rooms.PingPeriodSec < 0 {
		c.Rooms.PingPeriodSec = 0
	} else if c.Rooms.PingPeriodSec == 0 {
		c.Rooms.PingPeriodSec = defaultPingPeriodSec
	}
}
