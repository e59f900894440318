package config

import (
	"github.com/spf13/viper"

	"github.com/kochabx/apiclient/core/validator"
	"github.com/kochabx/apiclient/log"
)

// Option is a function that configures a Config
type Option func(*Config)

// WithViper sets a custom viper instance
func WithViper(v *viper.Viper) Option {
	return func(c *Config) {
		c.viper = v
	}
}

// WithValidator sets a custom validator
func WithValidator(v validator.Validator) Option {
	return func(c *Config) {
		c.validate = v
	}
}

// WithLoader sets the configuration loader
func WithLoader(loader Loader) Option {
	return func(c *Config) {
		c.loader = loader
	}
}

// WithFile reads settings from file. Unless optional, a missing file fails Load.
func WithFile(file string, optional bool) Option {
	return func(c *Config) {
		c.file = file
		c.optional = optional
	}
}

// WithWatch enables or disables automatic configuration watching
func WithWatch(enable bool) Option {
	return func(c *Config) {
		c.watch = enable
	}
}

// WithLogger sets the logger reload events are written to
func WithLogger(l *log.Logger) Option {
	return func(c *Config) {
		c.logger = l
	}
}

// OnReload registers fn to run with the new settings after each successful reload
func OnReload(fn func(Settings)) Option {
	return func(c *Config) {
		c.onReload = append(c.onReload, fn)
	}
}
