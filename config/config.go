package config

import (
	"sync"

	"github.com/spf13/viper"

	"github.com/kochabx/apiclient/core/validator"
	"github.com/kochabx/apiclient/log"
)

// Config manages the client settings
type Config struct {
	mu       sync.RWMutex        // protects settings
	viper    *viper.Viper        // viper instance for configuration management
	validate validator.Validator // validator for configuration validation
	settings Settings
	loader   Loader
	file     string
	optional bool
	watch    bool // whether Watch follows file changes
	logger   *log.Logger
	onReload []func(Settings)
}

// New creates a new Config instance with the given options.
// If no loader is provided, a FileLoader is created over the configured file.
func New(opts ...Option) *Config {
	c := &Config{
		viper:    viper.New(),
		validate: validator.Validate,
		watch:    true,
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.logger == nil {
		c.logger = log.G.Component("config")
	}
	if c.loader == nil {
		c.loader = NewFileLoader(c.file, c.optional, c.viper, c.validate)
	}

	return c
}

// Load reads the settings using the configured loader. On error the
// previous settings are kept.
func (c *Config) Load() error {
	var next Settings
	if err := c.loader.Load(&next); err != nil {
		return err
	}

	c.mu.Lock()
	c.settings = next
	c.mu.Unlock()
	return nil
}

// Reload reloads the settings and notifies OnReload callbacks
func (c *Config) Reload() error {
	if err := c.Load(); err != nil {
		return err
	}

	s := c.Snapshot()
	for _, fn := range c.onReload {
		fn(s)
	}
	return nil
}

// Snapshot returns a copy of the current settings
func (c *Config) Snapshot() Settings {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.settings
}

// ServerURL returns the current base URL. It is meant to be handed to
// dispatcher.New so a reload takes effect on the next request.
func (c *Config) ServerURL() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.settings.ServerURL
}

// Set overrides one key, e.g. from a command line flag, and reloads
func (c *Config) Set(key string, value any) error {
	c.viper.Set(key, value)
	return c.Load()
}

// Watch sets up automatic configuration watching if enabled
func (c *Config) Watch() error {
	if !c.watch {
		return nil
	}

	return c.loader.Watch(func() {
		c.logger.Info().Msg("config change detected")

		if err := c.Reload(); err != nil {
			c.logger.Error().Err(err).Msg("failed to reload config after change")
			return
		}

		c.logger.Info().Str("server_url", c.ServerURL()).Msg("config reloaded successfully")
	})
}

// GetViper returns the underlying viper instance
func (c *Config) GetViper() *viper.Viper {
	return c.viper
}
