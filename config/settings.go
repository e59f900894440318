package config

import (
	"io"
	"os"
	"time"

	"github.com/spf13/viper"

	"github.com/kochabx/apiclient/log"
	"github.com/kochabx/apiclient/log/writer"
)

// EnvPrefix is prepended to every environment override, e.g. APICLIENT_SERVER_URL
const EnvPrefix = "APICLIENT"

// Settings is the client configuration
type Settings struct {
	ServerURL   string        `json:"server_url" mapstructure:"server_url" validate:"required,url"`
	LoginPath   string        `json:"login_path" mapstructure:"login_path" validate:"required,startswith=/"`
	LoginView   string        `json:"login_view" mapstructure:"login_view" validate:"required,startswith=/"`
	Timeout     time.Duration `json:"timeout" mapstructure:"timeout" validate:"gte=0"`
	Concurrency int           `json:"concurrency" mapstructure:"concurrency" validate:"gte=0"`
	Log         LogSettings   `json:"log" mapstructure:"log"`
}

// LogSettings selects the log level and an optional rotating file
type LogSettings struct {
	Level string `json:"level" mapstructure:"level" validate:"omitempty,oneof=trace debug info warn error disabled"`
	// File is the log directory; empty logs to the console only
	File   string `json:"file" mapstructure:"file"`
	Rotate string `json:"rotate" mapstructure:"rotate" validate:"omitempty,oneof=size time"`
}

// SetDefaults registers the default of every key. Keys must be known to
// viper for AutomaticEnv to pick up their overrides during Unmarshal.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("server_url", "")
	v.SetDefault("login_path", "/apis/users/login")
	v.SetDefault("login_view", "/user-login")
	v.SetDefault("timeout", 30*time.Second)
	v.SetDefault("concurrency", 0)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "")
	v.SetDefault("log.rotate", "size")
}

// Logger builds the logger described by s. Without a file it writes to
// console, os.Stdout when nil; with one it writes to the file only.
func (s LogSettings) Logger(console io.Writer, opts ...log.Option) (*log.Logger, error) {
	level, err := log.ParseLevel(s.Level)
	if err != nil {
		return nil, err
	}
	opts = append([]log.Option{log.WithLevel(level)}, opts...)

	if s.File == "" {
		if console == nil {
			console = os.Stdout
		}
		return log.NewConsole(console, opts...), nil
	}

	mode, err := writer.ParseRotateMode(s.Rotate)
	if err != nil {
		return nil, err
	}
	return log.NewFile(log.FileConfig{Filepath: s.File, RotateMode: mode}, opts...)
}
