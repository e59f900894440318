package config

import (
	"io/fs"
	"path"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"

	"github.com/kochabx/apiclient/core/validator"
	"github.com/kochabx/apiclient/errors"
)

// FileLoader loads configuration from an optional file, environment
// variables and registered defaults, in increasing order of precedence
// env > file > defaults.
type FileLoader struct {
	viper    *viper.Viper
	validate validator.Validator
	file     string
	optional bool
}

// NewFileLoader creates a loader for file. An empty file means env and
// defaults only. With optional set, a missing file is not an error.
func NewFileLoader(file string, optional bool, v *viper.Viper, validate validator.Validator) *FileLoader {
	if file != "" {
		v.SetConfigFile(file)
		if ext := strings.TrimPrefix(path.Ext(file), "."); ext != "" {
			v.SetConfigType(ext)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	SetDefaults(v)

	return &FileLoader{
		viper:    v,
		validate: validate,
		file:     file,
		optional: optional,
	}
}

// Load implements Loader interface
func (l *FileLoader) Load(target any) error {
	if l.file != "" {
		if err := l.viper.ReadInConfig(); err != nil {
			if !l.optional || !isNotFound(err) {
				return errors.New(errors.KindInvalid, 404, "config file %s: %v", l.file, err)
			}
		}
	}

	if err := l.viper.Unmarshal(target); err != nil {
		return errors.New(errors.KindInvalid, 500, "config parse error: %v", err)
	}

	if l.validate != nil {
		if err := l.validate.Struct(target); err != nil {
			return errors.Wrap(err, errors.KindInvalid, 400, "config validation failed: %v", err)
		}
	}

	return nil
}

// Watch implements Loader interface. Without a file there is nothing to watch.
func (l *FileLoader) Watch(callback func()) error {
	if l.file == "" {
		return nil
	}

	l.viper.OnConfigChange(func(e fsnotify.Event) {
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			return
		}
		if callback != nil {
			callback()
		}
	})

	l.viper.WatchConfig()
	return nil
}

func isNotFound(err error) bool {
	var nf viper.ConfigFileNotFoundError
	if errors.As(err, &nf) {
		return true
	}
	return errors.Is(err, fs.ErrNotExist)
}
