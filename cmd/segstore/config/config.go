package config

import (
	"fmt"
	"strings"

	"github.com/nspcc-dev/segstore/cmd/segstore/config/internal"
	"github.com/spf13/viper"
)

// Config represents a group of named values structured
// by tree type.
//
// Sub-trees are named configuration sub-sections,
// leaves are named configuration values.
// Names are of string type.
type Config struct {
	v *viper.Viper

	path []string
}

const separator = "."

// Option is a Config constructor option.
type Option func(*opts)

type opts struct {
	path string
}

func defaultOpts() *opts {
	return new(opts)
}

// WithConfigFile returns option to read configuration values from the file.
// File type is determined by its extension.
func WithConfigFile(path string) Option {
	return func(o *opts) {
		o.path = path
	}
}

// New creates a new Config instance.
//
// If file option is provided (WithConfigFile),
// configuration values are read from it.
// Otherwise, Config is a degenerate tree.
// Values of ENV variables (see internal.Env) override file ones.
func New(options ...Option) (*Config, error) {
	v := viper.New()

	v.SetEnvPrefix(internal.EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(separator, internal.EnvSeparator))

	o := defaultOpts()
	for i := range options {
		options[i](o)
	}

	if o.path != "" {
		v.SetConfigFile(o.path)

		err := v.ReadInConfig()
		if err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	return &Config{
		v: v,
	}, nil
}

// Set overrides configuration value by name. It is used to apply command
// line flags.
func (x *Config) Set(name string, value any) {
	x.v.Set(strings.Join(append(x.path, name), separator), value)
}
