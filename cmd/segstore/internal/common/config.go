package common

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/mitchellh/go-homedir"
	"github.com/nspcc-dev/segstore/cmd/segstore/config"
	"github.com/spf13/cobra"
)

// DefaultConfigPath is used when no config file is specified explicitly.
// Missing file at this path is not an error.
const DefaultConfigPath = "~/.config/segstore/config.yaml"

// ReadConfig reads config from the file specified by ConfigFlag (or the
// default one) and applies storage location flags on top of it.
func ReadConfig(cmd *cobra.Command) (*config.Config, error) {
	p, _ := cmd.Flags().GetString(ConfigFlag)
	if p == "" {
		def, err := homedir.Expand(DefaultConfigPath)
		if err != nil {
			return nil, fmt.Errorf("resolve default config path: %w", err)
		}

		if _, err := os.Stat(def); err == nil {
			p = def
		} else if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("check default config file: %w", err)
		}
	}

	var opts []config.Option
	if p != "" {
		opts = append(opts, config.WithConfigFile(p))
	}

	c, err := config.New(opts...)
	if err != nil {
		return nil, err
	}

	storage := c.Sub("storage")
	for flag, key := range map[string]string{
		PathFlag:  "path",
		IndexFlag: "index_path",
	} {
		if v, _ := cmd.Flags().GetString(flag); v != "" {
			storage.Set(key, v)
		}
	}

	return c, nil
}
