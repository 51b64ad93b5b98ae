package common

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Flag names shared by several commands.
const (
	ConfigFlag          = "config"
	ConfigFlagShorthand = "c"
	ConfigFlagUsage     = "Path to config file (default is $HOME/.config/segstore/config.yaml)"

	PathFlag          = "path"
	PathFlagShorthand = "p"
	PathFlagUsage     = "Path to container file, overrides storage.path"

	IndexFlag      = "index"
	IndexFlagUsage = "Path to index database, overrides storage.index_path"

	FileFlag          = "file"
	FileFlagShorthand = "f"

	NoProgressFlag      = "no-progress"
	NoProgressFlagUsage = "Do not show progress bar"
)

// AddStorageFlags adds flags locating storage files to the command and its
// children.
func AddStorageFlags(cmd *cobra.Command) {
	addStorageFlags(cmd.PersistentFlags())
}

func addStorageFlags(ff *pflag.FlagSet) {
	ff.StringP(ConfigFlag, ConfigFlagShorthand, "", ConfigFlagUsage)
	ff.StringP(PathFlag, PathFlagShorthand, "", PathFlagUsage)
	ff.String(IndexFlag, "", IndexFlagUsage)
}

// AddFileFlag adds flag with path to the local file.
func AddFileFlag(cmd *cobra.Command, usage string) {
	cmd.Flags().StringP(FileFlag, FileFlagShorthand, "", usage)
}
