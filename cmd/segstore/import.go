package main

import (
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"

	"github.com/cheggaaa/pb"
	"github.com/nspcc-dev/segstore/cmd/segstore/internal/common"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

const prefixFlag = "prefix"

func newImportCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <dir>",
		Short: "Store local directory tree",
		Long: `Store all regular files from the local directory. File path in the storage is
its path relative to the directory joined with --prefix.`,
		Args: cobra.ExactArgs(1),
		RunE: importDir,
	}

	ff := cmd.Flags()
	ff.String(prefixFlag, "/", "Storage path prefix")
	ff.Bool(common.NoProgressFlag, false, common.NoProgressFlagUsage)

	return cmd
}

func importDir(cmd *cobra.Command, args []string) error {
	root := args[0]
	prefix, _ := cmd.Flags().GetString(prefixFlag)

	var files []string
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.Type().IsRegular() {
			files = append(files, p)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("walk %s: %w", root, err)
	}

	return withStorage(cmd, false, func(env *common.Env) error {
		var bar *pb.ProgressBar

		noProgress, _ := cmd.Flags().GetBool(common.NoProgressFlag)
		if !noProgress && term.IsTerminal(int(os.Stdout.Fd())) {
			bar = pb.New(len(files))
			bar.Output = cmd.OutOrStdout()
			bar.Start()
		}

		for _, p := range files {
			if err := cmd.Context().Err(); err != nil {
				return err
			}

			rel, err := filepath.Rel(root, p)
			if err != nil {
				return err
			}

			data, err := os.ReadFile(p)
			if err != nil {
				return fmt.Errorf("read local file: %w", err)
			}

			err = env.Service.Write(path.Join(prefix, filepath.ToSlash(rel)), data)
			if err != nil {
				return err
			}

			if bar != nil {
				bar.Increment()
			}
		}

		if bar != nil {
			bar.Finish()
		}

		cmd.Printf("Imported files: %d\n", len(files))
		return nil
	})
}
