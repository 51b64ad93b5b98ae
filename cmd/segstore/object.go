package main

import (
	"fmt"
	"io"
	"os"

	"github.com/nspcc-dev/segstore/cmd/segstore/internal/common"
	"github.com/spf13/cobra"
)

func newPutCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "put <path>",
		Short: "Store file",
		Long:  "Store file content under the given path replacing existing file. Content is read from stdin unless --file is set.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			content, err := readInput(cmd)
			if err != nil {
				return err
			}

			return withStorage(cmd, false, func(env *common.Env) error {
				return env.Service.Write(args[0], content)
			})
		},
	}

	common.AddFileFlag(cmd, "Local file with content")

	return cmd
}

func newTouchCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "touch <path>...",
		Short: "Create files without content",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStorage(cmd, false, func(env *common.Env) error {
				for i := range args {
					if _, err := env.Service.Create(args[i]); err != nil {
						return err
					}
				}
				return nil
			})
		},
	}
}

func newGetCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get <path>",
		Short: "Read file",
		Long:  "Read file content to stdout or to the local file if --file is set.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStorage(cmd, true, func(env *common.Env) error {
				obj, err := env.Service.Read(args[0])
				if err != nil {
					return err
				}

				if !obj.HasContent() {
					cmd.PrintErrf("%s has no content\n", obj.Path())
				}

				if p, _ := cmd.Flags().GetString(common.FileFlag); p != "" {
					return common.Errf("write local file: %w", os.WriteFile(p, obj.Content(), 0o640))
				}

				_, err = cmd.OutOrStdout().Write(obj.Content())
				return err
			})
		},
	}

	common.AddFileFlag(cmd, "Local file to write content to")

	return cmd
}

func newRmCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "rm <path>...",
		Aliases: []string{"delete"},
		Short:   "Delete files",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStorage(cmd, false, func(env *common.Env) error {
				for i := range args {
					if err := env.Service.Delete(args[i]); err != nil {
						return err
					}
				}
				return nil
			})
		},
	}
}

func newMvCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "mv <old path> <new path>",
		Aliases: []string{"move", "rename"},
		Short:   "Move file",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStorage(cmd, false, func(env *common.Env) error {
				return env.Service.Move(args[0], args[1])
			})
		},
	}
}

func newAppendCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "append <path>",
		Short: "Append content to file",
		Long:  "Append content to existing file. Content is read from stdin unless --file is set.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			content, err := readInput(cmd)
			if err != nil {
				return err
			}

			return withStorage(cmd, false, func(env *common.Env) error {
				return env.Service.Append(args[0], content)
			})
		},
	}

	common.AddFileFlag(cmd, "Local file with content")

	return cmd
}

func readInput(cmd *cobra.Command) ([]byte, error) {
	p, _ := cmd.Flags().GetString(common.FileFlag)
	if p != "" {
		data, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("read local file: %w", err)
		}
		return data, nil
	}

	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return nil, fmt.Errorf("read stdin: %w", err)
	}
	return data, nil
}

// withStorage opens storage, calls f and closes storage.
func withStorage(cmd *cobra.Command, readOnly bool, f func(*common.Env) error) error {
	env, err := common.OpenStorage(cmd, readOnly)
	if err != nil {
		return err
	}

	err = f(env)
	if cErr := env.Close(); cErr != nil && err == nil {
		err = fmt.Errorf("close storage: %w", cErr)
	}

	return err
}
