package main

import (
	"errors"
	"fmt"

	"github.com/nspcc-dev/segstore/cmd/segstore/internal/common"
	"github.com/spf13/cobra"
)

func newLsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "ls",
		Short: "List stored files",
		Long:  "List stored files in allocation order along with their container ranges.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withStorage(cmd, true, func(env *common.Env) error {
				recs, err := collectRecords(env.Store)
				if err != nil {
					return err
				}

				printRecords(cmd.OutOrStdout(), recs)
				return nil
			})
		},
	}
}

func newHolesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "holes",
		Short: "List free container ranges",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withStorage(cmd, true, func(env *common.Env) error {
				printHoles(cmd.OutOrStdout(), env.Store.Holes())
				return nil
			})
		},
	}
}

func newMetricsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "metrics",
		Short: "Show storage state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withStorage(cmd, true, func(env *common.Env) error {
				return printMetrics(cmd.OutOrStdout(), env.Service.Metrics())
			})
		},
	}
}

func newCompactCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "compact",
		Short: "Defragment container",
		Long:  "Move files into holes and cut free space off the container end.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withStorage(cmd, false, func(env *common.Env) error {
				res, err := env.Service.Compact()
				if err != nil {
					return err
				}

				printCompactRes(cmd.OutOrStdout(), res)
				return nil
			})
		},
	}
}

// errBroken is returned by check command if some files can't be read.
var errBroken = errors.New("storage has broken files")

func newCheckCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Verify stored files",
		Long:  "Read and decode every stored file. Exit code is 2 if some files are broken.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withStorage(cmd, true, func(env *common.Env) error {
				res, err := env.Store.Check(cmd.Context())
				if err != nil {
					return err
				}

				printCheckRes(cmd.OutOrStdout(), res)

				if n := len(res.Broken()); n > 0 {
					return common.ExitErr{Code: 2, Cause: fmt.Errorf("%w: %d", errBroken, n)}
				}
				return nil
			})
		},
	}
}
