package main

import (
	"context"
	"os"

	"github.com/nspcc-dev/segstore/cmd/segstore/internal/common"
	"github.com/nspcc-dev/segstore/misc"
	"github.com/nspcc-dev/segstore/pkg/util/autocomplete"
	"github.com/nspcc-dev/segstore/pkg/util/grace"
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "segstore",
		Short: "Segment store",
		Long: `Segment store keeps files in a single container file. Deleted and
overwritten files leave holes which are reclaimed by compaction.`,
		RunE:          entryPoint,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// use stdout as default output for cmd.Print()
	cmd.SetOut(os.Stdout)
	cmd.Flags().Bool("version", false, "Application version")
	common.AddStorageFlags(cmd)

	cmd.AddCommand(
		newPutCommand(),
		newTouchCommand(),
		newGetCommand(),
		newRmCommand(),
		newMvCommand(),
		newAppendCommand(),
		newLsCommand(),
		newHolesCommand(),
		newMetricsCommand(),
		newCompactCommand(),
		newCheckCommand(),
		newImportCommand(),
		newShellCommand(),
		autocomplete.Command("segstore"),
	)

	return cmd
}

func entryPoint(cmd *cobra.Command, _ []string) error {
	printVersion, _ := cmd.Flags().GetBool("version")
	if printVersion {
		cmd.Print(misc.BuildInfo("Segment store"))

		return nil
	}

	return cmd.Usage()
}

func main() {
	ctx, stop := grace.NewGracefulContext(context.Background(), nil)

	err := newRootCommand().ExecuteContext(ctx)
	stop()
	common.ExitOnErr(err)
}
