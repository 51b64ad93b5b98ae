package autocomplete

import (
	"fmt"

	"github.com/spf13/cobra"
)

const longHelpTemplate = `Print shell completion script for %[1]s.

Bash:
  $ source <(%[1]s completion bash)
  Persistent setup (Linux):
  $ %[1]s completion bash > /etc/bash_completion.d/%[1]s

Zsh (needs "autoload -U compinit; compinit" in ~/.zshrc):
  $ %[1]s completion zsh > "${fpath[1]}/_%[1]s"

Fish:
  $ %[1]s completion fish > ~/.config/fish/completions/%[1]s.fish

PowerShell:
  PS> %[1]s completion powershell | Out-String | Invoke-Expression
`

var generators = map[string]func(*cobra.Command) error{
	"bash": func(cmd *cobra.Command) error {
		return cmd.Root().GenBashCompletionV2(cmd.OutOrStdout(), true)
	},
	"zsh": func(cmd *cobra.Command) error {
		return cmd.Root().GenZshCompletion(cmd.OutOrStdout())
	},
	"fish": func(cmd *cobra.Command) error {
		return cmd.Root().GenFishCompletion(cmd.OutOrStdout(), true)
	},
	"powershell": func(cmd *cobra.Command) error {
		return cmd.Root().GenPowerShellCompletionWithDesc(cmd.OutOrStdout())
	},
}

// Command returns completion command for the application called name.
func Command(name string) *cobra.Command {
	return &cobra.Command{
		Use:                   "completion bash|zsh|fish|powershell",
		Short:                 "Generate completion script",
		Long:                  fmt.Sprintf(longHelpTemplate, name),
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			return generators[args[0]](cmd)
		},
	}
}
