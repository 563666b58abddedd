package cmd

import (
	"github.com/spf13/cobra"
)

func newCompletionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion script",
		Long: `Generate shell completion script for adminctl.

To load completions:

Bash:
  $ source <(adminctl completion bash)

  # To load completions for each session, execute once:
  $ adminctl completion bash > /etc/bash_completion.d/adminctl

Zsh:
  $ adminctl completion zsh > "${fpath[1]}/_adminctl"

  # You will need to start a new shell for this setup to take effect.

Fish:
  $ adminctl completion fish > ~/.config/fish/completions/adminctl.fish

PowerShell:
  PS> adminctl completion powershell | Out-String | Invoke-Expression
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletionV2(out, true)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			default:
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
		},
	}
}
