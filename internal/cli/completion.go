package cli

import (
	"github.com/spf13/cobra"
)

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for dirgraph.

To load completions:

Bash:
  $ source <(dirgraph completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ dirgraph completion bash > /etc/bash_completion.d/dirgraph
  # macOS:
  $ dirgraph completion bash > $(brew --prefix)/etc/bash_completion.d/dirgraph

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it. You can execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  # To load completions for each session, execute once:
  $ dirgraph completion zsh > "${fpath[1]}/_dirgraph"

  # You will need to start a new shell for this setup to take effect.

Fish:
  $ dirgraph completion fish | source

  # To load completions for each session, execute once:
  $ dirgraph completion fish > ~/.config/fish/completions/dirgraph.fish

PowerShell:
  PS> dirgraph completion powershell | Out-String | Invoke-Expression

  # To load completions for every new session, run:
  PS> dirgraph completion powershell > dirgraph.ps1
  # and source this file from your PowerShell profile.
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(stdout)
			case "zsh":
				return cmd.Root().GenZshCompletion(stdout)
			case "fish":
				return cmd.Root().GenFishCompletion(stdout, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(stdout)
			}
			return nil
		},
	}

	return cmd
}
