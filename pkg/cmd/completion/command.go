package completion

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/cbrevik/rabbitary/pkg/app"
)

// NewCommand returns the "rabbitary completion" command.
// It takes the root command so it can generate completions for the full tree.
func NewCommand(root *cobra.Command, a *app.App) *cobra.Command {
	return &cobra.Command{
		Use:   "completion [SHELL]",
		Short: "Generate completion script for bash, zsh, fish or powershell",
		Long: `To load completions:

Bash:

$ source <(rabbitary completion bash)

# To load completions for each session, execute once:
Linux:
  $ rabbitary completion bash > /etc/bash_completion.d/rabbitary
MacOS:
  $ rabbitary completion bash > /usr/local/etc/bash_completion.d/rabbitary

Zsh:

# To load completions for each session, execute once:
$ rabbitary completion zsh > "${fpath[1]}/_rabbitary"

# You will need to start a new shell for this setup to take effect.

Fish:

$ rabbitary completion fish | source

# To load completions for each session, execute once:
$ rabbitary completion fish > ~/.config/fish/completions/rabbitary.fish
`,
		DisableFlagsInUseLine: true,
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		RunE: func(cmd *cobra.Command, args []string) error {
			gen := map[string]func(io.Writer) error{
				"bash":       root.GenBashCompletion,
				"zsh":        root.GenZshCompletion,
				"fish":       func(w io.Writer) error { return root.GenFishCompletion(w, true) },
				"powershell": root.GenPowerShellCompletion,
			}[args[0]]
			if err := gen(a.OutWriter); err != nil {
				return fmt.Errorf("failed to generate %s completion: %w", args[0], err)
			}
			return nil
		},
	}
}
