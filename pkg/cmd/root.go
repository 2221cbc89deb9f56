package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/cbrevik/rabbitary/pkg/app"
	"github.com/cbrevik/rabbitary/pkg/cmd/completion"
	rabbitaryconfig "github.com/cbrevik/rabbitary/pkg/cmd/config"
	"github.com/cbrevik/rabbitary/pkg/cmd/decode"
	"github.com/cbrevik/rabbitary/pkg/cmd/encode"
	"github.com/cbrevik/rabbitary/pkg/cmd/query"
	"github.com/cbrevik/rabbitary/pkg/cmd/serve"
)

// Execute is the single entry point for the CLI.
func Execute(version, commit string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return NewRootCommand(app.New(), version, commit).ExecuteContext(ctx)
}

// NewRootCommand builds the command tree around a.
func NewRootCommand(a *app.App, version, commit string) *cobra.Command {
	root := &cobra.Command{
		Use:          "rabbitary",
		Short:        "Translate text to rabbits and back, on the command line or over HTTP",
		Version:      fmt.Sprintf("%s (%s)", version, commit),
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			a.OutWriter = cmd.OutOrStdout()
			a.ErrWriter = cmd.ErrOrStderr()
			a.InReader = cmd.InOrStdin()

			if a.OutWriter != os.Stdout {
				a.ColorableOut = a.OutWriter
				a.JSON.DisabledColor = true
			}

			a.InitLogger()
			return a.InitConfig()
		},
	}

	root.PersistentFlags().StringVar(&a.CfgFile, "config", "", "config file (default is $HOME/.rabbitary/config)")
	root.PersistentFlags().StringVarP(&a.ProfileOverride, "profile", "p", "", "set a temporary current profile")
	root.PersistentFlags().BoolVarP(&a.Verbose, "verbose", "v", false, "Whether to turn on debug logging")

	root.AddCommand(
		serve.NewCommand(a),
		encode.NewCommand(a),
		decode.NewCommand(a),
		query.NewCommand(a),
		rabbitaryconfig.NewCommand(a),
		completion.NewCommand(root, a),
	)

	if err := root.RegisterFlagCompletionFunc("profile", a.ValidProfileArgs); err != nil {
		panic(fmt.Sprintf("Failed to register flag completion: %v", err))
	}

	a.Root = root
	return root
}
