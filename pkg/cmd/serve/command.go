package serve

import (
	"github.com/spf13/cobra"

	"github.com/cbrevik/rabbitary/pkg/app"
	"github.com/cbrevik/rabbitary/pkg/server"
)

// NewCommand returns the "rabbitary serve" command.
func NewCommand(a *app.App) *cobra.Command {
	var listenFlag string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		Long: `Start the HTTP server. Every request is answered from its first query parameter:

  GET /?text=hey           encodes "hey"
  GET /?rabbitary=🐰🐇...   decodes the rabbits

The server stops on SIGINT or SIGTERM.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			profile := a.Profile
			if listenFlag != "" {
				profile.Listen = listenFlag
			}

			a.Log.WithField("profile", profile.Name).Debug("starting server")
			return server.New(profile, a.Log).Run(cmd.Context())
		},
	}

	cmd.Flags().StringVarP(&listenFlag, "listen", "l", "", "Address to listen on, overrides the active profile")
	return cmd
}
