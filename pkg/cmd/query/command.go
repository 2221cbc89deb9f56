package query

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/spf13/cobra"

	"github.com/cbrevik/rabbitary/pkg/app"
	"github.com/cbrevik/rabbitary/pkg/dispatch"
)

// NewCommand returns the "rabbitary query" command.
func NewCommand(a *app.App) *cobra.Command {
	var noQueryFlag bool

	cmd := &cobra.Command{
		Use:   "query [QUERY]",
		Short: "Answer a raw query string the way the server would",
		Example: `  rabbitary query 'text=hey'
  rabbitary query 'rabbitary=%F0%9F%90%B0%F0%9F%90%87'
  rabbitary query --no-query`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			u := &url.URL{Path: "/"}
			switch {
			case noQueryFlag && len(args) > 0:
				return fmt.Errorf("--no-query does not take a query")
			case len(args) > 0:
				u.RawQuery = args[0]
				u.ForceQuery = true
			case !noQueryFlag:
				return fmt.Errorf("a query is required unless --no-query is set")
			}

			resp := dispatch.Dispatch(u)

			if !a.NoHeaderFlag {
				w := app.NewTabWriter(a.OutWriter)
				fmt.Fprintf(w, "STATUS\tCONTENT-TYPE\t\n")
				fmt.Fprintf(w, "%d %s\t%s\t\n", resp.Status, http.StatusText(resp.Status), resp.ContentType)
				w.Flush()
			}
			fmt.Fprintln(a.OutWriter, resp.Body)
			return nil
		},
	}

	cmd.Flags().BoolVar(&noQueryFlag, "no-query", false, "Simulate a request without a query string")
	a.AddNoHeadersFlag(cmd)
	return cmd
}
