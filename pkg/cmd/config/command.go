package config

import (
	"fmt"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	yaml "gopkg.in/yaml.v3"

	"github.com/cbrevik/rabbitary/pkg/app"
	"github.com/cbrevik/rabbitary/pkg/config"
)

// NewCommand returns the "rabbitary config" command with subcommands.
func NewCommand(a *app.App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Handle rabbitary configuration",
	}

	cmd.AddCommand(
		newCurrentProfileCommand(a),
		newUseProfileCommand(a),
		newGetProfilesCommand(a),
		newAddProfileCommand(a),
		newRemoveProfileCommand(a),
		newSelectProfileCommand(a),
		newViewCommand(a),
		newImportCommand(a),
	)

	return cmd
}

func newCurrentProfileCommand(a *app.App) *cobra.Command {
	return &cobra.Command{
		Use:   "current-profile",
		Short: "Displays the current profile",
		Args:  cobra.ExactArgs(0),
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(a.OutWriter, a.Cfg.CurrentProfile)
		},
	}
}

func newUseProfileCommand(a *app.App) *cobra.Command {
	return &cobra.Command{
		Use:               "use-profile [NAME]",
		Short:             "Sets the current profile in the configuration",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: a.ValidProfileArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			if !a.Cfg.HasProfile(name) {
				return fmt.Errorf("profile with name %v not found", name)
			}
			if err := a.Cfg.SetCurrentProfile(name); err != nil {
				return fmt.Errorf("unable to write config: %w", err)
			}
			fmt.Fprintf(a.OutWriter, "Switched to profile \"%v\".\n", name)
			return nil
		},
	}
}

func newGetProfilesCommand(a *app.App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "get-profiles",
		Aliases: []string{"ls"},
		Short:   "Display profiles in the configuration file",
		Args:    cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			w := app.NewTabWriter(a.OutWriter)
			if !a.NoHeaderFlag {
				fmt.Fprintf(w, "  NAME\tLISTEN\t\n")
			}
			for _, profile := range a.Cfg.Profiles {
				marker := "  "
				if profile.Name == a.Cfg.CurrentProfile {
					marker = "* "
				}
				fmt.Fprintf(w, "%s%s\t%s\t\n", marker, profile.Name, profile.WithDefaults().Listen)
			}
			w.Flush()
		},
	}
	a.AddNoHeadersFlag(cmd)
	return cmd
}

func newAddProfileCommand(a *app.App) *cobra.Command {
	var p config.Profile

	cmd := &cobra.Command{
		Use:   "add-profile [NAME]",
		Short: "Add profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			if a.Cfg.HasProfile(name) {
				return fmt.Errorf("could not add profile: profile with name '%v' exists already", name)
			}

			profile := p
			profile.Name = name
			a.Cfg.Profiles = append(a.Cfg.Profiles, &profile)
			if a.Cfg.CurrentProfile == "" {
				a.Cfg.CurrentProfile = name
			}
			if err := a.Cfg.Write(); err != nil {
				return fmt.Errorf("unable to write config: %w", err)
			}
			fmt.Fprintln(a.OutWriter, "Added profile.")
			return nil
		},
	}

	d := config.DefaultProfile()
	cmd.Flags().StringVarP(&p.Listen, "listen", "l", d.Listen, "Address to listen on")
	cmd.Flags().DurationVar(&p.ReadHeaderTimeout, "read-header-timeout", 0, fmt.Sprintf("Time allowed to read request headers (default %v)", d.ReadHeaderTimeout))
	cmd.Flags().DurationVar(&p.IdleTimeout, "idle-timeout", 0, fmt.Sprintf("Keep-alive idle timeout (default %v)", d.IdleTimeout))
	cmd.Flags().DurationVar(&p.ShutdownTimeout, "shutdown-timeout", 0, fmt.Sprintf("Time allowed for in-flight requests on shutdown (default %v)", d.ShutdownTimeout))
	cmd.Flags().IntVar(&p.MaxHeaderBytes, "max-header-bytes", 0, fmt.Sprintf("Limit on request line and headers, which carry the query (default %v)", d.MaxHeaderBytes))
	return cmd
}

func newRemoveProfileCommand(a *app.App) *cobra.Command {
	return &cobra.Command{
		Use:               "remove-profile [NAME]",
		Short:             "remove profile",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: a.ValidProfileArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			if err := a.Cfg.RemoveProfile(name); err != nil {
				return fmt.Errorf("could not delete profile: profile with name '%v' does not exist", name)
			}
			if err := a.Cfg.Write(); err != nil {
				return fmt.Errorf("unable to write config: %w", err)
			}
			fmt.Fprintln(a.OutWriter, "Removed profile.")
			return nil
		},
	}
}

func newSelectProfileCommand(a *app.App) *cobra.Command {
	return &cobra.Command{
		Use:   "select-profile",
		Short: "Interactively select a profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(a.Cfg.Profiles) == 0 {
				return fmt.Errorf("no profiles configured, add one with 'rabbitary config add-profile'")
			}

			var profileNames []string
			pos := 0
			for k, profile := range a.Cfg.Profiles {
				profileNames = append(profileNames, profile.Name)
				if profile.Name == a.Cfg.CurrentProfile {
					pos = k
				}
			}

			searcher := func(input string, index int) bool {
				name := strings.ReplaceAll(strings.ToLower(profileNames[index]), " ", "")
				input = strings.ReplaceAll(strings.ToLower(input), " ", "")
				return strings.Contains(name, input)
			}

			p := promptui.Select{
				Label:     "Select profile",
				Items:     profileNames,
				Searcher:  searcher,
				Size:      10,
				CursorPos: pos,
			}

			_, selected, err := p.Run()
			if err != nil {
				// User cancelled (e.g. Ctrl-C). Not an error.
				return nil
			}

			if err := a.Cfg.SetCurrentProfile(selected); err != nil {
				return fmt.Errorf("unable to write config: %w", err)
			}
			fmt.Fprintf(a.OutWriter, "Switched to profile \"%v\".\n", selected)
			return nil
		},
	}
}

func newViewCommand(a *app.App) *cobra.Command {
	return &cobra.Command{
		Use:   "view",
		Short: "Print the effective server settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			enc := yaml.NewEncoder(a.OutWriter)
			enc.SetIndent(2)
			if err := enc.Encode(a.Profile); err != nil {
				return fmt.Errorf("failed to encode profile: %w", err)
			}
			return enc.Close()
		},
	}
}

func newImportCommand(a *app.App) *cobra.Command {
	var nameFlag string

	cmd := &cobra.Command{
		Use:   "import [FILE]",
		Short: "Import a server.properties file as a profile",
		Long: `Import a Java style properties file as a profile. Recognised keys:

  server.listen (required)
  server.read-header-timeout
  server.idle-timeout
  server.shutdown-timeout
  server.max-header-bytes

An existing profile with the same name is replaced.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			newProfile, err := config.ImportProperties(args[0], nameFlag)
			if err != nil {
				return fmt.Errorf("failed to import %v: %w", args[0], err)
			}

			var found bool
			for i, p := range a.Cfg.Profiles {
				if p.Name == newProfile.Name {
					found = true
					a.Cfg.Profiles[i] = newProfile
					break
				}
			}

			if !found {
				fmt.Fprintln(a.OutWriter, "Wrote new entry to config file")
				a.Cfg.Profiles = append(a.Cfg.Profiles, newProfile)
			}

			if a.Cfg.CurrentProfile == "" {
				a.Cfg.CurrentProfile = newProfile.Name
			}
			if err := a.Cfg.Write(); err != nil {
				return fmt.Errorf("failed to write config: %w", err)
			}
			fmt.Fprintf(a.OutWriter, "Imported profile %q.\n", newProfile.Name)
			return nil
		},
	}

	cmd.Flags().StringVar(&nameFlag, "name", "imported", "Name of the imported profile")
	return cmd
}
