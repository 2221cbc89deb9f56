package app

import (
	"fmt"
	"io"
	"os"

	"github.com/hokaccha/go-prettyjson"
	"github.com/mattn/go-colorable"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/cbrevik/rabbitary/pkg/config"
	"github.com/cbrevik/rabbitary/pkg/encoding"
	"github.com/cbrevik/rabbitary/pkg/rabbitary"
)

// App holds all shared mutable state for the CLI. It is created once per
// invocation and threaded into every command package.
type App struct {
	// I/O
	OutWriter    io.Writer
	ErrWriter    io.Writer
	InReader     io.Reader
	ColorableOut io.Writer

	// Config state
	Cfg             config.Config
	Profile         config.Profile
	CfgFile         string
	ProfileOverride string
	Verbose         bool

	Log   *logrus.Logger
	Codec encoding.Codec
	JSON  *prettyjson.Formatter

	// Display
	NoHeaderFlag bool

	// Root command reference (for completion generation)
	Root *cobra.Command
}

// New creates an App with sane defaults.
func New() *App {
	log := logrus.New()
	log.SetOutput(os.Stderr)

	return &App{
		OutWriter:    os.Stdout,
		ErrWriter:    os.Stderr,
		InReader:     os.Stdin,
		ColorableOut: colorable.NewColorableStdout(),
		Log:          log,
		Codec:        rabbitary.Codec{},
		JSON:         prettyjson.NewFormatter(),
	}
}

// InitConfig reads the config file and resolves the active profile.
// Called by PersistentPreRunE on the root command.
func (a *App) InitConfig() error {
	var err error
	a.Cfg, err = config.ReadConfig(a.CfgFile)
	if err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	a.Cfg.ProfileOverride = a.ProfileOverride

	if profile := a.Cfg.ActiveProfile(); profile != nil {
		a.Profile = profile.WithDefaults()
	} else if a.ProfileOverride != "" {
		return fmt.Errorf("profile %q not found in config", a.ProfileOverride)
	} else {
		a.Profile = config.DefaultProfile()
	}

	return nil
}

// InitLogger points the logger at the error writer and sets its level.
func (a *App) InitLogger() {
	a.Log.SetOutput(a.ErrWriter)
	a.Log.SetLevel(logrus.InfoLevel)
	if a.Verbose {
		a.Log.SetLevel(logrus.DebugLevel)
	}
}

// AddNoHeadersFlag installs --no-headers on cmd.
func (a *App) AddNoHeadersFlag(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&a.NoHeaderFlag, "no-headers", false, "Hide table headers")
}

// ValidProfileArgs provides shell completion for profile names.
func (a *App) ValidProfileArgs(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	profileList := make([]string, 0, len(a.Cfg.Profiles))
	for _, profile := range a.Cfg.Profiles {
		profileList = append(profileList, profile.Name)
	}
	return profileList, cobra.ShellCompDirectiveNoFileComp
}
