package app

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/vmihailenco/msgpack/v5"
)

// OutputFormat controls how transcoding results are printed.
type OutputFormat string

const (
	OutputFormatDefault OutputFormat = "default"
	OutputFormatJSON    OutputFormat = "json"
	OutputFormatMsgPack OutputFormat = "msgpack"
)

func (e *OutputFormat) String() string {
	return string(*e)
}

func (e *OutputFormat) Set(v string) error {
	switch v {
	case "default", "json", "msgpack":
		*e = OutputFormat(v)
		return nil
	default:
		return fmt.Errorf("must be one of: default, json, msgpack")
	}
}

func (e *OutputFormat) Type() string {
	return "OutputFormat"
}

// CompleteOutputFormat provides shell completion for --output.
func CompleteOutputFormat(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
	return []string{"default", "json", "msgpack"}, cobra.ShellCompDirectiveNoFileComp
}

// AddOutputFlag installs --output on cmd.
func (a *App) AddOutputFlag(cmd *cobra.Command, f *OutputFormat) {
	cmd.Flags().VarP(f, "output", "o", "Set output format: default, json, msgpack")
	if err := cmd.RegisterFlagCompletionFunc("output", CompleteOutputFormat); err != nil {
		panic(fmt.Sprintf("Failed to register flag completion: %v", err))
	}
}

// Result is one transcoded value with both of its forms.
type Result struct {
	Text      string `json:"text" msgpack:"text"`
	Rabbitary string `json:"rabbitary" msgpack:"rabbitary"`
	Symbols   int    `json:"symbols" msgpack:"symbols"`
}

// WriteResult prints r. The default format prints only out, the side of r
// the command produced.
func (a *App) WriteResult(r Result, out string, f OutputFormat) error {
	switch f {
	case OutputFormatJSON:
		b, err := a.JSON.Marshal(r)
		if err != nil {
			return fmt.Errorf("failed to format json: %w", err)
		}
		if _, err := a.ColorableOut.Write(b); err != nil {
			return err
		}
		_, err = fmt.Fprintln(a.OutWriter)
		return err
	case OutputFormatMsgPack:
		b, err := msgpack.Marshal(&r)
		if err != nil {
			return fmt.Errorf("failed to encode msgpack: %w", err)
		}
		_, err = a.OutWriter.Write(b)
		return err
	default:
		_, err := fmt.Fprintln(a.OutWriter, out)
		return err
	}
}
