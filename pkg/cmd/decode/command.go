package decode

import (
	"bytes"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cbrevik/rabbitary/pkg/app"
	"github.com/cbrevik/rabbitary/pkg/rabbitary"
)

// NewCommand returns the "rabbitary decode" command.
func NewCommand(a *app.App) *cobra.Command {
	var (
		input      app.InputOptions
		outputFlag = app.OutputFormatDefault
	)

	cmd := &cobra.Command{
		Use:   "decode [RABBITS...]",
		Short: "Decode rabbits back into text. Reads from stdin if nothing is given.",
		Example: `  rabbitary decode 🐰🐇🐇🐰🐇🐰🐰🐰🐰🐇🐇🐰🐰🐇🐰🐇🐰🐇🐇🐇🐇🐰🐰🐇
  rabbitary encode hey | rabbitary decode`,
		RunE: func(cmd *cobra.Command, args []string) error {
			out, errCh := a.Inputs(args, input)

			for data := range out {
				symbols := bytes.TrimSpace(data)
				decoded, err := a.Codec.Decode(symbols)
				if err != nil {
					return fmt.Errorf("failed to decode input: %w", err)
				}

				res := app.Result{
					Text:      string(decoded),
					Rabbitary: string(symbols),
					Symbols:   rabbitary.SymbolCount(string(symbols)),
				}
				if err := a.WriteResult(res, res.Text, outputFlag); err != nil {
					return err
				}
			}

			return <-errCh
		},
	}

	a.AddInputFlags(cmd, &input)
	a.AddOutputFlag(cmd, &outputFlag)

	return cmd
}
