package encode

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cbrevik/rabbitary/pkg/app"
	"github.com/cbrevik/rabbitary/pkg/rabbitary"
)

// NewCommand returns the "rabbitary encode" command.
func NewCommand(a *app.App) *cobra.Command {
	var (
		input      app.InputOptions
		outputFlag = app.OutputFormatDefault
	)

	cmd := &cobra.Command{
		Use:   "encode [TEXT...]",
		Short: "Encode text into rabbits. Reads from stdin if no text is given.",
		Long:  "Encode text into rabbitary. The arguments are joined by spaces and encoded as one value; without arguments stdin is read, one value per line by default. Input may be run through go templates first.",
		Example: `  rabbitary encode hey
  echo 'hey' | rabbitary encode
  rabbitary encode -o json 'hello, world'
  echo 'message {{ .i }}' | rabbitary encode --template -n 3`,
		RunE: func(cmd *cobra.Command, args []string) error {
			out, errCh := a.Inputs(args, input)

			for data := range out {
				for i := 0; i < input.Repeat; i++ {
					text := data
					if input.Template {
						var err error
						if text, err = app.Render(data, i); err != nil {
							return err
						}
					}

					encoded, err := a.Codec.Encode(text)
					if err != nil {
						return fmt.Errorf("failed to encode input: %w", err)
					}

					res := app.Result{
						Text:      string(text),
						Rabbitary: string(encoded),
						Symbols:   rabbitary.SymbolCount(string(encoded)),
					}
					if err := a.WriteResult(res, res.Rabbitary, outputFlag); err != nil {
						return err
					}
				}
			}

			return <-errCh
		},
	}

	a.AddInputFlags(cmd, &input)
	a.AddTemplateFlags(cmd, &input)
	a.AddOutputFlag(cmd, &outputFlag)

	return cmd
}
