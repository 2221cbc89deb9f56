package app

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"
	"github.com/spf13/cobra"
)

// InputOptions control where transcoding commands read their values from.
type InputOptions struct {
	Mode      string
	LineLimit int
	Template  bool
	Repeat    int
}

// AddInputFlags installs the shared stdin flags on cmd.
func (a *App) AddInputFlags(cmd *cobra.Command, o *InputOptions) {
	cmd.Flags().StringVar(&o.Mode, "input-mode", "line", "Scanning input mode: [line|full]")
	cmd.Flags().IntVar(&o.LineLimit, "line-length-limit", 0, "line length limit in line input mode")
}

// AddTemplateFlags installs --template and --repeat on cmd.
func (a *App) AddTemplateFlags(cmd *cobra.Command, o *InputOptions) {
	cmd.Flags().BoolVar(&o.Template, "template", false, "run input through go template engine")
	cmd.Flags().IntVarP(&o.Repeat, "repeat", "n", 1, "Repeat each input n times. Available as {{ .i }} in templates.")
}

// Inputs yields the values to transcode: args joined by spaces when given,
// stdin otherwise. The error channel holds at most one value and is closed
// before out is.
func (a *App) Inputs(args []string, o InputOptions) (<-chan []byte, <-chan error) {
	out := make(chan []byte, 1)
	errCh := make(chan error, 1)

	switch {
	case len(args) > 0:
		out <- []byte(strings.Join(args, " "))
		close(errCh)
		close(out)
	case o.Mode == "full":
		go readFull(a.InReader, out, errCh)
	default:
		go readLines(a.InReader, out, errCh, o.LineLimit)
	}
	return out, errCh
}

// Render runs data through text/template with the sprig functions, with i
// bound to .i.
func Render(data []byte, i int) ([]byte, error) {
	tpl, err := template.New("rabbitary").Funcs(sprig.HermeticTxtFuncMap()).Parse(string(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse go template: %w", err)
	}

	buf := bytes.NewBuffer(nil)
	if err := tpl.Execute(buf, map[string]any{"i": i}); err != nil {
		return nil, fmt.Errorf("failed to execute go template: %w", err)
	}
	return buf.Bytes(), nil
}

func readLines(reader io.Reader, out chan<- []byte, errCh chan<- error, bufferSize int) {
	defer close(out)
	defer close(errCh)

	scanner := bufio.NewScanner(reader)
	if bufferSize > 0 {
		scanner.Buffer(make([]byte, bufferSize), bufferSize)
	}
	for scanner.Scan() {
		out <- bytes.Clone(scanner.Bytes())
	}
	if err := scanner.Err(); err != nil {
		errCh <- fmt.Errorf("scanning input failed: %w", err)
	}
}

func readFull(reader io.Reader, out chan<- []byte, errCh chan<- error) {
	defer close(out)
	defer close(errCh)

	data, err := io.ReadAll(reader)
	if err != nil {
		errCh <- fmt.Errorf("unable to read data: %w", err)
		return
	}
	out <- data
}
