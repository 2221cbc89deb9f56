package app

import (
	"io"
	"text/tabwriter"
)

const (
	TabwriterMinWidth = 6
	TabwriterWidth    = 4
	TabwriterPadding  = 3
	TabwriterPadChar  = ' '
	TabwriterFlags    = 0
)

// NewTabWriter creates a standard tabwriter for CLI output.
func NewTabWriter(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, TabwriterMinWidth, TabwriterWidth, TabwriterPadding, TabwriterPadChar, TabwriterFlags)
}
