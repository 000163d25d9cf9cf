package cli

import (
	"github.com/spf13/cobra"

	"github.com/shadanan/mathmate/pkg/config"
	"github.com/shadanan/mathmate/pkg/engine"
	"github.com/shadanan/mathmate/pkg/format"
)

// cursorFlags select the engine mode for a single buffer.
type cursorFlags struct {
	line          int
	column        int
	selection     string
	wholeDocument bool
	upToCursor    bool
}

var cursorFlagNames = []string{"line", "column", "selection", "whole-document", "up-to-cursor"}

func (f *cursorFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVar(&f.line, "line", 1, "cursor line (1-based)")
	cmd.Flags().IntVar(&f.column, "column", 0, "cursor column (0-based, in characters)")
	cmd.Flags().StringVar(&f.selection, "selection", "", "selected text; non-empty selects whole-document mode")
	cmd.Flags().BoolVar(&f.wholeDocument, "whole-document", false, "reformat every statement")
	cmd.Flags().BoolVar(&f.upToCursor, "up-to-cursor", false, "reformat every statement that starts before the cursor")
}

// changed reports whether any cursor flag was given.
func (f *cursorFlags) changed(cmd *cobra.Command) bool {
	for _, name := range cursorFlagNames {
		if cmd.Flags().Changed(name) {
			return true
		}
	}
	return false
}

func (f *cursorFlags) request(text string, indent format.Indent) engine.Request {
	return engine.Request{
		Text:          text,
		Line:          f.line,
		Column:        f.column,
		Selection:     f.selection,
		WholeDocument: f.wholeDocument,
		UpToCursor:    f.upToCursor,
		Indent:        indent,
	}
}

// indentFlags override the configured indentation unit.
type indentFlags struct {
	style string
	size  int
}

func (f *indentFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.style, "indent-style", "", "indentation: spaces or tabs")
	cmd.Flags().IntVar(&f.size, "indent-size", 0, "spaces per indentation level")
}

func (f *indentFlags) apply(cfg *config.Config) {
	cfg.Indent.Style = config.IndentStyle(f.style)
	cfg.Indent.Size = f.size
}
