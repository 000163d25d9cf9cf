package pretty

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/shadanan/mathmate/pkg/engine"
	"github.com/shadanan/mathmate/pkg/statement"
)

// EmptyStatement is printed when a request selects no statement.
const EmptyStatement = "*** Empty Statement ***"

// FormatFileStatus formats one line of per-file output: "path: status".
func (s *Styles) FormatFileStatus(path, status string) string {
	var styled string
	switch {
	case strings.HasPrefix(status, "formatted"):
		styled = s.Success.Render(status)
	case strings.HasPrefix(status, "skipped"), status == "needs formatting":
		styled = s.Warning.Render(status)
	default:
		styled = s.Dim.Render(status)
	}
	return s.FilePath.Render(path) + ": " + styled + "\n"
}

// FormatFileError formats a file that failed to process.
func (s *Styles) FormatFileError(path string, err error) string {
	return s.FilePath.Render(path) + ": " + s.Error.Render(fmt.Sprintf("error: %v", err)) + "\n"
}

// FormatWarning formats a recovered problem in a file.
func (s *Styles) FormatWarning(path string, err error) string {
	return "  " + s.Location.Render(path) + "  " + s.Warning.Render("warning") + "  " + err.Error() + "\n"
}

// FormatCursor formats the resolved cursor of a show request.
func (s *Styles) FormatCursor(c engine.Cursor) string {
	scopePath := c.ScopePath
	if scopePath == "" {
		scopePath = "-"
	}
	return fmt.Sprintf("Cursor: (Line: %d, Column: %d, Offset: %d, Scope: %s, Symbol: %s)\n",
		c.Line, c.Column, c.Offset, s.Scope.Render(scopePath), s.Symbol.Render(c.Symbol))
}

// FormatBoundaries formats the position of the n-th affected statement.
// Lines are 1-based and columns 0-based.
func (s *Styles) FormatBoundaries(n int, stmt statement.Statement) string {
	return fmt.Sprintf("Statement %d Boundaries: %s\n", n, s.Location.Render(fmt.Sprintf(
		"(Line: %d, Column: %d) -> (Line: %d, Column: %d)",
		stmt.StartLine, stmt.StartColumn, stmt.EndLine, stmt.EndColumn)))
}

// FormatStatement formats the raw and reformatted text of a statement
// between rules of the given width.
func (s *Styles) FormatStatement(stmt statement.Statement, width int) string {
	var builder strings.Builder

	rule := s.Rule.Render(strings.Repeat("-", width))

	builder.WriteString(s.Bold.Render("Raw:") + "\n")
	builder.WriteString(rule + "\n")
	builder.WriteString(renderLines(s.Raw, stmt.Raw) + "\n")
	builder.WriteString(rule + "\n")
	builder.WriteString(s.Bold.Render("Reformatted:") + "\n")
	builder.WriteString(rule + "\n")
	builder.WriteString(renderLines(s.Reformatted, stmt.Reformatted) + "\n")
	builder.WriteString(rule + "\n")

	return builder.String()
}

// renderLines styles each line on its own so lines keep their width.
func renderLines(style lipgloss.Style, text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if line != "" {
			lines[i] = style.Render(line)
		}
	}
	return strings.Join(lines, "\n")
}
