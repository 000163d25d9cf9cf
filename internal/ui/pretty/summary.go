package pretty

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shadanan/mathmate/pkg/runner"
)

const (
	summaryDividerWidth = 40
	wordFile            = "file"
	wordFiles           = "files"
)

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

// FormatSummaryOneLine formats run statistics as a single line.
// Example: "2 files need formatting, 1 error (12 files checked)".
func (s *Styles) FormatSummaryOneLine(stats runner.Stats) string {
	checked := s.Dim.Render(fmt.Sprintf(" (%d %s checked)",
		stats.FilesProcessed, plural(stats.FilesProcessed, wordFile, wordFiles)))

	var parts []string

	if stats.FilesWritten > 0 {
		parts = append(parts, s.Success.Render(fmt.Sprintf("%d %s formatted",
			stats.FilesWritten, plural(stats.FilesWritten, wordFile, wordFiles))))
	}

	if pending := stats.FilesChanged - stats.FilesWritten; pending > 0 {
		parts = append(parts, s.Warning.Render(fmt.Sprintf("%d %s formatting",
			pending, plural(pending, "file needs", "files need"))))
	}

	if stats.FilesErrored > 0 {
		parts = append(parts, s.Error.Render(fmt.Sprintf("%d %s",
			stats.FilesErrored, plural(stats.FilesErrored, "error", "errors"))))
	}

	if len(parts) == 0 {
		return s.Success.Render("All files formatted") + checked + "\n"
	}
	return strings.Join(parts, ", ") + checked + "\n"
}

// FormatSummary formats run statistics as a summary block.
func (s *Styles) FormatSummary(stats runner.Stats) string {
	var builder strings.Builder

	builder.WriteString("\n")
	builder.WriteString(s.SummaryTitle.Render("Summary"))
	builder.WriteString("\n")
	builder.WriteString(strings.Repeat("-", summaryDividerWidth))
	builder.WriteString("\n")

	row := func(label string, value string) {
		builder.WriteString(fmt.Sprintf("  %-19s%s\n", label+":", value))
	}

	row("Files checked", s.SummaryValue.Render(strconv.Itoa(stats.FilesProcessed)))
	if pending := stats.FilesChanged - stats.FilesWritten; pending > 0 {
		row("Need formatting", s.Failure.Render(strconv.Itoa(pending)))
	}
	if stats.FilesWritten > 0 {
		row("Files formatted", s.Success.Render(strconv.Itoa(stats.FilesWritten)))
	}
	if stats.FilesSkipped > 0 {
		row("Files skipped", s.Warning.Render(strconv.Itoa(stats.FilesSkipped)))
	}
	if stats.FilesErrored > 0 {
		row("Files errored", s.Error.Render(strconv.Itoa(stats.FilesErrored)))
	}

	builder.WriteString("\n")

	row("Statements", s.SummaryValue.Render(strconv.Itoa(stats.Statements)))
	if stats.Blocks > 0 {
		row("Code blocks", s.SummaryValue.Render(strconv.Itoa(stats.Blocks)))
	}
	if stats.Additions > 0 || stats.Deletions > 0 {
		row("Lines changed", s.DiffAdd.Render("+"+strconv.Itoa(stats.Additions))+" "+
			s.DiffRemove.Render("-"+strconv.Itoa(stats.Deletions)))
	}
	if stats.Warnings > 0 {
		row("Warnings", s.Warning.Render(strconv.Itoa(stats.Warnings)))
	}

	builder.WriteString("\n")

	switch {
	case stats.FilesErrored > 0:
		builder.WriteString(s.Failure.Render("Format failed with errors"))
	case stats.FilesChanged > stats.FilesWritten:
		builder.WriteString(s.Warning.Render("Some files need formatting"))
	default:
		builder.WriteString(s.Success.Render("Format passed"))
	}
	builder.WriteString("\n")

	return builder.String()
}
