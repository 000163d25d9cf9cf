package reporter

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"

	"github.com/shadanan/mathmate/pkg/runner"
)

// jsonVersion is the schema version of JSON output.
const jsonVersion = "1.0.0"

// JSONOutput is the top-level JSON structure.
type JSONOutput struct {
	Version string           `json:"version"`
	Files   []JSONFileResult `json:"files"`
	Summary JSONSummary      `json:"summary"`
}

// JSONFileResult represents a single file's result.
type JSONFileResult struct {
	Path          string   `json:"path"`
	Status        string   `json:"status"`
	Changed       bool     `json:"changed"`
	Written       bool     `json:"written,omitempty"`
	BackupCreated bool     `json:"backupCreated,omitempty"`
	Statements    int      `json:"statements"`
	Blocks        int      `json:"blocks,omitempty"`
	Additions     int      `json:"additions,omitempty"`
	Deletions     int      `json:"deletions,omitempty"`
	Diff          string   `json:"diff,omitempty"`
	Warnings      []string `json:"warnings,omitempty"`
	Error         string   `json:"error,omitempty"`
}

// JSONSummary contains aggregate statistics.
type JSONSummary struct {
	FilesChecked int `json:"filesChecked"`
	FilesChanged int `json:"filesChanged"`
	FilesWritten int `json:"filesWritten"`
	FilesSkipped int `json:"filesSkipped"`
	FilesErrored int `json:"filesErrored"`
	Statements   int `json:"statements"`
	Additions    int `json:"additions"`
	Deletions    int `json:"deletions"`
}

// JSONReporter formats results as JSON.
type JSONReporter struct {
	opts Options
	bw   *bufio.Writer
}

// NewJSONReporter creates a new JSON reporter.
func NewJSONReporter(opts Options) *JSONReporter {
	return &JSONReporter{
		opts: opts,
		bw:   bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *JSONReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	output := r.buildOutput(result)
	if err := encodeJSON(r.bw, output, r.opts.Compact); err != nil {
		return 0, err
	}

	return output.Summary.FilesChanged, nil
}

func (r *JSONReporter) buildOutput(result *runner.Result) *JSONOutput {
	output := &JSONOutput{
		Version: jsonVersion,
		Files:   make([]JSONFileResult, 0),
	}

	if result == nil {
		return output
	}

	if len(result.Files) > 0 {
		output.Files = make([]JSONFileResult, 0, len(result.Files))
	}

	for _, file := range result.Files {
		fileResult := JSONFileResult{Path: displayPath(file.Path, r.opts.WorkingDir)}

		if file.Error != nil {
			fileResult.Status = "error"
			fileResult.Error = file.Error.Error()
		}

		if res := file.Result; res != nil {
			fileResult.Status = res.Summary()
			fileResult.Changed = res.Changed
			fileResult.Written = res.Written
			fileResult.BackupCreated = res.BackupCreated
			fileResult.Statements = res.Statements
			fileResult.Blocks = res.Blocks
			if res.Diff != nil {
				fileResult.Additions = res.Diff.Additions
				fileResult.Deletions = res.Diff.Deletions
				fileResult.Diff = res.Diff.String()
			}
			for _, w := range res.Warnings {
				fileResult.Warnings = append(fileResult.Warnings, w.Error())
			}
		}

		output.Files = append(output.Files, fileResult)
	}

	output.Summary = JSONSummary{
		FilesChecked: result.Stats.FilesProcessed,
		FilesChanged: result.Stats.FilesChanged,
		FilesWritten: result.Stats.FilesWritten,
		FilesSkipped: result.Stats.FilesSkipped,
		FilesErrored: result.Stats.FilesErrored,
		Statements:   result.Stats.Statements,
		Additions:    result.Stats.Additions,
		Deletions:    result.Stats.Deletions,
	}

	return output
}

func encodeJSON(bw *bufio.Writer, v any, compact bool) error {
	encoder := json.NewEncoder(bw)
	if !compact {
		encoder.SetIndent("", "  ")
	}
	if err := encoder.Encode(v); err != nil {
		return fmt.Errorf("encode JSON: %w", err)
	}
	return nil
}
