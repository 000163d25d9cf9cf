package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/shadanan/mathmate/internal/logging"
	"github.com/shadanan/mathmate/pkg/config"
	"github.com/shadanan/mathmate/pkg/engine"
	"github.com/shadanan/mathmate/pkg/fix"
	"github.com/shadanan/mathmate/pkg/pipeline"
	"github.com/shadanan/mathmate/pkg/reporter"
	"github.com/shadanan/mathmate/pkg/runner"
)

// stdinPath names standard input in diffs and messages.
const stdinPath = "<stdin>"

// noReformatMessage is written to stderr when a buffer read from stdin is
// already formatted.
const noReformatMessage = "No reformat required."

type formatFlags struct {
	format   string
	diff     bool
	ignore   []string
	markdown bool
	indent   indentFlags
	cursor   cursorFlags
}

func newFormatCommand() *cobra.Command {
	cfg := &config.Config{}
	flags := &formatFlags{}

	cmd := &cobra.Command{
		Use:   "format [paths...]",
		Short: "Format Mathematica source files",
		Long:  formatLongDescription,
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFormat(cmd, args, cfg, flags)
		},
	}

	cmd.Flags().BoolVarP(&cfg.Write, "write", "w", false, "write the result back to the files")
	cmd.Flags().BoolVar(&cfg.Check, "check", false, "exit with status 1 when any input needs formatting")
	cmd.Flags().BoolVar(&flags.diff, "diff", false, "print a unified diff instead of the result")
	cmd.Flags().StringVar(&flags.format, "format", "", "output format: text, json, diff, summary")
	cmd.Flags().IntVarP(&cfg.Jobs, "jobs", "j", 0, "number of parallel workers (0 = auto)")
	cmd.Flags().StringSliceVar(&flags.ignore, "ignore", nil, "glob patterns to ignore")
	cmd.Flags().BoolVar(&cfg.NoBackups, "no-backups", false, "do not back up files before writing")
	cmd.Flags().BoolVar(&flags.markdown, "markdown", false, "also format Mathematica code blocks in Markdown files")
	flags.indent.register(cmd)
	flags.cursor.register(cmd)

	return cmd
}

const formatLongDescription = `Format Mathematica and Wolfram Language source.

With paths, formats every file given and every file with a configured
extension below each directory. Files are only rewritten with --write.

With no paths, or "-", reads one buffer from standard input and writes the
result to standard output. The cursor flags then pick the statements to
reformat the way an editor command would; without them the whole buffer is
reformatted.

Examples:
  mathmate format src/                   # Report files that need formatting
  mathmate format -w src/                # Rewrite them in place
  mathmate format --check .              # Fail in CI when formatting is needed
  mathmate format --diff Package.wl      # Show the changes as a diff
  mathmate format --line 3 --column 4 < a.m  # Reformat the statement at 3:4`

func runFormat(cmd *cobra.Command, args []string, cfg *config.Config, flags *formatFlags) error {
	if cfg.Write && cfg.Check {
		return fmt.Errorf("%w: --write and --check cannot be combined", ErrUsage)
	}

	cfg.Format = config.OutputFormat(flags.format)
	if flags.diff {
		cfg.Format = config.FormatDiff
	}
	cfg.Ignore = flags.ignore
	cfg.Markdown.Enabled = flags.markdown
	flags.indent.apply(cfg)

	finalCfg, workDir, err := loadConfig(cmd, cfg)
	if err != nil {
		return err
	}

	logging.Default().Debug("configuration loaded",
		logging.FieldIndent, finalCfg.Indent.Format().Unit(),
		logging.FieldWrite, finalCfg.Write,
		logging.FieldCheck, finalCfg.Check,
		logging.FieldJobs, finalCfg.Jobs,
	)

	if len(args) == 0 || (len(args) == 1 && args[0] == "-") {
		return formatStdin(cmd, finalCfg, flags)
	}

	if flags.cursor.changed(cmd) {
		return fmt.Errorf("%w: cursor flags apply only to standard input", ErrUsage)
	}
	return formatFiles(cmd, args, workDir, finalCfg)
}

func formatStdin(cmd *cobra.Command, cfg *config.Config, flags *formatFlags) error {
	logger := logging.Default()

	in := cmd.InOrStdin()
	if f, ok := in.(*os.File); ok && isatty.IsTerminal(f.Fd()) {
		return fmt.Errorf("%w: no input; pass paths or pipe source on stdin", ErrUsage)
	}

	content, err := io.ReadAll(in)
	if err != nil {
		return fmt.Errorf("read stdin: %w", err)
	}

	req := flags.cursor.request(string(content), cfg.Indent.Format())
	if !flags.cursor.changed(cmd) {
		req.WholeDocument = true
	}

	res, err := engine.Run(req)
	if err != nil {
		return fmt.Errorf("%s: %w", stdinPath, err)
	}
	for _, w := range res.Warnings {
		logger.Warn(w.Error(), logging.FieldPath, stdinPath)
	}
	logger.Debug("formatted", logging.FieldMode, res.Mode, logging.FieldStatements, len(res.Selected))

	out := cmd.OutOrStdout()
	switch {
	case !res.Changed:
		fmt.Fprintln(cmd.ErrOrStderr(), noReformatMessage)
		if !cfg.Check && cfg.Format != config.FormatDiff {
			if _, err := io.WriteString(out, res.Text); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
		}
		return nil
	case cfg.Format == config.FormatDiff:
		if _, err := io.WriteString(out, fix.Unified(stdinPath, content, []byte(res.Text)).String()); err != nil {
			return fmt.Errorf("write diff: %w", err)
		}
	case !cfg.Check:
		if _, err := io.WriteString(out, res.Text); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
	}

	if cfg.Check {
		return ErrFormatNeeded
	}
	return nil
}

func formatFiles(cmd *cobra.Command, paths []string, workDir string, cfg *config.Config) error {
	logger := logging.Default()
	ctx := logging.WithLogger(commandContext(cmd), logger)

	outputFormat, err := reporter.ParseFormat(string(cfg.Format))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUsage, err)
	}

	p := pipeline.New(pipeline.OptionsFromConfig(cfg))
	runOpts := runner.OptionsFromConfig(cfg, paths)
	runOpts.WorkingDir = workDir

	logger.Debug("starting format run",
		logging.FieldPaths, runOpts.Paths,
		logging.FieldWorkingDir, runOpts.WorkingDir,
		logging.FieldJobs, runOpts.Jobs,
	)

	result, err := runner.New(p).Run(ctx, runOpts)
	if err != nil {
		return fmt.Errorf("format run failed: %w", err)
	}

	rep, err := reporter.New(reporter.Options{
		Writer:      cmd.OutOrStdout(),
		ErrorWriter: cmd.ErrOrStderr(),
		Format:      outputFormat,
		Color:       colorMode(cmd),
		ShowSummary: true,
		WorkingDir:  workDir,
	})
	if err != nil {
		return fmt.Errorf("create reporter: %w", err)
	}
	if _, err := rep.Report(ctx, result); err != nil {
		return fmt.Errorf("report results: %w", err)
	}

	logger.Debug("format run finished",
		logging.FieldFilesDiscovered, result.Stats.FilesDiscovered,
		logging.FieldFilesChanged, result.Stats.FilesChanged,
		logging.FieldFilesWritten, result.Stats.FilesWritten,
		logging.FieldFilesErrored, result.Stats.FilesErrored,
	)

	if err := result.Err(); err != nil {
		return errors.Join(errors.New("some files could not be formatted"), err)
	}
	if cfg.Check && result.NeedsFormatting() {
		return ErrFormatNeeded
	}
	return nil
}
