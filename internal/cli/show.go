package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/shadanan/mathmate/internal/logging"
	"github.com/shadanan/mathmate/pkg/config"
	"github.com/shadanan/mathmate/pkg/engine"
	"github.com/shadanan/mathmate/pkg/reporter"
)

type showFlags struct {
	format string
	indent indentFlags
	cursor cursorFlags
}

func newShowCommand() *cobra.Command {
	flags := &showFlags{}

	cmd := &cobra.Command{
		Use:   "show [file|-]",
		Short: "Show the statements a cursor resolves to",
		Long: `Show how a buffer is split at a cursor without changing it.

Prints the cursor position with its scope path and the symbol under it,
then the boundaries of every affected statement with its raw and
reformatted text. Reads standard input when no file or "-" is given.

Examples:
  mathmate show --line 4 --column 2 Package.wl
  mathmate show --up-to-cursor --line 10 - < notebook.m
  mathmate show --format json --whole-document Package.wl`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShow(cmd, args, flags)
		},
	}

	cmd.Flags().StringVar(&flags.format, "format", "text", "output format: text, json")
	flags.indent.register(cmd)
	flags.cursor.register(cmd)

	return cmd
}

func runShow(cmd *cobra.Command, args []string, flags *showFlags) error {
	cliCfg := &config.Config{}
	flags.indent.apply(cliCfg)

	cfg, _, err := loadConfig(cmd, cliCfg)
	if err != nil {
		return err
	}

	path := stdinPath
	var content []byte
	if len(args) == 0 || args[0] == "-" {
		content, err = io.ReadAll(cmd.InOrStdin())
	} else {
		path = args[0]
		content, err = os.ReadFile(path)
	}
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	res, err := engine.Run(flags.cursor.request(string(content), cfg.Indent.Format()))
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	logging.Default().Debug("resolved cursor",
		logging.FieldPath, path,
		logging.FieldMode, res.Mode,
		logging.FieldOffset, res.Cursor.Offset,
		logging.FieldScopePath, res.Cursor.ScopePath,
	)

	outputFormat, err := reporter.ParseFormat(flags.format)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUsage, err)
	}
	rep, err := reporter.NewShow(reporter.Options{
		Writer:      cmd.OutOrStdout(),
		ErrorWriter: cmd.ErrOrStderr(),
		Format:      outputFormat,
		Color:       colorMode(cmd),
	})
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUsage, err)
	}
	return rep.Show(commandContext(cmd), res)
}
