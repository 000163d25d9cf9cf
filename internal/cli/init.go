package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/shadanan/mathmate/internal/configloader"
	"github.com/shadanan/mathmate/internal/logging"
	"github.com/shadanan/mathmate/pkg/config"
)

// configFilePermissions is the file mode for configuration files (world-readable).
const configFilePermissions = 0o644

// defaultConfigFile is the project configuration file init writes.
const defaultConfigFile = ".mathmate.yml"

type initFlags struct {
	force  bool
	output string
	indent indentFlags
}

func newInitCommand() *cobra.Command {
	flags := &initFlags{}

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a .mathmate.yml configuration file",
		Long: `Create a commented .mathmate.yml in the current directory holding the
default settings, adjusted by any indentation flags given.

Examples:
  mathmate init                         # Create .mathmate.yml
  mathmate init --indent-style tabs     # Start from tab indentation
  mathmate init -o ci/mathmate.yml      # Write somewhere else

Environment variables override the file:
`+envHelp(),
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return runInit(flags)
		},
	}

	cmd.Flags().BoolVarP(&flags.force, "force", "f", false, "overwrite an existing configuration file")
	cmd.Flags().StringVarP(&flags.output, "output", "o", defaultConfigFile, "output file path")
	flags.indent.register(cmd)

	return cmd
}

func runInit(flags *initFlags) error {
	logger := logging.NewInteractive()

	absPath, err := filepath.Abs(flags.output)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}

	if _, err := os.Stat(absPath); err == nil {
		if !flags.force {
			return fmt.Errorf("%w: file %q already exists; use --force to overwrite", ErrUsage, flags.output)
		}
		logger.Warn("overwriting existing file", logging.FieldPath, flags.output)
	}

	cfg := config.NewConfig()
	if flags.indent.style != "" {
		cfg.Indent.Style = config.IndentStyle(flags.indent.style)
	}
	if flags.indent.size > 0 {
		cfg.Indent.Size = flags.indent.size
	}
	if !cfg.Indent.Style.IsValid() {
		return fmt.Errorf("%w: invalid indent style %q: must be spaces or tabs", ErrUsage, cfg.Indent.Style)
	}

	if err := os.WriteFile(absPath, []byte(config.GenerateTemplate(cfg)), configFilePermissions); err != nil {
		return fmt.Errorf("write file: %w", err)
	}

	logger.Info("created configuration file", logging.FieldPath, flags.output)
	logger.Info("edit it to change indentation, extensions and ignore patterns")

	return nil
}

// envHelp lists the supported environment variables, sorted by name.
func envHelp() string {
	vars := configloader.ListEnvVars()
	names := make([]string, 0, len(vars))
	width := 0
	for name := range vars {
		names = append(names, name)
		width = max(width, len(name))
	}
	slices.Sort(names)

	var b strings.Builder
	for _, name := range names {
		fmt.Fprintf(&b, "  %-*s  %s\n", width, name, vars[name])
	}
	return strings.TrimSuffix(b.String(), "\n")
}
