package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/shadanan/mathmate/internal/logging"
	"github.com/shadanan/mathmate/internal/lsp"
	"github.com/shadanan/mathmate/pkg/config"
)

// logFilePermissions is the file mode for the language server log.
const logFilePermissions = 0o600

func newLSPCommand(info BuildInfo) *cobra.Command {
	var logFile string

	cmd := &cobra.Command{
		Use:   "lsp",
		Short: "Run the language server on stdio",
		Long: `Run a Language Server Protocol server on standard input and output.

The server supports full document sync, document and range formatting,
hover with the scope path and symbol under the cursor, and one document
symbol per statement. Logs go to stderr, or to --log-file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runLSP(cmd, info, logFile)
		},
	}

	cmd.Flags().StringVar(&logFile, "log-file", "", "write logs to this file instead of stderr")

	return cmd
}

func runLSP(cmd *cobra.Command, info BuildInfo, logFile string) error {
	cfg, _, err := loadConfig(cmd, &config.Config{})
	if err != nil {
		return err
	}

	debug, _ := cmd.Flags().GetBool("debug")
	level := "info"
	if debug {
		level = "debug"
	}

	logger := logging.New(level)
	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFilePermissions)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer f.Close()
		logger = logging.NewWithWriter(f, level)
	}

	server := lsp.New(lsp.Options{
		Version: info.Version,
		Indent:  cfg.Indent.Format(),
		Debug:   debug,
		Logger:  logger,
	})
	return server.RunStdio()
}
