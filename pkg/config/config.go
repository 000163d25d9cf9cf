// Package config defines the configuration shared by the command line, the
// file runner and the language server. It holds plain data; loading and
// layering live in internal/configloader.
package config

import (
	"github.com/shadanan/mathmate/pkg/format"
	"github.com/shadanan/mathmate/pkg/fsutil"
)

// IndentStyle selects spaces or tabs.
type IndentStyle string

// Indent styles.
const (
	IndentSpaces IndentStyle = "spaces"
	IndentTabs   IndentStyle = "tabs"
)

// IsValid reports whether s is a known style.
func (s IndentStyle) IsValid() bool {
	return s == IndentSpaces || s == IndentTabs
}

// IndentConfig is the indentation unit.
type IndentConfig struct {
	Style IndentStyle `yaml:"style"`
	Size  int         `yaml:"size"`
}

// Format converts the configuration to the formatter's indent value.
func (c IndentConfig) Format() format.Indent {
	return format.Indent{Tabs: c.Style == IndentTabs, Size: c.Size}
}

// MarkdownConfig controls formatting of code blocks inside Markdown files.
type MarkdownConfig struct {
	Enabled bool `yaml:"enabled"`

	// Languages are the fence info strings treated as Mathematica.
	Languages []string `yaml:"languages"`
}

// BackupsConfig controls backups taken before files are rewritten.
type BackupsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Mode    string `yaml:"mode"`
	Suffix  string `yaml:"suffix"`
}

// OutputFormat selects a reporter.
type OutputFormat string

// Output formats.
const (
	FormatText    OutputFormat = "text"
	FormatJSON    OutputFormat = "json"
	FormatDiff    OutputFormat = "diff"
	FormatSummary OutputFormat = "summary"
)

// IsValid reports whether f is a known format.
func (f OutputFormat) IsValid() bool {
	switch f {
	case FormatText, FormatJSON, FormatDiff, FormatSummary:
		return true
	default:
		return false
	}
}

// Config is the root configuration.
type Config struct {
	Indent IndentConfig `yaml:"indent"`

	// Extensions lists the file extensions discovered in directories.
	Extensions []string `yaml:"extensions"`

	// Ignore holds glob patterns excluded from discovery.
	Ignore []string `yaml:"ignore"`

	Markdown MarkdownConfig `yaml:"markdown"`
	Backups  BackupsConfig  `yaml:"backups"`

	// Command line only.

	Write     bool         `yaml:"-"`
	Check     bool         `yaml:"-"`
	Format    OutputFormat `yaml:"-"`
	Jobs      int          `yaml:"-"`
	NoBackups bool         `yaml:"-"`
}

// Default values.
var (
	DefaultExtensions        = []string{".m", ".wl", ".wls", ".wlt", ".mt"}
	DefaultMarkdownLanguages = []string{"mathematica", "wolfram", "wl", "m"}
)

// NewConfig returns the defaults.
func NewConfig() *Config {
	return &Config{
		Indent: IndentConfig{
			Style: IndentSpaces,
			Size:  format.DefaultIndentSize,
		},
		Extensions: append([]string(nil), DefaultExtensions...),
		Markdown: MarkdownConfig{
			Languages: append([]string(nil), DefaultMarkdownLanguages...),
		},
		Backups: BackupsConfig{
			Enabled: true,
			Mode:    string(fsutil.BackupModeSidecar),
			Suffix:  fsutil.DefaultBackupSuffix,
		},
		Format: FormatText,
	}
}

// BackupConfig returns the backup settings in effect, honoring NoBackups.
func (c *Config) BackupConfig() fsutil.BackupConfig {
	return fsutil.BackupConfig{
		Enabled: c.Backups.Enabled && !c.NoBackups,
		Mode:    fsutil.BackupMode(c.Backups.Mode),
		Suffix:  c.Backups.Suffix,
	}
}
