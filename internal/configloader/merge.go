package configloader

import (
	"slices"

	"github.com/shadanan/mathmate/pkg/config"
)

// merge combines two configurations, with override taking precedence over base.
// The merge follows these rules:
//   - Scalar values: override overwrites base if override is non-zero
//   - Slices: override replaces base entirely if override is non-nil
//   - Booleans: only true in override is applied
func merge(base, override *config.Config) *config.Config {
	if base == nil {
		return override
	}
	if override == nil {
		return base
	}

	result := base.Clone()

	if override.Indent.Style != "" {
		result.Indent.Style = override.Indent.Style
	}
	if override.Indent.Size != 0 {
		result.Indent.Size = override.Indent.Size
	}
	if override.Format != "" {
		result.Format = override.Format
	}
	if override.Jobs != 0 {
		result.Jobs = override.Jobs
	}
	if override.Backups.Mode != "" {
		result.Backups.Mode = override.Backups.Mode
	}
	if override.Backups.Suffix != "" {
		result.Backups.Suffix = override.Backups.Suffix
	}

	// Booleans only switch on.
	if override.Write {
		result.Write = true
	}
	if override.Check {
		result.Check = true
	}
	if override.NoBackups {
		result.NoBackups = true
	}
	if override.Markdown.Enabled {
		result.Markdown.Enabled = true
	}

	if override.Ignore != nil {
		result.Ignore = slices.Clone(override.Ignore)
	}
	if override.Extensions != nil {
		result.Extensions = slices.Clone(override.Extensions)
	}
	if override.Markdown.Languages != nil {
		result.Markdown.Languages = slices.Clone(override.Markdown.Languages)
	}

	return result
}
