package configloader

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/shadanan/mathmate/pkg/config"
)

// envVarPrefix is the prefix for all mathmate environment variables.
const envVarPrefix = "MATHMATE_"

// TextMate editor variables, read at lower priority than MATHMATE_*.
const (
	envTabSize  = "TM_TAB_SIZE"
	envSoftTabs = "TM_SOFT_TABS"
)

// envFieldType represents the type of a configuration field.
type envFieldType int

const (
	envTypeString envFieldType = iota
	envTypeBool
	envTypeInt
	envTypeSlice
)

// envMapping defines environment variable to config field mappings.
type envMapping struct {
	field string
	typ   envFieldType
}

// envMappings maps environment variable names (without prefix) to config fields.
//
//nolint:gochecknoglobals // Read-only lookup table.
var envMappings = map[string]envMapping{
	"INDENT_STYLE": {field: "indent.style", typ: envTypeString},
	"INDENT_SIZE":  {field: "indent.size", typ: envTypeInt},
	"JOBS":         {field: "jobs", typ: envTypeInt},
	"FORMAT":       {field: "format", typ: envTypeString},
	"IGNORE":       {field: "ignore", typ: envTypeSlice},
	"EXTENSIONS":   {field: "extensions", typ: envTypeSlice},
	"NO_BACKUPS":   {field: "no_backups", typ: envTypeBool},
	"MARKDOWN":     {field: "markdown.enabled", typ: envTypeBool},
}

// LoadFromEnv applies environment variable overrides to the configuration.
// TextMate's TM_TAB_SIZE and TM_SOFT_TABS apply first, then MATHMATE_*
// variables (e.g., MATHMATE_INDENT_SIZE).
func LoadFromEnv(cfg *config.Config) error {
	if cfg == nil {
		return nil
	}

	if err := loadEditorEnv(cfg); err != nil {
		return err
	}

	for envSuffix, mapping := range envMappings {
		envVar := envVarPrefix + envSuffix
		value := os.Getenv(envVar)
		if value == "" {
			continue
		}

		if err := applyEnvValue(cfg, mapping, value, envVar); err != nil {
			return err
		}
	}

	return nil
}

// loadEditorEnv applies the indent settings an editor passes to commands.
func loadEditorEnv(cfg *config.Config) error {
	if value := os.Getenv(envTabSize); value != "" {
		size, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid integer for %s: %q", envTabSize, value)
		}
		cfg.Indent.Size = size
	}

	switch value := os.Getenv(envSoftTabs); strings.ToUpper(value) {
	case "":
	case "YES":
		cfg.Indent.Style = config.IndentSpaces
	case "NO":
		cfg.Indent.Style = config.IndentTabs
	default:
		return fmt.Errorf("invalid value for %s: %q (expected YES or NO)", envSoftTabs, value)
	}

	return nil
}

// applyEnvValue applies a single environment variable value to the config.
func applyEnvValue(cfg *config.Config, mapping envMapping, value, envVar string) error {
	switch mapping.typ {
	case envTypeString:
		return setStringField(cfg, mapping.field, value)
	case envTypeBool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean for %s: %q (expected true/false/1/0)", envVar, value)
		}
		return setBoolField(cfg, mapping.field, b)
	case envTypeInt:
		i, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid integer for %s: %q", envVar, value)
		}
		return setIntField(cfg, mapping.field, i)
	case envTypeSlice:
		return setSliceField(cfg, mapping.field, parseSliceValue(value))
	default:
		return fmt.Errorf("unknown field type for %s", envVar)
	}
}

// parseSliceValue parses a comma-separated string into a slice.
// Each element is trimmed of whitespace.
func parseSliceValue(value string) []string {
	if value == "" {
		return nil
	}

	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

// setStringField sets a string field on the config by field path.
func setStringField(cfg *config.Config, field, value string) error {
	switch field {
	case "indent.style":
		cfg.Indent.Style = config.IndentStyle(value)
	case "format":
		cfg.Format = config.OutputFormat(value)
	default:
		return fmt.Errorf("unknown string field: %s", field)
	}
	return nil
}

// setBoolField sets a boolean field on the config by field path.
func setBoolField(cfg *config.Config, field string, value bool) error {
	switch field {
	case "no_backups":
		cfg.NoBackups = value
	case "markdown.enabled":
		cfg.Markdown.Enabled = value
	default:
		return fmt.Errorf("unknown boolean field: %s", field)
	}
	return nil
}

// setIntField sets an integer field on the config by field path.
func setIntField(cfg *config.Config, field string, value int) error {
	switch field {
	case "indent.size":
		cfg.Indent.Size = value
	case "jobs":
		cfg.Jobs = value
	default:
		return fmt.Errorf("unknown integer field: %s", field)
	}
	return nil
}

// setSliceField sets a slice field on the config by field path.
func setSliceField(cfg *config.Config, field string, value []string) error {
	switch field {
	case "ignore":
		cfg.Ignore = value
	case "extensions":
		cfg.Extensions = value
	default:
		return fmt.Errorf("unknown slice field: %s", field)
	}
	return nil
}

// ListEnvVars returns all supported environment variables with their descriptions.
func ListEnvVars() map[string]string {
	return map[string]string{
		"MATHMATE_INDENT_STYLE": "Indent style: spaces or tabs",
		"MATHMATE_INDENT_SIZE":  "Spaces per indent level",
		"MATHMATE_JOBS":         "Number of parallel workers (0 = auto)",
		"MATHMATE_FORMAT":       "Output format: text, json, diff, or summary",
		"MATHMATE_IGNORE":       "Comma-separated list of ignore patterns",
		"MATHMATE_EXTENSIONS":   "Comma-separated list of file extensions",
		"MATHMATE_NO_BACKUPS":   "Disable backups: true or false",
		"MATHMATE_MARKDOWN":     "Format code blocks in Markdown files: true or false",
		envTabSize:              "Editor tab size, used when MATHMATE_INDENT_SIZE is unset",
		envSoftTabs:             "Editor soft tabs (YES or NO), used when MATHMATE_INDENT_STYLE is unset",
	}
}
