package config

import (
	"fmt"
	"strings"
)

// GenerateTemplate renders a commented configuration file holding the
// values of c.
func GenerateTemplate(c *Config) string {
	if c == nil {
		c = NewConfig()
	}

	var b strings.Builder
	b.WriteString("# mathmate configuration\n")
	b.WriteString("# Values here are overridden by MATHMATE_* environment variables and flags.\n\n")

	b.WriteString("indent:\n")
	b.WriteString("  # spaces or tabs\n")
	fmt.Fprintf(&b, "  style: %s\n", c.Indent.Style)
	b.WriteString("  # spaces per level; with tabs, the width a tab counts for\n")
	fmt.Fprintf(&b, "  size: %d\n\n", c.Indent.Size)

	b.WriteString("# extensions picked up when a directory is formatted\n")
	writeList(&b, "extensions", c.Extensions)

	b.WriteString("# glob patterns to skip\n")
	writeList(&b, "ignore", c.Ignore)

	b.WriteString("markdown:\n")
	b.WriteString("  # reformat Mathematica fenced code blocks in .md files\n")
	fmt.Fprintf(&b, "  enabled: %t\n", c.Markdown.Enabled)
	b.WriteString("  languages:")
	writeItems(&b, c.Markdown.Languages, "    ")
	b.WriteString("\n")

	b.WriteString("backups:\n")
	fmt.Fprintf(&b, "  enabled: %t\n", c.Backups.Enabled)
	b.WriteString("  # sidecar or none\n")
	fmt.Fprintf(&b, "  mode: %s\n", c.Backups.Mode)
	fmt.Fprintf(&b, "  suffix: %s\n", c.Backups.Suffix)
	return b.String()
}

func writeList(b *strings.Builder, key string, items []string) {
	b.WriteString(key + ":")
	writeItems(b, items, "  ")
	b.WriteString("\n")
}

func writeItems(b *strings.Builder, items []string, indent string) {
	if len(items) == 0 {
		b.WriteString(" []\n")
		return
	}
	b.WriteString("\n")
	for _, item := range items {
		fmt.Fprintf(b, "%s- %q\n", indent, item)
	}
}
