package main

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/spboyer/modelpick/internal/projectconfig"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// outputFormat returns --format when set, else the configured default.
func outputFormat(cmd *cobra.Command, flag string, cfg *projectconfig.ProjectConfig) (string, error) {
	format := cfg.Defaults.Format
	if cmd.Flags().Changed("format") {
		format = flag
	}
	if !slices.Contains(projectconfig.Formats, format) {
		return "", fmt.Errorf("unsupported format %q: must be one of %s", format, strings.Join(projectconfig.Formats, ", "))
	}
	return format, nil
}

// writeStructured writes v as JSON or YAML.
func writeStructured(w io.Writer, format string, v any) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unsupported structured format %q", format)
	}
}

// padRight pads s with spaces so its terminal display width reaches width.
func padRight(s string, width int) string {
	sw := runewidth.StringWidth(s)
	if sw >= width {
		return s
	}
	return s + strings.Repeat(" ", width-sw)
}

// columnWidth is the display width of the widest cell, at least minWidth.
func columnWidth(minWidth int, cells ...string) int {
	w := minWidth
	for _, c := range cells {
		w = max(w, runewidth.StringWidth(c))
	}
	return w
}
