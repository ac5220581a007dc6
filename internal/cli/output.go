package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss/v2"
	"github.com/lacquerai/weighin/internal/style"
	"github.com/spf13/viper"
)

// writeOutput prints data as JSON or YAML when requested, otherwise calls text.
func writeOutput(w io.Writer, format string, data any, text func()) error {
	switch format {
	case "json":
		style.PrintJSON(w, data)
	case "yaml":
		style.PrintYAML(w, data)
	case "text", "":
		text()
	default:
		return fmt.Errorf("unsupported output format %q (use text, json or yaml)", format)
	}
	return nil
}

// currentFormat is the --output value, lowercased.
func currentFormat() string {
	return strings.ToLower(viper.GetString("output"))
}

// printTable outputs data in a human-readable table format
func printTable(w io.Writer, headers []string, rows [][]string) {
	if len(rows) == 0 {
		return
	}

	// Calculate column widths
	widths := make([]int, len(headers))
	for i, header := range headers {
		widths[i] = lipgloss.Width(header)
	}

	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) && lipgloss.Width(cell) > widths[i] {
				widths[i] = lipgloss.Width(cell)
			}
		}
	}

	pad := func(s string, width int) string {
		return s + strings.Repeat(" ", max(0, width-lipgloss.Width(s)))
	}

	for i, header := range headers {
		fmt.Fprintf(w, "%s  ", pad(style.TitleStyle.Render(header), widths[i]))
	}
	fmt.Fprintln(w)

	for i := range headers {
		fmt.Fprintf(w, "%s  ", strings.Repeat("-", widths[i]))
	}
	fmt.Fprintln(w)

	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) {
				fmt.Fprintf(w, "%s  ", pad(cell, widths[i]))
			}
		}
		fmt.Fprintln(w)
	}
}
