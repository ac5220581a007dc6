package profiler

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss/v2"
	"github.com/lacquerai/weighin/internal/chart"
	"github.com/stoewer/go-strcase"
)

const (
	barWidth = 40
	boxWidth = 50
)

var (
	sectionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#7C3AED")).Bold(true)
	headerStyle  = lipgloss.NewStyle().Bold(true)
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#6C757D"))
)

// WriteText renders the report for a terminal, section by section.
func WriteText(w io.Writer, r *Report) {
	section(w, "First rows")
	writeTable(w, r.Header, r.Head)

	section(w, "Dataset info")
	rows := make([][]string, 0, len(r.Info))
	for _, c := range r.Info {
		rows = append(rows, []string{c.Name, strconv.Itoa(c.NonNull), string(c.DType)})
	}
	writeTable(w, []string{"Column", "Non-Null", "Dtype"}, rows)

	section(w, "Descriptive statistics")
	if len(r.Numeric) > 0 {
		rows = rows[:0]
		for _, n := range r.Numeric {
			rows = append(rows, []string{
				n.Column, strconv.Itoa(n.Count), num(n.Mean), num(n.Std), num(n.Min),
				num(n.Q25), num(n.Median), num(n.Q75), num(n.Max),
			})
		}
		writeTable(w, []string{"Column", "count", "mean", "std", "min", "25%", "50%", "75%", "max"}, rows)
	}
	if len(r.Categorical) > 0 {
		fmt.Fprintln(w)
		rows = rows[:0]
		for _, c := range r.Categorical {
			rows = append(rows, []string{c.Column, strconv.Itoa(c.Count), strconv.Itoa(c.Unique), c.Top, strconv.Itoa(c.Freq)})
		}
		writeTable(w, []string{"Column", "count", "unique", "top", "freq"}, rows)
	}

	section(w, "Shape")
	fmt.Fprintf(w, "%d rows, %d columns\n", r.Rows, r.Columns)

	section(w, "Missing values per column")
	rows = rows[:0]
	for _, c := range r.Info {
		rows = append(rows, []string{c.Name, strconv.Itoa(c.Missing)})
	}
	writeTable(w, []string{"Column", "Missing"}, rows)

	section(w, "Unique values per column")
	rows = rows[:0]
	for _, c := range r.Info {
		rows = append(rows, []string{c.Name, strconv.Itoa(c.Unique)})
	}
	writeTable(w, []string{"Column", "Unique"}, rows)

	section(w, "Duplicate rows")
	fmt.Fprintf(w, "%d\n", r.Duplicates)

	if r.Target != "" {
		section(w, fmt.Sprintf("Class distribution (%s)", r.Target))
		fmt.Fprint(w, chart.TerminalBars(r.CountBars(), barWidth))
	}

	if len(r.Numeric) > 0 {
		section(w, "Boxplots")
		labelW := 0
		for _, n := range r.Numeric {
			labelW = max(labelW, len(n.Column))
		}
		for _, n := range r.Numeric {
			if n.Count == 0 {
				continue
			}
			fmt.Fprintf(w, "%-*s %s %s\n", labelW, n.Column, chart.TerminalBox(n.Box, boxWidth),
				mutedStyle.Render(fmt.Sprintf("(%d outliers)", n.Outliers)))
		}
	}
}

// WriteCharts writes the class count plot and one boxplot per numeric column
// as SVG files into dir and returns the paths written.
func WriteCharts(dir string, r *Report) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create chart directory: %w", err)
	}

	var written []string
	write := func(name, svg string) error {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(svg), 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
		written = append(written, path)
		return nil
	}

	if r.Target != "" {
		title := fmt.Sprintf("Class distribution (%s)", r.Target)
		if err := write("countplot.svg", chart.CountPlot(title, r.CountBars())); err != nil {
			return written, err
		}
	}
	for _, n := range r.Numeric {
		if n.Count == 0 {
			continue
		}
		name := "boxplot_" + strcase.SnakeCase(n.Column) + ".svg"
		if err := write(name, chart.BoxPlot("Boxplot: "+n.Column, n.Box)); err != nil {
			return written, err
		}
	}
	return written, nil
}

func section(w io.Writer, title string) {
	fmt.Fprintf(w, "\n%s\n", sectionStyle.Render(title))
}

// writeTable prints rows in aligned columns under a bold header.
func writeTable(w io.Writer, headers []string, rows [][]string) {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = utf8.RuneCountInString(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) {
				widths[i] = max(widths[i], utf8.RuneCountInString(cell))
			}
		}
	}

	cells := make([]string, len(headers))
	for i, h := range headers {
		cells[i] = headerStyle.Render(pad(h, widths[i]))
	}
	fmt.Fprintln(w, strings.TrimRight(strings.Join(cells, "  "), " "))

	for i := range headers {
		cells[i] = strings.Repeat("-", widths[i])
	}
	fmt.Fprintln(w, strings.Join(cells, "  "))

	for _, row := range rows {
		out := make([]string, 0, len(row))
		for i, cell := range row {
			if i < len(widths) {
				out = append(out, pad(cell, widths[i]))
			}
		}
		fmt.Fprintln(w, strings.TrimRight(strings.Join(out, "  "), " "))
	}
}

func pad(s string, width int) string {
	return s + strings.Repeat(" ", max(0, width-utf8.RuneCountInString(s)))
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', 3, 64)
}
