package style

import (
	"encoding/json"
	"fmt"
	"image/color"
	"io"

	"github.com/charmbracelet/lipgloss/v2"
	"github.com/lacquerai/weighin/internal/scorer"
	"gopkg.in/yaml.v3"
)

var (
	// Color palette
	ErrorColor   = lipgloss.Color("#FF6B6B")
	WarningColor = lipgloss.Color("#FFA726")
	SuccessColor = lipgloss.Color("#66BB6A")
	InfoColor    = lipgloss.Color("#42A5F5")
	MutedColor   = lipgloss.Color("#6C757D")
	AccentColor  = lipgloss.Color("#7C3AED")

	PrimaryTextColor = lipgloss.Color("#E9ECEF")
	CodeColor        = lipgloss.Color("#1A1B26")
	ErrorBgColor     = lipgloss.Color("#3B1219")

	// Base styles
	ErrorStyle   = lipgloss.NewStyle().Foreground(ErrorColor).Bold(true)
	WarningStyle = lipgloss.NewStyle().Foreground(WarningColor).Bold(true)
	SuccessStyle = lipgloss.NewStyle().Foreground(SuccessColor).Bold(true)
	InfoStyle    = lipgloss.NewStyle().Foreground(InfoColor).Bold(true)
	MutedStyle   = lipgloss.NewStyle().Foreground(MutedColor)

	TitleStyle = lipgloss.NewStyle().
			Bold(true)

	LabelStyle = lipgloss.NewStyle().
			Foreground(MutedColor).
			Width(14)

	ResultBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(0, 2).
			Margin(1, 0)
)

// categoryColors follow the severity of each category, green to red.
var categoryColors = map[scorer.Category]color.Color{
	scorer.NormalWeight:      SuccessColor,
	scorer.OverweightLevelI:  lipgloss.Color("#FFD54F"),
	scorer.OverweightLevelII: WarningColor,
	scorer.ObesityTypeI:      lipgloss.Color("#FF8A65"),
	scorer.ObesityTypeII:     ErrorColor,
	scorer.ObesityTypeIII:    lipgloss.Color("#D32F2F"),
}

// CategoryColor returns the display color of a category.
func CategoryColor(c scorer.Category) color.Color {
	if col, ok := categoryColors[c]; ok {
		return col
	}
	return MutedColor
}

// CategoryStyle returns a bold style in the category's color.
func CategoryStyle(c scorer.Category) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(CategoryColor(c)).Bold(true)
}

// PrintJSON outputs data as formatted JSON
func PrintJSON(w io.Writer, data interface{}) {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		fmt.Fprintf(w, "Error encoding JSON: %v\n", err)
	}
}

// PrintYAML outputs data as YAML
func PrintYAML(w io.Writer, data interface{}) {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(data); err != nil {
		fmt.Fprintf(w, "Error encoding YAML: %v\n", err)
	}
	encoder.Close()
}

func SuccessIcon() string {
	return SuccessStyle.Render("✓")
}

func ErrorIcon() string {
	return ErrorStyle.Render("✗")
}

// Success prints a success message with styling
func Success(w io.Writer, message string) {
	msg := lipgloss.NewStyle().Foreground(SuccessColor).Render(message)
	fmt.Fprintf(w, "%s %s\n", SuccessIcon(), msg)
}

// Error prints an error message with styling
func Error(w io.Writer, message string) {
	msg := lipgloss.NewStyle().Foreground(ErrorColor).Render(message)
	fmt.Fprintf(w, "%s %s\n", ErrorIcon(), msg)
}

// Warning prints a warning message with styling
func Warning(w io.Writer, message string) {
	icon := WarningStyle.Render("⚠")
	msg := lipgloss.NewStyle().Foreground(WarningColor).Render(message)
	fmt.Fprintf(w, "%s %s\n", icon, msg)
}

// Info prints an info message with styling
func Info(w io.Writer, message string) {
	icon := InfoStyle.Render("ℹ")
	msg := lipgloss.NewStyle().Foreground(InfoColor).Render(message)
	fmt.Fprintf(w, "%s %s\n", icon, msg)
}
