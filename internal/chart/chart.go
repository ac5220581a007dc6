// Package chart renders the small set of charts weighin needs: the BMI band
// shown with a prediction, and the class count plot and boxplots of a dataset
// profile. Every chart has an SVG form for the web and a text form for the
// terminal.
package chart

import (
	"fmt"
	"html"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss/v2"
	"github.com/lacquerai/weighin/internal/scorer"
)

const (
	bmiAxisMin = 10.0
	bmiAxisMax = 45.0
)

// Bracket colors follow the usual traffic light scale.
var bracketColors = map[string]string{
	"Underweight": "#42A5F5",
	"Normal":      "#66BB6A",
	"Overweight":  "#FFA726",
	"Obese":       "#FF6B6B",
}

// Bar is one labelled value of a bar chart.
type Bar struct {
	Label string  `json:"label" yaml:"label"`
	Value float64 `json:"value" yaml:"value"`
}

// BoxStats is the five number summary drawn by a boxplot. Whiskers end at
// the most extreme values within 1.5 IQR of the box.
type BoxStats struct {
	Min          float64   `json:"min" yaml:"min"`
	Q1           float64   `json:"q1" yaml:"q1"`
	Median       float64   `json:"median" yaml:"median"`
	Q3           float64   `json:"q3" yaml:"q3"`
	Max          float64   `json:"max" yaml:"max"`
	LowerWhisker float64   `json:"lower_whisker" yaml:"lower_whisker"`
	UpperWhisker float64   `json:"upper_whisker" yaml:"upper_whisker"`
	Outliers     []float64 `json:"outliers,omitempty" yaml:"outliers,omitempty"`
}

// BMIChart draws the four display brackets as a horizontal band with a
// marker at bmi.
func BMIChart(bmi float64) string {
	const (
		width  = 600.0
		height = 140.0
		left   = 20.0
		right  = 20.0
		bandY  = 50.0
		bandH  = 36.0
	)
	plotW := width - left - right
	x := func(v float64) float64 {
		v = math.Max(bmiAxisMin, math.Min(bmiAxisMax, v))
		return left + (v-bmiAxisMin)/(bmiAxisMax-bmiAxisMin)*plotW
	}

	var b strings.Builder
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" class="bmi-chart" viewBox="0 0 %.0f %.0f" width="%.0f" height="%.0f">`, width, height, width, height)
	b.WriteString(`<text x="20" y="24" font-size="14" font-weight="bold">Your BMI compared to the reference ranges</text>`)

	for _, br := range scorer.DisplayBrackets {
		upper := br.Upper
		if upper == 0 {
			upper = bmiAxisMax
		}
		lower := math.Max(br.Lower, bmiAxisMin)
		x0, x1 := x(lower), x(upper)
		fmt.Fprintf(&b, `<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="%s"/>`, x0, bandY, x1-x0, bandH, bracketColors[br.Name])
		fmt.Fprintf(&b, `<text x="%.1f" y="%.1f" font-size="11" text-anchor="middle" fill="#FFFFFF">%s</text>`, (x0+x1)/2, bandY+bandH/2+4, br.Name)
	}
	for _, threshold := range []float64{18.5, 25, 30} {
		fmt.Fprintf(&b, `<text x="%.1f" y="%.1f" font-size="10" text-anchor="middle" fill="#6C757D">%.1f</text>`, x(threshold), bandY+bandH+16, threshold)
	}

	mx := x(bmi)
	fmt.Fprintf(&b, `<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="#1A1B26" stroke-width="3"/>`, mx, bandY-8, mx, bandY+bandH+4)
	fmt.Fprintf(&b, `<text class="bmi-marker" x="%.1f" y="%.1f" font-size="12" font-weight="bold" text-anchor="middle">BMI %.1f</text>`, mx, bandY-12, bmi)
	b.WriteString(`</svg>`)
	return b.String()
}

// CountPlot draws a vertical bar per category, in the order given.
func CountPlot(title string, bars []Bar) string {
	const (
		height = 360.0
		top    = 40.0
		bottom = 110.0
		left   = 50.0
		slot   = 70.0
	)
	width := left + slot*float64(len(bars)) + 20
	plotH := height - top - bottom
	maxV := maxValue(bars)

	var b strings.Builder
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" class="count-plot" viewBox="0 0 %.0f %.0f" width="%.0f" height="%.0f">`, width, height, width, height)
	fmt.Fprintf(&b, `<text x="%.1f" y="24" font-size="14" font-weight="bold" text-anchor="middle">%s</text>`, width/2, html.EscapeString(title))
	fmt.Fprintf(&b, `<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="#6C757D"/>`, left, top+plotH, width-20, top+plotH)

	for i, bar := range bars {
		h := 0.0
		if maxV > 0 {
			h = bar.Value / maxV * plotH
		}
		bx := left + float64(i)*slot + 10
		by := top + plotH - h
		fmt.Fprintf(&b, `<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="#FFA726"/>`, bx, by, slot-20, h)
		fmt.Fprintf(&b, `<text x="%.1f" y="%.1f" font-size="10" text-anchor="middle">%s</text>`, bx+(slot-20)/2, by-4, formatValue(bar.Value))
		lx, ly := bx+(slot-20)/2, top+plotH+12
		fmt.Fprintf(&b, `<text x="%.1f" y="%.1f" font-size="10" text-anchor="end" transform="rotate(-45 %.1f %.1f)">%s</text>`, lx, ly, lx, ly, html.EscapeString(bar.Label))
	}
	b.WriteString(`</svg>`)
	return b.String()
}

// BoxPlot draws a horizontal boxplot of one numeric column.
func BoxPlot(title string, s BoxStats) string {
	const (
		width  = 500.0
		height = 120.0
		left   = 30.0
		right  = 30.0
		midY   = 65.0
		boxH   = 30.0
	)
	plotW := width - left - right
	span := s.Max - s.Min
	x := func(v float64) float64 {
		if span == 0 {
			return left + plotW/2
		}
		return left + (v-s.Min)/span*plotW
	}

	var b strings.Builder
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" class="box-plot" viewBox="0 0 %.0f %.0f" width="%.0f" height="%.0f">`, width, height, width, height)
	fmt.Fprintf(&b, `<text x="%.1f" y="20" font-size="13" font-weight="bold" text-anchor="middle">%s</text>`, width/2, html.EscapeString(title))
	fmt.Fprintf(&b, `<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="#1A1B26"/>`, x(s.LowerWhisker), midY, x(s.Q1), midY)
	fmt.Fprintf(&b, `<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="#1A1B26"/>`, x(s.Q3), midY, x(s.UpperWhisker), midY)
	fmt.Fprintf(&b, `<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="#42A5F5" stroke="#1A1B26"/>`, x(s.Q1), midY-boxH/2, x(s.Q3)-x(s.Q1), boxH)
	fmt.Fprintf(&b, `<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="#1A1B26" stroke-width="2"/>`, x(s.Median), midY-boxH/2, x(s.Median), midY+boxH/2)
	for _, w := range []float64{s.LowerWhisker, s.UpperWhisker} {
		fmt.Fprintf(&b, `<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="#1A1B26"/>`, x(w), midY-boxH/4, x(w), midY+boxH/4)
	}
	for _, o := range s.Outliers {
		fmt.Fprintf(&b, `<circle cx="%.1f" cy="%.1f" r="3" fill="none" stroke="#FF6B6B"/>`, x(o), midY)
	}
	fmt.Fprintf(&b, `<text x="%.1f" y="%.1f" font-size="10" fill="#6C757D">%s</text>`, left, midY+boxH, formatValue(s.Min))
	fmt.Fprintf(&b, `<text x="%.1f" y="%.1f" font-size="10" fill="#6C757D" text-anchor="end">%s</text>`, width-right, midY+boxH, formatValue(s.Max))
	b.WriteString(`</svg>`)
	return b.String()
}

var (
	barStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFA726"))
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#E4E4E7"))
	mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6C757D"))
)

// TerminalBars renders bars as rows of block characters scaled to width.
func TerminalBars(bars []Bar, width int) string {
	if len(bars) == 0 {
		return ""
	}
	labelW := 0
	for _, bar := range bars {
		labelW = max(labelW, len(bar.Label))
	}
	maxV := maxValue(bars)

	var b strings.Builder
	for _, bar := range bars {
		n := 0
		if maxV > 0 {
			n = int(math.Round(bar.Value / maxV * float64(width)))
		}
		label := labelStyle.Render(fmt.Sprintf("%-*s", labelW, bar.Label))
		fmt.Fprintf(&b, "%s │ %s %s\n", label, barStyle.Render(strings.Repeat("█", n)), mutedStyle.Render(formatValue(bar.Value)))
	}
	return b.String()
}

// TerminalBox renders a boxplot on one line: whiskers as ─, the box as ▒
// and the median as ┃.
func TerminalBox(s BoxStats, width int) string {
	if width < 10 {
		width = 10
	}
	span := s.Max - s.Min
	pos := func(v float64) int {
		if span == 0 {
			return width / 2
		}
		p := int(math.Round((v - s.Min) / span * float64(width-1)))
		return max(0, min(width-1, p))
	}

	line := []rune(strings.Repeat(" ", width))
	for i := pos(s.LowerWhisker); i <= pos(s.UpperWhisker); i++ {
		line[i] = '─'
	}
	for i := pos(s.Q1); i <= pos(s.Q3); i++ {
		line[i] = '▒'
	}
	for _, o := range s.Outliers {
		line[pos(o)] = '•'
	}
	line[pos(s.Median)] = '┃'

	return fmt.Sprintf("%s %s %s", mutedStyle.Render(formatValue(s.Min)), string(line), mutedStyle.Render(formatValue(s.Max)))
}

// TerminalBMI renders the display brackets as a text band with a caret under
// the position of bmi.
func TerminalBMI(bmi float64, width int) string {
	if width < 20 {
		width = 20
	}
	pos := func(v float64) int {
		v = math.Max(bmiAxisMin, math.Min(bmiAxisMax, v))
		p := int(math.Round((v - bmiAxisMin) / (bmiAxisMax - bmiAxisMin) * float64(width-1)))
		return max(0, min(width-1, p))
	}

	var band strings.Builder
	for _, br := range scorer.DisplayBrackets {
		start, end := pos(math.Max(br.Lower, bmiAxisMin)), width
		if br.Upper != 0 {
			end = pos(br.Upper)
		}
		n := end - start
		if n <= 0 {
			continue
		}
		style := lipgloss.NewStyle().Foreground(lipgloss.Color(bracketColors[br.Name]))
		band.WriteString(style.Render(strings.Repeat("█", n)))
	}

	marker := strings.Repeat(" ", pos(bmi)) + "▲ " + fmt.Sprintf("BMI %.1f (%s)", bmi, scorer.BracketOf(bmi).Name)
	return band.String() + "\n" + marker
}

func maxValue(bars []Bar) float64 {
	m := 0.0
	for _, bar := range bars {
		m = math.Max(m, bar.Value)
	}
	return m
}

func formatValue(v float64) string {
	if v == math.Trunc(v) && math.Abs(v) < 1e12 {
		return fmt.Sprintf("%.0f", v)
	}
	return fmt.Sprintf("%.2f", v)
}
