// Package diagram renders run results for terminals and image files:
// asciigraph convergence charts and box-drawing summaries on the text side,
// gonum/plot P-M and convergence figures on the image side.
package diagram

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/guptarohit/asciigraph"
)

// ConvergenceChart renders the best-cost history as a terminal line chart.
// Zero width or height picks the house defaults.
func ConvergenceChart(history []float64, width, height int) string {
	if len(history) == 0 {
		return ""
	}
	if width <= 0 {
		width = 60
	}
	if height <= 0 {
		height = 12
	}
	return asciigraph.Plot(history,
		asciigraph.Width(width),
		asciigraph.Height(height),
		asciigraph.Precision(0),
		asciigraph.Caption(fmt.Sprintf("best cost (¥) over %d generations", len(history))),
	)
}

// SummaryBox frames a titled block of result lines.
func SummaryBox(title string, lines []string) string {
	var sb strings.Builder

	maxLen := utf8.RuneCountInString(title)
	for _, line := range lines {
		if n := utf8.RuneCountInString(line); n > maxLen {
			maxLen = n
		}
	}
	maxLen += 4

	border := strings.Repeat("═", maxLen)
	sb.WriteString(fmt.Sprintf("  ╔%s╗\n", border))
	sb.WriteString(fmt.Sprintf("  ║  %s  ║\n", padRight(title, maxLen-4)))
	sb.WriteString(fmt.Sprintf("  ╠%s╣\n", border))
	for _, line := range lines {
		sb.WriteString(fmt.Sprintf("  ║  %s  ║\n", padRight(line, maxLen-4)))
	}
	sb.WriteString(fmt.Sprintf("  ╚%s╝\n", border))

	return sb.String()
}

// UtilizationBar renders a demand/capacity ratio as a fixed-width gauge.
// Ratios beyond 1 show a full bar; the number tells the rest.
func UtilizationBar(ratio float64, width int) string {
	if width <= 0 {
		width = 20
	}
	clamped := ratio
	if clamped < 0 {
		clamped = 0
	}
	if clamped > 1 {
		clamped = 1
	}
	filled := int(clamped*float64(width) + 0.5)
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	return fmt.Sprintf("[%s] %.2f", bar, ratio)
}

// padRight pads by rune count, so box borders stay aligned around ¥ and ×.
func padRight(s string, width int) string {
	if n := width - utf8.RuneCountInString(s); n > 0 {
		return s + strings.Repeat(" ", n)
	}
	return s
}
