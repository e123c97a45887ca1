package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// ProgressBar renders written/total as a bracketed bar of the given width.
// A full bar uses the success color.
func (t *Theme) ProgressBar(written, total, width int) string {
	inner := max(width-2, 4)

	filled := inner
	if total > 0 {
		filled = min(max(written, 0)*inner/total, inner)
	} else if written <= 0 {
		filled = 0
	}

	bar := "[" + strings.Repeat("█", filled) + strings.Repeat("░", inner-filled) + "]"
	if filled == inner {
		return t.Success.Render(bar)
	}
	return t.Primary.Render(bar)
}

// Truncate cuts s to maxWidth runes, ending in an ellipsis when there is
// room for one.
func Truncate(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	if lipgloss.Width(s) <= maxWidth {
		return s
	}
	runes := []rune(s)
	if maxWidth <= 3 {
		return string(runes[:maxWidth])
	}
	return string(runes[:maxWidth-1]) + "…"
}

// PadRight left-aligns s in a field of width cells.
func PadRight(s string, width int) string {
	return s + strings.Repeat(" ", max(width-lipgloss.Width(s), 0))
}

// PadLeft right-aligns s in a field of width cells.
func PadLeft(s string, width int) string {
	return strings.Repeat(" ", max(width-lipgloss.Width(s), 0)) + s
}

// ContentWidth clamps the terminal width to [minWidth, maxWidth]. A
// maxWidth of zero means no upper bound.
func ContentWidth(termWidth, minWidth, maxWidth int) int {
	w := max(termWidth, minWidth)
	if maxWidth > 0 {
		w = min(w, maxWidth)
	}
	return w
}
