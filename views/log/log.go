package log

import (
	"fmt"

	"roles-tui/styles"

	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"
)

// PanelHeight is the number of log lines shown for a terminal of height h,
// capped at a third of the screen and at 15 lines.
func PanelHeight(h int) int {
	// header (3 lines), nav (1 line), title + borders (4 lines), margins (2 lines)
	const reserved = 10
	available := max(5, h-reserved)
	return min(available, min(h/3, 15))
}

// Render renders the log panel; vp must already be sized with PanelHeight
func Render(width int, ready bool, spinnerView string, vp viewport.Model) string {
	title := lipgloss.NewStyle().
		Foreground(styles.CAccent2).
		Bold(true).
		Render("Log")

	border := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(styles.CBorder).
		Padding(0, 1).
		Width(max(0, width-2)).
		Height(vp.Height + 2) // title and spacing

	if !ready {
		return border.Render(title + "\n\n" + "initializing...\n" + spinnerView)
	}

	if vp.TotalLineCount() > vp.Height {
		title += lipgloss.NewStyle().
			Foreground(styles.CMuted).
			Render(fmt.Sprintf(" [%d%%] pgup/pgdn", int(vp.ScrollPercent()*100)))
	}

	return border.Render(title + "\n\n" + vp.View())
}
