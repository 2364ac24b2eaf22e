package createrole

import (
	"strings"

	"roles-tui/styles"
)

// View renders the modal body; the caller places it on screen
func (m Model) View() string {
	title := styles.TitleStyle.Render("Create a new role")
	subtitle := styles.MutedStyle.Render("Create a new role that allows all calls to this target")

	var button string
	switch {
	case m.phase == Submitting:
		button = styles.DisabledButtonStyle.Render(m.spin.View() + " Creating role...")
	case m.CanSubmit():
		button = styles.ButtonStyle.Render("+ Create role")
	default:
		button = styles.DisabledButtonStyle.Render("+ Create role")
	}

	lines := []string{title, subtitle, "", m.input.View(), button}
	if m.lastErr != "" {
		lines = append(lines, "", styles.ErrorStyle.Render(m.lastErr))
	}

	return strings.Join(lines, "\n")
}

// Nav returns the hotkey bar shown while the modal is open
func Nav(width int) string {
	left := strings.Join([]string{
		styles.Key("Enter") + " create role",
		styles.Key("Ctrl+v") + " paste",
		styles.Key("Esc") + " close",
	}, "   ")

	return styles.NavStyle.Width(width).Render(left)
}
