package settings

import (
	"strings"

	"roles-tui/config"
	"roles-tui/helpers"
	"roles-tui/styles"

	"github.com/charmbracelet/lipgloss"
)

// Nav returns the navigation bar for settings view
func Nav(width int, editing bool) string {
	var left string
	if editing {
		left = strings.Join([]string{
			styles.Key("Tab") + " next field",
			styles.Key("Enter") + " next/save",
			styles.Key("Esc") + " cancel",
		}, "   ")
	} else {
		left = strings.Join([]string{
			styles.Key("e") + " edit",
			styles.Key("w") + " roles",
			styles.Key("h") + " home",
			styles.Key("l") + " debug log",
			styles.Key("Esc") + " back",
		}, "   ")
	}

	return styles.NavStyle.Width(width).Render(left)
}

// Render renders the current settings
func Render(cfg config.Config) string {
	h := styles.TitleStyle.Render("Settings")

	key := lipgloss.NewStyle().Foreground(styles.CMuted).Width(16)
	val := lipgloss.NewStyle().Foreground(styles.CText)
	unset := lipgloss.NewStyle().Foreground(styles.CWarn).Render("not set")

	show := func(s string) string {
		if s == "" {
			return unset
		}
		return val.Render(s)
	}

	modifier := unset
	if cfg.Modifier != "" {
		modifier = helpers.FadeString(cfg.Modifier, "#F25D94", "#EDFF82")
	}

	lines := []string{h, ""}
	lines = append(lines, key.Render("RPC")+show(cfg.ActiveRPC()))
	lines = append(lines, key.Render("Roles Modifier")+modifier)
	lines = append(lines, key.Render("Explorer")+show(cfg.Explorer))
	lines = append(lines, key.Render("Bridge")+show(cfg.Bridge))
	lines = append(lines, key.Render("Role IDs")+show(cfg.RoleIDs))
	lines = append(lines, key.Render("Exec Options")+show(cfg.ExecOptions().String()))
	if cfg.Bridge == config.BridgeFile {
		lines = append(lines, key.Render("Batch Directory")+show(cfg.BatchDir))
	}
	lines = append(lines, key.Render("Keystore")+show(cfg.Keystore))

	lines = append(lines, "")
	lines = append(lines, lipgloss.NewStyle().Foreground(styles.CMuted).Render("Press ")+styles.Key("e")+lipgloss.NewStyle().Foreground(styles.CMuted).Render(" to edit."))

	return strings.Join(lines, "\n")
}
