// Package roles renders the history of roles created from this console.
package roles

import (
	"fmt"
	"strings"

	"roles-tui/config"
	"roles-tui/helpers"
	"roles-tui/rpc"
	"roles-tui/styles"

	"github.com/charmbracelet/lipgloss"
)

// Nav returns the navigation bar for the role history
func Nav(width int) string {
	left := strings.Join([]string{
		styles.Key("↑/↓") + " move",
		styles.Key("a") + " create role",
		styles.Key("c") + " copy target",
		styles.Key("x") + " revoke",
		styles.Key("r") + " refresh",
		styles.Key("h") + " home",
		styles.Key("s") + " settings",
		styles.Key("l") + " debug log",
		styles.Key("q") + " quit",
	}, "   ")

	return styles.NavStyle.Width(width).Render(left)
}

// RenderList renders the role entries, newest last
func RenderList(entries []config.RoleEntry, selectedIdx int) string {
	if len(entries) == 0 {
		return lipgloss.NewStyle().Foreground(styles.CMuted).Render("No roles created yet. Press 'a' to create one.")
	}

	var items []string
	for i, e := range entries {
		label := fmt.Sprintf("Role %d", e.ID)
		if e.Revoked {
			label += " (revoked)"
		}
		var line string
		if i == selectedIdx {
			marker := lipgloss.NewStyle().Foreground(styles.CAccent2).Bold(true).Render("▶ ")
			line = marker + lipgloss.NewStyle().Foreground(styles.CAccent2).Bold(true).Render(label) +
				"\n  " + lipgloss.NewStyle().Foreground(styles.CText).Render(e.Target)
		} else {
			line = "  " + lipgloss.NewStyle().Foreground(lipgloss.Color("#e1a2aa")).Render(label) +
				"\n  " + helpers.FadeString(e.Target, "#7D5AFC", "#FF87D7")
		}
		items = append(items, line)
	}

	return strings.Join(items, "\n\n")
}

// Render renders the role history page
func Render(entries []config.RoleEntry, selectedIdx int) string {
	header := styles.TitleStyle.Render("Role History")
	subtitle := lipgloss.NewStyle().Foreground(styles.CMuted).Render("Roles that allow all calls to one target")

	statusBar := lipgloss.NewStyle().Foreground(styles.CMuted).Render(
		fmt.Sprintf("%d roles", len(entries)),
	)

	return header + "\n" + subtitle + "\n\n" + RenderList(entries, selectedIdx) + "\n\n" + statusBar
}

// RenderEntry renders the details of one role entry
func RenderEntry(e config.RoleEntry, explorer string) string {
	muted := lipgloss.NewStyle().Foreground(styles.CMuted)
	val := lipgloss.NewStyle().Foreground(styles.CText)

	lines := []string{
		styles.TitleStyle.Render(fmt.Sprintf("Role %d", e.ID)),
		"",
		muted.Render("Target   ") + val.Render(e.Target),
		muted.Render("Options  ") + val.Render(describeOptions(e.Options)),
		muted.Render("Created  ") + val.Render(e.CreatedAt.Format("2006-01-02 15:04:05")),
	}
	if e.Revoked {
		lines = append(lines, muted.Render("Status   ")+lipgloss.NewStyle().Foreground(styles.CWarn).Render("revoked"))
	}
	switch {
	case e.TxHash != "" && explorer != "":
		link := rpc.TxURL(explorer, e.TxHash)
		// OSC 8 hyperlink
		lines = append(lines, muted.Render("Tx       ")+fmt.Sprintf("\x1b]8;;%s\x1b\\%s\x1b]8;;\x1b\\", link, val.Underline(true).Render(helpers.ShortenAddr(e.TxHash))))
	case e.TxHash != "":
		lines = append(lines, muted.Render("Tx       ")+val.Render(e.TxHash))
	case e.BatchFile != "":
		lines = append(lines, muted.Render("Batch    ")+val.Render(e.BatchFile))
	}

	return strings.Join(lines, "\n")
}

// describeOptions spells out what a role may do on its target. Entries
// recorded before options were configurable were always "both".
func describeOptions(name string) string {
	switch name {
	case "", "both":
		return "send + delegatecall"
	case "none":
		return "plain calls"
	}
	return name
}
