package home

import (
	"strings"

	"roles-tui/styles"

	"github.com/charmbracelet/huh"
)

// Menu choices
const (
	ChoiceCreate   = "create"
	ChoiceRoles    = "roles"
	ChoiceSettings = "settings"
)

// TempSelection stores the home menu selection
var TempSelection string

// CreateForm creates the home menu form
func CreateForm() *huh.Form {
	TempSelection = ""

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Options(
					huh.NewOption("Create Role", ChoiceCreate),
					huh.NewOption("Role History", ChoiceRoles),
					huh.NewOption("Settings", ChoiceSettings),
				).
				Title("Main Menu").
				Description("Scope a Roles modifier role to a single target").
				Value(&TempSelection),
		),
	).WithTheme(huh.ThemeCatppuccin())

	form.Init()
	return form
}

// Render renders the home view
func Render(form *huh.Form) string {
	if form != nil {
		return form.View()
	}
	return "Loading menu..."
}

// Nav returns the navigation bar for home view
func Nav(width int) string {
	left := strings.Join([]string{
		styles.Key("↑/↓") + " select",
		styles.Key("Enter") + " go",
		styles.Key("l") + " logger",
		styles.Key("Esc") + " quit",
	}, "   ")

	return styles.NavStyle.Width(width).Render(left)
}
