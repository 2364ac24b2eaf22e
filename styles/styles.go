package styles

import "github.com/charmbracelet/lipgloss"

// Theme colors
var (
	CBg      = lipgloss.Color("#0B0F14") // near-black
	CPanel   = lipgloss.Color("#0F1720")
	CBorder  = lipgloss.Color("#874BFD")
	CMuted   = lipgloss.Color("#8AA0B6")
	CText    = lipgloss.Color("#D6E2F0")
	CAccent  = lipgloss.Color("#7EE787") // green
	CAccent2 = lipgloss.Color("#79C0FF") // blue
	CWarn    = lipgloss.Color("#FFA657") // orange
	CError   = lipgloss.Color("#FF0000")
	CPink    = lipgloss.Color("#F25D94")
	CCream   = lipgloss.Color("#FFF7DB")
	CGrey    = lipgloss.Color("#888B7E")
)

// Page chrome
var (
	AppStyle = lipgloss.NewStyle().
			Background(CBg).
			Foreground(CText)

	TitleStyle = lipgloss.NewStyle().
			Foreground(CAccent2).
			Bold(true)

	PanelStyle = lipgloss.NewStyle().
			Background(CPanel).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(CBorder).
			Padding(1, 2)

	NavStyle = lipgloss.NewStyle().
			Background(CPanel).
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(CBorder).
			Padding(0, 1)

	MutedStyle = lipgloss.NewStyle().
			Foreground(CMuted)

	hotkeyKeyStyle = lipgloss.NewStyle().
			Foreground(CAccent).
			Bold(true)
)

// Dialogs and buttons
var (
	DialogStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(CBorder).
			Background(CPanel).
			Padding(1, 2)

	ButtonStyle = lipgloss.NewStyle().
			Foreground(CCream).
			Background(CPink).
			Padding(0, 3).
			MarginTop(1)

	DisabledButtonStyle = ButtonStyle.
				Background(CGrey)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(CError).
			Bold(true)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00FF00"))
)

// Key renders a key with accent styling
func Key(s string) string {
	return hotkeyKeyStyle.Render(s)
}
