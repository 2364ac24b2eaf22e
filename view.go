package main

import (
	"fmt"
	"strings"

	"roles-tui/config"
	"roles-tui/helpers"
	"roles-tui/rpc"
	"roles-tui/styles"
	"roles-tui/views/createrole"
	"roles-tui/views/details"
	"roles-tui/views/home"
	logview "roles-tui/views/log"
	"roles-tui/views/roles"
	"roles-tui/views/settings"

	"github.com/charmbracelet/lipgloss"
)

// -------------------- VIEW --------------------

func (m *model) renderCreateRoleDialog() string {
	dialog := styles.DialogStyle.Render(m.createRole.View())
	nav := createrole.Nav(lipgloss.Width(dialog))

	// Center the dialog on screen
	return lipgloss.Place(
		m.w, m.h,
		lipgloss.Center, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Left, dialog, nav),
	)
}

func (m *model) renderResultContent() string {
	created := m.lastCreated
	content := styles.TitleStyle.Render(fmt.Sprintf("Role %d Created", created.RoleID)) + "\n\n"

	content += styles.MutedStyle.Render("Allows all calls to ") +
		helpers.FadeString(created.Target, "#F25D94", "#EDFF82") + "\n\n"

	if link := m.resultLink(); link != "" {
		content += rpc.GenerateQRCode(link) + "\n"
	}

	label := "Transaction:"
	switch {
	case created.Receipt.BatchFile != "":
		label = "Safe Transaction Builder batch:"
	case m.cfg.Bridge == config.BridgeDryRun:
		label = "Dry run reference:"
	}
	content += styles.SuccessStyle.Render(label) + "\n\n"
	content += m.resultRef()

	hint := "Press Ctrl+C to copy • Press ESC or Enter to close"
	if created.Receipt.BatchFile != "" {
		hint = "Import the file in the Safe Transaction Builder • " + hint
	}
	content += "\n\n" + lipgloss.NewStyle().Foreground(lipgloss.Color("#666666")).Render(hint)

	if m.copiedMsg != "" {
		content += "\n" + styles.SuccessStyle.Bold(true).Render(m.copiedMsg)
	}
	return content
}

func (m *model) renderResultPanel() string {
	contentWidth := max(0, m.w-8)
	centeredContent := lipgloss.NewStyle().Width(contentWidth).Align(lipgloss.Center).Render(m.renderResultContent())
	content := panelStyle.Width(max(0, m.w-4)).Render(centeredContent)
	return appStyle.Render(lipgloss.Place(
		m.w, m.h,
		lipgloss.Center, lipgloss.Center,
		content,
	))
}

func (m *model) globalHeader() string {
	availableWidth := max(0, m.w-8) // Account for panel padding

	// Signer address
	var addrDisplay string
	if m.signerAddr != "" {
		addrDisplay = lipgloss.NewStyle().
			Foreground(cAccent2).
			Bold(true).
			Render("Signer: " + helpers.FadeString(helpers.ShortenAddr(m.signerAddr), "#F25D94", "#EDFF82"))
	} else {
		addrDisplay = lipgloss.NewStyle().
			Foreground(cMuted).
			Render("Signer: none")
	}

	// RPC Status with green dot
	var statusIcon string
	var statusColor lipgloss.Color
	var statusText string

	if m.rpcURL == "" {
		statusIcon = "○"
		statusColor = lipgloss.Color("#c01c28")
		statusText = "No RPC"
	} else if m.rpcConnecting {
		statusIcon = "○"
		statusColor = lipgloss.Color("#c01c28")
		statusText = "Connecting..."
	} else if !m.rpcConnected {
		statusIcon = "○"
		statusColor = lipgloss.Color("#c01c28")
		statusText = "Connection Failed"
	} else {
		statusIcon = "●"
		statusColor = cAccent
		for _, r := range m.cfg.RPCURLs {
			if r.Active && r.URL == m.rpcURL {
				statusText = r.Name
				break
			}
		}
		if statusText == "" {
			statusText = "Connected"
		}
	}

	rpcDisplay := lipgloss.NewStyle().
		Foreground(statusColor).
		Bold(true).
		Render(statusIcon + " " + statusText)

	titleText := lipgloss.NewStyle().
		Foreground(cAccent).
		Bold(true).
		Render(helpers.FadeString("roles console", "#7EE787", "#82CFFD"))

	addrWidth := lipgloss.Width(addrDisplay)
	rpcWidth := lipgloss.Width(rpcDisplay)
	titleWidth := lipgloss.Width(titleText)
	totalOtherWidth := addrWidth + rpcWidth + titleWidth

	var headerLine string
	if totalOtherWidth+4 > availableWidth {
		// Not enough space, stack vertically
		headerLine = addrDisplay + "\n" + titleText + "\n" + rpcDisplay
	} else {
		// Three-column layout: Signer | Title (centered) | RPC
		remainingSpace := availableWidth - totalOtherWidth
		leftPadding := remainingSpace / 2
		rightPadding := remainingSpace - leftPadding

		leftSpacer := strings.Repeat(" ", max(1, leftPadding))
		rightSpacer := strings.Repeat(" ", max(1, rightPadding))

		headerLine = addrDisplay + leftSpacer + titleText + rightSpacer + rpcDisplay
	}

	modifier := lipgloss.NewStyle().Foreground(cWarn).Render("Modifier: not set (see Settings)")
	if m.cfg.Modifier != "" {
		modifier = styles.MutedStyle.Render("Modifier: ") +
			lipgloss.NewStyle().Foreground(cText).Render(m.cfg.Modifier) +
			styles.MutedStyle.Render("  bridge: "+m.cfg.Bridge)
	}

	separator := lipgloss.NewStyle().
		Foreground(cBorder).
		Render(strings.Repeat("─", availableWidth))

	return headerLine + "\n" + modifier + "\n" + separator
}

func (m *model) View() string {
	if m.showResult {
		return m.renderResultPanel()
	}
	if m.createRole.IsOpen() {
		return m.renderCreateRoleDialog()
	}

	headerPanel := panelStyle.Width(max(0, m.w-2)).Render(m.globalHeader())

	var pageContent string
	var nav string

	switch m.activePage {
	case config.PageHome:
		pageContent = panelStyle.Width(max(0, m.w-2)).Render(home.Render(m.homeForm))
		nav = home.Nav(m.w - 2)

	case config.PageRoles:
		listContent := roles.Render(m.cfg.Roles, m.selectedRole)

		sideContent := details.Render(m.details, m.signerErr, m.cfg.Explorer, m.loading, m.spin.View())
		if m.selectedRole >= 0 && m.selectedRole < len(m.cfg.Roles) {
			sideContent = roles.RenderEntry(m.cfg.Roles[m.selectedRole], m.cfg.Explorer) + "\n\n" + sideContent
		}
		if m.copiedMsg != "" {
			sideContent += "\n\n" + lipgloss.NewStyle().Foreground(cAccent).Render(m.copiedMsg)
		}

		// Split 40/60
		listWidth := max(0, (m.w*4)/10-2)
		sideWidth := max(0, (m.w*6)/10-2)

		leftPanel := panelStyle.Width(listWidth).Render(listContent)
		rightPanel := panelStyle.Width(sideWidth + 1).Render(sideContent)
		height := max(lipgloss.Height(leftPanel), lipgloss.Height(rightPanel))
		leftPanel = panelStyle.Width(listWidth).Height(height - 2).Render(listContent)
		rightPanel = panelStyle.Width(sideWidth + 1).Height(height - 2).Render(sideContent)

		pageContent = lipgloss.JoinHorizontal(lipgloss.Top, leftPanel, rightPanel)
		nav = roles.Nav(m.w - 2)

	case config.PageSettings:
		settingsContent := settings.Render(m.cfg)
		if m.settingsEditing && m.form != nil {
			settingsContent = styles.TitleStyle.Render("Settings") + "\n\n" + m.form.View()
		}

		pageContent = panelStyle.Width(max(0, m.w-2)).Render(settingsContent)
		nav = settings.Nav(m.w-2, m.settingsEditing)
	}

	sections := []string{headerPanel, pageContent, nav}

	// Render log panel only if enabled
	if m.logEnabled {
		// Keep viewport height in sync with the rendered panel
		m.logViewport.Height = logview.PanelHeight(m.h)
		sections = append(sections, logview.Render(m.w, m.logReady, m.logSpinner.View(), m.logViewport))
	}

	return appStyle.Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
}
