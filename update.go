package main

import (
	"fmt"
	"strings"
	"time"

	"roles-tui/config"
	"roles-tui/helpers"
	"roles-tui/roles"
	"roles-tui/rpc"
	"roles-tui/views/createrole"
	"roles-tui/views/home"
	"roles-tui/wallet"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
)

// -------------------- TEMP FORM STORAGE --------------------
// Temporary form field storage (package-level to avoid pointer-to-copy issues)
var (
	tempSettingsRPC      string
	tempSettingsModifier string
	tempSettingsExplorer string
	tempSettingsBridge   string
	tempSettingsRoleIDs  string
	tempSettingsExec     string
	tempSettingsBatchDir string
	tempSettingsKeystore string
)

func (m *model) createSettingsForm() {
	tempSettingsRPC = m.cfg.ActiveRPC()
	tempSettingsModifier = m.cfg.Modifier
	tempSettingsExplorer = m.cfg.Explorer
	tempSettingsBridge = m.cfg.Bridge
	tempSettingsRoleIDs = m.cfg.RoleIDs
	tempSettingsExec = m.cfg.ExecOptions().String()
	tempSettingsBatchDir = m.cfg.BatchDir
	tempSettingsKeystore = m.cfg.Keystore

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("RPC URL").
				Description("The complete RPC URL (https://...)").
				Value(&tempSettingsRPC).
				Placeholder("https://mainnet.infura.io/v3/..."),

			huh.NewInput().
				Title("Roles Modifier").
				Description("Address of the Zodiac Roles modifier").
				Value(&tempSettingsModifier).
				Placeholder("0x...").
				Validate(func(s string) error {
					s = strings.TrimSpace(s)
					if s != "" && !helpers.IsValidEthAddress(s) {
						return fmt.Errorf("invalid ethereum address")
					}
					return nil
				}),

			huh.NewInput().
				Title("Explorer").
				Description("Block explorer base URL for transaction links").
				Value(&tempSettingsExplorer).
				Placeholder("https://etherscan.io"),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Wallet Bridge").
				Description("How the allowTarget call leaves this console").
				Options(
					huh.NewOption("Dry run (log only)", config.BridgeDryRun),
					huh.NewOption("Sign and broadcast over RPC", config.BridgeRPC),
					huh.NewOption("Safe Transaction Builder batch file", config.BridgeFile),
				).
				Value(&tempSettingsBridge),

			huh.NewSelect[string]().
				Title("Role IDs").
				Options(
					huh.NewOption("Clock (last 4 digits of ms timestamp)", config.RoleIDsClock),
					huh.NewOption("Sequential (after highest used)", config.RoleIDsSequential),
				).
				Value(&tempSettingsRoleIDs),

			huh.NewSelect[string]().
				Title("Execution Options").
				Description("What new roles may do on their target").
				Options(
					huh.NewOption("Send value and delegatecall", roles.ExecBoth.String()),
					huh.NewOption("Send value", roles.ExecSend.String()),
					huh.NewOption("Delegatecall", roles.ExecDelegateCall.String()),
					huh.NewOption("Plain calls only", roles.ExecNone.String()),
				).
				Value(&tempSettingsExec),

			huh.NewInput().
				Title("Batch Directory").
				Description("Where batch files are written").
				Value(&tempSettingsBatchDir).
				Placeholder("."),

			huh.NewInput().
				Title("Keystore").
				Description("Encrypted key file; ROLES_PRIVATE_KEY takes precedence").
				Value(&tempSettingsKeystore).
				Placeholder("~/.ethereum/keystore/UTC--..."),
		),
	).WithTheme(huh.ThemeCatppuccin())

	// Initialize the form
	m.form.Init()
}

// applySettings stores the submitted settings form and reconnects what changed
func (m *model) applySettings() tea.Cmd {
	next := m.cfg
	next.SetActiveRPC(tempSettingsRPC)
	next.Modifier = strings.TrimSpace(tempSettingsModifier)
	next.Explorer = strings.TrimSpace(tempSettingsExplorer)
	next.Bridge = tempSettingsBridge
	next.RoleIDs = tempSettingsRoleIDs
	next.Exec = tempSettingsExec
	next.BatchDir = strings.TrimSpace(tempSettingsBatchDir)
	next.Keystore = strings.TrimSpace(tempSettingsKeystore)
	if err := next.Validate(); err != nil {
		m.addLog("error", "Settings rejected", "err", err)
		return nil
	}

	prev := m.cfg
	m.cfg = next
	m.saveConfig()
	m.addLog("success", "Settings saved", "bridge", m.cfg.Bridge, "role_ids", m.cfg.RoleIDs, "exec", m.cfg.ExecOptions())

	var cmds []tea.Cmd
	if m.cfg.Keystore != prev.Keystore {
		m.connector = wallet.ConnectorFromEnv(m.cfg.Keystore)
		m.signerAddr = ""
		m.signerErr = ""
		m.loading = true
		cmds = append(cmds, loadSigner(m.connector))
	}
	if url := m.cfg.ActiveRPC(); url != m.rpcURL {
		m.rpcURL = url
		m.ethClient = nil
		m.rpcConnected = false
		m.rpcConnecting = true
		cmds = append(cmds, connectRPC(url))
	}
	m.rewire()
	return tea.Batch(cmds...)
}

// refreshDetails reloads chain id, balance and nonce for the signer
func (m *model) refreshDetails() tea.Cmd {
	if m.signerAddr == "" {
		return nil
	}
	m.loading = true
	return loadDetails(m.ethClient, m.signerAddr)
}

// resultRef is what the result panel shows and copies
func (m model) resultRef() string {
	if m.lastCreated.Receipt.BatchFile != "" {
		return m.lastCreated.Receipt.BatchFile
	}
	return m.lastCreated.Receipt.Ref()
}

// resultLink is the explorer link encoded in the QR code, if there is a hash
func (m model) resultLink() string {
	if len(m.lastCreated.Receipt.Hashes) == 0 || m.cfg.Bridge != config.BridgeRPC {
		return ""
	}
	return rpc.TxURL(m.cfg.Explorer, m.lastCreated.Receipt.Hashes[0])
}

// revokeSelected starts revoking the selected role's target
func (m *model) revokeSelected() tea.Cmd {
	if m.selectedRole < 0 || m.selectedRole >= len(m.cfg.Roles) {
		return nil
	}
	entry := m.cfg.Roles[m.selectedRole]
	switch {
	case m.revoking:
		return nil
	case entry.Revoked:
		m.addLog("warning", fmt.Sprintf("Role %d is already revoked", entry.ID))
		return nil
	}
	b := m.builder()
	if b == nil {
		m.addLog("error", "Cannot revoke", "err", createrole.ErrNoModifier)
		return nil
	}

	m.revoking = true
	m.addLog("info", fmt.Sprintf("Revoking role %d on `%s`", entry.ID, helpers.ShortenAddr(entry.Target)))
	return revokeRole(m.connector, b, m.bridge(), entry)
}

func (m *model) openCreateRole() tea.Cmd {
	m.activePage = config.PageRoles
	m.addLog("debug", "Opening create role modal")
	return m.createRole.Open()
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	// The modal owns its submission result and spinner, so every non-key
	// message reaches it; keys only reach it while it is open.
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if m.createRole.IsOpen() {
			if keyMsg.String() == "ctrl+c" {
				return m, tea.Quit
			}
			var cmd tea.Cmd
			m.createRole, cmd = m.createRole.Update(msg)
			return m, cmd
		}
	} else {
		var cmd tea.Cmd
		m.createRole, cmd = m.createRole.Update(msg)
		cmds = append(cmds, cmd)
	}

	// Handle form updates first (before message switching)
	if m.activePage == config.PageSettings && m.settingsEditing && m.form != nil {
		// Intercept ESC key to cancel form
		if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.String() == "esc" {
			m.settingsEditing = false
			m.form = nil
			return m, nil
		}

		form, cmd := m.form.Update(msg)
		if f, ok := form.(*huh.Form); ok {
			m.form = f

			// Check if form is completed
			if m.form.State == huh.StateCompleted {
				m.settingsEditing = false
				m.form = nil
				// Return without the form's cmd to ensure we're back in list mode
				return m, m.applySettings()
			}

			// Check if form was aborted (ESC pressed)
			if m.form.State == huh.StateAborted {
				m.settingsEditing = false
				m.form = nil
				return m, nil
			}
		}
		cmds = append(cmds, cmd)
		if _, ok := msg.(tea.KeyMsg); ok {
			return m, tea.Batch(cmds...)
		}
	}

	if m.activePage == config.PageHome && !m.showResult && m.homeForm != nil {
		if keyMsg, ok := msg.(tea.KeyMsg); ok {
			switch keyMsg.String() {
			case "ctrl+c", "esc", "q":
				return m, tea.Quit
			case "l", "L":
				cmd := m.toggleLogger()
				return m, cmd
			}
		}

		form, cmd := m.homeForm.Update(msg)
		if f, ok := form.(*huh.Form); ok {
			m.homeForm = f

			if m.homeForm.State == huh.StateCompleted {
				choice := home.TempSelection
				m.homeForm = home.CreateForm()
				switch choice {
				case home.ChoiceCreate:
					return m, m.openCreateRole()
				case home.ChoiceRoles:
					m.activePage = config.PageRoles
				case home.ChoiceSettings:
					m.activePage = config.PageSettings
				}
				return m, nil
			}

			if m.homeForm.State == huh.StateAborted {
				return m, tea.Quit
			}
		}
		cmds = append(cmds, cmd)
		if _, ok := msg.(tea.KeyMsg); ok {
			return m, tea.Batch(cmds...)
		}
	}

	switch msg := msg.(type) {

	case logInitMsg:
		if !m.logEnabled {
			return m, tea.Batch(cmds...)
		}
		m.logReady = true
		m.addLog("info", "Logger enabled")
		return m, tea.Batch(cmds...)

	case rpcConnectedMsg:
		m.rpcConnecting = false
		if msg.err != nil {
			// Connection failed
			m.ethClient = nil
			m.rpcConnected = false
			m.addLog("error", fmt.Sprintf("RPC connection failed: `%s`", msg.err.Error()))
		} else {
			// Connection successful
			m.ethClient = msg.client
			m.rpcConnected = true
			m.addLog("success", fmt.Sprintf("RPC connected to `%s`", msg.client.URL))
			cmds = append(cmds, m.refreshDetails())
		}
		m.rewire()
		return m, tea.Batch(cmds...)

	case signerLoadedMsg:
		if msg.err != nil {
			m.loading = false
			m.signerAddr = ""
			m.signerErr = msg.err.Error()
			m.addLog("warning", "No signer", "err", msg.err)
			return m, tea.Batch(cmds...)
		}
		m.signerAddr = msg.address
		m.signerErr = ""
		m.addLog("success", fmt.Sprintf("Signer `%s`", helpers.ShortenAddr(msg.address)))
		cmds = append(cmds, m.refreshDetails())
		return m, tea.Batch(cmds...)

	case detailsLoadedMsg:
		m.loading = false
		m.details = msg.d
		if m.details.ErrMessage != "" {
			m.addLog("error", fmt.Sprintf("Signer `%s`: %s", helpers.ShortenAddr(m.details.Address), m.details.ErrMessage))
		} else {
			m.addLog("success", fmt.Sprintf("Loaded signer `%s` - ETH: %s", helpers.ShortenAddr(m.details.Address), helpers.FormatETH(m.details.EthWei)), "nonce", m.details.Nonce)
		}
		// the batch file bridge stamps the chain id it just learned
		m.rewire()
		return m, tea.Batch(cmds...)

	case createrole.ClosedMsg:
		m.addLog("debug", "Create role modal closed")
		return m, tea.Batch(cmds...)

	case createrole.CreatedMsg:
		m.recordRole(msg)
		m.lastCreated = msg
		// a modal reopened meanwhile keeps the screen; the role is in the history
		m.showResult = !m.createRole.IsOpen()
		m.copiedMsg = ""
		m.addLog("success", fmt.Sprintf("Role %d allows `%s`", msg.RoleID, helpers.ShortenAddr(msg.Target)), "ref", msg.Receipt.Ref())
		cmds = append(cmds, m.refreshDetails())
		return m, tea.Batch(cmds...)

	case roleRevokedMsg:
		m.revoking = false
		if msg.err != nil {
			m.addLog("error", fmt.Sprintf("Revoking role %d failed", msg.id), "err", msg.err)
			return m, tea.Batch(cmds...)
		}
		m.markRevoked(msg.id, msg.target)
		m.addLog("success", fmt.Sprintf("Role %d no longer allows `%s`", msg.id, helpers.ShortenAddr(msg.target)), "ref", msg.receipt.Ref())
		cmds = append(cmds, m.refreshDetails())
		return m, tea.Batch(cmds...)

	case clipboardCopiedMsg:
		m.copiedMsg = "✓ Copied!"
		m.copiedMsgTime = time.Now()
		return m, tea.Batch(append(cmds, clearClipboardMsg())...)

	case clearClipboardFeedbackMsg:
		if time.Since(m.copiedMsgTime) >= 2*time.Second {
			m.copiedMsg = ""
		}
		return m, tea.Batch(cmds...)

	case tea.WindowSizeMsg:
		m.w, m.h = msg.Width, msg.Height

		// Only initialize viewport if log is enabled
		if m.logEnabled {
			// Width accounts for border and padding
			m.logViewport.Width = max(0, msg.Width-6)
			if m.logReady {
				m.updateLogViewport()
			}
		}

		return m, tea.Batch(cmds...)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		cmds = append(cmds, cmd)
		// Update log spinner too if log is enabled but not ready
		if m.logEnabled && !m.logReady {
			m.logSpinner, cmd = m.logSpinner.Update(msg)
			cmds = append(cmds, cmd)
		}
		return m, tea.Batch(cmds...)

	case tea.KeyMsg:
		cmd := m.handleKey(msg)
		return m, cmd
	}

	return m, tea.Batch(cmds...)
}

// toggleLogger shows or hides the log panel and persists the choice
func (m *model) toggleLogger() tea.Cmd {
	m.logEnabled = !m.logEnabled
	m.logReady = false
	m.saveConfig()
	if m.logEnabled {
		// Initialize viewport when enabling
		if m.w > 0 {
			m.logViewport.Width = m.w - 6
		}
		return tea.Batch(initLogViewport(), m.logSpinner.Tick)
	}
	// Clear logs when disabling
	if m.logBuffer != nil {
		m.logBuffer.Reset()
	}
	return nil
}

// handleKey processes keys once no modal or form has claimed them
func (m *model) handleKey(msg tea.KeyMsg) tea.Cmd {
	// Handle result panel FIRST (before any other keys)
	if m.showResult {
		switch msg.String() {
		case "ctrl+c", "c":
			if ref := m.resultRef(); ref != "" {
				m.addLog("info", "Copied result to clipboard")
				return copyToClipboard(ref)
			}
			return nil
		case "esc", "enter":
			m.showResult = false
			m.copiedMsg = ""
			return nil
		}
		return nil
	}

	// global keys
	if !m.textInputActive() {
		switch msg.String() {
		case "ctrl+c", "q":
			return tea.Quit

		case "l", "L":
			return m.toggleLogger()

		case "pageup", "pagedown":
			// Allow scrolling in log viewport when enabled
			if m.logEnabled && m.logReady {
				var cmd tea.Cmd
				m.logViewport, cmd = m.logViewport.Update(msg)
				return cmd
			}
		}
	}

	// page-specific behavior
	switch m.activePage {

	case config.PageRoles:
		switch msg.String() {
		case "up", "k":
			if m.selectedRole > 0 {
				m.selectedRole--
			}
		case "down", "j":
			if m.selectedRole < len(m.cfg.Roles)-1 {
				m.selectedRole++
			}
		case "a", "A", "n", "N":
			return m.openCreateRole()
		case "c", "C":
			if m.selectedRole >= 0 && m.selectedRole < len(m.cfg.Roles) {
				target := m.cfg.Roles[m.selectedRole].Target
				m.addLog("info", fmt.Sprintf("Copied `%s` to clipboard", helpers.ShortenAddr(target)))
				return copyToClipboard(target)
			}
		case "x", "X":
			return m.revokeSelected()
		case "r", "R":
			if m.signerAddr == "" {
				m.loading = true
				return loadSigner(m.connector)
			}
			return m.refreshDetails()
		case "s", "S":
			m.activePage = config.PageSettings
		case "h", "H", "esc":
			m.activePage = config.PageHome
		}

	case config.PageSettings:
		switch msg.String() {
		case "e", "E", "enter":
			m.settingsEditing = true
			m.createSettingsForm()
			m.addLog("debug", "Editing settings")
		case "w", "W":
			m.activePage = config.PageRoles
		case "h", "H", "esc":
			m.activePage = config.PageHome
		}
	}

	return nil
}
