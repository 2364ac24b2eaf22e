package main

import (
	"context"
	"time"

	"roles-tui/config"
	"roles-tui/helpers"
	"roles-tui/roles"
	"roles-tui/rpc"
	"roles-tui/views/createrole"
	"roles-tui/wallet"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/ethereum/go-ethereum/common"
)

// -------------------- COMMAND FUNCTIONS --------------------
// Functions that return tea.Cmd for async operations

// connectRPC establishes an RPC connection to the Ethereum node
func connectRPC(url string) tea.Cmd {
	return func() tea.Msg {
		result := rpc.Connect(url)
		return rpcConnectedMsg{client: result.Client, err: result.Error}
	}
}

// initLogViewport initializes the log viewport
func initLogViewport() tea.Cmd {
	return func() tea.Msg {
		return logInitMsg{}
	}
}

// loadSigner resolves the signer address; decrypting a keystore can take a moment
func loadSigner(c wallet.Connector) tea.Cmd {
	return func() tea.Msg {
		s, err := c.Signer(context.Background())
		if err != nil {
			return signerLoadedMsg{err: err}
		}
		return signerLoadedMsg{address: s.Address().Hex()}
	}
}

// loadDetails fetches chain id, balance and nonce for the signer
func loadDetails(client *rpc.Client, addr string) tea.Cmd {
	return func() tea.Msg {
		return detailsLoadedMsg{d: rpc.LoadSignerDetails(client, common.HexToAddress(addr))}
	}
}

// copyToClipboard copies text to clipboard
func copyToClipboard(text string) tea.Cmd {
	return func() tea.Msg {
		err := clipboard.WriteAll(text)
		if err == nil {
			return clipboardCopiedMsg{}
		}
		return nil
	}
}

// clearClipboardMsg waits 2 seconds then clears clipboard feedback
func clearClipboardMsg() tea.Cmd {
	return tea.Tick(2*time.Second, func(t time.Time) tea.Msg {
		return clearClipboardFeedbackMsg{}
	})
}

// -------------------- MODEL HELPER METHODS --------------------
// These methods help with state management and command generation

// addLog adds a log entry by type
func (m *model) addLog(logType, message string, keyvals ...interface{}) {
	if m.logger == nil {
		return
	}

	switch logType {
	case "info":
		m.logger.Info(message, keyvals...)
	case "success":
		m.logger.Info("✓ "+message, keyvals...)
	case "error":
		m.logger.Error(message, keyvals...)
	case "warning":
		m.logger.Warn(message, keyvals...)
	case "debug":
		m.logger.Debug(message, keyvals...)
	default:
		m.logger.Print(message, keyvals...)
	}

	m.updateLogViewport()
}

// updateLogViewport refreshes the viewport content with log output
func (m *model) updateLogViewport() {
	if !m.logEnabled || !m.logReady || m.logBuffer == nil {
		return
	}

	m.logViewport.SetContent(m.logBuffer.String())
	m.logViewport.GotoBottom()
}

// saveConfig persists the config and logs failures
func (m *model) saveConfig() {
	m.cfg.Logger = m.logEnabled
	if err := config.Save(m.configPath, m.cfg); err != nil {
		m.addLog("error", "Failed to save config", "err", err)
	}
}

// bridge builds the wallet bridge selected in settings
func (m *model) bridge() wallet.Bridge {
	switch m.cfg.Bridge {
	case config.BridgeRPC:
		if m.ethClient == nil {
			return wallet.NewRPCBridge(nil, m.connector, m.logger)
		}
		return wallet.NewRPCBridge(m.ethClient, m.connector, m.logger)
	case config.BridgeFile:
		chainID := "1"
		if m.details.ChainID != nil {
			chainID = m.details.ChainID.String()
		}
		return wallet.NewBatchFileBridge(m.cfg.BatchDir, chainID, m.logger)
	default:
		return wallet.NewDryRunBridge(m.logger)
	}
}

// roleIDSource builds the role id scheme selected in settings
func (m *model) roleIDSource() roles.RoleIDSource {
	if m.cfg.RoleIDs == config.RoleIDsSequential {
		used := make([]uint16, 0, len(m.cfg.Roles))
		for _, r := range m.cfg.Roles {
			used = append(used, r.ID)
		}
		return roles.NewSequentialRoleIDs(used)
	}
	return roles.ClockRoleIDs{}
}

// builder returns the call builder for the configured modifier, or nil
func (m *model) builder() *roles.Builder {
	if !helpers.IsValidEthAddress(m.cfg.Modifier) {
		return nil
	}
	b, err := roles.NewBuilder(common.HexToAddress(m.cfg.Modifier))
	if err != nil {
		return nil
	}
	return b
}

// rewire hands the modal collaborators matching the current settings and connection
func (m *model) rewire() {
	opts := createrole.Options{
		Connector:   m.connector,
		Bridge:      m.bridge(),
		RoleIDs:     m.roleIDSource(),
		ExecOptions: m.cfg.ExecOptions(),
		Logger:      m.logger,
	}
	// a nil *roles.Builder must stay a nil interface
	if b := m.builder(); b != nil {
		opts.Builder = b
	}
	m.createRole.SetOptions(opts)
}

// revokeRole sends revokeTarget for entry through bridge. Like creation it
// needs a signer before anything is built.
func revokeRole(connector wallet.Connector, builder *roles.Builder, bridge wallet.Bridge, entry config.RoleEntry) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		res := roleRevokedMsg{id: entry.ID, target: entry.Target}

		if _, err := connector.Signer(ctx); err != nil {
			res.err = err
			return res
		}
		tx, err := builder.RevokeTarget(entry.ID, common.HexToAddress(entry.Target))
		if err != nil {
			res.err = err
			return res
		}
		res.receipt, res.err = bridge.Send(ctx, []wallet.Transaction{wallet.NewTransaction(tx.To, tx.Data)})
		return res
	}
}

// markRevoked flags the history entry for id and target and persists it
func (m *model) markRevoked(id uint16, target string) {
	for i := range m.cfg.Roles {
		if m.cfg.Roles[i].ID == id && m.cfg.Roles[i].Target == target {
			m.cfg.Roles[i].Revoked = true
		}
	}
	m.saveConfig()
}

// recordRole appends a created role to the history and persists it
func (m *model) recordRole(msg createrole.CreatedMsg) {
	entry := config.RoleEntry{
		ID:        msg.RoleID,
		Target:    msg.Target,
		BatchFile: msg.Receipt.BatchFile,
		Options:   msg.Options.String(),
		CreatedAt: time.Now(),
	}
	if len(msg.Receipt.Hashes) > 0 {
		entry.TxHash = msg.Receipt.Hashes[0]
	}
	m.cfg.Roles = append(m.cfg.Roles, entry)
	m.selectedRole = len(m.cfg.Roles) - 1
	m.saveConfig()
}

// textInputActive returns true if any text input is currently active
func (m model) textInputActive() bool {
	if m.createRole.IsOpen() {
		return true
	}
	if m.settingsEditing && m.form != nil {
		return true
	}
	return false
}
