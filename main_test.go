package main

import (
	"path/filepath"
	"testing"
	"time"

	"roles-tui/config"
	"roles-tui/roles"
	"roles-tui/views/createrole"
	"roles-tui/wallet"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testTarget = "0x1234567890123456789012345678901234567890"
	testKeyHex = "ac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"
)

func newTestModel(t *testing.T, cfg config.Config) *model {
	t.Helper()
	t.Setenv("ROLES_PRIVATE_KEY", "")
	t.Setenv("ROLES_KEYSTORE", "")
	t.Setenv("ETH_RPC_URL", "")

	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, config.Save(path, cfg))
	m := newModel(cfg, path)
	return &m
}

func TestOverridesApply(t *testing.T) {
	t.Run("flags win over file", func(t *testing.T) {
		o := overrides{rpc: "http://localhost:8545", modifier: testTarget, bridge: "FILE", roleIDs: "sequential", exec: "Send"}
		cfg, err := o.apply(config.DefaultConfig())
		require.NoError(t, err)
		assert.Equal(t, "http://localhost:8545", cfg.ActiveRPC())
		assert.Equal(t, testTarget, cfg.Modifier)
		assert.Equal(t, config.BridgeFile, cfg.Bridge)
		assert.Equal(t, config.RoleIDsSequential, cfg.RoleIDs)
		assert.Equal(t, roles.ExecSend, cfg.ExecOptions())
	})

	t.Run("empty flags keep file", func(t *testing.T) {
		base := config.DefaultConfig()
		cfg, err := overrides{}.apply(base)
		require.NoError(t, err)
		assert.Equal(t, base, cfg)
	})

	t.Run("bad modifier", func(t *testing.T) {
		_, err := overrides{modifier: "0x1234"}.apply(config.DefaultConfig())
		assert.Error(t, err)
	})

	t.Run("bad exec options", func(t *testing.T) {
		_, err := overrides{exec: "everything"}.apply(config.DefaultConfig())
		assert.Error(t, err)
	})

	t.Run("bad bridge", func(t *testing.T) {
		_, err := overrides{bridge: "carrier-pigeon"}.apply(config.DefaultConfig())
		assert.Error(t, err)
	})
}

func TestBridgeSelection(t *testing.T) {
	cfg := config.DefaultConfig()

	cfg.Bridge = config.BridgeDryRun
	m := newTestModel(t, cfg)
	assert.IsType(t, &wallet.DryRunBridge{}, m.bridge())

	m.cfg.Bridge = config.BridgeRPC
	assert.IsType(t, &wallet.RPCBridge{}, m.bridge())

	m.cfg.Bridge = config.BridgeFile
	m.cfg.BatchDir = "batches"
	b, ok := m.bridge().(*wallet.BatchFileBridge)
	require.True(t, ok)
	assert.Equal(t, "1", b.ChainID, "chain id defaults to mainnet until the signer loads")
	assert.Equal(t, "batches", b.Dir)
}

func TestRoleIDSource(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.RoleIDs = config.RoleIDsSequential
	cfg.Roles = []config.RoleEntry{{ID: 4, Target: testTarget}, {ID: 9, Target: testTarget}}
	m := newTestModel(t, cfg)

	id, err := m.roleIDSource().NextRoleID()
	require.NoError(t, err)
	assert.Equal(t, uint16(10), id)

	m.cfg.RoleIDs = config.RoleIDsClock
	id, err = m.roleIDSource().NextRoleID()
	require.NoError(t, err)
	assert.Less(t, id, uint16(10000))
}

func TestCreatedRoleIsRecorded(t *testing.T) {
	m := newTestModel(t, config.DefaultConfig())

	_, _ = m.Update(createrole.CreatedMsg{
		RoleID:  1234,
		Target:  testTarget,
		Options: roles.ExecBoth,
		Receipt: wallet.Receipt{Hashes: []string{"0xabc"}},
	})

	require.Len(t, m.cfg.Roles, 1)
	assert.Equal(t, uint16(1234), m.cfg.Roles[0].ID)
	assert.Equal(t, "both", m.cfg.Roles[0].Options)
	assert.Equal(t, "0xabc", m.cfg.Roles[0].TxHash)
	assert.WithinDuration(t, time.Now(), m.cfg.Roles[0].CreatedAt, time.Minute)
	assert.True(t, m.showResult)
	assert.Equal(t, "0xabc", m.resultRef())
	assert.Contains(t, m.View(), "Role 1234 Created")

	saved := config.Load(m.configPath)
	require.Len(t, saved.Roles, 1)
	assert.Equal(t, testTarget, saved.Roles[0].Target)

	_, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, m.showResult)
}

func TestBatchFileResult(t *testing.T) {
	m := newTestModel(t, config.DefaultConfig())
	m.cfg.Bridge = config.BridgeFile

	_, _ = m.Update(createrole.CreatedMsg{
		RoleID:  7,
		Target:  testTarget,
		Receipt: wallet.Receipt{BatchFile: "roles-batch-1.json"},
	})

	assert.Equal(t, "roles-batch-1.json", m.resultRef())
	assert.Empty(t, m.resultLink(), "no explorer link without a hash")
	assert.Equal(t, "roles-batch-1.json", m.cfg.Roles[0].BatchFile)
}

func TestRolesPageKeys(t *testing.T) {
	m := newTestModel(t, config.DefaultConfig())
	m.activePage = config.PageRoles

	_, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("a")})
	require.True(t, m.createRole.IsOpen())

	// keys go to the modal while it is open
	_, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	assert.True(t, m.createRole.IsOpen())
	assert.Equal(t, "q", m.createRole.Target())

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, m.createRole.IsOpen())
	require.NotNil(t, cmd)
	assert.IsType(t, createrole.ClosedMsg{}, cmd())

	_, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("s")})
	assert.Equal(t, config.PageSettings, m.activePage)
}

func TestCreatedWhileModalReopened(t *testing.T) {
	m := newTestModel(t, config.DefaultConfig())
	m.activePage = config.PageRoles
	_, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("a")})
	require.True(t, m.createRole.IsOpen())

	_, _ = m.Update(createrole.CreatedMsg{RoleID: 5, Target: testTarget})

	require.Len(t, m.cfg.Roles, 1, "role is still recorded")
	assert.False(t, m.showResult, "result panel would hide the open form")
	assert.True(t, m.createRole.IsOpen())
}

func TestRevokeSelectedRole(t *testing.T) {
	newConfig := func() config.Config {
		cfg := config.DefaultConfig()
		cfg.Modifier = "0x00000000000000000000000000000000000000aa"
		cfg.Bridge = config.BridgeDryRun
		cfg.Roles = []config.RoleEntry{{ID: 4, Target: testTarget}}
		return cfg
	}

	t.Run("dry run marks the entry", func(t *testing.T) {
		m := newTestModel(t, newConfig())
		m.connector = &wallet.KeyConnector{PrivateKeyHex: testKeyHex}
		m.activePage = config.PageRoles

		_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")})
		require.NotNil(t, cmd)
		assert.True(t, m.revoking)

		// a second press while the first is in flight does nothing
		_, again := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")})
		assert.Nil(t, again)

		msg, ok := cmd().(roleRevokedMsg)
		require.True(t, ok)
		require.NoError(t, msg.err)
		require.Len(t, msg.receipt.Hashes, 1)

		_, _ = m.Update(msg)
		assert.False(t, m.revoking)
		assert.True(t, m.cfg.Roles[0].Revoked)
		assert.True(t, config.Load(m.configPath).Roles[0].Revoked, "persisted")

		_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")})
		assert.Nil(t, cmd, "already revoked")
	})

	t.Run("needs a signer", func(t *testing.T) {
		m := newTestModel(t, newConfig())
		m.activePage = config.PageRoles

		_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")})
		require.NotNil(t, cmd)
		msg := cmd().(roleRevokedMsg)
		assert.ErrorIs(t, msg.err, wallet.ErrNoSigner)

		_, _ = m.Update(msg)
		assert.False(t, m.cfg.Roles[0].Revoked)
	})

	t.Run("needs a modifier", func(t *testing.T) {
		noModifier := newConfig()
		noModifier.Modifier = ""
		m := newTestModel(t, noModifier)
		m.activePage = config.PageRoles

		_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")})
		assert.Nil(t, cmd)
		assert.False(t, m.revoking)
	})
}
