// Package createrole is the "Create a new role" modal: it collects a target
// address, builds an allowTarget call on the Roles modifier and hands it to a
// wallet bridge.
package createrole

import (
	"context"
	"errors"
	"io"
	"strings"

	"roles-tui/helpers"
	"roles-tui/roles"
	"roles-tui/styles"
	"roles-tui/wallet"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/ethereum/go-ethereum/common"
)

// Phase is the modal's state
type Phase int

const (
	Idle Phase = iota
	Editing
	Submitting
	Succeeded
	Failed
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Editing:
		return "editing"
	case Submitting:
		return "submitting"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	}
	return "unknown"
}

// ErrNoModifier is reported when no Roles modifier address is configured
var ErrNoModifier = errors.New("roles modifier address is not set (see Settings)")

// TxBuilder populates the allowTarget call
type TxBuilder interface {
	AllowTarget(role uint16, target common.Address, opts roles.ExecutionOptions) (roles.PopulatedTransaction, error)
}

// Options wires the modal to its collaborators. A nil Builder means no
// modifier is configured; a nil Connector behaves like one without a signer.
type Options struct {
	Connector   wallet.Connector
	Bridge      wallet.Bridge
	Builder     TxBuilder
	RoleIDs     roles.RoleIDSource
	ExecOptions roles.ExecutionOptions // granted to new roles on their target
	Logger      *log.Logger
}

// ClosedMsg is emitted whenever the modal closes
type ClosedMsg struct{}

// CreatedMsg is emitted after the bridge accepted a new role
type CreatedMsg struct {
	RoleID  uint16
	Target  string
	Options roles.ExecutionOptions
	Receipt wallet.Receipt
}

type submitResultMsg struct {
	session int
	roleID  uint16
	target  string
	options roles.ExecutionOptions
	receipt wallet.Receipt
	err     error
}

// Model is the modal's state
type Model struct {
	opts Options

	input textinput.Model
	spin  spinner.Model

	open    bool
	session int // bumped by Open; results from older sessions leave the form alone
	target  string
	valid   bool
	phase   Phase
	lastErr string
}

// New creates a closed modal
func New(opts Options) Model {
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	if opts.RoleIDs == nil {
		opts.RoleIDs = roles.ClockRoleIDs{}
	}

	in := textinput.New()
	in.Placeholder = "0x..."
	in.Prompt = "Target Address: "
	in.PromptStyle = lipgloss.NewStyle().Foreground(styles.CAccent)
	in.TextStyle = lipgloss.NewStyle().Foreground(styles.CText)
	in.Cursor.Style = lipgloss.NewStyle().Foreground(styles.CAccent2)
	in.CharLimit = 42
	in.Width = 48

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(styles.CAccent2)

	return Model{opts: opts, input: in, spin: sp}
}

// SetOptions swaps the collaborators, e.g. after the RPC connection or
// settings change. An in-flight submission keeps the ones it started with.
func (m *Model) SetOptions(opts Options) {
	if opts.Logger == nil {
		opts.Logger = m.opts.Logger
	}
	if opts.RoleIDs == nil {
		opts.RoleIDs = m.opts.RoleIDs
	}
	m.opts = opts
}

// Open shows the modal with an empty form
func (m *Model) Open() tea.Cmd {
	m.open = true
	m.session++
	m.input.SetValue("")
	m.target = ""
	m.valid = false
	m.lastErr = ""
	if m.phase != Submitting {
		m.phase = Idle
	}
	return m.input.Focus()
}

// Close hides the modal and clears the error. A submission in flight is not
// cancelled; its result still arrives through Update.
func (m *Model) Close() tea.Cmd {
	m.open = false
	m.lastErr = ""
	m.input.Blur()
	return func() tea.Msg { return ClosedMsg{} }
}

// SetAddress records the raw input and whether it is a valid address
func (m *Model) SetAddress(s string) {
	m.target = s
	m.valid = helpers.IsValidEthAddress(s)
	if m.phase != Submitting {
		m.phase = Editing
	}
}

// CanSubmit reports whether the submit button is enabled
func (m Model) CanSubmit() bool {
	return m.valid && m.phase != Submitting
}

// Submit starts creating the role. It is a no-op while a submission is in
// flight or the address is invalid.
func (m *Model) Submit() tea.Cmd {
	if !m.CanSubmit() {
		return nil
	}
	m.phase = Submitting
	return tea.Batch(m.spin.Tick, submit(m.opts, m.session, m.target))
}

func submit(opts Options, session int, target string) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		logger := opts.Logger
		res := submitResultMsg{session: session, target: target, options: opts.ExecOptions}

		if opts.Connector == nil {
			logger.Error("no signer", "err", wallet.ErrNoSigner)
			res.err = wallet.ErrNoSigner
			return res
		}
		signer, err := opts.Connector.Signer(ctx)
		if err != nil {
			logger.Error("no signer", "err", err)
			res.err = err
			return res
		}
		if opts.Builder == nil {
			res.err = ErrNoModifier
			return res
		}
		if opts.Bridge == nil {
			res.err = errors.New("no wallet bridge configured")
			return res
		}

		res.roleID, err = opts.RoleIDs.NextRoleID()
		if err != nil {
			res.err = err
			return res
		}
		populated, err := opts.Builder.AllowTarget(res.roleID, common.HexToAddress(target), opts.ExecOptions)
		if err != nil {
			res.err = err
			return res
		}

		logger.Info("creating role", "role", res.roleID, "target", target, "exec", opts.ExecOptions, "signer", signer.Address().Hex())
		txs := []wallet.Transaction{toSafeTx(populated)}
		res.receipt, res.err = opts.Bridge.Send(ctx, txs)
		return res
	}
}

func toSafeTx(tx roles.PopulatedTransaction) wallet.Transaction {
	return wallet.NewTransaction(tx.To, tx.Data)
}

// Update handles keys while open and submission results at any time
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {

	case submitResultMsg:
		// a form reopened since the submission started belongs to the user
		reopened := msg.session != m.session
		if reopened {
			m.phase = Idle
			if m.target != "" {
				m.phase = Editing
			}
		}

		if msg.err != nil {
			m.opts.Logger.Error("role creation failed", "target", msg.target, "err", msg.err)
			if !reopened {
				m.phase = Failed
				if m.open {
					m.lastErr = msg.err.Error()
				}
			}
			return m, nil
		}

		m.opts.Logger.Info("role created", "role", msg.roleID, "target", msg.target, "ref", msg.receipt.Ref())
		created := CreatedMsg{RoleID: msg.roleID, Target: msg.target, Options: msg.options, Receipt: msg.receipt}
		emit := func() tea.Msg { return created }
		if reopened {
			return m, emit
		}
		m.phase = Succeeded
		m.lastErr = ""
		if m.open {
			closeCmd := m.Close()
			return m, tea.Batch(closeCmd, emit)
		}
		return m, emit

	case spinner.TickMsg:
		if m.phase != Submitting {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if !m.open {
			return m, nil
		}
		switch msg.String() {
		case "enter":
			cmd := m.Submit()
			return m, cmd
		case "esc":
			cmd := m.Close()
			return m, cmd
		case "ctrl+v":
			if text, err := clipboard.ReadAll(); err == nil {
				m.input.SetValue(strings.TrimSpace(text))
				m.SetAddress(m.input.Value())
			}
			return m, nil
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		m.SetAddress(m.input.Value())
		return m, cmd
	}

	if !m.open {
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) IsOpen() bool { return m.open }
func (m Model) Phase() Phase { return m.phase }
func (m Model) Target() string { return m.target }
func (m Model) Valid() bool { return m.valid }
func (m Model) Err() string { return m.lastErr }
func (m Model) Submitting() bool { return m.phase == Submitting }
