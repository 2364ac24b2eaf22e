package main

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"roles-tui/config"
	"roles-tui/rpc"
	"roles-tui/styles"
	"roles-tui/views/createrole"
	"roles-tui/views/home"
	"roles-tui/wallet"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

// -------------------- MODEL --------------------

// model represents the application state following The Elm Architecture
type model struct {
	w, h int

	activePage config.Page
	cfg        config.Config
	configPath string

	// role history
	selectedRole int
	revoking     bool

	// create-role modal
	createRole createrole.Model

	// signer state
	connector  *wallet.KeyConnector
	signerAddr string
	signerErr  string
	spin       spinner.Model
	loading    bool
	details    rpc.SignerDetails

	// rpc state
	rpcURL        string
	ethClient     *rpc.Client
	rpcConnected  bool // true if RPC is successfully connected
	rpcConnecting bool // true if connection attempt is in progress

	// clipboard feedback
	copiedMsg     string
	copiedMsgTime time.Time

	// settings state
	settingsEditing bool
	form            *huh.Form

	// home form
	homeForm *huh.Form

	// logger panel
	logEnabled  bool
	logger      *log.Logger
	logBuffer   *strings.Builder
	logViewport viewport.Model
	logReady    bool
	logSpinner  spinner.Model

	// result panel for the last created role
	showResult  bool
	lastCreated createrole.CreatedMsg
}

// -------------------- INIT --------------------

// defaultConfigPath returns ~/.roles-tui-config.json
func defaultConfigPath() string {
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".roles-tui-config.json")
}

// newLogger creates the panel logger writing into buf
func newLogger(buf *strings.Builder) *log.Logger {
	logger := log.NewWithOptions(buf, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05",
		Prefix:          "",
	})
	logger.SetLevel(log.DebugLevel)
	logger.SetStyles(&log.Styles{
		Timestamp: lipgloss.NewStyle().Foreground(cMuted),
		Caller:    lipgloss.NewStyle().Faint(true),
		Prefix:    lipgloss.NewStyle().Bold(true).Foreground(cAccent2),
		Message:   lipgloss.NewStyle().Foreground(cText),
		Key:       lipgloss.NewStyle().Foreground(cAccent),
		Value:     lipgloss.NewStyle().Foreground(cText),
		Separator: lipgloss.NewStyle().Faint(true),
		Levels: map[log.Level]lipgloss.Style{
			log.DebugLevel: lipgloss.NewStyle().Foreground(cMuted).SetString("DEBUG"),
			log.InfoLevel:  lipgloss.NewStyle().Foreground(cAccent2).SetString("INFO"),
			log.WarnLevel:  lipgloss.NewStyle().Foreground(cWarn).SetString("WARN"),
			log.ErrorLevel: lipgloss.NewStyle().Foreground(lipgloss.Color("#FF0000")).SetString("ERROR"),
		},
	})
	return logger
}

// newModel creates and initializes a new model from a loaded config
func newModel(cfg config.Config, configPath string) model {
	// rpc URL from environment fills in for a config without endpoints
	if rpcFromEnv := strings.TrimSpace(os.Getenv("ETH_RPC_URL")); rpcFromEnv != "" && cfg.ActiveRPC() == "" {
		cfg.SetActiveRPC(rpcFromEnv)
	}

	// spinner
	sp := spinner.New()
	sp.Spinner = spinner.Line
	sp.Style = lipgloss.NewStyle().Foreground(styles.CAccent2)

	// Initialize log viewport
	vp := viewport.New(0, 20) // Will be resized in Update on first WindowSizeMsg
	vp.Style = lipgloss.NewStyle().
		Foreground(styles.CText).
		Background(styles.CPanel)

	// Initialize log spinner
	logSpin := spinner.New()
	logSpin.Spinner = spinner.Dot
	logSpin.Style = lipgloss.NewStyle().Foreground(styles.CAccent2)

	buf := &strings.Builder{}

	m := model{
		activePage:  config.PageHome,
		cfg:         cfg,
		configPath:  configPath,
		connector:   wallet.ConnectorFromEnv(cfg.Keystore),
		spin:        sp,
		rpcURL:      cfg.ActiveRPC(),
		logEnabled:  cfg.Logger,
		logger:      newLogger(buf),
		logBuffer:   buf,
		logViewport: vp,
		logSpinner:  logSpin,
	}
	if n := len(cfg.Roles); n > 0 {
		m.selectedRole = n - 1
	}
	m.createRole = createrole.New(createrole.Options{})
	m.rewire()
	m.homeForm = home.CreateForm()

	return m
}

// Init implements tea.Model interface and returns initial commands
func (m *model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.spin.Tick, loadSigner(m.connector)}
	if m.logEnabled {
		cmds = append(cmds, initLogViewport(), m.logSpinner.Tick)
	}
	// connect if rpc is set
	if m.rpcURL != "" {
		m.rpcConnecting = true
		cmds = append(cmds, connectRPC(m.rpcURL))
	}
	m.loading = true
	return tea.Batch(cmds...)
}
