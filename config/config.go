package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"roles-tui/roles"
)

// Page identifies the active top-level view
type Page int

const (
	PageHome Page = iota
	PageRoles
	PageSettings
)

// Bridge modes
const (
	BridgeRPC    = "rpc"
	BridgeFile   = "file"
	BridgeDryRun = "dry-run"
)

// Role id schemes
const (
	RoleIDsClock      = "clock"
	RoleIDsSequential = "sequential"
)

// Config represents the application configuration
type Config struct {
	RPCURLs  []RPCUrl    `json:"rpc_urls"`
	Modifier string      `json:"roles_modifier"`
	Explorer string      `json:"explorer,omitempty"`
	Bridge   string      `json:"bridge"`
	BatchDir string      `json:"batch_dir,omitempty"`
	RoleIDs  string      `json:"role_ids,omitempty"`
	Exec     string      `json:"exec_options,omitempty"`
	Keystore string      `json:"keystore,omitempty"`
	Roles    []RoleEntry `json:"roles"`
	Logger   bool        `json:"logger"`
}

// RPCUrl represents an RPC endpoint
type RPCUrl struct {
	Name   string `json:"name"`
	URL    string `json:"url"`
	Active bool   `json:"active"`
}

// RoleEntry records a role created from this console
type RoleEntry struct {
	ID        uint16    `json:"id"`
	Target    string    `json:"target"`
	TxHash    string    `json:"tx_hash,omitempty"`
	BatchFile string    `json:"batch_file,omitempty"`
	Options   string    `json:"options,omitempty"`
	Revoked   bool      `json:"revoked,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// ActiveRPC returns the URL of the active endpoint, or "" if none is marked active
func (c Config) ActiveRPC() string {
	for _, r := range c.RPCURLs {
		if r.Active {
			return r.URL
		}
	}
	return ""
}

// SetActiveRPC replaces the active endpoint URL, adding an entry if none exists
func (c *Config) SetActiveRPC(url string) {
	url = strings.TrimSpace(url)
	if url == "" {
		return
	}
	for i := range c.RPCURLs {
		if c.RPCURLs[i].Active {
			c.RPCURLs[i].URL = url
			return
		}
	}
	c.RPCURLs = append(c.RPCURLs, RPCUrl{Name: "Default", URL: url, Active: true})
}

// Validate checks the fields the console can't run without
func (c Config) Validate() error {
	switch c.Bridge {
	case BridgeRPC, BridgeFile, BridgeDryRun:
	default:
		return fmt.Errorf("unknown bridge %q", c.Bridge)
	}
	switch c.RoleIDs {
	case "", RoleIDsClock, RoleIDsSequential:
	default:
		return fmt.Errorf("unknown role id scheme %q", c.RoleIDs)
	}
	if c.Exec != "" {
		if _, err := roles.ParseExecutionOptions(c.Exec); err != nil {
			return err
		}
	}
	return nil
}

// ExecOptions is what new roles may do on their target, send and
// delegatecall unless configured otherwise
func (c Config) ExecOptions() roles.ExecutionOptions {
	if c.Exec == "" {
		return roles.ExecBoth
	}
	o, err := roles.ParseExecutionOptions(c.Exec)
	if err != nil {
		return roles.ExecBoth
	}
	return o
}

// Load reads the config from the specified path
func Load(path string) Config {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}
	}

	return cfg
}

// Save writes the config to the specified path
func Save(path string, cfg Config) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// DefaultConfig returns a new configuration with sensible defaults
func DefaultConfig() Config {
	return Config{
		RPCURLs: []RPCUrl{
			{
				Name:   "Public Mainnet",
				URL:    "https://ethereum-rpc.publicnode.com",
				Active: true,
			},
		},
		Explorer: "https://etherscan.io",
		Bridge:   BridgeDryRun,
		BatchDir: ".",
		RoleIDs:  RoleIDsClock,
		Exec:     roles.ExecBoth.String(),
		Logger:   false,
	}
}

// LoadOrCreate loads config from path, or creates a default one if not found
func LoadOrCreate(path string) Config {
	data, err := os.ReadFile(path)
	if err != nil {
		cfg := DefaultConfig()
		_ = Save(path, cfg)
		return cfg
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return DefaultConfig()
	}
	// older files may predate these fields
	if cfg.Bridge == "" {
		cfg.Bridge = BridgeDryRun
	}
	if cfg.RoleIDs == "" {
		cfg.RoleIDs = RoleIDsClock
	}

	return cfg
}
