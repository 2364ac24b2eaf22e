package main

import (
	"fmt"
	"os"
	"strings"

	"roles-tui/config"
	"roles-tui/helpers"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

// -------------------- MAIN --------------------

// overrides are command-line values layered over the config file
type overrides struct {
	configPath string
	rpc        string
	modifier   string
	bridge     string
	roleIDs    string
	exec       string
}

// apply layers non-empty overrides over cfg and validates the result
func (o overrides) apply(cfg config.Config) (config.Config, error) {
	if o.rpc != "" {
		cfg.SetActiveRPC(o.rpc)
	}
	if o.modifier != "" {
		if !helpers.IsValidEthAddress(o.modifier) {
			return cfg, fmt.Errorf("--modifier %q is not a valid address", o.modifier)
		}
		cfg.Modifier = o.modifier
	}
	if o.bridge != "" {
		cfg.Bridge = strings.ToLower(o.bridge)
	}
	if o.roleIDs != "" {
		cfg.RoleIDs = strings.ToLower(o.roleIDs)
	}
	if o.exec != "" {
		cfg.Exec = strings.ToLower(o.exec)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func newRootCmd() *cobra.Command {
	var o overrides

	cmd := &cobra.Command{
		Use:   "roles-tui",
		Short: "Create Zodiac Roles that allow all calls to a target",
		Long: `A terminal console for a Zodiac Roles modifier.
Enter a target address and it builds allowTarget(role, target, options) for
the configured modifier, with options send+delegatecall unless --exec says otherwise, then signs and broadcasts it, writes a Safe
Transaction Builder batch file, or logs it as a dry run.

Signer: ROLES_PRIVATE_KEY, or ROLES_KEYSTORE with ROLES_KEYSTORE_PASSWORD.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := o.configPath
			if path == "" {
				path = defaultConfigPath()
			}

			cfg, err := o.apply(config.LoadOrCreate(path))
			if err != nil {
				return err
			}

			m := newModel(cfg, path)
			p := tea.NewProgram(&m, tea.WithAltScreen())
			_, err = p.Run()
			return err
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&o.configPath, "config", "", "config file (default ~/.roles-tui-config.json)")
	flags.StringVar(&o.rpc, "rpc", "", "RPC URL, replaces the active endpoint")
	flags.StringVar(&o.modifier, "modifier", "", "Roles modifier address")
	flags.StringVar(&o.bridge, "bridge", "", "wallet bridge: rpc, file or dry-run")
	flags.StringVar(&o.roleIDs, "role-ids", "", "role id scheme: clock or sequential")
	flags.StringVar(&o.exec, "exec", "", "execution options for new roles: both, send, delegatecall or none")

	return cmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Println("error:", err)
		os.Exit(1)
	}
}
