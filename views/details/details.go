package details

import (
	"fmt"
	"strings"

	"roles-tui/helpers"
	"roles-tui/rpc"
	"roles-tui/styles"

	"github.com/charmbracelet/lipgloss"
)

// Render renders the signer panel shown beside the role history
func Render(d rpc.SignerDetails, signerErr string, explorer string, loading bool, spinnerView string) string {
	h := styles.TitleStyle.Render("Signer")
	muted := lipgloss.NewStyle().Foreground(styles.CMuted)

	if signerErr != "" {
		msg := lipgloss.NewStyle().Foreground(styles.CWarn).Render("⚠ " + signerErr)
		hint := muted.Render("Tip: set ") + lipgloss.NewStyle().Foreground(styles.CAccent).Render("ROLES_PRIVATE_KEY") +
			muted.Render(" or a keystore in Settings, then press ") + styles.Key("r") + muted.Render(".")
		return h + "\n\n" + msg + "\n\n" + hint
	}

	if d.Address == "" {
		return h + "\n\n" + spinnerView + " unlocking signer…"
	}

	// Address links to the explorer with an OSC 8 hyperlink
	addr := lipgloss.NewStyle().Foreground(styles.CMuted).Underline(true).Render(d.Address)
	sub := addr
	if explorer != "" {
		url := fmt.Sprintf("%s/address/%s", strings.TrimRight(explorer, "/"), d.Address)
		sub = fmt.Sprintf("\x1b]8;;%s\x1b\\%s\x1b]8;;\x1b\\", url, addr)
	}

	if loading {
		return h + "\n" + sub + "\n\n" + spinnerView + " fetching balance…"
	}

	if d.ErrMessage != "" {
		msg := lipgloss.NewStyle().Foreground(styles.CWarn).Render("⚠ " + d.ErrMessage)
		hint := muted.Render("Tip: set ") + lipgloss.NewStyle().Foreground(styles.CAccent).Render("ETH_RPC_URL") +
			muted.Render(" then press ") + styles.Key("r") + muted.Render(" to refresh.")
		return h + "\n" + sub + "\n\n" + msg + "\n\n" + hint
	}

	row := func(k, v string) string {
		return fmt.Sprintf("%s  %s",
			lipgloss.NewStyle().Foreground(styles.CAccent2).Bold(true).Width(6).Render(k),
			lipgloss.NewStyle().Foreground(styles.CText).Render(v),
		)
	}

	chain := "?"
	if d.ChainID != nil {
		chain = d.ChainID.String()
	}

	return strings.Join([]string{
		h,
		sub,
		"",
		row("ETH", helpers.FormatETH(d.EthWei)),
		row("Chain", chain),
		row("Nonce", fmt.Sprintf("%d", d.Nonce)),
		"",
		muted.Render("loaded " + helpers.LoadedAt(d.LoadedAt, loading)),
	}, "\n")
}
