package main

import (
	"roles-tui/rpc"
	"roles-tui/wallet"
)

// -------------------- TEA MESSAGES --------------------
// All custom message types for The Elm Architecture

// clipboardCopiedMsg indicates clipboard copy completed
type clipboardCopiedMsg struct{}

// clearClipboardFeedbackMsg clears the "copied" notice
type clearClipboardFeedbackMsg struct{}

// logInitMsg signals that log viewport should be initialized
type logInitMsg struct{}

// rpcConnectedMsg contains result of RPC connection attempt
type rpcConnectedMsg struct {
	client *rpc.Client
	err    error
}

// signerLoadedMsg contains the signer address, or why there is none
type signerLoadedMsg struct {
	address string
	err     error
}

// detailsLoadedMsg contains signer balance details after loading
type detailsLoadedMsg struct {
	d rpc.SignerDetails
}

// roleRevokedMsg is the outcome of revoking a role's target
type roleRevokedMsg struct {
	id      uint16
	target  string
	receipt wallet.Receipt
	err     error
}
