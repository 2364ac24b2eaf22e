package rpc

import (
	"context"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/mdp/qrterminal/v3"
)

// Client wraps an Ethereum RPC client
type Client struct {
	*ethclient.Client
	URL string
}

// ConnectResult holds the result of an RPC connection attempt
type ConnectResult struct {
	Client *Client
	Error  error
}

// Connect attempts to connect to an Ethereum RPC endpoint
func Connect(url string) ConnectResult {
	return connectWithTimeout(url, 8*time.Second)
}

// connectWithTimeout attempts to connect with a custom timeout
func connectWithTimeout(url string, timeout time.Duration) ConnectResult {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	client, err := ethclient.DialContext(ctx, url)
	if err != nil {
		return ConnectResult{Client: nil, Error: err}
	}

	return ConnectResult{
		Client: &Client{
			Client: client,
			URL:    url,
		},
		Error: nil,
	}
}

// SignerDetails holds what the header shows about the signing account
type SignerDetails struct {
	Address    string
	ChainID    *big.Int
	EthWei     *big.Int
	Nonce      uint64
	LoadedAt   time.Time
	ErrMessage string
}

// LoadSignerDetails fetches chain id, ETH balance and pending nonce for addr
func LoadSignerDetails(client *Client, addr common.Address) SignerDetails {
	return LoadSignerDetailsWithTimeout(client, addr, 12*time.Second)
}

// LoadSignerDetailsWithTimeout fetches signer details with a custom timeout
func LoadSignerDetailsWithTimeout(client *Client, addr common.Address, timeout time.Duration) SignerDetails {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	d := SignerDetails{
		Address:  addr.Hex(),
		EthWei:   big.NewInt(0),
		LoadedAt: time.Now(),
	}

	if client == nil || client.Client == nil {
		d.ErrMessage = "No RPC client (set ETH_RPC_URL)."
		return d
	}

	chainID, err := client.ChainID(ctx)
	if err != nil {
		d.ErrMessage = "Failed to load chain id."
		return d
	}
	d.ChainID = chainID

	wei, err := client.BalanceAt(ctx, addr, nil)
	if err != nil {
		d.ErrMessage = "Failed to load ETH balance."
		return d
	}
	d.EthWei = wei

	nonce, err := client.PendingNonceAt(ctx, addr)
	if err != nil {
		d.ErrMessage = "Failed to load nonce."
		return d
	}
	d.Nonce = nonce

	return d
}

// TxURL joins an explorer base URL and a transaction hash
func TxURL(explorer, hash string) string {
	if explorer == "" {
		return hash
	}
	return fmt.Sprintf("%s/tx/%s", strings.TrimRight(explorer, "/"), hash)
}

// GenerateQRCode renders text as a half-block terminal QR code
func GenerateQRCode(text string) string {
	if text == "" {
		return ""
	}
	var sb strings.Builder
	qrterminal.GenerateHalfBlock(text, qrterminal.L, &sb)
	return sb.String()
}
