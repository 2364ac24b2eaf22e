// Package wallet signs and submits unsigned calls on behalf of the user.
//
// A Connector supplies the signing account; a Bridge takes a batch of
// Safe-shaped transactions and gets them executed (broadcast directly,
// exported for a Safe, or only logged).
package wallet

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/big"

	"github.com/charmbracelet/log"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
)

// ErrNoSigner is returned when no signing account is configured
var ErrNoSigner = errors.New("no signer available: set ROLES_PRIVATE_KEY or configure a keystore")

// Transaction is one entry of a submission, in Safe Apps SDK shape
type Transaction struct {
	To    string `json:"to"`
	Value string `json:"value"`
	Data  string `json:"data"`
}

// NewTransaction builds a zero-value call to `to` with calldata
func NewTransaction(to common.Address, data []byte) Transaction {
	return Transaction{
		To:    to.Hex(),
		Value: "0",
		Data:  hexutil.Encode(data),
	}
}

func (t Transaction) decode() (common.Address, *big.Int, []byte, error) {
	if !common.IsHexAddress(t.To) {
		return common.Address{}, nil, nil, fmt.Errorf("invalid recipient %q", t.To)
	}
	value, ok := new(big.Int).SetString(t.Value, 10)
	if !ok {
		return common.Address{}, nil, nil, fmt.Errorf("invalid value %q", t.Value)
	}
	data, err := hexutil.Decode(t.Data)
	if err != nil {
		return common.Address{}, nil, nil, fmt.Errorf("invalid data: %w", err)
	}
	return common.HexToAddress(t.To), value, data, nil
}

// Receipt reports what a Bridge did with a submission
type Receipt struct {
	Hashes    []string
	BatchFile string
}

// Ref returns the first hash, or the batch file when nothing was broadcast
func (r Receipt) Ref() string {
	if len(r.Hashes) > 0 {
		return r.Hashes[0]
	}
	return r.BatchFile
}

// Signer is an account able to sign transactions
type Signer interface {
	Address() common.Address
	SignTx(tx *types.Transaction, chainID *big.Int) (*types.Transaction, error)
}

// Connector hands out the current signer, or ErrNoSigner
type Connector interface {
	Signer(ctx context.Context) (Signer, error)
}

// Bridge submits a batch of transactions
type Bridge interface {
	Send(ctx context.Context, txs []Transaction) (Receipt, error)
}

func orDiscard(l *log.Logger) *log.Logger {
	if l == nil {
		return log.New(io.Discard)
	}
	return l
}
