package wallet

import (
	"context"
	"encoding/binary"
	"fmt"

	"roles-tui/roles"

	"github.com/charmbracelet/log"
	"github.com/ethereum/go-ethereum/crypto"
)

// DryRunBridge logs each call and returns hashes derived from its contents.
// Nothing leaves the machine.
type DryRunBridge struct {
	logger *log.Logger
}

// NewDryRunBridge creates a bridge that only logs
func NewDryRunBridge(logger *log.Logger) *DryRunBridge {
	return &DryRunBridge{logger: orDiscard(logger)}
}

func (b *DryRunBridge) Send(ctx context.Context, txs []Transaction) (Receipt, error) {
	if len(txs) == 0 {
		return Receipt{}, fmt.Errorf("nothing to send")
	}

	var receipt Receipt
	for i, t := range txs {
		if err := ctx.Err(); err != nil {
			return receipt, err
		}
		to, _, data, err := t.decode()
		if err != nil {
			return receipt, fmt.Errorf("tx %d of %d: %w", i+1, len(txs), err)
		}

		call := "unknown call"
		if decoded, err := roles.DecodeCall(data); err == nil {
			call = decoded.String()
		}

		idx := make([]byte, 8)
		binary.BigEndian.PutUint64(idx, uint64(i))
		hash := crypto.Keccak256Hash(to.Bytes(), data, idx).Hex()

		b.logger.Info("dry-run", "to", to.Hex(), "call", call, "hash", hash)
		receipt.Hashes = append(receipt.Hashes, hash)
	}
	return receipt, nil
}
