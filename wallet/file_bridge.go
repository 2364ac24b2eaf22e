package wallet

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
)

// safeBatch is the Safe Transaction Builder import format
type safeBatch struct {
	Version      string        `json:"version"`
	ChainID      string        `json:"chainId"`
	CreatedAt    int64         `json:"createdAt"`
	Meta         safeBatchMeta `json:"meta"`
	Transactions []Transaction `json:"transactions"`
}

type safeBatchMeta struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// BatchFileBridge writes submissions to a Safe Transaction Builder batch
// file instead of broadcasting them.
type BatchFileBridge struct {
	Dir     string
	ChainID string
	Now     func() time.Time
	logger  *log.Logger
}

// NewBatchFileBridge writes batches into dir for chain chainID
func NewBatchFileBridge(dir, chainID string, logger *log.Logger) *BatchFileBridge {
	return &BatchFileBridge{Dir: dir, ChainID: chainID, Now: time.Now, logger: orDiscard(logger)}
}

func (b *BatchFileBridge) Send(ctx context.Context, txs []Transaction) (Receipt, error) {
	if len(txs) == 0 {
		return Receipt{}, fmt.Errorf("nothing to send")
	}
	for i, t := range txs {
		if _, _, _, err := t.decode(); err != nil {
			return Receipt{}, fmt.Errorf("tx %d of %d: %w", i+1, len(txs), err)
		}
	}
	if err := ctx.Err(); err != nil {
		return Receipt{}, err
	}

	now := time.Now
	if b.Now != nil {
		now = b.Now
	}
	createdAt := now().UnixMilli()

	chainID := b.ChainID
	if chainID == "" {
		chainID = "1"
	}

	batch := safeBatch{
		Version:   "1.0",
		ChainID:   chainID,
		CreatedAt: createdAt,
		Meta: safeBatchMeta{
			Name:        "Roles modifier batch",
			Description: fmt.Sprintf("%d call(s) exported by roles-tui", len(txs)),
		},
		Transactions: txs,
	}
	data, err := json.MarshalIndent(batch, "", "  ")
	if err != nil {
		return Receipt{}, fmt.Errorf("encode batch: %w", err)
	}

	dir := b.Dir
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return Receipt{}, fmt.Errorf("create batch dir: %w", err)
	}
	path := filepath.Join(dir, fmt.Sprintf("roles-batch-%d.json", createdAt))
	if err := os.WriteFile(path, data, 0644); err != nil {
		return Receipt{}, fmt.Errorf("write batch: %w", err)
	}

	b.logger.Info("batch written", "path", path, "txs", len(txs))
	return Receipt{BatchFile: path}, nil
}
