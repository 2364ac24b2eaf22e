package wallet

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/charmbracelet/log"
	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// Backend is the part of ethclient.Client the RPC bridge needs
type Backend interface {
	ChainID(ctx context.Context) (*big.Int, error)
	PendingNonceAt(ctx context.Context, account common.Address) (uint64, error)
	HeaderByNumber(ctx context.Context, number *big.Int) (*types.Header, error)
	SuggestGasTipCap(ctx context.Context) (*big.Int, error)
	SuggestGasPrice(ctx context.Context) (*big.Int, error)
	EstimateGas(ctx context.Context, msg ethereum.CallMsg) (uint64, error)
	SendTransaction(ctx context.Context, tx *types.Transaction) error
}

// RPCBridge signs every entry with the connector's signer and broadcasts
// them one by one with consecutive nonces. Entries are EIP-1559 transactions
// on chains whose head carries a base fee and legacy ones otherwise.
type RPCBridge struct {
	backend   Backend
	connector Connector
	logger    *log.Logger
	Timeout   time.Duration
}

// NewRPCBridge creates a bridge broadcasting through backend
func NewRPCBridge(backend Backend, connector Connector, logger *log.Logger) *RPCBridge {
	return &RPCBridge{
		backend:   backend,
		connector: connector,
		logger:    orDiscard(logger),
		Timeout:   60 * time.Second,
	}
}

func (b *RPCBridge) Send(ctx context.Context, txs []Transaction) (Receipt, error) {
	var receipt Receipt
	if len(txs) == 0 {
		return receipt, fmt.Errorf("nothing to send")
	}
	if b.backend == nil {
		return receipt, fmt.Errorf("no RPC connection")
	}

	if b.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, b.Timeout)
		defer cancel()
	}

	signer, err := b.connector.Signer(ctx)
	if err != nil {
		return receipt, err
	}
	from := signer.Address()

	chainID, err := b.backend.ChainID(ctx)
	if err != nil {
		return receipt, fmt.Errorf("fetch chain id: %w", err)
	}
	nonce, err := b.backend.PendingNonceAt(ctx, from)
	if err != nil {
		return receipt, fmt.Errorf("fetch nonce: %w", err)
	}
	head, err := b.backend.HeaderByNumber(ctx, nil)
	if err != nil {
		return receipt, fmt.Errorf("fetch head: %w", err)
	}

	for i, t := range txs {
		to, value, data, err := t.decode()
		if err != nil {
			return receipt, fmt.Errorf("tx %d of %d: %w", i+1, len(txs), err)
		}

		gas, err := b.backend.EstimateGas(ctx, ethereum.CallMsg{From: from, To: &to, Value: value, Data: data})
		if err != nil {
			return receipt, fmt.Errorf("tx %d of %d: estimate gas: %w", i+1, len(txs), err)
		}
		inner, err := b.feeFields(ctx, head, chainID, nonce, to, value, gas, data)
		if err != nil {
			return receipt, fmt.Errorf("tx %d of %d: %w", i+1, len(txs), err)
		}

		tx := types.NewTx(inner)
		signed, err := signer.SignTx(tx, chainID)
		if err != nil {
			return receipt, fmt.Errorf("tx %d of %d: sign: %w", i+1, len(txs), err)
		}
		if err := b.backend.SendTransaction(ctx, signed); err != nil {
			return receipt, fmt.Errorf("tx %d of %d: %w", i+1, len(txs), err)
		}

		b.logger.Info("broadcast", "hash", signed.Hash().Hex(), "to", to.Hex(), "nonce", nonce, "gas", gas, "type", signed.Type())
		receipt.Hashes = append(receipt.Hashes, signed.Hash().Hex())
		nonce++
	}

	return receipt, nil
}

// feeFields prices one entry: a tip plus twice the head's base fee after
// London, the suggested gas price before it
func (b *RPCBridge) feeFields(ctx context.Context, head *types.Header, chainID *big.Int, nonce uint64, to common.Address, value *big.Int, gas uint64, data []byte) (types.TxData, error) {
	if head == nil || head.BaseFee == nil {
		gasPrice, err := b.backend.SuggestGasPrice(ctx)
		if err != nil {
			return nil, fmt.Errorf("gas price: %w", err)
		}
		return &types.LegacyTx{Nonce: nonce, To: &to, Value: value, Gas: gas, GasPrice: gasPrice, Data: data}, nil
	}

	tip, err := b.backend.SuggestGasTipCap(ctx)
	if err != nil {
		return nil, fmt.Errorf("gas tip: %w", err)
	}
	feeCap := new(big.Int).Mul(head.BaseFee, big.NewInt(2))
	feeCap.Add(feeCap, tip)
	return &types.DynamicFeeTx{
		ChainID:   chainID,
		Nonce:     nonce,
		GasTipCap: tip,
		GasFeeCap: feeCap,
		Gas:       gas,
		To:        &to,
		Value:     value,
		Data:      data,
	}, nil
}
