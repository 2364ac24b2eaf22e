package wallet

import (
	"context"
	"encoding/json"
	"errors"
	"math/big"
	"os"
	"testing"
	"time"

	"roles-tui/roles"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/keystore"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// well-known test key (hardhat account #0)
const testKeyHex = "0xac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"

var testModifier = common.HexToAddress("0x00000000000000000000000000000000000000aa")

func allowTargetTx(t *testing.T) Transaction {
	t.Helper()
	b, err := roles.NewBuilder(testModifier)
	require.NoError(t, err)
	p, err := b.AllowTarget(1234, common.HexToAddress("0x1234567890123456789012345678901234567890"), roles.ExecBoth)
	require.NoError(t, err)
	return NewTransaction(p.To, p.Data)
}

func TestNewTransaction(t *testing.T) {
	tx := NewTransaction(testModifier, []byte{0xde, 0xad})
	assert.Equal(t, testModifier.Hex(), tx.To)
	assert.Equal(t, "0", tx.Value)
	assert.Equal(t, "0xdead", tx.Data)

	to, value, data, err := tx.decode()
	require.NoError(t, err)
	assert.Equal(t, testModifier, to)
	assert.Zero(t, value.Sign())
	assert.Equal(t, []byte{0xde, 0xad}, data)

	_, _, _, err = Transaction{To: "nope", Value: "0", Data: "0x"}.decode()
	assert.Error(t, err)
	_, _, _, err = Transaction{To: testModifier.Hex(), Value: "x", Data: "0x"}.decode()
	assert.Error(t, err)
	_, _, _, err = Transaction{To: testModifier.Hex(), Value: "0", Data: "zz"}.decode()
	assert.Error(t, err)
}

func TestReceiptRef(t *testing.T) {
	assert.Equal(t, "0x01", Receipt{Hashes: []string{"0x01", "0x02"}, BatchFile: "f"}.Ref())
	assert.Equal(t, "f", Receipt{BatchFile: "f"}.Ref())
	assert.Empty(t, Receipt{}.Ref())
}

func TestKeyConnector(t *testing.T) {
	key, err := crypto.HexToECDSA(testKeyHex[2:])
	require.NoError(t, err)
	want := crypto.PubkeyToAddress(key.PublicKey)

	t.Run("no key configured", func(t *testing.T) {
		_, err := (&KeyConnector{}).Signer(context.Background())
		assert.ErrorIs(t, err, ErrNoSigner)
	})

	t.Run("hex key", func(t *testing.T) {
		c := &KeyConnector{PrivateKeyHex: testKeyHex}
		s, err := c.Signer(context.Background())
		require.NoError(t, err)
		assert.Equal(t, want, s.Address())

		again, err := c.Signer(context.Background())
		require.NoError(t, err)
		assert.Same(t, s, again)
	})

	t.Run("bad hex key", func(t *testing.T) {
		_, err := (&KeyConnector{PrivateKeyHex: "0x1234"}).Signer(context.Background())
		assert.Error(t, err)
		assert.NotErrorIs(t, err, ErrNoSigner)
	})

	t.Run("keystore file", func(t *testing.T) {
		ks := keystore.NewKeyStore(t.TempDir(), keystore.LightScryptN, keystore.LightScryptP)
		acct, err := ks.ImportECDSA(key, "hunter2")
		require.NoError(t, err)

		s, err := (&KeyConnector{KeystorePath: acct.URL.Path, Password: "hunter2"}).Signer(context.Background())
		require.NoError(t, err)
		assert.Equal(t, want, s.Address())

		_, err = (&KeyConnector{KeystorePath: acct.URL.Path, Password: "wrong"}).Signer(context.Background())
		assert.Error(t, err)
	})

	t.Run("from env", func(t *testing.T) {
		t.Setenv("ROLES_PRIVATE_KEY", testKeyHex)
		t.Setenv("ROLES_KEYSTORE", "")
		c := ConnectorFromEnv("/config/keystore.json")
		assert.Equal(t, "/config/keystore.json", c.KeystorePath)
		s, err := c.Signer(context.Background())
		require.NoError(t, err)
		assert.Equal(t, want, s.Address())
	})
}

type fakeBackend struct {
	chainID  *big.Int
	nonce    uint64
	gas      uint64
	gasPrice *big.Int
	baseFee  *big.Int
	tip      *big.Int
	sendErr  error
	sent     []*types.Transaction
	calls    []ethereum.CallMsg
}

func (f *fakeBackend) ChainID(context.Context) (*big.Int, error) { return f.chainID, nil }

func (f *fakeBackend) PendingNonceAt(context.Context, common.Address) (uint64, error) {
	return f.nonce, nil
}

func (f *fakeBackend) HeaderByNumber(context.Context, *big.Int) (*types.Header, error) {
	return &types.Header{Number: big.NewInt(1), BaseFee: f.baseFee}, nil
}

func (f *fakeBackend) SuggestGasTipCap(context.Context) (*big.Int, error) { return f.tip, nil }

func (f *fakeBackend) SuggestGasPrice(context.Context) (*big.Int, error) { return f.gasPrice, nil }

func (f *fakeBackend) EstimateGas(_ context.Context, msg ethereum.CallMsg) (uint64, error) {
	f.calls = append(f.calls, msg)
	return f.gas, nil
}

func (f *fakeBackend) SendTransaction(_ context.Context, tx *types.Transaction) error {
	if f.sendErr != nil {
		return f.sendErr
	}
	f.sent = append(f.sent, tx)
	return nil
}

func TestRPCBridge(t *testing.T) {
	connector := &KeyConnector{PrivateKeyHex: testKeyHex}
	signer, err := connector.Signer(context.Background())
	require.NoError(t, err)

	t.Run("signs and broadcasts with consecutive nonces", func(t *testing.T) {
		backend := &fakeBackend{chainID: big.NewInt(100), nonce: 7, gas: 60000, baseFee: big.NewInt(1e9), tip: big.NewInt(2e9)}
		bridge := NewRPCBridge(backend, connector, nil)

		tx := allowTargetTx(t)
		receipt, err := bridge.Send(context.Background(), []Transaction{tx, tx})
		require.NoError(t, err)
		require.Len(t, backend.sent, 2)
		require.Len(t, receipt.Hashes, 2)

		for i, sent := range backend.sent {
			assert.Equal(t, uint64(7+i), sent.Nonce())
			assert.Equal(t, testModifier, *sent.To())
			assert.Zero(t, sent.Value().Sign())
			assert.Equal(t, uint64(60000), sent.Gas())
			assert.Equal(t, uint8(types.DynamicFeeTxType), sent.Type())
			assert.Equal(t, "100", sent.ChainId().String())
			assert.Equal(t, "2000000000", sent.GasTipCap().String(), "suggested tip")
			assert.Equal(t, "4000000000", sent.GasFeeCap().String(), "tip plus twice the base fee")
			assert.Equal(t, sent.Hash().Hex(), receipt.Hashes[i])

			from, err := types.Sender(types.LatestSignerForChainID(big.NewInt(100)), sent)
			require.NoError(t, err)
			assert.Equal(t, signer.Address(), from)
		}
		assert.Equal(t, signer.Address(), backend.calls[0].From)
	})

	t.Run("legacy pricing before london", func(t *testing.T) {
		backend := &fakeBackend{chainID: big.NewInt(100), gas: 60000, gasPrice: big.NewInt(1e9)}
		bridge := NewRPCBridge(backend, connector, nil)

		_, err := bridge.Send(context.Background(), []Transaction{allowTargetTx(t)})
		require.NoError(t, err)
		require.Len(t, backend.sent, 1)

		sent := backend.sent[0]
		assert.Equal(t, uint8(types.LegacyTxType), sent.Type())
		assert.Equal(t, "1000000000", sent.GasPrice().String())

		from, err := types.Sender(types.LatestSignerForChainID(big.NewInt(100)), sent)
		require.NoError(t, err)
		assert.Equal(t, signer.Address(), from)
	})

	t.Run("broadcast rejection surfaces", func(t *testing.T) {
		backend := &fakeBackend{chainID: big.NewInt(1), gas: 21000, gasPrice: big.NewInt(1), sendErr: errors.New("insufficient funds for gas * price + value")}
		bridge := NewRPCBridge(backend, connector, nil)

		_, err := bridge.Send(context.Background(), []Transaction{allowTargetTx(t)})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "insufficient funds")
	})

	t.Run("missing signer", func(t *testing.T) {
		backend := &fakeBackend{chainID: big.NewInt(1)}
		bridge := NewRPCBridge(backend, &KeyConnector{}, nil)

		_, err := bridge.Send(context.Background(), []Transaction{allowTargetTx(t)})
		assert.ErrorIs(t, err, ErrNoSigner)
		assert.Empty(t, backend.sent)
	})

	t.Run("no backend", func(t *testing.T) {
		bridge := NewRPCBridge(nil, connector, nil)
		_, err := bridge.Send(context.Background(), []Transaction{allowTargetTx(t)})
		assert.EqualError(t, err, "no RPC connection")
	})

	t.Run("empty batch", func(t *testing.T) {
		bridge := NewRPCBridge(&fakeBackend{}, connector, nil)
		_, err := bridge.Send(context.Background(), nil)
		assert.Error(t, err)
	})
}

func TestBatchFileBridge(t *testing.T) {
	dir := t.TempDir()
	bridge := NewBatchFileBridge(dir, "100", nil)
	bridge.Now = func() time.Time { return time.UnixMilli(1700000001234) }

	tx := allowTargetTx(t)
	receipt, err := bridge.Send(context.Background(), []Transaction{tx})
	require.NoError(t, err)
	assert.Empty(t, receipt.Hashes)
	assert.Contains(t, receipt.BatchFile, "roles-batch-1700000001234.json")

	data, err := os.ReadFile(receipt.BatchFile)
	require.NoError(t, err)

	var batch safeBatch
	require.NoError(t, json.Unmarshal(data, &batch))
	assert.Equal(t, "1.0", batch.Version)
	assert.Equal(t, "100", batch.ChainID)
	assert.Equal(t, int64(1700000001234), batch.CreatedAt)
	require.Len(t, batch.Transactions, 1)
	assert.Equal(t, tx, batch.Transactions[0])

	t.Run("rejects malformed entries", func(t *testing.T) {
		_, err := bridge.Send(context.Background(), []Transaction{{To: "0x01", Value: "0", Data: "0x"}})
		assert.Error(t, err)
	})
}

func TestDryRunBridge(t *testing.T) {
	bridge := NewDryRunBridge(nil)
	tx := allowTargetTx(t)

	first, err := bridge.Send(context.Background(), []Transaction{tx, tx})
	require.NoError(t, err)
	require.Len(t, first.Hashes, 2)
	assert.NotEqual(t, first.Hashes[0], first.Hashes[1])

	second, err := bridge.Send(context.Background(), []Transaction{tx, tx})
	require.NoError(t, err)
	assert.Equal(t, first.Hashes, second.Hashes)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = bridge.Send(ctx, []Transaction{tx})
	assert.ErrorIs(t, err, context.Canceled)
}
