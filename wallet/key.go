package wallet

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"os"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/keystore"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
)

// KeySigner signs with an in-memory ECDSA key
type KeySigner struct {
	key  *ecdsa.PrivateKey
	addr common.Address
}

// NewKeySigner wraps key
func NewKeySigner(key *ecdsa.PrivateKey) *KeySigner {
	return &KeySigner{key: key, addr: crypto.PubkeyToAddress(key.PublicKey)}
}

func (s *KeySigner) Address() common.Address { return s.addr }

func (s *KeySigner) SignTx(tx *types.Transaction, chainID *big.Int) (*types.Transaction, error) {
	return types.SignTx(tx, types.LatestSignerForChainID(chainID), s.key)
}

// KeyConnector loads a signer from a raw hex key or a keystore file.
// The key is decrypted once, on first use.
type KeyConnector struct {
	PrivateKeyHex string
	KeystorePath  string
	Password      string

	mu     sync.Mutex
	signer *KeySigner
}

// ConnectorFromEnv reads ROLES_PRIVATE_KEY, ROLES_KEYSTORE and
// ROLES_KEYSTORE_PASSWORD. keystorePath is used when ROLES_KEYSTORE is unset.
func ConnectorFromEnv(keystorePath string) *KeyConnector {
	c := &KeyConnector{
		PrivateKeyHex: strings.TrimSpace(os.Getenv("ROLES_PRIVATE_KEY")),
		KeystorePath:  keystorePath,
		Password:      os.Getenv("ROLES_KEYSTORE_PASSWORD"),
	}
	if ks := strings.TrimSpace(os.Getenv("ROLES_KEYSTORE")); ks != "" {
		c.KeystorePath = ks
	}
	return c
}

func (c *KeyConnector) Signer(_ context.Context) (Signer, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.signer != nil {
		return c.signer, nil
	}

	var (
		key *ecdsa.PrivateKey
		err error
	)
	switch {
	case c.PrivateKeyHex != "":
		key, err = parsePrivateKey(c.PrivateKeyHex)
	case c.KeystorePath != "":
		key, err = decryptKeystore(c.KeystorePath, c.Password)
	default:
		return nil, ErrNoSigner
	}
	if err != nil {
		return nil, err
	}

	c.signer = NewKeySigner(key)
	return c.signer, nil
}

func parsePrivateKey(hexKey string) (*ecdsa.PrivateKey, error) {
	hexKey = strings.TrimPrefix(hexKey, "0x")
	key, err := crypto.HexToECDSA(hexKey)
	if err != nil {
		return nil, fmt.Errorf("parse private key: %w", err)
	}
	return key, nil
}

func decryptKeystore(path, password string) (*ecdsa.PrivateKey, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read keystore: %w", err)
	}
	k, err := keystore.DecryptKey(data, password)
	if err != nil {
		return nil, fmt.Errorf("decrypt keystore: %w", err)
	}
	return k.PrivateKey, nil
}
