package wallet

import (
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
)

// Signer holds a parsed private key and signs EVM transactions with it.
type Signer struct {
	key     *ecdsa.PrivateKey
	address common.Address
}

// NewSignerFromHex parses a hex-encoded private key (with or without 0x).
func NewSignerFromHex(hexKey string) (*Signer, error) {
	key, err := crypto.HexToECDSA(strings.TrimPrefix(hexKey, "0x"))
	if err != nil {
		return nil, fmt.Errorf("parsing private key: %w", err)
	}
	return &Signer{
		key:     key,
		address: crypto.PubkeyToAddress(key.PublicKey),
	}, nil
}

// NewSignerFromKeystore loads the key stored under name in ks.
func NewSignerFromKeystore(ks *Keystore, name string) (*Signer, error) {
	hexKey, err := ks.Retrieve(Ref(name))
	if err != nil {
		return nil, fmt.Errorf("retrieving key for %q: %w", name, err)
	}
	return NewSignerFromHex(hexKey)
}

// Address returns the signer's account address.
func (s *Signer) Address() string {
	return s.address.Hex()
}

// SignTx signs tx for chainID and returns the raw signed bytes ready for
// eth_sendRawTransaction.
func (s *Signer) SignTx(tx *types.Transaction, chainID *big.Int) ([]byte, error) {
	signed, err := types.SignTx(tx, types.NewLondonSigner(chainID), s.key)
	if err != nil {
		return nil, fmt.Errorf("signing transaction: %w", err)
	}

	raw, err := signed.MarshalBinary()
	if err != nil {
		return nil, fmt.Errorf("marshaling signed tx: %w", err)
	}
	return raw, nil
}
