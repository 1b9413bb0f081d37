// Package certification verifies the attestation the remote ledger attaches
// to its chain tip. A certification is an ed25519 signature over the tip
// block's content hash, checked against a verification key distributed out
// of band.
package certification

import (
	"errors"
	"fmt"

	"github.com/oasisprotocol/curve25519-voi/primitives/ed25519"

	"github.com/ledgermint/ledgermint/types"
)

// VerificationInfo carries what is needed to check tip certifications.
type VerificationInfo struct {
	// PublicKey is the ledger's certification key.
	PublicKey ed25519.PublicKey
}

// NewVerificationInfo validates the raw key material.
func NewVerificationInfo(pubKey []byte) (*VerificationInfo, error) {
	if len(pubKey) != ed25519.PublicKeySize {
		return nil, fmt.Errorf("invalid verification key length: expected %d, got %d",
			ed25519.PublicKeySize, len(pubKey))
	}
	return &VerificationInfo{PublicKey: ed25519.PublicKey(pubKey)}, nil
}

// VerifyBlockHash checks that certification attests hash as the genuine
// chain tip of the ledger identified by info.
func VerifyBlockHash(certification []byte, hash types.Hash, info *VerificationInfo) error {
	if info == nil {
		return errors.New("no verification info configured")
	}
	if len(certification) == 0 {
		return errors.New("no certification provided by the ledger")
	}
	if len(certification) != ed25519.SignatureSize {
		return fmt.Errorf("invalid certification length: expected %d, got %d",
			ed25519.SignatureSize, len(certification))
	}
	if !ed25519.Verify(info.PublicKey, hash.Bytes(), certification) {
		return fmt.Errorf("certification check failed for block hash %s", hash)
	}
	return nil
}
