package types

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// HashSize is the size of a block content hash, in bytes.
const HashSize = sha256.Size

// Hash is the content hash of an encoded block.
type Hash [HashSize]byte

// NewHash converts a raw byte slice into a Hash. The slice must be exactly
// HashSize bytes long.
func NewHash(bz []byte) (Hash, error) {
	var h Hash
	if len(bz) != HashSize {
		return h, fmt.Errorf("invalid hash length: expected %d, got %d", HashSize, len(bz))
	}
	copy(h[:], bz)
	return h, nil
}

// Bytes returns the hash as a byte slice.
func (h Hash) Bytes() []byte { return h[:] }

// String formats the hash as uppercase hexadecimal.
func (h Hash) String() string { return fmt.Sprintf("%X", h[:]) }

// HashFromHex parses an uppercase or lowercase hexadecimal string into a
// Hash.
func HashFromHex(s string) (Hash, error) {
	bz, err := hex.DecodeString(s)
	if err != nil {
		return Hash{}, err
	}
	return NewHash(bz)
}
