package types

import (
	"crypto/sha256"
	"fmt"
)

// AccountID identifies a ledger account. The synchronizer treats it as an
// opaque string; account derivation belongs to the upstream ledger.
type AccountID string

// Operation is the payload of one ledger block.
type Operation interface {
	// Validate performs stateless checks on the operation.
	Validate() error
}

// Mint creates Amount new tokens on the To account.
type Mint struct {
	To     AccountID `json:"to"`
	Amount uint64    `json:"amount"`
}

// Transfer moves Amount tokens from From to To, charging Fee to From.
type Transfer struct {
	From   AccountID `json:"from"`
	To     AccountID `json:"to"`
	Amount uint64    `json:"amount"`
	Fee    uint64    `json:"fee"`
}

// Burn destroys Amount tokens held by From.
type Burn struct {
	From   AccountID `json:"from"`
	Amount uint64    `json:"amount"`
}

func (op Mint) Validate() error {
	if op.To == "" {
		return fmt.Errorf("mint: empty destination account")
	}
	return nil
}

func (op Transfer) Validate() error {
	if op.From == "" || op.To == "" {
		return fmt.Errorf("transfer: empty account")
	}
	return nil
}

func (op Burn) Validate() error {
	if op.From == "" {
		return fmt.Errorf("burn: empty source account")
	}
	return nil
}

// Block is one entry of the ledger's append-only chain.
//
// ParentHash links the block to its predecessor: it is nil for the genesis
// block (height 0) and must equal the hash of the directly preceding encoded
// block everywhere else.
type Block struct {
	ParentHash *Hash     `json:"parent_hash"`
	Operation  Operation `json:"operation"`
	Memo       uint64    `json:"memo"`
	// Timestamps in nanoseconds since the unix epoch, as assigned by the
	// remote ledger.
	CreatedAt int64 `json:"created_at"`
	SettledAt int64 `json:"settled_at"`
}

// NewBlock assembles a block and validates its operation.
func NewBlock(parentHash *Hash, op Operation, memo uint64, createdAt, settledAt int64) (*Block, error) {
	if op == nil {
		return nil, fmt.Errorf("nil operation")
	}
	if err := op.Validate(); err != nil {
		return nil, err
	}
	return &Block{
		ParentHash: parentHash,
		Operation:  op,
		Memo:       memo,
		CreatedAt:  createdAt,
		SettledAt:  settledAt,
	}, nil
}

// Encode serializes the block with the ledger codec.
func (b *Block) Encode() (EncodedBlock, error) {
	bz, err := cdc.MarshalBinaryLengthPrefixed(b)
	if err != nil {
		return nil, fmt.Errorf("encoding block: %w", err)
	}
	return bz, nil
}

// DecodeBlock deserializes an encoded block received from the remote
// ledger. It fails on malformed payloads and on blocks carrying an invalid
// operation.
func DecodeBlock(raw EncodedBlock) (*Block, error) {
	var b Block
	if err := cdc.UnmarshalBinaryLengthPrefixed(raw, &b); err != nil {
		return nil, fmt.Errorf("decoding block: %w", err)
	}
	if b.Operation == nil {
		return nil, fmt.Errorf("decoding block: missing operation")
	}
	if err := b.Operation.Validate(); err != nil {
		return nil, fmt.Errorf("decoding block: %w", err)
	}
	return &b, nil
}

// EncodedBlock is an opaque ledger block payload exactly as received from
// the remote source. It is hashed and stored verbatim, never re-encoded
// locally.
type EncodedBlock []byte

// Hash computes the content hash of the encoded block.
func (raw EncodedBlock) Hash() Hash {
	return sha256.Sum256(raw)
}
