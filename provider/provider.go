// Package provider defines the interface through which the synchronizer
// reaches the remote ledger. Implementations wrap whatever transport the
// upstream service speaks; the synchronizer never trusts their responses
// and re-verifies everything it receives.
package provider

import (
	"context"
	"fmt"

	"github.com/ledgermint/ledgermint/types"
)

// TipOfChain is the remote ledger's answer to a tip query.
type TipOfChain struct {
	// TipHeight is the height of the highest block the remote ledger has.
	TipHeight uint64 `json:"tip_height"`
	// Certification is an opaque attestation of the tip block's hash,
	// verifiable against the ledger's verification key. Nil when the remote
	// source does not certify its tip.
	Certification []byte `json:"certification,omitempty"`
}

func (t TipOfChain) String() string {
	return fmt.Sprintf("TipOfChain{height: %d, certified: %t}", t.TipHeight, len(t.Certification) > 0)
}

// Provider gives the synchronizer access to the remote ledger.
type Provider interface {
	// Tip returns the current chain tip height together with an optional
	// certification of the tip block's hash.
	Tip(ctx context.Context) (TipOfChain, error)

	// Block returns the encoded block at the given height.
	//
	// If the remote ledger has no block at that height, ErrBlockNotFound is
	// returned.
	Block(ctx context.Context, height uint64) (types.EncodedBlock, error)

	// BlockRange returns encoded blocks for the half-open range
	// [start, end). The result may be shorter than requested (remote batch
	// size caps), but must be non-empty whenever the requested range is
	// non-empty and blocks exist.
	BlockRange(ctx context.Context, start, end uint64) ([]types.EncodedBlock, error)

	// String identifies the provider, e.g. by its remote address.
	String() string
}
