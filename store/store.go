// Package store defines the persistence contract for verified ledger
// blocks. Implementations keep blocks indexed by height together with a
// "last verified height" watermark.
package store

import "github.com/ledgermint/ledgermint/types"

// Store is anything that can durably store hashed blocks by height.
//
// Stored heights always form a contiguous range: appends extend the top of
// the range and pruning removes a prefix. Implementations must be safe for
// concurrent use by multiple goroutines.
type Store interface {
	// First returns the oldest retained block, or nil if the store is
	// empty.
	First() (*types.HashedBlock, error)

	// Last returns the newest block, or nil if the store is empty.
	Last() (*types.HashedBlock, error)

	// GetAt returns the block at the given height.
	//
	// If there is no block at that height, the error is an ErrNotFound
	// carrying the height.
	GetAt(height uint64) (*types.HashedBlock, error)

	// AppendBatch persists the given blocks in one atomic write: either the
	// whole batch commits or none of it does.
	AppendBatch(blocks []types.HashedBlock) error

	// MarkLastVerified records the highest height for which full
	// verification has been performed.
	MarkLastVerified(height uint64) error

	// LastVerified returns the verification watermark, or false if none has
	// been recorded yet.
	LastVerified() (uint64, bool)

	// Prune removes every block with height strictly below upTo.
	Prune(upTo uint64) error

	// Close releases the underlying database handle.
	Close() error
}
