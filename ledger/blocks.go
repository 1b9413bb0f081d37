package ledger

import (
	"github.com/ledgermint/ledgermint/store"
	"github.com/ledgermint/ledgermint/types"
)

// Blocks is the local view of the ledger chain, backed by a block store.
// It adds chain-level semantics the store does not know about: the synced
// tip, the verification watermark gate on reads, and the retention policy.
//
// Blocks itself is not synchronized; the Synchronizer guards it with a
// reader/writer lock.
type Blocks struct {
	store store.Store
}

// NewBlocks wraps a block store into a chain view.
func NewBlocks(bs store.Store) *Blocks {
	return &Blocks{store: bs}
}

// First returns the oldest retained block, or nil if the chain view is
// empty.
func (b *Blocks) First() (*types.HashedBlock, error) {
	return b.store.First()
}

// Last returns the chain tip, or nil if the chain view is empty.
func (b *Blocks) Last() (*types.HashedBlock, error) {
	return b.store.Last()
}

// GetAt returns the block at the given height regardless of its
// verification status.
func (b *Blocks) GetAt(height uint64) (*types.HashedBlock, error) {
	return b.store.GetAt(height)
}

// GetVerifiedAt returns the block at the given height, but only when its
// height is covered by the verification watermark.
func (b *Blocks) GetVerifiedAt(height uint64) (*types.HashedBlock, error) {
	lastVerified, ok := b.store.LastVerified()
	if !ok || height > lastVerified {
		return nil, store.ErrNotFound{Height: height}
	}
	return b.store.GetAt(height)
}

// SyncedTo returns the hash and height of the highest locally present,
// chain-linked block. It returns nil when the local chain is empty.
func (b *Blocks) SyncedTo() (*types.HashedBlock, error) {
	return b.store.Last()
}

// LastVerified returns the verification watermark.
func (b *Blocks) LastVerified() (uint64, bool) {
	return b.store.LastVerified()
}

// AddBlocksBatch appends a batch of verified blocks. The append is
// all-or-nothing; store failures propagate verbatim.
func (b *Blocks) AddBlocksBatch(batch []types.HashedBlock) error {
	return b.store.AppendBatch(batch)
}

// MarkLastVerified advances the verification watermark.
func (b *Blocks) MarkLastVerified(height uint64) error {
	return b.store.MarkLastVerified(height)
}

// TryPrune asks the store to drop the oldest blocks once more than
// maxBlocks+pruneDelay of them are retained, keeping the newest maxBlocks.
// Deletions are batched this way to amortize store overhead instead of
// pruning after every single block. A nil maxBlocks disables pruning.
//
// The chain tip is never pruned, so the store's first height cannot exceed
// the synced height.
func (b *Blocks) TryPrune(maxBlocks *uint64, pruneDelay uint64) error {
	if maxBlocks == nil {
		return nil
	}

	last, err := b.store.Last()
	if err != nil || last == nil {
		return err
	}
	first, err := b.store.First()
	if err != nil {
		return err
	}

	length := last.Height - first.Height + 1
	if length <= *maxBlocks+pruneDelay {
		return nil
	}

	pruneUpTo := last.Height + 1 - *maxBlocks
	if pruneUpTo > last.Height {
		pruneUpTo = last.Height
	}
	return b.store.Prune(pruneUpTo)
}
