package ledger

import (
	"errors"
	"fmt"

	"github.com/ledgermint/ledgermint/types"
)

// ErrInterrupted is returned when a sync call is stopped through its
// context. Blocks appended by batches that completed before the
// interruption remain committed.
var ErrInterrupted = errors.New("sync interrupted")

// ErrRemoteAccess wraps a failure reaching the remote ledger. Retry policy
// belongs to the caller; the synchronizer never retries internally.
type ErrRemoteAccess struct {
	Reason error
}

func (e ErrRemoteAccess) Error() string {
	return fmt.Sprintf("remote ledger access failed: %v", e.Reason)
}

// Unwrap returns the underlying reason.
func (e ErrRemoteAccess) Unwrap() error { return e.Reason }

// ErrGenesisMismatch means the genesis block in the local store differs
// from the remote ledger's genesis: the store is corrupt or pointed at the
// wrong upstream.
type ErrGenesisMismatch struct {
	StoreHash  types.Hash
	LedgerHash types.Hash
}

func (e ErrGenesisMismatch) Error() string {
	return fmt.Sprintf(
		"genesis block in the store is different than in the remote ledger (store: %s, ledger: %s)",
		e.StoreHash, e.LedgerHash)
}

// ErrSnapshotAnchorNotFound means the oldest locally retained block no
// longer has a corresponding block on the remote chain.
type ErrSnapshotAnchorNotFound struct {
	Height uint64
}

func (e ErrSnapshotAnchorNotFound) Error() string {
	return fmt.Sprintf("oldest block snapshot has no counterpart on the remote chain (height %d)", e.Height)
}

// ErrSnapshotAnchorMismatch means the oldest locally retained block exists
// remotely but hashes differently.
type ErrSnapshotAnchorMismatch struct {
	Height     uint64
	StoreHash  types.Hash
	LedgerHash types.Hash
}

func (e ErrSnapshotAnchorMismatch) Error() string {
	return fmt.Sprintf(
		"oldest block snapshot does not match the remote chain (height: %d, store: %s, ledger: %s)",
		e.Height, e.StoreHash, e.LedgerHash)
}

// ErrStoreInconsistent means the store's own bookkeeping contradicts
// itself, e.g. a first-block lookup returns a block the store otherwise
// claims not to have.
type ErrStoreInconsistent struct {
	Reason string
}

func (e ErrStoreInconsistent) Error() string {
	return fmt.Sprintf("block store is inconsistent: %s", e.Reason)
}

// ErrInvalidBlock means a fetched block payload could not be decoded.
type ErrInvalidBlock struct {
	Height uint64
	Reason error
}

func (e ErrInvalidBlock) Error() string {
	return fmt.Sprintf("invalid block at height %d: %v", e.Height, e.Reason)
}

// Unwrap returns the underlying reason.
func (e ErrInvalidBlock) Unwrap() error { return e.Reason }

// ErrParentHashMismatch means a fetched block does not extend the running
// chain tip: the remote source either reorganized or is misbehaving. The
// synchronizer must not append past this point.
type ErrParentHashMismatch struct {
	Height   uint64
	Expected *types.Hash
	Got      *types.Hash
}

func (e ErrParentHashMismatch) Error() string {
	return fmt.Sprintf("block at height %d: parent hash mismatch (expected: %s, got: %s)",
		e.Height, hashString(e.Expected), hashString(e.Got))
}

// ErrCertificationFailed means the remote tip's certification did not
// verify against the configured verification key.
type ErrCertificationFailed struct {
	Height uint64
	Reason error
}

func (e ErrCertificationFailed) Error() string {
	return fmt.Sprintf("certification of block at height %d failed: %v", e.Height, e.Reason)
}

// Unwrap returns the underlying reason.
func (e ErrCertificationFailed) Unwrap() error { return e.Reason }

// ErrEmptyBatch means the remote ledger returned no blocks for a non-empty
// requested range.
type ErrEmptyBatch struct {
	Start uint64
	End   uint64
}

func (e ErrEmptyBatch) Error() string {
	return fmt.Sprintf("couldn't fetch blocks [%d,%d) (batch result empty)", e.Start, e.End)
}

func hashString(h *types.Hash) string {
	if h == nil {
		return "<nil>"
	}
	return h.String()
}
