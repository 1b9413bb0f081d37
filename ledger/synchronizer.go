// Package ledger implements the block synchronization and verification
// engine: it keeps a local, durable replica of a remote append-only ledger
// in sync with the upstream source, verifying that every fetched block
// extends the local hash chain and, optionally, that the remote tip is
// certified by a known key.
package ledger

import (
	"context"
	"errors"
	"math"
	"sync"

	"github.com/ledgermint/ledgermint/certification"
	"github.com/ledgermint/ledgermint/libs/log"
	"github.com/ledgermint/ledgermint/provider"
	"github.com/ledgermint/ledgermint/store"
	"github.com/ledgermint/ledgermint/types"
)

const (
	// If pruning is enabled, instead of pruning after each new block we
	// wait for defaultPruneDelay excess blocks to accumulate and prune them
	// in one go.
	defaultPruneDelay = 10000

	// Ranges of at least this many blocks get a coarse progress log every
	// progressLogInterval blocks.
	printSyncProgressThreshold = 1000
	progressLogInterval        = 10000
)

// Option sets a parameter for the synchronizer.
type Option func(*Synchronizer)

// StoreMaxBlocks bounds how many blocks the local store retains. Once more
// than max+pruneDelay blocks accumulate, the oldest are pruned so that max
// remain. Without this option retention is unbounded.
func StoreMaxBlocks(max uint64) Option {
	return func(s *Synchronizer) {
		m := max
		s.storeMaxBlocks = &m
	}
}

// PruneDelay overrides how many excess blocks accumulate before a prune is
// actually performed. Default: 10000.
func PruneDelay(delay uint64) Option {
	return func(s *Synchronizer) {
		s.pruneDelay = delay
	}
}

// WithVerification makes the synchronizer check the remote tip's
// certification against the given verification key: once at construction
// time and again for the final block of every full catch-up sync.
func WithVerification(info *certification.VerificationInfo) Option {
	return func(s *Synchronizer) {
		s.verification = info
	}
}

// WithMetrics sets the sink for sync progress gauges.
func WithMetrics(m *Metrics) Option {
	return func(s *Synchronizer) {
		s.metrics = m
	}
}

// WithLogger sets a logger for the synchronizer.
func WithLogger(l log.Logger) Option {
	return func(s *Synchronizer) {
		s.logger = l
	}
}

// Synchronizer downloads the blocks of a remote ledger into a local block
// store, verifying the hash chain as it goes.
//
// The local chain view is guarded by a reader/writer lock: any number of
// readers may hold snapshots concurrently, while a sync call takes
// exclusive access for its entire duration (fetch, verify, append, prune).
type Synchronizer struct {
	mtx    sync.RWMutex
	blocks *Blocks

	access         provider.Provider
	storeMaxBlocks *uint64
	pruneDelay     uint64
	verification   *certification.VerificationInfo
	metrics        *Metrics
	logger         log.Logger
}

// NewSynchronizer opens the local chain view over blockStore, cross-checks
// it against the remote ledger and returns a ready synchronizer.
//
// Construction fails if the local replica contradicts the remote source
// (genesis or snapshot-anchor mismatch), if the store's bookkeeping is
// inconsistent, or, when a verification key is configured, if the remote
// tip's certification does not verify. The synchronizer is never returned
// in a partially verified state.
func NewSynchronizer(
	ctx context.Context,
	access provider.Provider,
	blockStore store.Store,
	options ...Option,
) (*Synchronizer, error) {
	if access == nil {
		return nil, errors.New("nil remote ledger access")
	}

	s := &Synchronizer{
		blocks:     NewBlocks(blockStore),
		access:     access,
		pruneDelay: defaultPruneDelay,
		metrics:    NopMetrics(),
		logger:     log.NewNopLogger(),
	}
	for _, option := range options {
		option(s)
	}

	if err := s.verifyStore(ctx); err != nil {
		return nil, err
	}
	if s.verification != nil {
		// Check that we hold the right verification key and talk to the
		// right ledger before trusting anything else it says.
		if err := s.verifyTipOfChain(ctx); err != nil {
			return nil, err
		}
	}

	first, err := s.blocks.First()
	if err != nil {
		return nil, err
	}
	last, err := s.blocks.Last()
	if err != nil {
		return nil, err
	}
	s.logger.Info("ledger client is up",
		"first", heightString(first),
		"last", heightString(last),
	)

	if last != nil {
		s.metrics.SyncedHeight.Set(float64(last.Height))
	}
	if verified, ok := s.blocks.LastVerified(); ok {
		s.metrics.VerifiedHeight.Set(float64(verified))
	}

	if err := s.blocks.TryPrune(s.storeMaxBlocks, s.pruneDelay); err != nil {
		return nil, err
	}

	return s, nil
}

// verifyStore refuses to proceed when the local replica and the remote
// ledger disagree about shared history.
func (s *Synchronizer) verifyStore(ctx context.Context) error {
	s.logger.Debug("verifying store")

	first, err := s.blocks.First()
	if err != nil {
		return err
	}

	storeGenesis, err := s.blocks.GetAt(0)
	switch {
	case err == nil:
		raw, err := s.access.Block(ctx, 0)
		if err != nil {
			if errors.Is(err, provider.ErrBlockNotFound) {
				return ErrStoreInconsistent{Reason: "local store has a genesis block but the remote chain is empty"}
			}
			return ErrRemoteAccess{Reason: err}
		}
		if storeGenesis.Hash != raw.Hash() {
			err := ErrGenesisMismatch{StoreHash: storeGenesis.Hash, LedgerHash: raw.Hash()}
			s.logger.Error("store verification failed", "err", err)
			return err
		}

	case store.IsNotFound(err):
		// No genesis locally. An empty store and a pruned-from-genesis
		// snapshot (first retained height > 0) are both fine; a first block
		// the store claims to have at height 0 while the height-0 lookup
		// fails is not.
		if first != nil && first.Height == 0 {
			return ErrStoreInconsistent{Reason: "first block reported at height 0 but the genesis lookup failed"}
		}

	default:
		return err
	}

	if first != nil && first.Height > 0 {
		raw, err := s.access.Block(ctx, first.Height)
		if err != nil {
			if errors.Is(err, provider.ErrBlockNotFound) {
				return ErrSnapshotAnchorNotFound{Height: first.Height}
			}
			return ErrRemoteAccess{Reason: err}
		}
		if first.Hash != raw.Hash() {
			err := ErrSnapshotAnchorMismatch{Height: first.Height, StoreHash: first.Hash, LedgerHash: raw.Hash()}
			s.logger.Error("store verification failed", "err", err)
			return err
		}
	}

	s.logger.Debug("verifying store done")
	return nil
}

// verifyTipOfChain pins the initial trust anchor: the remote tip's hash
// must carry a certification that verifies against the configured key.
func (s *Synchronizer) verifyTipOfChain(ctx context.Context) error {
	tip, err := s.access.Tip(ctx)
	if err != nil {
		return ErrRemoteAccess{Reason: err}
	}
	raw, err := s.access.Block(ctx, tip.TipHeight)
	if err != nil {
		return ErrRemoteAccess{Reason: err}
	}
	if err := certification.VerifyBlockHash(tip.Certification, raw.Hash(), s.verification); err != nil {
		return ErrCertificationFailed{Height: tip.TipHeight, Reason: err}
	}
	return nil
}

// ReadBlocks gives f shared read access to the local chain view. Any
// number of readers may be active concurrently; they block an in-flight
// sync and vice versa. The *Blocks handle must not be retained after f
// returns.
func (s *Synchronizer) ReadBlocks(f func(*Blocks) error) error {
	s.mtx.RLock()
	defer s.mtx.RUnlock()
	return f(s.blocks)
}

// SyncBlocks catches the local replica up to the remote chain tip. See
// SyncBlocksTo.
func (s *Synchronizer) SyncBlocks(ctx context.Context) error {
	return s.SyncBlocksTo(ctx, math.MaxUint64)
}

// SyncBlocksTo catches the local replica up to the remote chain tip, but
// not past upToHeight (inclusive). It fetches missing blocks in batches,
// verifies each block's chain link, appends verified batches atomically,
// advances the verification watermark and finally applies the retention
// policy.
//
// The call holds exclusive access to the chain view for its entire
// duration. Cancelling ctx stops the sync at the next batch boundary with
// ErrInterrupted, leaving every fully committed batch in place.
func (s *Synchronizer) SyncBlocksTo(ctx context.Context, upToHeight uint64) error {
	tip, err := s.access.Tip(ctx)
	if err != nil {
		return ErrRemoteAccess{Reason: err}
	}
	s.metrics.TargetHeight.Set(float64(tip.TipHeight))

	s.mtx.Lock()
	defer s.mtx.Unlock()

	var (
		lastBlockHash *types.Hash
		nextHeight    uint64
	)
	if syncedTo, err := s.blocks.SyncedTo(); err != nil {
		return err
	} else if syncedTo != nil {
		h := syncedTo.Hash
		lastBlockHash = &h
		nextHeight = syncedTo.Height + 1
	}

	if nextHeight > tip.TipHeight {
		// A lagging replica may report a tip below what we already have.
		// That is staleness, not corruption: do nothing and do not error.
		s.logger.Debug("remote tip is below the local chain tip (queried a lagging replica?)",
			"remote_tip", tip.TipHeight,
			"next_height", nextHeight,
		)
		return nil
	}

	end := tip.TipHeight
	if upToHeight < end {
		end = upToHeight
	}

	// The certification attests only the true tip, not an arbitrary bounded
	// sub-range: a bounded sync never attempts the check, a full catch-up
	// with verification configured always does (a missing certification is
	// then an error, not a skip).
	cert := tip.Certification
	checkCert := s.verification != nil && end == tip.TipHeight
	if !checkCert {
		cert = nil
	}

	if nextHeight > end {
		// Local copy already has enough blocks; nothing to do nor report.
		return nil
	}

	s.logger.Debug("syncing blocks",
		"count", end-nextHeight+1,
		"from", nextHeight,
		"remote_tip", tip.TipHeight,
	)

	if err := s.syncRangeOfBlocks(ctx, nextHeight, end+1, lastBlockHash, cert, checkCert); err != nil {
		return err
	}

	last, err := s.blocks.Last()
	if err != nil {
		return err
	}
	s.logger.Info("caught up with the ledger", "height", last.Height)

	return s.blocks.TryPrune(s.storeMaxBlocks, s.pruneDelay)
}

// syncRangeOfBlocks fetches, verifies and appends the half-open height
// range [start, end), batch by batch. firstBlockParentHash is the hash of
// the block preceding the range (nil when the range starts at genesis).
// When checkCert is set, cert must attest the hash of the block at end-1.
func (s *Synchronizer) syncRangeOfBlocks(
	ctx context.Context,
	start, end uint64,
	firstBlockParentHash *types.Hash,
	cert []byte,
	checkCert bool,
) error {
	printProgress := end-start >= printSyncProgressThreshold
	if printProgress {
		s.logger.Info("syncing blocks", "count", end-start, "new_tip", end-1)
	}

	i := start
	lastBlockHash := firstBlockParentHash
	for i < end {
		if ctx.Err() != nil {
			return ErrInterrupted
		}

		s.logger.Debug("asking for blocks", "start", i, "end", end)
		batch, err := s.access.BlockRange(ctx, i, end)
		if err != nil {
			return ErrRemoteAccess{Reason: err}
		}
		s.logger.Debug("got batch", "len", len(batch))
		if len(batch) == 0 {
			return ErrEmptyBatch{Start: i, End: end}
		}

		hashedBatch := make([]types.HashedBlock, 0, len(batch))
		for _, raw := range batch {
			block, err := types.DecodeBlock(raw)
			if err != nil {
				return ErrInvalidBlock{Height: i, Reason: err}
			}
			if !hashPtrEqual(block.ParentHash, lastBlockHash) {
				err := ErrParentHashMismatch{Height: i, Expected: lastBlockHash, Got: block.ParentHash}
				s.logger.Error("chain link verification failed", "err", err)
				return err
			}

			hb := types.HashBlock(raw, lastBlockHash, i)
			if i == end-1 && checkCert {
				// Only the final block of the whole requested range is
				// certified; interior blocks are trusted transitively via
				// the hash chain.
				if err := certification.VerifyBlockHash(cert, hb.Hash, s.verification); err != nil {
					return ErrCertificationFailed{Height: i, Reason: err}
				}
			}

			h := hb.Hash
			lastBlockHash = &h
			hashedBatch = append(hashedBatch, hb)
			i++
		}

		if err := s.blocks.AddBlocksBatch(hashedBatch); err != nil {
			return err
		}
		s.metrics.SyncedHeight.Set(float64(i - 1))

		if printProgress && (i-start)%progressLogInterval == 0 {
			s.logger.Info("synced blocks", "height", i-1)
		}
	}

	if err := s.blocks.MarkLastVerified(end - 1); err != nil {
		return err
	}
	s.metrics.VerifiedHeight.Set(float64(end - 1))
	return nil
}

func hashPtrEqual(a, b *types.Hash) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func heightString(hb *types.HashedBlock) string {
	if hb == nil {
		return "none"
	}
	return hb.String()
}
