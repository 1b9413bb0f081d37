// Package db implements the block store on top of a tm-db key-value
// database, so any backend tm-db supports (memdb, goleveldb, ...) can hold
// the replica.
package db

import (
	"math"

	"github.com/google/orderedcode"
	"github.com/pkg/errors"
	amino "github.com/tendermint/go-amino"
	dbm "github.com/tendermint/tm-db"

	"github.com/ledgermint/ledgermint/store"
	"github.com/ledgermint/ledgermint/types"
)

// Key prefixes. Block keys are orderedcode-encoded so that iteration order
// matches height order.
const (
	prefixBlock        = int64(0)
	prefixLastVerified = int64(1)
)

var cdc = amino.NewCodec()

type dbs struct {
	db dbm.DB
}

var _ store.Store = (*dbs)(nil)

// New returns a Store that wraps any tm-db database.
func New(db dbm.DB) store.Store {
	return &dbs{db: db}
}

func (s *dbs) First() (*types.HashedBlock, error) {
	itr, err := s.db.Iterator(blockKey(0), blockKeyUpperBound())
	if err != nil {
		return nil, errors.Wrap(err, "opening block iterator")
	}
	defer itr.Close()

	if itr.Valid() {
		return decodeStoredBlock(itr.Value())
	}
	return nil, itr.Error()
}

func (s *dbs) Last() (*types.HashedBlock, error) {
	itr, err := s.db.ReverseIterator(blockKey(0), blockKeyUpperBound())
	if err != nil {
		return nil, errors.Wrap(err, "opening block iterator")
	}
	defer itr.Close()

	if itr.Valid() {
		return decodeStoredBlock(itr.Value())
	}
	return nil, itr.Error()
}

func (s *dbs) GetAt(height uint64) (*types.HashedBlock, error) {
	bz, err := s.db.Get(blockKey(height))
	if err != nil {
		return nil, errors.Wrapf(err, "loading block at height %d", height)
	}
	if len(bz) == 0 {
		return nil, store.ErrNotFound{Height: height}
	}
	return decodeStoredBlock(bz)
}

// AppendBatch writes the whole batch in one synced database batch. The
// batch must be height-contiguous and directly extend the stored range;
// stored heights never have gaps.
func (s *dbs) AppendBatch(blocks []types.HashedBlock) error {
	if len(blocks) == 0 {
		return nil
	}

	// An empty store accepts a batch starting at any height: that is how a
	// snapshot (pruned-from-genesis) replica is seeded.
	last, err := s.Last()
	if err != nil {
		return err
	}
	next := blocks[0].Height
	if last != nil {
		next = last.Height + 1
	}

	b := s.db.NewBatch()
	defer b.Close()

	for _, hb := range blocks {
		if hb.Height != next {
			return errors.Errorf("batch is not contiguous: expected height %d, got %d", next, hb.Height)
		}
		bz, err := cdc.MarshalBinaryLengthPrefixed(hb)
		if err != nil {
			return errors.Wrapf(err, "marshalling block at height %d", hb.Height)
		}
		if err := b.Set(blockKey(hb.Height), bz); err != nil {
			return err
		}
		next++
	}

	return b.WriteSync()
}

func (s *dbs) MarkLastVerified(height uint64) error {
	key, err := orderedcode.Append(nil, prefixLastVerified)
	if err != nil {
		panic(err)
	}
	value, err := orderedcode.Append(nil, height)
	if err != nil {
		panic(err)
	}
	return s.db.SetSync(key, value)
}

func (s *dbs) LastVerified() (uint64, bool) {
	key, err := orderedcode.Append(nil, prefixLastVerified)
	if err != nil {
		panic(err)
	}
	bz, err := s.db.Get(key)
	if err != nil || len(bz) == 0 {
		return 0, false
	}

	var height uint64
	if _, err := orderedcode.Parse(string(bz), &height); err != nil {
		return 0, false
	}
	return height, true
}

// Prune deletes all blocks with height < upTo in one synced batch.
func (s *dbs) Prune(upTo uint64) error {
	itr, err := s.db.Iterator(blockKey(0), blockKey(upTo))
	if err != nil {
		return errors.Wrap(err, "opening block iterator")
	}
	defer itr.Close()

	b := s.db.NewBatch()
	defer b.Close()

	for ; itr.Valid(); itr.Next() {
		if err := b.Delete(itr.Key()); err != nil {
			return err
		}
	}
	if err := itr.Error(); err != nil {
		return err
	}

	return b.WriteSync()
}

func (s *dbs) Close() error {
	return s.db.Close()
}

func blockKey(height uint64) []byte {
	key, err := orderedcode.Append(nil, prefixBlock, height)
	if err != nil {
		panic(err)
	}
	return key
}

// blockKeyUpperBound is an exclusive upper bound covering every block key.
func blockKeyUpperBound() []byte {
	return append(blockKey(math.MaxUint64), 0x00)
}

func decodeStoredBlock(bz []byte) (*types.HashedBlock, error) {
	var hb types.HashedBlock
	if err := cdc.UnmarshalBinaryLengthPrefixed(bz, &hb); err != nil {
		return nil, errors.Wrap(err, "unmarshalling stored block")
	}
	return &hb, nil
}
