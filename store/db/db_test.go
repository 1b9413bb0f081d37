package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	dbm "github.com/tendermint/tm-db"

	"github.com/ledgermint/ledgermint/store"
	"github.com/ledgermint/ledgermint/types"
)

func makeBlocks(t *testing.T, n int) []types.HashedBlock {
	t.Helper()

	out := make([]types.HashedBlock, 0, n)
	var parent *types.Hash
	for i := 0; i < n; i++ {
		raw := types.EncodedBlock([]byte{byte(i), 0xAB})
		hb := types.HashBlock(raw, parent, uint64(i))
		h := hb.Hash
		parent = &h
		out = append(out, hb)
	}
	return out
}

func TestFirstLastEmpty(t *testing.T) {
	s := New(dbm.NewMemDB())

	first, err := s.First()
	require.NoError(t, err)
	assert.Nil(t, first)

	last, err := s.Last()
	require.NoError(t, err)
	assert.Nil(t, last)

	_, ok := s.LastVerified()
	assert.False(t, ok)
}

func TestAppendBatchAndGet(t *testing.T) {
	s := New(dbm.NewMemDB())
	blocks := makeBlocks(t, 5)

	require.NoError(t, s.AppendBatch(blocks))

	first, err := s.First()
	require.NoError(t, err)
	require.NotNil(t, first)
	assert.EqualValues(t, 0, first.Height)

	last, err := s.Last()
	require.NoError(t, err)
	require.NotNil(t, last)
	assert.EqualValues(t, 4, last.Height)

	for _, want := range blocks {
		got, err := s.GetAt(want.Height)
		require.NoError(t, err)
		assert.Equal(t, &want, got)
	}

	_, err = s.GetAt(5)
	require.Error(t, err)
	assert.True(t, store.IsNotFound(err))
	assert.Equal(t, store.ErrNotFound{Height: 5}, err)
}

func TestAppendBatchRejectsGaps(t *testing.T) {
	s := New(dbm.NewMemDB())
	blocks := makeBlocks(t, 4)

	// Batch not starting at the next expected height.
	require.Error(t, s.AppendBatch(blocks[1:]))

	require.NoError(t, s.AppendBatch(blocks[:2]))

	// Skipping a height.
	require.Error(t, s.AppendBatch(blocks[3:]))

	// Extending contiguously is fine.
	require.NoError(t, s.AppendBatch(blocks[2:]))

	last, err := s.Last()
	require.NoError(t, err)
	assert.EqualValues(t, 3, last.Height)
}

func TestLastVerifiedWatermark(t *testing.T) {
	s := New(dbm.NewMemDB())

	require.NoError(t, s.MarkLastVerified(41))
	h, ok := s.LastVerified()
	require.True(t, ok)
	assert.EqualValues(t, 41, h)

	require.NoError(t, s.MarkLastVerified(42))
	h, ok = s.LastVerified()
	require.True(t, ok)
	assert.EqualValues(t, 42, h)
}

func TestPruneRemovesPrefixOnly(t *testing.T) {
	s := New(dbm.NewMemDB())
	blocks := makeBlocks(t, 10)
	require.NoError(t, s.AppendBatch(blocks))

	require.NoError(t, s.Prune(6))

	first, err := s.First()
	require.NoError(t, err)
	require.NotNil(t, first)
	assert.EqualValues(t, 6, first.Height)

	last, err := s.Last()
	require.NoError(t, err)
	assert.EqualValues(t, 9, last.Height)

	for h := uint64(0); h < 6; h++ {
		_, err := s.GetAt(h)
		assert.True(t, store.IsNotFound(err), "height %d should be pruned", h)
	}
	// Remaining range is dense.
	for h := uint64(6); h <= 9; h++ {
		_, err := s.GetAt(h)
		require.NoError(t, err)
	}
}

func TestPruneEverythingThenExtend(t *testing.T) {
	s := New(dbm.NewMemDB())
	blocks := makeBlocks(t, 3)
	require.NoError(t, s.AppendBatch(blocks))

	require.NoError(t, s.Prune(3))

	first, err := s.First()
	require.NoError(t, err)
	assert.Nil(t, first)

	// The store accepts a snapshot-style restart at the next height.
	more := makeBlocks(t, 5)
	require.NoError(t, s.AppendBatch(more[3:]))

	first, err = s.First()
	require.NoError(t, err)
	require.NotNil(t, first)
	assert.EqualValues(t, 3, first.Height)
}
