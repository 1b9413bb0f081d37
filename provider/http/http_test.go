package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledgermint/ledgermint/provider"
	"github.com/ledgermint/ledgermint/types"
)

func newBlockServer(t *testing.T, blocks []types.EncodedBlock, cert []byte) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/tip", func(w http.ResponseWriter, r *http.Request) {
		if len(blocks) == 0 {
			http.Error(w, "empty chain", http.StatusNotFound)
			return
		}
		writeJSON(t, w, tipResponse{
			TipHeight:     uint64(len(blocks) - 1),
			Certification: cert,
		})
	})
	mux.HandleFunc("/block/", func(w http.ResponseWriter, r *http.Request) {
		height, err := strconv.ParseUint(r.URL.Path[len("/block/"):], 10, 64)
		if err != nil || height >= uint64(len(blocks)) {
			http.Error(w, "no such block", http.StatusNotFound)
			return
		}
		writeJSON(t, w, blockResponse{Block: blocks[height]})
	})
	mux.HandleFunc("/blocks", func(w http.ResponseWriter, r *http.Request) {
		start, err := strconv.ParseUint(r.URL.Query().Get("start"), 10, 64)
		require.NoError(t, err)
		end, err := strconv.ParseUint(r.URL.Query().Get("end"), 10, 64)
		require.NoError(t, err)

		var resp blocksResponse
		for h := start; h < end && h < uint64(len(blocks)); h++ {
			resp.Blocks = append(resp.Blocks, blocks[h])
		}
		writeJSON(t, w, resp)
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func writeJSON(t *testing.T, w http.ResponseWriter, v interface{}) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	require.NoError(t, json.NewEncoder(w).Encode(v))
}

func testBlocks(n int) []types.EncodedBlock {
	blocks := make([]types.EncodedBlock, n)
	for i := range blocks {
		blocks[i] = types.EncodedBlock("block-" + strconv.Itoa(i))
	}
	return blocks
}

func TestNewRejectsBadRemote(t *testing.T) {
	_, err := New("ftp://example.com")
	require.Error(t, err)

	_, err = New("://nope")
	require.Error(t, err)
}

func TestTip(t *testing.T) {
	cert := []byte("attestation")
	srv := newBlockServer(t, testBlocks(3), cert)

	c, err := New(srv.URL)
	require.NoError(t, err)

	tip, err := c.Tip(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 2, tip.TipHeight)
	assert.Equal(t, cert, tip.Certification)
}

func TestTipEmptyChain(t *testing.T) {
	srv := newBlockServer(t, nil, nil)

	c, err := New(srv.URL)
	require.NoError(t, err)

	_, err = c.Tip(context.Background())
	require.ErrorIs(t, err, provider.ErrNoTip)
}

func TestBlock(t *testing.T) {
	blocks := testBlocks(3)
	srv := newBlockServer(t, blocks, nil)

	c, err := New(srv.URL)
	require.NoError(t, err)
	ctx := context.Background()

	raw, err := c.Block(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, blocks[1], raw)

	_, err = c.Block(ctx, 17)
	require.ErrorIs(t, err, provider.ErrBlockNotFound)
}

func TestBlockRange(t *testing.T) {
	blocks := testBlocks(5)
	srv := newBlockServer(t, blocks, nil)

	c, err := New(srv.URL)
	require.NoError(t, err)
	ctx := context.Background()

	got, err := c.BlockRange(ctx, 1, 4)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, blocks[1], got[0])
	assert.Equal(t, blocks[3], got[2])

	// Ranges past the tip come back short or empty, never an error.
	got, err = c.BlockRange(ctx, 10, 20)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)

	c, err := New(srv.URL)
	require.NoError(t, err)

	_, err = c.Tip(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status")
}
