package node

import (
	"context"
	"testing"
	"time"

	"github.com/fortytw2/leaktest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	dbm "github.com/tendermint/tm-db"

	"github.com/ledgermint/ledgermint/config"
	"github.com/ledgermint/ledgermint/ledger"
	"github.com/ledgermint/ledgermint/libs/log"
	"github.com/ledgermint/ledgermint/provider/mock"
	storedb "github.com/ledgermint/ledgermint/store/db"
	"github.com/ledgermint/ledgermint/types"
)

func makeChain(t *testing.T, n int) []types.EncodedBlock {
	t.Helper()

	chain := make([]types.EncodedBlock, 0, n)
	var parent *types.Hash
	for i := 0; i < n; i++ {
		block, err := types.NewBlock(parent, types.Mint{To: "account-1", Amount: 1}, uint64(i), 0, 0)
		require.NoError(t, err)
		raw, err := block.Encode()
		require.NoError(t, err)

		h := raw.Hash()
		parent = &h
		chain = append(chain, raw)
	}
	return chain
}

func waitForHeight(t *testing.T, n *Node, height uint64) {
	t.Helper()

	require.Eventually(t, func() bool {
		var reached bool
		err := n.Synchronizer().ReadBlocks(func(b *ledger.Blocks) error {
			last, err := b.Last()
			if err != nil {
				return err
			}
			reached = last != nil && last.Height >= height
			return nil
		})
		require.NoError(t, err)
		return reached
	}, 5*time.Second, 10*time.Millisecond)
}

func TestNodeSyncsAndStops(t *testing.T) {
	defer leaktest.CheckTimeout(t, 10*time.Second)()

	chain := makeChain(t, 5)
	cfg := config.TestConfig()
	logger := log.NewTestingLogger(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	n, err := makeNode(ctx, cfg, mock.New(chain), storedb.New(dbm.NewMemDB()), logger)
	require.NoError(t, err)

	require.NoError(t, n.Start(ctx))
	require.True(t, n.IsRunning())

	waitForHeight(t, n, 4)

	require.NoError(t, n.Stop())
	n.Wait()
	assert.False(t, n.IsRunning())
}

func TestNodeStopsOnContextCancel(t *testing.T) {
	defer leaktest.CheckTimeout(t, 10*time.Second)()

	chain := makeChain(t, 2)
	cfg := config.TestConfig()
	logger := log.NewTestingLogger(t)

	ctx, cancel := context.WithCancel(context.Background())
	n, err := makeNode(ctx, cfg, mock.New(chain), storedb.New(dbm.NewMemDB()), logger)
	require.NoError(t, err)

	require.NoError(t, n.Start(ctx))
	waitForHeight(t, n, 1)

	cancel()
	n.Wait()
	assert.False(t, n.IsRunning())
}

func TestNodeRejectsBadVerificationKey(t *testing.T) {
	cfg := config.TestConfig()
	cfg.VerificationKey = "not-hex"

	ctx := context.Background()
	_, err := makeNode(ctx, cfg, mock.New(makeChain(t, 1)), storedb.New(dbm.NewMemDB()), logger(t))
	require.Error(t, err)

	cfg.VerificationKey = "abcd" // valid hex, wrong length
	_, err = makeNode(ctx, cfg, mock.New(makeChain(t, 1)), storedb.New(dbm.NewMemDB()), logger(t))
	require.Error(t, err)
}

func logger(t *testing.T) log.Logger { return log.NewTestingLogger(t) }
