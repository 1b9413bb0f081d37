// Package node assembles the sync daemon: it wires the configuration into
// a block store, a remote ledger client and a synchronizer, and keeps the
// local replica caught up on a fixed interval.
package node

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	dbm "github.com/tendermint/tm-db"

	"github.com/ledgermint/ledgermint/certification"
	"github.com/ledgermint/ledgermint/config"
	"github.com/ledgermint/ledgermint/ledger"
	"github.com/ledgermint/ledgermint/libs/log"
	"github.com/ledgermint/ledgermint/libs/service"
	"github.com/ledgermint/ledgermint/provider"
	providerhttp "github.com/ledgermint/ledgermint/provider/http"
	"github.com/ledgermint/ledgermint/store"
	storedb "github.com/ledgermint/ledgermint/store/db"
)

// metricsNamespace prefixes all Prometheus metrics emitted by the daemon.
const metricsNamespace = "ledgermint"

// Node is the running sync daemon.
type Node struct {
	*service.BaseService

	config *config.Config
	logger log.Logger

	blockStore store.Store
	sync       *ledger.Synchronizer

	prometheusSrv *http.Server

	// cancel stops the sync routine even when Stop is called without the
	// start context being canceled.
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New creates a node from the given configuration. It opens the block
// store, connects to the remote ledger and cross-checks local state
// against it, so construction fails fast on a corrupt store or an
// unreachable primary.
func New(ctx context.Context, cfg *config.Config, logger log.Logger) (*Node, error) {
	if err := cfg.ValidateBasic(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	access, err := providerhttp.New(cfg.PrimaryAddr)
	if err != nil {
		return nil, err
	}

	db, err := dbm.NewDB("blockstore", dbm.BackendType(cfg.DBBackend), cfg.DBDir())
	if err != nil {
		return nil, fmt.Errorf("opening block store: %w", err)
	}

	n, err := makeNode(ctx, cfg, access, storedb.New(db), logger)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return n, nil
}

// makeNode finishes construction from explicit dependencies.
func makeNode(
	ctx context.Context,
	cfg *config.Config,
	access provider.Provider,
	blockStore store.Store,
	logger log.Logger,
) (*Node, error) {
	opts := []ledger.Option{
		ledger.WithLogger(logger.With("module", "sync")),
	}
	if cfg.StoreMaxBlocks > 0 {
		opts = append(opts, ledger.StoreMaxBlocks(cfg.StoreMaxBlocks))
	}
	if cfg.VerificationKey != "" {
		keyBytes, err := hex.DecodeString(cfg.VerificationKey)
		if err != nil {
			return nil, fmt.Errorf("invalid verification-key: %w", err)
		}
		info, err := certification.NewVerificationInfo(keyBytes)
		if err != nil {
			return nil, fmt.Errorf("invalid verification-key: %w", err)
		}
		opts = append(opts, ledger.WithVerification(info))
	}
	if cfg.Prometheus {
		opts = append(opts, ledger.WithMetrics(ledger.PrometheusMetrics(metricsNamespace)))
	}

	sync, err := ledger.NewSynchronizer(ctx, access, blockStore, opts...)
	if err != nil {
		return nil, err
	}

	n := &Node{
		config:     cfg,
		logger:     logger,
		blockStore: blockStore,
		sync:       sync,
	}
	n.BaseService = service.NewBaseService(logger, "Node", n)
	return n, nil
}

// Synchronizer exposes the node's synchronizer, e.g. for read access to
// the local chain view.
func (n *Node) Synchronizer() *ledger.Synchronizer {
	return n.sync
}

// OnStart starts the periodic catch-up loop and, if configured, the
// Prometheus metrics endpoint.
func (n *Node) OnStart(ctx context.Context) error {
	ctx, n.cancel = context.WithCancel(ctx)

	if n.config.Prometheus {
		n.prometheusSrv = n.startPrometheusServer(n.config.PrometheusListenAddr)
	}

	n.wg.Add(1)
	go n.syncRoutine(ctx)
	return nil
}

// OnStop stops the catch-up loop and the metrics endpoint and releases the
// block store.
func (n *Node) OnStop() {
	if n.cancel != nil {
		n.cancel()
	}

	if n.prometheusSrv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := n.prometheusSrv.Shutdown(shutdownCtx); err != nil {
			n.logger.Error("prometheus server shutdown", "err", err)
		}
	}

	n.wg.Wait()

	if err := n.blockStore.Close(); err != nil {
		n.logger.Error("closing block store", "err", err)
	}
}

// syncRoutine keeps the local replica caught up until ctx terminates. A
// failed round is logged and retried on the next tick; transient remote
// failures must not kill the daemon.
func (n *Node) syncRoutine(ctx context.Context) {
	defer n.wg.Done()

	ticker := time.NewTicker(n.config.SyncInterval)
	defer ticker.Stop()

	for {
		if err := n.sync.SyncBlocks(ctx); err != nil {
			if errors.Is(err, ledger.ErrInterrupted) || ctx.Err() != nil {
				return
			}
			n.logger.Error("sync round failed", "err", err)
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (n *Node) startPrometheusServer(addr string) *http.Server {
	srv := &http.Server{
		Addr:    addr,
		Handler: promhttp.Handler(),
	}

	n.wg.Add(1)
	go func() {
		defer n.wg.Done()

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			n.logger.Error("prometheus server", "err", err)
		}
	}()
	return srv
}
