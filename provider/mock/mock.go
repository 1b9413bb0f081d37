// Package mock provides a slice-backed Provider for tests.
package mock

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/ledgermint/ledgermint/provider"
	"github.com/ledgermint/ledgermint/types"
)

// Mock serves a fixed range of encoded blocks starting at height 0.
type Mock struct {
	blocks        []types.EncodedBlock
	certification []byte
	maxBatchSize  int

	// Number of BlockRange calls made against this provider, for tests
	// asserting that no fetching happened.
	rangeQueries int64
}

var _ provider.Provider = (*Mock)(nil)

// Option configures a Mock.
type Option func(*Mock)

// WithCertification makes tip queries return the given attestation blob.
func WithCertification(cert []byte) Option {
	return func(m *Mock) { m.certification = cert }
}

// WithMaxBatchSize caps how many blocks one BlockRange call returns,
// mimicking remote batch-size limits.
func WithMaxBatchSize(n int) Option {
	return func(m *Mock) { m.maxBatchSize = n }
}

// New creates a mock provider serving the given blocks.
func New(blocks []types.EncodedBlock, opts ...Option) *Mock {
	m := &Mock{blocks: blocks}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Mock) Tip(ctx context.Context) (provider.TipOfChain, error) {
	if len(m.blocks) == 0 {
		return provider.TipOfChain{}, provider.ErrNoTip
	}
	return provider.TipOfChain{
		TipHeight:     uint64(len(m.blocks) - 1),
		Certification: m.certification,
	}, nil
}

func (m *Mock) Block(ctx context.Context, height uint64) (types.EncodedBlock, error) {
	if height >= uint64(len(m.blocks)) {
		return nil, provider.ErrBlockNotFound
	}
	return m.blocks[height], nil
}

func (m *Mock) BlockRange(ctx context.Context, start, end uint64) ([]types.EncodedBlock, error) {
	atomic.AddInt64(&m.rangeQueries, 1)

	if start >= end {
		return nil, nil
	}
	if start >= uint64(len(m.blocks)) {
		return nil, nil
	}
	if end > uint64(len(m.blocks)) {
		end = uint64(len(m.blocks))
	}
	if m.maxBatchSize > 0 && end-start > uint64(m.maxBatchSize) {
		end = start + uint64(m.maxBatchSize)
	}

	out := make([]types.EncodedBlock, end-start)
	copy(out, m.blocks[start:end])
	return out, nil
}

// RangeQueries reports how many BlockRange calls the provider served.
func (m *Mock) RangeQueries() int64 {
	return atomic.LoadInt64(&m.rangeQueries)
}

func (m *Mock) String() string {
	return fmt.Sprintf("Mock{blocks: %d}", len(m.blocks))
}
