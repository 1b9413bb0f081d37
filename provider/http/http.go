// Package http implements a Provider speaking the ledger's JSON-over-HTTP
// block access protocol:
//
//	GET /tip                     -> TipOfChain
//	GET /block/{height}          -> blockResponse (404 when absent)
//	GET /blocks?start=S&end=E    -> blocksResponse for [S,E)
//
// Block payloads travel base64-encoded inside JSON, exactly as the remote
// ledger emitted them; the client never re-encodes.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/ledgermint/ledgermint/provider"
	"github.com/ledgermint/ledgermint/types"
)

const (
	defaultTimeout = 10 * time.Second

	// Responses larger than this are assumed to be garbage, not blocks.
	maxResponseBytes = 64 << 20
)

// Client is an HTTP-backed provider.
type Client struct {
	remote string
	client *http.Client
}

var _ provider.Provider = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client, e.g. to set custom
// transport options.
func WithHTTPClient(c *http.Client) Option {
	return func(p *Client) { p.client = c }
}

// WithTimeout caps the duration of a single request. Default: 10s.
func WithTimeout(d time.Duration) Option {
	return func(p *Client) { p.client.Timeout = d }
}

// New creates a provider talking to the ledger block service at remote
// (e.g. "http://localhost:8575").
func New(remote string, opts ...Option) (*Client, error) {
	u, err := url.Parse(remote)
	if err != nil {
		return nil, fmt.Errorf("invalid remote address %q: %w", remote, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid remote address %q: unsupported scheme %q", remote, u.Scheme)
	}

	p := &Client{
		remote: strings.TrimRight(remote, "/"),
		client: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

type tipResponse struct {
	TipHeight     uint64 `json:"tip_height"`
	Certification []byte `json:"certification,omitempty"`
}

type blockResponse struct {
	Block []byte `json:"block"`
}

type blocksResponse struct {
	Blocks [][]byte `json:"blocks"`
}

func (p *Client) Tip(ctx context.Context) (provider.TipOfChain, error) {
	var resp tipResponse
	if err := p.get(ctx, p.remote+"/tip", &resp); err != nil {
		if errors.Is(err, provider.ErrBlockNotFound) {
			return provider.TipOfChain{}, provider.ErrNoTip
		}
		return provider.TipOfChain{}, err
	}
	return provider.TipOfChain{
		TipHeight:     resp.TipHeight,
		Certification: resp.Certification,
	}, nil
}

func (p *Client) Block(ctx context.Context, height uint64) (types.EncodedBlock, error) {
	var resp blockResponse
	err := p.get(ctx, fmt.Sprintf("%s/block/%d", p.remote, height), &resp)
	if err != nil {
		return nil, err
	}
	if len(resp.Block) == 0 {
		return nil, fmt.Errorf("remote returned an empty block at height %d", height)
	}
	return types.EncodedBlock(resp.Block), nil
}

func (p *Client) BlockRange(ctx context.Context, start, end uint64) ([]types.EncodedBlock, error) {
	q := url.Values{}
	q.Set("start", strconv.FormatUint(start, 10))
	q.Set("end", strconv.FormatUint(end, 10))

	var resp blocksResponse
	if err := p.get(ctx, p.remote+"/blocks?"+q.Encode(), &resp); err != nil {
		return nil, err
	}

	out := make([]types.EncodedBlock, len(resp.Blocks))
	for i, raw := range resp.Blocks {
		out[i] = types.EncodedBlock(raw)
	}
	return out, nil
}

func (p *Client) String() string {
	return fmt.Sprintf("http.Client{remote: %s}", p.remote)
}

func (p *Client) get(ctx context.Context, url string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("fetching %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return provider.ErrBlockNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("fetching %s: unexpected status %s", url, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("reading response of %s: %w", url, err)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decoding response of %s: %w", url, err)
	}
	return nil
}
