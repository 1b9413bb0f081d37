package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBlockEncodeDecode(t *testing.T) {
	now := time.Now().UnixNano()
	b, err := NewBlock(nil, Mint{To: "minting-account", Amount: 100_000_000}, 0, now, now)
	require.NoError(t, err)

	raw, err := b.Encode()
	require.NoError(t, err)

	decoded, err := DecodeBlock(raw)
	require.NoError(t, err)
	require.Equal(t, b, decoded)
	assert.Nil(t, decoded.ParentHash)
}

func TestBlockHashDeterministic(t *testing.T) {
	now := time.Now().UnixNano()
	b, err := NewBlock(nil, Transfer{From: "a", To: "b", Amount: 10, Fee: 1}, 7, now, now)
	require.NoError(t, err)

	raw1, err := b.Encode()
	require.NoError(t, err)
	raw2, err := b.Encode()
	require.NoError(t, err)

	assert.Equal(t, raw1.Hash(), raw2.Hash())

	// A different memo must change the hash.
	b2, err := NewBlock(nil, Transfer{From: "a", To: "b", Amount: 10, Fee: 1}, 8, now, now)
	require.NoError(t, err)
	raw3, err := b2.Encode()
	require.NoError(t, err)
	assert.NotEqual(t, raw1.Hash(), raw3.Hash())
}

func TestBlockParentLink(t *testing.T) {
	now := time.Now().UnixNano()
	genesis, err := NewBlock(nil, Mint{To: "a", Amount: 1}, 0, now, now)
	require.NoError(t, err)
	rawGenesis, err := genesis.Encode()
	require.NoError(t, err)

	parent := rawGenesis.Hash()
	next, err := NewBlock(&parent, Transfer{From: "a", To: "b", Amount: 1, Fee: 0}, 0, now, now)
	require.NoError(t, err)
	rawNext, err := next.Encode()
	require.NoError(t, err)

	decoded, err := DecodeBlock(rawNext)
	require.NoError(t, err)
	require.NotNil(t, decoded.ParentHash)
	assert.Equal(t, parent, *decoded.ParentHash)
}

func TestDecodeBlockMalformed(t *testing.T) {
	_, err := DecodeBlock(EncodedBlock("definitely not an amino blob"))
	require.Error(t, err)

	_, err = DecodeBlock(nil)
	require.Error(t, err)
}

func TestNewBlockRejectsInvalidOperation(t *testing.T) {
	now := time.Now().UnixNano()

	_, err := NewBlock(nil, nil, 0, now, now)
	require.Error(t, err)

	_, err = NewBlock(nil, Transfer{From: "", To: "b", Amount: 1}, 0, now, now)
	require.Error(t, err)
}

func TestHashFromHexRoundTrip(t *testing.T) {
	h := EncodedBlock("some block").Hash()

	parsed, err := HashFromHex(h.String())
	require.NoError(t, err)
	assert.Equal(t, h, parsed)

	_, err = HashFromHex("abcd")
	require.Error(t, err)
}
