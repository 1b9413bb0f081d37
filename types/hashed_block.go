package types

import "fmt"

// HashedBlock is the verified, indexed representation of one ledger block:
// the raw encoded payload together with its content hash, the hash of the
// preceding block and its height.
//
// HashedBlocks are created exactly once, when a raw block fetched from the
// remote ledger has been validated against its expected parent hash. They
// are immutable afterwards and destroyed only by pruning.
type HashedBlock struct {
	Block      EncodedBlock `json:"block"`
	Hash       Hash         `json:"hash"`
	ParentHash *Hash        `json:"parent_hash"`
	Height     uint64       `json:"height"`
}

// HashBlock computes the content hash of raw and wraps it into a
// HashedBlock at the given height. The parent hash is taken from the
// running chain tip, not from the payload: callers must have checked the
// chain link beforehand.
func HashBlock(raw EncodedBlock, parentHash *Hash, height uint64) HashedBlock {
	return HashedBlock{
		Block:      raw,
		Hash:       raw.Hash(),
		ParentHash: parentHash,
		Height:     height,
	}
}

func (hb HashedBlock) String() string {
	return fmt.Sprintf("HashedBlock{height: %d, hash: %s}", hb.Height, hb.Hash)
}
