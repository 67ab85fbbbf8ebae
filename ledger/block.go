package ledger

import (
	"context"
	"fmt"
	"slices"
	"time"
)

// Unsolved is the nonce of a block that has never been mined.
const Unsolved int64 = -1

// Payload is the observation committed by a block.
type Payload struct {
	Label string `json:"label"`
	Value int    `json:"value"`
}

// Block is a single entry of the blockchain.
type Block struct {
	Index     int     `json:"index"`
	Payload   Payload `json:"payload"`
	Timestamp int64   `json:"timestamp"`
	Nonce     int64   `json:"nonce"`
	PrevHash  string  `json:"prev_hash"`
	Hash      string  `json:"hash"`
	Seal      []byte  `json:"seal,omitempty"`
}

// NewBlock creates an unmined block stamped with the current time.
func NewBlock(index int, payload Payload) Block {
	return NewBlockAt(index, payload, time.Now().Unix())
}

// NewBlockAt creates an unmined block with the given unix timestamp.
func NewBlockAt(index int, payload Payload, timestamp int64) Block {
	return Block{
		Index:     index,
		Payload:   payload,
		Timestamp: timestamp,
		Nonce:     Unsolved,
	}
}

// Preimage returns the string hashed by ComputeHash.
func (b Block) Preimage() string {
	return fmt.Sprintf("%d%d%s%d%d%s",
		b.Index,
		b.Timestamp,
		b.Payload.Label,
		b.Payload.Value,
		b.Nonce,
		b.PrevHash,
	)
}

// ComputeHash hashes the current field values of the block. It does not
// modify the block.
func (b Block) ComputeHash() string {
	return Hash([]byte(b.Preimage()))
}

// Mined reports whether the block carries a hash.
func (b Block) Mined() bool {
	return b.Hash != ""
}

// Mine runs the proof-of-work search from the current nonce and stores the
// winning nonce and hash. PrevHash must be set before calling Mine. If the
// search is exhausted or cancelled the block is left untouched.
func (b *Block) Mine(ctx context.Context, difficulty int, limit uint64) (Result, error) {
	res, err := Search(ctx, *b, difficulty, limit)
	if err != nil {
		return res, err
	}
	if !res.Found {
		return res, fmt.Errorf("block %d after %d attempts: %w", b.Index, res.Attempts, ErrExhausted)
	}
	b.Nonce = res.Nonce
	b.Hash = res.Hash
	return res, nil
}

func (b Block) clone() Block {
	b.Seal = slices.Clone(b.Seal)
	return b
}
