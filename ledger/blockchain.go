package ledger

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"
)

// DefaultDifficulty is the difficulty of a blockchain built without
// WithDifficulty.
const DefaultDifficulty = 4

// GenesisLabel is the payload label of the genesis block.
const GenesisLabel = "Genesis Block"

var (
	ErrInvalidDifficulty = errors.New("invalid difficulty")
	ErrIndexMismatch     = errors.New("block index does not match chain length")
	ErrInvalidGenesis    = errors.New("invalid genesis block")
	ErrBrokenLink        = errors.New("previous hash does not match predecessor")
	ErrHashMismatch      = errors.New("stored hash does not match block contents")
	ErrInsufficientWork  = errors.New("hash does not meet difficulty")
)

// Blockchain is an append-only sequence of mined blocks. Appends are
// serialized; reads may run while a block is being mined.
type Blockchain struct {
	appendMu sync.Mutex

	mu     sync.RWMutex
	blocks []Block

	difficulty  int
	maxAttempts uint64
	logger      *slog.Logger
	observer    func(Block)
	sealer      *Sealer
	now         func() time.Time
}

// GenesisPayload is the fixed payload of the first block.
func GenesisPayload() Payload {
	return Payload{Label: GenesisLabel, Value: 0}
}

// NewBlockchain creates a blockchain holding only the genesis block. The
// genesis block is never mined: its hash and previous hash are empty.
func NewBlockchain(opts ...Option) (*Blockchain, error) {
	bc := &Blockchain{
		difficulty: DefaultDifficulty,
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(bc)
	}
	if bc.difficulty < 0 {
		return nil, fmt.Errorf("%w: %d is negative", ErrInvalidDifficulty, bc.difficulty)
	}
	if err := CheckDifficulty(bc.difficulty); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDifficulty, err)
	}

	genesis := NewBlockAt(0, GenesisPayload(), bc.now().Unix())
	bc.blocks = []Block{genesis}
	return bc, nil
}

// Difficulty returns the number of leading '0' characters required in every
// non-genesis hash.
func (bc *Blockchain) Difficulty() int {
	return bc.difficulty
}

// Len returns the number of blocks, genesis included.
func (bc *Blockchain) Len() int {
	bc.mu.RLock()
	defer bc.mu.RUnlock()
	return len(bc.blocks)
}

// Append links b to the current tail, mines it and appends it. The index of
// b must equal the current length of the chain. On error nothing is appended.
// The mined block is returned.
func (bc *Blockchain) Append(ctx context.Context, b Block) (Block, error) {
	bc.appendMu.Lock()
	mined, err := bc.append(ctx, b)
	bc.appendMu.Unlock()
	if err != nil {
		return Block{}, err
	}
	bc.notify(mined)
	return mined, nil
}

// AppendPayload builds the next block for p, stamped with the chain clock,
// and appends it.
func (bc *Blockchain) AppendPayload(ctx context.Context, p Payload) (Block, error) {
	bc.appendMu.Lock()
	b := NewBlockAt(bc.Len(), p, bc.now().Unix())
	mined, err := bc.append(ctx, b)
	bc.appendMu.Unlock()
	if err != nil {
		return Block{}, err
	}
	bc.notify(mined)
	return mined, nil
}

func (bc *Blockchain) notify(b Block) {
	if bc.observer != nil {
		bc.observer(b.clone())
	}
}

// append must be called with appendMu held.
func (bc *Blockchain) append(ctx context.Context, b Block) (Block, error) {
	bc.mu.RLock()
	tail := bc.blocks[len(bc.blocks)-1]
	bc.mu.RUnlock()

	if b.Index != tail.Index+1 {
		return Block{}, fmt.Errorf("%w: expected %d, got %d", ErrIndexMismatch, tail.Index+1, b.Index)
	}

	b.PrevHash = tail.Hash
	b.Hash = ""
	b.Seal = nil
	res, err := b.Mine(ctx, bc.difficulty, bc.maxAttempts)
	if err != nil {
		return Block{}, fmt.Errorf("failed to mine block %d: %w", b.Index, err)
	}

	if bc.sealer != nil {
		seal, err := bc.sealer.Seal(b.Hash)
		if err != nil {
			return Block{}, err
		}
		b.Seal = seal
	}

	bc.mu.Lock()
	bc.blocks = append(bc.blocks, b)
	bc.mu.Unlock()

	bc.logger.Debug("block mined",
		"index", b.Index,
		"nonce", b.Nonce,
		"attempts", res.Attempts,
		"hash", b.Hash,
	)
	return b.clone(), nil
}

// GetLatest returns the most recently appended block.
func (bc *Blockchain) GetLatest() Block {
	bc.mu.RLock()
	defer bc.mu.RUnlock()
	return bc.blocks[len(bc.blocks)-1].clone()
}

// GetByIndex returns a copy of the block at index.
func (bc *Blockchain) GetByIndex(index int) (Block, error) {
	bc.mu.RLock()
	defer bc.mu.RUnlock()

	if index < 0 || index >= len(bc.blocks) {
		return Block{}, fmt.Errorf("index %d out of range [0, %d)", index, len(bc.blocks))
	}
	return bc.blocks[index].clone(), nil
}

// Blocks returns a copy of every block in chain order.
func (bc *Blockchain) Blocks() []Block {
	bc.mu.RLock()
	defer bc.mu.RUnlock()

	out := make([]Block, len(bc.blocks))
	for i, b := range bc.blocks {
		out[i] = b.clone()
	}
	return out
}

// Verify checks the genesis block and, for every later block, index
// continuity, the previous hash link, the stored hash and the proof of work.
func (bc *Blockchain) Verify() error {
	return VerifyBlocks(bc.Blocks(), bc.difficulty, bc.sealer)
}

// VerifyBlocks runs the Verify checks over an arbitrary block sequence.
// Seals are only checked when sealer is not nil.
func VerifyBlocks(blocks []Block, difficulty int, sealer *Sealer) error {
	if len(blocks) == 0 {
		return fmt.Errorf("%w: empty blockchain", ErrInvalidGenesis)
	}
	if err := validateGenesis(blocks[0]); err != nil {
		return err
	}
	for i := 1; i < len(blocks); i++ {
		if err := validateBlock(blocks[i], blocks[i-1], difficulty); err != nil {
			return fmt.Errorf("block %d invalid: %w", i, err)
		}
		if sealer != nil {
			if err := sealer.Check(blocks[i].Hash, blocks[i].Seal); err != nil {
				return fmt.Errorf("block %d invalid: %w", i, err)
			}
		}
	}
	return nil
}

func validateGenesis(g Block) error {
	if g.Index != 0 {
		return fmt.Errorf("%w: index %d", ErrInvalidGenesis, g.Index)
	}
	if g.Payload != GenesisPayload() {
		return fmt.Errorf("%w: payload %+v", ErrInvalidGenesis, g.Payload)
	}
	if g.PrevHash != "" || g.Mined() {
		return fmt.Errorf("%w: genesis must not be linked or mined", ErrInvalidGenesis)
	}
	return nil
}

// validateBlock verifies that a block is valid relative to the previous block.
func validateBlock(current, previous Block, difficulty int) error {
	if current.Index != previous.Index+1 {
		return fmt.Errorf("%w: expected %d, got %d", ErrIndexMismatch, previous.Index+1, current.Index)
	}
	if current.PrevHash != previous.Hash {
		return fmt.Errorf("%w: expected %q, got %q", ErrBrokenLink, previous.Hash, current.PrevHash)
	}
	expected := current.ComputeHash()
	if current.Hash != expected {
		return fmt.Errorf("%w: expected %s, got %s", ErrHashMismatch, expected, current.Hash)
	}
	if !Solved(current.Hash, difficulty) {
		return fmt.Errorf("%w: %s at difficulty %d", ErrInsufficientWork, current.Hash, difficulty)
	}
	return nil
}
