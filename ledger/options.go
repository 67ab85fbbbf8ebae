package ledger

import (
	"log/slog"
	"time"
)

// Option configures a Blockchain.
type Option func(*Blockchain)

// WithDifficulty sets the number of leading '0' characters every mined hash
// must carry.
func WithDifficulty(difficulty int) Option {
	return func(bc *Blockchain) {
		bc.difficulty = difficulty
	}
}

// WithMaxAttempts bounds the proof-of-work search of every block. Zero
// disables the bound.
func WithMaxAttempts(limit uint64) Option {
	return func(bc *Blockchain) {
		bc.maxAttempts = limit
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(bc *Blockchain) {
		if logger != nil {
			bc.logger = logger
		}
	}
}

// WithObserver registers a callback invoked with every block once it has been
// mined and appended.
func WithObserver(observer func(Block)) Option {
	return func(bc *Blockchain) {
		bc.observer = observer
	}
}

// WithSealer makes the blockchain seal every mined block and check the seals
// in Verify.
func WithSealer(s *Sealer) Option {
	return func(bc *Blockchain) {
		bc.sealer = s
	}
}

// WithClock replaces the time source used by AppendPayload.
func WithClock(now func() time.Time) Option {
	return func(bc *Blockchain) {
		if now != nil {
			bc.now = now
		}
	}
}
