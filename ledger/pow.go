package ledger

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
)

// pollInterval is the number of attempts between two context checks.
const pollInterval = 1 << 10

var (
	ErrExhausted             = errors.New("proof-of-work attempt limit reached")
	ErrUnreachableDifficulty = errors.New("difficulty exceeds hash length")
)

// Result is the outcome of a proof-of-work search. Found is false when the
// attempt limit was reached before a qualifying hash showed up.
type Result struct {
	Found    bool
	Nonce    int64
	Hash     string
	Attempts uint64
}

// Solved reports whether hash starts with difficulty '0' characters.
// Every hash satisfies a difficulty of zero or less.
func Solved(hash string, difficulty int) bool {
	if difficulty <= 0 {
		return true
	}
	if difficulty > len(hash) {
		return false
	}
	return strings.Count(hash[:difficulty], "0") == difficulty
}

// CheckDifficulty returns an error for a difficulty no hash can satisfy.
func CheckDifficulty(difficulty int) error {
	if difficulty > HashLength {
		return fmt.Errorf("%w: %d > %d", ErrUnreachableDifficulty, difficulty, HashLength)
	}
	return nil
}

// Search increments the nonce of b, starting from its current value, and
// hashes the block until the hash satisfies difficulty. A limit of zero means
// no attempt ceiling. The context is polled periodically and its error is
// returned on cancellation. b itself is not modified.
func Search(ctx context.Context, b Block, difficulty int, limit uint64) (Result, error) {
	if err := CheckDifficulty(difficulty); err != nil {
		return Result{}, err
	}

	var res Result
	for limit == 0 || res.Attempts < limit {
		if res.Attempts%pollInterval == 0 {
			if err := ctx.Err(); err != nil {
				return res, err
			}
		}
		if b.Nonce == math.MaxInt64 {
			return res, nil
		}
		b.Nonce++
		res.Attempts++

		hash := b.ComputeHash()
		if Solved(hash, difficulty) {
			res.Found = true
			res.Nonce = b.Nonce
			res.Hash = hash
			return res, nil
		}
	}
	return res, nil
}
