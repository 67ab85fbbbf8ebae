package ledger

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestNewBlockIsUnsolved(t *testing.T) {
	b := NewBlock(3, Payload{Label: "USD", Value: 50000})
	if b.Index != 3 {
		t.Fatalf("expected index 3, got %d", b.Index)
	}
	if b.Nonce != Unsolved {
		t.Fatalf("expected nonce %d, got %d", Unsolved, b.Nonce)
	}
	if b.Hash != "" || b.PrevHash != "" {
		t.Fatalf("expected empty hash and previous hash, got %q and %q", b.Hash, b.PrevHash)
	}
	if b.Timestamp == 0 {
		t.Fatal("expected a timestamp")
	}
}

// TestPreimageFieldOrder verifies that the preimage is the undelimited
// concatenation of index, timestamp, label, value, nonce and previous hash.
func TestPreimageFieldOrder(t *testing.T) {
	b := NewBlockAt(1, Payload{Label: "USD", Value: 50000}, 1700000000)
	if actual := b.Preimage(); actual != "11700000000USD50000-1" {
		t.Fatalf("unexpected preimage %q", actual)
	}
	b.Nonce = 0
	b.PrevHash = "abc"
	if actual := b.Preimage(); actual != "11700000000USD500000abc" {
		t.Fatalf("unexpected preimage %q", actual)
	}
	if b.ComputeHash() != Hash([]byte("11700000000USD500000abc")) {
		t.Fatal("ComputeHash does not hash the preimage")
	}
}

// TestComputeHashDeterministic verifies that hashing the same fields twice
// yields the same digest and leaves the block untouched.
func TestComputeHashDeterministic(t *testing.T) {
	b := NewBlockAt(2, Payload{Label: "EUR", Value: 46000}, 1700000000)
	b.PrevHash = "00ff"
	before := b
	h1 := b.ComputeHash()
	h2 := b.ComputeHash()
	if h1 != h2 {
		t.Fatalf("expected identical hashes, got %s and %s", h1, h2)
	}
	if b.Nonce != before.Nonce || b.Hash != before.Hash {
		t.Fatal("ComputeHash mutated the block")
	}
}

// TestMineProducesValidProof verifies the proof-of-work property: the stored
// hash carries the difficulty prefix and equals an independent recomputation.
func TestMineProducesValidProof(t *testing.T) {
	for _, difficulty := range []int{1, 2, 3} {
		b := NewBlockAt(1, Payload{Label: "USD", Value: 50000}, 1700000000)
		res, err := b.Mine(context.Background(), difficulty, 0)
		if err != nil {
			t.Fatalf("difficulty %d: %v", difficulty, err)
		}
		if !res.Found {
			t.Fatalf("difficulty %d: expected a solution", difficulty)
		}
		if !strings.HasPrefix(b.Hash, strings.Repeat("0", difficulty)) {
			t.Fatalf("difficulty %d: hash %s lacks prefix", difficulty, b.Hash)
		}
		if b.Hash != b.ComputeHash() {
			t.Fatalf("difficulty %d: stored hash %s differs from recomputed %s", difficulty, b.Hash, b.ComputeHash())
		}
		if b.Nonce != res.Nonce || uint64(b.Nonce+1) != res.Attempts {
			t.Fatalf("difficulty %d: nonce %d inconsistent with %d attempts", difficulty, b.Nonce, res.Attempts)
		}
	}
}

// TestMineDifficultyZero verifies that the first attempt is accepted, which
// moves the nonce from the unsolved sentinel to 0.
func TestMineDifficultyZero(t *testing.T) {
	b := NewBlockAt(1, Payload{Label: "USD", Value: 50000}, 1700000000)
	res, err := b.Mine(context.Background(), 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	if b.Nonce != 0 {
		t.Fatalf("expected nonce 0, got %d", b.Nonce)
	}
	if res.Attempts != 1 {
		t.Fatalf("expected 1 attempt, got %d", res.Attempts)
	}
	if b.Hash != b.ComputeHash() {
		t.Fatal("stored hash differs from recomputed hash")
	}
}

func TestMineExhausted(t *testing.T) {
	b := NewBlockAt(1, Payload{Label: "USD", Value: 50000}, 1700000000)
	res, err := b.Mine(context.Background(), HashLength, 10)
	if !errors.Is(err, ErrExhausted) {
		t.Fatalf("expected ErrExhausted, got %v", err)
	}
	if res.Found || res.Attempts != 10 {
		t.Fatalf("expected 10 unsuccessful attempts, got %+v", res)
	}
	if b.Nonce != Unsolved || b.Hash != "" {
		t.Fatalf("exhausted search modified the block: nonce %d hash %q", b.Nonce, b.Hash)
	}
}

func TestSearchCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	b := NewBlockAt(1, Payload{Label: "USD", Value: 50000}, 1700000000)
	_, err := Search(ctx, b, HashLength, 0)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestSearchUnreachableDifficulty(t *testing.T) {
	b := NewBlockAt(1, Payload{Label: "USD", Value: 50000}, 1700000000)
	_, err := Search(context.Background(), b, HashLength+1, 0)
	if !errors.Is(err, ErrUnreachableDifficulty) {
		t.Fatalf("expected ErrUnreachableDifficulty, got %v", err)
	}
}

func TestSolved(t *testing.T) {
	cases := []struct {
		hash       string
		difficulty int
		expected   bool
	}{
		{"00ab", 2, true},
		{"00ab", 3, false},
		{"0a0b", 2, false},
		{"abcd", 0, true},
		{"abcd", -1, true},
		{"00", 3, false},
	}
	for _, c := range cases {
		if actual := Solved(c.hash, c.difficulty); actual != c.expected {
			t.Fatalf("Solved(%q, %d): expected %v, got %v", c.hash, c.difficulty, c.expected, actual)
		}
	}
}

// TestMineContinuesFromCurrentNonce verifies that the search resumes from the
// stored nonce instead of restarting at the unsolved sentinel.
func TestMineContinuesFromCurrentNonce(t *testing.T) {
	b := NewBlockAt(1, Payload{Label: "USD", Value: 50000}, 1700000000)
	b.Nonce = 41
	res, err := b.Mine(context.Background(), 2, 0)
	if err != nil {
		t.Fatal(err)
	}
	if res.Nonce <= 41 {
		t.Fatalf("expected nonce above 41, got %d", res.Nonce)
	}
	if res.Attempts != uint64(res.Nonce-41) {
		t.Fatalf("expected %d attempts, got %d", res.Nonce-41, res.Attempts)
	}
	if b.Nonce != res.Nonce || b.Hash != b.ComputeHash() {
		t.Fatalf("block not updated consistently: nonce %d hash %s", b.Nonce, b.Hash)
	}
}
