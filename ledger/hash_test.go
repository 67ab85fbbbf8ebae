package ledger

import "testing"

// TestHashKnownVectors checks the digest against published SHA-256 test vectors
// so hashes stay reproducible across implementations.
func TestHashKnownVectors(t *testing.T) {
	vectors := map[string]string{
		"":    "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855",
		"abc": "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad",
	}
	for in, expected := range vectors {
		actual := Hash([]byte(in))
		if actual != expected {
			t.Fatalf("Hash(%q): expected %s, got %s", in, expected, actual)
		}
		if len(actual) != HashLength {
			t.Fatalf("Hash(%q): expected length %d, got %d", in, HashLength, len(actual))
		}
	}
}
