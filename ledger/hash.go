package ledger

import (
	"crypto/sha256"
	"encoding/hex"
)

// HashLength is the number of hex characters in a block hash.
const HashLength = sha256.Size * 2

// Hash returns the lowercase hex SHA-256 digest of preimage.
func Hash(preimage []byte) string {
	sum := sha256.Sum256(preimage)
	return hex.EncodeToString(sum[:])
}
