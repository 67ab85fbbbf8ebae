// Package ledger implements an in-memory proof-of-work blockchain for
// recording external observations.
//
// # Core Components
//
// Block: A single observation (label and integer value) together with its
// index, timestamp, nonce and the hash of its predecessor.
//
// Blockchain: An append-only sequence of blocks that starts from a fixed,
// unmined genesis block and owns the difficulty target.
//
// Search: The proof-of-work loop. It scans the nonce space linearly until the
// block hash starts with the required number of '0' characters, the attempt
// ceiling is reached, or the context is cancelled.
//
// # Hash Contract
//
// A block hash is the hex encoded SHA-256 digest of the decimal index,
// timestamp, payload label, payload value, nonce and previous hash,
// concatenated in that order with no delimiters.
//
// # Security Properties
//
// The blockchain provides:
//   - Immutability: Once appended, blocks cannot be modified
//   - Verifiability: Verify recomputes every hash and checks the links
//   - Proof of work: Every non-genesis hash carries the difficulty prefix
//   - Attribution: Blocks can optionally be sealed with a Schnorr signature
//
// # Usage
//
// Create a blockchain, then append one block per observation. Append mines
// the block before linking it, so it blocks until the search finishes.
package ledger
