package ledger

import (
	"encoding/hex"
	"errors"
	"fmt"

	"go.dedis.ch/kyber/v4"
	"go.dedis.ch/kyber/v4/sign/schnorr"
	"go.dedis.ch/kyber/v4/suites"
	"go.dedis.ch/kyber/v4/util/key"
)

var ErrBadSeal = errors.New("invalid block seal")

var suite suites.Suite = suites.MustFind("Ed25519")

// Sealer signs mined block hashes with the miner's Schnorr key. The seal is
// stored next to the hash and is not part of the hash preimage.
type Sealer struct {
	private kyber.Scalar
	public  kyber.Point
}

// NewSealer creates a sealer with a fresh Ed25519 key pair.
func NewSealer() *Sealer {
	pair := key.NewKeyPair(suite)
	return &Sealer{private: pair.Private, public: pair.Public}
}

// PublicKey returns the hex encoded public key of the sealer.
func (s *Sealer) PublicKey() string {
	raw, err := s.public.MarshalBinary()
	if err != nil {
		return ""
	}
	return hex.EncodeToString(raw)
}

// Seal signs a block hash.
func (s *Sealer) Seal(hash string) ([]byte, error) {
	sig, err := schnorr.Sign(suite, s.private, []byte(hash))
	if err != nil {
		return nil, fmt.Errorf("failed to seal %s: %w", hash, err)
	}
	return sig, nil
}

// Check verifies that sig is a seal of hash made by this sealer.
func (s *Sealer) Check(hash string, sig []byte) error {
	if len(sig) == 0 {
		return fmt.Errorf("%w: missing", ErrBadSeal)
	}
	if err := schnorr.Verify(suite, s.public, []byte(hash), sig); err != nil {
		return fmt.Errorf("%w: %v", ErrBadSeal, err)
	}
	return nil
}
