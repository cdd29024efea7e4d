// Package challenge holds the challenge identifier I: an owned opaque byte
// sequence that personalises every hash and XOR step of the scheme.
package challenge

import (
	"fmt"

	"github.com/tuneinsight/lattigo/v4/utils"
	"lukechampine.com/frand"
)

// DefaultSize is the conventional identifier length in bytes.
const DefaultSize = 64

// ID is an owned challenge identifier of arbitrary length.
type ID []byte

// New copies b into a freshly owned identifier.
func New(b []byte) ID {
	id := make(ID, len(b))
	copy(id, b)
	return id
}

// Random returns an n-byte identifier drawn from a fast CSPRNG.
func Random(n int) ID {
	return ID(frand.Bytes(n))
}

// FromSeed derives an n-byte identifier deterministically from seed, so that
// solver runs are reproducible across machines.
func FromSeed(seed []byte, n int) (ID, error) {
	prng, err := utils.NewKeyedPRNG(seed)
	if err != nil {
		return nil, fmt.Errorf("keyed prng: %w", err)
	}
	id := make(ID, n)
	if _, err := prng.Read(id); err != nil {
		return nil, fmt.Errorf("prng read: %w", err)
	}
	return id, nil
}
