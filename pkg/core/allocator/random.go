package allocator

import (
	"encoding/binary"
	"math/rand/v2"

	"github.com/google/uuid"
)

// Rand is the random source used for tie-breaking.
// *rand.Rand from math/rand/v2 satisfies it.
type Rand interface {
	// IntN returns a uniform value in [0, n)
	IntN(n int) int
}

// seedNamespace scopes seed hashing so equal seed strings always map to the same stream
var seedNamespace = uuid.MustParse("6f1c2a4e-5b3d-4c8e-9a7f-2d1e0b9c8a76")

// NewRand returns a random source for the given seed.
// The same non-empty seed always yields the same sequence; an empty seed yields an unseeded source.
func NewRand(seed string) *rand.Rand {
	if seed == "" {
		return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	sum := uuid.NewSHA1(seedNamespace, []byte(seed))
	hi := binary.BigEndian.Uint64(sum[:8])
	lo := binary.BigEndian.Uint64(sum[8:])
	return rand.New(rand.NewPCG(hi, lo))
}
