package filter

import (
	"hash/maphash"

	"github.com/arloliu/wisard/internal/hash"
)

// Hasher maps a filter address to a 64-bit digest.
type Hasher interface {
	Sum64(addr uint64) uint64
}

// SeededHasher is a Hasher fully determined by a 64-bit seed, which makes it
// reproducible after a model is persisted and loaded.
type SeededHasher interface {
	Hasher
	Seed() uint64
}

// XXHasher hashes addresses with seeded xxHash64.
type XXHasher struct {
	seed uint64
}

var _ SeededHasher = XXHasher{}

// NewXXHasher returns an xxHash64 hasher with the given seed.
func NewXXHasher(seed uint64) XXHasher {
	return XXHasher{seed: seed}
}

// Sum64 returns the xxHash64 digest of addr.
func (h XXHasher) Sum64(addr uint64) uint64 {
	return hash.Uint64(h.seed, addr)
}

// Seed returns the hasher seed.
func (h XXHasher) Seed() uint64 {
	return h.seed
}

// NewXXHasherPair returns two independent xxHash64 hashers derived from seed.
func NewXXHasherPair(seed uint64) (XXHasher, XXHasher) {
	return NewXXHasher(seed), NewXXHasher(hash.Uint64(seed, seed))
}

// RandomHasher hashes addresses with a process-random maphash seed.
// Its digests differ between processes, so filters using it cannot be
// persisted.
type RandomHasher struct {
	seed maphash.Seed
}

var _ Hasher = RandomHasher{}

// NewRandomHasher returns a hasher with a fresh random seed.
func NewRandomHasher() RandomHasher {
	return RandomHasher{seed: maphash.MakeSeed()}
}

// Sum64 returns the maphash digest of addr.
func (h RandomHasher) Sum64(addr uint64) uint64 {
	return maphash.Comparable(h.seed, addr)
}

// NewRandomHasherPair returns two independently seeded random hashers.
func NewRandomHasherPair() (RandomHasher, RandomHasher) {
	return NewRandomHasher(), NewRandomHasher()
}
