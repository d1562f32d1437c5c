// Package hash provides the seeded xxHash64 helpers used for Bloom filter
// probing and payload checksums.
package hash

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
)

// Uint64 hashes the little-endian encoding of v with the given seed.
func Uint64(seed, v uint64) uint64 {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], v)

	var d xxhash.Digest
	d.ResetWithSeed(seed)
	_, _ = d.Write(buf[:])

	return d.Sum64()
}

// Checksum returns the unseeded xxHash64 of the concatenation of parts.
func Checksum(parts ...[]byte) uint64 {
	if len(parts) == 1 {
		return xxhash.Sum64(parts[0])
	}

	var d xxhash.Digest
	d.Reset()
	for _, p := range parts {
		_, _ = d.Write(p)
	}

	return d.Sum64()
}
