// Package filter implements the counting memories addressed by a
// discriminator.
//
// Three backends are provided:
//
//   - LUT: exact table of 8, 16, 32 or 64-bit counters.
//   - PackedLUT: exact table of arbitrary-width counters packed into words.
//   - Bloom: counting Bloom filter trading exactness for memory.
//
// Every backend has a matching Builder that produces fresh filters with the
// same parameters, one per address chunk. Builders that implement Describer
// and filters that implement Stateful can be persisted.
//
// Filters are not safe for concurrent mutation.
package filter
