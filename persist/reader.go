package persist

import (
	"fmt"
	"maps"
	"math"
	"slices"

	"github.com/arloliu/wisard/endian"
	"github.com/arloliu/wisard/errs"
)

// payloadReader consumes fixed-width fields from a decompressed payload.
// The first failure is sticky; later reads return zero values.
type payloadReader struct {
	buf    []byte
	engine endian.EndianEngine
	err    error
}

func (r *payloadReader) need(n int, what string) bool {
	if r.err != nil {
		return false
	}
	if len(r.buf) < n {
		r.err = fmt.Errorf("%w: reading %s needs %d bytes, %d left", errs.ErrTruncatedPayload, what, n, len(r.buf))
		return false
	}

	return true
}

func (r *payloadReader) u8(what string) uint8 {
	if !r.need(1, what) {
		return 0
	}
	v := r.buf[0]
	r.buf = r.buf[1:]

	return v
}

func (r *payloadReader) u64(what string) uint64 {
	if !r.need(8, what) {
		return 0
	}
	v := r.engine.Uint64(r.buf)
	r.buf = r.buf[8:]

	return v
}

func (r *payloadReader) f64(what string) float64 {
	return math.Float64frombits(r.u64(what))
}

func (r *payloadReader) str(what string) string {
	if r.err != nil {
		return ""
	}
	s, n, err := readString(r.buf)
	if err != nil {
		r.err = fmt.Errorf("reading %s: %w", what, err)
		return ""
	}
	r.buf = r.buf[n:]

	return s
}

func (r *payloadReader) count(what string, limit uint32) int {
	v := r.engine.Uint32(r.fixed(4, what))
	if r.err == nil && v > limit {
		r.err = fmt.Errorf("%w: %s count %d exceeds %d", errs.ErrTruncatedPayload, what, v, limit)
		return 0
	}

	return int(v)
}

func (r *payloadReader) fixed(n int, what string) []byte {
	if !r.need(n, what) {
		return make([]byte, n)
	}
	b := r.buf[:n]
	r.buf = r.buf[n:]

	return b
}

// appendMetadata writes entries sorted by key so equal maps encode equally.
func appendMetadata(dst []byte, md map[string]string, engine endian.EndianEngine) []byte {
	dst = engine.AppendUint32(dst, uint32(len(md)))
	for _, k := range slices.Sorted(maps.Keys(md)) {
		dst = appendString(dst, k)
		dst = appendString(dst, md[k])
	}

	return dst
}

func (r *payloadReader) metadata() map[string]string {
	n := r.count("metadata", maxMetadataEntries)
	md := make(map[string]string, n)
	for range n {
		k := r.str("metadata key")
		v := r.str("metadata value")
		if r.err != nil {
			return nil
		}
		md[k] = v
	}

	return md
}
