package persist

import (
	"encoding/binary"
	"fmt"

	"github.com/arloliu/wisard/errs"
)

// LabelCodec converts model labels to and from bytes.
type LabelCodec[L comparable] interface {
	// AppendLabel appends the encoding of label to dst.
	AppendLabel(dst []byte, label L) []byte
	// ReadLabel decodes a label from the front of src and returns the number
	// of bytes consumed.
	ReadLabel(src []byte) (L, int, error)
}

// StringLabels encodes string labels as uvarint-length-prefixed bytes.
type StringLabels struct{}

var _ LabelCodec[string] = StringLabels{}

func (StringLabels) AppendLabel(dst []byte, label string) []byte {
	return appendString(dst, label)
}

func (StringLabels) ReadLabel(src []byte) (string, int, error) {
	s, n, err := readString(src)
	if err != nil {
		return "", 0, fmt.Errorf("%w: %w", errs.ErrInvalidLabelEncoding, err)
	}

	return s, n, nil
}

// Int64Labels encodes integer labels as zig-zag varints.
type Int64Labels struct{}

var _ LabelCodec[int64] = Int64Labels{}

func (Int64Labels) AppendLabel(dst []byte, label int64) []byte {
	return binary.AppendVarint(dst, label)
}

func (Int64Labels) ReadLabel(src []byte) (int64, int, error) {
	v, n := binary.Varint(src)
	if n <= 0 {
		return 0, 0, fmt.Errorf("%w: malformed varint", errs.ErrInvalidLabelEncoding)
	}

	return v, n, nil
}

func appendString(dst []byte, s string) []byte {
	dst = binary.AppendUvarint(dst, uint64(len(s)))
	return append(dst, s...)
}

func readString(src []byte) (string, int, error) {
	size, n := binary.Uvarint(src)
	if n <= 0 {
		return "", 0, fmt.Errorf("%w: malformed string length", errs.ErrTruncatedPayload)
	}
	if size > maxStringLen || uint64(len(src)-n) < size {
		return "", 0, fmt.Errorf("%w: string of %d bytes", errs.ErrTruncatedPayload, size)
	}
	end := n + int(size)

	return string(src[n:end]), end, nil
}
