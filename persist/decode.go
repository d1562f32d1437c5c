package persist

import (
	"fmt"

	"github.com/arloliu/wisard/compress"
	"github.com/arloliu/wisard/errs"
	"github.com/arloliu/wisard/filter"
	"github.com/arloliu/wisard/format"
	"github.com/arloliu/wisard/internal/hash"
	"github.com/arloliu/wisard/model"
)

// Info describes a model file without its labels and filter states.
type Info struct {
	Header   Header
	Seed     uint64
	Params   filter.Params
	Metadata map[string]string
}

// Decode restores a model written by Encode. opts configure the returned
// model the same way they configure model.New.
func Decode[L comparable](data []byte, labels LabelCodec[L], opts ...model.Option) (*model.Wisard[L], *Info, error) {
	info, r, err := open(data)
	if err != nil {
		return nil, nil, err
	}
	if info.Header.Flag.IsBinary() {
		return nil, nil, fmt.Errorf("%w: file holds a binary model", errs.ErrModelKindMismatch)
	}

	modelLabels, err := readLabels(r, labels, int(info.Header.LabelCount))
	if err != nil {
		return nil, nil, err
	}

	builder, err := filter.FromParams(info.Params)
	if err != nil {
		return nil, nil, err
	}
	m, err := model.New(int(info.Header.InputWidth), int(info.Header.AddressWidth), modelLabels, builder, opts...)
	if err != nil {
		return nil, nil, err
	}
	if err := readStates(r, m, modelLabels); err != nil {
		return nil, nil, err
	}

	return m, info, nil
}

// DecodeBinary restores a model written by EncodeBinary.
func DecodeBinary[L comparable](data []byte, labels LabelCodec[L], opts ...model.Option) (*model.BinaryWisard[L], *Info, error) {
	info, r, err := open(data)
	if err != nil {
		return nil, nil, err
	}
	if !info.Header.Flag.IsBinary() {
		return nil, nil, fmt.Errorf("%w: file holds a plain model", errs.ErrModelKindMismatch)
	}
	if info.Params.Kind != format.FilterPackedLUT || info.Params.CounterWidth != 1 || info.Params.Threshold != 0 {
		return nil, nil, fmt.Errorf("%w: binary model with %s filters of %d-bit counters",
			errs.ErrModelKindMismatch, info.Params.Kind, info.Params.CounterWidth)
	}

	modelLabels, err := readLabels(r, labels, int(info.Header.LabelCount))
	if err != nil {
		return nil, nil, err
	}

	m, err := model.NewBinaryWithSeed(int(info.Header.InputWidth), int(info.Header.AddressWidth), modelLabels, info.Seed, opts...)
	if err != nil {
		return nil, nil, err
	}
	if err := readStates(r, m.Base(), modelLabels); err != nil {
		return nil, nil, err
	}

	return m, info, nil
}

// Inspect verifies a model file and returns its description.
func Inspect(data []byte) (*Info, error) {
	info, _, err := open(data)
	return info, err
}

// open validates the header and checksum, decompresses the payload and
// reads everything up to the labels.
func open(data []byte) (*Info, *payloadReader, error) {
	header, err := ParseHeader(data)
	if err != nil {
		return nil, nil, err
	}

	stored := data[HeaderSize:]
	if uint64(len(stored)) < uint64(header.PayloadSize) {
		return nil, nil, fmt.Errorf("%w: payload has %d bytes, header announces %d",
			errs.ErrTruncatedPayload, len(stored), header.PayloadSize)
	}
	if uint64(len(stored)) > uint64(header.PayloadSize) {
		return nil, nil, fmt.Errorf("%w: %d bytes", errs.ErrTrailingData, uint64(len(stored))-uint64(header.PayloadSize))
	}
	if sum := hash.Checksum(data[:offChecksum], stored); sum != header.Checksum {
		return nil, nil, fmt.Errorf("%w: got %016x, want %016x", errs.ErrChecksumMismatch, sum, header.Checksum)
	}

	codec, err := compress.GetCodec(header.Flag.Compression)
	if err != nil {
		return nil, nil, err
	}
	payload, err := codec.Decompress(stored)
	if err != nil {
		return nil, nil, fmt.Errorf("decompress model payload: %w", err)
	}

	r := &payloadReader{buf: payload, engine: header.Flag.GetEndianEngine()}
	info := &Info{Header: *header}
	info.Seed = r.u64("seed")
	info.Params = filter.Params{
		Kind:         header.Flag.FilterKind,
		AddressWidth: int(header.AddressWidth),
		CounterWidth: int(r.u8("counter width")),
		Threshold:    r.u64("threshold"),
		Rate:         r.f64("rate"),
		Seed1:        r.u64("hasher seed"),
		Seed2:        r.u64("hasher seed"),
	}
	info.Metadata = r.metadata()
	if r.err != nil {
		return nil, nil, r.err
	}

	return info, r, nil
}

func readLabels[L comparable](r *payloadReader, codec LabelCodec[L], n int) ([]L, error) {
	out := make([]L, 0, min(n, 1024))
	seen := make(map[L]struct{}, min(n, 1024))
	for range n {
		l, size, err := codec.ReadLabel(r.buf)
		if err != nil {
			return nil, err
		}
		if _, dup := seen[l]; dup {
			return nil, fmt.Errorf("%w: duplicate label %v", errs.ErrInvalidLabelEncoding, l)
		}
		seen[l] = struct{}{}
		r.buf = r.buf[size:]
		out = append(out, l)
	}

	return out, nil
}

func readStates[L comparable](r *payloadReader, m *model.Wisard[L], labels []L) error {
	rest := r.buf
	for _, l := range labels {
		d, _ := m.Discriminator(l)
		for i := range d.NumFilters() {
			st, ok := d.Filter(i).(filter.Stateful)
			if !ok {
				return fmt.Errorf("%w: filter %T", errs.ErrUnsupportedFilter, d.Filter(i))
			}
			var err error
			if rest, err = st.ReadState(rest, r.engine); err != nil {
				return fmt.Errorf("label %v filter %d: %w", l, i, err)
			}
		}
	}
	if len(rest) != 0 {
		return fmt.Errorf("%w: %d bytes after filter states", errs.ErrTrailingData, len(rest))
	}
	r.buf = rest

	return nil
}
