package persist

import (
	"fmt"
	"math"

	"github.com/arloliu/wisard/compress"
	"github.com/arloliu/wisard/errs"
	"github.com/arloliu/wisard/filter"
	"github.com/arloliu/wisard/internal/hash"
	"github.com/arloliu/wisard/internal/options"
	"github.com/arloliu/wisard/internal/pool"
	"github.com/arloliu/wisard/model"
)

// Encode serializes m, including every filter counter, into a model file.
func Encode[L comparable](m *model.Wisard[L], labels LabelCodec[L], opts ...Option) ([]byte, error) {
	return encodeModel(m, labels, 0, false, opts)
}

// EncodeBinary serializes a BinaryWisard together with its permutation seed.
func EncodeBinary[L comparable](m *model.BinaryWisard[L], labels LabelCodec[L], opts ...Option) ([]byte, error) {
	return encodeModel(m.Base(), labels, m.Seed(), true, opts)
}

func encodeModel[L comparable](m *model.Wisard[L], labels LabelCodec[L], seed uint64, binary bool, opts []Option) ([]byte, error) {
	cfg := defaultEncodeConfig()
	if err := options.Apply(&cfg, opts...); err != nil {
		return nil, err
	}

	desc, ok := m.Builder().(filter.Describer)
	if !ok {
		return nil, fmt.Errorf("%w: builder %T", errs.ErrUnsupportedFilter, m.Builder())
	}
	params, err := desc.Params()
	if err != nil {
		return nil, err
	}

	flag := NewFlag(params.Kind, cfg.compression)
	flag.SetBinary(binary)
	if cfg.bigEndian {
		flag.WithBigEndian()
	}
	engine := flag.GetEndianEngine()

	buf := pool.GetModelBuffer()
	defer pool.PutModelBuffer(buf)

	b := buf.B
	b = engine.AppendUint64(b, seed)
	b = append(b, uint8(params.CounterWidth))
	b = engine.AppendUint64(b, params.Threshold)
	b = engine.AppendUint64(b, math.Float64bits(params.Rate))
	b = engine.AppendUint64(b, params.Seed1)
	b = engine.AppendUint64(b, params.Seed2)
	b = appendMetadata(b, cfg.metadata, engine)

	modelLabels := m.Labels()
	for _, l := range modelLabels {
		b = labels.AppendLabel(b, l)
	}
	for _, l := range modelLabels {
		d, _ := m.Discriminator(l)
		for i := range d.NumFilters() {
			st, ok := d.Filter(i).(filter.Stateful)
			if !ok {
				return nil, fmt.Errorf("%w: filter %T", errs.ErrUnsupportedFilter, d.Filter(i))
			}
			b = st.AppendState(b, engine)
		}
	}
	buf.B = b

	codec, err := compress.GetCodec(cfg.compression)
	if err != nil {
		return nil, err
	}
	payload, err := codec.Compress(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("compress model payload: %w", err)
	}
	if len(payload) > math.MaxUint32 {
		return nil, fmt.Errorf("%w: payload of %d bytes exceeds the format limit", errs.ErrInvalidHeaderSize, len(payload))
	}

	header := Header{
		Flag:         flag,
		Version:      Version,
		BitOrder:     cfg.order.Format(),
		InputWidth:   uint32(m.InputWidth()),
		AddressWidth: uint32(m.AddressWidth()),
		LabelCount:   uint32(len(modelLabels)),
		PayloadSize:  uint32(len(payload)),
	}
	hb := header.Bytes()
	header.Checksum = hash.Checksum(hb[:offChecksum], payload)
	flag.GetEndianEngine().PutUint64(hb[offChecksum:], header.Checksum)

	out := make([]byte, 0, HeaderSize+len(payload))
	out = append(out, hb...)

	return append(out, payload...), nil
}
