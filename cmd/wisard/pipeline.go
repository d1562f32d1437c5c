package main

import (
	"fmt"
	"math/rand/v2"
	"os"
	"strconv"

	"github.com/arloliu/wisard/dataset"
	"github.com/arloliu/wisard/encode"
	"github.com/arloliu/wisard/filter"
	"github.com/arloliu/wisard/internal/config"
)

// metadata keys written by train and read back by eval and predict
const (
	metaModelID     = "model_id"
	metaCreatedAt   = "created_at"
	metaKind        = "model.kind"
	metaValueWidth  = "dataset.value_width"
	metaLabelColumn = "dataset.label_column"
	metaHasHeader   = "dataset.has_header"
	metaThermometer = "encoding.thermometer"
	metaResolution  = "encoding.resolution"
	metaSliceStart  = "encoding.slice_start"
	metaSliceEnd    = "encoding.slice_end"
)

// pipeline turns CSV rows into model input samples.
type pipeline struct {
	dataset  config.DatasetConfig
	encoding config.EncodingConfig
}

func pipelineFromConfig(cfg *config.Config) pipeline {
	return pipeline{dataset: cfg.Dataset, encoding: cfg.Encoding}
}

// pipelineFromMetadata restores the pipeline a model was trained with.
// Missing keys fall back to the defaults.
func pipelineFromMetadata(md map[string]string) (pipeline, error) {
	def := config.Default()
	p := pipeline{dataset: def.Dataset, encoding: def.Encoding}

	ints := []struct {
		key string
		dst *int
	}{
		{metaValueWidth, &p.dataset.ValueWidth},
		{metaLabelColumn, &p.dataset.LabelColumn},
		{metaResolution, &p.encoding.Resolution},
		{metaSliceStart, &p.encoding.SliceStart},
		{metaSliceEnd, &p.encoding.SliceEnd},
	}
	for _, f := range ints {
		v, ok := md[f.key]
		if !ok {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return p, fmt.Errorf("model metadata %s: %w", f.key, err)
		}
		*f.dst = n
	}

	if v, ok := md[metaHasHeader]; ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return p, fmt.Errorf("model metadata %s: %w", metaHasHeader, err)
		}
		p.dataset.HasHeader = b
	}
	if v, ok := md[metaThermometer]; ok {
		p.encoding.Thermometer = v
	}

	return p, nil
}

func (p pipeline) metadata() map[string]string {
	return map[string]string{
		metaValueWidth:  strconv.Itoa(p.dataset.ValueWidth),
		metaLabelColumn: strconv.Itoa(p.dataset.LabelColumn),
		metaHasHeader:   strconv.FormatBool(p.dataset.HasHeader),
		metaThermometer: p.encoding.Thermometer,
		metaResolution:  strconv.Itoa(p.encoding.Resolution),
		metaSliceStart:  strconv.Itoa(p.encoding.SliceStart),
		metaSliceEnd:    strconv.Itoa(p.encoding.SliceEnd),
	}
}

// chain builds the encoders: slice first, then thermometer.
func (p pipeline) chain() (encode.Chain, error) {
	var encs []encode.Encoder

	if p.encoding.SliceEnd != 0 {
		s, err := encode.NewSlice(p.encoding.SliceStart, p.encoding.SliceEnd)
		if err != nil {
			return nil, err
		}
		encs = append(encs, s)
	}

	switch p.encoding.Thermometer {
	case config.ThermometerLog:
		t, err := encode.NewLogThermometer(p.encoding.Resolution)
		if err != nil {
			return nil, err
		}
		encs = append(encs, t)
	case config.ThermometerLinear:
		t, err := encode.NewLinearThermometer(p.encoding.Resolution)
		if err != nil {
			return nil, err
		}
		encs = append(encs, t)
	case config.ThermometerNone, "":
	default:
		return nil, fmt.Errorf("unknown thermometer %q", p.encoding.Thermometer)
	}

	return encode.NewChain(encs...), nil
}

// load reads a CSV file and encodes every row.
func (p pipeline) load(path string) (*dataset.Dataset[string], error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset: %w", err)
	}
	defer f.Close()

	ds, err := dataset.LoadCSV(f,
		dataset.WithValueWidth(p.dataset.ValueWidth),
		dataset.WithLabelColumn(p.dataset.LabelColumn),
		dataset.WithHeader(p.dataset.HasHeader),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}

	chain, err := p.chain()
	if err != nil {
		return nil, err
	}
	if len(chain) > 0 {
		if err := ds.Encode(chain); err != nil {
			return nil, err
		}
	}

	return ds, nil
}

// filterBuilder returns the filter backend for the lut, packed and bloom kinds.
func filterBuilder(m config.ModelConfig) (filter.Builder, error) {
	switch m.Kind {
	case config.KindLUT:
		return filter.NewLUTBuilder(m.AddressWidth, m.CounterWidth, m.Threshold)
	case config.KindPacked:
		return filter.NewPackedLUTBuilder(m.AddressWidth, m.CounterWidth, m.Threshold)
	case config.KindBloom:
		seed := m.Seed
		if seed == 0 {
			seed = rand.Uint64()
		}
		h1, h2 := filter.NewXXHasherPair(seed)

		return filter.NewBloomBuilder(m.AddressWidth, m.CounterWidth, m.Threshold, m.FalsePositiveRate, h1, h2)
	default:
		return nil, fmt.Errorf("model kind %q has no filter builder", m.Kind)
	}
}
