// Package errs defines the sentinel errors returned by wisard packages.
//
// Callers should match them with errors.Is, since most call sites wrap the
// sentinel with the offending parameter values.
package errs

import "errors"

// Configuration errors. These describe caller mistakes and are returned from
// the call that violates the precondition.
var (
	ErrInvalidValueWidth   = errors.New("invalid value width")
	ErrInvalidResolution   = errors.New("invalid thermometer resolution")
	ErrInvalidSlice        = errors.New("invalid slice range")
	ErrEmptySample         = errors.New("sample has no bits")
	ErrInvalidAddressWidth = errors.New("invalid address width")
	ErrInvalidCounterWidth = errors.New("invalid counter width")
	ErrInvalidThreshold    = errors.New("threshold exceeds counter capacity")
	ErrInvalidRate         = errors.New("false positive rate must be in (0, 1)")
	ErrInvalidInputWidth   = errors.New("invalid input width")
	ErrWidthMismatch       = errors.New("sample width does not match model input width")
	ErrUnknownLabel        = errors.New("label not registered in model")
	ErrNoLabels            = errors.New("model requires at least one label")
	ErrNilHasher           = errors.New("hasher must not be nil")
	ErrNilBuilder          = errors.New("filter builder must not be nil")
	ErrInvalidParallelism  = errors.New("parallelism must be positive")
)

// Persisted format errors.
var (
	ErrInvalidHeaderSize       = errors.New("invalid header size")
	ErrInvalidMagicNumber      = errors.New("invalid magic number")
	ErrUnsupportedVersion      = errors.New("unsupported format version")
	ErrChecksumMismatch        = errors.New("payload checksum mismatch")
	ErrTruncatedPayload        = errors.New("truncated payload")
	ErrTrailingData            = errors.New("unexpected data after payload")
	ErrInvalidFilterKind       = errors.New("invalid filter kind")
	ErrInvalidCompression      = errors.New("invalid compression type")
	ErrInvalidBitOrder         = errors.New("invalid bit order")
	ErrUnpersistableHasher     = errors.New("hasher state cannot be persisted")
	ErrUnsupportedFilter       = errors.New("filter type cannot be persisted")
	ErrModelKindMismatch       = errors.New("persisted model kind mismatch")
	ErrInvalidLabelEncoding    = errors.New("invalid label encoding")
	ErrDatasetLabelColumn      = errors.New("label column out of range")
	ErrDatasetInconsistentRows = errors.New("dataset rows have inconsistent widths")
)
