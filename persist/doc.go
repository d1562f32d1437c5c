// Package persist reads and writes trained models.
//
// A model file is a fixed 32-byte header followed by a payload:
//
//	+--------+-------------+----------+--------+---------------+
//	| Header | seed/params | metadata | labels | filter states |
//	+--------+-------------+----------+--------+---------------+
//
// The header carries the magic number, the byte order, the filter kind,
// the payload codec, the model widths and an xxHash64 checksum that covers
// the preceding header bytes and the stored payload. The payload holds the permutation seed of binary models, the
// filter construction parameters, free-form metadata, the labels in model
// order and finally the raw counters of every filter of every
// discriminator. The payload may be compressed with any codec of package
// compress.
//
// Round trips are lossless: a decoded model scores every sample exactly like
// the encoded one.
package persist
