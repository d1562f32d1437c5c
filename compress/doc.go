// Package compress provides the payload codecs of persisted wisard models.
//
// A persisted model stores its filter tables after the header. Those tables
// are often sparse (most addresses are never seen during training), so a
// general-purpose compressor shrinks them considerably. The codec is chosen
// per file and recorded in the header as a format.CompressionType:
//
//   - None: payload stored as is.
//   - Zstd: best ratio, moderate speed (klauspost/compress/zstd).
//   - S2: balanced speed and ratio (klauspost/compress/s2).
//   - LZ4: fastest decompression (pierrec/lz4).
//
// Use GetCodec for the shared instances:
//
//	codec, err := compress.GetCodec(format.CompressionZstd)
//	if err != nil {
//		return err
//	}
//	packed, err := codec.Compress(payload)
package compress
