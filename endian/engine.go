// Package endian selects the byte order of persisted models.
//
// EndianEngine combines binary.ByteOrder and binary.AppendByteOrder so the
// same value both decodes fixed-width fields in place and appends them to a
// growing buffer:
//
//	engine := endian.GetLittleEndianEngine()
//	buf = engine.AppendUint32(buf, inputWidth)
//	inputWidth = engine.Uint32(buf[off:])
//
// Little-endian is the default for wisard model files; big-endian is kept
// for interoperability. Engines are stateless and safe for concurrent use.
package endian

import "encoding/binary"

// EndianEngine reads and appends fixed-width integers in one byte order.
// binary.LittleEndian and binary.BigEndian both satisfy it.
type EndianEngine interface {
	binary.ByteOrder
	binary.AppendByteOrder
}

// GetLittleEndianEngine returns the little-endian engine.
func GetLittleEndianEngine() EndianEngine {
	return binary.LittleEndian
}

// GetBigEndianEngine returns the big-endian engine.
func GetBigEndianEngine() EndianEngine {
	return binary.BigEndian
}

// ForFlag returns the big-endian engine when bigEndian is set and the
// little-endian engine otherwise.
func ForFlag(bigEndian bool) EndianEngine {
	if bigEndian {
		return GetBigEndianEngine()
	}

	return GetLittleEndianEngine()
}
