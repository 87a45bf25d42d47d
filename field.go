package ecat

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Value is the closed set of process-data value types supported by the
// Field codec.
type Value interface {
	bool | int8 | int16 | int32 | uint8 | uint16 | uint32 | float32 | float64
}

// Offset is the raw placement of a registered entry inside the domain
// image, as returned by the driver.
type Offset struct {
	Byte int
	Bit  uint8
}

// Field locates one typed value inside the cyclic domain image.
//
// Get and Set perform a fixed-width little-endian transcription between
// the value and the image; they never allocate, never resize the buffer
// and never synchronize. The codec supports byte-aligned, full-width
// values only: Bit must be 0 and BitLen must equal the native width of
// T. Violations are programming errors in mapping setup, not runtime
// conditions, and panic. Sub-byte flag packing is the business of
// package bitfield, not of this codec.
type Field[T Value] struct {
	// Byte is the start byte index inside the domain image.
	Byte int
	// Bit is the start bit inside the start byte (must be 0).
	Bit uint8
	// BitLen is the bit length of the value.
	BitLen int
}

// NewField builds a Field from its placement.
func NewField[T Value](byteOff int, bit uint8, bitLen int) Field[T] {
	return Field[T]{Byte: byteOff, Bit: bit, BitLen: bitLen}
}

// FieldAt builds a byte-aligned Field of T's native width at the given
// driver offset.
func FieldAt[T Value](off Offset) Field[T] {
	return Field[T]{Byte: off.Byte, Bit: off.Bit, BitLen: BitSizeOf[T]()}
}

// BitSizeOf returns the native bit width of T. bool occupies one byte.
func BitSizeOf[T Value]() int {
	var v T
	switch any(v).(type) {
	case bool, int8, uint8:
		return 8
	case int16, uint16:
		return 16
	case int32, uint32, float32:
		return 32
	case float64:
		return 64
	}
	panic("ecat: unreachable value type")
}

// ByteLen returns the field width in bytes.
func (f Field[T]) ByteLen() int { return f.BitLen / 8 }

func (f Field[T]) String() string {
	return fmt.Sprintf("Field{byte: %d, bit: %d, bitlen: %d}", f.Byte, f.Bit, f.BitLen)
}

// span checks the codec contract and returns the backing slice of the
// field inside data.
func (f Field[T]) span(data []byte) []byte {
	if f.Bit != 0 {
		panic(fmt.Sprintf("ecat: bit-aligned field access is not supported (bit %d)", f.Bit))
	}
	if want := BitSizeOf[T](); f.BitLen != want {
		panic(fmt.Sprintf("ecat: field bit length %d does not match value width %d", f.BitLen, want))
	}
	n := f.BitLen / 8
	if f.Byte < 0 || f.Byte+n > len(data) {
		panic(fmt.Sprintf("ecat: field span [%d,%d) outside domain data of %d bytes", f.Byte, f.Byte+n, len(data)))
	}
	return data[f.Byte : f.Byte+n]
}

// Get extracts the value the field points at in the given domain data.
func (f Field[T]) Get(data []byte) T {
	b := f.span(data)
	var v T
	switch p := any(&v).(type) {
	case *bool:
		*p = b[0] != 0
	case *int8:
		*p = int8(b[0])
	case *uint8:
		*p = b[0]
	case *int16:
		*p = int16(binary.LittleEndian.Uint16(b))
	case *uint16:
		*p = binary.LittleEndian.Uint16(b)
	case *int32:
		*p = int32(binary.LittleEndian.Uint32(b))
	case *uint32:
		*p = binary.LittleEndian.Uint32(b)
	case *float32:
		*p = math.Float32frombits(binary.LittleEndian.Uint32(b))
	case *float64:
		*p = math.Float64frombits(binary.LittleEndian.Uint64(b))
	}
	return v
}

// Set writes the value to the place the field points at in the given
// domain data.
func (f Field[T]) Set(data []byte, v T) {
	b := f.span(data)
	switch x := any(v).(type) {
	case bool:
		if x {
			b[0] = 1
		} else {
			b[0] = 0
		}
	case int8:
		b[0] = uint8(x)
	case uint8:
		b[0] = x
	case int16:
		binary.LittleEndian.PutUint16(b, uint16(x))
	case uint16:
		binary.LittleEndian.PutUint16(b, x)
	case int32:
		binary.LittleEndian.PutUint32(b, uint32(x))
	case uint32:
		binary.LittleEndian.PutUint32(b, x)
	case float32:
		binary.LittleEndian.PutUint32(b, math.Float32bits(x))
	case float64:
		binary.LittleEndian.PutUint64(b, math.Float64bits(x))
	}
}
