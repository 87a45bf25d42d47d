package mapping

import (
	"fmt"

	"github.com/fieldio/ecat"
)

// TypeID names one of the process-data value types the Field codec
// supports.
type TypeID uint8

const (
	TypeBool TypeID = iota
	TypeI8
	TypeI16
	TypeI32
	TypeU8
	TypeU16
	TypeU32
	TypeF32
	TypeF64
)

// BitLen returns the native bit width of the type.
func (t TypeID) BitLen() uint16 {
	switch t {
	case TypeBool, TypeI8, TypeU8:
		return 8
	case TypeI16, TypeU16:
		return 16
	case TypeI32, TypeU32, TypeF32:
		return 32
	case TypeF64:
		return 64
	default:
		return 0
	}
}

func (t TypeID) String() string {
	switch t {
	case TypeBool:
		return "bool"
	case TypeI8:
		return "i8"
	case TypeI16:
		return "i16"
	case TypeI32:
		return "i32"
	case TypeU8:
		return "u8"
	case TypeU16:
		return "u16"
	case TypeU32:
		return "u32"
	case TypeF32:
		return "f32"
	case TypeF64:
		return "f64"
	default:
		return fmt.Sprintf("TypeID(%d)", uint8(t))
	}
}

// TypeIDOf returns the TypeID of a codec value type.
func TypeIDOf[T ecat.Value]() TypeID {
	var v T
	switch any(v).(type) {
	case bool:
		return TypeBool
	case int8:
		return TypeI8
	case int16:
		return TypeI16
	case int32:
		return TypeI32
	case uint8:
		return TypeU8
	case uint16:
		return TypeU16
	case uint32:
		return TypeU32
	case float32:
		return TypeF32
	default:
		return TypeF64
	}
}

// Entry is the dictionary knowledge about one SDO: its transfer width
// and value type.
type Entry struct {
	BitLen uint16
	Type   TypeID
}

// Dictionary maps SDO addresses to their widths and types. The
// resolver consults it for every required entry; FieldFor checks the
// requested Go type against it.
type Dictionary map[ecat.Sdo]Entry
