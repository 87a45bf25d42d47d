// Package bitfield packs boolean flags into fixed layouts on a raw
// byte buffer, typically a control or status word inside the cyclic
// domain image.
//
// It is deliberately separate from the Field codec: Fields carry
// byte-aligned full-width values, flags share bytes at fixed bit
// positions. Like the codec, a layout violation is a programming
// error and panics; there is no allocation and no synchronization.
package bitfield

import "fmt"

// Flag addresses a single bit inside a byte buffer.
type Flag struct {
	Byte int
	Bit  uint8
}

func (f Flag) check(data []byte) {
	if f.Bit > 7 {
		panic(fmt.Sprintf("bitfield: bit index %d out of range", f.Bit))
	}
	if f.Byte < 0 || f.Byte >= len(data) {
		panic(fmt.Sprintf("bitfield: byte %d outside buffer of %d bytes", f.Byte, len(data)))
	}
}

// Get reads the flag.
func (f Flag) Get(data []byte) bool {
	f.check(data)
	return data[f.Byte]&(1<<f.Bit) != 0
}

// Set raises the flag.
func (f Flag) Set(data []byte) {
	f.check(data)
	data[f.Byte] |= 1 << f.Bit
}

// Clear lowers the flag.
func (f Flag) Clear(data []byte) {
	f.check(data)
	data[f.Byte] &^= 1 << f.Bit
}

// Put writes the flag to the given value.
func (f Flag) Put(data []byte, v bool) {
	if v {
		f.Set(data)
	} else {
		f.Clear(data)
	}
}

// At returns the flag n bits further in the same layout, crossing byte
// boundaries as needed.
func (f Flag) At(n int) Flag {
	abs := f.Byte*8 + int(f.Bit) + n
	if abs < 0 {
		panic(fmt.Sprintf("bitfield: flag offset %d before start of buffer", n))
	}
	return Flag{Byte: abs / 8, Bit: uint8(abs % 8)}
}

// Word16 is a little-endian 16-bit word view, for whole-word access to
// flag layouts such as drive control words.
type Word16 struct {
	Byte int
}

func (w Word16) check(data []byte) {
	if w.Byte < 0 || w.Byte+2 > len(data) {
		panic(fmt.Sprintf("bitfield: word span [%d,%d) outside buffer of %d bytes", w.Byte, w.Byte+2, len(data)))
	}
}

// Load reads the word.
func (w Word16) Load(data []byte) uint16 {
	w.check(data)
	return uint16(data[w.Byte]) | uint16(data[w.Byte+1])<<8
}

// Store writes the word.
func (w Word16) Store(data []byte, v uint16) {
	w.check(data)
	data[w.Byte] = byte(v)
	data[w.Byte+1] = byte(v >> 8)
}

// Test reports whether every bit of mask is set in the word.
func (w Word16) Test(data []byte, mask uint16) bool {
	return w.Load(data)&mask == mask
}

// SetBits raises the masked bits.
func (w Word16) SetBits(data []byte, mask uint16) {
	w.Store(data, w.Load(data)|mask)
}

// ClearBits lowers the masked bits.
func (w Word16) ClearBits(data []byte, mask uint16) {
	w.Store(data, w.Load(data)&^mask)
}

// FlagAt returns the flag addressing bit n (0..15) of the word.
func (w Word16) FlagAt(n uint8) Flag {
	if n > 15 {
		panic(fmt.Sprintf("bitfield: word bit index %d out of range", n))
	}
	return Flag{Byte: w.Byte + int(n/8), Bit: n % 8}
}
