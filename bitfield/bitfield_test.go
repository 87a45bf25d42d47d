package bitfield

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlag(t *testing.T) {
	data := make([]byte, 3)
	f := Flag{Byte: 1, Bit: 3}

	assert.False(t, f.Get(data))
	f.Set(data)
	assert.True(t, f.Get(data))
	assert.Equal(t, byte(0x08), data[1])
	assert.Zero(t, data[0])
	assert.Zero(t, data[2])

	f.Clear(data)
	assert.False(t, f.Get(data))
	assert.Zero(t, data[1])

	f.Put(data, true)
	assert.True(t, f.Get(data))
	f.Put(data, false)
	assert.False(t, f.Get(data))
}

func TestFlagAt(t *testing.T) {
	f := Flag{Byte: 0, Bit: 6}

	assert.Equal(t, Flag{Byte: 0, Bit: 7}, f.At(1))
	assert.Equal(t, Flag{Byte: 1, Bit: 0}, f.At(2), "crosses the byte boundary")
	assert.Equal(t, Flag{Byte: 0, Bit: 0}, f.At(-6))
	require.Panics(t, func() { f.At(-7) })
}

func TestFlagChecks(t *testing.T) {
	data := make([]byte, 2)
	require.Panics(t, func() { Flag{Byte: 2, Bit: 0}.Get(data) })
	require.Panics(t, func() { Flag{Byte: -1, Bit: 0}.Set(data) })
	require.Panics(t, func() { Flag{Byte: 0, Bit: 8}.Get(data) })
}

func TestWord16(t *testing.T) {
	data := make([]byte, 4)
	w := Word16{Byte: 1}

	w.Store(data, 0xA55A)
	assert.Equal(t, uint16(0xA55A), w.Load(data))
	assert.Equal(t, byte(0x5A), data[1], "least significant byte first")
	assert.Equal(t, byte(0xA5), data[2])
	assert.Zero(t, data[0])
	assert.Zero(t, data[3])

	assert.True(t, w.Test(data, 0x0008))
	assert.False(t, w.Test(data, 0x0009))

	w.SetBits(data, 0x0001)
	assert.Equal(t, uint16(0xA55B), w.Load(data))
	w.ClearBits(data, 0xFF00)
	assert.Equal(t, uint16(0x005B), w.Load(data))
}

func TestWord16FlagAt(t *testing.T) {
	w := Word16{Byte: 2}
	assert.Equal(t, Flag{Byte: 2, Bit: 0}, w.FlagAt(0))
	assert.Equal(t, Flag{Byte: 2, Bit: 7}, w.FlagAt(7))
	assert.Equal(t, Flag{Byte: 3, Bit: 0}, w.FlagAt(8))
	assert.Equal(t, Flag{Byte: 3, Bit: 7}, w.FlagAt(15))
	require.Panics(t, func() { w.FlagAt(16) })

	data := make([]byte, 4)
	w.FlagAt(10).Set(data)
	assert.Equal(t, uint16(1<<10), w.Load(data))
}

func TestWord16Checks(t *testing.T) {
	data := make([]byte, 2)
	require.Panics(t, func() { Word16{Byte: 1}.Load(data) })
	require.Panics(t, func() { Word16{Byte: -1}.Store(data, 0) })
}
