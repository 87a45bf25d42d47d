package mapping

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fieldio/ecat"
)

func TestRegistryRequire(t *testing.T) {
	reg := NewRegistry()

	require.NoError(t, reg.Require(0, ecat.SdoSub(0x6040, 0), ecat.DirOutput))
	require.NoError(t, reg.Require(0, ecat.SdoSub(0x6041, 0), ecat.DirInput))
	require.NoError(t, reg.Require(0, ecat.SdoSub(0x6064, 0), ecat.DirInput))
	require.NoError(t, reg.Require(3, ecat.SdoComplete(0x607A), ecat.DirOutput))

	assert.Equal(t, []ecat.Sdo{ecat.SdoSub(0x6040, 0)}, reg.Requirements(0, ecat.DirOutput))
	assert.Equal(t,
		[]ecat.Sdo{ecat.SdoSub(0x6041, 0), ecat.SdoSub(0x6064, 0)},
		reg.Requirements(0, ecat.DirInput))
	assert.Equal(t, []ecat.Sdo{ecat.SdoComplete(0x607A)}, reg.Requirements(3, ecat.DirOutput))
	assert.Equal(t, []ecat.SlavePos{0, 3}, reg.Slaves())
}

func TestRegistryRequireIdempotent(t *testing.T) {
	reg := NewRegistry()
	sdo := ecat.SdoSub(0x6041, 0)

	for i := 0; i < 3; i++ {
		require.NoError(t, reg.Require(0, sdo, ecat.DirInput))
	}
	assert.Len(t, reg.Requirements(0, ecat.DirInput), 1)

	// The same entry in the other direction is a distinct requirement.
	require.NoError(t, reg.Require(0, sdo, ecat.DirOutput))
	assert.Len(t, reg.Requirements(0, ecat.DirOutput), 1)
	assert.Len(t, reg.Requirements(0, ecat.DirInput), 1)
}

func TestRegistryRequireRejectsDirection(t *testing.T) {
	reg := NewRegistry()

	err := reg.Require(0, ecat.SdoSub(0x6040, 0), ecat.DirInvalid)
	assert.ErrorIs(t, err, ErrInvalidDirection)
	err = reg.Require(0, ecat.SdoSub(0x6040, 0), ecat.Direction(9))
	assert.ErrorIs(t, err, ErrInvalidDirection)
	assert.Empty(t, reg.Slaves())
}

func TestRegistryRequireValidatesSdo(t *testing.T) {
	reg := NewRegistry()

	err := reg.Require(0, ecat.Sdo{Index: 0x6040, Sub: 2, Complete: true}, ecat.DirOutput)
	assert.Error(t, err)
	assert.Empty(t, reg.Requirements(0, ecat.DirOutput))
}

func TestRegistryUnknownSlave(t *testing.T) {
	reg := NewRegistry()
	assert.Nil(t, reg.Requirements(9, ecat.DirInput))
}
