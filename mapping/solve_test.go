package mapping

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fieldio/ecat"
)

var (
	sdoA = ecat.SdoSub(0x6040, 0)
	sdoB = ecat.SdoSub(0x6060, 0)
	sdoC = ecat.SdoSub(0x607A, 0)
	sdoD = ecat.SdoSub(0x60FF, 0)
	sdoE = ecat.SdoSub(0x6071, 0)
	sdoF = ecat.SdoSub(0x60B8, 0)
)

func fixedPdo(idx ecat.PdoIdx, sdos ...ecat.Sdo) ecat.PdoInfo {
	entries := make([]ecat.PdoEntry, len(sdos))
	for i, s := range sdos {
		entries[i] = ecat.PdoEntry{Sdo: s, BitLen: 16}
	}
	return ecat.PdoInfo{Index: idx, Direction: ecat.DirOutput, Fixed: true, Entries: entries}
}

func cfgPdo(idx ecat.PdoIdx, capacity int) ecat.PdoInfo {
	return ecat.PdoInfo{Index: idx, Direction: ecat.DirOutput, Capacity: capacity}
}

func outSm(idx ecat.SmIdx, capacity int) ecat.SmInfo {
	return ecat.SmInfo{Index: idx, Direction: ecat.DirOutput, Capacity: capacity}
}

func TestSolveFixedThenConfigurable(t *testing.T) {
	pdos := []ecat.PdoInfo{
		fixedPdo(0x1700, sdoA, sdoB),
		cfgPdo(0x1600, 3),
	}
	syncs := []ecat.SmInfo{outSm(2, 2)}
	required := []ecat.Sdo{sdoA, sdoB, sdoC}

	usedPdos, usedSyncs, placements, err := solveDirection(pdos, syncs, required, ecat.DirOutput)
	require.NoError(t, err)

	require.Len(t, usedPdos, 2)
	assert.Equal(t, ecat.PdoIdx(0x1700), usedPdos[0].Index)
	assert.True(t, usedPdos[0].Fixed)
	assert.Equal(t, ecat.PdoIdx(0x1600), usedPdos[1].Index)
	assert.Equal(t, []ecat.Sdo{sdoC}, usedPdos[1].Entries)

	require.Len(t, usedSyncs, 1)
	assert.Equal(t, []ecat.PdoIdx{0x1700, 0x1600}, usedSyncs[0].Pdos)

	assert.Equal(t, Placement{Pdo: 0x1700, Pos: 0}, placements[sdoA])
	assert.Equal(t, Placement{Pdo: 0x1700, Pos: 1}, placements[sdoB])
	assert.Equal(t, Placement{Pdo: 0x1600, Pos: 0}, placements[sdoC])
}

func TestSolveGreedyPicksWidestCoverage(t *testing.T) {
	// 0x1701 covers three required entries, 0x1700 only one of them
	// exclusively. The wide one goes first; the narrow one still
	// contributes its remaining entry.
	pdos := []ecat.PdoInfo{
		fixedPdo(0x1700, sdoA, sdoB),
		fixedPdo(0x1701, sdoB, sdoC, sdoD),
	}
	syncs := []ecat.SmInfo{outSm(2, 2)}
	required := []ecat.Sdo{sdoA, sdoB, sdoC, sdoD}

	usedPdos, _, placements, err := solveDirection(pdos, syncs, required, ecat.DirOutput)
	require.NoError(t, err)

	require.Len(t, usedPdos, 2)
	assert.Equal(t, ecat.PdoIdx(0x1701), usedPdos[0].Index)
	assert.Equal(t, ecat.PdoIdx(0x1700), usedPdos[1].Index)

	// sdoB was reached by the first pick; its placement stays there.
	assert.Equal(t, Placement{Pdo: 0x1701, Pos: 0}, placements[sdoB])
	assert.Equal(t, Placement{Pdo: 0x1700, Pos: 0}, placements[sdoA])
}

func TestSolveSkipsUselessFixedPdo(t *testing.T) {
	// A fixed PDO covering nothing required must not be selected, and
	// selection terminates instead of spinning on it.
	pdos := []ecat.PdoInfo{
		fixedPdo(0x1700, sdoE, sdoF),
		cfgPdo(0x1600, 4),
	}
	syncs := []ecat.SmInfo{outSm(2, 2)}
	required := []ecat.Sdo{sdoA, sdoB}

	usedPdos, _, _, err := solveDirection(pdos, syncs, required, ecat.DirOutput)
	require.NoError(t, err)
	require.Len(t, usedPdos, 1)
	assert.Equal(t, ecat.PdoIdx(0x1600), usedPdos[0].Index)
}

func TestSolveTieBreaksOnInventoryOrder(t *testing.T) {
	pdos := []ecat.PdoInfo{
		fixedPdo(0x1701, sdoA),
		fixedPdo(0x1700, sdoB),
	}
	syncs := []ecat.SmInfo{outSm(2, 2)}
	required := []ecat.Sdo{sdoA, sdoB}

	usedPdos, _, _, err := solveDirection(pdos, syncs, required, ecat.DirOutput)
	require.NoError(t, err)
	require.Len(t, usedPdos, 2)
	assert.Equal(t, ecat.PdoIdx(0x1701), usedPdos[0].Index)
	assert.Equal(t, ecat.PdoIdx(0x1700), usedPdos[1].Index)
}

func TestSolveLackOfPdo(t *testing.T) {
	pdos := []ecat.PdoInfo{cfgPdo(0x1600, 3)}
	syncs := []ecat.SmInfo{outSm(2, 2)}
	required := []ecat.Sdo{sdoA, sdoB, sdoC, sdoD, sdoE, sdoF}

	_, _, _, err := solveDirection(pdos, syncs, required, ecat.DirOutput)
	assert.ErrorIs(t, err, ErrLackOfPdo)
}

func TestSolveLackOfSync(t *testing.T) {
	pdos := []ecat.PdoInfo{
		fixedPdo(0x1700, sdoA),
		fixedPdo(0x1701, sdoB),
		fixedPdo(0x1702, sdoC),
	}
	syncs := []ecat.SmInfo{outSm(2, 2)}
	required := []ecat.Sdo{sdoA, sdoB, sdoC}

	_, _, _, err := solveDirection(pdos, syncs, required, ecat.DirOutput)
	assert.ErrorIs(t, err, ErrLackOfSync)
}

func TestSolveIgnoresOtherDirection(t *testing.T) {
	pdos := []ecat.PdoInfo{
		{Index: 0x1A00, Direction: ecat.DirInput, Fixed: true,
			Entries: []ecat.PdoEntry{{Sdo: sdoA, BitLen: 16}}},
		cfgPdo(0x1600, 2),
	}
	syncs := []ecat.SmInfo{
		{Index: 3, Direction: ecat.DirInput, Capacity: 2},
		outSm(2, 2),
	}
	required := []ecat.Sdo{sdoA}

	usedPdos, usedSyncs, _, err := solveDirection(pdos, syncs, required, ecat.DirOutput)
	require.NoError(t, err)
	require.Len(t, usedPdos, 1)
	assert.Equal(t, ecat.PdoIdx(0x1600), usedPdos[0].Index)
	require.Len(t, usedSyncs, 1)
	assert.Equal(t, ecat.SmIdx(2), usedSyncs[0].Index)
}

func TestSolveMultipleConfigurablePdos(t *testing.T) {
	pdos := []ecat.PdoInfo{
		cfgPdo(0x1600, 2),
		cfgPdo(0x1601, 2),
	}
	syncs := []ecat.SmInfo{outSm(2, 2)}
	required := []ecat.Sdo{sdoA, sdoB, sdoC}

	usedPdos, _, placements, err := solveDirection(pdos, syncs, required, ecat.DirOutput)
	require.NoError(t, err)
	require.Len(t, usedPdos, 2)
	assert.Equal(t, []ecat.Sdo{sdoA, sdoB}, usedPdos[0].Entries)
	assert.Equal(t, []ecat.Sdo{sdoC}, usedPdos[1].Entries)
	assert.Equal(t, Placement{Pdo: 0x1601, Pos: 0}, placements[sdoC])
}

func TestSolveDeterministic(t *testing.T) {
	pdos := []ecat.PdoInfo{
		fixedPdo(0x1700, sdoA, sdoB),
		fixedPdo(0x1701, sdoB, sdoC),
		cfgPdo(0x1600, 4),
	}
	syncs := []ecat.SmInfo{outSm(2, 4)}
	required := []ecat.Sdo{sdoA, sdoB, sdoC, sdoD}

	firstPdos, firstSyncs, firstPlacements, err := solveDirection(pdos, syncs, required, ecat.DirOutput)
	require.NoError(t, err)
	for i := 0; i < 50; i++ {
		usedPdos, usedSyncs, placements, err := solveDirection(pdos, syncs, required, ecat.DirOutput)
		require.NoError(t, err)
		assert.Equal(t, firstPdos, usedPdos)
		assert.Equal(t, firstSyncs, usedSyncs)
		assert.Equal(t, firstPlacements, placements)
	}
}
