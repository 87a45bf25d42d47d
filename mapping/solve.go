package mapping

import (
	"fmt"

	"github.com/fieldio/ecat"
)

// Placement locates one required entry inside a solved mapping: the
// PDO that carries it and its position within that PDO.
type Placement struct {
	Pdo ecat.PdoIdx
	Pos int
}

// SolutionPdo is one PDO the solution uses, with its final entry
// sequence. For a fixed PDO the sequence is the device's own; for a
// configurable one it is the sequence the resolver writes.
type SolutionPdo struct {
	Index     ecat.PdoIdx
	Direction ecat.Direction
	Fixed     bool
	Entries   []ecat.Sdo
}

// SolutionSync is one sync manager with its assigned PDOs.
type SolutionSync struct {
	Index     ecat.SmIdx
	Direction ecat.Direction
	Pdos      []ecat.PdoIdx
}

// Solution is the resolved mapping of one slave. Every requirement
// appears in exactly one PDO position; no sync manager holds more PDOs
// than its capacity.
type Solution struct {
	Slave ecat.SlavePos
	// Pdos lists used PDOs in selection order, outputs before inputs.
	Pdos []SolutionPdo
	// Syncs lists used sync managers in inventory order.
	Syncs []SolutionSync

	placements map[reqKey]Placement
}

// Placement returns the placement of a required entry.
func (s *Solution) Placement(sdo ecat.Sdo, dir ecat.Direction) (Placement, bool) {
	p, ok := s.placements[reqKey{sdo: sdo, dir: dir}]
	return p, ok
}

// solveDirection packs the required entries of one direction into the
// slave's PDO inventory and assigns the used PDOs to sync managers.
// Inventories are filtered to the direction first; iteration follows
// inventory order throughout, so the result is deterministic.
//
// Three phases:
//  1. Fixed-PDO selection by exclusive coverage: repeatedly pick the
//     unused fixed PDO covering the most not-yet-reached required
//     entries. The gain of every candidate is computed against the
//     reached set as of the start of the iteration, and the loop stops
//     as soon as the best candidate would add nothing.
//  2. Remaining entries fill configurable PDOs in inventory order, each
//     to capacity. Overflow fails with ErrLackOfPdo.
//  3. Used PDOs go to sync managers in inventory order, each to
//     capacity. Overflow fails with ErrLackOfSync.
func solveDirection(pdos []ecat.PdoInfo, syncs []ecat.SmInfo, required []ecat.Sdo, dir ecat.Direction) ([]SolutionPdo, []SolutionSync, map[ecat.Sdo]Placement, error) {
	var fixed, configurable []ecat.PdoInfo
	for _, p := range pdos {
		if p.Direction != dir {
			continue
		}
		if p.Fixed {
			fixed = append(fixed, p)
		} else {
			configurable = append(configurable, p)
		}
	}

	reached := make(map[ecat.Sdo]bool, len(required))
	for _, s := range required {
		reached[s] = false
	}
	placements := make(map[ecat.Sdo]Placement, len(required))
	used := make(map[ecat.PdoIdx]bool)
	var usedPdos []SolutionPdo

	// Phase 1: exclusive coverage over fixed PDOs. Ties break on the
	// first candidate in inventory order.
	for {
		best, bestGain := -1, 0
		for i, p := range fixed {
			if used[p.Index] {
				continue
			}
			gain := 0
			for _, e := range p.Entries {
				if done, req := reached[e.Sdo]; req && !done {
					gain++
				}
			}
			if gain > bestGain {
				best, bestGain = i, gain
			}
		}
		if best < 0 {
			break
		}
		p := fixed[best]
		used[p.Index] = true
		entries := make([]ecat.Sdo, len(p.Entries))
		for pos, e := range p.Entries {
			entries[pos] = e.Sdo
			if done, req := reached[e.Sdo]; req && !done {
				reached[e.Sdo] = true
				placements[e.Sdo] = Placement{Pdo: p.Index, Pos: pos}
			}
		}
		usedPdos = append(usedPdos, SolutionPdo{
			Index:     p.Index,
			Direction: dir,
			Fixed:     true,
			Entries:   entries,
		})
	}

	// Phase 2: fill configurable PDOs with whatever is left.
	var pending []ecat.Sdo
	for _, s := range required {
		if !reached[s] {
			pending = append(pending, s)
		}
	}
	for _, p := range configurable {
		if len(pending) == 0 {
			break
		}
		n := p.Capacity
		if n > len(pending) {
			n = len(pending)
		}
		if n == 0 {
			continue
		}
		entries := make([]ecat.Sdo, n)
		for pos := 0; pos < n; pos++ {
			entries[pos] = pending[pos]
			reached[pending[pos]] = true
			placements[pending[pos]] = Placement{Pdo: p.Index, Pos: pos}
		}
		pending = pending[n:]
		used[p.Index] = true
		usedPdos = append(usedPdos, SolutionPdo{
			Index:     p.Index,
			Direction: dir,
			Entries:   entries,
		})
	}
	if len(pending) > 0 {
		return nil, nil, nil, fmt.Errorf("%w (%d %s entries left over, first %s)",
			ErrLackOfPdo, len(pending), dir, pending[0])
	}

	// Phase 3: assign used PDOs to sync managers of the direction.
	var usedSyncs []SolutionSync
	next := 0
	for _, sm := range syncs {
		if sm.Direction != dir || next == len(usedPdos) {
			continue
		}
		n := sm.Capacity
		if n > len(usedPdos)-next {
			n = len(usedPdos) - next
		}
		if n <= 0 {
			continue
		}
		assigned := make([]ecat.PdoIdx, n)
		for i := 0; i < n; i++ {
			assigned[i] = usedPdos[next+i].Index
		}
		next += n
		usedSyncs = append(usedSyncs, SolutionSync{
			Index:     sm.Index,
			Direction: dir,
			Pdos:      assigned,
		})
	}
	if next < len(usedPdos) {
		return nil, nil, nil, fmt.Errorf("%w (%d %s pdos unassigned)",
			ErrLackOfSync, len(usedPdos)-next, dir)
	}

	return usedPdos, usedSyncs, placements, nil
}
