package mapping

import (
	"fmt"

	"github.com/fieldio/ecat"
)

// Resolver turns registered requirements into a concrete slave
// configuration and the Fields addressing every entry in the domain
// image. One Resolver serves one master handle and one domain;
// resolution runs once per slave, before activation.
type Resolver struct {
	master ecat.Master
	domain ecat.DomainIdx
	reg    *Registry
	dict   Dictionary

	resolved  map[slaveEntry]resolvedEntry
	solutions map[ecat.SlavePos]*Solution
}

type slaveEntry struct {
	slave ecat.SlavePos
	sdo   ecat.Sdo
	dir   ecat.Direction
}

type resolvedEntry struct {
	off  ecat.Offset
	dict Entry
}

// NewResolver creates a resolver over the given master handle, domain,
// registry and dictionary.
func NewResolver(master ecat.Master, domain ecat.DomainIdx, reg *Registry, dict Dictionary) *Resolver {
	return &Resolver{
		master:    master,
		domain:    domain,
		reg:       reg,
		dict:      dict,
		resolved:  make(map[slaveEntry]resolvedEntry),
		solutions: make(map[ecat.SlavePos]*Solution),
	}
}

// Resolve solves and materializes the mapping of one slave: it
// enumerates the slave's PDO and sync manager inventories, packs the
// registered requirements, writes the configuration through the driver
// and registers every entry for cyclic exchange.
//
// A failure leaves the resolver's state for other slaves untouched and
// records nothing for this one; the caller must not activate a slave
// whose resolution failed.
func (r *Resolver) Resolve(slave ecat.SlavePos) (*Solution, error) {
	outputs := r.reg.Requirements(slave, ecat.DirOutput)
	inputs := r.reg.Requirements(slave, ecat.DirInput)
	for _, sdo := range outputs {
		if _, ok := r.dict[sdo]; !ok {
			return nil, fmt.Errorf("%w (%s on slave %d)", ErrNoDictEntry, sdo, slave)
		}
	}
	for _, sdo := range inputs {
		if _, ok := r.dict[sdo]; !ok {
			return nil, fmt.Errorf("%w (%s on slave %d)", ErrNoDictEntry, sdo, slave)
		}
	}

	info, err := r.master.SlaveInfo(slave)
	if err != nil {
		return nil, err
	}
	cfg, err := r.master.ConfigureSlave(ecat.SlaveAddrPos(slave), info.ID)
	if err != nil {
		return nil, err
	}
	pdos, err := cfg.Pdos()
	if err != nil {
		return nil, err
	}
	syncs, err := cfg.Syncs()
	if err != nil {
		return nil, err
	}

	sol := &Solution{Slave: slave, placements: make(map[reqKey]Placement)}
	for _, dir := range []ecat.Direction{ecat.DirOutput, ecat.DirInput} {
		required := outputs
		if dir == ecat.DirInput {
			required = inputs
		}
		if len(required) == 0 {
			continue
		}
		usedPdos, usedSyncs, placements, err := solveDirection(pdos, syncs, required, dir)
		if err != nil {
			return nil, err
		}
		sol.Pdos = append(sol.Pdos, usedPdos...)
		sol.Syncs = append(sol.Syncs, usedSyncs...)
		for sdo, p := range placements {
			sol.placements[reqKey{sdo: sdo, dir: dir}] = p
		}
	}

	if err := r.apply(cfg, sol); err != nil {
		return nil, err
	}

	entries := make(map[slaveEntry]resolvedEntry, len(outputs)+len(inputs))
	for _, dir := range []ecat.Direction{ecat.DirOutput, ecat.DirInput} {
		required := outputs
		if dir == ecat.DirInput {
			required = inputs
		}
		for _, sdo := range required {
			p, _ := sol.Placement(sdo, dir)
			off, err := cfg.RegisterPdoEntry(sdo, p.Pdo, p.Pos, r.domain)
			if err != nil {
				return nil, err
			}
			entries[slaveEntry{slave: slave, sdo: sdo, dir: dir}] = resolvedEntry{off: off, dict: r.dict[sdo]}
		}
	}

	// Commit only after every driver call went through.
	for k, v := range entries {
		r.resolved[k] = v
	}
	r.solutions[slave] = sol
	return sol, nil
}

// apply writes the solved mapping to the slave: sync manager
// configuration, PDO assignments and, for configurable PDOs, the entry
// mappings.
func (r *Resolver) apply(cfg ecat.SlaveConfig, sol *Solution) error {
	byIdx := make(map[ecat.PdoIdx]SolutionPdo, len(sol.Pdos))
	for _, p := range sol.Pdos {
		byIdx[p.Index] = p
	}
	for _, sm := range sol.Syncs {
		if err := cfg.ConfigSyncManager(ecat.SmCfg{Index: sm.Index, Direction: sm.Direction}); err != nil {
			return err
		}
		if err := cfg.ClearPdoAssignments(sm.Index); err != nil {
			return err
		}
		for _, idx := range sm.Pdos {
			if err := cfg.AddPdoAssignment(sm.Index, idx); err != nil {
				return err
			}
			p := byIdx[idx]
			if p.Fixed {
				continue
			}
			if err := cfg.ClearPdoMapping(idx); err != nil {
				return err
			}
			for pos, sdo := range p.Entries {
				err := cfg.AddPdoMapping(idx, ecat.PdoEntryInfo{
					Pos:    uint8(pos),
					Entry:  sdo,
					BitLen: r.dict[sdo].BitLen,
				})
				if err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// SolutionFor returns the committed solution of a resolved slave.
func (r *Resolver) SolutionFor(slave ecat.SlavePos) (*Solution, bool) {
	sol, ok := r.solutions[slave]
	return sol, ok
}

// FieldFor returns the typed Field of a previously required and
// resolved entry. The direction disambiguates entries exchanged both
// ways, which occupy distinct places in the image. It fails with
// ErrUnknownEntry when the entry was never required in that direction
// or the slave never resolved, and with ErrTypeMismatch when T
// disagrees with the dictionary type of the entry.
//
// FieldFor is a package-level function because Go methods cannot carry
// their own type parameters.
func FieldFor[T ecat.Value](r *Resolver, slave ecat.SlavePos, sdo ecat.Sdo, dir ecat.Direction) (ecat.Field[T], error) {
	re, ok := r.resolved[slaveEntry{slave: slave, sdo: sdo, dir: dir}]
	if !ok {
		return ecat.Field[T]{}, fmt.Errorf("%w (%s %s on slave %d)", ErrUnknownEntry, sdo, dir, slave)
	}
	if want := TypeIDOf[T](); want != re.dict.Type {
		return ecat.Field[T]{}, fmt.Errorf("%w (%s is %s, requested %s)",
			ErrTypeMismatch, sdo, re.dict.Type, want)
	}
	return ecat.NewField[T](re.off.Byte, re.off.Bit, int(re.dict.BitLen)), nil
}
