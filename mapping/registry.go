package mapping

import (
	"fmt"

	"github.com/fieldio/ecat"
)

// Registry records which SDO entries must be reachable cyclically, per
// slave and direction, independent of how they will be packed. It does
// no device I/O and no locking; requirements are declared sequentially
// before resolution.
type Registry struct {
	slaves map[ecat.SlavePos]*slaveReqs
	order  []ecat.SlavePos
}

type slaveReqs struct {
	inputs  []ecat.Sdo
	outputs []ecat.Sdo
	seen    map[reqKey]struct{}
}

type reqKey struct {
	sdo ecat.Sdo
	dir ecat.Direction
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{slaves: make(map[ecat.SlavePos]*slaveReqs)}
}

// Require records that the given entry is needed on the slave in the
// given direction. Repeated identical calls are idempotent; insertion
// order is preserved so resolution stays deterministic. A direction
// other than input or output is rejected, never defaulted.
func (r *Registry) Require(slave ecat.SlavePos, sdo ecat.Sdo, dir ecat.Direction) error {
	if dir != ecat.DirInput && dir != ecat.DirOutput {
		return fmt.Errorf("%w (entry %s on slave %d)", ErrInvalidDirection, sdo, slave)
	}
	if err := sdo.Validate(); err != nil {
		return err
	}
	sr := r.slaves[slave]
	if sr == nil {
		sr = &slaveReqs{seen: make(map[reqKey]struct{})}
		r.slaves[slave] = sr
		r.order = append(r.order, slave)
	}
	key := reqKey{sdo: sdo, dir: dir}
	if _, ok := sr.seen[key]; ok {
		return nil
	}
	sr.seen[key] = struct{}{}
	if dir == ecat.DirInput {
		sr.inputs = append(sr.inputs, sdo)
	} else {
		sr.outputs = append(sr.outputs, sdo)
	}
	return nil
}

// Requirements returns the outstanding entries of a slave for one
// direction, in declaration order. The returned slice is a copy.
func (r *Registry) Requirements(slave ecat.SlavePos, dir ecat.Direction) []ecat.Sdo {
	sr := r.slaves[slave]
	if sr == nil {
		return nil
	}
	var src []ecat.Sdo
	switch dir {
	case ecat.DirInput:
		src = sr.inputs
	case ecat.DirOutput:
		src = sr.outputs
	default:
		return nil
	}
	out := make([]ecat.Sdo, len(src))
	copy(out, src)
	return out
}

// Slaves lists the slaves with at least one requirement, in first-seen
// order.
func (r *Registry) Slaves() []ecat.SlavePos {
	out := make([]ecat.SlavePos, len(r.order))
	copy(out, r.order)
	return out
}
