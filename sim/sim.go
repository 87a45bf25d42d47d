// Package sim is an in-memory EtherCAT master for tests, examples and
// dry runs. It implements the ecat driver seam over a simulated ring:
// slaves are declared with their static PDO and sync manager
// inventories, registration allocates offsets in a domain image, and
// the cycle operations copy registered spans between the domain image
// and a per-domain device image that tests can inspect and poke.
//
// The domain image packs registered entries in registration order;
// real masters lay the image out per FMMU, but the contract of an
// Offset (stable between activation and deactivation) is the same.
package sim

import (
	"errors"
	"fmt"
	"sync"

	"github.com/fieldio/ecat"
	"github.com/fieldio/ecat/esc"
)

var (
	// ErrActivated rejects configuration on an activated master.
	ErrActivated = errors.New("sim: master is activated, configuration is locked")
	// ErrNotReserved rejects activation without a prior Reserve.
	ErrNotReserved = errors.New("sim: master is not reserved")
)

// SlaveDesc declares one simulated slave and its static inventories.
type SlaveDesc struct {
	Name  string
	ID    ecat.SlaveID
	Pdos  []ecat.PdoInfo
	Syncs []ecat.SmInfo
}

// Master is the simulated master handle. One mutex guards the whole
// handle: the simulation favors simple invariants over cycle-time
// realism.
type Master struct {
	mu        sync.Mutex
	path      string
	slaves    []*slave
	domains   []*domain
	reserved  bool
	activated bool
	closed    bool
}

type slave struct {
	desc     SlaveDesc
	alState  ecat.AlState
	smCfgs   map[ecat.SmIdx]ecat.SmCfg
	assigns  map[ecat.SmIdx][]ecat.PdoIdx
	mappings map[ecat.PdoIdx][]ecat.PdoEntryInfo
}

type region struct {
	slave ecat.SlavePos
	dir   ecat.Direction
	off   int
	n     int
}

type domain struct {
	m        *Master
	size     int
	regions  []region
	data     []byte
	device   []byte
	received bool
	state    ecat.DomainState
}

// New creates an empty simulated master.
func New() *Master {
	return &Master{}
}

// Open creates a simulated master for the given device path. The path
// is recorded for log output only; any path opens successfully.
func Open(path string, _ ecat.AccessMode) (*Master, error) {
	m := New()
	m.path = path
	return m, nil
}

// AddSlave appends a slave to the ring and returns its position.
// Sync managers declared without a start address get the ESC channel
// register address of their index.
func (m *Master) AddSlave(desc SlaveDesc) ecat.SlavePos {
	m.mu.Lock()
	defer m.mu.Unlock()
	syncs := make([]ecat.SmInfo, len(desc.Syncs))
	copy(syncs, desc.Syncs)
	for i, sm := range syncs {
		if sm.StartAddr == 0 {
			syncs[i].StartAddr = esc.SmPhysAddr(uint8(sm.Index))
		}
	}
	desc.Syncs = syncs
	s := &slave{
		desc:     desc,
		alState:  ecat.AlPreOp,
		smCfgs:   make(map[ecat.SmIdx]ecat.SmCfg),
		assigns:  make(map[ecat.SmIdx][]ecat.PdoIdx),
		mappings: make(map[ecat.PdoIdx][]ecat.PdoEntryInfo),
	}
	m.slaves = append(m.slaves, s)
	return ecat.SlavePos(len(m.slaves) - 1)
}

// DeviceData exposes the device-side image of a domain so tests can
// fake slave inputs and observe sent outputs. Valid after Activate.
func (m *Master) DeviceData(idx ecat.DomainIdx) []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	if int(idx) < 0 || int(idx) >= len(m.domains) {
		return nil
	}
	return m.domains[idx].device
}

func (m *Master) Reserve() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ecat.ErrClosed
	}
	m.reserved = true
	return nil
}

func (m *Master) CreateDomain() (ecat.DomainIdx, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return 0, ecat.ErrClosed
	}
	if m.activated {
		return 0, ErrActivated
	}
	m.domains = append(m.domains, &domain{m: m})
	return ecat.DomainIdx(len(m.domains) - 1), nil
}

func (m *Master) Domain(idx ecat.DomainIdx) (ecat.Domain, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.domains) == 0 {
		return nil, ecat.ErrNoDomain
	}
	if int(idx) < 0 || int(idx) >= len(m.domains) {
		return nil, fmt.Errorf("%w %d", ecat.ErrDomainIdx, int(idx))
	}
	return m.domains[idx], nil
}

func (m *Master) ConfigureSlave(addr ecat.SlaveAddr, id ecat.SlaveID) (ecat.SlaveConfig, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.activated {
		return nil, ErrActivated
	}
	if addr.Alias != 0 {
		return nil, fmt.Errorf("sim: alias addressing is not supported")
	}
	s, err := m.slaveAt(ecat.SlavePos(addr.Pos))
	if err != nil {
		return nil, err
	}
	if s.desc.ID != id {
		return nil, fmt.Errorf("sim: slave %d identity mismatch (have %08X:%08X, want %08X:%08X)",
			addr.Pos, s.desc.ID.Vendor, s.desc.ID.ProductCode, id.Vendor, id.ProductCode)
	}
	return &slaveConfig{m: m, pos: ecat.SlavePos(addr.Pos), s: s}, nil
}

func (m *Master) slaveAt(pos ecat.SlavePos) (*slave, error) {
	if len(m.slaves) == 0 {
		return nil, ecat.ErrNoDevices
	}
	if int(pos) >= len(m.slaves) {
		return nil, fmt.Errorf("sim: no slave at ring position %d", pos)
	}
	return m.slaves[pos], nil
}

func (m *Master) SlaveInfo(pos ecat.SlavePos) (ecat.SlaveInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, err := m.slaveAt(pos)
	if err != nil {
		return ecat.SlaveInfo{}, err
	}
	return ecat.SlaveInfo{
		Name:      s.desc.Name,
		RingPos:   pos,
		ID:        s.desc.ID,
		AlState:   s.alState,
		SyncCount: uint8(len(s.desc.Syncs)),
		SdoCount:  uint16(len(s.desc.Pdos)),
	}, nil
}

func (m *Master) RequestState(pos ecat.SlavePos, state ecat.AlState) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, err := ecat.ParseAlState(uint8(state)); err != nil {
		return err
	}
	s, err := m.slaveAt(pos)
	if err != nil {
		return err
	}
	// The simulated ring transitions instantly.
	s.alState = state
	return nil
}

func (m *Master) State() (ecat.MasterState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ecat.MasterState{}, ecat.ErrClosed
	}
	var mask uint8
	for _, s := range m.slaves {
		switch s.alState {
		case ecat.AlInit, ecat.AlBoot:
			mask |= ecat.AlMaskInit
		case ecat.AlPreOp:
			mask |= ecat.AlMaskPreOp
		case ecat.AlSafeOp:
			mask |= ecat.AlMaskSafeOp
		case ecat.AlOp:
			mask |= ecat.AlMaskOp
		}
	}
	return ecat.MasterState{
		SlavesResponding: uint32(len(m.slaves)),
		AlStates:         mask,
		LinkUp:           !m.closed,
	}, nil
}

func (m *Master) Activate() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ecat.ErrClosed
	}
	if !m.reserved {
		return ErrNotReserved
	}
	if m.activated {
		return nil
	}
	for _, d := range m.domains {
		d.data = make([]byte, d.size)
		d.device = make([]byte, d.size)
		d.received = false
		d.state = ecat.DomainState{WcState: ecat.WcZero}
	}
	m.activated = true
	return nil
}

func (m *Master) Deactivate() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.activated {
		return nil
	}
	m.activated = false
	for _, d := range m.domains {
		d.data = nil
		d.device = nil
		d.received = false
		d.state = ecat.DomainState{WcState: ecat.WcZero}
	}
	return nil
}

// Receive latches slave inputs: every input region is copied from the
// device image into the domain image.
func (m *Master) Receive() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ecat.ErrClosed
	}
	if !m.activated {
		return ecat.ErrNotActivated
	}
	for _, d := range m.domains {
		for _, r := range d.regions {
			if r.dir == ecat.DirInput {
				copy(d.data[r.off:r.off+r.n], d.device[r.off:r.off+r.n])
			}
		}
		d.received = true
	}
	return nil
}

// Send latches master outputs: every output region is copied from the
// domain image into the device image.
func (m *Master) Send() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ecat.ErrClosed
	}
	if !m.activated {
		return ecat.ErrNotActivated
	}
	for _, d := range m.domains {
		for _, r := range d.regions {
			if r.dir == ecat.DirOutput {
				copy(d.device[r.off:r.off+r.n], d.data[r.off:r.off+r.n])
			}
		}
	}
	return nil
}

func (m *Master) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	m.activated = false
	return nil
}

// domain implements ecat.Domain.

func (d *domain) Data() []byte {
	d.m.mu.Lock()
	defer d.m.mu.Unlock()
	return d.data
}

func (d *domain) Process() error {
	d.m.mu.Lock()
	defer d.m.mu.Unlock()
	if !d.m.activated {
		return ecat.ErrNotActivated
	}
	expected := uint32(len(d.regions))
	if !d.received {
		d.state = ecat.DomainState{WorkingCounter: 0, WcState: ecat.ClassifyWc(0, expected)}
		return nil
	}
	d.state = ecat.DomainState{
		WorkingCounter: expected,
		WcState:        ecat.ClassifyWc(expected, expected),
	}
	return nil
}

func (d *domain) Queue() error {
	d.m.mu.Lock()
	defer d.m.mu.Unlock()
	if !d.m.activated {
		return ecat.ErrNotActivated
	}
	return nil
}

func (d *domain) State() ecat.DomainState {
	d.m.mu.Lock()
	defer d.m.mu.Unlock()
	return d.state
}

// slaveConfig implements ecat.SlaveConfig against the simulated ring.
type slaveConfig struct {
	m   *Master
	pos ecat.SlavePos
	s   *slave
}

func (c *slaveConfig) locked(f func() error) error {
	c.m.mu.Lock()
	defer c.m.mu.Unlock()
	if c.m.activated {
		return ErrActivated
	}
	return f()
}

func (c *slaveConfig) Pdos() ([]ecat.PdoInfo, error) {
	c.m.mu.Lock()
	defer c.m.mu.Unlock()
	out := make([]ecat.PdoInfo, len(c.s.desc.Pdos))
	copy(out, c.s.desc.Pdos)
	return out, nil
}

func (c *slaveConfig) Syncs() ([]ecat.SmInfo, error) {
	c.m.mu.Lock()
	defer c.m.mu.Unlock()
	out := make([]ecat.SmInfo, len(c.s.desc.Syncs))
	copy(out, c.s.desc.Syncs)
	return out, nil
}

func (c *slaveConfig) smInfo(idx ecat.SmIdx) (ecat.SmInfo, error) {
	for _, sm := range c.s.desc.Syncs {
		if sm.Index == idx {
			return sm, nil
		}
	}
	return ecat.SmInfo{}, fmt.Errorf("sim: slave %d has no sync manager %d", c.pos, idx)
}

func (c *slaveConfig) pdoInfo(idx ecat.PdoIdx) (ecat.PdoInfo, error) {
	for _, p := range c.s.desc.Pdos {
		if p.Index == idx {
			return p, nil
		}
	}
	return ecat.PdoInfo{}, fmt.Errorf("sim: slave %d has no pdo %04X", c.pos, uint16(idx))
}

func (c *slaveConfig) ConfigSyncManager(cfg ecat.SmCfg) error {
	return c.locked(func() error {
		sm, err := c.smInfo(cfg.Index)
		if err != nil {
			return err
		}
		if cfg.Direction != sm.Direction {
			return fmt.Errorf("sim: sync manager %d on slave %d is %s, configured %s",
				cfg.Index, c.pos, sm.Direction, cfg.Direction)
		}
		c.s.smCfgs[cfg.Index] = cfg
		return nil
	})
}

func (c *slaveConfig) ClearPdoAssignments(sm ecat.SmIdx) error {
	return c.locked(func() error {
		if _, err := c.smInfo(sm); err != nil {
			return err
		}
		c.s.assigns[sm] = nil
		return nil
	})
}

func (c *slaveConfig) AddPdoAssignment(sm ecat.SmIdx, pdo ecat.PdoIdx) error {
	return c.locked(func() error {
		info, err := c.smInfo(sm)
		if err != nil {
			return err
		}
		if _, err := c.pdoInfo(pdo); err != nil {
			return err
		}
		if len(c.s.assigns[sm]) >= info.Capacity {
			return fmt.Errorf("sim: sync manager %d on slave %d is full (capacity %d)", sm, c.pos, info.Capacity)
		}
		c.s.assigns[sm] = append(c.s.assigns[sm], pdo)
		return nil
	})
}

func (c *slaveConfig) ClearPdoMapping(pdo ecat.PdoIdx) error {
	return c.locked(func() error {
		info, err := c.pdoInfo(pdo)
		if err != nil {
			return err
		}
		if info.Fixed {
			return fmt.Errorf("sim: pdo %04X on slave %d has a fixed mapping", uint16(pdo), c.pos)
		}
		c.s.mappings[pdo] = nil
		return nil
	})
}

func (c *slaveConfig) AddPdoMapping(pdo ecat.PdoIdx, entry ecat.PdoEntryInfo) error {
	return c.locked(func() error {
		info, err := c.pdoInfo(pdo)
		if err != nil {
			return err
		}
		if info.Fixed {
			return fmt.Errorf("sim: pdo %04X on slave %d has a fixed mapping", uint16(pdo), c.pos)
		}
		if len(c.s.mappings[pdo]) >= info.Capacity {
			return fmt.Errorf("sim: pdo %04X on slave %d is full (capacity %d)", uint16(pdo), c.pos, info.Capacity)
		}
		if int(entry.Pos) != len(c.s.mappings[pdo]) {
			return fmt.Errorf("sim: pdo %04X on slave %d: mapping position %d out of order", uint16(pdo), c.pos, entry.Pos)
		}
		c.s.mappings[pdo] = append(c.s.mappings[pdo], entry)
		return nil
	})
}

// entryAt resolves the entry mapped at (pdo, pos) and its bit length,
// either from a fixed PDO's inventory or from the written mapping.
func (c *slaveConfig) entryAt(pdo ecat.PdoIdx, pos int) (ecat.PdoEntry, error) {
	info, err := c.pdoInfo(pdo)
	if err != nil {
		return ecat.PdoEntry{}, err
	}
	if info.Fixed {
		if pos < 0 || pos >= len(info.Entries) {
			return ecat.PdoEntry{}, fmt.Errorf("sim: pdo %04X has no position %d", uint16(pdo), pos)
		}
		return info.Entries[pos], nil
	}
	mapped := c.s.mappings[pdo]
	if pos < 0 || pos >= len(mapped) {
		return ecat.PdoEntry{}, fmt.Errorf("sim: pdo %04X has no position %d", uint16(pdo), pos)
	}
	return ecat.PdoEntry{Sdo: mapped[pos].Entry, BitLen: mapped[pos].BitLen}, nil
}

func (c *slaveConfig) assignedDir(pdo ecat.PdoIdx) (ecat.Direction, error) {
	for sm, pdos := range c.s.assigns {
		for _, p := range pdos {
			if p == pdo {
				info, err := c.smInfo(sm)
				if err != nil {
					return ecat.DirInvalid, err
				}
				return info.Direction, nil
			}
		}
	}
	return ecat.DirInvalid, fmt.Errorf("sim: pdo %04X on slave %d is not assigned to a sync manager", uint16(pdo), c.pos)
}

func (c *slaveConfig) RegisterPdoEntry(entry ecat.Sdo, pdo ecat.PdoIdx, pos int, idx ecat.DomainIdx) (ecat.Offset, error) {
	var off ecat.Offset
	err := c.locked(func() error {
		if int(idx) < 0 || int(idx) >= len(c.m.domains) {
			return fmt.Errorf("%w %d", ecat.ErrDomainIdx, int(idx))
		}
		mapped, err := c.entryAt(pdo, pos)
		if err != nil {
			return err
		}
		if mapped.Sdo != entry {
			return fmt.Errorf("sim: pdo %04X position %d maps %s, not %s", uint16(pdo), pos, mapped.Sdo, entry)
		}
		dir, err := c.assignedDir(pdo)
		if err != nil {
			return err
		}
		if mapped.BitLen == 0 || mapped.BitLen%8 != 0 {
			return fmt.Errorf("sim: entry %s has unsupported bit length %d", entry, mapped.BitLen)
		}
		d := c.m.domains[idx]
		n := int(mapped.BitLen) / 8
		off = ecat.Offset{Byte: d.size}
		d.regions = append(d.regions, region{slave: c.pos, dir: dir, off: d.size, n: n})
		d.size += n
		return nil
	})
	return off, err
}
