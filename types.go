package ecat

import (
	"errors"
	"fmt"
)

// SlavePos is the absolute position of a slave on the ring.
type SlavePos uint16

// DomainIdx identifies a process-data domain on a master.
type DomainIdx int

// PdoIdx is the object index of a PDO (e.g. 0x1600 RxPDO, 0x1A00 TxPDO).
type PdoIdx uint16

// SmIdx is the index of a sync manager channel on a slave.
type SmIdx uint8

// Sentinel errors shared across the library and driver implementations.
var (
	ErrNoDevices      = errors.New("ecat: no devices available")
	ErrNoDomain       = errors.New("ecat: domain is not available")
	ErrDomainIdx      = errors.New("ecat: invalid domain index")
	ErrNotActivated   = errors.New("ecat: master is not activated")
	ErrInvalidAlState = errors.New("ecat: invalid AL state")
	ErrClosed         = errors.New("ecat: closed")
)

// Direction tells which way process data travels, seen from the master.
// Output data is written by the master and consumed by the slave, input
// data is produced by the slave.
type Direction uint8

const (
	DirInvalid Direction = iota
	DirOutput
	DirInput
)

func (d Direction) String() string {
	switch d {
	case DirOutput:
		return "output"
	case DirInput:
		return "input"
	default:
		return "invalid"
	}
}

// AlState is the application-layer state of a slave.
type AlState uint8

const (
	AlInit   AlState = 1
	AlPreOp  AlState = 2
	AlBoot   AlState = 3
	AlSafeOp AlState = 4
	AlOp     AlState = 8
)

// ParseAlState decodes a raw AL state byte as reported by the driver.
func ParseAlState(b uint8) (AlState, error) {
	switch s := AlState(b); s {
	case AlInit, AlPreOp, AlBoot, AlSafeOp, AlOp:
		return s, nil
	default:
		return 0, fmt.Errorf("%w 0x%X", ErrInvalidAlState, b)
	}
}

func (s AlState) String() string {
	switch s {
	case AlInit:
		return "INIT"
	case AlPreOp:
		return "PREOP"
	case AlBoot:
		return "BOOT"
	case AlSafeOp:
		return "SAFEOP"
	case AlOp:
		return "OP"
	default:
		return fmt.Sprintf("AlState(0x%X)", uint8(s))
	}
}

// Bit positions of the MasterState.AlStates summary bitmask. A set bit
// means at least one slave on the bus is in the corresponding state.
const (
	AlMaskInit   uint8 = 1 << 0
	AlMaskPreOp  uint8 = 1 << 1
	AlMaskSafeOp uint8 = 1 << 2
	AlMaskOp     uint8 = 1 << 3
)

// MasterState is the summarized bus state reported once per cycle.
type MasterState struct {
	// SlavesResponding is the sum of responding slaves on all links.
	SlavesResponding uint32
	// AlStates is the AlMask* bitmask of application-layer states
	// present on the bus.
	AlStates uint8
	// LinkUp is true if at least one Ethernet link is up.
	LinkUp bool
}

// AllOp reports whether every responding slave is operational.
func (s MasterState) AllOp() bool {
	return s.AlStates == AlMaskOp
}

// MasterInfo is static information about a master.
type MasterInfo struct {
	SlaveCount uint32
	LinkUp     bool
	ScanBusy   bool
	AppTime    uint64
}

// WcState classifies the working counter of a domain exchange.
type WcState uint8

const (
	WcZero WcState = iota
	WcIncomplete
	WcComplete
)

func (w WcState) String() string {
	switch w {
	case WcZero:
		return "zero"
	case WcIncomplete:
		return "incomplete"
	case WcComplete:
		return "complete"
	default:
		return fmt.Sprintf("WcState(%d)", uint8(w))
	}
}

// ClassifyWc derives the working-counter state from the counter value
// seen on the wire and the value expected for a complete exchange.
func ClassifyWc(got, expected uint32) WcState {
	switch {
	case got == 0 && expected > 0:
		return WcZero
	case got < expected:
		return WcIncomplete
	default:
		return WcComplete
	}
}

// DomainState is the per-cycle transfer health of one domain.
type DomainState struct {
	WorkingCounter   uint32
	WcState          WcState
	RedundancyActive bool
}

// Complete reports whether the last exchange reached every datagram.
func (s DomainState) Complete() bool { return s.WcState == WcComplete }

// SlaveID identifies a slave type by vendor id and product code.
type SlaveID struct {
	Vendor      uint32
	ProductCode uint32
}

// SlaveRev is the revision identification of a slave.
type SlaveRev struct {
	Revision uint32
	Serial   uint32
}

// SlaveAddr addresses a slave either by absolute ring position or by
// an offset from a configured station alias.
type SlaveAddr struct {
	Alias uint16
	Pos   uint16
}

// SlaveAddrPos addresses a slave by absolute ring position.
func SlaveAddrPos(pos SlavePos) SlaveAddr {
	return SlaveAddr{Pos: uint16(pos)}
}

// SlaveAddrAlias addresses a slave by alias and position offset.
func SlaveAddrAlias(alias, offset uint16) SlaveAddr {
	return SlaveAddr{Alias: alias, Pos: offset}
}

// SlaveInfo is the subset of slave information the mapping layer needs.
type SlaveInfo struct {
	Name      string
	RingPos   SlavePos
	ID        SlaveID
	Rev       SlaveRev
	AlState   AlState
	SyncCount uint8
	SdoCount  uint16
}

// WatchdogMode selects the sync manager watchdog behavior.
type WatchdogMode uint8

const (
	WdDefault WatchdogMode = iota
	WdEnable
	WdDisable
)

// AccessMode is the mode a master device node is opened with.
type AccessMode uint8

const (
	AccessRead AccessMode = iota
	AccessReadWrite
)
