package ecat

// Master is the handle to an EtherCAT master device. The realtime
// implementation lives in the kernel behind a device node; package sim
// provides an in-memory one. A handle is explicit state: nothing in
// this library keeps a process-wide device table.
//
// Implementations need not be safe for concurrent use; the
// configuration phase is single-shot and the cyclic phase is driven by
// one caller per cycle.
type Master interface {
	// Reserve takes exclusive control of the master for realtime
	// operation.
	Reserve() error

	// CreateDomain allocates a new process-data domain.
	CreateDomain() (DomainIdx, error)

	// Domain returns the handle of a previously created domain.
	// It fails with ErrNoDomain when none exists and wraps
	// ErrDomainIdx for an out-of-range index.
	Domain(idx DomainIdx) (Domain, error)

	// ConfigureSlave obtains the configuration handle of a slave,
	// verifying its identity.
	ConfigureSlave(addr SlaveAddr, id SlaveID) (SlaveConfig, error)

	// SlaveInfo describes the slave at the given ring position.
	SlaveInfo(pos SlavePos) (SlaveInfo, error)

	// RequestState asks a slave to transition to the given
	// application-layer state.
	RequestState(pos SlavePos, state AlState) error

	// State reports the summarized bus state.
	State() (MasterState, error)

	// Activate finishes configuration and starts the realtime
	// exchange. No slave may be reconfigured afterwards.
	Activate() error

	// Deactivate stops the realtime exchange. Every Field obtained
	// for this master becomes invalid.
	Deactivate() error

	// Receive fetches received frames and processes the datagram
	// queue. First step of the cycle boundary.
	Receive() error

	// Send queues all domain datagrams and sends pending frames.
	// Last step of the cycle boundary.
	Send() error

	// Close releases the handle.
	Close() error
}

// SlaveConfig configures the process-data layout of one slave before
// activation. The mapping resolver is its main consumer.
type SlaveConfig interface {
	// Pdos enumerates the PDO inventory of the slave in device
	// order. The inventory is static input: PDOs do not appear or
	// change while mapping runs.
	Pdos() ([]PdoInfo, error)

	// Syncs enumerates the sync manager inventory in device order.
	Syncs() ([]SmInfo, error)

	// ConfigSyncManager sets direction and watchdog of a channel.
	ConfigSyncManager(cfg SmCfg) error

	// ClearPdoAssignments empties the PDO assignment of a channel.
	ClearPdoAssignments(sm SmIdx) error

	// AddPdoAssignment appends a PDO to a channel's assignment.
	AddPdoAssignment(sm SmIdx, pdo PdoIdx) error

	// ClearPdoMapping empties the entry mapping of a configurable
	// PDO. Fixed PDOs reject this.
	ClearPdoMapping(pdo PdoIdx) error

	// AddPdoMapping appends one entry to a configurable PDO.
	AddPdoMapping(pdo PdoIdx, entry PdoEntryInfo) error

	// RegisterPdoEntry registers the placement of one mapped entry
	// for cyclic exchange in a domain and returns its concrete
	// offset inside the domain image.
	RegisterPdoEntry(entry Sdo, pdo PdoIdx, pos int, domain DomainIdx) (Offset, error)
}

// Domain is one cyclic process-data image. The cycle boundary is
// Master.Receive, Domain.Process, application field access,
// Domain.Queue, Master.Send.
type Domain interface {
	// Data returns the backing image. The slice stays valid between
	// activation and deactivation; its layout is fixed.
	Data() []byte

	// Process evaluates the datagrams received for this domain.
	Process() error

	// Queue re-queues the domain datagrams for the next send.
	Queue() error

	// State reports the transfer health of the last exchange.
	State() DomainState
}

// PdoEntry is one mapped object with its bit width, as advertised by a
// fixed PDO or written into a configurable one.
type PdoEntry struct {
	Sdo    Sdo
	BitLen uint16
}

// PdoInfo describes one PDO of a slave's inventory.
type PdoInfo struct {
	Index     PdoIdx
	Direction Direction
	// Fixed PDOs carry an immutable entry sequence; the resolver can
	// use them as-is or not at all.
	Fixed bool
	// Entries is the mapped sequence of a fixed PDO; empty for a
	// configurable one.
	Entries []PdoEntry
	// Capacity is the number of entries a configurable PDO can hold.
	Capacity int
}

// SmInfo describes one sync manager channel of a slave's inventory.
type SmInfo struct {
	Index     SmIdx
	Direction Direction
	StartAddr uint16
	// Capacity is the number of PDOs assignable to the channel.
	Capacity int
}

// SmCfg is the channel configuration written during resolution.
type SmCfg struct {
	Index     SmIdx
	Direction Direction
	Watchdog  WatchdogMode
}

// SmInput configures a channel for slave-to-master data.
func SmInput(idx SmIdx) SmCfg {
	return SmCfg{Index: idx, Direction: DirInput}
}

// SmOutput configures a channel for master-to-slave data.
func SmOutput(idx SmIdx) SmCfg {
	return SmCfg{Index: idx, Direction: DirOutput}
}

// PdoEntryInfo is one entry written into a configurable PDO mapping.
type PdoEntryInfo struct {
	Pos    uint8
	Entry  Sdo
	BitLen uint16
	Name   string
}
