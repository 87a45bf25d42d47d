package ecat

import (
	"context"
	"log/slog"
)

// LogOption is a bitmask for selecting which operations to log.
type LogOption uint8

const (
	LogNone   LogOption = 0
	LogCycle  LogOption = 1 << iota // Receive/Send/Process/Queue
	LogConfig                       // slave configuration and registration
	LogState                        // master and domain state queries
	LogAll    = LogCycle | LogConfig | LogState
)

// NewLoggedMaster wraps the given Master and logs selected operations
// at the given level using a slog.Logger. Errors are always logged at
// slog.LevelError. Close is forwarded without logging.
func NewLoggedMaster(inner Master, logger *slog.Logger, level slog.Level, opts LogOption) Master {
	return &loggedMaster{inner: inner, logger: logger, level: level, opts: opts}
}

type loggedMaster struct {
	inner  Master
	logger *slog.Logger
	level  slog.Level
	opts   LogOption
}

func (l *loggedMaster) log(msg string, args ...any) {
	l.logger.Log(context.Background(), l.level, msg, args...)
}

func (l *loggedMaster) fail(msg string, err error, args ...any) {
	l.logger.Log(context.Background(), slog.LevelError, msg, append(args, "error", err)...)
}

func (l *loggedMaster) Reserve() error {
	err := l.inner.Reserve()
	if l.opts&LogConfig != 0 {
		if err != nil {
			l.fail("ecat reserve error", err)
		} else {
			l.log("ecat reserve")
		}
	}
	return err
}

func (l *loggedMaster) CreateDomain() (DomainIdx, error) {
	idx, err := l.inner.CreateDomain()
	if l.opts&LogConfig != 0 {
		if err != nil {
			l.fail("ecat create domain error", err)
		} else {
			l.log("ecat create domain", "domain", int(idx))
		}
	}
	return idx, err
}

func (l *loggedMaster) Domain(idx DomainIdx) (Domain, error) {
	d, err := l.inner.Domain(idx)
	if err != nil {
		if l.opts&LogState != 0 {
			l.fail("ecat domain lookup error", err, "domain", int(idx))
		}
		return nil, err
	}
	return &loggedDomain{inner: d, m: l, idx: idx}, nil
}

func (l *loggedMaster) ConfigureSlave(addr SlaveAddr, id SlaveID) (SlaveConfig, error) {
	cfg, err := l.inner.ConfigureSlave(addr, id)
	if l.opts&LogConfig != 0 {
		if err != nil {
			l.fail("ecat configure slave error", err, "alias", addr.Alias, "pos", addr.Pos)
		} else {
			l.log("ecat configure slave",
				"alias", addr.Alias,
				"pos", addr.Pos,
				"vendor", id.Vendor,
				"product", id.ProductCode,
			)
		}
	}
	if err != nil {
		return nil, err
	}
	return &loggedConfig{inner: cfg, m: l, addr: addr}, nil
}

func (l *loggedMaster) SlaveInfo(pos SlavePos) (SlaveInfo, error) {
	info, err := l.inner.SlaveInfo(pos)
	if l.opts&LogState != 0 {
		if err != nil {
			l.fail("ecat slave info error", err, "pos", uint16(pos))
		} else {
			l.log("ecat slave info",
				"pos", uint16(pos),
				"name", info.Name,
				"al_state", info.AlState.String(),
			)
		}
	}
	return info, err
}

func (l *loggedMaster) RequestState(pos SlavePos, state AlState) error {
	err := l.inner.RequestState(pos, state)
	if l.opts&LogConfig != 0 {
		if err != nil {
			l.fail("ecat request state error", err, "pos", uint16(pos), "state", state.String())
		} else {
			l.log("ecat request state", "pos", uint16(pos), "state", state.String())
		}
	}
	return err
}

func (l *loggedMaster) State() (MasterState, error) {
	st, err := l.inner.State()
	if l.opts&LogState != 0 {
		if err != nil {
			l.fail("ecat master state error", err)
		} else {
			l.log("ecat master state",
				"responding", st.SlavesResponding,
				"al_states", st.AlStates,
				"link_up", st.LinkUp,
			)
		}
	}
	return st, err
}

func (l *loggedMaster) Activate() error {
	err := l.inner.Activate()
	if l.opts&LogConfig != 0 {
		if err != nil {
			l.fail("ecat activate error", err)
		} else {
			l.log("ecat activate")
		}
	}
	return err
}

func (l *loggedMaster) Deactivate() error {
	err := l.inner.Deactivate()
	if l.opts&LogConfig != 0 {
		if err != nil {
			l.fail("ecat deactivate error", err)
		} else {
			l.log("ecat deactivate")
		}
	}
	return err
}

func (l *loggedMaster) Receive() error {
	err := l.inner.Receive()
	if l.opts&LogCycle != 0 {
		if err != nil {
			l.fail("ecat receive error", err)
		} else {
			l.log("ecat receive")
		}
	}
	return err
}

func (l *loggedMaster) Send() error {
	err := l.inner.Send()
	if l.opts&LogCycle != 0 {
		if err != nil {
			l.fail("ecat send error", err)
		} else {
			l.log("ecat send")
		}
	}
	return err
}

func (l *loggedMaster) Close() error {
	return l.inner.Close()
}

type loggedDomain struct {
	inner Domain
	m     *loggedMaster
	idx   DomainIdx
}

func (d *loggedDomain) Data() []byte { return d.inner.Data() }

func (d *loggedDomain) Process() error {
	err := d.inner.Process()
	if d.m.opts&LogCycle != 0 {
		if err != nil {
			d.m.fail("ecat domain process error", err, "domain", int(d.idx))
		} else {
			st := d.inner.State()
			d.m.log("ecat domain process",
				"domain", int(d.idx),
				"wc", st.WorkingCounter,
				"wc_state", st.WcState.String(),
			)
		}
	}
	return err
}

func (d *loggedDomain) Queue() error {
	err := d.inner.Queue()
	if d.m.opts&LogCycle != 0 && err != nil {
		d.m.fail("ecat domain queue error", err, "domain", int(d.idx))
	}
	return err
}

func (d *loggedDomain) State() DomainState { return d.inner.State() }

type loggedConfig struct {
	inner SlaveConfig
	m     *loggedMaster
	addr  SlaveAddr
}

func (c *loggedConfig) Pdos() ([]PdoInfo, error) { return c.inner.Pdos() }
func (c *loggedConfig) Syncs() ([]SmInfo, error) { return c.inner.Syncs() }

func (c *loggedConfig) ConfigSyncManager(cfg SmCfg) error {
	err := c.inner.ConfigSyncManager(cfg)
	if c.m.opts&LogConfig != 0 {
		if err != nil {
			c.m.fail("ecat config sync manager error", err, "pos", c.addr.Pos, "sm", uint8(cfg.Index))
		} else {
			c.m.log("ecat config sync manager",
				"pos", c.addr.Pos,
				"sm", uint8(cfg.Index),
				"dir", cfg.Direction.String(),
			)
		}
	}
	return err
}

func (c *loggedConfig) ClearPdoAssignments(sm SmIdx) error {
	err := c.inner.ClearPdoAssignments(sm)
	if c.m.opts&LogConfig != 0 && err != nil {
		c.m.fail("ecat clear pdo assignments error", err, "pos", c.addr.Pos, "sm", uint8(sm))
	}
	return err
}

func (c *loggedConfig) AddPdoAssignment(sm SmIdx, pdo PdoIdx) error {
	err := c.inner.AddPdoAssignment(sm, pdo)
	if c.m.opts&LogConfig != 0 {
		if err != nil {
			c.m.fail("ecat add pdo assignment error", err, "pos", c.addr.Pos, "sm", uint8(sm), "pdo", uint16(pdo))
		} else {
			c.m.log("ecat add pdo assignment", "pos", c.addr.Pos, "sm", uint8(sm), "pdo", uint16(pdo))
		}
	}
	return err
}

func (c *loggedConfig) ClearPdoMapping(pdo PdoIdx) error {
	err := c.inner.ClearPdoMapping(pdo)
	if c.m.opts&LogConfig != 0 && err != nil {
		c.m.fail("ecat clear pdo mapping error", err, "pos", c.addr.Pos, "pdo", uint16(pdo))
	}
	return err
}

func (c *loggedConfig) AddPdoMapping(pdo PdoIdx, entry PdoEntryInfo) error {
	err := c.inner.AddPdoMapping(pdo, entry)
	if c.m.opts&LogConfig != 0 {
		if err != nil {
			c.m.fail("ecat add pdo mapping error", err, "pos", c.addr.Pos, "pdo", uint16(pdo), "entry", entry.Entry.String())
		} else {
			c.m.log("ecat add pdo mapping",
				"pos", c.addr.Pos,
				"pdo", uint16(pdo),
				"entry", entry.Entry.String(),
				"bitlen", entry.BitLen,
			)
		}
	}
	return err
}

func (c *loggedConfig) RegisterPdoEntry(entry Sdo, pdo PdoIdx, pos int, domain DomainIdx) (Offset, error) {
	off, err := c.inner.RegisterPdoEntry(entry, pdo, pos, domain)
	if c.m.opts&LogConfig != 0 {
		if err != nil {
			c.m.fail("ecat register pdo entry error", err, "pos", c.addr.Pos, "entry", entry.String())
		} else {
			c.m.log("ecat register pdo entry",
				"pos", c.addr.Pos,
				"entry", entry.String(),
				"pdo", uint16(pdo),
				"byte", off.Byte,
				"bit", off.Bit,
			)
		}
	}
	return off, err
}
