package sim

import (
	"time"

	"github.com/fieldio/ecat"
)

// CycleFunc runs between the receive and send halves of a cycle with
// the domain image freshly latched. Writes into data become the next
// outgoing frame.
type CycleFunc func(data []byte)

// Cycler drives an activated master at a fixed period. Each tick runs
// one full exchange: Receive, Process, the cycle function, Queue,
// Send. It works against any ecat.Master, not just the simulated one.
type Cycler struct {
	master  ecat.Master
	domain  ecat.Domain
	period  time.Duration
	fn      CycleFunc
	onError func(error) bool

	stop chan struct{}
	done chan struct{}
}

// NewCycler creates a cycler for one domain. Start it after the
// master is activated.
func NewCycler(master ecat.Master, domain ecat.Domain, period time.Duration, fn CycleFunc) *Cycler {
	return &Cycler{master: master, domain: domain, period: period, fn: fn}
}

// OnError installs a per-cycle error handler. Returning true continues
// cycling, false stops the cycler. Without a handler the cycler stops
// on the first error.
func (c *Cycler) OnError(f func(error) bool) {
	c.onError = f
}

// Start launches the background goroutine. Calling Start on a running
// cycler has no additional effect.
func (c *Cycler) Start() {
	if c.stop != nil {
		select {
		case <-c.done:
		default:
			return
		}
	}
	c.stop = make(chan struct{})
	c.done = make(chan struct{})
	go c.run()
}

// Stop signals the cycler to stop and waits for termination.
func (c *Cycler) Stop() {
	if c.stop == nil {
		return
	}
	select {
	case <-c.stop:
	default:
		close(c.stop)
	}
	<-c.done
}

func (c *Cycler) run() {
	defer close(c.done)
	ticker := time.NewTicker(c.period)
	defer ticker.Stop()
	for {
		select {
		case <-c.stop:
			return
		case <-ticker.C:
			if err := c.cycle(); err != nil {
				if c.onError == nil || !c.onError(err) {
					return
				}
			}
		}
	}
}

func (c *Cycler) cycle() error {
	if err := c.master.Receive(); err != nil {
		return err
	}
	if err := c.domain.Process(); err != nil {
		return err
	}
	c.fn(c.domain.Data())
	if err := c.domain.Queue(); err != nil {
		return err
	}
	return c.master.Send()
}
