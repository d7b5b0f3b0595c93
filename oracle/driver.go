package oracle

import (
	"fmt"
	"log/slog"

	"github.com/sarchlab/llqverify/llq"
)

// Driver generates the test sequence.
type Driver struct {
	cfg          Config
	model        *Model
	expectations *ExpectationQueue
	issuer       *Issuer
	rng          *Random
	payload      func() llq.Word
	stats        *Stats
	progress     Progress
}

// Run executes the whole sequence: wait for the device to leave the busy
// state, generate the random steady-state traffic, then drain every context
// and check that the device reports empty.
func (d *Driver) Run(p Port) error {
	err := d.waitNotBusy(p)
	if err != nil {
		return err
	}

	slog.Info("Stimulus starts...",
		"seed", d.cfg.Seed, "iterations", d.cfg.Iterations)

	err = d.waitNotBusy(p)
	if err != nil {
		return err
	}

	err = d.generate(p)
	if err != nil {
		return err
	}

	err = d.drain(p)
	if err != nil {
		return err
	}

	slog.Info("Stimulus ends.", "cycle", p.Cycle())

	return nil
}

func (d *Driver) generate(p Port) error {
	occupancy := 0

	for i := 0; i < d.cfg.Iterations; i++ {
		c := llq.Context(d.rng.IntN(d.cfg.NumContexts))
		w := d.payload()

		// The device behaviour is undefined on a push while it is full, so
		// everything is drained once the aggregate occupancy passes the
		// threshold.
		if occupancy > d.cfg.FlushThreshold {
			err := d.Flush(p)
			if err != nil {
				return err
			}

			occupancy = 0
		}

		isPush := d.choosePush(c)
		if isPush {
			occupancy++
		} else {
			occupancy--
		}

		err := d.issuer.Issue(p, c, isPush, w)
		if err != nil {
			return err
		}

		d.stats.Iterations++
		if d.progress != nil {
			d.progress.IncrementFinished(1)
		}
	}

	return nil
}

func (d *Driver) choosePush(c llq.Context) bool {
	if d.model.Size(c) == 0 {
		return true
	}

	return d.rng.IntN(100) < d.cfg.PushPercent
}

// Flush pops every word held by the model, context by context. On an empty
// model it issues no command.
func (d *Driver) Flush(p Port) error {
	if d.model.Empty() {
		return nil
	}

	d.stats.Flushes++
	Trace("Flush", "occupancy", d.model.Total(), "cycle", p.Cycle())

	for c := 0; c < d.model.NumContexts(); c++ {
		ctxt := llq.Context(c)

		for n := d.model.Size(ctxt); n > 0; n-- {
			err := d.issuer.Issue(p, ctxt, false, 0)
			if err != nil {
				return err
			}
		}
	}

	return nil
}

func (d *Driver) drain(p Port) error {
	err := d.waitNotBusy(p)
	if err != nil {
		return err
	}

	err = d.Flush(p)
	if err != nil {
		return err
	}

	p.WaitCycles(d.cfg.SettleCycles)
	p.WaitSync()

	if !p.Status().Empty {
		return fmt.Errorf("%w: device does not report empty on end of sequence (cycle %d)",
			ErrQuiescence, p.Cycle())
	}

	if n := d.expectations.Len(); n > 0 {
		e, _ := d.expectations.Peek()
		return fmt.Errorf("%w: %d commands without response, oldest on CTXT=%d (cycle %d)",
			ErrLostResponse, n, e.Context, p.Cycle())
	}

	return nil
}

func (d *Driver) waitNotBusy(p Port) error {
	for waited := 1; ; waited++ {
		p.WaitSync()

		if !p.Status().Busy {
			break
		}

		if d.cfg.BusyTimeout > 0 && waited >= d.cfg.BusyTimeout {
			return fmt.Errorf("%w: device busy for %d cycles", ErrBusyTimeout, waited)
		}
	}

	p.WaitPosedge()

	return nil
}
