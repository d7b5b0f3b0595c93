// Package bench provides the clocked testbench that drives a device through
// its command/response signals.
package bench

import (
	"fmt"

	"github.com/sarchlab/akita/v4/sim"
	"github.com/sarchlab/llqverify/llq"
)

// Phase is a point inside a clock cycle at which a thread can resume.
type Phase int

const (
	// PhasePosedge is right after the device has been clocked. Threads drive
	// new inputs here.
	PhasePosedge Phase = iota

	// PhaseSample is after the device outputs have settled for the current
	// inputs. Samplers run first, then threads waiting for the sample point.
	PhaseSample
)

// A Sampler observes the device outputs at every sample point. A sampler
// must not block. Returning an error stops the bench.
type Sampler interface {
	Sample(cycle uint64, status llq.Status) error
}

// SamplerFunc turns a function into a Sampler.
type SamplerFunc func(cycle uint64, status llq.Status) error

// Sample calls the function.
func (f SamplerFunc) Sample(cycle uint64, status llq.Status) error {
	return f(cycle, status)
}

// Bench owns the clock, the reset sequence and the signal wires between the
// testbench threads and the device.
type Bench struct {
	*sim.TickingComponent

	device      llq.Device
	resetCycles uint64

	cycle   uint64
	cmd     llq.Command
	sampled llq.Command
	status  llq.Status

	samplers []Sampler
	threads  []*Thread

	err      error
	aborting bool
	finished bool
}

// RegisterDevice connects the device to the bench wires.
func (b *Bench) RegisterDevice(device llq.Device) {
	b.device = device
}

// Device returns the registered device.
func (b *Bench) Device() llq.Device {
	return b.device
}

// AddSampler registers a sampler. Samplers run in registration order.
func (b *Bench) AddSampler(s Sampler) {
	b.samplers = append(b.samplers, s)
}

// Spawn creates a thread that starts on the first clock edge after reset.
func (b *Bench) Spawn(name string, fn func(t *Thread) error) *Thread {
	t := &Thread{
		name:       name,
		bench:      b,
		fn:         fn,
		wake:       make(chan struct{}),
		parked:     make(chan struct{}),
		waitFor:    PhasePosedge,
		cyclesLeft: 1,
	}

	b.threads = append(b.threads, t)

	return t
}

// Cycle returns the number of clock edges since the simulation started.
func (b *Bench) Cycle() uint64 {
	return b.cycle
}

// InReset tells if the reset signal is asserted.
func (b *Bench) InReset() bool {
	return b.cycle <= b.resetCycles
}

// Status returns the device outputs seen at the last sample point.
func (b *Bench) Status() llq.Status {
	return b.status
}

// Err returns the error that stopped the bench, if any.
func (b *Bench) Err() error {
	return b.err
}

// Fail stops the bench at the end of the current cycle. Only the first error
// is kept.
func (b *Bench) Fail(err error) {
	if b.err == nil {
		b.err = err
	}
}

// Tick advances the bench by one clock edge.
func (b *Bench) Tick() (madeProgress bool) {
	if b.finished {
		return false
	}

	if b.device == nil {
		panic("no device is registered to the bench")
	}

	b.cycle++

	if b.InReset() {
		b.device.Reset()
		b.status = b.device.Eval(b.cmd)

		return true
	}

	b.device.Clock(b.sampled)
	b.runThreads(PhasePosedge)

	b.sample()
	b.runThreads(PhaseSample)

	return b.continueRunning()
}

func (b *Bench) sample() {
	if b.err != nil {
		return
	}

	b.sampled = b.cmd
	b.status = b.device.Eval(b.cmd)

	for _, s := range b.samplers {
		err := s.Sample(b.cycle, b.status)
		if err != nil {
			b.Fail(err)
			return
		}
	}
}

func (b *Bench) runThreads(phase Phase) {
	for _, t := range b.threads {
		if b.err != nil {
			return
		}

		if t.done || t.waitFor != phase {
			continue
		}

		if t.cyclesLeft > 1 {
			t.cyclesLeft--
			continue
		}

		b.resume(t)

		if t.err != nil {
			b.Fail(fmt.Errorf("thread %s: %w", t.name, t.err))
		}
	}
}

func (b *Bench) resume(t *Thread) {
	if !t.started {
		t.started = true
		go t.run()
	}

	t.wake <- struct{}{}
	<-t.parked
}

func (b *Bench) continueRunning() bool {
	if b.err != nil {
		b.abortThreads()
		b.finished = true

		return false
	}

	for _, t := range b.threads {
		if !t.done {
			return true
		}
	}

	b.finished = true

	return false
}

func (b *Bench) abortThreads() {
	b.aborting = true

	for _, t := range b.threads {
		if t.done || !t.started {
			continue
		}

		b.resume(t)
	}
}

// Run starts the clock and runs the simulation until every thread has
// returned or an error stops the bench.
func (b *Bench) Run() error {
	b.TickNow()

	err := b.Engine.Run()
	if err != nil {
		return err
	}

	return b.err
}
