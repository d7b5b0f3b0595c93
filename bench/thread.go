package bench

import (
	"fmt"
	"runtime"

	"github.com/sarchlab/llqverify/llq"
)

// A Thread is a sequential piece of testbench code that waits on clock
// edges. The bench hands control to at most one thread at a time, so a
// thread can touch bench state without locking.
type Thread struct {
	name  string
	bench *Bench
	fn    func(t *Thread) error

	wake   chan struct{}
	parked chan struct{}

	waitFor    Phase
	cyclesLeft int
	started    bool
	done       bool
	err        error
}

// Name returns the name of the thread.
func (t *Thread) Name() string {
	return t.name
}

// Done tells if the thread has returned.
func (t *Thread) Done() bool {
	return t.done
}

// Err returns the error that the thread returned.
func (t *Thread) Err() error {
	return t.err
}

func (t *Thread) run() {
	defer func() {
		if r := recover(); r != nil {
			t.err = panicError(r)
		}

		t.done = true
		t.parked <- struct{}{}
	}()

	<-t.wake

	if t.bench.aborting {
		return
	}

	t.err = t.fn(t)
}

func panicError(r any) error {
	if err, ok := r.(error); ok {
		return fmt.Errorf("panic: %w", err)
	}

	return fmt.Errorf("panic: %v", r)
}

func (t *Thread) wait(phase Phase, cycles int) {
	t.waitFor = phase
	t.cyclesLeft = cycles

	t.parked <- struct{}{}
	<-t.wake

	if t.bench.aborting {
		runtime.Goexit()
	}
}

// Drive sets the command signals. The device sees the new values at the next
// sample point.
func (t *Thread) Drive(cmd llq.Command) {
	t.bench.cmd = cmd
}

// Status returns the device outputs seen at the last sample point.
func (t *Thread) Status() llq.Status {
	return t.bench.status
}

// Cycle returns the current clock cycle.
func (t *Thread) Cycle() uint64 {
	return t.bench.cycle
}

// WaitSync suspends the thread until the next sample point.
func (t *Thread) WaitSync() {
	t.wait(PhaseSample, 1)
}

// WaitPosedge suspends the thread until the next rising clock edge.
func (t *Thread) WaitPosedge() {
	t.wait(PhasePosedge, 1)
}

// WaitCycles suspends the thread for n rising clock edges.
func (t *Thread) WaitCycles(n int) {
	if n <= 0 {
		return
	}

	t.wait(PhasePosedge, n)
}
