// Package oracle predicts and checks the behaviour of a multi-context queue.
//
// A Driver generates random push and pop commands and hands them to an
// Issuer, which performs the handshake and records what the device should
// answer in a Model and an ExpectationQueue. A Checker consumes one
// expectation per response beat and compares the popped words. Commands and
// responses are correlated only through the FIFO order of the
// ExpectationQueue, so the device must answer in acceptance order.
package oracle

import "github.com/sarchlab/llqverify/llq"

// A Port is the signal-level view of the device that the issuer and the
// driver work on. A bench.Thread is a Port.
type Port interface {
	// Drive sets the command signals.
	Drive(cmd llq.Command)

	// Status returns the device outputs at the last sample point.
	Status() llq.Status

	// Cycle returns the current clock cycle.
	Cycle() uint64

	// WaitSync blocks until the next sample point.
	WaitSync()

	// WaitPosedge blocks until the next rising edge.
	WaitPosedge()

	// WaitCycles blocks for n rising edges.
	WaitCycles(n int)
}

// Progress receives the number of finished stimulus iterations. An akita
// monitoring.ProgressBar is a Progress.
type Progress interface {
	IncrementFinished(amount uint64)
}
