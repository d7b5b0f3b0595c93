// Package llq defines the commonly used data structure for multi-context
// linked-list queues.
package llq

import "fmt"

// Context identifies one of the independent FIFO queues multiplexed over the
// command channel.
type Context uint32

// Word is the payload carried by a push and returned by a pop.
type Word uint32

// String renders the word in the fixed hex format used in all reports.
func (w Word) String() string {
	return fmt.Sprintf("%x", uint32(w))
}

// Command holds the signals driven by the testbench into the device.
type Command struct {
	Valid   bool
	Push    bool
	Word    Word
	Context Context
}

// Idle returns the command that the testbench drives when it has nothing to
// offer.
func Idle() Command {
	return Command{}
}

// PushCommand creates a valid push command.
func PushCommand(c Context, w Word) Command {
	return Command{Valid: true, Push: true, Context: c, Word: w}
}

// PopCommand creates a valid pop command.
func PopCommand(c Context) Command {
	return Command{Valid: true, Context: c}
}

// Status holds the signals driven by the device and sampled by the testbench.
type Status struct {
	Accept             bool
	RespValid          bool
	RespWord           Word
	RespUnderflowFault bool
	Full               bool
	Empty              bool
	Busy               bool
}

// Params describes the size of a device.
type Params struct {
	NumContexts int
	Capacity    int
}

// A Device is a multi-context queue that speaks the command/response
// protocol.
//
// A command is accepted on the sample point where both Command.Valid and
// Status.Accept are asserted. The device commits it on the following clock
// edge. Every accepted command is answered by exactly one RespValid beat, in
// acceptance order. The beat of a push carries no meaningful word.
type Device interface {
	// Params returns the size of the device.
	Params() Params

	// Reset brings the device back to its reset state. It is called on every
	// edge while reset is asserted.
	Reset()

	// Eval returns the outputs of the device for the given inputs. It does
	// not change the device state.
	Eval(in Command) Status

	// Clock advances the device by one clock edge. The inputs are the ones
	// that were presented at the last sample point.
	Clock(in Command)
}
