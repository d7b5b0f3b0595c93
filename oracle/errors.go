package oracle

import (
	"errors"
	"fmt"

	"github.com/sarchlab/llqverify/llq"
)

var (
	// ErrDataMismatch is raised when a popped word differs from the model.
	ErrDataMismatch = errors.New("data mismatch")

	// ErrQuiescence is raised when the device does not report empty after
	// the final drain.
	ErrQuiescence = errors.New("quiescence violation")

	// ErrPrecondition is raised when the stimulus pops a context that the
	// model holds empty. It is a bug in the oracle, not in the device.
	ErrPrecondition = errors.New("precondition violation")

	// ErrAcceptTimeout is raised when the device does not accept a command
	// within the configured number of cycles.
	ErrAcceptTimeout = errors.New("accept timeout")

	// ErrBusyTimeout is raised when the device stays busy for longer than
	// the configured number of cycles.
	ErrBusyTimeout = errors.New("busy timeout")

	// ErrLostResponse is raised when commands are still waiting for their
	// response after the final settle period.
	ErrLostResponse = errors.New("lost response")
)

// MismatchError reports a popped word that differs from the model.
type MismatchError struct {
	Cycle    uint64
	Context  llq.Context
	Expected llq.Word
	Actual   llq.Word
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("Mismatch on CTXT=%d Expected: %s Actual: %s (cycle %d)",
		e.Context, e.Expected, e.Actual, e.Cycle)
}

// Unwrap makes errors.Is(err, ErrDataMismatch) hold.
func (e *MismatchError) Unwrap() error {
	return ErrDataMismatch
}
