package oracle

import (
	"log/slog"

	"github.com/sarchlab/llqverify/llq"
)

// Checker compares every response beat against the oldest pending
// expectation.
type Checker struct {
	expectations *ExpectationQueue
	stats        *Stats
	hooks        hookInvoker
}

// NewChecker creates a checker that consumes the given queue.
func NewChecker(expectations *ExpectationQueue) *Checker {
	return &Checker{
		expectations: expectations,
		stats:        &Stats{},
	}
}

// Check runs once per sample point and never blocks. A response without a
// pending expectation is logged and counted but does not stop the run. A
// popped word that differs from the model returns a *MismatchError.
func (c *Checker) Check(cycle uint64, s llq.Status) error {
	if !s.RespValid {
		return nil
	}

	if s.RespUnderflowFault {
		c.stats.UnderflowFaults++
		slog.Warn("Device reports pop on empty context", "cycle", cycle)
	}

	e, ok := c.expectations.Pop()
	if !ok {
		c.stats.Anomalies++
		slog.Warn("Unexpected response",
			"cycle", cycle, "actual", s.RespWord)
		invoke(c.hooks, HookPosUnexpectedResponse, Transaction{
			Cycle:  cycle,
			Kind:   TransactionUnexpected,
			Actual: s.RespWord,
		})

		return nil
	}

	c.stats.Responses++

	txn := Transaction{
		Cycle:    cycle,
		Kind:     TransactionResponse,
		WasPush:  e.WasPush,
		Context:  e.Context,
		Expected: e.Word,
		Actual:   s.RespWord,
		Match:    true,
	}

	if e.WasPush {
		invoke(c.hooks, HookPosResponseChecked, txn)
		return nil
	}

	if s.RespWord != e.Word {
		c.stats.Mismatches++
		txn.Match = false
		invoke(c.hooks, HookPosResponseChecked, txn)

		err := &MismatchError{
			Cycle:    cycle,
			Context:  e.Context,
			Expected: e.Word,
			Actual:   s.RespWord,
		}
		slog.Error(err.Error())

		return err
	}

	c.stats.Matches++
	Trace("Match", "ctxt", e.Context, "expected", e.Word, "cycle", cycle)
	invoke(c.hooks, HookPosResponseChecked, txn)

	return nil
}
