package oracle

import (
	"fmt"

	"github.com/sarchlab/llqverify/llq"
)

// Issuer performs the command handshake and records the outcome of every
// accepted command.
type Issuer struct {
	model         *Model
	expectations  *ExpectationQueue
	stats         *Stats
	hooks         hookInvoker
	acceptTimeout int
}

// NewIssuer creates an issuer that updates the given model and queue. An
// acceptTimeout of 0 waits forever.
func NewIssuer(
	model *Model,
	expectations *ExpectationQueue,
	acceptTimeout int,
) *Issuer {
	return &Issuer{
		model:         model,
		expectations:  expectations,
		stats:         &Stats{},
		acceptTimeout: acceptTimeout,
	}
}

// Issue offers a command and blocks until the device accepts it. The model
// and the expectation queue are updated on the sample point where the
// handshake completes. The command signals return to idle one edge later.
// The word is ignored for pops.
func (i *Issuer) Issue(p Port, c llq.Context, isPush bool, w llq.Word) error {
	if !isPush && i.model.Size(c) == 0 {
		panic(fmt.Errorf("%w: pop issued on empty CTXT=%d", ErrPrecondition, c))
	}

	cmd := llq.PopCommand(c)
	if isPush {
		cmd = llq.PushCommand(c, w)
	}

	p.Drive(cmd)

	err := i.waitAccept(p, cmd)
	if err != nil {
		p.Drive(llq.Idle())
		return err
	}

	i.commit(p.Cycle(), cmd)

	p.WaitPosedge()
	p.Drive(llq.Idle())

	return nil
}

func (i *Issuer) waitAccept(p Port, cmd llq.Command) error {
	for waited := 1; ; waited++ {
		p.WaitSync()

		if p.Status().Accept {
			return nil
		}

		if i.acceptTimeout > 0 && waited >= i.acceptTimeout {
			return fmt.Errorf("%w: %s on CTXT=%d not accepted after %d cycles",
				ErrAcceptTimeout, commandName(cmd), cmd.Context, waited)
		}
	}
}

func (i *Issuer) commit(cycle uint64, cmd llq.Command) {
	txn := Transaction{
		Cycle:   cycle,
		WasPush: cmd.Push,
		Context: cmd.Context,
	}

	if cmd.Push {
		i.model.Push(cmd.Context, cmd.Word)
		i.expectations.Push(Expectation{
			WasPush: true,
			Context: cmd.Context,
			Word:    cmd.Word,
		})

		i.stats.Pushes++
		txn.Kind = TransactionPush
		txn.Expected = cmd.Word

		Trace("Pushing", "ctxt", cmd.Context, "word", cmd.Word, "cycle", cycle)
	} else {
		w := i.model.Pop(cmd.Context)
		i.expectations.Push(Expectation{
			Context: cmd.Context,
			Word:    w,
		})

		i.stats.Pops++
		txn.Kind = TransactionPop
		txn.Expected = w

		Trace("Popping", "ctxt", cmd.Context, "expected", w, "cycle", cycle)
	}

	i.stats.observeOccupancy(i.model.Total())

	invoke(i.hooks, HookPosCommandAccepted, txn)
}

func commandName(cmd llq.Command) string {
	if cmd.Push {
		return "push"
	}

	return "pop"
}
