package oracle

import (
	"github.com/sarchlab/akita/v4/sim"
	"github.com/sarchlab/llqverify/llq"
)

// HookPosCommandAccepted marks when the device accepts a command.
var HookPosCommandAccepted = &sim.HookPos{Name: "Command Accepted"}

// HookPosResponseChecked marks when a response beat consumes an
// expectation.
var HookPosResponseChecked = &sim.HookPos{Name: "Response Checked"}

// HookPosUnexpectedResponse marks a response beat that has no pending
// expectation.
var HookPosUnexpectedResponse = &sim.HookPos{Name: "Unexpected Response"}

// TransactionKind tells what a Transaction records.
type TransactionKind int

// Kinds of transactions.
const (
	TransactionPush TransactionKind = iota
	TransactionPop
	TransactionResponse
	TransactionUnexpected
)

// String returns the name of the kind.
func (k TransactionKind) String() string {
	switch k {
	case TransactionPush:
		return "push"
	case TransactionPop:
		return "pop"
	case TransactionResponse:
		return "response"
	case TransactionUnexpected:
		return "unexpected"
	default:
		panic("invalid transaction kind")
	}
}

// A Transaction is the item passed to hooks. For a push, Expected is the
// pushed word. For a pop, Expected is the word the model dequeued. For a
// response, Actual is the observed word.
type Transaction struct {
	Cycle    uint64
	Kind     TransactionKind
	WasPush  bool
	Context  llq.Context
	Expected llq.Word
	Actual   llq.Word
	Match    bool
}

type hookInvoker interface {
	sim.Hookable
	InvokeHook(ctx sim.HookCtx)
}

func invoke(h hookInvoker, pos *sim.HookPos, txn Transaction) {
	if h == nil {
		return
	}

	h.InvokeHook(sim.HookCtx{
		Domain: h,
		Pos:    pos,
		Item:   txn,
	})
}
