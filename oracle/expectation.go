package oracle

import "github.com/sarchlab/llqverify/llq"

// An Expectation is what the oracle predicts for the response of one
// accepted command. A push expectation only keeps its place in the order.
type Expectation struct {
	WasPush bool
	Context llq.Context
	Word    llq.Word
}

// ExpectationQueue keeps expectations in the order their commands were
// accepted.
type ExpectationQueue struct {
	items []Expectation
}

// NewExpectationQueue creates an empty queue.
func NewExpectationQueue() *ExpectationQueue {
	return &ExpectationQueue{}
}

// Push appends an expectation.
func (q *ExpectationQueue) Push(e Expectation) {
	q.items = append(q.items, e)
}

// Pop removes the oldest expectation. It returns false if the queue is
// empty.
func (q *ExpectationQueue) Pop() (Expectation, bool) {
	if len(q.items) == 0 {
		return Expectation{}, false
	}

	e := q.items[0]
	q.items = q.items[1:]

	return e, true
}

// Peek returns the oldest expectation without removing it.
func (q *ExpectationQueue) Peek() (Expectation, bool) {
	if len(q.items) == 0 {
		return Expectation{}, false
	}

	return q.items[0], true
}

// Len returns the number of pending expectations.
func (q *ExpectationQueue) Len() int {
	return len(q.items)
}
