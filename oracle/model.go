package oracle

import (
	"fmt"

	"github.com/sarchlab/llqverify/llq"
)

// Model holds, for every context, the words that have been pushed but not
// popped yet. It has no capacity limit.
type Model struct {
	fifos [][]llq.Word
	total int
}

// NewModel creates an empty model.
func NewModel(numContexts int) *Model {
	if numContexts <= 0 {
		panic("model needs at least one context")
	}

	return &Model{
		fifos: make([][]llq.Word, numContexts),
	}
}

// NumContexts returns the number of contexts.
func (m *Model) NumContexts() int {
	return len(m.fifos)
}

// Push appends a word to a context.
func (m *Model) Push(c llq.Context, w llq.Word) {
	m.mustBeValid(c)

	m.fifos[c] = append(m.fifos[c], w)
	m.total++
}

// Pop removes and returns the oldest word of a context. Popping an empty
// context panics with ErrPrecondition.
func (m *Model) Pop(c llq.Context) llq.Word {
	m.mustBeValid(c)

	q := m.fifos[c]
	if len(q) == 0 {
		panic(fmt.Errorf("%w: pop on empty CTXT=%d", ErrPrecondition, c))
	}

	w := q[0]
	m.fifos[c] = q[1:]
	m.total--

	return w
}

// Size returns the number of words held by a context.
func (m *Model) Size(c llq.Context) int {
	m.mustBeValid(c)

	return len(m.fifos[c])
}

// Total returns the number of words held by all the contexts.
func (m *Model) Total() int {
	return m.total
}

// Empty tells if no context holds a word.
func (m *Model) Empty() bool {
	return m.total == 0
}

func (m *Model) mustBeValid(c llq.Context) {
	if int(c) >= len(m.fifos) {
		panic(fmt.Errorf("%w: CTXT=%d out of range [0, %d)",
			ErrPrecondition, c, len(m.fifos)))
	}
}
