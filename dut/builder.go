package dut

import (
	"github.com/sarchlab/akita/v4/sim"
	"github.com/sarchlab/llqverify/llq"
)

type faults struct {
	corruptEvery  uint64
	corruptMask   llq.Word
	dropEvery     uint64
	spuriousAt    uint64
	spuriousWord  llq.Word
	stuckNotEmpty bool
	neverAccept   bool
}

// Builder can create linked-list queue devices.
type Builder struct {
	numContexts int
	capacity    int
	latency     int
	faults      faults
}

// MakeBuilder returns a builder for a 16-context, 128-entry device that
// responds on the edge that commits the command.
func MakeBuilder() Builder {
	return Builder{
		numContexts: 16,
		capacity:    128,
		latency:     1,
	}
}

// WithNumContexts sets the number of contexts.
func (b Builder) WithNumContexts(n int) Builder {
	b.numContexts = n
	return b
}

// WithCapacity sets the number of entries shared by all the contexts.
func (b Builder) WithCapacity(n int) Builder {
	b.capacity = n
	return b
}

// WithResponseLatency sets the number of clock edges between committing a
// command and presenting its response. It must be at least 1.
func (b Builder) WithResponseLatency(n int) Builder {
	if n < 1 {
		panic("response latency must be at least 1")
	}

	b.latency = n

	return b
}

// WithCorruptedPops flips the bits in mask on every n-th popped word.
func (b Builder) WithCorruptedPops(n uint64, mask llq.Word) Builder {
	b.faults.corruptEvery = n
	b.faults.corruptMask = mask

	return b
}

// WithDroppedResponses swallows every n-th response beat.
func (b Builder) WithDroppedResponses(n uint64) Builder {
	b.faults.dropEvery = n
	return b
}

// WithSpuriousResponse raises one response beat that belongs to no command,
// on the first free response slot at or after the given device cycle.
func (b Builder) WithSpuriousResponse(cycle uint64, w llq.Word) Builder {
	b.faults.spuriousAt = cycle
	b.faults.spuriousWord = w

	return b
}

// WithStuckNotEmpty makes the device never report empty.
func (b Builder) WithStuckNotEmpty() Builder {
	b.faults.stuckNotEmpty = true
	return b
}

// WithNeverAccept makes the device never accept a command.
func (b Builder) WithNeverAccept() Builder {
	b.faults.neverAccept = true
	return b
}

// Build creates a device. The device starts in the reset state.
func (b Builder) Build(name string) *Device {
	if b.numContexts <= 0 || b.capacity <= 0 {
		panic("device must have at least one context and one entry")
	}

	d := &Device{
		name: name,
		params: llq.Params{
			NumContexts: b.numContexts,
			Capacity:    b.capacity,
		},
		latency:  b.latency,
		faults:   b.faults,
		head:     make([]int, b.numContexts),
		tail:     make([]int, b.numContexts),
		count:    make([]int, b.numContexts),
		entries:  make([]entry, b.capacity),
		respLine: sim.NewBuffer(name+".RespLine", b.latency+1),
	}

	d.Reset()

	return d
}
