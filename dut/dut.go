// Package dut provides a cycle-level behavioural model of a multi-context
// linked-list queue.
//
// All contexts share one pool of entries. Each context is a singly linked
// list threaded through the pool and unused entries sit on a free list.
// After reset the device is busy for one cycle per entry while it builds the
// free list. Commands are accepted one per cycle and every accepted command
// produces one response beat after a fixed latency.
package dut

import (
	"log/slog"

	"github.com/sarchlab/akita/v4/sim"
	"github.com/sarchlab/llqverify/llq"
)

const nilPtr = -1

type entry struct {
	word llq.Word
	next int
}

type response struct {
	readyAt   uint64
	word      llq.Word
	underflow bool
}

// Device is a behavioural linked-list queue.
type Device struct {
	name    string
	params  llq.Params
	latency int
	faults  faults

	cycle uint64

	head    []int
	tail    []int
	count   []int
	entries []entry

	freeHead int
	numFree  int
	initPtr  int

	respLine  sim.Buffer
	respValid bool
	resp      response

	numPops          uint64
	numResponses     uint64
	spuriousPending  bool
	spuriousInjected bool
}

// Name returns the name of the device.
func (d *Device) Name() string {
	return d.name
}

// Params returns the size of the device.
func (d *Device) Params() llq.Params {
	return d.params
}

// Occupancy returns the number of words stored in a context.
func (d *Device) Occupancy(c llq.Context) int {
	return d.count[c]
}

// NumFree returns the number of entries on the free list.
func (d *Device) NumFree() int {
	return d.numFree
}

// Reset empties all the contexts and restarts the free list initialization.
func (d *Device) Reset() {
	for c := range d.head {
		d.head[c] = nilPtr
		d.tail[c] = nilPtr
		d.count[c] = 0
	}

	d.freeHead = nilPtr
	d.numFree = 0
	d.initPtr = 0

	d.respLine.Clear()
	d.respValid = false
	d.resp = response{}
	d.spuriousPending = false
	d.spuriousInjected = false
}

func (d *Device) busy() bool {
	return d.initPtr < d.params.Capacity
}

func (d *Device) full() bool {
	return !d.busy() && d.numFree == 0
}

func (d *Device) empty() bool {
	if d.faults.stuckNotEmpty {
		return false
	}

	for _, n := range d.count {
		if n != 0 {
			return false
		}
	}

	return true
}

func (d *Device) accepts(in llq.Command) bool {
	if !in.Valid || d.busy() || d.faults.neverAccept {
		return false
	}

	if in.Push && d.numFree == 0 {
		return false
	}

	if int(in.Context) >= d.params.NumContexts {
		return false
	}

	return d.respLine.CanPush()
}

// Eval returns the outputs of the device for the given inputs.
func (d *Device) Eval(in llq.Command) llq.Status {
	return llq.Status{
		Accept:             d.accepts(in),
		RespValid:          d.respValid,
		RespWord:           d.resp.word,
		RespUnderflowFault: d.respValid && d.resp.underflow,
		Full:               d.full(),
		Empty:              d.empty(),
		Busy:               d.busy(),
	}
}

// Clock advances the device by one clock edge.
func (d *Device) Clock(in llq.Command) {
	d.cycle++
	d.respValid = false

	if d.busy() {
		d.initFreeEntry()
	} else if d.accepts(in) {
		d.execute(in)
	}

	d.retireResponse()
	d.injectSpuriousResponse()
}

func (d *Device) initFreeEntry() {
	d.entries[d.initPtr] = entry{next: d.freeHead}
	d.freeHead = d.initPtr
	d.numFree++
	d.initPtr++
}

func (d *Device) execute(in llq.Command) {
	resp := response{readyAt: d.cycle + uint64(d.latency) - 1}

	if in.Push {
		d.push(in.Context, in.Word)
	} else {
		resp.word, resp.underflow = d.pop(in.Context)
	}

	d.respLine.Push(resp)
}

func (d *Device) push(c llq.Context, w llq.Word) {
	idx := d.freeHead
	d.freeHead = d.entries[idx].next
	d.numFree--

	d.entries[idx] = entry{word: w, next: nilPtr}

	if d.count[c] == 0 {
		d.head[c] = idx
	} else {
		d.entries[d.tail[c]].next = idx
	}

	d.tail[c] = idx
	d.count[c]++
}

func (d *Device) pop(c llq.Context) (llq.Word, bool) {
	if d.count[c] == 0 {
		slog.Debug("pop on empty context",
			"device", d.name, "ctxt", c, "cycle", d.cycle)
		return 0, true
	}

	idx := d.head[c]
	w := d.entries[idx].word

	d.head[c] = d.entries[idx].next
	d.count[c]--

	if d.count[c] == 0 {
		d.head[c] = nilPtr
		d.tail[c] = nilPtr
	}

	d.entries[idx].next = d.freeHead
	d.freeHead = idx
	d.numFree++

	d.numPops++
	if d.faults.corruptEvery > 0 && d.numPops%d.faults.corruptEvery == 0 {
		w ^= d.faults.corruptMask
	}

	return w, false
}

func (d *Device) retireResponse() {
	item := d.respLine.Peek()
	if item == nil {
		return
	}

	resp := item.(response)
	if resp.readyAt > d.cycle {
		return
	}

	d.respLine.Pop()
	d.numResponses++

	if d.faults.dropEvery > 0 && d.numResponses%d.faults.dropEvery == 0 {
		return
	}

	d.respValid = true
	d.resp = resp
}

func (d *Device) injectSpuriousResponse() {
	if d.faults.spuriousAt == 0 || d.spuriousInjected {
		return
	}

	if d.cycle >= d.faults.spuriousAt {
		d.spuriousPending = true
	}

	if !d.spuriousPending || d.respValid {
		return
	}

	d.respValid = true
	d.resp = response{word: d.faults.spuriousWord}
	d.spuriousPending = false
	d.spuriousInjected = true
}
