package dut

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/sarchlab/llqverify/llq"
)

// StateTable renders the contexts and the free list of the device.
func (d *Device) StateTable() string {
	t := table.NewWriter()
	t.SetTitle(fmt.Sprintf("%s @ cycle %d", d.name, d.cycle))
	t.AppendHeader(table.Row{"CTXT", "Count", "Head", "Tail", "Words"})

	for c := range d.count {
		if d.count[c] == 0 {
			continue
		}

		t.AppendRow(table.Row{
			c, d.count[c], d.head[c], d.tail[c], d.wordsOf(llq.Context(c)),
		})
	}

	t.AppendSeparator()
	t.AppendRow(table.Row{"free", d.numFree, d.freeHead, "",
		fmt.Sprintf("busy=%t", d.busy())})

	return t.Render()
}

func (d *Device) wordsOf(c llq.Context) string {
	const maxShown = 8

	s := ""
	idx := d.head[c]

	for i := 0; idx != nilPtr; i++ {
		if i == maxShown {
			return s + " ..."
		}

		if i > 0 {
			s += " "
		}

		s += d.entries[idx].word.String()
		idx = d.entries[idx].next
	}

	return s
}
