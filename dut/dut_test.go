package dut

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/sarchlab/llqverify/llq"
)

func initialize(d *Device) {
	for i := 0; i < d.Params().Capacity; i++ {
		d.Clock(llq.Idle())
	}
}

func issue(d *Device, cmd llq.Command) llq.Status {
	ExpectWithOffset(1, d.Eval(cmd).Accept).To(BeTrue())
	d.Clock(cmd)

	return d.Eval(llq.Idle())
}

var _ = Describe("Device", func() {
	var d *Device

	BeforeEach(func() {
		d = MakeBuilder().
			WithNumContexts(4).
			WithCapacity(8).
			Build("Device")
	})

	It("should be busy while building the free list", func() {
		for i := 0; i < 8; i++ {
			s := d.Eval(llq.PushCommand(0, 1))
			Expect(s.Busy).To(BeTrue())
			Expect(s.Accept).To(BeFalse())
			d.Clock(llq.PushCommand(0, 1))
		}

		s := d.Eval(llq.PushCommand(0, 1))
		Expect(s.Busy).To(BeFalse())
		Expect(s.Accept).To(BeTrue())
		Expect(s.Empty).To(BeTrue())
		Expect(d.NumFree()).To(Equal(8))
		Expect(d.Occupancy(0)).To(Equal(0))
	})

	It("should not accept when nothing is offered", func() {
		initialize(d)

		Expect(d.Eval(llq.Idle()).Accept).To(BeFalse())
	})

	It("should keep each context in FIFO order", func() {
		initialize(d)

		s := issue(d, llq.PushCommand(3, 0xAAAA))
		Expect(s.RespValid).To(BeTrue())
		Expect(s.Empty).To(BeFalse())

		issue(d, llq.PushCommand(1, 0x1111))
		issue(d, llq.PushCommand(3, 0xBBBB))

		s = issue(d, llq.PopCommand(3))
		Expect(s.RespValid).To(BeTrue())
		Expect(s.RespWord).To(Equal(llq.Word(0xAAAA)))

		s = issue(d, llq.PopCommand(3))
		Expect(s.RespWord).To(Equal(llq.Word(0xBBBB)))
		Expect(s.RespUnderflowFault).To(BeFalse())

		s = issue(d, llq.PopCommand(1))
		Expect(s.RespWord).To(Equal(llq.Word(0x1111)))
		Expect(s.Empty).To(BeTrue())
		Expect(d.NumFree()).To(Equal(8))
	})

	It("should only hold the response for one cycle", func() {
		initialize(d)

		Expect(issue(d, llq.PushCommand(0, 5)).RespValid).To(BeTrue())

		d.Clock(llq.Idle())
		Expect(d.Eval(llq.Idle()).RespValid).To(BeFalse())
	})

	It("should report full and refuse pushes", func() {
		initialize(d)

		for i := 0; i < 8; i++ {
			issue(d, llq.PushCommand(llq.Context(i%4), llq.Word(i)))
		}

		s := d.Eval(llq.PushCommand(0, 9))
		Expect(s.Full).To(BeTrue())
		Expect(s.Accept).To(BeFalse())
		Expect(d.Eval(llq.PopCommand(0)).Accept).To(BeTrue())

		s = issue(d, llq.PopCommand(0))
		Expect(s.RespWord).To(Equal(llq.Word(0)))
		Expect(s.Full).To(BeFalse())
	})

	It("should flag a pop on an empty context", func() {
		initialize(d)

		s := issue(d, llq.PopCommand(2))

		Expect(s.RespValid).To(BeTrue())
		Expect(s.RespUnderflowFault).To(BeTrue())
	})

	It("should refuse contexts out of range", func() {
		initialize(d)

		Expect(d.Eval(llq.PushCommand(4, 1)).Accept).To(BeFalse())
	})

	It("should restart after reset", func() {
		initialize(d)
		issue(d, llq.PushCommand(0, 1))

		d.Reset()

		s := d.Eval(llq.Idle())
		Expect(s.Busy).To(BeTrue())
		Expect(s.Empty).To(BeTrue())
		Expect(s.RespValid).To(BeFalse())
	})

	Context("with a longer response latency", func() {
		BeforeEach(func() {
			d = MakeBuilder().
				WithNumContexts(2).
				WithCapacity(4).
				WithResponseLatency(3).
				Build("Device")
			initialize(d)
		})

		It("should present the response after the latency", func() {
			Expect(issue(d, llq.PushCommand(0, 7)).RespValid).To(BeFalse())

			d.Clock(llq.Idle())
			Expect(d.Eval(llq.Idle()).RespValid).To(BeFalse())

			d.Clock(llq.Idle())
			Expect(d.Eval(llq.Idle()).RespValid).To(BeTrue())
		})

		It("should keep responses in order", func() {
			issue(d, llq.PushCommand(0, 7))
			issue(d, llq.PushCommand(1, 8))
			s := issue(d, llq.PopCommand(1))
			Expect(s.RespValid).To(BeTrue())

			d.Clock(llq.Idle())
			Expect(d.Eval(llq.Idle()).RespValid).To(BeTrue())

			d.Clock(llq.Idle())
			s = d.Eval(llq.Idle())
			Expect(s.RespValid).To(BeTrue())
			Expect(s.RespWord).To(Equal(llq.Word(8)))
		})
	})

	Context("with faults", func() {
		It("should corrupt every n-th pop", func() {
			d = MakeBuilder().
				WithNumContexts(4).
				WithCapacity(8).
				WithCorruptedPops(2, 0xFF).
				Build("Device")
			initialize(d)

			issue(d, llq.PushCommand(0, 0x100))
			issue(d, llq.PushCommand(0, 0x200))

			Expect(issue(d, llq.PopCommand(0)).RespWord).To(Equal(llq.Word(0x100)))
			Expect(issue(d, llq.PopCommand(0)).RespWord).To(Equal(llq.Word(0x2FF)))
		})

		It("should drop every n-th response", func() {
			d = MakeBuilder().WithDroppedResponses(2).Build("Device")
			initialize(d)

			Expect(issue(d, llq.PushCommand(0, 1)).RespValid).To(BeTrue())
			Expect(issue(d, llq.PushCommand(0, 2)).RespValid).To(BeFalse())
			Expect(issue(d, llq.PushCommand(0, 3)).RespValid).To(BeTrue())
		})

		It("should raise a spurious response", func() {
			d = MakeBuilder().
				WithNumContexts(4).
				WithCapacity(8).
				WithSpuriousResponse(10, 0xDEAD).
				Build("Device")
			initialize(d)

			d.Clock(llq.Idle())
			Expect(d.Eval(llq.Idle()).RespValid).To(BeFalse())

			d.Clock(llq.Idle())
			s := d.Eval(llq.Idle())
			Expect(s.RespValid).To(BeTrue())
			Expect(s.RespWord).To(Equal(llq.Word(0xDEAD)))

			d.Clock(llq.Idle())
			Expect(d.Eval(llq.Idle()).RespValid).To(BeFalse())
		})

		It("should never report empty", func() {
			d = MakeBuilder().WithStuckNotEmpty().Build("Device")
			initialize(d)

			Expect(d.Eval(llq.Idle()).Empty).To(BeFalse())
		})

		It("should never accept", func() {
			d = MakeBuilder().WithNeverAccept().Build("Device")
			initialize(d)

			Expect(d.Eval(llq.PushCommand(0, 1)).Accept).To(BeFalse())
		})
	})
})

var _ = Describe("Device state table", func() {
	It("should list the non-empty contexts", func() {
		d := MakeBuilder().WithNumContexts(4).WithCapacity(8).Build("Device")
		initialize(d)

		issue(d, llq.PushCommand(2, 0xAAAA))
		issue(d, llq.PushCommand(2, 0xBBBB))

		out := d.StateTable()

		Expect(out).To(ContainSubstring("aaaa bbbb"))
		Expect(out).To(ContainSubstring("busy=false"))
	})
})
