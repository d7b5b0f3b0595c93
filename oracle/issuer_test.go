package oracle

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/sarchlab/llqverify/llq"
)

var _ = Describe("Issuer", func() {
	var (
		model *Model
		q     *ExpectationQueue
		i     *Issuer
		port  *scriptedPort
	)

	BeforeEach(func() {
		model = NewModel(4)
		q = NewExpectationQueue()
		i = NewIssuer(model, q, 5)
		port = newScriptedPort()
	})

	It("should hold the command until it is accepted", func() {
		port.acceptFrom = 3

		err := i.Issue(port, 2, true, 0x55)

		Expect(err).NotTo(HaveOccurred())
		Expect(port.driven).To(Equal([]llq.Command{
			llq.PushCommand(2, 0x55),
			llq.Idle(),
		}))
		Expect(port.Cycle()).To(Equal(uint64(4)))
		Expect(model.Size(2)).To(Equal(1))

		e, ok := q.Pop()
		Expect(ok).To(BeTrue())
		Expect(e).To(Equal(Expectation{WasPush: true, Context: 2, Word: 0x55}))
	})

	It("should expect the word the model pops", func() {
		Expect(i.Issue(port, 1, true, 0xAAAA)).To(Succeed())
		Expect(i.Issue(port, 1, true, 0xBBBB)).To(Succeed())
		Expect(i.Issue(port, 1, false, 0)).To(Succeed())

		Expect(q.Len()).To(Equal(3))
		q.Pop()
		q.Pop()
		e, _ := q.Pop()
		Expect(e).To(Equal(Expectation{Context: 1, Word: 0xAAAA}))
		Expect(model.Size(1)).To(Equal(1))
		Expect(i.stats.Pushes).To(Equal(uint64(2)))
		Expect(i.stats.Pops).To(Equal(uint64(1)))
		Expect(i.stats.MaxOccupancy).To(Equal(2))
	})

	It("should give up after the accept timeout", func() {
		port.acceptFrom = 100

		err := i.Issue(port, 0, true, 1)

		Expect(err).To(MatchError(ErrAcceptTimeout))
		Expect(port.driven[len(port.driven)-1]).To(Equal(llq.Idle()))
		Expect(model.Empty()).To(BeTrue())
		Expect(q.Len()).To(Equal(0))
	})

	It("should refuse to pop an empty context", func() {
		Expect(func() {
			_ = i.Issue(port, 0, false, 0)
		}).To(PanicWith(MatchError(ErrPrecondition)))
		Expect(port.driven).To(BeEmpty())
	})
})

var _ = Describe("Driver", func() {
	var (
		s    *Session
		port *scriptedPort
	)

	BeforeEach(func() {
		cfg := DefaultConfig()
		cfg.NumContexts = 4
		cfg.Iterations = 50
		cfg.SettleCycles = 2

		var err error
		s, err = NewSession(cfg)
		Expect(err).NotTo(HaveOccurred())

		port = newScriptedPort()
	})

	It("should issue nothing when flushing an empty model", func() {
		Expect(s.Driver().Flush(port)).To(Succeed())

		Expect(port.driven).To(BeEmpty())
		Expect(port.Cycle()).To(Equal(uint64(1)))
		Expect(s.Stats().Flushes).To(Equal(uint64(0)))
	})

	It("should pop every modeled word in a flush", func() {
		Expect(s.Issuer().Issue(port, 0, true, 1)).To(Succeed())
		Expect(s.Issuer().Issue(port, 3, true, 2)).To(Succeed())
		Expect(s.Issuer().Issue(port, 3, true, 3)).To(Succeed())

		Expect(s.Driver().Flush(port)).To(Succeed())

		Expect(s.Model().Empty()).To(BeTrue())
		Expect(s.Stats().Pops).To(Equal(uint64(3)))
		Expect(s.Stats().Flushes).To(Equal(uint64(1)))
		Expect(port.driven).To(ContainElements(
			llq.PopCommand(0), llq.PopCommand(3)))
	})

	It("should wait for the device to leave busy", func() {
		port.busyUntil = 10

		Expect(s.Driver().Run(port)).To(MatchError(ErrLostResponse))
		Expect(s.Stats().Iterations).To(Equal(uint64(50)))
	})

	It("should give up when the device stays busy", func() {
		port.busyUntil = 1 << 20
		s.driver.cfg.BusyTimeout = 10

		Expect(s.Driver().Run(port)).To(MatchError(ErrBusyTimeout))
		Expect(port.driven).To(BeEmpty())
	})

	It("should flush when the occupancy passes the threshold", func() {
		s.driver.cfg.FlushThreshold = 3
		s.driver.cfg.PushPercent = 100

		err := s.Driver().Run(port)

		Expect(err).To(MatchError(ErrLostResponse))
		Expect(s.Stats().Flushes).To(BeNumerically(">=", 10))
		Expect(s.Stats().MaxOccupancy).To(Equal(4))
	})
})
