package bench

import (
	"errors"

	gomock "github.com/golang/mock/gomock"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/sarchlab/akita/v4/sim"
	"github.com/sarchlab/llqverify/llq"
)

var _ = Describe("Bench", func() {
	var (
		mockCtrl   *gomock.Controller
		mockDevice *MockDevice
		b          *Bench
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		mockDevice = NewMockDevice(mockCtrl)

		b = MakeBuilder().
			WithEngine(sim.NewSerialEngine()).
			WithFreq(1 * sim.GHz).
			WithResetCycles(2).
			Build("Bench")
		b.RegisterDevice(mockDevice)
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	idleDevice := func() {
		mockDevice.EXPECT().Reset().AnyTimes()
		mockDevice.EXPECT().Eval(gomock.Any()).Return(llq.Status{}).AnyTimes()
		mockDevice.EXPECT().Clock(gomock.Any()).AnyTimes()
	}

	It("should hold reset before starting threads", func() {
		mockDevice.EXPECT().Reset().Times(2)
		mockDevice.EXPECT().Eval(gomock.Any()).Return(llq.Status{}).AnyTimes()
		mockDevice.EXPECT().Clock(llq.Idle()).AnyTimes()

		var startCycle uint64
		b.Spawn("Starter", func(t *Thread) error {
			startCycle = t.Cycle()
			return nil
		})

		Expect(b.Run()).To(Succeed())
		Expect(startCycle).To(Equal(uint64(3)))
	})

	It("should commit a command on the edge after it is accepted", func() {
		pushCmd := llq.PushCommand(1, 0x5)

		mockDevice.EXPECT().Reset().AnyTimes()
		mockDevice.EXPECT().Eval(gomock.Any()).
			DoAndReturn(func(in llq.Command) llq.Status {
				return llq.Status{Accept: in.Valid}
			}).
			AnyTimes()
		mockDevice.EXPECT().Clock(llq.Idle()).AnyTimes()
		mockDevice.EXPECT().Clock(pushCmd).Times(1)

		var acceptCycle uint64
		b.Spawn("Issuer", func(t *Thread) error {
			t.Drive(pushCmd)
			for {
				t.WaitSync()
				if t.Status().Accept {
					break
				}
			}

			acceptCycle = t.Cycle()
			t.WaitPosedge()
			t.Drive(llq.Idle())

			return nil
		})

		Expect(b.Run()).To(Succeed())
		Expect(acceptCycle).To(Equal(uint64(3)))
	})

	It("should wait for a number of cycles", func() {
		idleDevice()

		var cycles []uint64
		b.Spawn("Waiter", func(t *Thread) error {
			cycles = append(cycles, t.Cycle())
			t.WaitCycles(3)
			cycles = append(cycles, t.Cycle())
			t.WaitSync()
			cycles = append(cycles, t.Cycle())
			t.WaitCycles(0)
			cycles = append(cycles, t.Cycle())

			return nil
		})

		Expect(b.Run()).To(Succeed())
		Expect(cycles).To(Equal([]uint64{3, 6, 6, 6}))
	})

	It("should pass the sampled status to samplers", func() {
		mockDevice.EXPECT().Reset().AnyTimes()
		mockDevice.EXPECT().Clock(gomock.Any()).AnyTimes()
		mockDevice.EXPECT().Eval(gomock.Any()).
			Return(llq.Status{Busy: true}).
			AnyTimes()

		var seen []uint64
		b.AddSampler(SamplerFunc(func(cycle uint64, s llq.Status) error {
			Expect(s.Busy).To(BeTrue())
			seen = append(seen, cycle)
			return nil
		}))
		b.Spawn("Waiter", func(t *Thread) error {
			t.WaitCycles(2)
			return nil
		})

		Expect(b.Run()).To(Succeed())
		Expect(seen).To(Equal([]uint64{3, 4, 5}))
	})

	It("should stop all threads when a sampler fails", func() {
		idleDevice()

		b.AddSampler(SamplerFunc(func(cycle uint64, _ llq.Status) error {
			if cycle == 5 {
				return errors.New("boom")
			}
			return nil
		}))

		var lastCycle uint64
		th := b.Spawn("Forever", func(t *Thread) error {
			for {
				lastCycle = t.Cycle()
				t.WaitPosedge()
			}
		})

		err := b.Run()

		Expect(err).To(MatchError("boom"))
		Expect(lastCycle).To(Equal(uint64(5)))
		Expect(th.Done()).To(BeTrue())
		Expect(b.Cycle()).To(Equal(uint64(5)))
	})

	It("should report the error returned by a thread", func() {
		idleDevice()

		sentinel := errors.New("sentinel")
		b.Spawn("Failing", func(t *Thread) error {
			t.WaitCycles(2)
			return sentinel
		})

		err := b.Run()

		Expect(errors.Is(err, sentinel)).To(BeTrue())
		Expect(err.Error()).To(ContainSubstring("thread Failing"))
	})

	It("should turn a thread panic into an error", func() {
		idleDevice()

		b.Spawn("Panicker", func(t *Thread) error {
			panic("model is empty")
		})

		err := b.Run()

		Expect(err).To(MatchError(ContainSubstring("model is empty")))
	})
})
