package config

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/sarchlab/akita/v4/sim"
	"github.com/sarchlab/llqverify/oracle"
)

type recordingHook struct {
	items []oracle.Transaction
}

func (h *recordingHook) Func(ctx sim.HookCtx) {
	h.items = append(h.items, ctx.Item.(oracle.Transaction))
}

var _ = Describe("PlatformBuilder", func() {
	var c *RunConfig

	BeforeEach(func() {
		c = DefaultRunConfig()
		c.Iterations = 300
		c.Seed = 3
	})

	It("should run a passing verification", func() {
		hook := &recordingHook{}

		p, err := MakePlatformBuilder().
			WithRunConfig(c).
			WithHook(hook).
			Build("Platform")
		Expect(err).NotTo(HaveOccurred())

		Expect(p.Run()).To(Succeed())
		Expect(p.Device.NumFree()).To(Equal(c.Capacity))
		Expect(p.Session.Stats().Iterations).To(Equal(uint64(300)))
		Expect(hook.items).NotTo(BeEmpty())
		Expect(hook.items[0].Kind).To(Equal(oracle.TransactionPush))
	})

	It("should hold reset for the configured cycles", func() {
		c.ResetCycles = 9

		p, err := MakePlatformBuilder().WithRunConfig(c).Build("Platform")
		Expect(err).NotTo(HaveOccurred())

		Expect(p.Run()).To(Succeed())
		Expect(p.Bench.InReset()).To(BeFalse())
	})

	It("should inject the configured faults", func() {
		c.Faults.CorruptEvery = 4
		c.Faults.CorruptMask = 0x1

		p, err := MakePlatformBuilder().WithRunConfig(c).Build("Platform")
		Expect(err).NotTo(HaveOccurred())

		Expect(p.Run()).To(MatchError(oracle.ErrDataMismatch))
	})

	It("should refuse an invalid configuration", func() {
		c.Capacity = 50

		_, err := MakePlatformBuilder().WithRunConfig(c).Build("Platform")

		Expect(err).To(MatchError(ContainSubstring("invalid run config")))
	})
})
