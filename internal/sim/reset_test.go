package sim

import (
	"math/rand"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("ResetController", func() {
	Context("with a fixed fraction", func() {
		var c *ResetController

		BeforeEach(func() {
			c = NewResetController(0.5, 0.5, 10, rand.New(rand.NewSource(1)))
		})

		It("uses the fraction of the total as threshold", func() {
			Expect(c.Threshold()).To(Equal(5.0))
		})

		It("only triggers when the count exceeds the threshold", func() {
			Expect(c.Update(5, 10)).To(BeFalse())
			Expect(c.Update(6, 10)).To(BeTrue())
		})

		It("stays on until the count returns to exactly zero", func() {
			Expect(c.Update(8, 10)).To(BeTrue())
			for _, n := range []int{4, 1, 3, 1} {
				Expect(c.Update(n, 10)).To(BeTrue(), "detached=%d", n)
			}
			Expect(c.Update(0, 10)).To(BeFalse())
			Expect(c.Update(2, 10)).To(BeFalse())
		})

		It("counts rising edges as cycles", func() {
			for _, n := range []int{6, 7, 2, 0, 1, 9, 0} {
				c.Update(n, 10)
			}
			Expect(c.Cycles()).To(Equal(2))
		})
	})

	Context("with a fraction range", func() {
		var c *ResetController

		BeforeEach(func() {
			c = NewResetController(0.3, 0.7, 1000, rand.New(rand.NewSource(42)))
		})

		It("draws thresholds inside the range", func() {
			for i := 0; i < 50; i++ {
				Expect(c.Threshold()).To(And(BeNumerically(">=", 300), BeNumerically("<", 700)))
				c.Update(10, 1000)
				c.Update(0, 1000)
			}
		})

		It("keeps the threshold while particles are detached", func() {
			th := c.Threshold()
			for _, n := range []int{1, 100, 999, 3} {
				c.Update(n, 1000)
				Expect(c.Threshold()).To(Equal(th))
			}
		})

		It("redraws when the count returns to zero", func() {
			seen := map[float64]bool{c.Threshold(): true}
			for i := 0; i < 5; i++ {
				c.Update(1, 1000)
				c.Update(0, 1000)
				seen[c.Threshold()] = true
			}
			Expect(len(seen)).To(BeNumerically(">", 1))
		})

		It("does not redraw while the count stays at zero", func() {
			th := c.Threshold()
			c.Update(0, 1000)
			c.Update(0, 1000)
			Expect(c.Threshold()).To(Equal(th))
		})
	})
})
