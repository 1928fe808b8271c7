package flow

import (
	"context"
	"image"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/flowgrid/internal/dynamo"
)

type scriptedCamera struct {
	frames []*image.RGBA
	next   int
}

func (c *scriptedCamera) PollFrame() (*image.RGBA, bool) {
	if c.next >= len(c.frames) {
		return nil, false
	}
	f := c.frames[c.next]
	c.next++
	return f, true
}

func (c *scriptedCamera) Bounds() image.Rectangle { return c.frames[0].Rect }

type constantFlow struct {
	calls int
	value dynamo.Vec
}

func (a *constantFlow) Name() string { return "constant" }

func (a *constantFlow) Compute(prev, curr *image.Gray) (Field, error) {
	a.calls++
	f := NewField(curr.Rect.Dx(), curr.Rect.Dy())
	for i := range f.Data {
		f.Data[i] = a.value
	}
	return f, nil
}

func frames(n, w, h int) []*image.RGBA {
	out := make([]*image.RGBA, n)
	for i := range out {
		out[i] = filledSnapshot(w, h, uint8(10*i))
	}
	return out
}

var _ = Describe("Worker", func() {
	var (
		buf  *Buffer
		algo *constantFlow
		cam  *scriptedCamera
		wk   *Worker
	)

	BeforeEach(func() {
		buf = NewBuffer()
		algo = &constantFlow{value: dynamo.V(1, 2)}
		cam = &scriptedCamera{frames: frames(6, 8, 4)}
		wk = NewWorker(cam, algo, buf, WorkerOptions{Decimate: 1})
	})

	It("drops frames while the consumer has not asked for one", func() {
		Expect(wk.Step()).To(BeFalse())
		Expect(wk.Stats().Dropped).To(Equal(uint64(1)))
		Expect(buf.Status().Version).To(BeZero())
	})

	It("needs two frames before publishing", func() {
		var dst Frame
		buf.Acquire(&dst)

		Expect(wk.Step()).To(BeTrue())
		Expect(algo.calls).To(BeZero())
		Expect(buf.Status().FieldReady).To(BeFalse())

		Expect(wk.Step()).To(BeTrue())
		Expect(algo.calls).To(Equal(1))
		Expect(buf.Status().Version).To(Equal(uint64(1)))
		Expect(wk.Stats().Published).To(Equal(uint64(1)))
	})

	It("waits for a handoff before computing again", func() {
		var dst Frame
		buf.Acquire(&dst)
		wk.Step()
		wk.Step()

		Expect(wk.Step()).To(BeFalse())
		Expect(algo.calls).To(Equal(1))

		ready, fresh := buf.Acquire(&dst)
		Expect(ready).To(BeTrue())
		Expect(fresh).To(BeTrue())
		Expect(dst.Field.Width).To(Equal(8))
		Expect(dst.Field.Height).To(Equal(4))
		Expect(dst.Field.At(3, 2)).To(Equal(dynamo.V(1, 2)))
		Expect(wk.Step()).To(BeFalse())

		buf.Handoff(dst.Version)
		Expect(wk.Step()).To(BeTrue())
		Expect(algo.calls).To(Equal(2))
		Expect(wk.Stats().Dropped).To(Equal(uint64(2)))
	})

	It("publishes the mirrored snapshot", func() {
		img := image.NewRGBA(image.Rect(0, 0, 2, 1))
		copy(img.Pix, []uint8{1, 1, 1, 255, 2, 2, 2, 255})
		cam.frames = []*image.RGBA{img, img}
		wk = NewWorker(cam, algo, buf, WorkerOptions{Decimate: 1, Mirror: true})

		var dst Frame
		buf.Acquire(&dst)
		wk.Step()
		wk.Step()
		buf.Acquire(&dst)
		Expect(dst.Snapshot.Pix[:4]).To(Equal([]uint8{2, 2, 2, 255}))
	})

	It("stops when the context is cancelled", func() {
		ctx, cancel := context.WithCancel(context.Background())
		errc := make(chan error, 1)
		go func() { errc <- wk.Run(ctx) }()
		cancel()
		Eventually(errc, time.Second).Should(Receive(BeNil()))
	})
})
