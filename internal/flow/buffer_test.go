package flow

import (
	"image"
	"math/rand"
	"sync"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/flowgrid/internal/dynamo"
)

func filledField(w, h int, v float64) Field {
	f := NewField(w, h)
	for i := range f.Data {
		f.Data[i] = dynamo.V(v, -v)
	}
	return f
}

func filledSnapshot(w, h int, v uint8) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = v
	}
	return img
}

var _ = Describe("Buffer", func() {
	var buf *Buffer

	BeforeEach(func() {
		buf = NewBuffer()
	})

	It("is not ready before the consumer asks", func() {
		Expect(buf.Ready()).To(BeFalse())
		var dst Frame
		ready, fresh := buf.Acquire(&dst)
		Expect(ready).To(BeFalse())
		Expect(fresh).To(BeFalse())
		Expect(buf.Ready()).To(BeTrue())
	})

	It("gates the producer until the published version is handed off", func() {
		var dst Frame
		buf.Acquire(&dst)
		v := buf.Publish(filledField(4, 3, 1), filledSnapshot(4, 3, 1))
		Expect(v).To(Equal(uint64(1)))
		Expect(buf.Ready()).To(BeFalse())

		ready, fresh := buf.Acquire(&dst)
		Expect(ready).To(BeTrue())
		Expect(fresh).To(BeTrue())
		Expect(dst.Version).To(Equal(uint64(1)))
		Expect(buf.Ready()).To(BeFalse())

		buf.Handoff(dst.Version)
		Expect(buf.Ready()).To(BeTrue())
	})

	It("keeps the field available after it has been consumed", func() {
		var dst Frame
		buf.Acquire(&dst)
		buf.Publish(filledField(2, 2, 3), nil)
		buf.Acquire(&dst)
		buf.Handoff(dst.Version)

		ready, fresh := buf.Acquire(&dst)
		Expect(ready).To(BeTrue())
		Expect(fresh).To(BeFalse())
		Expect(dst.Field.At(1, 1)).To(Equal(dynamo.V(3, -3)))
		Expect(buf.Status().FieldReady).To(BeTrue())
	})

	It("copies so later publishes do not alias the consumer's frame", func() {
		var dst Frame
		src := filledField(2, 2, 5)
		snap := filledSnapshot(2, 2, 5)
		buf.Acquire(&dst)
		buf.Publish(src, snap)
		buf.Acquire(&dst)

		src.Data[0] = dynamo.V(99, 99)
		snap.Pix[0] = 99
		Expect(dst.Field.At(0, 0)).To(Equal(dynamo.V(5, -5)))
		Expect(dst.Snapshot.Pix[0]).To(Equal(uint8(5)))
	})

	It("never moves the acknowledgement backwards", func() {
		var dst Frame
		buf.Acquire(&dst)
		buf.Publish(filledField(1, 1, 1), nil)
		buf.Handoff(1)
		buf.Handoff(0)
		Expect(buf.Status().Acked).To(Equal(uint64(1)))
	})

	It("delivers whole frames with increasing versions under contention", func() {
		const (
			w, h     = 16, 8
			versions = 200
		)
		var wg sync.WaitGroup
		done := make(chan struct{})

		wg.Add(1)
		go func() {
			defer GinkgoRecover()
			defer wg.Done()
			rng := rand.New(rand.NewSource(1))
			next := uint64(1)
			for next <= versions {
				select {
				case <-done:
					return
				default:
				}
				if !buf.Ready() {
					time.Sleep(time.Duration(rng.Intn(50)) * time.Microsecond)
					continue
				}
				v := buf.Publish(filledField(w, h, float64(next)), filledSnapshot(w, h, uint8(next)))
				Expect(v).To(Equal(next))
				next++
			}
		}()

		rng := rand.New(rand.NewSource(2))
		var dst Frame
		var last uint64
		deadline := time.Now().Add(10 * time.Second)
		for last < versions && time.Now().Before(deadline) {
			ready, fresh := buf.Acquire(&dst)
			if fresh {
				Expect(ready).To(BeTrue())
				Expect(dst.Version).To(BeNumerically(">", last))
				want := float64(dst.Version)
				for _, v := range dst.Field.Data {
					Expect(v).To(Equal(dynamo.V(want, -want)))
				}
				for _, p := range dst.Snapshot.Pix {
					Expect(p).To(Equal(uint8(dst.Version)))
				}
				last = dst.Version
			}
			time.Sleep(time.Duration(rng.Intn(50)) * time.Microsecond)
			buf.Handoff(dst.Version)
		}
		close(done)
		wg.Wait()
		Expect(last).To(Equal(uint64(versions)))
	})
})
