package flow

import (
	"image"
	"sync"
)

// Frame is one publish: a flow field, the colour frame it was computed from,
// and a version that increases by one per publish.
type Frame struct {
	Version  uint64
	Field    Field
	Snapshot *image.RGBA
}

// CopyFrom makes f an independent copy of src.
func (f *Frame) CopyFrom(src *Frame) {
	f.Version = src.Version
	f.Field.CopyFrom(src.Field)
	f.Snapshot = copyRGBA(f.Snapshot, src.Snapshot)
}

// Status is a point-in-time view of the buffer's signalling state.
type Status struct {
	Version       uint64
	Acked         uint64
	FieldReady    bool
	ConsumerReady bool
}

// Buffer hands the latest field from the worker to the simulation tick.
type Buffer struct {
	mu            sync.Mutex
	frame         Frame
	fieldReady    bool
	consumerReady bool
	acked         uint64
}

func NewBuffer() *Buffer {
	return &Buffer{}
}

// Ready reports whether the producer may start on a new field: the consumer
// has requested one and has handed off everything published so far.
func (b *Buffer) Ready() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.consumerReady && b.acked == b.frame.Version
}

// Publish stores a copy of field and snapshot as the next version and
// returns that version. The consumer's request flag is cleared.
func (b *Buffer) Publish(field Field, snapshot *image.RGBA) uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.frame.Version++
	b.frame.Field.CopyFrom(field)
	b.frame.Snapshot = copyRGBA(b.frame.Snapshot, snapshot)
	b.fieldReady = true
	b.consumerReady = false
	return b.frame.Version
}

// Acquire marks the consumer ready for a new field and, if a publish newer
// than dst exists, copies it into dst. It reports whether any field has been
// published and whether dst was refreshed.
func (b *Buffer) Acquire(dst *Frame) (ready, fresh bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.consumerReady = true
	if !b.fieldReady {
		return false, false
	}
	if dst.Version != b.frame.Version {
		dst.CopyFrom(&b.frame)
		fresh = true
	}
	return true, fresh
}

// Handoff acknowledges that version has been consumed and drawn.
// Acknowledgements never move backwards.
func (b *Buffer) Handoff(version uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if version > b.acked {
		b.acked = version
	}
}

func (b *Buffer) Status() Status {
	b.mu.Lock()
	defer b.mu.Unlock()
	return Status{
		Version:       b.frame.Version,
		Acked:         b.acked,
		FieldReady:    b.fieldReady,
		ConsumerReady: b.consumerReady,
	}
}
