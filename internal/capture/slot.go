package capture

import (
	"sync/atomic"
	"time"

	"gocv.io/x/gocv"
)

// Slot is a single-value, latest-wins handoff between one producer and one
// consumer. Put replaces any unread value; Take empties the slot. Both are a
// single atomic swap.
type Slot[T any] struct {
	p     atomic.Pointer[T]
	drop  func(*T)
	ready chan struct{}
}

// NewSlot returns an empty slot. drop, if non-nil, is called on values that
// are overwritten before being taken.
func NewSlot[T any](drop func(*T)) *Slot[T] {
	return &Slot[T]{drop: drop, ready: make(chan struct{}, 1)}
}

// Put stores v, dropping the previous unread value.
func (s *Slot[T]) Put(v *T) {
	if old := s.p.Swap(v); old != nil && s.drop != nil {
		s.drop(old)
	}
	select {
	case s.ready <- struct{}{}:
	default:
	}
}

// Ready is signalled after Put. A consumer that blocks on it must still
// expect Take to return nil, since one signal may cover several Puts.
func (s *Slot[T]) Ready() <-chan struct{} {
	return s.ready
}

// Take returns the stored value and empties the slot, or nil when empty.
// The caller owns the returned value.
func (s *Slot[T]) Take() *T {
	return s.p.Swap(nil)
}

// Drain drops whatever is left in the slot.
func (s *Slot[T]) Drain() {
	if v := s.Take(); v != nil && s.drop != nil {
		s.drop(v)
	}
}

// Frame is a captured image with its capture time and sequence number.
type Frame struct {
	Mat *gocv.Mat
	At  time.Time
	Seq uint64
}

// Close releases the frame's image.
func (f *Frame) Close() {
	if f != nil && f.Mat != nil {
		f.Mat.Close()
		f.Mat = nil
	}
}

// NewFrameSlot returns a slot that closes overwritten frames.
func NewFrameSlot() *Slot[Frame] {
	return NewSlot(func(f *Frame) { f.Close() })
}
