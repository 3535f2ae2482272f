// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ustream

import "code.hybscloud.com/atomix"

// ControlBlock is the shared, reference-counted state every Instance
// (and Forward) built over the same backend points at. Instances created
// by Clone increment the ref count and release their reference on Dispose;
// the two release callbacks run, in order, the instant the count reaches
// zero.
//
// A ControlBlock is never copied after construction; it is always reached
// through a pointer shared by every Instance that descends from the same
// New call.
type ControlBlock struct {
	backend Backend

	refCount atomix.Uint32

	// dataRelease is invoked once the last Instance sharing this control
	// block disposes. It frees whatever the backend owns (a byte slice,
	// a child Instance pair, and so on).
	dataRelease func()

	// controlBlockRelease is invoked immediately after dataRelease. It
	// frees the bookkeeping around the control block itself, independent
	// of whatever the backend's own data release does. Separating the two
	// lets a caller that heap-allocated the control block out-of-band
	// (pooled control blocks, for instance) recycle it without having to
	// know anything about the backend's own cleanup.
	controlBlockRelease func()
}

// NewControlBlock builds a ControlBlock over backend with an initial ref
// count of one. dataRelease and controlBlockRelease may be nil; nil
// callbacks are simply skipped.
func NewControlBlock(backend Backend, dataRelease, controlBlockRelease func()) *ControlBlock {
	cb := &ControlBlock{
		backend:             backend,
		dataRelease:         dataRelease,
		controlBlockRelease: controlBlockRelease,
	}
	cb.refCount.StoreRelaxed(1)
	return cb
}

// IncRef atomically adds one reference to cb. Called whenever a new
// Instance starts sharing this control block, i.e. on every Clone.
func (cb *ControlBlock) IncRef() {
	cb.refCount.AddAcqRel(1)
}

// DecRef atomically removes one reference from cb. When the count
// transitions to zero it invokes dataRelease, then controlBlockRelease, in
// that order, exactly once.
func (cb *ControlBlock) DecRef() {
	// Atomic decrement-by-one via two's-complement add, the same trick
	// the teacher's queues use for unsigned indices that must wrap.
	if cb.refCount.AddAcqRel(^uint32(0)) == 0 {
		if cb.dataRelease != nil {
			cb.dataRelease()
		}
		if cb.controlBlockRelease != nil {
			cb.controlBlockRelease()
		}
	}
}

// RefCount returns the current reference count. Exposed for tests and for
// backends that need to make decisions based on exclusive ownership (a
// single remaining reference).
func (cb *ControlBlock) RefCount() uint32 {
	return cb.refCount.LoadAcquire()
}
