// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ustream

import "math"

// Instance is a cursor into the data owned by a ControlBlock. Instances are
// cheap, independently positioned views: Clone produces a new Instance
// sharing the same ControlBlock, each with its own physPos/firstValid/
// offsetDiff/length.
//
// An Instance is not safe for concurrent use by multiple goroutines.
// Distinct Instances that share a ControlBlock (siblings from the same
// Clone lineage) ARE safe to use concurrently from different goroutines,
// because every mutation of shared state goes through the ControlBlock's
// atomic ref count or, for the multi-stream composer, its internal lock.
type Instance struct {
	cb *ControlBlock

	// physPos is this instance's current position in the backend's own
	// coordinate space.
	physPos uint64

	// firstValid is the earliest physical position this instance may still
	// seek or reset to; Release moves it forward.
	firstValid uint64

	// offsetDiff is the signed bias between physical and logical position:
	// logical = physical + offsetDiff.
	offsetDiff int64

	// length is the size, in the backend's own coordinate space, of the
	// region this instance can see.
	length uint64
}

// NewInstance builds an Instance over cb with the given cursor state. It is
// exported for Backend implementations outside this package; ordinary
// callers get instances back from New, NewConst, Concat, or Clone.
func NewInstance(cb *ControlBlock, physPos, firstValid uint64, offsetDiff int64, length uint64) *Instance {
	return &Instance{
		cb:         cb,
		physPos:    physPos,
		firstValid: firstValid,
		offsetDiff: offsetDiff,
		length:     length,
	}
}

// ControlBlock returns the instance's control block. Exported for Backend
// implementations that need to share it with a sibling instance (Clone).
func (ins *Instance) ControlBlock() *ControlBlock {
	return ins.cb
}

// Pos returns the instance's current physical position. Exported for
// Backend implementations.
func (ins *Instance) Pos() uint64 {
	return ins.physPos
}

// FirstValid returns the earliest physical position this instance may seek
// or reset to. Exported for Backend implementations.
func (ins *Instance) FirstValid() uint64 {
	return ins.firstValid
}

// Len returns the backend-coordinate-space length of the region this
// instance can see. Exported for Backend implementations.
func (ins *Instance) Len() uint64 {
	return ins.length
}

// SetPos sets the physical position without validation. Exported for
// Backend implementations that have already validated the move.
func (ins *Instance) SetPos(phys uint64) {
	ins.physPos = phys
}

// SetFirstValid sets the first-valid physical position without validation.
// Exported for Backend implementations.
func (ins *Instance) SetFirstValid(phys uint64) {
	ins.firstValid = phys
}

// logical converts a physical position in this instance's coordinate space
// to the logical position reported to callers.
func (ins *Instance) logical(phys uint64) uint64 {
	return uint64(int64(phys) + ins.offsetDiff)
}

// physical converts a caller-supplied logical position back to this
// instance's physical coordinate space.
func (ins *Instance) physical(logicalPosition uint64) uint64 {
	return uint64(int64(logicalPosition) - ins.offsetDiff)
}

// GetPosition returns the current logical position.
func (ins *Instance) GetPosition() (uint64, error) {
	if ins.cb == nil {
		return 0, ErrNotInitialized
	}
	return ins.logical(ins.physPos), nil
}

// GetRemainingSize returns the number of bytes between the current
// position and the end of the region this instance can see.
func (ins *Instance) GetRemainingSize() (uint64, error) {
	if ins.cb == nil {
		return 0, ErrNotInitialized
	}
	return ins.length - ins.physPos, nil
}

// Read copies up to len(p) bytes starting at the current position into p,
// advancing the position by the number of bytes copied.
//
// Unlike io.Reader, Read rejects a zero-length p with ErrIllegalArgument
// instead of silently returning (0, nil); a caller asking for zero bytes
// from a heterogeneous, possibly lazily generated stream is almost always
// a bug, not a no-op.
func (ins *Instance) Read(p []byte) (int, error) {
	if ins.cb == nil {
		return 0, ErrNotInitialized
	}
	if len(p) == 0 {
		return 0, ErrIllegalArgument
	}
	return ins.cb.backend.Read(ins, p)
}

// SetPosition moves the current position to logicalPosition.
func (ins *Instance) SetPosition(logicalPosition uint64) error {
	if ins.cb == nil {
		return ErrNotInitialized
	}
	return ins.cb.backend.SetPosition(ins, ins.physical(logicalPosition))
}

// Reset moves the current position back to the released frontier.
func (ins *Instance) Reset() error {
	if ins.cb == nil {
		return ErrNotInitialized
	}
	return ins.cb.backend.Reset(ins)
}

// Release advances the released frontier to one past logicalPosition,
// permanently forbidding SetPosition or Reset to any earlier position.
func (ins *Instance) Release(logicalPosition uint64) error {
	if ins.cb == nil {
		return ErrNotInitialized
	}
	return ins.cb.backend.Release(ins, ins.physical(logicalPosition))
}

// Clone creates a new Instance sharing this instance's control block. The
// clone's own current position is reported as logicalOffset.
func (ins *Instance) Clone(logicalOffset uint64) (*Instance, error) {
	if ins.cb == nil {
		return nil, ErrNotInitialized
	}
	return ins.cb.backend.Clone(ins, logicalOffset)
}

// Dispose releases this instance's reference to its control block,
// invoking the control block's release callbacks if this was the last
// reference.
func (ins *Instance) Dispose() error {
	if ins.cb == nil {
		return ErrNotInitialized
	}
	err := ins.cb.backend.Dispose(ins)
	ins.cb = nil
	return err
}

// setPositionLocal performs the bounds check and mutation shared by every
// backend's SetPosition.
func (ins *Instance) setPositionLocal(phys uint64) error {
	if phys < ins.firstValid || phys > ins.length {
		return ErrNoSuchElement
	}
	ins.physPos = phys
	return nil
}

// resetLocal performs the mutation shared by every backend's Reset.
func (ins *Instance) resetLocal() error {
	ins.physPos = ins.firstValid
	return nil
}

// releaseLocal performs the bounds check and mutation shared by every
// backend's Release.
func (ins *Instance) releaseLocal(phys uint64) error {
	if phys >= ins.physPos || phys < ins.firstValid {
		return ErrIllegalArgument
	}
	ins.firstValid = phys + 1
	return nil
}

// cloneBase performs the cursor arithmetic and overflow check shared by
// every backend's Clone, and bumps the shared control block's ref count.
// Backends that need to do additional bookkeeping (the multi-stream
// composer bumps two more counters) call this first and extend its result.
func (ins *Instance) cloneBase(logicalOffset uint64) (*Instance, error) {
	remaining := ins.length - ins.physPos
	if remaining > math.MaxUint64-logicalOffset {
		return nil, ErrIllegalArgument
	}
	ins.cb.IncRef()
	return &Instance{
		cb:         ins.cb,
		physPos:    ins.physPos,
		firstValid: ins.physPos,
		offsetDiff: int64(logicalOffset) - int64(ins.physPos),
		length:     ins.length,
	}, nil
}
