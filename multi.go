// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ustream

import (
	"errors"
	"io"

	"code.hybscloud.com/atomix"
)

// multiBackend is the Backend for a concatenation of two instances. It
// owns the two children directly (not through the generic ref-count
// mechanism alone): each child has its own ref count, incremented on every
// Clone of the parent and decremented on every Dispose, because an N-way
// composition is built from repeated binary Concat calls and each level
// of that tree needs its own lifetime.
//
// lock serializes the (set-position, read) pair against a child instance
// so that two parent clones reading at different logical positions cannot
// corrupt each other's effective position on a shared child. See Read.
type multiBackend struct {
	lock lock

	childOne       *Instance
	childOneRef    atomix.Uint32
	childOneLength uint64

	childTwo       *Instance
	childTwoRef    atomix.Uint32
	childTwoLength uint64
}

// Concat promotes base into a multi-stream instance whose children are
// base-as-it-was and a fresh clone of toAppend. It returns a new *Instance;
// base must not be used again after Concat returns, successful or not — on
// failure the composer state is torn down and base's own control block
// reference is left untouched, but the caller should treat base as
// consumed either way.
//
// Repeated Concat calls build a right-leaning tree: concat(concat(A, B), C)
// reads as A then B then C, matching N-way append via repeated binary
// concatenation.
func Concat(base, toAppend *Instance) (*Instance, error) {
	if base == nil || toAppend == nil || base.cb == nil || toAppend.cb == nil {
		return nil, ErrIllegalArgument
	}

	childOne := &Instance{
		cb:         base.cb,
		physPos:    base.physPos,
		firstValid: base.firstValid,
		offsetDiff: base.offsetDiff,
		length:     base.length,
	}
	childOneLength := base.length

	childTwo, err := toAppend.Clone(childOneLength)
	if err != nil {
		return nil, err
	}

	childTwoRemaining, err := childTwo.GetRemainingSize()
	if err != nil {
		_ = childTwo.Dispose()
		return nil, err
	}

	mb := &multiBackend{
		childOne:       childOne,
		childOneLength: childOneLength,
		childTwo:       childTwo,
		childTwoLength: childTwoRemaining,
	}
	mb.childOneRef.StoreRelaxed(1)
	mb.childTwoRef.StoreRelaxed(1)

	cb := NewControlBlock(mb, func() {
		mb.lock.deinit()
	}, nil)

	return NewInstance(cb, base.physPos, base.firstValid, base.offsetDiff, childOneLength+childTwoRemaining), nil
}

func (mb *multiBackend) activeChild(pos uint64) (*Instance, uint64) {
	if pos < mb.childOneLength {
		return mb.childOne, 0
	}
	return mb.childTwo, mb.childOneLength
}

// Read walks the active child, repositioning it under the composer's lock
// immediately before each child-level read so that a sibling clone's own
// (set-position, read) pair on the same child cannot interleave with this
// one (§4.3.2).
func (mb *multiBackend) Read(ins *Instance, p []byte) (int, error) {
	if ins.physPos >= ins.length {
		return 0, io.EOF
	}

	total := 0
	for total < len(p) {
		pos := ins.physPos + uint64(total)
		if pos >= ins.length {
			break
		}

		child, _ := mb.activeChild(pos)

		mb.lock.acquire()
		if err := child.SetPosition(ins.logical(pos)); err != nil {
			mb.lock.release()
			if total > 0 {
				break
			}
			return 0, err
		}
		n, rerr := child.Read(p[total:])
		mb.lock.release()

		total += n

		if rerr != nil {
			if errors.Is(rerr, io.EOF) {
				if child == mb.childTwo {
					break
				}
				continue
			}
			if total > 0 {
				break
			}
			return 0, rerr
		}
		if n == 0 {
			break
		}
	}

	ins.physPos += uint64(total)
	if total == 0 {
		return 0, io.EOF
	}
	return total, nil
}

// SetPosition walks childOne then childTwo, positioning whichever one phys
// targets and moving the other out of the way (childTwo is reset to its
// own frontier if phys falls in childOne; childOne is moved to its own end
// if phys falls in childTwo), exactly as §4.3.3 requires. This is deliberately NOT a
// local-only bounds check against ins's own firstValid/length: childOne
// and childTwo are shared with every sibling clone of this composer (see
// the multiBackend doc comment), so a sibling's Release can move a
// child's real firstValid forward without this instance's own bookkeeping
// knowing about it. Delegating to the children's own SetPosition/Reset is
// what makes that now-invalid position surface as ErrNoSuchElement here,
// instead of succeeding locally and only failing later inside Read.
func (mb *multiBackend) SetPosition(ins *Instance, phys uint64) error {
	if phys < ins.firstValid || phys > ins.length {
		return ErrNoSuchElement
	}

	mb.lock.acquire()

	prevOne, err := mb.childOne.GetPosition()
	if err != nil {
		mb.lock.release()
		return err
	}

	if phys < mb.childOneLength {
		if err := mb.childOne.SetPosition(ins.logical(phys)); err != nil {
			mb.lock.release()
			return err
		}
		if err := mb.childTwo.Reset(); err != nil {
			_ = mb.childOne.SetPosition(prevOne)
			mb.lock.release()
			return err
		}
	} else {
		if err := mb.childOne.SetPosition(ins.logical(mb.childOneLength)); err != nil {
			mb.lock.release()
			return err
		}
		if err := mb.childTwo.SetPosition(ins.logical(phys)); err != nil {
			_ = mb.childOne.SetPosition(prevOne)
			mb.lock.release()
			return err
		}
	}

	mb.lock.release()
	ins.physPos = phys
	return nil
}

func (mb *multiBackend) Reset(ins *Instance) error {
	mb.lock.acquire()
	prevOne, err := mb.childOne.GetPosition()
	if err != nil {
		mb.lock.release()
		return err
	}
	if err := mb.childOne.Reset(); err != nil {
		mb.lock.release()
		return err
	}
	if err := mb.childTwo.Reset(); err != nil {
		_ = mb.childOne.SetPosition(prevOne)
		mb.lock.release()
		return err
	}
	mb.lock.release()
	return ins.resetLocal()
}

func (mb *multiBackend) Release(ins *Instance, phys uint64) error {
	if phys >= ins.physPos || phys < ins.firstValid {
		return ErrIllegalArgument
	}

	logical := ins.logical(phys)
	boundaryLogical := ins.logical(mb.childOneLength)

	mb.lock.acquire()
	var err error
	if logical < boundaryLogical {
		err = releaseIgnoringBookkeeping(mb.childOne, logical)
	} else {
		err = releaseIgnoringBookkeeping(mb.childOne, boundaryLogical-1)
		if err == nil {
			err = releaseIgnoringBookkeeping(mb.childTwo, logical)
		}
	}
	mb.lock.release()
	if err != nil {
		return err
	}

	return ins.releaseLocal(phys)
}

// releaseIgnoringBookkeeping releases child up to logicalPosition, treating
// ErrIllegalArgument (the position is already covered by the child's own
// frontier, or the child hasn't been read that far yet, so there is
// nothing to release there) and ErrNoSuchElement as no-ops rather than
// failures: the parent's
// own releaseLocal call is what actually enforces the release contract for
// the caller-visible position.
func releaseIgnoringBookkeeping(child *Instance, logicalPosition uint64) error {
	err := child.Release(logicalPosition)
	if err != nil && !errors.Is(err, ErrNoSuchElement) && !errors.Is(err, ErrIllegalArgument) {
		return err
	}
	return nil
}

func (mb *multiBackend) Clone(ins *Instance, logicalOffset uint64) (*Instance, error) {
	clone, err := ins.cloneBase(logicalOffset)
	if err != nil {
		return nil, err
	}
	mb.childOneRef.AddAcqRel(1)
	mb.childTwoRef.AddAcqRel(1)
	return clone, nil
}

func (mb *multiBackend) Dispose(ins *Instance) error {
	if mb.childOneRef.AddAcqRel(^uint32(0)) == 0 {
		_ = mb.childOne.Dispose()
	}
	if mb.childTwoRef.AddAcqRel(^uint32(0)) == 0 {
		_ = mb.childTwo.Dispose()
	}
	ins.cb.DecRef()
	return nil
}
