// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ustream

import "io"

// memoryBackend is the in-memory Backend: a plain byte slice shared by
// every Instance descending from the same New/NewConst call, released via
// dataRelease (New only) at the final Dispose. The slice itself never
// moves or mutates; each Instance's own cursor fields do all the work.
type memoryBackend struct {
	data []byte
}

// New builds an Instance that takes ownership of data: every Instance
// descending from it reads data directly, with no copy, so the caller must
// not mutate it for as long as any of them is alive. dataRelease, which may
// be nil, is invoked exactly once, with no arguments, when the last such
// Instance disposes — the idiomatic replacement for the C
// "void (*)(void* release_pointer)" signature, since a Go closure already
// captures data itself instead of needing an opaque pointer threaded
// through.
func New(data []byte, dataRelease func()) (*Instance, error) {
	if data == nil {
		return nil, ErrIllegalArgument
	}
	return newMemoryInstance(data, dataRelease), nil
}

// NewConst builds an Instance directly over data without copying it and
// without any release callback: the region is assumed to be static, or to
// otherwise outlive every Instance (and clone) derived from it.
func NewConst(data []byte) (*Instance, error) {
	if data == nil {
		return nil, ErrIllegalArgument
	}
	return newMemoryInstance(data, nil), nil
}

func newMemoryInstance(data []byte, dataRelease func()) *Instance {
	cb := NewControlBlock(&memoryBackend{data: data}, dataRelease, nil)
	return NewInstance(cb, 0, 0, 0, uint64(len(data)))
}

func (b *memoryBackend) Read(ins *Instance, p []byte) (int, error) {
	if ins.physPos >= ins.length {
		return 0, io.EOF
	}
	n := copy(p, b.data[ins.physPos:ins.length])
	ins.physPos += uint64(n)
	return n, nil
}

func (b *memoryBackend) SetPosition(ins *Instance, phys uint64) error {
	return ins.setPositionLocal(phys)
}

func (b *memoryBackend) Reset(ins *Instance) error {
	return ins.resetLocal()
}

func (b *memoryBackend) Release(ins *Instance, phys uint64) error {
	return ins.releaseLocal(phys)
}

func (b *memoryBackend) Clone(ins *Instance, logicalOffset uint64) (*Instance, error) {
	return ins.cloneBase(logicalOffset)
}

func (b *memoryBackend) Dispose(ins *Instance) error {
	ins.cb.DecRef()
	return nil
}
