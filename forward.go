// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ustream

import "io"

// forwardBackend is the vtable a forward (non-rewindable) data source
// implements. It is deliberately narrower than Backend: there is no
// SetPosition, Reset, Release, or Clone, because forward data is consumed
// exactly once and never revisited.
type forwardBackend interface {
	// read behaves like Backend.Read over a single region.
	read(fw *Forward, p []byte) (int, error)

	// flush hands the remaining region to push, a single (in-memory) or
	// repeated (streamed-from-elsewhere) zero-copy view, returning io.EOF
	// once the source is exhausted.
	flush(fw *Forward, push func(view []byte, ctx any) error, ctx any) error

	remainingSize(fw *Forward) (uint64, error)

	dispose(fw *Forward) error
}

// Forward is a non-rewindable cursor: once a byte is read or flushed it
// cannot be seen again. It shares the same reference-counted control-block
// shape as Instance, but the lack of Clone means its ref count normally
// stays at one.
//
// Forward is not safe for concurrent use by multiple goroutines.
type Forward struct {
	cb      *ControlBlock
	backend forwardBackend
	physPos uint64
	length  uint64
}

// NewForward builds a Forward that takes ownership of data: it reads data
// directly, with no copy, so the caller must not mutate it for as long as
// the Forward is alive. dataRelease, which may be nil, is invoked exactly
// once when the Forward disposes, mirroring New's owning-init contract for
// the rewindable in-memory backend (§4.4 reuses the control block's
// two-phase release as-is).
func NewForward(data []byte, dataRelease func()) (*Forward, error) {
	if data == nil {
		return nil, ErrIllegalArgument
	}
	return newForwardInstance(data, dataRelease), nil
}

func newForwardInstance(data []byte, dataRelease func()) *Forward {
	b := &memoryForwardBackend{data: data}
	fw := &Forward{backend: b, length: uint64(len(data))}
	fw.cb = NewControlBlock(nil, dataRelease, nil)
	return fw
}

// Read copies up to len(p) bytes starting at the current position into p,
// advancing past them permanently.
func (fw *Forward) Read(p []byte) (int, error) {
	if fw.cb == nil {
		return 0, ErrNotInitialized
	}
	if len(p) == 0 {
		return 0, ErrIllegalArgument
	}
	return fw.backend.read(fw, p)
}

// Flush hands the remaining, unread region to push as one or more
// zero-copy views, returning io.EOF once the source is exhausted.
func (fw *Forward) Flush(push func(view []byte, ctx any) error, ctx any) error {
	if fw.cb == nil {
		return ErrNotInitialized
	}
	return fw.backend.flush(fw, push, ctx)
}

// GetRemainingSize returns the number of bytes not yet read or flushed.
func (fw *Forward) GetRemainingSize() (uint64, error) {
	if fw.cb == nil {
		return 0, ErrNotInitialized
	}
	return fw.backend.remainingSize(fw)
}

// Dispose releases fw's reference to its control block.
func (fw *Forward) Dispose() error {
	if fw.cb == nil {
		return ErrNotInitialized
	}
	err := fw.backend.dispose(fw)
	fw.cb = nil
	return err
}

// memoryForwardBackend is the in-memory forwardBackend: a single resident
// region, flushed in exactly one call.
type memoryForwardBackend struct {
	data []byte
}

func (b *memoryForwardBackend) read(fw *Forward, p []byte) (int, error) {
	if fw.physPos >= fw.length {
		return 0, io.EOF
	}
	n := copy(p, b.data[fw.physPos:fw.length])
	fw.physPos += uint64(n)
	return n, nil
}

func (b *memoryForwardBackend) flush(fw *Forward, push func(view []byte, ctx any) error, ctx any) error {
	if fw.physPos >= fw.length {
		if err := push(nil, ctx); err != nil {
			return err
		}
		return io.EOF
	}
	view := b.data[fw.physPos:fw.length]
	fw.physPos = fw.length
	return push(view, ctx)
}

func (b *memoryForwardBackend) remainingSize(fw *Forward) (uint64, error) {
	return fw.length - fw.physPos, nil
}

func (b *memoryForwardBackend) dispose(fw *Forward) error {
	fw.cb.DecRef()
	return nil
}
