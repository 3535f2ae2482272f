// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package ustream provides a heterogeneous, immutable, reference-counted
// streaming byte buffer.
//
// A ustream instance is a pull-based cursor over data that may come from
// anywhere: a resident byte slice, the concatenation of two other
// instances, or a third-party backend that fetches, decompresses, or
// generates bytes lazily. The data itself never changes; what moves is
// each instance's own cursor.
//
// # Quick Start
//
//	u, err := ustream.New([]byte("Hello, World!"), nil)
//	if err != nil {
//	    // ...
//	}
//	defer u.Dispose()
//
//	buf := make([]byte, 5)
//	for {
//	    n, err := u.Read(buf)
//	    if err == io.EOF {
//	        break
//	    }
//	    if err != nil {
//	        // unexpected error
//	    }
//	    process(buf[:n])
//	}
//
// # Cloning
//
// Clone produces an independent cursor sharing the same underlying data,
// starting at the donor's current position and reporting logicalOffset as
// its own first logical position:
//
//	v, err := u.Clone(0)
//	if err != nil {
//	    // ...
//	}
//	defer v.Dispose()
//
// Two instances sharing a control block may be read concurrently from
// different goroutines; a single instance must never be used concurrently
// from more than one goroutine at a time.
//
// # Concatenation
//
// Concat composes two instances into one logical stream without copying
// either one's data:
//
//	merged, err := ustream.Concat(a, b)
//	if err != nil {
//	    // a is untouched; neither a nor b is disposed
//	}
//	// a must not be used again; merged owns it now. merged holds its
//	// own clone of b, so b stays usable and is still disposed by the caller.
//
// Repeated Concat calls build an N-way composition one binary join at a
// time: concat(concat(a, b), c) reads as a, then b, then c.
//
// # Releasing
//
// Release advances an instance's released frontier, permanently forbidding
// SetPosition or Reset to any earlier position. This lets a backend that
// streams from a finite buffer (or that must account for memory use)
// reclaim bytes the caller has promised never to revisit:
//
//	n, _ := u.Read(buf)
//	pos, _ := u.GetPosition()
//	u.Release(pos - 1) // everything up to and including pos-1 is gone
//
// # Forward streams
//
// Forward is a separate, narrower type for data that is consumed exactly
// once: no SetPosition, Reset, Release, or Clone. Flush hands the
// remaining region to a callback as one or more zero-copy views:
//
//	fw, err := ustream.NewForward(payload, nil)
//	if err != nil {
//	    // ...
//	}
//	defer fw.Dispose()
//	err = fw.Flush(func(view []byte, ctx any) error {
//	    return socket.Write(view)
//	}, nil)
//
// # Error Handling
//
// Every fallible operation returns one of a closed set of sentinel errors,
// or io.EOF for end of data, or nil. [ErrBusy] is sourced from
// [code.hybscloud.com/iox] for ecosystem consistency with the rest of this
// module's lineage:
//
//	n, err := u.Read(buf)
//	switch {
//	case err == nil, errors.Is(err, io.EOF):
//	    // n bytes are valid
//	case ustream.IsBusy(err):
//	    // backend-internal resource busy, retry later
//	default:
//	    // unexpected error
//	}
//
// # Authoring a Backend
//
// Third parties can implement [Backend] and build instances with
// [NewControlBlock] and [NewInstance] exactly the way the in-memory and
// multi-stream backends in this package do. The narrower forward vtable is
// unexported: a [Forward] can only be built over a resident byte slice with
// [NewForward]. The eight-operation surface from
// the source this package implements collapses to six methods here:
// GetPosition and GetRemainingSize are pure cursor arithmetic and are
// implemented once, generically, on *Instance.
//
// # Concurrency
//
// The core is synchronous and caller-threaded: every operation runs to
// completion on the calling goroutine. A single instance must not be used
// concurrently from multiple goroutines; this is a contract, not something
// detected at runtime. Distinct instances sharing a control block may be
// used concurrently, provided the backend is re-entrant — the in-memory
// and forward backends are (read-only over their data); the multi-stream
// composer is, because of its internal lock, which serializes the
// (set-position, read) pair against a shared child instance so that a
// sibling clone's own positioning cannot corrupt it.
//
// Go's race detector does not observe the happens-before edges of the
// composer's atomics-based spinlock. The concurrency stress test that
// relies on that lock alone skips itself when [RaceEnabled] is true.
//
// # Dependencies
//
// This package uses [code.hybscloud.com/atomix] for the atomic reference
// count and the composer's spinlock state, [code.hybscloud.com/spin] for
// the spinlock's backoff, and [code.hybscloud.com/iox] for [ErrBusy].
package ustream
