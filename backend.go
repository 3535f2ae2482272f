// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ustream

// Backend is the vtable a concrete stream implementation provides. It is
// exported so third parties can author their own backends (a network
// fetch, a decompressor, a lazily generated sequence) and hand callers an
// *Instance built with NewInstance/NewControlBlock exactly the way the
// in-memory and multi-stream backends in this package do.
//
// Every method receives the Instance it was called through, since a single
// Backend value is shared by every Instance descending from one control
// block (the multi-stream composer is the clearest example: one
// multiBackend, many clones, each with its own cursor).
//
// GetPosition and GetRemainingSize are not part of this interface: they
// are pure cursor arithmetic, identical for every backend, and are
// implemented once on *Instance directly.
type Backend interface {
	// Read copies into p starting at ins's current position, advances
	// ins's position by the number of bytes copied, and returns that
	// count. It returns io.EOF once ins's position reaches the end of the
	// region ins can see.
	Read(ins *Instance, p []byte) (int, error)

	// SetPosition moves ins's current position to phys, a position in
	// ins's own coordinate space (already translated from the logical
	// position the caller supplied).
	SetPosition(ins *Instance, phys uint64) error

	// Reset moves ins's current position back to its released frontier.
	Reset(ins *Instance) error

	// Release advances ins's released frontier to phys+1.
	Release(ins *Instance, phys uint64) error

	// Clone creates a new Instance sharing ins's control block, reporting
	// logicalOffset as its first logical position.
	Clone(ins *Instance, logicalOffset uint64) (*Instance, error)

	// Dispose releases ins's reference to its control block.
	Dispose(ins *Instance) error
}
