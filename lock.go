// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ustream

import (
	"code.hybscloud.com/atomix"
	"code.hybscloud.com/spin"
)

const (
	lockUnlocked uint32 = 0
	lockLocked   uint32 = 1
)

// lock is the one mutual-exclusion primitive this package needs: the
// multi-stream composer serializes the (reposition child, read child) pair
// across sibling instances that share the same two children (see multi.go).
// It is built from a CAS flag plus a spin-wait backoff, the same pair of
// primitives this module's lineage uses for every lock-free retry loop,
// rather than sync.Mutex.
type lock struct {
	state atomix.Uint32
}

// acquire blocks the calling goroutine until it holds the lock.
func (l *lock) acquire() {
	var w spin.Wait
	for !l.state.CompareAndSwapAcqRel(lockUnlocked, lockLocked) {
		w.Once()
	}
}

// release releases a lock held by the calling goroutine.
func (l *lock) release() {
	l.state.StoreRelease(lockUnlocked)
}

// deinit clears the lock's state. It is a no-op under Go's garbage
// collector but keeps the init/acquire/release/deinit shape of the
// collaborator this type stands in for.
func (l *lock) deinit() {
	l.state.StoreRelease(lockUnlocked)
}
