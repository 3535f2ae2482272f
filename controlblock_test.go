// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ustream

import "testing"

// stubBackend is a minimal Backend used only to exercise ControlBlock ref
// counting in isolation from any real data source.
type stubBackend struct{}

func (stubBackend) Read(*Instance, []byte) (int, error)        { return 0, ErrNotSupported }
func (stubBackend) SetPosition(*Instance, uint64) error        { return ErrNotSupported }
func (stubBackend) Reset(*Instance) error                      { return ErrNotSupported }
func (stubBackend) Release(*Instance, uint64) error            { return ErrNotSupported }
func (stubBackend) Clone(*Instance, uint64) (*Instance, error) { return nil, ErrNotSupported }
func (stubBackend) Dispose(*Instance) error                    { return nil }

// TestControlBlockRefCountZeroInvokesCallbacksOnce covers invariant 7: both
// release callbacks run exactly once, in order, at the zero transition.
func TestControlBlockRefCountZeroInvokesCallbacksOnce(t *testing.T) {
	var dataReleases, controlBlockReleases int
	var order []string

	cb := NewControlBlock(stubBackend{}, func() {
		dataReleases++
		order = append(order, "data")
	}, func() {
		controlBlockReleases++
		order = append(order, "controlBlock")
	})

	cb.IncRef()
	cb.IncRef()

	cb.DecRef()
	if dataReleases != 0 || controlBlockReleases != 0 {
		t.Fatalf("callbacks fired early: data=%d controlBlock=%d", dataReleases, controlBlockReleases)
	}

	cb.DecRef()
	if dataReleases != 0 || controlBlockReleases != 0 {
		t.Fatalf("callbacks fired early: data=%d controlBlock=%d", dataReleases, controlBlockReleases)
	}

	cb.DecRef()
	if dataReleases != 1 || controlBlockReleases != 1 {
		t.Fatalf("callbacks fired data=%d controlBlock=%d, want 1 each", dataReleases, controlBlockReleases)
	}
	if len(order) != 2 || order[0] != "data" || order[1] != "controlBlock" {
		t.Fatalf("callback order = %v, want [data controlBlock]", order)
	}
}

// TestControlBlockNilCallbacksAreSkipped checks that nil release callbacks
// are simply skipped rather than panicking.
func TestControlBlockNilCallbacksAreSkipped(t *testing.T) {
	cb := NewControlBlock(stubBackend{}, nil, nil)
	cb.DecRef() // must not panic
	if cb.RefCount() != 0 {
		t.Fatalf("RefCount() = %d, want 0", cb.RefCount())
	}
}
