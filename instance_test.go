// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ustream_test

import (
	"errors"
	"io"
	"math"
	"testing"

	"code.hybscloud.com/ustream"
)

const alphaNum = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

// mustNew builds an owning Instance over data with no release callback,
// failing the test on error. Most tests in this package don't care about
// dataRelease; memory_test.go exercises that wiring directly.
func mustNew(t *testing.T, data []byte) *ustream.Instance {
	t.Helper()
	u, err := ustream.New(data, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return u
}

// TestBasicRead covers S1: repeated small reads reproduce the source bytes
// exactly, with EOF observed exactly once with a zero count.
func TestBasicRead(t *testing.T) {
	u := mustNew(t, []byte(alphaNum))
	defer u.Dispose()

	var got []byte
	buf := make([]byte, 4)
	eofCount := 0
	for {
		n, err := u.Read(buf)
		got = append(got, buf[:n]...)
		if errors.Is(err, io.EOF) {
			eofCount++
			if n != 0 {
				t.Fatalf("EOF read returned n=%d, want 0", n)
			}
			break
		}
		if err != nil {
			t.Fatalf("Read: %v", err)
		}
	}
	if string(got) != alphaNum {
		t.Fatalf("got %q, want %q", got, alphaNum)
	}
	if eofCount != 1 {
		t.Fatalf("EOF observed %d times, want 1", eofCount)
	}
}

// TestReleaseThenResetFails covers S2.
func TestReleaseThenResetFails(t *testing.T) {
	u := mustNew(t, []byte(alphaNum))
	defer u.Dispose()

	buf := make([]byte, 20)
	if _, err := u.Read(buf); err != nil {
		t.Fatalf("Read: %v", err)
	}

	if err := u.Release(9); err != nil {
		t.Fatalf("Release(9): %v", err)
	}

	if err := u.SetPosition(0); !errors.Is(err, ustream.ErrNoSuchElement) {
		t.Fatalf("SetPosition(0) = %v, want ErrNoSuchElement", err)
	}

	if err := u.Reset(); err != nil {
		t.Fatalf("Reset: %v", err)
	}

	got := make([]byte, 10)
	n, err := u.Read(got)
	if err != nil {
		t.Fatalf("Read after reset: %v", err)
	}
	if n != 10 || string(got) != "ABCDEFGHIJ" {
		t.Fatalf("got %q (n=%d), want %q (n=10)", got[:n], n, "ABCDEFGHIJ")
	}
}

// TestPositionMonotonicity covers invariant 2.
func TestPositionMonotonicity(t *testing.T) {
	u := mustNew(t, []byte(alphaNum))
	defer u.Dispose()

	start, err := u.GetPosition()
	if err != nil {
		t.Fatalf("GetPosition: %v", err)
	}

	var total uint64
	buf := make([]byte, 7)
	for i := 0; i < 3; i++ {
		n, err := u.Read(buf)
		if err != nil {
			t.Fatalf("Read: %v", err)
		}
		total += uint64(n)
	}

	pos, err := u.GetPosition()
	if err != nil {
		t.Fatalf("GetPosition: %v", err)
	}
	if pos != start+total {
		t.Fatalf("GetPosition = %d, want %d", pos, start+total)
	}
}

// TestReleaseIdempotenceOfContent covers invariant 4.
func TestReleaseIdempotenceOfContent(t *testing.T) {
	u := mustNew(t, []byte(alphaNum))
	defer u.Dispose()

	buf := make([]byte, 30)
	if _, err := u.Read(buf); err != nil {
		t.Fatalf("Read: %v", err)
	}

	if err := u.Release(14); err != nil {
		t.Fatalf("Release(14): %v", err)
	}
	if err := u.Reset(); err != nil {
		t.Fatalf("Reset: %v", err)
	}

	pos, err := u.GetPosition()
	if err != nil {
		t.Fatalf("GetPosition: %v", err)
	}
	if pos != 15 {
		t.Fatalf("GetPosition after reset = %d, want 15", pos)
	}

	got := make([]byte, 5)
	n, err := u.Read(got)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if string(got[:n]) != alphaNum[15:20] {
		t.Fatalf("got %q, want %q", got[:n], alphaNum[15:20])
	}
}

// TestReleaseRejectsOutOfRange exercises the boundary conditions of
// Release directly: at-or-after the current position, and re-releasing
// something already covered by the frontier.
func TestReleaseRejectsOutOfRange(t *testing.T) {
	u := mustNew(t, []byte(alphaNum))
	defer u.Dispose()

	buf := make([]byte, 10)
	if _, err := u.Read(buf); err != nil {
		t.Fatalf("Read: %v", err)
	}

	if err := u.Release(10); !errors.Is(err, ustream.ErrIllegalArgument) {
		t.Fatalf("Release(10) (at current position) = %v, want ErrIllegalArgument", err)
	}

	if err := u.Release(3); err != nil {
		t.Fatalf("Release(3): %v", err)
	}
	if err := u.Release(1); !errors.Is(err, ustream.ErrIllegalArgument) {
		t.Fatalf("Release(1) (already released) = %v, want ErrIllegalArgument", err)
	}
}

// TestReadRejectsEmptyBuffer documents the one deliberate deviation from
// io.Reader's zero-length-buffer convention.
func TestReadRejectsEmptyBuffer(t *testing.T) {
	u := mustNew(t, []byte(alphaNum))
	defer u.Dispose()

	_, err := u.Read(nil)
	if !errors.Is(err, ustream.ErrIllegalArgument) {
		t.Fatalf("Read(nil) = %v, want ErrIllegalArgument", err)
	}
}

// TestCloneOverflowRefusal covers invariant 8.
func TestCloneOverflowRefusal(t *testing.T) {
	u := mustNew(t, []byte("hello"))
	defer u.Dispose()

	_, err := u.Clone(math.MaxUint64 - 2)
	if !errors.Is(err, ustream.ErrIllegalArgument) {
		t.Fatalf("Clone with overflowing offset = %v, want ErrIllegalArgument", err)
	}
}

// TestDisposeAfterDisposeIsNotInitialized checks that an instance cannot be
// used again after Dispose.
func TestDisposeAfterDisposeIsNotInitialized(t *testing.T) {
	u := mustNew(t, []byte("hello"))
	if err := u.Dispose(); err != nil {
		t.Fatalf("Dispose: %v", err)
	}
	if _, err := u.GetPosition(); !errors.Is(err, ustream.ErrNotInitialized) {
		t.Fatalf("GetPosition after Dispose = %v, want ErrNotInitialized", err)
	}
}
