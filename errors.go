// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ustream

import (
	"errors"
	"io"

	"code.hybscloud.com/iox"
)

// The result taxonomy is a closed set of sentinel errors. Every fallible
// operation in this package returns one of these, or nil, or io.EOF.
//
// io.EOF is reused directly for the end-of-data outcome rather than a
// package-local sentinel, so *Instance and *Forward behave the way callers
// expect of an io.Reader (io.Copy, bufio.NewReader, and friends all
// special-case io.EOF). Every other outcome is a sentinel defined here.
var (
	// ErrIllegalArgument is returned when a caller passes a position that
	// would overflow, an empty output buffer where a positive one is
	// required, or an offset that is otherwise malformed.
	ErrIllegalArgument = errors.New("ustream: illegal argument")

	// ErrNoSuchElement is returned by SetPosition when the requested
	// position falls outside [firstValid, length]. Release reports an
	// out-of-window position with ErrIllegalArgument instead.
	ErrNoSuchElement = errors.New("ustream: no such element")

	// ErrOutOfMemory is available to a backend that must allocate and
	// cannot. None of this package's own backends return it: Concat's
	// composer state is an ordinary Go allocation.
	ErrOutOfMemory = errors.New("ustream: out of memory")

	// ErrBusy indicates a backend-internal resource is temporarily
	// unavailable. Alias of iox.ErrWouldBlock: both mean "retry later,
	// this is not a failure."
	ErrBusy = iox.ErrWouldBlock

	// ErrCanceled indicates a dependent external call was canceled.
	ErrCanceled = errors.New("ustream: canceled")

	// ErrNotEnoughSpace indicates a backend-internal fetch could not be
	// satisfied with the memory available to it.
	ErrNotEnoughSpace = errors.New("ustream: not enough space")

	// ErrSecurity indicates a backend-internal operation was refused on
	// security grounds.
	ErrSecurity = errors.New("ustream: security")

	// ErrSystemError indicates any other backend-internal failure.
	ErrSystemError = errors.New("ustream: system error")

	// ErrNotSupported indicates the operation is not implemented by a
	// backend. None of this package's own backends return it; Forward
	// simply has no Clone method.
	ErrNotSupported = errors.New("ustream: not supported")

	// ErrNotInitialized indicates the instance or control block has not
	// been built through a constructor, or has already been disposed.
	ErrNotInitialized = errors.New("ustream: not initialized")
)

// IsBusy reports whether err indicates the operation should be retried
// rather than treated as a failure. Delegates to iox.IsWouldBlock, since
// ErrBusy is an alias of iox.ErrWouldBlock.
func IsBusy(err error) bool {
	return iox.IsWouldBlock(err)
}

// IsEOF reports whether err is io.EOF, wrapped or not.
func IsEOF(err error) bool {
	return errors.Is(err, io.EOF)
}

// IsNoSuchElement reports whether err is ErrNoSuchElement, wrapped or not.
func IsNoSuchElement(err error) bool {
	return errors.Is(err, ErrNoSuchElement)
}

// IsIllegalArgument reports whether err is ErrIllegalArgument, wrapped or
// not.
func IsIllegalArgument(err error) bool {
	return errors.Is(err, ErrIllegalArgument)
}
