// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Command ustreamdemo builds two in-memory streams, concatenates them, and
// prints the result a few bytes at a time, mirroring the library's basic
// read/reset/dispose lifecycle.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"code.hybscloud.com/ustream"
)

const userBufferSize = 5

func printUstream(u *ustream.Instance) error {
	fmt.Println("\n------printing the ustream------")
	buf := make([]byte, userBufferSize)
	for {
		n, err := u.Read(buf)
		if n > 0 {
			fmt.Print(string(buf[:n]))
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return err
		}
	}
	fmt.Println("\n-----------end of ustream------------")
	return nil
}

func run() error {
	one, err := ustream.New([]byte("Split Before"), nil)
	if err != nil {
		return fmt.Errorf("could not build first stream: %w", err)
	}
	two, err := ustream.New([]byte("Split After"), nil)
	if err != nil {
		return fmt.Errorf("could not build second stream: %w", err)
	}

	merged, err := ustream.Concat(one, two)
	if err != nil {
		return fmt.Errorf("could not concat streams: %w", err)
	}
	defer merged.Dispose()

	if err := printUstream(merged); err != nil {
		return fmt.Errorf("could not print merged stream: %w", err)
	}

	if err := merged.Reset(); err != nil {
		return fmt.Errorf("could not reset merged stream: %w", err)
	}

	clone, err := merged.Clone(0)
	if err != nil {
		return fmt.Errorf("could not clone merged stream: %w", err)
	}
	defer clone.Dispose()

	if err := printUstream(clone); err != nil {
		return fmt.Errorf("could not print cloned stream: %w", err)
	}

	return nil
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
