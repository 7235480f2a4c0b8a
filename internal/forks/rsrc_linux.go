//go:build linux

// Copyright (c) Elliot Nunn
// Licensed under the MIT license

package forks

import (
	"bytes"
	"errors"
	"io"
	"io/fs"

	"golang.org/x/sys/unix"
)

// Copies from a Mac, and netatalk shares, keep the fork in an attribute.
var forkAttrs = []string{
	"user.com.apple.ResourceFork",
	"user.org.netatalk.ResourceFork",
}

func nativeResourceFork(name string) (io.ReaderAt, int64, io.Closer, error) {
	for _, attr := range forkAttrs {
		data, err := getxattr(name, attr)
		if errors.Is(err, unix.ENODATA) || errors.Is(err, unix.ENOTSUP) {
			continue
		} else if err != nil {
			return nil, 0, nil, &fs.PathError{Op: "getxattr", Path: name, Err: err}
		}
		return bytes.NewReader(data), int64(len(data)), nil, nil
	}
	return nil, 0, nil, &fs.PathError{Op: "getxattr", Path: name, Err: fs.ErrNotExist}
}

func getxattr(name, attr string) ([]byte, error) {
	for {
		n, err := unix.Getxattr(name, attr, nil)
		if err != nil {
			return nil, err
		}
		buf := make([]byte, n)
		n, err = unix.Getxattr(name, attr, buf)
		if errors.Is(err, unix.ERANGE) {
			continue // grew in between
		} else if err != nil {
			return nil, err
		}
		return buf[:n], nil
	}
}
