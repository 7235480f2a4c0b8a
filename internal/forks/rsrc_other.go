//go:build !darwin && !linux

// Copyright (c) Elliot Nunn
// Licensed under the MIT license

package forks

import (
	"io"
	"io/fs"
)

func nativeResourceFork(name string) (io.ReaderAt, int64, io.Closer, error) {
	return nil, 0, nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
}
