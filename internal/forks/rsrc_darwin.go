// Copyright (c) Elliot Nunn
// Licensed under the MIT license

package forks

import (
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

func nativeResourceFork(name string) (io.ReaderAt, int64, io.Closer, error) {
	f, err := os.Open(filepath.Join(name, "..namedfork", "rsrc"))
	if err != nil {
		return nil, 0, nil, err
	}
	stat, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, 0, nil, err
	}
	if stat.Size() == 0 {
		// Every file has a resource fork here, most are empty
		f.Close()
		return nil, 0, nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
	}
	return f, stat.Size(), f, nil
}
