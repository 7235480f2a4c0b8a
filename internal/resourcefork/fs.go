// Copyright (c) Elliot Nunn
// Licensed under the MIT license

package resourcefork

import (
	"io/fs"
	"strconv"
	"strings"
	"time"
)

// FS is a read-only view of a File: each type is a directory,
// holding a file named by the decimal ID of each resource.
// File content is decompressed, and reads fail if decompression does.
type FS struct {
	file    *File
	types   map[string]Type // by PathName
	ModTime time.Time
}

func (f *File) FS() *FS {
	types := make(map[string]Type, len(f.types))
	for _, t := range f.types {
		if _, ok := types[t.PathName()]; !ok {
			types[t.PathName()] = t
		}
	}
	return &FS{file: f, types: types}
}

// pattern is "TYPE/ID"
func (fsys *FS) Open(name string) (fs.File, error) {
	if !fs.ValidPath(name) {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrInvalid}
	}
	if name == "." {
		return fsys.root(), nil
	}

	typename, idstr, hasID := strings.Cut(name, "/")
	t, ok := fsys.types[typename]
	if !ok {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
	}
	if !hasID {
		return fsys.typeDir(t), nil
	}

	id, err := strconv.ParseInt(idstr, 10, 16)
	if err != nil || strconv.FormatInt(id, 10) != idstr {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
	}
	r, ok := fsys.file.Lookup(t, int16(id))
	if !ok {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
	}
	return fsys.resourceFile(r), nil
}
