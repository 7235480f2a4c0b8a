// Copyright (c) Elliot Nunn
// Licensed under the MIT license

package resourcefork

import (
	"bytes"
	"io"
	"io/fs"
	"strconv"
	"sync"
	"time"
)

// node is the fs.FileInfo and fs.DirEntry of everything in the tree.
type node struct {
	name  string
	mode  fs.FileMode
	size  int64
	mtime time.Time
	sys   any
}

func (n node) Name() string               { return n.name }
func (n node) IsDir() bool                { return n.mode.IsDir() }
func (n node) Type() fs.FileMode          { return n.mode.Type() }
func (n node) Info() (fs.FileInfo, error) { return n, nil }
func (n node) Size() int64                { return n.size }
func (n node) Mode() fs.FileMode          { return n.mode }
func (n node) ModTime() time.Time         { return n.mtime }
func (n node) Sys() any                   { return n.sys }

// dir lists the types at the root, or the resources of one type.
type dir struct {
	node
	fsys *FS
	typ  *Type // nil at the root
	next int
}

func (fsys *FS) root() *dir {
	return &dir{node: node{name: ".", mode: fs.ModeDir | 0o555, mtime: fsys.ModTime}, fsys: fsys}
}

func (fsys *FS) typeDir(t Type) *dir {
	return &dir{node: node{name: t.PathName(), mode: fs.ModeDir | 0o555, mtime: fsys.ModTime}, fsys: fsys, typ: &t}
}

func (d *dir) Stat() (fs.FileInfo, error) { return d.node, nil }
func (d *dir) Close() error               { return nil }

func (d *dir) Read([]byte) (int, error) {
	return 0, &fs.PathError{Op: "read", Path: d.name, Err: fs.ErrInvalid}
}

func (d *dir) ReadDir(count int) ([]fs.DirEntry, error) {
	f := d.fsys.file
	total := len(f.types)
	if d.typ != nil {
		total = len(f.res[*d.typ])
	}
	n := total - d.next
	if count > 0 {
		if n == 0 {
			return nil, io.EOF
		}
		n = min(n, count)
	}

	list := make([]fs.DirEntry, n)
	for i := range list {
		if d.typ == nil {
			list[i] = d.fsys.typeDir(f.types[d.next+i]).node
		} else {
			list[i] = d.fsys.resourceFile(f.res[*d.typ][d.next+i]).node
		}
	}
	d.next += n
	return list, nil
}

// resourceFile reads decompressed data, which is only produced on first use.
type resourceFile struct {
	node
	data func() (*bytes.Reader, error)
}

func (fsys *FS) resourceFile(r *Resource) *resourceFile {
	var size int64
	if n, err := r.Length(); err == nil {
		size = int64(n)
	}
	return &resourceFile{
		node: node{name: strconv.Itoa(int(r.ID)), mode: 0o444, size: size, mtime: fsys.ModTime, sys: r},
		data: sync.OnceValues(func() (*bytes.Reader, error) {
			data, err := r.Data()
			return bytes.NewReader(data), err
		}),
	}
}

func (f *resourceFile) Stat() (fs.FileInfo, error) { return f.node, nil }
func (f *resourceFile) Close() error               { return nil }

func (f *resourceFile) Read(p []byte) (int, error) {
	rd, err := f.data()
	if err != nil {
		return 0, err
	}
	return rd.Read(p)
}

func (f *resourceFile) ReadAt(p []byte, off int64) (int, error) {
	rd, err := f.data()
	if err != nil {
		return 0, err
	}
	return rd.ReadAt(p, off)
}

func (f *resourceFile) Seek(offset int64, whence int) (int64, error) {
	rd, err := f.data()
	if err != nil {
		return 0, err
	}
	return rd.Seek(offset, whence)
}
