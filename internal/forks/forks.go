// Copyright (c) Elliot Nunn
// Licensed under the MIT license

// Package forks finds the resource data for a path: in the resource fork,
// in an AppleDouble sidecar, or in the data fork, compressed or not.
package forks

import (
	"bufio"
	"bytes"
	"compress/bzip2"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"

	"github.com/elliotnunn/resourceform/internal/appledouble"
	"github.com/elliotnunn/resourceform/internal/resourcefork"
	"github.com/therootcompany/xz"
)

type Fork int

const (
	Auto Fork = iota // resource fork if it holds resources, otherwise data fork
	Data
	Rsrc
)

var forkNames = [...]string{Auto: "auto", Data: "data", Rsrc: "rsrc"}

func (f Fork) String() string {
	if f < 0 || int(f) >= len(forkNames) {
		return fmt.Sprintf("Fork(%d)", int(f))
	}
	return forkNames[f]
}

func ParseFork(s string) (Fork, error) {
	for i, n := range forkNames {
		if n == s {
			return Fork(i), nil
		}
	}
	return Auto, fmt.Errorf("unknown fork %q, expected auto, data or rsrc", s)
}

var errEmpty = errors.New("resource fork is empty")

// Open opens the resource data for name, where "-" means standard input.
// The File owns any underlying file and must be closed.
func Open(name string, fork Fork, opts ...resourcefork.Option) (*resourcefork.File, error) {
	if name == "-" {
		if fork == Rsrc {
			return nil, errors.New("standard input has no resource fork")
		}
		return OpenReader(os.Stdin, opts...)
	}

	switch fork {
	case Data:
		return openData(name, opts)
	case Rsrc:
		return openRsrc(name, opts)
	}

	f, err := openRsrc(name, opts)
	if err == nil {
		return f, nil
	} else if !unusable(err) {
		return nil, err
	}
	slog.Debug("resourceForkUnusable", "path", name, "err", err)
	return openData(name, opts)
}

// unusable errors send Auto to the data fork.
func unusable(err error) bool {
	return errors.Is(err, fs.ErrNotExist) || errors.Is(err, errEmpty) ||
		errors.Is(err, resourcefork.ErrFormat) || errors.Is(err, appledouble.ErrFormat)
}

// OpenReader parses a stream, which may be compressed or an AppleDouble file.
func OpenReader(r io.Reader, opts ...resourcefork.Option) (*resourcefork.File, error) {
	br := bufio.NewReader(r)
	head, _ := br.Peek(8)
	if opener := unwrapper(head); opener != nil {
		inner, err := opener(br)
		if err != nil {
			return nil, err
		}
		br = bufio.NewReader(inner)
		head, _ = br.Peek(8)
	}

	if appledouble.Sniff(head) {
		// The entries may come in any order, so hold the whole thing
		buf, err := io.ReadAll(br)
		if err != nil {
			return nil, err
		}
		return fromAppleDouble(bytes.NewReader(buf), int64(len(buf)), nil, opts)
	}
	return resourcefork.NewStreaming(br, opts...)
}

func openData(name string, opts []resourcefork.Option) (*resourcefork.File, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	stat, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	if stat.IsDir() {
		f.Close()
		return nil, &fs.PathError{Op: "open", Path: name, Err: errors.New("is a directory")}
	}
	return fromReaderAt(f, stat.Size(), f, opts)
}

func openRsrc(name string, opts []resourcefork.Option) (*resourcefork.File, error) {
	r, size, closer, err := nativeResourceFork(name)
	if errors.Is(err, fs.ErrNotExist) {
		// Foreign file systems keep it in a sidecar
		side := appledouble.Sidecar(name)
		f, serr := os.Open(side)
		if serr != nil {
			return nil, err
		}
		stat, serr := f.Stat()
		if serr != nil {
			f.Close()
			return nil, serr
		}
		slog.Debug("appleDoubleSidecar", "path", side)
		return fromAppleDouble(f, stat.Size(), f, opts)
	} else if err != nil {
		return nil, err
	}
	if size == 0 {
		if closer != nil {
			closer.Close()
		}
		return nil, fmt.Errorf("%s: %w", name, errEmpty)
	}
	return fromReaderAt(r, size, closer, opts)
}

// fromReaderAt sniffs the start of a seekable file.
func fromReaderAt(r io.ReaderAt, size int64, closer io.Closer, opts []resourcefork.Option) (*resourcefork.File, error) {
	head := make([]byte, 8)
	n, _ := r.ReadAt(head, 0)
	head = head[:n]

	switch {
	case unwrapper(head) != nil:
		// Parsing a stream reads everything it will ever need
		f, err := OpenReader(io.NewSectionReader(r, 0, size), opts...)
		if closer != nil {
			closer.Close()
		}
		return f, err
	case appledouble.Sniff(head):
		return fromAppleDouble(r, size, closer, opts)
	default:
		return resourcefork.New(io.NewSectionReader(r, 0, size), withCloser(opts, closer)...)
	}
}

func fromAppleDouble(r io.ReaderAt, size int64, closer io.Closer, opts []resourcefork.Option) (*resourcefork.File, error) {
	ad, err := appledouble.Parse(r, size)
	if err != nil {
		if closer != nil {
			closer.Close()
		}
		return nil, err
	}
	rf, ok := ad.ResourceFork()
	if !ok || rf.Size() == 0 {
		if closer != nil {
			closer.Close()
		}
		return nil, fmt.Errorf("AppleDouble file: %w", errEmpty)
	}
	return resourcefork.New(rf, withCloser(opts, closer)...)
}

func withCloser(opts []resourcefork.Option, c io.Closer) []resourcefork.Option {
	if c == nil {
		return opts
	}
	return append(opts[:len(opts):len(opts)], resourcefork.WithCloser(c))
}

// unwrapper returns a decompressor if the magic number is recognised.
func unwrapper(head []byte) func(io.Reader) (io.Reader, error) {
	switch {
	case bytes.HasPrefix(head, []byte("\x1f\x8b")): // gzip
		return func(r io.Reader) (io.Reader, error) { return gzip.NewReader(r) }
	case bytes.HasPrefix(head, []byte("BZh")): // bzip2
		return func(r io.Reader) (io.Reader, error) { return bzip2.NewReader(r), nil }
	case bytes.HasPrefix(head, []byte("\xfd7zXZ\x00")): // xz
		return func(r io.Reader) (io.Reader, error) { return xz.NewReader(r, xz.DefaultDictMax) }
	}
	return nil
}

// AppleDouble finds the AppleDouble or AppleSingle file describing name,
// which is either name itself or its sidecar. The Closer releases it.
func AppleDouble(name string) (*appledouble.File, io.Closer, error) {
	for _, p := range []string{name, appledouble.Sidecar(name)} {
		f, err := os.Open(p)
		if err != nil {
			continue
		}
		head := make([]byte, 8)
		n, _ := f.ReadAt(head, 0)
		stat, err := f.Stat()
		if err != nil || !appledouble.Sniff(head[:n]) {
			f.Close()
			continue
		}
		ad, err := appledouble.Parse(f, stat.Size())
		if err != nil {
			f.Close()
			return nil, nil, fmt.Errorf("%s: %w", p, err)
		}
		return ad, f, nil
	}
	return nil, nil, &fs.PathError{Op: "open", Path: appledouble.Sidecar(name), Err: fs.ErrNotExist}
}
