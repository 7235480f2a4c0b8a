// Copyright (c) Elliot Nunn
// Licensed under the MIT license

// Package sectionreader makes bounded windows onto an io.ReaderAt, such as
// one resource's data within a fork, or a fork within an AppleDouble file.
package sectionreader

import (
	"io"
	"math"
)

type outer interface {
	Outer() (io.ReaderAt, int64, int64)
}

// Section is like io.NewSectionReader, but a window onto another window is
// flattened into a window onto the innermost reader, as long as it fits.
func Section(r io.ReaderAt, off int64, n int64) *ReaderAt {
	for {
		var (
			t                io.ReaderAt
			outerOff, outerN int64
		)
		switch w := r.(type) {
		case *io.SectionReader:
			t, outerOff, outerN = w.Outer()
		case outer:
			t, outerOff, outerN = w.Outer()
		default:
			return &ReaderAt{r, off, n}
		}
		if off < 0 || n < 0 || off+n < off || off+n > outerN {
			return &ReaderAt{r, off, n}
		}
		r, off = t, off+outerOff
	}
}

type ReaderAt struct {
	r      io.ReaderAt
	off, n int64
}

func (s *ReaderAt) Outer() (io.ReaderAt, int64, int64) { return s.r, s.off, s.n }

func (s *ReaderAt) Size() int64 { return s.n }

// Reader returns an independent io.ReadSeeker over the window.
func (s *ReaderAt) Reader() *io.SectionReader { return io.NewSectionReader(s, 0, s.n) }

func (s *ReaderAt) ReadAt(p []byte, off int64) (n int, err error) {
	if s.n < 0 || s.off < 0 || off < 0 || s.off+off < 0 || off >= s.n {
		return 0, io.EOF
	}

	limit := s.off + s.n
	if limit < s.off { // overflow
		limit = math.MaxInt64
	}

	off += s.off
	if room := limit - off; int64(len(p)) > room {
		n, err = s.r.ReadAt(p[:room], off)
		if err == nil {
			err = io.EOF
		}
		return n, err
	}
	return s.r.ReadAt(p, off)
}
