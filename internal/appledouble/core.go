// Copyright (c) Elliot Nunn
// Licensed under the MIT license

// Package appledouble reads AppleDouble and AppleSingle files, which carry
// a Mac file's resource fork and Finder metadata on foreign file systems.
package appledouble

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"path"
	"time"

	"github.com/elliotnunn/resourceform/internal/sectionreader"
)

var ErrFormat = errors.New("not an AppleDouble or AppleSingle file")

var appleDoubleEpoch = time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)

const (
	DATA_FORK           = 1
	RESOURCE_FORK       = 2
	REAL_NAME           = 3
	COMMENT             = 4
	ICON_BW             = 5
	ICON_COLOR          = 6
	FILE_INFO_V1        = 7 // Old v1 file info combining FILE_DATES_INFO and MACINTOSH_FILE_INFO.
	FILE_DATES_INFO     = 8
	FINDER_INFO         = 9  // FinderInfo (16) + FinderXInfo (16)
	MACINTOSH_FILE_INFO = 10 // 32 bits, bits 31 = protected and 32 = locked
	PRODOS_FILE_INFO    = 11
	MSDOS_FILE_INFO     = 12
	SHORT_NAME          = 13 // AFP short name.
	AFP_FILE_INFO       = 14
	DIRECTORY_ID        = 15 // AFP directory ID.
)

const (
	magicSingle = "\x00\x05\x16\x00"
	magicDouble = "\x00\x05\x16\x07"
	headerSize  = 26
	entrySize   = 12
)

type Entry struct {
	ID, Offset, Length uint32
}

// File is a parsed AppleDouble or AppleSingle header.
type File struct {
	Single  bool // AppleSingle, which also carries the data fork
	Version uint32
	Entries []Entry

	r    io.ReaderAt
	size int64
}

// Sniff reports whether the start of a file looks like either format.
func Sniff(head []byte) bool {
	if len(head) < 8 {
		return false
	}
	magic := string(head[:4])
	return (magic == magicDouble || magic == magicSingle) && head[4] == 0 && head[6] == 0 && head[7] == 0
}

// Parse reads the entry list. size is the length of r, and every entry
// must lie within it.
func Parse(r io.ReaderAt, size int64) (*File, error) {
	head := make([]byte, headerSize)
	if _, err := r.ReadAt(head, 0); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return nil, fmt.Errorf("%w: truncated header", ErrFormat)
		}
		return nil, err
	}
	if !Sniff(head) {
		return nil, ErrFormat
	}

	f := &File{
		Single:  string(head[:4]) == magicSingle,
		Version: binary.BigEndian.Uint32(head[4:]),
		r:       r,
		size:    size,
	}
	count := int(binary.BigEndian.Uint16(head[24:]))
	list := make([]byte, entrySize*count)
	if _, err := r.ReadAt(list, headerSize); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return nil, fmt.Errorf("%w: truncated entry list of %d", ErrFormat, count)
		}
		return nil, err
	}
	for i := range count {
		e := Entry{
			ID:     binary.BigEndian.Uint32(list[entrySize*i:]),
			Offset: binary.BigEndian.Uint32(list[entrySize*i+4:]),
			Length: binary.BigEndian.Uint32(list[entrySize*i+8:]),
		}
		if int64(e.Offset)+int64(e.Length) > size {
			return nil, fmt.Errorf("%w: entry %d (%s) at %#x:%#x overruns file of %#x",
				ErrFormat, i, entryName(e.ID), e.Offset, int64(e.Offset)+int64(e.Length), size)
		}
		f.Entries = append(f.Entries, e)
	}
	return f, nil
}

// Entry returns the first entry with the given ID.
func (f *File) Entry(id uint32) (Entry, bool) {
	for _, e := range f.Entries {
		if e.ID == id {
			return e, true
		}
	}
	return Entry{}, false
}

// Section returns a window onto an entry's contents.
func (f *File) Section(id uint32) (*sectionreader.ReaderAt, bool) {
	e, ok := f.Entry(id)
	if !ok {
		return nil, false
	}
	return sectionreader.Section(f.r, int64(e.Offset), int64(e.Length)), true
}

// ResourceFork returns a window onto the resource fork, if there is one.
func (f *File) ResourceFork() (*sectionreader.ReaderAt, bool) {
	return f.Section(RESOURCE_FORK)
}

// ReadEntry returns an entry's contents in full, for the small ones.
func (f *File) ReadEntry(id uint32) ([]byte, bool, error) {
	s, ok := f.Section(id)
	if !ok {
		return nil, false, nil
	}
	buf := make([]byte, s.Size())
	if _, err := s.ReadAt(buf, 0); err != nil && !(err == io.EOF && len(buf) == 0) {
		return nil, true, err
	}
	return buf, true, nil
}

// FinderInfo returns the file type and creator, if recorded.
func (f *File) FinderInfo() (typ, creator [4]byte, ok bool) {
	data, ok, err := f.ReadEntry(FINDER_INFO)
	if !ok || err != nil || len(data) < 8 {
		return typ, creator, false
	}
	copy(typ[:], data)
	copy(creator[:], data[4:])
	return typ, creator, true
}

// Sidecar is the name macOS gives the AppleDouble file beside name.
func Sidecar(name string) string {
	a, b := path.Split(name)
	return a + "._" + b
}
