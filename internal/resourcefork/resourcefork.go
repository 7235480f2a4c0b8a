// Copyright (c) Elliot Nunn
// Licensed under the MIT license

// Package resourcefork reads classic Mac OS resource files.
//
// A File can be parsed from a random-access source, in which case names and
// data are only read when asked for, or from a plain stream, in which case
// everything is read in a single pass while opening.
package resourcefork

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"golang.org/x/text/encoding/charmap"

	"github.com/elliotnunn/resourceform/internal/bytesource"
)

var ErrFormat = errors.New("not a valid resource fork")

const (
	headerSize    = 256 // 4 offsets/lengths, then 112+128 reserved bytes
	mapHeaderSize = 28
	typeEntrySize = 8
	refEntrySize  = 12
	noName        = 0xffff
)

func formatErr(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrFormat}, args...)...)
}

// shortErr turns an unexpected end of data into a format error.
func shortErr(what string, err error) error {
	if errors.Is(err, bytesource.ErrShortRead) || err == io.EOF || err == io.ErrUnexpectedEOF {
		return fmt.Errorf("%w: %s: %w", ErrFormat, what, err)
	}
	return fmt.Errorf("%s: %w", what, err)
}

// Type is a four-byte resource type code.
type Type [4]byte

// String decodes the type code as Mac OS Roman.
func (t Type) String() string { return MacRoman(t[:]) }

// MacRoman decodes the text encoding of names and type codes.
func MacRoman(b []byte) string {
	s, err := charmap.Macintosh.NewDecoder().Bytes(b)
	if err != nil {
		return string(b)
	}
	return string(s)
}

// ParseType encodes s as Mac OS Roman, which must come to exactly 4 bytes.
func ParseType(s string) (Type, error) {
	b, err := charmap.Macintosh.NewEncoder().Bytes([]byte(s))
	if err != nil {
		return Type{}, fmt.Errorf("type code %q: %w", s, err)
	}
	if len(b) != 4 {
		return Type{}, fmt.Errorf("type code %q is %d bytes, expected 4", s, len(b))
	}
	return Type(b), nil
}

// File is an open resource file. It is immutable once opened, and safe for
// concurrent use when its source is.
type File struct {
	// Header
	DataOffset uint32
	MapOffset  uint32
	DataLength uint32
	MapLength  uint32
	SystemData [112]byte
	AppData    [128]byte

	// Map header
	Attributes     FileAttrs
	TypeListOffset uint16
	NameListOffset uint16

	types []Type
	res   map[Type][]*Resource

	src    io.ReaderAt // nil when parsed from a stream
	closer io.Closer
	close  sync.Once
	cache  Cache
	log    *slog.Logger
}

// Cache stores decompressed resource data by a 64-bit hash of the
// compressed data, header included.
type Cache interface {
	Get(key uint64) ([]byte, bool)
	Put(key uint64, data []byte)
}

type Option func(*File)

// WithCache shares decompressed data between files and across opens.
func WithCache(c Cache) Option {
	return func(f *File) { f.cache = c }
}

// WithLogger traces decompression at debug level.
func WithLogger(l *slog.Logger) Option {
	return func(f *File) { f.log = l }
}

// WithCloser makes the File own c, which is closed by File.Close
// or when opening fails.
func WithCloser(c io.Closer) Option {
	return func(f *File) { f.closer = c }
}

func newFile(opts []Option) *File {
	f := &File{res: make(map[Type][]*Resource)}
	for _, o := range opts {
		o(f)
	}
	return f
}

// OpenFile opens and parses the named file in random-access mode.
func OpenFile(name string, opts ...Option) (*File, error) {
	osf, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	return New(osf, append(opts, WithCloser(osf))...)
}

// Open parses r in random-access mode if it is an io.ReaderAt,
// and in streaming mode otherwise.
func Open(r io.Reader, opts ...Option) (*File, error) {
	if ra, ok := r.(io.ReaderAt); ok {
		return New(ra, opts...)
	}
	return NewStreaming(r, opts...)
}

// New parses the header and map of a resource file. Names and data are
// read from r later, on first access.
func New(r io.ReaderAt, opts ...Option) (*File, error) {
	f := newFile(opts)
	f.src = r
	if err := f.parseAt(r); err != nil {
		f.Close()
		return nil, err
	}
	return f, nil
}

// NewStreaming reads an entire resource file from r in one pass.
func NewStreaming(r io.Reader, opts ...Option) (*File, error) {
	f := newFile(opts)
	if err := f.parseStream(r); err != nil {
		f.Close()
		return nil, err
	}
	return f, nil
}

// Close releases the source, if the File owns it.
func (f *File) Close() error {
	var err error
	f.close.Do(func() {
		if f.closer != nil {
			err = f.closer.Close()
		}
	})
	return err
}

// Streaming reports whether the File was parsed in a single pass.
func (f *File) Streaming() bool { return f.src == nil }

// Types lists the type codes in the order of the type list.
func (f *File) Types() []Type { return f.types }

// Len is the number of distinct types.
func (f *File) Len() int { return len(f.types) }

// Resources lists the resources of one type in the order of its reference list.
func (f *File) Resources(t Type) []*Resource { return f.res[t] }

// Count is the total number of resources of every type.
func (f *File) Count() int {
	n := 0
	for _, t := range f.types {
		n += len(f.res[t])
	}
	return n
}

// Lookup finds a resource by type and ID.
func (f *File) Lookup(t Type, id int16) (*Resource, bool) {
	for _, r := range f.res[t] {
		if r.ID == id {
			return r, true
		}
	}
	return nil, false
}

func (f *File) parseHeader(h []byte) error {
	f.DataOffset = binary.BigEndian.Uint32(h[0:])
	f.MapOffset = binary.BigEndian.Uint32(h[4:])
	f.DataLength = binary.BigEndian.Uint32(h[8:])
	f.MapLength = binary.BigEndian.Uint32(h[12:])
	copy(f.SystemData[:], h[16:])
	copy(f.AppData[:], h[128:])

	if f.DataOffset != headerSize {
		return formatErr("data offset %#x does not follow the %#x-byte header", f.DataOffset, headerSize)
	}
	if f.MapLength < mapHeaderSize+2 {
		return formatErr("map length %#x is too short", f.MapLength)
	}
	return nil
}

func (f *File) parseAt(r io.ReaderAt) error {
	h, err := bytesource.ReadExactAt(r, 0, headerSize)
	if err != nil {
		return shortErr("header", err)
	}
	if err := f.parseHeader(h); err != nil {
		return err
	}

	// Catch a truncated file before allocating for the whole map
	mapEnd := int64(f.MapOffset) + int64(f.MapLength)
	if _, err := bytesource.ReadExactAt(r, mapEnd-1, 1); err != nil {
		return shortErr(fmt.Sprintf("map ends at %#x", mapEnd), err)
	}
	m, err := bytesource.ReadExactAt(r, int64(f.MapOffset), int(f.MapLength))
	if err != nil {
		return shortErr("map", err)
	}
	return f.parseMap(m, nil)
}

func (f *File) parseStream(r io.Reader) error {
	h, err := bytesource.ReadExact(r, headerSize)
	if err != nil {
		return shortErr("header", err)
	}
	if err := f.parseHeader(h); err != nil {
		return err
	}

	// The map usually follows the data, and there is no going back
	data, err := readAtMost(r, int64(f.DataLength))
	if err != nil {
		return shortErr("data", err)
	}
	gap := int64(f.MapOffset) - int64(f.DataOffset) - int64(f.DataLength)
	if gap < 0 {
		return formatErr("map at %#x overlaps data, which cannot be read in one pass", f.MapOffset)
	}
	if _, err := io.CopyN(io.Discard, r, gap); err != nil {
		return shortErr("gap before map", err)
	}
	m, err := readAtMost(r, int64(f.MapLength))
	if err != nil {
		return shortErr("map", err)
	}
	return f.parseMap(m, data)
}

// readAtMost reads exactly n bytes, growing the buffer only as data arrives.
func readAtMost(r io.Reader, n int64) ([]byte, error) {
	buf, err := io.ReadAll(io.LimitReader(r, n))
	if err != nil {
		return nil, err
	}
	if int64(len(buf)) != n {
		return nil, fmt.Errorf("%w: wanted %d bytes, got %d", bytesource.ErrShortRead, n, len(buf))
	}
	return buf, nil
}

// parseMap decodes the type and reference lists. If data is non-nil then
// names and data are resolved immediately from m and data.
func (f *File) parseMap(m, data []byte) error {
	f.Attributes = FileAttrs(binary.BigEndian.Uint16(m[22:]))
	f.TypeListOffset = binary.BigEndian.Uint16(m[24:])
	f.NameListOffset = binary.BigEndian.Uint16(m[26:])

	tl := int(f.TypeListOffset)
	if tl+2 > len(m) {
		return formatErr("type list offset %#x beyond map", tl)
	}
	nType := (int(binary.BigEndian.Uint16(m[tl:])) + 1) % 0x10000
	if tl+2+typeEntrySize*nType > len(m) {
		return formatErr("%d types overrun the map", nType)
	}

	for i := range nType {
		te := m[tl+2+typeEntrySize*i:][:typeEntrySize]
		t := Type(te[:4])
		if _, dup := f.res[t]; dup {
			return formatErr("type %q listed twice", t)
		}
		nRes := (int(binary.BigEndian.Uint16(te[4:])) + 1) % 0x10000
		rl := tl + int(binary.BigEndian.Uint16(te[6:]))
		if rl+refEntrySize*nRes > len(m) {
			return formatErr("%d resources of type %q overrun the map", nRes, t)
		}

		list := make([]*Resource, 0, nRes)
		seen := make(map[int16]bool, nRes)
		for j := range nRes {
			re := m[rl+refEntrySize*j:][:refEntrySize]
			packed := binary.BigEndian.Uint32(re[4:])
			r := &Resource{
				Type:       t,
				ID:         int16(binary.BigEndian.Uint16(re[0:])),
				Attributes: Attrs(packed >> 24),
				nameOffset: binary.BigEndian.Uint16(re[2:]),
				dataOffset: packed & 0xffffff,
				file:       f,
			}
			if seen[r.ID] {
				return formatErr("resource %q (%d) listed twice", t, r.ID)
			}
			seen[r.ID] = true

			if data != nil {
				r.resolveFrom(m, data)
			} else {
				r.resolveLazily()
			}
			list = append(list, r)
		}
		f.types = append(f.types, t)
		f.res[t] = list
	}
	return nil
}

// PathName is the Type as a path element, as in the FS view.
func (t Type) PathName() string {
	return strings.ReplaceAll(t.String(), "/", ":")
}
