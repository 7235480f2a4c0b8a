// Copyright (c) Elliot Nunn
// Licensed under the MIT license

package resourcefork

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"sync"

	"github.com/cespare/xxhash/v2"

	"github.com/elliotnunn/resourceform/internal/bytesource"
	"github.com/elliotnunn/resourceform/internal/dcmp"
	"github.com/elliotnunn/resourceform/internal/sectionreader"
)

// Resource is one entry of the reference list. Its name and data are read
// at most once and remembered, along with any error.
type Resource struct {
	Type       Type
	ID         int16
	Attributes Attrs

	nameOffset uint16
	dataOffset uint32
	file       *File

	name   func() ([]byte, error)
	rawLen func() (uint32, error)
	raw    func() ([]byte, error)
	info   func() (dcmp.Header, error)
	data   func() ([]byte, error)
}

func (r *Resource) String() string {
	return fmt.Sprintf("'%s' (%d)", r.Type, r.ID)
}

// NameOffset is relative to the name list, or 0xffff if there is no name.
func (r *Resource) NameOffset() uint16 { return r.nameOffset }

// DataOffset is relative to the data section.
func (r *Resource) DataOffset() uint32 { return r.dataOffset }

func (r *Resource) HasName() bool { return r.nameOffset != noName }

// Name returns nil for an unnamed resource.
func (r *Resource) Name() ([]byte, error) { return r.name() }

// RawLength is the length of the data as stored, which might be compressed.
func (r *Resource) RawLength() (uint32, error) { return r.rawLen() }

// RawData is the data as stored, which might be compressed.
// The slice must not be modified.
func (r *Resource) RawData() ([]byte, error) { return r.raw() }

// Compressed reports whether the attributes mark the data as compressed.
func (r *Resource) Compressed() bool { return r.Attributes&ResCompressed != 0 }

// CompressedInfo parses the header of compressed data.
// It returns nil if the resource is not compressed.
func (r *Resource) CompressedInfo() (dcmp.Header, error) { return r.info() }

// Length is the length of the data after any decompression. For compressed
// data it comes from the header and nothing is decompressed.
func (r *Resource) Length() (uint32, error) {
	if !r.Compressed() {
		return r.rawLen()
	}
	h, err := r.info()
	if err != nil {
		return 0, err
	}
	return h.Common().DecompressedLength, nil
}

// Data is the data after any decompression. The slice must not be modified.
func (r *Resource) Data() ([]byte, error) {
	if !r.Compressed() {
		return r.raw()
	}
	return r.data()
}

// OpenRaw gives independent access to the stored data.
func (r *Resource) OpenRaw() (io.ReadSeeker, error) {
	ra, err := r.rawReaderAt()
	if err != nil {
		return nil, err
	}
	return ra.Reader(), nil
}

// Open decompresses incrementally, without remembering the result.
func (r *Resource) Open() (io.Reader, error) {
	if !r.Compressed() {
		return r.OpenRaw()
	}
	h, err := r.info()
	if err != nil {
		return nil, err
	}
	ra, err := r.rawReaderAt()
	if err != nil {
		return nil, err
	}
	s, err := dcmp.NewStream(h, io.NewSectionReader(ra, dcmp.HeaderSize, ra.Size()-dcmp.HeaderSize), r.dcmpOptions()...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", r, err)
	}
	return s, nil
}

func (r *Resource) rawReaderAt() (*sectionreader.ReaderAt, error) {
	if r.file.src == nil {
		raw, err := r.raw()
		if err != nil {
			return nil, err
		}
		return sectionreader.Section(bytes.NewReader(raw), 0, int64(len(raw))), nil
	}
	n, err := r.rawLen()
	if err != nil {
		return nil, err
	}
	off := int64(r.file.DataOffset) + int64(r.dataOffset) + 4
	return sectionreader.Section(r.file.src, off, int64(n)), nil
}

func (r *Resource) dcmpOptions() []dcmp.Option {
	if r.file.log == nil {
		return nil
	}
	return []dcmp.Option{dcmp.WithLogger(r.file.log.With("resource", r.String()))}
}

// resolveFrom takes the name and data from buffers already in memory.
// Bad offsets are only reported when the name or data is asked for.
func (r *Resource) resolveFrom(m, data []byte) {
	var name []byte
	var nameErr error
	if r.HasName() {
		pos := int(r.file.NameListOffset) + int(r.nameOffset)
		if pos+1 > len(m) || pos+1+int(m[pos]) > len(m) {
			nameErr = formatErr("name of %s at %#x overruns the map", r, pos)
		} else {
			name = m[pos+1:][:m[pos]]
		}
	}

	var raw []byte
	var rawErr error
	pos := int64(r.dataOffset)
	if pos+4 > int64(len(data)) {
		rawErr = formatErr("data of %s at %#x overruns the data section", r, pos)
	} else if n := int64(binary.BigEndian.Uint32(data[pos:])); pos+4+n > int64(len(data)) {
		rawErr = formatErr("%d bytes of data of %s at %#x overrun the data section", n, r, pos)
	} else {
		raw = data[pos+4:][:n]
	}

	r.name = func() ([]byte, error) { return name, nameErr }
	r.raw = func() ([]byte, error) { return raw, rawErr }
	r.rawLen = func() (uint32, error) { return uint32(len(raw)), rawErr }
	r.derive()
}

// resolveLazily reads the name and data from the source on first use.
func (r *Resource) resolveLazily() {
	f := r.file
	r.name = sync.OnceValues(func() ([]byte, error) {
		if !r.HasName() {
			return nil, nil
		}
		pos := int64(f.NameListOffset) + int64(r.nameOffset)
		if pos+1 > int64(f.MapLength) {
			return nil, formatErr("name of %s at %#x is beyond the map", r, pos)
		}
		l, err := bytesource.ReadExactAt(f.src, int64(f.MapOffset)+pos, 1)
		if err != nil {
			return nil, shortErr("name of "+r.String(), err)
		}
		if pos+1+int64(l[0]) > int64(f.MapLength) {
			return nil, formatErr("name of %s at %#x overruns the map", r, pos)
		}
		name, err := bytesource.ReadExactAt(f.src, int64(f.MapOffset)+pos+1, int(l[0]))
		if err != nil {
			return nil, shortErr("name of "+r.String(), err)
		}
		return name, nil
	})
	r.rawLen = sync.OnceValues(func() (uint32, error) {
		pos := int64(r.dataOffset)
		if pos+4 > int64(f.DataLength) {
			return 0, formatErr("data of %s at %#x is beyond the data section", r, pos)
		}
		l, err := bytesource.ReadExactAt(f.src, int64(f.DataOffset)+pos, 4)
		if err != nil {
			return 0, shortErr("data length of "+r.String(), err)
		}
		n := binary.BigEndian.Uint32(l)
		if pos+4+int64(n) > int64(f.DataLength) {
			return 0, formatErr("%d bytes of data of %s at %#x overrun the data section", n, r, pos)
		}
		return n, nil
	})
	r.raw = sync.OnceValues(func() ([]byte, error) {
		n, err := r.rawLen()
		if err != nil {
			return nil, err
		}
		raw, err := bytesource.ReadExactAt(f.src, int64(f.DataOffset)+int64(r.dataOffset)+4, int(n))
		if err != nil {
			return nil, shortErr("data of "+r.String(), err)
		}
		return raw, nil
	})
	r.derive()
}

// derive sets up the compression header and decompressed data,
// which depend only on the raw data.
func (r *Resource) derive() {
	r.info = sync.OnceValues(func() (dcmp.Header, error) {
		if !r.Compressed() {
			return nil, nil
		}
		raw, err := r.raw()
		if err != nil {
			return nil, err
		}
		h, err := dcmp.ParseHeaderBytes(raw)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", r, err)
		}
		return h, nil
	})
	r.data = sync.OnceValues(r.decompress)
}

func (r *Resource) decompress() ([]byte, error) {
	h, err := r.info()
	if err != nil {
		return nil, err
	}
	raw, err := r.raw()
	if err != nil {
		return nil, err
	}
	want := int(h.Common().DecompressedLength)

	c := r.file.cache
	var key uint64
	if c != nil {
		key = xxhash.Sum64(raw)
		if got, ok := c.Get(key); ok && len(got) == want {
			return got, nil
		}
	}

	out, err := dcmp.DecompressParsed(h, raw[dcmp.HeaderSize:], r.dcmpOptions()...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", r, err)
	}
	if c != nil {
		c.Put(key, out)
	}
	return out, nil
}
