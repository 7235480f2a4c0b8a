// Copyright (c) Elliot Nunn
// Licensed under the MIT license

package dcmp

import (
	"encoding/binary"
	"io"
)

// 'dcmp' (0), used by the Finder, ResEdit and many other files.
type dcmp0 struct {
	src      *source
	literals [][]byte // stored for backreference, never reordered
	done     bool
}

func (d *dcmp0) next() ([]byte, error) {
	if d.done {
		return nil, io.EOF
	}
	src := d.src
	tag, err := src.u8()
	if err != nil {
		return nil, err
	}

	switch {
	case tag < 0x20: // literal
		count := int(tag & 0xf)
		if tag == 0x00 || tag == 0x10 {
			n, err := src.u8()
			if err != nil {
				return nil, err
			}
			count = int(n)
		}
		lit, err := src.exact(2 * count)
		if err != nil {
			return nil, err
		}
		store := tag >= 0x10
		src.s.debug("literal", "len", len(lit), "store", store, "index", len(d.literals))
		if store {
			d.literals = append(d.literals, lit)
		}
		return lit, nil

	case tag == 0x20 || tag == 0x21: // 2-byte backreference
		lo, err := src.u8()
		if err != nil {
			return nil, err
		}
		return d.backref(0x28 + (int(tag-0x20)<<8 | int(lo)))

	case tag == 0x22: // 3-byte backreference
		buf, err := src.exact(2)
		if err != nil {
			return nil, err
		}
		return d.backref(0x28 + int(binary.BigEndian.Uint16(buf)))

	case tag < 0x4b: // 1-byte backreference
		return d.backref(int(tag - 0x23))

	case tag < 0xfe:
		word := dcmp0Table[tag-0x4b]
		return word[:], nil

	case tag == 0xfe:
		return d.extended()

	default: // 0xff
		src.s.debug("end")
		d.done = true
		if err := src.expectEnd(); err != nil {
			return nil, err
		}
		return nil, io.EOF
	}
}

func (d *dcmp0) backref(i int) ([]byte, error) {
	if i >= len(d.literals) {
		return nil, errorf("backreference to literal %#x, only %#x stored", i, len(d.literals))
	}
	d.src.s.debug("backreference", "index", i)
	return d.literals[i], nil
}

func (d *dcmp0) extended() ([]byte, error) {
	src := d.src
	kind, err := src.u8()
	if err != nil {
		return nil, err
	}
	switch kind {
	case 0x00:
		return d.jumpTable()
	case 0x02, 0x03:
		return repeat(src, int(kind-1))
	case 0x04:
		return d.delta16()
	case 0x06:
		return d.delta32()
	default:
		return nil, unsupported("extended code 0x%02x", kind)
	}
}

// jumpTable rebuilds entries of a segment loader jump table ('CODE' 0),
// each an address followed by MOVE.W #segment,-(SP) and _LoadSeg.
func (d *dcmp0) jumpTable() ([]byte, error) {
	src := d.src
	segment, err := src.varint()
	if err != nil {
		return nil, err
	}
	if segment < 0 || segment > 0xffff {
		return nil, errorf("jump table segment number %#x out of range", segment)
	}
	tail := []byte{'?', '<', byte(segment >> 8), byte(segment), 0xa9, 0xf0}

	count, err := src.varint()
	if err != nil {
		return nil, err
	}
	if count <= 0 {
		return nil, errorf("jump table entry count must be positive, not %d", count)
	}
	size := int64(len(tail)) + 8*int64(count)
	if err := src.reserve(size); err != nil {
		return nil, err
	}

	addr, err := src.varint()
	if err != nil {
		return nil, err
	}
	if addr < 0 || addr > 0xffff {
		return nil, errorf("jump table address %#x out of range", addr)
	}
	src.s.debug("jump table", "segment", segment, "count", count, "first", addr)

	// The tail comes first on its own: an earlier code emitted the first address
	out := make([]byte, 0, size)
	out = append(out, tail...)
	cur := uint16(addr)
	out = binary.BigEndian.AppendUint16(out, cur)
	out = append(out, tail...)
	for range count - 1 {
		diff, err := src.varint()
		if err != nil {
			return nil, err
		}
		cur += uint16(diff - 6)
		out = binary.BigEndian.AppendUint16(out, cur)
		out = append(out, tail...)
	}
	return out, nil
}

// delta16 emits 16-bit integers, each a signed byte away from the last.
func (d *dcmp0) delta16() ([]byte, error) {
	src := d.src
	initial, err := src.varint()
	if err != nil {
		return nil, err
	}
	if initial < -0x8000 || initial > 0x7fff {
		return nil, errorf("initial value %#x out of range for 16-bit differences", initial)
	}
	count, err := src.varint()
	if err != nil {
		return nil, err
	}
	if count < 0 {
		return nil, errorf("difference count cannot be negative: %d", count)
	}
	size := 2 + 2*int64(count)
	if err := src.reserve(size); err != nil {
		return nil, err
	}
	src.s.debug("16-bit differences", "initial", initial, "count", count)

	out := make([]byte, 0, size)
	cur := uint16(initial)
	out = binary.BigEndian.AppendUint16(out, cur)
	for range count {
		diff, err := src.u8()
		if err != nil {
			return nil, err
		}
		cur += uint16(int8(diff))
		out = binary.BigEndian.AppendUint16(out, cur)
	}
	return out, nil
}

// delta32 emits 32-bit integers, each a varint away from the last.
func (d *dcmp0) delta32() ([]byte, error) {
	src := d.src
	initial, err := src.varint()
	if err != nil {
		return nil, err
	}
	count, err := src.varint()
	if err != nil {
		return nil, err
	}
	if count < 0 {
		return nil, errorf("difference count cannot be negative: %d", count)
	}
	size := 4 + 4*int64(count)
	if err := src.reserve(size); err != nil {
		return nil, err
	}
	src.s.debug("32-bit differences", "initial", initial, "count", count)

	out := make([]byte, 0, size)
	cur := uint32(initial)
	out = binary.BigEndian.AppendUint32(out, cur)
	for range count {
		diff, err := src.varint()
		if err != nil {
			return nil, err
		}
		cur += uint32(diff)
		out = binary.BigEndian.AppendUint32(out, cur)
	}
	return out, nil
}

// repeat emits a 1 or 2-byte unsigned value a varint-plus-one number of times.
func repeat(src *source, width int) ([]byte, error) {
	v, err := src.varint()
	if err != nil {
		return nil, err
	}
	if v < 0 || v >= 1<<(8*width) {
		return nil, errorf("value %#x out of range for %d-byte repeat", v, width)
	}
	n, err := src.varint()
	if err != nil {
		return nil, err
	}
	count := int64(n) + 1
	if count <= 0 {
		return nil, errorf("repeat count must be positive: %d", count)
	}
	if err := src.reserve(count * int64(width)); err != nil {
		return nil, err
	}
	src.s.debug("repeat", "value", v, "width", width, "count", count)

	unit := []byte{byte(v)}
	if width == 2 {
		unit = []byte{byte(v >> 8), byte(v)}
	}
	out := make([]byte, 0, count*int64(width))
	for range count {
		out = append(out, unit...)
	}
	return out, nil
}
