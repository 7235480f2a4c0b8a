// Copyright (c) Elliot Nunn
// Licensed under the MIT license

package dcmp

import "io"

// 'dcmp' (1), a byte-oriented cousin of 'dcmp' (0).
type dcmp1 struct {
	src      *source
	literals [][]byte
	done     bool
}

func (d *dcmp1) next() ([]byte, error) {
	if d.done {
		return nil, io.EOF
	}
	src := d.src
	tag, err := src.u8()
	if err != nil {
		return nil, err
	}

	switch {
	case tag < 0x20: // literal, length in tag
		return d.literal(int(tag&0xf)+1, tag >= 0x10)

	case tag < 0xd0: // 1-byte backreference
		return d.backref(int(tag - 0x20))

	case tag == 0xd0 || tag == 0xd1: // literal, length in next byte
		n, err := src.u8()
		if err != nil {
			return nil, err
		}
		return d.literal(int(n), tag == 0xd1)

	case tag == 0xd2: // 2-byte backreference
		lo, err := src.u8()
		if err != nil {
			return nil, err
		}
		return d.backref(0xb0 + int(lo))

	case tag == 0xd3 || tag == 0xd4:
		return nil, errorf("unknown tag byte 0x%02x", tag)

	case tag < 0xfe:
		word := dcmp1Table[tag-0xd5]
		return word[:], nil

	case tag == 0xfe:
		kind, err := src.u8()
		if err != nil {
			return nil, err
		}
		if kind != 0x02 {
			return nil, unsupported("extended code 0x%02x", kind)
		}
		return repeat(src, 1)

	default: // 0xff
		src.s.debug("end")
		d.done = true
		if err := src.expectEnd(); err != nil {
			return nil, err
		}
		return nil, io.EOF
	}
}

func (d *dcmp1) literal(n int, store bool) ([]byte, error) {
	lit, err := d.src.exact(n)
	if err != nil {
		return nil, err
	}
	d.src.s.debug("literal", "len", n, "store", store, "index", len(d.literals))
	if store {
		d.literals = append(d.literals, lit)
	}
	return lit, nil
}

func (d *dcmp1) backref(i int) ([]byte, error) {
	if i >= len(d.literals) {
		return nil, errorf("backreference to literal %#x, only %#x stored", i, len(d.literals))
	}
	d.src.s.debug("backreference", "index", i)
	return d.literals[i], nil
}
