// Copyright (c) Elliot Nunn
// Licensed under the MIT license

package dcmp

import (
	"encoding/binary"
	"io"
)

const (
	dcmp2CustomTable = 1 << 0
	dcmp2Tagged      = 1 << 1
)

// 'dcmp' (2), a word-oriented table lookup used by the System file.
// It has no end marker: the payload simply runs out.
type dcmp2 struct {
	src      *source
	tagged   bool
	custom   bool
	tableLen int
	table    [][2]byte // nil until the first call
	tag      byte
	bit      int // next bit of tag to consume, MSB first
	done     bool
}

func newDcmp2(src *source, params [4]byte) (*dcmp2, error) {
	// params[0:2] has no known effect
	countM1 := params[2]
	flags := params[3]
	if flags&^(dcmp2CustomTable|dcmp2Tagged) != 0 {
		return nil, errorf("unsupported flags %08b, only bits 0 and 1 are known", flags)
	}
	d := &dcmp2{
		src:      src,
		tagged:   flags&dcmp2Tagged != 0,
		custom:   flags&dcmp2CustomTable != 0,
		tableLen: int(countM1) + 1,
		bit:      8,
	}
	if !d.custom && countM1 != 0 {
		return nil, errorf("table count field is %d but the default table is in use", countM1)
	}
	src.s.debug("dcmp2 parameters", "unknown", binary.BigEndian.Uint16(params[:]), "tagged", d.tagged, "custom", d.custom, "entries", d.tableLen)
	return d, nil
}

func (d *dcmp2) loadTable() error {
	if !d.custom {
		d.table = dcmp2DefaultTable[:]
		return nil
	}
	buf, err := d.src.exact(2 * d.tableLen)
	if err != nil {
		return err
	}
	d.table = make([][2]byte, d.tableLen)
	for i := range d.table {
		copy(d.table[i][:], buf[2*i:])
	}
	return nil
}

func (d *dcmp2) next() ([]byte, error) {
	if d.done {
		return nil, io.EOF
	}
	if d.table == nil {
		if err := d.loadTable(); err != nil {
			return nil, err
		}
	}
	src := d.src

	for {
		if d.tagged && d.bit < 8 {
			isRef := d.tag&(0x80>>d.bit) != 0
			d.bit++
			if isRef {
				i, ok, err := src.maybeU8()
				if err != nil {
					return nil, err
				} else if ok {
					return d.lookup(i)
				}
			} else {
				// A literal at the very end may be a single byte
				lit, err := src.Peek(2)
				if len(lit) > 0 {
					out := append([]byte(nil), lit...)
					if _, err := src.exact(len(out)); err != nil {
						return nil, err
					}
					src.s.debug("literal", "len", len(out))
					return out, nil
				} else if err != io.EOF {
					return nil, err
				}
			}
			d.bit = 8 // the payload ran out mid-block
			continue
		}

		b, ok, err := src.maybeU8()
		if err != nil {
			return nil, err
		} else if !ok {
			d.done = true
			return nil, io.EOF
		}
		last, err := src.atEnd()
		if err != nil {
			return nil, err
		}
		if last && src.s.want%2 != 0 {
			src.s.debug("last byte literal")
			d.done = true
			return []byte{b}, nil
		}

		if !d.tagged {
			return d.lookup(b)
		}
		src.s.debug("tag", "bits", b)
		d.tag, d.bit = b, 0
	}
}

func (d *dcmp2) lookup(i byte) ([]byte, error) {
	if int(i) >= len(d.table) {
		return nil, errorf("table reference %#x beyond %d-entry table", i, len(d.table))
	}
	word := d.table[i]
	return word[:], nil
}
