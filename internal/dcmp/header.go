// Copyright (c) Elliot Nunn
// Licensed under the MIT license

// Package dcmp decodes resource data compressed by the classic Mac OS
// Resource Manager, using the 'dcmp' (0), (1) and (2) algorithms.
package dcmp

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/elliotnunn/resourceform/internal/bytesource"
)

var (
	ErrDecompress  = errors.New("invalid compressed resource data")
	ErrUnsupported = errors.New("unsupported resource compression")
)

const (
	Signature = "\xa8\x9fer"

	// HeaderSize is the length of every header, and the offset of the
	// compressed payload, whatever the HeaderLength field says.
	HeaderSize = 18

	Type8 = 0x0801 // 'dcmp' (0) and (1)
	Type9 = 0x0901 // 'dcmp' (2)
)

func errorf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrDecompress}, args...)...)
}

// unsupported errors match both ErrDecompress and ErrUnsupported.
func unsupported(format string, args ...any) error {
	return fmt.Errorf("%w: %w: "+format, append([]any{ErrDecompress, ErrUnsupported}, args...)...)
}

// Header is either a Type8Header or a Type9Header.
type Header interface {
	Common() CommonHeader
	DecoderID() int16
	String() string
	isHeader()
}

// CommonHeader holds the fields shared by both header layouts.
type CommonHeader struct {
	HeaderLength       uint16
	CompressionType    uint16
	DecompressedLength uint32
}

func (c CommonHeader) Common() CommonHeader { return c }

type Type8Header struct {
	CommonHeader
	WorkingBufferFraction uint8 // compressed size / decompressed size * 256
	ExpansionBufferSize   uint8
	Decoder               int16
	Reserved              uint16
}

type Type9Header struct {
	CommonHeader
	Decoder    int16
	Parameters [4]byte
}

func (Type8Header) isHeader() {}
func (Type9Header) isHeader() {}

func (h Type8Header) DecoderID() int16 { return h.Decoder }
func (h Type9Header) DecoderID() int16 { return h.Decoder }

func (h Type8Header) String() string {
	return fmt.Sprintf("Type8Header(header_length=%d, compression_type=0x%04x, decompressed_length=%d, dcmp_id=%d, working_buffer_fractional_size=%d, expansion_buffer_size=%d)",
		h.HeaderLength, h.CompressionType, h.DecompressedLength, h.Decoder, h.WorkingBufferFraction, h.ExpansionBufferSize)
}

func (h Type9Header) String() string {
	return fmt.Sprintf("Type9Header(header_length=%d, compression_type=0x%04x, decompressed_length=%d, dcmp_id=%d, parameters=%x)",
		h.HeaderLength, h.CompressionType, h.DecompressedLength, h.Decoder, h.Parameters[:])
}

// ParseHeader reads exactly HeaderSize bytes from r.
func ParseHeader(r io.Reader) (Header, error) {
	buf, err := bytesource.ReadExact(r, HeaderSize)
	if err != nil {
		return nil, fmt.Errorf("%w: header: %w", ErrDecompress, err)
	}
	return parseHeader(buf)
}

// ParseHeaderBytes parses the header at the start of data.
func ParseHeaderBytes(data []byte) (Header, error) {
	if len(data) < HeaderSize {
		return nil, errorf("header needs %d bytes, have %d", HeaderSize, len(data))
	}
	return parseHeader(data[:HeaderSize])
}

func parseHeader(buf []byte) (Header, error) {
	if string(buf[:4]) != Signature {
		return nil, errorf("signature %q, expected %q", buf[:4], Signature)
	}
	c := CommonHeader{
		HeaderLength:       binary.BigEndian.Uint16(buf[4:]),
		CompressionType:    binary.BigEndian.Uint16(buf[6:]),
		DecompressedLength: binary.BigEndian.Uint32(buf[8:]),
	}
	if c.HeaderLength != HeaderSize && c.HeaderLength != 0 {
		return nil, errorf("header length 0x%04x, expected 0x%04x or 0", c.HeaderLength, HeaderSize)
	}

	rest := buf[12:]
	switch c.CompressionType {
	case Type8:
		h := Type8Header{
			CommonHeader:          c,
			WorkingBufferFraction: rest[0],
			ExpansionBufferSize:   rest[1],
			Decoder:               int16(binary.BigEndian.Uint16(rest[2:])),
			Reserved:              binary.BigEndian.Uint16(rest[4:]),
		}
		if h.Reserved != 0 {
			return nil, errorf("reserved field is 0x%04x, expected 0", h.Reserved)
		}
		return h, nil
	case Type9:
		h := Type9Header{
			CommonHeader: c,
			Decoder:      int16(binary.BigEndian.Uint16(rest[0:])),
		}
		copy(h.Parameters[:], rest[2:])
		return h, nil
	default:
		return nil, unsupported("compression type 0x%04x", c.CompressionType)
	}
}
