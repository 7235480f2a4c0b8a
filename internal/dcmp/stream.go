// Copyright (c) Elliot Nunn
// Licensed under the MIT license

package dcmp

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/elliotnunn/resourceform/internal/bytesource"
)

// A decoder produces the output of one operation per call,
// and io.EOF after its end of data.
type decoder interface {
	next() ([]byte, error)
}

// Stream decompresses incrementally. It is not restartable:
// decompressing the same data again needs a new Stream.
type Stream struct {
	hdr     Header
	want    int64
	got     int64
	trimOdd bool
	dec     decoder
	err     error // sticky
	pending []byte
	log     *slog.Logger
}

type Option func(*Stream)

// WithLogger traces every decoded operation at debug level.
func WithLogger(l *slog.Logger) Option {
	return func(s *Stream) { s.log = l }
}

// NewStream decompresses the payload in r, which must begin
// immediately after the header.
func NewStream(h Header, r io.Reader, opts ...Option) (*Stream, error) {
	s := &Stream{hdr: h, want: int64(h.Common().DecompressedLength)}
	for _, o := range opts {
		o(s)
	}
	src := &source{Peeker: bytesource.Peekable(r), s: s}

	switch h.DecoderID() {
	case 0, 1:
		if _, ok := h.(Type8Header); !ok {
			return nil, errorf("'dcmp' (%d) needs a type 8 header, not %T", h.DecoderID(), h)
		}
		s.trimOdd = h.DecoderID() == 0
		if h.DecoderID() == 0 {
			s.dec = &dcmp0{src: src}
		} else {
			s.dec = &dcmp1{src: src}
		}
	case 2:
		h9, ok := h.(Type9Header)
		if !ok {
			return nil, errorf("'dcmp' (2) needs a type 9 header, not %T", h)
		}
		d, err := newDcmp2(src, h9.Parameters)
		if err != nil {
			return nil, err
		}
		s.dec = d
	default:
		return nil, unsupported("'dcmp' (%d)", h.DecoderID())
	}
	s.debug("header", "header", h.String())
	return s, nil
}

// Header returns the header the Stream was created with.
func (s *Stream) Header() Header { return s.hdr }

// Next returns the next chunk of decompressed data, or io.EOF once all
// of it has been returned. The chunk must not be modified.
func (s *Stream) Next() ([]byte, error) {
	if s.err != nil {
		return nil, s.err
	}
	chunk, err := s.dec.next()
	if err == io.EOF {
		if s.got != s.want {
			s.err = errorf("decompressed %d bytes, header says %d", s.got, s.want)
		} else {
			s.err = io.EOF
		}
		return nil, s.err
	} else if err != nil {
		s.err = err
		return nil, err
	}

	// Nearly every code emits whole words, so odd lengths get rounded up
	if s.trimOdd && s.want%2 != 0 && s.got+int64(len(chunk)) == s.want+1 {
		chunk = chunk[:len(chunk)-1]
	}
	s.got += int64(len(chunk))
	if s.got > s.want {
		s.err = errorf("decompressed data overruns declared length %d", s.want)
		return nil, s.err
	}
	return chunk, nil
}

func (s *Stream) Read(p []byte) (int, error) {
	for len(s.pending) == 0 {
		chunk, err := s.Next()
		if err != nil {
			return 0, err
		}
		s.pending = chunk
	}
	n := copy(p, s.pending)
	s.pending = s.pending[n:]
	return n, nil
}

// WriteTo sends each chunk to w as it is decoded.
func (s *Stream) WriteTo(w io.Writer) (n int64, err error) {
	if len(s.pending) > 0 {
		m, err := w.Write(s.pending)
		n += int64(m)
		s.pending = nil
		if err != nil {
			return n, err
		}
	}
	for {
		chunk, err := s.Next()
		if err == io.EOF {
			return n, nil
		} else if err != nil {
			return n, err
		}
		m, err := w.Write(chunk)
		n += int64(m)
		if err != nil {
			return n, err
		}
	}
}

// room is the most that one operation may emit without certainly
// overrunning the declared length.
func (s *Stream) room() int64 {
	return s.want + 1 - s.got
}

func (s *Stream) debug(msg string, args ...any) {
	if s.log != nil && s.log.Enabled(context.Background(), slog.LevelDebug) {
		s.log.Debug(msg, args...)
	}
}

// Decompress decompresses data, header included.
func Decompress(data []byte, opts ...Option) ([]byte, error) {
	h, err := ParseHeaderBytes(data)
	if err != nil {
		return nil, err
	}
	return DecompressParsed(h, data[HeaderSize:], opts...)
}

// DecompressParsed decompresses a payload whose header was already parsed.
func DecompressParsed(h Header, payload []byte, opts ...Option) ([]byte, error) {
	s, err := NewStream(h, bytes.NewReader(payload), opts...)
	if err != nil {
		return nil, err
	}
	out := make([]byte, 0, h.Common().DecompressedLength)
	for {
		chunk, err := s.Next()
		if err == io.EOF {
			return out, nil
		} else if err != nil {
			return nil, err
		}
		out = append(out, chunk...)
	}
}

// source reads the compressed payload, reporting truncation as ErrDecompress.
type source struct {
	bytesource.Peeker
	s *Stream
}

func (src *source) u8() (byte, error) {
	b, err := bytesource.ReadByte(src.Peeker)
	if err != nil {
		return 0, truncated(err)
	}
	return b, nil
}

func (src *source) exact(n int) ([]byte, error) {
	buf, err := bytesource.ReadExact(src.Peeker, n)
	if err != nil {
		return nil, truncated(err)
	}
	return buf, nil
}

// maybeU8 reads a byte, or reports false at the end of the payload.
func (src *source) maybeU8() (byte, bool, error) {
	if end, err := src.atEnd(); err != nil || end {
		return 0, false, err
	}
	b, err := src.u8()
	return b, err == nil, err
}

// atEnd reports whether the payload has no more bytes.
func (src *source) atEnd() (bool, error) {
	b, err := src.Peek(1)
	if len(b) > 0 {
		return false, nil
	} else if err == io.EOF {
		return true, nil
	}
	return false, err
}

// expectEnd checks that an end marker is the last byte of the payload.
func (src *source) expectEnd() error {
	b, err := src.Peek(1)
	if len(b) > 0 {
		return errorf("extra data after end marker, starting with 0x%02x", b[0])
	} else if err != io.EOF {
		return err
	}
	return nil
}

// varint reads the signed 1, 2 or 5-byte integer used by extended codes.
func (src *source) varint() (int32, error) {
	head, err := src.u8()
	if err != nil {
		return 0, err
	}
	switch {
	case head == 0xff:
		buf, err := src.exact(4)
		if err != nil {
			return 0, err
		}
		return int32(binary.BigEndian.Uint32(buf)), nil
	case head >= 0x80:
		lo, err := src.u8()
		if err != nil {
			return 0, err
		}
		return int32(int16(uint16(head-0xc0)<<8 | uint16(lo))), nil
	default:
		return int32(head), nil
	}
}

// reserve fails if an operation producing n bytes would overrun.
func (src *source) reserve(n int64) error {
	if n > src.s.room() {
		return errorf("operation emits %d bytes, beyond declared length %d", n, src.s.want)
	}
	return nil
}

func truncated(err error) error {
	if errors.Is(err, bytesource.ErrShortRead) {
		return fmt.Errorf("%w: truncated: %w", ErrDecompress, err)
	}
	return err
}
