// Copyright (c) Elliot Nunn
// Licensed under the MIT license

// Package bytesource reads exact byte counts from streams, and gives
// lookahead to streams that have none of their own.
package bytesource

import (
	"errors"
	"fmt"
	"io"
)

var ErrShortRead = errors.New("unexpected end of data")

// ReadExact reads exactly n bytes or fails with an error wrapping ErrShortRead.
func ReadExact(r io.Reader, n int) ([]byte, error) {
	if n < 0 {
		return nil, fmt.Errorf("%w: negative read of %d bytes", ErrShortRead, n)
	}
	buf := make([]byte, n)
	got, err := io.ReadFull(r, buf)
	switch err {
	case nil:
		return buf, nil
	case io.EOF, io.ErrUnexpectedEOF:
		return buf[:got], fmt.Errorf("%w: wanted %d bytes, got %d", ErrShortRead, n, got)
	default:
		return buf[:got], err
	}
}

// ReadExactAt is ReadExact for random-access sources.
func ReadExactAt(r io.ReaderAt, off int64, n int) ([]byte, error) {
	if off < 0 || n < 0 {
		return nil, fmt.Errorf("%w: invalid read of %d bytes at %d", ErrShortRead, n, off)
	}
	buf := make([]byte, n)
	got, err := r.ReadAt(buf, off)
	if got == n {
		return buf, nil // an io.EOF alongside a full read is acceptable
	}
	if err == nil || err == io.EOF || err == io.ErrUnexpectedEOF {
		return buf[:got], fmt.Errorf("%w: wanted %d bytes at %#x, got %d", ErrShortRead, n, off, got)
	}
	return buf[:got], err
}

// ReadByte reads one byte, using io.ByteReader when the source has it.
func ReadByte(r io.Reader) (byte, error) {
	if br, ok := r.(io.ByteReader); ok {
		b, err := br.ReadByte()
		if err == io.EOF {
			return 0, fmt.Errorf("%w: wanted 1 byte, got 0", ErrShortRead)
		}
		return b, err
	}
	b, err := ReadExact(r, 1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// A Peeker can return upcoming bytes without consuming them.
type Peeker interface {
	io.Reader
	// Peek returns up to n bytes. Fewer than n are returned only
	// alongside an error, which is io.EOF at the end of the stream.
	Peek(n int) ([]byte, error)
}

// Peekable returns r itself if it can already peek (for example a
// *bufio.Reader), a seek-and-rewind wrapper if r can seek, and otherwise a
// wrapper that holds one read-ahead chunk which later reads drain first.
func Peekable(r io.Reader) Peeker {
	switch r := r.(type) {
	case Peeker:
		return r
	case io.ReadSeeker:
		return &rewinder{r: r}
	default:
		return &lookahead{r: r}
	}
}

type lookahead struct {
	r   io.Reader
	buf []byte
	err error // sticky, from the read that filled buf
}

func (l *lookahead) Read(p []byte) (n int, err error) {
	if len(l.buf) > 0 {
		n = copy(p, l.buf)
		l.buf = l.buf[n:]
		return n, nil
	}
	if l.err != nil {
		return 0, l.err
	}
	return l.r.Read(p)
}

func (l *lookahead) ReadByte() (byte, error) {
	var b [1]byte
	_, err := io.ReadFull(l, b[:])
	return b[0], err
}

func (l *lookahead) Peek(n int) ([]byte, error) {
	if len(l.buf) < n && l.err == nil {
		more := make([]byte, n-len(l.buf))
		got, err := io.ReadFull(l.r, more)
		if err == io.ErrUnexpectedEOF {
			err = io.EOF
		}
		l.buf = append(l.buf, more[:got]...)
		l.err = err
	}
	if len(l.buf) < n {
		return l.buf, l.err
	}
	return l.buf[:n], nil
}

type rewinder struct {
	r io.ReadSeeker
}

func (w *rewinder) Read(p []byte) (int, error) { return w.r.Read(p) }

func (w *rewinder) ReadByte() (byte, error) {
	if br, ok := w.r.(io.ByteReader); ok {
		return br.ReadByte()
	}
	var b [1]byte
	_, err := io.ReadFull(w.r, b[:])
	return b[0], err
}

func (w *rewinder) Peek(n int) ([]byte, error) {
	buf := make([]byte, n)
	got, err := io.ReadFull(w.r, buf)
	if err == io.ErrUnexpectedEOF {
		err = io.EOF
	}
	if _, serr := w.r.Seek(int64(-got), io.SeekCurrent); serr != nil {
		return nil, serr
	}
	return buf[:got], err
}
