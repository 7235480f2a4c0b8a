// Copyright (c) Elliot Nunn
// Licensed under the MIT license

package main

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/encoding/charmap"

	"github.com/elliotnunn/resourceform/internal/dcmp"
	"github.com/elliotnunn/resourceform/internal/resourcefork"
)

// Names, type codes and dumped text are all Mac OS Roman.
func macChar(b byte) rune { return charmap.Macintosh.DecodeByte(b) }

// printable also admits the Apple logo, which is in the private use area.
func printable(r rune) bool {
	return unicode.IsPrint(r) || r == '\uf8ff'
}

// printableText replaces unprintable characters with dots.
func printableText(data []byte) string {
	var b strings.Builder
	for _, c := range data {
		if r := macChar(c); printable(r) {
			b.WriteRune(r)
		} else {
			b.WriteByte('.')
		}
	}
	return b.String()
}

// translateText decodes text with classic Mac line endings.
func translateText(data []byte) string {
	return strings.ReplaceAll(resourcefork.MacRoman(data), "\r", "\n")
}

func escapeBytes(data []byte, quote rune) string {
	var b strings.Builder
	for _, c := range data {
		r := macChar(c)
		switch {
		case r == quote || r == '\\':
			b.WriteByte('\\')
			b.WriteRune(r)
		case printable(r):
			b.WriteRune(r)
		default:
			fmt.Fprintf(&b, "\\x%02x", c)
		}
	}
	return b.String()
}

func quoteBytes(data []byte, quote rune) string {
	return string(quote) + escapeBytes(data, quote) + string(quote)
}

// unescapeBytes reverses escapeBytes, accepting \\, \', \" and \xHH.
func unescapeBytes(s string) ([]byte, error) {
	var out []byte
	rs := []rune(s)
	for i := 0; i < len(rs); i++ {
		r := rs[i]
		if r != '\\' {
			c, ok := charmap.Macintosh.EncodeRune(r)
			if !ok {
				return nil, fmt.Errorf("%q has no Mac OS Roman equivalent", r)
			}
			out = append(out, c)
			continue
		}
		if i+1 >= len(rs) {
			return nil, fmt.Errorf("end of string in escape sequence")
		}
		i++
		switch esc := rs[i]; esc {
		case '\\', '\'', '"':
			out = append(out, byte(esc))
		case 'x':
			if i+2 >= len(rs) {
				return nil, fmt.Errorf("end of string in escape sequence")
			}
			c, err := strconv.ParseUint(string(rs[i+1:i+3]), 16, 8)
			if err != nil {
				return nil, fmt.Errorf("bad hex escape \\x%s", string(rs[i+1:i+3]))
			}
			out = append(out, byte(c))
			i += 2
		default:
			return nil, fmt.Errorf("unknown escape character: %q", esc)
		}
	}
	return out, nil
}

// hexdump writes 16 bytes per line with offsets, collapsing runs of
// identical lines into a single "*".
func hexdump(w io.Writer, r io.Reader) error {
	br := bufio.NewReader(r)
	var (
		last     []byte
		asterisk bool
		off      int64
	)
	for {
		line := make([]byte, 16)
		n, err := io.ReadFull(br, line)
		line = line[:n]
		if n > 0 {
			if last != nil && string(line) == string(last) {
				if !asterisk {
					fmt.Fprintln(w, "*")
					asterisk = true
				}
			} else {
				left, right := line[:min(8, n)], line[min(8, n):]
				fmt.Fprintf(w, "%08x  %-23s  %-23s  |%s|\n", off, hexBytes(left), hexBytes(right), printableText(line))
				asterisk = false
			}
			last = line
			off += int64(n)
		}
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			break
		} else if err != nil {
			return err
		}
	}
	if off > 0 {
		fmt.Fprintf(w, "%08x\n", off)
	}
	return nil
}

// rawHexdump writes bare hex, 16 bytes per line.
func rawHexdump(w io.Writer, r io.Reader) error {
	br := bufio.NewReader(r)
	for {
		line := make([]byte, 16)
		n, err := io.ReadFull(br, line)
		if n > 0 {
			fmt.Fprintln(w, hexBytes(line[:n]))
		}
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return nil
		} else if err != nil {
			return err
		}
	}
}

func hexBytes(data []byte) string {
	parts := make([]string, len(data))
	for i, c := range data {
		parts[i] = fmt.Sprintf("%02x", c)
	}
	return strings.Join(parts, " ")
}

// describe summarises a resource on one line.
func describe(r *resourcefork.Resource, withType, decompress bool) string {
	id := fmt.Sprint(r.ID)
	if r.HasName() {
		if name, err := r.Name(); err == nil {
			id += ", " + quoteBytes(name, '"')
		} else {
			id += ", unreadable name"
		}
	}

	var parts []string
	raw, err := r.RawLength()
	switch {
	case err != nil:
		parts = append(parts, fmt.Sprintf("unreadable data (%v)", err))
	case decompress && r.Compressed():
		if _, err := r.CompressedInfo(); err != nil {
			parts = append(parts, fmt.Sprintf("unparseable compressed data header (%d bytes compressed)", raw))
		} else {
			n, _ := r.Length()
			parts = append(parts, fmt.Sprintf("%d bytes (%d bytes compressed)", n, raw))
		}
	default:
		parts = append(parts, fmt.Sprintf("%d bytes", raw))
	}
	if r.Attributes != 0 {
		parts = append(parts, r.Attributes.String())
	}

	desc := fmt.Sprintf("(%s): %s", id, strings.Join(parts, ", "))
	if withType {
		desc = quoteBytes(r.Type[:], '\'') + " " + desc
	}
	return desc
}

func compressedInfoLines(h dcmp.Header) []string {
	c := h.Common()
	lines := []string{
		fmt.Sprintf("Header length: %d bytes", c.HeaderLength),
		fmt.Sprintf("Compression type: 0x%04x", c.CompressionType),
		fmt.Sprintf("Decompressed data length: %d bytes", c.DecompressedLength),
		fmt.Sprintf("'dcmp' resource ID: %d", h.DecoderID()),
	}
	switch h := h.(type) {
	case dcmp.Type8Header:
		lines = append(lines,
			fmt.Sprintf("Working buffer fractional size: %d 256ths of compressed data length", h.WorkingBufferFraction),
			fmt.Sprintf("Expansion buffer size: %d bytes", h.ExpansionBufferSize))
	case dcmp.Type9Header:
		lines = append(lines,
			fmt.Sprintf("Decompressor-specific parameters: %s", hexBytes(h.Parameters[:])))
	}
	return lines
}

// Rez attribute keywords, where Rez has one
var rezAttrNames = map[resourcefork.Attrs]string{
	resourcefork.ResSysHeap:   "sysheap",
	resourcefork.ResPurgeable: "purgeable",
	resourcefork.ResLocked:    "locked",
	resourcefork.ResProtected: "protected",
	resourcefork.ResPreload:   "preload",
}

// derez writes a resource like DeRez does without resource definitions.
func derez(w io.Writer, res *resourcefork.Resource, data io.Reader, decompress bool) error {
	attrs := res.Attributes
	comment := ""
	if decompress && attrs&resourcefork.ResCompressed != 0 {
		attrs &^= resourcefork.ResCompressed
		comment = " /* was compressed */"
	}

	parts := []string{fmt.Sprint(res.ID)}
	if res.HasName() {
		name, err := res.Name()
		if err != nil {
			return err
		}
		parts = append(parts, quoteBytes(name, '"'))
	}
	var names []string
	for bit := resourcefork.ResSysRef; bit != 0; bit >>= 1 {
		if attrs&bit == 0 {
			continue
		}
		name, ok := rezAttrNames[bit]
		if !ok {
			names = []string{fmt.Sprintf("$%02X", uint8(res.Attributes))}
			break
		}
		names = append(names, name)
	}
	parts = append(parts, names...)

	fmt.Fprintf(w, "data %s (%s%s) {\n", quoteBytes(res.Type[:], '\''), strings.Join(parts, ", "), comment)
	br := bufio.NewReader(data)
	for {
		line := make([]byte, 16)
		n, err := io.ReadFull(br, line)
		line = line[:n]
		if n > 0 {
			var groups []string
			for j := 0; j < n; j += 2 {
				groups = append(groups, fmt.Sprintf("%X", line[j:min(j+2, n)]))
			}
			s := `$"` + strings.Join(groups, " ") + `"`
			fmt.Fprintf(w, "\t%-54s/* %s */\n", s, printableText(line))
		}
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			break
		} else if err != nil {
			return err
		}
	}
	fmt.Fprint(w, "};\n\n")
	return nil
}
