// Copyright (c) Elliot Nunn
// Licensed under the MIT license

package resourcefork

import (
	"bytes"
	"encoding/hex"
	"io/fs"
	"strings"
	"testing"
	"testing/fstest"
)

var extremeFork = buildFork(0,
	testRes{typ: "0b  ", id: -32768},
	testRes{typ: "0b  ", id: 32767},
	testRes{typ: "99b ", id: -32768, data: strings.Repeat("\xee", 99)},
	testRes{typ: "99b ", id: 32767, data: strings.Repeat("\xee", 99)},
)

func TestExtremeIDs(t *testing.T) {
	for mode, f := range both(t, extremeFork) {
		fsys := f.FS()
		err := fstest.TestFS(fsys, "0b  /-32768", "0b  /32767", "99b /-32768", "99b /32767")
		if err != nil {
			t.Errorf("%s: %v", mode, err)
		}

		s, err := fs.Stat(fsys, "0b  /-32768")
		if err != nil {
			t.Error(err)
		} else if s.Size() != 0 {
			t.Errorf("%s: expected resource of type '0b  ' to be 0 bytes, got %d", mode, s.Size())
		}

		s, err = fs.Stat(fsys, "99b /-32768")
		if err != nil {
			t.Error(err)
		} else if s.Size() != 99 {
			t.Errorf("%s: expected resource of type '99b ' to be 99 bytes, got %d", mode, s.Size())
		}
		data, err := fs.ReadFile(fsys, "99b /32767")
		if len(data) != 99 || len(bytes.ReplaceAll(data, []byte{0xee}, nil)) != 0 {
			t.Errorf("%s: expected resource of type '99b ' to contain 0xee x 99, got %s %v", mode, hex.EncodeToString(data), err)
		}
	}
}

func TestLongName(t *testing.T) {
	long := strings.Repeat("n", 255)
	fork := buildFork(0,
		testRes{typ: "blan", id: 128, name: "_"},
		testRes{typ: "long", id: 128, name: long, data: "x"},
	)
	for mode, f := range both(t, fork) {
		r, ok := f.Lookup(mustType(t, "long"), 128)
		if !ok {
			t.Fatalf("%s: 'long' (128) missing", mode)
		}
		if name, err := r.Name(); string(name) != long || err != nil {
			t.Errorf("%s: wrong name %q %v", mode, name, err)
		}
		if r.NameOffset() != 2 {
			t.Errorf("%s: expected the name at offset 2, got %d", mode, r.NameOffset())
		}
		if err := fstest.TestFS(f.FS(), "blan/128", "long/128"); err != nil {
			t.Errorf("%s: %v", mode, err)
		}
	}
}

func TestTypePathNames(t *testing.T) {
	fork := buildFork(0,
		testRes{typ: "a/b ", id: 1, data: "slash"},
		testRes{typ: "a:b ", id: 1, data: "colon"},
		testRes{typ: "\xa5\xa5\xa5\xa5", id: 2, data: "bullets"},
	)
	for mode, f := range both(t, fork) {
		fsys := f.FS()
		for name, expect := range map[string]string{
			"a:b /1": "slash",
			"••••/2": "bullets",
		} {
			if data, err := fs.ReadFile(fsys, name); string(data) != expect || err != nil {
				t.Errorf("%s: %s = %q %v, expected %q", mode, name, data, err, expect)
			}
		}
		if _, err := fs.Stat(fsys, "a/b /1"); err == nil {
			t.Errorf("%s: a raw slash should not reach a type", mode)
		}
	}
}
