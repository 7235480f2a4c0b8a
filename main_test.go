// Copyright (c) Elliot Nunn
// Licensed under the MIT license

package main

import (
	"bytes"
	"context"
	"encoding/binary"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/elliotnunn/resourceform/internal/resourcefork"
)

type testRes struct {
	typ   string
	id    int16
	name  string
	attrs resourcefork.Attrs
	data  string
}

// buildFork lays out types in order of first appearance.
func buildFork(list ...testRes) []byte {
	var types []string
	byType := map[string][]testRes{}
	for _, r := range list {
		if _, ok := byType[r.typ]; !ok {
			types = append(types, r.typ)
		}
		byType[r.typ] = append(byType[r.typ], r)
	}

	var data, refs, names []byte
	typeList := binary.BigEndian.AppendUint16(nil, uint16(len(types)-1))
	for _, t := range types {
		typeList = append(typeList, t...)
		typeList = binary.BigEndian.AppendUint16(typeList, uint16(len(byType[t])-1))
		typeList = binary.BigEndian.AppendUint16(typeList, uint16(2+8*len(types)+len(refs)))
		for _, r := range byType[t] {
			nameOffset := uint16(0xffff)
			if r.name != "" {
				nameOffset = uint16(len(names))
				names = append(names, byte(len(r.name)))
				names = append(names, r.name...)
			}
			refs = binary.BigEndian.AppendUint16(refs, uint16(r.id))
			refs = binary.BigEndian.AppendUint16(refs, nameOffset)
			refs = binary.BigEndian.AppendUint32(refs, uint32(r.attrs)<<24|uint32(len(data)))
			refs = append(refs, 0, 0, 0, 0)
			data = binary.BigEndian.AppendUint32(data, uint32(len(r.data)))
			data = append(data, r.data...)
		}
	}

	nameListOffset := 28 + len(typeList) + len(refs)
	head := make([]byte, 256)
	binary.BigEndian.PutUint32(head[0:], 256)
	binary.BigEndian.PutUint32(head[4:], uint32(256+len(data)))
	binary.BigEndian.PutUint32(head[8:], uint32(len(data)))
	binary.BigEndian.PutUint32(head[12:], uint32(nameListOffset+len(names)))
	copy(head[16:], "system")
	copy(head[128:], "app\rdata")

	m := make([]byte, 28)
	copy(m, head[:16])
	binary.BigEndian.PutUint16(m[22:], uint16(resourcefork.MapReadOnly))
	binary.BigEndian.PutUint16(m[24:], 28)
	binary.BigEndian.PutUint16(m[26:], uint16(nameListOffset))
	m = append(m, typeList...)
	m = append(m, refs...)
	m = append(m, names...)
	return append(append(head, data...), m...)
}

// compressed holds "ABCDABCD\0\0" as 'dcmp' (0)
const compressed = "\xa8\x9fer\x00\x12\x08\x01\x00\x00\x00\x0a\x00\x00\x00\x00\x00\x00" + "\x12ABCD\x23\x4b\xff"

var sampleFork = buildFork(
	testRes{typ: "STR ", id: 128, name: "Greeting", data: "hello"},
	testRes{typ: "STR ", id: 129, data: "bye"},
	testRes{typ: "ICN#", id: 5, attrs: resourcefork.ResPurgeable, data: "x"},
	testRes{typ: "STR#", id: 1, attrs: resourcefork.ResCompressed, data: compressed},
)

// run executes the tool with an empty config file and no cache directory.
func run(t *testing.T, stdin []byte, args ...string) (string, error) {
	t.Helper()
	dir := t.TempDir()
	cfg := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(cfg, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	var stdout, stderr bytes.Buffer
	app := newApp(bytes.NewReader(stdin), &stdout, &stderr)
	argv := append([]string{"resourceform", "--config", cfg}, args...)
	err := execute(context.Background(), app, argv)
	return stdout.String(), err
}

func sampleFile(t *testing.T) string {
	t.Helper()
	name := filepath.Join(t.TempDir(), "sample.rsrc")
	if err := os.WriteFile(name, sampleFork, 0o644); err != nil {
		t.Fatal(err)
	}
	return name
}

func expectOutput(t *testing.T, expect string, stdin []byte, args ...string) {
	t.Helper()
	got, err := run(t, stdin, args...)
	if err != nil {
		t.Fatalf("%q: %v", args, err)
	}
	if got != expect {
		t.Errorf("%q:\n%s\nexpected:\n%s", args, got, expect)
	}
}

func TestList(t *testing.T) {
	name := sampleFile(t)
	expectOutput(t, `3 resource types:
'ICN#': 1 resources:
(5): 1 bytes, resPurgeable

'STR ': 2 resources:
(128, "Greeting"): 5 bytes
(129): 3 bytes

'STR#': 1 resources:
(1): 10 bytes (26 bytes compressed), resCompressed

`, nil, "list", name)

	expectOutput(t, `4 resources:
'STR ' (128, "Greeting"): 5 bytes
'STR ' (129): 3 bytes
'ICN#' (5): 1 bytes, resPurgeable
'STR#' (1): 26 bytes, resCompressed
`, nil, "list", "--fork", "data", "--group", "none", "--no-sort", "--no-decompress", name)

	expectOutput(t, `4 resource IDs:
(1): 1 resources:
'STR#' (1): 10 bytes (26 bytes compressed), resCompressed

(5): 1 resources:
'ICN#' (5): 1 bytes, resPurgeable

(128): 1 resources:
'STR ' (128, "Greeting"): 5 bytes

(129): 1 resources:
'STR ' (129): 3 bytes

`, nil, "list", "--group", "id", name)
}

func TestListFiltered(t *testing.T) {
	name := sampleFile(t)
	expectOutput(t, "No resources matched the filter\n", nil, "list", name, "'snd ' (1)")
	expectOutput(t, `1 resource types:
'STR ': 1 resources:
(129): 3 bytes

`, nil, "list", name, "'STR ' (129:200)")

	got, err := run(t, nil, "list", "--format", "json", "--glob", "STR /*", name)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(got, `"name": "Greeting"`) || !strings.Contains(got, `"id": 129`) || strings.Contains(got, "ICN#") {
		t.Errorf("unexpected JSON listing:\n%s", got)
	}
}

func TestListEmpty(t *testing.T) {
	name := filepath.Join(t.TempDir(), "empty.rsrc")
	os.WriteFile(name, emptyFork(), 0o644)
	expectOutput(t, "No resources (empty resource file)\n", nil, "list", "--fork", "data", name)
}

// emptyFork has a map with no types, as written by the Resource Manager.
func emptyFork() []byte {
	head := make([]byte, 256)
	binary.BigEndian.PutUint32(head[0:], 256)
	binary.BigEndian.PutUint32(head[4:], 256)
	binary.BigEndian.PutUint32(head[12:], 30)
	m := make([]byte, 30)
	copy(m, head[:16])
	binary.BigEndian.PutUint16(m[24:], 28)
	binary.BigEndian.PutUint16(m[26:], 30)
	binary.BigEndian.PutUint16(m[28:], 0xffff)
	return append(head, m...)
}

func TestRead(t *testing.T) {
	name := sampleFile(t)
	expectOutput(t, "68 65 6c 6c 6f\n", nil, "read", "--format", "hex", name, "'STR ' (128)")
	expectOutput(t, "hello", nil, "read", "--format", "raw", name, `'STR ' ("Greeting")`)
	expectOutput(t, "ABCDABCD\x00\x00", nil, "read", "--format", "raw", name, "STR#")
	expectOutput(t, compressed, nil, "read", "--format", "raw", "--no-decompress", name, "STR#")

	expectOutput(t, "Resource 'ICN#' (5): 1 bytes, resPurgeable:\n"+
		"00000000  78"+strings.Repeat(" ", 48)+"|x|\n"+
		"00000001\n\n", nil, "read", name, "ICN#")

	expectOutput(t, "Resource 'STR ' (129): 3 bytes:\nbye\n\n", nil, "read", "--format", "dump-text", name, "'STR ' (129)")

	expectOutput(t, "data 'ICN#' (5, purgeable) {\n\t"+`$"78"`+strings.Repeat(" ", 49)+"/* x */\n};\n\n"+
		"data 'STR#' (1 /* was compressed */) {\n\t"+`$"4142 4344 4142 4344 0000"`+strings.Repeat(" ", 27)+"/* ABCDABCD.. */\n};\n\n",
		nil, "read", "--format", "derez", name, "ICN#", "STR#")

	expectOutput(t, "/* No resources matched the filter */\n", nil, "read", "--format", "derez", name, "snd ")
}

func TestReadErrors(t *testing.T) {
	name := sampleFile(t)
	for _, args := range [][]string{
		{"read", "--format", "hex", name, "STR "},
		{"read", "--format", "raw", name, "snd "},
		{"read", "--format", "bogus", name},
		{"read", name, "'STR ' (x)"},
		{"read", "--fork", "rsrc", "-"},
		{"read", filepath.Join(t.TempDir(), "missing")},
		{"list", "--group", "creator", name},
	} {
		if _, err := run(t, sampleFork, args...); err == nil {
			t.Errorf("%q: expected an error", args)
		}
	}
}

func TestStdin(t *testing.T) {
	expectOutput(t, "hello", sampleFork, "read", "--format", "raw", "-", "'STR ' (128)")
}

func TestResourceInfo(t *testing.T) {
	name := sampleFile(t)
	expectOutput(t, `Resource 'STR ' (128):
	Name: "Greeting" (at offset 0 in name list)
	Attributes: (none)
	Data: 5 bytes stored at offset 0 in resource file data

Resource 'STR#' (1):
	Name: none (unnamed)
	Attributes: resCompressed
	Data: 26 bytes stored at offset 21 in resource file data

	Compressed resource header info:
		Header length: 18 bytes
		Compression type: 0x0801
		Decompressed data length: 10 bytes
		'dcmp' resource ID: 0
		Working buffer fractional size: 0 256ths of compressed data length
		Expansion buffer size: 0 bytes

`, nil, "resource-info", name, "'STR ' (128)", "STR#")
}

func TestHeader(t *testing.T) {
	name := sampleFile(t)
	got, err := run(t, nil, "info", name)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{
		"System-reserved header data:\n00000000  73 79 73 74 65 6d 00 00",
		"Application-specific header data:\n00000000  61 70 70 0d 64 61 74 61",
		"Resource data starts at 0x100 and is 0x33 bytes long\n",
		"Resource map attributes: mapReadOnly\n",
		"Resource map type list starts at 0x1c (relative to map start) and contains 3 types\n",
		"Total resources: 4\n",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("info output lacks %q:\n%s", want, got)
		}
	}
	if strings.Contains(got, "single pass") {
		t.Errorf("a file on disk should be read with random access:\n%s", got)
	}

	got, err = run(t, sampleFork, "info", "-")
	if err != nil || !strings.Contains(got, "Total resources: 4\nThe input was read in a single pass\n") {
		t.Errorf("info from stdin: %v\n%s", err, got)
	}

	expectOutput(t, "Application-specific header data:\napp\ndata"+strings.Repeat("\x00", 120)+"\n",
		nil, "read-header", "--format", "dump-text", "--part", "application", name)
	expectOutput(t, "system"+strings.Repeat("\x00", 106), nil, "read-header", "--format", "raw", "--part", "system", name)

	got, err = run(t, nil, "read-header", "--format", "raw", name)
	if err != nil || len(got) != 240 {
		t.Errorf("expected all 240 bytes of header data, got %d, %v", len(got), err)
	}
}

func TestRawCompressed(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in")
	out := filepath.Join(dir, "out")
	os.WriteFile(in, []byte(compressed), 0o644)

	expectOutput(t, `Header length: 18 bytes
Compression type: 0x0801
Decompressed data length: 10 bytes
'dcmp' resource ID: 0
Working buffer fractional size: 0 256ths of compressed data length
Expansion buffer size: 0 bytes
`, nil, "raw-compress-info", in)

	expectOutput(t, "", nil, "raw-decompress", in, out)
	if data, err := os.ReadFile(out); string(data) != "ABCDABCD\x00\x00" || err != nil {
		t.Errorf("got %q, %v", data, err)
	}
	expectOutput(t, "ABCDABCD\x00\x00", []byte(compressed), "raw-decompress", "--debug", "-", "-")
}

func TestRawDecompressBadHeader(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "out")
	if _, err := run(t, []byte("not compressed at all"), "raw-decompress", "-", out); err == nil {
		t.Error("expected an error")
	}
	if _, err := os.Stat(out); !os.IsNotExist(err) {
		t.Errorf("output should not be created for bad input: %v", err)
	}
}

func TestConfigDefaults(t *testing.T) {
	name := sampleFile(t)
	cfg := filepath.Join(t.TempDir(), "config.yaml")
	os.WriteFile(cfg, []byte("decompress: false\nsort: false\nfork: data\ncache_entries: 0\n"), 0o644)

	var stdout bytes.Buffer
	app := newApp(nil, &stdout, &bytes.Buffer{})
	err := app.Run(context.Background(), []string{"resourceform", "--config", cfg, "list", "--group", "none", name})
	if err != nil {
		t.Fatal(err)
	}
	expect := `4 resources:
'STR ' (128, "Greeting"): 5 bytes
'STR ' (129): 3 bytes
'ICN#' (5): 1 bytes, resPurgeable
'STR#' (1): 26 bytes, resCompressed
`
	if stdout.String() != expect {
		t.Errorf("got:\n%s\nexpected:\n%s", stdout.String(), expect)
	}

	os.WriteFile(cfg, []byte("fork: both\n"), 0o644)
	app = newApp(nil, &bytes.Buffer{}, &bytes.Buffer{})
	if err := app.Run(context.Background(), []string{"resourceform", "--config", cfg, "list", name}); err == nil {
		t.Error("expected an invalid config to be rejected")
	}
}
