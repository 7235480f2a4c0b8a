// Copyright (c) Elliot Nunn
// Licensed under the MIT license

package main

import (
	"bytes"
	"math"
	"strconv"
	"testing"

	"github.com/elliotnunn/resourceform/internal/resourcefork"
)

func TestParseFilter(t *testing.T) {
	cases := []struct {
		in           string
		typ          string
		minID, maxID int
		name         string
	}{
		{"STR ", "STR ", math.MinInt16, math.MaxInt16, ""},
		{"'STR#'", "STR#", math.MinInt16, math.MaxInt16, ""},
		{`'\x00abc'`, "\x00abc", math.MinInt16, math.MaxInt16, ""},
		{"'STR ' (128)", "STR ", 128, 128, ""},
		{"'STR ' (-5:-1)", "STR ", -5, -1, ""},
		{"'STR ' (24:42)", "STR ", 24, 42, ""},
		{`'STR ' ("hi there")`, "STR ", math.MinInt16, math.MaxInt16, "hi there"},
	}
	for _, c := range cases {
		f, err := parseFilter(c.in)
		if err != nil {
			t.Errorf("%s: %v", c.in, err)
			continue
		}
		if string(f.typ[:]) != c.typ || f.minID != c.minID || f.maxID != c.maxID || string(f.name) != c.name {
			t.Errorf("%s: got %+v", c.in, f)
		}
		if (c.name != "") != (f.name != nil) {
			t.Errorf("%s: name filter should be set only when given", c.in)
		}
	}
}

func TestParseFilterErrors(t *testing.T) {
	for _, s := range []string{
		"",
		"STR",
		"'STR '(128)",
		"'STR ' 128",
		"'STR ' (1:2:3)",
		"'STR ' (5:1)",
		"'STR ' (40000)",
		"'STR ' (-40000:0)",
		"'STR ' (x)",
		"'ST' (1)",
		"'STRINGS'",
		`'STR ' ("\q")`,
	} {
		if f, err := parseFilter(s); err == nil {
			t.Errorf("parseFilter(%q) = %+v, expected an error", s, f)
		}
	}
}

func TestSelection(t *testing.T) {
	f, err := resourcefork.New(bytes.NewReader(sampleFork))
	if err != nil {
		t.Fatal(err)
	}

	cases := []struct {
		filters, globs []string
		file, sorted   string
	}{
		{nil, nil, "STR (128) STR (129) ICN#(5) STR#(1)", "ICN#(5) STR (128) STR (129) STR#(1)"},
		{[]string{"STR "}, nil, "STR (128) STR (129)", ""},
		{[]string{`'STR ' ("Greeting")`}, nil, "STR (128)", ""},
		{[]string{`'STR ' ("greeting")`}, nil, "", ""},
		{[]string{"'STR ' (129)", "ICN#"}, nil, "STR (129) ICN#(5)", "ICN#(5) STR (129)"},
		{nil, []string{"STR*/*"}, "STR (128) STR (129) STR#(1)", ""},
		{nil, []string{"*/12?"}, "STR (128) STR (129)", ""},
		{[]string{"ICN#"}, []string{"*/1"}, "ICN#(5) STR#(1)", ""},
	}
	for _, c := range cases {
		sel, err := newSelection(c.filters, c.globs)
		if err != nil {
			t.Fatal(err)
		}
		if got := names(sel.resources(f, false)); got != c.file {
			t.Errorf("%q %q in file order: got %q, expected %q", c.filters, c.globs, got, c.file)
		}
		if c.sorted == "" {
			c.sorted = c.file
		}
		if got := names(sel.resources(f, true)); got != c.sorted {
			t.Errorf("%q %q sorted: got %q, expected %q", c.filters, c.globs, got, c.sorted)
		}
	}

	if _, err := newSelection(nil, []string{"[unclosed"}); err == nil {
		t.Error("expected an error for a bad glob")
	}
}

func names(list []*resourcefork.Resource) string {
	var b bytes.Buffer
	for i, r := range list {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(r.Type.String())
		b.WriteString("(")
		b.WriteString(strconv.Itoa(int(r.ID)))
		b.WriteString(")")
	}
	return b.String()
}
