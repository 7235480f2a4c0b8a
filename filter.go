// Copyright (c) Elliot Nunn
// Licensed under the MIT license

package main

import (
	"bytes"
	"cmp"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/elliotnunn/resourceform/internal/resourcefork"
)

const filterHelp = `The resource filters use syntax similar to Rez (resource definition) files.
Each filter can have one of the following forms:

An unquoted type name (without escapes): TYPE
A quoted type name: 'TYPE'
A quoted type name and an ID: 'TYPE' (42)
A quoted type name and an ID range: 'TYPE' (24:42)
A quoted type name and a resource name: 'TYPE' ("foobar")

--glob matches TYPE/ID paths as in the served file system, for example
--glob 'STR#/*' or --glob '*/1??'.`

type filter struct {
	typ          resourcefork.Type
	minID, maxID int
	name         []byte // nil matches any
}

func parseFilter(s string) (filter, error) {
	f := filter{minID: math.MinInt16, maxID: math.MaxInt16}
	bad := func(format string, args ...any) (filter, error) {
		return filter{}, fmt.Errorf("invalid filter %q: "+format, append([]any{s}, args...)...)
	}

	var typ []byte
	switch {
	case utf8.RuneCountInString(s) == 4:
		t, err := resourcefork.ParseType(s)
		if err != nil {
			return bad("%v", err)
		}
		f.typ = t
		return f, nil

	case len(s) >= 2 && s[0] == '\'' && s[len(s)-1] == '\'':
		var err error
		if typ, err = unescapeBytes(s[1 : len(s)-1]); err != nil {
			return bad("%v", err)
		}

	default:
		pos := strings.IndexByte(s[min(1, len(s)):], '\'')
		if len(s) == 0 || s[0] != '\'' || pos < 0 {
			return bad("resource type must be single-quoted")
		}
		pos++
		if pos+1 >= len(s) || s[pos+1] != ' ' {
			return bad("resource type and ID must be separated by a space")
		}
		var err error
		if typ, err = unescapeBytes(s[1:pos]); err != nil {
			return bad("%v", err)
		}

		id := s[pos+2:]
		if len(id) < 2 || id[0] != '(' || id[len(id)-1] != ')' {
			return bad("resource ID must be parenthesized")
		}
		id = id[1 : len(id)-1]

		switch {
		case len(id) >= 2 && id[0] == '"' && id[len(id)-1] == '"':
			name, err := unescapeBytes(id[1 : len(id)-1])
			if err != nil {
				return bad("%v", err)
			}
			f.name = name
		case strings.Count(id, ":") > 1:
			return bad("too many colons in ID range expression: %q", id)
		case strings.Contains(id, ":"):
			lo, hi, _ := strings.Cut(id, ":")
			if f.minID, err = strconv.Atoi(lo); err != nil {
				return bad("%v", err)
			}
			if f.maxID, err = strconv.Atoi(hi); err != nil {
				return bad("%v", err)
			}
		default:
			if f.minID, err = strconv.Atoi(id); err != nil {
				return bad("%v", err)
			}
			f.maxID = f.minID
		}
	}

	switch {
	case len(typ) != 4:
		return bad("type code must be exactly 4 bytes long, not %d bytes", len(typ))
	case f.minID < math.MinInt16:
		return bad("resource ID lower bound (%d) cannot be lower than %d", f.minID, math.MinInt16)
	case f.maxID > math.MaxInt16:
		return bad("resource ID upper bound (%d) cannot be greater than %d", f.maxID, math.MaxInt16)
	case f.minID > f.maxID:
		return bad("resource ID lower bound (%d) cannot be greater than upper bound (%d)", f.minID, f.maxID)
	}
	f.typ = resourcefork.Type(typ)
	return f, nil
}

func (f filter) matches(r *resourcefork.Resource) bool {
	if r.Type != f.typ || int(r.ID) < f.minID || int(r.ID) > f.maxID {
		return false
	}
	if f.name == nil {
		return true
	}
	name, err := r.Name()
	return err == nil && name != nil && bytes.Equal(name, f.name)
}

// selection is every resource matching any filter or glob,
// or every resource if there are none.
type selection struct {
	filters []filter
	globs   []string
}

func newSelection(filters, globs []string) (selection, error) {
	var sel selection
	for _, s := range filters {
		f, err := parseFilter(s)
		if err != nil {
			return sel, err
		}
		sel.filters = append(sel.filters, f)
	}
	for _, g := range globs {
		if !doublestar.ValidatePattern(g) {
			return sel, fmt.Errorf("invalid glob pattern %q", g)
		}
		sel.globs = append(sel.globs, g)
	}
	return sel, nil
}

func (sel selection) matches(r *resourcefork.Resource) bool {
	if len(sel.filters) == 0 && len(sel.globs) == 0 {
		return true
	}
	for _, f := range sel.filters {
		if f.matches(r) {
			return true
		}
	}
	p := r.Type.PathName() + "/" + strconv.Itoa(int(r.ID))
	for _, g := range sel.globs {
		if ok, _ := doublestar.Match(g, p); ok {
			return true
		}
	}
	return false
}

// resources lists the selection in file order, or by type and ID.
func (sel selection) resources(f *resourcefork.File, sorted bool) []*resourcefork.Resource {
	var list []*resourcefork.Resource
	for _, t := range f.Types() {
		for _, r := range f.Resources(t) {
			if sel.matches(r) {
				list = append(list, r)
			}
		}
	}
	if sorted {
		slices.SortStableFunc(list, func(a, b *resourcefork.Resource) int {
			return cmp.Or(bytes.Compare(a.Type[:], b.Type[:]), cmp.Compare(a.ID, b.ID))
		})
	}
	return list
}
