// Copyright (c) Elliot Nunn
// Licensed under the MIT license

package resourcefork

import (
	"fmt"
	"strings"
)

// FileAttrs are the resource map attribute flags.
type FileAttrs uint16

const (
	MapChanged                            FileAttrs = 1 << 5
	MapCompact                            FileAttrs = 1 << 6
	MapReadOnly                           FileAttrs = 1 << 7
	MapPrinterDriverMultiFinderCompatible FileAttrs = 1 << 8
	MapResourcesLocked                    FileAttrs = 1 << 15
)

var fileAttrNames = map[FileAttrs]string{
	MapResourcesLocked:                    "mapResourcesLocked",
	MapPrinterDriverMultiFinderCompatible: "mapPrinterDriverMultiFinderCompatible",
	MapReadOnly:                           "mapReadOnly",
	MapCompact:                            "mapCompact",
	MapChanged:                            "mapChanged",
}

// Attrs are the attribute flags of a single resource.
type Attrs uint8

const (
	ResCompressed Attrs = 1 << iota
	ResChanged
	ResPreload
	ResProtected
	ResLocked
	ResPurgeable
	ResSysHeap
	ResSysRef
)

var attrNames = map[Attrs]string{
	ResSysRef:     "resSysRef",
	ResSysHeap:    "resSysHeap",
	ResPurgeable:  "resPurgeable",
	ResLocked:     "resLocked",
	ResProtected:  "resProtected",
	ResPreload:    "resPreload",
	ResChanged:    "resChanged",
	ResCompressed: "resCompressed",
}

// Names lists the set flags, highest bit first.
// Bits without a name are given in hex.
func (a FileAttrs) Names() []string { return flagNames(uint64(a), 16, fileAttrNames) }

func (a Attrs) Names() []string { return flagNames(uint64(a), 8, attrNames) }

func (a FileAttrs) String() string { return joinFlags(a.Names()) }

func (a Attrs) String() string { return joinFlags(a.Names()) }

func flagNames[F ~uint8 | ~uint16](v uint64, width int, names map[F]string) []string {
	var ret []string
	for bit := width - 1; bit >= 0; bit-- {
		mask := uint64(1) << bit
		if v&mask == 0 {
			continue
		}
		if name, ok := names[F(mask)]; ok {
			ret = append(ret, name)
		} else {
			ret = append(ret, fmt.Sprintf("%#x", mask))
		}
	}
	return ret
}

func joinFlags(names []string) string {
	if len(names) == 0 {
		return "(none)"
	}
	return strings.Join(names, " | ")
}
