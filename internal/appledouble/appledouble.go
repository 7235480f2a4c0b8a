// Copyright (c) Elliot Nunn
// Licensed under the MIT license

package appledouble

import (
	"bytes"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"math"
	"strings"
	"time"
)

var admap = map[int]string{
	1:  "DATA_FORK",
	2:  "RESOURCE_FORK",
	3:  "REAL_NAME",
	4:  "COMMENT",
	5:  "ICON_BW",
	6:  "ICON_COLOR",
	7:  "FILE_INFO_V1",
	8:  "FILE_DATES_INFO",
	9:  "FINDER_INFO",
	10: "MACINTOSH_FILE_INFO",
	11: "PRODOS_FILE_INFO",
	12: "MSDOS_FILE_INFO",
	13: "SHORT_NAME",
	14: "AFP_FILE_INFO",
	15: "DIRECTORY_ID",
}

func entryName(id uint32) string {
	if name, ok := admap[int(id)]; ok {
		return name
	}
	return fmt.Sprintf("UNKNOWN_%X", id)
}

// Describe lists the entries one per line, decoding the small metadata ones.
func (f *File) Describe() string {
	var bild strings.Builder
	if f.Single {
		bild.WriteString("AppleSingle")
	} else {
		bild.WriteString("AppleDouble")
	}
	fmt.Fprintf(&bild, " version %#x", f.Version)
	for _, e := range f.Entries {
		val := fmt.Sprintf("%#x:%#x", e.Offset, int64(e.Offset)+int64(e.Length))
		switch e.ID {
		case FILE_DATES_INFO, FINDER_INFO, MACINTOSH_FILE_INFO:
			data, _, err := f.ReadEntry(e.ID)
			if err != nil {
				val = "unreadable " + err.Error()
				break
			}
			switch e.ID {
			case FILE_DATES_INFO:
				val = formatDates(data)
			case FINDER_INFO: // differs between files and directories
				val = formatFinderInfo(data)
			case MACINTOSH_FILE_INFO:
				val = formatOtherInfo(data)
			}
		}
		fmt.Fprintf(&bild, "\n%s=%s", entryName(e.ID), val)
	}
	return bild.String()
}

// Entry dates count signed seconds from 2000, with the minimum meaning unknown.
func addate(data []byte) string {
	t := int32(binary.BigEndian.Uint32(data))
	if t == math.MinInt32 {
		return "unknown"
	}
	return appleDoubleEpoch.Add(time.Duration(t) * time.Second).Format("2006-01-02 15:04:05")
}

func formatDates(data []byte) string {
	if len(data) < 16 {
		return "malformed " + hex.EncodeToString(data)
	}
	return fmt.Sprintf("(C=%s,M=%s,B=%s,A=%s)",
		addate(data[:]),
		addate(data[4:]),
		addate(data[8:]),
		addate(data[12:]))
}

// Finder flags by bit number; bits 1-3 are the label colour
var finderFlags = [16]string{
	0:  "isOnDesk",
	4:  "unknown0x10",
	5:  "requireSwitchLaunch",
	6:  "isShared",
	7:  "hasNoINITs",
	8:  "hasBeenInited",
	9:  "aoceLetter",
	10: "hasCustomIcon",
	11: "isStationery",
	12: "nameLocked",
	13: "hasBundle",
	14: "isInvisible",
	15: "isAlias",
}

func formatFinderInfo(data []byte) string {
	if len(data) < 32 {
		return "malformed " + hex.EncodeToString(data)
	}
	be := binary.BigEndian
	word := func(i int) int16 { return int16(be.Uint16(data[i:])) }

	var parts []string
	// A directory's rectangle rarely looks like a pair of type codes
	if string(data[:4]) != "\x00\x00\x00\x00" && (data[0] < 32 || data[2] < 32) {
		parts = append(parts, fmt.Sprintf("(%d,%d,%d,%d)", word(0), word(2), word(4), word(6)))
	} else {
		parts = append(parts, fmt.Sprintf("(%q,%q)", data[:4], data[4:8]))
	}

	flags := be.Uint16(data[8:])
	var names []string
	for bit, name := range finderFlags {
		if bit == 1 && flags>>1&7 != 0 {
			names = append(names, fmt.Sprintf("color%d", flags>>1&7))
		}
		if name != "" && flags&(1<<bit) != 0 {
			names = append(names, name)
		}
	}
	parts = append(parts,
		"("+strings.Join(names, ",")+")",
		fmt.Sprintf("(%d,%d)", word(10), word(12)),
		fmt.Sprintf("(rsrv=%#x)", word(14)))

	if ext := data[16:32]; !bytes.Equal(ext, make([]byte, 16)) {
		parts = append(parts, "(ext="+hex.EncodeToString(ext)+")")
	}
	return strings.Join(parts, " ")
}

func formatOtherInfo(data []byte) string {
	if len(data) != 4 || data[0]&0x3f != 0 || (data[1]|data[2]|data[3]) != 0 {
		return "malformed " + hex.EncodeToString(data)
	}
	var v []string
	if data[0]&0x80 != 0 {
		v = append(v, "locked")
	}
	if data[0]&0x40 != 0 {
		v = append(v, "protected")
	}
	return "(" + strings.Join(v, ",") + ")"
}
