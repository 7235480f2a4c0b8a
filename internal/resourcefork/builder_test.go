// Copyright (c) Elliot Nunn
// Licensed under the MIT license

package resourcefork

import "encoding/binary"

type testRes struct {
	typ   string
	id    int16
	name  string // empty for none
	attrs Attrs
	data  string
}

// buildFork lays out a resource file the way the Resource Manager does:
// header, data, then map with type list, reference lists and name list.
func buildFork(fileAttrs FileAttrs, list ...testRes) []byte {
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
	refBase := 2 + 8*len(types)
	for _, t := range types {
		typeList = append(typeList, t...)
		typeList = binary.BigEndian.AppendUint16(typeList, uint16(len(byType[t])-1))
		typeList = binary.BigEndian.AppendUint16(typeList, uint16(refBase+len(refs)))
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

	typeListOffset := mapHeaderSize
	nameListOffset := typeListOffset + len(typeList) + len(refs)
	mapLength := nameListOffset + len(names)

	head := make([]byte, headerSize)
	binary.BigEndian.PutUint32(head[0:], headerSize)
	binary.BigEndian.PutUint32(head[4:], uint32(headerSize+len(data)))
	binary.BigEndian.PutUint32(head[8:], uint32(len(data)))
	binary.BigEndian.PutUint32(head[12:], uint32(mapLength))
	copy(head[16:], "system")
	copy(head[128:], "application")

	m := make([]byte, mapHeaderSize)
	copy(m, head[:16])
	binary.BigEndian.PutUint16(m[22:], uint16(fileAttrs))
	binary.BigEndian.PutUint16(m[24:], uint16(typeListOffset))
	binary.BigEndian.PutUint16(m[26:], uint16(nameListOffset))
	m = append(m, typeList...)
	m = append(m, refs...)
	m = append(m, names...)

	out := append(head, data...)
	return append(out, m...)
}
