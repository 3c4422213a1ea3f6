// Copyright 2024 The Molecule Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package codec

import (
	"github.com/schemabin/molecule/ast"
	"github.com/schemabin/molecule/layout"
)

// DefaultContent recursively produces the canonical "all-default" byte
// sequence for d (spec.md §4.3). It never fails: every resolved
// declaration, by construction, has a well-formed default.
func DefaultContent(d *ast.Decl) []byte {
	if d.IsAtom() {
		return []byte{0}
	}
	switch d.Kind {
	case ast.KindOption:
		return []byte{}
	case ast.KindUnion:
		return defaultUnion(d)
	case ast.KindArray, ast.KindStruct:
		size, _ := d.TotalSize()
		return make([]byte, size)
	case ast.KindFixVec:
		return make([]byte, d.HeaderSize) // item_count=0, HeaderSize is always NumberSize
	case ast.KindDynVec:
		buf := make([]byte, 0, d.HeaderBaseSize)
		buf = appendU32(buf, uint32(d.HeaderBaseSize)) // total_size
		buf = appendU32(buf, 0)                        // item_count
		return buf
	case ast.KindTable:
		return defaultTable(d)
	default:
		return nil
	}
}

// defaultUnion emits the 8-byte header selecting item 0, followed by that
// item's own default content.
func defaultUnion(d *ast.Decl) []byte {
	inner := DefaultContent(d.Items[0])
	buf := make([]byte, 0, 8+len(inner))
	buf = appendU32(buf, uint32(8+len(inner)))
	buf = appendU32(buf, 0)
	buf = append(buf, inner...)
	return buf
}

// defaultTable computes field offsets exactly as the builder does for a
// non-empty table (spec.md §4.3, §4.7): padding precedes a field unless
// that field's default content is empty, in which case no padding is
// emitted and its offset equals the running cursor. This single
// implementation handles the zero-field table too (the loop below simply
// doesn't execute), matching the degenerate 8-byte header case.
func defaultTable(d *ast.Decl) []byte {
	n := len(d.Fields)
	fieldDefaults := make([][]byte, n)
	offsets := make([]int, n)
	cursor := d.HeaderSize
	for i, f := range d.Fields {
		fd := DefaultContent(f.Type)
		fieldDefaults[i] = fd
		if len(fd) == 0 {
			offsets[i] = cursor
			continue
		}
		cursor += layout.Padding(d.FieldAlign[i], cursor)
		offsets[i] = cursor
		cursor += len(fd)
	}
	total := cursor

	buf := make([]byte, 0, total)
	buf = appendU32(buf, uint32(total))
	buf = appendU32(buf, uint32(n))
	for _, off := range offsets {
		buf = appendU32(buf, uint32(off))
	}
	pos := d.HeaderSize
	for i, fd := range fieldDefaults {
		if len(fd) == 0 {
			continue
		}
		buf = append(buf, make([]byte, offsets[i]-pos)...)
		buf = append(buf, fd...)
		pos = offsets[i] + len(fd)
	}
	return buf
}
