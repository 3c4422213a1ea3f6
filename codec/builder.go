// Copyright 2024 The Molecule Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package codec

import (
	"bytes"

	"github.com/schemabin/molecule/ast"
	"github.com/schemabin/molecule/layout"
)

// Builder composes an in-memory value of a resolved type and renders it to
// the canonical byte layout (spec.md §4.7). A Builder is single-owner:
// populate it via the constructors below, then call Build once; nothing
// about a Builder is safe to share across goroutines until after Build
// produces an immutable Entity (spec.md §5).
type Builder struct {
	Decl *ast.Decl

	atomValue byte
	children  []*Builder // Array items, Struct fields, FixVec/DynVec items, Table fields, in order
	item      *Builder   // Option's "some" value (nil means "none"); Union's selected value
	unionTag  int        // Union: index into Decl.Items matching item
}

// Atom builds a one-byte atom value.
func Atom(d *ast.Decl, v byte) *Builder {
	return &Builder{Decl: d, atomValue: v}
}

// OptionNone builds an empty Option.
func OptionNone(d *ast.Decl) *Builder {
	return &Builder{Decl: d}
}

// OptionSome builds a present Option wrapping v.
func OptionSome(d *ast.Decl, v *Builder) *Builder {
	return &Builder{Decl: d, item: v}
}

// Array builds an Array from its items, in order. len(items) must equal
// d.ItemCount.
func Array(d *ast.Decl, items []*Builder) *Builder {
	return &Builder{Decl: d, children: items}
}

// Struct builds a Struct from its field values, in declaration order.
func Struct(d *ast.Decl, fields []*Builder) *Builder {
	return &Builder{Decl: d, children: fields}
}

// FixVec builds a fixed-size-item vector from its items, in order.
func FixVec(d *ast.Decl, items []*Builder) *Builder {
	return &Builder{Decl: d, children: items}
}

// DynVec builds a variable-size-item vector from its items, in order.
func DynVec(d *ast.Decl, items []*Builder) *Builder {
	return &Builder{Decl: d, children: items}
}

// Union builds a tagged union selecting d.Items[tag].
func Union(d *ast.Decl, tag int, item *Builder) *Builder {
	return &Builder{Decl: d, unionTag: tag, item: item}
}

// Table builds a Table from its declared field values, in declaration order.
func Table(d *ast.Decl, fields []*Builder) *Builder {
	return &Builder{Decl: d, children: fields}
}

// ExpectedLength computes b's output size without materializing it, using
// the same arithmetic Verify uses to compute an expected size.
func (b *Builder) ExpectedLength() int {
	d := b.Decl
	if d.IsAtom() {
		return 1
	}
	switch d.Kind {
	case ast.KindOption:
		if b.item == nil {
			return 0
		}
		return b.item.ExpectedLength()
	case ast.KindUnion:
		return 8 + b.item.ExpectedLength()
	case ast.KindArray, ast.KindStruct:
		size, _ := d.TotalSize()
		return size
	case ast.KindFixVec:
		n := len(b.children)
		if n == 0 {
			return d.HeaderSize
		}
		return d.HeaderSize + d.HeaderPadding + (d.ItemSize+d.ItemPadding)*n - d.ItemPadding
	case ast.KindDynVec:
		_, _, total := dynVecLayout(d, b.children)
		return total
	case ast.KindTable:
		_, total := tableLayout(d, b.children)
		return total
	default:
		return 0
	}
}

// Build allocates a buffer of exactly ExpectedLength() and writes b into
// it, yielding an immutable Entity.
func (b *Builder) Build() Entity {
	buf := &bytes.Buffer{}
	buf.Grow(b.ExpectedLength())
	b.writeTo(buf)
	return Entity{Decl: b.Decl, Data: buf.Bytes()}
}

func (b *Builder) writeTo(w *bytes.Buffer) {
	d := b.Decl
	if d.IsAtom() {
		w.WriteByte(b.atomValue)
		return
	}
	switch d.Kind {
	case ast.KindOption:
		if b.item != nil {
			b.item.writeTo(w)
		}
	case ast.KindUnion:
		writeU32(w, uint32(8+b.item.ExpectedLength()))
		writeU32(w, uint32(b.unionTag))
		b.item.writeTo(w)
	case ast.KindArray:
		for i, c := range b.children {
			c.writeTo(w)
			if i != len(b.children)-1 {
				writeZeros(w, d.ItemPadding)
			}
		}
	case ast.KindStruct:
		for i, c := range b.children {
			writeZeros(w, d.FieldPadding[i])
			c.writeTo(w)
		}
	case ast.KindFixVec:
		n := len(b.children)
		writeU32(w, uint32(n))
		if n == 0 {
			return
		}
		writeZeros(w, d.HeaderPadding)
		for i, c := range b.children {
			c.writeTo(w)
			if i != n-1 {
				writeZeros(w, d.ItemPadding)
			}
		}
	case ast.KindDynVec:
		offsets, childLen, total := dynVecLayout(d, b.children)
		writeU32(w, uint32(total))
		writeU32(w, uint32(len(b.children)))
		for _, off := range offsets {
			writeU32(w, uint32(off))
		}
		cursor := d.HeaderBaseSize + layout.NumberSize*len(b.children)
		for i, c := range b.children {
			if childLen[i] == 0 {
				continue
			}
			writeZeros(w, offsets[i]-cursor)
			c.writeTo(w)
			cursor = offsets[i] + childLen[i]
		}
	case ast.KindTable:
		offsets, total := tableLayout(d, b.children)
		writeU32(w, uint32(total))
		writeU32(w, uint32(len(b.children)))
		for _, off := range offsets {
			writeU32(w, uint32(off))
		}
		cursor := d.HeaderSize
		for i, c := range b.children {
			l := c.ExpectedLength()
			if l == 0 {
				continue
			}
			writeZeros(w, offsets[i]-cursor)
			c.writeTo(w)
			cursor = offsets[i] + l
		}
	}
}

// dynVecLayout computes each child's offset and length and the vector's
// total size, following the "padding omitted when a child is empty" rule
// spec.md §4.4.6 and §9 call out as asymmetric with FixVec.
func dynVecLayout(d *ast.Decl, children []*Builder) (offsets []int, childLen []int, total int) {
	n := len(children)
	offsets = make([]int, n)
	childLen = make([]int, n)
	cursor := d.HeaderBaseSize + layout.NumberSize*n
	for i, c := range children {
		l := c.ExpectedLength()
		childLen[i] = l
		if l == 0 {
			offsets[i] = cursor
			continue
		}
		cursor += layout.Padding(d.ItemAlign, cursor)
		offsets[i] = cursor
		cursor += l
	}
	return offsets, childLen, cursor
}

// tableLayout is dynVecLayout's Table counterpart: per-field alignment
// instead of a single item alignment, and a header sized for the declared
// field count.
func tableLayout(d *ast.Decl, children []*Builder) (offsets []int, total int) {
	n := len(children)
	offsets = make([]int, n)
	cursor := d.HeaderSize
	for i, c := range children {
		l := c.ExpectedLength()
		if l == 0 {
			offsets[i] = cursor
			continue
		}
		cursor += layout.Padding(d.FieldAlign[i], cursor)
		offsets[i] = cursor
		cursor += l
	}
	return offsets, cursor
}
