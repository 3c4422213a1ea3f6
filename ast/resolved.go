// Copyright 2024 The Molecule Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ast

import "github.com/schemabin/molecule/layout"

// Field pairs a declared name with the resolved child it refers to. Used by
// both Struct and Table declarations (Table reuses the same shape; only its
// header framing differs from Struct's, per spec.md §3.2).
type Field struct {
	Name string
	Type *Decl
}

// Decl is a fully resolved declaration: a raw declaration annotated with the
// layout metadata computed by the resolver (spec.md §3.2, §4.2). Composite
// declarations reference their children by ordinary Go pointers into the
// shared, immutable graph built once by resolve.Resolve; because the graph
// is never mutated after resolution and the garbage collector owns its
// lifetime, this gives the reference-counted sharing spec.md §3.4 and §9
// call for without an explicit refcount.
type Decl struct {
	Name  string
	Kind  Kind
	Align layout.Alignment

	// Atom has no further metadata beyond Kind/Align (size is always 1 and
	// is returned by TotalSize without a dedicated field).

	// Option, Array, FixVec, DynVec: the single referenced type.
	Inner *Decl

	// Union: ordered item types. HeaderFullSize is always 8 (I-ALIGN-HEADER).
	Items          []*Decl
	HeaderFullSize int

	// Array: fixed-size item layout and repeat count.
	ItemSize    int
	ItemPadding int
	ItemAlign   layout.Alignment
	ItemCount   int

	// Struct and Table: ordered fields. Struct additionally carries
	// per-field size/padding since its total size is fixed; Table's
	// per-field framing is computed per-wire-instance instead (its fields
	// are not all fixed-size).
	Fields       []Field
	FieldSize    []int
	FieldPadding []int
	FieldAlign   []layout.Alignment

	// FixVec: item_size/item_padding/item_align reuse the Array-shaped
	// fields above (FixVec items are fixed-size by construction).
	HeaderSize    int // FixVec: 4. Table: 4*(2+len(Fields)).
	HeaderPadding int // FixVec only.

	// DynVec: always 8 (total_size + item_count).
	HeaderBaseSize int
}

// IsAtom reports whether d is the single reserved byte atom.
func (d *Decl) IsAtom() bool {
	return d.Kind == kindAtom
}

// kindAtom is a sentinel Kind value distinct from the seven declarable
// kinds in Kind's public enumeration; it never appears in a RawDecl because
// the atom cannot be authored, only referenced by the reserved name "byte".
const kindAtom Kind = -1

// NewAtom constructs the singleton atom declaration. Only resolve.Resolve
// calls this; it is exported so other packages (and tests) can recognize or
// construct the atom without reaching into resolve's internals.
func NewAtom() *Decl {
	return &Decl{Name: AtomName, Kind: kindAtom, Align: layout.Align1}
}

// TotalSize returns the declaration's fixed wire size and true, or
// (0, false) if the type's serialized length varies with content. Only
// Atom, Array and Struct are fixed-size (spec.md §3.2 "Fixed total size?").
func (d *Decl) TotalSize() (int, bool) {
	switch d.Kind {
	case kindAtom:
		return 1, true
	case KindArray:
		return (d.ItemSize+d.ItemPadding)*d.ItemCount - d.ItemPadding, true
	case KindStruct:
		total := 0
		for _, s := range d.FieldSize {
			total += s
		}
		for _, p := range d.FieldPadding {
			total += p
		}
		return total, true
	default:
		return 0, false
	}
}

// IsFixedSize reports whether the declaration has a schema-determined total
// size (I-FIXED-INNER requires this of Array item types and Struct field
// types).
func (d *Decl) IsFixedSize() bool {
	_, ok := d.TotalSize()
	return ok
}
