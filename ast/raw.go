// Copyright 2024 The Molecule Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ast

// Kind identifies which of the seven declarable shapes a declaration has.
// The atom (the single byte type) is not declarable; it is seeded by the
// resolver under the reserved name "byte".
type Kind int

const (
	KindOption Kind = iota
	KindUnion
	KindArray
	KindStruct
	KindFixVec
	KindDynVec
	KindTable
)

func (k Kind) String() string {
	switch k {
	case kindAtom:
		return "atom"
	case KindOption:
		return "option"
	case KindUnion:
		return "union"
	case KindArray:
		return "array"
	case KindStruct:
		return "struct"
	case KindFixVec:
		return "fixvec"
	case KindDynVec:
		return "dynvec"
	case KindTable:
		return "table"
	default:
		return "unknown"
	}
}

// AtomName and AtomPrimitiveName are the two identifiers reserved for the
// atom (I-NAME): a schema author may not declare either as a type name.
const (
	AtomName          = "byte"
	AtomPrimitiveName = "Byte"
)

// RawField is a named reference to another declaration, used by Struct and
// Table declarations.
type RawField struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// RawDecl is one entry of the raw declaration list: the resolver's input
// contract (spec.md §3, §6). Which fields are meaningful depends on Kind:
//
//	Option  : Type
//	Union   : Items (ordered, n>=1)
//	Array   : Type, Count
//	Struct  : Fields
//	FixVec  : Type
//	DynVec  : Type
//	Table   : Fields
type RawDecl struct {
	Name   string     `json:"name"`
	Kind   Kind       `json:"kind"`
	Type   string     `json:"type,omitempty"`
	Count  int        `json:"count,omitempty"`
	Items  []string   `json:"items,omitempty"`
	Fields []RawField `json:"fields,omitempty"`
}

// RawAst is the raw declaration list. Order is significant only for final
// emission order (spec.md §4.2 "Input"); the resolver itself is
// order-independent because it runs to a fixed point.
type RawAst struct {
	Decls []RawDecl `json:"decls"`
}
