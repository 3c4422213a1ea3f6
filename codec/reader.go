// Copyright 2024 The Molecule Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package codec

import "github.com/schemabin/molecule/ast"

// Reader is a non-owning, typed view over a byte slice declared to be of
// type Decl (spec.md GLOSSARY "Reader"). It holds only a borrowed slice and
// performs no mutation, so it is safe to share across goroutines (spec.md
// §5). Every getter is unchecked: it assumes Data was already verified
// against Decl by Verify, and computes sub-slices by closed-form offset
// arithmetic without re-validating bounds beyond what Go's own slicing
// bounds-checks for memory safety (spec.md §7). Calling a getter that does
// not apply to Decl.Kind, or calling one on unverified data, has unspecified
// but memory-safe behavior.
type Reader struct {
	Decl *ast.Decl
	Data []byte
}

// NewReader wraps data as a Reader of type d without verifying it.
func NewReader(d *ast.Decl, data []byte) Reader {
	return Reader{Decl: d, Data: data}
}

// Byte returns the single byte of an atom reader.
func (r Reader) Byte() byte {
	return r.Data[0]
}

// IsNone reports whether an Option reader holds no value.
func (r Reader) IsNone() bool {
	return len(r.Data) == 0
}

// Some returns the inner reader of a non-empty Option.
func (r Reader) Some() Reader {
	return Reader{Decl: r.Decl.Inner, Data: r.Data}
}

// ArrayLen returns an Array's schema-fixed item count.
func (r Reader) ArrayLen() int {
	return r.Decl.ItemCount
}

// ArrayNth returns the i-th item of an Array (spec.md §4.6 "Array.nth").
func (r Reader) ArrayNth(i int) Reader {
	start := (r.Decl.ItemSize + r.Decl.ItemPadding) * i
	return Reader{Decl: r.Decl.Inner, Data: r.Data[start : start+r.Decl.ItemSize]}
}

// StructField returns the i-th field of a Struct (spec.md §4.6
// "Struct.fᵢ"): its offset is the prefix sum of the resolved per-field
// sizes and paddings, summed on each call.
func (r Reader) StructField(i int) Reader {
	offset := 0
	for j := 0; j < i; j++ {
		offset += r.Decl.FieldPadding[j] + r.Decl.FieldSize[j]
	}
	offset += r.Decl.FieldPadding[i]
	f := r.Decl.Fields[i]
	return Reader{Decl: f.Type, Data: r.Data[offset : offset+r.Decl.FieldSize[i]]}
}

// FixVecLen returns a FixVec's wire item count.
func (r Reader) FixVecLen() int {
	return int(getU32(r.Data[0:4]))
}

// FixVecGet returns the i-th item of a FixVec (spec.md §4.6 "FixVec.get").
func (r Reader) FixVecGet(i int) Reader {
	start := r.Decl.HeaderSize + r.Decl.HeaderPadding + (r.Decl.ItemSize+r.Decl.ItemPadding)*i
	return Reader{Decl: r.Decl.Inner, Data: r.Data[start : start+r.Decl.ItemSize]}
}

// DynVecLen returns a DynVec's wire item count.
func (r Reader) DynVecLen() int {
	return int(getU32(r.Data[4:8]))
}

// DynVecGet returns the i-th item of a DynVec (spec.md §4.6 "DynVec.get"),
// trimmed via PeekLength so trailing alignment padding does not leak into
// the returned slice.
func (r Reader) DynVecGet(i int) Reader {
	count := r.DynVecLen()
	start := int(getU32(r.Data[8+4*i : 12+4*i]))
	var end int
	if i+1 < count {
		end = int(getU32(r.Data[8+4*(i+1) : 12+4*(i+1)]))
	} else {
		end = int(getU32(r.Data[0:4]))
	}
	full := r.Data[start:end]
	length, _ := PeekLength(r.Decl.Inner, full)
	return Reader{Decl: r.Decl.Inner, Data: full[:length]}
}

// UnionItemID returns the wire tag selecting which item is present.
func (r Reader) UnionItemID() int {
	return int(getU32(r.Data[4:8]))
}

// ToEnum returns the selected item's index and its reader (spec.md §4.6
// "Union.to_enum").
func (r Reader) ToEnum() (int, Reader) {
	id := r.UnionItemID()
	body := r.Data[8:]
	inner := r.Decl.Items[id]
	length, _ := PeekLength(inner, body)
	return id, Reader{Decl: inner, Data: body[:length]}
}

// TableFieldCount returns the wire field count, which may exceed the
// number of fields the schema declares (forward-compatible append).
func (r Reader) TableFieldCount() int {
	return int(getU32(r.Data[4:8]))
}

// TableField returns the i-th declared field of a Table (spec.md §4.6
// "Table.fᵢ"). Its extent is always computed from the wire offset table,
// never from the schema's field count, so appended unknown fields never
// shift a declared field's bounds.
func (r Reader) TableField(i int) Reader {
	count := r.TableFieldCount()
	start := int(getU32(r.Data[8+4*i : 12+4*i]))
	var end int
	if i+1 < count {
		end = int(getU32(r.Data[8+4*(i+1) : 12+4*(i+1)]))
	} else {
		end = int(getU32(r.Data[0:4]))
	}
	full := r.Data[start:end]
	f := r.Decl.Fields[i]
	length, _ := PeekLength(f.Type, full)
	return Reader{Decl: f.Type, Data: full[:length]}
}
