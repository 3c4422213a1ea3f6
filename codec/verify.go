// Copyright 2024 The Molecule Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package codec

import (
	"github.com/schemabin/molecule/ast"
	"github.com/schemabin/molecule/layout"
)

// Verify validates slice against d (spec.md §4.5). compatible tolerates a
// Table wire field_count greater than the number of fields the schema
// declares (spec.md §8 P7). Verify is the only boundary where untrusted
// input can be rejected; once it returns nil, every decoder arithmetic step
// driven by d over slice is safe by construction (spec.md §7).
func Verify(d *ast.Decl, slice []byte, compatible bool) error {
	if d.IsAtom() {
		if len(slice) != 1 {
			return &VerifyError{Kind: ErrTotalSizeNotMatch, Type: d.Name, Expected: 1, Actual: len(slice)}
		}
		return nil
	}
	switch d.Kind {
	case ast.KindOption:
		if len(slice) == 0 {
			return nil
		}
		return Verify(d.Inner, slice, compatible)
	case ast.KindUnion:
		return verifyUnion(d, slice, compatible)
	case ast.KindArray:
		return verifyArray(d, slice, compatible)
	case ast.KindStruct:
		return verifyStruct(d, slice, compatible)
	case ast.KindFixVec:
		return verifyFixVec(d, slice, compatible)
	case ast.KindDynVec:
		return verifyDynVec(d, slice, compatible)
	case ast.KindTable:
		return verifyTable(d, slice, compatible)
	default:
		return &VerifyError{Kind: ErrHeaderIsBroken, Type: d.Name}
	}
}

func verifyUnion(d *ast.Decl, slice []byte, compatible bool) error {
	if len(slice) < 8 {
		return &VerifyError{Kind: ErrDataIsShort, Type: d.Name, Expected: 8, Actual: len(slice)}
	}
	total := int(getU32(slice[0:4]))
	if total != len(slice) {
		return &VerifyError{Kind: ErrTotalSizeNotMatch, Type: d.Name, Expected: total, Actual: len(slice)}
	}
	itemID := int(getU32(slice[4:8]))
	if itemID < 0 || itemID >= len(d.Items) {
		return &VerifyError{Kind: ErrUnknownItem, Type: d.Name, Max: len(d.Items) - 1, Seen: itemID}
	}
	return Verify(d.Items[itemID], slice[8:], compatible)
}

func verifyArray(d *ast.Decl, slice []byte, compatible bool) error {
	total, _ := d.TotalSize()
	if len(slice) != total {
		return &VerifyError{Kind: ErrTotalSizeNotMatch, Type: d.Name, Expected: total, Actual: len(slice)}
	}
	stride := d.ItemSize + d.ItemPadding
	for i := 0; i < d.ItemCount; i++ {
		start := stride * i
		if i > 0 {
			if err := checkPaddingZero(d.Name, slice[start-d.ItemPadding:start]); err != nil {
				return err
			}
		}
		if !d.Inner.IsAtom() {
			if err := Verify(d.Inner, slice[start:start+d.ItemSize], compatible); err != nil {
				return err
			}
		}
	}
	return nil
}

func verifyStruct(d *ast.Decl, slice []byte, compatible bool) error {
	total, _ := d.TotalSize()
	if len(slice) != total {
		return &VerifyError{Kind: ErrTotalSizeNotMatch, Type: d.Name, Expected: total, Actual: len(slice)}
	}
	offset := 0
	for i, f := range d.Fields {
		pad := d.FieldPadding[i]
		if pad > 0 {
			if err := checkPaddingZero(d.Name, slice[offset:offset+pad]); err != nil {
				return err
			}
		}
		offset += pad
		size := d.FieldSize[i]
		if !f.Type.IsAtom() {
			if err := Verify(f.Type, slice[offset:offset+size], compatible); err != nil {
				return err
			}
		}
		offset += size
	}
	return nil
}

func verifyFixVec(d *ast.Decl, slice []byte, compatible bool) error {
	if len(slice) < d.HeaderSize {
		return &VerifyError{Kind: ErrDataIsShort, Type: d.Name, Expected: d.HeaderSize, Actual: len(slice)}
	}
	count := int(getU32(slice[0:4]))
	if count == 0 {
		if len(slice) != d.HeaderSize {
			return &VerifyError{Kind: ErrTotalSizeNotMatch, Type: d.Name, Expected: d.HeaderSize, Actual: len(slice)}
		}
		return nil
	}
	expected := d.HeaderSize + d.HeaderPadding + (d.ItemSize+d.ItemPadding)*count - d.ItemPadding
	if len(slice) != expected {
		return &VerifyError{Kind: ErrTotalSizeNotMatch, Type: d.Name, Expected: expected, Actual: len(slice)}
	}
	pos := d.HeaderSize
	if d.HeaderPadding > 0 {
		if err := checkPaddingZero(d.Name, slice[pos:pos+d.HeaderPadding]); err != nil {
			return err
		}
	}
	pos += d.HeaderPadding
	stride := d.ItemSize + d.ItemPadding
	for i := 0; i < count; i++ {
		start := pos + stride*i
		if i > 0 {
			if err := checkPaddingZero(d.Name, slice[start-d.ItemPadding:start]); err != nil {
				return err
			}
		}
		if !d.Inner.IsAtom() {
			if err := Verify(d.Inner, slice[start:start+d.ItemSize], compatible); err != nil {
				return err
			}
		}
	}
	return nil
}

func verifyDynVec(d *ast.Decl, slice []byte, compatible bool) error {
	if len(slice) < 8 {
		return &VerifyError{Kind: ErrDataIsShort, Type: d.Name, Expected: 8, Actual: len(slice)}
	}
	total := int(getU32(slice[0:4]))
	if total != len(slice) {
		return &VerifyError{Kind: ErrTotalSizeNotMatch, Type: d.Name, Expected: total, Actual: len(slice)}
	}
	count := int(getU32(slice[4:8]))
	if count == 0 {
		if len(slice) != 8 {
			return &VerifyError{Kind: ErrTotalSizeNotMatch, Type: d.Name, Expected: 8, Actual: len(slice)}
		}
		return nil
	}
	headerSize := 8 + layout.NumberSize*count
	if len(slice) < headerSize {
		return &VerifyError{Kind: ErrDataIsShort, Type: d.Name, Expected: headerSize, Actual: len(slice)}
	}
	// offsets carries a trailing total_size sentinel so the monotonicity
	// check below also bounds the final real offset against the slice end,
	// exactly as the reference implementation's offsets.windows(2) check
	// does over its own total_size-terminated list.
	offsets := make([]int, count+1)
	for i := 0; i < count; i++ {
		offsets[i] = int(getU32(slice[8+4*i : 12+4*i]))
	}
	offsets[count] = total
	if offsets[0] < headerSize {
		return &VerifyError{Kind: ErrOffsetsNotMatch, Type: d.Name}
	}
	for i := 1; i <= count; i++ {
		if offsets[i] < offsets[i-1] {
			return &VerifyError{Kind: ErrOffsetsNotMatch, Type: d.Name}
		}
	}
	endPrev := headerSize
	for i := 0; i < count; i++ {
		start := offsets[i]
		if err := checkPaddingZero(d.Name, slice[endPrev:start]); err != nil {
			return err
		}
		end := offsets[i+1]
		itemMax := slice[start:end]
		length, err := PeekLength(d.Inner, itemMax)
		if err != nil {
			return err
		}
		if length > len(itemMax) {
			return &VerifyError{Kind: ErrTotalSizeNotMatch, Type: d.Name, Expected: length, Actual: len(itemMax)}
		}
		if err := Verify(d.Inner, itemMax[:length], compatible); err != nil {
			return err
		}
		endPrev = start + length
	}
	return nil
}

func verifyTable(d *ast.Decl, slice []byte, compatible bool) error {
	if len(slice) < 8 {
		return &VerifyError{Kind: ErrDataIsShort, Type: d.Name, Expected: 8, Actual: len(slice)}
	}
	total := int(getU32(slice[0:4]))
	if total != len(slice) {
		return &VerifyError{Kind: ErrTotalSizeNotMatch, Type: d.Name, Expected: total, Actual: len(slice)}
	}
	fieldCount := int(getU32(slice[4:8]))
	schemaN := len(d.Fields)
	if fieldCount < schemaN {
		return &VerifyError{Kind: ErrFieldCountNotMatch, Type: d.Name, Schema: schemaN, Wire: fieldCount}
	}
	if fieldCount > schemaN && !compatible {
		return &VerifyError{Kind: ErrFieldCountNotMatch, Type: d.Name, Schema: schemaN, Wire: fieldCount}
	}
	headerSize := layout.NumberSize * (2 + fieldCount)
	if len(slice) < headerSize {
		return &VerifyError{Kind: ErrDataIsShort, Type: d.Name, Expected: headerSize, Actual: len(slice)}
	}
	// offsets carries a trailing total_size sentinel so the monotonicity
	// check below also bounds the final offset against the slice end,
	// exactly as the reference implementation's offsets.windows(2) check
	// does over its own total_size-terminated list.
	offsets := make([]int, fieldCount+1)
	for i := 0; i < fieldCount; i++ {
		offsets[i] = int(getU32(slice[8+4*i : 12+4*i]))
	}
	offsets[fieldCount] = total
	if fieldCount > 0 && offsets[0] < headerSize {
		return &VerifyError{Kind: ErrOffsetsNotMatch, Type: d.Name}
	}
	for i := 1; i <= fieldCount; i++ {
		if offsets[i] < offsets[i-1] {
			return &VerifyError{Kind: ErrOffsetsNotMatch, Type: d.Name}
		}
	}
	endPrev := headerSize
	for i := 0; i < schemaN; i++ {
		start := offsets[i]
		if err := checkPaddingZero(d.Name, slice[endPrev:start]); err != nil {
			return err
		}
		end := offsets[i+1]
		itemMax := slice[start:end]
		length, err := PeekLength(d.Fields[i].Type, itemMax)
		if err != nil {
			return err
		}
		if length > len(itemMax) {
			return &VerifyError{Kind: ErrTotalSizeNotMatch, Type: d.Name, Expected: length, Actual: len(itemMax)}
		}
		if err := Verify(d.Fields[i].Type, itemMax[:length], compatible); err != nil {
			return err
		}
		endPrev = start + length
	}
	return nil
}
