// Copyright 2024 The Molecule Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package codec

import (
	"github.com/schemabin/molecule/ast"
	"github.com/schemabin/molecule/layout"
)

// PeekLength returns the real byte length of the value of type d starting
// at slice's origin (spec.md §4.6 GLOSSARY "peek_length"). It lets a
// container crop trailing padding from an over-generous sub-slice before
// handing it to an inner verifier or decoder. It never reads past the
// bytes it needs to determine the length.
func PeekLength(d *ast.Decl, slice []byte) (int, error) {
	if size, fixed := d.TotalSize(); fixed {
		return size, nil
	}
	switch d.Kind {
	case ast.KindOption:
		if len(slice) == 0 {
			return 0, nil
		}
		return PeekLength(d.Inner, slice)
	case ast.KindUnion, ast.KindDynVec, ast.KindTable:
		if len(slice) < layout.NumberSize {
			return 0, &VerifyError{Kind: ErrDataIsShort, Type: d.Name, Expected: layout.NumberSize, Actual: len(slice)}
		}
		return int(getU32(slice[0:layout.NumberSize])), nil
	case ast.KindFixVec:
		if len(slice) < layout.NumberSize {
			return 0, &VerifyError{Kind: ErrDataIsShort, Type: d.Name, Expected: layout.NumberSize, Actual: len(slice)}
		}
		count := int(getU32(slice[0:layout.NumberSize]))
		if count == 0 {
			return d.HeaderSize, nil
		}
		return d.HeaderSize + d.HeaderPadding + (d.ItemSize+d.ItemPadding)*count - d.ItemPadding, nil
	default:
		return 0, &VerifyError{Kind: ErrHeaderIsBroken, Type: d.Name}
	}
}
