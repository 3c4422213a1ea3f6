// Copyright 2024 The Molecule Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ast

import (
	"fmt"
	"strings"
)

// SchemaErrorKind enumerates the resolver's fatal, schema-level failures
// (spec.md §4.2 "Failures").
type SchemaErrorKind int

const (
	ErrNameReserved SchemaErrorKind = iota
	ErrNameDuplicated
	ErrUnresolvedTypes
	ErrInnerNotFixedSize
	ErrEmptyUnion
	ErrEmptyArray
	ErrZeroSizeStruct
)

// SchemaError is the single error type the resolver returns. Exactly one of
// Name or Names is meaningful, selected by Kind; Field is set only for
// InnerNotFixedSize, naming the offending struct field (empty for an array,
// whose single item type is already named by Name).
type SchemaError struct {
	Kind  SchemaErrorKind
	Name  string
	Names []string
	Field string
}

func (e *SchemaError) Error() string {
	switch e.Kind {
	case ErrNameReserved:
		return fmt.Sprintf("molecule: name %q is reserved for the atom", e.Name)
	case ErrNameDuplicated:
		return fmt.Sprintf("molecule: name %q is declared more than once", e.Name)
	case ErrUnresolvedTypes:
		return fmt.Sprintf("molecule: could not resolve: %s", strings.Join(e.Names, ", "))
	case ErrInnerNotFixedSize:
		if e.Field != "" {
			return fmt.Sprintf("molecule: %q field %q is not fixed-size", e.Name, e.Field)
		}
		return fmt.Sprintf("molecule: %q item type is not fixed-size", e.Name)
	case ErrEmptyUnion:
		return fmt.Sprintf("molecule: union %q has no items", e.Name)
	case ErrEmptyArray:
		return fmt.Sprintf("molecule: array %q has zero length", e.Name)
	case ErrZeroSizeStruct:
		return fmt.Sprintf("molecule: struct %q has zero total size", e.Name)
	default:
		return fmt.Sprintf("molecule: schema error for %q", e.Name)
	}
}
