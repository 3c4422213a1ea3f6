// Copyright 2024 The Molecule Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package codec

import "fmt"

// VerifyErrorKind enumerates the runtime verification failures a Verify
// call can report (spec.md §6 "Runtime-error surface"). Unlike schema
// errors, these are per-slice and recoverable: the caller simply rejects
// the input.
type VerifyErrorKind int

const (
	ErrTotalSizeNotMatch VerifyErrorKind = iota
	ErrHeaderIsBroken
	ErrUnknownItem
	ErrOffsetsNotMatch
	ErrFieldCountNotMatch
	ErrDataIsShort
	ErrBytesNotPadded
)

// VerifyError is the single error type Verify and PeekLength return. Which
// of Expected/Actual/Max/Seen/Schema/Wire are meaningful depends on Kind.
type VerifyError struct {
	Kind     VerifyErrorKind
	Type     string
	Expected int
	Actual   int
	Max      int
	Seen     int
	Schema   int
	Wire     int
}

func (e *VerifyError) Error() string {
	switch e.Kind {
	case ErrTotalSizeNotMatch:
		return fmt.Sprintf("molecule: %q: total size mismatch: expected %d, got %d", e.Type, e.Expected, e.Actual)
	case ErrHeaderIsBroken:
		return fmt.Sprintf("molecule: %q: header is broken: expected %d, got %d", e.Type, e.Expected, e.Actual)
	case ErrUnknownItem:
		return fmt.Sprintf("molecule: %q: unknown union item %d, max is %d", e.Type, e.Seen, e.Max)
	case ErrOffsetsNotMatch:
		return fmt.Sprintf("molecule: %q: offsets are not monotonic", e.Type)
	case ErrFieldCountNotMatch:
		return fmt.Sprintf("molecule: %q: field count mismatch: schema has %d, wire has %d", e.Type, e.Schema, e.Wire)
	case ErrDataIsShort:
		return fmt.Sprintf("molecule: %q: data is short: expected at least %d bytes, got %d", e.Type, e.Expected, e.Actual)
	case ErrBytesNotPadded:
		return fmt.Sprintf("molecule: %q: padding bytes are not zero", e.Type)
	default:
		return fmt.Sprintf("molecule: %q: verification failed", e.Type)
	}
}
