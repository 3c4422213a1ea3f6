// Copyright 2024 The Molecule Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package layout holds the pure, stateless byte-layout arithmetic shared by
// the resolver, the default-content generator, the verifier and the builder.
// None of the functions here can fail: every caller has already established
// the preconditions (a >= 1, a is a power of two in {1,2,4,8}) by construction.
package layout

// Alignment is a power-of-two byte alignment. Molecule only ever produces
// one of the four values below.
type Alignment int

const (
	Align1 Alignment = 1
	Align2 Alignment = 2
	Align4 Alignment = 4
	Align8 Alignment = 8
)

// NumberSize is the wire size in bytes of a Number (an unsigned 32-bit
// little-endian integer used for sizes, offsets, counts and union tags).
const NumberSize = 4

// AlignOfNumberSize is the alignment a Number's own size implies, used by
// vector and table layout rules (I-VEC-ALIGN).
var AlignOfNumberSize = AlignmentForSize(NumberSize)

// AlignmentForSize derives the alignment implied by a raw byte count:
// 1 for n=1, 2 for n=2, 4 for n in {3,4}, 8 for n>=5.
func AlignmentForSize(n int) Alignment {
	switch {
	case n <= 0:
		return Align1
	case n == 1:
		return Align1
	case n == 2:
		return Align2
	case n <= 4:
		return Align4
	default:
		return Align8
	}
}

// Padding returns the number of zero bytes needed after offset off so the
// next component starts aligned to a: (a - (off mod a)) mod a.
func Padding(a Alignment, off int) int {
	m := int(a)
	return (m - off%m) % m
}

// FullSize returns off padded up to a multiple of a.
func FullSize(a Alignment, off int) int {
	return off + Padding(a, off)
}

// Max returns the larger of two alignments.
func Max(a, b Alignment) Alignment {
	if a > b {
		return a
	}
	return b
}
