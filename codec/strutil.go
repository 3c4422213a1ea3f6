// Copyright 2024 The Molecule Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package codec

import (
	"fmt"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"github.com/schemabin/molecule/ast"
)

// Molecule has no dedicated string primitive; a "string" field is the
// conventional pattern of a FixVec<byte> (byte is fixed-size, so "vector
// byte" resolves to the contiguous FixVec encoding rather than DynVec's
// per-item offset table — the teacher schema's own control/table.name
// column documents the same idea: "name string length=1000" compiles down
// to a byte vector). EncodeString and DecodeString, and the StringBuilder
// helper below, give that convention a single well-defined byte
// representation: NFC-normalized UTF-8, the same normalization
// golang.org/x/text/unicode/norm applies in the TomTonic-multimap example's
// own string-key handling.

// EncodeString NFC-normalizes s and returns its UTF-8 bytes.
func EncodeString(s string) []byte {
	return []byte(norm.NFC.String(s))
}

// DecodeString validates b as well-formed UTF-8 and returns it as a string.
// It does not re-normalize: callers that round-trip through EncodeString
// get back the NFC form of the string they passed in.
func DecodeString(b []byte) (string, error) {
	if !utf8.Valid(b) {
		return "", fmt.Errorf("molecule: invalid utf8 string data")
	}
	return string(b), nil
}

// StringBuilder builds s as a FixVec<byte> value of type d.
func StringBuilder(d *ast.Decl, s string) (*Builder, error) {
	if d.Kind != ast.KindFixVec || !d.Inner.IsAtom() {
		return nil, fmt.Errorf("molecule: %q is not a FixVec<byte>", d.Name)
	}
	data := EncodeString(s)
	items := make([]*Builder, len(data))
	for i, c := range data {
		items[i] = Atom(d.Inner, c)
	}
	return FixVec(d, items), nil
}

// ReadString decodes a FixVec<byte> reader back to a string.
func ReadString(r Reader) (string, error) {
	if r.Decl.Kind != ast.KindFixVec || !r.Decl.Inner.IsAtom() {
		return "", fmt.Errorf("molecule: %q is not a FixVec<byte>", r.Decl.Name)
	}
	n := r.FixVecLen()
	start := r.Decl.HeaderSize + r.Decl.HeaderPadding
	return DecodeString(r.Data[start : start+n])
}
