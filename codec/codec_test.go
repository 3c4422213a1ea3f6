// Copyright 2024 The Molecule Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package codec_test

import (
	"bytes"
	"encoding/hex"
	"testing"

	"github.com/schemabin/molecule/ast"
	"github.com/schemabin/molecule/codec"
	"github.com/schemabin/molecule/internal/testschema"
)

func decl(t *testing.T, name string) *ast.Decl {
	t.Helper()
	g := testschema.MustResolve()
	d, ok := g.Lookup(name)
	if !ok {
		t.Fatalf("%q not in test schema", name)
	}
	return d
}

func mustHex(t *testing.T, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(s)
	if err != nil {
		t.Fatalf("bad hex literal %q: %v", s, err)
	}
	return b
}

// spec.md §8 vector 1: a fixed-size array of raw bytes defaults to an
// all-zero block sized from the schema alone.
func TestDefaultContentByte3(t *testing.T) {
	got := codec.DefaultContent(decl(t, "Byte3"))
	want := mustHex(t, "000000")
	if !bytes.Equal(got, want) {
		t.Errorf("DefaultContent(Byte3) = % x, want % x", got, want)
	}
}

// spec.md §8 vector 2: an array of 2-byte items still defaults to a flat
// zero block; nesting never changes default content, only total size.
func TestDefaultContentWord2(t *testing.T) {
	got := codec.DefaultContent(decl(t, "Word2"))
	want := mustHex(t, "00000000")
	if !bytes.Equal(got, want) {
		t.Errorf("DefaultContent(Word2) = % x, want % x", got, want)
	}
}

// spec.md §8 vector 3: item_align=4 on a 3-byte item forces item_padding=1
// between array elements, growing total size from 9 to 11.
func TestDefaultContentByte3x3(t *testing.T) {
	got := codec.DefaultContent(decl(t, "Byte3x3"))
	want := make([]byte, 11)
	if !bytes.Equal(got, want) {
		t.Errorf("DefaultContent(Byte3x3) = % x, want % x", got, want)
	}
}

// spec.md §8 vector 4: an empty DynVec defaults to just its 8-byte header.
func TestDefaultContentBytesVecEmpty(t *testing.T) {
	got := codec.DefaultContent(decl(t, "BytesVec"))
	want := mustHex(t, "0800000000000000")
	if !bytes.Equal(got, want) {
		t.Errorf("DefaultContent(BytesVec) = % x, want % x", got, want)
	}
}

// spec.md §8 vector 5: a DynVec holding one item whose own default is an
// empty FixVec (4 bytes, never zero — a FixVec header is always written).
func TestBuildBytesVecOneEmptyBytes(t *testing.T) {
	bytesVecDecl := decl(t, "BytesVec")
	b := codec.DynVec(bytesVecDecl, []*codec.Builder{codec.FixVec(bytesVecDecl.Inner, nil)})
	e := b.Build()
	want := mustHex(t, "10000000"+"01000000"+"0c000000"+"00000000")
	if !bytes.Equal(e.Data, want) {
		t.Errorf("Build(BytesVec{one empty Bytes}) = % x, want % x", e.Data, want)
	}
	if err := e.Verify(false); err != nil {
		t.Errorf("Verify: %v", err)
	}
}

// spec.md §8 vector 7: a single-item union's default selects item 0 and
// appends that item's own default content after the 8-byte header.
func TestDefaultContentUnionA(t *testing.T) {
	got := codec.DefaultContent(decl(t, "UnionA"))
	want := mustHex(t, "09000000" + "00000000" + "00")
	if !bytes.Equal(got, want) {
		t.Errorf("DefaultContent(UnionA) = % x, want % x", got, want)
	}
}

func TestBuildUnionRoundTrip(t *testing.T) {
	u := decl(t, "UnionA")
	byteDecl := u.Items[0]
	b := codec.Union(u, 0, codec.Atom(byteDecl, 7))
	e := b.Build()
	want := mustHex(t, "09000000" + "00000000" + "07")
	if !bytes.Equal(e.Data, want) {
		t.Errorf("Build(UnionA{7}) = % x, want % x", e.Data, want)
	}
	if err := e.Verify(false); err != nil {
		t.Fatalf("Verify: %v", err)
	}
	id, inner := e.Reader().ToEnum()
	if id != 0 {
		t.Errorf("ToEnum id = %d, want 0", id)
	}
	if got := inner.Byte(); got != 7 {
		t.Errorf("ToEnum inner.Byte() = %d, want 7", got)
	}
}

// The default content for every resolved declaration must itself verify
// (P2: every constructible value, including the all-default one, is valid).
func TestVerifyAcceptsDefaultsForEveryDecl(t *testing.T) {
	g := testschema.MustResolve()
	for _, d := range g.Order {
		data := codec.DefaultContent(d)
		if err := codec.Verify(d, data, false); err != nil {
			t.Errorf("Verify(%s, DefaultContent(%s)) = %v, want nil", d.Name, d.Name, err)
		}
	}
}

// PeekLength must never overrun its input slice, and the prefix it reports
// must itself verify even when the slice carries trailing garbage (P3).
func TestPeekLengthTrimsTrailingGarbage(t *testing.T) {
	d := decl(t, "BytesVec")
	data := codec.DefaultContent(d)
	padded := append(append([]byte{}, data...), 0xAA, 0xAA, 0xAA)
	length, err := codec.PeekLength(d, padded)
	if err != nil {
		t.Fatalf("PeekLength: %v", err)
	}
	if length != len(data) {
		t.Fatalf("PeekLength = %d, want %d", length, len(data))
	}
	if length > len(padded) {
		t.Fatalf("PeekLength %d exceeds input length %d", length, len(padded))
	}
	if err := codec.Verify(d, padded[:length], false); err != nil {
		t.Errorf("Verify(trimmed prefix): %v", err)
	}
}

// Non-zero padding bytes must be rejected (P6).
func TestVerifyRejectsNonZeroPadding(t *testing.T) {
	d := decl(t, "Byte3x3")
	data := codec.DefaultContent(d)
	if len(data) != 11 {
		t.Fatalf("fixture changed: len = %d, want 11", len(data))
	}
	corrupt := append([]byte{}, data...)
	corrupt[3] = 0xFF // the single item_padding byte between element 0 and 1
	err := codec.Verify(d, corrupt, false)
	ve, ok := err.(*codec.VerifyError)
	if !ok {
		t.Fatalf("Verify error = %v (%T), want *VerifyError", err, err)
	}
	if ve.Kind != codec.ErrBytesNotPadded {
		t.Errorf("Kind = %v, want ErrBytesNotPadded", ve.Kind)
	}
}

// A DynVec whose single offset entry is overwritten with a garbage,
// out-of-range value must be rejected by Verify rather than panicking when
// the decoder later slices the bogus offset range.
func TestVerifyRejectsOutOfRangeDynVecOffset(t *testing.T) {
	d := decl(t, "BytesVec")
	bytesDecl := d.Inner
	b := codec.DynVec(d, []*codec.Builder{
		codec.FixVec(bytesDecl, []*codec.Builder{codec.Atom(bytesDecl.Inner, 1)}),
	})
	e := b.Build()
	corrupt := append([]byte{}, e.Data...)
	putLE32At(corrupt, 8, 0x7FFFFFFF) // the one item offset, slot [8:12]

	err := codec.Verify(d, corrupt, false)
	ve, ok := err.(*codec.VerifyError)
	if !ok {
		t.Fatalf("Verify error = %v (%T), want *VerifyError", err, err)
	}
	if ve.Kind != codec.ErrOffsetsNotMatch {
		t.Errorf("Kind = %v, want ErrOffsetsNotMatch", ve.Kind)
	}
}

// Same corruption against a Table's offset table.
func TestVerifyRejectsOutOfRangeTableOffset(t *testing.T) {
	d := decl(t, "Pair")
	word2 := d.Fields[0].Type
	bytesVec := d.Fields[1].Type
	wordBuilder := codec.Array(word2, []*codec.Builder{
		codec.Array(word2.Inner, []*codec.Builder{codec.Atom(word2.Inner.Inner, 1), codec.Atom(word2.Inner.Inner, 2)}),
		codec.Array(word2.Inner, []*codec.Builder{codec.Atom(word2.Inner.Inner, 3), codec.Atom(word2.Inner.Inner, 4)}),
	})
	vecBuilder := codec.DynVec(bytesVec, nil)
	e := codec.Table(d, []*codec.Builder{wordBuilder, vecBuilder}).Build()

	corrupt := append([]byte{}, e.Data...)
	putLE32At(corrupt, 12, 0x7FFFFFFF) // field b's offset, slot [12:16]

	err := codec.Verify(d, corrupt, false)
	ve, ok := err.(*codec.VerifyError)
	if !ok {
		t.Fatalf("Verify error = %v (%T), want *VerifyError", err, err)
	}
	if ve.Kind != codec.ErrOffsetsNotMatch {
		t.Errorf("Kind = %v, want ErrOffsetsNotMatch", ve.Kind)
	}
}

func putLE32At(b []byte, at int, v uint32) {
	b[at] = byte(v)
	b[at+1] = byte(v >> 8)
	b[at+2] = byte(v >> 16)
	b[at+3] = byte(v >> 24)
}

// A Struct built from Point's two atom fields reads back byte-for-byte via
// the Reader's unchecked field accessor.
func TestStructBuildAndReadRoundTrip(t *testing.T) {
	d := decl(t, "Point")
	byteDecl := d.Fields[0].Type
	b := codec.Struct(d, []*codec.Builder{codec.Atom(byteDecl, 5), codec.Atom(byteDecl, 9)})
	e := b.Build()
	if !bytes.Equal(e.Data, []byte{5, 9}) {
		t.Fatalf("Build(Point{5,9}) = % x, want 05 09", e.Data)
	}
	if err := e.Verify(false); err != nil {
		t.Fatalf("Verify: %v", err)
	}
	r := e.Reader()
	if got := r.StructField(0).Byte(); got != 5 {
		t.Errorf("StructField(0) = %d, want 5", got)
	}
	if got := r.StructField(1).Byte(); got != 9 {
		t.Errorf("StructField(1) = %d, want 9", got)
	}
}

// A Table's default content matches the offset arithmetic worked by hand:
// field a (Word2, 4 bytes) immediately after the 16-byte header, field b
// (BytesVec's own 8-byte empty default) right after it — neither field is
// ever empty here, so no offset-collapsing applies.
func TestDefaultContentTable(t *testing.T) {
	got := codec.DefaultContent(decl(t, "Pair"))
	want := mustHex(t, "1c000000"+"02000000"+"10000000"+"14000000"+"00000000"+"0800000000000000")
	if !bytes.Equal(got, want) {
		t.Errorf("DefaultContent(Pair) = % x, want % x", got, want)
	}
	if err := codec.Verify(decl(t, "Pair"), got, false); err != nil {
		t.Errorf("Verify(Pair default): %v", err)
	}
}

// A table built with an extra, schema-unknown trailing field verifies only
// in compatible mode, and declared-field reads are unaffected either way
// (P7, forward compatibility).
func TestTableForwardCompatible(t *testing.T) {
	d := decl(t, "Pair")
	word2 := d.Fields[0].Type
	bytesVec := d.Fields[1].Type
	wordBuilder := codec.Array(word2, []*codec.Builder{
		codec.Array(word2.Inner, []*codec.Builder{codec.Atom(word2.Inner.Inner, 1), codec.Atom(word2.Inner.Inner, 2)}),
		codec.Array(word2.Inner, []*codec.Builder{codec.Atom(word2.Inner.Inner, 3), codec.Atom(word2.Inner.Inner, 4)}),
	})
	vecBuilder := codec.DynVec(bytesVec, nil)
	base := codec.Table(d, []*codec.Builder{wordBuilder, vecBuilder}).Build()

	extra := appendUnknownTableField(t, d, base.Data)

	if err := codec.Verify(d, extra, true); err != nil {
		t.Errorf("Verify(compatible=true) = %v, want nil", err)
	}
	if err := codec.Verify(d, extra, false); err == nil {
		t.Error("Verify(compatible=false) = nil, want ErrFieldCountNotMatch")
	} else if ve, ok := err.(*codec.VerifyError); !ok || ve.Kind != codec.ErrFieldCountNotMatch {
		t.Errorf("Verify(compatible=false) = %v, want ErrFieldCountNotMatch", err)
	}

	r := codec.NewReader(d, extra)
	word := r.TableField(0)
	if word.ArrayNth(0).ArrayNth(0).Byte() != 1 {
		t.Errorf("declared field 0 disturbed by the appended field")
	}
}

// appendUnknownTableField rewrites base (a valid, schema-complete Table
// wire value with no trailing field) into one with an extra field_count
// and a trivial one-byte-atom field tacked on the end, for P7 coverage.
func appendUnknownTableField(t *testing.T, d *ast.Decl, base []byte) []byte {
	t.Helper()
	oldFieldCount := int(le32(base[4:8]))
	oldHeaderSize := 4 * (2 + oldFieldCount)
	oldOffsets := make([]int, oldFieldCount)
	for i := range oldOffsets {
		oldOffsets[i] = int(le32(base[8+4*i : 12+4*i]))
	}
	body := base[oldHeaderSize:]

	newFieldCount := oldFieldCount + 1
	newHeaderSize := 4 * (2 + newFieldCount)
	shift := newHeaderSize - oldHeaderSize
	newTotal := len(base) + shift + 1

	buf := make([]byte, 0, newTotal)
	buf = putLE32(buf, uint32(newTotal))
	buf = putLE32(buf, uint32(newFieldCount))
	for _, off := range oldOffsets {
		buf = putLE32(buf, uint32(off+shift))
	}
	buf = putLE32(buf, uint32(len(base)+shift)) // new field's offset: right after the shifted body
	buf = append(buf, body...)
	buf = append(buf, 0x2A)
	return buf
}

func le32(b []byte) uint32 {
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
}

func putLE32(buf []byte, v uint32) []byte {
	return append(buf, byte(v), byte(v>>8), byte(v>>16), byte(v>>24))
}

func TestStringRoundTrip(t *testing.T) {
	d := decl(t, "Str")
	b, err := codec.StringBuilder(d, "hi")
	if err != nil {
		t.Fatalf("StringBuilder: %v", err)
	}
	e := b.Build()
	want := append(mustHex(t, "02000000"), 'h', 'i')
	if !bytes.Equal(e.Data, want) {
		t.Fatalf("Build(Str{hi}) = % x, want % x", e.Data, want)
	}
	if err := e.Verify(false); err != nil {
		t.Fatalf("Verify: %v", err)
	}
	got, err := codec.ReadString(e.Reader())
	if err != nil {
		t.Fatalf("ReadString: %v", err)
	}
	if got != "hi" {
		t.Errorf("ReadString = %q, want %q", got, "hi")
	}
}
