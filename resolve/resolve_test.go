// Copyright 2024 The Molecule Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package resolve_test

import (
	"testing"

	"github.com/schemabin/molecule/ast"
	"github.com/schemabin/molecule/internal/testschema"
	"github.com/schemabin/molecule/layout"
	"github.com/schemabin/molecule/resolve"
)

func schemaErr(t *testing.T, err error) *ast.SchemaError {
	t.Helper()
	if err == nil {
		t.Fatal("expected a *ast.SchemaError, got nil")
	}
	se, ok := err.(*ast.SchemaError)
	if !ok {
		t.Fatalf("expected a *ast.SchemaError, got %T: %v", err, err)
	}
	return se
}

func TestResolveValidSchema(t *testing.T) {
	g, err := resolve.Resolve(testschema.RawAST())
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	word2, ok := g.Lookup("Word2")
	if !ok {
		t.Fatal("Word2 not resolved")
	}
	if size, fixed := word2.TotalSize(); !fixed || size != 4 {
		t.Errorf("Word2 TotalSize = (%d,%v), want (4,true)", size, fixed)
	}
	if word2.Align != layout.Align2 {
		t.Errorf("Word2 Align = %d, want %d", word2.Align, layout.Align2)
	}

	byte3x3, ok := g.Lookup("Byte3x3")
	if !ok {
		t.Fatal("Byte3x3 not resolved")
	}
	if size, fixed := byte3x3.TotalSize(); !fixed || size != 11 {
		t.Errorf("Byte3x3 TotalSize = (%d,%v), want (11,true)", size, fixed)
	}
	if byte3x3.ItemPadding != 1 {
		t.Errorf("Byte3x3 ItemPadding = %d, want 1", byte3x3.ItemPadding)
	}

	bytesDecl, ok := g.Lookup("Bytes")
	if !ok {
		t.Fatal("Bytes not resolved")
	}
	if bytesDecl.Align != layout.Align4 {
		t.Errorf("Bytes Align = %d, want %d", bytesDecl.Align, layout.Align4)
	}

	bytesVec, ok := g.Lookup("BytesVec")
	if !ok {
		t.Fatal("BytesVec not resolved")
	}
	if bytesVec.Inner != bytesDecl {
		t.Error("BytesVec.Inner does not point at the shared Bytes declaration")
	}

	union, ok := g.Lookup("UnionA")
	if !ok {
		t.Fatal("UnionA not resolved")
	}
	if union.Align != layout.Align8 {
		t.Errorf("UnionA Align = %d, want %d", union.Align, layout.Align8)
	}

	pair, ok := g.Lookup("Pair")
	if !ok {
		t.Fatal("Pair not resolved")
	}
	if len(pair.Fields) != 2 || pair.Fields[0].Type != word2 || pair.Fields[1].Type != bytesVec {
		t.Errorf("Pair.Fields does not reference the shared Word2/BytesVec declarations")
	}

	// Word2's two child arrays both resolve to the exact same *ast.Decl
	// for Word (spec.md §3.4 "shared, immutable declaration graph").
	word, _ := g.Lookup("Word")
	if word2.Inner != word {
		t.Error("Word2.Inner does not point at the shared Word declaration")
	}
}

func TestResolveIdempotent(t *testing.T) {
	raw := testschema.RawAST()
	g1, err := resolve.Resolve(raw)
	if err != nil {
		t.Fatalf("Resolve (1st): %v", err)
	}
	g2, err := resolve.Resolve(raw)
	if err != nil {
		t.Fatalf("Resolve (2nd): %v", err)
	}
	if len(g1.ByName) != len(g2.ByName) {
		t.Fatalf("ByName size differs: %d vs %d", len(g1.ByName), len(g2.ByName))
	}
	for name, d1 := range g1.ByName {
		d2, ok := g2.Lookup(name)
		if !ok {
			t.Fatalf("%q missing from second resolution", name)
		}
		s1, f1 := d1.TotalSize()
		s2, f2 := d2.TotalSize()
		if s1 != s2 || f1 != f2 || d1.Align != d2.Align || d1.Kind != d2.Kind {
			t.Errorf("%q differs between resolutions: (%d,%v,%d,%v) vs (%d,%v,%d,%v)",
				name, s1, f1, d1.Align, d1.Kind, s2, f2, d2.Align, d2.Kind)
		}
	}
}

func TestReservedName(t *testing.T) {
	raw := ast.RawAst{Decls: []ast.RawDecl{
		{Name: "byte", Kind: ast.KindArray, Type: "byte", Count: 1},
	}}
	_, err := resolve.Resolve(raw)
	se := schemaErr(t, err)
	if se.Kind != ast.ErrNameReserved {
		t.Errorf("Kind = %v, want ErrNameReserved", se.Kind)
	}
}

func TestReservedPrimitiveName(t *testing.T) {
	raw := ast.RawAst{Decls: []ast.RawDecl{
		{Name: "Byte", Kind: ast.KindArray, Type: "byte", Count: 1},
	}}
	_, err := resolve.Resolve(raw)
	se := schemaErr(t, err)
	if se.Kind != ast.ErrNameReserved {
		t.Errorf("Kind = %v, want ErrNameReserved", se.Kind)
	}
}

func TestDuplicateName(t *testing.T) {
	raw := ast.RawAst{Decls: []ast.RawDecl{
		{Name: "Dup", Kind: ast.KindArray, Type: "byte", Count: 1},
		{Name: "Dup", Kind: ast.KindArray, Type: "byte", Count: 2},
	}}
	_, err := resolve.Resolve(raw)
	se := schemaErr(t, err)
	if se.Kind != ast.ErrNameDuplicated {
		t.Errorf("Kind = %v, want ErrNameDuplicated", se.Kind)
	}
}

func TestUnresolvedTypes(t *testing.T) {
	raw := ast.RawAst{Decls: []ast.RawDecl{
		{Name: "Dangling", Kind: ast.KindArray, Type: "DoesNotExist", Count: 1},
	}}
	_, err := resolve.Resolve(raw)
	se := schemaErr(t, err)
	if se.Kind != ast.ErrUnresolvedTypes {
		t.Errorf("Kind = %v, want ErrUnresolvedTypes", se.Kind)
	}
	if len(se.Names) != 1 || se.Names[0] != "Dangling" {
		t.Errorf("Names = %v, want [Dangling]", se.Names)
	}
}

func TestUnresolvedTypesMutualCycle(t *testing.T) {
	raw := ast.RawAst{Decls: []ast.RawDecl{
		{Name: "A", Kind: ast.KindOption, Type: "B"},
		{Name: "B", Kind: ast.KindOption, Type: "A"},
	}}
	_, err := resolve.Resolve(raw)
	se := schemaErr(t, err)
	if se.Kind != ast.ErrUnresolvedTypes {
		t.Errorf("Kind = %v, want ErrUnresolvedTypes", se.Kind)
	}
	if len(se.Names) != 2 {
		t.Errorf("Names = %v, want both A and B", se.Names)
	}
}

func TestEmptyUnion(t *testing.T) {
	raw := ast.RawAst{Decls: []ast.RawDecl{
		{Name: "Empty", Kind: ast.KindUnion, Items: nil},
	}}
	_, err := resolve.Resolve(raw)
	se := schemaErr(t, err)
	if se.Kind != ast.ErrEmptyUnion {
		t.Errorf("Kind = %v, want ErrEmptyUnion", se.Kind)
	}
}

func TestEmptyArray(t *testing.T) {
	raw := ast.RawAst{Decls: []ast.RawDecl{
		{Name: "Empty", Kind: ast.KindArray, Type: "byte", Count: 0},
	}}
	_, err := resolve.Resolve(raw)
	se := schemaErr(t, err)
	if se.Kind != ast.ErrEmptyArray {
		t.Errorf("Kind = %v, want ErrEmptyArray", se.Kind)
	}
}

func TestArrayInnerNotFixedSize(t *testing.T) {
	raw := ast.RawAst{Decls: []ast.RawDecl{
		{Name: "Var", Kind: ast.KindDynVec, Type: "byte"},
		{Name: "Bad", Kind: ast.KindArray, Type: "Var", Count: 2},
	}}
	_, err := resolve.Resolve(raw)
	se := schemaErr(t, err)
	if se.Kind != ast.ErrInnerNotFixedSize {
		t.Errorf("Kind = %v, want ErrInnerNotFixedSize", se.Kind)
	}
	if se.Field != "" {
		t.Errorf("Field = %q, want empty for an array", se.Field)
	}
}

func TestStructFieldNotFixedSize(t *testing.T) {
	raw := ast.RawAst{Decls: []ast.RawDecl{
		{Name: "Var", Kind: ast.KindDynVec, Type: "byte"},
		{Name: "Bad", Kind: ast.KindStruct, Fields: []ast.RawField{
			{Name: "v", Type: "Var"},
		}},
	}}
	_, err := resolve.Resolve(raw)
	se := schemaErr(t, err)
	if se.Kind != ast.ErrInnerNotFixedSize {
		t.Errorf("Kind = %v, want ErrInnerNotFixedSize", se.Kind)
	}
	if se.Field != "v" {
		t.Errorf("Field = %q, want %q", se.Field, "v")
	}
}

func TestZeroSizeStruct(t *testing.T) {
	raw := ast.RawAst{Decls: []ast.RawDecl{
		{Name: "Empty", Kind: ast.KindStruct, Fields: nil},
	}}
	_, err := resolve.Resolve(raw)
	se := schemaErr(t, err)
	if se.Kind != ast.ErrZeroSizeStruct {
		t.Errorf("Kind = %v, want ErrZeroSizeStruct", se.Kind)
	}
}
