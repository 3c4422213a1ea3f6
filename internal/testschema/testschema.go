// Copyright 2024 The Molecule Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package testschema provides a small schema shared by the resolve and
// codec test suites, so both exercise the same concrete declarations
// without duplicating them.
package testschema

import (
	"github.com/schemabin/molecule/ast"
	"github.com/schemabin/molecule/resolve"
)

// RawAST returns a valid schema covering every declarable kind: nested
// fixed-size arrays, a struct, an option, a FixVec, a DynVec of FixVecs, a
// single-item union, a FixVec<byte> used as a string, and a two-field
// table.
func RawAST() ast.RawAst {
	return ast.RawAst{Decls: []ast.RawDecl{
		{Name: "Word", Kind: ast.KindArray, Type: "byte", Count: 2},
		{Name: "Word2", Kind: ast.KindArray, Type: "Word", Count: 2},
		{Name: "Byte3", Kind: ast.KindArray, Type: "byte", Count: 3},
		{Name: "Byte3x3", Kind: ast.KindArray, Type: "Byte3", Count: 3},
		{Name: "Point", Kind: ast.KindStruct, Fields: []ast.RawField{
			{Name: "x", Type: "byte"},
			{Name: "y", Type: "byte"},
		}},
		{Name: "OptByte", Kind: ast.KindOption, Type: "byte"},
		{Name: "Bytes", Kind: ast.KindFixVec, Type: "byte"},
		{Name: "BytesVec", Kind: ast.KindDynVec, Type: "Bytes"},
		{Name: "UnionA", Kind: ast.KindUnion, Items: []string{"byte"}},
		{Name: "Str", Kind: ast.KindFixVec, Type: "byte"},
		{Name: "Pair", Kind: ast.KindTable, Fields: []ast.RawField{
			{Name: "a", Type: "Word2"},
			{Name: "b", Type: "BytesVec"},
		}},
	}}
}

// MustResolve resolves RawAST, panicking on error. Callers are test suites
// that treat a resolution failure here as a fixture bug, not a test case.
func MustResolve() *resolve.Graph {
	g, err := resolve.Resolve(RawAST())
	if err != nil {
		panic(err)
	}
	return g
}
