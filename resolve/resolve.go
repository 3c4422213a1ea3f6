// Copyright 2024 The Molecule Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package resolve implements the fixed-point elaboration of a raw
// declaration list into a resolved declaration graph (spec.md §4.2). The
// resolver itself never recurses: it loops over the set of not-yet-resolved
// declarations, attempting to complete each one, until either every
// declaration completes or a full pass makes no progress.
package resolve

import (
	set3 "github.com/TomTonic/Set3"

	"github.com/schemabin/molecule/ast"
	"github.com/schemabin/molecule/layout"
)

// Graph is the resolver's output: an immutable, shared declaration graph
// (spec.md §3.4). Composite declarations hold ordinary pointers into ByName,
// so a type referenced by several declarations is represented once.
type Graph struct {
	ByName map[string]*ast.Decl
	Order  []*ast.Decl // resolved declarations in raw declaration order (atom excluded)
}

// Lookup returns the resolved declaration for name, if any.
func (g *Graph) Lookup(name string) (*ast.Decl, bool) {
	d, ok := g.ByName[name]
	return d, ok
}

// Resolve elaborates raw into a Graph, or returns a *ast.SchemaError
// describing the first class of failure found. Name validation (I-NAME) is
// performed before the fixed-point loop; everything else — acyclicity
// (I-ACYCLIC), fixed-size requirements (I-FIXED-INNER), and non-emptiness
// (I-NONZERO) — is discovered during elaboration.
func Resolve(raw ast.RawAst) (*Graph, error) {
	if err := checkNames(raw.Decls); err != nil {
		return nil, err
	}

	atom := ast.NewAtom()
	byName := map[string]*ast.Decl{ast.AtomName: atom}
	pending := make(map[string]ast.RawDecl, len(raw.Decls))
	for _, d := range raw.Decls {
		pending[d.Name] = d
	}

	for len(pending) > 0 {
		progressed := false
		for name, d := range pending {
			decl, err := tryComplete(d, byName)
			if err != nil {
				return nil, err
			}
			if decl == nil {
				continue // a referenced type is not yet resolved
			}
			byName[name] = decl
			delete(pending, name)
			progressed = true
		}
		if !progressed {
			return nil, &ast.SchemaError{Kind: ast.ErrUnresolvedTypes, Names: remainingInOrder(raw.Decls, pending)}
		}
	}

	g := &Graph{ByName: byName, Order: make([]*ast.Decl, 0, len(raw.Decls))}
	for _, d := range raw.Decls {
		g.Order = append(g.Order, byName[d.Name])
	}
	return g, nil
}

// checkNames enforces I-NAME: reserved identifiers may not be redeclared,
// and every declared name must be unique. github.com/TomTonic/Set3 (pulled
// in by the TomTonic-multimap example) is a natural fit for both checks:
// a fixed two-element reserved set and a grow-as-you-go seen set.
func checkNames(decls []ast.RawDecl) error {
	reserved := set3.From(ast.AtomName, ast.AtomPrimitiveName)
	seen := set3.Empty[string]()
	for _, d := range decls {
		if reserved.Contains(d.Name) {
			return &ast.SchemaError{Kind: ast.ErrNameReserved, Name: d.Name}
		}
		if seen.Contains(d.Name) {
			return &ast.SchemaError{Kind: ast.ErrNameDuplicated, Name: d.Name}
		}
		seen.Add(d.Name)
	}
	return nil
}

// remainingInOrder reports the names left in pending, in the order they
// first appeared in decls, so a repeated Resolve call on the same
// ill-formed input produces a byte-identical error message (an instance of
// P4, idempotent resolution, applying to the failure path too).
func remainingInOrder(decls []ast.RawDecl, pending map[string]ast.RawDecl) []string {
	names := make([]string, 0, len(pending))
	for _, d := range decls {
		if _, ok := pending[d.Name]; ok {
			names = append(names, d.Name)
		}
	}
	return names
}

// tryComplete attempts to resolve one declaration given the declarations
// already resolved. It returns (nil, nil) when a referenced type is not yet
// in byName (the caller should retry on a later pass), and a non-nil error
// for any failure that can never be fixed by further passes.
func tryComplete(d ast.RawDecl, byName map[string]*ast.Decl) (*ast.Decl, error) {
	switch d.Kind {
	case ast.KindOption:
		return completeOption(d, byName)
	case ast.KindUnion:
		return completeUnion(d, byName)
	case ast.KindArray:
		return completeArray(d, byName)
	case ast.KindStruct:
		return completeStruct(d, byName)
	case ast.KindFixVec:
		return completeFixVec(d, byName)
	case ast.KindDynVec:
		return completeDynVec(d, byName)
	case ast.KindTable:
		return completeTable(d, byName)
	default:
		return nil, &ast.SchemaError{Kind: ast.ErrUnresolvedTypes, Names: []string{d.Name}}
	}
}

func completeOption(d ast.RawDecl, byName map[string]*ast.Decl) (*ast.Decl, error) {
	inner, ok := byName[d.Type]
	if !ok {
		return nil, nil
	}
	return &ast.Decl{Name: d.Name, Kind: ast.KindOption, Inner: inner, Align: inner.Align}, nil
}

func completeUnion(d ast.RawDecl, byName map[string]*ast.Decl) (*ast.Decl, error) {
	if len(d.Items) == 0 {
		return nil, &ast.SchemaError{Kind: ast.ErrEmptyUnion, Name: d.Name}
	}
	items := make([]*ast.Decl, len(d.Items))
	for i, name := range d.Items {
		t, ok := byName[name]
		if !ok {
			return nil, nil
		}
		items[i] = t
	}
	return &ast.Decl{
		Name:           d.Name,
		Kind:           ast.KindUnion,
		Items:          items,
		HeaderFullSize: 8,
		Align:          layout.Align8,
	}, nil
}

func completeArray(d ast.RawDecl, byName map[string]*ast.Decl) (*ast.Decl, error) {
	if d.Count <= 0 {
		return nil, &ast.SchemaError{Kind: ast.ErrEmptyArray, Name: d.Name}
	}
	t, ok := byName[d.Type]
	if !ok {
		return nil, nil
	}
	itemSize, fixed := t.TotalSize()
	if !fixed {
		return nil, &ast.SchemaError{Kind: ast.ErrInnerNotFixedSize, Name: d.Name}
	}
	itemAlign := t.Align
	align := t.Align
	if t.IsAtom() {
		itemAlign = layout.Align1
		align = layout.AlignmentForSize(d.Count)
	}
	itemPadding := layout.Padding(itemAlign, itemSize)
	return &ast.Decl{
		Name:        d.Name,
		Kind:        ast.KindArray,
		Inner:       t,
		ItemSize:    itemSize,
		ItemPadding: itemPadding,
		ItemAlign:   itemAlign,
		ItemCount:   d.Count,
		Align:       align,
	}, nil
}

func completeStruct(d ast.RawDecl, byName map[string]*ast.Decl) (*ast.Decl, error) {
	if len(d.Fields) == 0 {
		return nil, &ast.SchemaError{Kind: ast.ErrZeroSizeStruct, Name: d.Name}
	}
	decl := &ast.Decl{
		Name:         d.Name,
		Kind:         ast.KindStruct,
		Fields:       make([]ast.Field, len(d.Fields)),
		FieldSize:    make([]int, len(d.Fields)),
		FieldPadding: make([]int, len(d.Fields)),
		FieldAlign:   make([]layout.Alignment, len(d.Fields)),
	}
	running := 0
	align := layout.Align1
	for i, f := range d.Fields {
		t, ok := byName[f.Type]
		if !ok {
			return nil, nil
		}
		size, fixed := t.TotalSize()
		if !fixed {
			return nil, &ast.SchemaError{Kind: ast.ErrInnerNotFixedSize, Name: d.Name, Field: f.Name}
		}
		pad := layout.Padding(t.Align, running)
		decl.Fields[i] = ast.Field{Name: f.Name, Type: t}
		decl.FieldSize[i] = size
		decl.FieldPadding[i] = pad
		decl.FieldAlign[i] = t.Align
		running += pad + size
		align = layout.Max(align, t.Align)
	}
	decl.Align = align
	if total, _ := decl.TotalSize(); total == 0 {
		return nil, &ast.SchemaError{Kind: ast.ErrZeroSizeStruct, Name: d.Name}
	}
	return decl, nil
}

func completeFixVec(d ast.RawDecl, byName map[string]*ast.Decl) (*ast.Decl, error) {
	t, ok := byName[d.Type]
	if !ok {
		return nil, nil
	}
	itemSize, fixed := t.TotalSize()
	if !fixed {
		return nil, &ast.SchemaError{Kind: ast.ErrInnerNotFixedSize, Name: d.Name}
	}
	itemAlign := t.Align
	itemPadding := layout.Padding(itemAlign, itemSize)
	headerPadding := layout.Padding(itemAlign, layout.NumberSize)
	return &ast.Decl{
		Name:          d.Name,
		Kind:          ast.KindFixVec,
		Inner:         t,
		ItemSize:      itemSize,
		ItemPadding:   itemPadding,
		ItemAlign:     itemAlign,
		HeaderSize:    layout.NumberSize,
		HeaderPadding: headerPadding,
		Align:         layout.Max(itemAlign, layout.AlignOfNumberSize),
	}, nil
}

func completeDynVec(d ast.RawDecl, byName map[string]*ast.Decl) (*ast.Decl, error) {
	t, ok := byName[d.Type]
	if !ok {
		return nil, nil
	}
	return &ast.Decl{
		Name:           d.Name,
		Kind:           ast.KindDynVec,
		Inner:          t,
		HeaderBaseSize: 2 * layout.NumberSize,
		ItemAlign:      t.Align,
		Align:          layout.Max(t.Align, layout.AlignOfNumberSize),
	}, nil
}

func completeTable(d ast.RawDecl, byName map[string]*ast.Decl) (*ast.Decl, error) {
	n := len(d.Fields)
	fields := make([]ast.Field, n)
	fieldAlign := make([]layout.Alignment, n)
	for i, f := range d.Fields {
		t, ok := byName[f.Type]
		if !ok {
			return nil, nil
		}
		fields[i] = ast.Field{Name: f.Name, Type: t}
		fieldAlign[i] = t.Align
	}
	return &ast.Decl{
		Name:       d.Name,
		Kind:       ast.KindTable,
		Fields:     fields,
		FieldAlign: fieldAlign,
		HeaderSize: layout.NumberSize * (2 + n),
		Align:      layout.Align8,
	}, nil
}
