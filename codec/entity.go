// Copyright 2024 The Molecule Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package codec

import "github.com/schemabin/molecule/ast"

// Entity is an owned, immutable byte buffer declared to be of type Decl
// (spec.md GLOSSARY "Entity"). Build produces one; nothing in this package
// ever mutates Data after that point.
type Entity struct {
	Decl *ast.Decl
	Data []byte
}

// Reader returns a non-owning view over e.
func (e Entity) Reader() Reader {
	return Reader{Decl: e.Decl, Data: e.Data}
}

// Verify validates e.Data against e.Decl.
func (e Entity) Verify(compatible bool) error {
	return Verify(e.Decl, e.Data, compatible)
}
