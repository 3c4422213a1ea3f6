// Copyright 2024 The Molecule Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package ast defines the two shapes that flow through the molecule
// pipeline: the raw declaration list a schema author (or, in this module's
// case, a JSON document decoded by DecodeRawSchema) produces, and the
// resolved declaration graph resolve.Resolve turns it into.
//
// A raw schema for a 6-byte struct of three 2-byte arrays, shown here as it
// would be decoded from JSON:
//
//	{
//	  "decls": [
//	    {"name": "Word2",  "kind": 2, "type": "byte", "count": 2},
//	    {"name": "Word2x3","kind": 3, "fields": [
//	       {"name": "a", "type": "Word2"},
//	       {"name": "b", "type": "Word2"},
//	       {"name": "c", "type": "Word2"}
//	    ]}
//	  ]
//	}
//
// resolves to a Decl graph where Word2x3.Fields[i].Type all point at the
// same *Decl for Word2 (shared ownership, spec.md §3.4): there is exactly
// one Word2 node in memory no matter how many declarations reference it.
//
// Word2's layout: item_size=1 (byte), item_align=1, item_padding=0,
// align=alignment_for_size(2)=2 (I-ARRAY-ALIGN), total_size=2.
// Word2x3 is a Struct of three Word2 fields, each already 2-byte aligned
// with no inter-field padding, so its total_size is 6 and its own align is
// max(2,2,2)=2.
package ast
