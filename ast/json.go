// Copyright 2024 The Molecule Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ast

import (
	"encoding/json"
	"io"
)

// DecodeRawSchema reads a JSON-encoded RawAst from r. The schema surface
// parser itself (source text to RawAst) is an external collaborator this
// module does not implement (spec.md §1); JSON is the ingestion format the
// CLI uses in its place, since RawDecl's shape is already a natural
// encoding/json target.
func DecodeRawSchema(r io.Reader) (RawAst, error) {
	var raw RawAst
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&raw); err != nil {
		return RawAst{}, err
	}
	return raw, nil
}

// EncodeRawSchema writes raw to w as indented JSON, the inverse of
// DecodeRawSchema.
func EncodeRawSchema(w io.Writer, raw RawAst) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(raw)
}
