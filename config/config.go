// Copyright 2018 The Solid Core Data Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package config defines moleculec's command-line surface: which schema
// files to resolve, which declaration to operate on, and what to do with
// it. Every flag also has a MOLECULE_* environment fallback, following the
// same explicit-flag-wins-else-env-wins-else-default chain the
// github.com/xyproto/env/v2 helpers are built for.
package config

import (
	"errors"
	"flag"
	"strings"

	env "github.com/xyproto/env/v2"
)

// Op names the operation moleculec performs against each resolved
// declaration.
type Op string

const (
	// OpDefault prints the type's default content.
	OpDefault Op = "default"
	// OpVerify validates a data file against the type.
	OpVerify Op = "verify"
	// OpBuild wraps the type's default content (from DefaultContent) in an
	// Entity, verifies it, and prints it. It does not go through Builder.
	OpBuild Op = "build"
)

// Config is moleculec's resolved, validated configuration.
type Config struct {
	Schemas    []string
	Type       string
	Op         Op
	DataPath   string
	OutDir     string
	Compatible bool
}

var (
	schemaFlag     = flag.String("schema", "", "comma-separated JSON schema files to resolve")
	typeFlag       = flag.String("type", "", "name of the resolved declaration to operate on")
	opFlag         = flag.String("op", "", "operation per schema: default, verify, or build (default \"default\")")
	dataFlag       = flag.String("data", "", "path to a binary value to check (required for -op=verify)")
	outFlag        = flag.String("out", "", "directory to write output into (stdout if empty)")
	compatibleFlag = flag.Bool("compatible", false, "tolerate a verified Table carrying more fields than the schema declares")
)

// Load parses the registered flags (flag.Parse must already have run) into
// a Config, falling back to environment variables wherever a flag was left
// at its zero value.
func Load() (*Config, error) {
	schemas := firstNonEmpty(*schemaFlag, env.Str("MOLECULE_SCHEMA", ""))
	if schemas == "" {
		return nil, errors.New("config: missing -schema (or MOLECULE_SCHEMA)")
	}
	typ := firstNonEmpty(*typeFlag, env.Str("MOLECULE_TYPE", ""))
	if typ == "" {
		return nil, errors.New("config: missing -type (or MOLECULE_TYPE)")
	}
	op := Op(firstNonEmpty(*opFlag, env.Str("MOLECULE_OP", string(OpDefault))))
	switch op {
	case OpDefault, OpVerify, OpBuild:
	default:
		return nil, errors.New("config: -op must be one of default, verify, build")
	}
	dataPath := firstNonEmpty(*dataFlag, env.Str("MOLECULE_DATA", ""))
	if op == OpVerify && dataPath == "" {
		return nil, errors.New("config: -op=verify requires -data (or MOLECULE_DATA)")
	}
	return &Config{
		Schemas:    strings.Split(schemas, ","),
		Type:       typ,
		Op:         op,
		DataPath:   dataPath,
		OutDir:     firstNonEmpty(*outFlag, env.Str("MOLECULE_OUT", "")),
		Compatible: *compatibleFlag || env.Bool("MOLECULE_COMPATIBLE"),
	}, nil
}

func firstNonEmpty(a, b string) string {
	if a != "" {
		return a
	}
	return b
}
