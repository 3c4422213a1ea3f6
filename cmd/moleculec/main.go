// Copyright 2024 The Molecule Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command moleculec resolves one or more JSON-encoded molecule schemas and
// performs a single operation — print a type's default content, verify a
// data file against a type, or wrap that same default content in an Entity
// and verify it before printing (the Builder is not used) — against a named
// declaration in each.
package main

import (
	"context"
	"encoding/hex"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/schemabin/molecule/ast"
	"github.com/schemabin/molecule/codec"
	"github.com/schemabin/molecule/config"
	"github.com/schemabin/molecule/internal/start"
	"github.com/schemabin/molecule/resolve"
)

func main() {
	flag.Parse()
	if err := start.Start(context.Background(), 5*time.Second, run); err != nil {
		log.Print(err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	runs := make([]func(ctx context.Context) error, len(cfg.Schemas))
	for i, path := range cfg.Schemas {
		path := path
		runs[i] = func(ctx context.Context) error {
			return processSchema(cfg, path)
		}
	}
	return start.RunAll(ctx, runs...)
}

func processSchema(cfg *config.Config, schemaPath string) error {
	f, err := os.Open(schemaPath)
	if err != nil {
		return fmt.Errorf("moleculec: %s: %w", schemaPath, err)
	}
	defer f.Close()

	raw, err := ast.DecodeRawSchema(f)
	if err != nil {
		return fmt.Errorf("moleculec: %s: decode schema: %w", schemaPath, err)
	}

	g, err := resolve.Resolve(raw)
	if err != nil {
		return fmt.Errorf("moleculec: %s: %w", schemaPath, err)
	}

	d, ok := g.Lookup(cfg.Type)
	if !ok {
		return fmt.Errorf("moleculec: %s: type %q not declared", schemaPath, cfg.Type)
	}

	var out []byte
	switch cfg.Op {
	case config.OpDefault:
		out = codec.DefaultContent(d)
	case config.OpBuild:
		data := codec.DefaultContent(d)
		e := codec.Entity{Decl: d, Data: data}
		if err := e.Verify(cfg.Compatible); err != nil {
			return fmt.Errorf("moleculec: %s: built %q does not verify: %w", schemaPath, cfg.Type, err)
		}
		out = e.Data
	case config.OpVerify:
		data, err := os.ReadFile(cfg.DataPath)
		if err != nil {
			return fmt.Errorf("moleculec: %s: %w", schemaPath, err)
		}
		if err := codec.Verify(d, data, cfg.Compatible); err != nil {
			return fmt.Errorf("moleculec: %s: %q does not verify: %w", schemaPath, cfg.Type, err)
		}
		log.Printf("moleculec: %s: %q verifies (%d bytes)", schemaPath, cfg.Type, len(data))
		return nil
	}

	return writeOutput(cfg, schemaPath, out)
}

func writeOutput(cfg *config.Config, schemaPath string, data []byte) error {
	encoded := hex.EncodeToString(data)
	if cfg.OutDir == "" {
		fmt.Println(encoded)
		return nil
	}
	name := fmt.Sprintf("%s.%s.hex", filepath.Base(schemaPath), cfg.Type)
	outPath := filepath.Join(cfg.OutDir, name)
	return os.WriteFile(outPath, []byte(encoded+"\n"), 0o644)
}
