// Copyright 2024 The EURE Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package document

import (
	"testing"

	"github.com/cockroachdb/apd/v2"
	"github.com/google/go-cmp/cmp"
)

// nativeDiffOpts mirrors the teacher's numeric-comparer pattern: cmp
// has no default notion of apd.Decimal equality, so it is taught one
// via Cmp, the same way the teacher compares big.Rat/big.Int.
var nativeDiffOpts = []cmp.Option{
	cmp.Comparer(func(x, y *apd.Decimal) bool {
		if x == nil || y == nil {
			return x == y
		}
		return x.Cmp(y) == 0
	}),
}

func TestNativeConvertsMapArrayPrimitive(t *testing.T) {
	doc := New()
	ctor := NewConstructor(doc)

	g1 := ctor.Guard()
	if err := ctor.PushPath([]PathSegment{{Kind: SegIdent, Ident: "name"}}); err != nil {
		t.Fatalf("PushPath: %v", err)
	}
	if err := ctor.BindPrimitive(PrimitiveValue{Kind: PrimText, Text: "eure"}); err != nil {
		t.Fatalf("BindPrimitive: %v", err)
	}
	g1.Close()

	g2 := ctor.Guard()
	if err := ctor.PushPath([]PathSegment{{Kind: SegIdent, Ident: "tags"}}); err != nil {
		t.Fatalf("PushPath: %v", err)
	}
	if err := ctor.BindEmptyArray(); err != nil {
		t.Fatalf("BindEmptyArray: %v", err)
	}
	for _, tag := range []string{"a", "b"} {
		g3 := ctor.Guard()
		if err := ctor.PushPath([]PathSegment{{Kind: SegArrayAppend}}); err != nil {
			t.Fatalf("PushPath append: %v", err)
		}
		if err := ctor.BindPrimitive(PrimitiveValue{Kind: PrimText, Text: tag}); err != nil {
			t.Fatalf("BindPrimitive: %v", err)
		}
		g3.Close()
	}
	g2.Close()

	v, err := Native(doc, Root)
	if err != nil {
		t.Fatalf("Native: %v", err)
	}
	m, ok := v.(map[string]any)
	if !ok {
		t.Fatalf("Native(root) = %T, want map[string]any", v)
	}
	if m["name"] != "eure" {
		t.Errorf("m[\"name\"] = %v, want eure", m["name"])
	}
	tags, ok := m["tags"].([]any)
	if !ok || len(tags) != 2 || tags[0] != "a" || tags[1] != "b" {
		t.Errorf("m[\"tags\"] = %v, want [a b]", m["tags"])
	}
}

func TestNativeBigIntYieldsDecimal(t *testing.T) {
	doc := New()
	ctor := NewConstructor(doc)
	var d apd.Decimal
	d.SetInt64(42)
	if err := ctor.PushPath([]PathSegment{{Kind: SegIdent, Ident: "n"}}); err != nil {
		t.Fatalf("PushPath: %v", err)
	}
	if err := ctor.BindPrimitive(PrimitiveValue{Kind: PrimBigInt, Int: d}); err != nil {
		t.Fatalf("BindPrimitive: %v", err)
	}
	v, err := Native(doc, Root)
	if err != nil {
		t.Fatalf("Native: %v", err)
	}
	m := v.(map[string]any)
	dec, ok := m["n"].(*apd.Decimal)
	if !ok {
		t.Fatalf("m[\"n\"] = %T, want *apd.Decimal", m["n"])
	}
	if dec.String() != "42" {
		t.Errorf("m[\"n\"] = %s, want 42", dec.String())
	}
}

func TestNativeUnboundHoleErrors(t *testing.T) {
	doc := New()
	ctor := NewConstructor(doc)
	if err := ctor.PushPath([]PathSegment{{Kind: SegIdent, Ident: "x"}}); err != nil {
		t.Fatalf("PushPath: %v", err)
	}
	// leave "x" as an unbound hole: conversion of the whole map fails
	// because the hole itself has no native representation.
	if _, err := Native(doc, Root); err == nil {
		t.Fatal("Native(root) with an unbound child: want error, got nil")
	}
	holeID := mustEntryID(t, doc, Root, "x")
	if _, err := Native(doc, holeID); err == nil {
		t.Fatal("Native on a hole node: want error, got nil")
	}
}

func TestNativeNestedStructureMatchesExpected(t *testing.T) {
	doc := New()
	ctor := NewConstructor(doc)

	g := ctor.Guard()
	if err := ctor.PushPath([]PathSegment{{Kind: SegIdent, Ident: "server"}}); err != nil {
		t.Fatalf("PushPath server: %v", err)
	}
	if err := ctor.PushPath([]PathSegment{{Kind: SegIdent, Ident: "port"}}); err != nil {
		t.Fatalf("PushPath port: %v", err)
	}
	var port apd.Decimal
	port.SetInt64(8080)
	if err := ctor.BindPrimitive(PrimitiveValue{Kind: PrimBigInt, Int: port}); err != nil {
		t.Fatalf("BindPrimitive port: %v", err)
	}
	g.Close()

	v, err := Native(doc, Root)
	if err != nil {
		t.Fatalf("Native: %v", err)
	}

	var wantPort apd.Decimal
	wantPort.SetInt64(8080)
	want := map[string]any{
		"server": map[string]any{
			"port": &wantPort,
		},
	}
	if diff := cmp.Diff(want, v, nativeDiffOpts...); diff != "" {
		t.Errorf("Native(root) mismatch (-want +got):\n%s", diff)
	}
}

func mustEntryID(t *testing.T, doc *Document, id NodeId, key string) NodeId {
	t.Helper()
	n, ok := doc.Node(id)
	if !ok {
		t.Fatalf("node %d missing", id)
	}
	eid, ok := n.Value.Entries[CanonicalKey(ObjectKey{Kind: KeyString, String: key})]
	if !ok {
		t.Fatalf("node %d has no entry %q", id, key)
	}
	return eid
}
