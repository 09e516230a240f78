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
)

func bigInt(t *testing.T, s string) apd.Decimal {
	t.Helper()
	var d apd.Decimal
	if _, _, err := d.SetString(s); err != nil {
		t.Fatalf("SetString(%q): %v", s, err)
	}
	return d
}

// TestNestedKeysLowerIntoNestedMaps covers S1: "a.b = 1" / "a.c = 2"
// bind into a shared "a" map with keys b and c. The map does not
// record key order, so order is not checked.
func TestNestedKeysLowerIntoNestedMaps(t *testing.T) {
	doc := New()
	ctor := NewConstructor(doc)

	bind := func(path []PathSegment, v PrimitiveValue) {
		t.Helper()
		guard := ctor.Guard()
		defer guard.Close()
		if err := ctor.PushPath(path); err != nil {
			t.Fatalf("PushPath: %v", err)
		}
		if err := ctor.BindPrimitive(v); err != nil {
			t.Fatalf("BindPrimitive: %v", err)
		}
	}

	bind([]PathSegment{{Kind: SegIdent, Ident: "a"}, {Kind: SegIdent, Ident: "b"}},
		PrimitiveValue{Kind: PrimBigInt, Int: bigInt(t, "1")})
	bind([]PathSegment{{Kind: SegIdent, Ident: "a"}, {Kind: SegIdent, Ident: "c"}},
		PrimitiveValue{Kind: PrimBigInt, Int: bigInt(t, "2")})

	root, ok := doc.Node(Root)
	if !ok {
		t.Fatal("root node missing")
	}
	aID, ok := root.Value.Entries[CanonicalKey(ObjectKey{Kind: KeyString, String: "a"})]
	if !ok {
		t.Fatal("root map has no key \"a\"")
	}
	a, ok := doc.Node(aID)
	if !ok || a.Value.Kind != KindMap {
		t.Fatalf("a = %+v, want a Map", a)
	}
	for _, name := range []string{"b", "c"} {
		id, ok := a.Value.Entries[CanonicalKey(ObjectKey{Kind: KeyString, String: name})]
		if !ok {
			t.Fatalf("a map has no key %q", name)
		}
		n, ok := doc.Node(id)
		if !ok || n.Value.Kind != KindPrimitive || n.Value.Primitive.Kind != PrimBigInt {
			t.Fatalf("a.%s = %+v, want a BigInt primitive", name, n)
		}
	}
}

// TestTupleKey covers S2: `("x", 2) = true` produces a root map whose
// single key is the tuple [String("x"), Number(2)] bound to Bool(true).
func TestTupleKey(t *testing.T) {
	doc := New()
	ctor := NewConstructor(doc)

	key := ObjectKey{Kind: KeyTuple, Tuple: []ObjectKey{
		{Kind: KeyString, String: "x"},
		{Kind: KeyNumber, Number: bigInt(t, "2")},
	}}
	if err := ctor.PushPath([]PathSegment{{Kind: SegValue, Value: key}}); err != nil {
		t.Fatalf("PushPath: %v", err)
	}
	if err := ctor.BindPrimitive(PrimitiveValue{Kind: PrimBool, Bool: true}); err != nil {
		t.Fatalf("BindPrimitive: %v", err)
	}

	root, _ := doc.Node(Root)
	if len(root.Value.Entries) != 1 {
		t.Fatalf("root has %d entries, want 1", len(root.Value.Entries))
	}
	canon := CanonicalKey(key)
	id, ok := root.Value.Entries[canon]
	if !ok {
		t.Fatalf("root map has no entry for canonical tuple key %q", canon)
	}
	n, _ := doc.Node(id)
	if n.Value.Kind != KindPrimitive || n.Value.Primitive.Kind != PrimBool || !n.Value.Primitive.Bool {
		t.Fatalf("bound value = %+v, want Bool(true)", n.Value)
	}
}

func TestSingleWriteInvariant(t *testing.T) {
	doc := New()
	ctor := NewConstructor(doc)
	if err := ctor.PushPath([]PathSegment{{Kind: SegIdent, Ident: "x"}}); err != nil {
		t.Fatalf("PushPath: %v", err)
	}
	if err := ctor.BindPrimitive(PrimitiveValue{Kind: PrimNull}); err != nil {
		t.Fatalf("first bind: %v", err)
	}
	err := ctor.BindPrimitive(PrimitiveValue{Kind: PrimBool, Bool: true})
	if err == nil {
		t.Fatal("second BindPrimitive at the same node: want error, got nil")
	}
	ie, ok := err.(*InsertError)
	if !ok || ie.Kind != ErrAlreadyWritten {
		t.Fatalf("err = %v, want ErrAlreadyWritten", err)
	}
}

// TestReenteringMapKeyReusesChild covers spec §3.3/§4.4: navigating to
// an already-present map key via PushPath is not a rebind. It must
// return the cursor to the same child id rather than erroring, and a
// conflicting write at that child is still caught by the single-write
// guard, not by a duplicate-key check.
func TestReenteringMapKeyReusesChild(t *testing.T) {
	doc := New()
	ctor := NewConstructor(doc)
	guard := ctor.Guard()
	if err := ctor.PushPath([]PathSegment{{Kind: SegIdent, Ident: "x"}}); err != nil {
		t.Fatalf("PushPath: %v", err)
	}
	firstID := ctor.CurrentNode()
	if err := ctor.BindPrimitive(PrimitiveValue{Kind: PrimNull}); err != nil {
		t.Fatalf("bind: %v", err)
	}
	guard.Close()

	if err := ctor.PushPath([]PathSegment{{Kind: SegIdent, Ident: "x"}}); err != nil {
		t.Fatalf("re-pushing an existing map key: want nil, got %v", err)
	}
	if got := ctor.CurrentNode(); got != firstID {
		t.Fatalf("re-pushing an existing map key landed on node %v, want the same child %v", got, firstID)
	}

	err := ctor.BindPrimitive(PrimitiveValue{Kind: PrimBool, Bool: true})
	if err == nil {
		t.Fatal("rebinding an already-written child: want error, got nil")
	}
	ie, ok := err.(*InsertError)
	if !ok || ie.Kind != ErrAlreadyWritten {
		t.Fatalf("err = %v, want ErrAlreadyWritten", err)
	}
}

func TestArrayIndexMustBeInOrder(t *testing.T) {
	doc := New()
	ctor := NewConstructor(doc)
	if err := ctor.PushPath([]PathSegment{{Kind: SegIdent, Ident: "arr"}}); err != nil {
		t.Fatalf("PushPath: %v", err)
	}
	if err := ctor.PushPath([]PathSegment{{Kind: SegArrayIndex, Index: 1}}); err == nil {
		t.Fatal("out-of-order array index: want error, got nil")
	}
}

func TestScopeGuardRewindsOnEarlyReturn(t *testing.T) {
	doc := New()
	ctor := NewConstructor(doc)
	mark := ctor.BeginScope()
	func() {
		guard := ctor.Guard()
		defer guard.Close()
		_ = ctor.PushPath([]PathSegment{{Kind: SegIdent, Ident: "a"}})
		_ = ctor.PushPath([]PathSegment{{Kind: SegIdent, Ident: "b"}})
	}()
	if ctor.BeginScope() != mark {
		t.Fatalf("cursor depth after guard close = %d, want %d", ctor.BeginScope(), mark)
	}
}
