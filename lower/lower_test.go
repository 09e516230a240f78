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

package lower

import (
	"testing"

	"github.com/cockroachdb/apd/v2"
	"github.com/eure-lang/eure/cst"
	"github.com/eure-lang/eure/document"
	"github.com/eure-lang/eure/token"
)

func keyOf(s *cst.Store, ident cst.CstNodeId) cst.CstNodeId {
	base := s.AddNonTerminal(token.NTKeyBase, ident)
	return s.AddNonTerminal(token.NTKey, base)
}

// TestLowerNestedKeys covers S1: "a.b = 1" and "a.c = 2" lower into a
// single root map with one key "a" holding a submap with keys b and c.
func TestLowerNestedKeys(t *testing.T) {
	src := "a.b = 1\na.c = 2\n"
	s := cst.NewStore(src)

	identA1 := s.AddTerminal(token.Ident, cst.Span{0, 1})
	dot1 := s.AddTerminal(token.Dot, cst.Span{1, 2})
	identB := s.AddTerminal(token.Ident, cst.Span{2, 3})
	ws1 := s.AddTerminal(token.Whitespace, cst.Span{3, 4})
	eq1 := s.AddTerminal(token.Eq, cst.Span{4, 5})
	ws2 := s.AddTerminal(token.Whitespace, cst.Span{5, 6})
	int1 := s.AddTerminal(token.Integer, cst.Span{6, 7})
	nl1 := s.AddTerminal(token.Newline, cst.Span{7, 8})

	identA2 := s.AddTerminal(token.Ident, cst.Span{8, 9})
	dot2 := s.AddTerminal(token.Dot, cst.Span{9, 10})
	identC := s.AddTerminal(token.Ident, cst.Span{10, 11})
	ws3 := s.AddTerminal(token.Whitespace, cst.Span{11, 12})
	eq2 := s.AddTerminal(token.Eq, cst.Span{12, 13})
	ws4 := s.AddTerminal(token.Whitespace, cst.Span{13, 14})
	int2 := s.AddTerminal(token.Integer, cst.Span{14, 15})
	nl2 := s.AddTerminal(token.Newline, cst.Span{15, 16})

	keyA1 := keyOf(s, identA1)
	keyB := keyOf(s, identB)
	keys1 := s.AddNonTerminal(token.NTKeys, keyA1, dot1, keyB)
	value1 := s.AddNonTerminal(token.NTValue, int1)
	valueBinding1 := s.AddNonTerminal(token.NTValueBinding, eq1, ws2, value1)
	binding1 := s.AddNonTerminal(token.NTBinding, keys1, ws1, valueBinding1)

	keyA2 := keyOf(s, identA2)
	keyC := keyOf(s, identC)
	keys2 := s.AddNonTerminal(token.NTKeys, keyA2, dot2, keyC)
	value2 := s.AddNonTerminal(token.NTValue, int2)
	valueBinding2 := s.AddNonTerminal(token.NTValueBinding, eq2, ws4, value2)
	binding2 := s.AddNonTerminal(token.NTBinding, keys2, ws3, valueBinding2)

	root := s.AddNonTerminal(token.NTEure, binding1, nl1, binding2, nl2)

	eh, err := cst.NewEureHandle(s, root)
	if err != nil {
		t.Fatalf("NewEureHandle: %v", err)
	}
	srcDoc, err := New(s).Lower(eh)
	if err != nil {
		t.Fatalf("Lower: %v", err)
	}

	rootNode, ok := srcDoc.Doc.Node(document.Root)
	if !ok {
		t.Fatal("root node missing")
	}
	aID, ok := rootNode.Value.Entries[document.CanonicalKey(document.ObjectKey{Kind: document.KeyString, String: "a"})]
	if !ok {
		t.Fatal("root map has no key \"a\"")
	}
	a, ok := srcDoc.Doc.Node(aID)
	if !ok || a.Value.Kind != document.KindMap {
		t.Fatalf("a = %+v, want a Map", a)
	}
	for name, want := range map[string]string{"b": "1", "c": "2"} {
		id, ok := a.Value.Entries[document.CanonicalKey(document.ObjectKey{Kind: document.KeyString, String: name})]
		if !ok {
			t.Fatalf("a map has no key %q", name)
		}
		n, ok := srcDoc.Doc.Node(id)
		if !ok || n.Value.Kind != document.KindPrimitive || n.Value.Primitive.Kind != document.PrimBigInt {
			t.Fatalf("a.%s = %+v, want a BigInt primitive", name, n)
		}
		if n.Value.Primitive.Int.String() != want {
			t.Errorf("a.%s = %s, want %s", name, n.Value.Primitive.Int.String(), want)
		}
	}
	if len(srcDoc.Layout) != 2 {
		t.Errorf("len(Layout) = %d, want 2", len(srcDoc.Layout))
	}
}

// TestLowerTupleKeyBinding covers S2: `("x", 2) = true` binds the root
// map's single entry under a tuple key [String("x"), Number(2)].
func TestLowerTupleKeyBinding(t *testing.T) {
	src := `("x", 2) = true`
	s := cst.NewStore(src)

	lparen := s.AddTerminal(token.LParen, cst.Span{0, 1})
	strX := s.AddTerminal(token.Str, cst.Span{1, 4})
	comma := s.AddTerminal(token.Comma, cst.Span{4, 5})
	wsA := s.AddTerminal(token.Whitespace, cst.Span{5, 6})
	intTwo := s.AddTerminal(token.Integer, cst.Span{6, 7})
	rparen := s.AddTerminal(token.RParen, cst.Span{7, 8})
	wsB := s.AddTerminal(token.Whitespace, cst.Span{8, 9})
	eq := s.AddTerminal(token.Eq, cst.Span{9, 10})
	wsC := s.AddTerminal(token.Whitespace, cst.Span{10, 11})
	trueTok := s.AddTerminal(token.True, cst.Span{11, 15})

	kvStr := s.AddNonTerminal(token.NTKeyValue, strX)
	kvInt := s.AddNonTerminal(token.NTKeyValue, intTwo)
	keyTuple := s.AddNonTerminal(token.NTKeyTuple, lparen, kvStr, comma, wsA, kvInt, rparen)
	keyBase := s.AddNonTerminal(token.NTKeyBase, keyTuple)
	key := s.AddNonTerminal(token.NTKey, keyBase)
	keys := s.AddNonTerminal(token.NTKeys, key)

	value := s.AddNonTerminal(token.NTValue, trueTok)
	valueBinding := s.AddNonTerminal(token.NTValueBinding, eq, wsC, value)
	binding := s.AddNonTerminal(token.NTBinding, keys, wsB, valueBinding)
	root := s.AddNonTerminal(token.NTEure, binding)

	eh, err := cst.NewEureHandle(s, root)
	if err != nil {
		t.Fatalf("NewEureHandle: %v", err)
	}
	srcDoc, err := New(s).Lower(eh)
	if err != nil {
		t.Fatalf("Lower: %v", err)
	}

	rootNode, _ := srcDoc.Doc.Node(document.Root)
	if len(rootNode.Value.Entries) != 1 {
		t.Fatalf("root has %d entries, want 1", len(rootNode.Value.Entries))
	}
	wantKey := document.ObjectKey{Kind: document.KeyTuple, Tuple: []document.ObjectKey{
		{Kind: document.KeyString, String: "x"},
		{Kind: document.KeyNumber, Number: mustDecimal(t, "2")},
	}}
	id, ok := rootNode.Value.Entries[document.CanonicalKey(wantKey)]
	if !ok {
		t.Fatalf("root map has no entry for tuple key; entries: %+v", rootNode.Value.Entries)
	}
	n, _ := srcDoc.Doc.Node(id)
	if n.Value.Kind != document.KindPrimitive || n.Value.Primitive.Kind != document.PrimBool || !n.Value.Primitive.Bool {
		t.Fatalf("bound value = %+v, want Bool(true)", n.Value)
	}
}

// TestLowerStringContinuation covers S4: `s = "foo" \ "bar"` joins the
// continuation into a single Text("foobar").
func TestLowerStringContinuation(t *testing.T) {
	src := `s = "foo" \ "bar"`
	s := cst.NewStore(src)

	identS := s.AddTerminal(token.Ident, cst.Span{0, 1})
	ws1 := s.AddTerminal(token.Whitespace, cst.Span{1, 2})
	eq := s.AddTerminal(token.Eq, cst.Span{2, 3})
	ws2 := s.AddTerminal(token.Whitespace, cst.Span{3, 4})
	strFoo := s.AddTerminal(token.Str, cst.Span{4, 9})
	ws3 := s.AddTerminal(token.Whitespace, cst.Span{9, 10})
	escape := s.AddTerminal(token.EscapeSeq, cst.Span{10, 11})
	ws4 := s.AddTerminal(token.Whitespace, cst.Span{11, 12})
	strBar := s.AddTerminal(token.Str, cst.Span{12, 17})

	tail := s.AddNonTerminal(token.NTStringsTail, escape, ws4, strBar)
	strings := s.AddNonTerminal(token.NTStrings, strFoo, ws3, tail)
	value := s.AddNonTerminal(token.NTValue, strings)
	valueBinding := s.AddNonTerminal(token.NTValueBinding, eq, ws2, value)

	keys := s.AddNonTerminal(token.NTKeys, keyOf(s, identS))
	binding := s.AddNonTerminal(token.NTBinding, keys, ws1, valueBinding)
	root := s.AddNonTerminal(token.NTEure, binding)

	eh, err := cst.NewEureHandle(s, root)
	if err != nil {
		t.Fatalf("NewEureHandle: %v", err)
	}
	srcDoc, err := New(s).Lower(eh)
	if err != nil {
		t.Fatalf("Lower: %v", err)
	}

	rootNode, _ := srcDoc.Doc.Node(document.Root)
	id, ok := rootNode.Value.Entries[document.CanonicalKey(document.ObjectKey{Kind: document.KeyString, String: "s"})]
	if !ok {
		t.Fatal("root map has no key \"s\"")
	}
	n, _ := srcDoc.Doc.Node(id)
	if n.Value.Kind != document.KindPrimitive || n.Value.Primitive.Kind != document.PrimText {
		t.Fatalf("s = %+v, want a Text primitive", n.Value)
	}
	if n.Value.Primitive.Text != "foobar" {
		t.Errorf("s = %q, want \"foobar\"", n.Value.Primitive.Text)
	}
}

func mustDecimal(t *testing.T, s string) apd.Decimal {
	t.Helper()
	var d apd.Decimal
	if _, _, err := d.SetString(s); err != nil {
		t.Fatalf("decimal %q: %v", s, err)
	}
	return d
}
