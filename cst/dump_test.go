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

package cst

import (
	"strings"
	"testing"

	"github.com/eure-lang/eure/token"
)

// buildSimpleEure constructs the CST for source "a = 1" by hand:
// Eure{ Binding{ Keys{ Key{ KeyBase{ Ident } } }, ValueBinding{ Eq,
// Value{ Integer } } } }.
func buildSimpleEure(t *testing.T) (*Store, CstNodeId, string) {
	t.Helper()
	src := "a = 1"
	s := NewStore(src)

	ident := s.AddTerminal(token.Ident, Span{0, 1})
	keyBase := s.AddNonTerminal(token.NTKeyBase, ident)
	key := s.AddNonTerminal(token.NTKey, keyBase)
	keys := s.AddNonTerminal(token.NTKeys, key)

	ws1 := s.AddTerminal(token.Whitespace, Span{1, 2})
	eq := s.AddTerminal(token.Eq, Span{2, 3})
	ws2 := s.AddTerminal(token.Whitespace, Span{3, 4})
	integer := s.AddTerminal(token.Integer, Span{4, 5})
	value := s.AddNonTerminal(token.NTValue, integer)
	valueBinding := s.AddNonTerminal(token.NTValueBinding, eq, ws2, value)

	binding := s.AddNonTerminal(token.NTBinding, keys, ws1, valueBinding)
	root := s.AddNonTerminal(token.NTEure, binding)
	return s, root, src
}

func TestCstLosslessness(t *testing.T) {
	s, root, src := buildSimpleEure(t)
	var b strings.Builder
	var walk func(id CstNodeId)
	walk = func(id CstNodeId) {
		data, ok := s.NodeData(id)
		if !ok {
			t.Fatalf("missing node %d", id)
		}
		if data.IsTerminal() {
			txt, _ := s.TerminalText(id)
			b.WriteString(txt)
			return
		}
		for _, c := range data.NonTerminal.Children {
			walk(c)
		}
	}
	walk(root)
	if b.String() != src {
		t.Errorf("concatenated terminal spans = %q, want %q", b.String(), src)
	}
}

func TestCstViewSoundness(t *testing.T) {
	s, root, _ := buildSimpleEure(t)
	eh, err := NewEureHandle(s, root)
	if err != nil {
		t.Fatalf("NewEureHandle: %v", err)
	}
	view, err := eh.View(s, nil)
	if err != nil {
		t.Fatalf("EureHandle.View: %v", err)
	}
	if len(view.Bindings) != 1 {
		t.Fatalf("got %d bindings, want 1", len(view.Bindings))
	}
	bv, err := view.Bindings[0].View(s, nil)
	if err != nil {
		t.Fatalf("BindingHandle.View: %v", err)
	}
	if bv.RhsKind != RhsValue {
		t.Fatalf("RhsKind = %v, want RhsValue", bv.RhsKind)
	}
	vv, err := bv.ValueRhs.View(s, nil)
	if err != nil {
		t.Fatalf("ValueBindingHandle.View: %v", err)
	}
	vvv, err := vv.Value.View(s, nil)
	if err != nil {
		t.Fatalf("ValueHandle.View: %v", err)
	}
	if vvv.Kind != ValueInteger {
		t.Fatalf("Value.Kind = %v, want ValueInteger", vvv.Kind)
	}
	txt, _ := s.TerminalText(vvv.Terminal)
	if txt != "1" {
		t.Errorf("Value terminal text = %q, want \"1\"", txt)
	}
}

func TestDumpStringContainsKindsAndText(t *testing.T) {
	s, root, _ := buildSimpleEure(t)
	out := DumpString(s, root)
	for _, want := range []string{"Eure", "Binding", "IDENT", `"a"`, "INTEGER", `"1"`} {
		if !strings.Contains(out, want) {
			t.Errorf("DumpString output missing %q; got:\n%s", want, out)
		}
	}
}
