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
	"testing"

	"github.com/eure-lang/eure/token"
)

// buildTwoBindingsWithBogusSibling returns an Eure node whose children
// are [binding1, a dangling CstNodeId that was never added, binding2],
// so a visitor pass over it must cope with one malformed child
// sandwiched between two well-formed ones.
func buildTwoBindingsWithBogusSibling(t *testing.T) (*Store, CstNodeId) {
	t.Helper()
	s := NewStore("a = 1a = 1")
	mkBinding := func(off int) CstNodeId {
		ident := s.AddTerminal(token.Ident, Span{off, off + 1})
		keyBase := s.AddNonTerminal(token.NTKeyBase, ident)
		key := s.AddNonTerminal(token.NTKey, keyBase)
		keys := s.AddNonTerminal(token.NTKeys, key)
		eq := s.AddTerminal(token.Eq, Span{off + 2, off + 3})
		integer := s.AddTerminal(token.Integer, Span{off + 4, off + 5})
		value := s.AddNonTerminal(token.NTValue, integer)
		valueBinding := s.AddNonTerminal(token.NTValueBinding, eq, value)
		return s.AddNonTerminal(token.NTBinding, keys, valueBinding)
	}
	binding1 := mkBinding(0)
	binding2 := mkBinding(5)
	bogus := CstNodeId(9999)
	root := s.AddNonTerminal(token.NTEure, binding1, bogus, binding2)
	return s, root
}

// countingVisitor records how many NTBinding nodes it actually reached.
type countingVisitor struct {
	DefaultCstVisitor
	bindings  int
	propagate bool
	recovered int
}

func (v *countingVisitor) VisitBinding(s *Store, h BindingHandle) error {
	v.bindings++
	return v.DefaultCstVisitor.VisitBinding(s, h)
}

func (v *countingVisitor) RecoverError(s *Store, parent CstNodeId, err *ConstructError) error {
	v.recovered++
	if v.propagate {
		return err
	}
	return nil
}

func TestWalkSwallowsErrorAndVisitsRemainingSiblings(t *testing.T) {
	s, root := buildTwoBindingsWithBogusSibling(t)
	v := &countingVisitor{}
	if err := Walk(s, v, root); err != nil {
		t.Fatalf("Walk: %v", err)
	}
	if v.recovered != 1 {
		t.Errorf("recovered = %d, want 1", v.recovered)
	}
	if v.bindings != 2 {
		t.Errorf("bindings visited = %d, want 2 (swallowing must not stop the walk)", v.bindings)
	}
}

func TestWalkPropagatesErrorWhenRecoverErrorReturnsIt(t *testing.T) {
	s, root := buildTwoBindingsWithBogusSibling(t)
	v := &countingVisitor{propagate: true}
	err := Walk(s, v, root)
	if err == nil {
		t.Fatal("Walk: want error when RecoverError propagates, got nil")
	}
	ce, ok := err.(*ConstructError)
	if !ok || ce.Kind != NodeIdNotFound {
		t.Fatalf("err = %v, want a NodeIdNotFound ConstructError", err)
	}
	if v.bindings != 1 {
		t.Errorf("bindings visited = %d, want 1 (propagation must stop the walk at the bogus sibling)", v.bindings)
	}
}
