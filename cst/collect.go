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

import "github.com/eure-lang/eure/token"

// Expected describes one position in a non-terminal's expected child
// sequence: either a specific terminal kind or a specific non-terminal
// kind. It is the vocabulary CollectNodes matches grammar-rule shapes
// against.
type Expected struct {
	isTerminal  bool
	terminal    token.TerminalKind
	nonTerminal token.NonTerminalKind
}

// ExpectTerminal builds an Expected matching a terminal of kind k.
func ExpectTerminal(k token.TerminalKind) Expected { return Expected{isTerminal: true, terminal: k} }

// ExpectNonTerminal builds an Expected matching a non-terminal of kind k.
func ExpectNonTerminal(k token.NonTerminalKind) Expected { return Expected{nonTerminal: k} }

func (e Expected) matches(n CstNode) bool {
	if e.isTerminal {
		return n.Terminal != nil && n.Terminal.Kind == e.terminal
	}
	return n.NonTerminal != nil && n.NonTerminal.Kind == e.nonTerminal
}

// CollectNodes is the single primitive every view construction is
// built on (spec §4.1). It reads the non-trivia children of parent,
// in order, delivering trivia to visitIgnored as encountered, and
// matches the remainder one-to-one against expected. On a full, exact
// match it invokes build with the matched child ids, in expected's
// order. Any shape mismatch returns a *ConstructError instead of
// calling build.
func CollectNodes[T any](s *Store, parent CstNodeId, expected []Expected, visitIgnored func(CstNodeId), build func(ids []CstNodeId) (T, error)) (T, error) {
	var zero T
	children := s.Children(parent)
	ids := make([]CstNodeId, 0, len(expected))
	ei := 0
	for _, childID := range children {
		data, ok := s.NodeData(childID)
		if !ok {
			return zero, &ConstructError{Kind: NodeIdNotFound, Parent: parent, Node: childID}
		}
		if data.IsTerminal() && data.Terminal.Kind.IsTrivia() {
			if visitIgnored != nil {
				visitIgnored(childID)
			}
			continue
		}
		if ei >= len(expected) {
			return zero, &ConstructError{Kind: UnexpectedExtraNode, Parent: parent, Node: childID, Data: data}
		}
		if !expected[ei].matches(data) {
			return zero, &ConstructError{Kind: UnexpectedNodeData, Parent: parent, Node: childID, Data: data}
		}
		ids = append(ids, childID)
		ei++
	}
	if ei < len(expected) {
		return zero, &ConstructError{Kind: UnexpectedEndOfChildren, Parent: parent}
	}
	return build(ids)
}

// OptionalSingle returns the sole non-trivia child of an "optional
// rule" wrapper node id, delivering trivia to visitIgnored. Absence of
// a real child (the wrapper node present but childless, per spec §3.2)
// is reported by the second return value being false.
func OptionalSingle(s *Store, id CstNodeId, visitIgnored func(CstNodeId)) (CstNodeId, bool) {
	for _, c := range s.Children(id) {
		data, ok := s.NodeData(c)
		if !ok {
			continue
		}
		if data.IsTerminal() && data.Terminal.Kind.IsTrivia() {
			if visitIgnored != nil {
				visitIgnored(c)
			}
			continue
		}
		return c, true
	}
	return Invalid, false
}

// RightRecursiveElems flattens a right-recursive list node (grammar
// shape L ::= X L?) into the ordered sequence of X ids, forwarding
// trivia to visitIgnored. isList reports whether a given child is
// itself an L node (the recursive tail) as opposed to an X element.
func RightRecursiveElems(s *Store, id CstNodeId, visitIgnored func(CstNodeId), isList func(CstNode) bool) []CstNodeId {
	var out []CstNodeId
	cur := id
	for cur != Invalid {
		var x CstNodeId = Invalid
		next := Invalid
		for _, c := range s.Children(cur) {
			data, ok := s.NodeData(c)
			if !ok {
				continue
			}
			if data.IsTerminal() && data.Terminal.Kind.IsTrivia() {
				if visitIgnored != nil {
					visitIgnored(c)
				}
				continue
			}
			if isList(data) {
				next = c
			} else if x == Invalid {
				x = c
			}
		}
		if x != Invalid {
			out = append(out, x)
		}
		cur = next
	}
	return out
}
