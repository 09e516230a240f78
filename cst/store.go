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

// Package cst implements the concrete syntax tree: an arena of nodes
// keyed by stable ids, a dynamic-token table for synthesized terminals,
// and the typed handle layer built on top of it.
package cst

import "github.com/eure-lang/eure/token"

// CstNodeId is an opaque, stable identifier for a node in the tree
// arena. Ids index the arena from 0; Invalid never refers to a real
// node.
type CstNodeId int

// Invalid is the id returned in error paths; it never indexes a real node.
const Invalid CstNodeId = -1

// DynamicTokenId references an entry in the store's dynamic-token
// table, used when a terminal's text was synthesized rather than
// sliced from the original source (e.g. during incremental edits
// performed by an external collaborator).
type DynamicTokenId int

// Span is a byte range [Start, End) into the store's source text.
type Span struct {
	Start, End int
}

// TerminalData is either an Input span into the source or a reference
// into the dynamic-token table.
type TerminalData struct {
	Dynamic   bool
	Input     Span
	DynamicID DynamicTokenId
}

// TerminalNode is a leaf CST node.
type TerminalNode struct {
	Kind token.TerminalKind
	Data TerminalData
}

// NonTerminalNode is an interior CST node; Children are ordered
// left-to-right exactly as the grammar rule produced them, including
// any interspersed trivia (whitespace/comments).
type NonTerminalNode struct {
	Kind     token.NonTerminalKind
	Children []CstNodeId
}

// CstNode is the tagged union of the two node shapes. Exactly one of
// Terminal/NonTerminal is non-nil.
type CstNode struct {
	Terminal    *TerminalNode
	NonTerminal *NonTerminalNode
}

// IsTerminal reports whether n is a terminal node.
func (n CstNode) IsTerminal() bool { return n.Terminal != nil }

// Store is the CST arena. It is built by an external parser (or, in
// tests, directly via the Add* methods) and is immutable during
// visitation.
type Store struct {
	source  string
	nodes   []CstNode
	dynamic []string
}

// NewStore creates an empty arena over the given source text.
func NewStore(source string) *Store {
	return &Store{source: source}
}

// Source returns the backing source text.
func (s *Store) Source() string { return s.source }

// Text returns the slice of the source covered by span.
func (s *Store) Text(span Span) string {
	return s.source[span.Start:span.End]
}

// AddDynamicToken registers a synthesized token body and returns its id.
func (s *Store) AddDynamicToken(text string) DynamicTokenId {
	s.dynamic = append(s.dynamic, text)
	return DynamicTokenId(len(s.dynamic) - 1)
}

// DynamicTokenText resolves a dynamic token id to its stored text.
func (s *Store) DynamicTokenText(id DynamicTokenId) (string, bool) {
	if id < 0 || int(id) >= len(s.dynamic) {
		return "", false
	}
	return s.dynamic[id], true
}

func (s *Store) add(n CstNode) CstNodeId {
	s.nodes = append(s.nodes, n)
	return CstNodeId(len(s.nodes) - 1)
}

// AddTerminal appends a terminal node backed by a source span.
func (s *Store) AddTerminal(kind token.TerminalKind, span Span) CstNodeId {
	return s.add(CstNode{Terminal: &TerminalNode{Kind: kind, Data: TerminalData{Input: span}}})
}

// AddDynamicTerminal appends a terminal node backed by a dynamic token.
func (s *Store) AddDynamicTerminal(kind token.TerminalKind, dyn DynamicTokenId) CstNodeId {
	return s.add(CstNode{Terminal: &TerminalNode{Kind: kind, Data: TerminalData{Dynamic: true, DynamicID: dyn}}})
}

// AddNonTerminal appends a non-terminal node with the given children,
// already built (children must already exist in the arena; this is
// guaranteed by building bottom-up, as every parser does).
func (s *Store) AddNonTerminal(kind token.NonTerminalKind, children ...CstNodeId) CstNodeId {
	cs := make([]CstNodeId, len(children))
	copy(cs, children)
	return s.add(CstNode{NonTerminal: &NonTerminalNode{Kind: kind, Children: cs}})
}

// NodeData returns the node stored at id, or false if id is out of range.
func (s *Store) NodeData(id CstNodeId) (CstNode, bool) {
	if id < 0 || int(id) >= len(s.nodes) {
		return CstNode{}, false
	}
	return s.nodes[id], true
}

// Children returns the immediate children of id, or nil if id is a
// terminal or does not exist.
func (s *Store) Children(id CstNodeId) []CstNodeId {
	n, ok := s.NodeData(id)
	if !ok || n.NonTerminal == nil {
		return nil
	}
	return n.NonTerminal.Children
}

// HasNoChildren reports whether id refers to a terminal, or to a
// non-terminal with zero children (the representation used for an
// absent optional rule: "node present but childless").
func (s *Store) HasNoChildren(id CstNodeId) bool {
	n, ok := s.NodeData(id)
	if !ok {
		return true
	}
	if n.IsTerminal() {
		return true
	}
	return len(n.NonTerminal.Children) == 0
}

// DynamicToken returns the dynamic token text backing a terminal node,
// if any.
func (s *Store) DynamicToken(id CstNodeId) (string, bool) {
	n, ok := s.NodeData(id)
	if !ok || n.Terminal == nil || !n.Terminal.Data.Dynamic {
		return "", false
	}
	return s.DynamicTokenText(n.Terminal.Data.DynamicID)
}

// TerminalText returns the literal text of a terminal node, resolving
// either an input span or a dynamic token.
func (s *Store) TerminalText(id CstNodeId) (string, bool) {
	n, ok := s.NodeData(id)
	if !ok || n.Terminal == nil {
		return "", false
	}
	if n.Terminal.Data.Dynamic {
		return s.DynamicTokenText(n.Terminal.Data.DynamicID)
	}
	return s.Text(n.Terminal.Data.Input), true
}
