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

// CstVisitor is the structural dispatcher over a Store: a Visit* hook
// for each major non-terminal, each defaulting to a plain pre-order
// recurse over the node's children (trivia included, delivered to
// VisitTerminal), plus a Terminal hook; non-terminals without a hook
// of their own are recursed into the same way. Embedding
// DefaultCstVisitor and overriding only the hooks a caller cares about
// is the expected usage, mirroring the teacher's AST-walker pattern.
type CstVisitor interface {
	VisitEure(s *Store, h EureHandle) error
	VisitBinding(s *Store, h BindingHandle) error
	VisitValueBinding(s *Store, h ValueBindingHandle) error
	VisitSectionBinding(s *Store, h SectionBindingHandle) error
	VisitTextBinding(s *Store, h TextBindingHandle) error
	VisitSection(s *Store, h SectionHandle) error
	VisitKeys(s *Store, h KeysHandle) error
	VisitKey(s *Store, h KeyHandle) error
	VisitValue(s *Store, h ValueHandle) error
	VisitObject(s *Store, h ObjectHandle) error
	VisitObjectEntry(s *Store, h ObjectEntryHandle) error
	VisitArray(s *Store, h ArrayHandle) error
	VisitTuple(s *Store, h TupleHandle) error
	VisitStrings(s *Store, h StringsHandle) error
	VisitPath(s *Store, h PathHandle) error
	VisitInlineCode(s *Store, h InlineCodeHandle) error
	VisitCodeBlock(s *Store, h CodeBlockHandle) error
	VisitTerminal(s *Store, id CstNodeId) error

	// RecoverError is consulted whenever a handle constructor or a
	// nested Visit* call returns a *ConstructError. Returning nil tells
	// the dispatcher to swallow the error and continue at the sibling
	// following the malformed node; returning the error (or a wrapped
	// one) propagates it to the caller. DefaultCstVisitor swallows
	// every ConstructError; embed it and override RecoverError to
	// propagate instead.
	RecoverError(s *Store, parent CstNodeId, err *ConstructError) error
}

// DefaultCstVisitor implements CstVisitor with pre-order, full-recurse
// behavior; its RecoverError swallows construction errors so the walk
// continues. Embed it and override selectively.
type DefaultCstVisitor struct {
	// self is the visitor passed to Walk, so the default hooks dispatch
	// children back through the embedding visitor's overrides.
	self CstVisitor
}

func (d *DefaultCstVisitor) bindSelf(self CstVisitor) { d.self = self }

// RecoverError swallows every ConstructError; a malformed node's
// siblings are still visited.
func (DefaultCstVisitor) RecoverError(*Store, CstNodeId, *ConstructError) error { return nil }

func (v DefaultCstVisitor) dispatchChild(s *Store, self CstVisitor, id CstNodeId) error {
	data, ok := s.NodeData(id)
	if !ok {
		return &ConstructError{Kind: NodeIdNotFound, Node: id}
	}
	if data.IsTerminal() {
		return self.VisitTerminal(s, id)
	}
	switch data.NonTerminal.Kind {
	case token.NTEure:
		h, err := NewEureHandle(s, id)
		if err != nil {
			return err
		}
		return self.VisitEure(s, h)
	case token.NTBinding:
		h, err := NewBindingHandle(s, id)
		if err != nil {
			return err
		}
		return self.VisitBinding(s, h)
	case token.NTValueBinding:
		h, err := NewValueBindingHandle(s, id)
		if err != nil {
			return err
		}
		return self.VisitValueBinding(s, h)
	case token.NTSectionBinding:
		h, err := NewSectionBindingHandle(s, id)
		if err != nil {
			return err
		}
		return self.VisitSectionBinding(s, h)
	case token.NTTextBinding:
		h, err := NewTextBindingHandle(s, id)
		if err != nil {
			return err
		}
		return self.VisitTextBinding(s, h)
	case token.NTSection:
		h, err := NewSectionHandle(s, id)
		if err != nil {
			return err
		}
		return self.VisitSection(s, h)
	case token.NTKeys:
		h, err := NewKeysHandle(s, id)
		if err != nil {
			return err
		}
		return self.VisitKeys(s, h)
	case token.NTKey:
		h, err := NewKeyHandle(s, id)
		if err != nil {
			return err
		}
		return self.VisitKey(s, h)
	case token.NTValue:
		h, err := NewValueHandle(s, id)
		if err != nil {
			return err
		}
		return self.VisitValue(s, h)
	case token.NTObject:
		h, err := NewObjectHandle(s, id)
		if err != nil {
			return err
		}
		return self.VisitObject(s, h)
	case token.NTObjectEntry:
		h, err := NewObjectEntryHandle(s, id)
		if err != nil {
			return err
		}
		return self.VisitObjectEntry(s, h)
	case token.NTArray:
		h, err := NewArrayHandle(s, id)
		if err != nil {
			return err
		}
		return self.VisitArray(s, h)
	case token.NTTuple:
		h, err := NewTupleHandle(s, id)
		if err != nil {
			return err
		}
		return self.VisitTuple(s, h)
	case token.NTStrings:
		h, err := NewStringsHandle(s, id)
		if err != nil {
			return err
		}
		return self.VisitStrings(s, h)
	case token.NTPath:
		h, err := NewPathHandle(s, id)
		if err != nil {
			return err
		}
		return self.VisitPath(s, h)
	case token.NTInlineCode:
		h, err := NewInlineCodeHandle(s, id)
		if err != nil {
			return err
		}
		return self.VisitInlineCode(s, h)
	case token.NTCodeBlock:
		h, err := NewCodeBlockHandle(s, id)
		if err != nil {
			return err
		}
		return self.VisitCodeBlock(s, h)
	default:
		return v.recurseChildren(s, self, id)
	}
}

func (v DefaultCstVisitor) visitChildOf(s *Store, self CstVisitor, parent CstNodeId, id CstNodeId) error {
	if err := v.dispatchChild(s, self, id); err != nil {
		if ce, ok := err.(*ConstructError); ok {
			return self.RecoverError(s, parent, ce)
		}
		return err
	}
	return nil
}

func (v DefaultCstVisitor) recurseChildren(s *Store, self CstVisitor, id CstNodeId) error {
	if v.self != nil {
		self = v.self
	}
	for _, c := range s.Children(id) {
		if err := v.visitChildOf(s, self, id, c); err != nil {
			return err
		}
	}
	return nil
}

func (v DefaultCstVisitor) VisitEure(s *Store, h EureHandle) error { return v.recurseChildren(s, v, h.id) }
func (v DefaultCstVisitor) VisitBinding(s *Store, h BindingHandle) error {
	return v.recurseChildren(s, v, h.id)
}
func (v DefaultCstVisitor) VisitValueBinding(s *Store, h ValueBindingHandle) error {
	return v.recurseChildren(s, v, h.id)
}
func (v DefaultCstVisitor) VisitSectionBinding(s *Store, h SectionBindingHandle) error {
	return v.recurseChildren(s, v, h.id)
}
func (v DefaultCstVisitor) VisitTextBinding(s *Store, h TextBindingHandle) error {
	return v.recurseChildren(s, v, h.id)
}
func (v DefaultCstVisitor) VisitSection(s *Store, h SectionHandle) error {
	return v.recurseChildren(s, v, h.id)
}
func (v DefaultCstVisitor) VisitKeys(s *Store, h KeysHandle) error { return v.recurseChildren(s, v, h.id) }
func (v DefaultCstVisitor) VisitKey(s *Store, h KeyHandle) error   { return v.recurseChildren(s, v, h.id) }
func (v DefaultCstVisitor) VisitValue(s *Store, h ValueHandle) error {
	return v.recurseChildren(s, v, h.id)
}
func (v DefaultCstVisitor) VisitObject(s *Store, h ObjectHandle) error {
	return v.recurseChildren(s, v, h.id)
}
func (v DefaultCstVisitor) VisitObjectEntry(s *Store, h ObjectEntryHandle) error {
	return v.recurseChildren(s, v, h.id)
}
func (v DefaultCstVisitor) VisitArray(s *Store, h ArrayHandle) error {
	return v.recurseChildren(s, v, h.id)
}
func (v DefaultCstVisitor) VisitTuple(s *Store, h TupleHandle) error {
	return v.recurseChildren(s, v, h.id)
}
func (v DefaultCstVisitor) VisitStrings(s *Store, h StringsHandle) error {
	return v.recurseChildren(s, v, h.id)
}
func (v DefaultCstVisitor) VisitPath(s *Store, h PathHandle) error { return v.recurseChildren(s, v, h.id) }
func (v DefaultCstVisitor) VisitInlineCode(s *Store, h InlineCodeHandle) error {
	return v.recurseChildren(s, v, h.id)
}
func (v DefaultCstVisitor) VisitCodeBlock(s *Store, h CodeBlockHandle) error {
	return v.recurseChildren(s, v, h.id)
}
func (v DefaultCstVisitor) VisitTerminal(*Store, CstNodeId) error { return nil }

// Walk runs self (a CstVisitor, typically embedding DefaultCstVisitor
// with overrides) over root in pre-order. When self is a pointer to a
// struct embedding DefaultCstVisitor, Walk records it there first.
func Walk(s *Store, self CstVisitor, root CstNodeId) error {
	if b, ok := self.(interface{ bindSelf(CstVisitor) }); ok {
		b.bindSelf(self)
	}
	var v DefaultCstVisitor
	return v.visitChildOf(s, self, Invalid, root)
}

// NodeVisitor is the untyped counterpart to CstVisitor: it walks the
// raw arena without constructing any typed view, used by tooling that
// only needs spans (formatters, offset mapping, debug dumps).
type NodeVisitor interface {
	VisitNode(s *Store, id CstNodeId, data CstNode) error
}

// NodeVisitorFunc adapts a plain function to NodeVisitor.
type NodeVisitorFunc func(s *Store, id CstNodeId, data CstNode) error

func (f NodeVisitorFunc) VisitNode(s *Store, id CstNodeId, data CstNode) error { return f(s, id, data) }

// WalkNodes runs v over every node reachable from root, pre-order,
// including trivia and without grammar-shape validation.
func WalkNodes(s *Store, v NodeVisitor, root CstNodeId) error {
	data, ok := s.NodeData(root)
	if !ok {
		return &ConstructError{Kind: NodeIdNotFound, Node: root}
	}
	if err := v.VisitNode(s, root, data); err != nil {
		return err
	}
	if data.NonTerminal == nil {
		return nil
	}
	for _, c := range data.NonTerminal.Children {
		if err := WalkNodes(s, v, c); err != nil {
			return err
		}
	}
	return nil
}
