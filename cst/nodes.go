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

// This file holds the typed handle layer: one Handle/View pair per
// grammar non-terminal from spec.md §6.1. Concatenation rules become
// product Views; alternation rules become sum Views tagged by a Kind
// field; optional rules are represented by OptionalSingle; recursive
// list rules flatten via RightRecursiveElems. Views borrow the tree —
// they hold only ids and are cheap to recompute, never cached.
package cst

import "github.com/eure-lang/eure/token"

func newHandle(s *Store, id CstNodeId, kind token.NonTerminalKind) (CstNodeId, error) {
	data, ok := s.NodeData(id)
	if !ok {
		return Invalid, &ConstructError{Kind: NodeIdNotFound, Node: id}
	}
	if data.NonTerminal == nil || data.NonTerminal.Kind != kind {
		return Invalid, &ConstructError{Kind: UnexpectedNodeData, Node: id, Data: data}
	}
	return id, nil
}

// ---- Eure ----

type EureHandle struct{ id CstNodeId }

func NewEureHandle(s *Store, id CstNodeId) (EureHandle, error) {
	id, err := newHandle(s, id, token.NTEure)
	return EureHandle{id}, err
}

func (h EureHandle) NodeId() CstNodeId           { return h.id }
func (h EureHandle) Kind() token.NonTerminalKind { return token.NTEure }

// EureView is the top-level document body: an optional leading value
// binding, then bindings, then sections, in that grammar order.
type EureView struct {
	Value    *ValueBindingHandle
	Bindings []BindingHandle
	Sections []SectionHandle
}

func (h EureHandle) View(s *Store, visitIgnored func(CstNodeId)) (EureView, error) {
	var v EureView
	seenBinding, seenSection := false, false
	for _, c := range s.Children(h.id) {
		data, ok := s.NodeData(c)
		if !ok {
			return v, &ConstructError{Kind: NodeIdNotFound, Parent: h.id, Node: c}
		}
		if data.IsTerminal() && data.Terminal.Kind.IsTrivia() {
			if visitIgnored != nil {
				visitIgnored(c)
			}
			continue
		}
		if data.NonTerminal == nil {
			return v, &ConstructError{Kind: UnexpectedNodeData, Parent: h.id, Node: c, Data: data}
		}
		switch data.NonTerminal.Kind {
		case token.NTValueBinding:
			if seenBinding || seenSection || v.Value != nil {
				return v, &ConstructError{Kind: UnexpectedExtraNode, Parent: h.id, Node: c, Data: data}
			}
			vb, err := NewValueBindingHandle(s, c)
			if err != nil {
				return v, err
			}
			v.Value = &vb
		case token.NTBinding:
			if seenSection {
				return v, &ConstructError{Kind: UnexpectedExtraNode, Parent: h.id, Node: c, Data: data}
			}
			seenBinding = true
			bh, err := NewBindingHandle(s, c)
			if err != nil {
				return v, err
			}
			v.Bindings = append(v.Bindings, bh)
		case token.NTSection:
			seenSection = true
			sh, err := NewSectionHandle(s, c)
			if err != nil {
				return v, err
			}
			v.Sections = append(v.Sections, sh)
		default:
			return v, &ConstructError{Kind: UnexpectedNodeData, Parent: h.id, Node: c, Data: data}
		}
	}
	return v, nil
}

// ---- Binding ----

type BindingHandle struct{ id CstNodeId }

func NewBindingHandle(s *Store, id CstNodeId) (BindingHandle, error) {
	id, err := newHandle(s, id, token.NTBinding)
	return BindingHandle{id}, err
}

func (h BindingHandle) NodeId() CstNodeId { return h.id }

type BindingRhsKind int

const (
	RhsValue BindingRhsKind = iota
	RhsSection
	RhsText
)

type BindingView struct {
	Keys       KeysHandle
	RhsKind    BindingRhsKind
	ValueRhs   *ValueBindingHandle
	SectionRhs *SectionBindingHandle
	TextRhs    *TextBindingHandle
}

func (h BindingHandle) View(s *Store, visitIgnored func(CstNodeId)) (BindingView, error) {
	var v BindingView
	var keysID, rhsID CstNodeId = Invalid, Invalid
	for _, c := range s.Children(h.id) {
		data, ok := s.NodeData(c)
		if !ok {
			return v, &ConstructError{Kind: NodeIdNotFound, Parent: h.id, Node: c}
		}
		if data.IsTerminal() && data.Terminal.Kind.IsTrivia() {
			if visitIgnored != nil {
				visitIgnored(c)
			}
			continue
		}
		if keysID == Invalid {
			keysID = c
		} else if rhsID == Invalid {
			rhsID = c
		} else {
			return v, &ConstructError{Kind: UnexpectedExtraNode, Parent: h.id, Node: c, Data: data}
		}
	}
	if keysID == Invalid || rhsID == Invalid {
		return v, &ConstructError{Kind: UnexpectedEndOfChildren, Parent: h.id}
	}
	keys, err := NewKeysHandle(s, keysID)
	if err != nil {
		return v, err
	}
	v.Keys = keys
	data, _ := s.NodeData(rhsID)
	if data.NonTerminal == nil {
		return v, &ConstructError{Kind: UnexpectedNodeData, Parent: h.id, Node: rhsID, Data: data}
	}
	switch data.NonTerminal.Kind {
	case token.NTValueBinding:
		v.RhsKind = RhsValue
		vb, err := NewValueBindingHandle(s, rhsID)
		if err != nil {
			return v, err
		}
		v.ValueRhs = &vb
	case token.NTSectionBinding:
		v.RhsKind = RhsSection
		sb, err := NewSectionBindingHandle(s, rhsID)
		if err != nil {
			return v, err
		}
		v.SectionRhs = &sb
	case token.NTTextBinding:
		v.RhsKind = RhsText
		tb, err := NewTextBindingHandle(s, rhsID)
		if err != nil {
			return v, err
		}
		v.TextRhs = &tb
	default:
		return v, &ConstructError{Kind: UnexpectedNodeData, Parent: h.id, Node: rhsID, Data: data}
	}
	return v, nil
}

// ---- ValueBinding: "=" Value ----

type ValueBindingHandle struct{ id CstNodeId }

func NewValueBindingHandle(s *Store, id CstNodeId) (ValueBindingHandle, error) {
	id, err := newHandle(s, id, token.NTValueBinding)
	return ValueBindingHandle{id}, err
}

func (h ValueBindingHandle) NodeId() CstNodeId { return h.id }

type ValueBindingView struct {
	Value ValueHandle
}

func (h ValueBindingHandle) View(s *Store, visitIgnored func(CstNodeId)) (ValueBindingView, error) {
	return CollectNodes(s, h.id, []Expected{
		ExpectTerminal(token.Eq),
		ExpectNonTerminal(token.NTValue),
	}, visitIgnored, func(ids []CstNodeId) (ValueBindingView, error) {
		vh, err := NewValueHandle(s, ids[1])
		return ValueBindingView{Value: vh}, err
	})
}

// ---- SectionBinding: "{" Eure "}" ----

type SectionBindingHandle struct{ id CstNodeId }

func NewSectionBindingHandle(s *Store, id CstNodeId) (SectionBindingHandle, error) {
	id, err := newHandle(s, id, token.NTSectionBinding)
	return SectionBindingHandle{id}, err
}

func (h SectionBindingHandle) NodeId() CstNodeId { return h.id }

type SectionBindingView struct{ Body EureHandle }

func (h SectionBindingHandle) View(s *Store, visitIgnored func(CstNodeId)) (SectionBindingView, error) {
	return CollectNodes(s, h.id, []Expected{
		ExpectTerminal(token.LBrace),
		ExpectNonTerminal(token.NTEure),
		ExpectTerminal(token.RBrace),
	}, visitIgnored, func(ids []CstNodeId) (SectionBindingView, error) {
		eh, err := NewEureHandle(s, ids[1])
		return SectionBindingView{Body: eh}, err
	})
}

// ---- TextBinding: ":" content-to-end-of-line ----

type TextBindingHandle struct{ id CstNodeId }

func NewTextBindingHandle(s *Store, id CstNodeId) (TextBindingHandle, error) {
	id, err := newHandle(s, id, token.NTTextBinding)
	return TextBindingHandle{id}, err
}

func (h TextBindingHandle) NodeId() CstNodeId { return h.id }

type TextBindingView struct{ Content CstNodeId }

func (h TextBindingHandle) View(s *Store, visitIgnored func(CstNodeId)) (TextBindingView, error) {
	return CollectNodes(s, h.id, []Expected{
		ExpectTerminal(token.TextStart),
		ExpectTerminal(token.StrContent),
	}, visitIgnored, func(ids []CstNodeId) (TextBindingView, error) {
		return TextBindingView{Content: ids[1]}, nil
	})
}

// ---- Section: "@" Keys SectionBody ----

type SectionHandle struct{ id CstNodeId }

func NewSectionHandle(s *Store, id CstNodeId) (SectionHandle, error) {
	id, err := newHandle(s, id, token.NTSection)
	return SectionHandle{id}, err
}

func (h SectionHandle) NodeId() CstNodeId { return h.id }

type SectionBodyKind int

const (
	SectionItems SectionBodyKind = iota
	SectionBlock
)

type SectionView struct {
	Keys     KeysHandle
	BodyKind SectionBodyKind
	Items    *SectionBodyItemsHandle
	Block    *SectionBodyBlockHandle
}

func (h SectionHandle) View(s *Store, visitIgnored func(CstNodeId)) (SectionView, error) {
	var v SectionView
	var keysID, bodyID CstNodeId = Invalid, Invalid
	sawAt := false
	for _, c := range s.Children(h.id) {
		data, ok := s.NodeData(c)
		if !ok {
			return v, &ConstructError{Kind: NodeIdNotFound, Parent: h.id, Node: c}
		}
		if data.IsTerminal() && data.Terminal.Kind.IsTrivia() {
			if visitIgnored != nil {
				visitIgnored(c)
			}
			continue
		}
		if !sawAt && data.IsTerminal() && data.Terminal.Kind == token.At {
			sawAt = true
			continue
		}
		if keysID == Invalid {
			keysID = c
		} else if bodyID == Invalid {
			bodyID = c
		} else {
			return v, &ConstructError{Kind: UnexpectedExtraNode, Parent: h.id, Node: c, Data: data}
		}
	}
	if !sawAt || keysID == Invalid || bodyID == Invalid {
		return v, &ConstructError{Kind: UnexpectedEndOfChildren, Parent: h.id}
	}
	keys, err := NewKeysHandle(s, keysID)
	if err != nil {
		return v, err
	}
	v.Keys = keys
	data, _ := s.NodeData(bodyID)
	if data.NonTerminal == nil {
		return v, &ConstructError{Kind: UnexpectedNodeData, Parent: h.id, Node: bodyID, Data: data}
	}
	switch data.NonTerminal.Kind {
	case token.NTSectionBodyItems:
		v.BodyKind = SectionItems
		ih, err := NewSectionBodyItemsHandle(s, bodyID)
		if err != nil {
			return v, err
		}
		v.Items = &ih
	case token.NTSectionBodyBlock:
		v.BodyKind = SectionBlock
		bh, err := NewSectionBodyBlockHandle(s, bodyID)
		if err != nil {
			return v, err
		}
		v.Block = &bh
	default:
		return v, &ConstructError{Kind: UnexpectedNodeData, Parent: h.id, Node: bodyID, Data: data}
	}
	return v, nil
}

// ---- SectionBody(Items): [ValueBinding] {Binding} ----

type SectionBodyItemsHandle struct{ id CstNodeId }

func NewSectionBodyItemsHandle(s *Store, id CstNodeId) (SectionBodyItemsHandle, error) {
	id, err := newHandle(s, id, token.NTSectionBodyItems)
	return SectionBodyItemsHandle{id}, err
}

func (h SectionBodyItemsHandle) NodeId() CstNodeId { return h.id }

type SectionBodyItemsView struct {
	Value    *ValueBindingHandle
	Bindings []BindingHandle
}

func (h SectionBodyItemsHandle) View(s *Store, visitIgnored func(CstNodeId)) (SectionBodyItemsView, error) {
	var v SectionBodyItemsView
	seenBinding := false
	for _, c := range s.Children(h.id) {
		data, ok := s.NodeData(c)
		if !ok {
			return v, &ConstructError{Kind: NodeIdNotFound, Parent: h.id, Node: c}
		}
		if data.IsTerminal() && data.Terminal.Kind.IsTrivia() {
			if visitIgnored != nil {
				visitIgnored(c)
			}
			continue
		}
		if data.NonTerminal == nil {
			return v, &ConstructError{Kind: UnexpectedNodeData, Parent: h.id, Node: c, Data: data}
		}
		switch data.NonTerminal.Kind {
		case token.NTValueBinding:
			if seenBinding || v.Value != nil {
				return v, &ConstructError{Kind: UnexpectedExtraNode, Parent: h.id, Node: c, Data: data}
			}
			vb, err := NewValueBindingHandle(s, c)
			if err != nil {
				return v, err
			}
			v.Value = &vb
		case token.NTBinding:
			seenBinding = true
			bh, err := NewBindingHandle(s, c)
			if err != nil {
				return v, err
			}
			v.Bindings = append(v.Bindings, bh)
		default:
			return v, &ConstructError{Kind: UnexpectedNodeData, Parent: h.id, Node: c, Data: data}
		}
	}
	return v, nil
}

// ---- SectionBody(Block): "{" Eure "}" ----

type SectionBodyBlockHandle struct{ id CstNodeId }

func NewSectionBodyBlockHandle(s *Store, id CstNodeId) (SectionBodyBlockHandle, error) {
	id, err := newHandle(s, id, token.NTSectionBodyBlock)
	return SectionBodyBlockHandle{id}, err
}

func (h SectionBodyBlockHandle) NodeId() CstNodeId { return h.id }

type SectionBodyBlockView struct{ Body EureHandle }

func (h SectionBodyBlockHandle) View(s *Store, visitIgnored func(CstNodeId)) (SectionBodyBlockView, error) {
	return CollectNodes(s, h.id, []Expected{
		ExpectTerminal(token.LBrace),
		ExpectNonTerminal(token.NTEure),
		ExpectTerminal(token.RBrace),
	}, visitIgnored, func(ids []CstNodeId) (SectionBodyBlockView, error) {
		eh, err := NewEureHandle(s, ids[1])
		return SectionBodyBlockView{Body: eh}, err
	})
}

// ---- Keys: Key {"." Key} ----

type KeysHandle struct{ id CstNodeId }

func NewKeysHandle(s *Store, id CstNodeId) (KeysHandle, error) {
	id, err := newHandle(s, id, token.NTKeys)
	return KeysHandle{id}, err
}

func (h KeysHandle) NodeId() CstNodeId { return h.id }

type KeysView struct{ Keys []KeyHandle }

func (h KeysHandle) View(s *Store, visitIgnored func(CstNodeId)) (KeysView, error) {
	var v KeysView
	expectKey := true
	for _, c := range s.Children(h.id) {
		data, ok := s.NodeData(c)
		if !ok {
			return v, &ConstructError{Kind: NodeIdNotFound, Parent: h.id, Node: c}
		}
		if data.IsTerminal() && data.Terminal.Kind.IsTrivia() {
			if visitIgnored != nil {
				visitIgnored(c)
			}
			continue
		}
		if data.IsTerminal() && data.Terminal.Kind == token.Dot {
			if expectKey {
				return v, &ConstructError{Kind: UnexpectedNodeData, Parent: h.id, Node: c, Data: data}
			}
			expectKey = true
			continue
		}
		if !expectKey {
			return v, &ConstructError{Kind: UnexpectedExtraNode, Parent: h.id, Node: c, Data: data}
		}
		kh, err := NewKeyHandle(s, c)
		if err != nil {
			return v, err
		}
		v.Keys = append(v.Keys, kh)
		expectKey = false
	}
	if expectKey && len(v.Keys) > 0 {
		return v, &ConstructError{Kind: UnexpectedEndOfChildren, Parent: h.id}
	}
	return v, nil
}

// ---- Key: KeyBase [ArrayMarker] ----

type KeyHandle struct{ id CstNodeId }

func NewKeyHandle(s *Store, id CstNodeId) (KeyHandle, error) {
	id, err := newHandle(s, id, token.NTKey)
	return KeyHandle{id}, err
}

func (h KeyHandle) NodeId() CstNodeId { return h.id }

type KeyView struct {
	Base  KeyBaseHandle
	Array *ArrayMarkerHandle
}

func (h KeyHandle) View(s *Store, visitIgnored func(CstNodeId)) (KeyView, error) {
	var v KeyView
	var baseID, markerID CstNodeId = Invalid, Invalid
	for _, c := range s.Children(h.id) {
		data, ok := s.NodeData(c)
		if !ok {
			return v, &ConstructError{Kind: NodeIdNotFound, Parent: h.id, Node: c}
		}
		if data.IsTerminal() && data.Terminal.Kind.IsTrivia() {
			if visitIgnored != nil {
				visitIgnored(c)
			}
			continue
		}
		if baseID == Invalid {
			baseID = c
		} else if markerID == Invalid {
			markerID = c
		} else {
			return v, &ConstructError{Kind: UnexpectedExtraNode, Parent: h.id, Node: c, Data: data}
		}
	}
	if baseID == Invalid {
		return v, &ConstructError{Kind: UnexpectedEndOfChildren, Parent: h.id}
	}
	base, err := NewKeyBaseHandle(s, baseID)
	if err != nil {
		return v, err
	}
	v.Base = base
	if markerID != Invalid {
		mh, err := NewArrayMarkerHandle(s, markerID)
		if err != nil {
			return v, err
		}
		v.Array = &mh
	}
	return v, nil
}

// ---- ArrayMarker: "[" [Integer] "]" ----

type ArrayMarkerHandle struct{ id CstNodeId }

func NewArrayMarkerHandle(s *Store, id CstNodeId) (ArrayMarkerHandle, error) {
	id, err := newHandle(s, id, token.NTArrayMarker)
	return ArrayMarkerHandle{id}, err
}

func (h ArrayMarkerHandle) NodeId() CstNodeId { return h.id }

type ArrayMarkerView struct {
	Index    CstNodeId // Invalid if absent (append marker)
	HasIndex bool
}

func (h ArrayMarkerHandle) View(s *Store, visitIgnored func(CstNodeId)) (ArrayMarkerView, error) {
	var v ArrayMarkerView
	sawOpen, sawClose := false, false
	for _, c := range s.Children(h.id) {
		data, ok := s.NodeData(c)
		if !ok {
			return v, &ConstructError{Kind: NodeIdNotFound, Parent: h.id, Node: c}
		}
		if data.IsTerminal() && data.Terminal.Kind.IsTrivia() {
			if visitIgnored != nil {
				visitIgnored(c)
			}
			continue
		}
		switch {
		case data.IsTerminal() && data.Terminal.Kind == token.LBracket && !sawOpen:
			sawOpen = true
		case data.IsTerminal() && data.Terminal.Kind == token.RBracket:
			sawClose = true
		case data.IsTerminal() && data.Terminal.Kind == token.Integer && !v.HasIndex:
			v.Index = c
			v.HasIndex = true
		default:
			return v, &ConstructError{Kind: UnexpectedNodeData, Parent: h.id, Node: c, Data: data}
		}
	}
	if !sawOpen || !sawClose {
		return v, &ConstructError{Kind: UnexpectedEndOfChildren, Parent: h.id}
	}
	return v, nil
}

// ---- KeyBase: Ident | ExtensionNameSpace | Str | Integer | KeyTuple | TupleIndexKey ----

type KeyBaseHandle struct{ id CstNodeId }

func NewKeyBaseHandle(s *Store, id CstNodeId) (KeyBaseHandle, error) {
	id, err := newHandle(s, id, token.NTKeyBase)
	return KeyBaseHandle{id}, err
}

func (h KeyBaseHandle) NodeId() CstNodeId { return h.id }

type KeyBaseKind int

const (
	KeyBaseIdent KeyBaseKind = iota
	KeyBaseExtension
	KeyBaseString
	KeyBaseInteger
	KeyBaseTuple
	KeyBaseTupleIndex
)

type KeyBaseView struct {
	Kind      KeyBaseKind
	Terminal  CstNodeId // valid for Ident/String/Integer
	Extension *ExtensionNameSpaceHandle
	Tuple     *KeyTupleHandle
	TupleIdx  *TupleIndexKeyHandle
}

func (h KeyBaseHandle) View(s *Store, visitIgnored func(CstNodeId)) (KeyBaseView, error) {
	var v KeyBaseView
	child, ok := OptionalSingle(s, h.id, visitIgnored)
	if !ok {
		return v, &ConstructError{Kind: UnexpectedEndOfChildren, Parent: h.id}
	}
	data, ok := s.NodeData(child)
	if !ok {
		return v, &ConstructError{Kind: NodeIdNotFound, Parent: h.id, Node: child}
	}
	switch {
	case data.IsTerminal() && data.Terminal.Kind == token.Ident:
		v.Kind, v.Terminal = KeyBaseIdent, child
	case data.IsTerminal() && data.Terminal.Kind == token.Str:
		v.Kind, v.Terminal = KeyBaseString, child
	case data.IsTerminal() && data.Terminal.Kind == token.Integer:
		v.Kind, v.Terminal = KeyBaseInteger, child
	case data.NonTerminal != nil && data.NonTerminal.Kind == token.NTExtensionNameSpace:
		v.Kind = KeyBaseExtension
		eh, err := NewExtensionNameSpaceHandle(s, child)
		if err != nil {
			return v, err
		}
		v.Extension = &eh
	case data.NonTerminal != nil && data.NonTerminal.Kind == token.NTKeyTuple:
		v.Kind = KeyBaseTuple
		th, err := NewKeyTupleHandle(s, child)
		if err != nil {
			return v, err
		}
		v.Tuple = &th
	case data.NonTerminal != nil && data.NonTerminal.Kind == token.NTTupleIndexKey:
		v.Kind = KeyBaseTupleIndex
		th, err := NewTupleIndexKeyHandle(s, child)
		if err != nil {
			return v, err
		}
		v.TupleIdx = &th
	default:
		return v, &ConstructError{Kind: UnexpectedNodeData, Parent: h.id, Node: child, Data: data}
	}
	return v, nil
}

// ---- ExtensionNameSpace: "$" Ident ----

type ExtensionNameSpaceHandle struct{ id CstNodeId }

func NewExtensionNameSpaceHandle(s *Store, id CstNodeId) (ExtensionNameSpaceHandle, error) {
	id, err := newHandle(s, id, token.NTExtensionNameSpace)
	return ExtensionNameSpaceHandle{id}, err
}

func (h ExtensionNameSpaceHandle) NodeId() CstNodeId { return h.id }

type ExtensionNameSpaceView struct{ Ident CstNodeId }

func (h ExtensionNameSpaceHandle) View(s *Store, visitIgnored func(CstNodeId)) (ExtensionNameSpaceView, error) {
	return CollectNodes(s, h.id, []Expected{
		ExpectTerminal(token.Dollar),
		ExpectTerminal(token.Ident),
	}, visitIgnored, func(ids []CstNodeId) (ExtensionNameSpaceView, error) {
		return ExtensionNameSpaceView{Ident: ids[1]}, nil
	})
}

// ---- TupleIndexKey: "#" Integer ----

type TupleIndexKeyHandle struct{ id CstNodeId }

func NewTupleIndexKeyHandle(s *Store, id CstNodeId) (TupleIndexKeyHandle, error) {
	id, err := newHandle(s, id, token.NTTupleIndexKey)
	return TupleIndexKeyHandle{id}, err
}

func (h TupleIndexKeyHandle) NodeId() CstNodeId { return h.id }

type TupleIndexKeyView struct{ Index CstNodeId }

func (h TupleIndexKeyHandle) View(s *Store, visitIgnored func(CstNodeId)) (TupleIndexKeyView, error) {
	return CollectNodes(s, h.id, []Expected{
		ExpectTerminal(token.Hash),
		ExpectTerminal(token.Integer),
	}, visitIgnored, func(ids []CstNodeId) (TupleIndexKeyView, error) {
		return TupleIndexKeyView{Index: ids[1]}, nil
	})
}

// ---- KeyTuple: "(" KeyValue {"," KeyValue} ")" ----

type KeyTupleHandle struct{ id CstNodeId }

func NewKeyTupleHandle(s *Store, id CstNodeId) (KeyTupleHandle, error) {
	id, err := newHandle(s, id, token.NTKeyTuple)
	return KeyTupleHandle{id}, err
}

func (h KeyTupleHandle) NodeId() CstNodeId { return h.id }

type KeyTupleView struct{ Elems []KeyValueHandle }

func (h KeyTupleHandle) View(s *Store, visitIgnored func(CstNodeId)) (KeyTupleView, error) {
	var v KeyTupleView
	sawOpen, sawClose := false, false
	expectElem := true
	for _, c := range s.Children(h.id) {
		data, ok := s.NodeData(c)
		if !ok {
			return v, &ConstructError{Kind: NodeIdNotFound, Parent: h.id, Node: c}
		}
		if data.IsTerminal() && data.Terminal.Kind.IsTrivia() {
			if visitIgnored != nil {
				visitIgnored(c)
			}
			continue
		}
		switch {
		case data.IsTerminal() && data.Terminal.Kind == token.LParen && !sawOpen:
			sawOpen = true
		case data.IsTerminal() && data.Terminal.Kind == token.RParen:
			sawClose = true
		case data.IsTerminal() && data.Terminal.Kind == token.Comma:
			if expectElem {
				return v, &ConstructError{Kind: UnexpectedNodeData, Parent: h.id, Node: c, Data: data}
			}
			expectElem = true
		case data.NonTerminal != nil && data.NonTerminal.Kind == token.NTKeyValue:
			kv, err := NewKeyValueHandle(s, c)
			if err != nil {
				return v, err
			}
			v.Elems = append(v.Elems, kv)
			expectElem = false
		default:
			return v, &ConstructError{Kind: UnexpectedNodeData, Parent: h.id, Node: c, Data: data}
		}
	}
	if !sawOpen || !sawClose {
		return v, &ConstructError{Kind: UnexpectedEndOfChildren, Parent: h.id}
	}
	return v, nil
}

// ---- KeyValue: Str | Integer | Bool | KeyTuple ----

type KeyValueHandle struct{ id CstNodeId }

func NewKeyValueHandle(s *Store, id CstNodeId) (KeyValueHandle, error) {
	id, err := newHandle(s, id, token.NTKeyValue)
	return KeyValueHandle{id}, err
}

func (h KeyValueHandle) NodeId() CstNodeId { return h.id }

type KeyValueKind int

const (
	KeyValueString KeyValueKind = iota
	KeyValueInteger
	KeyValueBool
	KeyValueTuple
)

type KeyValueView struct {
	Kind     KeyValueKind
	Terminal CstNodeId
	Tuple    *KeyTupleHandle
}

func (h KeyValueHandle) View(s *Store, visitIgnored func(CstNodeId)) (KeyValueView, error) {
	var v KeyValueView
	child, ok := OptionalSingle(s, h.id, visitIgnored)
	if !ok {
		return v, &ConstructError{Kind: UnexpectedEndOfChildren, Parent: h.id}
	}
	data, ok := s.NodeData(child)
	if !ok {
		return v, &ConstructError{Kind: NodeIdNotFound, Parent: h.id, Node: child}
	}
	switch {
	case data.IsTerminal() && data.Terminal.Kind == token.Str:
		v.Kind, v.Terminal = KeyValueString, child
	case data.IsTerminal() && data.Terminal.Kind == token.Integer:
		v.Kind, v.Terminal = KeyValueInteger, child
	case data.IsTerminal() && (data.Terminal.Kind == token.True || data.Terminal.Kind == token.False):
		v.Kind, v.Terminal = KeyValueBool, child
	case data.NonTerminal != nil && data.NonTerminal.Kind == token.NTKeyTuple:
		v.Kind = KeyValueTuple
		th, err := NewKeyTupleHandle(s, child)
		if err != nil {
			return v, err
		}
		v.Tuple = &th
	default:
		return v, &ConstructError{Kind: UnexpectedNodeData, Parent: h.id, Node: child, Data: data}
	}
	return v, nil
}

// ---- Value: Object | Array | Tuple | Float | Integer | Boolean | Null | Strings | Hole | CodeBlock | InlineCode ----

type ValueHandle struct{ id CstNodeId }

func NewValueHandle(s *Store, id CstNodeId) (ValueHandle, error) {
	id, err := newHandle(s, id, token.NTValue)
	return ValueHandle{id}, err
}

func (h ValueHandle) NodeId() CstNodeId { return h.id }

type ValueKind int

const (
	ValueObject ValueKind = iota
	ValueArray
	ValueTuple
	ValueFloat
	ValueInteger
	ValueBool
	ValueNull
	ValueStrings
	ValueHole
	ValueCodeBlock
	ValueInlineCode
	ValuePath
)

type ValueView struct {
	Kind       ValueKind
	Terminal   CstNodeId
	Object     *ObjectHandle
	Array      *ArrayHandle
	Tuple      *TupleHandle
	Strings    *StringsHandle
	CodeBlock  *CodeBlockHandle
	InlineCode *InlineCodeHandle
	Path       *PathHandle
}

func (h ValueHandle) View(s *Store, visitIgnored func(CstNodeId)) (ValueView, error) {
	var v ValueView
	child, ok := OptionalSingle(s, h.id, visitIgnored)
	if !ok {
		return v, &ConstructError{Kind: UnexpectedEndOfChildren, Parent: h.id}
	}
	data, ok := s.NodeData(child)
	if !ok {
		return v, &ConstructError{Kind: NodeIdNotFound, Parent: h.id, Node: child}
	}
	if data.IsTerminal() {
		switch data.Terminal.Kind {
		case token.Float:
			v.Kind, v.Terminal = ValueFloat, child
		case token.Integer:
			v.Kind, v.Terminal = ValueInteger, child
		case token.True, token.False:
			v.Kind, v.Terminal = ValueBool, child
		case token.Null:
			v.Kind, v.Terminal = ValueNull, child
		case token.Hole:
			v.Kind, v.Terminal = ValueHole, child
		default:
			return v, &ConstructError{Kind: UnexpectedNodeData, Parent: h.id, Node: child, Data: data}
		}
		return v, nil
	}
	switch data.NonTerminal.Kind {
	case token.NTObject:
		v.Kind = ValueObject
		oh, err := NewObjectHandle(s, child)
		if err != nil {
			return v, err
		}
		v.Object = &oh
	case token.NTArray:
		v.Kind = ValueArray
		ah, err := NewArrayHandle(s, child)
		if err != nil {
			return v, err
		}
		v.Array = &ah
	case token.NTTuple:
		v.Kind = ValueTuple
		th, err := NewTupleHandle(s, child)
		if err != nil {
			return v, err
		}
		v.Tuple = &th
	case token.NTStrings:
		v.Kind = ValueStrings
		sh, err := NewStringsHandle(s, child)
		if err != nil {
			return v, err
		}
		v.Strings = &sh
	case token.NTCodeBlock:
		v.Kind = ValueCodeBlock
		cb, err := NewCodeBlockHandle(s, child)
		if err != nil {
			return v, err
		}
		v.CodeBlock = &cb
	case token.NTInlineCode:
		v.Kind = ValueInlineCode
		ic, err := NewInlineCodeHandle(s, child)
		if err != nil {
			return v, err
		}
		v.InlineCode = &ic
	case token.NTPath:
		v.Kind = ValuePath
		ph, err := NewPathHandle(s, child)
		if err != nil {
			return v, err
		}
		v.Path = &ph
	default:
		return v, &ConstructError{Kind: UnexpectedNodeData, Parent: h.id, Node: child, Data: data}
	}
	return v, nil
}

// ---- Object: "{" [ValueBinding] {ObjectEntry} "}" ----

type ObjectHandle struct{ id CstNodeId }

func NewObjectHandle(s *Store, id CstNodeId) (ObjectHandle, error) {
	id, err := newHandle(s, id, token.NTObject)
	return ObjectHandle{id}, err
}

func (h ObjectHandle) NodeId() CstNodeId { return h.id }

type ObjectView struct {
	Value   *ValueBindingHandle
	Entries []ObjectEntryHandle
}

func (h ObjectHandle) View(s *Store, visitIgnored func(CstNodeId)) (ObjectView, error) {
	var v ObjectView
	sawOpen, sawClose := false, false
	seenEntry := false
	for _, c := range s.Children(h.id) {
		data, ok := s.NodeData(c)
		if !ok {
			return v, &ConstructError{Kind: NodeIdNotFound, Parent: h.id, Node: c}
		}
		if data.IsTerminal() && data.Terminal.Kind.IsTrivia() {
			if visitIgnored != nil {
				visitIgnored(c)
			}
			continue
		}
		switch {
		case data.IsTerminal() && data.Terminal.Kind == token.LBrace && !sawOpen:
			sawOpen = true
		case data.IsTerminal() && data.Terminal.Kind == token.RBrace:
			sawClose = true
		case data.IsTerminal() && data.Terminal.Kind == token.Comma:
			// separator, carries no data beyond its span
		case data.NonTerminal != nil && data.NonTerminal.Kind == token.NTValueBinding:
			if seenEntry || v.Value != nil {
				return v, &ConstructError{Kind: UnexpectedExtraNode, Parent: h.id, Node: c, Data: data}
			}
			vb, err := NewValueBindingHandle(s, c)
			if err != nil {
				return v, err
			}
			v.Value = &vb
		case data.NonTerminal != nil && data.NonTerminal.Kind == token.NTObjectEntry:
			seenEntry = true
			oe, err := NewObjectEntryHandle(s, c)
			if err != nil {
				return v, err
			}
			v.Entries = append(v.Entries, oe)
		default:
			return v, &ConstructError{Kind: UnexpectedNodeData, Parent: h.id, Node: c, Data: data}
		}
	}
	if !sawOpen || !sawClose {
		return v, &ConstructError{Kind: UnexpectedEndOfChildren, Parent: h.id}
	}
	return v, nil
}

// ---- ObjectEntry: Keys "=" Value ----

type ObjectEntryHandle struct{ id CstNodeId }

func NewObjectEntryHandle(s *Store, id CstNodeId) (ObjectEntryHandle, error) {
	id, err := newHandle(s, id, token.NTObjectEntry)
	return ObjectEntryHandle{id}, err
}

func (h ObjectEntryHandle) NodeId() CstNodeId { return h.id }

type ObjectEntryView struct {
	Keys  KeysHandle
	Value ValueHandle
}

func (h ObjectEntryHandle) View(s *Store, visitIgnored func(CstNodeId)) (ObjectEntryView, error) {
	return CollectNodes(s, h.id, []Expected{
		ExpectNonTerminal(token.NTKeys),
		ExpectTerminal(token.Eq),
		ExpectNonTerminal(token.NTValue),
	}, visitIgnored, func(ids []CstNodeId) (ObjectEntryView, error) {
		kh, err := NewKeysHandle(s, ids[0])
		if err != nil {
			return ObjectEntryView{}, err
		}
		vh, err := NewValueHandle(s, ids[2])
		if err != nil {
			return ObjectEntryView{}, err
		}
		return ObjectEntryView{Keys: kh, Value: vh}, nil
	})
}

// ---- Array: "[" [ArrayElem] "]" ----

type ArrayHandle struct{ id CstNodeId }

func NewArrayHandle(s *Store, id CstNodeId) (ArrayHandle, error) {
	id, err := newHandle(s, id, token.NTArray)
	return ArrayHandle{id}, err
}

func (h ArrayHandle) NodeId() CstNodeId { return h.id }

type ArrayView struct{ Elems []ValueHandle }

func (h ArrayHandle) View(s *Store, visitIgnored func(CstNodeId)) (ArrayView, error) {
	var v ArrayView
	sawOpen, sawClose := false, false
	var headID CstNodeId = Invalid
	for _, c := range s.Children(h.id) {
		data, ok := s.NodeData(c)
		if !ok {
			return v, &ConstructError{Kind: NodeIdNotFound, Parent: h.id, Node: c}
		}
		if data.IsTerminal() && data.Terminal.Kind.IsTrivia() {
			if visitIgnored != nil {
				visitIgnored(c)
			}
			continue
		}
		switch {
		case data.IsTerminal() && data.Terminal.Kind == token.LBracket && !sawOpen:
			sawOpen = true
		case data.IsTerminal() && data.Terminal.Kind == token.RBracket:
			sawClose = true
		case data.NonTerminal != nil && data.NonTerminal.Kind == token.NTArrayElem && headID == Invalid:
			headID = c
		default:
			return v, &ConstructError{Kind: UnexpectedNodeData, Parent: h.id, Node: c, Data: data}
		}
	}
	if !sawOpen || !sawClose {
		return v, &ConstructError{Kind: UnexpectedEndOfChildren, Parent: h.id}
	}
	if headID == Invalid {
		return v, nil
	}
	elemIDs := RightRecursiveElems(s, headID, visitIgnored, func(n CstNode) bool {
		return n.NonTerminal != nil && n.NonTerminal.Kind == token.NTArrayElem
	})
	for _, eid := range elemIDs {
		vh, err := elemValue(s, eid, token.NTArrayElem, visitIgnored)
		if err != nil {
			return v, err
		}
		v.Elems = append(v.Elems, vh)
	}
	return v, nil
}

// elemValue extracts the Value child of an ArrayElem/TupleElem node
// (L ::= X L?, here X = Value), skipping the Comma separator and the
// optional recursive tail, both handled by RightRecursiveElems.
func elemValue(s *Store, id CstNodeId, kind token.NonTerminalKind, visitIgnored func(CstNodeId)) (ValueHandle, error) {
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
		if data.NonTerminal != nil && data.NonTerminal.Kind == token.NTValue {
			return NewValueHandle(s, c)
		}
	}
	return ValueHandle{}, &ConstructError{Kind: UnexpectedEndOfChildren, Parent: id}
}

// ---- Tuple: "(" [TupleElem] ")" ----

type TupleHandle struct{ id CstNodeId }

func NewTupleHandle(s *Store, id CstNodeId) (TupleHandle, error) {
	id, err := newHandle(s, id, token.NTTuple)
	return TupleHandle{id}, err
}

func (h TupleHandle) NodeId() CstNodeId { return h.id }

type TupleView struct{ Elems []ValueHandle }

func (h TupleHandle) View(s *Store, visitIgnored func(CstNodeId)) (TupleView, error) {
	var v TupleView
	sawOpen, sawClose := false, false
	var headID CstNodeId = Invalid
	for _, c := range s.Children(h.id) {
		data, ok := s.NodeData(c)
		if !ok {
			return v, &ConstructError{Kind: NodeIdNotFound, Parent: h.id, Node: c}
		}
		if data.IsTerminal() && data.Terminal.Kind.IsTrivia() {
			if visitIgnored != nil {
				visitIgnored(c)
			}
			continue
		}
		switch {
		case data.IsTerminal() && data.Terminal.Kind == token.LParen && !sawOpen:
			sawOpen = true
		case data.IsTerminal() && data.Terminal.Kind == token.RParen:
			sawClose = true
		case data.NonTerminal != nil && data.NonTerminal.Kind == token.NTTupleElem && headID == Invalid:
			headID = c
		default:
			return v, &ConstructError{Kind: UnexpectedNodeData, Parent: h.id, Node: c, Data: data}
		}
	}
	if !sawOpen || !sawClose {
		return v, &ConstructError{Kind: UnexpectedEndOfChildren, Parent: h.id}
	}
	if headID == Invalid {
		return v, nil
	}
	elemIDs := RightRecursiveElems(s, headID, visitIgnored, func(n CstNode) bool {
		return n.NonTerminal != nil && n.NonTerminal.Kind == token.NTTupleElem
	})
	for _, eid := range elemIDs {
		vh, err := elemValue(s, eid, token.NTTupleElem, visitIgnored)
		if err != nil {
			return v, err
		}
		v.Elems = append(v.Elems, vh)
	}
	return v, nil
}

// ---- Strings: Str {Continue Str} ----

type StringsHandle struct{ id CstNodeId }

func NewStringsHandle(s *Store, id CstNodeId) (StringsHandle, error) {
	id, err := newHandle(s, id, token.NTStrings)
	return StringsHandle{id}, err
}

func (h StringsHandle) NodeId() CstNodeId { return h.id }

type StringsView struct {
	Head CstNodeId
	Tail []CstNodeId // each is a Str terminal from a StringsTail continuation
}

func (h StringsHandle) View(s *Store, visitIgnored func(CstNodeId)) (StringsView, error) {
	var v StringsView
	var headID, tailID CstNodeId = Invalid, Invalid
	for _, c := range s.Children(h.id) {
		data, ok := s.NodeData(c)
		if !ok {
			return v, &ConstructError{Kind: NodeIdNotFound, Parent: h.id, Node: c}
		}
		if data.IsTerminal() && data.Terminal.Kind.IsTrivia() {
			if visitIgnored != nil {
				visitIgnored(c)
			}
			continue
		}
		if data.IsTerminal() && data.Terminal.Kind == token.Str && headID == Invalid {
			headID = c
		} else if data.NonTerminal != nil && data.NonTerminal.Kind == token.NTStringsTail && tailID == Invalid {
			tailID = c
		} else {
			return v, &ConstructError{Kind: UnexpectedNodeData, Parent: h.id, Node: c, Data: data}
		}
	}
	if headID == Invalid {
		return v, &ConstructError{Kind: UnexpectedEndOfChildren, Parent: h.id}
	}
	v.Head = headID
	cur := tailID
	for cur != Invalid {
		var strID, nextID CstNodeId = Invalid, Invalid
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
			switch {
			case data.IsTerminal() && data.Terminal.Kind == token.EscapeSeq:
				// the continuation escape itself; carries no value
			case data.IsTerminal() && data.Terminal.Kind == token.Str && strID == Invalid:
				strID = c
			case data.NonTerminal != nil && data.NonTerminal.Kind == token.NTStringsTail && nextID == Invalid:
				nextID = c
			default:
				return v, &ConstructError{Kind: UnexpectedNodeData, Parent: cur, Node: c, Data: data}
			}
		}
		if strID == Invalid {
			return v, &ConstructError{Kind: UnexpectedEndOfChildren, Parent: cur}
		}
		v.Tail = append(v.Tail, strID)
		cur = nextID
	}
	return v, nil
}

// ---- Path: "." Ident {"." Ident} ----

type PathHandle struct{ id CstNodeId }

func NewPathHandle(s *Store, id CstNodeId) (PathHandle, error) {
	id, err := newHandle(s, id, token.NTPath)
	return PathHandle{id}, err
}

func (h PathHandle) NodeId() CstNodeId { return h.id }

type PathView struct{ Idents []CstNodeId }

func (h PathHandle) View(s *Store, visitIgnored func(CstNodeId)) (PathView, error) {
	var v PathView
	expectDot := true
	for _, c := range s.Children(h.id) {
		data, ok := s.NodeData(c)
		if !ok {
			return v, &ConstructError{Kind: NodeIdNotFound, Parent: h.id, Node: c}
		}
		if data.IsTerminal() && data.Terminal.Kind.IsTrivia() {
			if visitIgnored != nil {
				visitIgnored(c)
			}
			continue
		}
		if expectDot {
			if !(data.IsTerminal() && data.Terminal.Kind == token.Dot) {
				return v, &ConstructError{Kind: UnexpectedNodeData, Parent: h.id, Node: c, Data: data}
			}
			expectDot = false
			continue
		}
		if !(data.IsTerminal() && data.Terminal.Kind == token.Ident) {
			return v, &ConstructError{Kind: UnexpectedNodeData, Parent: h.id, Node: c, Data: data}
		}
		v.Idents = append(v.Idents, c)
		expectDot = true
	}
	if len(v.Idents) == 0 {
		return v, &ConstructError{Kind: UnexpectedEndOfChildren, Parent: h.id}
	}
	return v, nil
}

// ---- InlineCode: inline-1 `content` | inline-2 `` content `` ----

type InlineCodeHandle struct{ id CstNodeId }

func NewInlineCodeHandle(s *Store, id CstNodeId) (InlineCodeHandle, error) {
	id, err := newHandle(s, id, token.NTInlineCode)
	return InlineCodeHandle{id}, err
}

func (h InlineCodeHandle) NodeId() CstNodeId { return h.id }

type InlineCodeVariant int

const (
	InlineCodeV1 InlineCodeVariant = iota
	InlineCodeV2
)

type InlineCodeView struct {
	Variant InlineCodeVariant
	Single  CstNodeId   // valid when Variant == InlineCodeV1
	Start   CstNodeId   // valid when Variant == InlineCodeV2
	Body    []CstNodeId // terminals between start and end, V2 only
	End     CstNodeId   // valid when Variant == InlineCodeV2
}

func (h InlineCodeHandle) View(s *Store, visitIgnored func(CstNodeId)) (InlineCodeView, error) {
	var v InlineCodeView
	children := s.Children(h.id)
	nonTrivia := make([]CstNodeId, 0, len(children))
	for _, c := range children {
		data, ok := s.NodeData(c)
		if !ok {
			return v, &ConstructError{Kind: NodeIdNotFound, Parent: h.id, Node: c}
		}
		if data.IsTerminal() && data.Terminal.Kind.IsTrivia() {
			if visitIgnored != nil {
				visitIgnored(c)
			}
			continue
		}
		nonTrivia = append(nonTrivia, c)
	}
	if len(nonTrivia) == 0 {
		return v, &ConstructError{Kind: UnexpectedEndOfChildren, Parent: h.id}
	}
	first, _ := s.NodeData(nonTrivia[0])
	if first.IsTerminal() && first.Terminal.Kind == token.InlineCode1 {
		if len(nonTrivia) != 1 {
			return v, &ConstructError{Kind: UnexpectedExtraNode, Parent: h.id, Node: nonTrivia[1]}
		}
		v.Variant = InlineCodeV1
		v.Single = nonTrivia[0]
		return v, nil
	}
	if !(first.IsTerminal() && first.Terminal.Kind == token.InlineCodeStart2) {
		return v, &ConstructError{Kind: UnexpectedNodeData, Parent: h.id, Node: nonTrivia[0], Data: first}
	}
	last := nonTrivia[len(nonTrivia)-1]
	lastData, _ := s.NodeData(last)
	if !(lastData.IsTerminal() && lastData.Terminal.Kind == token.InlineCodeEnd2) {
		return v, &ConstructError{Kind: UnexpectedEndOfChildren, Parent: h.id}
	}
	v.Variant = InlineCodeV2
	v.Start = nonTrivia[0]
	v.End = last
	v.Body = append(v.Body, nonTrivia[1:len(nonTrivia)-1]...)
	return v, nil
}

// ---- CodeBlock: fenced block, 3-6 backticks ----

type CodeBlockHandle struct{ id CstNodeId }

func NewCodeBlockHandle(s *Store, id CstNodeId) (CodeBlockHandle, error) {
	id, err := newHandle(s, id, token.NTCodeBlock)
	return CodeBlockHandle{id}, err
}

func (h CodeBlockHandle) NodeId() CstNodeId { return h.id }

// FenceWidth is the number of backticks used by the opening/closing fence.
type FenceWidth int

type CodeBlockView struct {
	Width FenceWidth
	Start CstNodeId
	Body  []CstNodeId
	End   CstNodeId
}

var blockStartKinds = map[token.TerminalKind]FenceWidth{
	token.CodeBlockStart3: 3,
	token.CodeBlockStart4: 4,
	token.CodeBlockStart5: 5,
	token.CodeBlockStart6: 6,
}

var blockEndKinds = map[token.TerminalKind]FenceWidth{
	token.CodeBlockEnd3: 3,
	token.CodeBlockEnd4: 4,
	token.CodeBlockEnd5: 5,
	token.CodeBlockEnd6: 6,
}

func (h CodeBlockHandle) View(s *Store, visitIgnored func(CstNodeId)) (CodeBlockView, error) {
	var v CodeBlockView
	children := s.Children(h.id)
	nonTrivia := make([]CstNodeId, 0, len(children))
	for _, c := range children {
		data, ok := s.NodeData(c)
		if !ok {
			return v, &ConstructError{Kind: NodeIdNotFound, Parent: h.id, Node: c}
		}
		if data.IsTerminal() && data.Terminal.Kind.IsTrivia() {
			if visitIgnored != nil {
				visitIgnored(c)
			}
			continue
		}
		nonTrivia = append(nonTrivia, c)
	}
	if len(nonTrivia) < 2 {
		return v, &ConstructError{Kind: UnexpectedEndOfChildren, Parent: h.id}
	}
	first, _ := s.NodeData(nonTrivia[0])
	width, ok := blockStartKinds[terminalKindOf(first)]
	if !ok {
		return v, &ConstructError{Kind: UnexpectedNodeData, Parent: h.id, Node: nonTrivia[0], Data: first}
	}
	last := nonTrivia[len(nonTrivia)-1]
	lastData, _ := s.NodeData(last)
	endWidth, ok := blockEndKinds[terminalKindOf(lastData)]
	if !ok || endWidth != width {
		return v, &ConstructError{Kind: UnexpectedEndOfChildren, Parent: h.id}
	}
	v.Width = width
	v.Start = nonTrivia[0]
	v.End = last
	v.Body = append(v.Body, nonTrivia[1:len(nonTrivia)-1]...)
	return v, nil
}

func terminalKindOf(n CstNode) token.TerminalKind {
	if n.Terminal == nil {
		return token.Invalid
	}
	return n.Terminal.Kind
}
