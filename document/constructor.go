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

import "fmt"

// PathSegmentKind discriminates PathSegment's variants.
type PathSegmentKind int

const (
	SegIdent PathSegmentKind = iota
	SegExtension
	SegArrayIndex // explicit index, e.g. "a[2]"
	SegArrayAppend
	SegTupleIndex
	SegValue // a key that is itself a value (string/number/bool/tuple literal key)
)

// PathSegment is one step of a key path being pushed onto a
// Constructor's cursor, mirroring the Keys/Key/KeyBase grammar.
type PathSegment struct {
	Kind  PathSegmentKind
	Ident string      // SegIdent, SegExtension
	Index int         // SegArrayIndex, SegTupleIndex
	Value ObjectKey   // SegValue
}

// InsertErrorKind discriminates the ways Constructor mutation can fail.
type InsertErrorKind int

const (
	_ InsertErrorKind = iota
	ErrAlreadyWritten // single-write invariant: a node was bound twice
	ErrTypeMismatch   // a path segment expects a container shape the node doesn't have
	ErrArrayIndexOutOfOrder // index beyond the next appendable slot; indices within range address the existing element
	ErrExtensionOnNonExtensionPath
	ErrEmptyCursor // Pop called with no open scope
)

// InsertError reports a Constructor mutation that would violate a
// document invariant.
type InsertError struct {
	Kind InsertErrorKind
	Path string
}

// Is reports whether target is an *InsertError of the same Kind,
// ignoring Path, so callers can match a specific failure mode via
// errors.Is/xerrors.Is without needing the exact path that produced
// it (e.g. errors.Is(err, &InsertError{Kind: ErrAlreadyWritten})).
func (e *InsertError) Is(target error) bool {
	other, ok := target.(*InsertError)
	return ok && other.Kind == e.Kind
}

func (e *InsertError) Error() string {
	switch e.Kind {
	case ErrAlreadyWritten:
		return fmt.Sprintf("document: node at %q already written (single-write violation)", e.Path)
	case ErrTypeMismatch:
		return fmt.Sprintf("document: type mismatch while binding %q", e.Path)
	case ErrArrayIndexOutOfOrder:
		return fmt.Sprintf("document: out-of-order array index at %q", e.Path)
	case ErrExtensionOnNonExtensionPath:
		return fmt.Sprintf("document: extension segment used outside an extension path at %q", e.Path)
	case ErrEmptyCursor:
		return "document: pop on empty cursor stack"
	default:
		return "document: insert error"
	}
}

// frame is one entry of the constructor's cursor stack: the node the
// cursor is currently positioned at, and the path segments (for error
// messages) that led there.
type frame struct {
	node NodeId
	path string
}

// Constructor is the sole mutation surface for a Document (spec
// §4.4). All writes go through PushPath/BindX/Pop so the single-write,
// append-unique, and extension-isolation invariants hold by
// construction; DocumentMut is an escape hatch for callers (such as
// schema authors) who have already established those invariants
// another way.
type Constructor struct {
	doc    *Document
	stack  []frame
}

// NewConstructor returns a Constructor positioned at doc's root.
func NewConstructor(doc *Document) *Constructor {
	return &Constructor{doc: doc, stack: []frame{{node: Root, path: ""}}}
}

// Document returns the constructor's underlying document.
func (c *Constructor) Document() *Document { return c.doc }

// DocumentMut returns the underlying document for direct mutation,
// bypassing invariant checks. Use only when the caller has already
// ensured those invariants hold (e.g. bulk-loading a schema document).
func (c *Constructor) DocumentMut() *Document { return c.doc }

func (c *Constructor) top() frame { return c.stack[len(c.stack)-1] }

// CurrentNode returns the node id the cursor currently sits at.
func (c *Constructor) CurrentNode() NodeId { return c.top().node }

// pushChildMapEntry allocates a fresh hole node as the given key of
// the map at the cursor, or re-enters the existing child if the key
// was already present — navigating to an existing key is not a rebind
// (spec §3.3/§4.4); only a second write at the same node violates the
// single-write invariant (writeCurrent, ErrAlreadyWritten).
func (c *Constructor) pushChildMapEntry(key ObjectKey, extension bool, name string) error {
	f := c.top()
	n, ok := c.doc.Node(f.node)
	if !ok {
		return &InsertError{Kind: ErrTypeMismatch, Path: f.path}
	}
	if n.Value.Kind == KindHole {
		n.Value = NodeValue{Kind: KindMap, Entries: map[string]NodeId{}, Keys: map[string]ObjectKey{}}
	}
	if n.Value.Kind != KindMap {
		return &InsertError{Kind: ErrTypeMismatch, Path: f.path}
	}
	canon := CanonicalKey(key)
	var childPath string
	if extension {
		childPath = f.path + "$" + name
		if existing, ok := n.Extensions[canon]; ok {
			c.doc.nodes[f.node] = n
			c.stack = append(c.stack, frame{node: existing, path: childPath})
			return nil
		}
	} else {
		childPath = f.path + "." + name
		if existing, ok := n.Entries[canon]; ok {
			c.doc.nodes[f.node] = n
			c.stack = append(c.stack, frame{node: existing, path: childPath})
			return nil
		}
	}
	id := c.doc.alloc(Node{Value: NodeValue{Kind: KindHole}})
	if extension {
		if n.Extensions == nil {
			n.Extensions = map[string]NodeId{}
		}
		n.Extensions[canon] = id
	} else {
		n.Entries[canon] = id
		n.Keys[canon] = key
	}
	c.doc.nodes[f.node] = n
	c.stack = append(c.stack, frame{node: id, path: childPath})
	return nil
}

// PushPath descends the cursor through a chain of map-entry segments,
// creating hole nodes as needed, without marking anything written.
// Array/tuple index segments descend into (and, for append, extend)
// an array or tuple container at the current position.
func (c *Constructor) PushPath(segs []PathSegment) error {
	for _, seg := range segs {
		switch seg.Kind {
		case SegIdent:
			if err := c.pushChildMapEntry(ObjectKey{Kind: KeyString, String: seg.Ident}, false, seg.Ident); err != nil {
				return err
			}
		case SegValue:
			if err := c.pushChildMapEntry(seg.Value, false, CanonicalKey(seg.Value)); err != nil {
				return err
			}
		case SegExtension:
			if err := c.pushChildMapEntry(ObjectKey{Kind: KeyString, String: "$" + seg.Ident}, true, seg.Ident); err != nil {
				return err
			}
		case SegArrayAppend:
			if err := c.pushArrayElem(-1); err != nil {
				return err
			}
		case SegArrayIndex:
			if err := c.pushArrayElem(seg.Index); err != nil {
				return err
			}
		case SegTupleIndex:
			if err := c.pushTupleElem(seg.Index); err != nil {
				return err
			}
		default:
			return &InsertError{Kind: ErrTypeMismatch, Path: c.top().path}
		}
	}
	return nil
}

// pushArrayElem descends into element index of the array at the cursor,
// coercing a hole into an empty array first. index == -1 means append:
// it always lands on a new element one past the end. A non-negative
// index within range addresses the existing element there; an index
// past the end is a gap and fails with ErrArrayIndexOutOfOrder.
func (c *Constructor) pushArrayElem(index int) error {
	f := c.top()
	n, ok := c.doc.Node(f.node)
	if !ok {
		return &InsertError{Kind: ErrTypeMismatch, Path: f.path}
	}
	if n.Value.Kind == KindHole {
		n.Value = NodeValue{Kind: KindArray}
	}
	if n.Value.Kind != KindArray {
		return &InsertError{Kind: ErrTypeMismatch, Path: f.path}
	}
	if index == -1 {
		index = len(n.Value.Elems)
	} else if index < len(n.Value.Elems) {
		c.stack = append(c.stack, frame{node: n.Value.Elems[index], path: fmt.Sprintf("%s[%d]", f.path, index)})
		return nil
	} else if index != len(n.Value.Elems) {
		return &InsertError{Kind: ErrArrayIndexOutOfOrder, Path: f.path}
	}
	id := c.doc.alloc(Node{Value: NodeValue{Kind: KindHole}})
	n.Value.Elems = append(n.Value.Elems, id)
	c.doc.nodes[f.node] = n
	c.stack = append(c.stack, frame{node: id, path: fmt.Sprintf("%s[%d]", f.path, index)})
	return nil
}

// pushTupleElem descends into element index of the tuple at the cursor,
// the same addressing rule as pushArrayElem but with no append form:
// every tuple element arrives with an explicit index.
func (c *Constructor) pushTupleElem(index int) error {
	f := c.top()
	n, ok := c.doc.Node(f.node)
	if !ok {
		return &InsertError{Kind: ErrTypeMismatch, Path: f.path}
	}
	if n.Value.Kind == KindHole {
		n.Value = NodeValue{Kind: KindTuple}
	}
	if n.Value.Kind != KindTuple {
		return &InsertError{Kind: ErrTypeMismatch, Path: f.path}
	}
	if index < len(n.Value.Elems) {
		c.stack = append(c.stack, frame{node: n.Value.Elems[index], path: fmt.Sprintf("%s#%d", f.path, index)})
		return nil
	}
	if index != len(n.Value.Elems) {
		return &InsertError{Kind: ErrArrayIndexOutOfOrder, Path: f.path}
	}
	id := c.doc.alloc(Node{Value: NodeValue{Kind: KindHole}})
	n.Value.Elems = append(n.Value.Elems, id)
	c.doc.nodes[f.node] = n
	c.stack = append(c.stack, frame{node: id, path: fmt.Sprintf("%s#%d", f.path, index)})
	return nil
}

// PushBindingPath is PushPath specialized for a top-level Binding's
// Keys. It behaves exactly like PushPath: re-entering a path opened
// earlier is allowed, and only a second write at the final node fails
// (ErrAlreadyWritten).
func (c *Constructor) PushBindingPath(segs []PathSegment) error {
	return c.PushPath(segs)
}

func (c *Constructor) writeCurrent(v NodeValue) error {
	f := c.top()
	n, ok := c.doc.Node(f.node)
	if !ok {
		return &InsertError{Kind: ErrTypeMismatch, Path: f.path}
	}
	if n.written {
		return &InsertError{Kind: ErrAlreadyWritten, Path: f.path}
	}
	n.Value = v
	n.written = true
	c.doc.nodes[f.node] = n
	return nil
}

// BindPrimitive writes a primitive value at the cursor. Returns
// ErrAlreadyWritten if the node already holds a value (the single-write
// invariant).
func (c *Constructor) BindPrimitive(p PrimitiveValue) error {
	return c.writeCurrent(NodeValue{Kind: KindPrimitive, Primitive: p})
}

// BindEmptyMap writes an empty map at the cursor.
func (c *Constructor) BindEmptyMap() error {
	return c.writeCurrent(NodeValue{Kind: KindMap, Entries: map[string]NodeId{}, Keys: map[string]ObjectKey{}})
}

// BindEmptyArray writes an empty array at the cursor.
func (c *Constructor) BindEmptyArray() error {
	return c.writeCurrent(NodeValue{Kind: KindArray})
}

// BindEmptyTuple writes an empty tuple at the cursor.
func (c *Constructor) BindEmptyTuple() error {
	return c.writeCurrent(NodeValue{Kind: KindTuple})
}

// BindFrom copies another node's value into the cursor's node. Used
// when a value expression is itself fully constructed off to the side
// (e.g. an inline Object literal lowered independently) and then
// spliced into place.
func (c *Constructor) BindFrom(src NodeId) error {
	n, ok := c.doc.Node(src)
	if !ok {
		return &InsertError{Kind: ErrTypeMismatch, Path: c.top().path}
	}
	return c.writeCurrent(n.Value)
}

// Pop moves the cursor up one level, discarding the top frame. It does
// not require the popped node to have been written: object/section
// containers are legitimately left as holes until an inner binding
// fills them in (or they stay KindMap from eager creation above).
func (c *Constructor) Pop() error {
	if len(c.stack) <= 1 {
		return &InsertError{Kind: ErrEmptyCursor}
	}
	c.stack = c.stack[:len(c.stack)-1]
	return nil
}

// BeginScope pushes a checkpoint the cursor can be rewound to via
// EndScope, without otherwise touching the document. Bindings and
// sections use this (through Guard) to rewind the cursor to where it
// stood before their key path once their body has been lowered.
func (c *Constructor) BeginScope() int { return len(c.stack) }

// EndScope truncates the cursor stack back to a mark obtained from
// BeginScope.
func (c *Constructor) EndScope(mark int) error {
	if mark < 1 || mark > len(c.stack) {
		return &InsertError{Kind: ErrEmptyCursor}
	}
	c.stack = c.stack[:mark]
	return nil
}

// ScopeGuard restores the cursor to a BeginScope mark when closed,
// even on an early return, the way a defer'd cleanup would in code
// that cannot itself return an error inline.
type ScopeGuard struct {
	c    *Constructor
	mark int
}

// Guard begins a scope and returns a guard whose Close rewinds it.
func (c *Constructor) Guard() ScopeGuard {
	return ScopeGuard{c: c, mark: c.BeginScope()}
}

// Close rewinds the constructor's cursor to the guard's mark.
func (g ScopeGuard) Close() error { return g.c.EndScope(g.mark) }
