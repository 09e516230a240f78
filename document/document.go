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

// Package document implements EureDocument: the path-addressable value
// model a CST lowers into, its constructor (the sole mutation surface,
// enforcing the single-write and append-unique invariants), and the
// lossless source-layout side table used to re-emit values back into
// the original binding/section shape.
package document

import "github.com/cockroachdb/apd/v2"

// NodeId is a stable identifier into a Document's node arena.
type NodeId int

// Root is the id of the document's root node, always a Map.
const Root NodeId = 0

// Invalid never refers to a real node.
const Invalid NodeId = -1

// PrimitiveKind discriminates PrimitiveValue's variants.
type PrimitiveKind int

const (
	PrimNull PrimitiveKind = iota
	PrimBool
	PrimBigInt
	PrimFloat64
	PrimText
	PrimPath
	PrimCode
)

// Path is a document-level path value: a sequence of identifiers, as
// produced by a Path literal (".a.b.c").
type Path struct{ Idents []string }

// Code is a fenced or inline code literal: content plus the optional
// language tag that prefixed its opening fence.
type Code struct {
	Content  string
	Language string // empty if untagged
}

// PrimitiveValue is the closed set of leaf value shapes a document
// node can hold.
type PrimitiveValue struct {
	Kind  PrimitiveKind
	Bool  bool
	Int   apd.Decimal // valid when Kind == PrimBigInt
	Float apd.Decimal // valid when Kind == PrimFloat64
	Text  string      // valid when Kind == PrimText
	Path  Path        // valid when Kind == PrimPath
	Code  Code        // valid when Kind == PrimCode
}

// ObjectKeyKind discriminates ObjectKey's variants.
type ObjectKeyKind int

const (
	KeyString ObjectKeyKind = iota
	KeyNumber
	KeyBool
	KeyTuple
)

// ObjectKey is a map key: a string identifier, a numeric literal, a
// boolean, or a tuple of any of those (recursively), mirroring the
// KeyBase/KeyTuple grammar.
type ObjectKey struct {
	Kind   ObjectKeyKind
	String string
	Number apd.Decimal
	Bool   bool
	Tuple  []ObjectKey
}

// NodeKind discriminates NodeValue's variants.
type NodeKind int

const (
	KindHole NodeKind = iota
	KindPrimitive
	KindArray
	KindTuple
	KindMap
)

// NodeValue is the value stored at a document node. Hole represents an
// explicit placeholder (`!`) pending later assignment; the other
// variants hold child node ids, never inline values, so the document
// remains a pure arena-of-ids graph.
type NodeValue struct {
	Kind      NodeKind
	Primitive PrimitiveValue
	Elems     []NodeId           // Array, Tuple
	Entries   map[string]NodeId  // Map, keyed by a canonical string encoding of ObjectKey; insertion order is not recorded
	Keys      map[string]ObjectKey // canonical string -> original key, for Map iteration/emission
}

// Node is one arena entry: its value plus any extension metadata
// attached to it (keys beginning with "$", isolated from ordinary map
// entries per spec §3.3).
type Node struct {
	Value      NodeValue
	Extensions map[string]NodeId
	written    bool // single-write guard; see Constructor.writeCurrent
}

// Document is the arena of nodes produced by lowering a CST, or built
// directly by a schema/document author. The zero value is not usable;
// construct via New.
type Document struct {
	nodes []Node
}

// New returns a Document containing only an empty root map.
func New() *Document {
	d := &Document{}
	d.nodes = append(d.nodes, Node{Value: NodeValue{Kind: KindMap, Entries: map[string]NodeId{}, Keys: map[string]ObjectKey{}}, written: true})
	return d
}

func (d *Document) alloc(n Node) NodeId {
	d.nodes = append(d.nodes, n)
	return NodeId(len(d.nodes) - 1)
}

// Node returns the node at id, or false if id is out of range.
func (d *Document) Node(id NodeId) (Node, bool) {
	if id < 0 || int(id) >= len(d.nodes) {
		return Node{}, false
	}
	return d.nodes[id], true
}

// Len reports the number of nodes in the arena, including the root.
func (d *Document) Len() int { return len(d.nodes) }

// CanonicalKey encodes an ObjectKey into the string used as a Map
// entry's lookup key. Tuples encode recursively; this is an internal
// collision-free encoding, not a display form.
func CanonicalKey(k ObjectKey) string {
	switch k.Kind {
	case KeyString:
		return "s:" + k.String
	case KeyNumber:
		return "n:" + k.Number.String()
	case KeyBool:
		if k.Bool {
			return "b:true"
		}
		return "b:false"
	case KeyTuple:
		out := "t:("
		for i, e := range k.Tuple {
			if i > 0 {
				out += ","
			}
			out += CanonicalKey(e)
		}
		return out + ")"
	default:
		return ""
	}
}
