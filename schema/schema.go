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

// Package schema defines the in-memory schema document model the emit
// package renders back into EURE source: a pool of SchemaNodes with
// content variants mirroring the value grammar, plus the metadata and
// extension-type fields that drive surface-form decisions.
package schema

import "github.com/cockroachdb/apd/v2"

// NodeId indexes a SchemaDocument's node pool.
type NodeId int

// Invalid never refers to a real schema node.
const Invalid NodeId = -1

// ContentKind discriminates SchemaContent's variants.
type ContentKind int

const (
	Any ContentKind = iota
	Null
	Boolean
	Text
	Integer
	Float
	Literal
	Array
	Map
	Record
	Tuple
	Union
	Reference
)

// RangeStyle selects how Integer/Float numeric ranges are rendered:
// Rust-style `min..max` versus mathematical interval notation
// `[min, max]`/`(min, max)` depending on inclusivity.
type RangeStyle int

const (
	RangeRust RangeStyle = iota
	RangeInterval
)

// Bound is an optional inclusive/exclusive numeric bound.
type Bound struct {
	Set       bool
	Value     apd.Decimal
	Exclusive bool
}

// VariantRepr selects how a Union's tagged variants are encoded:
// Untagged relies on shape-based disambiguation; Tagged adds an
// explicit `$variant` extension at each variant's root.
type VariantRepr int

const (
	ReprUntagged VariantRepr = iota
	ReprTagged
)

// RecordField is one named field of a Record content node.
type RecordField struct {
	Name     string
	Node     NodeId
	Optional bool
}

// UnionVariant is one alternative of a Union content node. Repr and
// ReprSet let a variant override the Union's default representation,
// per the fixed Open Question decision: any non-default combination
// forces section syntax for that variant's binding.
type UnionVariant struct {
	Name   string
	Node   NodeId
	Repr   VariantRepr
	ReprSet bool
}

// SchemaContent is the closed set of shapes a schema node's value
// constraint may take.
type SchemaContent struct {
	Kind ContentKind

	// Text
	Language string // "" if unconstrained

	// Integer, Float
	Min, Max   Bound
	RangeStyle RangeStyle

	// Literal
	LiteralText string

	// Array, Map: element/value node
	Elem NodeId

	// Record
	Fields []RecordField
	// UnknownFields, when true, permits additional map entries beyond
	// Fields (the `$unknown-fields` extension, per spec §9 Open
	// Question (b): modeled as an extension key, not a literal entry).
	UnknownFields bool

	// Tuple
	Elems []NodeId

	// Union
	Variants    []UnionVariant
	DefaultRepr VariantRepr

	// Reference
	RefName string
}

// Metadata holds the documentation/default/example fields every
// schema node may carry, independent of its content shape.
type Metadata struct {
	Description string // "" if absent
	Deprecated  bool
	Default     NodeId // Invalid if absent; resolves against the owning SchemaDocument
	HasDefault  bool
	Examples    []NodeId
}

// IsDefault reports whether m carries no metadata at all, the
// condition required for type-shorthand eligibility (spec §4.6.1).
func (m Metadata) IsDefault() bool {
	return m.Description == "" && !m.Deprecated && !m.HasDefault && len(m.Examples) == 0
}

// ExtType names one user extension type attached to a node; emit
// writes it as `<path>.$ext-type.<Name> = true`.
type ExtType struct {
	Name string
	Set  bool
}

// SchemaNode is one entry in a SchemaDocument's pool.
type SchemaNode struct {
	Content  SchemaContent
	Meta     Metadata
	Optional bool
	ExtType  ExtType
}

// SchemaDocument is a pool of SchemaNodes plus a root and a registry of
// named types (`$types.Name` declarations), mirroring EureDocument's
// arena-of-ids shape.
type SchemaDocument struct {
	nodes []SchemaNode
	Root  NodeId
	Types map[string]NodeId // declaration order not preserved here; emit.go re-derives a stable order
}

// NewSchemaDocument returns an empty SchemaDocument; callers populate
// it via Alloc before setting Root.
func NewSchemaDocument() *SchemaDocument {
	return &SchemaDocument{Types: map[string]NodeId{}}
}

// Alloc appends n to the pool and returns its id.
func (d *SchemaDocument) Alloc(n SchemaNode) NodeId {
	d.nodes = append(d.nodes, n)
	return NodeId(len(d.nodes) - 1)
}

// Node returns the node at id, or false if id is out of range.
func (d *SchemaDocument) Node(id NodeId) (SchemaNode, bool) {
	if id < 0 || int(id) >= len(d.nodes) {
		return SchemaNode{}, false
	}
	return d.nodes[id], true
}

// Len reports the number of nodes in the pool.
func (d *SchemaDocument) Len() int { return len(d.nodes) }
