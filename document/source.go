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

// SourcePathSegment names one step of a binding or section header as
// it appeared in source, independent of the document node the path
// resolved to. Kept distinct from PathSegment because a layout item
// only needs to be re-emitted, never re-resolved.
type SourcePathSegment struct {
	Kind  PathSegmentKind
	Ident string
	Index int
	Value ObjectKey
}

// LayoutItemKind discriminates LayoutItem's variants.
type LayoutItemKind int

const (
	LayoutBinding LayoutItemKind = iota
	LayoutSection
)

// SectionBodyForm records whether a section used the "{ ... }" block form
// or the indentation-free items form, so emission can reproduce it
// (spec §4.6, block-necessity invariant).
type SectionBodyForm int

const (
	SectionFormItems SectionBodyForm = iota
	SectionFormBlock
)

// LayoutItem is one top-level (or section-nested) entry in source
// order: either a binding "path = value" / "path { ... }" / "path: text"
// or a section header "@ path" with its own nested items.
type LayoutItem struct {
	Kind LayoutItemKind
	Path []SourcePathSegment
	// Node is the document node this binding's value resolved to (zero
	// value / Invalid for a section header, which has no value of its
	// own).
	Node NodeId
	// BodyForm and Items apply only when Kind == LayoutSection.
	BodyForm SectionBodyForm
	Items    []LayoutItem
}

// SourceDocument pairs an EureDocument with the source-order layout
// that produced it, so a round trip (parse, possibly edit the
// document, re-emit) can reproduce the original binding/section
// structure wherever the edit did not touch it.
type SourceDocument struct {
	Doc    *Document
	Layout []LayoutItem
}
