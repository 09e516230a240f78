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

package emit

import (
	"fmt"
	"sort"
	"strings"

	"github.com/eure-lang/eure/document"
	"github.com/eure-lang/eure/literal"
	"github.com/eure-lang/eure/schema"
)

// Item is the emitter's own lightweight layout node: unlike
// document.LayoutItem, its binding values are already-rendered source
// text rather than document.NodeId references, since a schema node has
// no backing EureDocument of its own to point into.
type Item struct {
	Kind      document.LayoutItemKind
	Path      []string
	ValueText string // set when Kind == LayoutBinding
	BodyForm  document.SectionBodyForm
	Children  []Item
}

// Emit renders doc into a flat, ordered list of top-level Items: the
// root schema node's own bindings/sections and then each named type's
// items (under `$types.<name>`, in name order), with every binding
// moved ahead of every section.
func Emit(doc *schema.SchemaDocument) ([]Item, error) {
	e := &emitter{doc: doc, visitng: map[schema.NodeId]bool{}}
	root, ok := doc.Node(doc.Root)
	if !ok {
		return nil, &InvalidNodeError{NodeID: doc.Root}
	}
	items, err := e.emitNode(nil, doc.Root, root)
	if err != nil {
		return nil, err
	}
	for _, name := range sortedTypeNames(doc) {
		id := doc.Types[name]
		n, ok := doc.Node(id)
		if !ok {
			return nil, &InvalidNodeError{NodeID: id}
		}
		typeItems, err := e.emitNode([]string{"$types", name}, id, n)
		if err != nil {
			return nil, err
		}
		items = append(items, typeItems...)
	}
	return partition(items), nil
}

// emitNode renders the binding/section item(s) for node n at path,
// plus its metadata/extension sibling bindings.
func (e *emitter) emitNode(path []string, id schema.NodeId, n schema.SchemaNode) ([]Item, error) {
	if e.visitng[id] {
		return nil, &CircularReferenceError{NodeID: id, Description: "schema node re-entered along its own emission path"}
	}
	e.visitng[id] = true
	defer delete(e.visitng, id)

	var out []Item

	if sh, ok := typeShorthand(e.doc, n); ok {
		out = append(out, Item{Kind: document.LayoutBinding, Path: path, ValueText: inlineCode(sh)})
		return out, nil
	}

	if n.ExtType.Set {
		extItems, err := e.emitExtType(path, n)
		if err != nil {
			return nil, err
		}
		out = append(out, extItems...)
	}

	if mustUseSection(n) {
		body, block, err := e.emitSectionBody(path, n)
		if err != nil {
			return nil, err
		}
		out = append(out, Item{Kind: document.LayoutSection, Path: path, BodyForm: block, Children: partition(body)})
	} else {
		text, err := e.inlineValueText(n)
		if err != nil {
			return nil, err
		}
		out = append(out, Item{Kind: document.LayoutBinding, Path: path, ValueText: text})
	}

	out = append(out, e.emitMetadata(path, n.Meta)...)
	return out, nil
}

func (e *emitter) emitExtType(path []string, n schema.SchemaNode) ([]Item, error) {
	p := sub(path, "$ext-type", n.ExtType.Name)
	return []Item{{Kind: document.LayoutBinding, Path: p, ValueText: "true"}}, nil
}

// inlineValueText renders a non-section, non-shorthand node's value as
// a single EURE literal.
func (e *emitter) inlineValueText(n schema.SchemaNode) (string, error) {
	switch n.Content.Kind {
	case schema.Any:
		return inlineCode("any"), nil
	case schema.Null:
		return inlineCode("null"), nil
	case schema.Boolean:
		return inlineCode("boolean"), nil
	case schema.Text:
		if n.Content.Language == "" {
			return inlineCode("text"), nil
		}
		return inlineCode("text." + n.Content.Language), nil
	case schema.Literal:
		return literal.Quote(n.Content.LiteralText), nil
	case schema.Reference:
		return inlineCode("$types." + n.Content.RefName), nil
	case schema.Integer:
		return inlineCode("integer"), nil
	case schema.Float:
		return inlineCode("float"), nil
	default:
		return "", fmt.Errorf("emit: %v has no inline representation", n.Content.Kind)
	}
}

func inlineCode(s string) string { return "`" + s + "`" }

// sub returns a fresh path slice: path followed by extra, never
// aliasing path's backing array (Go's append can silently overwrite a
// caller's slice when capacity allows, which matters here because the
// same path is reused across several sibling Item constructions).
func sub(path []string, extra ...string) []string {
	out := make([]string, 0, len(path)+len(extra))
	out = append(out, path...)
	out = append(out, extra...)
	return out
}

// emitSectionBody renders the bindings/sections that belong inside n's
// section body (its $variant discriminator, range/constraint
// bindings, and recursively emitted fields/elements/variants), and
// decides Block vs Items per spec §4.6 question 3.
func (e *emitter) emitSectionBody(path []string, n schema.SchemaNode) ([]Item, document.SectionBodyForm, error) {
	var items []Item
	hasNestedSection := false

	switch n.Content.Kind {
	case schema.Record:
		items = append(items, Item{Kind: document.LayoutBinding, Path: sub(path, "$variant"), ValueText: literal.Quote("record")})
		if n.Content.UnknownFields {
			items = append(items, Item{Kind: document.LayoutBinding, Path: sub(path, "$unknown-fields"), ValueText: "true"})
		}
		sectionFieldCount := 0
		for _, f := range n.Content.Fields {
			fn, ok := e.doc.Node(f.Node)
			if !ok {
				return nil, 0, &InvalidNodeError{NodeID: f.Node}
			}
			fieldPath := sub(path, f.Name)
			fieldItems, err := e.emitNode(fieldPath, f.Node, fn)
			if err != nil {
				return nil, 0, err
			}
			if f.Optional {
				fieldItems = append(fieldItems, Item{Kind: document.LayoutBinding, Path: sub(fieldPath, "$optional"), ValueText: "true"})
			}
			for _, it := range fieldItems {
				if it.Kind == document.LayoutSection {
					sectionFieldCount++
				}
			}
			items = append(items, fieldItems...)
		}
		if sectionFieldCount > 0 && len(n.Content.Fields) > 1 {
			hasNestedSection = true
		}
		for _, it := range items {
			if it.Kind == document.LayoutSection {
				hasNestedSection = true
			}
		}
	case schema.Union:
		items = append(items, Item{Kind: document.LayoutBinding, Path: sub(path, "$variant"), ValueText: literal.Quote("union")})
		items = append(items, Item{Kind: document.LayoutBinding, Path: sub(path, "$variant-repr"), ValueText: literal.Quote(reprName(n.Content.DefaultRepr))})
		for _, variant := range n.Content.Variants {
			vn, ok := e.doc.Node(variant.Node)
			if !ok {
				return nil, 0, &InvalidNodeError{NodeID: variant.Node}
			}
			variantPath := sub(path, variant.Name)
			variantItems, err := e.emitNode(variantPath, variant.Node, vn)
			if err != nil {
				return nil, 0, err
			}
			if variant.ReprSet && variant.Repr != n.Content.DefaultRepr {
				variantItems = forceSection(variantItems, variantPath)
				variantItems = append(variantItems, Item{
					Kind: document.LayoutBinding, Path: sub(variantPath, "$variant-repr"),
					ValueText: literal.Quote(reprName(variant.Repr)),
				})
			}
			items = append(items, variantItems...)
		}
		hasNestedSection = true
	case schema.Map:
		items = append(items, Item{Kind: document.LayoutBinding, Path: sub(path, "$variant"), ValueText: literal.Quote("map")})
		en, ok := e.doc.Node(n.Content.Elem)
		if !ok {
			return nil, 0, &InvalidNodeError{NodeID: n.Content.Elem}
		}
		elemItems, err := e.emitNode(sub(path, "$value"), n.Content.Elem, en)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, elemItems...)
	case schema.Array:
		items = append(items, Item{Kind: document.LayoutBinding, Path: sub(path, "$variant"), ValueText: literal.Quote("array")})
		if r := FormatRange(n.Content, false); r != "" {
			items = append(items, Item{Kind: document.LayoutBinding, Path: sub(path, "length"), ValueText: r})
		}
		en, ok := e.doc.Node(n.Content.Elem)
		if !ok {
			return nil, 0, &InvalidNodeError{NodeID: n.Content.Elem}
		}
		elemItems, err := e.emitNode(sub(path, "$value"), n.Content.Elem, en)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, elemItems...)
	case schema.Tuple:
		items = append(items, Item{Kind: document.LayoutBinding, Path: sub(path, "$variant"), ValueText: literal.Quote("tuple")})
		for i, id := range n.Content.Elems {
			en, ok := e.doc.Node(id)
			if !ok {
				return nil, 0, &InvalidNodeError{NodeID: id}
			}
			elemItems, err := e.emitNode(sub(path, fmt.Sprintf("#%d", i)), id, en)
			if err != nil {
				return nil, 0, err
			}
			items = append(items, elemItems...)
		}
	case schema.Integer, schema.Float:
		kind := "integer"
		isFloat := n.Content.Kind == schema.Float
		if isFloat {
			kind = "float"
		}
		items = append(items, Item{Kind: document.LayoutBinding, Path: sub(path, "$variant"), ValueText: literal.Quote(kind)})
		if r := FormatRange(n.Content, isFloat); r != "" {
			items = append(items, Item{Kind: document.LayoutBinding, Path: sub(path, "range"), ValueText: r})
		}
	default:
		return nil, 0, fmt.Errorf("emit: %v has no section representation", n.Content.Kind)
	}

	form := document.SectionFormItems
	if hasNestedSection {
		form = document.SectionFormBlock
	}
	return items, form, nil
}

func reprName(r schema.VariantRepr) string {
	if r == schema.ReprTagged {
		return "external"
	}
	return "untagged"
}

// forceSection wraps a flat binding-only item list (produced for a
// node that did not itself require section syntax) into a single
// section item at path, so a sibling $variant-repr override can be
// attached to its body — the non-default-repr variant case from the
// fixed Open Question decision.
func forceSection(items []Item, path []string) []Item {
	if len(items) == 1 && items[0].Kind == document.LayoutSection {
		return items
	}
	return []Item{{Kind: document.LayoutSection, Path: path, BodyForm: document.SectionFormItems, Children: items}}
}

func (e *emitter) emitMetadata(path []string, m schema.Metadata) []Item {
	var out []Item
	if m.Description != "" {
		out = append(out, Item{Kind: document.LayoutBinding, Path: sub(path, "$description"), ValueText: literal.Quote(m.Description)})
	}
	if m.Deprecated {
		out = append(out, Item{Kind: document.LayoutBinding, Path: sub(path, "$deprecated"), ValueText: "true"})
	}
	return out
}

// partition stable-sorts items so every Binding precedes every
// Section, per the emission ordering rule (spec §6.4).
func partition(items []Item) []Item {
	out := make([]Item, len(items))
	copy(out, items)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Kind == document.LayoutBinding && out[j].Kind == document.LayoutSection
	})
	return out
}

// Render stringifies items as EURE source text, recursing into
// section bodies per their BodyForm.
func Render(items []Item) string {
	var b strings.Builder
	renderItems(&b, items, 0)
	return b.String()
}

func renderItems(b *strings.Builder, items []Item, depth int) {
	for _, it := range items {
		indent := strings.Repeat("  ", depth)
		path := strings.Join(it.Path, ".")
		switch it.Kind {
		case document.LayoutBinding:
			fmt.Fprintf(b, "%s%s = %s\n", indent, path, it.ValueText)
		case document.LayoutSection:
			fmt.Fprintf(b, "%s@ %s", indent, path)
			if it.BodyForm == document.SectionFormBlock {
				b.WriteString(" {\n")
				renderItems(b, it.Children, depth+1)
				fmt.Fprintf(b, "%s}\n", indent)
			} else {
				b.WriteString("\n")
				renderItems(b, it.Children, depth+1)
			}
		}
	}
}
