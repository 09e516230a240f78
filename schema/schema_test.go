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

package schema

import "testing"

func TestSchemaDocumentAllocAndNode(t *testing.T) {
	doc := NewSchemaDocument()
	if doc.Len() != 0 {
		t.Fatalf("Len() = %d, want 0 on a fresh document", doc.Len())
	}

	id1 := doc.Alloc(SchemaNode{Content: SchemaContent{Kind: Boolean}})
	id2 := doc.Alloc(SchemaNode{Content: SchemaContent{Kind: Text, Language: "en"}})

	if id1 == id2 {
		t.Fatalf("Alloc returned the same id twice: %d", id1)
	}
	if doc.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", doc.Len())
	}

	n1, ok := doc.Node(id1)
	if !ok || n1.Content.Kind != Boolean {
		t.Fatalf("Node(id1) = %+v, %v, want a Boolean node", n1, ok)
	}
	n2, ok := doc.Node(id2)
	if !ok || n2.Content.Kind != Text || n2.Content.Language != "en" {
		t.Fatalf("Node(id2) = %+v, %v, want Text lang=en", n2, ok)
	}
}

func TestSchemaDocumentNodeOutOfRange(t *testing.T) {
	doc := NewSchemaDocument()
	doc.Alloc(SchemaNode{Content: SchemaContent{Kind: Any}})

	if _, ok := doc.Node(Invalid); ok {
		t.Error("Node(Invalid) = ok, want false")
	}
	if _, ok := doc.Node(NodeId(5)); ok {
		t.Error("Node(5) on a 1-node document = ok, want false")
	}
	if _, ok := doc.Node(NodeId(-2)); ok {
		t.Error("Node(-2) = ok, want false")
	}
}

func TestMetadataIsDefault(t *testing.T) {
	cases := []struct {
		name string
		meta Metadata
		want bool
	}{
		{"zero value", Metadata{}, true},
		{"description set", Metadata{Description: "a field"}, false},
		{"deprecated", Metadata{Deprecated: true}, false},
		{"has default", Metadata{HasDefault: true, Default: NodeId(0)}, false},
		{"examples", Metadata{Examples: []NodeId{0}}, false},
	}
	for _, c := range cases {
		if got := c.meta.IsDefault(); got != c.want {
			t.Errorf("%s: IsDefault() = %v, want %v", c.name, got, c.want)
		}
	}
}

func TestSchemaDocumentTypesRegistry(t *testing.T) {
	doc := NewSchemaDocument()
	if doc.Types == nil {
		t.Fatal("NewSchemaDocument: Types is nil, want an empty map")
	}
	id := doc.Alloc(SchemaNode{Content: SchemaContent{Kind: Record}})
	doc.Types["Point"] = id
	doc.Root = id

	got, ok := doc.Types["Point"]
	if !ok || got != id {
		t.Errorf("Types[%q] = %v, %v, want %v, true", "Point", got, ok, id)
	}
	if doc.Root != id {
		t.Errorf("Root = %v, want %v", doc.Root, id)
	}
}
