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

// Package emit renders a schema.SchemaDocument back into EURE source,
// deciding at every node whether it qualifies for type-shorthand,
// must use section syntax, and whether a section's body must be a
// brace block to stay unambiguous under the Eure grammar.
package emit

import (
	"fmt"
	"sort"

	"github.com/cockroachdb/apd/v2"
	"github.com/eure-lang/eure/literal"
	"github.com/eure-lang/eure/schema"
	"github.com/mpvl/unique"
)

// CircularReferenceError is raised when emission re-enters a schema
// node already on the current path from the root.
type CircularReferenceError struct {
	NodeID      schema.NodeId
	Description string
}

func (e *CircularReferenceError) Error() string {
	return fmt.Sprintf("emit: circular reference at node %d: %s", e.NodeID, e.Description)
}

// InvalidNodeError is raised when a NodeId does not resolve in the
// document's pool (a dangling Elem/Fields/Variants/Default reference).
type InvalidNodeError struct{ NodeID schema.NodeId }

func (e *InvalidNodeError) Error() string {
	return fmt.Sprintf("emit: invalid schema node id %d", e.NodeID)
}

// emitter holds the per-call state threaded through node rendering:
// the document being read, and the set of node ids currently being
// visited along the active path (for cycle detection).
type emitter struct {
	doc     *schema.SchemaDocument
	visitng map[schema.NodeId]bool
}

// sortedTypeNames returns doc.Types's keys deduplicated and in stable
// order, using mpvl/unique the way the teacher dedupes label sets
// before emission.
func sortedTypeNames(doc *schema.SchemaDocument) []string {
	names := make([]string, 0, len(doc.Types))
	for name := range doc.Types {
		names = append(names, name)
	}
	u := stringSlice(names)
	sort.Sort(u)
	unique.Sort(u)
	return []string(u)
}

// stringSlice adapts []string to unique.Interface (sort.Interface +
// Equal), matching mpvl/unique's contract for in-place dedup.
type stringSlice []string

func (s stringSlice) Len() int            { return len(s) }
func (s stringSlice) Less(i, j int) bool  { return s[i] < s[j] }
func (s stringSlice) Swap(i, j int)       { s[i], s[j] = s[j], s[i] }
func (s stringSlice) Equal(i, j int) bool { return s[i] == s[j] }

// typeShorthand returns the canonical inline-code type name for n, and
// true, if n qualifies for type-shorthand (spec §4.6, question 1): all
// constraint fields at their defaults and metadata fully default.
func typeShorthand(doc *schema.SchemaDocument, n schema.SchemaNode) (string, bool) {
	if !n.Meta.IsDefault() || n.ExtType.Set {
		return "", false
	}
	switch n.Content.Kind {
	case schema.Any:
		return "any", true
	case schema.Null:
		return "null", true
	case schema.Boolean:
		return "boolean", true
	case schema.Text:
		if !hasRange(n.Content) {
			if n.Content.Language == "" {
				return "text", true
			}
			return "text." + n.Content.Language, true
		}
		return "", false
	case schema.Integer:
		if isUnconstrained(n.Content) {
			return "integer", true
		}
		return "", false
	case schema.Float:
		if isUnconstrained(n.Content) {
			return "float", true
		}
		return "", false
	case schema.Reference:
		return "$types." + n.Content.RefName, true
	default:
		return "", false
	}
}

func hasRange(c schema.SchemaContent) bool { return c.Min.Set || c.Max.Set }
func isUnconstrained(c schema.SchemaContent) bool { return !c.Min.Set && !c.Max.Set }

// mustUseSection reports whether n must be rendered with section
// syntax rather than an inline binding (spec §4.6, question 2).
func mustUseSection(n schema.SchemaNode) bool {
	switch n.Content.Kind {
	case schema.Record:
		return len(n.Content.Fields) > 0
	case schema.Union:
		return len(n.Content.Variants) > 0
	case schema.Map:
		return true
	case schema.Array:
		return hasRange(n.Content) // Min/Max reused as min_length/max_length for Array
	case schema.Tuple:
		return false
	case schema.Integer, schema.Float:
		return hasRange(n.Content)
	default:
		return false
	}
}

// FormatRange renders a Min/Max bound pair per style. An unbounded
// range on both sides renders as the empty string (omitted entirely).
func FormatRange(c schema.SchemaContent, isFloat bool) string {
	if !c.Min.Set && !c.Max.Set {
		return ""
	}
	switch c.RangeStyle {
	case schema.RangeInterval:
		lo := "("
		if c.Min.Set && !c.Min.Exclusive {
			lo = "["
		}
		hi := ")"
		if c.Max.Set && !c.Max.Exclusive {
			hi = "]"
		}
		minS, maxS := "", ""
		if c.Min.Set {
			minS = formatBound(c.Min.Value, isFloat)
		}
		if c.Max.Set {
			maxS = formatBound(c.Max.Value, isFloat)
		}
		return lo + minS + ", " + maxS + hi
	default: // RangeRust
		var b string
		if c.Min.Set {
			b += formatBound(c.Min.Value, isFloat)
			if c.Min.Exclusive {
				b += "<"
			}
		}
		b += ".."
		if c.Max.Set {
			if !c.Max.Exclusive {
				b += "="
			}
			b += formatBound(c.Max.Value, isFloat)
		}
		return b
	}
}

func formatBound(d apd.Decimal, isFloat bool) string {
	if isFloat {
		return literal.FormatFloat(d)
	}
	return d.String()
}
