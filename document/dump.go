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

import (
	"fmt"
	"sort"
	"strings"

	"github.com/kr/pretty"
	"github.com/kr/text"
)

// String renders the document as an indented tree starting from Root,
// for %v formatting in test failures and error messages. It has no
// bearing on any invariant; Dump is its non-Stringer counterpart for
// dumping an arbitrary node.
func (d *Document) String() string {
	return Dump(d, Root)
}

// Dump renders the subtree rooted at id as an indented tree.
func Dump(d *Document, id NodeId) string {
	n, ok := d.Node(id)
	if !ok {
		return fmt.Sprintf("<missing %d>\n", id)
	}
	switch n.Value.Kind {
	case KindHole:
		return "!\n"
	case KindPrimitive:
		return dumpPrimitive(n.Value.Primitive) + "\n"
	case KindArray:
		return dumpSeq(d, "array", n.Value.Elems)
	case KindTuple:
		return dumpSeq(d, "tuple", n.Value.Elems)
	case KindMap:
		return dumpMap(d, n)
	default:
		return "<unknown>\n"
	}
}

func dumpSeq(d *Document, label string, elems []NodeId) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s[\n", label)
	for _, c := range elems {
		b.WriteString(text.Indent(Dump(d, c), "  "))
	}
	b.WriteString("]\n")
	return b.String()
}

func dumpMap(d *Document, n Node) string {
	canons := make([]string, 0, len(n.Value.Entries))
	for canon := range n.Value.Entries {
		canons = append(canons, canon)
	}
	sort.Strings(canons)
	var b strings.Builder
	b.WriteString("map{\n")
	for _, canon := range canons {
		fmt.Fprintf(&b, "  %s:\n", canon)
		b.WriteString(text.Indent(Dump(d, n.Value.Entries[canon]), "    "))
	}
	b.WriteString("}\n")
	return b.String()
}

func dumpPrimitive(p PrimitiveValue) string {
	switch p.Kind {
	case PrimNull:
		return "null"
	case PrimBool:
		return fmt.Sprintf("%v", p.Bool)
	case PrimBigInt:
		return p.Int.String()
	case PrimFloat64:
		return p.Float.String()
	case PrimText:
		return fmt.Sprintf("%q", p.Text)
	case PrimPath:
		return "." + strings.Join(p.Path.Idents, ".")
	case PrimCode:
		// pretty.Sprint keeps the struct's field names in the dump,
		// useful for spotting an unexpectedly empty Language at a glance.
		return pretty.Sprint(p.Code)
	default:
		return "<unknown primitive>"
	}
}
