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

	"github.com/cockroachdb/apd/v2"
)

// NativeError reports that id could not be converted to a host value:
// it does not resolve, it is a Hole (no value was ever bound there),
// it is a map with a missing or non-string key, or its kind is unknown.
type NativeError struct {
	NodeID NodeId
	Reason string
}

func (e *NativeError) Error() string {
	return fmt.Sprintf("document: cannot convert node %d to native value: %s", e.NodeID, e.Reason)
}

// Native converts the subtree rooted at id into host Go values:
// map[string]any for Map, []any for Array and Tuple, and bool,
// *apd.Decimal, string, *Path, *Code, or nil for primitives. It is a
// read-only convenience for tests and REPL-style inspection, not a
// second document representation, and participates in no invariant.
func Native(doc *Document, id NodeId) (any, error) {
	n, ok := doc.Node(id)
	if !ok {
		return nil, &NativeError{NodeID: id, Reason: "no such node"}
	}
	switch n.Value.Kind {
	case KindHole:
		return nil, &NativeError{NodeID: id, Reason: "unbound hole"}
	case KindPrimitive:
		return nativePrimitive(n.Value.Primitive), nil
	case KindArray, KindTuple:
		out := make([]any, 0, len(n.Value.Elems))
		for _, c := range n.Value.Elems {
			v, err := Native(doc, c)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return out, nil
	case KindMap:
		out := make(map[string]any, len(n.Value.Entries))
		for canon, c := range n.Value.Entries {
			key, ok := n.Value.Keys[canon]
			if !ok {
				return nil, &NativeError{NodeID: id, Reason: "missing key for entry " + canon}
			}
			if key.Kind != KeyString {
				return nil, &NativeError{NodeID: id, Reason: "non-string map key has no native representation"}
			}
			v, err := Native(doc, c)
			if err != nil {
				return nil, err
			}
			out[key.String] = v
		}
		return out, nil
	default:
		return nil, &NativeError{NodeID: id, Reason: "unknown node kind"}
	}
}

func nativePrimitive(p PrimitiveValue) any {
	switch p.Kind {
	case PrimNull:
		return nil
	case PrimBool:
		return p.Bool
	case PrimBigInt:
		d := new(apd.Decimal).Set(&p.Int)
		return d
	case PrimFloat64:
		d := new(apd.Decimal).Set(&p.Float)
		return d
	case PrimText:
		return p.Text
	case PrimPath:
		path := p.Path
		return &path
	case PrimCode:
		code := p.Code
		return &code
	default:
		return nil
	}
}
