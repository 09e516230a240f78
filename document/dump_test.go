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
	"strings"
	"testing"
)

func TestDocumentStringContainsBoundKeys(t *testing.T) {
	doc := New()
	ctor := NewConstructor(doc)
	if err := ctor.PushPath([]PathSegment{{Kind: SegIdent, Ident: "greeting"}}); err != nil {
		t.Fatalf("PushPath: %v", err)
	}
	if err := ctor.BindPrimitive(PrimitiveValue{Kind: PrimText, Text: "hi"}); err != nil {
		t.Fatalf("BindPrimitive: %v", err)
	}
	s := doc.String()
	if !strings.Contains(s, "greeting") || !strings.Contains(s, `"hi"`) {
		t.Errorf("String() = %q, want it to mention greeting and \"hi\"", s)
	}
}
