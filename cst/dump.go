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

package cst

import (
	"fmt"
	"io"
	"strings"

	"github.com/kr/text"
)

// Dump writes an indented tree of id and its descendants to w: one
// line per node, terminals rendered with their kind and quoted text
// (marked <dynamic ...> for synthesized terminals), non-terminals with
// their grammar kind. It exists to make the CST losslessness and view
// soundness invariants debuggable by eye; it is not part of the
// lossless contract itself.
func Dump(w io.Writer, s *Store, id CstNodeId) error {
	_, err := io.WriteString(w, DumpString(s, id))
	return err
}

// DumpString renders id's subtree the way Dump does, returned as a
// string for test assertions and error messages that do not hold an
// io.Writer.
func DumpString(s *Store, id CstNodeId) string {
	data, ok := s.NodeData(id)
	if !ok {
		return fmt.Sprintf("<missing %d>\n", id)
	}
	if data.IsTerminal() {
		if data.Terminal.Data.Dynamic {
			txt, _ := s.DynamicToken(id)
			return fmt.Sprintf("%s <dynamic %q>\n", data.Terminal.Kind, txt)
		}
		txt, _ := s.TerminalText(id)
		return fmt.Sprintf("%s %q\n", data.Terminal.Kind, txt)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", data.NonTerminal.Kind)
	for _, c := range data.NonTerminal.Children {
		b.WriteString(text.Indent(DumpString(s, c), "  "))
	}
	return b.String()
}
