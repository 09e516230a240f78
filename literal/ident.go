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

package literal

import (
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// NormalizeIdent applies NFC normalization, the same canonicalization
// CUE's label compiler applies before comparing identifiers, so that
// visually identical but differently-composed Unicode spellings of a
// key collide rather than silently coexisting.
func NormalizeIdent(s string) string {
	return norm.NFC.String(s)
}

// IsValidIdent reports whether s is a well-formed EURE identifier: a
// letter or underscore, followed by letters, digits, underscores, or
// hyphens.
func IsValidIdent(s string) bool {
	if s == "" {
		return false
	}
	first, width := utf8.DecodeRuneInString(s)
	if !(first == '_' || unicode.IsLetter(first)) {
		return false
	}
	for _, r := range s[width:] {
		if !(r == '_' || r == '-' || unicode.IsLetter(r) || unicode.IsDigit(r)) {
			return false
		}
	}
	return true
}
