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
	"fmt"

	"github.com/cockroachdb/apd/v2"
)

// NumberErrorKind distinguishes a syntactically invalid literal from
// one that is well-formed but does not fit the requested kind (e.g. a
// float literal used where an integer was required).
type NumberErrorKind int

const (
	NumberMalformed NumberErrorKind = iota
	NumberOverflow
)

// NumberError is returned by ParseBigInt/ParseFloat on malformed or
// out-of-kind numeric literals.
type NumberError struct {
	Kind NumberErrorKind
	Text string
}

func (e *NumberError) Error() string {
	switch e.Kind {
	case NumberOverflow:
		return fmt.Sprintf("literal: %q is not a valid integer literal", e.Text)
	default:
		return fmt.Sprintf("literal: %q is not a well-formed number", e.Text)
	}
}

// ParseBigInt parses an arbitrary-precision integer literal (optional
// leading '-', decimal digits, optional '_' digit separators).
func ParseBigInt(text string) (apd.Decimal, error) {
	clean := stripDigitSeparators(text)
	var d apd.Decimal
	_, _, err := d.SetString(clean)
	if err != nil {
		return apd.Decimal{}, &NumberError{Kind: NumberMalformed, Text: text}
	}
	if d.Exponent != 0 {
		return apd.Decimal{}, &NumberError{Kind: NumberOverflow, Text: text}
	}
	return d, nil
}

// ParseFloat parses an arbitrary-precision decimal float literal.
func ParseFloat(text string) (apd.Decimal, error) {
	clean := stripDigitSeparators(text)
	var d apd.Decimal
	_, _, err := d.SetString(clean)
	if err != nil {
		return apd.Decimal{}, &NumberError{Kind: NumberMalformed, Text: text}
	}
	return d, nil
}

func stripDigitSeparators(text string) string {
	out := make([]byte, 0, len(text))
	for i := 0; i < len(text); i++ {
		if text[i] == '_' {
			continue
		}
		out = append(out, text[i])
	}
	return string(out)
}

// FormatFloat renders d the way the schema emitter's float surface
// form requires: it always carries a decimal point, even for integral
// values, so a reader (and re-parse) can distinguish it from an
// Integer literal.
func FormatFloat(d apd.Decimal) string {
	s := d.Text('f')
	for i := 0; i < len(s); i++ {
		if s[i] == '.' {
			return s
		}
	}
	return s + ".0"
}
