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
	"regexp"
	"strings"
)

// Process-wide constants, built once: pure functions of their input
// string, per spec §9 (no other global state in the toolkit).
var (
	inline1Re = regexp.MustCompile("^([a-zA-Z0-9_-]*)`([^`\r\n]*)`$")
	inline2StartRe = regexp.MustCompile("^``([a-zA-Z0-9_-]*)$")
	blockStartRe = map[int]*regexp.Regexp{
		3: regexp.MustCompile("^```([a-zA-Z0-9_-]*)[ \t]*(\r\n|\r|\n)$"),
		4: regexp.MustCompile("^````([a-zA-Z0-9_-]*)[ \t]*(\r\n|\r|\n)$"),
		5: regexp.MustCompile("^`````([a-zA-Z0-9_-]*)[ \t]*(\r\n|\r|\n)$"),
		6: regexp.MustCompile("^``````([a-zA-Z0-9_-]*)[ \t]*(\r\n|\r|\n)$"),
	}
)

// FenceError reports a malformed inline-code or code-block fence or
// language tag.
type FenceError struct{ Reason string }

func (e *FenceError) Error() string { return "literal: " + e.Reason }

// ParseInline1 parses a single-backtick inline code token's full text
// (including both backticks) into its language tag and content.
func ParseInline1(text string) (language, content string, err error) {
	m := inline1Re.FindStringSubmatch(text)
	if m == nil {
		return "", "", &FenceError{Reason: fmt.Sprintf("malformed inline-1 code token %q", text)}
	}
	return m[1], m[2], nil
}

// ParseInline2Start parses a double-backtick opener's full text into
// its language tag.
func ParseInline2Start(text string) (language string, err error) {
	m := inline2StartRe.FindStringSubmatch(text)
	if m == nil {
		return "", &FenceError{Reason: fmt.Sprintf("malformed inline-2 start token %q", text)}
	}
	return m[1], nil
}

// ParseBlockStart parses a 3..6-backtick opener's full text (including
// the fence and trailing newline) into its language tag. width is the
// fence's backtick count.
func ParseBlockStart(width int, text string) (language string, err error) {
	re, ok := blockStartRe[width]
	if !ok {
		return "", &FenceError{Reason: fmt.Sprintf("unsupported fence width %d", width)}
	}
	m := re.FindStringSubmatch(text)
	if m == nil {
		return "", &FenceError{Reason: fmt.Sprintf("malformed code-block-%d start token %q", width, text)}
	}
	return m[1], nil
}

// ChooseBlockWidth picks the smallest fence width in 3..6 such that no
// run of that many or more consecutive backticks occurs in body,
// satisfying the fence-matching invariant (spec §8, property 7). It
// returns an error if body contains a run of 6 or more backticks,
// which no supported fence width can safely wrap.
func ChooseBlockWidth(body string) (int, error) {
	for width := 3; width <= 6; width++ {
		if !strings.Contains(body, strings.Repeat("`", width)) {
			return width, nil
		}
	}
	return 0, &FenceError{Reason: "body contains a backtick run of every supported fence width"}
}
