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

import "testing"

func TestIsValidIdent(t *testing.T) {
	valid := []string{"a", "_a", "foo", "foo-bar", "foo_bar", "foo123", "café"}
	for _, s := range valid {
		if !IsValidIdent(s) {
			t.Errorf("IsValidIdent(%q) = false, want true", s)
		}
	}
	invalid := []string{"", "1abc", "-abc", "foo bar", "foo.bar"}
	for _, s := range invalid {
		if IsValidIdent(s) {
			t.Errorf("IsValidIdent(%q) = true, want false", s)
		}
	}
}

func TestNormalizeIdentNFC(t *testing.T) {
	// "e" + combining acute accent (NFD form) normalizes to the
	// precomposed "é" (NFC form).
	decomposed := "é"
	precomposed := "é"
	if got := NormalizeIdent(decomposed); got != precomposed {
		t.Errorf("NormalizeIdent(%q) = %q, want %q", decomposed, got, precomposed)
	}
}
