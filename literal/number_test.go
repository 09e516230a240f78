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
	"strings"
	"testing"
)

func TestParseBigInt(t *testing.T) {
	cases := map[string]string{
		"0":           "0",
		"42":          "42",
		"-7":          "-7",
		"1_000_000":   "1000000",
		"-1_234_5678": "-12345678",
	}
	for in, want := range cases {
		d, err := ParseBigInt(in)
		if err != nil {
			t.Fatalf("ParseBigInt(%q) error: %v", in, err)
		}
		if got := d.String(); got != want {
			t.Errorf("ParseBigInt(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestParseBigIntRejectsFloat(t *testing.T) {
	if _, err := ParseBigInt("1.5"); err == nil {
		t.Fatal("ParseBigInt(\"1.5\"): want error, got nil")
	}
}

func TestParseFloat(t *testing.T) {
	d, err := ParseFloat("3.14")
	if err != nil {
		t.Fatalf("ParseFloat error: %v", err)
	}
	if got := FormatFloat(d); got != "3.14" {
		t.Errorf("FormatFloat = %q, want 3.14", got)
	}
}

func TestFormatFloatAlwaysHasPoint(t *testing.T) {
	d, err := ParseFloat("5")
	if err != nil {
		t.Fatalf("ParseFloat error: %v", err)
	}
	got := FormatFloat(d)
	if !strings.Contains(got, ".") {
		t.Errorf("FormatFloat(5) = %q, want a value containing '.'", got)
	}
}

func TestParseNumberMalformed(t *testing.T) {
	if _, err := ParseFloat("not-a-number"); err == nil {
		t.Fatal("ParseFloat(\"not-a-number\"): want error, got nil")
	}
}
