// Copyright 2020-2021 Dolthub, Inc.
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

package query

import (
	"testing"

	"github.com/castor-db/castor/term"
)

func TestLocalName(t *testing.T) {
	cases := []struct{ uri, want string }{
		{"http://www.w3.org/2001/XMLSchema#integer", "integer"},
		{"http://example.org/ns/thing", "thing"},
		{"noseparator", "noseparator"},
	}
	for _, c := range cases {
		if got := localName(c.uri); got != c.want {
			t.Errorf("localName(%q) = %q, want %q", c.uri, got, c.want)
		}
	}
}

func TestClassifyTypedBoolean(t *testing.T) {
	v, err := classifyTyped("true", "http://www.w3.org/2001/XMLSchema#boolean")
	if err != nil {
		t.Fatalf("classifyTyped: %v", err)
	}
	if !v.Interpreted() || !v.Bool() {
		t.Fatalf("classifyTyped(true) = %+v, want interpreted true", v)
	}
}

func TestClassifyTypedInteger(t *testing.T) {
	v, err := classifyTyped("42", "http://www.w3.org/2001/XMLSchema#integer")
	if err != nil {
		t.Fatalf("classifyTyped: %v", err)
	}
	if v.Int() != 42 {
		t.Fatalf("classifyTyped(42).Int() = %d, want 42", v.Int())
	}
}

func TestClassifyTypedInvalidIntegerIsError(t *testing.T) {
	if _, err := classifyTyped("not-a-number", "http://www.w3.org/2001/XMLSchema#integer"); err == nil {
		t.Fatalf("classifyTyped(not-a-number) err = nil, want error")
	}
}

func TestClassifyTypedDecimal(t *testing.T) {
	v, err := classifyTyped("3.14", "http://www.w3.org/2001/XMLSchema#decimal")
	if err != nil {
		t.Fatalf("classifyTyped: %v", err)
	}
	if v.Dec().String() != "3.14" {
		t.Fatalf("classifyTyped(3.14).Dec() = %s, want 3.14", v.Dec().String())
	}
}

func TestClassifyTypedUnrecognizedDatatypeBecomesOther(t *testing.T) {
	v, err := classifyTyped("P3D", "http://www.w3.org/2001/XMLSchema#duration")
	if err != nil {
		t.Fatalf("classifyTyped: %v", err)
	}
	if v.Category != term.Other {
		t.Fatalf("classifyTyped(duration).Category = %v, want Other", v.Category)
	}
	if v.Interpreted() {
		t.Fatalf("classifyTyped(duration).Interpreted() = true, want false")
	}
}

func TestClassifyTypedDateTime(t *testing.T) {
	v, err := classifyTyped("2021-06-01T12:00:00Z", "http://www.w3.org/2001/XMLSchema#dateTime")
	if err != nil {
		t.Fatalf("classifyTyped: %v", err)
	}
	if v.Time().Time.Year() != 2021 {
		t.Fatalf("classifyTyped(dateTime).Time().Year() = %d, want 2021", v.Time().Time.Year())
	}
}
