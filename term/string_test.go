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

package term

import "testing"

func TestStringCompareLexicographic(t *testing.T) {
	cases := []struct {
		a, b string
		want int
	}{
		{"abc", "abd", -1},
		{"abc", "abc", 0},
		{"abd", "abc", 1},
		{"ab", "abc", -1},
		{"abc", "ab", 1},
		{"", "", 0},
	}
	for _, c := range cases {
		got := NewString([]byte(c.a)).Compare(NewString([]byte(c.b)))
		if got != c.want {
			t.Errorf("Compare(%q, %q) = %d, want %d", c.a, c.b, got, c.want)
		}
	}
}

func TestStringEqual(t *testing.T) {
	a := NewString([]byte("hello"))
	b := NewString([]byte("hello"))
	c := NewString([]byte("world"))
	if !a.Equal(b) {
		t.Error("expected equal strings to compare equal")
	}
	if a.Equal(c) {
		t.Error("expected unequal strings to compare unequal")
	}
}

func TestStringHashIsDeterministic(t *testing.T) {
	a := NewString([]byte("castor"))
	b := NewString([]byte("castor"))
	if a.Hash() != b.Hash() {
		t.Error("expected identical bytes to hash identically")
	}
}

func TestUnresolvedStringIsNotResolved(t *testing.T) {
	s := NewString([]byte("x"))
	if s.Resolved() {
		t.Error("expected a freshly built string to be unresolved")
	}
	s.ID = 42
	if !s.Resolved() {
		t.Error("expected a string with a concrete id to be resolved")
	}
}

func TestStringIDValid(t *testing.T) {
	if StringID(0).Valid() {
		t.Error("id 0 must not be valid")
	}
	if StringID(Unknown).Valid() {
		t.Error("Unknown must not be valid")
	}
	if !StringID(1).Valid() {
		t.Error("id 1 must be valid")
	}
}
