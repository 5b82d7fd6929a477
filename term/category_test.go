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

func TestCategoryIsLiteral(t *testing.T) {
	literal := []Category{SimpleLiteral, TypedString, Boolean, Numeric, DateTime, PlainLang, Other}
	for _, c := range literal {
		if !c.IsLiteral() {
			t.Errorf("%s: expected IsLiteral true", c)
		}
	}
	nonLiteral := []Category{Blank, URI}
	for _, c := range nonLiteral {
		if c.IsLiteral() {
			t.Errorf("%s: expected IsLiteral false", c)
		}
	}
}

func TestCategoryOrderingIsStable(t *testing.T) {
	order := []Category{Blank, URI, SimpleLiteral, TypedString, Boolean, Numeric, DateTime, PlainLang, Other}
	for i, c := range order {
		if int(c) != i {
			t.Fatalf("category %s moved position: want %d got %d", c, i, int(c))
		}
	}
}

func TestNumCategoriesMatchesDefinedSet(t *testing.T) {
	if NumCategories() != int(Other)+1 {
		t.Fatalf("NumCategories() = %d, want %d", NumCategories(), int(Other)+1)
	}
}
