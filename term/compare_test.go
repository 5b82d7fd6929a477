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

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestCompareNumericPromotion(t *testing.T) {
	require := require.New(t)

	i := NewInteger(3)
	d := NewDecimal(decimal.RequireFromString("3.0"))
	f := NewFloating(3.0)

	require.Equal(Equal, Compare(i, d), "integer 3 should equal decimal 3.0 after promotion")
	require.Equal(Equal, Compare(d, f), "decimal 3.0 should equal float 3.0 after promotion")
	require.Equal(Less, Compare(i, NewInteger(4)), "3 should be less than 4")
	require.Equal(Greater, Compare(NewFloating(4.5), NewInteger(4)), "4.5 should be greater than 4")
}

func TestCompareNumericUninterpretedIsTypeError(t *testing.T) {
	a := Value{Category: Numeric, NumCategory: Integer}
	b := NewInteger(1)
	require.Equal(t, TypeError, Compare(a, b), "comparing an uninterpreted numeric must be a type error")
}

func TestCompareStringsLexicographic(t *testing.T) {
	require := require.New(t)

	a := NewSimpleLiteral(NewString([]byte("abc")))
	b := NewSimpleLiteral(NewString([]byte("abd")))
	require.Equal(Less, Compare(a, b))
	require.Equal(Greater, Compare(b, a))
	require.Equal(Equal, Compare(a, a))
}

func TestCompareBoolean(t *testing.T) {
	require := require.New(t)

	f, tr := NewBoolean(false), NewBoolean(true)
	require.Equal(Less, Compare(f, tr))
	require.Equal(Equal, Compare(tr, tr))
}

func TestComparePlainLangSameTagAndLexicalIsEqual(t *testing.T) {
	a := NewPlainLang(NewString([]byte("bonjour")), NewString([]byte("fr")))
	b := NewPlainLang(NewString([]byte("bonjour")), NewString([]byte("fr")))
	require.Equal(t, Equal, Compare(a, b), "identical plain-lang literals must compare equal")
}

func TestComparePlainLangDifferentTagIsTypeError(t *testing.T) {
	a := NewPlainLang(NewString([]byte("hello")), NewString([]byte("en")))
	b := NewPlainLang(NewString([]byte("hello")), NewString([]byte("fr")))
	require.Equal(t, TypeError, Compare(a, b),
		"plain-lang literals with differing tags must be a type error under XPath =")
}

func TestCompareCrossCategoryIsTypeError(t *testing.T) {
	a := NewInteger(1)
	b := NewSimpleLiteral(NewString([]byte("1")))
	require.Equal(t, TypeError, Compare(a, b), "numeric vs. simple literal must be a type error")
}

func TestEqualsURIsByIdentity(t *testing.T) {
	require := require.New(t)

	a := NewURI(NewString([]byte("http://example.org/a")))
	a.ID = 1
	b := a
	require.Equal(TermEqual, Equals(a, b), "identical resolved URIs must be RDF-term equal")

	c := NewURI(NewString([]byte("http://example.org/b")))
	c.ID = 2
	require.Equal(TermNotEqual, Equals(a, c), "distinct resolved URIs must not be RDF-term equal")
}

func TestEqualsLiteralsDeferToCompare(t *testing.T) {
	require := require.New(t)

	a := NewInteger(3)
	b := NewDecimal(decimal.RequireFromString("3"))
	require.Equal(TermEqual, Equals(a, b), "numerically equal literals must be RDF-term equal")

	c := NewInteger(4)
	require.Equal(TermNotEqual, Equals(a, c), "numerically distinct integers must not be RDF-term equal")
}

func TestEqualsPlainLangDifferentTagIsNotEqualNotTypeError(t *testing.T) {
	a := NewPlainLang(NewString([]byte("hello")), NewString([]byte("en")))
	b := NewPlainLang(NewString([]byte("hello")), NewString([]byte("fr")))
	require.Equal(t, TermNotEqual, Equals(a, b),
		"differently-tagged plain-lang literals are merely different terms under RDF-term equality")
}

func TestEqualsIncomparableCategoriesIsTypeError(t *testing.T) {
	a := NewInteger(1)
	b := NewBoolean(true)
	require.Equal(t, TermTypeError, Equals(a, b), "numeric vs. boolean must be a type error under RDF-term equality")
}
