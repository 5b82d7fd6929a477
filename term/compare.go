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

import "github.com/shopspring/decimal"

// Ordering is the three-valued (plus type-error) result of the XPath
// comparator.
type Ordering uint8

const (
	Less Ordering = iota
	Equal
	Greater
	TypeError
)

// EqualResult is the three-valued result of RDF-term equality.
type EqualResult uint8

const (
	TermEqual EqualResult = iota
	TermNotEqual
	TermTypeError
)

// Compare implements the XPath comparator: numeric compare with promotion
// (using Approx as a fast path, falling back to exact compare on overlap),
// byte-lexicographic for SIMPLE_LITERAL/TYPED_STRING pairs, false<true for
// booleans, calendar compare for dateTime, and type-error for any other
// category pairing (including CAT_PLAIN_LANG, resolved per the rule
// directly below).
func Compare(a, b Value) Ordering {
	if a.Category != b.Category {
		// PLAIN_LANG vs PLAIN_LANG with matching tags is handled below;
		// any other cross-category pairing under XPath `=` is a type error.
		return TypeError
	}
	switch a.Category {
	case Numeric:
		return compareNumeric(a, b)
	case SimpleLiteral, TypedString:
		return orderingFromInt(a.Lexical.Compare(b.Lexical))
	case Boolean:
		if !a.interpreted || !b.interpreted {
			return TypeError
		}
		switch {
		case a.boolVal == b.boolVal:
			return Equal
		case !a.boolVal && b.boolVal:
			return Less
		default:
			return Greater
		}
	case DateTime:
		if !a.interpreted || !b.interpreted {
			return TypeError
		}
		return orderingFromInt(a.timeVal.Compare(b.timeVal))
	case PlainLang:
		// Same language tag and same lexical => equal; anything else is a
		// type error under XPath `=` (it is merely "not the same term" under
		// RDF-term equality, see Equals below).
		if a.Tag.Equal(b.Tag) && a.Lexical.Equal(b.Lexical) {
			return Equal
		}
		return TypeError
	default:
		return TypeError
	}
}

func orderingFromInt(c int) Ordering {
	switch {
	case c < 0:
		return Less
	case c > 0:
		return Greater
	default:
		return Equal
	}
}

func compareNumeric(a, b Value) Ordering {
	if !a.interpreted || !b.interpreted {
		return TypeError
	}
	// Fast path: disjoint approximations settle the order without promoting.
	if a.Approx.Before(b.Approx) {
		return Less
	}
	if b.Approx.Before(a.Approx) {
		return Greater
	}
	pa, pb := promote(a, b)
	return orderingFromInt(pa.compareExact(pb))
}

// promote applies the integer -> decimal -> double promotion rule so both
// values are comparable at the wider type.
func promote(a, b Value) (Value, Value) {
	if a.NumCategory == b.NumCategory {
		return a, b
	}
	rank := func(v Value) int {
		switch v.NumCategory {
		case Integer:
			return 0
		case Decimal:
			return 1
		default:
			return 2
		}
	}
	target := rank(a)
	if rank(b) > target {
		target = rank(b)
	}
	return widen(a, target), widen(b, target)
}

func widen(v Value, target int) Value {
	switch target {
	case 1: // decimal
		if v.NumCategory == Decimal {
			return v
		}
		return NewDecimal(decimal.NewFromInt(v.intVal))
	case 2: // double
		if v.NumCategory == Floating {
			return v
		}
		if v.NumCategory == Decimal {
			f, _ := v.decVal.Float64()
			return NewFloating(f)
		}
		return NewFloating(float64(v.intVal))
	default:
		return v
	}
}

func (v Value) compareExact(o Value) int {
	switch v.NumCategory {
	case Integer:
		switch {
		case v.intVal < o.intVal:
			return -1
		case v.intVal > o.intVal:
			return 1
		default:
			return 0
		}
	case Decimal:
		return v.decVal.Cmp(o.decVal)
	case Floating:
		switch {
		case v.floatVal < o.floatVal:
			return -1
		case v.floatVal > o.floatVal:
			return 1
		default:
			return 0
		}
	default:
		return 0
	}
}

// Equals implements RDF-term equality: `=` on XPath equality, `!=` on XPath
// inequality within comparable pairs, type-error for incomparable literal
// pairs, and plain term-identity for non-literals (blank nodes, URIs) and
// for PLAIN_LANG pairs that are not the same term.
func Equals(a, b Value) EqualResult {
	if !a.Category.IsLiteral() || !b.Category.IsLiteral() {
		if a.ID.Valid() && b.ID.Valid() {
			if a.ID == b.ID {
				return TermEqual
			}
			return TermNotEqual
		}
		if sameTermFallback(a, b) {
			return TermEqual
		}
		return TermNotEqual
	}
	switch Compare(a, b) {
	case Equal:
		return TermEqual
	case Less, Greater:
		return TermNotEqual
	default:
		// Type error under XPath `=`: for incomparable categories this is
		// still a definite "different term" per RDF-term equality, except
		// when the comparator itself reports a genuine type error between
		// two otherwise-comparable literals (e.g. boolean vs numeric).
		if a.Category == b.Category {
			// e.g. two PLAIN_LANG literals with differing tags: different term.
			return TermNotEqual
		}
		return TermTypeError
	}
}

func sameTermFallback(a, b Value) bool {
	return a.Category == b.Category && a.Lexical.Equal(b.Lexical) && a.Tag.Equal(b.Tag)
}
