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
	"time"

	"github.com/shopspring/decimal"
)

// ValueID identifies an RDF term within one store's value dictionary. Ids run
// from 1 to the store's value count; 0 means "not in store", Unknown (the
// StringID sentinel, reused here) means "not yet resolved".
type ValueID uint32

// Valid reports whether id names a real store value.
func (id ValueID) Valid() bool { return id > 0 && uint32(id) != Unknown }

// SerializedSize is the fixed width of a Value record in the values table:
// id(4) | category(2) | numCategory(2) | datatypeId(4) | tagStringId(4) | lexicalStringId(4).
const SerializedSize = 20

// Value is an RDF term: a blank node, URI, or literal, with its category,
// lexical form, optional datatype/language tag, and an optional interpreted
// payload. Values obtained transiently (category/id unresolved) own their
// payload and lexical form; values read from a store reference dictionary
// strings by id.
type Value struct {
	ID          ValueID
	Category    Category
	NumCategory NumCategory // only meaningful when Category == Numeric

	Lexical String
	// Tag holds the datatype URI string for TYPED_STRING/BOOLEAN/NUMERIC/
	// DATETIME/OTHER, or the language tag for PLAIN_LANG. Unused otherwise.
	Tag String
	// DatatypeID is the resolved value-id of the datatype URI for typed
	// literals, or Unknown if only Tag's lexical is known.
	DatatypeID ValueID

	interpreted bool
	boolVal     bool
	intVal      int64
	floatVal    float64
	decVal      decimal.Decimal
	timeVal     Temporal

	// Approx is the saturating numeric approximation used for CP range
	// pruning; empty (Empty true) for non-numeric values.
	Approx Range
}

// NewBlank builds a blank node value with the given lexical (its local label).
func NewBlank(lexical String) Value {
	return Value{ID: ValueID(Unknown), Category: Blank, Lexical: lexical}
}

// NewURI builds a URI value.
func NewURI(lexical String) Value {
	return Value{ID: ValueID(Unknown), Category: URI, Lexical: lexical}
}

// NewSimpleLiteral builds a simple literal (no datatype, no language tag).
func NewSimpleLiteral(lexical String) Value {
	return Value{ID: ValueID(Unknown), Category: SimpleLiteral, Lexical: lexical}
}

// NewPlainLang builds a plain literal with a language tag.
func NewPlainLang(lexical, lang String) Value {
	return Value{ID: ValueID(Unknown), Category: PlainLang, Lexical: lexical, Tag: lang}
}

// NewTypedString builds an xsd:string-typed literal.
func NewTypedString(lexical, datatype String) Value {
	return Value{ID: ValueID(Unknown), Category: TypedString, Lexical: lexical, Tag: datatype}
}

// NewBoolean builds an interpreted xsd:boolean literal.
func NewBoolean(b bool) Value {
	v := Value{ID: ValueID(Unknown), Category: Boolean, interpreted: true, boolVal: b}
	return v
}

// NewInteger builds an interpreted xsd:integer literal with a tight approximation.
func NewInteger(i int64) Value {
	v := Value{ID: ValueID(Unknown), Category: Numeric, NumCategory: Integer, interpreted: true, intVal: i}
	v.Approx = Range{Lo: i, Hi: i + 1}
	return v
}

// NewFloating builds an interpreted xsd:double literal.
func NewFloating(f float64) Value {
	v := Value{ID: ValueID(Unknown), Category: Numeric, NumCategory: Floating, interpreted: true, floatVal: f}
	v.Approx = approxFromFloat(f)
	return v
}

// NewDecimal builds an interpreted xsd:decimal literal.
func NewDecimal(d decimal.Decimal) Value {
	v := Value{ID: ValueID(Unknown), Category: Numeric, NumCategory: Decimal, interpreted: true, decVal: d}
	v.Approx = approxFromDecimal(d)
	return v
}

// NewDateTime builds an interpreted xsd:dateTime literal.
func NewDateTime(t Temporal) Value {
	return Value{ID: ValueID(Unknown), Category: DateTime, interpreted: true, timeVal: t}
}

// NewOther builds a literal with a datatype outside the recognized
// primitive set (boolean/numeric/dateTime/string): it carries no
// interpreted payload and compares only by RDF-term identity.
func NewOther(lexical, datatype String) Value {
	return Value{ID: ValueID(Unknown), Category: Other, Lexical: lexical, Tag: datatype}
}

// Interpreted reports whether the literal's value has been parsed out of its lexical form.
func (v Value) Interpreted() bool { return v.interpreted }

// Bool returns the boolean payload. Precondition: Category == Boolean && Interpreted().
func (v Value) Bool() bool { return v.boolVal }

// Int returns the integer payload. Precondition: NumCategory == Integer && Interpreted().
func (v Value) Int() int64 { return v.intVal }

// Float returns the float payload. Precondition: NumCategory == Floating && Interpreted().
func (v Value) Float() float64 { return v.floatVal }

// Dec returns the decimal payload. Precondition: NumCategory == Decimal && Interpreted().
func (v Value) Dec() decimal.Decimal { return v.decVal }

// Time returns the dateTime payload. Precondition: Category == DateTime && Interpreted().
func (v Value) Time() Temporal { return v.timeVal }

// Temporal wraps time.Time as the xsd:dateTime comparison primitive.
type Temporal struct {
	time.Time
}

// Compare performs calendar comparison, returning -1/0/1.
func (t Temporal) Compare(o Temporal) int {
	switch {
	case t.Time.Before(o.Time):
		return -1
	case t.Time.After(o.Time):
		return 1
	default:
		return 0
	}
}
