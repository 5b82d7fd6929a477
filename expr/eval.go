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

package expr

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/spf13/cast"

	"github.com/castor-db/castor/fd"
	"github.com/castor-db/castor/term"
)

// Evaluate computes e's value under override (a tentative binding for CP
// variables not yet resolved against the store, used by Filter's
// forward-check), following SPARQL 1.0 §11.4. ok is false on a type error.
func (e *Expr) Evaluate(override map[*fd.Variable]int) (term.Value, bool, error) {
	switch e.Kind {
	case KindLiteral:
		return e.Lit, true, nil
	case KindVar:
		v, ok, err := e.Var.resolve(override)
		return v, ok, err
	case KindBound:
		if e.X.Kind != KindVar {
			return term.Value{}, false, nil
		}
		_, bound := e.X.Var.isBound(override)
		return term.NewBoolean(bound), true, nil
	case KindNot:
		return e.evalNot(override)
	case KindPlus, KindMinus:
		return e.evalUnaryArith(override)
	case KindIsIRI:
		return e.evalCategoryCheck(override, term.URI)
	case KindIsBlank:
		return e.evalCategoryCheck(override, term.Blank)
	case KindIsLiteral:
		return e.evalIsLiteral(override)
	case KindStr:
		return e.evalStr(override)
	case KindLang:
		return e.evalLang(override)
	case KindDatatype:
		return e.evalDatatype(override)
	case KindOr:
		return e.evalOr(override)
	case KindAnd:
		return e.evalAnd(override)
	case KindEq, KindNeq:
		return e.evalEquality(override)
	case KindLt, KindGt, KindLe, KindGe:
		return e.evalOrderCompare(override)
	case KindMul, KindDiv, KindAdd, KindSub:
		return e.evalArith(override)
	case KindSameTerm:
		return e.evalSameTerm(override)
	case KindLangMatches:
		return e.evalLangMatches(override)
	case KindRegex:
		return e.evalRegex(override)
	default:
		return term.Value{}, false, errors.Errorf("expr: unknown kind %d", e.Kind)
	}
}

func (e *Expr) evalNot(override map[*fd.Variable]int) (term.Value, bool, error) {
	x, ok, err := e.X.Evaluate(override)
	if err != nil || !ok {
		return term.Value{}, false, err
	}
	t := term.EBV(x).Not()
	if t == term.ErrorTruth {
		return term.Value{}, false, nil
	}
	return term.NewBoolean(t == term.True), true, nil
}

func (e *Expr) evalOr(override map[*fd.Variable]int) (term.Value, bool, error) {
	lt := e.ebvOperand(e.X, override)
	rt := e.ebvOperand(e.Y, override)
	t := lt.Or(rt)
	if t == term.ErrorTruth {
		return term.Value{}, false, nil
	}
	return term.NewBoolean(t == term.True), true, nil
}

func (e *Expr) evalAnd(override map[*fd.Variable]int) (term.Value, bool, error) {
	lt := e.ebvOperand(e.X, override)
	rt := e.ebvOperand(e.Y, override)
	t := lt.And(rt)
	if t == term.ErrorTruth {
		return term.Value{}, false, nil
	}
	return term.NewBoolean(t == term.True), true, nil
}

// ebvOperand evaluates child and maps it to Truth, ErrorTruth on any
// evaluation failure; And/Or still need to see ErrorTruth rather than
// short-circuit on a Go error, since `true || <type error>` is true under
// SPARQL three-valued logic.
func (e *Expr) ebvOperand(child *Expr, override map[*fd.Variable]int) term.Truth {
	v, ok, err := child.Evaluate(override)
	if err != nil || !ok {
		return term.ErrorTruth
	}
	return term.EBV(v)
}

func (e *Expr) evalCategoryCheck(override map[*fd.Variable]int, cat term.Category) (term.Value, bool, error) {
	x, ok, err := e.X.Evaluate(override)
	if err != nil || !ok {
		return term.Value{}, false, err
	}
	return term.NewBoolean(x.Category == cat), true, nil
}

func (e *Expr) evalIsLiteral(override map[*fd.Variable]int) (term.Value, bool, error) {
	x, ok, err := e.X.Evaluate(override)
	if err != nil || !ok {
		return term.Value{}, false, err
	}
	return term.NewBoolean(x.Category.IsLiteral()), true, nil
}

func (e *Expr) evalStr(override map[*fd.Variable]int) (term.Value, bool, error) {
	x, ok, err := e.X.Evaluate(override)
	if err != nil || !ok {
		return term.Value{}, false, err
	}
	s, err := lexicalOf(x)
	if err != nil {
		return term.Value{}, false, nil
	}
	return term.NewSimpleLiteral(term.NewString([]byte(s))), true, nil
}

func (e *Expr) evalLang(override map[*fd.Variable]int) (term.Value, bool, error) {
	x, ok, err := e.X.Evaluate(override)
	if err != nil || !ok {
		return term.Value{}, false, err
	}
	if x.Category != term.PlainLang {
		return term.NewSimpleLiteral(term.NewString(nil)), true, nil
	}
	return term.NewSimpleLiteral(x.Tag), true, nil
}

func (e *Expr) evalDatatype(override map[*fd.Variable]int) (term.Value, bool, error) {
	x, ok, err := e.X.Evaluate(override)
	if err != nil || !ok {
		return term.Value{}, false, err
	}
	switch x.Category {
	case term.SimpleLiteral:
		return term.NewURI(term.NewString([]byte("http://www.w3.org/2001/XMLSchema#string"))), true, nil
	case term.TypedString, term.Boolean, term.Numeric, term.DateTime:
		if x.Tag.Bytes == nil {
			return term.Value{}, false, nil
		}
		return term.NewURI(x.Tag), true, nil
	default:
		return term.Value{}, false, nil
	}
}

func (e *Expr) evalEquality(override map[*fd.Variable]int) (term.Value, bool, error) {
	x, ok, err := e.X.Evaluate(override)
	if err != nil || !ok {
		return term.Value{}, false, err
	}
	y, ok, err := e.Y.Evaluate(override)
	if err != nil || !ok {
		return term.Value{}, false, err
	}
	res := term.Equals(x, y)
	if res == term.TermTypeError {
		return term.Value{}, false, nil
	}
	eq := res == term.TermEqual
	if e.Kind == KindNeq {
		eq = !eq
	}
	return term.NewBoolean(eq), true, nil
}

func (e *Expr) evalOrderCompare(override map[*fd.Variable]int) (term.Value, bool, error) {
	x, ok, err := e.X.Evaluate(override)
	if err != nil || !ok {
		return term.Value{}, false, err
	}
	y, ok, err := e.Y.Evaluate(override)
	if err != nil || !ok {
		return term.Value{}, false, err
	}
	ord := term.Compare(x, y)
	if ord == term.TypeError {
		return term.Value{}, false, nil
	}
	var res bool
	switch e.Kind {
	case KindLt:
		res = ord == term.Less
	case KindGt:
		res = ord == term.Greater
	case KindLe:
		res = ord == term.Less || ord == term.Equal
	case KindGe:
		res = ord == term.Greater || ord == term.Equal
	}
	return term.NewBoolean(res), true, nil
}

func (e *Expr) evalSameTerm(override map[*fd.Variable]int) (term.Value, bool, error) {
	x, ok, err := e.X.Evaluate(override)
	if err != nil || !ok {
		return term.Value{}, false, err
	}
	y, ok, err := e.Y.Evaluate(override)
	if err != nil || !ok {
		return term.Value{}, false, err
	}
	return term.NewBoolean(sameTerm(x, y)), true, nil
}

// sameTerm implements the strict RDF term-identity check SAMETERM uses,
// distinct from term.Equals (RDF-term "="): value ids compared directly
// when both sides are resolved, falling back to exact
// category/lexical/tag identity for transient (unresolved) values.
func sameTerm(a, b term.Value) bool {
	if a.ID.Valid() && b.ID.Valid() {
		return a.ID == b.ID
	}
	return a.Category == b.Category && a.Lexical.Equal(b.Lexical) && a.Tag.Equal(b.Tag)
}

func (e *Expr) evalLangMatches(override map[*fd.Variable]int) (term.Value, bool, error) {
	x, ok, err := e.X.Evaluate(override)
	if err != nil || !ok {
		return term.Value{}, false, err
	}
	y, ok, err := e.Y.Evaluate(override)
	if err != nil || !ok {
		return term.Value{}, false, err
	}
	tag, err := lexicalOf(x)
	if err != nil {
		return term.Value{}, false, nil
	}
	rng, err := lexicalOf(y)
	if err != nil {
		return term.Value{}, false, nil
	}
	return term.NewBoolean(langMatches(tag, rng)), true, nil
}

// langMatches implements RFC 4647 basic filtering: "*" matches any
// non-empty tag, otherwise the range must be a case-insensitive prefix of
// the tag ending on a subtag boundary.
func langMatches(tag, rng string) bool {
	if rng == "*" {
		return tag != ""
	}
	tag = strings.ToLower(tag)
	rng = strings.ToLower(rng)
	if tag == rng {
		return true
	}
	return strings.HasPrefix(tag, rng+"-")
}

func (e *Expr) evalRegex(override map[*fd.Variable]int) (term.Value, bool, error) {
	x, ok, err := e.X.Evaluate(override)
	if err != nil || !ok {
		return term.Value{}, false, err
	}
	pat, ok, err := e.Y.Evaluate(override)
	if err != nil || !ok {
		return term.Value{}, false, err
	}
	text, err := lexicalOf(x)
	if err != nil {
		return term.Value{}, false, nil
	}
	pattern, err := lexicalOf(pat)
	if err != nil {
		return term.Value{}, false, nil
	}
	if e.Z != nil {
		flags, ok, err := e.Z.Evaluate(override)
		if err != nil || !ok {
			return term.Value{}, false, err
		}
		flagStr, err := lexicalOf(flags)
		if err != nil {
			return term.Value{}, false, nil
		}
		if strings.Contains(flagStr, "i") {
			pattern = "(?i)" + pattern
		}
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return term.Value{}, false, nil
	}
	return term.NewBoolean(re.MatchString(text)), true, nil
}

func (e *Expr) evalUnaryArith(override map[*fd.Variable]int) (term.Value, bool, error) {
	x, ok, err := e.X.Evaluate(override)
	if err != nil || !ok {
		return term.Value{}, false, err
	}
	if x.Category != term.Numeric || !x.Interpreted() {
		return term.Value{}, false, nil
	}
	if e.Kind == KindPlus {
		return x, true, nil
	}
	return negate(x), true, nil
}

func negate(v term.Value) term.Value {
	switch v.NumCategory {
	case term.Integer:
		return term.NewInteger(-v.Int())
	case term.Decimal:
		return term.NewDecimal(v.Dec().Neg())
	default:
		return term.NewFloating(-v.Float())
	}
}

func (e *Expr) evalArith(override map[*fd.Variable]int) (term.Value, bool, error) {
	x, ok, err := e.X.Evaluate(override)
	if err != nil || !ok {
		return term.Value{}, false, err
	}
	y, ok, err := e.Y.Evaluate(override)
	if err != nil || !ok {
		return term.Value{}, false, err
	}
	if x.Category != term.Numeric || y.Category != term.Numeric || !x.Interpreted() || !y.Interpreted() {
		return term.Value{}, false, nil
	}
	return arith(e.Kind, x, y)
}

// arith applies the integer -> decimal -> double promotion rule and then
// the requested operator at the promoted type. term's own promotion
// helpers are unexported, so the rule is reimplemented here.
func arith(k Kind, a, b term.Value) (term.Value, bool, error) {
	rank := func(v term.Value) int {
		switch v.NumCategory {
		case term.Integer:
			return 0
		case term.Decimal:
			return 1
		default:
			return 2
		}
	}
	target := rank(a)
	if rank(b) > target {
		target = rank(b)
	}
	// Division always promotes at least to decimal, per XPath's op:numeric-divide.
	if k == KindDiv && target == 0 {
		target = 1
	}
	switch target {
	case 0:
		return arithInt(k, a.Int(), b.Int())
	case 1:
		return arithDecimal(k, toDecimal(a), toDecimal(b))
	default:
		return arithFloat(k, toFloat(a), toFloat(b))
	}
}

func arithInt(k Kind, a, b int64) (term.Value, bool, error) {
	switch k {
	case KindAdd:
		return term.NewInteger(a + b), true, nil
	case KindSub:
		return term.NewInteger(a - b), true, nil
	case KindMul:
		return term.NewInteger(a * b), true, nil
	default:
		return term.Value{}, false, errors.Errorf("expr: integer division must promote")
	}
}

func arithDecimal(k Kind, a, b decimal.Decimal) (term.Value, bool, error) {
	switch k {
	case KindAdd:
		return term.NewDecimal(a.Add(b)), true, nil
	case KindSub:
		return term.NewDecimal(a.Sub(b)), true, nil
	case KindMul:
		return term.NewDecimal(a.Mul(b)), true, nil
	case KindDiv:
		if b.IsZero() {
			return term.Value{}, false, nil
		}
		return term.NewDecimal(a.Div(b)), true, nil
	}
	return term.Value{}, false, nil
}

func arithFloat(k Kind, a, b float64) (term.Value, bool, error) {
	switch k {
	case KindAdd:
		return term.NewFloating(a + b), true, nil
	case KindSub:
		return term.NewFloating(a - b), true, nil
	case KindMul:
		return term.NewFloating(a * b), true, nil
	case KindDiv:
		return term.NewFloating(a / b), true, nil
	}
	return term.Value{}, false, nil
}

func toDecimal(v term.Value) decimal.Decimal {
	switch v.NumCategory {
	case term.Decimal:
		return v.Dec()
	case term.Integer:
		return decimal.NewFromInt(v.Int())
	default:
		return decimal.NewFromFloat(v.Float())
	}
}

func toFloat(v term.Value) float64 {
	switch v.NumCategory {
	case term.Floating:
		return v.Float()
	case term.Decimal:
		f, _ := v.Dec().Float64()
		return f
	default:
		return float64(v.Int())
	}
}

// lexicalOf renders v's lexical string representation, used by STR,
// LANGMATCHES and REGEX. Interpreted numeric/boolean values without a
// stored lexical form are re-rendered via spf13/cast.
func lexicalOf(v term.Value) (string, error) {
	if v.Lexical.Bytes != nil {
		return string(v.Lexical.Bytes), nil
	}
	if !v.Interpreted() {
		return "", errors.Errorf("expr: no lexical form available")
	}
	switch v.Category {
	case term.Boolean:
		return cast.ToString(v.Bool()), nil
	case term.Numeric:
		switch v.NumCategory {
		case term.Integer:
			return strconv.FormatInt(v.Int(), 10), nil
		case term.Decimal:
			return v.Dec().String(), nil
		default:
			return cast.ToString(v.Float()), nil
		}
	case term.DateTime:
		return v.Time().Format(time.RFC3339), nil
	default:
		return "", errors.Errorf("expr: unsupported category %s for lexical form", v.Category)
	}
}
