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
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/castor-db/castor/ast"
	"github.com/castor-db/castor/constraint"
	"github.com/castor-db/castor/expr"
	"github.com/castor-db/castor/pattern"
	"github.com/castor-db/castor/store"
	"github.com/castor-db/castor/term"
)

func localName(uri string) string {
	if i := strings.LastIndexByte(uri, '#'); i >= 0 {
		return uri[i+1:]
	}
	if i := strings.LastIndexByte(uri, '/'); i >= 0 {
		return uri[i+1:]
	}
	return uri
}

// compileConst builds a term.Value from a parsed literal/URI/blank-node
// constant and resolves it against the store. A constant that resolves to
// id 0 marks its owning pattern False; the caller decides what to do with
// that.
func compileConst(st *store.Store, cv ast.ConstValue) (term.Value, error) {
	var v term.Value
	switch cv.Kind {
	case ast.ConstURI:
		v = term.NewURI(term.NewString([]byte(cv.Lexical)))
	case ast.ConstBlank:
		v = term.NewBlank(term.NewString([]byte(cv.Lexical)))
	case ast.ConstSimpleLiteral:
		v = term.NewSimpleLiteral(term.NewString([]byte(cv.Lexical)))
	case ast.ConstPlainLang:
		v = term.NewPlainLang(term.NewString([]byte(cv.Lexical)), term.NewString([]byte(cv.Tag)))
	case ast.ConstTypedLiteral:
		tv, err := classifyTyped(cv.Lexical, cv.Tag)
		if err != nil {
			return term.Value{}, err
		}
		v = tv
	default:
		return term.Value{}, ErrUnrecognizedConstant.New(cv.Kind)
	}
	if v.Tag.Bytes != nil {
		dt := term.NewURI(v.Tag)
		if err := st.ResolveValue(&dt); err != nil {
			return term.Value{}, err
		}
		v.DatatypeID = dt.ID
	}
	if err := st.ResolveValue(&v); err != nil {
		return term.Value{}, err
	}
	return v, nil
}

// classifyTyped maps a typed literal's datatype URI to the primitive kind
// it denotes, parsing the lexical form accordingly. Datatypes outside the
// recognized set become Category Other: identity-compared only, never
// arithmetically interpreted. An unrecognized cast is a type error, not a
// panic.
func classifyTyped(lexical, datatype string) (term.Value, error) {
	lex := term.NewString([]byte(lexical))
	dt := term.NewString([]byte(datatype))
	switch localName(datatype) {
	case "boolean":
		v := term.NewBoolean(lexical == "true" || lexical == "1")
		v.Lexical, v.Tag = lex, dt
		return v, nil
	case "integer", "int", "long", "short", "byte",
		"nonNegativeInteger", "nonPositiveInteger", "negativeInteger", "positiveInteger",
		"unsignedLong", "unsignedInt", "unsignedShort", "unsignedByte":
		n, err := strconv.ParseInt(lexical, 10, 64)
		if err != nil {
			return term.Value{}, errors.Wrapf(err, "query: parse integer literal %q", lexical)
		}
		v := term.NewInteger(n)
		v.Lexical, v.Tag = lex, dt
		return v, nil
	case "double", "float":
		f, err := strconv.ParseFloat(lexical, 64)
		if err != nil {
			return term.Value{}, errors.Wrapf(err, "query: parse floating literal %q", lexical)
		}
		v := term.NewFloating(f)
		v.Lexical, v.Tag = lex, dt
		return v, nil
	case "decimal":
		d, err := decimal.NewFromString(lexical)
		if err != nil {
			return term.Value{}, errors.Wrapf(err, "query: parse decimal literal %q", lexical)
		}
		v := term.NewDecimal(d)
		v.Lexical, v.Tag = lex, dt
		return v, nil
	case "dateTime":
		t, err := parseDateTime(lexical)
		if err != nil {
			return term.Value{}, errors.Wrapf(err, "query: parse dateTime literal %q", lexical)
		}
		v := term.NewDateTime(term.Temporal{Time: t})
		v.Lexical, v.Tag = lex, dt
		return v, nil
	case "string":
		return term.NewTypedString(lex, dt), nil
	default:
		return term.NewOther(lex, dt), nil
	}
}

func parseDateTime(lexical string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05"} {
		if t, err := time.Parse(layout, lexical); err == nil {
			return t, nil
		}
	}
	return time.Time{}, ErrUnrecognizedDateTime.New(lexical)
}

func (c *compiler) exprVar(name string) *expr.Variable {
	if ev, ok := c.exprVars[name]; ok {
		return ev
	}
	ev := &expr.Variable{Name: name, CP: c.varFor(name), Store: c.store}
	c.exprVars[name] = ev
	return ev
}

// compileExpr translates an ast.Expr into an expr.Expr, resolving every
// literal leaf against the store up front (expr.Post's precondition).
func (c *compiler) compileExpr(e *ast.Expr) (*expr.Expr, error) {
	if e == nil {
		return nil, nil
	}
	switch e.Kind {
	case ast.ExprLiteral:
		v, err := compileConst(c.store, e.Value)
		if err != nil {
			return nil, err
		}
		return expr.NewLiteral(v), nil
	case ast.ExprVar:
		return expr.NewVar(c.exprVar(e.Var.Name)), nil
	case ast.ExprBound:
		x, err := c.compileExpr(e.X)
		if err != nil {
			return nil, err
		}
		return expr.NewUnary(expr.KindBound, x), nil
	case ast.ExprNot:
		return c.compileUnary(expr.KindNot, e.X)
	case ast.ExprPlus:
		return c.compileUnary(expr.KindPlus, e.X)
	case ast.ExprMinus:
		return c.compileUnary(expr.KindMinus, e.X)
	case ast.ExprIsIRI:
		return c.compileUnary(expr.KindIsIRI, e.X)
	case ast.ExprIsBlank:
		return c.compileUnary(expr.KindIsBlank, e.X)
	case ast.ExprIsLiteral:
		return c.compileUnary(expr.KindIsLiteral, e.X)
	case ast.ExprStr:
		return c.compileUnary(expr.KindStr, e.X)
	case ast.ExprLang:
		return c.compileUnary(expr.KindLang, e.X)
	case ast.ExprDatatype:
		return c.compileUnary(expr.KindDatatype, e.X)
	case ast.ExprOr:
		return c.compileBinary(expr.KindOr, e.X, e.Y)
	case ast.ExprAnd:
		return c.compileBinary(expr.KindAnd, e.X, e.Y)
	case ast.ExprEq:
		return c.compileBinary(expr.KindEq, e.X, e.Y)
	case ast.ExprNeq:
		return c.compileBinary(expr.KindNeq, e.X, e.Y)
	case ast.ExprLt:
		return c.compileBinary(expr.KindLt, e.X, e.Y)
	case ast.ExprGt:
		return c.compileBinary(expr.KindGt, e.X, e.Y)
	case ast.ExprLe:
		return c.compileBinary(expr.KindLe, e.X, e.Y)
	case ast.ExprGe:
		return c.compileBinary(expr.KindGe, e.X, e.Y)
	case ast.ExprMul:
		return c.compileBinary(expr.KindMul, e.X, e.Y)
	case ast.ExprDiv:
		return c.compileBinary(expr.KindDiv, e.X, e.Y)
	case ast.ExprAdd:
		return c.compileBinary(expr.KindAdd, e.X, e.Y)
	case ast.ExprSub:
		return c.compileBinary(expr.KindSub, e.X, e.Y)
	case ast.ExprSameTerm:
		return c.compileBinary(expr.KindSameTerm, e.X, e.Y)
	case ast.ExprLangMatches:
		return c.compileBinary(expr.KindLangMatches, e.X, e.Y)
	case ast.ExprRegex:
		text, err := c.compileExpr(e.X)
		if err != nil {
			return nil, err
		}
		pat, err := c.compileExpr(e.Y)
		if err != nil {
			return nil, err
		}
		flags, err := c.compileExpr(e.Z)
		if err != nil {
			return nil, err
		}
		return expr.NewRegex(text, pat, flags), nil
	default:
		return nil, ErrUnrecognizedExpression.New(e.Kind)
	}
}

func (c *compiler) compileUnary(k expr.Kind, x *ast.Expr) (*expr.Expr, error) {
	cx, err := c.compileExpr(x)
	if err != nil {
		return nil, err
	}
	return expr.NewUnary(k, cx), nil
}

func (c *compiler) compileBinary(k expr.Kind, x, y *ast.Expr) (*expr.Expr, error) {
	cx, err := c.compileExpr(x)
	if err != nil {
		return nil, err
	}
	cy, err := c.compileExpr(y)
	if err != nil {
		return nil, err
	}
	return expr.NewBinary(k, cx, cy), nil
}

// compilePattern translates an ast.Pattern into a pattern.Pattern tree,
// applying the Filter(LeftJoin, !BOUND) -> Diff rewrite (pattern.Optimize)
// as each Filter node is built.
func (c *compiler) compilePattern(p *ast.Pattern) (pattern.Pattern, error) {
	switch p.Kind {
	case ast.PatternFalse:
		return pattern.NewFalse(), nil
	case ast.PatternBasic:
		return c.compileBasic(p.Triples)
	case ast.PatternFilter:
		inner, err := c.compilePattern(p.L)
		if err != nil {
			return nil, err
		}
		ce, err := c.compileExpr(p.Expr)
		if err != nil {
			return nil, err
		}
		if opt, ok := pattern.Optimize(inner, ce); ok {
			return opt, nil
		}
		return pattern.NewFilter(c.store, inner, ce)
	case ast.PatternJoin:
		l, err := c.compilePattern(p.L)
		if err != nil {
			return nil, err
		}
		r, err := c.compilePattern(p.R)
		if err != nil {
			return nil, err
		}
		return pattern.NewJoin(l, r), nil
	case ast.PatternLeftJoin:
		l, err := c.compilePattern(p.L)
		if err != nil {
			return nil, err
		}
		r, err := c.compilePattern(p.R)
		if err != nil {
			return nil, err
		}
		return pattern.NewLeftJoin(l, r), nil
	case ast.PatternDiff:
		l, err := c.compilePattern(p.L)
		if err != nil {
			return nil, err
		}
		r, err := c.compilePattern(p.R)
		if err != nil {
			return nil, err
		}
		return pattern.NewDiff(l, r), nil
	case ast.PatternUnion:
		l, err := c.compilePattern(p.L)
		if err != nil {
			return nil, err
		}
		r, err := c.compilePattern(p.R)
		if err != nil {
			return nil, err
		}
		return pattern.NewUnion(l, r), nil
	default:
		return nil, ErrUnrecognizedPattern.New(p.Kind)
	}
}

// compileBasic resolves every constant in triples against the store; if
// any resolves to 0 (absent from store), the whole basic graph pattern
// becomes False, since an AND'd impossible triple makes the conjunction
// unsatisfiable.
func (c *compiler) compileBasic(triples []ast.TriplePattern) (pattern.Pattern, error) {
	compiled := make([]pattern.Triple, 0, len(triples))
	for _, tp := range triples {
		s, sAbsent, err := c.constSlot(tp.S)
		if err != nil {
			return nil, err
		}
		p, pAbsent, err := c.constSlot(tp.P)
		if err != nil {
			return nil, err
		}
		o, oAbsent, err := c.constSlot(tp.O)
		if err != nil {
			return nil, err
		}
		if sAbsent || pAbsent || oAbsent {
			return pattern.NewFalse(), nil
		}
		compiled = append(compiled, pattern.Triple{S: s, P: p, O: o})
	}
	b := pattern.NewBasic(c.store, c.solver, compiled)
	if c.opts.SearchStepBudget > 0 {
		b.SetStepBudget(c.opts.SearchStepBudget)
	}
	return b, nil
}

// constSlot builds a term's Slot, reporting absent=true when a constant
// component resolves to id 0.
func (c *compiler) constSlot(t ast.Term) (slot constraint.Slot, absent bool, err error) {
	if t.Kind == ast.TermVar {
		return constraint.VarSlot(c.varFor(t.Var.Name)), false, nil
	}
	v, err := compileConst(c.store, t.Value)
	if err != nil {
		return constraint.Slot{}, false, err
	}
	if v.ID == 0 {
		return constraint.Slot{}, true, nil
	}
	return constraint.ConstSlot(uint32(v.ID)), false, nil
}
