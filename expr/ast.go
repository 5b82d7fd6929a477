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

// Package expr implements Castor's SPARQL expression evaluator: the
// evaluate/evaluateEBV pair and the constraint-posting specialization
// table.
package expr

import (
	"github.com/castor-db/castor/fd"
	"github.com/castor-db/castor/store"
	"github.com/castor-db/castor/term"
)

// Kind enumerates every expression node this evaluator supports.
type Kind uint8

const (
	KindLiteral Kind = iota
	KindVar
	KindBound
	KindNot
	KindPlus  // unary +
	KindMinus // unary -
	KindIsIRI
	KindIsBlank
	KindIsLiteral
	KindStr
	KindLang
	KindDatatype
	KindOr
	KindAnd
	KindEq
	KindNeq
	KindLt
	KindGt
	KindLe
	KindGe
	KindMul
	KindDiv
	KindAdd
	KindSub
	KindSameTerm
	KindLangMatches
	KindRegex
)

// Variable is a query variable as the evaluator sees it: its live CP
// domain variable (id 0 reserved for "unbound", per the LeftJoin
// convention) and the store used to resolve its bound value into a
// term.Value.
type Variable struct {
	Name  string
	CP    *fd.Variable
	Store *store.Store
}

// isBound reports whether v currently has a definite, non-sentinel value,
// consulting override first so Filter's single-unbound-variable forward
// check can probe tentative values without mutating the CP variable.
func (v *Variable) isBound(override map[*fd.Variable]int) (int, bool) {
	if override != nil {
		if val, ok := override[v.CP]; ok {
			return val, val != 0
		}
	}
	if !v.CP.IsBound() {
		return 0, false
	}
	val := v.CP.Value()
	return val, val != 0
}

func (v *Variable) resolve(override map[*fd.Variable]int) (term.Value, bool, error) {
	id, ok := v.isBound(override)
	if !ok {
		return term.Value{}, false, nil
	}
	val, err := v.Store.LookupValue(term.ValueID(id))
	if err != nil {
		return term.Value{}, false, err
	}
	val, err = v.Store.Interpret(val)
	if err != nil {
		return term.Value{}, false, err
	}
	return val, true, nil
}

// Expr is a SPARQL expression tree node. Exactly one of Lit/Var/(X[,Y[,Z]])
// is meaningful, selected by Kind.
type Expr struct {
	Kind Kind

	Lit term.Value
	Var *Variable

	X, Y, Z *Expr
}

// NewLiteral builds a constant-valued leaf.
func NewLiteral(v term.Value) *Expr { return &Expr{Kind: KindLiteral, Lit: v} }

// NewVar builds a variable-reference leaf.
func NewVar(v *Variable) *Expr { return &Expr{Kind: KindVar, Var: v} }

// NewUnary builds a one-operand node (Not, Plus, Minus, IsIRI, IsBlank,
// IsLiteral, Str, Lang, Datatype, Bound).
func NewUnary(k Kind, x *Expr) *Expr { return &Expr{Kind: k, X: x} }

// NewBinary builds a two-operand node.
func NewBinary(k Kind, x, y *Expr) *Expr { return &Expr{Kind: k, X: x, Y: y} }

// NewRegex builds a REGEX(text, pattern[, flags]) node; z is nil when no
// flags argument was given.
func NewRegex(text, pattern, flags *Expr) *Expr {
	return &Expr{Kind: KindRegex, X: text, Y: pattern, Z: flags}
}

// Vars collects every distinct variable e (transitively) reads, in a
// stable first-encountered order. Satisfies constraint.BoolExpr's and
// constraint.OrderExpr's Vars method.
func (e *Expr) Vars() []*fd.Variable {
	seen := make(map[*fd.Variable]bool)
	var out []*fd.Variable
	var walk func(*Expr)
	walk = func(n *Expr) {
		if n == nil {
			return
		}
		if n.Kind == KindVar && !seen[n.Var.CP] {
			seen[n.Var.CP] = true
			out = append(out, n.Var.CP)
		}
		walk(n.X)
		walk(n.Y)
		walk(n.Z)
	}
	walk(e)
	return out
}
