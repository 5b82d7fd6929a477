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
	"github.com/castor-db/castor/constraint"
	"github.com/castor-db/castor/fd"
	"github.com/castor-db/castor/solver"
	"github.com/castor-db/castor/store"
	"github.com/castor-db/castor/term"
)

// Post builds the constraint e reifies into: the default is a reified
// Filter over the whole expression, with tighter overrides for negation,
// conjunction, equality/inequality, ordering and SAMETERM whenever their
// operands are simple enough (a variable, or a constant already resolved
// against st) to avoid ever enumerating a variable's full domain.
//
// Precondition: every KindLiteral leaf reachable from e has already been
// resolved against st (Lit.ID is either a concrete id or 0 for "absent
// from store"), which is query.compileExpr's responsibility.
func (e *Expr) Post(st *store.Store) (solver.Constraint, error) {
	switch e.Kind {
	case KindNot:
		return e.postNot(st)
	case KindAnd:
		return e.postAnd(st)
	case KindEq:
		return e.postEquality(st, false)
	case KindNeq:
		return e.postEquality(st, true)
	case KindLt, KindGt, KindLe, KindGe:
		return e.postOrder(st)
	case KindSameTerm:
		return e.postSameTerm(st)
	default:
		return constraint.NewFilter(e), nil
	}
}

// classify reports how an operand participates in a specialized posting:
// a *fd.Variable for a bare variable reference, or a resolved constant id
// (absent=true when the literal is known not to exist in the store at
// all, i.e. it resolved to id 0).
func classify(x *Expr) (v *fd.Variable, id term.ValueID, absent bool) {
	switch x.Kind {
	case KindVar:
		return x.Var.CP, 0, false
	case KindLiteral:
		if !x.Lit.ID.Valid() {
			return nil, 0, true
		}
		return nil, x.Lit.ID, false
	default:
		return nil, 0, false
	}
}

func invert(x *Expr) (*Expr, bool) {
	switch x.Kind {
	case KindEq:
		return NewBinary(KindNeq, x.X, x.Y), true
	case KindNeq:
		return NewBinary(KindEq, x.X, x.Y), true
	case KindLt:
		return NewBinary(KindGe, x.X, x.Y), true
	case KindGt:
		return NewBinary(KindLe, x.X, x.Y), true
	case KindLe:
		return NewBinary(KindGt, x.X, x.Y), true
	case KindGe:
		return NewBinary(KindLt, x.X, x.Y), true
	default:
		return nil, false
	}
}

func (e *Expr) postNot(st *store.Store) (solver.Constraint, error) {
	inv, ok := invert(e.X)
	if !ok {
		return constraint.NewFilter(e), nil
	}
	return inv.Post(st)
}

func (e *Expr) postAnd(st *store.Store) (solver.Constraint, error) {
	a, err := e.X.Post(st)
	if err != nil {
		return nil, err
	}
	b, err := e.Y.Post(st)
	if err != nil {
		return nil, err
	}
	return constraint.NewAnd(a, b), nil
}

func (e *Expr) postEquality(st *store.Store, neq bool) (solver.Constraint, error) {
	xVar, xID, xAbsent := classify(e.X)
	yVar, yID, yAbsent := classify(e.Y)
	switch {
	case xVar != nil && yVar != nil:
		if neq {
			return constraint.NewVarDiff(st, xVar, yVar), nil
		}
		return constraint.NewVarEq(st, xVar, yVar), nil
	case xVar != nil && yVar == nil:
		return constEquality(st, xVar, yID, yAbsent, neq)
	case xVar == nil && yVar != nil:
		return constEquality(st, yVar, xID, xAbsent, neq)
	default:
		return constraint.NewFilter(e), nil
	}
}

// constEquality specializes "var == const" / "var != const": an absent
// constant makes == unconditionally false and != unconditionally true,
// without ever touching the variable's domain.
func constEquality(st *store.Store, v *fd.Variable, id term.ValueID, absent, neq bool) (solver.Constraint, error) {
	if absent {
		if neq {
			return constraint.NewTrue(), nil
		}
		return constraint.NewFalse(), nil
	}
	if neq {
		return constraint.NewVarDiffConst(st, v, id)
	}
	return constraint.NewVarEqConst(st, v, id)
}

// postOrder handles <, >, <=, >= by normalizing Gt/Ge to Lt/Le over
// swapped operands, then specializing on which side is a bare variable.
func (e *Expr) postOrder(st *store.Store) (solver.Constraint, error) {
	x, y := e.X, e.Y
	equality := e.Kind == KindLe || e.Kind == KindGe
	if e.Kind == KindGt || e.Kind == KindGe {
		x, y = y, x
	}
	xVar, xID, xAbsent := classify(x)
	yVar, yID, yAbsent := classify(y)
	if xAbsent || yAbsent {
		return constraint.NewFalse(), nil
	}
	switch {
	case xVar != nil && yVar != nil:
		return constraint.NewVarLess(xVar, yVar, equality), nil
	case xVar != nil && yVar == nil:
		bound := int(yID)
		if !equality {
			bound--
		}
		return constraint.NewConstLE(xVar, bound), nil
	case xVar == nil && yVar != nil:
		bound := int(xID)
		if !equality {
			bound++
		}
		return constraint.NewConstGE(yVar, bound), nil
	default:
		return constraint.NewFilter(e), nil
	}
}

func (e *Expr) postSameTerm(st *store.Store) (solver.Constraint, error) {
	xVar, xID, xAbsent := classify(e.X)
	yVar, yID, yAbsent := classify(e.Y)
	if xAbsent || yAbsent {
		return constraint.NewFalse(), nil
	}
	switch {
	case xVar != nil && yVar != nil:
		return constraint.NewVarSameTerm(xVar, yVar), nil
	case xVar != nil && yVar == nil:
		return constraint.NewInRange(xVar, int(yID), int(yID)), nil
	case xVar == nil && yVar != nil:
		return constraint.NewInRange(yVar, int(xID), int(xID)), nil
	default:
		return constraint.NewFilter(e), nil
	}
}
