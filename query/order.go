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
	"github.com/castor-db/castor/ast"
	"github.com/castor-db/castor/constraint"
	"github.com/castor-db/castor/expr"
	"github.com/castor-db/castor/fd"
	"github.com/castor-db/castor/term"
)

// orderSpec is one compiled ORDER BY key: either a bare requested variable
// (compared by value id directly, since id order tracks XPath order within
// any comparable category) or a general expression (compared via
// term.Compare on its captured value).
type orderSpec struct {
	v    *fd.Variable
	e    *expr.Expr
	desc bool
}

func (o orderSpec) vars() []*fd.Variable {
	if o.v != nil {
		return []*fd.Variable{o.v}
	}
	return o.e.Vars()
}

func (o orderSpec) toConstraintKey() constraint.OrderKey {
	return constraint.OrderKey{Var: o.v, Expr: o.e, Desc: o.desc}
}

func (o orderSpec) capture() constraint.SolutionKey {
	if o.v != nil {
		return constraint.SolutionKey{ID: term.ValueID(o.v.Value())}
	}
	val, _ := o.e.Value()
	return constraint.SolutionKey{Value: val}
}

// compare returns -1/0/1 for a versus b under this key's own direction
// (so the caller never has to special-case desc).
func (o orderSpec) compare(a, b constraint.SolutionKey) int {
	var raw int
	if o.v != nil {
		switch {
		case a.ID < b.ID:
			raw = -1
		case a.ID > b.ID:
			raw = 1
		}
	} else {
		switch term.Compare(a.Value, b.Value) {
		case term.Less:
			raw = -1
		case term.Greater:
			raw = 1
		}
	}
	if o.desc {
		return -raw
	}
	return raw
}

// compareRows orders two captured key vectors by the first key that
// differs, per specs' declared directions.
func compareRows(specs []orderSpec, a, b []constraint.SolutionKey) int {
	for i, spec := range specs {
		if c := spec.compare(a[i], b[i]); c != 0 {
			return c
		}
	}
	return 0
}

// bufRow is one buffered solution in ORDER BY mode: the requested
// variables' raw CP ids (0 = unbound) at the moment the solution was
// found, plus its order-key vector for comparison against later rows.
type bufRow struct {
	ids  []int
	keys []constraint.SolutionKey
}

// insertSorted inserts row into buf, kept ascending per specs' directions,
// and returns the updated slice.
func insertSorted(specs []orderSpec, buf []bufRow, row bufRow) []bufRow {
	i := len(buf)
	for i > 0 && compareRows(specs, row.keys, buf[i-1].keys) < 0 {
		i--
	}
	buf = append(buf, bufRow{})
	copy(buf[i+1:], buf[i:])
	buf[i] = row
	return buf
}

// compileOrderBy translates the query's ORDER BY keys, recognizing a bare
// variable reference so its comparisons (and the BnBOrderConstraint bounds
// built from it) go through the cheap id-order path instead of a full
// expression evaluation.
func compileOrderBy(c *compiler, keys []ast.OrderKey) ([]orderSpec, error) {
	specs := make([]orderSpec, 0, len(keys))
	for _, k := range keys {
		ce, err := c.compileExpr(k.Expr)
		if err != nil {
			return nil, err
		}
		if ce.Kind == expr.KindVar {
			specs = append(specs, orderSpec{v: ce.Var.CP, desc: k.Desc})
			continue
		}
		specs = append(specs, orderSpec{e: ce, desc: k.Desc})
	}
	return specs, nil
}
