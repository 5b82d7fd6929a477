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

package constraint

import (
	"github.com/castor-db/castor/fd"
	"github.com/castor-db/castor/term"
)

// BoolExpr is the minimal surface Filter needs from a SPARQL expression
// tree to evaluate it under a partial binding. It is defined here, not
// imported from package expr, so that expr can depend on constraint (to
// build the constraints its Post specializations return) without a cycle:
// expr.Expr satisfies this interface structurally.
type BoolExpr interface {
	// EvaluateEBV computes the expression's effective boolean value, with
	// override supplying a tentative value (by CP variable) for variables
	// still unbound in the underlying store-backed binding.
	EvaluateEBV(override map[*fd.Variable]int) term.Truth
	// Vars returns every CP variable the expression reads.
	Vars() []*fd.Variable
}

// Filter is the reified fallback for any boolean expression the expr
// package's Post specialization table doesn't recognize: it reduces to
// member checking when every referenced variable is bound, is inert while
// two or more remain unbound, and forward-checks the single remaining
// unbound variable's domain otherwise.
type Filter struct {
	Base
	expr BoolExpr
	vars []*fd.Variable
}

// NewFilter builds the constraint over e, registering on every variable e
// reads.
func NewFilter(e BoolExpr) *Filter {
	vars := e.Vars()
	c := &Filter{Base: NewBase(fd.PriorityLow), expr: e, vars: vars}
	for _, v := range vars {
		v.RegisterChange(c)
	}
	return c
}

func (c *Filter) Post() (bool, error) { return c.Propagate() }

func (c *Filter) unbound() *fd.Variable {
	var found *fd.Variable
	for _, v := range c.vars {
		if v.IsBound() {
			continue
		}
		if found != nil {
			return nil // more than one unbound
		}
		found = v
	}
	return found
}

func (c *Filter) unboundCount() int {
	n := 0
	for _, v := range c.vars {
		if !v.IsBound() {
			n++
		}
	}
	return n
}

func (c *Filter) Propagate() (bool, error) {
	switch c.unboundCount() {
	case 0:
		ok := c.expr.EvaluateEBV(nil) == term.True
		c.setDone()
		return ok, nil
	case 1:
		return c.forwardCheck(), nil
	default:
		return true, nil
	}
}

// forwardCheck restricts the single unbound variable to the values that
// make the expression true, snapshotting its domain first since Mark
// mutates the same backing slice RestrictToMarks later reads.
func (c *Filter) forwardCheck() bool {
	x := c.unbound()
	if x == nil {
		return true
	}
	candidates := append([]int(nil), x.Domain()...)
	for _, v := range candidates {
		override := map[*fd.Variable]int{x: v}
		if c.expr.EvaluateEBV(override) == term.True {
			x.Mark(v)
		}
	}
	return x.RestrictToMarks()
}
