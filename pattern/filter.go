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

package pattern

import (
	"github.com/castor-db/castor/expr"
	"github.com/castor-db/castor/fd"
	"github.com/castor-db/castor/store"
	"github.com/castor-db/castor/term"
)

// Filter wraps p with a SPARQL FILTER expression e. When p is a *Basic,
// the expression is compiled straight into p's subtree as an extra
// constraint (via e.Post) instead of being re-evaluated after every Next;
// otherwise Filter loops p.Next until e's effective boolean value is true.
type Filter struct {
	p Pattern
	e *expr.Expr

	pushed bool // true once e has been posted into a *Basic's own subtree
}

// NewFilter builds the Filter(p, e) pattern, pushing e into p's subtree
// when p is a *Basic.
func NewFilter(st *store.Store, p Pattern, e *expr.Expr) (*Filter, error) {
	f := &Filter{p: p, e: e}
	if b, ok := p.(*Basic); ok {
		c, err := e.Post(st)
		if err != nil {
			return nil, err
		}
		b.AddConstraint(c)
		f.pushed = true
	}
	return f, nil
}

func (f *Filter) Init() error { return f.p.Init() }

func (f *Filter) Next() (bool, error) {
	if f.pushed {
		return f.p.Next()
	}
	for {
		ok, err := f.p.Next()
		if err != nil || !ok {
			return ok, err
		}
		if f.e.EvaluateEBV(nil) == term.True {
			return true, nil
		}
	}
}

func (f *Filter) Discard() { f.p.Discard() }

func (f *Filter) Vars() []*fd.Variable  { return f.p.Vars() }
func (f *Filter) CVars() []*fd.Variable { return f.p.CVars() }

// Optimize rewrites Filter(LeftJoin(l, r), !BOUND(x)) into Diff(l, r) when
// x is in r's certain variables but not in l's variables, and reports
// whether the rewrite applied. Callers should use the returned pattern in
// place of constructing a Filter at all.
func Optimize(p Pattern, e *expr.Expr) (Pattern, bool) {
	lj, ok := p.(*LeftJoin)
	if !ok {
		return nil, false
	}
	if e.Kind != expr.KindNot || e.X == nil || e.X.Kind != expr.KindBound {
		return nil, false
	}
	ref := e.X.X
	if ref == nil || ref.Kind != expr.KindVar {
		return nil, false
	}
	x := ref.Var.CP
	if containsVar(lj.r.CVars(), x) && !containsVar(lj.l.Vars(), x) {
		return NewDiff(lj.l, lj.r), true
	}
	return nil, false
}
