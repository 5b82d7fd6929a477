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
	"github.com/castor-db/castor/constraint"
	"github.com/castor-db/castor/fd"
	"github.com/castor-db/castor/solver"
	"github.com/castor-db/castor/store"
)

// Triple is one line of a basic graph pattern, already resolved against a
// store: each component is either a CP variable slot or a constant value
// id.
type Triple struct {
	S, P, O constraint.Slot
}

// Basic is a basic graph pattern: it owns one CP subtree seeded with a
// BoundVariable and Triple constraint per pattern line, for every distinct
// variable appearing in its triples.
type Basic struct {
	store   *store.Store
	solver  *solver.Solver
	triples []Triple
	vars    []*fd.Variable

	extra []solver.Constraint // pushed in by Filter's push-down optimization

	stepBudget int // 0 = unlimited; see SetStepBudget

	subtree   *solver.Subtree
	activated bool
}

// NewBasic builds a basic graph pattern over triples, deriving its
// variable set from every distinct *fd.Variable slot referenced.
func NewBasic(st *store.Store, sv *solver.Solver, triples []Triple) *Basic {
	b := &Basic{store: st, solver: sv, triples: triples}
	for _, t := range triples {
		for _, s := range []constraint.Slot{t.S, t.P, t.O} {
			if s.Var != nil && !containsVar(b.vars, s.Var) {
				b.vars = append(b.vars, s.Var)
			}
		}
	}
	return b
}

// AddConstraint appends a constraint this pattern's subtree posts
// alongside its own Triple constraints, used by Filter to push a reified
// expression constraint directly into a Basic's subtree instead of
// wrapping it.
func (b *Basic) AddConstraint(c solver.Constraint) {
	b.extra = append(b.extra, c)
}

// SetStepBudget caps the number of decision-variable branches this
// pattern's subtree may take per activation (castor.Config.SearchStepBudget).
// Zero (the default) leaves the subtree unbounded.
func (b *Basic) SetStepBudget(n int) {
	b.stepBudget = n
}

func (b *Basic) Vars() []*fd.Variable  { return b.vars }
func (b *Basic) CVars() []*fd.Variable { return b.vars }

// Init is a no-op: the subtree is built lazily on first Next so that
// AddConstraint (called by Filter during the same compile pass, before any
// Next) still has a chance to register before construction.
func (b *Basic) Init() error { return nil }

func (b *Basic) build() {
	t := solver.NewSubtree(b.solver)
	t.StepBudget = b.stepBudget
	for _, v := range b.vars {
		t.AddVar(v)
		t.AddConstraint(constraint.NewBoundVariable(v))
	}
	for _, tp := range b.triples {
		t.AddConstraint(constraint.NewTriple(b.store, tp.S, tp.P, tp.O))
	}
	for _, c := range b.extra {
		t.AddConstraint(c)
	}
	b.subtree = t
}

// Next activates the subtree on the first call and searches it; later
// calls simply continue the search.
func (b *Basic) Next() (bool, error) {
	if !b.activated {
		b.build()
		b.activated = true
		ok, err := b.subtree.Activate()
		if err != nil || !ok {
			return ok, err
		}
	}
	return b.subtree.Search()
}

// Discard ends the current activation. A later Next rebuilds the subtree
// from scratch, which is the simplest way to give a fresh trail/root
// checkpoint to a Basic pattern that is re-run many times (e.g. as the
// right side of a Join).
func (b *Basic) Discard() {
	if b.activated {
		b.subtree.Discard()
	}
	b.activated = false
	b.subtree = nil
}
