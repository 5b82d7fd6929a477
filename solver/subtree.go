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

package solver

import (
	"github.com/opentracing/opentracing-go"
	uuid "github.com/satori/go.uuid"

	"github.com/castor-db/castor/fd"
)

// Subtree is a nested CP search space: a list of variables with a
// pre-allocated trail, and a priority-keyed list of scoped constraints.
type Subtree struct {
	solver *Solver
	id     uuid.UUID

	vars   []*fd.Variable
	trail  *fd.Trail
	scoped [fd.NumPriorities][]Constraint

	// decisionAt[depth] records which variable Search bound to reach that
	// depth, nil at the root checkpoint (depth 0). Its length always
	// matches trail.Depth().
	decisionAt []*fd.Variable

	// StepBudget caps the number of decision-variable branches Search may
	// take across one activation before it fails with
	// ErrStepBudgetExceeded. Zero means unlimited. Reset to 0 by NewSubtree.
	StepBudget int
	steps      int

	prevActive   *Subtree
	started      bool
	inconsistent bool
}

// NewSubtree builds an empty subtree owned by s.
func NewSubtree(s *Solver) *Subtree {
	return &Subtree{solver: s, id: uuid.NewV4()}
}

// AddVar registers v as one of this subtree's variables, trailed across
// backtracks. Only variables added here participate in the subtree's
// search: callers add every CP variable the subtree's constraints touch, so
// they're all searched over by smallest-remaining-domain order.
func (t *Subtree) AddVar(v *fd.Variable) {
	t.vars = append(t.vars, v)
}

// AddConstraint registers c as one of this subtree's scoped constraints, at
// its own declared priority.
func (t *Subtree) AddConstraint(c Constraint) {
	t.scoped[c.Priority()] = append(t.scoped[c.Priority()], c)
}

// Activate runs the subtree's activation protocol: lazily allocate the
// trail, save the previously active subtree, fold in any new static
// constraints, then post this subtree's own scoped constraints.
func (t *Subtree) Activate() (bool, error) {
	if t.trail == nil {
		t.trail = fd.NewTrail(t.vars)
	}
	t.prevActive = t.solver.setActive(nil)

	span := opentracing.StartSpan("subtree.activate")
	defer span.Finish()

	t.trail.Push() // root checkpoint: trailIndex 0, no decision variable
	t.decisionAt = append(t.decisionAt[:0], nil)

	ok, err := t.solver.PostStatic()
	if err != nil {
		t.solver.setActive(t.prevActive)
		return false, err
	}
	if !ok {
		t.solver.setActive(t.prevActive)
		t.inconsistent = true
		t.started = false
		return false, nil
	}

	t.solver.setActive(t)
	ok, err = t.solver.PostScoped(t.scoped)
	t.inconsistent = !ok
	t.started = false
	return ok, err
}

// Discard restores the previously active subtree, ending this subtree's
// search scope without unwinding its trail (callers that want a fresh
// search from the root call Activate again, which re-pushes the root
// checkpoint and re-posts from scratch).
func (t *Subtree) Discard() {
	t.solver.setActive(t.prevActive)
}

// Search drives depth-first search to the next solution, returning false
// once every alternative is exhausted. The first call after Activate begins
// a fresh search; subsequent calls backtrack from the previous solution
// first.
func (t *Subtree) Search() (bool, error) {
	if t.inconsistent {
		t.Discard()
		return false, nil
	}
	if t.started {
		ok, err := t.backtrack()
		if err != nil || !ok {
			return ok, err
		}
	} else {
		t.started = true
	}

	for {
		x := t.pickDecisionVar()
		if x == nil {
			return true, nil
		}
		if t.StepBudget > 0 {
			t.steps++
			if t.steps > t.StepBudget {
				return false, ErrStepBudgetExceeded.New()
			}
		}
		t.trail.Push()
		t.decisionAt = append(t.decisionAt, x)
		x.Select()
		ok, err := t.solver.Propagate()
		if err != nil {
			return false, err
		}
		if ok {
			continue
		}
		ok, err = t.backtrack()
		if err != nil || !ok {
			return ok, err
		}
	}
}

// pickDecisionVar returns the unbound variable with the smallest domain, or
// nil if every variable is already bound (a solution).
func (t *Subtree) pickDecisionVar() *fd.Variable {
	var best *fd.Variable
	for _, v := range t.vars {
		if v.IsBound() {
			continue
		}
		if best == nil || v.Size() < best.Size() {
			best = v
		}
	}
	return best
}

// backtrack pops the most recent checkpoint, restores every variable's
// trailed state, flushes the queue, resets every scoped constraint's done
// flag, excludes the decision value that was just tried, and re-propagates;
// it recurses (popping further) until that succeeds or the trail is
// exhausted.
func (t *Subtree) backtrack() (bool, error) {
	for {
		if len(t.decisionAt) <= 1 {
			return false, nil
		}
		t.trail.Pop()
		x := t.decisionAt[len(t.decisionAt)-1]
		t.decisionAt = t.decisionAt[:len(t.decisionAt)-1]

		t.solver.ClearQueue()
		for _, group := range t.scoped {
			for _, c := range group {
				c.Restore()
			}
		}
		if !x.Unselect() {
			continue
		}
		ok, err := t.solver.PostStatic()
		if err != nil {
			return false, err
		}
		if !ok {
			continue
		}
		ok, err = t.solver.Propagate()
		if err != nil {
			return false, err
		}
		if ok {
			return true, nil
		}
	}
}
