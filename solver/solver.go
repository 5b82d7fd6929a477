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

// Package solver implements Castor's propagation engine: priority-queued
// constraint propagation over static (query-lifetime) and scoped
// (subtree-lifetime) constraints.
package solver

import (
	"github.com/hashicorp/go-multierror"
	"github.com/sirupsen/logrus"

	"github.com/castor-db/castor/fd"
)

// Constraint is the full lifecycle contract a catalog constraint
// implements: Post runs once when the constraint (re-)enters scope and
// performs its first propagation pass; Propagate runs on every subsequent
// wake-up from the priority queue; Restore resets any state (in particular
// the done flag) that must not survive a backtrack past this constraint's
// owning scope. Embeds fd.Constraint so a Constraint can be registered
// directly on a Variable's event lists.
type Constraint interface {
	fd.Constraint
	Post() (bool, error)
	Propagate() (bool, error)
	Restore()
	// Done reports whether further propagation is currently pointless (e.g.
	// a Triple constraint with at most one unbound slot left, already
	// forward-checked). The solver skips done constraints when enqueuing.
	Done() bool
}

type staticEntry struct {
	c     Constraint
	stamp int64
}

// Solver owns the priority propagation queues and the pool of
// query-lifetime static constraints, and tracks which subtree is currently
// active so nested subtree activation can save/restore it.
type Solver struct {
	queues [fd.NumPriorities][]Constraint
	queued map[Constraint]bool

	static       []staticEntry
	tsNext       int64
	tsLastStatic int64
	tsCurrent    int64

	active *Subtree
}

// New builds an empty solver.
func New() *Solver {
	return &Solver{queued: make(map[Constraint]bool)}
}

// Add registers c as a static (query-lifetime) constraint, stamping it with
// the next timestamp so a subtree activating after this call will fold it
// in via PostStatic.
func (s *Solver) Add(c Constraint) {
	s.tsNext++
	s.static = append(s.static, staticEntry{c: c, stamp: s.tsNext})
	s.tsLastStatic = s.tsNext
}

// Refresh re-stamps c, used by constraints whose state changed externally
// (Distinct after a solution is recorded, BnBOrderConstraint after the
// bound solution improves) so the next subtree activation replays it.
func (s *Solver) Refresh(c Constraint) {
	for i := range s.static {
		if s.static[i].c == c {
			s.tsNext++
			s.static[i].stamp = s.tsNext
			s.tsLastStatic = s.tsNext
			return
		}
	}
}

// Enqueue implements fd.Enqueuer: pushes every not-done, not-already-queued
// listener onto its priority queue, in the order given (registration
// order), preserving FIFO order within a priority.
func (s *Solver) Enqueue(list []fd.Constraint) {
	for _, fc := range list {
		c, ok := fc.(Constraint)
		if !ok || c.Done() || s.queued[c] {
			continue
		}
		s.queued[c] = true
		p := c.Priority()
		s.queues[p] = append(s.queues[p], c)
	}
}

// ClearQueue flushes every priority queue, restoring "unqueued" bookkeeping.
// Called after a propagation failure so the next post/propagate round
// starts clean.
func (s *Solver) ClearQueue() {
	for p := range s.queues {
		for _, c := range s.queues[p] {
			delete(s.queued, c)
		}
		s.queues[p] = s.queues[p][:0]
	}
}

// Propagate drains the queues strictly by priority, restarting from the
// highest non-empty queue after every successful pop: a HIGH-priority
// constraint enqueued as a side effect of a LOW-priority one's propagation
// always runs before any further LOW work.
func (s *Solver) Propagate() (bool, error) {
	for {
		p := -1
		for i := range s.queues {
			if len(s.queues[i]) > 0 {
				p = i
				break
			}
		}
		if p < 0 {
			return true, nil
		}
		c := s.queues[p][0]
		s.queues[p] = s.queues[p][1:]
		delete(s.queued, c)
		ok, err := c.Propagate()
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
	}
}

// PostStatic folds in every static constraint added or refreshed since the
// last call (stamp > the solver's current high-water mark), then runs one
// propagation fixpoint. Post failures are collected (not short-circuited)
// so a Trace-level diagnostic can name every constraint that rejected the
// current state.
func (s *Solver) PostStatic() (bool, error) {
	var merr error
	ok := true
	for i := range s.static {
		if s.static[i].stamp <= s.tsCurrent {
			continue
		}
		res, err := s.static[i].c.Post()
		if err != nil {
			merr = multierror.Append(merr, err)
			ok = false
			continue
		}
		if !res {
			ok = false
		}
	}
	s.tsCurrent = s.tsLastStatic
	if !ok {
		if merr != nil {
			logrus.WithError(merr).Trace("solver: static constraint post failed")
		}
		return false, nil
	}
	return s.Propagate()
}

// PostScoped posts a subtree's scoped constraints in strict priority order:
// every HIGH constraint's Post() runs and is propagated to a fixpoint
// before any MEDIUM constraint posts, and so on.
func (s *Solver) PostScoped(lists [fd.NumPriorities][]Constraint) (bool, error) {
	for _, group := range lists {
		for _, c := range group {
			ok, err := c.Post()
			if err != nil {
				return false, err
			}
			if !ok {
				return false, nil
			}
		}
		ok, err := s.Propagate()
		if err != nil || !ok {
			return ok, err
		}
	}
	return true, nil
}

// setActive swaps in t as the active subtree and returns the previous one,
// so activation can restore it on discard (nested subtrees).
func (s *Solver) setActive(t *Subtree) *Subtree {
	prev := s.active
	s.active = t
	return prev
}

// Active returns the currently active subtree, or nil at the root.
func (s *Solver) Active() *Subtree { return s.active }
