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

// OrderExpr is the minimal surface BnBOrderConstraint needs from an
// expression-valued ORDER BY key. Defined here rather than imported from
// package expr for the same reason as BoolExpr (see filter.go):
// expr.Expr satisfies it structurally.
type OrderExpr interface {
	// Value returns the expression's current value under the live
	// binding, and false if it isn't yet fully determined.
	Value() (term.Value, bool)
	Vars() []*fd.Variable
}

// OrderKey is one ORDER BY term: either a bare requested variable or a
// computed expression, with a descending flag.
type OrderKey struct {
	Var  *fd.Variable
	Expr OrderExpr
	Desc bool
}

func (k OrderKey) vars() []*fd.Variable {
	if k.Var != nil {
		return []*fd.Variable{k.Var}
	}
	return k.Expr.Vars()
}

// SolutionKey captures one ORDER BY column's value at the moment a
// solution was produced, for comparison against the next candidate.
type SolutionKey struct {
	ID    term.ValueID
	Value term.Value
}

// Solution is a full ORDER BY key vector captured from a found solution.
type Solution struct {
	Keys []SolutionKey
}

// BnBOrderConstraint implements ORDER BY + LIMIT by branch-and-bound
// pruning: once LIMIT solutions are buffered, it rejects (or forward-checks,
// when exactly one relevant variable remains unbound) any further search
// state that cannot beat the worst buffered solution on every order key in
// turn.
type BnBOrderConstraint struct {
	Base
	keys  []OrderKey
	bound *Solution
}

// NewBnBOrderConstraint builds the constraint over the query's ORDER BY
// key list, registering on every variable any key reads.
func NewBnBOrderConstraint(keys []OrderKey) *BnBOrderConstraint {
	c := &BnBOrderConstraint{Base: NewBase(fd.PriorityMedium), keys: keys}
	for _, k := range keys {
		for _, v := range k.vars() {
			v.RegisterChange(c)
		}
	}
	return c
}

func (c *BnBOrderConstraint) Post() (bool, error) { return true, nil }

// UpdateBound records the worst solution currently held in the query's
// LIMIT-sized buffer: once that buffer is full, no further solution may be
// found that doesn't improve on it.
func (c *BnBOrderConstraint) UpdateBound(s Solution) { c.bound = &s }

// Reset drops the recorded bound, used when a query is re-executed from
// the start.
func (c *BnBOrderConstraint) Reset() { c.bound = nil }

func (c *BnBOrderConstraint) Propagate() (bool, error) {
	if c.bound == nil {
		return true, nil
	}
	for i, k := range c.keys {
		ok, prune, err := c.propagateKey(k, c.bound.Keys[i])
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
		if prune {
			// This key strictly improved (or is still free to), so later
			// keys can't yet rule anything out.
			return true, nil
		}
		// Tied on this key: fall through to compare the next one.
	}
	// Every key tied the bound exactly: not an improvement, reject once
	// fully determined.
	for _, k := range c.keys {
		vars := k.vars()
		for _, v := range vars {
			if !v.IsBound() {
				return true, nil
			}
		}
	}
	return false, nil
}

// propagateKey compares one key against its bound counterpart. It returns
// ok=false if the key can no longer possibly reach the bound (search
// state is pruned), prune=true if the key is already a strict improvement
// or is not yet determined (further keys are irrelevant for now), or
// ok=true, prune=false to signal a tie so the caller moves on to the next
// key.
func (c *BnBOrderConstraint) propagateKey(k OrderKey, bound SolutionKey) (ok bool, prune bool, err error) {
	if k.Var != nil {
		return c.propagateVarKey(k, bound)
	}
	return c.propagateExprKey(k, bound)
}

func (c *BnBOrderConstraint) propagateVarKey(k OrderKey, bound SolutionKey) (bool, bool, error) {
	v := k.Var
	if k.Desc {
		if !v.UpdateMin(int(bound.ID)) {
			return false, false, nil
		}
	} else {
		if !v.UpdateMax(int(bound.ID)) {
			return false, false, nil
		}
	}
	if !v.IsBound() {
		return true, true, nil
	}
	cur := term.ValueID(v.Value())
	switch {
	case cur == bound.ID:
		return true, false, nil
	case k.Desc && cur > bound.ID, !k.Desc && cur < bound.ID:
		return true, true, nil
	default:
		return false, false, nil
	}
}

func (c *BnBOrderConstraint) propagateExprKey(k OrderKey, bound SolutionKey) (bool, bool, error) {
	val, ok := k.Expr.Value()
	if !ok {
		return true, true, nil
	}
	cmp := term.Compare(val, bound.Value)
	switch {
	case cmp == term.Equal:
		return true, false, nil
	case k.Desc && cmp == term.Greater, !k.Desc && cmp == term.Less:
		return true, true, nil
	default:
		return false, false, nil
	}
}
