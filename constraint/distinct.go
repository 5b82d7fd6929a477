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
	"github.com/mitchellh/hashstructure"

	"github.com/castor-db/castor/fd"
	"github.com/castor-db/castor/solver"
)

// Distinct implements SPARQL DISTINCT as a static, solver-scope constraint:
// every time a solution is found it records the full output tuple, plus one
// per-variable "omit this column" auxiliary index of every value that
// column must never take again for the same binding of the other columns.
// Propagate then prunes future search along those two paths: reject a
// fully-bound duplicate outright, or forward-check the one remaining
// unbound column against its auxiliary set.
type Distinct struct {
	Base
	solver *solver.Solver
	vars   []*fd.Variable

	seen map[uint64]struct{}
	aux  []map[uint64][]int
}

// NewDistinct builds the constraint over the query's requested output
// variables.
func NewDistinct(s *solver.Solver, vars []*fd.Variable) *Distinct {
	c := &Distinct{
		Base:   NewBase(fd.PriorityMedium),
		solver: s,
		vars:   vars,
		seen:   make(map[uint64]struct{}),
		aux:    make([]map[uint64][]int, len(vars)),
	}
	for i := range c.aux {
		c.aux[i] = make(map[uint64][]int)
	}
	for _, v := range vars {
		v.RegisterChange(c)
	}
	return c
}

func (c *Distinct) Post() (bool, error) { return true, nil }

// AddSolution records a just-produced solution's bindings so future search
// never revisits it, then asks the solver to re-run propagation (the
// constraint's own state changed, not any variable's domain).
func (c *Distinct) AddSolution() {
	key := c.fullKey()
	c.seen[key] = struct{}{}
	for i := range c.vars {
		k := c.omitKey(i)
		v := c.vars[i].Value()
		c.aux[i][k] = append(c.aux[i][k], v)
	}
	c.solver.Refresh(c)
}

// Reset clears every recorded solution, used when a query is re-executed
// from the start.
func (c *Distinct) Reset() {
	c.seen = make(map[uint64]struct{})
	for i := range c.aux {
		c.aux[i] = make(map[uint64][]int)
	}
}

func (c *Distinct) unboundIndex() int {
	idx := -1
	for i, v := range c.vars {
		if !v.IsBound() {
			if idx != -1 {
				return -1
			}
			idx = i
		}
	}
	return idx
}

func (c *Distinct) Propagate() (bool, error) {
	idx := c.unboundIndex()
	if idx == -1 {
		allBound := true
		for _, v := range c.vars {
			if !v.IsBound() {
				allBound = false
				break
			}
		}
		if !allBound {
			return true, nil
		}
		_, dup := c.seen[c.fullKey()]
		return !dup, nil
	}
	k := c.omitKey(idx)
	for _, v := range c.aux[idx][k] {
		if !c.vars[idx].Remove(v) {
			return false, nil
		}
	}
	return true, nil
}

func (c *Distinct) fullKey() uint64 {
	vals := make([]int, len(c.vars))
	for i, v := range c.vars {
		if v.IsBound() {
			vals[i] = v.Value()
		} else {
			vals[i] = -1
		}
	}
	h, _ := hashstructure.Hash(vals, nil)
	return h
}

// omitKey hashes every bound variable's value except skip, so the
// resulting key identifies "the rest of the tuple" independent of the
// omitted column.
func (c *Distinct) omitKey(skip int) uint64 {
	vals := make([]int, 0, len(c.vars)-1)
	for i, v := range c.vars {
		if i == skip {
			continue
		}
		if v.IsBound() {
			vals = append(vals, v.Value())
		} else {
			vals = append(vals, -1)
		}
	}
	h, _ := hashstructure.Hash(vals, nil)
	return h
}
