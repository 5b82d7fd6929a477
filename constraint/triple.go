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
	"github.com/castor-db/castor/cache"
	"github.com/castor-db/castor/fd"
	"github.com/castor-db/castor/store"
)

// Triple is the central pattern constraint: a single propagator,
// parametrized over which of its three slots are currently unbound, that
// dispatches purely on that unbound count rather than three
// size-specialized constraint types.
type Triple struct {
	Base
	store   *store.Store
	s, p, o Slot
}

// NewTriple builds the constraint over a triple pattern's three slots,
// registering on every variable slot's change event.
func NewTriple(st *store.Store, s, p, o Slot) *Triple {
	c := &Triple{Base: NewBase(fd.PriorityMedium), store: st, s: s, p: p, o: o}
	if s.Var != nil {
		s.Var.RegisterChange(c)
	}
	if p.Var != nil {
		p.Var.RegisterChange(c)
	}
	if o.Var != nil {
		o.Var.RegisterChange(c)
	}
	return c
}

func (c *Triple) slot(i int) Slot {
	switch i {
	case 0:
		return c.s
	case 1:
		return c.p
	default:
		return c.o
	}
}

func (c *Triple) unboundCount() int {
	n := 0
	if !c.s.bound() {
		n++
	}
	if !c.p.bound() {
		n++
	}
	if !c.o.bound() {
		n++
	}
	return n
}

func (c *Triple) unboundIndex() int {
	for i := 0; i < 3; i++ {
		if !c.slot(i).bound() {
			return i
		}
	}
	return -1
}

// Post runs the constraint's first propagation pass, identical to
// Propagate (the constraint has no other setup: it already registered its
// listeners at construction time).
func (c *Triple) Post() (bool, error) { return c.Propagate() }

// Propagate dispatches on the number of currently unbound slots: 0 unbound
// probes existence, 1 unbound forward-checks over the ordering that places
// it last, 2 or 3 scan the best ordering and mark every unbound slot from
// each matching triple.
func (c *Triple) Propagate() (bool, error) {
	var ok bool
	var err error
	switch c.unboundCount() {
	case 0:
		ok, err = c.probeExists()
	case 1:
		ok, err = c.forwardCheckOne()
	default:
		ok, err = c.scanMulti()
	}
	if err != nil {
		return false, err
	}
	if ok && c.unboundCount() <= 1 {
		c.setDone()
	}
	return ok, nil
}

func (c *Triple) pattern() store.Pattern {
	return store.Pattern{S: idOf(c.s), P: idOf(c.p), O: idOf(c.o)}
}

func (c *Triple) probeExists() (bool, error) {
	n, err := c.store.TriplesCount(c.pattern())
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// orderForSlot picks the maintained ordering that ends in component idx (0
// = s, 1 = p, 2 = o), so that component varies fastest when scanning
// leaves left to right.
func orderForSlot(idx int) store.Order {
	switch idx {
	case 0:
		return store.POS
	case 1:
		return store.OSP
	default:
		return store.SPO
	}
}

func (c *Triple) canonical(idx int, v uint32) cache.Triple {
	t := cache.Triple{uint32At(c.s), uint32At(c.p), uint32At(c.o)}
	t[idx] = v
	return t
}

// uint32At returns a slot's current value when bound, or 0 (a placeholder
// overwritten by canonical's caller) when not.
func uint32At(s Slot) uint32 {
	if s.bound() {
		return s.value()
	}
	return 0
}

func (c *Triple) forwardCheckOne() (bool, error) {
	idx := c.unboundIndex()
	sl := c.slot(idx)
	order := orderForSlot(idx)

	lo, hi := sl.Var.Min(), sl.Var.Max()
	from := c.canonical(idx, uint32(lo))
	to := c.canonical(idx, uint32(hi))

	r, err := c.store.NewRange(from, to, order)
	if err != nil {
		return false, err
	}
	defer r.Close()

	for {
		t, ok, err := r.Next()
		if err != nil {
			return false, err
		}
		if !ok {
			break
		}
		sl.Var.Mark(int(t[idx]))
	}
	return sl.Var.RestrictToMarks(), nil
}

// bestOrder picks the ordering whose leading (most significant) key
// component is the one bound slot, so the range scan's bounds on that
// component actually restrict which leaves are visited; scanMulti only
// ever sees 0 or 1 bound slots (2-bound states are forward-checked
// instead), so those are the only cases that matter here.
func bestOrder(boundMask int) store.Order {
	switch boundMask {
	case 0b001: // only s bound -> s leads
		return store.SPO
	case 0b010: // only p bound -> p leads
		return store.POS
	case 0b100: // only o bound -> o leads
		return store.OSP
	default: // nothing bound: any order scans the whole store
		return store.SPO
	}
}

func (c *Triple) scanMulti() (bool, error) {
	mask := 0
	if c.s.bound() {
		mask |= 1
	}
	if c.p.bound() {
		mask |= 2
	}
	if c.o.bound() {
		mask |= 4
	}
	order := bestOrder(mask)

	from := cache.Triple{componentMin(c.s), componentMin(c.p), componentMin(c.o)}
	to := cache.Triple{componentMax(c.s), componentMax(c.p), componentMax(c.o)}

	r, err := c.store.NewRange(from, to, order)
	if err != nil {
		return false, err
	}
	defer r.Close()

	for {
		t, ok, err := r.Next()
		if err != nil {
			return false, err
		}
		if !ok {
			break
		}
		if !c.s.bound() {
			c.s.Var.Mark(int(t[0]))
		}
		if !c.p.bound() {
			c.p.Var.Mark(int(t[1]))
		}
		if !c.o.bound() {
			c.o.Var.Mark(int(t[2]))
		}
	}

	ok := true
	if !c.s.bound() {
		ok = c.s.Var.RestrictToMarks() && ok
	}
	if !c.p.bound() {
		ok = c.p.Var.RestrictToMarks() && ok
	}
	if !c.o.bound() {
		ok = c.o.Var.RestrictToMarks() && ok
	}
	return ok, nil
}

func componentMin(s Slot) uint32 {
	if s.bound() {
		return s.value()
	}
	return uint32(s.Var.Min())
}

func componentMax(s Slot) uint32 {
	if s.bound() {
		return s.value()
	}
	return uint32(s.Var.Max())
}

func idOf(s Slot) uint32 {
	if s.bound() {
		return s.value()
	}
	return 0
}
