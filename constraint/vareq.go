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
	"github.com/castor-db/castor/store"
	"github.com/castor-db/castor/term"
)

// NewVarEqConst builds the specialized "variable equals a known, already
// resolved constant" constraint: it restricts x to the constant's
// equivalence-class range, rather than binding x outright, so that values
// indistinguishable under Compare remain candidates.
func NewVarEqConst(st *store.Store, x *fd.Variable, id term.ValueID) (*InRange, error) {
	lo, hi, err := st.EqClass(id)
	if err != nil {
		return nil, err
	}
	return NewInRange(x, int(lo), int(hi)), nil
}

// NewVarDiffConst builds the specialized "variable differs from a known,
// already resolved constant" constraint: removes the constant's whole
// equivalence-class range from x's domain.
func NewVarDiffConst(st *store.Store, x *fd.Variable, id term.ValueID) (*NotInRange, error) {
	lo, hi, err := st.EqClass(id)
	if err != nil {
		return nil, err
	}
	return NewNotInRange(x, int(lo), int(hi)), nil
}

// VarEq enforces x == y under RDF term equality, propagated through value
// equivalence classes: whichever side binds first restricts the other to
// its class range.
type VarEq struct {
	Base
	store *store.Store
	x, y  *fd.Variable
}

// NewVarEq builds the constraint over x and y.
func NewVarEq(st *store.Store, x, y *fd.Variable) *VarEq {
	c := &VarEq{Base: NewBase(fd.PriorityHigh), store: st, x: x, y: y}
	x.RegisterChange(c)
	y.RegisterChange(c)
	return c
}

func (c *VarEq) Post() (bool, error) { return c.Propagate() }

func (c *VarEq) Propagate() (bool, error) {
	ok, err := c.restrict(c.x, c.y)
	if err != nil || !ok {
		return ok, err
	}
	ok, err = c.restrict(c.y, c.x)
	if err != nil || !ok {
		return ok, err
	}
	if c.x.IsBound() && c.y.IsBound() {
		c.setDone()
	}
	return true, nil
}

// restrict narrows other to from's equivalence-class range when from is
// bound, returning false if that empties other's domain.
func (c *VarEq) restrict(from, other *fd.Variable) (bool, error) {
	if !from.IsBound() {
		return true, nil
	}
	lo, hi, err := c.store.EqClass(term.ValueID(from.Value()))
	if err != nil {
		return false, err
	}
	if other.IsBound() {
		v := term.ValueID(other.Value())
		return v >= lo && v <= hi, nil
	}
	ok := other.UpdateMin(int(lo))
	return ok && other.UpdateMax(int(hi)), nil
}

// VarDiff enforces x != y under RDF term equality: once both sides are
// bound to the same equivalence class the constraint fails, and as soon as
// one side is bound every id of its equivalence class is removed from the
// other side's domain.
type VarDiff struct {
	Base
	store *store.Store
	x, y  *fd.Variable
}

// NewVarDiff builds the constraint over x and y.
func NewVarDiff(st *store.Store, x, y *fd.Variable) *VarDiff {
	c := &VarDiff{Base: NewBase(fd.PriorityMedium), store: st, x: x, y: y}
	x.RegisterChange(c)
	y.RegisterChange(c)
	return c
}

func (c *VarDiff) Post() (bool, error) { return c.Propagate() }

func (c *VarDiff) Propagate() (bool, error) {
	if c.x.IsBound() && c.y.IsBound() {
		lo, hi, err := c.store.EqClass(term.ValueID(c.x.Value()))
		if err != nil {
			return false, err
		}
		v := term.ValueID(c.y.Value())
		c.setDone()
		return !(v >= lo && v <= hi), nil
	}
	if c.x.IsBound() {
		return c.excludeClassFrom(c.x, c.y)
	}
	if c.y.IsBound() {
		return c.excludeClassFrom(c.y, c.x)
	}
	return true, nil
}

func (c *VarDiff) excludeClassFrom(bound, other *fd.Variable) (bool, error) {
	lo, hi, err := c.store.EqClass(term.ValueID(bound.Value()))
	if err != nil {
		return false, err
	}
	for v := int(lo); v <= int(hi); v++ {
		if !other.Remove(v) {
			return false, nil
		}
	}
	return true, nil
}

// VarLess enforces x < y (equality bool: x <= y) under the XPath total
// ordering, which for value ids already coincides with numeric id order
// since Castor's dictionary is stored in that total order.
type VarLess struct {
	Base
	x, y     *fd.Variable
	equality bool
}

// NewVarLess builds the constraint; equality selects <= over <.
func NewVarLess(x, y *fd.Variable, equality bool) *VarLess {
	c := &VarLess{Base: NewBase(fd.PriorityMedium), x: x, y: y, equality: equality}
	x.RegisterChange(c)
	y.RegisterChange(c)
	return c
}

func (c *VarLess) Post() (bool, error) { return c.Propagate() }

func (c *VarLess) Propagate() (bool, error) {
	bound := c.y.Max()
	if !c.equality {
		bound--
	}
	if !c.x.UpdateMax(bound) {
		return false, nil
	}
	bound = c.x.Min()
	if !c.equality {
		bound++
	}
	if !c.y.UpdateMin(bound) {
		return false, nil
	}
	if c.x.IsBound() && c.y.IsBound() {
		c.setDone()
	}
	return true, nil
}

// VarSameTerm enforces sameTerm(x, y): unlike VarEq, identity rather than
// equivalence-class membership, so it only ever needs exact value ids on
// both sides.
type VarSameTerm struct {
	Base
	x, y *fd.Variable
}

// NewVarSameTerm builds the constraint over x and y.
func NewVarSameTerm(x, y *fd.Variable) *VarSameTerm {
	c := &VarSameTerm{Base: NewBase(fd.PriorityHigh), x: x, y: y}
	x.RegisterChange(c)
	y.RegisterChange(c)
	return c
}

func (c *VarSameTerm) Post() (bool, error) { return c.Propagate() }

func (c *VarSameTerm) Propagate() (bool, error) {
	if c.x.IsBound() {
		if !c.y.Bind(c.x.Value()) {
			return false, nil
		}
		c.setDone()
		return true, nil
	}
	if c.y.IsBound() {
		if !c.x.Bind(c.y.Value()) {
			return false, nil
		}
		c.setDone()
		return true, nil
	}
	return true, nil
}

// VarDiffTerm enforces !sameTerm(x, y).
type VarDiffTerm struct {
	Base
	x, y *fd.Variable
}

// NewVarDiffTerm builds the constraint over x and y.
func NewVarDiffTerm(x, y *fd.Variable) *VarDiffTerm {
	c := &VarDiffTerm{Base: NewBase(fd.PriorityMedium), x: x, y: y}
	x.RegisterChange(c)
	y.RegisterChange(c)
	return c
}

func (c *VarDiffTerm) Post() (bool, error) { return c.Propagate() }

func (c *VarDiffTerm) Propagate() (bool, error) {
	if c.x.IsBound() && c.y.IsBound() {
		c.setDone()
		return c.x.Value() != c.y.Value(), nil
	}
	if c.x.IsBound() {
		return c.y.Remove(c.x.Value()), nil
	}
	if c.y.IsBound() {
		return c.x.Remove(c.y.Value()), nil
	}
	return true, nil
}
