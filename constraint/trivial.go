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

import "github.com/castor-db/castor/fd"

// False always fails, immediately. Used for patterns a compile-time check
// (a constant resolving to id 0, or an unsatisfiable Filter(LeftJoin, ...)
// rewrite that didn't apply) already knows can never match.
type False struct{ Base }

// NewFalse builds a constraint that never succeeds.
func NewFalse() *False { return &False{NewBase(fd.PriorityLow)} }

func (c *False) Post() (bool, error)       { return false, nil }
func (c *False) Propagate() (bool, error)  { return false, nil }

// True always succeeds and needs no further propagation. Used where a
// specialized posting determines a condition is unconditionally satisfied
// (e.g. `?x != <absent-from-store>`).
type True struct{ Base }

// NewTrue builds a constraint that always succeeds.
func NewTrue() *True {
	c := &True{NewBase(fd.PriorityLow)}
	c.setDone()
	return c
}

func (c *True) Post() (bool, error)      { return true, nil }
func (c *True) Propagate() (bool, error) { return true, nil }

// BoundVariable removes id 0 (the "unbound" marker reserved for OPTIONAL's
// extra variables) from x, once. Posted for every certainly-bound variable
// of a Basic pattern.
type BoundVariable struct {
	Base
	x *fd.Variable
}

// NewBoundVariable builds the constraint over x.
func NewBoundVariable(x *fd.Variable) *BoundVariable {
	return &BoundVariable{Base: NewBase(fd.PriorityHigh), x: x}
}

func (c *BoundVariable) Post() (bool, error) {
	ok := c.x.Remove(0)
	c.setDone()
	return ok, nil
}

func (c *BoundVariable) Propagate() (bool, error) { return true, nil }

// InRange marks every value in [lo, hi] and restricts x's domain to the
// marked set, once.
type InRange struct {
	Base
	x      *fd.Variable
	lo, hi int
}

// NewInRange builds the constraint over x and [lo, hi].
func NewInRange(x *fd.Variable, lo, hi int) *InRange {
	return &InRange{Base: NewBase(fd.PriorityHigh), x: x, lo: lo, hi: hi}
}

func (c *InRange) Post() (bool, error) {
	for v := c.lo; v <= c.hi; v++ {
		c.x.Mark(v)
	}
	ok := c.x.RestrictToMarks()
	c.setDone()
	return ok, nil
}

func (c *InRange) Propagate() (bool, error) { return true, nil }

// NotInRange removes every value in [lo, hi] from x's domain, once.
type NotInRange struct {
	Base
	x      *fd.Variable
	lo, hi int
}

// NewNotInRange builds the constraint over x and [lo, hi].
func NewNotInRange(x *fd.Variable, lo, hi int) *NotInRange {
	return &NotInRange{Base: NewBase(fd.PriorityHigh), x: x, lo: lo, hi: hi}
}

func (c *NotInRange) Post() (bool, error) {
	for v := c.lo; v <= c.hi; v++ {
		if !c.x.Remove(v) {
			return false, nil
		}
	}
	c.setDone()
	return true, nil
}

func (c *NotInRange) Propagate() (bool, error) { return true, nil }

// ConstGE enforces x >= v with a single updateMin call.
type ConstGE struct {
	Base
	x *fd.Variable
	v int
}

// NewConstGE builds the constraint.
func NewConstGE(x *fd.Variable, v int) *ConstGE {
	return &ConstGE{Base: NewBase(fd.PriorityHigh), x: x, v: v}
}

func (c *ConstGE) Post() (bool, error) {
	ok := c.x.UpdateMin(c.v)
	c.setDone()
	return ok, nil
}

func (c *ConstGE) Propagate() (bool, error) { return true, nil }

// ConstLE enforces x <= v with a single updateMax call.
type ConstLE struct {
	Base
	x *fd.Variable
	v int
}

// NewConstLE builds the constraint.
func NewConstLE(x *fd.Variable, v int) *ConstLE {
	return &ConstLE{Base: NewBase(fd.PriorityHigh), x: x, v: v}
}

func (c *ConstLE) Post() (bool, error) {
	ok := c.x.UpdateMax(c.v)
	c.setDone()
	return ok, nil
}

func (c *ConstLE) Propagate() (bool, error) { return true, nil }
