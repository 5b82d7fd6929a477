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
	"github.com/castor-db/castor/solver"
)

// And composes two independently specialized constraints into a single
// logical conjunction, used by expr's `&&` posting when both operands
// specialize tighter than a single reified Filter would.
type And struct {
	Base
	a, b solver.Constraint
}

// NewAnd builds the conjunction of a and b.
func NewAnd(a, b solver.Constraint) *And {
	return &And{Base: NewBase(fd.PriorityMedium), a: a, b: b}
}

func (c *And) Post() (bool, error) {
	ok, err := c.a.Post()
	if err != nil || !ok {
		return ok, err
	}
	ok, err = c.b.Post()
	if ok && c.a.Done() && c.b.Done() {
		c.setDone()
	}
	return ok, err
}

func (c *And) Propagate() (bool, error) {
	if !c.a.Done() {
		ok, err := c.a.Propagate()
		if err != nil || !ok {
			return ok, err
		}
	}
	if !c.b.Done() {
		ok, err := c.b.Propagate()
		if err != nil || !ok {
			return ok, err
		}
	}
	if c.a.Done() && c.b.Done() {
		c.setDone()
	}
	return true, nil
}

// Restore resets both branches in addition to this constraint's own done
// flag, since a backtrack can re-open either side's propagation.
func (c *And) Restore() {
	c.Base.Restore()
	c.a.Restore()
	c.b.Restore()
}
