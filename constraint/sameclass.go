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

// SameClass restricts x and y to the same term.Category, without requiring
// either side to resolve to a specific value: it is posted whenever a
// filter expression's type guard (e.g. the numeric-typed side of an
// arithmetic comparison) is known statically but neither operand's value
// is.
type SameClass struct {
	Base
	store *store.Store
	x, y  *fd.Variable
}

// NewSameClass builds the constraint over x and y.
func NewSameClass(st *store.Store, x, y *fd.Variable) *SameClass {
	c := &SameClass{Base: NewBase(fd.PriorityHigh), store: st, x: x, y: y}
	x.RegisterChange(c)
	y.RegisterChange(c)
	return c
}

func (c *SameClass) Post() (bool, error) { return c.Propagate() }

func (c *SameClass) Propagate() (bool, error) {
	if c.x.IsBound() {
		ok, err := c.restrictToCategoryOf(c.x, c.y)
		if err != nil || !ok {
			return ok, err
		}
	}
	if c.y.IsBound() {
		ok, err := c.restrictToCategoryOf(c.y, c.x)
		if err != nil || !ok {
			return ok, err
		}
	}
	if c.x.IsBound() && c.y.IsBound() {
		c.setDone()
	}
	return true, nil
}

func (c *SameClass) restrictToCategoryOf(bound, other *fd.Variable) (bool, error) {
	cat := c.store.Category(term.ValueID(bound.Value()))
	lo, hi := c.store.CategoryRange(cat)
	if other.IsBound() {
		v := term.ValueID(other.Value())
		return v >= lo && v <= hi, nil
	}
	ok := other.UpdateMin(int(lo))
	return ok && other.UpdateMax(int(hi)), nil
}
