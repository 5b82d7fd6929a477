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

package fd

// Variable is a finite-domain variable over a contiguous range of integers
// (typically store value ids or small slot indices), backed by a
// sparse-set/bounds hybrid representation.
//
// Invariants:
//   - domain[0:size] holds every value still in the domain, in no
//     particular order.
//   - size == 1 <=> min == max == domain[0] (the variable is bound).
//   - pos[v-minVal] gives the position of v within domain; v is in the
//     domain iff pos[v-minVal] < size.
//   - min/max are a bounds representation kept loosely in sync: they always
//     contain the true domain, but may not be tight when size > 1.
type Variable struct {
	enq Enqueuer

	minVal, maxVal int // bounds of the initial domain, never change
	min, max       int // current (possibly loose) bounds

	domain []int
	pos    []int
	size   int

	marked           int
	markedMin, markedMax int

	evBind, evChange, evMin, evMax []Constraint
}

// NewVariable builds a variable with initial domain [minVal, maxVal].
func NewVariable(enq Enqueuer, minVal, maxVal int) *Variable {
	n := maxVal - minVal + 1
	v := &Variable{
		enq:    enq,
		minVal: minVal,
		maxVal: maxVal,
		min:    minVal,
		max:    maxVal,
		domain: make([]int, n),
		pos:    make([]int, n),
		size:   n,
	}
	for i := 0; i < n; i++ {
		v.domain[i] = minVal + i
		v.pos[i] = i
	}
	return v
}

// RegisterBind registers c on the bind event: fires once when the domain is
// reduced to a single value.
func (v *Variable) RegisterBind(c Constraint) { v.evBind = append(v.evBind, c) }

// RegisterChange registers c on the change event: fires on every domain
// reduction.
func (v *Variable) RegisterChange(c Constraint) { v.evChange = append(v.evChange, c) }

// RegisterMin registers c on the update-min event.
func (v *Variable) RegisterMin(c Constraint) { v.evMin = append(v.evMin, c) }

// RegisterMax registers c on the update-max event.
func (v *Variable) RegisterMax(c Constraint) { v.evMax = append(v.evMax, c) }

// Size returns the number of values left in the domain.
func (v *Variable) Size() int { return v.size }

// IsBound reports whether the domain has collapsed to a single value.
func (v *Variable) IsBound() bool { return v.size == 1 }

// Value returns the value bound to this variable. Precondition: IsBound().
func (v *Variable) Value() int { return v.domain[0] }

// Domain returns the live slice of values still in the domain. Callers must
// not retain or mutate it: removing a value only affects entries after its
// own position, marking only affects entries before its own position.
func (v *Variable) Domain() []int { return v.domain[:v.size] }

// Min returns the lower bound. It may not be domain-consistent when Size() > 1.
func (v *Variable) Min() int { return v.min }

// Max returns the upper bound. It may not be domain-consistent when Size() > 1.
func (v *Variable) Max() int { return v.max }

// Contains reports whether value is in the domain, checking both
// representations.
func (v *Variable) Contains(value int) bool {
	return value >= v.min && value <= v.max && v.pos[value-v.minVal] < v.size
}

func (v *Variable) swap(i, j int) {
	vi, vj := v.domain[i], v.domain[j]
	v.domain[i], v.domain[j] = vj, vi
	v.pos[vi-v.minVal], v.pos[vj-v.minVal] = j, i
}

// Mark marks value for a later RestrictToMarks. Marking a value not in the
// domain is a no-op.
func (v *Variable) Mark(value int) {
	if value < v.min || value > v.max {
		return
	}
	i := v.pos[value-v.minVal]
	if i >= v.size || i < v.marked {
		return
	}
	if i != v.marked {
		v.swap(i, v.marked)
	}
	if v.marked == 0 || value < v.markedMin {
		v.markedMin = value
	}
	if v.marked == 0 || value > v.markedMax {
		v.markedMax = value
	}
	v.marked++
}

// ClearMarks discards all marks without touching the domain.
func (v *Variable) ClearMarks() { v.marked = 0 }

// Bind restricts the domain to {value}, clearing any marks first. It
// returns false if value is not in the domain (the domain becomes empty).
// Only call during constraint propagation.
func (v *Variable) Bind(value int) bool {
	v.ClearMarks()
	if value < v.min || value > v.max {
		return false
	}
	i := v.pos[value-v.minVal]
	if i >= v.size {
		return false
	}
	if v.size == 1 {
		return true
	}
	if i != 0 {
		v.swap(i, 0)
	}
	v.size = 1
	if value != v.min {
		v.min = value
		v.enq.Enqueue(v.evMin)
	}
	if value != v.max {
		v.max = value
		v.enq.Enqueue(v.evMax)
	}
	v.enq.Enqueue(v.evChange)
	v.enq.Enqueue(v.evBind)
	return true
}

// Remove excludes value from the domain, clearing any marks first. It
// returns false if the domain becomes empty. Only call during constraint
// propagation.
func (v *Variable) Remove(value int) bool {
	v.ClearMarks()
	if value < v.minVal || value > v.maxVal {
		return true
	}
	i := v.pos[value-v.minVal]
	if i >= v.size {
		return true
	}
	if v.size <= 1 {
		return false
	}
	v.size--
	if i != v.size {
		v.swap(i, v.size)
	}
	if v.size == 1 {
		if v.domain[0] < v.min || v.domain[0] > v.max {
			return false
		}
		v.enq.Enqueue(v.evBind)
		remaining := v.domain[0]
		if remaining != v.min {
			v.min = remaining
			v.enq.Enqueue(v.evMin)
		}
		if remaining != v.max {
			v.max = remaining
			v.enq.Enqueue(v.evMax)
		}
	} else {
		if value == v.min {
			v.min++ // not a tight bound, just loosened past the removed value
			v.enq.Enqueue(v.evMin)
		}
		if value == v.max {
			v.max--
			v.enq.Enqueue(v.evMax)
		}
	}
	v.enq.Enqueue(v.evChange)
	return true
}

// RestrictToMarks keeps only the marked values, clearing the marks
// afterwards. It returns false if no value was marked (the domain becomes
// empty). Only call during constraint propagation.
func (v *Variable) RestrictToMarks() bool {
	m, mmin, mmax := v.marked, v.markedMin, v.markedMax
	v.ClearMarks()
	if m != v.size {
		v.size = m
		if m == 0 {
			return false
		}
		if v.min != mmin {
			v.min = mmin
			v.enq.Enqueue(v.evMin)
		}
		if v.max != mmax {
			v.max = mmax
			v.enq.Enqueue(v.evMax)
		}
		v.enq.Enqueue(v.evChange)
		if m == 1 {
			v.enq.Enqueue(v.evBind)
		}
	}
	return true
}

// UpdateMin removes every value strictly below value, clearing marks first.
// It returns false if value is above the current max. Only call during
// constraint propagation.
func (v *Variable) UpdateMin(value int) bool {
	v.ClearMarks()
	if value <= v.min {
		return true
	}
	if value > v.max {
		return false
	}
	if value == v.max {
		return v.Bind(value)
	}
	v.min = value
	v.enq.Enqueue(v.evChange)
	v.enq.Enqueue(v.evMin)
	return true
}

// UpdateMax removes every value strictly above value, clearing marks first.
// It returns false if value is below the current min. Only call during
// constraint propagation.
func (v *Variable) UpdateMax(value int) bool {
	v.ClearMarks()
	if value >= v.max {
		return true
	}
	if value < v.min {
		return false
	}
	if value == v.min {
		return v.Bind(value)
	}
	v.max = value
	v.enq.Enqueue(v.evChange)
	v.enq.Enqueue(v.evMax)
	return true
}

// Select picks the variable's first remaining domain value as a search
// decision, binding the variable to it. Precondition: not already bound.
func (v *Variable) Select() bool { return v.Bind(v.domain[0]) }

// Unselect removes the first remaining domain value. On backtrack it runs
// after the trail has restored the domain from before Select, so it
// excludes the value Select tried and the search can try the next
// alternative for this variable.
func (v *Variable) Unselect() bool { return v.Remove(v.domain[0]) }

// ForceUnbound collapses the domain to the single sentinel value minVal,
// bypassing event notification and trail bookkeeping entirely. It exists
// for exactly one caller: a LeftJoin pattern's extra variables, once their
// owning subtree has already been discarded and no propagation or
// backtracking can observe the change, need some definite "unmatched"
// value to read back as the OPTIONAL binding.
func (v *Variable) ForceUnbound() {
	v.domain[0] = v.minVal
	v.pos[v.minVal-v.minVal] = 0
	v.size = 1
	v.min = v.minVal
	v.max = v.minVal
}

// Checkpoint captures the variable's current (size, min, max) state.
func (v *Variable) Checkpoint() Checkpoint {
	return Checkpoint{size: v.size, min: v.min, max: v.max}
}

// Restore reinstates a previously captured checkpoint. This is safe even
// though the domain array itself is not replayed: Remove only ever moves a
// removed value past the live prefix, never overwrites it, so widening size
// back out exposes exactly the values that were removed since the
// checkpoint, in whatever order they happen to sit in.
func (v *Variable) Restore(ck Checkpoint) {
	v.size = ck.size
	v.min = ck.min
	v.max = ck.max
}
