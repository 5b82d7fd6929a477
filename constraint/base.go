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

// Package constraint implements Castor's constraint catalog: the triple
// pattern constraint, value-equivalence-class equality/inequality and
// ordering constraints, the reified filter fallback, DISTINCT, and the
// branch-and-bound ORDER BY constraint.
package constraint

import "github.com/castor-db/castor/fd"

// Base provides the priority and done-flag bookkeeping shared by every
// catalog constraint: embed it, implement Post/Propagate, and call
// setDone() once no further propagation is useful until the next Restore.
type Base struct {
	priority fd.Priority
	done     bool
}

// NewBase builds a Base at the given priority, not done.
func NewBase(p fd.Priority) Base { return Base{priority: p} }

// Priority implements fd.Constraint / solver.Constraint.
func (b *Base) Priority() fd.Priority { return b.priority }

// Done implements solver.Constraint.
func (b *Base) Done() bool { return b.done }

func (b *Base) setDone() { b.done = true }

// Restore implements solver.Constraint's default: clear the done flag. Most
// catalog constraints have no other state to reset and rely on this
// embedded method; And overrides it to also restore its two operands.
func (b *Base) Restore() { b.done = false }
