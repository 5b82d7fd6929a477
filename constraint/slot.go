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

// Slot is one component of a triple pattern as the Triple constraint sees
// it: either a CP variable still to be resolved, or a constant already
// resolved to a store value id.
type Slot struct {
	Var   *fd.Variable
	Const uint32
}

// ConstSlot builds a bound slot.
func ConstSlot(id uint32) Slot { return Slot{Const: id} }

// VarSlot builds an unbound slot over v.
func VarSlot(v *fd.Variable) Slot { return Slot{Var: v} }

// bound reports whether this slot currently has a single definite value:
// always true for a constant, true for a variable slot once its CP variable
// has collapsed to a singleton domain.
func (s Slot) bound() bool { return s.Var == nil || s.Var.IsBound() }

// value returns the slot's current value: the constant, or the CP
// variable's bound value. Precondition: bound().
func (s Slot) value() uint32 {
	if s.Var == nil {
		return s.Const
	}
	return uint32(s.Var.Value())
}
