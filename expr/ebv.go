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

package expr

import (
	"github.com/castor-db/castor/fd"
	"github.com/castor-db/castor/term"
)

// EvaluateEBV computes e's effective boolean value by evaluating then
// mapping through term.EBV. Satisfies constraint.BoolExpr structurally, so
// Filter can reify any expression this evaluator doesn't have a tighter
// Post specialization for.
func (e *Expr) EvaluateEBV(override map[*fd.Variable]int) term.Truth {
	v, ok, err := e.Evaluate(override)
	if err != nil || !ok {
		return term.ErrorTruth
	}
	return term.EBV(v)
}

// Value returns e's current value under the live (un-overridden) binding,
// for use as an ORDER BY key. Satisfies constraint.OrderExpr structurally.
// It is "determined" only once every variable e reads is bound: the
// buffered ORDER BY path never calls this before a full solution is found,
// but BnBOrderConstraint.Propagate may call it mid-search, where an unbound
// variable correctly reports not-yet-determined rather than a type error.
func (e *Expr) Value() (term.Value, bool) {
	for _, v := range e.Vars() {
		if !v.IsBound() {
			return term.Value{}, false
		}
	}
	v, ok, err := e.Evaluate(nil)
	if err != nil || !ok {
		return term.Value{}, false
	}
	return v, true
}
