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

package pattern

import "github.com/castor-db/castor/fd"

// Union exhausts l, then r. Since l and r may bind
// different variable sets, a solution from whichever branch is active
// leaves the other branch's exclusive variables at whatever state they
// were in before Discard ran on the prior branch; query.compile is
// responsible for only projecting variables common to both branches, or
// accepting per-branch unbound results, per the compiled query's shape.
type Union struct {
	l, r    Pattern
	onRight bool
}

// NewUnion builds the l UNION r pattern.
func NewUnion(l, r Pattern) *Union { return &Union{l: l, r: r} }

func (u *Union) Init() error {
	if err := u.l.Init(); err != nil {
		return err
	}
	return u.r.Init()
}

func (u *Union) Next() (bool, error) {
	if !u.onRight {
		ok, err := u.l.Next()
		if err != nil {
			return false, err
		}
		if ok {
			return true, nil
		}
		u.l.Discard()
		u.onRight = true
	}
	return u.r.Next()
}

func (u *Union) Discard() {
	if u.onRight {
		u.r.Discard()
	} else {
		u.l.Discard()
	}
	u.onRight = false
}

func (u *Union) Vars() []*fd.Variable  { return dedupVars(u.l.Vars(), u.r.Vars()) }
func (u *Union) CVars() []*fd.Variable { return dedupVars(u.l.CVars(), u.r.CVars()) }
