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

// LeftJoin evaluates l and, for each solution, every consistent r
// extension; if r never matches for that l-solution, it yields exactly
// one row with r's extra variables forced unbound.
type LeftJoin struct {
	l, r     Pattern
	rRunning bool
	matched  bool

	// optVars is r.Vars() \ l.Vars(): the variables only r can bind, which
	// get ForceUnbound when no r-extension exists for the current l
	// solution.
	optVars []*fd.Variable
}

// NewLeftJoin builds the l OPTIONAL{r} pattern.
func NewLeftJoin(l, r Pattern) *LeftJoin {
	return &LeftJoin{l: l, r: r, optVars: subtractVars(r.Vars(), l.Vars())}
}

func (lj *LeftJoin) Init() error {
	if err := lj.l.Init(); err != nil {
		return err
	}
	return lj.r.Init()
}

func (lj *LeftJoin) Next() (bool, error) {
	for {
		if lj.rRunning {
			ok, err := lj.r.Next()
			if err != nil {
				return false, err
			}
			if ok {
				lj.matched = true
				return true, nil
			}
			lj.r.Discard()
			lj.rRunning = false
			if !lj.matched {
				for _, v := range lj.optVars {
					v.ForceUnbound()
				}
				return true, nil
			}
		}
		ok, err := lj.l.Next()
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
		lj.rRunning = true
		lj.matched = false
	}
}

func (lj *LeftJoin) Discard() {
	if lj.rRunning {
		lj.r.Discard()
		lj.rRunning = false
	}
	lj.l.Discard()
}

func (lj *LeftJoin) Vars() []*fd.Variable  { return dedupVars(lj.l.Vars(), lj.r.Vars()) }
func (lj *LeftJoin) CVars() []*fd.Variable { return lj.l.CVars() }
