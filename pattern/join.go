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

// Join evaluates l then re-runs r to exhaustion against each l solution.
// Shared SPARQL variables are the same *fd.Variable across l and r, so r's
// subtree sees them already bound and only searches its own fresh
// variables.
type Join struct {
	l, r     Pattern
	rRunning bool
}

// NewJoin builds the conjunction l ⋈ r.
func NewJoin(l, r Pattern) *Join { return &Join{l: l, r: r} }

func (j *Join) Init() error {
	if err := j.l.Init(); err != nil {
		return err
	}
	return j.r.Init()
}

func (j *Join) Next() (bool, error) {
	for {
		if j.rRunning {
			ok, err := j.r.Next()
			if err != nil {
				return false, err
			}
			if ok {
				return true, nil
			}
			j.r.Discard()
			j.rRunning = false
		}
		ok, err := j.l.Next()
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
		j.rRunning = true
	}
}

func (j *Join) Discard() {
	if j.rRunning {
		j.r.Discard()
		j.rRunning = false
	}
	j.l.Discard()
}

func (j *Join) Vars() []*fd.Variable  { return dedupVars(j.l.Vars(), j.r.Vars()) }
func (j *Join) CVars() []*fd.Variable { return dedupVars(j.l.CVars(), j.r.CVars()) }
