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

// recordingEnqueuer counts how many times each event list fires, for
// asserting propagation-event behavior without a real solver.
type recordingEnqueuer struct {
	binds, changes, mins, maxes int
}

func (r *recordingEnqueuer) Enqueue(list []Constraint) {
	if len(list) == 0 {
		return
	}
	switch list[0].(*fakeConstraint).kind {
	case "bind":
		r.binds++
	case "change":
		r.changes++
	case "min":
		r.mins++
	case "max":
		r.maxes++
	}
}

type fakeConstraint struct{ kind string }

func (f *fakeConstraint) Priority() Priority { return PriorityMedium }

func newTestVariable(enq Enqueuer, lo, hi int) *Variable {
	v := NewVariable(enq, lo, hi)
	v.RegisterBind(&fakeConstraint{"bind"})
	v.RegisterChange(&fakeConstraint{"change"})
	v.RegisterMin(&fakeConstraint{"min"})
	v.RegisterMax(&fakeConstraint{"max"})
	return v
}
