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

import (
	"testing"

	"github.com/castor-db/castor/expr"
	"github.com/castor-db/castor/fd"
)

// noopEnqueuer discards every propagation event; the tests in this file
// drive Variable state directly (ForceUnbound, domain construction) and
// never need a real solver loop.
type noopEnqueuer struct{}

func (noopEnqueuer) Enqueue([]fd.Constraint) {}

func newVar(lo, hi int) *fd.Variable { return fd.NewVariable(noopEnqueuer{}, lo, hi) }

// fakePattern is a scripted Pattern double: Next() replays a fixed
// sequence of (ok, err) results, recording how many times each method was
// called so tests can assert on control flow without a real store/solver.
type fakePattern struct {
	results     []bool
	pos         int
	vars, cvars []*fd.Variable

	discards int
	inits    int
}

func (f *fakePattern) Init() error { f.inits++; return nil }

func (f *fakePattern) Next() (bool, error) {
	if f.pos >= len(f.results) {
		return false, nil
	}
	ok := f.results[f.pos]
	f.pos++
	return ok, nil
}

func (f *fakePattern) Discard() { f.discards++ }

func (f *fakePattern) Vars() []*fd.Variable  { return f.vars }
func (f *fakePattern) CVars() []*fd.Variable { return f.cvars }

func TestDedupVarsPreservesFirstOccurrenceOrder(t *testing.T) {
	a, b, c := newVar(0, 1), newVar(0, 1), newVar(0, 1)
	got := dedupVars([]*fd.Variable{a, b}, []*fd.Variable{b, c})
	want := []*fd.Variable{a, b, c}
	if len(got) != len(want) {
		t.Fatalf("dedupVars() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("dedupVars()[%d] = %p, want %p", i, got[i], want[i])
		}
	}
}

func TestSubtractVars(t *testing.T) {
	a, b, c := newVar(0, 1), newVar(0, 1), newVar(0, 1)
	got := subtractVars([]*fd.Variable{a, b, c}, []*fd.Variable{b})
	if len(got) != 2 || got[0] != a || got[1] != c {
		t.Fatalf("subtractVars() = %v, want [a c]", got)
	}
}

func TestJoinReRunsRightForEveryLeftSolution(t *testing.T) {
	l := &fakePattern{results: []bool{true, true, false}}
	r := &fakePattern{results: []bool{true, false}}
	j := NewJoin(l, r)
	if err := j.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}

	ok, err := j.Next()
	if err != nil || !ok {
		t.Fatalf("Next() #1 = %v, %v, want true, nil", ok, err)
	}
	// r is exhausted for l's first solution, so Join discards r, pulls l's
	// second solution and runs r again; the scripted r has no results left,
	// so it is discarded a second time and l then runs out.
	ok, err = j.Next()
	if err != nil || ok {
		t.Fatalf("Next() #2 = %v, %v, want false, nil", ok, err)
	}
	if r.discards != 2 {
		t.Fatalf("r.discards = %d, want 2 (once per exhausted run)", r.discards)
	}
}

func TestLeftJoinForcesUnboundWhenRightNeverMatches(t *testing.T) {
	shared := newVar(0, 4)
	onlyR := newVar(0, 4)
	onlyR.Bind(2)

	l := &fakePattern{results: []bool{true, false}, vars: []*fd.Variable{shared}, cvars: []*fd.Variable{shared}}
	r := &fakePattern{results: []bool{false}, vars: []*fd.Variable{shared, onlyR}, cvars: []*fd.Variable{shared, onlyR}}
	lj := NewLeftJoin(l, r)
	if err := lj.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}

	ok, err := lj.Next()
	if err != nil || !ok {
		t.Fatalf("Next() = %v, %v, want true, nil", ok, err)
	}
	if !onlyR.IsBound() || onlyR.Value() != 0 {
		t.Fatalf("onlyR = %d (bound=%v), want ForceUnbound to 0", onlyR.Value(), onlyR.IsBound())
	}
	if len(lj.CVars()) != 1 || lj.CVars()[0] != shared {
		t.Fatalf("CVars() = %v, want only l's certain vars", lj.CVars())
	}
}

func TestDiffYieldsOnlyUnmatchedLeftSolutions(t *testing.T) {
	l := &fakePattern{results: []bool{true, true, true, false}}
	r := &fakePattern{results: []bool{true}} // matches l's 1st solution only
	d := NewDiff(l, r)
	if err := d.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}

	// 1st l solution: r matches (true), so Diff skips it and tries again.
	// 2nd l solution: r has no more results queued, so r.Next() returns
	// false and Diff yields it.
	ok, err := d.Next()
	if err != nil || !ok {
		t.Fatalf("Next() = %v, %v, want true, nil", ok, err)
	}
	if r.discards != 2 {
		t.Fatalf("r.discards = %d, want 2 (one per l solution probed)", r.discards)
	}
}

func TestUnionExhaustsLeftThenRight(t *testing.T) {
	l := &fakePattern{results: []bool{true, false}}
	r := &fakePattern{results: []bool{true, false}}
	u := NewUnion(l, r)
	if err := u.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}

	if ok, _ := u.Next(); !ok {
		t.Fatalf("Next() #1 = false, want true (from l)")
	}
	if ok, _ := u.Next(); !ok {
		t.Fatalf("Next() #2 = false, want true (l exhausted, first solution from r)")
	}
	if ok, _ := u.Next(); ok {
		t.Fatalf("Next() #3 = true, want false (r exhausted)")
	}
	if l.discards != 1 {
		t.Fatalf("l.discards = %d, want 1", l.discards)
	}
}

func TestOptimizeRewritesFilterLeftJoinNotBoundToDiff(t *testing.T) {
	shared := newVar(0, 4)
	onlyR := newVar(0, 4)
	l := &fakePattern{vars: []*fd.Variable{shared}, cvars: []*fd.Variable{shared}}
	r := &fakePattern{vars: []*fd.Variable{shared, onlyR}, cvars: []*fd.Variable{shared, onlyR}}
	lj := NewLeftJoin(l, r)

	ev := &expr.Variable{Name: "x", CP: onlyR}
	e := expr.NewUnary(expr.KindNot, expr.NewUnary(expr.KindBound, expr.NewVar(ev)))

	got, ok := Optimize(lj, e)
	if !ok {
		t.Fatalf("Optimize() ok = false, want true")
	}
	if _, isDiff := got.(*Diff); !isDiff {
		t.Fatalf("Optimize() = %T, want *Diff", got)
	}
}

func TestOptimizeDoesNotRewriteWhenVariableIsInLeft(t *testing.T) {
	shared := newVar(0, 4)
	l := &fakePattern{vars: []*fd.Variable{shared}, cvars: []*fd.Variable{shared}}
	r := &fakePattern{vars: []*fd.Variable{shared}, cvars: []*fd.Variable{shared}}
	lj := NewLeftJoin(l, r)

	ev := &expr.Variable{Name: "x", CP: shared}
	e := expr.NewUnary(expr.KindNot, expr.NewUnary(expr.KindBound, expr.NewVar(ev)))

	if _, ok := Optimize(lj, e); ok {
		t.Fatalf("Optimize() ok = true, want false (x bound in l already)")
	}
}

func TestOptimizeIgnoresNonLeftJoinPatterns(t *testing.T) {
	l := &fakePattern{}
	e := expr.NewUnary(expr.KindNot, expr.NewUnary(expr.KindBound, expr.NewVar(&expr.Variable{})))
	if _, ok := Optimize(l, e); ok {
		t.Fatalf("Optimize() ok = true, want false (not a LeftJoin)")
	}
}
