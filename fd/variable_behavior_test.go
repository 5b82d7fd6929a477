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

import "testing"

func TestNewVariableDomainCoversRange(t *testing.T) {
	enq := &recordingEnqueuer{}
	v := newTestVariable(enq, 1, 5)
	if v.Size() != 5 {
		t.Fatalf("Size() = %d, want 5", v.Size())
	}
	for i := 1; i <= 5; i++ {
		if !v.Contains(i) {
			t.Errorf("expected domain to contain %d", i)
		}
	}
	if v.Contains(0) || v.Contains(6) {
		t.Error("domain must not contain values outside the initial range")
	}
}

func TestBindReducesToSingleValueAndFiresEvents(t *testing.T) {
	enq := &recordingEnqueuer{}
	v := newTestVariable(enq, 1, 5)
	if ok := v.Bind(3); !ok {
		t.Fatal("Bind(3) should succeed")
	}
	if !v.IsBound() || v.Value() != 3 {
		t.Fatalf("expected variable bound to 3, got bound=%v value=%d", v.IsBound(), v.Value())
	}
	if enq.binds == 0 || enq.changes == 0 || enq.mins == 0 || enq.maxes == 0 {
		t.Fatalf("expected all four events to fire on Bind, got %+v", enq)
	}
}

func TestBindOutOfDomainFails(t *testing.T) {
	enq := &recordingEnqueuer{}
	v := newTestVariable(enq, 1, 5)
	if ok := v.Bind(9); ok {
		t.Fatal("Bind(9) should fail: 9 is outside the domain")
	}
}

func TestRemoveLoosensBoundByOneNotTightly(t *testing.T) {
	enq := &recordingEnqueuer{}
	v := newTestVariable(enq, 1, 5)
	if ok := v.Remove(1); !ok {
		t.Fatal("Remove(1) should succeed")
	}
	// The bound only loosens past the removed boundary value; it is not
	// recomputed as the tightest remaining bound.
	if v.Min() != 2 {
		t.Fatalf("Min() = %d, want 2 (loosened, not retightened)", v.Min())
	}
	if v.Contains(1) {
		t.Error("1 should no longer be in the domain")
	}
	if v.Size() != 4 {
		t.Fatalf("Size() = %d, want 4", v.Size())
	}
}

func TestRemoveLastValueFails(t *testing.T) {
	enq := &recordingEnqueuer{}
	v := newTestVariable(enq, 1, 1)
	if ok := v.Remove(1); ok {
		t.Fatal("removing the only remaining value must fail")
	}
}

func TestRemoveOutsideInitialRangeIsNoop(t *testing.T) {
	enq := &recordingEnqueuer{}
	v := newTestVariable(enq, 1, 5)
	if ok := v.Remove(100); !ok {
		t.Fatal("removing a value outside the initial range must be a harmless success")
	}
	if v.Size() != 5 {
		t.Fatalf("Size() = %d, want unchanged 5", v.Size())
	}
}

func TestMarkAndRestrictToMarks(t *testing.T) {
	enq := &recordingEnqueuer{}
	v := newTestVariable(enq, 1, 5)
	v.Mark(2)
	v.Mark(4)
	if ok := v.RestrictToMarks(); !ok {
		t.Fatal("RestrictToMarks should succeed with two marks")
	}
	if v.Size() != 2 {
		t.Fatalf("Size() = %d, want 2", v.Size())
	}
	if !v.Contains(2) || !v.Contains(4) {
		t.Error("expected domain to be restricted to {2, 4}")
	}
	if v.Contains(1) || v.Contains(3) || v.Contains(5) {
		t.Error("expected unmarked values to be gone")
	}
}

func TestRestrictToMarksWithNoMarksEmptiesDomain(t *testing.T) {
	enq := &recordingEnqueuer{}
	v := newTestVariable(enq, 1, 5)
	if ok := v.RestrictToMarks(); ok {
		t.Fatal("RestrictToMarks with zero marks must fail (empty domain)")
	}
}

func TestUpdateMinAndMax(t *testing.T) {
	enq := &recordingEnqueuer{}
	v := newTestVariable(enq, 1, 10)
	if ok := v.UpdateMin(4); !ok {
		t.Fatal("UpdateMin(4) should succeed")
	}
	if v.Min() != 4 {
		t.Fatalf("Min() = %d, want 4", v.Min())
	}
	if ok := v.UpdateMax(7); !ok {
		t.Fatal("UpdateMax(7) should succeed")
	}
	if v.Max() != 7 {
		t.Fatalf("Max() = %d, want 7", v.Max())
	}
	if v.Contains(3) || v.Contains(8) {
		t.Error("expected domain restricted to [4,7]")
	}
}

func TestUpdateMinBeyondMaxFails(t *testing.T) {
	enq := &recordingEnqueuer{}
	v := newTestVariable(enq, 1, 5)
	if ok := v.UpdateMin(9); ok {
		t.Fatal("UpdateMin beyond the current max must fail")
	}
}

func TestUpdateMinEqualToMaxBinds(t *testing.T) {
	enq := &recordingEnqueuer{}
	v := newTestVariable(enq, 1, 5)
	if ok := v.UpdateMin(5); !ok {
		t.Fatal("UpdateMin(max) should succeed by binding")
	}
	if !v.IsBound() || v.Value() != 5 {
		t.Fatal("expected the variable to become bound to 5")
	}
}

func TestSelectAndUnselectRoundTrip(t *testing.T) {
	enq := &recordingEnqueuer{}
	v := newTestVariable(enq, 1, 3)
	first := v.Domain()[0]
	ck := v.Checkpoint()
	if ok := v.Select(); !ok {
		t.Fatal("Select should succeed")
	}
	if !v.IsBound() || v.Value() != first {
		t.Fatal("Select should bind the variable to its former first domain value")
	}
	// Backtracking restores the pre-Select state before calling Unselect.
	v.Restore(ck)
	if ok := v.Unselect(); !ok {
		t.Fatal("Unselect should succeed")
	}
	if v.Contains(first) || v.Size() != 2 {
		t.Fatal("Unselect should exclude the selected value and keep the other alternatives")
	}
}

func TestCheckpointRestoreRoundTrip(t *testing.T) {
	enq := &recordingEnqueuer{}
	v := newTestVariable(enq, 1, 5)
	ck := v.Checkpoint()
	v.Remove(1)
	v.Remove(2)
	if v.Size() != 3 {
		t.Fatalf("Size() = %d, want 3 after two removes", v.Size())
	}
	v.Restore(ck)
	if v.Size() != 5 {
		t.Fatalf("Size() after Restore = %d, want 5", v.Size())
	}
	for i := 1; i <= 5; i++ {
		if !v.Contains(i) {
			t.Errorf("expected %d back in the domain after Restore", i)
		}
	}
}

func TestTrailPushPop(t *testing.T) {
	enq := &recordingEnqueuer{}
	a := newTestVariable(enq, 1, 5)
	b := newTestVariable(enq, 10, 20)
	trail := NewTrail([]*Variable{a, b})

	trail.Push()
	a.Remove(1)
	b.Bind(15)
	trail.Push()
	a.Remove(2)

	trail.Pop()
	if a.Size() != 4 {
		t.Fatalf("after one Pop, a.Size() = %d, want 4", a.Size())
	}
	if !b.IsBound() || b.Value() != 15 {
		t.Fatal("b should still be bound to 15 after popping the inner frame")
	}

	trail.Pop()
	if a.Size() != 5 {
		t.Fatalf("after second Pop, a.Size() = %d, want 5", a.Size())
	}
	if b.IsBound() {
		t.Fatal("b should be unbound again after popping back to the outer frame")
	}
}
