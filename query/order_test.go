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

package query

import (
	"testing"

	"github.com/castor-db/castor/constraint"
	"github.com/castor-db/castor/fd"
	"github.com/castor-db/castor/term"
)

// idVar gives an orderSpec a bare variable, which makes compare use the
// captured value ids; the variable itself is never read by compare.
func idVar() *fd.Variable { return fd.NewVariable(nil, 0, 0) }

func TestOrderSpecCompareByIDAscending(t *testing.T) {
	spec := orderSpec{v: idVar()}
	a := constraint.SolutionKey{ID: 3}
	b := constraint.SolutionKey{ID: 7}
	if got := spec.compare(a, b); got != -1 {
		t.Fatalf("compare(3, 7) = %d, want -1", got)
	}
	if got := spec.compare(b, a); got != 1 {
		t.Fatalf("compare(7, 3) = %d, want 1", got)
	}
	if got := spec.compare(a, a); got != 0 {
		t.Fatalf("compare(3, 3) = %d, want 0", got)
	}
}

func TestOrderSpecCompareDescendingFlipsSign(t *testing.T) {
	spec := orderSpec{v: idVar(), desc: true}
	a := constraint.SolutionKey{ID: 3}
	b := constraint.SolutionKey{ID: 7}
	if got := spec.compare(a, b); got != 1 {
		t.Fatalf("desc compare(3, 7) = %d, want 1", got)
	}
}

func TestOrderSpecCompareByExpressionValue(t *testing.T) {
	spec := orderSpec{}
	a := constraint.SolutionKey{Value: term.NewInteger(1)}
	b := constraint.SolutionKey{Value: term.NewInteger(2)}
	if got := spec.compare(a, b); got != -1 {
		t.Fatalf("compare(1, 2) = %d, want -1", got)
	}
}

func TestCompareRowsUsesFirstDifferingKey(t *testing.T) {
	specs := []orderSpec{{v: idVar()}, {v: idVar()}}
	a := []constraint.SolutionKey{{ID: 1}, {ID: 9}}
	b := []constraint.SolutionKey{{ID: 1}, {ID: 2}}
	if got := compareRows(specs, a, b); got != 1 {
		t.Fatalf("compareRows() = %d, want 1 (tie on first key, b wins second)", got)
	}
}

func TestInsertSortedKeepsAscendingOrder(t *testing.T) {
	specs := []orderSpec{{v: idVar()}}
	var buf []bufRow
	rows := []int{5, 1, 3, 2, 4}
	for _, id := range rows {
		buf = insertSorted(specs, buf, bufRow{
			ids:  []int{id},
			keys: []constraint.SolutionKey{{ID: term.ValueID(id)}},
		})
	}
	want := []int{1, 2, 3, 4, 5}
	if len(buf) != len(want) {
		t.Fatalf("insertSorted() len = %d, want %d", len(buf), len(want))
	}
	for i, w := range want {
		if buf[i].ids[0] != w {
			t.Fatalf("insertSorted()[%d] = %d, want %d", i, buf[i].ids[0], w)
		}
	}
}

func TestInsertSortedDescending(t *testing.T) {
	specs := []orderSpec{{v: idVar(), desc: true}}
	var buf []bufRow
	for _, id := range []int{1, 3, 2} {
		buf = insertSorted(specs, buf, bufRow{
			ids:  []int{id},
			keys: []constraint.SolutionKey{{ID: term.ValueID(id)}},
		})
	}
	want := []int{3, 2, 1}
	for i, w := range want {
		if buf[i].ids[0] != w {
			t.Fatalf("insertSorted()[%d] = %d, want %d", i, buf[i].ids[0], w)
		}
	}
}
