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

package term

import (
	"math"
	"testing"

	"github.com/shopspring/decimal"
)

func TestApproxFromFloatOrdinary(t *testing.T) {
	r := approxFromFloat(3.5)
	if r.Empty || r.Lo != 3 || r.Hi != 4 {
		t.Fatalf("approxFromFloat(3.5) = %+v, want [3,4)", r)
	}
}

func TestApproxFromFloatNaNIsEmpty(t *testing.T) {
	r := approxFromFloat(math.NaN())
	if !r.Empty {
		t.Fatal("expected NaN to produce an empty approximation")
	}
}

func TestApproxFromFloatInfinitySaturates(t *testing.T) {
	pos := approxFromFloat(math.Inf(1))
	if pos.Empty || pos.Hi != PosInf {
		t.Fatalf("approxFromFloat(+Inf) = %+v, want Hi=%d", pos, PosInf)
	}
	neg := approxFromFloat(math.Inf(-1))
	if neg.Empty || neg.Lo != NegInf {
		t.Fatalf("approxFromFloat(-Inf) = %+v, want Lo=%d", neg, NegInf)
	}
}

func TestApproxFromDecimal(t *testing.T) {
	d := decimal.RequireFromString("7.25")
	r := approxFromDecimal(d)
	if r.Empty || r.Lo != 7 || r.Hi != 8 {
		t.Fatalf("approxFromDecimal(7.25) = %+v, want [7,8)", r)
	}
	neg := approxFromDecimal(decimal.RequireFromString("-1.5"))
	if neg.Lo != -2 || neg.Hi != -1 {
		t.Fatalf("approxFromDecimal(-1.5) = %+v, want [-2,-1)", neg)
	}
}

func TestRangeOverlapsAndBefore(t *testing.T) {
	a := Range{Lo: 0, Hi: 5}
	b := Range{Lo: 5, Hi: 10}
	c := Range{Lo: 3, Hi: 8}

	if a.Overlaps(b) {
		t.Error("[0,5) and [5,10) must not overlap")
	}
	if !a.Before(b) {
		t.Error("[0,5) must be Before [5,10)")
	}
	if !a.Overlaps(c) {
		t.Error("[0,5) and [3,8) must overlap")
	}
	if a.Before(c) {
		t.Error("[0,5) is not entirely Before [3,8)")
	}
}

func TestRangeEmptyNeverOverlapsOrPrecedes(t *testing.T) {
	empty := Range{Empty: true}
	other := Range{Lo: 0, Hi: 5}
	if empty.Overlaps(other) || other.Overlaps(empty) {
		t.Error("an empty range must never overlap")
	}
	if empty.Before(other) || other.Before(empty) {
		t.Error("an empty range must never precede or be preceded")
	}
}
