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

	"github.com/shopspring/decimal"
)

// Range is a half-open saturating integer approximation [Lo, Hi) of a
// numeric value, used as a fast path by the XPath comparator and by CP
// constraints that prune on value-id ranges. Empty is true for non-numeric
// values (no approximation is meaningful).
//
// Invariant: for any two numeric values a < b under XPath order,
// approx(a).Hi <= approx(b).Lo whenever both approximations are non-empty.
// Conversions saturate: round toward -infinity for the lower bound, toward
// +infinity for the upper bound.
type Range struct {
	Lo, Hi int64
	Empty  bool
}

// Sentinels for +/-infinity saturation, matching the store's 64-bit value
// id space comfortably (ids never approach these bounds).
const (
	NegInf = math.MinInt64
	PosInf = math.MaxInt64
)

// Overlaps reports whether the two ranges share any point, used as the fast
// path before falling back to an exact numeric compare.
func (r Range) Overlaps(o Range) bool {
	if r.Empty || o.Empty {
		return false
	}
	return r.Lo < o.Hi && o.Lo < r.Hi
}

// Before reports whether r is entirely below o (r.Hi <= o.Lo), a sufficient
// condition to conclude r's value < o's value without an exact compare.
func (r Range) Before(o Range) bool {
	if r.Empty || o.Empty {
		return false
	}
	return r.Hi <= o.Lo
}

func approxFromFloat(f float64) Range {
	if math.IsNaN(f) {
		return Range{Empty: true}
	}
	if math.IsInf(f, 1) {
		return Range{Lo: PosInf - 1, Hi: PosInf}
	}
	if math.IsInf(f, -1) {
		return Range{Lo: NegInf, Hi: NegInf + 1}
	}
	lo := saturatingFloor(f)
	hi := saturatingFloor(f) + 1
	return Range{Lo: lo, Hi: hi}
}

func saturatingFloor(f float64) int64 {
	fl := math.Floor(f)
	if fl >= float64(PosInf) {
		return PosInf - 1
	}
	if fl <= float64(NegInf) {
		return NegInf
	}
	return int64(fl)
}

func approxFromDecimal(d decimal.Decimal) Range {
	lo := d.Floor()
	hi := lo.Add(decimal.NewFromInt(1))
	return Range{Lo: saturatingDecToInt(lo), Hi: saturatingDecToInt(hi)}
}

func saturatingDecToInt(d decimal.Decimal) int64 {
	max := decimal.NewFromInt(PosInf)
	min := decimal.NewFromInt(NegInf)
	if d.GreaterThanOrEqual(max) {
		return PosInf
	}
	if d.LessThanOrEqual(min) {
		return NegInf
	}
	return d.IntPart()
}
