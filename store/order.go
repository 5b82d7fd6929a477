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

package store

import "github.com/castor-db/castor/cache"

// Order names one of the three physical triple orderings the store
// maintains: the three whose last component covers every single unbound
// slot a Triple constraint ever needs, so iteration can always place the
// unbound slot last: SPO ends in O, POS ends in S, OSP ends in P.
type Order uint8

const (
	SPO Order = iota
	POS
	OSP

	numOrders = int(OSP) + 1
)

func (o Order) String() string {
	switch o {
	case SPO:
		return "SPO"
	case POS:
		return "POS"
	case OSP:
		return "OSP"
	default:
		return "unknown-order"
	}
}

// toOrder permutes a canonical (s, p, o) triple into order's key order.
func toOrder(t cache.Triple, o Order) cache.Triple {
	switch o {
	case POS:
		return cache.Triple{t[1], t[2], t[0]}
	case OSP:
		return cache.Triple{t[2], t[0], t[1]}
	default:
		return t
	}
}

// fromOrder is the inverse of toOrder: given a key in order's key order, it
// returns the canonical (s, p, o) triple.
func fromOrder(t cache.Triple, o Order) cache.Triple {
	switch o {
	case POS:
		return cache.Triple{t[2], t[0], t[1]}
	case OSP:
		return cache.Triple{t[1], t[2], t[0]}
	default:
		return t
	}
}

// orderForUnbound picks the maintained ordering that places the given
// canonical component slot (0 = s, 1 = p, 2 = o) last, so that slot varies
// the fastest when walking leaves left to right.
func orderForUnbound(slot int) Order {
	switch slot {
	case 0:
		return POS
	case 1:
		return OSP
	default:
		return SPO
	}
}
