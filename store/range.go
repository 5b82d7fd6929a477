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

import (
	"github.com/castor-db/castor/cache"
	"github.com/castor-db/castor/index"
	"github.com/castor-db/castor/page"
)

// fullKey, pairKey and singleKey are the B+-tree key types for the full,
// aggregated and fully-aggregated indexes respectively: 3, 2 and 1 leading
// components of a key-ordered triple.

type fullKey [3]uint32

func (k fullKey) Less(other index.Key) bool { return lessTuple(k[:], other.(fullKey)[:]) }

type pairKey [2]uint32

func (k pairKey) Less(other index.Key) bool { return lessTuple(k[:], other.(pairKey)[:]) }

type singleKey uint32

func (k singleKey) Less(other index.Key) bool { return k < other.(singleKey) }

func lessTuple(a, b []uint32) bool {
	for i := range a {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return false
}

func readFullKey(c page.Cursor) index.Key {
	return fullKey{c.ReadInt(), c.ReadInt(), c.ReadInt()}
}

func readPairKey(c page.Cursor) index.Key {
	return pairKey{c.ReadInt(), c.ReadInt()}
}

func readSingleKey(c page.Cursor) index.Key {
	return singleKey(c.ReadInt())
}

// tripleLess compares two triples component-wise in the order they are
// given (the caller is responsible for passing them already permuted into
// whichever order the comparison should happen in).
func tripleLess(a, b cache.Triple) bool { return lessTuple(a[:], b[:]) }

// autoOrder picks the maintained ordering whose key places the widest
// (non-singleton) range components last.
func autoOrder(from, to cache.Triple) Order {
	mask := 0
	if from[0] != to[0] {
		mask |= 1
	}
	if from[1] != to[1] {
		mask |= 2
	}
	if from[2] != to[2] {
		mask |= 4
	}
	switch mask {
	case 4, 6:
		return SPO
	case 2, 3:
		return OSP
	default: // 0, 1, 5, 7
		return POS
	}
}

// TripleRange is a streaming iterator over a range of triples in one
// maintained ordering, walking decompressed cache lines forward or
// backward.
type TripleRange struct {
	store     *Store
	order     Order
	limit     cache.Triple // upper (or lower, if direction < 0) bound, in key order
	direction int

	nextPage uint32
	line     *cache.Line
	idx      int
	endIdx   int
}

// NewRange builds a range iterator over [from, to] (inclusive), both given
// as canonical (s, p, o) triples with 0 meaning "open" on that bound isn't
// supported here (callers pass concrete bounds; unbound components are
// expressed via TriplesCount's Pattern or by a full min/max sentinel range).
// If to is lexicographically before from, the range iterates backward.
func (s *Store) NewRange(from, to cache.Triple, order Order) (*TripleRange, error) {
	key := toOrder(from, order)
	limit := toOrder(to, order)
	direction := 1
	if tripleLess(to, from) {
		direction = -1
	}

	r := &TripleRange{store: s, order: order, limit: limit, direction: direction}

	leaf, err := s.orders[order].full.LookupLeaf(fullKey(key))
	if err != nil {
		return nil, err
	}
	if leaf == 0 {
		return r, nil
	}

	line, err := s.cache.Fetch(cache.Full, leaf)
	if err != nil {
		return nil, err
	}

	if direction < 0 {
		if len(line.Triples) > 0 && tripleLess(key, line.Triples[0]) {
			if line.First {
				s.cache.Release(line)
				return r, nil
			}
			s.cache.Release(line)
			leaf--
			line, err = s.cache.Fetch(cache.Full, leaf)
			if err != nil {
				return nil, err
			}
			if !line.First {
				r.nextPage = leaf - 1
			}
			r.line = line
			r.idx = len(line.Triples) - 1
			r.endIdx = -1
			return r, nil
		}
		n := upperBoundFull(line.Triples, key)
		if !line.First {
			r.nextPage = leaf - 1
		}
		r.line = line
		r.idx = n - 1
		r.endIdx = -1
		if r.idx == r.endIdx {
			s.cache.Release(line)
			r.line = nil
			r.nextPage = 0
		}
		return r, nil
	}

	n := lowerBoundFull(line.Triples, key)
	if !line.Last {
		r.nextPage = leaf + 1
	}
	r.line = line
	r.idx = n
	r.endIdx = len(line.Triples)
	if r.idx == r.endIdx {
		s.cache.Release(line)
		r.line = nil
		r.nextPage = 0
	}
	return r, nil
}

// Next advances the range and returns the next canonical (s, p, o) triple.
// ok is false once the range is exhausted; further calls are undefined.
func (r *TripleRange) Next() (cache.Triple, bool, error) {
	if r.idx == r.endIdx {
		if r.line != nil {
			r.store.cache.Release(r.line)
			r.line = nil
		}
		if r.nextPage == 0 {
			return cache.Triple{}, false, nil
		}
		line, err := r.store.cache.Fetch(cache.Full, r.nextPage)
		if err != nil {
			return cache.Triple{}, false, err
		}
		r.line = line
		if r.direction > 0 {
			if line.Last {
				r.nextPage = 0
			} else {
				r.nextPage++
			}
			r.idx = 0
			r.endIdx = len(line.Triples)
		} else {
			if line.First {
				r.nextPage = 0
			} else {
				r.nextPage--
			}
			r.idx = len(line.Triples) - 1
			r.endIdx = -1
		}
	}
	t := r.line.Triples[r.idx]
	if r.direction > 0 {
		if tripleLess(r.limit, t) {
			return cache.Triple{}, false, nil
		}
	} else if tripleLess(t, r.limit) {
		return cache.Triple{}, false, nil
	}
	result := fromOrder(t, r.order)
	r.idx += r.direction
	return result, true, nil
}

// Close releases any pinned cache line still held by the range. Safe to
// call multiple times.
func (r *TripleRange) Close() {
	if r.line != nil {
		r.store.cache.Release(r.line)
		r.line = nil
	}
}

func lowerBoundFull(ts []cache.Triple, key cache.Triple) int {
	lo, hi := 0, len(ts)
	for lo < hi {
		mid := (lo + hi) / 2
		if tripleLess(ts[mid], key) {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return lo
}

func upperBoundFull(ts []cache.Triple, key cache.Triple) int {
	lo, hi := 0, len(ts)
	for lo < hi {
		mid := (lo + hi) / 2
		if tripleLess(key, ts[mid]) {
			hi = mid
		} else {
			lo = mid + 1
		}
	}
	return lo
}

func lowerBoundPair(ts []cache.Triple, key pairKey) int {
	lo, hi := 0, len(ts)
	for lo < hi {
		mid := (lo + hi) / 2
		if lessTuple(ts[mid][:2], key[:]) {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return lo
}

func lowerBoundSingle(ts []cache.Triple, key singleKey) int {
	lo, hi := 0, len(ts)
	for lo < hi {
		mid := (lo + hi) / 2
		if ts[mid][0] < uint32(key) {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return lo
}
