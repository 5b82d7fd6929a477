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
	"sort"
	"sync"

	"github.com/pilosa/pilosa/roaring"

	"github.com/castor-db/castor/page"
	"github.com/castor-db/castor/term"
)

// eqBoundaries lazily materializes the on-disk equivalence-class bitmap as
// a *roaring.Bitmap, built once from the raw words read straight out of the
// store's mmap'd page region: a mmap'd, read-only, page-backed bitmap built
// once from a file and then queried repeatedly, the same way a roaring
// index is built over a fragment file. roaring.Bitmap has no predecessor
// query, so a sorted slice of its members (Bitmap.Slice()) backs the
// backward scan; the forward scan and membership checks go through the
// bitmap itself.
type eqBoundaries struct {
	once   sync.Once
	err    error
	bitmap *roaring.Bitmap
	sorted []uint64
}

// load scans bit positions [0, throughBit] of the store's equivalence-class
// bitmap page into bm exactly once, regardless of how many distinct ids
// end up querying EqClass.
func (s *Store) load(throughBit uint32) (*roaring.Bitmap, []uint64, error) {
	s.eqBoundaries.once.Do(func() {
		bm := roaring.NewBitmap()
		lastWord := throughBit / 32
		for w := uint32(0); w <= lastWord; w++ {
			word, err := s.eqClassesWord(w)
			if err != nil {
				s.eqBoundaries.err = err
				return
			}
			if word == 0 {
				continue
			}
			for bit := uint32(0); bit < 32; bit++ {
				if word&(1<<bit) != 0 {
					if _, err := bm.Add(uint64(w)*32 + uint64(bit)); err != nil {
						s.eqBoundaries.err = err
						return
					}
				}
			}
		}
		s.eqBoundaries.bitmap = bm
		s.eqBoundaries.sorted = bm.Slice()
	})
	return s.eqBoundaries.bitmap, s.eqBoundaries.sorted, s.eqBoundaries.err
}

// EqClass returns the inclusive [from, to] equivalence-class range
// containing id: ids that are indistinguishable under Compare because they
// sit between the same pair of set "boundary" bits in the store's
// equivalence-class bitmap. Categories outside [BOOLEAN, OTHER) are always
// compared on lexical value and are thus always singleton classes. The
// backward/forward bit-scan is backed by a roaring.Bitmap rather than raw
// math/bits word scanning.
func (s *Store) EqClass(id term.ValueID) (term.ValueID, term.ValueID, error) {
	boolFirst, _ := s.CategoryRange(term.Boolean)
	otherFirst, _ := s.CategoryRange(term.Other)
	if uint32(id) < uint32(boolFirst) || uint32(id) >= uint32(otherFirst) {
		return id, id, nil
	}

	zero := uint32(id) - 1 // bits are indexed from 0

	from, err := s.scanBoundaryBefore(zero, uint32(otherFirst))
	if err != nil {
		return 0, 0, err
	}
	to, err := s.scanBoundaryAfter(zero, uint32(otherFirst))
	if err != nil {
		return 0, 0, err
	}
	return term.ValueID(from), term.ValueID(to), nil
}

// EqClassOf resolves the equivalence class of an interpreted value not yet
// known to be in the store, by binary-searching the value dictionary for an
// equivalent entry under Compare.
func (s *Store) EqClassOf(v term.Value) (term.ValueID, term.ValueID, error) {
	if v.ID.Valid() {
		return s.EqClass(v.ID)
	}
	left, right := uint32(1), s.ValuesCount()+1
	for left != right {
		middle := left + (right-left)/2
		mid, err := s.LookupValue(term.ValueID(middle))
		if err != nil {
			return 0, 0, err
		}
		mid, err = s.Interpret(mid)
		if err != nil {
			return 0, 0, err
		}
		switch term.Compare(mid, v) {
		case term.Equal:
			return s.EqClass(term.ValueID(middle))
		case term.Less:
			left = middle + 1
		default:
			right = middle
		}
	}
	return term.ValueID(left), term.ValueID(left - 1), nil
}

func (s *Store) eqClassesWord(wordOffset uint32) (uint32, error) {
	cur, err := s.pages.At(uint64(s.hdr.eqClassBitmap)*page.Size + uint64(wordOffset)*4)
	if err != nil {
		return 0, err
	}
	return cur.PeekInt(0), nil
}

// scanBoundaryBefore finds one past the nearest set boundary bit at or
// before zero: zero itself if its own bit is set (checked via the roaring
// bitmap's Contains, the library's own membership query), else the
// predecessor in the cached sorted member list.
func (s *Store) scanBoundaryBefore(zero, otherFirst uint32) (uint32, error) {
	bm, sorted, err := s.load(otherFirst)
	if err != nil {
		return 0, err
	}
	if bm.Contains(uint64(zero)) {
		return zero + 1, nil
	}
	i := sort.Search(len(sorted), func(i int) bool { return sorted[i] > uint64(zero) })
	return uint32(sorted[i-1]) + 1, nil
}

// scanBoundaryAfter finds the nearest set boundary bit at or after zero+1,
// likewise via the roaring bitmap's Contains plus the cached sorted member
// list for the non-exact case.
func (s *Store) scanBoundaryAfter(zero, otherFirst uint32) (uint32, error) {
	bm, sorted, err := s.load(otherFirst)
	if err != nil {
		return 0, err
	}
	id := zero + 1
	if bm.Contains(uint64(id)) {
		return id, nil
	}
	i := sort.Search(len(sorted), func(i int) bool { return sorted[i] >= uint64(id) })
	return uint32(sorted[i]), nil
}
