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

// Package store implements Castor's read-only store facade: header
// parsing, value/string dictionary resolution, equivalence classes,
// category ranges, triple-count queries and the ordered triple range
// iterator, built on top of page, index and cache.
package store

import (
	"github.com/pkg/errors"

	"github.com/castor-db/castor/page"
)

// magic is the 10-byte file signature every store file must start with.
var magic = [10]byte{0xd0, 0xd4, 0xc5, 0xd8, 'C', 'a', 's', 't', 'o', 'r'}

// formatVersion is the only on-disk format version this implementation reads.
const formatVersion = 11

// header is the decoded contents of page 0.
type header struct {
	triplesCount uint32
	triplesTable uint32

	orders [numOrders]orderDescriptor

	fullyAggregatedRoots [3]uint32

	stringsCount    uint32
	stringsTable    uint32
	stringMap       uint32
	stringsHashRoot uint32

	valuesTable    uint32
	valuesHashRoot uint32
	eqClassBitmap  uint32

	// categoryBounds holds the first id of categories URI..Other (8 entries)
	// plus the sentinel id past Other (1 entry) = 9 entries; Blank's first
	// id is always the implicit 1.
	categoryBounds [9]uint32
}

type orderDescriptor struct {
	leafBegin, leafEnd uint32
	fullRoot           uint32
	aggregatedRoot     uint32
}

func readHeader(pages *page.File) (header, error) {
	cur, err := pages.Page(0)
	if err != nil {
		return header{}, errors.Wrap(err, "store: read header page")
	}
	var got [10]byte
	copy(got[:], cur.Bytes(10))
	if got != magic {
		return header{}, ErrInvalidMagic.New()
	}
	c := cur.Add(10)

	var h header
	if v := c.ReadInt(); v != formatVersion {
		return header{}, ErrUnsupportedVersion.New(v)
	}
	h.triplesCount = c.ReadInt()
	h.triplesTable = c.ReadInt()
	for i := range h.orders {
		h.orders[i] = orderDescriptor{
			leafBegin:      c.ReadInt(),
			leafEnd:        c.ReadInt(),
			fullRoot:       c.ReadInt(),
			aggregatedRoot: c.ReadInt(),
		}
	}
	for i := range h.fullyAggregatedRoots {
		h.fullyAggregatedRoots[i] = c.ReadInt()
	}
	h.stringsCount = c.ReadInt()
	h.stringsTable = c.ReadInt()
	h.stringMap = c.ReadInt()
	h.stringsHashRoot = c.ReadInt()
	h.valuesTable = c.ReadInt()
	h.valuesHashRoot = c.ReadInt()
	h.eqClassBitmap = c.ReadInt()
	for i := range h.categoryBounds {
		h.categoryBounds[i] = c.ReadInt()
	}
	return h, nil
}

// categoryFirstIDs expands the 9 stored boundaries into a 10-entry table
// bounds[cat] = first id of cat, for cat in [0, NumCategories], where the
// last entry is the sentinel one past the last real value id.
func (h header) categoryFirstIDs() [10]uint32 {
	var b [10]uint32
	b[0] = 1
	copy(b[1:], h.categoryBounds[:])
	return b
}
