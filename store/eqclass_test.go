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
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/castor-db/castor/page"
	"github.com/castor-db/castor/term"
)

// writeEqClassBitmapPage builds a single-page file whose first word encodes
// the given set bit positions as the store's equivalence-class bitmap: a
// raw page-store image written straight to a temp file and reopened
// through page.Open.
func writeEqClassBitmapPage(t *testing.T, bits ...uint32) *page.File {
	t.Helper()
	data := make([]byte, page.Size)
	var word uint32
	for _, b := range bits {
		word |= 1 << b
	}
	data[0] = byte(word >> 24)
	data[1] = byte(word >> 16)
	data[2] = byte(word >> 8)
	data[3] = byte(word)

	path := filepath.Join(t.TempDir(), "eqclass.dat")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	pf, err := page.Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { pf.Close() })
	return pf
}

// newEqClassTestStore builds a Store exercising only the fields EqClass
// needs: the category boundary table and the raw eqClassBitmap page,
// without going through the full Open (which also parses the triple and
// dictionary indexes, irrelevant here).
func newEqClassTestStore(t *testing.T, boolFirst, otherFirst uint32, boundaryBits ...uint32) *Store {
	pf := writeEqClassBitmapPage(t, boundaryBits...)
	var bounds [10]uint32
	bounds[term.Boolean] = boolFirst
	bounds[term.Other] = otherFirst
	return &Store{pages: pf, hdr: header{eqClassBitmap: 0}, categoryBounds: bounds}
}

func TestEqClassGroupsIdsBetweenBoundaryBits(t *testing.T) {
	require := require.New(t)

	// Boolean..Other spans ids [5,20]; boundary bits at ids 5, 10, 15, 20
	// (bit = id-1) carve out classes [5,9], [10,14], [15,19].
	s := newEqClassTestStore(t, 5, 21, 4, 9, 14, 19)

	from, to, err := s.EqClass(term.ValueID(7))
	require.NoError(err)
	require.Equal(term.ValueID(5), from, "id 7 should fall in the [5,9] equivalence class")
	require.Equal(term.ValueID(9), to)

	from, to, err = s.EqClass(term.ValueID(10))
	require.NoError(err)
	require.Equal(term.ValueID(10), from, "id 10 itself is a class boundary")
	require.Equal(term.ValueID(14), to)

	from, to, err = s.EqClass(term.ValueID(12))
	require.NoError(err)
	require.Equal(term.ValueID(10), from, "id 12 should fall in the same [10,14] class as id 10")
	require.Equal(term.ValueID(14), to)
}

func TestEqClassOutsideBooleanOtherRangeIsSingleton(t *testing.T) {
	require := require.New(t)

	s := newEqClassTestStore(t, 5, 21, 4, 9, 14, 19)

	from, to, err := s.EqClass(term.ValueID(3))
	require.NoError(err)
	require.Equal(term.ValueID(3), from, "ids below the Boolean category are always singleton classes")
	require.Equal(term.ValueID(3), to)

	from, to, err = s.EqClass(term.ValueID(21))
	require.NoError(err)
	require.Equal(term.ValueID(21), from, "ids at/past Other are always singleton classes")
	require.Equal(term.ValueID(21), to)
}

func TestEqClassLazyLoadIsCachedAcrossCalls(t *testing.T) {
	require := require.New(t)

	s := newEqClassTestStore(t, 5, 21, 4, 9, 14, 19)

	_, _, err := s.EqClass(term.ValueID(6))
	require.NoError(err)
	bm, sorted, err := s.load(21)
	require.NoError(err)
	require.NotNil(bm, "the roaring bitmap should be built on first use")
	require.Equal([]uint64{4, 9, 14, 19}, sorted, "cached member list should match the set boundary bits")
	require.True(bm.Contains(9), "bit 9 should be a member of the cached bitmap")
	require.False(bm.Contains(5), "bit 5 was never set")
}
