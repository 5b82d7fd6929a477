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

package index

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/castor-db/castor/page"
)

func putBE32(b []byte, off int, v uint32) {
	binary.BigEndian.PutUint32(b[off:], v)
}

// buildSingleLeafStore writes a 2-page store: page 0 is reserved/unused,
// page 1 is a single leaf B+-tree page (flags=0, i.e. not inner, not marked
// first/last) holding the given sorted (hash, value) entries with a 4-byte
// value width.
func buildSingleLeafStore(t *testing.T, entries [][2]uint32) *page.File {
	t.Helper()
	buf := make([]byte, page.Size*2)
	leaf := buf[page.Size:]
	putBE32(leaf, 0, 0) // flags: leaf, not first/last
	putBE32(leaf, 4, uint32(len(entries)))
	off := 8
	for _, e := range entries {
		putBE32(leaf, off, e[0])
		putBE32(leaf, off+4, e[1])
		off += 8
	}
	path := filepath.Join(t.TempDir(), "idx.dat")
	if err := os.WriteFile(path, buf, 0o644); err != nil {
		t.Fatalf("write store: %v", err)
	}
	f, err := page.Open(path)
	if err != nil {
		t.Fatalf("page.Open: %v", err)
	}
	t.Cleanup(func() { f.Close() })
	return f
}

func TestBTreeLookupLeafSingleLeafRoot(t *testing.T) {
	f := buildSingleLeafStore(t, [][2]uint32{{10, 100}, {20, 200}})
	bt := NewBTree(f, 1, Codec{Size: HashKeySize, Read: func(c page.Cursor) Key {
		return HashKey(c.PeekInt(0))
	}})
	leaf, err := bt.LookupLeaf(HashKey(15))
	if err != nil {
		t.Fatalf("LookupLeaf: %v", err)
	}
	if leaf != 1 {
		t.Fatalf("LookupLeaf() = %d, want 1 (the only leaf)", leaf)
	}
}

func TestHashTreeLookupFindsExactMatch(t *testing.T) {
	f := buildSingleLeafStore(t, [][2]uint32{{10, 100}, {20, 200}, {30, 300}})
	ht := NewHashTree(f, 1, 4)

	cur, _, ok, err := ht.Lookup(20)
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if !ok {
		t.Fatal("expected hash 20 to be found")
	}
	if hash := cur.PeekInt(0); hash != 20 {
		t.Fatalf("entry hash = %d, want 20", hash)
	}
	if value := cur.PeekInt(4); value != 200 {
		t.Fatalf("entry value = %d, want 200", value)
	}
}

func TestHashTreeLookupMissingHash(t *testing.T) {
	f := buildSingleLeafStore(t, [][2]uint32{{10, 100}, {30, 300}})
	ht := NewHashTree(f, 1, 4)

	_, _, ok, err := ht.Lookup(20)
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if ok {
		t.Fatal("expected hash 20 to be absent")
	}
}

func TestHashTreeLookupWalksBackOverCollisions(t *testing.T) {
	// Three entries share hash 5; Lookup must return the first of the run.
	f := buildSingleLeafStore(t, [][2]uint32{{5, 1}, {5, 2}, {5, 3}, {9, 9}})
	ht := NewHashTree(f, 1, 4)

	cur, run, ok, err := ht.Lookup(5)
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if !ok {
		t.Fatal("expected hash 5 to be found")
	}
	if value := cur.PeekInt(4); value != 1 {
		t.Fatalf("expected the first colliding entry (value 1), got %d", value)
	}
	if run != 3 {
		t.Fatalf("run = %d, want 3 colliding entries", run)
	}
}
