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

import "github.com/castor-db/castor/page"

// HashKey is the B+-tree key used by the hash-tree indexes: the 32-bit hash
// of a dictionary string or value.
type HashKey uint32

// Less implements Key.
func (k HashKey) Less(other Key) bool { return k < other.(HashKey) }

// HashKeySize is the on-disk width of a HashKey.
const HashKeySize = 4

// HashTree is a B+-tree whose leaves hold (hash, value) pairs sorted by
// hash, with fixed-width values; it is used both by the string dictionary's
// hash index and by the value dictionary's hash index.
type HashTree struct {
	tree      *BTree
	valueSize int
}

// NewHashTree builds a hash-tree view with fixed-width values of valueSize
// bytes following each 4-byte hash.
func NewHashTree(pages *page.File, root uint32, valueSize int) *HashTree {
	codec := Codec{Size: HashKeySize, Read: readHashKeyAdvancing}
	return &HashTree{tree: NewBTree(pages, root, codec), valueSize: valueSize}
}

func readHashKeyAdvancing(c page.Cursor) Key {
	cc := c
	return HashKey(cc.ReadInt())
}

// EntrySize is the on-disk width of one (hash, value) leaf entry.
func (h *HashTree) EntrySize() int { return HashKeySize + h.valueSize }

// Lookup returns a cursor positioned at the first (hash, value) entry with
// the given hash, walking back over any hash-collision run within the leaf,
// plus how many further entries (including this one) in the leaf share that
// hash, so the caller can walk the whole collision run with EntrySize steps.
// ok is false if no entry with that hash exists.
func (h *HashTree) Lookup(hash uint32) (cur page.Cursor, run int, ok bool, err error) {
	leaf, err := h.tree.LookupLeaf(HashKey(hash))
	if err != nil {
		return page.Cursor{}, 0, false, err
	}
	if leaf == 0 {
		return page.Cursor{}, 0, false, nil
	}
	pageCur, err := h.tree.pages.Page(leaf)
	if err != nil {
		return page.Cursor{}, 0, false, err
	}
	pageCur.SkipInt() // flags

	entrySize := HashKeySize + h.valueSize
	count := pageCur.ReadInt()
	left, right := uint32(0), count
	for left != right {
		middle := (left + right) / 2
		middleCur := pageCur.Add(int(middle) * entrySize)
		middleHash := middleCur.PeekInt(0)
		switch {
		case middleHash < hash:
			left = middle + 1
		case middleHash > hash:
			right = middle
		default:
			for middle > 0 && pageCur.Add(int(middle-1)*entrySize).PeekInt(0) == hash {
				middle--
			}
			n := 0
			for middle+uint32(n) < count && pageCur.Add(int(middle+uint32(n))*entrySize).PeekInt(0) == hash {
				n++
			}
			return pageCur.Add(int(middle) * entrySize), n, true, nil
		}
	}
	return page.Cursor{}, 0, false, nil
}
