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

// Package index implements Castor's on-disk B+-tree and hash-tree indexes:
// read-only lookup structures built directly over page.Cursor, with no
// caching of their own (leaf pages are decoded by the cache package once
// located here).
package index

import (
	"github.com/castor-db/castor/page"
)

// Flags is the node header of a B+-tree page: either an inner node carrying
// a child count, or a leaf carrying first/last markers.
type Flags uint32

const (
	innerNodeBit Flags = 1 << 31
	firstLeafBit Flags = 1 << 0
	lastLeafBit  Flags = 1 << 1
)

// Inner reports whether the node is an inner node.
func (f Flags) Inner() bool { return f&innerNodeBit != 0 }

// FirstLeaf reports whether the node is the first leaf. Precondition: !Inner().
func (f Flags) FirstLeaf() bool { return f&firstLeafBit != 0 }

// LastLeaf reports whether the node is the last leaf. Precondition: !Inner().
func (f Flags) LastLeaf() bool { return f&lastLeafBit != 0 }

// Count returns the number of direct children of an inner node. Precondition: Inner().
func (f Flags) Count() uint32 { return uint32(f) &^ uint32(innerNodeBit) }

// Key is a fixed-width, totally ordered B+-tree key.
type Key interface {
	Less(other Key) bool
}

// Codec describes how to read and size a tree's key type, parametrizing
// BTree over its key type.
type Codec struct {
	// Size is the on-disk byte width of one key.
	Size int
	// Read decodes a key at the cursor without advancing it.
	Read func(c page.Cursor) Key
}

// BTree is a read-only disk-backed B+-tree rooted at a fixed page. Page 0 is
// never a node: it is reserved to mean "not found".
type BTree struct {
	pages *page.File
	root  uint32
	codec Codec
}

// NewBTree builds a B+-tree view over pages rooted at root, using codec to
// decode keys.
func NewBTree(pages *page.File, root uint32, codec Codec) *BTree {
	return &BTree{pages: pages, root: root, codec: codec}
}

// LookupLeaf returns the page number of the first leaf that may contain key,
// or 0 if no such leaf exists.
func (t *BTree) LookupLeaf(key Key) (uint32, error) {
	page_ := t.root
	for {
		cur, err := t.pages.Page(page_)
		if err != nil {
			return 0, err
		}
		flags := Flags(cur.ReadInt())
		if !flags.Inner() {
			return page_, nil
		}

		entry := t.codec.Size + 4
		left, right := uint32(0), flags.Count()
		found := false
		for left != right {
			middle := (left + right) / 2
			middleCur := cur.Add(int(middle) * entry)
			middleKey := t.codec.Read(middleCur)
			valueCur := middleCur.Add(t.codec.Size)
			switch {
			case middleKey.Less(key):
				left = middle + 1
			case middle == 0 || t.codec.Read(cur.Add(int(middle-1)*entry)).Less(key):
				page_ = valueCur.ReadInt()
				found = true
			default:
				right = middle
			}
			if found {
				break
			}
		}
		if !found {
			return 0, nil
		}
	}
}
