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

// Package cache implements Castor's triple cache: a fixed-capacity, pinning
// LRU of decompressed B+-tree leaf pages over the three triple orderings and
// their aggregated/fully-aggregated variants, plus the delta decoder that
// unpacks them.
package cache

import (
	"container/list"

	"github.com/castor-db/castor/page"
)

// Kind selects which of the three leaf layouts a page holds. A page's
// contents are otherwise just bytes; the caller must know which layout it
// asked an index for.
type Kind uint8

const (
	// Full triples: three components per row, delta-compressed on all three.
	Full Kind = iota
	// Aggregated triples: (a, b, count) rows, two key components plus a count.
	Aggregated
	// FullyAggregated triples: (a, count) rows, one key component plus a count.
	FullyAggregated
)

// Capacity is the fixed maximum number of decompressed leaf pages held at
// once by default.
const Capacity = 100

// maxTriplesPerPage bounds a decoded line: a 16 KiB page can never yield
// more rows than it has bytes, and each row consumes at least one header
// byte plus its first full encoding, so page.Size is a safe upper bound.
const maxTriplesPerPage = page.Size

// Triple is a decoded (component0, component1, component2) row. For Full
// triples all three components are real; for Aggregated the third is a
// count; for FullyAggregated the second is a count and the third is unused.
type Triple [3]uint32

// Line is one decompressed leaf page, pinned in the cache while refs > 0.
type Line struct {
	Triples []Triple
	Page    uint32
	First   bool // this is the first leaf in its ordering
	Last    bool // this is the last leaf in its ordering

	refs int
	elem *list.Element
}

// Cache is a per-store, non-thread-safe LRU of decompressed leaf pages. A
// line stays pinned (not evictable) while its reference count is positive;
// Fetch/Release must be balanced within a single TripleRange or lookup.
type Cache struct {
	pages    *page.File
	capacity int

	lru    *list.List // of *Line, most-recently-used at Front
	byPage map[uint32]*Line

	hits, misses uint64
}

// New builds an empty cache of fixed Capacity over pages.
func New(pages *page.File) *Cache {
	return NewWithCapacity(pages, Capacity)
}

// NewWithCapacity builds an empty cache holding at most capacity
// decompressed leaf pages (see castor.Config.CacheCapacity); capacity <= 0
// falls back to the default.
func NewWithCapacity(pages *page.File, capacity int) *Cache {
	if capacity <= 0 {
		capacity = Capacity
	}
	return &Cache{
		pages:    pages,
		capacity: capacity,
		lru:      list.New(),
		byPage:   make(map[uint32]*Line, capacity),
	}
}

// Stats returns the cumulative hit/miss counts, exposed for diagnostics.
func (c *Cache) Stats() (hits, misses uint64) { return c.hits, c.misses }

// Fetch decodes (or returns already-decoded) the leaf at page p as kind,
// pinning the line. The caller must call Release exactly once per Fetch.
func (c *Cache) Fetch(kind Kind, p uint32) (*Line, error) {
	if line, ok := c.byPage[p]; ok {
		c.hits++
		line.refs++
		c.lru.MoveToFront(line.elem)
		return line, nil
	}
	c.misses++

	line, err := c.decodePage(kind, p)
	if err != nil {
		return nil, err
	}
	line.refs = 1

	if c.lru.Len() >= c.capacity {
		c.evictOne()
	}
	line.elem = c.lru.PushFront(line)
	c.byPage[p] = line
	return line, nil
}

// evictOne removes the least-recently-used unpinned line, walking from the
// back of the LRU since pins never outlive a single TripleRange.
func (c *Cache) evictOne() {
	for e := c.lru.Back(); e != nil; e = e.Prev() {
		line := e.Value.(*Line)
		if line.refs == 0 {
			c.lru.Remove(e)
			delete(c.byPage, line.Page)
			return
		}
	}
	// Every line pinned: capacity is a soft limit, grow rather than corrupt
	// a pinned line.
}

// Release unpins line. Once its reference count reaches zero it becomes
// eligible for eviction again, most-recently-used.
func (c *Cache) Release(line *Line) {
	if line == nil {
		return
	}
	line.refs--
	if line.refs == 0 && line.elem != nil {
		c.lru.MoveToFront(line.elem)
	}
}

func (c *Cache) decodePage(kind Kind, p uint32) (*Line, error) {
	cur, err := c.pages.Page(p)
	if err != nil {
		return nil, err
	}
	flags := cur.ReadInt()
	first := flags&1 != 0
	last := flags&2 != 0

	end := cur.PageEnd()
	var triples []Triple
	switch kind {
	case Full:
		triples = decodeFull(cur, end)
	case Aggregated:
		triples = decodeAggregated(cur, end)
	case FullyAggregated:
		triples = decodeFullyAggregated(cur, end)
	}
	return &Line{Triples: triples, Page: p, First: first, Last: last}, nil
}
