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

// Package page implements Castor's fixed-size memory-mapped page layer: the
// read-only mapping of a store file and the little-endian-free (actually
// big-endian, matching the on-disk format) cursor primitives used to decode
// it. Nothing here knows about values, triples or indexes; those live in
// higher packages built on top of a Cursor.
package page

import (
	"fmt"
	"os"

	"github.com/edsrzf/mmap-go"
	"github.com/pkg/errors"
)

// Size is the fixed page size of a Castor store file.
const Size = 16384

// File is a read-only memory-mapped store file, addressed in fixed-size
// pages. It never reads through the filesystem after opening: every access
// is a direct slice into the mapping.
type File struct {
	f    *os.File
	data mmap.MMap
}

// Open maps path read-only. The caller must Close it when done.
func Open(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "page: open %s", path)
	}
	m, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		f.Close()
		return nil, errors.Wrapf(err, "page: mmap %s", path)
	}
	return &File{f: f, data: m}, nil
}

// Close unmaps the file and releases its descriptor.
func (pf *File) Close() error {
	var result error
	if err := pf.data.Unmap(); err != nil {
		result = errors.Wrap(err, "page: unmap")
	}
	if err := pf.f.Close(); err != nil {
		if result == nil {
			result = errors.Wrap(err, "page: close")
		}
	}
	return result
}

// Len returns the total mapped length in bytes.
func (pf *File) Len() int { return len(pf.data) }

// NumPages returns the number of fixed-size pages in the mapping, including
// any partial trailing page.
func (pf *File) NumPages() int {
	n := len(pf.data) / Size
	if len(pf.data)%Size != 0 {
		n++
	}
	return n
}

// Page returns a cursor positioned at the start of page p.
func (pf *File) Page(p uint32) (Cursor, error) {
	off := int(p) * Size
	if off < 0 || off+Size > len(pf.data) {
		return Cursor{}, errors.Errorf("page: page %d out of range (have %d pages)", p, pf.NumPages())
	}
	return Cursor{data: pf.data, off: off}, nil
}

// At returns a cursor positioned at an arbitrary byte offset, bypassing page
// addressing (used by the string/value dictionaries, which are addressed by
// string/value id rather than page number).
func (pf *File) At(off uint64) (Cursor, error) {
	if off > uint64(len(pf.data)) {
		return Cursor{}, fmt.Errorf("page: offset %d beyond file length %d", off, len(pf.data))
	}
	return Cursor{data: pf.data, off: int(off)}, nil
}

// Begin returns a cursor at the start of the mapping.
func (pf *File) Begin() Cursor { return Cursor{data: pf.data, off: 0} }
