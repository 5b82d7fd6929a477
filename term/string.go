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

package term

import "github.com/cespare/xxhash/v2"

// StringID identifies a dictionary string within one store. Ids run from 1 to
// the store's string count; 0 means "not a store id" and Unknown means the id
// has not been resolved yet.
type StringID uint32

// Unknown marks a String or Value whose identifier has not been resolved
// against a store yet, as distinct from 0 ("looked up, absent from store").
const Unknown = 0xffffffff

// Valid reports whether id names a real store string/value (not 0, not Unknown).
func (id StringID) Valid() bool { return id > 0 && id != Unknown }

// String is a dictionary entry: an immutable UTF-8 byte sequence, its store
// id (if resolved), and a 32-bit hash used by the hash-tree index.
//
// Serialized layout (fixed header, variable-length payload):
//
//	id(4) | hash(4) | length(4) | bytes(length+1, last byte is a padding zero)
type String struct {
	ID    StringID
	Bytes []byte
}

// NewString builds an unresolved direct string (no store id yet).
func NewString(b []byte) String {
	return String{ID: Unknown, Bytes: b}
}

// Resolved reports whether this string carries a concrete store id.
func (s String) Resolved() bool { return s.ID != Unknown }

// Hash returns the 32-bit hash of the string bytes, used to probe the
// string hash-tree index.
func (s String) Hash() uint32 {
	return uint32(xxhash.Sum64(s.Bytes))
}

// Compare performs byte lexicographic comparison, used by the XPath
// comparator for SIMPLE_LITERAL/TYPED_STRING categories.
func (s String) Compare(o String) int {
	a, b := s.Bytes, o.Bytes
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			if a[i] < b[i] {
				return -1
			}
			return 1
		}
	}
	switch {
	case len(a) < len(b):
		return -1
	case len(a) > len(b):
		return 1
	default:
		return 0
	}
}

// Equal reports byte-for-byte equality.
func (s String) Equal(o String) bool {
	return s.Compare(o) == 0
}
