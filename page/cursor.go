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

package page

// Cursor is a read pointer into a mapped store file. It is a value type:
// copying it yields an independent read position over the same backing
// mapping.
type Cursor struct {
	data []byte
	off  int
}

// Valid reports whether the cursor still has a backing mapping.
func (c Cursor) Valid() bool { return c.data != nil }

// Offset returns the cursor's byte offset within the mapping.
func (c Cursor) Offset() int { return c.off }

// Add returns a cursor advanced by n bytes without reading anything.
func (c Cursor) Add(n int) Cursor { return Cursor{data: c.data, off: c.off + n} }

// Sub returns the byte distance from o to c.
func (c Cursor) Sub(o Cursor) int { return c.off - o.off }

// PageEnd returns a cursor positioned just past the end of the page
// containing c.
func (c Cursor) PageEnd() Cursor {
	rem := Size - (c.off % Size)
	return Cursor{data: c.data, off: c.off + rem}
}

// Bytes returns the n raw bytes starting at the cursor without advancing it.
func (c Cursor) Bytes(n int) []byte { return c.data[c.off : c.off+n] }

// SkipByte advances the cursor by one byte.
func (c *Cursor) SkipByte() { c.off++ }

// SkipInt advances the cursor by the width of a 32-bit integer.
func (c *Cursor) SkipInt() { c.off += 4 }

// SkipBigInt advances the cursor past a varint-encoded 64-bit integer.
func (c *Cursor) SkipBigInt() {
	for c.data[c.off]&0x80 != 0 {
		c.off++
	}
	c.off++
}

// SkipValue advances the cursor past a serialized dictionary value record,
// per PeekValueSize.
func (c *Cursor) SkipValue() { c.off += c.PeekValueSize() }

// PeekInt reads a big-endian 32-bit integer at offset bytes past the cursor
// head, without advancing it.
func (c Cursor) PeekInt(offset int) uint32 {
	p := c.data[c.off+offset:]
	return uint32(p[0])<<24 | uint32(p[1])<<16 | uint32(p[2])<<8 | uint32(p[3])
}

// PeekValueHash returns the hash field of the value record under the cursor.
func (c Cursor) PeekValueHash() uint32 { return c.PeekInt(4) }

// PeekValueSize returns the total byte length of the value record under the
// cursor, including its fixed header.
func (c Cursor) PeekValueSize() int { return int(c.PeekInt(8)) + 16 }

// ReadByte reads one byte and advances the cursor.
func (c *Cursor) ReadByte() byte {
	b := c.data[c.off]
	c.off++
	return b
}

// ReadShort reads a big-endian 16-bit integer and advances the cursor.
func (c *Cursor) ReadShort() uint32 {
	p := c.data[c.off:]
	v := uint32(p[0])<<8 | uint32(p[1])
	c.off += 2
	return v
}

// ReadInt reads a big-endian 32-bit integer and advances the cursor.
func (c *Cursor) ReadInt() uint32 {
	p := c.data[c.off:]
	v := uint32(p[0])<<24 | uint32(p[1])<<16 | uint32(p[2])<<8 | uint32(p[3])
	c.off += 4
	return v
}

// ReadDelta1 reads a one-byte delta-compressed integer.
func (c *Cursor) ReadDelta1() uint32 { return uint32(c.ReadByte()) }

// ReadDelta2 reads a two-byte delta-compressed integer.
func (c *Cursor) ReadDelta2() uint32 { return c.ReadShort() }

// ReadDelta3 reads a three-byte big-endian delta-compressed integer.
func (c *Cursor) ReadDelta3() uint32 {
	p := c.data[c.off:]
	v := uint32(p[0])<<16 | uint32(p[1])<<8 | uint32(p[2])
	c.off += 3
	return v
}

// ReadDelta4 reads a four-byte delta-compressed integer.
func (c *Cursor) ReadDelta4() uint32 { return c.ReadInt() }

// ReadBigInt reads a little-endian base-128 varint-encoded 64-bit integer
// (continuation bit set in every byte but the last) and advances the cursor.
func (c *Cursor) ReadBigInt() uint64 {
	var shift uint
	var val uint64
	for c.data[c.off]&0x80 != 0 {
		val |= uint64(c.data[c.off]&0x7f) << shift
		shift += 7
		c.off++
	}
	val |= uint64(c.data[c.off]) << shift
	c.off++
	return val
}
