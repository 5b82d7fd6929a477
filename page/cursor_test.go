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

import "testing"

func newTestCursor(b []byte) Cursor {
	return Cursor{data: b, off: 0}
}

func TestReadIntBigEndian(t *testing.T) {
	c := newTestCursor([]byte{0x00, 0x00, 0x01, 0x00})
	if got := c.ReadInt(); got != 256 {
		t.Fatalf("ReadInt() = %d, want 256", got)
	}
	if c.Offset() != 4 {
		t.Fatalf("offset after ReadInt = %d, want 4", c.Offset())
	}
}

func TestReadShortBigEndian(t *testing.T) {
	c := newTestCursor([]byte{0x01, 0x02, 0xff})
	if got := c.ReadShort(); got != 0x0102 {
		t.Fatalf("ReadShort() = %#x, want 0x0102", got)
	}
}

func TestReadByteAdvances(t *testing.T) {
	c := newTestCursor([]byte{7, 8, 9})
	if c.ReadByte() != 7 {
		t.Fatal("first byte mismatch")
	}
	if c.ReadByte() != 8 {
		t.Fatal("second byte mismatch")
	}
}

func TestReadDeltaWidths(t *testing.T) {
	c := newTestCursor([]byte{0x10})
	if got := c.ReadDelta1(); got != 0x10 {
		t.Fatalf("ReadDelta1() = %#x", got)
	}
	c2 := newTestCursor([]byte{0x01, 0x02, 0x03})
	if got := c2.ReadDelta3(); got != 0x010203 {
		t.Fatalf("ReadDelta3() = %#x, want 0x010203", got)
	}
}

func TestReadBigIntVarint(t *testing.T) {
	// 300 = 0b100101100 -> low 7 bits 0101100 with continuation, then 0b10 = 2.
	c := newTestCursor([]byte{0xac, 0x02})
	if got := c.ReadBigInt(); got != 300 {
		t.Fatalf("ReadBigInt() = %d, want 300", got)
	}
}

func TestReadBigIntSingleByte(t *testing.T) {
	c := newTestCursor([]byte{0x05})
	if got := c.ReadBigInt(); got != 5 {
		t.Fatalf("ReadBigInt() = %d, want 5", got)
	}
}

func TestSkipBigIntMatchesReadBigIntWidth(t *testing.T) {
	data := []byte{0xac, 0x02, 0xff}
	skip := newTestCursor(data)
	skip.SkipBigInt()
	read := newTestCursor(data)
	read.ReadBigInt()
	if skip.Offset() != read.Offset() {
		t.Fatalf("SkipBigInt advanced %d bytes, ReadBigInt advanced %d", skip.Offset(), read.Offset())
	}
}

func TestPeekValueSizeAndHash(t *testing.T) {
	data := make([]byte, 20)
	// hash field (bytes 4..8) = 0xdeadbeef
	data[4], data[5], data[6], data[7] = 0xde, 0xad, 0xbe, 0xef
	// length field (bytes 8..12) = 4, so total size = 4+16 = 20
	data[11] = 4
	c := newTestCursor(data)
	if got := c.PeekValueHash(); got != 0xdeadbeef {
		t.Fatalf("PeekValueHash() = %#x, want 0xdeadbeef", got)
	}
	if got := c.PeekValueSize(); got != 20 {
		t.Fatalf("PeekValueSize() = %d, want 20", got)
	}
}

func TestPageEndAlignsToPageBoundary(t *testing.T) {
	c := Cursor{data: make([]byte, Size*3), off: Size + 100}
	end := c.PageEnd()
	if end.Offset() != Size*2 {
		t.Fatalf("PageEnd() = %d, want %d", end.Offset(), Size*2)
	}
}

func TestAddAndSub(t *testing.T) {
	c := newTestCursor(make([]byte, 100))
	d := c.Add(10)
	if d.Sub(c) != 10 {
		t.Fatalf("Sub() = %d, want 10", d.Sub(c))
	}
}
