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

package cache

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/castor-db/castor/page"
)

// encodeFullPage is a minimal test-only encoder producing a simple valid
// encoding of a sorted triple list: the first triple verbatim, then one
// case-124-style full header per subsequent triple (a 4-byte delta on the
// first component, then the other two components as 4-byte values minus
// 1), which is always a legal (if not maximally compact) encoding per the
// decoder's jump table.
func encodeFullPage(triples []Triple) []byte {
	buf := make([]byte, page.Size)
	binary.BigEndian.PutUint32(buf[0:4], 1) // flags: first leaf
	off := 4
	putInt := func(v uint32) {
		binary.BigEndian.PutUint32(buf[off:off+4], v)
		off += 4
	}
	var prev Triple
	for i, t := range triples {
		if i == 0 {
			putInt(t[0])
			putInt(t[1])
			putInt(t[2])
			prev = t
			continue
		}
		buf[off] = 0x80 | 124 // case 124: width-4 delta, then two width-4 resets
		off++
		putInt(t[0] - prev[0])
		putInt(t[1] - 1)
		putInt(t[2] - 1)
		prev = t
	}
	buf[off] = 0 // terminator
	return buf
}

func openFakePage(t *testing.T, buf []byte) page.Cursor {
	t.Helper()
	path := filepath.Join(t.TempDir(), "page.dat")
	if err := os.WriteFile(path, buf, 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	f, err := page.Open(path)
	if err != nil {
		t.Fatalf("page.Open: %v", err)
	}
	t.Cleanup(func() { f.Close() })
	cur, err := f.Page(0)
	if err != nil {
		t.Fatalf("Page(0): %v", err)
	}
	return cur
}

func TestDecodeFullRoundTrip(t *testing.T) {
	want := []Triple{{1, 2, 3}, {1, 2, 4}, {5, 9, 1}}
	cur := openFakePage(t, encodeFullPage(want))

	cur.ReadInt() // consume flags, as decodePage does
	end := cur.PageEnd()
	got := decodeFull(cur, end)
	if len(got) != len(want) {
		t.Fatalf("got %d triples, want %d: %v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("triple %d: got %v, want %v", i, got[i], want[i])
		}
	}
}

func TestResetComponentWidthZero(t *testing.T) {
	cur := openFakePage(t, make([]byte, page.Size))
	if v := resetComponent(&cur, 0); v != 1 {
		t.Errorf("resetComponent(0) = %d, want 1", v)
	}
}

func TestCacheFetchReleasePinning(t *testing.T) {
	buf := encodeFullPage([]Triple{{1, 2, 3}})
	path := filepath.Join(t.TempDir(), "store.dat")
	if err := os.WriteFile(path, buf, 0o644); err != nil {
		t.Fatal(err)
	}
	f, err := page.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	c := New(f)
	line1, err := c.Fetch(Full, 0)
	if err != nil {
		t.Fatal(err)
	}
	line2, err := c.Fetch(Full, 0)
	if err != nil {
		t.Fatal(err)
	}
	if line1 != line2 {
		t.Fatal("expected the same cache line on a repeated fetch")
	}
	if hits, misses := c.Stats(); hits != 1 || misses != 1 {
		t.Errorf("stats = (%d hits, %d misses), want (1, 1)", hits, misses)
	}
	c.Release(line1)
	c.Release(line2)
}
