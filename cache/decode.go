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

import "github.com/castor-db/castor/page"

// The three decoders below all share one shape: a first full triple read
// verbatim, then a stream of one-byte headers. A header in [1,127] is a
// tiny inline delta; a header in [128,252] indexes a 125-entry jump table
// (only the low 25 entries are used by FullyAggregated) that picks which
// components change, how many bytes their delta takes, and which
// lower-order components reset to 1. Header 0 ends the page.
//
// Rather than hand-listing all 125 cases, the three tables below are
// generated from the arithmetic each header byte encodes: a width in
// {1,2,3,4} read as an additive delta, composed with zero or more "reset to
// 1, or read a (width+1)-based replacement" slots.

// readDeltaWidth reads a width-byte delta (width in 1..4).
func readDeltaWidth(cur *page.Cursor, width int) uint32 {
	switch width {
	case 1:
		return cur.ReadDelta1()
	case 2:
		return cur.ReadDelta2()
	case 3:
		return cur.ReadDelta3()
	case 4:
		return cur.ReadDelta4()
	default:
		panic("cache: invalid delta width")
	}
}

// resetComponent implements a "reset" slot: width 0 means the component
// resets to 1 with no bytes consumed; otherwise it reads a delta of that
// width and adds 1.
func resetComponent(cur *page.Cursor, width int) uint32 {
	if width == 0 {
		return 1
	}
	return readDeltaWidth(cur, width) + 1
}

func decodeFull(cur, end page.Cursor) []Triple {
	triples := make([]Triple, 0, maxTriplesPerPage)
	var t Triple
	for i := range t {
		t[i] = cur.ReadInt()
	}
	triples = append(triples, t)

	for cur.Offset() < end.Offset() {
		header := uint32(cur.ReadByte())
		if header < 0x80 {
			if header == 0 {
				break
			}
			t[2] += header
		} else {
			h := header & 127
			switch {
			case h == 0:
				t[2] += 128
			case h <= 4:
				t[2] += readDeltaWidth(&cur, int(h)) + 128
			case h <= 24:
				j := h - 5
				w1, w2 := int(j/5)+1, int(j%5)
				t[1] += readDeltaWidth(&cur, w1)
				t[2] = resetComponent(&cur, w2)
			default:
				j := h - 25
				w0, rem := int(j/25)+1, j%25
				w1, w2 := int(rem/5), int(rem%5)
				t[0] += readDeltaWidth(&cur, w0)
				t[1] = resetComponent(&cur, w1)
				t[2] = resetComponent(&cur, w2)
			}
		}
		triples = append(triples, t)
	}
	return triples
}

func decodeAggregated(cur, end page.Cursor) []Triple {
	triples := make([]Triple, 0, maxTriplesPerPage)
	var t Triple
	t[0] = cur.ReadInt()
	t[1] = cur.ReadInt()
	triples = append(triples, t)

	for cur.Offset() < end.Offset() {
		header := uint32(cur.ReadByte())
		if header < 0x80 {
			if header == 0 {
				break
			}
			t[1] += header & 31
			t[2] = (header >> 5) + 1
		} else {
			h := header & 127
			switch {
			case h <= 4:
				t[1]++
				t[2] = resetComponent(&cur, int(h))
			case h <= 24:
				j := h - 5
				w1, w2 := int(j/5)+1, int(j%5)
				t[1] += readDeltaWidth(&cur, w1) + 1
				t[2] = resetComponent(&cur, w2)
			default:
				j := h - 25
				w0, rem := int(j/25)+1, j%25
				w1, w2 := int(rem/5), int(rem%5)
				t[0] += readDeltaWidth(&cur, w0)
				t[1] = resetComponent(&cur, w1)
				t[2] = resetComponent(&cur, w2)
			}
		}
		triples = append(triples, t)
	}
	return triples
}

func decodeFullyAggregated(cur, end page.Cursor) []Triple {
	triples := make([]Triple, 0, maxTriplesPerPage)
	var t Triple
	t[0] = cur.ReadInt()
	triples = append(triples, t)

	for cur.Offset() < end.Offset() {
		header := uint32(cur.ReadByte())
		if header < 0x80 {
			if header == 0 {
				break
			}
			t[0] += header & 15
			t[1] = (header >> 4) + 1
		} else {
			h := header & 127
			switch {
			case h <= 4:
				t[0]++
				t[1] = resetComponent(&cur, int(h))
			default:
				j := h - 5
				w0, w1 := int(j/5)+1, int(j%5)
				t[0] += readDeltaWidth(&cur, w0) + 1
				t[1] = resetComponent(&cur, w1)
			}
		}
		triples = append(triples, t)
	}
	return triples
}
