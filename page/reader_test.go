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

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTestFile(t *testing.T, pages int) string {
	t.Helper()
	data := make([]byte, pages*Size)
	for i := range data {
		data[i] = byte(i)
	}
	path := filepath.Join(t.TempDir(), "store.dat")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write test file: %v", err)
	}
	return path
}

func TestOpenAndNumPages(t *testing.T) {
	path := writeTestFile(t, 3)
	f, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer f.Close()
	if f.NumPages() != 3 {
		t.Fatalf("NumPages() = %d, want 3", f.NumPages())
	}
	if f.Len() != 3*Size {
		t.Fatalf("Len() = %d, want %d", f.Len(), 3*Size)
	}
}

func TestPageAddressing(t *testing.T) {
	path := writeTestFile(t, 2)
	f, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer f.Close()

	c, err := f.Page(1)
	if err != nil {
		t.Fatalf("Page(1): %v", err)
	}
	if c.Offset() != Size {
		t.Fatalf("Page(1) offset = %d, want %d", c.Offset(), Size)
	}
	if _, err := f.Page(2); err == nil {
		t.Fatal("Page(2) should be out of range for a 2-page file")
	}
}

func TestAtOffset(t *testing.T) {
	path := writeTestFile(t, 1)
	f, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer f.Close()

	c, err := f.At(10)
	if err != nil {
		t.Fatalf("At(10): %v", err)
	}
	if got := c.ReadByte(); got != 10 {
		t.Fatalf("byte at offset 10 = %d, want 10", got)
	}
	if _, err := f.At(uint64(Size) + 1); err == nil {
		t.Fatal("At() beyond file length should error")
	}
}
