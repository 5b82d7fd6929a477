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

import "testing"

func TestNewOtherCarriesNoInterpretedPayload(t *testing.T) {
	v := NewOther(NewString([]byte("P3D")), NewString([]byte("http://www.w3.org/2001/XMLSchema#duration")))
	if v.Category != Other {
		t.Fatalf("Category = %v, want Other", v.Category)
	}
	if v.Interpreted() {
		t.Fatalf("Interpreted() = true, want false")
	}
	if !v.Lexical.Equal(NewString([]byte("P3D"))) {
		t.Fatalf("Lexical = %q, want P3D", v.Lexical.Bytes)
	}
}
