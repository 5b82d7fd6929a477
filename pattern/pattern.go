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

// Package pattern implements Castor's compiled SPARQL graph pattern tree:
// Basic/Filter/Join/LeftJoin/Diff/Union/False, each driving zero or more CP
// subtrees and streaming solutions one at a time via Next/Discard.
package pattern

import "github.com/castor-db/castor/fd"

// Pattern is the common contract every graph pattern node implements: a
// small interface rather than a class hierarchy, so each pattern kind is a
// concrete, independently testable type.
type Pattern interface {
	// Init wires this pattern's subtree(s) and constraints. Called once,
	// top-down, before the first Next.
	Init() error

	// Next advances to the next solution, returning false once every
	// alternative is exhausted.
	Next() (bool, error)

	// Discard ends this pattern's current search scope, restoring any
	// subtree activation state so the pattern (or its parent) can be
	// driven again from a clean slate.
	Discard()

	// Vars returns every variable this pattern may bind.
	Vars() []*fd.Variable

	// CVars returns the subset of Vars that are certainly bound whenever
	// Next returns true.
	CVars() []*fd.Variable
}

func dedupVars(lists ...[]*fd.Variable) []*fd.Variable {
	seen := make(map[*fd.Variable]bool)
	var out []*fd.Variable
	for _, l := range lists {
		for _, v := range l {
			if !seen[v] {
				seen[v] = true
				out = append(out, v)
			}
		}
	}
	return out
}

func containsVar(list []*fd.Variable, x *fd.Variable) bool {
	for _, v := range list {
		if v == x {
			return true
		}
	}
	return false
}

// subtractVars returns the elements of a not present in b.
func subtractVars(a, b []*fd.Variable) []*fd.Variable {
	var out []*fd.Variable
	for _, v := range a {
		if !containsVar(b, v) {
			out = append(out, v)
		}
	}
	return out
}
