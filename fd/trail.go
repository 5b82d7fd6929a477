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

package fd

// Checkpoint is one variable's saved domain state, taken by a subtree
// before a search decision and restored on backtrack. This replaces the
// original's raw trail byte blob (checkpoint/restore writing through a void*
// pointer) with an explicit typed value — the checkpoint a variable needs is
// always exactly these three ints, so there is no reason to serialize them
// through an untyped buffer in Go.
type Checkpoint struct {
	size     int
	min, max int
}

// Trail is a stack of per-variable checkpoints for one subtree's variables,
// indexed in the same order as the subtree's variable list. Pushing a frame
// records every variable's current state; popping restores it.
type Trail struct {
	vars   []*Variable
	frames [][]Checkpoint
}

// NewTrail builds a trail over vars, in the order checkpoints will be taken
// and restored.
func NewTrail(vars []*Variable) *Trail {
	return &Trail{vars: vars}
}

// Push records a new checkpoint frame for every variable.
func (t *Trail) Push() {
	frame := make([]Checkpoint, len(t.vars))
	for i, v := range t.vars {
		frame[i] = v.Checkpoint()
	}
	t.frames = append(t.frames, frame)
}

// Pop restores the most recent frame and discards it.
func (t *Trail) Pop() {
	n := len(t.frames)
	frame := t.frames[n-1]
	t.frames = t.frames[:n-1]
	for i, v := range t.vars {
		v.Restore(frame[i])
	}
}

// Depth reports how many frames are currently pushed.
func (t *Trail) Depth() int { return len(t.frames) }
