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

// Package fd implements Castor's finite-domain variable: a sparse-set domain
// representation with an auxiliary (possibly loose) bounds representation,
// four propagation event lists, and a typed checkpoint/restore pair used by
// the solver package's backtracking.
package fd

// Priority is a constraint's propagation priority. The solver drains HIGH
// before MEDIUM before LOW, restarting from HIGH after every successful
// propagation so that cheap, precise constraints always get first refusal.
type Priority uint8

const (
	PriorityHigh Priority = iota
	PriorityMedium
	PriorityLow
)

// NumPriorities is the number of defined priority levels.
const NumPriorities = int(PriorityLow) + 1

func (p Priority) String() string {
	switch p {
	case PriorityHigh:
		return "high"
	case PriorityMedium:
		return "medium"
	case PriorityLow:
		return "low"
	default:
		return "unknown"
	}
}

// Constraint is the minimal contract a Variable needs in order to enqueue
// something onto one of its event lists: just enough to route it to the
// right priority queue. The full lifecycle (Init/Post/Propagate/Restore)
// is owned by the solver package's richer Constraint interface, which
// embeds this one — Variable never calls anything but Priority itself.
type Constraint interface {
	Priority() Priority
}

// Enqueuer receives the constraints a Variable's event just fired on. The
// solver package's Solver implements this; Variable holds only the
// interface, so this package never imports solver.
type Enqueuer interface {
	Enqueue(list []Constraint)
}
