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

package solver

import goerrors "gopkg.in/src-d/go-errors.v1"

// ErrStepBudgetExceeded is raised by Subtree.Search when StepBudget is
// positive and the search has taken more decision-variable branches than
// it allows.
var ErrStepBudgetExceeded = goerrors.NewKind("solver: search step budget exceeded")
