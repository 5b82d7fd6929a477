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

package pattern

import "github.com/castor-db/castor/fd"

// False is the empty pattern: it never yields a solution. Used by
// query.compile when a triple pattern's constant resolves to value id 0:
// an absent constant replaces its owning pattern with False rather than
// failing the whole query.
type False struct{}

// NewFalse builds the empty pattern.
func NewFalse() *False { return &False{} }

func (*False) Init() error              { return nil }
func (*False) Next() (bool, error)      { return false, nil }
func (*False) Discard()                 {}
func (*False) Vars() []*fd.Variable     { return nil }
func (*False) CVars() []*fd.Variable    { return nil }
