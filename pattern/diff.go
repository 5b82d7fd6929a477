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

// Diff yields every l solution for which r has no match at all (SPARQL
// MINUS via the FILTER(LeftJoin, !BOUND) rewrite collapsed directly into a
// dedicated node). r is freshly activated against each l solution and
// always discarded before Diff moves on.
type Diff struct {
	l, r Pattern
}

// NewDiff builds the l MINUS r pattern.
func NewDiff(l, r Pattern) *Diff { return &Diff{l: l, r: r} }

func (d *Diff) Init() error {
	if err := d.l.Init(); err != nil {
		return err
	}
	return d.r.Init()
}

func (d *Diff) Next() (bool, error) {
	for {
		ok, err := d.l.Next()
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
		rok, err := d.r.Next()
		if err != nil {
			return false, err
		}
		d.r.Discard()
		if rok {
			continue
		}
		return true, nil
	}
}

func (d *Diff) Discard() { d.l.Discard() }

func (d *Diff) Vars() []*fd.Variable  { return d.l.Vars() }
func (d *Diff) CVars() []*fd.Variable { return d.l.CVars() }
