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

// Package query implements Castor's query orchestrator: translating a
// parsed SPARQL AST into a compiled pattern tree plus the static
// DISTINCT/ORDER BY constraints, and streaming or buffering solutions
// according to LIMIT/OFFSET/ORDER BY.
package query

import (
	"github.com/castor-db/castor/ast"
	"github.com/castor-db/castor/constraint"
	"github.com/castor-db/castor/expr"
	"github.com/castor-db/castor/fd"
	"github.com/castor-db/castor/pattern"
	"github.com/castor-db/castor/solver"
	"github.com/castor-db/castor/store"
	"github.com/castor-db/castor/term"
)

// Options tunes per-query knobs promoted to castor.Config fields: the
// BnBOrderConstraint engagement threshold and each Basic pattern's
// subtree search-step budget. The zero Options is unbounded: BnB always
// engages once a query has ORDER BY+LIMIT, and subtrees search without a
// step cap.
type Options struct {
	// BnBThreshold is the minimum Offset+Limit solutions must reach before
	// a BnBOrderConstraint is installed at all; below it, ORDER BY+LIMIT
	// is served by a plain sorted buffer, since bound-pruning a handful of
	// rows costs more in propagation round trips than it saves.
	BnBThreshold int
	// SearchStepBudget caps the number of decision-variable branches a
	// single Basic pattern's subtree may take before Search fails with
	// solver.ErrStepBudgetExceeded. Zero means unlimited.
	SearchStepBudget int
}

// compiler holds the state shared by every compile* helper: the store
// being queried, the solver all of this query's subtrees post into, and
// the variable tables that make a SPARQL variable name resolve to the same
// *fd.Variable everywhere it's referenced (requested variables first, then
// named, then anonymous).
type compiler struct {
	store  *store.Store
	solver *solver.Solver
	opts   Options

	fdVars   map[string]*fd.Variable
	exprVars map[string]*expr.Variable
	order    []string
}

func newCompiler(st *store.Store, sv *solver.Solver, opts Options) *compiler {
	return &compiler{
		store:    st,
		solver:   sv,
		opts:     opts,
		fdVars:   make(map[string]*fd.Variable),
		exprVars: make(map[string]*expr.Variable),
	}
}

// varFor returns name's shared *fd.Variable, creating it over the full
// [0, ValuesCount()] domain (0 reserved as the "unbound" sentinel a
// LeftJoin's optional variables collapse to) on first reference.
func (c *compiler) varFor(name string) *fd.Variable {
	if v, ok := c.fdVars[name]; ok {
		return v
	}
	v := fd.NewVariable(c.solver, 0, int(c.store.ValuesCount()))
	c.fdVars[name] = v
	c.order = append(c.order, name)
	return v
}

// state is every piece of a compiled query that Reset rebuilds from
// scratch; Query embeds a *state so Reset can swap it out wholesale
// without invalidating the caller's *Query pointer.
type state struct {
	c   *compiler
	pat pattern.Pattern

	verb      ast.Verb
	distinct  bool
	requested []*fd.Variable
	reqNames  []string
	limit     int
	offset    int
	orderSpec []orderSpec
	orderAst  []ast.OrderKey

	distinctC *constraint.Distinct
	bnb       *constraint.BnBOrderConstraint

	// streaming state (no ORDER BY)
	started  bool
	returned int

	// buffered state (ORDER BY present)
	bufBuilt bool
	buffered []bufRow
	bufPos   int
	current  bufRow
	haveCur  bool
}

// Query is a compiled, executable SPARQL query over one store.
type Query struct {
	store *store.Store
	astq  *ast.Query
	opts  Options
	*state
}

// New compiles q against st. Constants that resolve to no value in st
// silently replace their owning basic graph pattern with False rather
// than failing the query. opts tunes the BnB threshold and search-step
// budget; the zero Options is unbounded.
func New(st *store.Store, q *ast.Query, opts Options) (*Query, error) {
	if q.Verb != ast.Select && q.Verb != ast.Ask {
		return nil, ErrUnsupportedVerb.New(q.Verb)
	}
	s, err := compile(st, q, opts)
	if err != nil {
		return nil, err
	}
	return &Query{store: st, astq: q, opts: opts, state: s}, nil
}

func compile(st *store.Store, q *ast.Query, opts Options) (*state, error) {
	sv := solver.New()
	c := newCompiler(st, sv, opts)

	s := &state{c: c, verb: q.Verb, distinct: q.Distinct, limit: q.Limit, offset: q.Offset}

	// Requested variables are created first so they occupy the front of
	// c.order, ahead of any variable only the pattern or ORDER BY
	// introduces.
	if !q.SelectAll {
		s.reqNames = make([]string, len(q.Requested))
		s.requested = make([]*fd.Variable, len(q.Requested))
		for i, v := range q.Requested {
			s.reqNames[i] = v.Name
			s.requested[i] = c.varFor(v.Name)
		}
	}

	pat, err := c.compilePattern(q.Pattern)
	if err != nil {
		return nil, err
	}
	if err := pat.Init(); err != nil {
		return nil, err
	}
	s.pat = pat

	if q.SelectAll {
		s.reqNames = append([]string(nil), c.order...)
		s.requested = make([]*fd.Variable, len(s.reqNames))
		for i, name := range s.reqNames {
			s.requested[i] = c.fdVars[name]
		}
	}

	orderSpecs, err := compileOrderBy(c, q.OrderBy)
	if err != nil {
		return nil, err
	}
	s.orderSpec = orderSpecs
	s.orderAst = q.OrderBy

	if q.Distinct {
		s.distinctC = constraint.NewDistinct(sv, s.requested)
		sv.Add(s.distinctC)
	}
	if len(orderSpecs) > 0 && q.Limit >= 0 && q.Offset+q.Limit >= opts.BnBThreshold {
		keys := make([]constraint.OrderKey, len(orderSpecs))
		for i, spec := range orderSpecs {
			keys[i] = spec.toConstraintKey()
		}
		s.bnb = constraint.NewBnBOrderConstraint(keys)
		sv.Add(s.bnb)
	}

	return s, nil
}

// Reset discards the compiled pattern tree and any buffered solutions,
// recompiling from the original AST so the next Next() call behaves as if
// this were a freshly constructed Query.
func (q *Query) Reset() error {
	s, err := compile(q.store, q.astq, q.opts)
	if err != nil {
		return err
	}
	q.state = s
	return nil
}

// Next advances to the next solution. With no ORDER BY it streams
// directly off the pattern tree, skipping Offset solutions once and
// stopping after Limit (negative meaning unbounded). With ORDER BY it
// buffers on the first call, pruning via BnBOrderConstraint once the
// buffer holds Offset+Limit rows.
func (q *Query) Next() (bool, error) {
	var ok bool
	var err error
	if len(q.orderSpec) > 0 {
		ok, err = q.nextOrdered()
	} else {
		ok, err = q.nextStreaming()
	}
	if err != nil || !ok {
		return false, err
	}
	return true, nil
}

func (q *Query) advance() (bool, error) {
	ok, err := q.pat.Next()
	if err != nil || !ok {
		return ok, err
	}
	if q.distinctC != nil {
		q.distinctC.AddSolution()
	}
	return true, nil
}

func (q *Query) nextStreaming() (bool, error) {
	if !q.started {
		q.started = true
		for i := 0; i < q.offset; i++ {
			ok, err := q.advance()
			if err != nil || !ok {
				return false, err
			}
		}
	}
	if q.limit >= 0 && q.returned >= q.limit {
		return false, nil
	}
	ok, err := q.advance()
	if err != nil || !ok {
		return false, err
	}
	q.returned++
	return true, nil
}

func (q *Query) captureRow() bufRow {
	row := bufRow{
		ids:  make([]int, len(q.requested)),
		keys: make([]constraint.SolutionKey, len(q.orderSpec)),
	}
	for i, v := range q.requested {
		row.ids[i] = v.Value()
	}
	for i, spec := range q.orderSpec {
		row.keys[i] = spec.capture()
	}
	return row
}

func (q *Query) nextOrdered() (bool, error) {
	if !q.bufBuilt {
		q.bufBuilt = true
		for {
			ok, err := q.advance()
			if err != nil {
				return false, err
			}
			if !ok {
				break
			}
			row := q.captureRow()
			q.buffered = insertSorted(q.orderSpec, q.buffered, row)
			if q.limit >= 0 && len(q.buffered) > q.offset+q.limit {
				q.buffered = q.buffered[:len(q.buffered)-1]
			}
			if q.bnb != nil && q.limit >= 0 && len(q.buffered) == q.offset+q.limit {
				worst := q.buffered[len(q.buffered)-1]
				q.bnb.UpdateBound(constraint.Solution{Keys: worst.keys})
			}
		}
		q.pat.Discard()
		q.bufPos = q.offset
	}
	limit := len(q.buffered)
	if q.limit >= 0 && q.offset+q.limit < limit {
		limit = q.offset + q.limit
	}
	if q.bufPos >= limit {
		q.haveCur = false
		return false, nil
	}
	q.current = q.buffered[q.bufPos]
	q.haveCur = true
	q.bufPos++
	return true, nil
}

func (q *Query) valueAt(i int) int {
	if len(q.orderSpec) > 0 {
		if !q.haveCur {
			return 0
		}
		return q.current.ids[i]
	}
	return q.requested[i].Value()
}

// Variable reads the i'th requested variable's binding after Next
// returned true. bound is false when the variable is unbound (id 0, the
// LeftJoin OPTIONAL-with-no-match sentinel).
func (q *Query) Variable(i int) (val term.Value, bound bool, err error) {
	id := q.valueAt(i)
	if id == 0 {
		return term.Value{}, false, nil
	}
	raw, err := q.store.LookupValue(term.ValueID(id))
	if err != nil {
		return term.Value{}, false, err
	}
	raw, err = q.store.Interpret(raw)
	if err != nil {
		return term.Value{}, false, err
	}
	return raw, true, nil
}

// Count returns how many solutions Next has returned true for so far.
func (q *Query) Count() int {
	if len(q.orderSpec) > 0 {
		if q.bufPos == 0 {
			return 0
		}
		return q.bufPos - q.offset
	}
	return q.returned
}

// Requested returns the query's output variable names, in projection
// order.
func (q *Query) Requested() []string { return q.reqNames }

// IsDistinct reports whether the query was compiled with SELECT DISTINCT.
func (q *Query) IsDistinct() bool { return q.distinct }

// Limit returns the compiled LIMIT, or -1 if unbounded.
func (q *Query) Limit() int { return q.limit }

// Offset returns the compiled OFFSET (0 if none).
func (q *Query) Offset() int { return q.offset }

// Orders returns the query's ORDER BY keys as parsed, for introspection.
func (q *Query) Orders() []ast.OrderKey { return q.orderAst }

// Exists reports the result of one Next() call, and advances the query
// just as Next does: on a fresh or Reset query (an ASK-shaped one in
// particular) that is whether the query has at least one solution.
func (q *Query) Exists() (bool, error) { return q.Next() }
