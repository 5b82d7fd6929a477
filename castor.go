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

// Package castor is a SPARQL 1.0 query engine over an on-disk,
// page-cached triple store: queries compile to a constraint-satisfaction
// problem over integer-encoded RDF term ids and are solved by the CP
// engine in package solver. See package store for the on-disk format and
// package query for the compiler and result cursor.
package castor

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v2"

	"github.com/castor-db/castor/ast"
	"github.com/castor-db/castor/query"
	"github.com/castor-db/castor/store"
	"github.com/castor-db/castor/term"
)

// Config tunes a DB's non-default behavior. The zero Config reproduces the
// engine's defaults: no logging beyond logrus's own standard logger, the
// triple cache's built-in capacity, BnB always engaged, no search-step cap.
type Config struct {
	// Log receives per-query diagnostics (compiled pattern shape, solution
	// counts). Defaults to logrus.StandardLogger() when nil.
	Log *logrus.Logger `yaml:"-"`

	// CacheCapacity overrides the triple cache's decompressed-leaf-page
	// capacity. <= 0 uses cache.Capacity.
	CacheCapacity int `yaml:"cacheCapacity"`

	// BnBThreshold is the minimum Offset+Limit an ORDER BY+LIMIT query
	// must request before a BnBOrderConstraint is installed at all (see
	// query.Options.BnBThreshold).
	BnBThreshold int `yaml:"bnbThreshold"`

	// SearchStepBudget caps each Basic pattern's subtree search (see
	// query.Options.SearchStepBudget). 0 means unlimited.
	SearchStepBudget int `yaml:"searchStepBudget"`
}

// LoadConfig reads a YAML-encoded Config from path, for embedding this
// ambient stack in host CLIs/servers.
func LoadConfig(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, err
	}
	defer f.Close()
	return DecodeConfig(f)
}

// DecodeConfig reads a YAML-encoded Config from r.
func DecodeConfig(r io.Reader) (Config, error) {
	var cfg Config
	if err := yaml.NewDecoder(r).Decode(&cfg); err != nil && err != io.EOF {
		return Config{}, err
	}
	return cfg, nil
}

func (cfg Config) queryOptions() query.Options {
	return query.Options{
		BnBThreshold:     cfg.BnBThreshold,
		SearchStepBudget: cfg.SearchStepBudget,
	}
}

// DB is an open handle on a Castor store file.
type DB struct {
	store *store.Store
	log   *logrus.Entry
	opts  query.Options
}

// Open maps path (a file built by the castor store builder, out of scope
// for this package) and returns a DB ready to run queries against it. The
// caller must Close the returned DB.
func Open(path string, cfg Config) (*DB, error) {
	st, err := store.OpenWithCacheCapacity(path, cfg.CacheCapacity)
	if err != nil {
		return nil, err
	}
	lg := cfg.Log
	if lg == nil {
		lg = logrus.StandardLogger()
	}
	return &DB{store: st, log: lg.WithField("component", "castor"), opts: cfg.queryOptions()}, nil
}

// Close unmaps the underlying store file.
func (db *DB) Close() error { return db.store.Close() }

// TriplesCount returns the total number of triples in the store.
func (db *DB) TriplesCount() uint32 { return db.store.TriplesCount() }

// Query is a compiled, executable query bound to one DB. It wraps
// package query's orchestrator so callers never need to import it
// directly: one long-lived DB handle, cheap per-statement Query state.
type Query struct {
	db  *DB
	q   *query.Query
	ast *ast.Query
}

// NewQuery compiles q, already parsed by an external SPARQL parser,
// against db.
func (db *DB) NewQuery(q *ast.Query) (*Query, error) {
	cq, err := query.New(db.store, q, db.opts)
	if err != nil {
		db.log.WithError(err).Warn("query compilation failed")
		return nil, err
	}
	return &Query{db: db, q: cq, ast: q}, nil
}

// Next advances to the next solution, returning false once the query is
// exhausted (after OFFSET/LIMIT are applied).
func (q *Query) Next() (bool, error) { return q.q.Next() }

// Variable reads the i'th requested (SELECT-listed) variable's binding
// for the current solution. bound is false when the variable is unbound,
// which only happens inside an OPTIONAL graph pattern with no match.
func (q *Query) Variable(i int) (val term.Value, bound bool, err error) {
	return q.q.Variable(i)
}

// Reset rewinds the query to its pre-first-Next state, recompiling the
// pattern tree from scratch so a fresh Next()/Variable() sequence replays
// the same query, e.g. re-executing a prepared query against the same
// store.
func (q *Query) Reset() error { return q.q.Reset() }

// Exists reports whether the query has at least one solution, the
// evaluation shape of an ASK query: it requests no output variables and
// the caller only inspects this boolean.
func (q *Query) Exists() (bool, error) { return q.q.Exists() }

// Requested returns the query's output variable names, in SELECT order.
func (q *Query) Requested() []string { return q.q.Requested() }

// Count returns how many solutions Next has returned true for so far.
func (q *Query) Count() int { return q.q.Count() }
