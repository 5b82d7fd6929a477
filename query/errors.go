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

package query

import goerrors "gopkg.in/src-d/go-errors.v1"

// Typed sentinel error kinds for this package's caller-visible failures.
// Propagation failures inside the solver are never wrapped here — they
// surface as plain bool returns.
var (
	// ErrUnsupportedVerb is raised when an ast.Query names a verb other
	// than SELECT or ASK; concrete-syntax rejection of other verbs is the
	// external parser's job, this is the compiler's own defensive check.
	ErrUnsupportedVerb = goerrors.NewKind("query: unsupported query verb %d")

	// ErrUnrecognizedConstant is raised by compileConst for an
	// ast.ConstValue.Kind the compiler does not know how to resolve.
	ErrUnrecognizedConstant = goerrors.NewKind("query: unrecognized constant value kind %d")

	// ErrUnrecognizedExpression is raised by compileExpr for an ast.Expr
	// whose Kind has no known compilation.
	ErrUnrecognizedExpression = goerrors.NewKind("query: unrecognized expression kind %d")

	// ErrUnrecognizedPattern is raised by compilePattern for an
	// ast.Pattern whose Kind has no known compilation.
	ErrUnrecognizedPattern = goerrors.NewKind("query: unrecognized pattern kind %d")

	// ErrUnrecognizedDateTime is raised when a typed xsd:dateTime literal's
	// lexical form matches none of the layouts this package understands.
	ErrUnrecognizedDateTime = goerrors.NewKind("query: unrecognized xsd:dateTime layout %q")
)
