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

import (
	"github.com/opentracing/opentracing-go"
	"github.com/sirupsen/logrus"
)

// Context carries the cross-cutting concerns one query execution threads
// through compilation and search: a structured logger entry and a tracing
// span, one per statement.
type Context struct {
	Log  *logrus.Entry
	Span opentracing.Span
}

// NewContext builds a query Context with a fresh child span named op.
func NewContext(op string) *Context {
	span := opentracing.StartSpan(op)
	return &Context{
		Log:  logrus.WithField("component", "query"),
		Span: span,
	}
}

// Finish ends the context's span. Callers defer this after New/Reset.
func (c *Context) Finish() {
	if c.Span != nil {
		c.Span.Finish()
	}
}
