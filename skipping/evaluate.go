// Licensed to the Apache Software Foundation (ASF) under one
// or more contributor license agreements.  See the NOTICE file
// distributed with this work for additional information
// regarding copyright ownership.  The ASF licenses this file
// to you under the Apache License, Version 2.0 (the
// "License"); you may not use this file except in compliance
// with the License.  You may obtain a copy of the License at
//
//   http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing,
// software distributed under the License is distributed on an
// "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
// KIND, either express or implied.  See the License for the
// specific language governing permissions and limitations
// under the License.

package skipping

import (
	"strings"

	"github.com/jarrettalexander77/hudi"
)

// StatsRow is the per-file statistics record a skip predicate is
// evaluated against. Values maps stat field names to their values; a
// missing entry or nil value is a null stat, which happens when a column
// holds no non-null values in the file.
type StatsRow struct {
	FileName string
	Values   map[string]hudi.Literal
}

// Stat returns the value of a stat field, or nil when it is null.
func (r StatsRow) Stat(field string) hudi.Literal {
	return r.Values[field]
}

// NewStatsEvaluator binds a skip predicate to an evaluation function
// over statistics rows. A false result means no row in the file can
// match the original filter; true means the file must be read.
//
// A comparison against a null stat evaluates to false. That is the
// conservative direction everywhere the translator places comparisons:
// bare comparisons sit under even numbers of negations only in the
// NOT-wrapped forms, where false flips back to "keep".
func NewStatsEvaluator(pred hudi.BooleanExpression) func(StatsRow) (bool, error) {
	return func(row StatsRow) (bool, error) {
		return hudi.VisitExpr(pred, statsRowEvaluator{row: row})
	}
}

type statsRowEvaluator struct {
	row StatsRow
}

func (statsRowEvaluator) VisitTrue() bool                { return true }
func (statsRowEvaluator) VisitFalse() bool               { return false }
func (statsRowEvaluator) VisitNot(child bool) bool       { return !child }
func (statsRowEvaluator) VisitAnd(left, right bool) bool { return left && right }
func (statsRowEvaluator) VisitOr(left, right bool) bool  { return left || right }

func (e statsRowEvaluator) VisitComparison(c hudi.ComparisonExpr) bool {
	op, ref, lit, ok := e.operands(c)
	if !ok {
		return false
	}

	val := e.row.Stat(string(ref))
	if val == nil {
		return false
	}

	switch op {
	case hudi.OpStartsWith, hudi.OpNotStartsWith:
		s, sok := val.(hudi.StringLiteral)
		p, pok := lit.(hudi.StringLiteral)
		if !sok || !pok {
			return false
		}
		has := strings.HasPrefix(s.Value(), p.Value())
		if op == hudi.OpStartsWith {
			return has
		}

		return !has
	}

	cast, err := lit.To(val.Type())
	if err != nil {
		return false
	}
	cmp := hudi.LiteralComparator(val)(val, cast)

	switch op {
	case hudi.OpEQ:
		return cmp == 0
	case hudi.OpNEQ:
		return cmp != 0
	case hudi.OpLT:
		return cmp < 0
	case hudi.OpLTEQ:
		return cmp <= 0
	case hudi.OpGT:
		return cmp > 0
	case hudi.OpGTEQ:
		return cmp >= 0
	}

	return false
}

func (e statsRowEvaluator) VisitUnary(u hudi.UnaryExpr) bool {
	ref, ok := u.Term().(hudi.Reference)
	if !ok {
		return false
	}
	val := e.row.Stat(string(ref))

	switch u.Op() {
	case hudi.OpIsNull:
		return val == nil
	case hudi.OpNotNull:
		return val != nil
	}

	return false
}

func (e statsRowEvaluator) VisitSet(s hudi.SetExpr) bool {
	for _, lit := range s.Literals() {
		match := e.VisitComparison(
			hudi.NewComparison(hudi.OpEQ, s.Term(), hudi.LiteralExpr{Lit: lit}))
		if match {
			return s.Op() == hudi.OpIn
		}
	}

	return s.Op() == hudi.OpNotIn
}

// operands extracts the reference and literal sides of a comparison,
// flipping when the reference is on the right.
func (statsRowEvaluator) operands(c hudi.ComparisonExpr) (hudi.Operation, hudi.Reference, hudi.Literal, bool) {
	if ref, ok := c.Left().(hudi.Reference); ok {
		if lit, ok := c.Right().(hudi.LiteralExpr); ok {
			return c.Op(), ref, lit.Lit, true
		}

		return 0, "", nil, false
	}
	if ref, ok := c.Right().(hudi.Reference); ok {
		if lit, ok := c.Left().(hudi.LiteralExpr); ok {
			switch c.Op() {
			case hudi.OpLT, hudi.OpLTEQ, hudi.OpGT, hudi.OpGTEQ, hudi.OpEQ, hudi.OpNEQ:
				return c.Op().FlipLR(), ref, lit.Lit, true
			}
		}
	}

	return 0, "", nil, false
}
