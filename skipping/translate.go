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
	"github.com/jarrettalexander77/hudi"
)

// rewriting an IN with more elements than this produces a predicate too
// large to be worth evaluating per file
const inPredicateLimit = 200

// TranslateIntoColumnStatsFilter converts a row-level filter into a
// predicate over per-file column statistics. A file whose stats make the
// result false cannot contain a matching row and may be skipped; a true
// result only means the file might match.
//
// Translation never fails: any fragment that cannot be soundly expressed
// over min/max/nullCount stats, including filters on unindexed columns
// and unrecognized functions, becomes the always-true predicate for that
// fragment.
func TranslateIntoColumnStatsFilter(filter hudi.BooleanExpression, schema IndexSchema) hudi.BooleanExpression {
	rewritten, err := hudi.RewriteNotExpr(filter)
	if err != nil {
		return hudi.AlwaysTrue{}
	}

	out, err := hudi.VisitExpr(rewritten, statsFilterTranslator{schema: schema})
	if err != nil {
		return hudi.AlwaysTrue{}
	}

	return out
}

type statsFilterTranslator struct {
	schema IndexSchema
}

func (statsFilterTranslator) VisitTrue() hudi.BooleanExpression  { return hudi.AlwaysTrue{} }
func (statsFilterTranslator) VisitFalse() hudi.BooleanExpression { return hudi.AlwaysFalse{} }

// NOT nodes are pushed to the leaves before translation, so this is only
// reached for filters handed in with a NOT around an untranslatable
// fragment; the child has already degraded to true there.
func (statsFilterTranslator) VisitNot(child hudi.BooleanExpression) hudi.BooleanExpression {
	if (child == hudi.AlwaysTrue{}) || (child == hudi.AlwaysFalse{}) {
		return hudi.AlwaysTrue{}
	}

	return hudi.NewNot(child)
}

func (statsFilterTranslator) VisitAnd(left, right hudi.BooleanExpression) hudi.BooleanExpression {
	return hudi.NewAnd(left, right)
}

func (statsFilterTranslator) VisitOr(left, right hudi.BooleanExpression) hudi.BooleanExpression {
	return hudi.NewOr(left, right)
}

func (t statsFilterTranslator) VisitComparison(c hudi.ComparisonExpr) hudi.BooleanExpression {
	op, term, lit, ok := normalizeComparison(c)
	if !ok {
		return hudi.AlwaysTrue{}
	}

	switch term := term.(type) {
	case hudi.Reference:
		return t.translateColumnCompare(op, string(term), lit)
	case hudi.FunctionExpr:
		if out, ok := t.rewriteFunctionCompare(op, term, lit); ok {
			return out
		}
	}

	return hudi.AlwaysTrue{}
}

func (t statsFilterTranslator) VisitUnary(u hudi.UnaryExpr) hudi.BooleanExpression {
	col, ok := u.Term().(hudi.Reference)
	if !ok {
		return hudi.AlwaysTrue{}
	}
	stats, ok := t.schema.StatFields(string(col))
	if !ok {
		return hudi.AlwaysTrue{}
	}

	nullCount := hudi.Reference(stats.NullCountField)
	switch u.Op() {
	case hudi.OpIsNull:
		return hudi.NewComparison(hudi.OpGT, nullCount, hudi.Lit(int64(0)))
	case hudi.OpNotNull:
		return hudi.NewComparison(hudi.OpEQ, nullCount, hudi.Lit(int64(0)))
	}

	return hudi.AlwaysTrue{}
}

func (t statsFilterTranslator) VisitSet(s hudi.SetExpr) hudi.BooleanExpression {
	lits := s.Literals()
	if len(lits) > inPredicateLimit {
		return hudi.AlwaysTrue{}
	}

	// IN decomposes into a disjunction of equalities, NOT IN into a
	// conjunction of inequalities, each translated on its own.
	var perValueOp hudi.Operation
	switch s.Op() {
	case hudi.OpIn:
		perValueOp = hudi.OpEQ
	case hudi.OpNotIn:
		perValueOp = hudi.OpNEQ
	default:
		return hudi.AlwaysTrue{}
	}

	var result hudi.BooleanExpression
	for _, lit := range lits {
		part := t.VisitComparison(
			hudi.NewComparison(perValueOp, s.Term(), hudi.LiteralExpr{Lit: lit}))
		if result == nil {
			result = part
		} else if s.Op() == hudi.OpIn {
			result = hudi.NewOr(result, part)
		} else {
			result = hudi.NewAnd(result, part)
		}
	}
	if result == nil {
		return hudi.AlwaysTrue{}
	}

	return result
}

// normalizeComparison orients a comparison so the column-bearing term is
// on the left and the other side is folded to a literal. Comparisons
// where neither side folds, or where a non-flippable operator has its
// term on the right, are reported untranslatable.
func normalizeComparison(c hudi.ComparisonExpr) (hudi.Operation, hudi.Expr, hudi.Literal, bool) {
	if lit, ok := foldTerm(c.Right()); ok {
		return c.Op(), c.Left(), lit, true
	}
	if lit, ok := foldTerm(c.Left()); ok {
		switch c.Op() {
		case hudi.OpLT, hudi.OpLTEQ, hudi.OpGT, hudi.OpGTEQ, hudi.OpEQ, hudi.OpNEQ:
			return c.Op().FlipLR(), c.Right(), lit, true
		}

		return 0, nil, nil, false
	}

	return 0, nil, nil, false
}

// translateColumnCompare emits the stats predicate for `col OP literal`.
func (t statsFilterTranslator) translateColumnCompare(op hudi.Operation, col string, lit hudi.Literal) hudi.BooleanExpression {
	stats, ok := t.schema.StatFields(col)
	if !ok {
		return hudi.AlwaysTrue{}
	}
	cast, err := lit.To(stats.DataType)
	if err != nil {
		return hudi.AlwaysTrue{}
	}

	minRef := hudi.Reference(stats.MinField)
	maxRef := hudi.Reference(stats.MaxField)
	value := hudi.LiteralExpr{Lit: cast}

	switch op {
	case hudi.OpEQ:
		return pointOverlap(stats, cast)
	case hudi.OpNEQ:
		// only skip when every row holds exactly the excluded value
		return hudi.NewNot(pointOnly(stats, cast))
	case hudi.OpLT:
		return hudi.NewComparison(hudi.OpLT, minRef, value)
	case hudi.OpLTEQ:
		return hudi.NewComparison(hudi.OpLTEQ, minRef, value)
	case hudi.OpGT:
		return hudi.NewComparison(hudi.OpGT, maxRef, value)
	case hudi.OpGTEQ:
		return hudi.NewComparison(hudi.OpGTEQ, maxRef, value)
	case hudi.OpStartsWith:
		return t.translateStartsWith(stats, cast)
	case hudi.OpNotStartsWith:
		return t.translateNotStartsWith(stats, cast)
	}

	return hudi.AlwaysTrue{}
}

func (statsFilterTranslator) translateStartsWith(stats ColumnStatFields, lit hudi.Literal) hudi.BooleanExpression {
	prefix, ok := lit.(hudi.StringLiteral)
	if !ok {
		return hudi.AlwaysTrue{}
	}

	return prefixOverlap(stats, prefix.Value())
}

// translateNotStartsWith only skips a file when every row is non-null
// and carries the prefix: both bounds start with it and nothing is null.
func (statsFilterTranslator) translateNotStartsWith(stats ColumnStatFields, lit hudi.Literal) hudi.BooleanExpression {
	prefix, ok := lit.(hudi.StringLiteral)
	if !ok {
		return hudi.AlwaysTrue{}
	}

	value := hudi.LiteralExpr{Lit: prefix}

	return hudi.NewNot(hudi.NewAnd(
		hudi.NewComparison(hudi.OpEQ, hudi.Reference(stats.NullCountField), hudi.Lit(int64(0))),
		hudi.NewComparison(hudi.OpStartsWith, hudi.Reference(stats.MinField), value),
		hudi.NewComparison(hudi.OpStartsWith, hudi.Reference(stats.MaxField), value)))
}
