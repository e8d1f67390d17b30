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

// Symbolic interval overlap checks against a column's [min, max] range.
// Every builder here returns an expression over the column's stat fields
// that is true whenever any value in the file could satisfy the source
// predicate, so a false result is always safe to skip on.

package skipping

import (
	"github.com/jarrettalexander77/hudi"
)

// pointOverlap is true when the single value v can occur in the file:
// min <= v AND max >= v.
func pointOverlap(stats ColumnStatFields, v hudi.Literal) hudi.BooleanExpression {
	return hudi.NewAnd(
		hudi.NewComparison(hudi.OpLTEQ, hudi.Reference(stats.MinField), hudi.LiteralExpr{Lit: v}),
		hudi.NewComparison(hudi.OpGTEQ, hudi.Reference(stats.MaxField), hudi.LiteralExpr{Lit: v}))
}

// pointOnly is true when every value in the file equals v: min = v AND
// max = v. Its negation keeps any file that could hold a value other
// than v.
func pointOnly(stats ColumnStatFields, v hudi.Literal) hudi.BooleanExpression {
	return hudi.NewAnd(
		hudi.NewComparison(hudi.OpEQ, hudi.Reference(stats.MinField), hudi.LiteralExpr{Lit: v}),
		hudi.NewComparison(hudi.OpEQ, hudi.Reference(stats.MaxField), hudi.LiteralExpr{Lit: v}))
}

// halfOpenOverlap is true when the file's range intersects [lo, hi):
// max >= lo AND min < hi. A nil bound leaves that side unbounded.
func halfOpenOverlap(stats ColumnStatFields, lo, hi hudi.Literal) hudi.BooleanExpression {
	var result hudi.BooleanExpression = hudi.AlwaysTrue{}
	if lo != nil {
		result = hudi.NewAnd(result,
			hudi.NewComparison(hudi.OpGTEQ, hudi.Reference(stats.MaxField), hudi.LiteralExpr{Lit: lo}))
	}
	if hi != nil {
		result = hudi.NewAnd(result,
			hudi.NewComparison(hudi.OpLT, hudi.Reference(stats.MinField), hudi.LiteralExpr{Lit: hi}))
	}

	return result
}

// containedIn is true when the file's range lies entirely inside
// [lo, hi): min >= lo AND max < hi. Used negated, it keeps any file that
// could hold a value outside the interval.
func containedIn(stats ColumnStatFields, lo, hi hudi.Literal) hudi.BooleanExpression {
	var result hudi.BooleanExpression = hudi.AlwaysTrue{}
	if lo != nil {
		result = hudi.NewAnd(result,
			hudi.NewComparison(hudi.OpGTEQ, hudi.Reference(stats.MinField), hudi.LiteralExpr{Lit: lo}))
	}
	if hi != nil {
		result = hudi.NewAnd(result,
			hudi.NewComparison(hudi.OpLT, hudi.Reference(stats.MaxField), hudi.LiteralExpr{Lit: hi}))
	}

	return result
}

// prefixOverlap is true when the file's range intersects the set of
// strings carrying the given prefix, i.e. the interval
// [prefix, prefixUpperBound(prefix)).
func prefixOverlap(stats ColumnStatFields, prefix string) hudi.BooleanExpression {
	var hi hudi.Literal
	if ub, ok := prefixUpperBound(prefix); ok {
		hi = hudi.NewLiteral(ub)
	}

	return halfOpenOverlap(stats, hudi.NewLiteral(prefix), hi)
}

// prefixUpperBound returns the smallest string greater than every string
// prefixed by s, by incrementing the last non-0xFF byte and truncating
// behind it. The second return is false when no such bound exists (s is
// empty or all 0xFF bytes), meaning the prefix interval is unbounded
// above.
func prefixUpperBound(s string) (string, bool) {
	b := []byte(s)
	for i := len(b) - 1; i >= 0; i-- {
		if b[i] < 0xFF {
			b[i]++

			return string(b[:i+1]), true
		}
	}

	return "", false
}
