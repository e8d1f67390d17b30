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

package skipping_test

import (
	"context"
	"testing"
	"time"

	"github.com/jarrettalexander77/hudi"
	"github.com/jarrettalexander77/hudi/skipping"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSchema() skipping.IndexSchema {
	return skipping.NewIndexSchema(map[string]hudi.Type{
		"A": hudi.PrimitiveTypes.Int64,
		"B": hudi.PrimitiveTypes.String,
		"C": hudi.PrimitiveTypes.Timestamp,
	})
}

func intStats(file string, min, max, nulls int64) skipping.StatsRow {
	return skipping.StatsRow{FileName: file, Values: map[string]hudi.Literal{
		"A_minValue":  hudi.NewLiteral(min),
		"A_maxValue":  hudi.NewLiteral(max),
		"A_nullCount": hudi.NewLiteral(nulls),
	}}
}

func strStats(file, min, max string) skipping.StatsRow {
	return skipping.StatsRow{FileName: file, Values: map[string]hudi.Literal{
		"B_minValue":  hudi.NewLiteral(min),
		"B_maxValue":  hudi.NewLiteral(max),
		"B_nullCount": hudi.NewLiteral(int64(0)),
	}}
}

func tsStats(file string, min, max time.Time) skipping.StatsRow {
	return skipping.StatsRow{FileName: file, Values: map[string]hudi.Literal{
		"C_minValue":  hudi.NewLiteral(hudi.TimestampFromTime(min)),
		"C_maxValue":  hudi.NewLiteral(hudi.TimestampFromTime(max)),
		"C_nullCount": hudi.NewLiteral(int64(0)),
	}}
}

func prune(t *testing.T, filter hudi.BooleanExpression, rows ...skipping.StatsRow) []string {
	t.Helper()

	kept, err := skipping.PruneFiles(context.Background(), filter, testSchema(), rows)
	require.NoError(t, err)

	return kept
}

func TestPruneEquality(t *testing.T) {
	kept := prune(t, hudi.EqualTo(hudi.Reference("A"), int64(0)),
		intStats("file_1", 1, 2, 0),
		intStats("file_2", -1, 1, 0))

	assert.Equal(t, []string{"file_2"}, kept)
}

func TestPruneInequality(t *testing.T) {
	kept := prune(t, hudi.NotEqualTo(hudi.Reference("A"), int64(0)),
		intStats("file_1", 1, 2, 0),
		intStats("file_2", -1, 1, 0),
		intStats("file_3", 0, 0, 0))

	assert.Equal(t, []string{"file_1", "file_2"}, kept)
}

func TestPruneStartsWith(t *testing.T) {
	kept := prune(t, hudi.StartsWith(hudi.Reference("B"), "abc"),
		strStats("file_1", "aba", "adf"),
		strStats("file_2", "adf", "azy"),
		strStats("file_3", "aaa", "aba"))

	assert.Equal(t, []string{"file_1"}, kept)
}

func TestPruneNotIn(t *testing.T) {
	kept := prune(t, hudi.NotIn(hudi.Reference("A"), int64(0), int64(1)),
		intStats("file_1", 1, 2, 0),
		intStats("file_2", -1, 1, 0),
		intStats("file_3", -2, -1, 0),
		intStats("file_4", 0, 0, 0),
		intStats("file_5", 1, 1, 0))

	assert.Equal(t, []string{"file_1", "file_2", "file_3"}, kept)
}

func TestPruneUnindexedColumnDegrades(t *testing.T) {
	row := skipping.StatsRow{FileName: "f", Values: map[string]hudi.Literal{
		"A_minValue": hudi.NewLiteral(int64(0)),
		"A_maxValue": hudi.NewLiteral(int64(0)),
		"B_minValue": hudi.NewLiteral("aaa"),
		"B_maxValue": hudi.NewLiteral("xyz"),
	}}

	filter := hudi.NewAnd(
		hudi.EqualTo(hudi.Reference("A"), int64(0)),
		hudi.EqualTo(hudi.Reference("B"), "abc"),
		hudi.IsNull(hudi.Reference("D")))

	assert.Equal(t, []string{"f"}, prune(t, filter, row))
}

func TestPruneDateFormat(t *testing.T) {
	filter := hudi.NewComparison(hudi.OpEQ,
		hudi.NewFunction("date_format", hudi.Reference("C"), hudi.Lit("MM/dd/yyyy")),
		hudi.Lit("03/06/2022"))

	kept := prune(t, filter,
		tsStats("file_a",
			time.Date(2022, 3, 6, 10, 0, 0, 0, time.UTC),
			time.Date(2022, 3, 7, 10, 0, 0, 0, time.UTC)),
		tsStats("file_b",
			time.Date(2022, 3, 7, 1, 0, 0, 0, time.UTC),
			time.Date(2022, 3, 8, 1, 0, 0, 0, time.UTC)))

	assert.Equal(t, []string{"file_a"}, kept)
}

func TestTranslateNullChecks(t *testing.T) {
	schema := testSchema()

	isNull := skipping.TranslateIntoColumnStatsFilter(
		hudi.IsNull(hudi.Reference("A")), schema)
	assert.True(t, hudi.NewComparison(hudi.OpGT,
		hudi.Reference("A_nullCount"), hudi.Lit(int64(0))).Equals(isNull))

	notNull := skipping.TranslateIntoColumnStatsFilter(
		hudi.NotNull(hudi.Reference("A")), schema)
	assert.True(t, hudi.NewComparison(hudi.OpEQ,
		hudi.Reference("A_nullCount"), hudi.Lit(int64(0))).Equals(notNull))
}

func TestTranslateOrdering(t *testing.T) {
	schema := testSchema()

	tests := []struct {
		filter   hudi.BooleanExpression
		expected hudi.BooleanExpression
	}{
		{
			hudi.LessThan(hudi.Reference("A"), int64(5)),
			hudi.NewComparison(hudi.OpLT, hudi.Reference("A_minValue"), hudi.Lit(int64(5))),
		},
		{
			hudi.LessThanEqual(hudi.Reference("A"), int64(5)),
			hudi.NewComparison(hudi.OpLTEQ, hudi.Reference("A_minValue"), hudi.Lit(int64(5))),
		},
		{
			hudi.GreaterThan(hudi.Reference("A"), int64(5)),
			hudi.NewComparison(hudi.OpGT, hudi.Reference("A_maxValue"), hudi.Lit(int64(5))),
		},
		{
			hudi.GreaterThanEqual(hudi.Reference("A"), int64(5)),
			hudi.NewComparison(hudi.OpGTEQ, hudi.Reference("A_maxValue"), hudi.Lit(int64(5))),
		},
	}

	for _, tt := range tests {
		got := skipping.TranslateIntoColumnStatsFilter(tt.filter, schema)
		assert.True(t, tt.expected.Equals(got), "filter %s became %s", tt.filter, got)
	}
}

func TestTranslateFlippedOperands(t *testing.T) {
	schema := testSchema()

	// 5 > A means the same as A < 5
	flipped := skipping.TranslateIntoColumnStatsFilter(
		hudi.NewComparison(hudi.OpGT, hudi.Lit(int64(5)), hudi.Reference("A")), schema)
	direct := skipping.TranslateIntoColumnStatsFilter(
		hudi.LessThan(hudi.Reference("A"), int64(5)), schema)

	assert.True(t, direct.Equals(flipped))
}

func TestTranslateDeterminism(t *testing.T) {
	schema := testSchema()
	filter := hudi.NewOr(
		hudi.NewAnd(
			hudi.EqualTo(hudi.Reference("A"), int64(3)),
			hudi.StartsWith(hudi.Reference("B"), "ab")),
		hudi.IsNull(hudi.Reference("A")))

	first := skipping.TranslateIntoColumnStatsFilter(filter, schema)
	second := skipping.TranslateIntoColumnStatsFilter(filter, schema)

	assert.True(t, first.Equals(second))
}

func TestTranslateComplementEquivalence(t *testing.T) {
	schema := testSchema()

	viaNot := skipping.TranslateIntoColumnStatsFilter(
		hudi.NewNot(hudi.LessThan(hudi.Reference("A"), int64(5))), schema)
	direct := skipping.TranslateIntoColumnStatsFilter(
		hudi.GreaterThanEqual(hudi.Reference("A"), int64(5)), schema)

	rows := []skipping.StatsRow{
		intStats("lo", -3, 2, 0),
		intStats("mid", 2, 7, 0),
		intStats("hi", 6, 9, 0),
	}
	evalNot := skipping.NewStatsEvaluator(viaNot)
	evalDirect := skipping.NewStatsEvaluator(direct)
	for _, row := range rows {
		a, err := evalNot(row)
		require.NoError(t, err)
		b, err := evalDirect(row)
		require.NoError(t, err)
		assert.Equal(t, b, a, row.FileName)
	}
}

func TestTranslateInDecomposition(t *testing.T) {
	schema := testSchema()

	in := skipping.TranslateIntoColumnStatsFilter(
		hudi.IsIn(hudi.Reference("A"), int64(1), int64(2)), schema)
	union := hudi.NewOr(
		skipping.TranslateIntoColumnStatsFilter(
			hudi.EqualTo(hudi.Reference("A"), int64(1)), schema),
		skipping.TranslateIntoColumnStatsFilter(
			hudi.EqualTo(hudi.Reference("A"), int64(2)), schema))

	assert.True(t, union.Equals(in))
}

func TestTranslateDegradations(t *testing.T) {
	schema := testSchema()

	tests := []struct {
		name   string
		filter hudi.BooleanExpression
	}{
		{
			"unindexed column",
			hudi.EqualTo(hudi.Reference("D"), int64(1)),
		},
		{
			"unrecognized function",
			hudi.NewComparison(hudi.OpEQ,
				hudi.NewFunction("abs", hudi.Reference("A")), hudi.Lit(int64(1))),
		},
		{
			"non-foldable operand",
			hudi.NewComparison(hudi.OpEQ, hudi.Reference("A"), hudi.Reference("B")),
		},
		{
			"cast failure",
			hudi.EqualTo(hudi.Reference("A"), "abc"),
		},
		{
			"startswith flipped operands",
			hudi.NewComparison(hudi.OpStartsWith, hudi.Lit("abc"), hudi.Reference("B")),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := skipping.TranslateIntoColumnStatsFilter(tt.filter, schema)
			assert.Equal(t, hudi.AlwaysTrue{}, got)
		})
	}
}

func TestTranslateDegradedLeafAbsorption(t *testing.T) {
	schema := testSchema()

	// a True-degraded leaf swallows an OR entirely
	orFilter := hudi.NewOr(
		hudi.EqualTo(hudi.Reference("D"), int64(1)),
		hudi.EqualTo(hudi.Reference("A"), int64(0)))
	assert.Equal(t, hudi.AlwaysTrue{},
		skipping.TranslateIntoColumnStatsFilter(orFilter, schema))

	// inside an AND the other conjunct still prunes
	andFilter := hudi.NewAnd(
		hudi.EqualTo(hudi.Reference("D"), int64(1)),
		hudi.EqualTo(hudi.Reference("A"), int64(0)))
	kept := prune(t, andFilter,
		intStats("file_1", 1, 2, 0),
		intStats("file_2", -1, 1, 0))
	assert.Equal(t, []string{"file_2"}, kept)
}

func TestTranslateLiteralCastFold(t *testing.T) {
	schema := testSchema()

	// cast('5', 'long') folds to long 5 before translation
	filter := hudi.NewComparison(hudi.OpEQ, hudi.Reference("A"),
		hudi.NewFunction("cast", hudi.Lit("5"), hudi.Lit("long")))
	direct := hudi.EqualTo(hudi.Reference("A"), int64(5))

	assert.True(t, skipping.TranslateIntoColumnStatsFilter(direct, schema).
		Equals(skipping.TranslateIntoColumnStatsFilter(filter, schema)))
}

func TestPruneCaseFoldPrefix(t *testing.T) {
	filter := hudi.NewComparison(hudi.OpStartsWith,
		hudi.NewFunction("lower", hudi.Reference("B")), hudi.Lit("ab"))

	kept := prune(t, filter,
		strStats("mixed", "ABC", "abq"),
		strStats("upper", "ABA", "ABZ"),
		strStats("far", "xa", "xz"))

	assert.Equal(t, []string{"mixed", "upper"}, kept)
}

func TestPruneCaseFoldWrongCasePrefix(t *testing.T) {
	// lower(B) can never start with an upper-case prefix
	filter := hudi.NewComparison(hudi.OpStartsWith,
		hudi.NewFunction("lower", hudi.Reference("B")), hudi.Lit("AB"))

	kept := prune(t, filter, strStats("any", "aaa", "zzz"))
	assert.Empty(t, kept)
}

func TestPruneNullChecks(t *testing.T) {
	withNulls := intStats("with_nulls", 1, 5, 2)
	noNulls := intStats("no_nulls", 1, 5, 0)

	assert.Equal(t, []string{"with_nulls"},
		prune(t, hudi.IsNull(hudi.Reference("A")), withNulls, noNulls))
	assert.Equal(t, []string{"no_nulls"},
		prune(t, hudi.NotNull(hudi.Reference("A")), withNulls, noNulls))
}

func TestPruneNotStartsWith(t *testing.T) {
	uniform := skipping.StatsRow{FileName: "uniform", Values: map[string]hudi.Literal{
		"B_minValue":  hudi.NewLiteral("abc"),
		"B_maxValue":  hudi.NewLiteral("abz"),
		"B_nullCount": hudi.NewLiteral(int64(0)),
	}}
	mixed := strStats("mixed", "abc", "xyz")

	kept := prune(t, hudi.NotStartsWith(hudi.Reference("B"), "ab"), uniform, mixed)
	assert.Equal(t, []string{"mixed"}, kept)
}

func TestPruneAllNullFile(t *testing.T) {
	// a file with no non-null values has null min/max; equality keeps
	// nothing there but IS NULL still keeps it
	allNull := skipping.StatsRow{FileName: "all_null", Values: map[string]hudi.Literal{
		"A_nullCount": hudi.NewLiteral(int64(10)),
	}}

	assert.Empty(t, prune(t, hudi.EqualTo(hudi.Reference("A"), int64(1)), allNull))
	assert.Equal(t, []string{"all_null"},
		prune(t, hudi.IsNull(hudi.Reference("A")), allNull))
	assert.Equal(t, []string{"all_null"},
		prune(t, hudi.NotEqualTo(hudi.Reference("A"), int64(1)), allNull))
}
