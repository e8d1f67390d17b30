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
	"testing"
	"time"

	"github.com/jarrettalexander77/hudi"
	"github.com/jarrettalexander77/hudi/skipping"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

type StatsEvaluatorSuite struct {
	suite.Suite

	row skipping.StatsRow
}

func (s *StatsEvaluatorSuite) SetupTest() {
	s.row = skipping.StatsRow{FileName: "file_1", Values: map[string]hudi.Literal{
		"A_minValue":  hudi.NewLiteral(int64(10)),
		"A_maxValue":  hudi.NewLiteral(int64(20)),
		"A_nullCount": hudi.NewLiteral(int64(3)),
		"B_minValue":  hudi.NewLiteral("cherry"),
		"B_maxValue":  hudi.NewLiteral("clementine"),
		"B_nullCount": hudi.NewLiteral(int64(0)),
	}}
}

func (s *StatsEvaluatorSuite) eval(pred hudi.BooleanExpression) bool {
	s.T().Helper()

	match, err := skipping.NewStatsEvaluator(pred)(s.row)
	s.Require().NoError(err)

	return match
}

func (s *StatsEvaluatorSuite) TestComparisons() {
	s.True(s.eval(hudi.LessThan(hudi.Reference("A_minValue"), int64(15))))
	s.False(s.eval(hudi.LessThan(hudi.Reference("A_minValue"), int64(10))))
	s.True(s.eval(hudi.GreaterThanEqual(hudi.Reference("A_maxValue"), int64(20))))
	s.True(s.eval(hudi.EqualTo(hudi.Reference("A_nullCount"), int64(3))))
	s.False(s.eval(hudi.NotEqualTo(hudi.Reference("A_nullCount"), int64(3))))
}

func (s *StatsEvaluatorSuite) TestFlippedOperands() {
	flipped := hudi.NewComparison(hudi.OpGT,
		hudi.Lit(int64(15)), hudi.Reference("A_minValue"))

	s.True(s.eval(flipped))
}

func (s *StatsEvaluatorSuite) TestLiteralCastToStatType() {
	// Filter literals come in as whatever the parser produced; they are
	// cast to the stat's type before comparing.
	s.True(s.eval(hudi.EqualTo(hudi.Reference("A_minValue"), int32(10))))
}

func (s *StatsEvaluatorSuite) TestStartsWith() {
	s.True(s.eval(hudi.StartsWith(hudi.Reference("B_minValue"), "ch")))
	s.False(s.eval(hudi.StartsWith(hudi.Reference("B_maxValue"), "ch")))
	s.True(s.eval(hudi.NotStartsWith(hudi.Reference("B_maxValue"), "ch")))
}

func (s *StatsEvaluatorSuite) TestNullStatIsFalse() {
	s.False(s.eval(hudi.EqualTo(hudi.Reference("C_minValue"), int64(1))))

	// Under NOT the false result flips back to keeping the file.
	s.True(s.eval(hudi.NewNot(
		hudi.EqualTo(hudi.Reference("C_minValue"), int64(1)))))
}

func (s *StatsEvaluatorSuite) TestNullChecks() {
	s.True(s.eval(hudi.IsNull(hudi.Reference("C_minValue"))))
	s.False(s.eval(hudi.IsNull(hudi.Reference("A_minValue"))))
	s.True(s.eval(hudi.NotNull(hudi.Reference("A_minValue"))))
}

func (s *StatsEvaluatorSuite) TestSetMembership() {
	s.True(s.eval(hudi.IsIn(hudi.Reference("A_minValue"), int64(5), int64(10))))
	s.False(s.eval(hudi.NotIn(hudi.Reference("A_minValue"), int64(5), int64(10))))
	s.True(s.eval(hudi.NotIn(hudi.Reference("A_minValue"), int64(5), int64(6))))
}

func (s *StatsEvaluatorSuite) TestCompositions() {
	s.True(s.eval(hudi.NewAnd(
		hudi.LessThanEqual(hudi.Reference("A_minValue"), int64(10)),
		hudi.GreaterThanEqual(hudi.Reference("A_maxValue"), int64(10)))))
	s.True(s.eval(hudi.NewOr(
		hudi.EqualTo(hudi.Reference("A_minValue"), int64(99)),
		hudi.AlwaysTrue{})))
	s.False(s.eval(hudi.AlwaysFalse{}))
}

func TestStatsEvaluator(t *testing.T) {
	suite.Run(t, new(StatsEvaluatorSuite))
}

func TestPruneDateFormatIn(t *testing.T) {
	filter := hudi.NewSet(hudi.OpIn,
		hudi.NewFunction("date_format",
			hudi.Reference("C"), hudi.Lit("yyyy-MM-dd")),
		[]hudi.Literal{hudi.NewLiteral("2022-03-06"), hudi.NewLiteral("2022-03-08")})

	day := func(d int) time.Time {
		return time.Date(2022, time.March, d, 12, 0, 0, 0, time.UTC)
	}
	kept := prune(t, filter,
		tsStats("file_a", day(6), day(6)),
		tsStats("file_b", day(7), day(7)),
		tsStats("file_c", day(8), day(9)))

	assert.Equal(t, []string{"file_a", "file_c"}, kept)
}
