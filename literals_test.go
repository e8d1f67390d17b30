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

package hudi_test

import (
	"math"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jarrettalexander77/hudi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLiteralTypes(t *testing.T) {
	tests := []struct {
		lit      hudi.Literal
		expected hudi.Type
	}{
		{hudi.NewLiteral(true), hudi.PrimitiveTypes.Bool},
		{hudi.NewLiteral(int32(5)), hudi.PrimitiveTypes.Int32},
		{hudi.NewLiteral(int64(5)), hudi.PrimitiveTypes.Int64},
		{hudi.NewLiteral(float32(1.5)), hudi.PrimitiveTypes.Float32},
		{hudi.NewLiteral(2.5), hudi.PrimitiveTypes.Float64},
		{hudi.NewLiteral("abc"), hudi.PrimitiveTypes.String},
		{hudi.NewLiteral([]byte{1, 2}), hudi.PrimitiveTypes.Binary},
		{hudi.NewLiteral(hudi.Date(19000)), hudi.PrimitiveTypes.Date},
		{hudi.NewLiteral(hudi.Timestamp(1646541746000000)), hudi.PrimitiveTypes.Timestamp},
		{hudi.NewLiteral(uuid.New()), hudi.PrimitiveTypes.UUID},
	}

	for _, tt := range tests {
		assert.True(t, tt.expected.Equals(tt.lit.Type()), tt.lit.String())
	}
}

func TestStringLiteralCasts(t *testing.T) {
	tests := []struct {
		value    string
		typ      hudi.Type
		expected hudi.Literal
	}{
		{"42", hudi.PrimitiveTypes.Int32, hudi.NewLiteral(int32(42))},
		{"-7", hudi.PrimitiveTypes.Int64, hudi.NewLiteral(int64(-7))},
		{"1.5", hudi.PrimitiveTypes.Float64, hudi.NewLiteral(1.5)},
		{"true", hudi.PrimitiveTypes.Bool, hudi.NewLiteral(true)},
		{"2022-03-06", hudi.PrimitiveTypes.Date, hudi.NewLiteral(hudi.DateFromTime(
			time.Date(2022, 3, 6, 0, 0, 0, 0, time.UTC)))},
		{"2022-03-06T09:30:00", hudi.PrimitiveTypes.Timestamp, hudi.NewLiteral(hudi.TimestampFromTime(
			time.Date(2022, 3, 6, 9, 30, 0, 0, time.UTC)))},
	}

	for _, tt := range tests {
		got, err := hudi.StringLiteral(tt.value).To(tt.typ)
		require.NoError(t, err)
		assert.True(t, tt.expected.Equals(got), tt.value)
	}

	_, err := hudi.StringLiteral("abc").To(hudi.PrimitiveTypes.Int64)
	assert.ErrorIs(t, err, hudi.ErrBadCast)
}

func TestInt64ToInt32Overflow(t *testing.T) {
	_, err := hudi.Int64Literal(math.MaxInt32 + 1).To(hudi.PrimitiveTypes.Int32)
	assert.ErrorIs(t, err, hudi.ErrBadCast)

	got, err := hudi.Int64Literal(12).To(hudi.PrimitiveTypes.Int32)
	require.NoError(t, err)
	assert.True(t, hudi.NewLiteral(int32(12)).Equals(got))
}

func TestLiteralComparator(t *testing.T) {
	a, b := hudi.NewLiteral(int64(3)), hudi.NewLiteral(int64(8))
	cmpFn := hudi.LiteralComparator(a)

	assert.Negative(t, cmpFn(a, b))
	assert.Positive(t, cmpFn(b, a))
	assert.Zero(t, cmpFn(a, a))

	s1, s2 := hudi.NewLiteral("aba"), hudi.NewLiteral("adf")
	assert.Negative(t, hudi.LiteralComparator(s1)(s1, s2))
}

func TestDateRoundTrip(t *testing.T) {
	tm := time.Date(2022, 3, 6, 0, 0, 0, 0, time.UTC)
	d := hudi.DateFromTime(tm)
	assert.True(t, tm.Equal(d.ToTime()))

	ts := hudi.TimestampFromTime(tm)
	assert.True(t, tm.Equal(ts.ToTime()))
}

func TestUUIDLiteralOrdering(t *testing.T) {
	low := uuid.UUID{0: 1}
	high := uuid.UUID{0: 2}

	l, h := hudi.NewLiteral(low), hudi.NewLiteral(high)
	assert.Negative(t, hudi.LiteralComparator(l)(l, h))
	assert.True(t, l.Equals(hudi.NewLiteral(low)))
}

func TestDecimalLiteralRescaleCompare(t *testing.T) {
	a, err := hudi.StringLiteral("12.30").To(hudi.DecimalTypeOf(9, 2))
	require.NoError(t, err)
	b, err := hudi.StringLiteral("12.35").To(hudi.DecimalTypeOf(9, 2))
	require.NoError(t, err)

	assert.Negative(t, hudi.LiteralComparator(a)(a, b))
	assert.Zero(t, hudi.LiteralComparator(a)(a, a))
}
