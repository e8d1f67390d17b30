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
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/jarrettalexander77/hudi"
	"github.com/jarrettalexander77/hudi/skipping"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatsFileRoundTrip(t *testing.T) {
	schema := skipping.NewIndexSchema(map[string]hudi.Type{
		"A": hudi.PrimitiveTypes.Int64,
		"B": hudi.PrimitiveTypes.String,
	})

	rows := []skipping.StatsRow{
		intStats("file_1", 1, 2, 0),
		intStats("file_2", -1, 1, 3),
		{FileName: "all_null", Values: map[string]hudi.Literal{
			"A_nullCount": hudi.NewLiteral(int64(10)),
			"B_nullCount": hudi.NewLiteral(int64(10)),
		}},
	}

	var buf bytes.Buffer
	require.NoError(t, skipping.WriteStatsRows(&buf, schema, rows))

	got, err := skipping.ReadStatsRows(&buf, schema)
	require.NoError(t, err)
	require.Len(t, got, 3)

	assert.Equal(t, "file_1", got[0].FileName)
	assert.True(t, hudi.NewLiteral(int64(1)).Equals(got[0].Stat("A_minValue")))
	assert.True(t, hudi.NewLiteral(int64(2)).Equals(got[0].Stat("A_maxValue")))
	assert.True(t, hudi.NewLiteral(int64(0)).Equals(got[0].Stat("A_nullCount")))

	assert.True(t, hudi.NewLiteral(int64(3)).Equals(got[1].Stat("A_nullCount")))

	assert.Equal(t, "all_null", got[2].FileName)
	assert.Nil(t, got[2].Stat("A_minValue"))
	assert.True(t, hudi.NewLiteral(int64(10)).Equals(got[2].Stat("A_nullCount")))
}

func TestStatsFilePruneEndToEnd(t *testing.T) {
	schema := skipping.NewIndexSchema(map[string]hudi.Type{
		"A": hudi.PrimitiveTypes.Int64,
	})

	var buf bytes.Buffer
	require.NoError(t, skipping.WriteStatsRows(&buf, schema, []skipping.StatsRow{
		intStats("file_1", 1, 2, 0),
		intStats("file_2", -1, 1, 0),
	}))

	rows, err := skipping.ReadStatsRows(&buf, schema)
	require.NoError(t, err)

	kept, err := skipping.PruneFiles(context.Background(),
		hudi.EqualTo(hudi.Reference("A"), int64(0)), schema, rows)
	require.NoError(t, err)
	assert.Equal(t, []string{"file_2"}, kept)
}

func TestReadStatsRowsRejectsGarbage(t *testing.T) {
	schema := skipping.NewIndexSchema(map[string]hudi.Type{
		"A": hudi.PrimitiveTypes.Int64,
	})

	_, err := skipping.ReadStatsRows(strings.NewReader("not an avro file"), schema)
	assert.ErrorIs(t, err, skipping.ErrInvalidStatsFile)
}
