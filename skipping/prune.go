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
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/jarrettalexander77/hudi"
)

// PruneFiles translates filter against schema and returns the names of
// the files whose statistics admit a match, in input order. Files the
// predicate rules out are dropped; everything else, including files with
// null or missing stats, is kept.
func PruneFiles(ctx context.Context, filter hudi.BooleanExpression, schema IndexSchema, rows []StatsRow) ([]string, error) {
	pred := TranslateIntoColumnStatsFilter(filter, schema)

	if (pred == hudi.AlwaysTrue{}) {
		out := make([]string, len(rows))
		for i, row := range rows {
			out[i] = row.FileName
		}

		return out, nil
	}

	eval := NewStatsEvaluator(pred)
	keep := make([]bool, len(rows))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i := range rows {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			match, err := eval(rows[i])
			if err != nil {
				return err
			}
			keep[i] = match

			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]string, 0, len(rows))
	for i, row := range rows {
		if keep[i] {
			out = append(out, row.FileName)
		}
	}

	return out, nil
}
