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

package main

import (
	"context"
	"log"
	"os"
	"strings"

	"github.com/jarrettalexander77/hudi"
	"github.com/jarrettalexander77/hudi/internal/exprparse"
	"github.com/jarrettalexander77/hudi/skipping"

	"github.com/docopt/docopt-go"
)

const usage = `hudi-skip.

Usage:
  hudi-skip prune [options] --schema FILE --stats STATSFILE FILTER
  hudi-skip translate [options] --schema FILE FILTER
  hudi-skip columns [options] --schema FILE
  hudi-skip -h | --help | --version

Commands:
  prune       Evaluate a filter against a statistics file and list the files to read.
  translate   Show the column statistics predicate a filter translates to.
  columns     List the indexed columns of a schema.

Arguments:
  FILTER         row filter, e.g. "city = 'SF' AND trip_id >= 1000"

Options:
  -h --help          show this help message and exit
  --schema FILE      path to the YAML index schema
  --stats STATSFILE  path to the Avro column statistics file
  --output TYPE      output type (json/text) [default: text]`

type Config struct {
	Prune     bool `docopt:"prune"`
	Translate bool `docopt:"translate"`
	Columns   bool `docopt:"columns"`

	Filter string `docopt:"FILTER"`

	Schema string `docopt:"--schema"`
	Stats  string `docopt:"--stats"`
	Output string `docopt:"--output"`
}

func main() {
	ctx := context.Background()
	args, err := docopt.ParseArgs(usage, os.Args[1:], hudi.Version())
	if err != nil {
		log.Fatal(err)
	}

	cfg := Config{}
	if err := args.Bind(&cfg); err != nil {
		log.Fatal(err)
	}

	var output Output
	switch strings.ToLower(cfg.Output) {
	case "text":
		output = textOutput{}
	case "json":
		output = jsonOutput{}
	default:
		log.Fatal("unimplemented output type")
	}

	schema, err := skipping.LoadIndexSchema(cfg.Schema)
	if err != nil {
		output.Error(err)
		os.Exit(1)
	}

	switch {
	case cfg.Columns:
		output.Columns(schema)
	case cfg.Translate:
		filter, err := exprparse.Parse(cfg.Filter)
		if err != nil {
			output.Error(err)
			os.Exit(1)
		}
		output.Predicate(skipping.TranslateIntoColumnStatsFilter(filter, schema))
	case cfg.Prune:
		prune(ctx, output, schema, cfg)
	}
}

func prune(ctx context.Context, output Output, schema skipping.IndexSchema, cfg Config) {
	filter, err := exprparse.Parse(cfg.Filter)
	if err != nil {
		output.Error(err)
		os.Exit(1)
	}

	f, err := os.Open(cfg.Stats)
	if err != nil {
		output.Error(err)
		os.Exit(1)
	}
	defer f.Close()

	rows, err := skipping.ReadStatsRows(f, schema)
	if err != nil {
		output.Error(err)
		os.Exit(1)
	}

	files, err := skipping.PruneFiles(ctx, filter, schema, rows)
	if err != nil {
		output.Error(err)
		os.Exit(1)
	}

	output.Files(files, len(rows))
}
