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
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/jarrettalexander77/hudi"
	"github.com/jarrettalexander77/hudi/skipping"

	"github.com/pterm/pterm"
)

type Output interface {
	Files(files []string, total int)
	Predicate(hudi.BooleanExpression)
	Columns(skipping.IndexSchema)
	Error(error)
}

type textOutput struct{}

func (textOutput) Files(files []string, total int) {
	data := pterm.TableData{[]string{"File"}}
	for _, f := range files {
		data = append(data, []string{f})
	}

	pterm.DefaultTable.
		WithBoxed(true).
		WithHasHeader(true).
		WithHeaderRowSeparator("-").
		WithData(data).Render()

	pterm.Printf("kept %d of %d files\n", len(files), total)
}

func (textOutput) Predicate(pred hudi.BooleanExpression) {
	fmt.Println(pred.String())
}

func (textOutput) Columns(schema skipping.IndexSchema) {
	data := pterm.TableData{[]string{"Column", "Type", "Min Field", "Max Field", "Null Count Field"}}
	for _, col := range schema.Columns() {
		stats, ok := schema.StatFields(col)
		if !ok {
			continue
		}
		data = append(data, []string{
			col, stats.DataType.String(),
			stats.MinField, stats.MaxField, stats.NullCountField,
		})
	}

	pterm.DefaultTable.
		WithBoxed(true).
		WithHasHeader(true).
		WithHeaderRowSeparator("-").
		WithData(data).Render()
}

func (textOutput) Error(err error) {
	pterm.Error.Println(err.Error())
}

type jsonOutput struct{}

func (jsonOutput) write(v any) {
	if err := json.NewEncoder(os.Stdout).Encode(v); err != nil {
		log.Fatal(err)
	}
}

func (j jsonOutput) Files(files []string, total int) {
	j.write(struct {
		Files []string `json:"files"`
		Total int      `json:"total"`
	}{Files: files, Total: total})
}

func (j jsonOutput) Predicate(pred hudi.BooleanExpression) {
	j.write(struct {
		Predicate string `json:"predicate"`
	}{Predicate: pred.String()})
}

func (j jsonOutput) Columns(schema skipping.IndexSchema) {
	type column struct {
		Name           string `json:"name"`
		Type           string `json:"type"`
		MinField       string `json:"min-field"`
		MaxField       string `json:"max-field"`
		NullCountField string `json:"null-count-field"`
	}

	cols := make([]column, 0, schema.NumColumns())
	for _, col := range schema.Columns() {
		stats, ok := schema.StatFields(col)
		if !ok {
			continue
		}
		cols = append(cols, column{
			Name: col, Type: stats.DataType.String(),
			MinField: stats.MinField, MaxField: stats.MaxField,
			NullCountField: stats.NullCountField,
		})
	}

	j.write(struct {
		Columns []column `json:"columns"`
	}{Columns: cols})
}

func (j jsonOutput) Error(err error) {
	j.write(struct {
		Error string `json:"error"`
	}{Error: err.Error()})
}
