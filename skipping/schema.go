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
	"fmt"
	"os"
	"slices"

	"github.com/jarrettalexander77/hudi"
	"gopkg.in/yaml.v3"
)

const (
	// FileNameField is the statistics record field holding the file identifier.
	FileNameField = "fileName"

	minValueSuffix  = "_minValue"
	maxValueSuffix  = "_maxValue"
	nullCountSuffix = "_nullCount"
)

// ColumnStatFields describes where the statistics of one indexed column live
// in a per-file statistics record, along with the column's declared type.
type ColumnStatFields struct {
	MinField       string
	MaxField       string
	NullCountField string
	DataType       hudi.Type
}

func (c ColumnStatFields) valid() bool {
	return c.MinField != "" && c.MaxField != "" && c.NullCountField != "" &&
		c.DataType != nil
}

// IndexSchema maps indexed column names to their statistics fields. It is
// read-only once built: translation never mutates it, so a single schema can
// be shared across concurrent translations.
type IndexSchema struct {
	cols map[string]ColumnStatFields
	// retained registration order, so stats records have a stable field layout
	names []string
}

// NewIndexSchema builds an IndexSchema from column name to type, deriving the
// conventional stat field names <col>_minValue, <col>_maxValue and
// <col>_nullCount for every column.
func NewIndexSchema(columns map[string]hudi.Type) IndexSchema {
	s := IndexSchema{cols: make(map[string]ColumnStatFields, len(columns))}
	names := make([]string, 0, len(columns))
	for name := range columns {
		names = append(names, name)
	}
	slices.Sort(names)

	for _, name := range names {
		s.add(name, ColumnStatFields{
			MinField:       name + minValueSuffix,
			MaxField:       name + maxValueSuffix,
			NullCountField: name + nullCountSuffix,
			DataType:       columns[name],
		})
	}

	return s
}

// NewIndexSchemaWithFields builds an IndexSchema from explicit stat field
// triples, for statistics tables that do not follow the derived naming
// convention.
func NewIndexSchemaWithFields(columns map[string]ColumnStatFields) IndexSchema {
	s := IndexSchema{cols: make(map[string]ColumnStatFields, len(columns))}
	names := make([]string, 0, len(columns))
	for name := range columns {
		names = append(names, name)
	}
	slices.Sort(names)

	for _, name := range names {
		s.add(name, columns[name])
	}

	return s
}

func (s *IndexSchema) add(name string, fields ColumnStatFields) {
	s.cols[name] = fields
	s.names = append(s.names, name)
}

// StatFields resolves a column name to its stat field triple. The second
// return is false for unindexed columns and for malformed entries; callers
// treat both as "cannot prune on this column".
func (s IndexSchema) StatFields(column string) (ColumnStatFields, bool) {
	fields, ok := s.cols[column]
	if !ok || !fields.valid() {
		return ColumnStatFields{}, false
	}

	return fields, true
}

// Columns returns the indexed column names in stable order.
func (s IndexSchema) Columns() []string {
	return slices.Clone(s.names)
}

// NumColumns returns the number of indexed columns.
func (s IndexSchema) NumColumns() int { return len(s.cols) }

type yamlColumn struct {
	Type           string `yaml:"type"`
	MinField       string `yaml:"min-field"`
	MaxField       string `yaml:"max-field"`
	NullCountField string `yaml:"null-count-field"`
}

type yamlSchema struct {
	Columns map[string]yamlColumn `yaml:"columns"`
}

// ParseIndexSchema reads a YAML index schema definition of the form:
//
//	columns:
//	  trip_id:
//	    type: long
//	  city:
//	    type: string
//	    min-field: city_min
//
// Field names default to the derived convention when omitted.
func ParseIndexSchema(data []byte) (IndexSchema, error) {
	var parsed yamlSchema
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return IndexSchema{}, fmt.Errorf("parsing index schema: %w", err)
	}

	cols := make(map[string]ColumnStatFields, len(parsed.Columns))
	for name, def := range parsed.Columns {
		typ, err := hudi.TypeFromString(def.Type)
		if err != nil {
			return IndexSchema{}, fmt.Errorf("column '%s': %w", name, err)
		}

		fields := ColumnStatFields{
			MinField:       def.MinField,
			MaxField:       def.MaxField,
			NullCountField: def.NullCountField,
			DataType:       typ,
		}
		if fields.MinField == "" {
			fields.MinField = name + minValueSuffix
		}
		if fields.MaxField == "" {
			fields.MaxField = name + maxValueSuffix
		}
		if fields.NullCountField == "" {
			fields.NullCountField = name + nullCountSuffix
		}

		cols[name] = fields
	}

	return NewIndexSchemaWithFields(cols), nil
}

// LoadIndexSchema reads and parses a YAML index schema definition file.
func LoadIndexSchema(path string) (IndexSchema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return IndexSchema{}, err
	}

	return ParseIndexSchema(data)
}
