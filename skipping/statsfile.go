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

// Reading and writing per-file column statistics as Avro object
// container files. Each record holds the file name plus a nullable
// min/max/nullCount triple per indexed column; a null stat bound means
// the column has no non-null values in that file.

package skipping

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/hamba/avro/v2"
	"github.com/hamba/avro/v2/ocf"
	"github.com/jarrettalexander77/hudi"
)

// ErrInvalidStatsFile is returned when a statistics file does not match
// the index schema it is read against.
var ErrInvalidStatsFile = errors.New("invalid column statistics file")

const statsRecordName = "HudiColumnStatsRecord"

// avroTypeName maps a column type to the Avro primitive its stat bounds
// are stored as. Dates travel as epoch days, timestamps as epoch micros,
// decimals and UUIDs as their string forms.
func avroTypeName(typ hudi.Type) (string, error) {
	switch typ.(type) {
	case hudi.BooleanType:
		return "boolean", nil
	case hudi.Int32Type, hudi.DateType:
		return "int", nil
	case hudi.Int64Type, hudi.TimestampType:
		return "long", nil
	case hudi.Float32Type:
		return "float", nil
	case hudi.Float64Type:
		return "double", nil
	case hudi.StringType, hudi.UUIDType, hudi.DecimalType:
		return "string", nil
	case hudi.BinaryType:
		return "bytes", nil
	}

	return "", fmt.Errorf("%w: no avro mapping for type %s", hudi.ErrNotImplemented, typ)
}

// statsAvroSchema builds the Avro record schema for one index schema's
// statistics records.
func statsAvroSchema(schema IndexSchema) (avro.Schema, error) {
	fields := []map[string]any{
		{"name": FileNameField, "type": "string"},
	}
	for _, col := range schema.Columns() {
		stats, ok := schema.StatFields(col)
		if !ok {
			continue
		}
		valueType, err := avroTypeName(stats.DataType)
		if err != nil {
			return nil, err
		}
		for _, f := range []struct {
			name string
			typ  string
		}{
			{stats.MinField, valueType},
			{stats.MaxField, valueType},
			{stats.NullCountField, "long"},
		} {
			fields = append(fields, map[string]any{
				"name":    f.name,
				"type":    []any{"null", f.typ},
				"default": nil,
			})
		}
	}

	raw, err := json.Marshal(map[string]any{
		"type":   "record",
		"name":   statsRecordName,
		"fields": fields,
	})
	if err != nil {
		return nil, err
	}

	return avro.Parse(string(raw))
}

// ReadStatsRows decodes all statistics records from an Avro container
// file, interpreting stat values according to the index schema.
func ReadStatsRows(in io.Reader, schema IndexSchema) ([]StatsRow, error) {
	dec, err := ocf.NewDecoder(in, ocf.WithDecoderSchemaCache(&avro.SchemaCache{}))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidStatsFile, err)
	}

	fieldTypes := statFieldTypes(schema)

	rows := make([]StatsRow, 0)
	for dec.HasNext() {
		var rec map[string]any
		if err := dec.Decode(&rec); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidStatsFile, err)
		}

		row, err := rowFromRecord(rec, fieldTypes)
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	if err := dec.Error(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidStatsFile, err)
	}

	return rows, nil
}

// WriteStatsRows encodes statistics records into an Avro container file.
func WriteStatsRows(out io.Writer, schema IndexSchema, rows []StatsRow) error {
	fileSchema, err := statsAvroSchema(schema)
	if err != nil {
		return err
	}

	enc, err := ocf.NewEncoderWithSchema(fileSchema, out,
		ocf.WithSchemaMarshaler(ocf.FullSchemaMarshaler),
		ocf.WithEncoderSchemaCache(&avro.SchemaCache{}))
	if err != nil {
		return err
	}

	fieldTypes := statFieldTypes(schema)
	for _, row := range rows {
		rec := map[string]any{FileNameField: row.FileName}
		for field, typ := range fieldTypes {
			val, err := avroValue(row.Stat(field), typ)
			if err != nil {
				return fmt.Errorf("file '%s', field '%s': %w", row.FileName, field, err)
			}
			rec[field] = val
		}
		if err := enc.Encode(rec); err != nil {
			return err
		}
	}

	return enc.Close()
}

// statFieldTypes maps every stat field name to the literal type its
// values carry.
func statFieldTypes(schema IndexSchema) map[string]hudi.Type {
	types := make(map[string]hudi.Type, 3*schema.NumColumns())
	for _, col := range schema.Columns() {
		stats, ok := schema.StatFields(col)
		if !ok {
			continue
		}
		types[stats.MinField] = stats.DataType
		types[stats.MaxField] = stats.DataType
		types[stats.NullCountField] = hudi.PrimitiveTypes.Int64
	}

	return types
}

func rowFromRecord(rec map[string]any, fieldTypes map[string]hudi.Type) (StatsRow, error) {
	name, ok := rec[FileNameField].(string)
	if !ok {
		return StatsRow{}, fmt.Errorf("%w: record has no %s field", ErrInvalidStatsFile, FileNameField)
	}

	row := StatsRow{FileName: name, Values: make(map[string]hudi.Literal)}
	for field, typ := range fieldTypes {
		raw, ok := rec[field]
		if !ok || raw == nil {
			continue
		}
		lit, err := statLiteral(raw, typ)
		if err != nil {
			return StatsRow{}, fmt.Errorf("%w: field '%s': %w", ErrInvalidStatsFile, field, err)
		}
		row.Values[field] = lit
	}

	return row, nil
}

// statLiteral converts a decoded Avro union value to a literal of the
// declared column type. hamba decodes non-null union branches as a
// single-entry map keyed by the branch name.
func statLiteral(raw any, typ hudi.Type) (hudi.Literal, error) {
	if branch, ok := raw.(map[string]any); ok {
		for _, v := range branch {
			raw = v
		}
	}

	switch typ.(type) {
	case hudi.BooleanType:
		if v, ok := raw.(bool); ok {
			return hudi.NewLiteral(v), nil
		}
	case hudi.Int32Type:
		if v, ok := asInt64(raw); ok {
			return hudi.NewLiteral(int32(v)), nil
		}
	case hudi.Int64Type:
		if v, ok := asInt64(raw); ok {
			return hudi.NewLiteral(v), nil
		}
	case hudi.DateType:
		if v, ok := asInt64(raw); ok {
			return hudi.NewLiteral(hudi.Date(v)), nil
		}
	case hudi.TimestampType:
		if v, ok := asInt64(raw); ok {
			return hudi.NewLiteral(hudi.Timestamp(v)), nil
		}
	case hudi.Float32Type:
		if v, ok := raw.(float32); ok {
			return hudi.NewLiteral(v), nil
		}
	case hudi.Float64Type:
		switch v := raw.(type) {
		case float64:
			return hudi.NewLiteral(v), nil
		case float32:
			return hudi.NewLiteral(float64(v)), nil
		}
	case hudi.StringType:
		if v, ok := raw.(string); ok {
			return hudi.NewLiteral(v), nil
		}
	case hudi.BinaryType:
		if v, ok := raw.([]byte); ok {
			return hudi.NewLiteral(v), nil
		}
	case hudi.UUIDType:
		if v, ok := raw.(string); ok {
			return hudi.StringLiteral(v).To(typ)
		}
	case hudi.DecimalType:
		if v, ok := raw.(string); ok {
			return hudi.StringLiteral(v).To(typ)
		}
	}

	return nil, fmt.Errorf("cannot interpret %T as %s", raw, typ)
}

func asInt64(raw any) (int64, bool) {
	switch v := raw.(type) {
	case int:
		return int64(v), true
	case int32:
		return int64(v), true
	case int64:
		return v, true
	}

	return 0, false
}

// avroValue converts a literal stat to its Avro union representation.
// Nil stays nil; everything else is wrapped in the branch map hamba
// expects for union encoding.
func avroValue(lit hudi.Literal, typ hudi.Type) (any, error) {
	if lit == nil {
		return nil, nil
	}

	branch, err := avroTypeName(typ)
	if err != nil {
		return nil, err
	}

	cast, err := lit.To(typ)
	if err != nil {
		return nil, err
	}

	var v any
	switch l := cast.(type) {
	case hudi.BoolLiteral:
		v = l.Value()
	case hudi.Int32Literal:
		v = l.Value()
	case hudi.Int64Literal:
		v = l.Value()
	case hudi.DateLiteral:
		v = int32(l.Value())
	case hudi.TimestampLiteral:
		v = int64(l.Value())
	case hudi.Float32Literal:
		v = l.Value()
	case hudi.Float64Literal:
		v = l.Value()
	case hudi.StringLiteral:
		v = l.Value()
	case hudi.BinaryLiteral:
		v = []byte(l.Value())
	case hudi.UUIDLiteral, hudi.DecimalLiteral:
		v = cast.String()
	default:
		return nil, fmt.Errorf("%w: cannot encode %T", hudi.ErrNotImplemented, cast)
	}

	return map[string]any{branch: v}, nil
}
