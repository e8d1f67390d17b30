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

package hudi

import (
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/apache/arrow-go/v18/arrow/decimal128"
)

// Type is an interface representing the data type of a table column that can
// carry column statistics. Only primitive types are supported: nested columns
// are never indexed.
type Type interface {
	fmt.Stringer
	Equals(Type) bool
}

// PrimitiveType is the common interface for all concrete column types.
type PrimitiveType interface {
	Type
	primitive()
}

// Date is the number of days since the unix epoch.
type Date int32

// ToTime returns the calendar day in UTC.
func (d Date) ToTime() time.Time {
	return time.Unix(int64(d)*86400, 0).UTC()
}

// DateFromTime truncates t to its UTC calendar day.
func DateFromTime(t time.Time) Date {
	t = t.UTC()

	return Date(t.Unix() / 86400)
}

// Timestamp is the number of microseconds since the unix epoch, always UTC.
type Timestamp int64

// ToTime returns the timestamp as a time.Time in UTC.
func (t Timestamp) ToTime() time.Time {
	return time.UnixMicro(int64(t)).UTC()
}

// TimestampFromTime converts t to microseconds since the unix epoch.
func TimestampFromTime(t time.Time) Timestamp {
	return Timestamp(t.UTC().UnixMicro())
}

// Decimal is a fixed-point decimal value with its scale.
type Decimal struct {
	Val   decimal128.Num
	Scale int
}

type (
	BooleanType   struct{}
	Int32Type     struct{}
	Int64Type     struct{}
	Float32Type   struct{}
	Float64Type   struct{}
	DateType      struct{}
	TimestampType struct{}
	StringType    struct{}
	BinaryType    struct{}
	UUIDType      struct{}
	DecimalType   struct {
		precision, scale int
	}
)

func (BooleanType) primitive()             {}
func (BooleanType) String() string         { return "boolean" }
func (BooleanType) Equals(other Type) bool { _, ok := other.(BooleanType); return ok }

func (Int32Type) primitive()             {}
func (Int32Type) String() string         { return "int" }
func (Int32Type) Equals(other Type) bool { _, ok := other.(Int32Type); return ok }

func (Int64Type) primitive()             {}
func (Int64Type) String() string         { return "long" }
func (Int64Type) Equals(other Type) bool { _, ok := other.(Int64Type); return ok }

func (Float32Type) primitive()             {}
func (Float32Type) String() string         { return "float" }
func (Float32Type) Equals(other Type) bool { _, ok := other.(Float32Type); return ok }

func (Float64Type) primitive()             {}
func (Float64Type) String() string         { return "double" }
func (Float64Type) Equals(other Type) bool { _, ok := other.(Float64Type); return ok }

func (DateType) primitive()             {}
func (DateType) String() string         { return "date" }
func (DateType) Equals(other Type) bool { _, ok := other.(DateType); return ok }

func (TimestampType) primitive()             {}
func (TimestampType) String() string         { return "timestamp" }
func (TimestampType) Equals(other Type) bool { _, ok := other.(TimestampType); return ok }

func (StringType) primitive()             {}
func (StringType) String() string         { return "string" }
func (StringType) Equals(other Type) bool { _, ok := other.(StringType); return ok }

func (BinaryType) primitive()             {}
func (BinaryType) String() string         { return "binary" }
func (BinaryType) Equals(other Type) bool { _, ok := other.(BinaryType); return ok }

func (UUIDType) primitive()             {}
func (UUIDType) String() string         { return "uuid" }
func (UUIDType) Equals(other Type) bool { _, ok := other.(UUIDType); return ok }

func (DecimalType) primitive() {}
func (d DecimalType) String() string {
	return fmt.Sprintf("decimal(%d, %d)", d.precision, d.scale)
}

func (d DecimalType) Equals(other Type) bool {
	rhs, ok := other.(DecimalType)
	if !ok {
		return false
	}

	return d.precision == rhs.precision && d.scale == rhs.scale
}

// Precision returns the number of significant digits of the decimal type.
func (d DecimalType) Precision() int { return d.precision }

// Scale returns the number of digits after the decimal point.
func (d DecimalType) Scale() int { return d.scale }

// DecimalTypeOf constructs a DecimalType for the given precision and scale.
func DecimalTypeOf(prec, scale int) DecimalType {
	return DecimalType{precision: prec, scale: scale}
}

// PrimitiveTypes is a convenience struct so that callers can use
// hudi.PrimitiveTypes.Int64 and similar rather than constructing type values.
var PrimitiveTypes = struct {
	Bool      Type
	Int32     Type
	Int64     Type
	Float32   Type
	Float64   Type
	Date      Type
	Timestamp Type
	String    Type
	Binary    Type
	UUID      Type
}{
	Bool:      BooleanType{},
	Int32:     Int32Type{},
	Int64:     Int64Type{},
	Float32:   Float32Type{},
	Float64:   Float64Type{},
	Date:      DateType{},
	Timestamp: TimestampType{},
	String:    StringType{},
	Binary:    BinaryType{},
	UUID:      UUIDType{},
}

var decimalRegex = regexp.MustCompile(`^decimal\(\s*(\d+)\s*,\s*(\d+)\s*\)$`)

// TypeFromString parses the textual names produced by Type.String back into
// a type value. Used by the index schema YAML loader.
func TypeFromString(s string) (Type, error) {
	switch s {
	case "boolean":
		return BooleanType{}, nil
	case "int":
		return Int32Type{}, nil
	case "long":
		return Int64Type{}, nil
	case "float":
		return Float32Type{}, nil
	case "double":
		return Float64Type{}, nil
	case "date":
		return DateType{}, nil
	case "timestamp":
		return TimestampType{}, nil
	case "string":
		return StringType{}, nil
	case "binary":
		return BinaryType{}, nil
	case "uuid":
		return UUIDType{}, nil
	}

	if matches := decimalRegex.FindStringSubmatch(s); len(matches) == 3 {
		prec, _ := strconv.Atoi(matches[1])
		scale, _ := strconv.Atoi(matches[2])

		return DecimalTypeOf(prec, scale), nil
	}

	return nil, fmt.Errorf("%w: %s", ErrInvalidTypeString, s)
}
