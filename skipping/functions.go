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

// Recognition of the small allow-list of scalar functions over a column
// for which a sound range rewrite is known. Anything not on the list
// degrades to the always-true predicate in the caller.

package skipping

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/jarrettalexander77/hudi"
)

type patternResolution int

const (
	resYear patternResolution = iota + 1
	resMonth
	resDay
	resHour
	resMinute
	resSecond
)

// dateFormatSpec is a parsed date_format pattern. A formatted value
// under it always denotes one contiguous time bucket; ordered
// additionally says formatted strings compare like the instants they
// came from, which holds only when fields appear most significant
// first.
type dateFormatSpec struct {
	layout  string
	res     patternResolution
	ordered bool
}

var javaFormatTokens = []struct {
	java   string
	layout string
	res    patternResolution
}{
	{"yyyy", "2006", resYear},
	{"MM", "01", resMonth},
	{"dd", "02", resDay},
	{"HH", "15", resHour},
	{"mm", "04", resMinute},
	{"ss", "05", resSecond},
}

// parseJavaDateFormat converts a SimpleDateFormat pattern into a Go time
// layout. Each field may appear at most once and the fields present must
// form a contiguous run from the year down; that is what makes a
// formatted value denote a single contiguous time bucket regardless of
// field order, e.g. both yyyy-MM-dd and MM/dd/yyyy name one day.
func parseJavaDateFormat(pattern string) (dateFormatSpec, bool) {
	var (
		layout  strings.Builder
		seen    [resSecond + 1]bool
		last    patternResolution
		maxRes  patternResolution
		count   int
		ordered = true
	)

	for i := 0; i < len(pattern); {
		tok := matchFormatToken(pattern[i:])
		if tok < 0 {
			c := pattern[i]
			if isPatternLetter(c) {
				return dateFormatSpec{}, false
			}
			layout.WriteByte(c)
			i++

			continue
		}

		res := javaFormatTokens[tok].res
		if seen[res] {
			return dateFormatSpec{}, false
		}
		seen[res] = true
		if res < last {
			ordered = false
		}
		last = res
		if res > maxRes {
			maxRes = res
		}
		count++

		layout.WriteString(javaFormatTokens[tok].layout)
		i += len(javaFormatTokens[tok].java)
	}

	// contiguous from the year down, so the parsed value pins the bucket
	if count == 0 || int(maxRes) != count {
		return dateFormatSpec{}, false
	}

	return dateFormatSpec{layout: layout.String(), res: maxRes, ordered: ordered}, true
}

func matchFormatToken(s string) int {
	for i, tok := range javaFormatTokens {
		if strings.HasPrefix(s, tok.java) {
			return i
		}
	}

	return -1
}

func isPatternLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

// bucket parses a formatted value back into the half-open time interval
// it denotes, e.g. "2023-07" under yyyy-MM becomes [Jul 1, Aug 1).
func (d dateFormatSpec) bucket(value string) (start, end time.Time, ok bool) {
	start, err := time.Parse(d.layout, value)
	if err != nil {
		return time.Time{}, time.Time{}, false
	}

	switch d.res {
	case resYear:
		end = start.AddDate(1, 0, 0)
	case resMonth:
		end = start.AddDate(0, 1, 0)
	case resDay:
		end = start.AddDate(0, 0, 1)
	case resHour:
		end = start.Add(time.Hour)
	case resMinute:
		end = start.Add(time.Minute)
	case resSecond:
		end = start.Add(time.Second)
	default:
		return time.Time{}, time.Time{}, false
	}

	return start, end, true
}

// temporalLiteral converts a bucket boundary to a literal of the
// column's type. Boundaries finer than a day cannot be represented for
// date columns, so those degrade.
func temporalLiteral(t time.Time, typ hudi.Type, res patternResolution) (hudi.Literal, bool) {
	switch typ.(type) {
	case hudi.TimestampType:
		return hudi.TimestampLiteral(hudi.TimestampFromTime(t)), true
	case hudi.DateType:
		if res > resDay {
			return nil, false
		}

		return hudi.DateLiteral(hudi.DateFromTime(t)), true
	}

	return nil, false
}

// dateFormatCompare rewrites `date_format(col, pattern) OP value` into a
// range check over col's min/max stats. The formatted value denotes a
// half-open bucket [start, end); the comparison then reduces to interval
// arithmetic against the file's range.
func (t statsFilterTranslator) dateFormatCompare(op hudi.Operation, fn hudi.FunctionExpr, lit hudi.Literal) (hudi.BooleanExpression, bool) {
	args := fn.Args()
	if len(args) != 2 {
		return nil, false
	}
	col, ok := args[0].(hudi.Reference)
	if !ok {
		return nil, false
	}
	patternLit, ok := foldTerm(args[1])
	if !ok {
		return nil, false
	}
	pattern, ok := patternLit.(hudi.StringLiteral)
	if !ok {
		return nil, false
	}
	stats, ok := t.schema.StatFields(string(col))
	if !ok {
		return nil, false
	}

	spec, ok := parseJavaDateFormat(pattern.Value())
	if !ok {
		return nil, false
	}
	value, ok := lit.(hudi.StringLiteral)
	if !ok {
		return nil, false
	}
	startTime, endTime, ok := spec.bucket(value.Value())
	if !ok {
		return nil, false
	}
	start, ok := temporalLiteral(startTime, stats.DataType, spec.res)
	if !ok {
		return nil, false
	}
	end, ok := temporalLiteral(endTime, stats.DataType, spec.res)
	if !ok {
		return nil, false
	}

	switch op {
	case hudi.OpEQ:
		return halfOpenOverlap(stats, start, end), true
	case hudi.OpNEQ:
		return hudi.NewNot(containedIn(stats, start, end)), true
	case hudi.OpLT, hudi.OpLTEQ, hudi.OpGT, hudi.OpGTEQ:
		// ordering against the formatted string only follows instant
		// ordering when the pattern is most-significant-first
		if !spec.ordered {
			return nil, false
		}
		switch op {
		case hudi.OpLT:
			// formatted(v) < value  <=>  v before the bucket
			return halfOpenOverlap(stats, nil, start), true
		case hudi.OpLTEQ:
			return halfOpenOverlap(stats, nil, end), true
		case hudi.OpGT:
			return halfOpenOverlap(stats, end, nil), true
		case hudi.OpGTEQ:
			return halfOpenOverlap(stats, start, nil), true
		}
	}

	return nil, false
}

// caseFoldPrefix rewrites `lower(col) STARTSWITH p` (and the upper
// variant) into a range check. Any raw value whose folded form carries
// the prefix lies in [ToUpper(p), prefixUpperBound(ToLower(p))), since
// ASCII upper-case letters sort below their lower-case forms.
func (t statsFilterTranslator) caseFoldPrefix(fold string, fn hudi.FunctionExpr, lit hudi.Literal) (hudi.BooleanExpression, bool) {
	args := fn.Args()
	if len(args) != 1 {
		return nil, false
	}
	col, ok := args[0].(hudi.Reference)
	if !ok {
		return nil, false
	}
	stats, ok := t.schema.StatFields(string(col))
	if !ok || !stats.DataType.Equals(hudi.PrimitiveTypes.String) {
		return nil, false
	}
	prefixLit, ok := lit.(hudi.StringLiteral)
	if !ok {
		return nil, false
	}
	prefix := prefixLit.Value()
	if !isASCII(prefix) {
		return nil, false
	}

	// lower(col) only ever yields lower-case output, so a prefix with the
	// wrong case can never match. Same for upper.
	if fold == "lower" && prefix != strings.ToLower(prefix) {
		return hudi.AlwaysFalse{}, true
	}
	if fold == "upper" && prefix != strings.ToUpper(prefix) {
		return hudi.AlwaysFalse{}, true
	}

	var hi hudi.Literal
	if ub, ok := prefixUpperBound(strings.ToLower(prefix)); ok {
		hi = hudi.NewLiteral(ub)
	}

	return halfOpenOverlap(stats, hudi.NewLiteral(strings.ToUpper(prefix)), hi), true
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}

	return true
}

// rewriteFunctionCompare dispatches `fn(col, ...) OP literal` to the
// allow-listed rewrites. The boolean result is false when the function
// or the operator is not recognized.
func (t statsFilterTranslator) rewriteFunctionCompare(op hudi.Operation, fn hudi.FunctionExpr, lit hudi.Literal) (hudi.BooleanExpression, bool) {
	switch fn.Name() {
	case "lower", "upper":
		if op != hudi.OpStartsWith {
			return nil, false
		}

		return t.caseFoldPrefix(fn.Name(), fn, lit)
	case "date_format":
		return t.dateFormatCompare(op, fn, lit)
	}

	return nil, false
}
