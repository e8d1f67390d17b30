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

// IsNull is a convenience wrapper for calling NewUnary(OpIsNull, t)
//
// Will panic if t is nil
func IsNull(t Expr) UnaryExpr {
	return NewUnary(OpIsNull, t)
}

// NotNull is a convenience wrapper for calling NewUnary(OpNotNull, t)
//
// Will panic if t is nil
func NotNull(t Expr) UnaryExpr {
	return NewUnary(OpNotNull, t)
}

// IsIn is a convenience wrapper for constructing a membership predicate for
// OpIn. It returns a BooleanExpression because depending on the arguments it
// can automatically reduce to AlwaysFalse (if given no values) or to EqualTo
// if only one value is provided.
//
// Will panic if t is nil
func IsIn[T LiteralType](t Expr, vals ...T) BooleanExpression {
	lits := make([]Literal, 0, len(vals))
	for _, v := range vals {
		lits = append(lits, NewLiteral(v))
	}

	return NewSet(OpIn, t, lits)
}

// NotIn is a convenience wrapper for constructing a membership predicate for
// OpNotIn. It returns a BooleanExpression because depending on the arguments
// it can automatically reduce to AlwaysTrue (if given no values) or to
// NotEqualTo if only one value is provided.
//
// Will panic if t is nil
func NotIn[T LiteralType](t Expr, vals ...T) BooleanExpression {
	lits := make([]Literal, 0, len(vals))
	for _, v := range vals {
		lits = append(lits, NewLiteral(v))
	}

	return NewSet(OpNotIn, t, lits)
}

// EqualTo is a convenience wrapper for calling NewComparison(OpEQ, t, Lit(v))
//
// Will panic if t is nil
func EqualTo[T LiteralType](t Expr, v T) ComparisonExpr {
	return NewComparison(OpEQ, t, Lit(v))
}

// NotEqualTo is a convenience wrapper for calling NewComparison(OpNEQ, t, Lit(v))
//
// Will panic if t is nil
func NotEqualTo[T LiteralType](t Expr, v T) ComparisonExpr {
	return NewComparison(OpNEQ, t, Lit(v))
}

// GreaterThanEqual is a convenience wrapper for calling
// NewComparison(OpGTEQ, t, Lit(v))
//
// Will panic if t is nil
func GreaterThanEqual[T LiteralType](t Expr, v T) ComparisonExpr {
	return NewComparison(OpGTEQ, t, Lit(v))
}

// GreaterThan is a convenience wrapper for calling NewComparison(OpGT, t, Lit(v))
//
// Will panic if t is nil
func GreaterThan[T LiteralType](t Expr, v T) ComparisonExpr {
	return NewComparison(OpGT, t, Lit(v))
}

// LessThanEqual is a convenience wrapper for calling NewComparison(OpLTEQ, t, Lit(v))
//
// Will panic if t is nil
func LessThanEqual[T LiteralType](t Expr, v T) ComparisonExpr {
	return NewComparison(OpLTEQ, t, Lit(v))
}

// LessThan is a convenience wrapper for calling NewComparison(OpLT, t, Lit(v))
//
// Will panic if t is nil
func LessThan[T LiteralType](t Expr, v T) ComparisonExpr {
	return NewComparison(OpLT, t, Lit(v))
}

// StartsWith is a convenience wrapper for calling
// NewComparison(OpStartsWith, t, Lit(v))
//
// Will panic if t is nil
func StartsWith(t Expr, v string) ComparisonExpr {
	return NewComparison(OpStartsWith, t, Lit(v))
}

// NotStartsWith is a convenience wrapper for calling
// NewComparison(OpNotStartsWith, t, Lit(v))
//
// Will panic if t is nil
func NotStartsWith(t Expr, v string) ComparisonExpr {
	return NewComparison(OpNotStartsWith, t, Lit(v))
}
