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
	"strings"
)

// Operation is an enum used for constants to define what operation a given
// expression or predicate is going to execute.
type Operation int

const (
	// do not change the order of these enum constants.
	// they are grouped for quick validation of operation type by
	// using <= and >= of the first/last operation in a group

	OpTrue Operation = iota
	OpFalse
	// unary ops
	OpIsNull
	OpNotNull
	// literal ops
	OpLT
	OpLTEQ
	OpGT
	OpGTEQ
	OpEQ
	OpNEQ
	OpStartsWith
	OpNotStartsWith
	// set ops
	OpIn
	OpNotIn
	// boolean ops
	OpNot
	OpAnd
	OpOr
)

var opNames = [...]string{
	OpTrue:          "True",
	OpFalse:         "False",
	OpIsNull:        "IsNull",
	OpNotNull:       "NotNull",
	OpLT:            "LessThan",
	OpLTEQ:          "LessThanEqual",
	OpGT:            "GreaterThan",
	OpGTEQ:          "GreaterThanEqual",
	OpEQ:            "Equal",
	OpNEQ:           "NotEqual",
	OpStartsWith:    "StartsWith",
	OpNotStartsWith: "NotStartsWith",
	OpIn:            "In",
	OpNotIn:         "NotIn",
	OpNot:           "Not",
	OpAnd:           "And",
	OpOr:            "Or",
}

func (op Operation) String() string {
	if op < 0 || int(op) >= len(opNames) {
		return fmt.Sprintf("Operation(%d)", int(op))
	}

	return opNames[op]
}

// Negate returns the inverse operation for a given op.
func (op Operation) Negate() Operation {
	switch op {
	case OpIsNull:
		return OpNotNull
	case OpNotNull:
		return OpIsNull
	case OpLT:
		return OpGTEQ
	case OpLTEQ:
		return OpGT
	case OpGT:
		return OpLTEQ
	case OpGTEQ:
		return OpLT
	case OpEQ:
		return OpNEQ
	case OpNEQ:
		return OpEQ
	case OpIn:
		return OpNotIn
	case OpNotIn:
		return OpIn
	case OpStartsWith:
		return OpNotStartsWith
	case OpNotStartsWith:
		return OpStartsWith
	default:
		panic("no negation for operation " + op.String())
	}
}

// FlipLR returns the correct operation to use if the left and right operands
// are flipped.
func (op Operation) FlipLR() Operation {
	switch op {
	case OpLT:
		return OpGT
	case OpLTEQ:
		return OpGTEQ
	case OpGT:
		return OpLT
	case OpGTEQ:
		return OpLTEQ
	case OpEQ, OpNEQ, OpAnd, OpOr:
		return op
	default:
		panic("no left-right flip for operation: " + op.String())
	}
}

// An Expr is a simple value expression appearing as a comparison operand:
// a literal, a column reference, or a function call over other value
// expressions.
type Expr interface {
	fmt.Stringer

	Equals(Expr) bool
	// requiring this method ensures that only types we define can be used
	// as a value expression.
	isExpr()
}

// LiteralExpr wraps a literal value as a value expression.
type LiteralExpr struct {
	Lit Literal
}

// Lit is a convenience constructor wrapping a Go value into a LiteralExpr.
func Lit[T LiteralType](v T) LiteralExpr {
	return LiteralExpr{Lit: NewLiteral(v)}
}

func (LiteralExpr) isExpr() {}
func (l LiteralExpr) String() string {
	return "Literal(" + l.Lit.String() + ")"
}

func (l LiteralExpr) Equals(other Expr) bool {
	rhs, ok := other.(LiteralExpr)
	if !ok {
		return false
	}

	return l.Lit.Equals(rhs.Lit)
}

// Reference is a column name appearing in a filter or in a skip predicate.
// In a translated skip predicate, references name statistics fields rather
// than data columns.
type Reference string

func (Reference) isExpr() {}
func (r Reference) String() string {
	return "Reference(name='" + string(r) + "')"
}

func (r Reference) Equals(other Expr) bool {
	rhs, ok := other.(Reference)
	if !ok {
		return false
	}

	return r == rhs
}

// FunctionExpr is a named function call over value expressions, such as
// lower(col) or date_format(col, 'yyyy-MM-dd'). The translation layer only
// understands an explicit allow-list of functions; everything else degrades
// safely.
type FunctionExpr struct {
	name string
	args []Expr
}

// NewFunction constructs a FunctionExpr. Function names are case-insensitive,
// stored folded to lower case. Panics if any argument is nil.
func NewFunction(name string, args ...Expr) FunctionExpr {
	for _, a := range args {
		if a == nil {
			panic(fmt.Errorf("%w: cannot create function expression with nil argument",
				ErrInvalidArgument))
		}
	}

	return FunctionExpr{name: strings.ToLower(name), args: args}
}

func (FunctionExpr) isExpr() {}

// Name returns the lower-cased function name.
func (f FunctionExpr) Name() string { return f.name }

// Args returns the argument expressions. Callers must not mutate the
// returned slice.
func (f FunctionExpr) Args() []Expr { return f.args }

func (f FunctionExpr) String() string {
	var b strings.Builder
	b.WriteString(f.name)
	b.WriteByte('(')
	for i, a := range f.args {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(a.String())
	}
	b.WriteByte(')')

	return b.String()
}

func (f FunctionExpr) Equals(other Expr) bool {
	rhs, ok := other.(FunctionExpr)
	if !ok || f.name != rhs.name || len(f.args) != len(rhs.args) {
		return false
	}

	for i := range f.args {
		if !f.args[i].Equals(rhs.args[i]) {
			return false
		}
	}

	return true
}

// BooleanExpression represents a full expression which will evaluate to a
// boolean value such as GreaterThan or StartsWith, etc.
type BooleanExpression interface {
	fmt.Stringer
	Op() Operation
	Negate() BooleanExpression
	Equals(BooleanExpression) bool
}

// AlwaysTrue is the boolean expression "True".
type AlwaysTrue struct{}

func (AlwaysTrue) String() string            { return "AlwaysTrue()" }
func (AlwaysTrue) Op() Operation             { return OpTrue }
func (AlwaysTrue) Negate() BooleanExpression { return AlwaysFalse{} }
func (AlwaysTrue) Equals(other BooleanExpression) bool {
	_, ok := other.(AlwaysTrue)

	return ok
}

// AlwaysFalse is the boolean expression "False".
type AlwaysFalse struct{}

func (AlwaysFalse) String() string            { return "AlwaysFalse()" }
func (AlwaysFalse) Op() Operation             { return OpFalse }
func (AlwaysFalse) Negate() BooleanExpression { return AlwaysTrue{} }
func (AlwaysFalse) Equals(other BooleanExpression) bool {
	_, ok := other.(AlwaysFalse)

	return ok
}

type NotExpr struct {
	child BooleanExpression
}

// NewNot creates a BooleanExpression representing a "Not" operation on the given
// argument. It will optimize slightly though:
//
// If the argument is AlwaysTrue or AlwaysFalse, the appropriate inverse expression
// will be returned directly. If the argument is itself a NotExpr, then the child
// will be returned rather than NotExpr(NotExpr(child)).
func NewNot(child BooleanExpression) BooleanExpression {
	if child == nil {
		panic(fmt.Errorf("%w: cannot create NotExpr with nil child",
			ErrInvalidArgument))
	}

	switch t := child.(type) {
	case NotExpr:
		return t.child
	case AlwaysTrue:
		return AlwaysFalse{}
	case AlwaysFalse:
		return AlwaysTrue{}
	}

	return NotExpr{child: child}
}

func (n NotExpr) String() string            { return "Not(child=" + n.child.String() + ")" }
func (NotExpr) Op() Operation               { return OpNot }
func (n NotExpr) Negate() BooleanExpression { return n.child }

// Child returns the negated expression.
func (n NotExpr) Child() BooleanExpression { return n.child }

func (n NotExpr) Equals(other BooleanExpression) bool {
	rhs, ok := other.(NotExpr)
	if !ok {
		return false
	}

	return n.child.Equals(rhs.child)
}

type AndExpr struct {
	left, right BooleanExpression
}

func newAnd(left, right BooleanExpression) BooleanExpression {
	if left == nil || right == nil {
		panic(fmt.Errorf("%w: cannot construct AndExpr with nil arguments",
			ErrInvalidArgument))
	}

	switch {
	case left == AlwaysFalse{} || right == AlwaysFalse{}:
		return AlwaysFalse{}
	case left == AlwaysTrue{}:
		return right
	case right == AlwaysTrue{}:
		return left
	}

	return AndExpr{left: left, right: right}
}

// NewAnd will construct a new AndExpr, allowing the caller to provide potentially
// more than just two arguments which will be folded to create an appropriate expression
// tree. i.e. NewAnd(a, b, c, d) becomes AndExpr(a, AndExpr(b, AndExpr(c, d)))
//
// Slight optimizations are performed on creation if either argument is AlwaysFalse
// or AlwaysTrue by performing reductions. If any argument is AlwaysFalse, then everything
// will get folded to a return of AlwaysFalse. If an argument is AlwaysTrue, then the other
// argument will be returned directly rather than creating an AndExpr.
//
// Will panic if any argument is nil
func NewAnd(left, right BooleanExpression, addl ...BooleanExpression) BooleanExpression {
	folded := newAnd(left, right)
	for _, a := range addl {
		folded = newAnd(folded, a)
	}

	return folded
}

func (a AndExpr) String() string {
	return "And(left=" + a.left.String() + ", right=" + a.right.String() + ")"
}

func (AndExpr) Op() Operation { return OpAnd }

// Left returns the left child expression.
func (a AndExpr) Left() BooleanExpression { return a.left }

// Right returns the right child expression.
func (a AndExpr) Right() BooleanExpression { return a.right }

func (a AndExpr) Equals(other BooleanExpression) bool {
	rhs, ok := other.(AndExpr)
	if !ok {
		return false
	}

	return (a.left.Equals(rhs.left) && a.right.Equals(rhs.right)) ||
		(a.left.Equals(rhs.right) && a.right.Equals(rhs.left))
}

func (a AndExpr) Negate() BooleanExpression {
	return NewOr(a.left.Negate(), a.right.Negate())
}

type OrExpr struct {
	left, right BooleanExpression
}

func newOr(left, right BooleanExpression) BooleanExpression {
	if left == nil || right == nil {
		panic(fmt.Errorf("%w: cannot construct OrExpr with nil arguments",
			ErrInvalidArgument))
	}

	switch {
	case left == AlwaysTrue{} || right == AlwaysTrue{}:
		return AlwaysTrue{}
	case left == AlwaysFalse{}:
		return right
	case right == AlwaysFalse{}:
		return left
	}

	return OrExpr{left: left, right: right}
}

// NewOr will construct a new OrExpr, allowing the caller to provide potentially
// more than just two arguments which will be folded to create an appropriate expression
// tree. i.e. NewOr(a, b, c, d) becomes OrExpr(a, OrExpr(b, OrExpr(c, d)))
//
// Slight optimizations are performed on creation if either argument is AlwaysFalse
// or AlwaysTrue by performing reductions. If any argument is AlwaysTrue, then everything
// will get folded to a return of AlwaysTrue. If an argument is AlwaysFalse, then the other
// argument will be returned directly rather than creating an OrExpr.
//
// Will panic if any argument is nil
func NewOr(left, right BooleanExpression, addl ...BooleanExpression) BooleanExpression {
	folded := newOr(left, right)
	for _, a := range addl {
		folded = newOr(folded, a)
	}

	return folded
}

func (o OrExpr) String() string {
	return "Or(left=" + o.left.String() + ", right=" + o.right.String() + ")"
}

func (OrExpr) Op() Operation { return OpOr }

// Left returns the left child expression.
func (o OrExpr) Left() BooleanExpression { return o.left }

// Right returns the right child expression.
func (o OrExpr) Right() BooleanExpression { return o.right }

func (o OrExpr) Equals(other BooleanExpression) bool {
	rhs, ok := other.(OrExpr)
	if !ok {
		return false
	}

	return (o.left.Equals(rhs.left) && o.right.Equals(rhs.right)) ||
		(o.left.Equals(rhs.right) && o.right.Equals(rhs.left))
}

func (o OrExpr) Negate() BooleanExpression {
	return NewAnd(o.left.Negate(), o.right.Negate())
}

// ComparisonExpr is a comparison between two value expressions, such as
// col > 5 or lower(col) startsWith 'abc'. Operand sides are arbitrary: the
// translation layer normalizes literal-vs-column orientation itself.
type ComparisonExpr struct {
	op          Operation
	left, right Expr
}

// NewComparison constructs a comparison for the provided operation.
// Panics if op is not a comparison operation or either operand is nil.
func NewComparison(op Operation, left, right Expr) ComparisonExpr {
	switch {
	case op < OpLT || op > OpNotStartsWith:
		panic(fmt.Errorf("%w: invalid operation for comparison: %s",
			ErrInvalidArgument, op))
	case left == nil || right == nil:
		panic(fmt.Errorf("%w: cannot create comparison with nil operand",
			ErrInvalidArgument))
	}

	return ComparisonExpr{op: op, left: left, right: right}
}

func (c ComparisonExpr) String() string {
	return fmt.Sprintf("%s(left=%s, right=%s)", c.op, c.left, c.right)
}

func (c ComparisonExpr) Op() Operation { return c.op }

// Left returns the left operand.
func (c ComparisonExpr) Left() Expr { return c.left }

// Right returns the right operand.
func (c ComparisonExpr) Right() Expr { return c.right }

func (c ComparisonExpr) Negate() BooleanExpression {
	return ComparisonExpr{op: c.op.Negate(), left: c.left, right: c.right}
}

func (c ComparisonExpr) Equals(other BooleanExpression) bool {
	rhs, ok := other.(ComparisonExpr)
	if !ok {
		return false
	}

	return c.op == rhs.op && c.left.Equals(rhs.left) && c.right.Equals(rhs.right)
}

// UnaryExpr is a null check on a value expression: IS NULL or IS NOT NULL.
type UnaryExpr struct {
	op   Operation
	term Expr
}

// NewUnary constructs a null-check expression for the provided operation.
// Panics if op is not a unary operation or the term is nil.
func NewUnary(op Operation, term Expr) UnaryExpr {
	switch {
	case op != OpIsNull && op != OpNotNull:
		panic(fmt.Errorf("%w: invalid operation for unary predicate: %s",
			ErrInvalidArgument, op))
	case term == nil:
		panic(fmt.Errorf("%w: cannot create unary predicate with nil term",
			ErrInvalidArgument))
	}

	return UnaryExpr{op: op, term: term}
}

func (u UnaryExpr) String() string {
	return fmt.Sprintf("%s(term=%s)", u.op, u.term)
}

func (u UnaryExpr) Op() Operation { return u.op }

// Term returns the checked value expression.
func (u UnaryExpr) Term() Expr { return u.term }

func (u UnaryExpr) Negate() BooleanExpression {
	return UnaryExpr{op: u.op.Negate(), term: u.term}
}

func (u UnaryExpr) Equals(other BooleanExpression) bool {
	rhs, ok := other.(UnaryExpr)
	if !ok {
		return false
	}

	return u.op == rhs.op && u.term.Equals(rhs.term)
}

// SetExpr is a membership test against a set of literal values: IN or NOT IN.
type SetExpr struct {
	op   Operation
	term Expr
	lits []Literal
}

// NewSet creates a boolean expression representing a membership predicate over
// a set of literals, like In or NotIn. Duplicate literals are folded away.
// An empty set reduces to AlwaysFalse/AlwaysTrue and a single-element set
// reduces to an Equal/NotEqual comparison.
//
// Will panic if op is not a valid set operation or the term is nil.
func NewSet(op Operation, term Expr, lits []Literal) BooleanExpression {
	if op < OpIn || op > OpNotIn {
		panic(fmt.Errorf("%w: invalid operation for set predicate: %s",
			ErrInvalidArgument, op))
	}

	if term == nil {
		panic(fmt.Errorf("%w: cannot create set predicate with nil term",
			ErrInvalidArgument))
	}

	uniq := make([]Literal, 0, len(lits))
	for _, l := range lits {
		dup := false
		for _, u := range uniq {
			if u.Equals(l) {
				dup = true

				break
			}
		}
		if !dup {
			uniq = append(uniq, l)
		}
	}

	switch len(uniq) {
	case 0:
		if op == OpIn {
			return AlwaysFalse{}
		}

		return AlwaysTrue{}
	case 1:
		if op == OpIn {
			return NewComparison(OpEQ, term, LiteralExpr{Lit: uniq[0]})
		}

		return NewComparison(OpNEQ, term, LiteralExpr{Lit: uniq[0]})
	}

	return SetExpr{op: op, term: term, lits: uniq}
}

func (s SetExpr) String() string {
	vals := make([]string, len(s.lits))
	for i, l := range s.lits {
		vals[i] = l.String()
	}

	return fmt.Sprintf("%s(term=%s, {%s})", s.op, s.term, strings.Join(vals, ", "))
}

func (s SetExpr) Op() Operation { return s.op }

// Term returns the tested value expression.
func (s SetExpr) Term() Expr { return s.term }

// Literals returns the member values. Callers must not mutate the returned
// slice.
func (s SetExpr) Literals() []Literal { return s.lits }

func (s SetExpr) Negate() BooleanExpression {
	return SetExpr{op: s.op.Negate(), term: s.term, lits: s.lits}
}

func (s SetExpr) Equals(other BooleanExpression) bool {
	rhs, ok := other.(SetExpr)
	if !ok || s.op != rhs.op || !s.term.Equals(rhs.term) ||
		len(s.lits) != len(rhs.lits) {
		return false
	}

	for _, l := range s.lits {
		found := false
		for _, r := range rhs.lits {
			if l.Equals(r) {
				found = true

				break
			}
		}
		if !found {
			return false
		}
	}

	return true
}
