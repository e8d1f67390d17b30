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

// Package exprparse parses the command line filter syntax into boolean
// expressions. The grammar is a small SQL-ish subset:
//
//	expr    := or
//	or      := and { OR and }
//	and     := unary { AND unary }
//	unary   := NOT unary | '(' expr ')' | predicate
//	pred    := term (= != < <= > >=) term
//	       | term IS [NOT] NULL
//	       | term [NOT] IN '(' literal {',' literal} ')'
//	       | term [NOT] STARTSWITH literal
//	term    := identifier | literal | identifier '(' term {',' term} ')'
//	literal := number | 'string' | "string" | TRUE | FALSE
package exprparse

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/jarrettalexander77/hudi"
)

// Parse converts a filter string into a boolean expression.
func Parse(input string) (hudi.BooleanExpression, error) {
	tokens, err := tokenize(input)
	if err != nil {
		return nil, err
	}

	p := &parser{tokens: tokens}
	expr, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if !p.done() {
		return nil, fmt.Errorf("%w: unexpected input at '%s'", hudi.ErrInvalidArgument, p.peek().text)
	}

	return expr, nil
}

type tokenKind int

const (
	tokIdent tokenKind = iota
	tokNumber
	tokString
	tokOp
	tokLParen
	tokRParen
	tokComma
)

type token struct {
	kind tokenKind
	text string
}

func tokenize(input string) ([]token, error) {
	var tokens []token
	i := 0
	for i < len(input) {
		c := input[i]
		switch {
		case c == ' ' || c == '\t' || c == '\n':
			i++
		case c == '(':
			tokens = append(tokens, token{tokLParen, "("})
			i++
		case c == ')':
			tokens = append(tokens, token{tokRParen, ")"})
			i++
		case c == ',':
			tokens = append(tokens, token{tokComma, ","})
			i++
		case c == '=':
			tokens = append(tokens, token{tokOp, "="})
			i++
		case c == '!' && i+1 < len(input) && input[i+1] == '=':
			tokens = append(tokens, token{tokOp, "!="})
			i += 2
		case c == '<' || c == '>':
			op := string(c)
			i++
			if i < len(input) && input[i] == '=' {
				op += "="
				i++
			}
			tokens = append(tokens, token{tokOp, op})
		case c == '\'' || c == '"':
			end := strings.IndexByte(input[i+1:], c)
			if end < 0 {
				return nil, fmt.Errorf("%w: unterminated string literal", hudi.ErrInvalidArgument)
			}
			tokens = append(tokens, token{tokString, input[i+1 : i+1+end]})
			i += end + 2
		case c >= '0' && c <= '9' || c == '-' && i+1 < len(input) && input[i+1] >= '0' && input[i+1] <= '9':
			start := i
			i++
			for i < len(input) && (input[i] >= '0' && input[i] <= '9' || input[i] == '.') {
				i++
			}
			tokens = append(tokens, token{tokNumber, input[start:i]})
		case isIdentStart(rune(c)):
			start := i
			for i < len(input) && isIdentPart(rune(input[i])) {
				i++
			}
			tokens = append(tokens, token{tokIdent, input[start:i]})
		default:
			return nil, fmt.Errorf("%w: unexpected character '%c'", hudi.ErrInvalidArgument, c)
		}
	}

	return tokens, nil
}

func isIdentStart(r rune) bool {
	return unicode.IsLetter(r) || r == '_'
}

func isIdentPart(r rune) bool {
	return isIdentStart(r) || unicode.IsDigit(r)
}

type parser struct {
	tokens []token
	pos    int
}

func (p *parser) done() bool { return p.pos >= len(p.tokens) }

func (p *parser) peek() token {
	if p.done() {
		return token{}
	}

	return p.tokens[p.pos]
}

func (p *parser) next() token {
	t := p.peek()
	p.pos++

	return t
}

func (p *parser) keyword(word string) bool {
	t := p.peek()
	if t.kind == tokIdent && strings.EqualFold(t.text, word) {
		p.pos++

		return true
	}

	return false
}

func (p *parser) expect(kind tokenKind, what string) (token, error) {
	if p.done() || p.peek().kind != kind {
		return token{}, fmt.Errorf("%w: expected %s", hudi.ErrInvalidArgument, what)
	}

	return p.next(), nil
}

func (p *parser) parseOr() (hudi.BooleanExpression, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.keyword("OR") {
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = hudi.NewOr(left, right)
	}

	return left, nil
}

func (p *parser) parseAnd() (hudi.BooleanExpression, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for p.keyword("AND") {
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = hudi.NewAnd(left, right)
	}

	return left, nil
}

func (p *parser) parseUnary() (hudi.BooleanExpression, error) {
	if p.keyword("NOT") {
		child, err := p.parseUnary()
		if err != nil {
			return nil, err
		}

		return hudi.NewNot(child), nil
	}

	if p.peek().kind == tokLParen {
		// could be a grouped boolean or the start of a predicate whose
		// left term is parenthesized; only grouping is supported
		p.next()
		expr, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(tokRParen, "')'"); err != nil {
			return nil, err
		}

		return expr, nil
	}

	return p.parsePredicate()
}

func (p *parser) parsePredicate() (hudi.BooleanExpression, error) {
	left, err := p.parseTerm()
	if err != nil {
		return nil, err
	}

	if p.keyword("IS") {
		negated := p.keyword("NOT")
		if !p.keyword("NULL") {
			return nil, fmt.Errorf("%w: expected NULL after IS", hudi.ErrInvalidArgument)
		}
		if negated {
			return hudi.NotNull(left), nil
		}

		return hudi.IsNull(left), nil
	}

	if p.keyword("NOT") {
		switch {
		case p.keyword("IN"):
			lits, err := p.parseLiteralList()
			if err != nil {
				return nil, err
			}

			return hudi.NewSet(hudi.OpNotIn, left, lits), nil
		case p.keyword("STARTSWITH"):
			lit, err := p.parseLiteral()
			if err != nil {
				return nil, err
			}

			return hudi.NewComparison(hudi.OpNotStartsWith, left, hudi.LiteralExpr{Lit: lit}), nil
		}

		return nil, fmt.Errorf("%w: expected IN or STARTSWITH after NOT", hudi.ErrInvalidArgument)
	}

	if p.keyword("IN") {
		lits, err := p.parseLiteralList()
		if err != nil {
			return nil, err
		}

		return hudi.NewSet(hudi.OpIn, left, lits), nil
	}

	if p.keyword("STARTSWITH") {
		lit, err := p.parseLiteral()
		if err != nil {
			return nil, err
		}

		return hudi.NewComparison(hudi.OpStartsWith, left, hudi.LiteralExpr{Lit: lit}), nil
	}

	opTok, err := p.expect(tokOp, "comparison operator")
	if err != nil {
		return nil, err
	}
	op, ok := comparisonOps[opTok.text]
	if !ok {
		return nil, fmt.Errorf("%w: unknown operator '%s'", hudi.ErrInvalidArgument, opTok.text)
	}

	right, err := p.parseTerm()
	if err != nil {
		return nil, err
	}

	return hudi.NewComparison(op, left, right), nil
}

var comparisonOps = map[string]hudi.Operation{
	"=":  hudi.OpEQ,
	"!=": hudi.OpNEQ,
	"<":  hudi.OpLT,
	"<=": hudi.OpLTEQ,
	">":  hudi.OpGT,
	">=": hudi.OpGTEQ,
}

func (p *parser) parseLiteralList() ([]hudi.Literal, error) {
	if _, err := p.expect(tokLParen, "'('"); err != nil {
		return nil, err
	}

	var lits []hudi.Literal
	for {
		lit, err := p.parseLiteral()
		if err != nil {
			return nil, err
		}
		lits = append(lits, lit)

		if p.peek().kind == tokComma {
			p.next()

			continue
		}

		break
	}
	if _, err := p.expect(tokRParen, "')'"); err != nil {
		return nil, err
	}

	return lits, nil
}

func (p *parser) parseLiteral() (hudi.Literal, error) {
	t := p.peek()
	switch t.kind {
	case tokString:
		p.next()

		return hudi.NewLiteral(t.text), nil
	case tokNumber:
		p.next()
		if strings.ContainsRune(t.text, '.') {
			v, err := strconv.ParseFloat(t.text, 64)
			if err != nil {
				return nil, fmt.Errorf("%w: bad number '%s'", hudi.ErrInvalidArgument, t.text)
			}

			return hudi.NewLiteral(v), nil
		}
		v, err := strconv.ParseInt(t.text, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: bad number '%s'", hudi.ErrInvalidArgument, t.text)
		}

		return hudi.NewLiteral(v), nil
	case tokIdent:
		if strings.EqualFold(t.text, "TRUE") {
			p.next()

			return hudi.NewLiteral(true), nil
		}
		if strings.EqualFold(t.text, "FALSE") {
			p.next()

			return hudi.NewLiteral(false), nil
		}
	}

	return nil, fmt.Errorf("%w: expected literal at '%s'", hudi.ErrInvalidArgument, t.text)
}

func (p *parser) parseTerm() (hudi.Expr, error) {
	t := p.peek()

	if lit, err := p.parseLiteral(); err == nil {
		return hudi.LiteralExpr{Lit: lit}, nil
	}

	if t.kind != tokIdent {
		return nil, fmt.Errorf("%w: expected column, literal or function at '%s'", hudi.ErrInvalidArgument, t.text)
	}
	p.next()

	// function call
	if p.peek().kind == tokLParen {
		p.next()
		var args []hudi.Expr
		for {
			arg, err := p.parseTerm()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)

			if p.peek().kind == tokComma {
				p.next()

				continue
			}

			break
		}
		if _, err := p.expect(tokRParen, "')'"); err != nil {
			return nil, err
		}

		return hudi.NewFunction(t.text, args...), nil
	}

	return hudi.Reference(t.text), nil
}
