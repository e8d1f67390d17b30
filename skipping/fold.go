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
	"strings"

	"github.com/jarrettalexander77/hudi"
)

// foldTerm reduces an expression term to a single literal when it only
// involves literals and foldable functions. The second return is false
// for column references, unknown functions and failed casts; in every
// case the caller degrades rather than erroring.
func foldTerm(e hudi.Expr) (hudi.Literal, bool) {
	switch e := e.(type) {
	case hudi.LiteralExpr:
		return e.Lit, true
	case hudi.FunctionExpr:
		args := make([]hudi.Literal, len(e.Args()))
		for i, a := range e.Args() {
			lit, ok := foldTerm(a)
			if !ok {
				return nil, false
			}
			args[i] = lit
		}

		return applyFunction(e.Name(), args)
	}

	return nil, false
}

// applyFunction evaluates the folding-eligible scalar functions over
// fully literal arguments.
func applyFunction(name string, args []hudi.Literal) (hudi.Literal, bool) {
	switch name {
	case "lower", "upper":
		if len(args) != 1 {
			return nil, false
		}
		s, ok := args[0].(hudi.StringLiteral)
		if !ok {
			return nil, false
		}
		if name == "lower" {
			return hudi.NewLiteral(strings.ToLower(s.Value())), true
		}

		return hudi.NewLiteral(strings.ToUpper(s.Value())), true
	case "cast":
		if len(args) != 2 {
			return nil, false
		}
		typeName, ok := args[1].(hudi.StringLiteral)
		if !ok {
			return nil, false
		}
		typ, err := hudi.TypeFromString(typeName.Value())
		if err != nil {
			return nil, false
		}
		out, err := args[0].To(typ)
		if err != nil {
			return nil, false
		}

		return out, true
	}

	return nil, false
}
