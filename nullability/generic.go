/*
 * Copyright 2025 The RuleGo Authors.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package nullability

import "github.com/rulego/sqlnull/sqlexpr"

// Rules for the standard node kinds. Unless stated otherwise an operator
// applied to a nullable operand is nullable, and a node is returned unchanged
// when none of its children changed.

func (p *Processor) VisitColumn(e *sqlexpr.Column, _ bool) (sqlexpr.Expression, bool) {
	return e, e.Nullable
}

func (p *Processor) VisitConstant(e *sqlexpr.Constant, _ bool) (sqlexpr.Expression, bool) {
	return e, isNull(e.Value)
}

func (p *Processor) VisitParameter(e *sqlexpr.Parameter, _ bool) (sqlexpr.Expression, bool) {
	return e, e.Nullable
}

// VisitUnary: IS NULL and IS NOT NULL always yield a definite boolean. The
// operand of NOT is visited without optimized expansion since NOT turns a
// NULL-as-false result into true.
func (p *Processor) VisitUnary(e *sqlexpr.Unary, _ bool) (sqlexpr.Expression, bool) {
	operand, operandNullable := p.Visit(e.Operand, false)
	switch e.Op {
	case sqlexpr.OpIsNull, sqlexpr.OpIsNotNull:
		return e.Update(operand), false
	default:
		return e.Update(operand), operandNullable
	}
}

// VisitBinary passes allowOptimizedExpansion down through AND and OR only.
func (p *Processor) VisitBinary(e *sqlexpr.Binary, allowOptimizedExpansion bool) (sqlexpr.Expression, bool) {
	childAllow := allowOptimizedExpansion && e.Op.IsLogical()

	left, leftNullable := p.Visit(e.Left, childAllow)
	right, rightNullable := p.Visit(e.Right, childAllow)

	return e.Update(left, right), leftNullable || rightNullable
}

// VisitFunction: a non-nullable function is never NULL. A nullable function
// whose arguments all opt out of propagation may always be NULL; otherwise it
// is NULL only through a nullable propagating argument.
func (p *Processor) VisitFunction(e *sqlexpr.Function, _ bool) (sqlexpr.Expression, bool) {
	var args []sqlexpr.Expression
	argNullable := make([]bool, len(e.Args))
	for i, arg := range e.Args {
		visited, nullable := p.Visit(arg, false)
		argNullable[i] = nullable
		if visited != arg && args == nil {
			args = make([]sqlexpr.Expression, i, len(e.Args))
			copy(args, e.Args[:i])
		}
		if args != nil {
			args = append(args, visited)
		}
	}

	var updated sqlexpr.Expression = e
	if args != nil {
		updated = e.Update(args)
	}

	if !e.IsNullable {
		return updated, false
	}

	propagating, nullable := false, false
	for i, propagates := range e.ArgumentsPropagateNullability {
		if !propagates {
			continue
		}
		propagating = true
		if argNullable[i] {
			nullable = true
		}
	}
	if !propagating {
		return updated, true
	}
	return updated, nullable
}

// VisitLike: LIKE is not compensated, its result is NULL whenever one of its
// inputs is.
func (p *Processor) VisitLike(e *sqlexpr.Like, _ bool) (sqlexpr.Expression, bool) {
	match, matchNullable := p.Visit(e.Match, false)
	pattern, patternNullable := p.Visit(e.Pattern, false)
	escapeChar, escapeCharNullable := p.visitOptional(e.EscapeChar, false)

	return e.Update(match, pattern, escapeChar), matchNullable || patternNullable || escapeCharNullable
}
