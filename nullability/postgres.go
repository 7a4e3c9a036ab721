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

// arrayPositionFunction is used to find a NULL element: array_position
// compares with IS NOT DISTINCT FROM, so it finds NULL where "= ANY" cannot.
const arrayPositionFunction = "array_position"

// VisitAny computes the nullability of "item <op> ANY (array)" and, for the
// equality operator, rewrites it so that it never yields NULL:
//
//	non_nullable = ANY(a)  ->  non_nullable = ANY(a)                                    (optimized)
//	non_nullable = ANY(a)  ->  (non_nullable = ANY(a)) AND (... IS NOT NULL)              (full)
//	nullable = ANY(a)      ->  nullable = ANY(a) OR (nullable IS NULL AND array_position(a, NULL) IS NOT NULL)
//
// with the full form of the ANY test on the left of the OR outside optimized
// mode. The item stays on the left of the quantified test so an index on it
// remains usable.
func (p *Processor) VisitAny(e *sqlexpr.Any, allowOptimizedExpansion bool) (sqlexpr.Expression, bool) {
	item, itemNullable := p.Visit(e.Item, false)
	array, arrayNullable := p.Visit(e.Array, false)

	var updated sqlexpr.Expression = e.Update(item, array)

	if p.useRelationalNulls {
		return updated, false
	}

	// Other operators are not compensated, consistent with LIKE.
	if e.Op != sqlexpr.QuantifiedEqual {
		return updated, itemNullable || arrayNullable || mayContainNulls(e.Array)
	}

	// ANY yields NULL instead of false when the item is not found but the
	// array holds a NULL.
	if !allowOptimizedExpansion {
		updated = sqlexpr.AndAlso(updated, sqlexpr.IsNotNull(updated))
	}

	if !itemNullable {
		if !allowOptimizedExpansion {
			p.log.Debug("compensated %s as %s", e, updated)
		}
		return updated, false
	}

	position := sqlexpr.NewFunction(
		arrayPositionFunction,
		[]sqlexpr.Expression{array, sqlexpr.Null(item.Type(), item.TypeMapping())},
		true,
		[]bool{false, false},
		sqlexpr.TypeInt,
		sqlexpr.IntMapping)

	compensated := sqlexpr.OrElse(
		updated,
		sqlexpr.AndAlso(
			sqlexpr.IsNull(item),
			sqlexpr.IsNotNull(position)))

	p.log.Debug("compensated %s as %s", e, compensated)
	return compensated, false
}

// VisitAll only computes nullability; "item <op> ALL (array)" is not
// compensated.
func (p *Processor) VisitAll(e *sqlexpr.All, _ bool) (sqlexpr.Expression, bool) {
	item, itemNullable := p.Visit(e.Item, false)
	array, arrayNullable := p.Visit(e.Array, false)

	updated := e.Update(item, array)

	if p.useRelationalNulls {
		return updated, false
	}

	return updated, itemNullable || arrayNullable || mayContainNulls(e.Array)
}

// VisitArrayIndex: an element access is NULL for a NULL array or index, an out
// of range index, or a NULL element. Out of range access is only accounted for
// through the element flag of the array mapping; a missing mapping is
// treated as nullable elements.
func (p *Processor) VisitArrayIndex(e *sqlexpr.ArrayIndex, allowOptimizedExpansion bool) (sqlexpr.Expression, bool) {
	array, arrayNullable := p.Visit(e.Array, allowOptimizedExpansion)
	index, indexNullable := p.Visit(e.Index, allowOptimizedExpansion)

	return e.Update(array, index), arrayNullable || indexNullable || elementNullable(e.Array)
}

// notFoundIsNull lists the operators that return NULL for "no match" rather
// than false, whatever their operands.
var notFoundIsNull = map[sqlexpr.PostgresOperator]struct{}{
	sqlexpr.PgLTreeFirstAncestor:   {},
	sqlexpr.PgLTreeFirstDescendent: {},
	sqlexpr.PgLTreeFirstMatches:    {},
}

// VisitPostgresBinary does not compensate array containment: doing so would
// prevent GIN index use, so '{1,2,NULL}' @> '{NULL}' stays false.
func (p *Processor) VisitPostgresBinary(e *sqlexpr.PostgresBinary, allowOptimizedExpansion bool) (sqlexpr.Expression, bool) {
	left, leftNullable := p.Visit(e.Left, allowOptimizedExpansion)
	right, rightNullable := p.Visit(e.Right, allowOptimizedExpansion)

	updated := e.Update(left, right)
	if _, ok := notFoundIsNull[e.Op]; ok {
		return updated, true
	}
	return updated, leftNullable || rightNullable
}

// VisitILike reuses the LIKE rule on an equivalent LIKE node.
func (p *Processor) VisitILike(e *sqlexpr.ILike, allowOptimizedExpansion bool) (sqlexpr.Expression, bool) {
	like := sqlexpr.NewLike(e.Match, e.Pattern, e.EscapeChar, e.TypeMapping())

	visited, nullable := p.VisitLike(like, allowOptimizedExpansion)
	if visited == like {
		return e, nullable
	}
	if visitedLike, ok := visited.(*sqlexpr.Like); ok {
		return e.Update(visitedLike.Match, visitedLike.Pattern, visitedLike.EscapeChar), nullable
	}
	return visited, nullable
}

func (p *Processor) VisitRegexMatch(e *sqlexpr.RegexMatch, _ bool) (sqlexpr.Expression, bool) {
	match, matchNullable := p.Visit(e.Match, false)
	pattern, patternNullable := p.Visit(e.Pattern, false)

	return e.Update(match, pattern), matchNullable || patternNullable
}

// VisitNewArray: the constructed array is never NULL, whatever its elements.
func (p *Processor) VisitNewArray(e *sqlexpr.NewArray, allowOptimizedExpansion bool) (sqlexpr.Expression, bool) {
	return e.Update(p.visitList(e.Expressions, allowOptimizedExpansion)), false
}

// VisitJSONTraversal considers anything inside a JSON document nullable.
// Schema-aware document mappings could tighten this, but that changes query
// results and is left as is.
func (p *Processor) VisitJSONTraversal(e *sqlexpr.JSONTraversal, allowOptimizedExpansion bool) (sqlexpr.Expression, bool) {
	root, _ := p.Visit(e.Expression, false)
	path := p.visitList(e.Path, allowOptimizedExpansion)

	return e.Update(root, path), true
}

// VisitRowValue: a row value is never NULL, even when all its fields are.
func (p *Processor) VisitRowValue(e *sqlexpr.RowValue, allowOptimizedExpansion bool) (sqlexpr.Expression, bool) {
	return e.Update(p.visitList(e.Values, allowOptimizedExpansion)), false
}

// VisitUnknownBinary is the fallback for operators the model does not know.
func (p *Processor) VisitUnknownBinary(e *sqlexpr.UnknownBinary, allowOptimizedExpansion bool) (sqlexpr.Expression, bool) {
	left, leftNullable := p.Visit(e.Left, allowOptimizedExpansion)
	right, rightNullable := p.Visit(e.Right, allowOptimizedExpansion)

	return e.Update(left, right), leftNullable || rightNullable
}
