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

package sqlexpr

import "fmt"

// Expression is an immutable node of a translated SQL expression tree.
//
// The set of implementations is closed: every node kind has a method on
// Visitor, so adding a kind forces every pass to handle it. Fields of a node
// must not be modified after construction; passes build new nodes through the
// Update methods, which return the receiver when no child changed.
type Expression interface {
	// Type returns the inferred scalar type.
	Type() ScalarType
	// TypeMapping returns the store type metadata, nil when not inferred.
	TypeMapping() *TypeMapping
	// Accept dispatches to the Visitor method for the node kind.
	Accept(v Visitor, allowOptimizedExpansion bool) (Expression, bool)
	// String renders the node as PostgreSQL-flavoured SQL.
	String() string

	sqlExpression()
}

// Visitor is implemented by passes that rebuild a tree and compute a flag for
// every node on the way up, such as nullability.
type Visitor interface {
	VisitColumn(e *Column, allowOptimizedExpansion bool) (Expression, bool)
	VisitConstant(e *Constant, allowOptimizedExpansion bool) (Expression, bool)
	VisitParameter(e *Parameter, allowOptimizedExpansion bool) (Expression, bool)
	VisitUnary(e *Unary, allowOptimizedExpansion bool) (Expression, bool)
	VisitBinary(e *Binary, allowOptimizedExpansion bool) (Expression, bool)
	VisitFunction(e *Function, allowOptimizedExpansion bool) (Expression, bool)
	VisitLike(e *Like, allowOptimizedExpansion bool) (Expression, bool)

	VisitAny(e *Any, allowOptimizedExpansion bool) (Expression, bool)
	VisitAll(e *All, allowOptimizedExpansion bool) (Expression, bool)
	VisitArrayIndex(e *ArrayIndex, allowOptimizedExpansion bool) (Expression, bool)
	VisitPostgresBinary(e *PostgresBinary, allowOptimizedExpansion bool) (Expression, bool)
	VisitILike(e *ILike, allowOptimizedExpansion bool) (Expression, bool)
	VisitRegexMatch(e *RegexMatch, allowOptimizedExpansion bool) (Expression, bool)
	VisitNewArray(e *NewArray, allowOptimizedExpansion bool) (Expression, bool)
	VisitJSONTraversal(e *JSONTraversal, allowOptimizedExpansion bool) (Expression, bool)
	VisitRowValue(e *RowValue, allowOptimizedExpansion bool) (Expression, bool)
	VisitUnknownBinary(e *UnknownBinary, allowOptimizedExpansion bool) (Expression, bool)
}

// node holds what every expression carries.
type node struct {
	typ     ScalarType
	mapping *TypeMapping
}

func (n *node) Type() ScalarType          { return n.typ }
func (n *node) TypeMapping() *TypeMapping { return n.mapping }
func (n *node) sqlExpression()            {}

// mustChild panics when a mandatory child is missing. A nil child is a
// programming error of the caller building the tree.
func mustChild(kind, name string, e Expression) {
	if e == nil {
		panic(fmt.Sprintf("sqlexpr: %s requires a non-nil %s", kind, name))
	}
}

func mustChildren(kind, name string, list []Expression) {
	for i, e := range list {
		if e == nil {
			panic(fmt.Sprintf("sqlexpr: %s requires a non-nil %s[%d]", kind, name, i))
		}
	}
}

// sameList reports whether both lists hold the identical nodes.
func sameList(a, b []Expression) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func copyList(list []Expression) []Expression {
	if list == nil {
		return nil
	}
	out := make([]Expression, len(list))
	copy(out, list)
	return out
}
