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

// Any is "item <op> ANY (array)".
type Any struct {
	node
	Item  Expression
	Array Expression
	Op    QuantifiedOperator
}

// NewAny creates an ANY node. It panics if item or array is nil.
func NewAny(item, array Expression, op QuantifiedOperator, mapping *TypeMapping) *Any {
	mustChild("Any", "item", item)
	mustChild("Any", "array", array)
	return &Any{node: node{typ: TypeBool, mapping: mapping}, Item: item, Array: array, Op: op}
}

// Update returns e when item and array are unchanged, a copy otherwise.
func (e *Any) Update(item, array Expression) *Any {
	if item == e.Item && array == e.Array {
		return e
	}
	return NewAny(item, array, e.Op, e.mapping)
}

func (e *Any) Accept(v Visitor, allowOptimizedExpansion bool) (Expression, bool) {
	return v.VisitAny(e, allowOptimizedExpansion)
}

func (e *Any) String() string { return Print(e) }

// All is "item <op> ALL (array)".
type All struct {
	node
	Item  Expression
	Array Expression
	Op    QuantifiedOperator
}

// NewAll creates an ALL node. It panics if item or array is nil.
func NewAll(item, array Expression, op QuantifiedOperator, mapping *TypeMapping) *All {
	mustChild("All", "item", item)
	mustChild("All", "array", array)
	return &All{node: node{typ: TypeBool, mapping: mapping}, Item: item, Array: array, Op: op}
}

// Update returns e when item and array are unchanged, a copy otherwise.
func (e *All) Update(item, array Expression) *All {
	if item == e.Item && array == e.Array {
		return e
	}
	return NewAll(item, array, e.Op, e.mapping)
}

func (e *All) Accept(v Visitor, allowOptimizedExpansion bool) (Expression, bool) {
	return v.VisitAll(e, allowOptimizedExpansion)
}

func (e *All) String() string { return Print(e) }

// ArrayIndex is "array[index]" with PostgreSQL's 1-based indexing.
type ArrayIndex struct {
	node
	Array Expression
	Index Expression
}

// NewArrayIndex creates an element access. The result takes the element
// mapping of the array when the array mapping has one.
func NewArrayIndex(array, index Expression, typ ScalarType) *ArrayIndex {
	mustChild("ArrayIndex", "array", array)
	mustChild("ArrayIndex", "index", index)
	var mapping *TypeMapping
	if m := array.TypeMapping(); m.IsArray() {
		mapping = m.Element
	}
	return &ArrayIndex{node: node{typ: typ, mapping: mapping}, Array: array, Index: index}
}

// Update returns e when array and index are unchanged, a copy otherwise.
func (e *ArrayIndex) Update(array, index Expression) *ArrayIndex {
	if array == e.Array && index == e.Index {
		return e
	}
	mustChild("ArrayIndex", "array", array)
	mustChild("ArrayIndex", "index", index)
	return &ArrayIndex{node: e.node, Array: array, Index: index}
}

func (e *ArrayIndex) Accept(v Visitor, allowOptimizedExpansion bool) (Expression, bool) {
	return v.VisitArrayIndex(e, allowOptimizedExpansion)
}

func (e *ArrayIndex) String() string { return Print(e) }

// PostgresBinary is a binary operator specific to PostgreSQL types: arrays,
// ranges, networks, full text search, jsonb and ltree.
type PostgresBinary struct {
	node
	Op    PostgresOperator
	Left  Expression
	Right Expression
}

// NewPostgresBinary creates the node. It panics if either operand is nil.
func NewPostgresBinary(op PostgresOperator, left, right Expression, typ ScalarType, mapping *TypeMapping) *PostgresBinary {
	mustChild("PostgresBinary", "left operand", left)
	mustChild("PostgresBinary", "right operand", right)
	return &PostgresBinary{node: node{typ: typ, mapping: mapping}, Op: op, Left: left, Right: right}
}

// Update returns e when both operands are unchanged, a copy otherwise.
func (e *PostgresBinary) Update(left, right Expression) *PostgresBinary {
	if left == e.Left && right == e.Right {
		return e
	}
	return NewPostgresBinary(e.Op, left, right, e.typ, e.mapping)
}

func (e *PostgresBinary) Accept(v Visitor, allowOptimizedExpansion bool) (Expression, bool) {
	return v.VisitPostgresBinary(e, allowOptimizedExpansion)
}

func (e *PostgresBinary) String() string { return Print(e) }

// ILike is the case-insensitive "match ILIKE pattern [ESCAPE escape]".
type ILike struct {
	node
	Match      Expression
	Pattern    Expression
	EscapeChar Expression
}

// NewILike creates an ILIKE node. It panics if match or pattern is nil.
func NewILike(match, pattern, escapeChar Expression, mapping *TypeMapping) *ILike {
	mustChild("ILike", "match", match)
	mustChild("ILike", "pattern", pattern)
	return &ILike{node: node{typ: TypeBool, mapping: mapping}, Match: match, Pattern: pattern, EscapeChar: escapeChar}
}

// Update returns e when nothing changed, a copy otherwise.
func (e *ILike) Update(match, pattern, escapeChar Expression) *ILike {
	if match == e.Match && pattern == e.Pattern && escapeChar == e.EscapeChar {
		return e
	}
	return NewILike(match, pattern, escapeChar, e.mapping)
}

func (e *ILike) Accept(v Visitor, allowOptimizedExpansion bool) (Expression, bool) {
	return v.VisitILike(e, allowOptimizedExpansion)
}

func (e *ILike) String() string { return Print(e) }

// RegexMatch is "match ~ pattern", or "~*" with RegexIgnoreCase.
type RegexMatch struct {
	node
	Match   Expression
	Pattern Expression
	Options RegexOptions
}

// NewRegexMatch creates the node. It panics if match or pattern is nil.
func NewRegexMatch(match, pattern Expression, options RegexOptions, mapping *TypeMapping) *RegexMatch {
	mustChild("RegexMatch", "match", match)
	mustChild("RegexMatch", "pattern", pattern)
	return &RegexMatch{node: node{typ: TypeBool, mapping: mapping}, Match: match, Pattern: pattern, Options: options}
}

// Update returns e when match and pattern are unchanged, a copy otherwise.
func (e *RegexMatch) Update(match, pattern Expression) *RegexMatch {
	if match == e.Match && pattern == e.Pattern {
		return e
	}
	return NewRegexMatch(match, pattern, e.Options, e.mapping)
}

func (e *RegexMatch) Accept(v Visitor, allowOptimizedExpansion bool) (Expression, bool) {
	return v.VisitRegexMatch(e, allowOptimizedExpansion)
}

func (e *RegexMatch) String() string { return Print(e) }

// NewArray is "ARRAY[e1, e2, ...]".
type NewArray struct {
	node
	Expressions []Expression
}

// NewNewArray creates an array constructor. It panics if an element is nil.
func NewNewArray(expressions []Expression, mapping *TypeMapping) *NewArray {
	mustChildren("NewArray", "element", expressions)
	return &NewArray{node: node{typ: TypeArray, mapping: mapping}, Expressions: copyList(expressions)}
}

// Update returns e when all elements are unchanged, a copy otherwise.
func (e *NewArray) Update(expressions []Expression) *NewArray {
	if sameList(expressions, e.Expressions) {
		return e
	}
	return NewNewArray(expressions, e.mapping)
}

func (e *NewArray) Accept(v Visitor, allowOptimizedExpansion bool) (Expression, bool) {
	return v.VisitNewArray(e, allowOptimizedExpansion)
}

func (e *NewArray) String() string { return Print(e) }

// JSONTraversal walks Path from Expression with "->", the last step using
// "->>" when ReturnsText is set.
type JSONTraversal struct {
	node
	Expression  Expression
	Path        []Expression
	ReturnsText bool
}

// NewJSONTraversal creates the node. It panics if the root or a path
// component is nil.
func NewJSONTraversal(expression Expression, path []Expression, returnsText bool,
	typ ScalarType, mapping *TypeMapping) *JSONTraversal {
	mustChild("JSONTraversal", "expression", expression)
	mustChildren("JSONTraversal", "path", path)
	return &JSONTraversal{
		node:        node{typ: typ, mapping: mapping},
		Expression:  expression,
		Path:        copyList(path),
		ReturnsText: returnsText,
	}
}

// Update returns e when nothing changed, a copy otherwise.
func (e *JSONTraversal) Update(expression Expression, path []Expression) *JSONTraversal {
	if expression == e.Expression && sameList(path, e.Path) {
		return e
	}
	return NewJSONTraversal(expression, path, e.ReturnsText, e.typ, e.mapping)
}

func (e *JSONTraversal) Accept(v Visitor, allowOptimizedExpansion bool) (Expression, bool) {
	return v.VisitJSONTraversal(e, allowOptimizedExpansion)
}

func (e *JSONTraversal) String() string { return Print(e) }

// RowValue is the tuple "(v1, v2, ...)".
type RowValue struct {
	node
	Values []Expression
}

// NewRowValue creates a row value. It panics if a value is nil.
func NewRowValue(values []Expression) *RowValue {
	mustChildren("RowValue", "value", values)
	return &RowValue{node: node{typ: TypeRecord}, Values: copyList(values)}
}

// Update returns e when all values are unchanged, a copy otherwise.
func (e *RowValue) Update(values []Expression) *RowValue {
	if sameList(values, e.Values) {
		return e
	}
	return NewRowValue(values)
}

func (e *RowValue) Accept(v Visitor, allowOptimizedExpansion bool) (Expression, bool) {
	return v.VisitRowValue(e, allowOptimizedExpansion)
}

func (e *RowValue) String() string { return Print(e) }

// UnknownBinary is a binary operator the model has no specific knowledge of,
// carried verbatim.
type UnknownBinary struct {
	node
	Left     Expression
	Operator string
	Right    Expression
}

// NewUnknownBinary creates the node. It panics if either operand is nil.
func NewUnknownBinary(left Expression, operator string, right Expression, typ ScalarType, mapping *TypeMapping) *UnknownBinary {
	mustChild("UnknownBinary", "left operand", left)
	mustChild("UnknownBinary", "right operand", right)
	return &UnknownBinary{node: node{typ: typ, mapping: mapping}, Left: left, Operator: operator, Right: right}
}

// Update returns e when both operands are unchanged, a copy otherwise.
func (e *UnknownBinary) Update(left, right Expression) *UnknownBinary {
	if left == e.Left && right == e.Right {
		return e
	}
	return NewUnknownBinary(left, e.Operator, right, e.typ, e.mapping)
}

func (e *UnknownBinary) Accept(v Visitor, allowOptimizedExpansion bool) (Expression, bool) {
	return v.VisitUnknownBinary(e, allowOptimizedExpansion)
}

func (e *UnknownBinary) String() string { return Print(e) }
