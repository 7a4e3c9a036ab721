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

// Column references a table column. Nullable comes from the schema.
type Column struct {
	node
	Table    string
	Name     string
	Nullable bool
}

// NewColumn creates a column reference. table may be empty.
func NewColumn(table, name string, typ ScalarType, mapping *TypeMapping, nullable bool) *Column {
	return &Column{node: node{typ: typ, mapping: mapping}, Table: table, Name: name, Nullable: nullable}
}

// QualifiedName returns "table.name", or name alone when there is no table.
func (e *Column) QualifiedName() string {
	if e.Table == "" {
		return e.Name
	}
	return e.Table + "." + e.Name
}

func (e *Column) Accept(v Visitor, allowOptimizedExpansion bool) (Expression, bool) {
	return v.VisitColumn(e, allowOptimizedExpansion)
}

func (e *Column) String() string { return Print(e) }

// Constant is a literal value. A nil Value is SQL NULL; a slice or array Value
// is a constant array whose elements are scanned for NULLs.
type Constant struct {
	node
	Value any
}

// NewConstant creates a literal.
func NewConstant(value any, typ ScalarType, mapping *TypeMapping) *Constant {
	return &Constant{node: node{typ: typ, mapping: mapping}, Value: value}
}

// IsNull reports whether the constant is the NULL literal.
func (e *Constant) IsNull() bool { return e.Value == nil }

func (e *Constant) Accept(v Visitor, allowOptimizedExpansion bool) (Expression, bool) {
	return v.VisitConstant(e, allowOptimizedExpansion)
}

func (e *Constant) String() string { return Print(e) }

// Parameter is a value bound at execution time.
type Parameter struct {
	node
	Name     string
	Nullable bool
}

// NewParameter creates a parameter reference.
func NewParameter(name string, typ ScalarType, mapping *TypeMapping, nullable bool) *Parameter {
	return &Parameter{node: node{typ: typ, mapping: mapping}, Name: name, Nullable: nullable}
}

func (e *Parameter) Accept(v Visitor, allowOptimizedExpansion bool) (Expression, bool) {
	return v.VisitParameter(e, allowOptimizedExpansion)
}

func (e *Parameter) String() string { return Print(e) }

// Unary applies NOT, negation, IS NULL or IS NOT NULL to an operand.
type Unary struct {
	node
	Op      UnaryOperator
	Operand Expression
}

// NewUnary creates a unary node. It panics if operand is nil.
func NewUnary(op UnaryOperator, operand Expression, typ ScalarType, mapping *TypeMapping) *Unary {
	mustChild("Unary", "operand", operand)
	return &Unary{node: node{typ: typ, mapping: mapping}, Op: op, Operand: operand}
}

// Update returns e when operand is unchanged, a copy otherwise.
func (e *Unary) Update(operand Expression) *Unary {
	if operand == e.Operand {
		return e
	}
	return NewUnary(e.Op, operand, e.typ, e.mapping)
}

func (e *Unary) Accept(v Visitor, allowOptimizedExpansion bool) (Expression, bool) {
	return v.VisitUnary(e, allowOptimizedExpansion)
}

func (e *Unary) String() string { return Print(e) }

// Binary is a standard SQL binary operation.
type Binary struct {
	node
	Op    BinaryOperator
	Left  Expression
	Right Expression
}

// NewBinary creates a binary node. It panics if either operand is nil.
func NewBinary(op BinaryOperator, left, right Expression, typ ScalarType, mapping *TypeMapping) *Binary {
	mustChild("Binary", "left operand", left)
	mustChild("Binary", "right operand", right)
	return &Binary{node: node{typ: typ, mapping: mapping}, Op: op, Left: left, Right: right}
}

// Update returns e when both operands are unchanged, a copy otherwise.
func (e *Binary) Update(left, right Expression) *Binary {
	if left == e.Left && right == e.Right {
		return e
	}
	return NewBinary(e.Op, left, right, e.typ, e.mapping)
}

func (e *Binary) Accept(v Visitor, allowOptimizedExpansion bool) (Expression, bool) {
	return v.VisitBinary(e, allowOptimizedExpansion)
}

func (e *Binary) String() string { return Print(e) }

// Function is a call to a named database function.
//
// IsNullable reports whether the function can return NULL at all. When it can,
// ArgumentsPropagateNullability holds one flag per argument telling whether a
// NULL argument makes the result NULL.
type Function struct {
	node
	Name                          string
	Args                          []Expression
	IsNullable                    bool
	ArgumentsPropagateNullability []bool
}

// NewFunction creates a function call. It panics when an argument is nil or
// when the propagation mask does not match the arguments.
func NewFunction(name string, args []Expression, nullable bool, propagate []bool,
	typ ScalarType, mapping *TypeMapping) *Function {
	mustChildren("Function", "argument", args)
	if len(propagate) != len(args) {
		panic("sqlexpr: Function propagation mask must have one entry per argument")
	}
	mask := make([]bool, len(propagate))
	copy(mask, propagate)
	return &Function{
		node:                          node{typ: typ, mapping: mapping},
		Name:                          name,
		Args:                          copyList(args),
		IsNullable:                    nullable,
		ArgumentsPropagateNullability: mask,
	}
}

// Update returns e when all arguments are unchanged, a copy otherwise.
func (e *Function) Update(args []Expression) *Function {
	if sameList(args, e.Args) {
		return e
	}
	return NewFunction(e.Name, args, e.IsNullable, e.ArgumentsPropagateNullability, e.typ, e.mapping)
}

func (e *Function) Accept(v Visitor, allowOptimizedExpansion bool) (Expression, bool) {
	return v.VisitFunction(e, allowOptimizedExpansion)
}

func (e *Function) String() string { return Print(e) }

// Like is "match LIKE pattern [ESCAPE escape]". EscapeChar may be nil.
type Like struct {
	node
	Match      Expression
	Pattern    Expression
	EscapeChar Expression
}

// NewLike creates a LIKE node. It panics if match or pattern is nil.
func NewLike(match, pattern, escapeChar Expression, mapping *TypeMapping) *Like {
	mustChild("Like", "match", match)
	mustChild("Like", "pattern", pattern)
	return &Like{node: node{typ: TypeBool, mapping: mapping}, Match: match, Pattern: pattern, EscapeChar: escapeChar}
}

// Update returns e when nothing changed, a copy otherwise.
func (e *Like) Update(match, pattern, escapeChar Expression) *Like {
	if match == e.Match && pattern == e.Pattern && escapeChar == e.EscapeChar {
		return e
	}
	return NewLike(match, pattern, escapeChar, e.mapping)
}

func (e *Like) Accept(v Visitor, allowOptimizedExpansion bool) (Expression, bool) {
	return v.VisitLike(e, allowOptimizedExpansion)
}

func (e *Like) String() string { return Print(e) }
