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

// Helpers for the node shapes passes create most often. All of them produce
// boolean nodes carrying BoolMapping unless stated otherwise.

// AndAlso returns "left AND right".
func AndAlso(left, right Expression) *Binary {
	return NewBinary(OpAndAlso, left, right, TypeBool, BoolMapping)
}

// OrElse returns "left OR right".
func OrElse(left, right Expression) *Binary {
	return NewBinary(OpOrElse, left, right, TypeBool, BoolMapping)
}

// Equal returns "left = right".
func Equal(left, right Expression) *Binary {
	return NewBinary(OpEqual, left, right, TypeBool, BoolMapping)
}

// Not returns "NOT operand".
func Not(operand Expression) *Unary {
	return NewUnary(OpNot, operand, TypeBool, BoolMapping)
}

// IsNull returns "operand IS NULL".
func IsNull(operand Expression) *Unary {
	return NewUnary(OpIsNull, operand, TypeBool, BoolMapping)
}

// IsNotNull returns "operand IS NOT NULL".
func IsNotNull(operand Expression) *Unary {
	return NewUnary(OpIsNotNull, operand, TypeBool, BoolMapping)
}

// Null returns a NULL literal typed like the given mapping.
func Null(typ ScalarType, mapping *TypeMapping) *Constant {
	return NewConstant(nil, typ, mapping)
}

// Const returns a literal whose mapping is the default one for typ.
func Const(value any, typ ScalarType) *Constant {
	return NewConstant(value, typ, MappingFor(typ))
}

// Col returns a column without table qualifier using the default mapping for typ.
func Col(name string, typ ScalarType, nullable bool) *Column {
	return NewColumn("", name, typ, MappingFor(typ), nullable)
}

// ArrayCol returns an array column of element type elem.
func ArrayCol(name string, elem ScalarType, nullable, elementNullable bool) *Column {
	return NewColumn("", name, TypeArray, ArrayMapping(MappingFor(elem), elementNullable), nullable)
}

// InferTypeMapping returns the first non-nil mapping among expressions.
func InferTypeMapping(expressions ...Expression) *TypeMapping {
	for _, e := range expressions {
		if e == nil {
			continue
		}
		if m := e.TypeMapping(); m != nil {
			return m
		}
	}
	return nil
}
