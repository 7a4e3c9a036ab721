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

import "strings"

// ScalarType is the inferred value type of an expression node.
type ScalarType int

const (
	TypeUnknown ScalarType = iota
	TypeBool
	TypeInt
	TypeFloat
	TypeText
	TypeArray
	TypeJSON
	TypeLTree
	TypeRecord
)

var scalarTypeNames = map[ScalarType]string{
	TypeUnknown: "unknown",
	TypeBool:    "bool",
	TypeInt:     "int",
	TypeFloat:   "float",
	TypeText:    "text",
	TypeArray:   "array",
	TypeJSON:    "jsonb",
	TypeLTree:   "ltree",
	TypeRecord:  "record",
}

// String returns the lower case name of the type.
func (t ScalarType) String() string {
	if name, ok := scalarTypeNames[t]; ok {
		return name
	}
	return "unknown"
}

// ParseScalarType resolves a type name produced by String. Names ending in "[]"
// resolve to TypeArray.
func ParseScalarType(name string) (ScalarType, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	if strings.HasSuffix(name, "[]") {
		return TypeArray, true
	}
	for t, n := range scalarTypeNames {
		if n == name {
			return t, true
		}
	}
	switch name {
	case "boolean":
		return TypeBool, true
	case "integer", "bigint", "smallint":
		return TypeInt, true
	case "double", "real", "numeric":
		return TypeFloat, true
	case "json":
		return TypeJSON, true
	}
	return TypeUnknown, false
}

// TypeMapping is the store-side type metadata attached to a node. It is opaque
// to the nullability pass except for ElementNullable on array mappings.
type TypeMapping struct {
	// StoreType is the database type name, e.g. "integer" or "text[]".
	StoreType string
	// Element is the mapping of array elements, nil for non-array mappings.
	Element *TypeMapping
	// ElementNullable reports whether array elements may be NULL.
	ElementNullable bool
}

// IsArray reports whether the mapping describes an array type.
func (m *TypeMapping) IsArray() bool {
	return m != nil && m.Element != nil
}

func (m *TypeMapping) String() string {
	if m == nil {
		return ""
	}
	return m.StoreType
}

// Common mappings.
var (
	BoolMapping  = &TypeMapping{StoreType: "boolean"}
	IntMapping   = &TypeMapping{StoreType: "integer"}
	FloatMapping = &TypeMapping{StoreType: "double precision"}
	TextMapping  = &TypeMapping{StoreType: "text"}
	JSONMapping  = &TypeMapping{StoreType: "jsonb"}
	LTreeMapping = &TypeMapping{StoreType: "ltree"}
)

// ArrayMapping returns the mapping of an array of element.
func ArrayMapping(element *TypeMapping, elementNullable bool) *TypeMapping {
	store := "unknown[]"
	if element != nil {
		store = element.StoreType + "[]"
	}
	return &TypeMapping{
		StoreType:       store,
		Element:         element,
		ElementNullable: elementNullable,
	}
}

// MappingFor returns the default mapping of a scalar type, nil when there is none.
func MappingFor(t ScalarType) *TypeMapping {
	switch t {
	case TypeBool:
		return BoolMapping
	case TypeInt:
		return IntMapping
	case TypeFloat:
		return FloatMapping
	case TypeText:
		return TextMapping
	case TypeJSON:
		return JSONMapping
	case TypeLTree:
		return LTreeMapping
	}
	return nil
}
