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

import (
	"github.com/goccy/go-reflect"

	"github.com/rulego/sqlnull/sqlexpr"
)

// mayContainNulls reports whether an array operand may hold a NULL element.
// Only constant arrays are inspected; parameters and computed arrays are
// assumed to possibly contain NULL.
func mayContainNulls(array sqlexpr.Expression) bool {
	constant, ok := array.(*sqlexpr.Constant)
	if !ok || constant.Value == nil {
		return true
	}

	v := reflect.ValueNoEscapeOf(constant.Value)
	if k := v.Kind(); k != reflect.Slice && k != reflect.Array {
		return true
	}
	for i := 0; i < v.Len(); i++ {
		if isNullValue(v.Index(i)) {
			return true
		}
	}
	return false
}

// elementNullable reads the element flag of an array mapping. Without a
// mapping nothing is known about the elements.
func elementNullable(array sqlexpr.Expression) bool {
	mapping := array.TypeMapping()
	if !mapping.IsArray() {
		return true
	}
	return mapping.ElementNullable
}

// isNull reports whether a constant value is SQL NULL: nil, or a nil pointer,
// map, slice or interface.
func isNull(value any) bool {
	if value == nil {
		return true
	}
	return isNullValue(reflect.ValueNoEscapeOf(value))
}

func isNullValue(v reflect.Value) bool {
	for {
		switch v.Kind() {
		case reflect.Invalid:
			return true
		case reflect.Interface:
			if v.IsNil() {
				return true
			}
			v = v.Elem()
		case reflect.Ptr, reflect.Map, reflect.Slice:
			return v.IsNil()
		default:
			return false
		}
	}
}
