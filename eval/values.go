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

package eval

import (
	"math"
	"strings"

	"github.com/goccy/go-reflect"
	"github.com/spf13/cast"
)

// normalize converts a bound Go value into the representation the helper
// functions work on: nil for SQL NULL, int64, float64, string, bool, []any for
// arrays and map[string]any for JSON objects. Typed nil pointers, slices and
// maps are SQL NULL.
func normalize(value any) any {
	switch v := value.(type) {
	case nil:
		return nil
	case int64, float64, string, bool:
		return v
	case int:
		return int64(v)
	case int32:
		return int64(v)
	case float32:
		return float64(v)
	case []any:
		if v == nil {
			return nil
		}
		out := make([]any, len(v))
		for i, el := range v {
			out[i] = normalize(el)
		}
		return out
	case map[string]any:
		if v == nil {
			return nil
		}
		out := make(map[string]any, len(v))
		for k, el := range v {
			out[k] = normalize(el)
		}
		return out
	}

	rv := reflect.ValueNoEscapeOf(value)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Interface:
		if rv.IsNil() {
			return nil
		}
		return normalize(rv.Elem().Interface())
	case reflect.Map:
		if rv.IsNil() {
			return nil
		}
		return value
	case reflect.Slice:
		if rv.IsNil() {
			return nil
		}
		fallthrough
	case reflect.Array:
		out := make([]any, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			out[i] = normalize(rv.Index(i).Interface())
		}
		return out
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int()
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return int64(rv.Uint())
	case reflect.Float32, reflect.Float64:
		return rv.Float()
	case reflect.String:
		return rv.String()
	case reflect.Bool:
		return rv.Bool()
	}
	return value
}

// tri is a three-valued boolean.
type tri int8

const (
	triNull tri = iota
	triFalse
	triTrue
)

func toTri(v any) (tri, error) {
	if v == nil {
		return triNull, nil
	}
	b, err := cast.ToBoolE(v)
	if err != nil {
		return triNull, typeError("expected boolean, got %T", v)
	}
	return triOf(b), nil
}

func triOf(b bool) tri {
	if b {
		return triTrue
	}
	return triFalse
}

func (t tri) value() any {
	switch t {
	case triTrue:
		return true
	case triFalse:
		return false
	}
	return nil
}

func isNumber(v any) bool {
	switch v.(type) {
	case int64, float64:
		return true
	}
	return false
}

// compare orders two non-NULL values.
func compare(a, b any) (int, error) {
	switch x := a.(type) {
	case string:
		if y, ok := b.(string); ok {
			return strings.Compare(x, y), nil
		}
	case bool:
		if y, ok := b.(bool); ok {
			return compareBool(x, y), nil
		}
	case []any:
		if y, ok := b.([]any); ok {
			return compareArrays(x, y)
		}
		return 0, typeError("cannot compare array with %T", b)
	}

	// 数字之间可以比较，数字与文本不做隐式转换
	if isNumber(a) && isNumber(b) {
		if x, ok := a.(int64); ok {
			if y, ok := b.(int64); ok {
				return compareOrdered(x, y), nil
			}
		}
		return compareOrdered(toFloat(a), toFloat(b)), nil
	}
	return 0, typeError("cannot compare %T with %T", a, b)
}

func toFloat(v any) float64 {
	if i, ok := v.(int64); ok {
		return float64(i)
	}
	return v.(float64)
}

func compareOrdered[T int64 | float64](x, y T) int {
	switch {
	case x < y:
		return -1
	case x > y:
		return 1
	}
	return 0
}

func compareBool(x, y bool) int {
	switch {
	case x == y:
		return 0
	case !x:
		return -1
	}
	return 1
}

// compareArrays orders arrays element by element. NULL elements sort after
// every non-NULL value and equal each other, as PostgreSQL does for arrays.
func compareArrays(x, y []any) (int, error) {
	for i := 0; i < len(x) && i < len(y); i++ {
		a, b := x[i], y[i]
		switch {
		case a == nil && b == nil:
			continue
		case a == nil:
			return 1, nil
		case b == nil:
			return -1, nil
		}
		c, err := compare(a, b)
		if err != nil {
			return 0, err
		}
		if c != 0 {
			return c, nil
		}
	}
	return compareOrdered(int64(len(x)), int64(len(y))), nil
}

// compareWith applies a comparison operator symbol with SQL NULL semantics.
func compareWith(op string, a, b any) (any, error) {
	if a == nil || b == nil {
		return nil, nil
	}
	c, err := compare(a, b)
	if err != nil {
		return nil, err
	}
	switch op {
	case "=":
		return c == 0, nil
	case "<>", "!=":
		return c != 0, nil
	case "<":
		return c < 0, nil
	case "<=":
		return c <= 0, nil
	case ">":
		return c > 0, nil
	case ">=":
		return c >= 0, nil
	}
	return nil, unsupported("", "comparison operator %q", op)
}

// notDistinct is "a IS NOT DISTINCT FROM b".
func notDistinct(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	c, err := compare(a, b)
	return err == nil && c == 0
}

func arithmetic(op string, a, b any) (any, error) {
	if a == nil || b == nil {
		return nil, nil
	}
	if x, ok := a.(int64); ok {
		if y, ok := b.(int64); ok {
			switch op {
			case "+":
				return x + y, nil
			case "-":
				return x - y, nil
			case "*":
				return x * y, nil
			case "/", "%":
				if y == 0 {
					return nil, runtimeError(ErrDivisionByZero, "%v %s %v", x, op, y)
				}
				if op == "/" {
					return x / y, nil
				}
				return x % y, nil
			}
			return nil, unsupported("", "arithmetic operator %q", op)
		}
	}

	x, err := cast.ToFloat64E(a)
	if err != nil {
		return nil, typeError("arithmetic on %T", a)
	}
	y, err := cast.ToFloat64E(b)
	if err != nil {
		return nil, typeError("arithmetic on %T", b)
	}
	switch op {
	case "+":
		return x + y, nil
	case "-":
		return x - y, nil
	case "*":
		return x * y, nil
	case "/", "%":
		if y == 0 {
			return nil, runtimeError(ErrDivisionByZero, "%v %s %v", x, op, y)
		}
		if op == "/" {
			return x / y, nil
		}
		return math.Mod(x, y), nil
	}
	return nil, unsupported("", "arithmetic operator %q", op)
}

func toList(v any) ([]any, error) {
	list, ok := v.([]any)
	if !ok {
		return nil, typeError("expected array, got %T", v)
	}
	return list, nil
}
