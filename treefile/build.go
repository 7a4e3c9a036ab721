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

package treefile

import (
	"fmt"
	"strings"

	"github.com/rulego/sqlnull/sqlexpr"
)

// NodeSpec is the description of one node. Kind selects the node and the
// fields that apply to it:
//
//	column     name, table, type, nullable, element_nullable
//	parameter  name, type, nullable, element_nullable
//	constant   value, type, element_nullable
//	not, negate, is_null, is_not_null   operand
//	binary     op, left, right, type
//	function   name, args, nullable, propagate, type
//	like, ilike                         match, pattern, escape
//	any, all   op, item, array
//	index      array, index, type
//	postgres   op, left, right, type
//	regex      match, pattern, options
//	array      elements, element_nullable
//	json       expression, path, returns_text
//	row        elements
//	unknown    operator, left, right, type
//
// Types are scalar type names; a name ending in "[]" is an array of that
// element type. Inside a flow mapping ({...}) the array type name must be
// quoted, e.g. type: "int[]", since an unquoted [ starts a flow sequence.
type NodeSpec struct {
	Kind string `yaml:"kind"`

	Name            string `yaml:"name"`
	Table           string `yaml:"table"`
	Type            string `yaml:"type"`
	Nullable        bool   `yaml:"nullable"`
	ElementNullable bool   `yaml:"element_nullable"`
	Value           any    `yaml:"value"`

	Op       string `yaml:"op"`
	Operator string `yaml:"operator"`

	Operand    *NodeSpec `yaml:"operand"`
	Left       *NodeSpec `yaml:"left"`
	Right      *NodeSpec `yaml:"right"`
	Item       *NodeSpec `yaml:"item"`
	Array      *NodeSpec `yaml:"array"`
	Index      *NodeSpec `yaml:"index"`
	Match      *NodeSpec `yaml:"match"`
	Pattern    *NodeSpec `yaml:"pattern"`
	Escape     *NodeSpec `yaml:"escape"`
	Expression *NodeSpec `yaml:"expression"`

	Args      []*NodeSpec `yaml:"args"`
	Elements  []*NodeSpec `yaml:"elements"`
	Path      []*NodeSpec `yaml:"path"`
	Propagate []bool      `yaml:"propagate"`
	Options   []string    `yaml:"options"`

	ReturnsText bool `yaml:"returns_text"`
}

// Build converts a node description into an expression tree.
func Build(spec *NodeSpec) (sqlexpr.Expression, error) {
	return (&builder{}).build("expression", spec)
}

type builder struct{}

func (b *builder) build(path string, spec *NodeSpec) (sqlexpr.Expression, error) {
	if spec == nil {
		return nil, fmt.Errorf("%s: node is required", path)
	}
	kind := strings.ToLower(strings.TrimSpace(spec.Kind))
	switch kind {
	case "column":
		if spec.Name == "" {
			return nil, fmt.Errorf("%s: column name is required", path)
		}
		typ, mapping, err := resolveType(path, spec.Type, spec.ElementNullable)
		if err != nil {
			return nil, err
		}
		return sqlexpr.NewColumn(spec.Table, spec.Name, typ, mapping, spec.Nullable), nil
	case "parameter":
		if spec.Name == "" {
			return nil, fmt.Errorf("%s: parameter name is required", path)
		}
		typ, mapping, err := resolveType(path, spec.Type, spec.ElementNullable)
		if err != nil {
			return nil, err
		}
		return sqlexpr.NewParameter(spec.Name, typ, mapping, spec.Nullable), nil
	case "constant":
		return b.constant(path, spec)
	case "not", "negate", "is_null", "is_not_null":
		operand, err := b.build(path+".operand", spec.Operand)
		if err != nil {
			return nil, err
		}
		switch kind {
		case "not":
			return sqlexpr.Not(operand), nil
		case "negate":
			return sqlexpr.NewUnary(sqlexpr.OpNegate, operand, operand.Type(), operand.TypeMapping()), nil
		case "is_null":
			return sqlexpr.IsNull(operand), nil
		}
		return sqlexpr.IsNotNull(operand), nil
	case "binary":
		return b.binary(path, spec)
	case "function":
		return b.function(path, spec)
	case "like", "ilike":
		match, pattern, err := b.pair(path, "match", spec.Match, "pattern", spec.Pattern)
		if err != nil {
			return nil, err
		}
		var escape sqlexpr.Expression
		if spec.Escape != nil {
			if escape, err = b.build(path+".escape", spec.Escape); err != nil {
				return nil, err
			}
		}
		if kind == "ilike" {
			return sqlexpr.NewILike(match, pattern, escape, sqlexpr.BoolMapping), nil
		}
		return sqlexpr.NewLike(match, pattern, escape, sqlexpr.BoolMapping), nil
	case "any", "all":
		op := sqlexpr.QuantifiedEqual
		if spec.Op != "" {
			var ok bool
			if op, ok = sqlexpr.ParseQuantifiedOperator(spec.Op); !ok {
				return nil, fmt.Errorf("%s: unknown quantified operator %q", path, spec.Op)
			}
		}
		item, array, err := b.pair(path, "item", spec.Item, "array", spec.Array)
		if err != nil {
			return nil, err
		}
		if kind == "all" {
			return sqlexpr.NewAll(item, array, op, sqlexpr.BoolMapping), nil
		}
		return sqlexpr.NewAny(item, array, op, sqlexpr.BoolMapping), nil
	case "index":
		array, index, err := b.pair(path, "array", spec.Array, "index", spec.Index)
		if err != nil {
			return nil, err
		}
		typ := sqlexpr.TypeUnknown
		if m := array.TypeMapping(); m.IsArray() {
			typ = typeOfMapping(m.Element)
		}
		if spec.Type != "" {
			if typ, _, err = resolveType(path, spec.Type, false); err != nil {
				return nil, err
			}
		}
		return sqlexpr.NewArrayIndex(array, index, typ), nil
	case "postgres":
		op, ok := sqlexpr.ParsePostgresOperator(spec.Op)
		if !ok {
			return nil, fmt.Errorf("%s: unknown postgres operator %q", path, spec.Op)
		}
		left, right, err := b.pair(path, "left", spec.Left, "right", spec.Right)
		if err != nil {
			return nil, err
		}
		typ, mapping, err := resolveTypeOr(path, spec.Type, sqlexpr.TypeBool)
		if err != nil {
			return nil, err
		}
		return sqlexpr.NewPostgresBinary(op, left, right, typ, mapping), nil
	case "regex":
		match, pattern, err := b.pair(path, "match", spec.Match, "pattern", spec.Pattern)
		if err != nil {
			return nil, err
		}
		options, ok := sqlexpr.ParseRegexOptions(spec.Options...)
		if !ok {
			return nil, fmt.Errorf("%s: unknown regex options %v", path, spec.Options)
		}
		return sqlexpr.NewRegexMatch(match, pattern, options, sqlexpr.BoolMapping), nil
	case "array":
		elements, err := b.list(path+".elements", spec.Elements)
		if err != nil {
			return nil, err
		}
		return sqlexpr.NewNewArray(elements, sqlexpr.ArrayMapping(sqlexpr.InferTypeMapping(elements...), spec.ElementNullable)), nil
	case "json":
		root, err := b.build(path+".expression", spec.Expression)
		if err != nil {
			return nil, err
		}
		steps, err := b.list(path+".path", spec.Path)
		if err != nil {
			return nil, err
		}
		if spec.ReturnsText {
			return sqlexpr.NewJSONTraversal(root, steps, true, sqlexpr.TypeText, sqlexpr.TextMapping), nil
		}
		return sqlexpr.NewJSONTraversal(root, steps, false, sqlexpr.TypeJSON, sqlexpr.JSONMapping), nil
	case "row":
		values, err := b.list(path+".elements", spec.Elements)
		if err != nil {
			return nil, err
		}
		return sqlexpr.NewRowValue(values), nil
	case "unknown":
		if spec.Operator == "" {
			return nil, fmt.Errorf("%s: operator is required", path)
		}
		left, right, err := b.pair(path, "left", spec.Left, "right", spec.Right)
		if err != nil {
			return nil, err
		}
		typ, mapping, err := resolveTypeOr(path, spec.Type, sqlexpr.TypeUnknown)
		if err != nil {
			return nil, err
		}
		return sqlexpr.NewUnknownBinary(left, spec.Operator, right, typ, mapping), nil
	case "":
		return nil, fmt.Errorf("%s: kind is required", path)
	}
	return nil, fmt.Errorf("%s: unknown kind %q", path, spec.Kind)
}

func (b *builder) pair(path, firstName string, first *NodeSpec, secondName string, second *NodeSpec) (sqlexpr.Expression, sqlexpr.Expression, error) {
	l, err := b.build(path+"."+firstName, first)
	if err != nil {
		return nil, nil, err
	}
	r, err := b.build(path+"."+secondName, second)
	if err != nil {
		return nil, nil, err
	}
	return l, r, nil
}

func (b *builder) list(path string, specs []*NodeSpec) ([]sqlexpr.Expression, error) {
	out := make([]sqlexpr.Expression, len(specs))
	for i, s := range specs {
		e, err := b.build(fmt.Sprintf("%s[%d]", path, i), s)
		if err != nil {
			return nil, err
		}
		out[i] = e
	}
	return out, nil
}

func (b *builder) binary(path string, spec *NodeSpec) (sqlexpr.Expression, error) {
	op, ok := sqlexpr.ParseBinaryOperator(spec.Op)
	if !ok {
		return nil, fmt.Errorf("%s: unknown binary operator %q", path, spec.Op)
	}
	left, right, err := b.pair(path, "left", spec.Left, "right", spec.Right)
	if err != nil {
		return nil, err
	}

	var typ sqlexpr.ScalarType
	var mapping *sqlexpr.TypeMapping
	switch {
	case spec.Type != "":
		if typ, mapping, err = resolveType(path, spec.Type, false); err != nil {
			return nil, err
		}
	case op.IsComparison() || op.IsLogical():
		typ, mapping = sqlexpr.TypeBool, sqlexpr.BoolMapping
	case op == sqlexpr.OpConcat:
		typ, mapping = sqlexpr.TypeText, sqlexpr.TextMapping
	default:
		typ, mapping = left.Type(), sqlexpr.InferTypeMapping(left, right)
	}
	return sqlexpr.NewBinary(op, left, right, typ, mapping), nil
}

func (b *builder) function(path string, spec *NodeSpec) (sqlexpr.Expression, error) {
	if spec.Name == "" {
		return nil, fmt.Errorf("%s: function name is required", path)
	}
	args, err := b.list(path+".args", spec.Args)
	if err != nil {
		return nil, err
	}
	propagate := spec.Propagate
	if propagate == nil {
		propagate = make([]bool, len(args))
		for i := range propagate {
			propagate[i] = true
		}
	}
	if len(propagate) != len(args) {
		return nil, fmt.Errorf("%s: propagate has %d entries for %d arguments", path, len(propagate), len(args))
	}
	typ, mapping, err := resolveTypeOr(path, spec.Type, sqlexpr.TypeUnknown)
	if err != nil {
		return nil, err
	}
	return sqlexpr.NewFunction(spec.Name, args, spec.Nullable, propagate, typ, mapping), nil
}

func (b *builder) constant(path string, spec *NodeSpec) (sqlexpr.Expression, error) {
	if spec.Type != "" {
		typ, mapping, err := resolveType(path, spec.Type, spec.ElementNullable)
		if err != nil {
			return nil, err
		}
		return sqlexpr.NewConstant(spec.Value, typ, mapping), nil
	}
	typ := typeOfValue(spec.Value)
	if typ == sqlexpr.TypeArray {
		var elem sqlexpr.ScalarType
		hasNull := false
		for _, v := range spec.Value.([]any) {
			if v == nil {
				hasNull = true
			} else if elem == sqlexpr.TypeUnknown {
				elem = typeOfValue(v)
			}
		}
		return sqlexpr.NewConstant(spec.Value, typ, sqlexpr.ArrayMapping(sqlexpr.MappingFor(elem), hasNull || spec.ElementNullable)), nil
	}
	return sqlexpr.NewConstant(spec.Value, typ, sqlexpr.MappingFor(typ)), nil
}

// resolveType parses a type name into a scalar type and its default mapping.
func resolveType(path, name string, elementNullable bool) (sqlexpr.ScalarType, *sqlexpr.TypeMapping, error) {
	if name == "" {
		return sqlexpr.TypeUnknown, nil, nil
	}
	typ, ok := sqlexpr.ParseScalarType(name)
	if !ok {
		return 0, nil, fmt.Errorf("%s: unknown type %q", path, name)
	}
	if typ != sqlexpr.TypeArray {
		return typ, sqlexpr.MappingFor(typ), nil
	}
	elemName := strings.TrimSuffix(strings.TrimSpace(name), "[]")
	elem, ok := sqlexpr.ParseScalarType(elemName)
	if !ok || elem == sqlexpr.TypeArray {
		return 0, nil, fmt.Errorf("%s: unknown array element type %q", path, elemName)
	}
	return sqlexpr.TypeArray, sqlexpr.ArrayMapping(sqlexpr.MappingFor(elem), elementNullable), nil
}

func resolveTypeOr(path, name string, fallback sqlexpr.ScalarType) (sqlexpr.ScalarType, *sqlexpr.TypeMapping, error) {
	if name == "" {
		return fallback, sqlexpr.MappingFor(fallback), nil
	}
	return resolveType(path, name, false)
}

func typeOfValue(v any) sqlexpr.ScalarType {
	switch v.(type) {
	case bool:
		return sqlexpr.TypeBool
	case int, int64:
		return sqlexpr.TypeInt
	case float64:
		return sqlexpr.TypeFloat
	case string:
		return sqlexpr.TypeText
	case []any:
		return sqlexpr.TypeArray
	case map[string]any:
		return sqlexpr.TypeJSON
	}
	return sqlexpr.TypeUnknown
}

func typeOfMapping(m *sqlexpr.TypeMapping) sqlexpr.ScalarType {
	for _, t := range []sqlexpr.ScalarType{sqlexpr.TypeBool, sqlexpr.TypeInt, sqlexpr.TypeFloat, sqlexpr.TypeText, sqlexpr.TypeJSON, sqlexpr.TypeLTree} {
		if sqlexpr.MappingFor(t) == m {
			return t
		}
	}
	return sqlexpr.TypeUnknown
}
