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
	"encoding/json"
	"strings"
	"unicode"

	"github.com/expr-lang/expr"
	"github.com/rulego/sqlnull/sqlexpr"
	"github.com/spf13/cast"
)

// helper is the signature of the functions an evaluation program calls.
type helper func(params ...any) (any, error)

// helpers are the three-valued operators trees are compiled to.
var helpers = map[string]helper{
	"sql_and":         sqlAnd,
	"sql_or":          sqlOr,
	"sql_not":         sqlNot,
	"sql_neg":         sqlNegate,
	"sql_is_null":     func(params ...any) (any, error) { return params[0] == nil, nil },
	"sql_is_not_null": func(params ...any) (any, error) { return params[0] != nil, nil },
	"sql_cmp":         sqlCompare,
	"sql_arith":       sqlArithmetic,
	"sql_concat":      sqlConcat,
	"sql_like":        sqlLike,
	"sql_regex":       sqlRegex,
	"sql_any":         sqlAny,
	"sql_all":         sqlAll,
	"sql_index":       sqlIndex,
	"sql_array":       sqlArray,
	"sql_row":         sqlArray,
	"sql_json":        sqlJSON,
	"sql_pg":          sqlPostgres,
	"sql_call":        sqlCall,
}

func functionOptions() []expr.Option {
	opts := make([]expr.Option, 0, len(helpers)+1)
	for name, fn := range helpers {
		opts = append(opts, expr.Function(name, fn))
	}
	return append(opts, expr.AllowUndefinedVariables())
}

func sqlAnd(params ...any) (any, error) {
	l, err := toTri(params[0])
	if err != nil {
		return nil, err
	}
	r, err := toTri(params[1])
	if err != nil {
		return nil, err
	}
	switch {
	case l == triFalse || r == triFalse:
		return false, nil
	case l == triNull || r == triNull:
		return nil, nil
	}
	return true, nil
}

func sqlOr(params ...any) (any, error) {
	l, err := toTri(params[0])
	if err != nil {
		return nil, err
	}
	r, err := toTri(params[1])
	if err != nil {
		return nil, err
	}
	switch {
	case l == triTrue || r == triTrue:
		return true, nil
	case l == triNull || r == triNull:
		return nil, nil
	}
	return false, nil
}

func sqlNot(params ...any) (any, error) {
	v, err := toTri(params[0])
	if err != nil {
		return nil, err
	}
	switch v {
	case triTrue:
		return false, nil
	case triFalse:
		return true, nil
	}
	return nil, nil
}

func sqlNegate(params ...any) (any, error) {
	switch v := params[0].(type) {
	case nil:
		return nil, nil
	case int64:
		return -v, nil
	case float64:
		return -v, nil
	}
	return nil, typeError("cannot negate %T", params[0])
}

func sqlCompare(params ...any) (any, error) {
	return compareWith(params[0].(string), params[1], params[2])
}

func sqlArithmetic(params ...any) (any, error) {
	return arithmetic(params[0].(string), params[1], params[2])
}

func sqlConcat(params ...any) (any, error) {
	a, b := params[0], params[1]
	if a == nil || b == nil {
		return nil, nil
	}
	if x, ok := a.([]any); ok {
		if y, ok := b.([]any); ok {
			return append(append(make([]any, 0, len(x)+len(y)), x...), y...), nil
		}
	}
	x, err := cast.ToStringE(a)
	if err != nil {
		return nil, typeError("cannot concatenate %T", a)
	}
	y, err := cast.ToStringE(b)
	if err != nil {
		return nil, typeError("cannot concatenate %T", b)
	}
	return x + y, nil
}

// sqlLike is sql_like(ci, match, pattern[, escape]).
func sqlLike(params ...any) (any, error) {
	ci := params[0].(bool)
	escape, hasEscape := rune(defaultEscape), true
	if len(params) > 3 {
		if params[3] == nil {
			return nil, nil
		}
		s, err := cast.ToStringE(params[3])
		if err != nil {
			return nil, typeError("escape must be text, got %T", params[3])
		}
		switch runes := []rune(s); len(runes) {
		case 0:
			hasEscape = false
		case 1:
			escape = runes[0]
		default:
			return nil, runtimeError(nil, "invalid escape string %q", s)
		}
	}
	if params[1] == nil || params[2] == nil {
		return nil, nil
	}
	return like(ci, params[1], params[2], escape, hasEscape)
}

// sqlRegex is sql_regex(match, pattern, options).
func sqlRegex(params ...any) (any, error) {
	if params[0] == nil || params[1] == nil {
		return nil, nil
	}
	opts, err := cast.ToIntE(params[2])
	if err != nil {
		return nil, typeError("regex options must be an integer, got %T", params[2])
	}
	return regexMatch(params[0], params[1], sqlexpr.RegexOptions(opts))
}

// quantified applies the operator of ANY/ALL to one element.
func quantified(op string, item, element any) (any, error) {
	switch op {
	case "LIKE", "ILIKE":
		if item == nil || element == nil {
			return nil, nil
		}
		return like(op == "ILIKE", item, element, defaultEscape, true)
	}
	return compareWith(op, item, element)
}

// sqlAny is sql_any(op, item, array): true if the operator holds for some
// element, NULL if it holds for none but some comparison was NULL.
func sqlAny(params ...any) (any, error) {
	op, item, array := params[0].(string), params[1], params[2]
	if array == nil {
		return nil, nil
	}
	list, err := toList(array)
	if err != nil {
		return nil, err
	}
	sawNull := false
	for _, el := range list {
		r, err := quantified(op, item, el)
		if err != nil {
			return nil, err
		}
		switch r {
		case true:
			return true, nil
		case nil:
			sawNull = true
		}
	}
	if sawNull {
		return nil, nil
	}
	return false, nil
}

// sqlAll is sql_all(op, item, array).
func sqlAll(params ...any) (any, error) {
	op, item, array := params[0].(string), params[1], params[2]
	if array == nil {
		return nil, nil
	}
	list, err := toList(array)
	if err != nil {
		return nil, err
	}
	sawNull := false
	for _, el := range list {
		r, err := quantified(op, item, el)
		if err != nil {
			return nil, err
		}
		switch r {
		case false:
			return false, nil
		case nil:
			sawNull = true
		}
	}
	if sawNull {
		return nil, nil
	}
	return true, nil
}

// sqlIndex is sql_index(array, index) with one-based indexes. Out of range
// subscripts yield NULL.
func sqlIndex(params ...any) (any, error) {
	if params[0] == nil || params[1] == nil {
		return nil, nil
	}
	list, err := toList(params[0])
	if err != nil {
		return nil, err
	}
	i, err := cast.ToIntE(params[1])
	if err != nil {
		return nil, typeError("array subscript must be an integer, got %T", params[1])
	}
	if i < 1 || i > len(list) {
		return nil, nil
	}
	return list[i-1], nil
}

func sqlArray(params ...any) (any, error) {
	return append(make([]any, 0, len(params)), params...), nil
}

// decodeJSON accepts a decoded document or its text.
func decodeJSON(v any) (any, error) {
	s, ok := v.(string)
	if !ok {
		return v, nil
	}
	var doc any
	if err := json.Unmarshal([]byte(s), &doc); err != nil {
		return nil, runtimeError(err, "invalid json document")
	}
	return normalize(doc), nil
}

// sqlJSON is sql_json(returnsText, root, path...). Missing keys, out of range
// indexes and steps into scalars yield NULL.
func sqlJSON(params ...any) (any, error) {
	returnsText := params[0].(bool)
	if params[1] == nil {
		return nil, nil
	}
	cur, err := decodeJSON(params[1])
	if err != nil {
		return nil, err
	}
	for _, step := range params[2:] {
		if cur == nil || step == nil {
			return nil, nil
		}
		switch node := cur.(type) {
		case map[string]any:
			key, err := cast.ToStringE(step)
			if err != nil {
				return nil, typeError("json key must be text, got %T", step)
			}
			cur = node[key]
		case []any:
			i, err := cast.ToIntE(step)
			if err != nil {
				return nil, typeError("json index must be an integer, got %T", step)
			}
			if i < 0 {
				i += len(node)
			}
			if i < 0 || i >= len(node) {
				return nil, nil
			}
			cur = node[i]
		default:
			return nil, nil
		}
	}
	if !returnsText || cur == nil {
		return cur, nil
	}
	if s, ok := cur.(string); ok {
		return s, nil
	}
	b, err := json.Marshal(cur)
	if err != nil {
		return nil, runtimeError(err, "cannot render json value")
	}
	return string(b), nil
}

// supportedPostgresOperators lists the PostgresBinary operators sql_pg knows.
var supportedPostgresOperators = map[sqlexpr.PostgresOperator]bool{
	sqlexpr.PgContains:      true,
	sqlexpr.PgContainedBy:   true,
	sqlexpr.PgOverlaps:      true,
	sqlexpr.PgJSONExists:    true,
	sqlexpr.PgJSONExistsAny: true,
	sqlexpr.PgJSONExistsAll: true,
}

// sqlPostgres is sql_pg(name, left, right).
func sqlPostgres(params ...any) (any, error) {
	name, l, r := params[0].(string), params[1], params[2]
	if l == nil || r == nil {
		return nil, nil
	}
	op, ok := sqlexpr.ParsePostgresOperator(name)
	if !ok || !supportedPostgresOperators[op] {
		return nil, unsupported("", "operator %s", name)
	}
	switch op {
	case sqlexpr.PgContains, sqlexpr.PgContainedBy, sqlexpr.PgOverlaps:
		left, err := toList(l)
		if err != nil {
			return nil, err
		}
		right, err := toList(r)
		if err != nil {
			return nil, err
		}
		switch op {
		case sqlexpr.PgContains:
			return containsAll(left, right), nil
		case sqlexpr.PgContainedBy:
			return containsAll(right, left), nil
		}
		for _, y := range right {
			if containsElement(left, y) {
				return true, nil
			}
		}
		return false, nil
	case sqlexpr.PgJSONExists, sqlexpr.PgJSONExistsAny, sqlexpr.PgJSONExistsAll:
		doc, err := decodeJSON(l)
		if err != nil {
			return nil, err
		}
		keys := []any{r}
		if op != sqlexpr.PgJSONExists {
			if keys, err = toList(r); err != nil {
				return nil, err
			}
		}
		for _, key := range keys {
			found := jsonHasKey(doc, key)
			if found && op == sqlexpr.PgJSONExistsAny {
				return true, nil
			}
			if !found && op != sqlexpr.PgJSONExistsAny {
				return false, nil
			}
		}
		return op != sqlexpr.PgJSONExistsAny, nil
	}
	return nil, unsupported("", "operator %s", name)
}

// containsElement compares with "=", so NULL elements never match.
func containsElement(list []any, v any) bool {
	if v == nil {
		return false
	}
	for _, el := range list {
		if el == nil {
			continue
		}
		if c, err := compare(el, v); err == nil && c == 0 {
			return true
		}
	}
	return false
}

func containsAll(list, values []any) bool {
	for _, v := range values {
		if !containsElement(list, v) {
			return false
		}
	}
	return true
}

func jsonHasKey(doc, key any) bool {
	k, ok := key.(string)
	if !ok {
		return false
	}
	switch node := doc.(type) {
	case map[string]any:
		_, found := node[k]
		return found
	case []any:
		for _, el := range node {
			if s, ok := el.(string); ok && s == k {
				return true
			}
		}
	}
	return false
}

// sqlCall is sql_call(name, args...).
func sqlCall(params ...any) (any, error) {
	name := params[0].(string)
	fn, ok := sqlFunctions[name]
	if !ok {
		return nil, unsupported("", "function %s", name)
	}
	return fn(params[1:]...)
}

// sqlFunctions are the store functions the evaluator implements.
var sqlFunctions = map[string]helper{
	"array_position":         arrayPosition,
	"coalesce":               coalesce,
	"lower":                  strict(func(args ...any) (any, error) { return mapText(args[0], strings.ToLower) }),
	"upper":                  strict(func(args ...any) (any, error) { return mapText(args[0], strings.ToUpper) }),
	"length":                 strict(textLength),
	"abs":                    strict(absolute),
	"soundex":                strict(fuzzySoundex),
	"difference":             strict(fuzzyDifference),
	"levenshtein":            strict(fuzzyLevenshtein),
	"levenshtein_less_equal": strict(fuzzyLevenshteinLessEqual),
}

// strict makes fn return NULL when any argument is NULL.
func strict(fn helper) helper {
	return func(args ...any) (any, error) {
		for _, a := range args {
			if a == nil {
				return nil, nil
			}
		}
		return fn(args...)
	}
}

// arrayPosition finds the one-based position of the first element not
// distinct from the value, so it can find NULL.
func arrayPosition(args ...any) (any, error) {
	if len(args) != 2 {
		return nil, typeError("array_position expects 2 arguments, got %d", len(args))
	}
	if args[0] == nil {
		return nil, nil
	}
	list, err := toList(args[0])
	if err != nil {
		return nil, err
	}
	for i, el := range list {
		if notDistinct(el, args[1]) {
			return int64(i + 1), nil
		}
	}
	return nil, nil
}

func coalesce(args ...any) (any, error) {
	for _, a := range args {
		if a != nil {
			return a, nil
		}
	}
	return nil, nil
}

func mapText(v any, fn func(string) string) (any, error) {
	s, err := cast.ToStringE(v)
	if err != nil {
		return nil, typeError("expected text, got %T", v)
	}
	return fn(s), nil
}

func textLength(args ...any) (any, error) {
	if list, ok := args[0].([]any); ok {
		return int64(len(list)), nil
	}
	s, err := cast.ToStringE(args[0])
	if err != nil {
		return nil, typeError("expected text, got %T", args[0])
	}
	return int64(len([]rune(s))), nil
}

func absolute(args ...any) (any, error) {
	switch v := args[0].(type) {
	case int64:
		if v < 0 {
			return -v, nil
		}
		return v, nil
	case float64:
		if v < 0 {
			return -v, nil
		}
		return v, nil
	}
	return nil, typeError("abs of %T", args[0])
}

func textArgs(args []any) ([]string, error) {
	out := make([]string, len(args))
	for i, a := range args {
		s, err := cast.ToStringE(a)
		if err != nil {
			return nil, typeError("expected text, got %T", a)
		}
		out[i] = s
	}
	return out, nil
}

func intArgs(args []any) ([]int, error) {
	out := make([]int, len(args))
	for i, a := range args {
		n, err := cast.ToIntE(a)
		if err != nil {
			return nil, typeError("expected integer, got %T", a)
		}
		out[i] = n
	}
	return out, nil
}

const soundexLength = 4

// soundexCodes holds the codes of 'A' to 'Z'.
const soundexCodes = "01230120022455012623010202"

func soundexCode(r rune) rune {
	u := unicode.ToUpper(r)
	if u >= 'A' && u <= 'Z' {
		return rune(soundexCodes[u-'A'])
	}
	return u
}

func isASCIILetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

// soundex follows the fuzzystrmatch implementation: the first letter is kept,
// following letters whose code differs from the previous input character are
// coded, and the result is padded with zeros.
func soundex(s string) string {
	in := []rune(s)
	for len(in) > 0 && !isASCIILetter(in[0]) {
		in = in[1:]
	}
	if len(in) == 0 {
		return ""
	}
	out := []rune{unicode.ToUpper(in[0])}
	for i := 1; i < len(in) && len(out) < soundexLength; i++ {
		if isASCIILetter(in[i]) && soundexCode(in[i]) != soundexCode(in[i-1]) {
			if c := soundexCode(in[i]); c != '0' {
				out = append(out, c)
			}
		}
	}
	for len(out) < soundexLength {
		out = append(out, '0')
	}
	return string(out)
}

func fuzzySoundex(args ...any) (any, error) {
	s, err := textArgs(args)
	if err != nil {
		return nil, err
	}
	if len(s) != 1 {
		return nil, typeError("soundex expects 1 argument, got %d", len(s))
	}
	return soundex(s[0]), nil
}

// fuzzyDifference counts the matching positions of both soundex codes.
func fuzzyDifference(args ...any) (any, error) {
	s, err := textArgs(args)
	if err != nil {
		return nil, err
	}
	if len(s) != 2 {
		return nil, typeError("difference expects 2 arguments, got %d", len(s))
	}
	a, b := []rune(soundex(s[0])), []rune(soundex(s[1]))
	var n int64
	for i := 0; i < soundexLength; i++ {
		var x, y rune
		if i < len(a) {
			x = a[i]
		}
		if i < len(b) {
			y = b[i]
		}
		if x == y {
			n++
		}
	}
	return n, nil
}

// levenshtein is the edit distance from source to target with the given
// insertion, deletion and substitution costs.
func levenshtein(source, target string, ins, del, sub int) int {
	s, t := []rune(source), []rune(target)
	prev := make([]int, len(t)+1)
	cur := make([]int, len(t)+1)
	for j := range prev {
		prev[j] = j * ins
	}
	for i := 1; i <= len(s); i++ {
		cur[0] = i * del
		for j := 1; j <= len(t); j++ {
			cost := prev[j-1]
			if s[i-1] != t[j-1] {
				cost += sub
			}
			cur[j] = min(cost, prev[j]+del, cur[j-1]+ins)
		}
		prev, cur = cur, prev
	}
	return prev[len(t)]
}

// fuzzyLevenshtein is levenshtein(s, t) or levenshtein(s, t, ins, del, sub).
func fuzzyLevenshtein(args ...any) (any, error) {
	if len(args) != 2 && len(args) != 5 {
		return nil, typeError("levenshtein expects 2 or 5 arguments, got %d", len(args))
	}
	s, err := textArgs(args[:2])
	if err != nil {
		return nil, err
	}
	costs := []int{1, 1, 1}
	if len(args) == 5 {
		if costs, err = intArgs(args[2:]); err != nil {
			return nil, err
		}
	}
	return int64(levenshtein(s[0], s[1], costs[0], costs[1], costs[2])), nil
}

// fuzzyLevenshteinLessEqual returns the exact distance; any value greater than
// the maximum is allowed once the maximum is exceeded.
func fuzzyLevenshteinLessEqual(args ...any) (any, error) {
	switch len(args) {
	case 3:
		return fuzzyLevenshtein(args[:2]...)
	case 6:
		return fuzzyLevenshtein(args[:5]...)
	}
	return nil, typeError("levenshtein_less_equal expects 3 or 6 arguments, got %d", len(args))
}
