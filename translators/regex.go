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

package translators

import "github.com/rulego/sqlnull/sqlexpr"

// Host names of the regular expression match methods.
const (
	RegexType          = "Regex"
	RegexIsMatchMethod = "IsMatch"
	RegexOptionsType   = "RegexOptions"
)

// unsupportedRegexOptions have no PostgreSQL equivalent.
const unsupportedRegexOptions = sqlexpr.RegexRightToLeft | sqlexpr.RegexECMAScript

var (
	regexIsMatch            = NewSignature(RegexType, RegexIsMatchMethod, "string", "string").Key()
	regexIsMatchWithOptions = NewSignature(RegexType, RegexIsMatchMethod, "string", "string", RegexOptionsType).Key()
)

// RegexTranslator translates Regex.IsMatch(input, pattern[, options]) to a
// RegexMatch node. Options must be a constant; calls with other options, or
// with options PostgreSQL cannot express, are not translated.
type RegexTranslator struct{}

var _ MethodCallTranslator = RegexTranslator{}

func (RegexTranslator) Translate(sig Signature, args []sqlexpr.Expression) sqlexpr.Expression {
	key := sig.Key()
	if key != regexIsMatch && key != regexIsMatchWithOptions {
		return nil
	}
	if len(args) != len(sig.Parameters) {
		return nil
	}

	input, pattern := args[0], args[1]
	mapping := sqlexpr.InferTypeMapping(input, pattern)

	options := sqlexpr.RegexNone
	if key == regexIsMatchWithOptions {
		constant, ok := args[2].(*sqlexpr.Constant)
		if !ok {
			return nil
		}
		if options, ok = constant.Value.(sqlexpr.RegexOptions); !ok {
			return nil
		}
	}
	if options&unsupportedRegexOptions != 0 {
		return nil
	}

	return sqlexpr.NewRegexMatch(
		applyTypeMapping(input, mapping),
		applyTypeMapping(pattern, mapping),
		options,
		sqlexpr.BoolMapping)
}

// applyTypeMapping gives literals and parameters without a mapping the
// inferred one; other nodes keep their own.
func applyTypeMapping(e sqlexpr.Expression, mapping *sqlexpr.TypeMapping) sqlexpr.Expression {
	if mapping == nil || e.TypeMapping() != nil {
		return e
	}
	switch n := e.(type) {
	case *sqlexpr.Constant:
		return sqlexpr.NewConstant(n.Value, n.Type(), mapping)
	case *sqlexpr.Parameter:
		return sqlexpr.NewParameter(n.Name, n.Type(), mapping, n.Nullable)
	}
	return e
}
