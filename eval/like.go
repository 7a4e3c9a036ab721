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
	"regexp"
	"strings"
	"sync"
	"unicode"

	"github.com/rulego/sqlnull/sqlexpr"
	"github.com/spf13/cast"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// defaultEscape is the LIKE escape character when no ESCAPE clause is given.
const defaultEscape = '\\'

// like evaluates "match LIKE pattern" (ILIKE when ci) for non-NULL operands.
func like(ci bool, match, pattern any, escape rune, hasEscape bool) (any, error) {
	text, err := cast.ToStringE(match)
	if err != nil {
		return nil, typeError("LIKE operand must be text, got %T", match)
	}
	pat, err := cast.ToStringE(pattern)
	if err != nil {
		return nil, typeError("LIKE pattern must be text, got %T", pattern)
	}
	if ci {
		// Caser 有状态，不能并发共享
		text = cases.Lower(language.Und).String(text)
		pat = cases.Lower(language.Und).String(pat)
		escape = unicode.ToLower(escape)
	}
	p := []rune(pat)
	if hasEscape && len(p) > 0 && trailingEscape(p, escape) {
		return nil, runtimeError(nil, "LIKE pattern must not end with escape character")
	}
	return likeMatch([]rune(text), p, 0, 0, escape, hasEscape), nil
}

// trailingEscape reports whether the pattern ends with an unpaired escape.
func trailingEscape(p []rune, escape rune) bool {
	for i := 0; i < len(p); i++ {
		if p[i] == escape {
			if i == len(p)-1 {
				return true
			}
			i++
		}
	}
	return false
}

// likeMatch 递归实现LIKE匹配算法
func likeMatch(text, pattern []rune, textIndex, patternIndex int, escape rune, hasEscape bool) bool {
	// 如果模式已经匹配完成
	if patternIndex >= len(pattern) {
		return textIndex >= len(text)
	}

	patternChar := pattern[patternIndex]

	// 转义字符之后的字符按字面匹配
	if hasEscape && patternChar == escape {
		if textIndex < len(text) && text[textIndex] == pattern[patternIndex+1] {
			return likeMatch(text, pattern, textIndex+1, patternIndex+2, escape, hasEscape)
		}
		return false
	}

	switch patternChar {
	case '%':
		// %可以匹配0个或多个字符
		for i := textIndex; i <= len(text); i++ {
			if likeMatch(text, pattern, i, patternIndex+1, escape, hasEscape) {
				return true
			}
		}
		return false
	case '_':
		if textIndex >= len(text) {
			return false
		}
		return likeMatch(text, pattern, textIndex+1, patternIndex+1, escape, hasEscape)
	default:
		if textIndex < len(text) && text[textIndex] == patternChar {
			return likeMatch(text, pattern, textIndex+1, patternIndex+1, escape, hasEscape)
		}
		return false
	}
}

var regexCache sync.Map

// regexMatch evaluates "match ~ pattern" with the option flags translated to
// RE2 inline flags.
func regexMatch(match, pattern any, options sqlexpr.RegexOptions) (any, error) {
	text, err := cast.ToStringE(match)
	if err != nil {
		return nil, typeError("regex operand must be text, got %T", match)
	}
	pat, err := cast.ToStringE(pattern)
	if err != nil {
		return nil, typeError("regex pattern must be text, got %T", pattern)
	}
	if options.Has(sqlexpr.RegexIgnorePatternWhitespace) {
		return nil, unsupported("", "regex option %s", sqlexpr.RegexIgnorePatternWhitespace)
	}

	var flags strings.Builder
	if options.Has(sqlexpr.RegexIgnoreCase) {
		flags.WriteByte('i')
	}
	if options.Has(sqlexpr.RegexMultiline) {
		flags.WriteByte('m')
	}
	if options.Has(sqlexpr.RegexSingleline) {
		flags.WriteByte('s')
	}
	if flags.Len() > 0 {
		pat = "(?" + flags.String() + ")" + pat
	}

	re, err := compileRegex(pat)
	if err != nil {
		return nil, runtimeError(err, "invalid regular expression %q", pat)
	}
	return re.MatchString(text), nil
}

func compileRegex(pattern string) (*regexp.Regexp, error) {
	if re, ok := regexCache.Load(pattern); ok {
		return re.(*regexp.Regexp), nil
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, err
	}
	regexCache.Store(pattern, re)
	return re, nil
}
