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

// UnaryOperator is the operator of a Unary node.
type UnaryOperator int

const (
	OpNot UnaryOperator = iota
	OpNegate
	OpIsNull
	OpIsNotNull
)

func (op UnaryOperator) String() string {
	switch op {
	case OpNot:
		return "NOT"
	case OpNegate:
		return "-"
	case OpIsNull:
		return "IS NULL"
	case OpIsNotNull:
		return "IS NOT NULL"
	}
	return "?"
}

// BinaryOperator is the operator of a standard Binary node.
type BinaryOperator int

const (
	OpEqual BinaryOperator = iota
	OpNotEqual
	OpLessThan
	OpLessThanOrEqual
	OpGreaterThan
	OpGreaterThanOrEqual
	OpAndAlso
	OpOrElse
	OpAdd
	OpSubtract
	OpMultiply
	OpDivide
	OpModulo
	OpConcat
)

var binarySymbols = map[BinaryOperator]string{
	OpEqual:              "=",
	OpNotEqual:           "<>",
	OpLessThan:           "<",
	OpLessThanOrEqual:    "<=",
	OpGreaterThan:        ">",
	OpGreaterThanOrEqual: ">=",
	OpAndAlso:            "AND",
	OpOrElse:             "OR",
	OpAdd:                "+",
	OpSubtract:           "-",
	OpMultiply:           "*",
	OpDivide:             "/",
	OpModulo:             "%",
	OpConcat:             "||",
}

func (op BinaryOperator) String() string {
	if s, ok := binarySymbols[op]; ok {
		return s
	}
	return "?"
}

// IsComparison reports whether the operator yields a boolean from two scalars.
func (op BinaryOperator) IsComparison() bool {
	return op >= OpEqual && op <= OpGreaterThanOrEqual
}

// IsLogical reports whether the operator is AND or OR.
func (op BinaryOperator) IsLogical() bool {
	return op == OpAndAlso || op == OpOrElse
}

// ParseBinaryOperator resolves an operator symbol ("=", "AND", "||", ...).
func ParseBinaryOperator(symbol string) (BinaryOperator, bool) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "!=" {
		return OpNotEqual, true
	}
	for op, s := range binarySymbols {
		if s == symbol {
			return op, true
		}
	}
	return 0, false
}

// QuantifiedOperator is the comparison applied to each array element by ANY and
// ALL.
type QuantifiedOperator int

const (
	QuantifiedEqual QuantifiedOperator = iota
	QuantifiedNotEqual
	QuantifiedLessThan
	QuantifiedLessThanOrEqual
	QuantifiedGreaterThan
	QuantifiedGreaterThanOrEqual
	QuantifiedLike
	QuantifiedILike
)

var quantifiedSymbols = map[QuantifiedOperator]string{
	QuantifiedEqual:              "=",
	QuantifiedNotEqual:           "<>",
	QuantifiedLessThan:           "<",
	QuantifiedLessThanOrEqual:    "<=",
	QuantifiedGreaterThan:        ">",
	QuantifiedGreaterThanOrEqual: ">=",
	QuantifiedLike:               "LIKE",
	QuantifiedILike:              "ILIKE",
}

func (op QuantifiedOperator) String() string {
	if s, ok := quantifiedSymbols[op]; ok {
		return s
	}
	return "?"
}

// ParseQuantifiedOperator resolves a symbol such as "=" or "LIKE".
func ParseQuantifiedOperator(symbol string) (QuantifiedOperator, bool) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "!=" {
		return QuantifiedNotEqual, true
	}
	for op, s := range quantifiedSymbols {
		if s == symbol {
			return op, true
		}
	}
	return 0, false
}

// PostgresOperator is the operator of a PostgresBinary node.
type PostgresOperator int

const (
	PgContains PostgresOperator = iota
	PgContainedBy
	PgOverlaps
	PgAtTimeZone
	PgNetworkContainedWithin
	PgNetworkContainedWithinOrEqual
	PgNetworkContainsOrEqual
	PgNetworkContainsOrContainedBy
	PgRangeIsStrictlyLeftOf
	PgRangeIsStrictlyRightOf
	PgRangeDoesNotExtendRightOf
	PgRangeDoesNotExtendLeftOf
	PgRangeIsAdjacentTo
	PgRangeUnion
	PgRangeIntersect
	PgRangeExcept
	PgTextSearchMatch
	PgTextSearchAnd
	PgTextSearchOr
	PgJSONExists
	PgJSONExistsAny
	PgJSONExistsAll
	PgLTreeMatches
	PgLTreeMatchesAny
	PgLTreeFirstAncestor
	PgLTreeFirstDescendent
	PgLTreeFirstMatches
	PgDistance
)

type postgresOperatorInfo struct {
	name   string
	symbol string
}

var postgresOperators = map[PostgresOperator]postgresOperatorInfo{
	PgContains:                      {"contains", "@>"},
	PgContainedBy:                   {"contained_by", "<@"},
	PgOverlaps:                      {"overlaps", "&&"},
	PgAtTimeZone:                    {"at_time_zone", "AT TIME ZONE"},
	PgNetworkContainedWithin:        {"network_contained_within", "<<"},
	PgNetworkContainedWithinOrEqual: {"network_contained_within_or_equal", "<<="},
	PgNetworkContainsOrEqual:        {"network_contains_or_equal", ">>="},
	PgNetworkContainsOrContainedBy:  {"network_contains_or_contained_by", "&&"},
	PgRangeIsStrictlyLeftOf:         {"range_is_strictly_left_of", "<<"},
	PgRangeIsStrictlyRightOf:        {"range_is_strictly_right_of", ">>"},
	PgRangeDoesNotExtendRightOf:     {"range_does_not_extend_right_of", "&<"},
	PgRangeDoesNotExtendLeftOf:      {"range_does_not_extend_left_of", "&>"},
	PgRangeIsAdjacentTo:             {"range_is_adjacent_to", "-|-"},
	PgRangeUnion:                    {"range_union", "+"},
	PgRangeIntersect:                {"range_intersect", "*"},
	PgRangeExcept:                   {"range_except", "-"},
	PgTextSearchMatch:               {"text_search_match", "@@"},
	PgTextSearchAnd:                 {"text_search_and", "&&"},
	PgTextSearchOr:                  {"text_search_or", "||"},
	PgJSONExists:                    {"json_exists", "?"},
	PgJSONExistsAny:                 {"json_exists_any", "?|"},
	PgJSONExistsAll:                 {"json_exists_all", "?&"},
	PgLTreeMatches:                  {"ltree_matches", "~"},
	PgLTreeMatchesAny:               {"ltree_matches_any", "?"},
	PgLTreeFirstAncestor:            {"ltree_first_ancestor", "?@>"},
	PgLTreeFirstDescendent:          {"ltree_first_descendent", "?<@"},
	PgLTreeFirstMatches:             {"ltree_first_matches", "?~"},
	PgDistance:                      {"distance", "<->"},
}

// String returns the SQL operator symbol.
func (op PostgresOperator) String() string {
	if info, ok := postgresOperators[op]; ok {
		return info.symbol
	}
	return "?"
}

// Name returns the unambiguous snake_case name of the operator. Several
// operators share a symbol, so names are used in tree descriptions.
func (op PostgresOperator) Name() string {
	if info, ok := postgresOperators[op]; ok {
		return info.name
	}
	return "unknown"
}

// ParsePostgresOperator resolves an operator by Name.
func ParsePostgresOperator(name string) (PostgresOperator, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for op, info := range postgresOperators {
		if info.name == name {
			return op, true
		}
	}
	return 0, false
}

// RegexOptions mirrors the option flags a host regular expression call may carry.
type RegexOptions int

const (
	RegexNone                    RegexOptions = 0
	RegexIgnoreCase              RegexOptions = 1 << 0
	RegexMultiline               RegexOptions = 1 << 1
	RegexExplicitCapture         RegexOptions = 1 << 2
	RegexCompiled                RegexOptions = 1 << 3
	RegexSingleline              RegexOptions = 1 << 4
	RegexIgnorePatternWhitespace RegexOptions = 1 << 5
	RegexRightToLeft             RegexOptions = 1 << 6
	RegexECMAScript              RegexOptions = 1 << 8
	RegexCultureInvariant        RegexOptions = 1 << 9
)

var regexOptionNames = []struct {
	opt  RegexOptions
	name string
}{
	{RegexIgnoreCase, "IgnoreCase"},
	{RegexMultiline, "Multiline"},
	{RegexExplicitCapture, "ExplicitCapture"},
	{RegexCompiled, "Compiled"},
	{RegexSingleline, "Singleline"},
	{RegexIgnorePatternWhitespace, "IgnorePatternWhitespace"},
	{RegexRightToLeft, "RightToLeft"},
	{RegexECMAScript, "ECMAScript"},
	{RegexCultureInvariant, "CultureInvariant"},
}

// Has reports whether all flags of o are set.
func (r RegexOptions) Has(o RegexOptions) bool {
	return r&o == o
}

func (r RegexOptions) String() string {
	if r == RegexNone {
		return "None"
	}
	var parts []string
	for _, n := range regexOptionNames {
		if r.Has(n.opt) {
			parts = append(parts, n.name)
		}
	}
	return strings.Join(parts, "|")
}

// ParseRegexOptions combines option names, case-insensitively.
func ParseRegexOptions(names ...string) (RegexOptions, bool) {
	var opts RegexOptions
	for _, name := range names {
		name = strings.TrimSpace(name)
		if strings.EqualFold(name, "None") || name == "" {
			continue
		}
		found := false
		for _, n := range regexOptionNames {
			if strings.EqualFold(n.name, name) {
				opts |= n.opt
				found = true
				break
			}
		}
		if !found {
			return 0, false
		}
	}
	return opts, true
}
