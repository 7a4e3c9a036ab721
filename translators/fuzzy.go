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

// Host names of the fuzzystrmatch extension methods.
const (
	FuzzyStringMatchType = "FuzzyStringMatchDbFunctionsExtensions"
	DbFunctionsType      = "DbFunctions"
)

// fuzzyStringMatch is the catalogue of the PostgreSQL fuzzystrmatch
// extension.
var fuzzyStringMatch = []struct {
	method   string
	params   []string
	function string
	returns  sqlexpr.ScalarType
}{
	{"FuzzyStringMatchSoundex", []string{"string"}, "soundex", sqlexpr.TypeText},
	{"FuzzyStringMatchDifference", []string{"string", "string"}, "difference", sqlexpr.TypeInt},
	{"FuzzyStringMatchLevenshtein", []string{"string", "string"}, "levenshtein", sqlexpr.TypeInt},
	{"FuzzyStringMatchLevenshtein", []string{"string", "string", "int", "int", "int"}, "levenshtein", sqlexpr.TypeInt},
	{"FuzzyStringMatchLevenshteinLessEqual", []string{"string", "string", "int"}, "levenshtein_less_equal", sqlexpr.TypeInt},
	{"FuzzyStringMatchLevenshteinLessEqual", []string{"string", "string", "int", "int", "int", "int"}, "levenshtein_less_equal", sqlexpr.TypeInt},
	{"FuzzyStringMatchMetaphone", []string{"string", "int"}, "metaphone", sqlexpr.TypeText},
	{"FuzzyStringMatchDoubleMetaphone", []string{"string"}, "dmetaphone", sqlexpr.TypeText},
	{"FuzzyStringMatchDoubleMetaphoneAlt", []string{"string"}, "dmetaphone_alt", sqlexpr.TypeText},
}

// FuzzyStringMatchSignature returns the signature of a fuzzystrmatch
// extension method taking params after the DbFunctions marker.
func FuzzyStringMatchSignature(method string, params ...string) Signature {
	return NewSignature(FuzzyStringMatchType, method, append([]string{DbFunctionsType}, params...)...)
}

func registerFuzzyStringMatch(b *RegistryBuilder) {
	for _, f := range fuzzyStringMatch {
		b.MustRegister(FuzzyStringMatchSignature(f.method, f.params...), f.function, f.returns)
	}
}
