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

import (
	"fmt"
	"strings"
)

// Signature identifies one overload of a host method that may be translated
// to a database function.
type Signature struct {
	DeclaringType string
	Method        string
	// Parameters are the parameter type names, including the leading
	// DbFunctions marker for extension methods.
	Parameters []string
}

// NewSignature creates a signature.
func NewSignature(declaringType, method string, parameters ...string) Signature {
	return Signature{DeclaringType: declaringType, Method: method, Parameters: parameters}
}

// Key returns the normalized form "Type.Method(p1,p2)". Lookups compare keys
// exactly, so names are case-sensitive.
func (s Signature) Key() string {
	params := make([]string, len(s.Parameters))
	for i, p := range s.Parameters {
		params[i] = strings.TrimSpace(p)
	}
	return strings.TrimSpace(s.DeclaringType) + "." + strings.TrimSpace(s.Method) + "(" + strings.Join(params, ",") + ")"
}

func (s Signature) String() string {
	return s.Key()
}

// ParseSignature parses "Type.Method(p1, p2)".
func ParseSignature(text string) (Signature, error) {
	text = strings.TrimSpace(text)
	open := strings.IndexByte(text, '(')
	if open < 0 || !strings.HasSuffix(text, ")") {
		return Signature{}, fmt.Errorf("invalid signature %q: expected Type.Method(params)", text)
	}
	name := text[:open]
	dot := strings.LastIndexByte(name, '.')
	if dot <= 0 || dot == len(name)-1 {
		return Signature{}, fmt.Errorf("invalid signature %q: missing declaring type or method", text)
	}

	var params []string
	if inner := strings.TrimSpace(text[open+1 : len(text)-1]); inner != "" {
		for _, p := range strings.Split(inner, ",") {
			p = strings.TrimSpace(p)
			if p == "" {
				return Signature{}, fmt.Errorf("invalid signature %q: empty parameter", text)
			}
			params = append(params, p)
		}
	}
	return Signature{
		DeclaringType: strings.TrimSpace(name[:dot]),
		Method:        strings.TrimSpace(name[dot+1:]),
		Parameters:    params,
	}, nil
}
