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
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/rulego/sqlnull/sqlexpr"
)

// ErrRegistryBuilt is returned when registering on a builder that already
// produced its registry.
var ErrRegistryBuilt = errors.New("registry already built")

// Translation is the database function a signature maps to.
type Translation struct {
	Function string
	// PropagateNullability has one entry per argument after the marker.
	PropagateNullability []bool
	ReturnType           sqlexpr.ScalarType
}

// MethodCallTranslator translates a host method call into an expression. It
// returns nil when the call is not one it handles; that is not an error and
// the caller tries other translators.
type MethodCallTranslator interface {
	Translate(sig Signature, args []sqlexpr.Expression) sqlexpr.Expression
}

// Registry is an immutable exact-match table from signatures to database
// functions. It is safe for concurrent use.
type Registry struct {
	entries map[string]Translation
}

var _ MethodCallTranslator = (*Registry)(nil)

// RegistryBuilder collects entries for a Registry.
type RegistryBuilder struct {
	entries map[string]Translation
	built   bool
}

// NewRegistryBuilder 创建注册表构建器
func NewRegistryBuilder() *RegistryBuilder {
	return &RegistryBuilder{entries: make(map[string]Translation)}
}

// Register maps sig to function. The first parameter of sig is the marker
// argument; every following argument propagates nullability.
func (b *RegistryBuilder) Register(sig Signature, function string, returnType sqlexpr.ScalarType) error {
	if b.built {
		return ErrRegistryBuilt
	}
	if len(sig.Parameters) == 0 {
		return fmt.Errorf("signature %s has no marker parameter", sig)
	}
	key := sig.Key()
	if _, exists := b.entries[key]; exists {
		return fmt.Errorf("signature %s already registered", key)
	}
	mask := make([]bool, len(sig.Parameters)-1)
	for i := range mask {
		mask[i] = true
	}
	b.entries[key] = Translation{Function: function, PropagateNullability: mask, ReturnType: returnType}
	return nil
}

// MustRegister is like Register but panics on error.
func (b *RegistryBuilder) MustRegister(sig Signature, function string, returnType sqlexpr.ScalarType) *RegistryBuilder {
	if err := b.Register(sig, function, returnType); err != nil {
		panic(err)
	}
	return b
}

// Build freezes the builder and returns the registry.
func (b *RegistryBuilder) Build() *Registry {
	b.built = true
	entries := make(map[string]Translation, len(b.entries))
	for k, v := range b.entries {
		entries[k] = v
	}
	return &Registry{entries: entries}
}

// Lookup returns the translation registered for exactly sig.
func (r *Registry) Lookup(sig Signature) (Translation, bool) {
	t, ok := r.entries[sig.Key()]
	if !ok {
		return Translation{}, false
	}
	mask := make([]bool, len(t.PropagateNullability))
	copy(mask, t.PropagateNullability)
	t.PropagateNullability = mask
	return t, true
}

// Len returns the number of catalogued signatures.
func (r *Registry) Len() int {
	return len(r.entries)
}

// Signatures lists the catalogued signature keys in sorted order.
func (r *Registry) Signatures() []string {
	keys := make([]string, 0, len(r.entries))
	for k := range r.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Translate builds the function call for sig, dropping the marker argument.
// The call is nullable and every remaining argument propagates nullability.
func (r *Registry) Translate(sig Signature, args []sqlexpr.Expression) sqlexpr.Expression {
	t, ok := r.Lookup(sig)
	if !ok || len(args) != len(t.PropagateNullability)+1 {
		return nil
	}
	return sqlexpr.NewFunction(t.Function, args[1:], true, t.PropagateNullability,
		t.ReturnType, sqlexpr.MappingFor(t.ReturnType))
}

var (
	defaultRegistry     *Registry
	defaultRegistryOnce sync.Once
)

// DefaultRegistry returns the shared registry holding the fuzzy string match
// catalogue. It is built on first use.
func DefaultRegistry() *Registry {
	defaultRegistryOnce.Do(func() {
		b := NewRegistryBuilder()
		registerFuzzyStringMatch(b)
		defaultRegistry = b.Build()
	})
	return defaultRegistry
}

// Provider tries translators in order and returns the first translation.
type Provider struct {
	translators []MethodCallTranslator
}

var _ MethodCallTranslator = (*Provider)(nil)

// NewProvider creates a provider over translators.
func NewProvider(translators ...MethodCallTranslator) *Provider {
	list := make([]MethodCallTranslator, len(translators))
	copy(list, translators)
	return &Provider{translators: list}
}

// DefaultProvider chains the default registry and the regex translator.
func DefaultProvider() *Provider {
	return NewProvider(DefaultRegistry(), RegexTranslator{})
}

func (p *Provider) Translate(sig Signature, args []sqlexpr.Expression) sqlexpr.Expression {
	for _, t := range p.translators {
		if e := t.Translate(sig, args); e != nil {
			return e
		}
	}
	return nil
}
