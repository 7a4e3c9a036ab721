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
	"github.com/rulego/sqlnull/logger"
	"github.com/rulego/sqlnull/sqlexpr"
)

// Processor computes the nullability of every node of a tree and compensates
// for three-valued logic where two-valued results are expected.
//
// A Processor holds no per-tree state and is safe for concurrent use.
type Processor struct {
	useRelationalNulls bool
	log                logger.Logger
}

var _ sqlexpr.Visitor = (*Processor)(nil)

// NewProcessor creates a processor. With useRelationalNulls the database's
// three-valued results are trusted as-is: nullability is still tracked but no
// compensation is ever applied. A nil log discards diagnostics.
func NewProcessor(useRelationalNulls bool, log logger.Logger) *Processor {
	if log == nil {
		log = logger.NewDiscardLogger()
	}
	return &Processor{useRelationalNulls: useRelationalNulls, log: log}
}

// UseRelationalNulls reports whether compensation is disabled.
func (p *Processor) UseRelationalNulls() bool {
	return p.useRelationalNulls
}

// Process runs the pass over a whole tree and returns the rewritten tree with
// the nullability of its root. allowOptimizedExpansion may be set when the
// root is used as a filter predicate, where NULL and false are equivalent.
func (p *Processor) Process(root sqlexpr.Expression, allowOptimizedExpansion bool) (sqlexpr.Expression, bool) {
	return p.Visit(root, allowOptimizedExpansion)
}

// Visit dispatches on the node kind. Children are visited before the node
// itself. It panics on a nil expression.
func (p *Processor) Visit(e sqlexpr.Expression, allowOptimizedExpansion bool) (sqlexpr.Expression, bool) {
	if e == nil {
		panic("nullability: cannot visit a nil expression")
	}
	return e.Accept(p, allowOptimizedExpansion)
}

// visitOptional visits e when present; an absent child is not nullable.
func (p *Processor) visitOptional(e sqlexpr.Expression, allowOptimizedExpansion bool) (sqlexpr.Expression, bool) {
	if e == nil {
		return nil, false
	}
	return p.Visit(e, allowOptimizedExpansion)
}

// visitList visits every element and returns a new slice only when an element
// changed, copying the unchanged prefix on the first difference. Element
// nullability is discarded.
func (p *Processor) visitList(list []sqlexpr.Expression, allowOptimizedExpansion bool) []sqlexpr.Expression {
	var updated []sqlexpr.Expression
	for i, item := range list {
		visited, _ := p.Visit(item, allowOptimizedExpansion)
		if visited != item && updated == nil {
			updated = make([]sqlexpr.Expression, i, len(list))
			copy(updated, list[:i])
		}
		if updated != nil {
			updated = append(updated, visited)
		}
	}
	if updated == nil {
		return list
	}
	return updated
}
