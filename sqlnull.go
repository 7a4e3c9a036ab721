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

package sqlnull

import (
	"github.com/rulego/sqlnull/logger"
	"github.com/rulego/sqlnull/nullability"
	"github.com/rulego/sqlnull/sqlexpr"
	"github.com/rulego/sqlnull/translators"
)

// Engine 是空值语义补偿的入口。
// 它持有一个无状态的可空性处理器和方法翻译器链，可以被多个goroutine并发使用。
//
// 使用示例:
//
//	engine := sqlnull.New()
//	tree := sqlexpr.NewAny(item, array, sqlexpr.QuantifiedEqual, sqlexpr.BoolMapping)
//	rewritten, nullable := engine.Process(tree)
type Engine struct {
	useRelationalNulls bool
	log                logger.Logger

	processor *nullability.Processor
	registry  *translators.Registry
	provider  *translators.Provider
}

// New 创建一个新的引擎实例。
//
// 参数:
//   - options: 可变长度的配置选项
//
// 示例:
//
//	// 默认：补偿三值逻辑
//	engine := sqlnull.New()
//
//	// 信任数据库的三值结果，不做补偿
//	engine := sqlnull.New(sqlnull.WithRelationalNulls(true))
func New(options ...Option) *Engine {
	e := &Engine{
		log:      logger.GetDefault(),
		registry: translators.DefaultRegistry(),
	}

	// 应用所有配置选项
	for _, option := range options {
		option(e)
	}

	e.provider = translators.NewProvider(e.registry, translators.RegexTranslator{})
	e.processor = nullability.NewProcessor(e.useRelationalNulls, e.log)
	if e.useRelationalNulls {
		e.log.Info("sqlnull: relational null semantics enabled, compensation disabled")
	}
	return e
}

// Process 对整棵树计算可空性并应用补偿，根节点的值会被完整使用（例如出现在投影中），
// 因此 NULL 和 false 必须区分。
//
// 返回值:
//   - sqlexpr.Expression: 改写后的树，未改变的子树与输入共享
//   - bool: 根节点是否可能为 NULL
func (e *Engine) Process(tree sqlexpr.Expression) (sqlexpr.Expression, bool) {
	return e.processor.Process(tree, false)
}

// ProcessPredicate 与 Process 相同，但根节点被当作 WHERE 条件使用，
// NULL 与 false 等价，允许更简短的补偿形式。
func (e *Engine) ProcessPredicate(tree sqlexpr.Expression) (sqlexpr.Expression, bool) {
	return e.processor.Process(tree, true)
}

// Translate 将方法调用翻译为SQL表达式，无法翻译时返回 nil。
func (e *Engine) Translate(sig translators.Signature, args []sqlexpr.Expression) sqlexpr.Expression {
	return e.provider.Translate(sig, args)
}

// Lookup 在函数翻译表中查找方法签名。
func (e *Engine) Lookup(sig translators.Signature) (translators.Translation, bool) {
	return e.registry.Lookup(sig)
}

// Registry 返回引擎使用的函数翻译表。
func (e *Engine) Registry() *translators.Registry {
	return e.registry
}

// UseRelationalNulls reports whether compensation is disabled.
func (e *Engine) UseRelationalNulls() bool {
	return e.useRelationalNulls
}

// Logger 返回引擎使用的日志记录器。
func (e *Engine) Logger() logger.Logger {
	return e.log
}
