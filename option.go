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
	"io"

	"github.com/rulego/sqlnull/logger"
	"github.com/rulego/sqlnull/translators"
)

// Option 表示对引擎默认行为的修改配置。
type Option func(*Engine)

// WithLogger 设置自定义日志记录器。
//
// 示例:
//
//	customLogger := logger.NewLogger(logger.DEBUG, os.Stderr)
//	engine := sqlnull.New(sqlnull.WithLogger(customLogger))
func WithLogger(log logger.Logger) Option {
	return func(e *Engine) {
		if log != nil {
			e.log = log
		}
	}
}

// WithLogLevel 设置日志级别。
// 作用于当前的日志记录器，未设置自定义记录器时即为全局默认记录器。
//
// 示例:
//
//	// 输出每一次补偿改写
//	engine := sqlnull.New(sqlnull.WithLogLevel(logger.DEBUG))
func WithLogLevel(level logger.Level) Option {
	return func(e *Engine) {
		e.log.SetLevel(level)
	}
}

// WithLogOutput 设置日志输出目标和级别。
//
// 示例:
//
//	engine := sqlnull.New(sqlnull.WithLogOutput(os.Stderr, logger.DEBUG))
func WithLogOutput(output io.Writer, level logger.Level) Option {
	return func(e *Engine) {
		e.log = logger.NewLogger(level, output)
	}
}

// WithDiscardLog 禁用所有日志输出。
func WithDiscardLog() Option {
	return func(e *Engine) {
		e.log = logger.NewDiscardLogger()
	}
}

// WithRelationalNulls 设置是否使用数据库原生的三值逻辑。
// 开启后仍然计算可空性，但不再对 ANY 等做补偿改写。
func WithRelationalNulls(enabled bool) Option {
	return func(e *Engine) {
		e.useRelationalNulls = enabled
	}
}

// WithRegistry 替换默认的函数翻译表。
//
// 示例:
//
//	registry := translators.NewRegistryBuilder().
//	    MustRegister(translators.NewSignature("Ext", "Soundex", "DbFunctions", "string"), "soundex", sqlexpr.TypeText).
//	    Build()
//	engine := sqlnull.New(sqlnull.WithRegistry(registry))
func WithRegistry(registry *translators.Registry) Option {
	return func(e *Engine) {
		if registry != nil {
			e.registry = registry
		}
	}
}

// WithConfig 应用一份配置。无法识别的日志级别会被忽略并记录警告。
func WithConfig(config Config) Option {
	return func(e *Engine) {
		e.useRelationalNulls = config.UseRelationalNulls
		if config.LogLevel == "" {
			return
		}
		level, err := logger.ParseLevel(config.LogLevel)
		if err != nil {
			e.log.Warn("sqlnull: ignoring log level: %v", err)
			return
		}
		e.log.SetLevel(level)
	}
}
