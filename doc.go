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

/*
Package sqlnull 是面向 PostgreSQL 的空值语义补偿引擎。

SQL 使用三值逻辑：比较的结果可能是 TRUE、FALSE 或 NULL，而宿主语言的查询只认识
两值逻辑。sqlnull 在一次后序遍历中计算表达式树每个节点是否可能为 NULL，并改写那些
三值结果会改变语义的节点，同时提供将宿主方法调用翻译为 SQL 函数的翻译表。

# 核心特性

• 可空性分析 - 列、参数、常量、函数、运算符以及 PostgreSQL 专有节点
• ANY 补偿 - 将 item = ANY(array) 改写为严格的两值结果
• 谓词优化 - WHERE 条件中 NULL 与 false 等价，使用更短的改写
• 关系空值模式 - 信任数据库的三值结果，不做任何改写
• 方法翻译 - fuzzystrmatch 扩展函数与正则匹配

# 入门示例

	package main

	import (
		"fmt"

		"github.com/rulego/sqlnull"
		"github.com/rulego/sqlnull/sqlexpr"
	)

	func main() {
		engine := sqlnull.New()

		item := sqlexpr.Col("i", sqlexpr.TypeInt, true)
		array := sqlexpr.ArrayCol("a", sqlexpr.TypeInt, false, true)
		tree := sqlexpr.NewAny(item, array, sqlexpr.QuantifiedEqual, sqlexpr.BoolMapping)

		rewritten, nullable := engine.Process(tree)
		fmt.Println(rewritten, nullable)
		// ((i = ANY (a)) AND ((i = ANY (a)) IS NOT NULL))
		//     OR ((i IS NULL) AND (array_position(a, NULL) IS NOT NULL)) false
	}

# 谓词上下文

WHERE 子句中的条件使用 ProcessPredicate，AND/OR 会把优化许可传递给子节点：

	rewritten, _ := engine.ProcessPredicate(tree)
	// (i = ANY (a)) OR ((i IS NULL) AND (array_position(a, NULL) IS NOT NULL))

# 配置

	config, err := sqlnull.LoadConfig("sqlnull.yaml")
	if err != nil {
		return err
	}
	engine, err := sqlnull.NewFromConfig(config)

配置文件：

	use_relational_nulls: false
	log_level: DEBUG

# 方法翻译

	sig := translators.FuzzyStringMatchSignature("FuzzyStringMatchSoundex", "string")
	translation, ok := engine.Lookup(sig)
	// translation.Function == "soundex"

更多内容见子包 sqlexpr、nullability、translators、eval 与 treefile。
*/
package sqlnull
