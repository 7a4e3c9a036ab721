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
Package sqlexpr 定义了翻译后的 SQL 表达式树。

The node set is closed. Standard kinds (Column, Constant, Parameter, Unary,
Binary, Function, Like) are shared by every store; the remaining kinds (Any,
All, ArrayIndex, PostgresBinary, ILike, RegexMatch, NewArray, JSONTraversal,
RowValue, UnknownBinary) are PostgreSQL specific. Passes implement Visitor and
are therefore forced to handle every kind.

Nodes are immutable by convention: child fields are exported for reading and
pattern matching, but nothing in this module writes to them after
construction, and callers must not either. Each composite node has an Update method that returns
the receiver when every child is pointer-identical to the current one, so a
pass that changes nothing allocates nothing:

	item := sqlexpr.Col("id", sqlexpr.TypeInt, false)
	ids := sqlexpr.ArrayCol("ids", sqlexpr.TypeInt, false, true)
	e := sqlexpr.NewAny(item, ids, sqlexpr.QuantifiedEqual, sqlexpr.BoolMapping)
	fmt.Println(e) // id = ANY (ids)

Constructors panic when a mandatory child is nil.
*/
package sqlexpr
