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
Package treefile 表达式树的YAML描述。

A tree file names one expression tree and, optionally, rows to evaluate it
against:

	name: nullable membership
	predicate: false
	expression:
	  kind: any
	  op: "="
	  item: {kind: column, name: i, type: int, nullable: true}
	  array: {kind: column, name: a, type: "int[]", element_nullable: true}
	rows:
	  - {i: null, a: [1, null]}

Unknown fields are rejected so that typos surface as errors instead of
silently changing the tree.
*/
package treefile
