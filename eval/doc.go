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
Package eval evaluates expression trees with SQL three-valued logic.

A tree is compiled to an expr program in which every operator is a helper
call (sql_and, sql_any, sql_call, ...) and every leaf is a variable bound
from a Row at run time. A nil result is SQL NULL.

	p, err := eval.Compile(tree)
	if err != nil {
		return err
	}
	v, err := p.Run(eval.Row{"id": 3, "ids": []any{1, nil}})

Only the operators and functions that can be executed in memory are
supported; compiling anything else fails with ErrorKindUnsupported.
*/
package eval
