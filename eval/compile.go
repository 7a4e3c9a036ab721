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

package eval

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/rulego/sqlnull/sqlexpr"
)

// Row binds column and parameter values by name. Columns are looked up by
// qualified name first, then by bare name. Parameters are looked up as
// "@name" first, then by bare name. Missing entries are NULL.
type Row map[string]any

// binding is a variable of the compiled program.
type binding struct {
	name     string
	keys     []string
	value    any
	constant bool
}

func (b binding) resolve(row Row) any {
	if b.constant {
		return b.value
	}
	for _, key := range b.keys {
		if v, ok := row[key]; ok {
			return normalize(v)
		}
	}
	return nil
}

// Program is an expression tree compiled to an expr program. It is safe for
// concurrent use.
type Program struct {
	root     sqlexpr.Expression
	source   string
	program  *vm.Program
	bindings []binding
}

// Compile translates root into an expr program made of three-valued helper
// calls. Nodes the evaluator cannot execute yield an ErrorKindUnsupported
// error.
func Compile(root sqlexpr.Expression) (*Program, error) {
	if root == nil {
		return nil, unsupported("", "nil expression")
	}
	c := &compiler{}
	source, err := c.compile(root)
	if err != nil {
		return nil, err
	}
	program, err := expr.Compile(source, functionOptions()...)
	if err != nil {
		return nil, &EvalError{Kind: ErrorKindCompile, Message: "failed to compile program", Node: root.String(), Err: err}
	}
	return &Program{root: root, source: source, program: program, bindings: c.bindings}, nil
}

// Source returns the expr source of the program.
func (p *Program) Source() string {
	return p.source
}

// Run evaluates the program against row. The result is nil for SQL NULL.
func (p *Program) Run(row Row) (any, error) {
	env := make(map[string]any, len(p.bindings))
	for _, b := range p.bindings {
		env[b.name] = b.resolve(row)
	}
	out, err := expr.Run(p.program, env)
	if err != nil {
		var evalErr *EvalError
		if errors.As(err, &evalErr) {
			if evalErr.Node == "" {
				evalErr.Node = p.root.String()
			}
			return nil, evalErr
		}
		return nil, runtimeError(err, "failed to evaluate %s", p.root)
	}
	return out, nil
}

// Evaluate compiles root and runs it once against row.
func Evaluate(root sqlexpr.Expression, row Row) (any, error) {
	p, err := Compile(root)
	if err != nil {
		return nil, err
	}
	return p.Run(row)
}

type compiler struct {
	bindings []binding
}

func (c *compiler) bind(b binding) string {
	b.name = "v" + strconv.Itoa(len(c.bindings))
	c.bindings = append(c.bindings, b)
	return b.name
}

func call(name string, args ...string) string {
	return name + "(" + strings.Join(args, ", ") + ")"
}

func (c *compiler) compileAll(list []sqlexpr.Expression) ([]string, error) {
	out := make([]string, 0, len(list))
	for _, e := range list {
		s, err := c.compile(e)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

func (c *compiler) compile(e sqlexpr.Expression) (string, error) {
	switch n := e.(type) {
	case *sqlexpr.Column:
		keys := []string{n.QualifiedName()}
		if n.Table != "" {
			keys = append(keys, n.Name)
		}
		return c.bind(binding{keys: keys}), nil
	case *sqlexpr.Parameter:
		return c.bind(binding{keys: []string{"@" + n.Name, n.Name}}), nil
	case *sqlexpr.Constant:
		return c.bind(binding{value: normalize(n.Value), constant: true}), nil
	case *sqlexpr.Unary:
		operand, err := c.compile(n.Operand)
		if err != nil {
			return "", err
		}
		switch n.Op {
		case sqlexpr.OpNot:
			return call("sql_not", operand), nil
		case sqlexpr.OpNegate:
			return call("sql_neg", operand), nil
		case sqlexpr.OpIsNull:
			return call("sql_is_null", operand), nil
		case sqlexpr.OpIsNotNull:
			return call("sql_is_not_null", operand), nil
		}
		return "", unsupported(n.String(), "unary operator %s", n.Op)
	case *sqlexpr.Binary:
		return c.compileBinary(n)
	case *sqlexpr.Function:
		if _, ok := sqlFunctions[n.Name]; !ok {
			return "", unsupported(n.String(), "function %s", n.Name)
		}
		args, err := c.compileAll(n.Args)
		if err != nil {
			return "", err
		}
		return call("sql_call", append([]string{strconv.Quote(n.Name)}, args...)...), nil
	case *sqlexpr.Like:
		return c.compileLike(false, n.Match, n.Pattern, n.EscapeChar)
	case *sqlexpr.ILike:
		return c.compileLike(true, n.Match, n.Pattern, n.EscapeChar)
	case *sqlexpr.Any:
		return c.compileQuantified("sql_any", n.Op, n.Item, n.Array)
	case *sqlexpr.All:
		return c.compileQuantified("sql_all", n.Op, n.Item, n.Array)
	case *sqlexpr.ArrayIndex:
		args, err := c.compileAll([]sqlexpr.Expression{n.Array, n.Index})
		if err != nil {
			return "", err
		}
		return call("sql_index", args...), nil
	case *sqlexpr.PostgresBinary:
		if !supportedPostgresOperators[n.Op] {
			return "", unsupported(n.String(), "operator %s", n.Op.Name())
		}
		args, err := c.compileAll([]sqlexpr.Expression{n.Left, n.Right})
		if err != nil {
			return "", err
		}
		return call("sql_pg", append([]string{strconv.Quote(n.Op.Name())}, args...)...), nil
	case *sqlexpr.RegexMatch:
		args, err := c.compileAll([]sqlexpr.Expression{n.Match, n.Pattern})
		if err != nil {
			return "", err
		}
		return call("sql_regex", append(args, strconv.Itoa(int(n.Options)))...), nil
	case *sqlexpr.NewArray:
		args, err := c.compileAll(n.Expressions)
		if err != nil {
			return "", err
		}
		return call("sql_array", args...), nil
	case *sqlexpr.JSONTraversal:
		args, err := c.compileAll(append([]sqlexpr.Expression{n.Expression}, n.Path...))
		if err != nil {
			return "", err
		}
		return call("sql_json", append([]string{strconv.FormatBool(n.ReturnsText)}, args...)...), nil
	case *sqlexpr.RowValue:
		args, err := c.compileAll(n.Values)
		if err != nil {
			return "", err
		}
		return call("sql_row", args...), nil
	case *sqlexpr.UnknownBinary:
		return "", unsupported(n.String(), "operator %s", n.Operator)
	case nil:
		return "", unsupported("", "nil expression")
	}
	return "", unsupported(e.String(), "node %T", e)
}

func (c *compiler) compileBinary(n *sqlexpr.Binary) (string, error) {
	args, err := c.compileAll([]sqlexpr.Expression{n.Left, n.Right})
	if err != nil {
		return "", err
	}
	switch {
	case n.Op == sqlexpr.OpAndAlso:
		return call("sql_and", args...), nil
	case n.Op == sqlexpr.OpOrElse:
		return call("sql_or", args...), nil
	case n.Op == sqlexpr.OpConcat:
		return call("sql_concat", args...), nil
	case n.Op.IsComparison():
		return call("sql_cmp", append([]string{strconv.Quote(n.Op.String())}, args...)...), nil
	}
	switch n.Op {
	case sqlexpr.OpAdd, sqlexpr.OpSubtract, sqlexpr.OpMultiply, sqlexpr.OpDivide, sqlexpr.OpModulo:
		return call("sql_arith", append([]string{strconv.Quote(n.Op.String())}, args...)...), nil
	}
	return "", unsupported(n.String(), "binary operator %s", n.Op)
}

func (c *compiler) compileLike(ci bool, match, pattern, escape sqlexpr.Expression) (string, error) {
	list := []sqlexpr.Expression{match, pattern}
	if escape != nil {
		list = append(list, escape)
	}
	args, err := c.compileAll(list)
	if err != nil {
		return "", err
	}
	return call("sql_like", append([]string{strconv.FormatBool(ci)}, args...)...), nil
}

func (c *compiler) compileQuantified(name string, op sqlexpr.QuantifiedOperator, item, array sqlexpr.Expression) (string, error) {
	args, err := c.compileAll([]sqlexpr.Expression{item, array})
	if err != nil {
		return "", err
	}
	if op.String() == "?" {
		return "", unsupported("", "quantified operator %d", int(op))
	}
	return call(name, append([]string{strconv.Quote(op.String())}, args...)...), nil
}

// String renders the program for debugging.
func (p *Program) String() string {
	return fmt.Sprintf("%s => %s", p.root, p.source)
}
