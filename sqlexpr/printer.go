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

package sqlexpr

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/goccy/go-reflect"
)

// Print renders an expression as PostgreSQL-flavoured SQL. It is meant for
// logs, diagnostics and tests; statement generation lives elsewhere.
func Print(e Expression) string {
	var b strings.Builder
	p := &printer{b: &b}
	p.print(e)
	return b.String()
}

type printer struct {
	b *strings.Builder
}

func (p *printer) write(s string) {
	p.b.WriteString(s)
}

// operand prints e, wrapped in parentheses when it is an operator application.
func (p *printer) operand(e Expression) {
	if needsParens(e) {
		p.write("(")
		p.print(e)
		p.write(")")
		return
	}
	p.print(e)
}

func needsParens(e Expression) bool {
	switch e := e.(type) {
	case *Unary:
		return e.Op != OpNegate
	case *Binary, *Any, *All, *Like, *ILike, *RegexMatch, *PostgresBinary, *UnknownBinary:
		return true
	}
	return false
}

func (p *printer) list(items []Expression) {
	for i, item := range items {
		if i > 0 {
			p.write(", ")
		}
		p.print(item)
	}
}

func (p *printer) print(e Expression) {
	switch e := e.(type) {
	case nil:
		p.write("<nil>")
	case *Column:
		p.write(e.QualifiedName())
	case *Constant:
		p.write(FormatValue(e.Value))
	case *Parameter:
		p.write("@" + e.Name)
	case *Unary:
		switch e.Op {
		case OpNot:
			p.write("NOT ")
			p.operand(e.Operand)
		case OpNegate:
			p.write("-")
			p.operand(e.Operand)
		default:
			p.operand(e.Operand)
			p.write(" " + e.Op.String())
		}
	case *Binary:
		p.operand(e.Left)
		p.write(" " + e.Op.String() + " ")
		p.operand(e.Right)
	case *Function:
		p.write(e.Name + "(")
		p.list(e.Args)
		p.write(")")
	case *Like:
		p.like("LIKE", e.Match, e.Pattern, e.EscapeChar)
	case *ILike:
		p.like("ILIKE", e.Match, e.Pattern, e.EscapeChar)
	case *Any:
		p.operand(e.Item)
		p.write(" " + e.Op.String() + " ANY (")
		p.print(e.Array)
		p.write(")")
	case *All:
		p.operand(e.Item)
		p.write(" " + e.Op.String() + " ALL (")
		p.print(e.Array)
		p.write(")")
	case *ArrayIndex:
		p.operand(e.Array)
		p.write("[")
		p.print(e.Index)
		p.write("]")
	case *PostgresBinary:
		p.operand(e.Left)
		p.write(" " + e.Op.String() + " ")
		p.operand(e.Right)
	case *RegexMatch:
		p.operand(e.Match)
		if e.Options.Has(RegexIgnoreCase) {
			p.write(" ~* ")
		} else {
			p.write(" ~ ")
		}
		if flags := regexFlags(e.Options); flags != "" {
			p.write("('(?" + flags + ")' || ")
			p.print(e.Pattern)
			p.write(")")
		} else {
			p.operand(e.Pattern)
		}
	case *NewArray:
		p.write("ARRAY[")
		p.list(e.Expressions)
		p.write("]")
	case *JSONTraversal:
		p.operand(e.Expression)
		for i, step := range e.Path {
			if e.ReturnsText && i == len(e.Path)-1 {
				p.write("->>")
			} else {
				p.write("->")
			}
			p.operand(step)
		}
	case *RowValue:
		p.write("(")
		p.list(e.Values)
		p.write(")")
	case *UnknownBinary:
		p.operand(e.Left)
		p.write(" " + e.Operator + " ")
		p.operand(e.Right)
	default:
		p.write(fmt.Sprintf("<%T>", e))
	}
}

func (p *printer) like(keyword string, match, pattern, escapeChar Expression) {
	p.operand(match)
	p.write(" " + keyword + " ")
	p.operand(pattern)
	if escapeChar != nil {
		p.write(" ESCAPE ")
		p.operand(escapeChar)
	}
}

// regexFlags returns the embedded PostgreSQL ARE options equivalent to the
// host regex options. Without Singleline "." must not match a newline.
func regexFlags(o RegexOptions) string {
	var flags string
	switch {
	case !o.Has(RegexSingleline) && !o.Has(RegexMultiline):
		flags = "p"
	case !o.Has(RegexSingleline) && o.Has(RegexMultiline):
		flags = "n"
	case o.Has(RegexSingleline) && o.Has(RegexMultiline):
		flags = "w"
	}
	if o.Has(RegexIgnorePatternWhitespace) {
		flags += "x"
	}
	return flags
}

// FormatValue renders a constant value as a SQL literal.
func FormatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return "NULL"
	case string:
		return quote(x)
	case bool:
		if x {
			return "TRUE"
		}
		return "FALSE"
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return fmt.Sprint(x)
	case float32:
		return strconv.FormatFloat(float64(x), 'g', -1, 32)
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	case RegexOptions:
		return strconv.Itoa(int(x))
	}

	rv := reflect.ValueNoEscapeOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Interface:
		if rv.IsNil() {
			return "NULL"
		}
		return FormatValue(rv.Elem().Interface())
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			return "NULL"
		}
		parts := make([]string, rv.Len())
		for i := range parts {
			parts[i] = FormatValue(rv.Index(i).Interface())
		}
		return "ARRAY[" + strings.Join(parts, ", ") + "]"
	}
	return quote(fmt.Sprint(v))
}

func quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
