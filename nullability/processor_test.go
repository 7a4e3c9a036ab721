package nullability

import (
	"bytes"
	"sync"
	"testing"

	"github.com/rulego/sqlnull/logger"
	"github.com/rulego/sqlnull/sqlexpr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intCol(name string, nullable bool) *sqlexpr.Column {
	return sqlexpr.Col(name, sqlexpr.TypeInt, nullable)
}

func textCol(name string, nullable bool) *sqlexpr.Column {
	return sqlexpr.Col(name, sqlexpr.TypeText, nullable)
}

func arrayCol(name string, nullable, elementNullable bool) *sqlexpr.Column {
	return sqlexpr.ArrayCol(name, sqlexpr.TypeInt, nullable, elementNullable)
}

func intConst(v any) *sqlexpr.Constant {
	return sqlexpr.NewConstant(v, sqlexpr.TypeInt, sqlexpr.IntMapping)
}

func intArrayConst(v any) *sqlexpr.Constant {
	return sqlexpr.NewConstant(v, sqlexpr.TypeArray, sqlexpr.ArrayMapping(sqlexpr.IntMapping, true))
}

func anyEqual(item, array sqlexpr.Expression) *sqlexpr.Any {
	return sqlexpr.NewAny(item, array, sqlexpr.QuantifiedEqual, sqlexpr.BoolMapping)
}

// TestLeafNullability 测试叶子节点的可空性
func TestLeafNullability(t *testing.T) {
	p := NewProcessor(false, nil)
	tests := []struct {
		name     string
		expr     sqlexpr.Expression
		nullable bool
	}{
		{"可空列", intCol("a", true), true},
		{"非空列", intCol("a", false), false},
		{"NULL常量", intConst(nil), true},
		{"类型化NULL常量", intConst((*int)(nil)), true},
		{"非NULL常量", intConst(1), false},
		{"可空参数", sqlexpr.NewParameter("p", sqlexpr.TypeInt, sqlexpr.IntMapping, true), true},
		{"非空参数", sqlexpr.NewParameter("p", sqlexpr.TypeInt, sqlexpr.IntMapping, false), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, nullable := p.Process(tt.expr, false)
			assert.Same(t, tt.expr, out)
			assert.Equal(t, tt.nullable, nullable)
		})
	}
}

// TestGenericRules 测试一元、二元、函数和LIKE规则
func TestGenericRules(t *testing.T) {
	p := NewProcessor(false, nil)
	a, b := intCol("a", true), intCol("b", false)
	s := textCol("s", false)

	tests := []struct {
		name     string
		expr     sqlexpr.Expression
		nullable bool
	}{
		{"IS NULL从不为空", sqlexpr.IsNull(a), false},
		{"IS NOT NULL从不为空", sqlexpr.IsNotNull(a), false},
		{"NOT传递可空性", sqlexpr.Not(sqlexpr.Equal(a, b)), true},
		{"取负", sqlexpr.NewUnary(sqlexpr.OpNegate, b, sqlexpr.TypeInt, sqlexpr.IntMapping), false},
		{"二元左可空", sqlexpr.Equal(a, b), true},
		{"二元均非空", sqlexpr.Equal(b, b), false},
		{"算术", sqlexpr.NewBinary(sqlexpr.OpAdd, b, intConst(nil), sqlexpr.TypeInt, sqlexpr.IntMapping), true},
		{"不可空函数", sqlexpr.NewFunction("count", []sqlexpr.Expression{a}, false, []bool{true}, sqlexpr.TypeInt, sqlexpr.IntMapping), false},
		{"无传播参数的可空函数", sqlexpr.NewFunction("f", []sqlexpr.Expression{b}, true, []bool{false}, sqlexpr.TypeInt, sqlexpr.IntMapping), true},
		{"传播参数可空", sqlexpr.NewFunction("f", []sqlexpr.Expression{b, a}, true, []bool{false, true}, sqlexpr.TypeInt, sqlexpr.IntMapping), true},
		{"传播参数非空", sqlexpr.NewFunction("f", []sqlexpr.Expression{a, b}, true, []bool{false, true}, sqlexpr.TypeInt, sqlexpr.IntMapping), false},
		{"无参数可空函数", sqlexpr.NewFunction("now", nil, true, nil, sqlexpr.TypeInt, sqlexpr.IntMapping), true},
		{"LIKE非空", sqlexpr.NewLike(s, sqlexpr.Const("x%", sqlexpr.TypeText), nil, sqlexpr.BoolMapping), false},
		{"LIKE转义可空", sqlexpr.NewLike(s, sqlexpr.Const("x%", sqlexpr.TypeText), textCol("e", true), sqlexpr.BoolMapping), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, nullable := p.Process(tt.expr, false)
			assert.Same(t, tt.expr, out)
			assert.Equal(t, tt.nullable, nullable)
		})
	}
}

// TestAnyEqualRewrite 测试等值ANY的补偿改写形状
func TestAnyEqualRewrite(t *testing.T) {
	arr := arrayCol("a", false, true)
	tests := []struct {
		name      string
		item      sqlexpr.Expression
		optimized bool
		want      string
	}{
		{
			name: "非空项完整模式",
			item: intCol("i", false),
			want: "(i = ANY (a)) AND ((i = ANY (a)) IS NOT NULL)",
		},
		{
			name:      "非空项优化模式",
			item:      intCol("i", false),
			optimized: true,
			want:      "i = ANY (a)",
		},
		{
			name: "可空项完整模式",
			item: intCol("i", true),
			want: "((i = ANY (a)) AND ((i = ANY (a)) IS NOT NULL)) OR ((i IS NULL) AND (array_position(a, NULL) IS NOT NULL))",
		},
		{
			name:      "可空项优化模式",
			item:      intCol("i", true),
			optimized: true,
			want:      "(i = ANY (a)) OR ((i IS NULL) AND (array_position(a, NULL) IS NOT NULL))",
		},
	}
	p := NewProcessor(false, nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := anyEqual(tt.item, arr)
			out, nullable := p.Process(e, tt.optimized)
			assert.False(t, nullable)
			assert.Equal(t, tt.want, out.String())
		})
	}
}

// TestAnyEqualRewriteStructure 测试改写节点的内部结构
func TestAnyEqualRewriteStructure(t *testing.T) {
	item := sqlexpr.NewColumn("t", "i", sqlexpr.TypeText, sqlexpr.TextMapping, true)
	arr := sqlexpr.NewColumn("t", "a", sqlexpr.TypeArray, sqlexpr.ArrayMapping(sqlexpr.TextMapping, true), false)
	e := anyEqual(item, arr)

	out, _ := NewProcessor(false, nil).Process(e, true)
	or, ok := out.(*sqlexpr.Binary)
	require.True(t, ok)
	assert.Equal(t, sqlexpr.OpOrElse, or.Op)
	assert.Same(t, e, or.Left)

	and := or.Right.(*sqlexpr.Binary)
	assert.Equal(t, sqlexpr.OpAndAlso, and.Op)
	isNull := and.Left.(*sqlexpr.Unary)
	assert.Equal(t, sqlexpr.OpIsNull, isNull.Op)
	assert.Same(t, item, isNull.Operand)

	position := and.Right.(*sqlexpr.Unary).Operand.(*sqlexpr.Function)
	assert.Equal(t, "array_position", position.Name)
	assert.True(t, position.IsNullable)
	assert.Equal(t, []bool{false, false}, position.ArgumentsPropagateNullability)
	assert.Same(t, arr, position.Args[0])
	null := position.Args[1].(*sqlexpr.Constant)
	assert.True(t, null.IsNull())
	assert.Same(t, sqlexpr.TextMapping, null.TypeMapping())
}

// TestOptimizedExpansionPropagation 测试优化标志只通过AND/OR传递
func TestOptimizedExpansionPropagation(t *testing.T) {
	p := NewProcessor(false, nil)
	arr := arrayCol("a", false, true)
	item := intCol("i", false)
	flag := sqlexpr.Col("f", sqlexpr.TypeBool, false)

	andOut, _ := p.Process(sqlexpr.AndAlso(flag, anyEqual(item, arr)), true)
	assert.Equal(t, "f AND (i = ANY (a))", andOut.String())

	notOut, _ := p.Process(sqlexpr.Not(anyEqual(item, arr)), true)
	assert.Equal(t, "NOT ((i = ANY (a)) AND ((i = ANY (a)) IS NOT NULL))", notOut.String())

	eqOut, _ := p.Process(sqlexpr.Equal(anyEqual(item, arr), flag), true)
	assert.Equal(t, "((i = ANY (a)) AND ((i = ANY (a)) IS NOT NULL)) = f", eqOut.String())

	fnOut, _ := p.Process(sqlexpr.NewFunction("coalesce",
		[]sqlexpr.Expression{anyEqual(item, arr), flag}, true, []bool{true, true}, sqlexpr.TypeBool, sqlexpr.BoolMapping), true)
	assert.Equal(t, "coalesce((i = ANY (a)) AND ((i = ANY (a)) IS NOT NULL), f)", fnOut.String())
}

// TestAnyOtherOperators 测试非等值ANY只计算可空性
func TestAnyOtherOperators(t *testing.T) {
	p := NewProcessor(false, nil)
	s := textCol("s", false)
	patterns := sqlexpr.NewConstant([]string{"a%", "b%"}, sqlexpr.TypeArray, sqlexpr.ArrayMapping(sqlexpr.TextMapping, false))
	withNull := sqlexpr.NewConstant([]any{"a%", nil}, sqlexpr.TypeArray, sqlexpr.ArrayMapping(sqlexpr.TextMapping, true))

	e := sqlexpr.NewAny(s, patterns, sqlexpr.QuantifiedLike, sqlexpr.BoolMapping)
	out, nullable := p.Process(e, false)
	assert.Same(t, e, out)
	assert.False(t, nullable)

	_, nullable = p.Process(sqlexpr.NewAny(s, withNull, sqlexpr.QuantifiedLike, sqlexpr.BoolMapping), false)
	assert.True(t, nullable)

	_, nullable = p.Process(sqlexpr.NewAny(s, sqlexpr.ArrayCol("p", sqlexpr.TypeText, false, false), sqlexpr.QuantifiedILike, sqlexpr.BoolMapping), false)
	assert.True(t, nullable, "non-constant arrays may contain NULL")

	_, nullable = p.Process(sqlexpr.NewAny(textCol("n", true), patterns, sqlexpr.QuantifiedLike, sqlexpr.BoolMapping), false)
	assert.True(t, nullable)
}

// TestAllConservativeNullability 测试ALL的保守可空性
func TestAllConservativeNullability(t *testing.T) {
	p := NewProcessor(false, nil)
	for _, itemNullable := range []bool{false, true} {
		for _, op := range []sqlexpr.QuantifiedOperator{sqlexpr.QuantifiedEqual, sqlexpr.QuantifiedLike, sqlexpr.QuantifiedGreaterThan} {
			e := sqlexpr.NewAll(intCol("i", itemNullable), arrayCol("a", false, false), op, sqlexpr.BoolMapping)
			out, nullable := p.Process(e, true)
			assert.Same(t, e, out, "ALL is never rewritten")
			assert.True(t, nullable)
		}
	}

	e := sqlexpr.NewAll(intCol("i", false), intArrayConst([]int{1, 2}), sqlexpr.QuantifiedEqual, sqlexpr.BoolMapping)
	_, nullable := p.Process(e, false)
	assert.False(t, nullable)
}

// TestRelationalNullsBypass 测试关系型NULL模式不做补偿
func TestRelationalNullsBypass(t *testing.T) {
	p := NewProcessor(true, nil)
	assert.True(t, p.UseRelationalNulls())

	for _, optimized := range []bool{false, true} {
		e := anyEqual(intCol("i", true), arrayCol("a", true, true))
		out, nullable := p.Process(e, optimized)
		assert.Same(t, e, out)
		assert.False(t, nullable)

		all := sqlexpr.NewAll(intCol("i", true), arrayCol("a", true, true), sqlexpr.QuantifiedEqual, sqlexpr.BoolMapping)
		out, nullable = p.Process(all, optimized)
		assert.Same(t, all, out)
		assert.False(t, nullable)
	}

	_, nullable := p.Process(intCol("c", true), false)
	assert.True(t, nullable, "nullability is still tracked")
}

// TestArrayIndex 测试数组元素访问的可空性
func TestArrayIndex(t *testing.T) {
	p := NewProcessor(false, nil)
	tests := []struct {
		name     string
		array    sqlexpr.Expression
		index    sqlexpr.Expression
		nullable bool
	}{
		{"元素不可空", arrayCol("a", false, false), intConst(1), false},
		{"元素可空", arrayCol("a", false, true), intConst(1), true},
		{"数组可空", arrayCol("a", true, false), intConst(1), true},
		{"下标可空", arrayCol("a", false, false), intCol("i", true), true},
		{"缺少类型映射", sqlexpr.NewColumn("", "a", sqlexpr.TypeArray, nil, false), intConst(1), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := sqlexpr.NewArrayIndex(tt.array, tt.index, sqlexpr.TypeInt)
			out, nullable := p.Process(e, false)
			assert.Same(t, e, out)
			assert.Equal(t, tt.nullable, nullable)
		})
	}
}

// TestPostgresBinary 测试领域二元运算符
func TestPostgresBinary(t *testing.T) {
	p := NewProcessor(false, nil)
	path := sqlexpr.Col("path", sqlexpr.TypeLTree, false)
	query := sqlexpr.Const("Top.*", sqlexpr.TypeText)

	for _, op := range []sqlexpr.PostgresOperator{sqlexpr.PgLTreeFirstAncestor, sqlexpr.PgLTreeFirstDescendent, sqlexpr.PgLTreeFirstMatches} {
		e := sqlexpr.NewPostgresBinary(op, path, query, sqlexpr.TypeLTree, sqlexpr.LTreeMapping)
		_, nullable := p.Process(e, false)
		assert.True(t, nullable, op.Name())
	}

	e := sqlexpr.NewPostgresBinary(sqlexpr.PgLTreeMatches, path, query, sqlexpr.TypeBool, sqlexpr.BoolMapping)
	_, nullable := p.Process(e, false)
	assert.False(t, nullable)

	contains := sqlexpr.NewPostgresBinary(sqlexpr.PgContains, arrayCol("a", false, true), arrayCol("b", true, true), sqlexpr.TypeBool, sqlexpr.BoolMapping)
	out, nullable := p.Process(contains, false)
	assert.Same(t, contains, out)
	assert.True(t, nullable)
}

// TestILikeDelegation 测试ILIKE复用LIKE规则
func TestILikeDelegation(t *testing.T) {
	p := NewProcessor(false, nil)
	pattern := sqlexpr.Const("a%", sqlexpr.TypeText)

	e := sqlexpr.NewILike(textCol("s", false), pattern, nil, sqlexpr.BoolMapping)
	out, nullable := p.Process(e, false)
	assert.Same(t, e, out)
	assert.False(t, nullable)

	_, nullable = p.Process(sqlexpr.NewILike(textCol("s", true), pattern, nil, sqlexpr.BoolMapping), false)
	assert.True(t, nullable)

	arr := arrayCol("a", false, true)
	bad := sqlexpr.NewFunction("f", []sqlexpr.Expression{anyEqual(intCol("i", false), arr)}, false, []bool{false}, sqlexpr.TypeText, sqlexpr.TextMapping)
	changed := sqlexpr.NewILike(bad, pattern, nil, sqlexpr.BoolMapping)
	out, _ = p.Process(changed, false)
	updated, ok := out.(*sqlexpr.ILike)
	require.True(t, ok, "a rewritten child keeps the ILIKE node")
	assert.NotSame(t, changed, updated)
	assert.Same(t, pattern, updated.Pattern)
}

// TestRegexJSONAndUnknown 测试正则、JSON路径与未知运算符
func TestRegexJSONAndUnknown(t *testing.T) {
	p := NewProcessor(false, nil)

	regex := sqlexpr.NewRegexMatch(textCol("s", false), sqlexpr.Const("^a", sqlexpr.TypeText), sqlexpr.RegexIgnoreCase, sqlexpr.BoolMapping)
	_, nullable := p.Process(regex, false)
	assert.False(t, nullable)
	_, nullable = p.Process(sqlexpr.NewRegexMatch(textCol("s", true), sqlexpr.Const("^a", sqlexpr.TypeText), sqlexpr.RegexNone, sqlexpr.BoolMapping), false)
	assert.True(t, nullable)

	doc := sqlexpr.Col("doc", sqlexpr.TypeJSON, false)
	json := sqlexpr.NewJSONTraversal(doc, []sqlexpr.Expression{sqlexpr.Const("a", sqlexpr.TypeText)}, true, sqlexpr.TypeText, sqlexpr.TextMapping)
	out, nullable := p.Process(json, false)
	assert.Same(t, json, out)
	assert.True(t, nullable, "JSON traversal is always nullable")

	unknown := sqlexpr.NewUnknownBinary(textCol("a", false), "<->", textCol("b", true), sqlexpr.TypeFloat, sqlexpr.FloatMapping)
	_, nullable = p.Process(unknown, false)
	assert.True(t, nullable)
	_, nullable = p.Process(sqlexpr.NewUnknownBinary(textCol("a", false), "<->", textCol("b", false), sqlexpr.TypeFloat, sqlexpr.FloatMapping), false)
	assert.False(t, nullable)
}

// TestConstructedValuesNeverNull 测试数组字面量和行值从不为空
func TestConstructedValuesNeverNull(t *testing.T) {
	p := NewProcessor(false, nil)
	elements := []sqlexpr.Expression{intConst(nil), intCol("a", true), intConst(nil)}

	arr := sqlexpr.NewNewArray(elements, sqlexpr.ArrayMapping(sqlexpr.IntMapping, true))
	out, nullable := p.Process(arr, false)
	assert.Same(t, arr, out)
	assert.False(t, nullable)

	row := sqlexpr.NewRowValue(elements)
	out, nullable = p.Process(row, false)
	assert.Same(t, row, out)
	assert.False(t, nullable)

	_, nullable = p.Process(sqlexpr.NewNewArray(nil, nil), false)
	assert.False(t, nullable)
}

// TestListRebuildCopiesOnFirstDifference 测试列表只在元素变化时重建
func TestListRebuildCopiesOnFirstDifference(t *testing.T) {
	p := NewProcessor(false, nil)
	first, last := intCol("x", true), intCol("y", true)
	rewritten := anyEqual(intCol("i", false), arrayCol("a", false, true))

	row := sqlexpr.NewRowValue([]sqlexpr.Expression{first, rewritten, last})
	out, nullable := p.Process(row, false)
	assert.False(t, nullable)

	updated, ok := out.(*sqlexpr.RowValue)
	require.True(t, ok)
	assert.NotSame(t, row, updated)
	require.Len(t, updated.Values, 3)
	assert.Same(t, first, updated.Values[0])
	assert.NotSame(t, rewritten, updated.Values[1])
	assert.Same(t, last, updated.Values[2])
	assert.Same(t, rewritten, row.Values[1], "input tree is not modified")

	arr := sqlexpr.NewNewArray([]sqlexpr.Expression{first, rewritten}, nil)
	out, _ = p.Process(arr, false)
	assert.Equal(t, "ARRAY[x, (i = ANY (a)) AND ((i = ANY (a)) IS NOT NULL)]", out.String())
}

// TestIdempotenceWithoutRewrite 测试无改写时返回同一棵树
func TestIdempotenceWithoutRewrite(t *testing.T) {
	p := NewProcessor(false, nil)
	tree := sqlexpr.OrElse(
		sqlexpr.AndAlso(
			sqlexpr.Equal(intCol("a", true), intConst(1)),
			sqlexpr.NewLike(textCol("s", true), sqlexpr.Const("x%", sqlexpr.TypeText), nil, sqlexpr.BoolMapping)),
		sqlexpr.NewAll(intCol("b", false), arrayCol("arr", false, true), sqlexpr.QuantifiedGreaterThan, sqlexpr.BoolMapping))

	for _, optimized := range []bool{false, true} {
		out, nullable := p.Process(tree, optimized)
		assert.Same(t, tree, out)
		assert.True(t, nullable)
	}

	// A compensated tree is not rewritten again when visited in optimized mode.
	optimized, _ := p.Process(anyEqual(intCol("i", false), arrayCol("a", false, true)), true)
	again, _ := p.Process(optimized, true)
	assert.Same(t, optimized, again)
}

// TestVisitNilPanics 测试访问nil节点会panic
func TestVisitNilPanics(t *testing.T) {
	p := NewProcessor(false, nil)
	assert.Panics(t, func() { p.Visit(nil, false) })
}

// TestCompensationLogging 测试补偿时输出调试日志
func TestCompensationLogging(t *testing.T) {
	var buf bytes.Buffer
	p := NewProcessor(false, logger.NewLogger(logger.DEBUG, &buf))
	p.Process(anyEqual(intCol("i", true), arrayCol("a", false, true)), false)
	assert.Contains(t, buf.String(), "compensated")
	assert.Contains(t, buf.String(), "array_position")

	buf.Reset()
	p.Process(anyEqual(intCol("i", false), arrayCol("a", false, true)), true)
	assert.Empty(t, buf.String())
}

// TestProcessorConcurrentUse 测试处理器并发安全
func TestProcessorConcurrentUse(t *testing.T) {
	p := NewProcessor(false, nil)
	tree := sqlexpr.AndAlso(
		anyEqual(intCol("i", true), arrayCol("a", false, true)),
		sqlexpr.NewArrayIndex(arrayCol("a", false, true), intConst(1), sqlexpr.TypeInt))
	want, _ := p.Process(tree, false)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			out, nullable := p.Process(tree, false)
			assert.True(t, nullable)
			assert.Equal(t, want.String(), out.String())
		}()
	}
	wg.Wait()
}
