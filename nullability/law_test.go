package nullability

import (
	"fmt"
	"testing"

	"github.com/rulego/sqlnull/eval"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// contains is the membership the compensated predicate must implement: NULL
// is found in an array holding a NULL.
func contains(item any, array []any) bool {
	for _, el := range array {
		if el == nil && item == nil {
			return true
		}
		if el != nil && item != nil && fmt.Sprint(el) == fmt.Sprint(item) {
			return true
		}
	}
	return false
}

var lawArrays = map[string][]any{
	"无NULL":   {1, 2},
	"含NULL":   {1, 2, nil},
	"空数组":    {},
	"仅NULL":   {nil},
	"NULL数组": nil,
}

// TestAnyEqualTwoValuedLaw 测试补偿后的等值ANY只产生true/false
func TestAnyEqualTwoValuedLaw(t *testing.T) {
	p := NewProcessor(false, nil)
	for _, itemNullable := range []bool{false, true} {
		items := []any{1, 3}
		if itemNullable {
			items = append(items, nil)
		}
		tree := anyEqual(intCol("i", itemNullable), arrayCol("a", true, true))
		full, nullable := p.Process(tree, false)
		require.False(t, nullable)
		optimized, _ := p.Process(tree, true)

		fullProgram, err := eval.Compile(full)
		require.NoError(t, err)
		optimizedProgram, err := eval.Compile(optimized)
		require.NoError(t, err)

		for name, array := range lawArrays {
			for _, item := range items {
				row := eval.Row{"i": item, "a": array}
				want := array != nil && contains(item, array)
				label := fmt.Sprintf("%s/item=%v/nullable=%v", name, item, itemNullable)

				got, err := fullProgram.Run(row)
				require.NoError(t, err, label)
				assert.Equal(t, want, got, "full %s", label)

				got, err = optimizedProgram.Run(row)
				require.NoError(t, err, label)
				assert.Equal(t, want, got == true, "optimized %s", label)
			}
		}
	}
}

// TestAnyEqualExamples 测试文档中的三个例子
func TestAnyEqualExamples(t *testing.T) {
	p := NewProcessor(false, nil)
	out, _ := p.Process(anyEqual(intCol("i", true), arrayCol("a", false, true)), false)

	tests := []struct {
		name  string
		item  any
		array []any
		want  bool
	}{
		{"NULL在含NULL数组中", nil, []any{1, 2, nil}, true},
		{"3不在含NULL数组中", 3, []any{1, 2, nil}, false},
		{"NULL不在无NULL数组中", nil, []any{1, 2}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := eval.Evaluate(out, eval.Row{"i": tt.item, "a": tt.array})
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

// TestRelationalNullsKeepThreeValuedResult 测试关系型NULL模式保留三值结果
func TestRelationalNullsKeepThreeValuedResult(t *testing.T) {
	out, _ := NewProcessor(true, nil).Process(anyEqual(intCol("i", true), arrayCol("a", false, true)), false)
	got, err := eval.Evaluate(out, eval.Row{"i": 3, "a": []any{1, nil}})
	require.NoError(t, err)
	assert.Nil(t, got)
}

// TestConstantArrayRewrite 测试常量数组参与补偿
func TestConstantArrayRewrite(t *testing.T) {
	p := NewProcessor(false, nil)
	arr := intArrayConst([]*int{ptr(1), nil})
	out, nullable := p.Process(anyEqual(intCol("i", true), arr), false)
	assert.False(t, nullable)
	assert.Equal(t,
		"((i = ANY (ARRAY[1, NULL])) AND ((i = ANY (ARRAY[1, NULL])) IS NOT NULL)) OR ((i IS NULL) AND (array_position(ARRAY[1, NULL], NULL) IS NOT NULL))",
		out.String())

	for _, item := range []any{1, 2, nil} {
		got, err := eval.Evaluate(out, eval.Row{"i": item})
		require.NoError(t, err)
		assert.Equal(t, item != 2, got, "item=%v", item)
	}
}

func ptr[T any](v T) *T { return &v }
