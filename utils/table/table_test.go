package table

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestWrite 测试表格输出
func TestWrite(t *testing.T) {
	var buf bytes.Buffer
	Write(&buf, nil, nil, nil)
	assert.Equal(t, "(0 rows)\n", buf.String())

	data := []map[string]any{
		{"i": 1, "output": "TRUE"},
		{"i": nil, "output": "FALSE", "input": "NULL"},
	}
	buf.Reset()
	Write(&buf, data, []string{"output"}, func(v any) string {
		if v == nil {
			return "NULL"
		}
		if s, ok := v.(string); ok {
			return s
		}
		return "1"
	})
	want := "" +
		"+--------+------+-------+\n" +
		"| output | i    | input |\n" +
		"+--------+------+-------+\n" +
		"| TRUE   | 1    |       |\n" +
		"| FALSE  | NULL | NULL  |\n" +
		"+--------+------+-------+\n" +
		"(2 rows)\n"
	assert.Equal(t, want, buf.String())
}

// TestColumns 测试列顺序
func TestColumns(t *testing.T) {
	data := []map[string]any{{"b": 1, "a": 2}, {"c": 3}}
	assert.Equal(t, []string{"a", "b", "c"}, Columns(data, nil))
	assert.Equal(t, []string{"c", "a", "b"}, Columns(data, []string{"c", "missing"}))
}

// TestWriteBorder 测试边框
func TestWriteBorder(t *testing.T) {
	var buf bytes.Buffer
	WriteBorder(&buf, []int{4, 1})
	assert.Equal(t, "+------+---+\n", buf.String())

	buf.Reset()
	WriteBorder(&buf, nil)
	assert.Equal(t, "+\n", buf.String())
}
