package translators

import (
	"sync"
	"testing"

	"github.com/rulego/sqlnull/sqlexpr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func marker() sqlexpr.Expression {
	return sqlexpr.NewConstant(nil, sqlexpr.TypeUnknown, nil)
}

func text(name string) *sqlexpr.Column {
	return sqlexpr.Col(name, sqlexpr.TypeText, true)
}

// TestFuzzyStringMatchCatalogue 测试模糊匹配目录
func TestFuzzyStringMatchCatalogue(t *testing.T) {
	r := DefaultRegistry()
	assert.Equal(t, 9, r.Len())

	tests := []struct {
		method   string
		params   []string
		function string
	}{
		{"FuzzyStringMatchSoundex", []string{"string"}, "soundex"},
		{"FuzzyStringMatchDifference", []string{"string", "string"}, "difference"},
		{"FuzzyStringMatchLevenshtein", []string{"string", "string"}, "levenshtein"},
		{"FuzzyStringMatchLevenshtein", []string{"string", "string", "int", "int", "int"}, "levenshtein"},
		{"FuzzyStringMatchLevenshteinLessEqual", []string{"string", "string", "int"}, "levenshtein_less_equal"},
		{"FuzzyStringMatchLevenshteinLessEqual", []string{"string", "string", "int", "int", "int", "int"}, "levenshtein_less_equal"},
		{"FuzzyStringMatchMetaphone", []string{"string", "int"}, "metaphone"},
		{"FuzzyStringMatchDoubleMetaphone", []string{"string"}, "dmetaphone"},
		{"FuzzyStringMatchDoubleMetaphoneAlt", []string{"string"}, "dmetaphone_alt"},
	}
	for _, tt := range tests {
		sig := FuzzyStringMatchSignature(tt.method, tt.params...)
		t.Run(sig.Key(), func(t *testing.T) {
			got, ok := r.Lookup(sig)
			require.True(t, ok)
			assert.Equal(t, tt.function, got.Function)
			require.Len(t, got.PropagateNullability, len(tt.params))
			for _, propagate := range got.PropagateNullability {
				assert.True(t, propagate)
			}
		})
	}
}

// TestLookupExactness 测试查找只接受完全匹配的签名
func TestLookupExactness(t *testing.T) {
	r := DefaultRegistry()
	misses := []Signature{
		FuzzyStringMatchSignature("FuzzyStringMatchLevenshtein", "string"),
		FuzzyStringMatchSignature("FuzzyStringMatchLevenshtein", "string", "string", "int"),
		FuzzyStringMatchSignature("FuzzyStringMatchLevenshtein", "string", "string", "int", "int"),
		FuzzyStringMatchSignature("FuzzyStringMatchLevenshteinLessEqual", "string", "string", "int", "int", "int"),
		FuzzyStringMatchSignature("FuzzyStringMatchSoundex", "String"),
		FuzzyStringMatchSignature("fuzzyStringMatchSoundex", "string"),
		FuzzyStringMatchSignature("FuzzyStringMatchSoundex", "string", "string"),
		FuzzyStringMatchSignature("FuzzyStringMatchMetaphone", "string", "long"),
		NewSignature(FuzzyStringMatchType, "FuzzyStringMatchSoundex", "string"),
		NewSignature("OtherExtensions", "FuzzyStringMatchSoundex", DbFunctionsType, "string"),
		NewSignature(RegexType, RegexIsMatchMethod, "string", "string"),
		{},
	}
	for _, sig := range misses {
		_, ok := r.Lookup(sig)
		assert.False(t, ok, sig.Key())
		assert.Nil(t, r.Translate(sig, nil), sig.Key())
	}
}

// TestLookupReturnsCopy 测试返回的掩码不共享内部状态
func TestLookupReturnsCopy(t *testing.T) {
	sig := FuzzyStringMatchSignature("FuzzyStringMatchDifference", "string", "string")
	first, ok := DefaultRegistry().Lookup(sig)
	require.True(t, ok)
	first.PropagateNullability[0] = false

	second, _ := DefaultRegistry().Lookup(sig)
	assert.Equal(t, []bool{true, true}, second.PropagateNullability)
}

// TestRegistryTranslate 测试翻译为函数调用并丢弃标记参数
func TestRegistryTranslate(t *testing.T) {
	s, u := text("s"), text("u")
	sig := FuzzyStringMatchSignature("FuzzyStringMatchLevenshtein", "string", "string")

	e := DefaultRegistry().Translate(sig, []sqlexpr.Expression{marker(), s, u})
	fn, ok := e.(*sqlexpr.Function)
	require.True(t, ok)
	assert.Equal(t, "levenshtein", fn.Name)
	assert.True(t, fn.IsNullable)
	assert.Equal(t, []bool{true, true}, fn.ArgumentsPropagateNullability)
	require.Len(t, fn.Args, 2)
	assert.Same(t, s, fn.Args[0])
	assert.Same(t, u, fn.Args[1])
	assert.Equal(t, sqlexpr.TypeInt, fn.Type())
	assert.Equal(t, "levenshtein(s, u)", fn.String())

	assert.Nil(t, DefaultRegistry().Translate(sig, []sqlexpr.Expression{s, u}), "marker argument is required")
}

// TestRegistryBuilder 测试构建器
func TestRegistryBuilder(t *testing.T) {
	b := NewRegistryBuilder()
	sig := NewSignature("Ext", "Reverse", DbFunctionsType, "string")
	require.NoError(t, b.Register(sig, "reverse", sqlexpr.TypeText))
	assert.Error(t, b.Register(sig, "reverse", sqlexpr.TypeText))
	assert.Error(t, b.Register(NewSignature("Ext", "Now"), "now", sqlexpr.TypeText))

	r := b.Build()
	assert.ErrorIs(t, b.Register(NewSignature("Ext", "Upper", DbFunctionsType, "string"), "upper", sqlexpr.TypeText), ErrRegistryBuilt)
	assert.Equal(t, 1, r.Len())
	assert.Equal(t, []string{"Ext.Reverse(DbFunctions,string)"}, r.Signatures())

	assert.Panics(t, func() { NewRegistryBuilder().MustRegister(NewSignature("Ext", "Now"), "now", sqlexpr.TypeText) })
}

// TestRegexTranslator 测试正则匹配翻译
func TestRegexTranslator(t *testing.T) {
	input := text("name")
	pattern := sqlexpr.NewConstant("^a", sqlexpr.TypeText, nil)
	withOptions := NewSignature(RegexType, RegexIsMatchMethod, "string", "string", RegexOptionsType)
	options := func(v any) sqlexpr.Expression {
		return sqlexpr.NewConstant(v, sqlexpr.TypeInt, nil)
	}
	tr := RegexTranslator{}

	e := tr.Translate(NewSignature(RegexType, RegexIsMatchMethod, "string", "string"), []sqlexpr.Expression{input, pattern})
	match, ok := e.(*sqlexpr.RegexMatch)
	require.True(t, ok)
	assert.Equal(t, sqlexpr.RegexNone, match.Options)
	assert.Same(t, input, match.Match)
	assert.Same(t, sqlexpr.TextMapping, match.Pattern.TypeMapping(), "pattern takes the inferred mapping")

	e = tr.Translate(withOptions, []sqlexpr.Expression{input, pattern, options(sqlexpr.RegexIgnoreCase | sqlexpr.RegexMultiline)})
	match, ok = e.(*sqlexpr.RegexMatch)
	require.True(t, ok)
	assert.Equal(t, sqlexpr.RegexIgnoreCase|sqlexpr.RegexMultiline, match.Options)

	rejected := []struct {
		name string
		opt  sqlexpr.Expression
	}{
		{"RightToLeft", options(sqlexpr.RegexRightToLeft)},
		{"ECMAScript", options(sqlexpr.RegexECMAScript | sqlexpr.RegexIgnoreCase)},
		{"非常量选项", sqlexpr.NewParameter("opts", sqlexpr.TypeInt, nil, false)},
		{"非选项类型常量", options(1)},
	}
	for _, tt := range rejected {
		t.Run(tt.name, func(t *testing.T) {
			assert.Nil(t, tr.Translate(withOptions, []sqlexpr.Expression{input, pattern, tt.opt}))
		})
	}

	assert.Nil(t, tr.Translate(NewSignature(RegexType, "Match", "string", "string"), []sqlexpr.Expression{input, pattern}))
}

// TestProvider 测试翻译器链
func TestProvider(t *testing.T) {
	p := DefaultProvider()
	s := text("s")

	e := p.Translate(FuzzyStringMatchSignature("FuzzyStringMatchSoundex", "string"), []sqlexpr.Expression{marker(), s})
	require.NotNil(t, e)
	assert.Equal(t, "soundex(s)", e.String())

	e = p.Translate(NewSignature(RegexType, RegexIsMatchMethod, "string", "string"), []sqlexpr.Expression{s, sqlexpr.Const("x", sqlexpr.TypeText)})
	require.NotNil(t, e)
	assert.IsType(t, &sqlexpr.RegexMatch{}, e)

	assert.Nil(t, p.Translate(NewSignature("String", "Contains", "string"), []sqlexpr.Expression{s}))
	assert.Nil(t, NewProvider().Translate(NewSignature(RegexType, RegexIsMatchMethod, "string", "string"), []sqlexpr.Expression{s, s}))
}

// TestSignatureParse 测试签名解析
func TestSignatureParse(t *testing.T) {
	sig, err := ParseSignature(" Regex.IsMatch( string , string, RegexOptions ) ")
	require.NoError(t, err)
	assert.Equal(t, NewSignature("Regex", "IsMatch", "string", "string", "RegexOptions"), sig)
	assert.Equal(t, "Regex.IsMatch(string,string,RegexOptions)", sig.Key())

	sig, err = ParseSignature("Ns.Type.Now()")
	require.NoError(t, err)
	assert.Equal(t, "Ns.Type", sig.DeclaringType)
	assert.Empty(t, sig.Parameters)

	for _, bad := range []string{"", "IsMatch(string)", "Regex.IsMatch", "Regex.(string)", "Regex.IsMatch(string,)"} {
		_, err := ParseSignature(bad)
		assert.Error(t, err, bad)
	}
}

// TestDefaultRegistryConcurrent 测试默认注册表并发读取
func TestDefaultRegistryConcurrent(t *testing.T) {
	sig := FuzzyStringMatchSignature("FuzzyStringMatchMetaphone", "string", "int")
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, ok := DefaultRegistry().Lookup(sig)
			assert.True(t, ok)
			assert.Equal(t, "metaphone", got.Function)
		}()
	}
	wg.Wait()
}
