package parser_test

import (
	"testing"

	"github.com/bmatsuo/rlisp/lisp"
	"github.com/bmatsuo/rlisp/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLVal(t *testing.T) {
	tests := []struct {
		source string
		forms  []string
	}{
		{"", nil},
		{"; only a comment", nil},
		{"1 2.5 -3 +4 1e3", []string{"1", "2.5", "-3", "4", "1000"}},
		{".5 (.5 x) .25e2", []string{"0.5", "(0.5 x)", "25"}},
		{`"abc" "a\tb"`, []string{`"abc"`, `"a\tb"`}},
		{"\"line one\nline two\"", []string{`"line one\nline two"`}},
		{"\"crlf\r\nline\"", []string{`"crlf\nline"`}},
		{`"""raw "quoted" text"""`, []string{`"raw \"quoted\" text"`}},
		{"foo .Bar :baz 1- 1+ /count even?", []string{"foo", ".Bar", ":baz", "1-", "1+", "/count", "even?"}},
		{"()", []string{"()"}},
		{"nil", []string{"()"}},
		{"(a b c)", []string{"(a b c)"}},
		{"(a (b c) ; comment\n d)", []string{"(a (b c) d)"}},
		{"(a . b)", []string{"(a . b)"}},
		{"(a b . (c d))", []string{"(a b c d)"}},
		{"[1 2 [3]]", []string{"[1 2 [3]]"}},
		{`{:a 1 "b" (+ 1 1)}`, []string{`{:a 1 "b" (+ 1 1)}`}},
		{"'x `(a ,b ,@c)", []string{"'x", "`(a ,b ,@c)"}},
	}
	for _, test := range tests {
		forms, err := parser.ParseLVal([]byte(test.source))
		if !assert.NoError(t, err, "source: %q", test.source) {
			continue
		}
		var strs []string
		for _, v := range forms {
			strs = append(strs, v.String())
		}
		assert.Equal(t, test.forms, strs, "source: %q", test.source)
	}
}

func TestParseLVal_location(t *testing.T) {
	forms, err := parser.ParseLVal([]byte("1\n  (foo\n    bar)"))
	require.NoError(t, err)
	require.Len(t, forms, 2)
	assert.Equal(t, 1, forms[0].Source.Line)
	assert.Equal(t, 2, forms[1].Source.Line)
	assert.Equal(t, 3, forms[1].Source.Col)
	bar, ok := lisp.GetCAR(forms[1].ConsData().CDR)
	require.True(t, ok)
	assert.Equal(t, 3, bar.Source.Line)
}

func TestParseLVal_errors(t *testing.T) {
	tests := []struct {
		source     string
		incomplete bool
	}{
		{"(a b", true},
		{"[1 2", true},
		{`{:a 1`, true},
		{`"unterminated`, true},
		{"'", true},
		{"(a))", false},
		{"]", false},
		{"{:a}", false},
		{"{(a) 1}", false},
		{"12abc", false},
		{"1.x", false},
		{".5x", false},
		{`"bad \q escape"`, false},
		{"(. a)", false},
		{"(a . b c)", false},
	}
	for _, test := range tests {
		_, err := parser.ParseLVal([]byte(test.source))
		if !assert.Error(t, err, "source: %q", test.source) {
			continue
		}
		assert.Equal(t, lisp.CondSyntaxError, lisp.ConditionOf(err), "source: %q", test.source)
		assert.Equal(t, test.incomplete, parser.IsIncomplete(err), "source: %q", test.source)
	}
}

func TestReader(t *testing.T) {
	env := lisp.NewEnv(nil)
	lerr := lisp.InitializeUserEnv(env, lisp.WithReader(parser.NewReader()))
	require.False(t, lerr.Type == lisp.LError, "%v", lerr)

	v := env.LoadString("test", "(defn double (x) (* 2 x)) (double 21)")
	assert.Equal(t, "42", v.String())

	v = env.LoadString("test", "(double")
	require.Equal(t, lisp.LError, v.Type)
	err := lisp.GoError(v)
	assert.Equal(t, lisp.CondSyntaxError, lisp.ConditionOf(err))
	assert.Contains(t, err.Error(), "test:1:1")
}
