package lisp_test

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/bmatsuo/rlisp/lisp"
	"github.com/bmatsuo/rlisp/rlisptest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type product struct {
	Name   string
	Price  float64
	Tags   []string
	secret int
}

func (p *product) Discount(pct float64) float64 {
	return p.Price * (1 - pct/100)
}

func (p *product) Restock(n int) (int, error) {
	if n < 0 {
		return 0, errors.New("negative restock")
	}
	return n, nil
}

type resolver map[string]interface{}

func (r resolver) Resolve(member string) (interface{}, bool) {
	v, ok := r[member]
	return v, ok
}

func TestMemberAccess(t *testing.T) {
	r := &rlisptest.Runner{}
	env, err := r.NewEnv()
	require.NoError(t, err)
	require.NoError(t, env.Set("p", &product{Name: "Chai", Price: 18, Tags: []string{"tea"}, secret: 1}))
	require.NoError(t, env.Set("r", resolver{
		"Count": 3,
		"Upper": strings.ToUpper,
	}))
	require.NoError(t, env.Set("nothing", (*product)(nil)))
	require.NoError(t, env.Set("when", time.Date(1997, 3, 21, 0, 0, 0, 0, time.UTC)))

	tests := []struct {
		expr   string
		result string
		cond   string
	}{
		{`(.Name p)`, `"Chai"`, ""},
		{`(.Price p)`, `18`, ""},
		{`(.Tags p)`, `("tea")`, ""},
		{`(.Discount p 50)`, `9`, ""},
		{`(.Restock p 4)`, `4`, ""},
		{`(.Year when)`, `1997`, ""},
		{`(.Count r)`, `3`, ""},
		{`(.Upper r "abc")`, `"ABC"`, ""},
		{`(map (fn (x) (.Name x)) (list p p))`, `("Chai" "Chai")`, ""},
		{`(.Restock p -1)`, "", lisp.CondHostAccess},
		{`(.Discount p "x")`, "", lisp.CondHostAccess},
		{`(.Discount p)`, "", lisp.CondHostAccess},
		{`(.secret p)`, "", lisp.CondHostAccess},
		{`(.Missing p)`, "", lisp.CondHostAccess},
		{`(.Nope r)`, "", lisp.CondHostAccess},
		{`(.Count r 1)`, "", lisp.CondHostAccess},
		{`(.Name nothing)`, "", lisp.CondHostAccess},
		{`(.Name 1)`, "", lisp.CondHostAccess},
		{`(.Name)`, "", lisp.CondEvalError},
	}
	for _, test := range tests {
		v := env.LoadString("test", test.expr)
		if test.cond != "" {
			if assert.Equal(t, lisp.LError, v.Type, "%s: %v", test.expr, v) {
				assert.Equal(t, test.cond, lisp.ConditionOf(lisp.GoError(v)), "%s: %v", test.expr, v)
			}
			continue
		}
		assert.Equal(t, test.result, v.String(), test.expr)
	}
}

func TestFromGo(t *testing.T) {
	tests := []struct {
		x      interface{}
		result string
	}{
		{nil, `()`},
		{true, `true`},
		{uint8(7), `7`},
		{float32(1.5), `1.5`},
		{"s", `"s"`},
		{[]int{1, 2}, `(1 2)`},
		{[2]string{"a", "b"}, `("a" "b")`},
		{[]int(nil), `()`},
		{map[string]interface{}{"b": 1, "a": []interface{}{"x"}}, `{"a" ("x") "b" 1}`},
		{map[string]float64{"z": 21.35}, `{"z" 21.35}`},
		{lisp.Int(3), `3`},
	}
	for _, test := range tests {
		assert.Equal(t, test.result, lisp.FromGo(test.x).String(), "%#v", test.x)
	}

	v := lisp.FromGo(&product{Name: "Chai"})
	assert.Equal(t, lisp.LNative, v.Type)
}

func TestInterface(t *testing.T) {
	m := lisp.NewMap(2)
	require.NoError(t, m.MapData().Set(lisp.Keyword("name"), lisp.String("Chai")))
	require.NoError(t, m.MapData().Set(lisp.String("tags"), lisp.ListOf(lisp.Symbol("true"), lisp.Float(2.5))))
	assert.Equal(t, map[string]interface{}{
		"name": "Chai",
		"tags": []interface{}{true, 2.5},
	}, m.Interface())
	assert.Equal(t, []interface{}{1, "a"}, lisp.Vector([]*lisp.LVal{lisp.Int(1), lisp.String("a")}).Interface())
	assert.Nil(t, lisp.Nil().Interface())
}

func TestStackOverflow(t *testing.T) {
	r := &rlisptest.Runner{}
	env, err := r.NewEnv()
	require.NoError(t, err)
	lerr := lisp.WithMaximumStackHeight(100)(env)
	require.Equal(t, lisp.LNil, lerr.Type)

	v := env.LoadString("test", `(defn deep (n) (if (zero? n) 0 (+ 1 (deep (- n 1)))))`)
	require.NotEqual(t, lisp.LError, v.Type, "%v", v)

	v = env.LoadString("test", `(deep 10)`)
	assert.Equal(t, "10", v.String())

	v = env.LoadString("test", `(deep 1000)`)
	require.Equal(t, lisp.LError, v.Type)
	assert.Equal(t, lisp.CondStackOverflow, lisp.ConditionOf(lisp.GoError(v)))
	assert.Equal(t, 0, env.Runtime.Stack.Height())

	v = env.LoadString("test", `(deep 10)`)
	assert.Equal(t, "10", v.String())
}
