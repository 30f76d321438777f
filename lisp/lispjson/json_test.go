package lispjson

import (
	"testing"
	"time"

	"github.com/bmatsuo/rlisp/lisp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		json   string
		result string
	}{
		{`null`, `()`},
		{`true`, `true`},
		{`[1, 2.5, "x", false]`, `(1 2.5 "x" false)`},
		{`{"b": 1, "a": {"c": []}}`, `{"b" 1 "a" {"c" ()}}`},
		{`1e2`, `100`},
	}
	for _, test := range tests {
		v := Load([]byte(test.json))
		require.NotEqual(t, lisp.LError, v.Type, "%s: %v", test.json, v)
		assert.Equal(t, test.result, v.String(), test.json)
	}

	v := Load([]byte(`{"a": `))
	assert.Equal(t, lisp.LError, v.Type)
	v = Load([]byte(`1 2`))
	assert.Equal(t, lisp.LError, v.Type)
}

func TestDump(t *testing.T) {
	m := lisp.NewMap(3)
	require.NoError(t, m.MapData().Set(lisp.Keyword("zeta"), lisp.Int(1)))
	require.NoError(t, m.MapData().Set(lisp.String("alpha"), lisp.ListOf(lisp.Bool(true), lisp.Nil())))
	require.NoError(t, m.MapData().Set(lisp.Symbol("when"), lisp.Native(time.Date(1997, 3, 21, 0, 0, 0, 0, time.UTC))))
	b, err := Dump(m)
	require.NoError(t, err)
	assert.Equal(t, `{"zeta":1,"alpha":[true,[]],"when":"1997-03-21T00:00:00Z"}`, string(b))

	_, err = Dump(lisp.Cons(lisp.Int(1), lisp.Int(2)))
	assert.Error(t, err)

	s := &Serializer{Indent: "  "}
	b, err = s.Dump(lisp.Vector([]*lisp.LVal{lisp.Float(21.35)}))
	require.NoError(t, err)
	assert.Equal(t, "[\n  21.35\n]", string(b))
}
