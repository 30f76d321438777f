package libregexp_test

import (
	"testing"

	"github.com/bmatsuo/rlisp/lisp"
	"github.com/bmatsuo/rlisp/lisp/lisplib/libregexp"
	"github.com/bmatsuo/rlisp/render"
	"github.com/bmatsuo/rlisp/rlisptest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPackage(t *testing.T) {
	r := &rlisptest.Runner{}
	r.RunTestFile(t, "regexp_test.lisp")
}

func TestInvalidPattern(t *testing.T) {
	env, err := render.NewEnv()
	require.NoError(t, err)
	_, err = render.Evaluate(`(regexp-compile "(unclosed")`, env)
	require.Error(t, err)
	assert.Equal(t, libregexp.CondInvalidPattern, lisp.ConditionOf(err))
}
