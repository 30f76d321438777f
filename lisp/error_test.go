package lisp

import (
	"errors"
	"fmt"
	"testing"

	"github.com/bmatsuo/rlisp/parser/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrors(t *testing.T) {
	testerr := errors.New("test error message")
	lerr := Error(testerr)
	assert.Equal(t, "error: test error message", GoError(lerr).Error())
	assert.Equal(t, CondError, ConditionOf(GoError(lerr)))

	lerr = Errorf("test %s message", "formatted")
	assert.Equal(t, "error: test formatted message", GoError(lerr).Error())

	lerr = ErrorConditionf(CondTypeError, "bad %d", 3)
	assert.Equal(t, "type-error: bad 3", lerr.String())

	// a wrapped lisp error is unwrapped rather than wrapped again
	wrapped := fmt.Errorf("context: %w", GoError(lerr))
	assert.Equal(t, CondTypeError, ConditionOf(wrapped))
	assert.Same(t, lerr, Error(wrapped))

	assert.Equal(t, "", ConditionOf(testerr))
	assert.Nil(t, GoError(Int(1)))
}

func TestRuntimeErrors(t *testing.T) {
	env := NewEnv(nil)
	lerr := InitializeUserEnv(env)
	require.NoError(t, GoError(lerr))

	testsrc := ListOf(
		Symbol("error"),
		ListOf(Symbol(QuoteSymbol), Symbol("test-error")),
		String("test error message"),
	)
	lerr = env.Eval(testsrc)
	assert.Equal(t, "test-error: test error message", GoError(lerr).Error())
	assert.Equal(t, "test-error", ConditionOf(GoError(lerr)))

	// errors take the location of the form being evaluated
	testsrc = ListOf(Symbol("car"), Int(1))
	testsrc.Source = &token.Location{File: "test", Line: 3, Col: 5}
	lerr = env.Eval(testsrc)
	require.Equal(t, LError, lerr.Type)
	e := (*ErrorVal)(lerr)
	assert.Equal(t, "test:3:5: type-error: car: first argument is not a list: int", e.Error())
	assert.Equal(t, 1, lerr.Int)
	if assert.NotNil(t, e.Stack()) {
		assert.Equal(t, 1, e.Stack().Height())
		assert.Equal(t, "car", e.Stack().Top().FunName())
	}
	assert.Equal(t, 0, env.Runtime.Stack.Height())
}
