package libtesting

import (
	"fmt"

	"github.com/bmatsuo/rlisp/lisp"
	"github.com/bmatsuo/rlisp/lisp/lisplib/internal/libutil"
)

// DefaultSuiteSymbol is the root binding that holds the TestSuite of an
// environment.
const DefaultSuiteSymbol = "test-suite"

// CondAssert is the condition of errors signaled by failed assertions.
const CondAssert = "assertion-failure"

// LoadPackage adds the testing operators to env and binds a new TestSuite
// which collects the tests the environment defines.
func LoadPackage(env *lisp.LEnv) *lisp.LVal {
	suite := NewTestSuite()
	root := env.Root()
	lerr := root.Put(lisp.Symbol(DefaultSuiteSymbol), lisp.Native(suite))
	if lerr.Type == lisp.LError {
		return lerr
	}
	return libutil.LoadSpecialOps(env, suite.Ops())
}

// TestSuite is an ordered set of named tests.
type TestSuite struct {
	tests map[string]*Test
	order []string
}

func NewTestSuite() *TestSuite {
	return &TestSuite{
		tests: make(map[string]*Test),
	}
}

func (s *TestSuite) Add(t *Test) error {
	if s.tests[t.Name] != nil {
		return fmt.Errorf("test with the same name already defined: %v", t.Name)
	}
	s.order = append(s.order, t.Name)
	s.tests[t.Name] = t
	return nil
}

func (s *TestSuite) Len() int {
	return len(s.order)
}

func (s *TestSuite) Test(i int) *Test {
	return s.tests[s.order[i]]
}

func (s *TestSuite) Ops() []*libutil.Builtin {
	return []*libutil.Builtin{
		libutil.Function("test", lisp.Formals("name", lisp.VarArgSymbol, "exprs"), s.OpTest),
		libutil.Function("assert", lisp.Formals("expr"), opAssert),
		libutil.Function("assert=", lisp.Formals("expected", "expr"), opAssertEqual),
		libutil.Function("assert-nil", lisp.Formals("expr"), opAssertNil),
	}
}

func (s *TestSuite) OpTest(env *lisp.LEnv, args *lisp.LVal) *lisp.LVal {
	name, exprs := args.Cells[0], args.Cells[1:]
	if name.Type != lisp.LString {
		return env.ArgTypeError(1, "a string", name)
	}
	fun := env.Lambda(lisp.Nil(), exprs)
	if fun.Type == lisp.LError {
		return fun
	}
	test := &Test{
		Name: name.Str,
		Fun:  fun,
	}
	err := s.Add(test)
	if err != nil {
		return env.Error(err)
	}
	return lisp.Nil()
}

func opAssert(env *lisp.LEnv, args *lisp.LVal) *lisp.LVal {
	v := env.Eval(args.Cells[0])
	if v.Type == lisp.LError {
		return v
	}
	if lisp.Not(v) {
		return env.ErrorConditionf(CondAssert, "assertion failed: %v", args.Cells[0])
	}
	return lisp.Nil()
}

func opAssertEqual(env *lisp.LEnv, args *lisp.LVal) *lisp.LVal {
	expect := env.Eval(args.Cells[0])
	if expect.Type == lisp.LError {
		return expect
	}
	v := env.Eval(args.Cells[1])
	if v.Type == lisp.LError {
		return v
	}
	if !lisp.Equal(expect, v) {
		return env.ErrorConditionf(CondAssert, "expected %v but %v evaluated to %v", expect, args.Cells[1], v)
	}
	return lisp.Nil()
}

func opAssertNil(env *lisp.LEnv, args *lisp.LVal) *lisp.LVal {
	v := env.Eval(args.Cells[0])
	if v.Type == lisp.LError {
		return v
	}
	if !v.IsNil() {
		return env.ErrorConditionf(CondAssert, "expected nil but %v evaluated to %v", args.Cells[0], v)
	}
	return lisp.Nil()
}

type Test struct {
	Name string
	Fun  *lisp.LVal
}

// EnvTestSuite returns the TestSuite bound in the root of env or nil.
func EnvTestSuite(env *lisp.LEnv) *TestSuite {
	lsuite := env.Root().Get(lisp.Symbol(DefaultSuiteSymbol))
	if lsuite.Type != lisp.LNative {
		return nil
	}
	suite, _ := lsuite.Native.(*TestSuite)
	return suite
}
