// Package rlisptest runs lisp expressions and lisp test files as Go tests.
package rlisptest

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/bmatsuo/rlisp/lisp"
	"github.com/bmatsuo/rlisp/lisp/lisplib"
	"github.com/bmatsuo/rlisp/lisp/lisplib/libtesting"
	"github.com/bmatsuo/rlisp/parser"
)

// Runner is a test runner.
type Runner struct {
	// Loader is the package loader used to initialize the test environment.
	// When Loader is nil lisplib.LoadLibrary is used.
	Loader lisp.Loader
}

// NewEnv returns a root environment with the library and the testing
// package loaded.
func (r *Runner) NewEnv() (*lisp.LEnv, error) {
	loader := r.Loader
	if loader == nil {
		loader = lisplib.LoadLibrary
	}
	env := lisp.NewEnv(nil)
	lerr := lisp.InitializeUserEnv(env,
		lisp.WithReader(parser.NewReader()),
		lisp.WithLibrary(loader, libtesting.LoadPackage))
	if lerr.Type == lisp.LError {
		return nil, fmt.Errorf("failed to initialize lisp environment: %v", lerr)
	}
	return env, nil
}

// RunTestFile loads the lisp file at path and runs each test it defines as a
// subtest of t.  Every test runs in a freshly loaded environment.
func (r *Runner) RunTestFile(t *testing.T, path string) {
	source, err := os.ReadFile(path)
	if err != nil {
		t.Errorf("Unable to read test file: %v", err)
		return
	}

	var names []string
	ok := t.Run("$load", func(t *testing.T) {
		suite := r.loadSuite(t, path, source)
		if suite == nil {
			return
		}
		names = make([]string, suite.Len())
		for i := range names {
			names[i] = suite.Test(i).Name
		}
	})
	if !ok {
		return
	}

	for i := range names {
		// The result of t.Run is not checked because all independent tests
		// should run during a single run of the suite.  An assertion failure
		// within a test stops evaluation of that test only.
		i := i
		t.Run(names[i], func(t *testing.T) {
			suite := r.loadSuite(t, path, source)
			if suite == nil {
				return
			}
			ltest := suite.Test(i)
			lerr := suite.Env.Apply(ltest.Fun)
			if lerr.Type == lisp.LError {
				t.Errorf("%s: %v", ltest.Name, lisp.GoError(lerr))
				logStack(t, lerr)
			}
		})
	}
}

type loadedSuite struct {
	*libtesting.TestSuite
	Env *lisp.LEnv
}

func (r *Runner) loadSuite(t *testing.T, path string, source []byte) *loadedSuite {
	env, err := r.NewEnv()
	if err != nil {
		t.Error(err.Error())
		return nil
	}
	lerr := env.Load(filepath.Base(path), bytes.NewReader(source))
	if lerr.Type == lisp.LError {
		t.Error(lisp.GoError(lerr))
		logStack(t, lerr)
		return nil
	}
	suite := libtesting.EnvTestSuite(env)
	if suite == nil {
		t.Errorf("unable to locate test suite")
		return nil
	}
	return &loadedSuite{suite, env}
}

func logStack(t *testing.T, lerr *lisp.LVal) {
	stack := lerr.CallStack()
	if stack == nil || stack.Height() == 0 {
		return
	}
	var buf bytes.Buffer
	_, _ = stack.DebugPrint(&buf)
	t.Log(buf.String())
}

// TestSequence is a sequence of lisp expressions which are evaluated
// sequentially by a lisp.LEnv.
type TestSequence []struct {
	Expr   string // a lisp expression
	Result string // the evaluated result
	Output string // text printed during evaluation
}

// TestSuite is a set of named TestSequences
type TestSuite []struct {
	Name string
	TestSequence
}

// RunTestSuite runs each TestSequence in tests on isolated lisp.LEnvs.
func RunTestSuite(t *testing.T, tests TestSuite) {
	r := &Runner{}
	for i, test := range tests {
		env, err := r.NewEnv()
		if err != nil {
			t.Fatalf("test %d %q: %v", i, test.Name, err)
		}
		var out bytes.Buffer
		env.Runtime.Stdout = &out
		env.Runtime.Stderr = &out
		for j, expr := range test.TestSequence {
			out.Reset()
			v, err := parser.ParseLVal([]byte(expr.Expr))
			if err != nil {
				t.Errorf("test %d %q: expr %d: parse error: %v", i, test.Name, j, err)
				continue
			}
			if len(v) == 0 {
				t.Errorf("test %d %q: expr %d: no expression parsed", i, test.Name, j)
				continue
			}
			if len(v) != 1 {
				t.Errorf("test %d %q: expr %d: more than one expression parsed (%d)", i, test.Name, j, len(v))
				continue
			}
			result := env.Eval(v[0]).String()
			if result != expr.Result {
				t.Errorf("test %d %q: expr %d: expected result %s (got %s)", i, test.Name, j, expr.Result, result)
			}
			if out.String() != expr.Output {
				t.Errorf("test %d %q: expr %d: expected output %q (got %q)", i, test.Name, j, expr.Output, out.String())
			}
		}
	}
}
