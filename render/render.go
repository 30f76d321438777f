// Package render evaluates rlisp programs against host data and collects the
// text they print.
package render

import (
	"bytes"
	"io"
	"strings"

	"github.com/bmatsuo/rlisp/lisp"
	"github.com/bmatsuo/rlisp/lisp/lisplib"
	"github.com/bmatsuo/rlisp/parser"
)

// DefaultSourceName is the file name reported in the locations of errors
// raised by programs passed to Render and Evaluate.
const DefaultSourceName = "render"

// NewEnv returns a root environment with the core builtins, a reader and the
// standard library.  Additional configuration is applied afterwards, so it
// may override the defaults.
func NewEnv(config ...lisp.Config) (*lisp.LEnv, error) {
	env := lisp.NewEnv(nil)
	cfg := []lisp.Config{
		lisp.WithReader(parser.NewReader()),
		lisp.WithLibrary(lisplib.LoadLibrary),
	}
	cfg = append(cfg, config...)
	lerr := lisp.InitializeUserEnv(env, cfg...)
	if lerr.Type == lisp.LError {
		return nil, lisp.GoError(lerr)
	}
	return env, nil
}

// Render evaluates each top-level form of program in env and returns the
// text printed by println and print.  When evaluation fails the text printed
// before the failure is returned along with a *lisp.ErrorVal.
func Render(program string, env *lisp.LEnv) (string, error) {
	return RenderFile(DefaultSourceName, strings.NewReader(program), env)
}

// RenderFile is like Render but reads the program from r.  The name is used
// in error locations.
func RenderFile(name string, r io.Reader, env *lisp.LEnv) (string, error) {
	rt := env.Runtime
	rt.Lock()
	defer rt.Unlock()

	var buf bytes.Buffer
	restore := rt.SwapStdout(&buf)
	defer restore()

	v := env.Load(name, r)
	return buf.String(), lisp.GoError(v)
}

// Evaluate evaluates expr in env and returns the value of its last form.
// The last form is evaluated as (return form), so a program that returns
// early produces the returned value.
func Evaluate(expr string, env *lisp.LEnv) (*lisp.LVal, error) {
	rt := env.Runtime
	rt.Lock()
	defer rt.Unlock()

	if rt.Reader == nil {
		return nil, lisp.GoError(env.Errorf("no reader for environment runtime"))
	}
	forms, err := rt.Reader.Read(DefaultSourceName, strings.NewReader(expr))
	if err != nil {
		return nil, lisp.GoError(env.Error(err))
	}
	if len(forms) > 0 {
		last := forms[len(forms)-1]
		ret := lisp.ListOf(lisp.Symbol(lisp.ReturnSymbol), last)
		ret.Source = last.Source
		forms[len(forms)-1] = ret
	}
	v := env.LoadForms(forms)
	if v.Type == lisp.LError {
		return nil, lisp.GoError(v)
	}
	return v, nil
}
