// Package lisplib is used to conveniently load the standard library for the
// rlisp environment
package lisplib

import (
	"github.com/bmatsuo/rlisp/lisp"
	"github.com/bmatsuo/rlisp/lisp/lisplib/libjson"
	"github.com/bmatsuo/rlisp/lisp/lisplib/libmarkdown"
	"github.com/bmatsuo/rlisp/lisp/lisplib/libmath"
	"github.com/bmatsuo/rlisp/lisp/lisplib/libregexp"
	"github.com/bmatsuo/rlisp/lisp/lisplib/libstring"
	"github.com/bmatsuo/rlisp/lisp/lisplib/libtime"
)

// Loaders lists the library packages loaded by LoadLibrary in order.  The
// testing package is not included; test runners load it separately.
var Loaders = []lisp.Loader{
	libtime.LoadPackage,
	libmath.LoadPackage,
	libstring.LoadPackage,
	libjson.LoadPackage,
	libregexp.LoadPackage,
	libmarkdown.LoadPackage,
}

// LoadLibrary loads the standard library into env.
func LoadLibrary(env *lisp.LEnv) *lisp.LVal {
	for _, load := range Loaders {
		e := load(env)
		if e.Type == lisp.LError {
			return e
		}
	}
	return lisp.Nil()
}
