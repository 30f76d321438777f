// Package libmarkdown renders CommonMark text to HTML.
package libmarkdown

import (
	"bytes"

	"github.com/bmatsuo/rlisp/lisp"
	"github.com/bmatsuo/rlisp/lisp/lisplib/internal/libutil"
	"github.com/yuin/goldmark"
)

// LoadPackage adds the markdown functions to env
func LoadPackage(env *lisp.LEnv) *lisp.LVal {
	return libutil.Load(env, Builtins(goldmark.New()))
}

// Builtins returns the markdown functions, which convert text using md.
func Builtins(md goldmark.Markdown) []*libutil.Builtin {
	return []*libutil.Builtin{
		libutil.Function("markdown", lisp.Formals("text"), func(env *lisp.LEnv, args *lisp.LVal) *lisp.LVal {
			text, lerr := libutil.StringArg(env, args, 0)
			if lerr != nil {
				return lerr
			}
			var buf bytes.Buffer
			err := md.Convert([]byte(text), &buf)
			if err != nil {
				return env.Errorf("markdown: %v", err)
			}
			return lisp.String(buf.String())
		}),
	}
}
