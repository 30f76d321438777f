package libjson

import (
	"github.com/bmatsuo/rlisp/lisp"
	"github.com/bmatsuo/rlisp/lisp/lisplib/internal/libutil"
	"github.com/bmatsuo/rlisp/lisp/lispjson"
)

// LoadPackage adds the json functions to env
func LoadPackage(env *lisp.LEnv) *lisp.LVal {
	return libutil.Load(env, Builtins(lispjson.DefaultSerializer))
}

// Builtins takes the default serializer for a lisp environment and returns a
// set of builtin functions that use it.
func Builtins(s *lispjson.Serializer) []*libutil.Builtin {
	fns := &serializerFuns{s}
	return []*libutil.Builtin{
		libutil.Function("json-encode", lisp.Formals("object", lisp.OptArgSymbol, "indent"), fns.builtinEncode),
		libutil.Function("json-decode", lisp.Formals("json-string"), fns.builtinDecode),
	}
}

type serializerFuns struct {
	s *lispjson.Serializer
}

func (fns *serializerFuns) builtinEncode(env *lisp.LEnv, args *lisp.LVal) *lisp.LVal {
	obj, indent := args.Cells[0], args.Cells[1]
	s := fns.s
	if !indent.IsNil() {
		if indent.Type != lisp.LString {
			return env.ArgTypeError(2, "a string", indent)
		}
		cp := *s
		cp.Indent = indent.Str
		s = &cp
	}
	b, err := s.Dump(obj)
	if err != nil {
		return env.Errorf("json-encode: %v", err)
	}
	return lisp.String(string(b))
}

func (fns *serializerFuns) builtinDecode(env *lisp.LEnv, args *lisp.LVal) *lisp.LVal {
	js, lerr := libutil.StringArg(env, args, 0)
	if lerr != nil {
		return lerr
	}
	v := fns.s.Load([]byte(js))
	if v.Type == lisp.LError {
		return env.Errorf("json-decode: %v", lisp.GoError(v))
	}
	return v
}
