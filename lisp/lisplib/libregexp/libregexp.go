package libregexp

import (
	"regexp"

	"github.com/bmatsuo/rlisp/lisp"
	"github.com/bmatsuo/rlisp/lisp/lisplib/internal/libutil"
)

// CondInvalidPattern is the condition of errors caused by malformed regular
// expressions.
const CondInvalidPattern = "invalid-regexp-pattern"

// LoadPackage adds the regexp functions to env
func LoadPackage(env *lisp.LEnv) *lisp.LVal {
	return libutil.Load(env, builtins)
}

var builtins = []*libutil.Builtin{
	libutil.Function("regexp-compile", lisp.Formals("pattern"), BuiltinCompile),
	libutil.Function("regexp-pattern", lisp.Formals("re"), BuiltinPattern),
	libutil.Function("regexp-match?", lisp.Formals("re", "text"), BuiltinIsMatch),
	libutil.Function("regexp-find-all", lisp.Formals("re", "text"), BuiltinFindAll),
	libutil.Function("regexp-replace-all", lisp.Formals("re", "text", "replacement"), BuiltinReplaceAll),
}

func BuiltinCompile(env *lisp.LEnv, args *lisp.LVal) *lisp.LVal {
	patt, lerr := libutil.StringArg(env, args, 0)
	if lerr != nil {
		return lerr
	}
	re, err := regexp.Compile(patt)
	if err != nil {
		return env.ErrorCondition(CondInvalidPattern, err)
	}
	return lisp.Native(re)
}

func BuiltinPattern(env *lisp.LEnv, args *lisp.LVal) *lisp.LVal {
	re, lerr := getRegexp(env, args, 0)
	if lerr != nil {
		return lerr
	}
	return lisp.String(re.String())
}

func BuiltinIsMatch(env *lisp.LEnv, args *lisp.LVal) *lisp.LVal {
	re, lerr := getRegexp(env, args, 0)
	if lerr != nil {
		return lerr
	}
	text, lerr := libutil.StringArg(env, args, 1)
	if lerr != nil {
		return lerr
	}
	return lisp.Bool(re.MatchString(text))
}

func BuiltinFindAll(env *lisp.LEnv, args *lisp.LVal) *lisp.LVal {
	re, lerr := getRegexp(env, args, 0)
	if lerr != nil {
		return lerr
	}
	text, lerr := libutil.StringArg(env, args, 1)
	if lerr != nil {
		return lerr
	}
	var b lisp.ListBuilder
	for _, m := range re.FindAllString(text, -1) {
		b.Append(lisp.String(m))
	}
	return b.List()
}

func BuiltinReplaceAll(env *lisp.LEnv, args *lisp.LVal) *lisp.LVal {
	re, lerr := getRegexp(env, args, 0)
	if lerr != nil {
		return lerr
	}
	text, lerr := libutil.StringArg(env, args, 1)
	if lerr != nil {
		return lerr
	}
	repl, lerr := libutil.StringArg(env, args, 2)
	if lerr != nil {
		return lerr
	}
	return lisp.String(re.ReplaceAllString(text, repl))
}

// getRegexp accepts a compiled regexp or a pattern string.
func getRegexp(env *lisp.LEnv, args *lisp.LVal, i int) (*regexp.Regexp, *lisp.LVal) {
	v := args.Cells[i]
	if v.Type == lisp.LString {
		re, err := regexp.Compile(v.Str)
		if err != nil {
			return nil, env.ErrorCondition(CondInvalidPattern, err)
		}
		return re, nil
	}
	x, lerr := libutil.NativeArg(env, args, i, "a regexp")
	if lerr != nil {
		return nil, lerr
	}
	re, ok := x.(*regexp.Regexp)
	if !ok {
		return nil, env.ArgTypeError(i+1, "a regexp", v)
	}
	return re, nil
}
