package libutil

import (
	"github.com/bmatsuo/rlisp/lisp"
)

// Builtin is a function defined by a library package.
type Builtin struct {
	name    string
	formals *lisp.LVal
	fn      lisp.LBuiltin
}

// Function returns a Builtin that binds fn to name.
func Function(name string, formals *lisp.LVal, fn lisp.LBuiltin) *Builtin {
	return &Builtin{name, formals, fn}
}

// Name implements lisp.LBuiltinDef.
func (fun *Builtin) Name() string {
	return fun.name
}

// Formals implements lisp.LBuiltinDef.
func (fun *Builtin) Formals() *lisp.LVal {
	return fun.formals
}

// Eval implements lisp.LBuiltinDef.
func (fun *Builtin) Eval(env *lisp.LEnv, args *lisp.LVal) *lisp.LVal {
	return fun.fn(env, args)
}

// Load binds builtins in the root of env.  It is an error for a library to
// define a name that is already bound.
func Load(env *lisp.LEnv, builtins []*Builtin) *lisp.LVal {
	defs, lerr := checkUnbound(env.Root(), builtins)
	if lerr != nil || len(defs) == 0 {
		return lerr
	}
	env.Root().AddBuiltins(defs...)
	return lisp.Nil()
}

// LoadSpecialOps binds ops as special operators in the root of env.
func LoadSpecialOps(env *lisp.LEnv, ops []*Builtin) *lisp.LVal {
	defs, lerr := checkUnbound(env.Root(), ops)
	if lerr != nil || len(defs) == 0 {
		return lerr
	}
	env.Root().AddSpecialOps(defs...)
	return lisp.Nil()
}

func checkUnbound(root *lisp.LEnv, builtins []*Builtin) ([]lisp.LBuiltinDef, *lisp.LVal) {
	if len(builtins) == 0 {
		// AddBuiltins and AddSpecialOps treat an empty list as a request for
		// the defaults.
		return nil, lisp.Nil()
	}
	defs := make([]lisp.LBuiltinDef, len(builtins))
	for i, fn := range builtins {
		if root.Get(lisp.Symbol(fn.name)).Type != lisp.LError {
			return nil, root.Errorf("library function already defined: %s", fn.name)
		}
		defs[i] = fn
	}
	return defs, nil
}

// StringArg returns the string value of the argument at index i.
func StringArg(env *lisp.LEnv, args *lisp.LVal, i int) (string, *lisp.LVal) {
	v := args.Cells[i]
	if v.Type != lisp.LString {
		return "", env.ArgTypeError(i+1, "a string", v)
	}
	return v.Str, nil
}

// NumberArg returns the argument at index i converted to a float64.
func NumberArg(env *lisp.LEnv, args *lisp.LVal, i int) (float64, *lisp.LVal) {
	v := args.Cells[i]
	switch v.Type {
	case lisp.LInt:
		return float64(v.Int), nil
	case lisp.LFloat:
		return v.Float, nil
	}
	return 0, env.ArgTypeError(i+1, "a number", v)
}

// NativeArg returns the host value of the argument at index i.
func NativeArg(env *lisp.LEnv, args *lisp.LVal, i int, want string) (interface{}, *lisp.LVal) {
	v := args.Cells[i]
	if v.Type != lisp.LNative {
		return nil, env.ArgTypeError(i+1, want, v)
	}
	return v.Native, nil
}
