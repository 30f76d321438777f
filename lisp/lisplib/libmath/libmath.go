package libmath

import (
	"math"

	"github.com/bmatsuo/rlisp/lisp"
	"github.com/bmatsuo/rlisp/lisp/lisplib/internal/libutil"
)

// LoadPackage adds the math functions and the constants inf and -inf to env
func LoadPackage(env *lisp.LEnv) *lisp.LVal {
	root := env.Root()
	root.Put(lisp.Symbol("inf"), lisp.Float(math.Inf(1)))
	root.Put(lisp.Symbol("-inf"), lisp.Float(math.Inf(-1)))
	return libutil.Load(env, builtins)
}

var builtins = []*libutil.Builtin{
	libutil.Function("ceil", lisp.Formals("number"), builtinCeil),
	libutil.Function("floor", lisp.Formals("number"), builtinFloor),
	libutil.Function("round", lisp.Formals("number", lisp.OptArgSymbol, "decimals"), builtinRound),
	libutil.Function("abs", lisp.Formals("number"), builtinAbs),
	libutil.Function("sqrt", lisp.Formals("number"), builtinSqrt),
	libutil.Function("exp", lisp.Formals("number"), builtinExp),
	libutil.Function("ln", lisp.Formals("number"), builtinLn),
	libutil.Function("log", lisp.Formals("base", "number"), builtinLog),
	libutil.Function("pow", lisp.Formals("base", "exponent"), builtinPow),
	libutil.Function("max", lisp.Formals("x", lisp.VarArgSymbol, "rest"), builtinMax),
	libutil.Function("min", lisp.Formals("x", lisp.VarArgSymbol, "rest"), builtinMin),
}

// integral converts x to an int when it is finite and fits.
func integral(x float64) *lisp.LVal {
	if math.IsInf(x, 0) || math.IsNaN(x) || x > math.MaxInt64 || x < math.MinInt64 {
		return lisp.Float(x)
	}
	return lisp.Int(int(x))
}

func builtinCeil(env *lisp.LEnv, args *lisp.LVal) *lisp.LVal {
	x, lerr := libutil.NumberArg(env, args, 0)
	if lerr != nil {
		return lerr
	}
	if args.Cells[0].Type == lisp.LInt {
		return args.Cells[0]
	}
	return integral(math.Ceil(x))
}

func builtinFloor(env *lisp.LEnv, args *lisp.LVal) *lisp.LVal {
	x, lerr := libutil.NumberArg(env, args, 0)
	if lerr != nil {
		return lerr
	}
	if args.Cells[0].Type == lisp.LInt {
		return args.Cells[0]
	}
	return integral(math.Floor(x))
}

// builtinRound rounds half away from zero.  With a number of decimals the
// result is a float rounded to that many places.
func builtinRound(env *lisp.LEnv, args *lisp.LVal) *lisp.LVal {
	x, lerr := libutil.NumberArg(env, args, 0)
	if lerr != nil {
		return lerr
	}
	dec := args.Cells[1]
	if dec.IsNil() {
		if args.Cells[0].Type == lisp.LInt {
			return args.Cells[0]
		}
		return integral(math.Round(x))
	}
	if dec.Type != lisp.LInt || dec.Int < 0 {
		return env.ArgTypeError(2, "a non-negative int", dec)
	}
	scale := math.Pow(10, float64(dec.Int))
	return lisp.Float(math.Round(x*scale) / scale)
}

func builtinAbs(env *lisp.LEnv, args *lisp.LVal) *lisp.LVal {
	x := args.Cells[0]
	switch x.Type {
	case lisp.LInt:
		if x.Int < 0 {
			return lisp.Int(-x.Int)
		}
		return x
	case lisp.LFloat:
		return lisp.Float(math.Abs(x.Float))
	}
	return env.ArgTypeError(1, "a number", x)
}

func builtinSqrt(env *lisp.LEnv, args *lisp.LVal) *lisp.LVal {
	return unaryFloat(env, args, math.Sqrt)
}

func builtinExp(env *lisp.LEnv, args *lisp.LVal) *lisp.LVal {
	return unaryFloat(env, args, math.Exp)
}

func builtinLn(env *lisp.LEnv, args *lisp.LVal) *lisp.LVal {
	return unaryFloat(env, args, math.Log)
}

func unaryFloat(env *lisp.LEnv, args *lisp.LVal, fn func(float64) float64) *lisp.LVal {
	x, lerr := libutil.NumberArg(env, args, 0)
	if lerr != nil {
		return lerr
	}
	return lisp.Float(fn(x))
}

func builtinLog(env *lisp.LEnv, args *lisp.LVal) *lisp.LVal {
	b, lerr := libutil.NumberArg(env, args, 0)
	if lerr != nil {
		return lerr
	}
	x, lerr := libutil.NumberArg(env, args, 1)
	if lerr != nil {
		return lerr
	}
	return lisp.Float(math.Log(x) / math.Log(b))
}

// builtinPow returns an int when the base is an int and the exponent is a
// non-negative integer.
func builtinPow(env *lisp.LEnv, args *lisp.LVal) *lisp.LVal {
	b, lerr := libutil.NumberArg(env, args, 0)
	if lerr != nil {
		return lerr
	}
	e, lerr := libutil.NumberArg(env, args, 1)
	if lerr != nil {
		return lerr
	}
	p := math.Pow(b, e)
	if args.Cells[0].Type == lisp.LInt && lisp.IsInteger(args.Cells[1]) && e >= 0 {
		return integral(p)
	}
	return lisp.Float(p)
}

func builtinMax(env *lisp.LEnv, args *lisp.LVal) *lisp.LVal {
	return extremum(env, args, func(x, y float64) bool { return x > y })
}

func builtinMin(env *lisp.LEnv, args *lisp.LVal) *lisp.LVal {
	return extremum(env, args, func(x, y float64) bool { return x < y })
}

// extremum returns the argument which is better than all the others.  The
// first of equal arguments wins.
func extremum(env *lisp.LEnv, args *lisp.LVal, better func(x, y float64) bool) *lisp.LVal {
	var best *lisp.LVal
	var bestx float64
	for i := range args.Cells {
		x, lerr := libutil.NumberArg(env, args, i)
		if lerr != nil {
			return lerr
		}
		if best == nil || better(x, bestx) {
			best, bestx = args.Cells[i], x
		}
	}
	return best
}
