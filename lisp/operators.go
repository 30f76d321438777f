package lisp

import "math"

var langOperators = []*langBuiltin{
	{"+", Formals(VarArgSymbol, "x"), builtinAdd},
	{"-", Formals(VarArgSymbol, "x"), builtinSub},
	{"*", Formals(VarArgSymbol, "x"), builtinMul},
	{"/", Formals(VarArgSymbol, "x"), builtinDiv},
	{"mod", Formals("a", "b"), builtinMod},
	{"inc", Formals("x"), builtinInc},
	{"1+", Formals("x"), builtinInc},
	{"dec", Formals("x"), builtinDec},
	{"1-", Formals("x"), builtinDec},
	{"even?", Formals("x"), builtinEvenP},
	{"odd?", Formals("x"), builtinOddP},
	{"zero?", Formals("x"), builtinZeroP},
	{"=", Formals("a", "b", VarArgSymbol, "rest"), builtinEq},
	{"/=", Formals("a", "b"), builtinNotEq},
	{">", Formals("a", "b", VarArgSymbol, "rest"), builtinGT},
	{"<", Formals("a", "b", VarArgSymbol, "rest"), builtinLT},
	{">=", Formals("a", "b", VarArgSymbol, "rest"), builtinGEq},
	{"<=", Formals("a", "b", VarArgSymbol, "rest"), builtinLEq},
}

func (env *LEnv) checkNumeric(args []*LVal) *LVal {
	for i, c := range args {
		if !c.IsNumeric() {
			return env.ArgTypeError(i+1, "a number", c)
		}
	}
	return nil
}

func builtinAdd(env *LEnv, args *LVal) *LVal {
	if lerr := env.checkNumeric(args.Cells); lerr != nil {
		return lerr
	}
	sum := Int(0)
	for _, c := range args.Cells {
		sum = addNumeric(sum, c)
	}
	return sum
}

func builtinSub(env *LEnv, args *LVal) *LVal {
	if lerr := env.checkNumeric(args.Cells); lerr != nil {
		return lerr
	}
	if len(args.Cells) == 0 {
		return Int(0)
	}
	if len(args.Cells) == 1 {
		return negate(args.Cells[0])
	}
	diff := args.Cells[0]
	for _, c := range args.Cells[1:] {
		diff = addNumeric(diff, negate(c))
	}
	return diff
}

func builtinMul(env *LEnv, args *LVal) *LVal {
	if lerr := env.checkNumeric(args.Cells); lerr != nil {
		return lerr
	}
	prod := Int(1)
	for _, c := range args.Cells {
		if bothInt(prod, c) {
			if x, ok := mulInt(prod.Int, c.Int); ok {
				prod = Int(x)
				continue
			}
		}
		prod = Float(toFloat(prod) * toFloat(c))
	}
	return prod
}

// builtinDiv divides its first argument by the rest.  Integer arguments
// produce an integer when the division is exact and a float otherwise.
func builtinDiv(env *LEnv, args *LVal) *LVal {
	if lerr := env.checkNumeric(args.Cells); lerr != nil {
		return lerr
	}
	if len(args.Cells) == 0 {
		return Int(1)
	}
	cells := args.Cells
	if len(cells) == 1 {
		cells = []*LVal{Int(1), cells[0]}
	}
	quo := cells[0]
	for _, c := range cells[1:] {
		if bothInt(quo, c) {
			if c.Int == 0 {
				return env.ErrorConditionf(CondTypeError, "/: division by zero")
			}
			if quo.Int%c.Int == 0 {
				quo = Int(quo.Int / c.Int)
				continue
			}
		}
		quo = Float(toFloat(quo) / toFloat(c))
	}
	return quo
}

func builtinMod(env *LEnv, args *LVal) *LVal {
	a, b := args.Cells[0], args.Cells[1]
	if a.Type != LInt {
		return env.ArgTypeError(1, "an int", a)
	}
	if b.Type != LInt {
		return env.ArgTypeError(2, "an int", b)
	}
	if b.Int == 0 {
		return env.ErrorConditionf(CondTypeError, "mod: division by zero")
	}
	return Int(a.Int % b.Int)
}

func builtinInc(env *LEnv, args *LVal) *LVal {
	if lerr := env.checkNumeric(args.Cells); lerr != nil {
		return lerr
	}
	return addNumeric(args.Cells[0], Int(1))
}

func builtinDec(env *LEnv, args *LVal) *LVal {
	if lerr := env.checkNumeric(args.Cells); lerr != nil {
		return lerr
	}
	return addNumeric(args.Cells[0], Int(-1))
}

func builtinEvenP(env *LEnv, args *LVal) *LVal {
	x := args.Cells[0]
	if x.Type != LInt {
		return env.ArgTypeError(1, "an int", x)
	}
	return Bool(x.Int%2 == 0)
}

func builtinOddP(env *LEnv, args *LVal) *LVal {
	x := args.Cells[0]
	if x.Type != LInt {
		return env.ArgTypeError(1, "an int", x)
	}
	return Bool(x.Int%2 != 0)
}

func builtinZeroP(env *LEnv, args *LVal) *LVal {
	if lerr := env.checkNumeric(args.Cells); lerr != nil {
		return lerr
	}
	return Bool(toFloat(args.Cells[0]) == 0)
}

// builtinEq compares values with Equal so numbers, strings, symbols and
// collections can all be tested.
func builtinEq(env *LEnv, args *LVal) *LVal {
	for i := 1; i < len(args.Cells); i++ {
		if !Equal(args.Cells[i-1], args.Cells[i]) {
			return Bool(false)
		}
	}
	return Bool(true)
}

func builtinNotEq(env *LEnv, args *LVal) *LVal {
	return Bool(!Equal(args.Cells[0], args.Cells[1]))
}

func builtinGT(env *LEnv, args *LVal) *LVal {
	return env.compareChain(args.Cells, func(c int) bool { return c > 0 })
}

func builtinLT(env *LEnv, args *LVal) *LVal {
	return env.compareChain(args.Cells, func(c int) bool { return c < 0 })
}

func builtinGEq(env *LEnv, args *LVal) *LVal {
	return env.compareChain(args.Cells, func(c int) bool { return c >= 0 })
}

func builtinLEq(env *LEnv, args *LVal) *LVal {
	return env.compareChain(args.Cells, func(c int) bool { return c <= 0 })
}

// compareChain tests ok against the comparison of every adjacent pair of
// arguments.  Arguments must be all numbers or all strings.
func (env *LEnv) compareChain(cells []*LVal, ok func(c int) bool) *LVal {
	for i, c := range cells {
		if !c.IsNumeric() && c.Type != LString {
			return env.ArgTypeError(i+1, "a number or string", c)
		}
		if i > 0 && c.IsNumeric() != cells[0].IsNumeric() {
			return env.ArgTypeError(i+1, cells[0].Type.String()+" like the first argument", c)
		}
	}
	for i := 1; i < len(cells); i++ {
		if !ok(compareValues(cells[i-1], cells[i])) {
			return Bool(false)
		}
	}
	return Bool(true)
}

// compareValues orders two numbers or two strings.
func compareValues(a, b *LVal) int {
	if a.Type == LString && b.Type == LString {
		switch {
		case a.Str < b.Str:
			return -1
		case a.Str > b.Str:
			return 1
		}
		return 0
	}
	if bothInt(a, b) {
		switch {
		case a.Int < b.Int:
			return -1
		case a.Int > b.Int:
			return 1
		}
		return 0
	}
	x, y := toFloat(a), toFloat(b)
	switch {
	case x < y:
		return -1
	case x > y:
		return 1
	}
	return 0
}

// addNumeric adds two numbers.  An integer sum which overflows int is
// computed as a float.
func addNumeric(a, b *LVal) *LVal {
	if bothInt(a, b) {
		if x, ok := addInt(a.Int, b.Int); ok {
			return Int(x)
		}
	}
	return Float(toFloat(a) + toFloat(b))
}

func negate(x *LVal) *LVal {
	if x.Type == LInt && x.Int != math.MinInt {
		return Int(-x.Int)
	}
	return Float(-toFloat(x))
}

func addInt(a, b int) (int, bool) {
	s := a + b
	if (a > 0 && b > 0 && s < 0) || (a < 0 && b < 0 && s >= 0) {
		return 0, false
	}
	return s, true
}

func mulInt(a, b int) (int, bool) {
	if a == 0 || b == 0 {
		return 0, true
	}
	p := a * b
	if p/b != a || (a == -1 && b == math.MinInt) || (b == -1 && a == math.MinInt) {
		return 0, false
	}
	return p, true
}

func bothInt(a, b *LVal) bool {
	return a.Type == LInt && b.Type == LInt
}

// IsInteger reports whether x is an int or a float with no fractional part.
func IsInteger(x *LVal) bool {
	switch x.Type {
	case LInt:
		return true
	case LFloat:
		return !math.IsInf(x.Float, 0) && x.Float == math.Trunc(x.Float)
	}
	return false
}
