package lisp

var userSpecialOps []*langBuiltin
var langSpecialOps = []*langBuiltin{
	{"quote", Formals("expr"), opQuote},
	{"quasiquote", Formals("expr"), opQuasiquote},
	{"unquote", Formals("expr"), opUnquote},
	{"unquote-splicing", Formals("expr"), opUnquote},
	{"defn", Formals("name", "formals", VarArgSymbol, "expr"), opDefn},
	{"defmacro", Formals("name", "formals", VarArgSymbol, "expr"), opDefmacro},
	{"fn", Formals("formals", VarArgSymbol, "expr"), opLambda},
	{"lambda", Formals("formals", VarArgSymbol, "expr"), opLambda},
	{"let", Formals("bindings", VarArgSymbol, "expr"), opLet},
	{"setq", Formals(VarArgSymbol, "pairs"), opSetq},
	{"if", Formals("condition", "then", OptArgSymbol, "else"), opIf},
	{"and", Formals(VarArgSymbol, "expr"), opAnd},
	{"or", Formals(VarArgSymbol, "expr"), opOr},
	{"progn", Formals(VarArgSymbol, "expr"), opProgn},
	{"do", Formals(VarArgSymbol, "expr"), opProgn},
	{"when", Formals("condition", VarArgSymbol, "expr"), opWhen},
	{"unless", Formals("condition", VarArgSymbol, "expr"), opUnless},
	{"cond", Formals(VarArgSymbol, "branch"), opCond},
	{"dolist", Formals("spec", VarArgSymbol, "expr"), opDolist},
	{"doseq", Formals("spec", VarArgSymbol, "expr"), opDoseq},
	{"dotimes", Formals("spec", VarArgSymbol, "expr"), opDotimes},
	{"incf", Formals("place", OptArgSymbol, "delta"), opIncf},
	{"decf", Formals("place", OptArgSymbol, "delta"), opDecf},
	{ReturnSymbol, Formals(OptArgSymbol, "expr"), opReturn},
}

// RegisterDefaultSpecialOp adds the given function to the list returned by
// DefaultSpecialOps.
func RegisterDefaultSpecialOp(name string, formals *LVal, fn LBuiltin) {
	userSpecialOps = append(userSpecialOps, &langBuiltin{name, formals, fn})
}

// DefaultSpecialOps returns the default set of LBuiltinDef added to LEnv
// objects when LEnv.AddSpecialOps is called without arguments.
func DefaultSpecialOps() []LBuiltinDef {
	ops := make([]LBuiltinDef, 0, len(langSpecialOps)+len(userSpecialOps))
	for i := range langSpecialOps {
		ops = append(ops, langSpecialOps[i])
	}
	for i := range userSpecialOps {
		ops = append(ops, userSpecialOps[i])
	}
	return ops
}

func opQuote(env *LEnv, args *LVal) *LVal {
	return args.Cells[0]
}

func opQuasiquote(env *LEnv, args *LVal) *LVal {
	return env.quasiquote(args.Cells[0], 1)
}

func opUnquote(env *LEnv, args *LVal) *LVal {
	return env.ErrorConditionf(CondEvalError, "%scalled outside of quasiquote", env.funPrefix())
}

func opDefn(env *LEnv, args *LVal) *LVal {
	name := args.Cells[0]
	if name.Type != LSymbol {
		return env.ErrorConditionf(CondEvalError, "defn: first argument is not a symbol: %v", name.Type)
	}
	fun := env.Lambda(args.Cells[1], args.Cells[2:])
	if fun.Type == LError {
		return fun
	}
	fun.FunData().Name = name.Str
	lerr := env.root().Put(name, fun)
	if lerr.Type == LError {
		return lerr
	}
	return fun
}

func opLambda(env *LEnv, args *LVal) *LVal {
	return env.Lambda(args.Cells[0], args.Cells[1:])
}

func opLet(env *LEnv, args *LVal) *LVal {
	bindings, ok := ListSlice(args.Cells[0])
	if !ok {
		return env.ErrorConditionf(CondEvalError, "let: first argument is not a list: %v", args.Cells[0].Type)
	}
	letenv := NewEnv(env)
	for _, bind := range bindings {
		name, init, lerr := letenv.letBinding(bind)
		if lerr != nil {
			return lerr
		}
		val := Nil()
		if init != nil {
			val = letenv.Eval(init)
			if val.Type == LError {
				return val
			}
		}
		lerr = letenv.Put(name, val)
		if lerr.Type == LError {
			return lerr
		}
	}
	return letenv.progn(args.Cells[1:])
}

// letBinding destructures a binding of the form name, (name) or (name init).
// A nil init means the binding is not initialized.
func (env *LEnv) letBinding(bind *LVal) (name, init, lerr *LVal) {
	if bind.Type == LSymbol {
		return bind, nil, nil
	}
	parts, ok := ListSlice(bind)
	if !ok || bind.IsNil() || len(parts) > 2 {
		return nil, nil, env.ErrorConditionf(CondEvalError, "let: invalid binding: %v", bind)
	}
	if parts[0].Type != LSymbol {
		return nil, nil, env.ErrorConditionf(CondEvalError, "let: binding name is not a symbol: %v", parts[0].Type)
	}
	if len(parts) == 1 {
		return parts[0], nil, nil
	}
	return parts[0], parts[1], nil
}

func opSetq(env *LEnv, args *LVal) *LVal {
	if len(args.Cells) == 0 || len(args.Cells)%2 != 0 {
		return env.ErrorConditionf(CondEvalError, "setq: expected symbol and value pairs (got %d arguments)", len(args.Cells))
	}
	ret := Nil()
	for i := 0; i < len(args.Cells); i += 2 {
		name := args.Cells[i]
		if name.Type != LSymbol {
			return env.ErrorConditionf(CondEvalError, "setq: argument is not a symbol: %v", name.Type)
		}
		ret = env.Eval(args.Cells[i+1])
		if ret.Type == LError {
			return ret
		}
		if ret.Type == LFun && ret.Builtin() == nil && ret.FunData().Name == "" {
			ret.FunData().Name = name.Str
		}
		lerr := env.Assign(name, ret)
		if lerr.Type == LError {
			return lerr
		}
	}
	return ret
}

func opIf(env *LEnv, args *LVal) *LVal {
	c := env.Eval(args.Cells[0])
	if c.Type == LError {
		return c
	}
	if True(c) {
		return env.Eval(args.Cells[1])
	}
	return env.Eval(args.Cells[2])
}

func opAnd(env *LEnv, args *LVal) *LVal {
	ret := Bool(true)
	for _, expr := range args.Cells {
		ret = env.Eval(expr)
		if ret.Type == LError || Not(ret) {
			return ret
		}
	}
	return ret
}

func opOr(env *LEnv, args *LVal) *LVal {
	ret := Nil()
	for _, expr := range args.Cells {
		ret = env.Eval(expr)
		if ret.Type == LError || True(ret) {
			return ret
		}
	}
	return ret
}

func opProgn(env *LEnv, args *LVal) *LVal {
	return env.progn(args.Cells)
}

func (env *LEnv) progn(forms []*LVal) *LVal {
	ret := Nil()
	for _, expr := range forms {
		ret = env.Eval(expr)
		if ret.Type == LError {
			return ret
		}
	}
	return ret
}

func opWhen(env *LEnv, args *LVal) *LVal {
	c := env.Eval(args.Cells[0])
	if c.Type == LError {
		return c
	}
	if Not(c) {
		return Nil()
	}
	return env.progn(args.Cells[1:])
}

func opUnless(env *LEnv, args *LVal) *LVal {
	c := env.Eval(args.Cells[0])
	if c.Type == LError {
		return c
	}
	if True(c) {
		return Nil()
	}
	return env.progn(args.Cells[1:])
}

func opCond(env *LEnv, args *LVal) *LVal {
	for i, branch := range args.Cells {
		forms, ok := ListSlice(branch)
		if !ok || len(forms) == 0 {
			return env.ErrorConditionf(CondEvalError, "cond: branch %d is not a non-empty list: %v", i+1, branch)
		}
		c := env.Eval(forms[0])
		if c.Type == LError {
			return c
		}
		if Not(c) {
			continue
		}
		if len(forms) == 1 {
			return c
		}
		return env.progn(forms[1:])
	}
	return Nil()
}

// loopSpec destructures the first argument of an iteration operator,
// (var expr [result]).
func (env *LEnv) loopSpec(spec *LVal) (v, expr, result, lerr *LVal) {
	parts, ok := ListSlice(spec)
	if !ok || len(parts) < 2 || len(parts) > 3 {
		return nil, nil, nil, env.ErrorConditionf(CondEvalError, "%sfirst argument is not a list (var expr [result]): %v", env.funPrefix(), spec)
	}
	if parts[0].Type != LSymbol {
		return nil, nil, nil, env.ErrorConditionf(CondEvalError, "%sloop variable is not a symbol: %v", env.funPrefix(), parts[0].Type)
	}
	result = Nil()
	if len(parts) == 3 {
		result = parts[2]
	}
	return parts[0], parts[1], result, nil
}

// iterate evaluates body once for each value in a fresh child environment of
// env in which v is bound to the value.  When all values have been visited
// result is evaluated with v bound to nil.
func (env *LEnv) iterate(v *LVal, values []*LVal, body []*LVal, result *LVal) *LVal {
	for _, x := range values {
		iterenv := NewEnv(env)
		lerr := iterenv.Put(v, x)
		if lerr.Type == LError {
			return lerr
		}
		ret := iterenv.progn(body)
		if ret.Type == LError {
			return ret
		}
	}
	if result.IsNil() {
		return Nil()
	}
	resenv := NewEnv(env)
	lerr := resenv.Put(v, Nil())
	if lerr.Type == LError {
		return lerr
	}
	return resenv.Eval(result)
}

func opDolist(env *LEnv, args *LVal) *LVal {
	v, expr, result, lerr := env.loopSpec(args.Cells[0])
	if lerr != nil {
		return lerr
	}
	lis := env.Eval(expr)
	if lis.Type == LError {
		return lis
	}
	values, ok := ListSlice(lis)
	if !ok {
		return env.ArgTypeError(1, "a proper list", lis)
	}
	return env.iterate(v, values, args.Cells[1:], result)
}

func opDoseq(env *LEnv, args *LVal) *LVal {
	v, expr, result, lerr := env.loopSpec(args.Cells[0])
	if lerr != nil {
		return lerr
	}
	seq := env.Eval(expr)
	if seq.Type == LError {
		return seq
	}
	values, ok := SeqValues(seq)
	if !ok {
		return env.ArgTypeError(1, "a sequence", seq)
	}
	return env.iterate(v, values, args.Cells[1:], result)
}

func opDotimes(env *LEnv, args *LVal) *LVal {
	v, expr, result, lerr := env.loopSpec(args.Cells[0])
	if lerr != nil {
		return lerr
	}
	n := env.Eval(expr)
	if n.Type == LError {
		return n
	}
	if n.Type != LInt {
		return env.ArgTypeError(1, "an int", n)
	}
	body := args.Cells[1:]
	for i := 0; i < n.Int; i++ {
		iterenv := NewEnv(env)
		lerr := iterenv.Put(v, Int(i))
		if lerr.Type == LError {
			return lerr
		}
		ret := iterenv.progn(body)
		if ret.Type == LError {
			return ret
		}
	}
	if result.IsNil() {
		return Nil()
	}
	resenv := NewEnv(env)
	lerr = resenv.Put(v, Int(n.Int))
	if lerr.Type == LError {
		return lerr
	}
	return resenv.Eval(result)
}

func opIncf(env *LEnv, args *LVal) *LVal {
	return env.addPlace(args.Cells[0], args.Cells[1], 1)
}

func opDecf(env *LEnv, args *LVal) *LVal {
	return env.addPlace(args.Cells[0], args.Cells[1], -1)
}

func (env *LEnv) addPlace(place, deltaExpr *LVal, sign int) *LVal {
	if place.Type != LSymbol {
		return env.ErrorConditionf(CondEvalError, "%sfirst argument is not a symbol: %v", env.funPrefix(), place.Type)
	}
	delta := Int(1)
	if !deltaExpr.IsNil() {
		delta = env.Eval(deltaExpr)
		if delta.Type == LError {
			return delta
		}
		if !delta.IsNumeric() {
			return env.ArgTypeError(2, "a number", delta)
		}
	}
	cur := env.Get(place)
	if cur.Type == LError {
		return cur
	}
	if !cur.IsNumeric() {
		return env.ErrorConditionf(CondTypeError, "%s%s is not a number: %v", env.funPrefix(), place.Str, cur.Type)
	}
	if sign < 0 {
		delta = negate(delta)
	}
	ret := addNumeric(cur, delta)
	lerr := env.Update(place, ret)
	if lerr.Type == LError {
		return lerr
	}
	return ret
}

func opReturn(env *LEnv, args *LVal) *LVal {
	v := env.Eval(args.Cells[0])
	if v.Type == LError {
		return v
	}
	return &LVal{
		Type:   LError,
		Source: env.Loc,
		Str:    condReturn,
		Native: &CallStack{},
		Cells:  []*LVal{v},
	}
}
