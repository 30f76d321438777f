package lisp

// opDefmacro defines a macro in the root environment.  The body of a macro
// is evaluated with its formals bound to the unevaluated argument forms and
// the result is evaluated in place of the macro call.
func opDefmacro(env *LEnv, args *LVal) *LVal {
	name := args.Cells[0]
	if name.Type != LSymbol {
		return env.ErrorConditionf(CondEvalError, "defmacro: first argument is not a symbol: %v", name.Type)
	}
	mac := env.Lambda(args.Cells[1], args.Cells[2:])
	if mac.Type == LError {
		return mac
	}
	mac.FunType = LFunMacro
	mac.FunData().Name = name.Str
	lerr := env.root().Put(name, mac)
	if lerr.Type == LError {
		return lerr
	}
	return mac
}

// MacroCall expands macro fun with the vector of unevaluated forms args and
// returns the expansion without evaluating it.
func (env *LEnv) MacroCall(fun, args *LVal) *LVal {
	if !fun.IsMacro() {
		return env.ErrorConditionf(CondEvalError, "not a macro: %v", fun)
	}
	err := env.Runtime.Stack.PushFID(env.Loc, fun.FID(), fun.FunData().Name)
	if err != nil {
		return env.ErrorCondition(CondStackOverflow, err)
	}
	defer env.Runtime.Stack.Pop()
	return env.call(fun, args)
}

func markMacExpand(expanded *LVal) *LVal {
	return &LVal{
		Type:  LMarkMacExpand,
		Cells: []*LVal{expanded},
	}
}

// macroExpand1 expands form once.  When form is not a macro call it is
// returned unchanged and ok is false.
func (env *LEnv) macroExpand1(form *LVal) (expanded *LVal, ok bool) {
	data := form.ConsData()
	if data == nil || data.CAR.Type != LSymbol {
		return form, false
	}
	frame := env.lookupFrame(data.CAR)
	if frame == nil {
		return form, false
	}
	mac := frame.Scope[data.CAR.Sym]
	if !mac.IsMacro() {
		return form, false
	}
	forms, proper := ListSlice(data.CDR)
	if !proper {
		return env.ErrorConditionf(CondEvalError, "improper list in macro call: %v", form), true
	}
	return env.MacroCall(mac, Vector(forms)), true
}

func builtinMacroExpand1(env *LEnv, args *LVal) *LVal {
	expanded, _ := env.macroExpand1(args.Cells[0])
	return expanded
}

// builtinMacroExpand expands the head of a form until it is no longer a
// macro call.  Subforms are not expanded.
func builtinMacroExpand(env *LEnv, args *LVal) *LVal {
	form := args.Cells[0]
	for {
		expanded, ok := env.macroExpand1(form)
		if !ok || expanded.Type == LError {
			return expanded
		}
		form = expanded
	}
}
