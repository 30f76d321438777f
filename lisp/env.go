package lisp

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/bmatsuo/rlisp/parser/token"
	"github.com/bmatsuo/rlisp/symbol"
)

// InitializeUserEnv binds the special operators and builtin functions in the
// root environment env and then applies the given configuration.
func InitializeUserEnv(env *LEnv, config ...Config) *LVal {
	env.AddSpecialOps()
	env.AddBuiltins()
	for _, fn := range config {
		lerr := fn(env)
		if lerr.Type == LError {
			return lerr
		}
	}
	return Nil()
}

// LEnv is a lisp environment.
type LEnv struct {
	Loc     *token.Location
	Scope   map[symbol.ID]*LVal
	Parent  *LEnv
	Runtime *Runtime
	ID      uint
}

// NewEnvRuntime initializes a new root LEnv which uses rt.  When rt is nil
// StandardRuntime() is called to create a new Runtime for the returned LEnv.
// It is an error to use the same runtime object in multiple calls to
// NewEnvRuntime.
func NewEnvRuntime(rt *Runtime) *LEnv {
	if rt == nil {
		rt = StandardRuntime()
	}
	return &LEnv{
		ID:      rt.GenEnvID(),
		Scope:   make(map[symbol.ID]*LVal),
		Runtime: rt,
	}
}

// NewEnv returns initializes and returns a new LEnv.  When parent is nil the
// returned LEnv is a root with a new standard runtime.
func NewEnv(parent *LEnv) *LEnv {
	if parent == nil {
		return NewEnvRuntime(nil)
	}
	return &LEnv{
		ID:      parent.Runtime.GenEnvID(),
		Loc:     parent.Loc,
		Scope:   make(map[symbol.ID]*LVal),
		Parent:  parent,
		Runtime: parent.Runtime,
	}
}

func (env *LEnv) getFID() string {
	return fmt.Sprintf("_fun%d", env.Runtime.GenEnvID())
}

// Root returns the root environment of env.
func (env *LEnv) Root() *LEnv {
	return env.root()
}

func (env *LEnv) root() *LEnv {
	for env.Parent != nil {
		env = env.Parent
	}
	return env
}

// Set binds name to value in the root environment.  The value is converted
// using FromGo.  Set holds the runtime lock so it is safe to call while
// another goroutine renders against the same root.
func (env *LEnv) Set(name string, value interface{}) error {
	env.Runtime.Lock()
	defer env.Runtime.Unlock()
	return GoError(env.root().Put(Symbol(name), FromGo(value)))
}

// LoadString parses exprs and evaluates the forms it contains.
func (env *LEnv) LoadString(name, exprs string) *LVal {
	return env.Load(name, strings.NewReader(exprs))
}

// Load reads LVals from r and evaluates them as if in a progn.  The value
// returned by the last evaluated LVal will be retured, unless a return
// expression is evaluated which stops evaluation and supplies the result.
// If env.Runtime.Reader has not been set then an error will be returned by
// Load.
func (env *LEnv) Load(name string, r io.Reader) *LVal {
	if env.Runtime.Reader == nil {
		return env.Errorf("no reader for environment runtime")
	}
	exprs, err := env.Runtime.Reader.Read(name, r)
	if err != nil {
		return env.Error(err)
	}
	return env.load(exprs)
}

// LoadForms evaluates forms that have already been read.
func (env *LEnv) LoadForms(exprs []*LVal) *LVal {
	return env.load(exprs)
}

func (env *LEnv) load(exprs []*LVal) *LVal {
	ret := Nil()
	for _, expr := range exprs {
		ret = env.Eval(expr)
		if ret.Type == LError {
			if ret.Str == condReturn {
				return ret.Cells[0]
			}
			return ret
		}
	}
	return ret
}

// Get takes an LSymbol k and returns the LVal it is bound to in env.
func (env *LEnv) Get(k *LVal) *LVal {
	if k.Type != LSymbol {
		return env.Errorf("key is not a symbol: %v", k.Type)
	}
	switch k.Str {
	case NilSymbol:
		return Nil()
	case TrueSymbol, FalseSymbol:
		return k
	}
	if k.IsKeyword() {
		return k
	}
	for e := env; e != nil; e = e.Parent {
		v, ok := e.Scope[k.Sym]
		if ok {
			return v
		}
	}
	return env.ErrorConditionf(CondUnboundSymbol, "unbound symbol: %v", k.Str)
}

// Put takes an LSymbol k and binds it to v in env.  If k is already bound to a
// value in env the binding is updated so that k is bound to v.
func (env *LEnv) Put(k, v *LVal) *LVal {
	lerr := env.checkBindable(k)
	if lerr != nil {
		return lerr
	}
	env.Scope[k.Sym] = v
	return Nil()
}

// Update updates the binding of k to v within the scope of env.  Update can
// update either lexical or global bindings.  If k is not bound by env or an
// enclosing LEnv an unbound-symbol condition is signaled.
func (env *LEnv) Update(k, v *LVal) *LVal {
	lerr := env.checkBindable(k)
	if lerr != nil {
		return lerr
	}
	e := env.lookupFrame(k)
	if e == nil {
		return env.ErrorConditionf(CondUnboundSymbol, "unbound symbol: %v", k.Str)
	}
	e.Scope[k.Sym] = v
	return Nil()
}

// Assign implements setq.  The nearest frame which binds k is updated.  If
// no frame binds k then k is bound in the root environment.
func (env *LEnv) Assign(k, v *LVal) *LVal {
	lerr := env.checkBindable(k)
	if lerr != nil {
		return lerr
	}
	e := env.lookupFrame(k)
	if e == nil {
		e = env.root()
	}
	e.Scope[k.Sym] = v
	return Nil()
}

func (env *LEnv) lookupFrame(k *LVal) *LEnv {
	for e := env; e != nil; e = e.Parent {
		if _, ok := e.Scope[k.Sym]; ok {
			return e
		}
	}
	return nil
}

func (env *LEnv) checkBindable(k *LVal) *LVal {
	if k.Type != LSymbol {
		return env.ErrorConditionf(CondEvalError, "key is not a symbol: %v", k.Type)
	}
	switch {
	case k.Str == TrueSymbol || k.Str == FalseSymbol || k.Str == NilSymbol:
		return env.ErrorConditionf(CondEvalError, "cannot rebind constant: %v", k.Str)
	case k.IsKeyword():
		return env.ErrorConditionf(CondEvalError, "cannot bind a keyword: %v", k.Str)
	}
	return nil
}

// Lambda returns a new closure with formals and body which captures env.
func (env *LEnv) Lambda(formals *LVal, body []*LVal) *LVal {
	syms, ok := ListSlice(formals)
	if !ok {
		return env.ErrorConditionf(CondEvalError, "formals is not a list of symbols: %v", formals)
	}
	for _, sym := range syms {
		if sym.Type != LSymbol {
			return env.ErrorConditionf(CondEvalError, "formals contain a non-symbol: %v", sym.Type)
		}
		if strings.HasPrefix(sym.Str, MetaArgPrefix) {
			continue
		}
		lerr := env.checkBindable(sym)
		if lerr != nil {
			return lerr
		}
	}
	cells := make([]*LVal, 0, len(body)+1)
	cells = append(cells, formals)
	cells = append(cells, body...)
	return &LVal{
		Type:   LFun,
		Source: env.Loc,
		Native: &LFunData{
			FID: env.getFID(),
			Env: env,
		},
		Cells: cells,
	}
}

// AddSpecialOps binds the given special operators to their names in env.  When
// called with no arguments AddSpecialOps adds the DefaultSpecialOps to env.
func (env *LEnv) AddSpecialOps(ops ...LBuiltinDef) {
	if len(ops) == 0 {
		ops = DefaultSpecialOps()
	}
	for _, op := range ops {
		id := fmt.Sprintf("<special-op ``%s''>", op.Name())
		fn := SpecialOp(id, op.Formals(), op.Eval)
		fn.FunData().Name = op.Name()
		env.addBuiltin(op.Name(), fn)
	}
}

// AddBuiltins binds the given funs to their names in env.  When called with no
// arguments AddBuiltins adds the DefaultBuiltins to env.
func (env *LEnv) AddBuiltins(funs ...LBuiltinDef) {
	if len(funs) == 0 {
		funs = DefaultBuiltins()
	}
	for _, f := range funs {
		id := fmt.Sprintf("<builtin-function ``%s''>", f.Name())
		fn := Fun(id, f.Formals(), f.Eval)
		fn.FunData().Name = f.Name()
		env.addBuiltin(f.Name(), fn)
	}
}

func (env *LEnv) addBuiltin(name string, fn *LVal) {
	k := Symbol(name)
	if _, ok := env.Scope[k.Sym]; ok {
		panic("symbol already defined: " + name)
	}
	lerr := env.Put(k, fn)
	if lerr.Type == LError {
		panic(lerr.String())
	}
}

// Error returns an LError value with an error message given by rendering msg.
//
// Error may be called either with an error or with any number of *LVal values.
// It is invalid to pass an error argument with any other values and doing so
// will result in a runtime panic.
func (env *LEnv) Error(msg ...interface{}) *LVal {
	return env.ErrorCondition(CondError, msg...)
}

// ErrorCondition returns an LError the given condition type and an error
// message computed by rendering msg.  When msg is a single error which wraps
// a lisp error the lisp error is returned unchanged.
func (env *LEnv) ErrorCondition(condition string, v ...interface{}) *LVal {
	narg := len(v)
	cells := make([]*LVal, 0, narg)
	for _, v := range v {
		switch v := v.(type) {
		case *LVal:
			cells = append(cells, v)
		case error:
			if narg > 1 {
				panic("invalid error argument")
			}
			var lerr *ErrorVal
			if errors.As(v, &lerr) {
				env.ErrorAssociate(lerr.LVal())
				return lerr.LVal()
			}
			cells = append(cells, Native(v))
		case string:
			cells = append(cells, String(v))
		default:
			cells = append(cells, Native(v))
		}
	}
	return &LVal{
		Type:   LError,
		Source: env.Loc,
		Str:    condition,
		Native: env.Runtime.Stack.Copy(),
		Cells:  cells,
	}
}

// Errorf returns an LError value with a formatted error message.
func (env *LEnv) Errorf(format string, v ...interface{}) *LVal {
	return env.ErrorConditionf(CondError, format, v...)
}

// ErrorConditionf returns an LError value with the given condition type and a
// a formatted error message rendered using fmt.Sprintf.
func (env *LEnv) ErrorConditionf(condition string, format string, v ...interface{}) *LVal {
	return &LVal{
		Source: env.Loc,
		Type:   LError,
		Str:    condition,
		Native: env.Runtime.Stack.Copy(),
		Cells:  []*LVal{String(fmt.Sprintf(format, v...))},
	}
}

// ArgTypeError returns a type-error for the argument at 1-based position pos
// of the executing builtin.  The message names the builtin, the position and
// the expected and actual types:
//
//	filter: first argument is not a function: int
func (env *LEnv) ArgTypeError(pos int, want string, got *LVal) *LVal {
	lerr := env.ErrorConditionf(CondTypeError, "%s%s argument is not %s: %v",
		env.funPrefix(), ordinal(pos), want, got.Type)
	lerr.Int = pos
	return lerr
}

// IndexErrorf returns an index-error with a formatted message prefixed by the
// name of the executing builtin.
func (env *LEnv) IndexErrorf(format string, v ...interface{}) *LVal {
	return env.ErrorConditionf(CondIndexError, env.funPrefix()+format, v...)
}

func (env *LEnv) funPrefix() string {
	name := env.Runtime.Stack.Top().FunName()
	if name == "" {
		return ""
	}
	return name + ": "
}

var ordinals = []string{"zeroth", "first", "second", "third", "fourth", "fifth", "sixth", "seventh", "eighth", "ninth", "tenth"}

func ordinal(n int) string {
	if n >= 0 && n < len(ordinals) {
		return ordinals[n]
	}
	return fmt.Sprintf("%dth", n)
}

// ErrorAssociate associates the LError value lerr with env's current call
// stack and source location.  ErrorAssociate panics if lerr is not LError.
func (env *LEnv) ErrorAssociate(lerr *LVal) {
	if lerr.Type != LError {
		panic("not an error: " + lerr.Type.String())
	}
	if lerr.CallStack() == nil {
		lerr.SetCallStack(env.Runtime.Stack.Copy())
	}
	if lerr.Source == nil {
		lerr.Source = env.Loc
	}
}

// Eval evaluates v in the context (scope) of env and returns the resulting
// LVal.  Eval does not modify v.
func (env *LEnv) Eval(v *LVal) *LVal {
eval:
	if v.Source != nil {
		env.Loc = v.Source
	}
	switch v.Type {
	case LSymbol:
		return env.Get(v)
	case LCons:
		res := env.EvalSExpr(v)
		if res.Type == LMarkMacExpand {
			v = res.Cells[0]
			goto eval
		}
		if res.Type == LError {
			env.ErrorAssociate(res)
		}
		return res
	case LVector:
		return env.evalVector(v)
	case LMap:
		return env.evalMap(v)
	default:
		return v
	}
}

func (env *LEnv) evalVector(v *LVal) *LVal {
	cells := make([]*LVal, len(v.Cells))
	for i, c := range v.Cells {
		cells[i] = env.Eval(c)
		if cells[i].Type == LError {
			return cells[i]
		}
	}
	return Vector(cells)
}

func (env *LEnv) evalMap(v *LVal) *LVal {
	m := v.MapData()
	out := NewMap(m.Len())
	var lerr *LVal
	m.Each(func(k, val *LVal) bool {
		x := env.Eval(val)
		if x.Type == LError {
			lerr = x
			return false
		}
		err := out.MapData().Set(k, x)
		if err != nil {
			lerr = env.ErrorConditionf(CondTypeError, "%v", err)
			return false
		}
		return true
	})
	if lerr != nil {
		return lerr
	}
	return out
}

// EvalSExpr evaluates the function application s and returns the resulting
// LVal.  When the head of s is a macro EvalSExpr returns an LMarkMacExpand
// value holding the expansion instead.
func (env *LEnv) EvalSExpr(s *LVal) *LVal {
	data := s.ConsData()
	if data == nil {
		return env.ErrorConditionf(CondEvalError, "not an s-expression: %v", s.Type)
	}
	forms, ok := ListSlice(data.CDR)
	if !ok {
		return env.ErrorConditionf(CondEvalError, "improper list in function application: %v", s)
	}
	head := data.CAR
	if head.IsMemberAccessor() {
		args := env.evalArgs(forms)
		if args.Type == LError {
			return args
		}
		return env.MemberCall(head.Str[len(MemberPrefix):], args)
	}

	loc := env.Loc
	f := env.Eval(head)
	env.Loc = loc
	if f.Type == LError {
		return f
	}
	switch {
	case f.IsSpecialOp():
		return env.SpecialOpCall(f, Vector(forms))
	case f.IsMacro():
		expanded := env.MacroCall(f, Vector(forms))
		if expanded.Type == LError {
			return expanded
		}
		return markMacExpand(expanded)
	case f.IsCallable():
		args := env.evalArgs(forms)
		if args.Type == LError {
			return args
		}
		return env.Apply(f, args.Cells...)
	default:
		return env.ErrorConditionf(CondEvalError, "not callable: %v", f)
	}
}

// evalArgs evaluates forms left to right and returns them as a vector.  The
// location of env is restored after argument evaluation.
func (env *LEnv) evalArgs(forms []*LVal) *LVal {
	loc := env.Loc
	defer func() { env.Loc = loc }()
	cells := make([]*LVal, len(forms))
	for i, expr := range forms {
		cells[i] = env.Eval(expr)
		if cells[i].Type == LError {
			return cells[i]
		}
	}
	return Vector(cells)
}

// Apply calls the function f with already evaluated arguments.  A keyword f
// looks itself up in a map argument.
func (env *LEnv) Apply(f *LVal, args ...*LVal) *LVal {
	switch {
	case f.IsKeyword():
		return env.keywordCall(f, args)
	case f.Type == LFun && f.FunType == LFunNone:
		return env.FunCall(f, Vector(args))
	default:
		return env.ErrorConditionf(CondEvalError, "not callable: %v", f)
	}
}

func (env *LEnv) keywordCall(k *LVal, args []*LVal) *LVal {
	if len(args) < 1 || len(args) > 2 {
		return env.ErrorConditionf(CondEvalError, "%s: invalid number of arguments: %d", k.Str, len(args))
	}
	m := args[0]
	var v *LVal
	switch m.Type {
	case LNil:
		v = Nil()
	case LMap:
		v = env.mapGet(m, k)
	default:
		return env.ErrorConditionf(CondTypeError, "%s: argument is not a map: %v", k.Str, m.Type)
	}
	if v.IsNil() && len(args) == 2 {
		return args[1]
	}
	return v
}

// SpecialOpCall invokes special operator fun with the argument list args.
// The cells of args are unevaluated forms.
func (env *LEnv) SpecialOpCall(fun, args *LVal) *LVal {
	if !fun.IsSpecialOp() {
		return env.ErrorConditionf(CondEvalError, "not a special operator: %v", fun)
	}
	err := env.Runtime.Stack.PushFID(env.Loc, fun.FID(), fun.FunData().Name)
	if err != nil {
		return env.ErrorCondition(CondStackOverflow, err)
	}
	defer env.Runtime.Stack.Pop()
	return env.call(fun, args)
}

// FunCall invokes regular function fun with the argument list args.
func (env *LEnv) FunCall(fun, args *LVal) *LVal {
	if fun.Type != LFun {
		return env.ErrorConditionf(CondEvalError, "not a function: %v", fun.Type)
	}
	if fun.FunType != LFunNone {
		return env.ErrorConditionf(CondEvalError, "not a regular function: %v", fun)
	}
	err := env.Runtime.Stack.PushFID(env.Loc, fun.FID(), fun.FunData().Name)
	if err != nil {
		return env.ErrorCondition(CondStackOverflow, err)
	}
	defer env.Runtime.Stack.Pop()
	return env.call(fun, args)
}

// call invokes LFun fun with the vector args.  The caller must push a stack
// frame for fun.
func (env *LEnv) call(fun *LVal, args *LVal) *LVal {
	fenv, list := env.bind(fun, args)
	if list.Type == LError {
		return list
	}
	fn := fun.Builtin()
	if fn != nil {
		r := fn(env, list)
		if r == nil {
			_, _ = env.Runtime.Stack.DebugPrint(env.Runtime.getStderr())
			panic("nil LVal returned from function call")
		}
		return r
	}
	ret := Nil()
	for _, expr := range list.Cells {
		ret = fenv.Eval(expr)
		if ret.Type == LError {
			return ret
		}
	}
	return ret
}

// If fun is a builtin bind returns env and a vector of arguments, with absent
// optional arguments filled by nil.  If fun is a closure bind returns a new
// lexical environment, a child of the captured one, and a vector of body
// expressions.  If an error is encountered then bind returns it as the second
// argument.
//
// The bind function does not modify fun or args.
func (env *LEnv) bind(fun, args *LVal) (*LEnv, *LVal) {
	formalCells, _ := ListSlice(fun.Formals())
	argsp := argParser{args: args.Cells}
	formals := argParser{args: formalCells}
	narg := len(args.Cells)

	var funenv *LEnv
	var builtinArgs []*LVal
	var putArg bindfunc
	var putVarArg func(k *LVal, rest []*LVal)
	if fun.Builtin() != nil {
		builtinArgs = make([]*LVal, 0, len(args.Cells))
		putArg = func(k, v *LVal) {
			builtinArgs = append(builtinArgs, v)
		}
		putVarArg = func(k *LVal, rest []*LVal) {
			builtinArgs = append(builtinArgs, rest...)
		}
	} else {
		funenv = NewEnv(fun.Env())
		funenv.Loc = env.Loc
		putArg = func(k, v *LVal) {
			funenv.Scope[k.Sym] = v
		}
		putVarArg = func(k *LVal, rest []*LVal) {
			funenv.Scope[k.Sym] = ListOf(rest...)
		}
	}
	for !formals.IsEOF() {
		pos := formals.Pos()
		ret := env.bindFormalNext(fun, &formals, &argsp, putArg, putVarArg)
		if ret.Type == LError {
			return nil, ret
		}
		if ret.Type == LFun {
			return nil, env.arityError(fun, narg)
		}
		if formals.Pos() == pos {
			panic("no progress binding")
		}
	}
	if !argsp.IsEOF() {
		return nil, env.arityError(fun, narg)
	}
	if funenv == nil {
		return env, Vector(builtinArgs)
	}
	return funenv, Vector(fun.Body())
}

func (env *LEnv) arityError(fun *LVal, narg int) *LVal {
	name := fun.FunData().Name
	if name == "" {
		name = "anonymous function"
		if fun.Source != nil && fun.Source.Line > 0 {
			name += " (" + fun.Source.String() + ")"
		}
	}
	return env.ErrorConditionf(CondEvalError, "%s: invalid number of arguments: %d", name, narg)
}

type bindfunc func(k, v *LVal)

func (env *LEnv) bindFormalNext(fun *LVal, formals, args *argParser, put bindfunc, putVarArgs func(k *LVal, rest []*LVal)) *LVal {
	argSym := formals.Advance()
	switch {
	case argSym.Str == OptArgSymbol:
		if formals.IsEOF() {
			return env.ErrorConditionf(CondEvalError, "function formal argument list contains a control symbol at an invalid location: %v", argSym.Str)
		}
		for !formals.IsEOF() {
			argSym = formals.Peek()
			if strings.HasPrefix(argSym.Str, MetaArgPrefix) {
				return Nil()
			}
			formals.Advance()
			if args.IsEOF() {
				put(argSym, Nil())
			} else {
				put(argSym, args.Advance())
			}
		}
		return Nil()
	case argSym.Str == VarArgSymbol:
		symbols := formals.Rest()
		if len(symbols) != 1 || strings.HasPrefix(symbols[0].Str, MetaArgPrefix) {
			return env.ErrorConditionf(CondEvalError, "function formal argument list contains a control symbol at an invalid location: %v", argSym.Str)
		}
		putVarArgs(symbols[0], args.Rest())
		return Nil()
	case strings.HasPrefix(argSym.Str, MetaArgPrefix):
		return env.ErrorConditionf(CondEvalError, "function formal argument list contains invalid control symbol ``%s''", argSym.Str)
	default:
		if args.IsEOF() {
			return fun
		}
		put(argSym, args.Advance())
		return Nil()
	}
}

type argParser struct {
	args []*LVal
	i    int
}

func (p *argParser) Pos() int {
	return p.i
}

func (p *argParser) IsEOF() bool {
	return p.i >= len(p.args)
}

func (p *argParser) Advance() *LVal {
	v := p.args[p.i]
	p.i++
	return v
}

func (p *argParser) Peek() *LVal {
	return p.args[p.i]
}

func (p *argParser) Rest() []*LVal {
	v := p.args[p.i:]
	p.i = len(p.args)
	return v
}
