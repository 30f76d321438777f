package lisp

import (
	"bytes"
	"fmt"
	"sort"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// LBuiltinDef is a built-in function
type LBuiltinDef interface {
	Name() string
	Formals() *LVal
	Eval(env *LEnv, args *LVal) *LVal
}

type langBuiltin struct {
	name    string
	formals *LVal
	fun     LBuiltin
}

func (fun *langBuiltin) Name() string {
	return fun.name
}

func (fun *langBuiltin) Formals() *LVal {
	return fun.formals
}

func (fun *langBuiltin) Eval(env *LEnv, args *LVal) *LVal {
	return fun.fun(env, args)
}

var userBuiltins []*langBuiltin
var langBuiltins = []*langBuiltin{
	{"load-string", Formals("source-code"), builtinLoadString},
	{"eval", Formals("expr"), builtinEval},
	{"macroexpand", Formals("form"), builtinMacroExpand},
	{"macroexpand-1", Formals("form"), builtinMacroExpand1},
	{"error", Formals(VarArgSymbol, "args"), builtinError},
	{"type-of", Formals("value"), builtinTypeOf},
	{"list", Formals(VarArgSymbol, "args"), builtinList},
	{"vector", Formals(VarArgSymbol, "args"), builtinVector},
	{"cons", Formals("head", "tail"), builtinCons},
	{"car", Formals("lis"), builtinCAR},
	{"first", Formals("lis"), builtinCAR},
	{"cdr", Formals("lis"), builtinCDR},
	{"rest", Formals("lis"), builtinCDR},
	{"nth", Formals("seq", "n"), builtinNth},
	{"/count", Formals("seq"), builtinCount},
	{"count", Formals("seq"), builtinCount},
	{"length", Formals("seq"), builtinCount},
	{"append", Formals(VarArgSymbol, "lists"), builtinAppend},
	{"reverse", Formals("seq"), builtinReverse},
	{"slice", Formals("seq", "start", "end"), builtinSlice},
	{"range", Formals("start", OptArgSymbol, "stop", "step"), builtinRange},
	{"filter", Formals("predicate", "seq"), builtinFilter},
	{"map", Formals("fn", "seq", VarArgSymbol, "seqs"), builtinMap},
	{"foldl", Formals("fn", "z", "seq"), builtinFoldLeft},
	{"sort", Formals("less-predicate", "seq"), builtinSort},
	{"any?", Formals("predicate", "seq"), builtinAnyP},
	{"all?", Formals("predicate", "seq"), builtinAllP},
	{"apply", Formals("fn", VarArgSymbol, "args"), builtinApply},
	{"funcall", Formals("fn", VarArgSymbol, "args"), builtinFuncall},
	{"not", Formals("expr"), builtinNot},
	{"equal?", Formals("a", "b"), builtinEqual},
	{"nil?", Formals("x"), builtinNilP},
	{"empty?", Formals("seq"), builtinEmptyP},
	{"list?", Formals("x"), builtinTypeP(LNil, LCons)},
	{"vector?", Formals("x"), builtinTypeP(LVector)},
	{"string?", Formals("x"), builtinTypeP(LString)},
	{"number?", Formals("x"), builtinTypeP(LInt, LFloat)},
	{"map?", Formals("x"), builtinTypeP(LMap)},
	{"symbol?", Formals("x"), builtinTypeP(LSymbol)},
	{"function?", Formals("x"), builtinTypeP(LFun)},
	{"keyword?", Formals("x"), builtinKeywordP},
	{"lower-case", Formals("s"), builtinLowerCase},
	{"upper-case", Formals("s"), builtinUpperCase},
	{"str", Formals(VarArgSymbol, "args"), builtinStr},
	{"to-string", Formals("x"), builtinToString},
	{"format-string", Formals("format", VarArgSymbol, "values"), builtinFormatString},
	{"assoc-value", Formals("key", "alist"), builtinAssocValue},
	{"new-map", Formals(VarArgSymbol, "pairs"), builtinNewMap},
	{"get", Formals("map", "key", OptArgSymbol, "default"), builtinGet},
	{"assoc", Formals("map", "key", "value"), builtinAssoc},
	{"keys", Formals("map"), builtinKeys},
	{"values", Formals("map"), builtinValues},
	{"println", Formals(VarArgSymbol, "args"), builtinPrintln},
	{"print", Formals(VarArgSymbol, "args"), builtinPrint},
	{"debug-print", Formals(VarArgSymbol, "args"), builtinDebugPrint},
	{"debug-stack", Formals(), builtinDebugStack},
}

// RegisterDefaultBuiltin adds the given function to the list returned by
// DefaultBuiltins.
func RegisterDefaultBuiltin(name string, formals *LVal, fn LBuiltin) {
	userBuiltins = append(userBuiltins, &langBuiltin{name, formals, fn})
}

// DefaultBuiltins returns the default set of LBuiltinDefs added to LEnv
// objects when LEnv.AddBuiltins is called without arguments.
func DefaultBuiltins() []LBuiltinDef {
	ops := make([]LBuiltinDef, 0, len(langBuiltins)+len(langOperators)+len(userBuiltins))
	for i := range langBuiltins {
		ops = append(ops, langBuiltins[i])
	}
	for i := range langOperators {
		ops = append(ops, langOperators[i])
	}
	for i := range userBuiltins {
		ops = append(ops, userBuiltins[i])
	}
	return ops
}

func builtinLoadString(env *LEnv, args *LVal) *LVal {
	if args.Cells[0].Type != LString {
		return env.ArgTypeError(1, "a string", args.Cells[0])
	}
	return env.LoadString("load-string", args.Cells[0].Str)
}

func builtinEval(env *LEnv, args *LVal) *LVal {
	return env.Eval(args.Cells[0])
}

// builtinError signals an error.  When the first of several arguments is a
// symbol it names the condition.
func builtinError(env *LEnv, args *LVal) *LVal {
	cells := args.Cells
	condition := CondError
	if len(cells) > 1 && cells[0].Type == LSymbol {
		condition = cells[0].Str
		cells = cells[1:]
	}
	iargs := make([]interface{}, len(cells))
	for i, arg := range cells {
		iargs[i] = arg
	}
	return env.ErrorCondition(condition, iargs...)
}

func builtinTypeOf(env *LEnv, args *LVal) *LVal {
	return GetType(args.Cells[0])
}

func builtinList(env *LEnv, args *LVal) *LVal {
	return ListOf(args.Cells...)
}

func builtinVector(env *LEnv, args *LVal) *LVal {
	cells := make([]*LVal, len(args.Cells))
	copy(cells, args.Cells)
	return Vector(cells)
}

func builtinCons(env *LEnv, args *LVal) *LVal {
	return Cons(args.Cells[0], args.Cells[1])
}

func builtinCAR(env *LEnv, args *LVal) *LVal {
	v := args.Cells[0]
	switch v.Type {
	case LNil:
		return Nil()
	case LCons:
		return v.ConsData().CAR
	case LVector:
		if len(v.Cells) == 0 {
			return Nil()
		}
		return v.Cells[0]
	}
	return env.ArgTypeError(1, "a list", v)
}

func builtinCDR(env *LEnv, args *LVal) *LVal {
	v := args.Cells[0]
	switch v.Type {
	case LNil:
		return Nil()
	case LCons:
		return v.ConsData().CDR
	case LVector:
		if len(v.Cells) == 0 {
			return Nil()
		}
		return ListOf(v.Cells[1:]...)
	}
	return env.ArgTypeError(1, "a list", v)
}

func builtinNth(env *LEnv, args *LVal) *LVal {
	seq, n := args.Cells[0], args.Cells[1]
	if n.Type != LInt {
		return env.ArgTypeError(2, "an int", n)
	}
	if n.Int < 0 {
		return env.IndexErrorf("index out of range: %d", n.Int)
	}
	switch seq.Type {
	case LNil, LCons:
		it := NewListIterator(seq)
		for i := 0; it.Next(); i++ {
			if i == n.Int {
				return it.Value()
			}
		}
		if it.Err() != nil {
			return env.ArgTypeError(1, "a proper list", seq)
		}
	case LVector, LString:
		values, _ := SeqValues(seq)
		if n.Int < len(values) {
			return values[n.Int]
		}
	default:
		return env.ArgTypeError(1, "a list, vector or string", seq)
	}
	return env.IndexErrorf("index out of range: %d (length %d)", n.Int, seq.Len())
}

func builtinCount(env *LEnv, args *LVal) *LVal {
	seq := args.Cells[0]
	if !IsSeq(seq) {
		return env.ArgTypeError(1, "a sequence", seq)
	}
	return Int(seq.Len())
}

func builtinAppend(env *LEnv, args *LVal) *LVal {
	if len(args.Cells) == 0 {
		return Nil()
	}
	var b ListBuilder
	last := len(args.Cells) - 1
	for i, lis := range args.Cells[:last] {
		values, ok := listValues(lis)
		if !ok {
			return env.ArgTypeError(i+1, "a list", lis)
		}
		b.Append(values...)
	}
	tail := args.Cells[last]
	if tail.Type == LVector {
		tail = ListOf(tail.Cells...)
	}
	b.Terminate(tail)
	return b.List()
}

func listValues(v *LVal) ([]*LVal, bool) {
	if v.Type == LVector {
		return v.Cells, true
	}
	return ListSlice(v)
}

func builtinReverse(env *LEnv, args *LVal) *LVal {
	seq := args.Cells[0]
	values, ok := SeqValues(seq)
	if !ok || seq.Type == LMap {
		return env.ArgTypeError(1, "a list, vector or string", seq)
	}
	rev := make([]*LVal, len(values))
	for i := range values {
		rev[len(values)-1-i] = values[i]
	}
	switch seq.Type {
	case LVector:
		return Vector(rev)
	case LString:
		var buf bytes.Buffer
		for _, c := range rev {
			buf.WriteString(c.Str)
		}
		return String(buf.String())
	}
	return ListOf(rev...)
}

func builtinSlice(env *LEnv, args *LVal) *LVal {
	seq, start, end := args.Cells[0], args.Cells[1], args.Cells[2]
	if start.Type != LInt {
		return env.ArgTypeError(2, "an int", start)
	}
	if end.Type != LInt {
		return env.ArgTypeError(3, "an int", end)
	}
	values, ok := SeqValues(seq)
	if !ok || seq.Type == LMap {
		return env.ArgTypeError(1, "a list, vector or string", seq)
	}
	if start.Int < 0 || end.Int < start.Int || end.Int > len(values) {
		return env.IndexErrorf("invalid slice range [%d:%d] (length %d)", start.Int, end.Int, len(values))
	}
	values = values[start.Int:end.Int]
	switch seq.Type {
	case LVector:
		cells := make([]*LVal, len(values))
		copy(cells, values)
		return Vector(cells)
	case LString:
		var buf bytes.Buffer
		for _, c := range values {
			buf.WriteString(c.Str)
		}
		return String(buf.String())
	}
	return ListOf(values...)
}

func builtinRange(env *LEnv, args *LVal) *LVal {
	start, stop, step := Int(0), args.Cells[0], args.Cells[2]
	if !args.Cells[1].IsNil() {
		start, stop = args.Cells[0], args.Cells[1]
	}
	if step.IsNil() {
		step = Int(1)
	}
	for i, v := range []*LVal{start, stop, step} {
		if v.Type != LInt {
			return env.ArgTypeError(i+1, "an int", v)
		}
	}
	if step.Int == 0 {
		return env.ErrorConditionf(CondTypeError, "range: step is zero")
	}
	var b ListBuilder
	for i := start.Int; (step.Int > 0 && i < stop.Int) || (step.Int < 0 && i > stop.Int); i += step.Int {
		b.Append(Int(i))
	}
	return b.List()
}

// builtinFilter calls the predicate exactly once for each element, in order,
// before returning.  Predicates may have side effects.
func builtinFilter(env *LEnv, args *LVal) *LVal {
	f, seq := args.Cells[0], args.Cells[1]
	if !f.IsCallable() {
		return env.ArgTypeError(1, "a function", f)
	}
	values, ok := SeqValues(seq)
	if !ok {
		return env.ArgTypeError(2, "a sequence", seq)
	}
	var b ListBuilder
	for _, v := range values {
		ok := env.Apply(f, v)
		if ok.Type == LError {
			return ok
		}
		if True(ok) {
			b.Append(v)
		}
	}
	return b.List()
}

func builtinMap(env *LEnv, args *LVal) *LVal {
	f := args.Cells[0]
	if !f.IsCallable() {
		return env.ArgTypeError(1, "a function", f)
	}
	seqs := make([][]*LVal, len(args.Cells)-1)
	n := -1
	for i, seq := range args.Cells[1:] {
		values, ok := SeqValues(seq)
		if !ok {
			return env.ArgTypeError(i+2, "a sequence", seq)
		}
		seqs[i] = values
		if n < 0 || len(values) < n {
			n = len(values)
		}
	}
	var b ListBuilder
	fargs := make([]*LVal, len(seqs))
	for i := 0; i < n; i++ {
		for j := range seqs {
			fargs[j] = seqs[j][i]
		}
		ret := env.Apply(f, fargs...)
		if ret.Type == LError {
			return ret
		}
		b.Append(ret)
	}
	return b.List()
}

func builtinFoldLeft(env *LEnv, args *LVal) *LVal {
	f, acc, seq := args.Cells[0], args.Cells[1], args.Cells[2]
	if !f.IsCallable() {
		return env.ArgTypeError(1, "a function", f)
	}
	values, ok := SeqValues(seq)
	if !ok {
		return env.ArgTypeError(3, "a sequence", seq)
	}
	for _, v := range values {
		acc = env.Apply(f, acc, v)
		if acc.Type == LError {
			return acc
		}
	}
	return acc
}

func builtinSort(env *LEnv, args *LVal) *LVal {
	f, seq := args.Cells[0], args.Cells[1]
	if !f.IsCallable() {
		return env.ArgTypeError(1, "a function", f)
	}
	values, ok := SeqValues(seq)
	if !ok {
		return env.ArgTypeError(2, "a sequence", seq)
	}
	sorted := make([]*LVal, len(values))
	copy(sorted, values)
	var lerr *LVal
	sort.SliceStable(sorted, func(i, j int) bool {
		if lerr != nil {
			return false
		}
		ret := env.Apply(f, sorted[i], sorted[j])
		if ret.Type == LError {
			lerr = ret
			return false
		}
		return True(ret)
	})
	if lerr != nil {
		return lerr
	}
	return ListOf(sorted...)
}

func builtinAnyP(env *LEnv, args *LVal) *LVal {
	return env.quantify(args, true)
}

func builtinAllP(env *LEnv, args *LVal) *LVal {
	return env.quantify(args, false)
}

// quantify stops at the first element for which the predicate is want.
func (env *LEnv) quantify(args *LVal, want bool) *LVal {
	f, seq := args.Cells[0], args.Cells[1]
	if !f.IsCallable() {
		return env.ArgTypeError(1, "a function", f)
	}
	values, ok := SeqValues(seq)
	if !ok {
		return env.ArgTypeError(2, "a sequence", seq)
	}
	for _, v := range values {
		ret := env.Apply(f, v)
		if ret.Type == LError {
			return ret
		}
		if True(ret) == want {
			return Bool(want)
		}
	}
	return Bool(!want)
}

func builtinApply(env *LEnv, args *LVal) *LVal {
	f := args.Cells[0]
	if !f.IsCallable() {
		return env.ArgTypeError(1, "a function", f)
	}
	fargs := args.Cells[1:]
	if len(fargs) == 0 {
		return env.Apply(f)
	}
	last := fargs[len(fargs)-1]
	spread, ok := listValues(last)
	if !ok {
		return env.ArgTypeError(len(args.Cells), "a list", last)
	}
	cells := make([]*LVal, 0, len(fargs)-1+len(spread))
	cells = append(cells, fargs[:len(fargs)-1]...)
	cells = append(cells, spread...)
	return env.Apply(f, cells...)
}

func builtinFuncall(env *LEnv, args *LVal) *LVal {
	f := args.Cells[0]
	if !f.IsCallable() {
		return env.ArgTypeError(1, "a function", f)
	}
	return env.Apply(f, args.Cells[1:]...)
}

func builtinNot(env *LEnv, args *LVal) *LVal {
	return Bool(Not(args.Cells[0]))
}

func builtinEqual(env *LEnv, args *LVal) *LVal {
	return Bool(Equal(args.Cells[0], args.Cells[1]))
}

func builtinNilP(env *LEnv, args *LVal) *LVal {
	return Bool(args.Cells[0].IsNil())
}

func builtinEmptyP(env *LEnv, args *LVal) *LVal {
	seq := args.Cells[0]
	if !IsSeq(seq) {
		return env.ArgTypeError(1, "a sequence", seq)
	}
	return Bool(seq.Len() == 0)
}

func builtinTypeP(types ...LType) LBuiltin {
	return func(env *LEnv, args *LVal) *LVal {
		for _, t := range types {
			if args.Cells[0].Type == t {
				return Bool(true)
			}
		}
		return Bool(false)
	}
}

func builtinKeywordP(env *LEnv, args *LVal) *LVal {
	return Bool(args.Cells[0].IsKeyword())
}

func builtinLowerCase(env *LEnv, args *LVal) *LVal {
	s := args.Cells[0]
	if s.Type != LString {
		return env.ArgTypeError(1, "a string", s)
	}
	return String(cases.Lower(language.Und).String(s.Str))
}

func builtinUpperCase(env *LEnv, args *LVal) *LVal {
	s := args.Cells[0]
	if s.Type != LString {
		return env.ArgTypeError(1, "a string", s)
	}
	return String(cases.Upper(language.Und).String(s.Str))
}

func builtinStr(env *LEnv, args *LVal) *LVal {
	var buf bytes.Buffer
	for _, v := range args.Cells {
		_, _ = Print(&buf, v)
	}
	return String(buf.String())
}

func builtinToString(env *LEnv, args *LVal) *LVal {
	var buf bytes.Buffer
	_, _ = Print(&buf, args.Cells[0])
	return String(buf.String())
}

func builtinFormatString(env *LEnv, args *LVal) *LVal {
	format := args.Cells[0]
	if format.Type != LString {
		return env.ArgTypeError(1, "a string", format)
	}
	s, err := FormatString(format.Str, args.Cells[1:])
	if err != nil {
		return env.Errorf("%s%v", env.funPrefix(), err)
	}
	return String(s)
}

// builtinAssocValue returns the value of the first entry of an association
// list whose key matches.  Entries are (key value) lists or (key . value)
// pairs.
func builtinAssocValue(env *LEnv, args *LVal) *LVal {
	key, alist := args.Cells[0], args.Cells[1]
	entries, ok := listValues(alist)
	if !ok {
		return env.ArgTypeError(2, "a list", alist)
	}
	for _, entry := range entries {
		data := entry.ConsData()
		if data == nil {
			if entry.Type == LVector && len(entry.Cells) > 0 && keysMatch(key, entry.Cells[0]) {
				if len(entry.Cells) < 2 {
					return Nil()
				}
				return entry.Cells[1]
			}
			continue
		}
		if !keysMatch(key, data.CAR) {
			continue
		}
		if rest := data.CDR.ConsData(); rest != nil {
			return rest.CAR
		}
		return data.CDR
	}
	return Nil()
}

// keysMatch compares association keys.  Strings, symbols and keywords match
// when their text does.
func keysMatch(a, b *LVal) bool {
	ka, erra := toMapKey(a)
	kb, errb := toMapKey(b)
	if erra == nil && errb == nil && ka.kind == mapKeyText && kb.kind == mapKeyText {
		return ka.s == kb.s
	}
	return Equal(a, b)
}

func builtinNewMap(env *LEnv, args *LVal) *LVal {
	pairs := args.Cells
	if len(pairs) == 1 {
		if values, ok := listValues(pairs[0]); ok && len(values) > 0 && isPair(values[0]) {
			pairs = values
		}
	}
	m := NewMap(len(pairs))
	for i, pair := range pairs {
		kv, ok := listValues(pair)
		if !ok || len(kv) != 2 {
			return env.ArgTypeError(i+1, "a (key value) pair", pair)
		}
		err := m.MapData().Set(kv[0], kv[1])
		if err != nil {
			return env.ErrorConditionf(CondTypeError, "%s%v", env.funPrefix(), err)
		}
	}
	return m
}

func isPair(v *LVal) bool {
	kv, ok := listValues(v)
	return ok && len(kv) == 2
}

func builtinGet(env *LEnv, args *LVal) *LVal {
	m, key, def := args.Cells[0], args.Cells[1], args.Cells[2]
	switch m.Type {
	case LNil:
		return def
	case LMap:
	default:
		return env.ArgTypeError(1, "a map", m)
	}
	v, ok, err := m.MapData().Get(key)
	if err != nil {
		return env.ArgTypeError(2, "a map key", key)
	}
	if !ok {
		return def
	}
	return v
}

func builtinAssoc(env *LEnv, args *LVal) *LVal {
	m, key, val := args.Cells[0], args.Cells[1], args.Cells[2]
	var data *MapData
	switch m.Type {
	case LNil:
		data = newMapData(1)
	case LMap:
		data = m.MapData().Copy()
	default:
		return env.ArgTypeError(1, "a map", m)
	}
	if err := data.Set(key, val); err != nil {
		return env.ArgTypeError(2, "a map key", key)
	}
	return &LVal{Type: LMap, Native: data}
}

func builtinKeys(env *LEnv, args *LVal) *LVal {
	m := args.Cells[0]
	switch m.Type {
	case LNil:
		return Nil()
	case LMap:
		return ListOf(m.MapData().Keys()...)
	}
	return env.ArgTypeError(1, "a map", m)
}

func builtinValues(env *LEnv, args *LVal) *LVal {
	m := args.Cells[0]
	switch m.Type {
	case LNil:
		return Nil()
	case LMap:
		var b ListBuilder
		m.MapData().Each(func(_, v *LVal) bool {
			b.Append(v)
			return true
		})
		return b.List()
	}
	return env.ArgTypeError(1, "a map", m)
}

func builtinPrintln(env *LEnv, args *LVal) *LVal {
	return env.print(args.Cells, true)
}

func builtinPrint(env *LEnv, args *LVal) *LVal {
	return env.print(args.Cells, false)
}

// print concatenates vals without separators and writes them to the output
// sink in a single call.
func (env *LEnv) print(vals []*LVal, newline bool) *LVal {
	var buf bytes.Buffer
	for _, v := range vals {
		_, _ = Print(&buf, v)
	}
	if newline {
		buf.WriteByte('\n')
	}
	_, err := env.Runtime.getStdout().Write(buf.Bytes())
	if err != nil {
		return env.Error(err)
	}
	return Nil()
}

func builtinDebugPrint(env *LEnv, args *LVal) *LVal {
	fmtargs := make([]interface{}, len(args.Cells))
	for i := range args.Cells {
		fmtargs[i] = args.Cells[i]
	}
	fmt.Fprintln(env.Runtime.getStderr(), fmtargs...)
	return Nil()
}

func builtinDebugStack(env *LEnv, args *LVal) *LVal {
	_, err := env.Runtime.Stack.DebugPrint(env.Runtime.getStderr())
	if err != nil {
		return env.Error(err)
	}
	return Nil()
}
