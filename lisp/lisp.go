package lisp

import (
	"reflect"
	"strings"

	"github.com/bmatsuo/rlisp/parser/token"
	"github.com/bmatsuo/rlisp/symbol"
)

// LType is the type of an LVal
type LType uint

// Possible LType values
const (
	LInvalid LType = iota
	LNil
	LInt
	LFloat
	LString
	LSymbol
	LCons
	LVector
	LMap
	LFun
	LNative
	LError
	// LMarkMacExpand is returned by EvalSExpr when a macro call expanded.
	// Cells[0] holds the expansion, which Eval evaluates in place of the
	// call.  The mark never escapes Eval.
	LMarkMacExpand
	lTypeMax
)

var lvalTypeStrings = [lTypeMax]string{
	LInvalid: "invalid",
	LNil:     "nil",
	LInt:     "int",
	LFloat:   "float",
	LString:  "string",
	LSymbol:  "symbol",
	LCons:    "list",
	LVector:  "vector",
	LMap:     "map",
	LFun:     "function",
	LNative:  "native",
	LError:   "error",

	LMarkMacExpand: "macro-expansion",
}

func (t LType) String() string {
	if t >= lTypeMax {
		return lvalTypeStrings[LInvalid]
	}
	return lvalTypeStrings[t]
}

// LFunType distinguishes ordinary functions from special operators and
// macros.
type LFunType uint8

// Possible LFunType values
const (
	LFunNone LFunType = iota
	LFunSpecialOp
	LFunMacro
)

// LBuiltin is a function that performs executes a lisp function.
type LBuiltin func(env *LEnv, args *LVal) *LVal

// LVal is a lisp value.
//
// The meaning of fields depends on Type:
//
//	LInt     Int
//	LFloat   Float
//	LString  Str
//	LSymbol  Str is the symbol text and Sym its interned id
//	LCons    Native is a *ConsData
//	LVector  Cells
//	LMap     Native is a *MapData
//	LFun     Native is a *LFunData, Cells[0] holds formals and Cells[1:] the body
//	LNative  Native
//	LError   Str is the condition, Cells the message, Native a *CallStack and
//	         Int the 1-based position of the offending argument (or 0)
type LVal struct {
	Source  *token.Location
	Type    LType
	FunType LFunType
	Int     int
	Float   float64
	Str     string
	Sym     symbol.ID
	Cells   []*LVal
	Native  interface{}
}

// LFunData holds the data for an LFun value.
type LFunData struct {
	// FID is unique to the function value.
	FID string
	// Name is the name the function was defined with, when known.
	Name    string
	Builtin LBuiltin
	// Env is the environment captured by a closure.  Env is nil for
	// builtins.
	Env *LEnv
}

// Nil returns an LVal representing nil, the empty list.
func Nil() *LVal {
	return &LVal{Type: LNil}
}

// Int returns an LVal representing the number x.
func Int(x int) *LVal {
	return &LVal{Type: LInt, Int: x}
}

// Float returns an LVal representing the number x.
func Float(x float64) *LVal {
	return &LVal{Type: LFloat, Float: x}
}

// String returns an LVal representing the string s.
func String(s string) *LVal {
	return &LVal{Type: LString, Str: s}
}

// Symbol returns an LVal representing the symbol s, interned in
// symbol.DefaultGlobalTable.
func Symbol(s string) *LVal {
	return &LVal{Type: LSymbol, Str: s, Sym: symbol.Intern(s)}
}

// Keyword returns the keyword symbol named by s, adding the keyword prefix
// when s lacks it.
func Keyword(s string) *LVal {
	if !strings.HasPrefix(s, KeywordPrefix) {
		s = KeywordPrefix + s
	}
	return Symbol(s)
}

// Bool returns an LVal representing the boolean b.
func Bool(b bool) *LVal {
	if b {
		return Symbol(TrueSymbol)
	}
	return Symbol(FalseSymbol)
}

// Vector returns an LVal representing a vector of the given cells.
func Vector(cells []*LVal) *LVal {
	return &LVal{Type: LVector, Cells: cells}
}

// Native returns an LVal that wraps the host value x.
func Native(x interface{}) *LVal {
	return &LVal{Type: LNative, Native: x}
}

// Fun returns an LVal representing a builtin function.
func Fun(fid string, formals *LVal, fn LBuiltin) *LVal {
	return &LVal{
		Type:   LFun,
		Native: &LFunData{FID: fid, Builtin: fn},
		Cells:  []*LVal{formals},
	}
}

// SpecialOp returns an LVal representing a special operator.  Special
// operators receive their arguments unevaluated.
func SpecialOp(fid string, formals *LVal, fn LBuiltin) *LVal {
	v := Fun(fid, formals, fn)
	v.FunType = LFunSpecialOp
	return v
}

// Formals returns a list of symbols suitable as the formal argument list of a
// function.
func Formals(argSymbols ...string) *LVal {
	var b ListBuilder
	for _, s := range argSymbols {
		b.Append(Symbol(s))
	}
	return b.List()
}

// True returns true if v is truthy.  Only nil and the symbol false are falsy.
func True(v *LVal) bool {
	return !Not(v)
}

// Not returns true if v is nil or the symbol false.
func Not(v *LVal) bool {
	switch v.Type {
	case LNil:
		return true
	case LSymbol:
		return v.Str == FalseSymbol
	default:
		return false
	}
}

// GetType returns a string LVal naming the type of v.
func GetType(v *LVal) *LVal {
	return String(v.Type.String())
}

// IsNil returns true if v is the empty list.
func (v *LVal) IsNil() bool {
	return v.Type == LNil
}

// IsNumeric returns true if v has a primitive numeric type (int, float).
func (v *LVal) IsNumeric() bool {
	return v.Type == LInt || v.Type == LFloat
}

// IsKeyword returns true if v is a keyword symbol, like :Name.
func (v *LVal) IsKeyword() bool {
	return v.Type == LSymbol && len(v.Str) > len(KeywordPrefix) && strings.HasPrefix(v.Str, KeywordPrefix)
}

// IsMemberAccessor returns true if v is a symbol that accesses host members,
// like .Name.
func (v *LVal) IsMemberAccessor() bool {
	return v.Type == LSymbol && len(v.Str) > len(MemberPrefix) && strings.HasPrefix(v.Str, MemberPrefix)
}

// IsSpecialOp returns true if v is a special operator.
func (v *LVal) IsSpecialOp() bool {
	return v.Type == LFun && v.FunType == LFunSpecialOp
}

// IsMacro returns true if v is a macro.  Macros receive their arguments
// unevaluated and return a form which is evaluated in place of the call.
func (v *LVal) IsMacro() bool {
	return v.Type == LFun && v.FunType == LFunMacro
}

// IsCallable returns true if v can appear as the function in an application
// of regular arguments: a function which is neither a special operator nor a
// macro, or a keyword.
func (v *LVal) IsCallable() bool {
	return (v.Type == LFun && v.FunType == LFunNone) || v.IsKeyword()
}

// FunData returns the function data of an LFun value.
func (v *LVal) FunData() *LFunData {
	if v.Type != LFun {
		return nil
	}
	return v.Native.(*LFunData)
}

// FID returns the unique identifier of a function value.
func (v *LVal) FID() string {
	return v.FunData().FID
}

// Builtin returns the Go implementation of a builtin function, or nil for a
// closure.
func (v *LVal) Builtin() LBuiltin {
	return v.FunData().Builtin
}

// Env returns the environment captured by a closure, or nil for a builtin.
func (v *LVal) Env() *LEnv {
	return v.FunData().Env
}

// Formals returns the list of formal arguments of a function value.
func (v *LVal) Formals() *LVal {
	return v.Cells[0]
}

// Body returns the body forms of a closure.
func (v *LVal) Body() []*LVal {
	return v.Cells[1:]
}

// CallStack returns the call stack captured by an error.
func (v *LVal) CallStack() *CallStack {
	if v.Type != LError {
		return nil
	}
	stack, _ := v.Native.(*CallStack)
	return stack
}

// SetCallStack attaches stack to an error.
func (v *LVal) SetCallStack(stack *CallStack) {
	if v.Type != LError {
		panic("not an error: " + v.Type.String())
	}
	v.Native = stack
}

// Len returns the number of elements in a list, vector, map or string
// (counted in runes).  Len returns -1 for other types and improper lists.
func (v *LVal) Len() int {
	switch v.Type {
	case LNil:
		return 0
	case LCons:
		n, ok := consLen(v)
		if !ok {
			return -1
		}
		return n
	case LVector:
		return len(v.Cells)
	case LMap:
		return v.MapData().Len()
	case LString:
		return len([]rune(v.Str))
	default:
		return -1
	}
}

// String returns a readable representation of v.
func (v *LVal) String() string {
	var buf strings.Builder
	_, _ = Format(&buf, v)
	return buf.String()
}

// Equal returns true if a and b are equal values.  Numbers are equal when
// they are numerically equal regardless of type.  Lists, vectors and maps are
// compared element-wise.  Functions and errors are compared by identity.
func Equal(a, b *LVal) bool {
	if a.IsNumeric() && b.IsNumeric() {
		if a.Type == LInt && b.Type == LInt {
			return a.Int == b.Int
		}
		return toFloat(a) == toFloat(b)
	}
	if a.Type != b.Type {
		return false
	}
	switch a.Type {
	case LNil:
		return true
	case LString:
		return a.Str == b.Str
	case LSymbol:
		return a.Sym == b.Sym
	case LCons:
		for a.Type == LCons && b.Type == LCons {
			ca, cb := a.Native.(*ConsData), b.Native.(*ConsData)
			if !Equal(ca.CAR, cb.CAR) {
				return false
			}
			a, b = ca.CDR, cb.CDR
		}
		return Equal(a, b)
	case LVector:
		if len(a.Cells) != len(b.Cells) {
			return false
		}
		for i := range a.Cells {
			if !Equal(a.Cells[i], b.Cells[i]) {
				return false
			}
		}
		return true
	case LMap:
		return a.MapData().equal(b.MapData())
	case LNative:
		// comparing arbitrary interface{} values with == can panic
		return reflect.DeepEqual(a.Native, b.Native)
	default:
		return a == b
	}
}

func toFloat(v *LVal) float64 {
	if v.Type == LFloat {
		return v.Float
	}
	return float64(v.Int)
}
