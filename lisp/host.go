package lisp

import (
	"fmt"
	"reflect"
	"sort"
	"time"
)

// Resolver is implemented by host values which expose members to lisp code
// explicitly.  Resolve returns false when the value has no member with the
// given name.  A Resolver is consulted instead of reflection.
type Resolver interface {
	Resolve(member string) (interface{}, bool)
}

var (
	lvalType  = reflect.TypeOf((*LVal)(nil))
	errorType = reflect.TypeOf((*error)(nil)).Elem()
)

// FromGo converts the host value x to an LVal.  Numbers, strings and booleans
// become atoms, slices and arrays become lists, maps with string keys become
// maps (keys in sorted order) and an *LVal is returned unchanged.  Any other
// value, including structs, pointers and time.Time, is wrapped as LNative.
func FromGo(x interface{}) *LVal {
	switch x := x.(type) {
	case nil:
		return Nil()
	case *LVal:
		if x == nil {
			return Nil()
		}
		return x
	case bool:
		return Bool(x)
	case int:
		return Int(x)
	case int64:
		return Int(int(x))
	case int32:
		return Int(int(x))
	case float64:
		return Float(x)
	case float32:
		return Float(float64(x))
	case string:
		return String(x)
	case []byte:
		return String(string(x))
	case Resolver, time.Time, error:
		return Native(x)
	case []interface{}:
		return ListOf(fromGoSlice(x)...)
	case map[string]interface{}:
		keys := make([]string, 0, len(x))
		for k := range x {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		m := NewMap(len(keys))
		for _, k := range keys {
			_ = m.MapData().Set(String(k), FromGo(x[k]))
		}
		return m
	}
	return fromGoReflect(reflect.ValueOf(x))
}

func fromGoSlice(xs []interface{}) []*LVal {
	cells := make([]*LVal, len(xs))
	for i := range xs {
		cells[i] = FromGo(xs[i])
	}
	return cells
}

func fromGoReflect(rv reflect.Value) *LVal {
	switch rv.Kind() {
	case reflect.Bool:
		return Bool(rv.Bool())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return Int(int(rv.Int()))
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return Int(int(rv.Uint()))
	case reflect.Float32, reflect.Float64:
		return Float(rv.Float())
	case reflect.String:
		return String(rv.String())
	case reflect.Slice:
		if rv.IsNil() {
			return Nil()
		}
		fallthrough
	case reflect.Array:
		var b ListBuilder
		for i := 0; i < rv.Len(); i++ {
			b.Append(FromGo(rv.Index(i).Interface()))
		}
		return b.List()
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return Native(rv.Interface())
		}
		keys := rv.MapKeys()
		sort.Slice(keys, func(i, j int) bool { return keys[i].String() < keys[j].String() })
		m := NewMap(len(keys))
		for _, k := range keys {
			_ = m.MapData().Set(String(k.String()), FromGo(rv.MapIndex(k).Interface()))
		}
		return m
	case reflect.Ptr, reflect.Interface, reflect.Func, reflect.Chan:
		if rv.IsNil() {
			return Nil()
		}
	case reflect.Invalid:
		return Nil()
	}
	return Native(rv.Interface())
}

// Interface converts v to a plain Go value.  Lists and vectors become
// []interface{}, maps become map[string]interface{} and the symbols true and
// false become booleans.  Other symbols become their text.  Functions are
// returned as *LVal.
func (v *LVal) Interface() interface{} {
	switch v.Type {
	case LNil:
		return nil
	case LInt:
		return v.Int
	case LFloat:
		return v.Float
	case LString:
		return v.Str
	case LSymbol:
		switch v.Str {
		case TrueSymbol:
			return true
		case FalseSymbol:
			return false
		}
		return v.Str
	case LCons:
		var xs []interface{}
		it := NewListIterator(v)
		for it.Next() {
			xs = append(xs, it.Value().Interface())
		}
		return xs
	case LVector:
		xs := make([]interface{}, len(v.Cells))
		for i := range v.Cells {
			xs[i] = v.Cells[i].Interface()
		}
		return xs
	case LMap:
		m := make(map[string]interface{}, v.MapData().Len())
		v.MapData().Each(func(k, val *LVal) bool {
			m[hostKeyText(k)] = val.Interface()
			return true
		})
		return m
	case LNative:
		return v.Native
	case LError:
		return GoError(v)
	default:
		return v
	}
}

func hostKeyText(k *LVal) string {
	key, err := toMapKey(k)
	if err != nil || key.kind != mapKeyText {
		return k.String()
	}
	return key.s
}

// MemberCall resolves member on the receiver args.Cells[0] and returns its
// value.  When the member is a method it is called with the remaining
// arguments.  Maps resolve their own keys.
func (env *LEnv) MemberCall(member string, args *LVal) *LVal {
	if len(args.Cells) == 0 {
		return env.ErrorConditionf(CondEvalError, ".%s: no receiver", member)
	}
	recv, rest := args.Cells[0], args.Cells[1:]
	switch recv.Type {
	case LMap:
		v, ok, _ := recv.MapData().Get(String(member))
		if !ok {
			return env.ErrorConditionf(CondHostAccess, ".%s: map has no key %q", member, member)
		}
		if len(rest) > 0 {
			return env.Apply(v, rest...)
		}
		return v
	case LNil:
		return env.ErrorConditionf(CondHostAccess, ".%s: receiver is nil", member)
	case LNative:
		if recv.Native == nil {
			return env.ErrorConditionf(CondHostAccess, ".%s: receiver is nil", member)
		}
	default:
		return env.ErrorConditionf(CondHostAccess, ".%s: receiver is not a host object: %v", member, recv.Type)
	}
	if r, ok := recv.Native.(Resolver); ok {
		x, ok := r.Resolve(member)
		if !ok {
			return env.ErrorConditionf(CondHostAccess, ".%s: no such member on %T", member, recv.Native)
		}
		fn := reflect.ValueOf(x)
		if fn.Kind() == reflect.Func {
			return env.callHost(member, fn, rest)
		}
		if len(rest) > 0 {
			return env.ErrorConditionf(CondHostAccess, ".%s: member is not a method", member)
		}
		return FromGo(x)
	}
	return env.reflectMember(member, reflect.ValueOf(recv.Native), rest)
}

func (env *LEnv) reflectMember(member string, rv reflect.Value, args []*LVal) *LVal {
	typeName := rv.Type().String()
	if m := rv.MethodByName(member); m.IsValid() {
		return env.callHost(member, m, args)
	}
	for rv.Kind() == reflect.Ptr || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return env.ErrorConditionf(CondHostAccess, ".%s: receiver is a nil %s", member, typeName)
		}
		rv = rv.Elem()
		if m := rv.MethodByName(member); m.IsValid() {
			return env.callHost(member, m, args)
		}
	}
	var v reflect.Value
	switch rv.Kind() {
	case reflect.Struct:
		field, ok := rv.Type().FieldByName(member)
		if !ok || field.PkgPath != "" {
			break
		}
		f, err := rv.FieldByIndexErr(field.Index)
		if err != nil {
			return env.ErrorConditionf(CondHostAccess, ".%s: %v", member, err)
		}
		v = f
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			break
		}
		x := rv.MapIndex(reflect.ValueOf(member).Convert(rv.Type().Key()))
		if x.IsValid() {
			v = x
		}
	}
	if !v.IsValid() {
		return env.ErrorConditionf(CondHostAccess, ".%s: no such member on %s", member, typeName)
	}
	if len(args) > 0 {
		if v.Kind() == reflect.Func && !v.IsNil() {
			return env.callHost(member, v, args)
		}
		return env.ErrorConditionf(CondHostAccess, ".%s: member is not a method", member)
	}
	return FromGo(v.Interface())
}

// callHost calls the Go function fn with args.  Functions may return no
// values, one value, or a value followed by an error.
func (env *LEnv) callHost(member string, fn reflect.Value, args []*LVal) (ret *LVal) {
	typ := fn.Type()
	nin := typ.NumIn()
	if typ.IsVariadic() {
		if len(args) < nin-1 {
			return env.ErrorConditionf(CondHostAccess, ".%s: expected at least %d arguments (got %d)", member, nin-1, len(args))
		}
	} else if len(args) != nin {
		return env.ErrorConditionf(CondHostAccess, ".%s: expected %d arguments (got %d)", member, nin, len(args))
	}
	in := make([]reflect.Value, len(args))
	for i, a := range args {
		var t reflect.Type
		if typ.IsVariadic() && i >= nin-1 {
			t = typ.In(nin - 1).Elem()
		} else {
			t = typ.In(i)
		}
		x, err := hostArg(a, t)
		if err != nil {
			return env.ErrorConditionf(CondHostAccess, ".%s: argument %d: %v", member, i+1, err)
		}
		in[i] = x
	}
	defer func() {
		if p := recover(); p != nil {
			ret = env.ErrorConditionf(CondHostAccess, ".%s: %v", member, p)
		}
	}()
	out := fn.Call(in)
	switch {
	case len(out) == 0:
		return Nil()
	case len(out) == 2 && typ.Out(1) == errorType:
		if err, _ := out[1].Interface().(error); err != nil {
			return env.ErrorConditionf(CondHostAccess, ".%s: %v", member, err)
		}
		return FromGo(out[0].Interface())
	case len(out) == 1:
		if typ.Out(0) == errorType {
			if err, _ := out[0].Interface().(error); err != nil {
				return env.ErrorConditionf(CondHostAccess, ".%s: %v", member, err)
			}
			return Nil()
		}
		return FromGo(out[0].Interface())
	default:
		results := make([]*LVal, len(out))
		for i := range out {
			results[i] = FromGo(out[i].Interface())
		}
		return ListOf(results...)
	}
}

func hostArg(a *LVal, t reflect.Type) (reflect.Value, error) {
	if t == lvalType {
		return reflect.ValueOf(a), nil
	}
	x := a.Interface()
	if x == nil {
		switch t.Kind() {
		case reflect.Ptr, reflect.Interface, reflect.Slice, reflect.Map, reflect.Func:
			return reflect.Zero(t), nil
		}
		return reflect.Value{}, fmt.Errorf("nil is not assignable to %v", t)
	}
	xv := reflect.ValueOf(x)
	if xv.Type().AssignableTo(t) {
		return xv, nil
	}
	if sameKindClass(xv.Kind(), t.Kind()) && xv.Type().ConvertibleTo(t) {
		return xv.Convert(t), nil
	}
	return reflect.Value{}, fmt.Errorf("%v is not assignable to %v", a.Type, t)
}

func sameKindClass(a, b reflect.Kind) bool {
	return kindClass(a) != 0 && kindClass(a) == kindClass(b)
}

func kindClass(k reflect.Kind) int {
	switch {
	case k >= reflect.Int && k <= reflect.Float64:
		return 1
	case k == reflect.String:
		return 2
	case k == reflect.Bool:
		return 3
	}
	return 0
}
