package lisp

// quasiquote expands the template tmpl at the given nesting depth.  Unquoted
// forms at depth 1 are evaluated in env.  Nested quasiquote forms increase the
// depth and are copied with their unquotes left in place.
//
// List spines are walked iteratively.  Recursion happens only when an element
// is itself a list, vector or map.
func (env *LEnv) quasiquote(tmpl *LVal, depth int) *LVal {
	switch tmpl.Type {
	case LCons:
	case LVector:
		cells, lerr := env.quasiquoteCells(tmpl.Cells, depth)
		if lerr != nil {
			return lerr
		}
		return Vector(cells)
	case LMap:
		return env.quasiquoteMap(tmpl, depth)
	default:
		return tmpl
	}

	if arg, ok := quoteArg(tmpl, UnquoteSymbol); ok {
		if depth == 1 {
			return env.Eval(arg)
		}
		return env.requote(UnquoteSymbol, arg, depth-1)
	}
	if arg, ok := quoteArg(tmpl, QuasiquoteSymbol); ok {
		return env.requote(QuasiquoteSymbol, arg, depth+1)
	}
	if arg, ok := quoteArg(tmpl, UnquoteSplicingSymbol); ok {
		if depth == 1 {
			return env.ErrorConditionf(CondEvalError, "quasiquote: unquote-splicing outside of a list")
		}
		return env.requote(UnquoteSplicingSymbol, arg, depth-1)
	}

	var b ListBuilder
	cur := tmpl
	for i := 0; cur.Type == LCons; i++ {
		if i > 0 {
			// (a . ,b) reads as (a unquote b) and (a . ,@b) as
			// (a unquote-splicing b).  The remaining spine is the tail of
			// the result rather than more elements.
			if arg, ok := quoteArg(cur, UnquoteSplicingSymbol); ok && depth == 1 {
				tail := env.Eval(arg)
				if tail.Type == LError {
					return tail
				}
				b.Terminate(tail)
				return b.List()
			}
			if isQuoteForm(cur, UnquoteSymbol) || isQuoteForm(cur, QuasiquoteSymbol) {
				tail := env.quasiquote(cur, depth)
				if tail.Type == LError {
					return tail
				}
				b.Terminate(tail)
				return b.List()
			}
		}
		data := cur.ConsData()
		elem := data.CAR
		if arg, ok := quoteArg(elem, UnquoteSplicingSymbol); ok && depth == 1 {
			spliced := env.Eval(arg)
			if spliced.Type == LError {
				return spliced
			}
			cells, ok := spliceValues(spliced)
			if !ok {
				return env.ErrorConditionf(CondTypeError, "quasiquote: unquote-splicing value is not a list: %v", spliced.Type)
			}
			b.Append(cells...)
		} else {
			x := env.quasiquote(elem, depth)
			if x.Type == LError {
				return x
			}
			b.Append(x)
		}
		cur = data.CDR
	}
	if !cur.IsNil() {
		tail := env.quasiquote(cur, depth)
		if tail.Type == LError {
			return tail
		}
		b.Terminate(tail)
	}
	return b.List()
}

func (env *LEnv) requote(sym string, arg *LVal, depth int) *LVal {
	x := env.quasiquote(arg, depth)
	if x.Type == LError {
		return x
	}
	return ListOf(Symbol(sym), x)
}

func (env *LEnv) quasiquoteCells(tmpl []*LVal, depth int) ([]*LVal, *LVal) {
	cells := make([]*LVal, 0, len(tmpl))
	for _, elem := range tmpl {
		if arg, ok := quoteArg(elem, UnquoteSplicingSymbol); ok && depth == 1 {
			spliced := env.Eval(arg)
			if spliced.Type == LError {
				return nil, spliced
			}
			xs, ok := spliceValues(spliced)
			if !ok {
				return nil, env.ErrorConditionf(CondTypeError, "quasiquote: unquote-splicing value is not a list: %v", spliced.Type)
			}
			cells = append(cells, xs...)
			continue
		}
		x := env.quasiquote(elem, depth)
		if x.Type == LError {
			return nil, x
		}
		cells = append(cells, x)
	}
	return cells, nil
}

func (env *LEnv) quasiquoteMap(tmpl *LVal, depth int) *LVal {
	m := tmpl.MapData()
	out := NewMap(m.Len())
	var lerr *LVal
	m.Each(func(k, v *LVal) bool {
		x := env.quasiquote(v, depth)
		if x.Type == LError {
			lerr = x
			return false
		}
		_ = out.MapData().Set(k, x)
		return true
	})
	if lerr != nil {
		return lerr
	}
	return out
}

func spliceValues(v *LVal) ([]*LVal, bool) {
	if v.Type == LVector {
		return v.Cells, true
	}
	return ListSlice(v)
}

// quoteArg returns x when v is the two element list (sym x).
func quoteArg(v *LVal, sym string) (*LVal, bool) {
	if !isQuoteForm(v, sym) {
		return nil, false
	}
	return v.ConsData().CDR.ConsData().CAR, true
}

func isQuoteForm(v *LVal, sym string) bool {
	data := v.ConsData()
	if data == nil || data.CAR.Type != LSymbol || data.CAR.Str != sym {
		return false
	}
	rest := data.CDR.ConsData()
	return rest != nil && rest.CDR.IsNil()
}
