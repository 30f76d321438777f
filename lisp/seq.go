package lisp

// SeqValues returns the elements of a sequence value.  Lists and vectors
// yield their elements, maps yield (key value) lists in insertion order and
// strings yield one-character strings.  SeqValues returns false for other
// types and for improper lists.
func SeqValues(v *LVal) ([]*LVal, bool) {
	switch v.Type {
	case LNil:
		return nil, true
	case LCons:
		return ListSlice(v)
	case LVector:
		return v.Cells, true
	case LMap:
		m := v.MapData()
		entries := make([]*LVal, 0, m.Len())
		m.Each(func(k, val *LVal) bool {
			entries = append(entries, ListOf(k, val))
			return true
		})
		return entries, true
	case LString:
		runes := []rune(v.Str)
		chars := make([]*LVal, len(runes))
		for i, r := range runes {
			chars[i] = String(string(r))
		}
		return chars, true
	default:
		return nil, false
	}
}

// IsSeq returns true if SeqValues can produce the elements of v.
func IsSeq(v *LVal) bool {
	switch v.Type {
	case LNil, LVector, LMap, LString:
		return true
	case LCons:
		return v.IsList()
	}
	return false
}
