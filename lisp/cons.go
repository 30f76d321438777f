package lisp

import "fmt"

// ConsData is the container that backs LCons values.
type ConsData struct {
	CAR *LVal
	CDR *LVal
}

// Cons returns a new LCons value from head and tail.  If tail is a list then
// Cons returns a list as well.
func Cons(head, tail *LVal) *LVal {
	return &LVal{
		Type:   LCons,
		Native: &ConsData{CAR: head, CDR: tail},
	}
}

// ListOf returns a proper list containing vals.
func ListOf(vals ...*LVal) *LVal {
	lis := Nil()
	for i := len(vals) - 1; i >= 0; i-- {
		lis = Cons(vals[i], lis)
	}
	return lis
}

// GetCAR returns the head of v.  GetCAR returns false if v is not LCons.
func GetCAR(v *LVal) (*LVal, bool) {
	if v.Type != LCons {
		return Nil(), false
	}
	return v.Native.(*ConsData).CAR, true
}

// GetCDR returns the tail of v.  GetCDR returns false if v is not LCons.
func GetCDR(v *LVal) (*LVal, bool) {
	if v.Type != LCons {
		return Nil(), false
	}
	return v.Native.(*ConsData).CDR, true
}

// ConsData returns the cell backing an LCons value, or nil.
func (v *LVal) ConsData() *ConsData {
	if v.Type != LCons {
		return nil
	}
	return v.Native.(*ConsData)
}

// IsList returns true if v is nil or a chain of cons cells terminated by nil.
func (v *LVal) IsList() bool {
	if v.Type == LNil {
		return true
	}
	_, ok := consLen(v)
	return ok
}

// consLen counts the cells in the chain starting at v.  It returns false if
// the chain does not end in nil.  Cyclic chains, which can only be built
// from Go, are reported as improper.
func consLen(v *LVal) (int, bool) {
	seen := make(map[*ConsData]bool)
	n := 0
	for v.Type == LCons {
		data := v.Native.(*ConsData)
		if seen[data] {
			return n, false
		}
		seen[data] = true
		n++
		v = data.CDR
	}
	return n, v.Type == LNil
}

// ListSlice collects the elements of a proper list into a slice.  ListSlice
// returns false if v is not a proper list.
func ListSlice(v *LVal) ([]*LVal, bool) {
	var s []*LVal
	it := NewListIterator(v)
	for it.Next() {
		s = append(s, it.Value())
	}
	if it.Err() != nil {
		return s, false
	}
	return s, true
}

// ListBuilder constructs proper lists by appending elements to the end.  The
// zero value is an empty builder.
type ListBuilder struct {
	front *LVal
	back  *ConsData
}

// List returns a cons list with the elements appended so far.  If Append is
// called after List the list returned by List will be modified.
func (b *ListBuilder) List() *LVal {
	if b.front == nil {
		return Nil()
	}
	return b.front
}

// Append adds elements to the end of the cons list.
func (b *ListBuilder) Append(v ...*LVal) {
	for i := range v {
		data := &ConsData{CAR: v[i], CDR: Nil()}
		cell := &LVal{Type: LCons, Native: data}
		if b.back == nil {
			b.front = cell
		} else {
			b.back.CDR = cell
		}
		b.back = data
	}
}

// Terminate sets the CDR of the last cell to tail, producing an improper
// list when tail is not a list.  If nothing was appended the builder's list
// becomes tail.
func (b *ListBuilder) Terminate(tail *LVal) {
	if b.back == nil {
		b.front = tail
		return
	}
	b.back.CDR = tail
}

// ListIterator iterates through cons lists
type ListIterator struct {
	v    *LVal
	rest *LVal
	err  error
}

// NewListIterator returns a ListIterator that will iterate through list v.
func NewListIterator(v *LVal) *ListIterator {
	return &ListIterator{
		v:    Nil(),
		rest: v,
	}
}

// Value returns the iteration's current value.  Value will return LNil if Next
// has not been called.
func (it *ListIterator) Value() *LVal {
	return it.v
}

// Rest returns any items remaining to be iterated over
func (it *ListIterator) Rest() *LVal {
	return it.rest
}

// Next advances the iterator to the next list element.  Next returns false if
// iteration terminated, either because the list had no more elements or
// because an non-list value was encountered.
func (it *ListIterator) Next() bool {
	if it.rest.IsNil() || it.err != nil {
		return false
	}
	if it.rest.Type != LCons {
		it.err = fmt.Errorf("not a proper list: tail is %v", it.rest.Type)
		return false
	}
	data := it.rest.Native.(*ConsData)
	it.v = data.CAR
	it.rest = data.CDR
	return true
}

// Err returns a non-nil error if the iteration encountered a non-list value
// terminating the cons chain.
func (it *ListIterator) Err() error {
	return it.err
}
