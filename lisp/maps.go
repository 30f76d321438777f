package lisp

import (
	"fmt"
	"strings"
)

// MapData is the container that backs LMap values.  Entries keep their
// insertion order.  The string "Name", the symbol Name and the keyword :Name
// all address the same entry.
type MapData struct {
	pairs []mapPair
	index map[mapKey]int
}

type mapPair struct {
	key   *LVal
	value *LVal
}

type mapKeyKind uint8

const (
	mapKeyText mapKeyKind = iota
	mapKeyInt
	mapKeyFloat
)

type mapKey struct {
	kind mapKeyKind
	s    string
	i    int
	f    float64
}

// NewMap returns an empty LMap value with room for n entries.
func NewMap(n int) *LVal {
	return &LVal{
		Type:   LMap,
		Native: newMapData(n),
	}
}

func newMapData(n int) *MapData {
	return &MapData{
		pairs: make([]mapPair, 0, n),
		index: make(map[mapKey]int, n),
	}
}

// MapData returns the data backing an LMap value, or nil.
func (v *LVal) MapData() *MapData {
	if v.Type != LMap {
		return nil
	}
	return v.Native.(*MapData)
}

// IsMapKey returns true if v can be used as a map key.
func IsMapKey(v *LVal) bool {
	_, err := toMapKey(v)
	return err == nil
}

func toMapKey(v *LVal) (mapKey, error) {
	switch v.Type {
	case LString:
		return mapKey{kind: mapKeyText, s: v.Str}, nil
	case LSymbol:
		return mapKey{kind: mapKeyText, s: strings.TrimPrefix(v.Str, KeywordPrefix)}, nil
	case LInt:
		return mapKey{kind: mapKeyInt, i: v.Int}, nil
	case LFloat:
		return mapKey{kind: mapKeyFloat, f: v.Float}, nil
	default:
		return mapKey{}, fmt.Errorf("invalid map key type: %v", v.Type)
	}
}

// Len returns the number of entries in m.
func (m *MapData) Len() int {
	return len(m.pairs)
}

// Get returns the value stored under key.  Get returns an error if key is not
// a valid key type.
func (m *MapData) Get(key *LVal) (*LVal, bool, error) {
	k, err := toMapKey(key)
	if err != nil {
		return nil, false, err
	}
	i, ok := m.index[k]
	if !ok {
		return nil, false, nil
	}
	return m.pairs[i].value, true, nil
}

// Set stores val under key.  An existing entry keeps its position and its
// original key.
func (m *MapData) Set(key *LVal, val *LVal) error {
	k, err := toMapKey(key)
	if err != nil {
		return err
	}
	if i, ok := m.index[k]; ok {
		m.pairs[i].value = val
		return nil
	}
	m.index[k] = len(m.pairs)
	m.pairs = append(m.pairs, mapPair{key, val})
	return nil
}

// Keys returns the keys of m in insertion order.
func (m *MapData) Keys() []*LVal {
	keys := make([]*LVal, len(m.pairs))
	for i := range m.pairs {
		keys[i] = m.pairs[i].key
	}
	return keys
}

// Each calls fn with every entry of m in insertion order until fn returns
// false.
func (m *MapData) Each(fn func(key, val *LVal) bool) {
	for _, p := range m.pairs {
		if !fn(p.key, p.value) {
			return
		}
	}
}

// Copy returns a shallow copy of m.
func (m *MapData) Copy() *MapData {
	cp := newMapData(len(m.pairs))
	cp.pairs = append(cp.pairs, m.pairs...)
	for k, i := range m.index {
		cp.index[k] = i
	}
	return cp
}

func (m *MapData) equal(other *MapData) bool {
	if m.Len() != other.Len() {
		return false
	}
	for k, i := range m.index {
		j, ok := other.index[k]
		if !ok {
			return false
		}
		if !Equal(m.pairs[i].value, other.pairs[j].value) {
			return false
		}
	}
	return true
}

// mapGet looks up key in the LMap m.  A missing key is nil.
func (env *LEnv) mapGet(m *LVal, key *LVal) *LVal {
	v, ok, err := m.MapData().Get(key)
	if err != nil {
		return env.ErrorConditionf(CondTypeError, "%v", err)
	}
	if !ok {
		return Nil()
	}
	return v
}
