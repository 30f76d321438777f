package symbol

import (
	"fmt"
	"sync"
)

// DefaultGlobalTable is the table used by the reader and the interpreter.
var DefaultGlobalTable Table = NewTable()

// Intern uses DefaultGlobalTable to intern s and returns its ID.
func Intern(s string) ID {
	return DefaultGlobalTable.Intern(s)
}

// Peek looks s up in DefaultGlobalTable without interning it.
func Peek(s string) (ID, bool) {
	return DefaultGlobalTable.Peek(s)
}

// Table maps symbol IDs to strings.  Tables are safe for concurrent use.
type Table interface {
	// Len returns the number of symbols interned in the table.
	Len() int
	// Intern inserts the given symbol into the table if it is not present and
	// returns its ID.
	Intern(symbol string) ID
	// Peek retrieves the ID of a symbol without automatically interning it.
	// Peek returns true iff the symbol has been interned into the table.
	Peek(symbol string) (ID, bool)
	// Symbol returns the symbol associated with id.
	Symbol(id ID) (string, bool)
}

// NewTable returns an empty Table.
func NewTable() Table {
	return newTable()
}

// String returns the text of id in table, or a diagnostic string when table
// does not know id.
func String(id ID, table Table) string {
	s, ok := table.Symbol(id)
	if !ok {
		return fmt.Sprintf("#<SYMBOL %#x>", uint64(id))
	}
	return s
}

type table struct {
	mut sync.RWMutex
	gen IDGen
	ids map[string]ID
	sym map[ID]string
}

func newTable() *table {
	return &table{
		gen: NewIDGen(0),
		ids: make(map[string]ID),
		sym: make(map[ID]string),
	}
}

func (t *table) Len() int {
	t.mut.RLock()
	defer t.mut.RUnlock()
	return len(t.ids)
}

func (t *table) Intern(s string) ID {
	// Most symbols are read many times and interned once.
	t.mut.RLock()
	id, ok := t.ids[s]
	t.mut.RUnlock()
	if ok {
		return id
	}
	t.mut.Lock()
	defer t.mut.Unlock()
	if id, ok := t.ids[s]; ok {
		return id
	}
	id = t.gen.NewID()
	t.ids[s] = id
	t.sym[id] = s
	return id
}

func (t *table) Peek(s string) (ID, bool) {
	t.mut.RLock()
	defer t.mut.RUnlock()
	id, ok := t.ids[s]
	return id, ok
}

func (t *table) Symbol(id ID) (string, bool) {
	t.mut.RLock()
	defer t.mut.RUnlock()
	s, ok := t.sym[id]
	return s, ok
}
