package symbol

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTable(t *testing.T) {
	table := newTable()
	assert.Equal(t, ID(1), table.Intern("testing"))
	assert.Equal(t, ID(2), table.Intern("hello"))
	assert.Equal(t, ID(1), table.Intern("testing"))
	assert.Equal(t, 2, table.Len())
	id, ok := table.Peek("hello")
	assert.True(t, ok)
	assert.Equal(t, ID(2), id)
	_, ok = table.Peek("notfound")
	assert.False(t, ok)
	s, ok := table.Symbol(1)
	assert.True(t, ok)
	assert.Equal(t, "testing", s)
	_, ok = table.Symbol(99)
	assert.False(t, ok)
}

func TestTable_concurrent(t *testing.T) {
	table := newTable()
	var wg sync.WaitGroup
	ids := make([]ID, 8)
	for i := range ids {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ids[i] = table.Intern("shared")
		}(i)
	}
	wg.Wait()
	for _, id := range ids {
		assert.Equal(t, ids[0], id)
	}
	assert.Equal(t, 1, table.Len())
}

func TestString(t *testing.T) {
	table := newTable()
	id := table.Intern("x")
	assert.Equal(t, "x", String(id, table))
	assert.Equal(t, "#<SYMBOL 0x10>", String(16, table))
}

func TestIntern(t *testing.T) {
	id := Intern("rlisp-test-symbol")
	peek, ok := Peek("rlisp-test-symbol")
	assert.True(t, ok)
	assert.Equal(t, id, peek)
	assert.Equal(t, "rlisp-test-symbol", id.String())
	_, ok = Peek("rlisp-never-interned")
	assert.False(t, ok)
}
