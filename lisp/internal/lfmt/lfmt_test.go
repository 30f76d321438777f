package lfmt

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

type failingWriter struct {
	limit int
}

func (w *failingWriter) Write(b []byte) (int, error) {
	if len(b) > w.limit {
		n := w.limit
		w.limit = 0
		return n, errors.New("short write")
	}
	w.limit -= len(b)
	return len(b), nil
}

func TestCountingWriter(t *testing.T) {
	var buf bytes.Buffer
	cw := NewCountingWriter(&buf)
	n, err := cw.Write([]byte("abc"))
	assert.NoError(t, err)
	assert.Equal(t, 3, n)
	_, err = cw.WriteString("de")
	assert.NoError(t, err)
	_, err = cw.DeferCount(func(w io.Writer) (int, error) {
		return io.WriteString(w, "fgh")
	})
	assert.NoError(t, err)
	assert.Equal(t, 8, cw.N())
	assert.Equal(t, "abcdefgh", buf.String())
}

func TestSequence(t *testing.T) {
	var buf strings.Builder
	n, err := Sequence(&buf, String("("), String("a b"), String(")"))
	assert.NoError(t, err)
	assert.Equal(t, 5, n)
	assert.Equal(t, "(a b)", buf.String())

	n, err = Sequence(&failingWriter{limit: 2}, String("ab"), String("cd"), String("ef"))
	assert.Error(t, err)
	assert.Equal(t, 2, n)
}
