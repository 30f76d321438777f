// Package lfmt contains helpers for writing formatted values to an
// io.Writer while tracking the number of bytes written.
package lfmt

import "io"

// WriteOp writes to w, possibly with many calls to w.Write, and returns the
// total number of bytes written.
type WriteOp func(w io.Writer) (int, error)

// CountingWriter is an io.Writer that tracks the total number of bytes written
// across all calls to the Write method.
type CountingWriter interface {
	io.Writer
	io.StringWriter
	// N returns the total number of bytes written.
	N() int
	// DeferCount passes the underlying io.Writer to op and counts the number
	// of bytes op reports.  Nested formatting should use DeferCount so that
	// CountingWriters do not wrap each other.
	DeferCount(op WriteOp) (int, error)
}

// NewCountingWriter wraps w as a CountingWriter.  If w is already a
// CountingWriter a new counter is still created so that N starts at zero.
func NewCountingWriter(w io.Writer) CountingWriter {
	return &countingWriter{w: w}
}

type countingWriter struct {
	n int
	w io.Writer
}

var _ CountingWriter = (*countingWriter)(nil)

func (w *countingWriter) count(n int, err error) (int, error) {
	w.n += n
	return n, err
}

func (w *countingWriter) N() int {
	return w.n
}

func (w *countingWriter) Write(b []byte) (int, error) {
	return w.count(w.w.Write(b))
}

func (w *countingWriter) WriteString(s string) (int, error) {
	return w.count(io.WriteString(w.w, s))
}

func (w *countingWriter) DeferCount(op WriteOp) (int, error) {
	return w.count(op(w.w))
}

// Sequence runs ops in order against w and stops at the first error.  The
// returned count includes bytes written by the failing op.
func Sequence(w io.Writer, ops ...WriteOp) (int, error) {
	cw := NewCountingWriter(w)
	for _, op := range ops {
		_, err := cw.DeferCount(op)
		if err != nil {
			return cw.N(), err
		}
	}
	return cw.N(), nil
}

// String returns a WriteOp that writes s.
func String(s string) WriteOp {
	return func(w io.Writer) (int, error) {
		return io.WriteString(w, s)
	}
}
