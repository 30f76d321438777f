package lisp

import "io"

// Reader parses source text into forms.  Reader lets the parser live in its
// own package, see parser.NewReader.
type Reader interface {
	// Read parses the contents of r.  The name of the stream is recorded in
	// the source location of every returned form.  The forms are evaluated
	// in order, as if inside a progn.
	Read(name string, r io.Reader) ([]*LVal, error)
}

// ReaderFunc is a function that implements Reader.
type ReaderFunc func(name string, r io.Reader) ([]*LVal, error)

// Read implements Reader.
func (fn ReaderFunc) Read(name string, r io.Reader) ([]*LVal, error) {
	return fn(name, r)
}
