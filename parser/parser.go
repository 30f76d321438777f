/*
Package parser provides a lisp parser.

	program    := <expr>*
	expr       := <list> | <vector> | <map> | <quoted> | <atom>
	list       := '(' <expr>* ')' | '(' <expr>+ '.' <expr> ')'
	vector     := '[' <expr>* ']'
	map        := '{' (<atom> <expr>)* '}'
	quoted     := ( "'" | '`' | ',' | ',@' ) <expr>
	atom       := <number> | <string> | <symbol>
	number     := /[+-]?[0-9]+/ <fraction>? <exponent>?
	fraction   := '.' /[0-9]+/
	exponent   := /[eE][+-]?[0-9]+/
	string     := '"' <strcontent> '"' | '"""' <rawcontent> '"""'
	symbol     := /:?[^[:space:]()\[\]{}'`,";]+/

Comments begin with ';' and continue to the end of the line.
*/
package parser

import (
	"bytes"

	"github.com/bmatsuo/rlisp/lisp"
	"github.com/bmatsuo/rlisp/parser/rdparser"
	"github.com/bmatsuo/rlisp/parser/token"
)

// NewReader returns a new lisp.Reader.
func NewReader() lisp.Reader {
	return rdparser.NewReader()
}

// ParseLVal parses every expression in text.  Source locations refer to the
// file name "<string>".
func ParseLVal(text []byte) ([]*lisp.LVal, error) {
	s := token.NewScanner("<string>", bytes.NewReader(text))
	return rdparser.New(s).ParseProgram()
}

// IsIncomplete returns true if err was returned because the input ended
// inside an expression.
func IsIncomplete(err error) bool {
	return rdparser.IsIncomplete(err)
}
