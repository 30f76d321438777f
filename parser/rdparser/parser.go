package rdparser

import (
	"errors"
	"io"
	"strconv"
	"strings"

	"github.com/bmatsuo/rlisp/lisp"
	"github.com/bmatsuo/rlisp/parser/lexer"
	"github.com/bmatsuo/rlisp/parser/token"
)

type reader struct {
}

// NewReader returns a lisp.Reader to use in a lisp.Runtime.
func NewReader() lisp.Reader {
	return &reader{}
}

// Read implements lisp.Reader.
func (*reader) Read(name string, r io.Reader) ([]*lisp.LVal, error) {
	s := token.NewScanner(name, r)
	p := New(s)
	return p.ParseProgram()
}

// SyntaxError is returned by ParseProgram when source text is malformed.  It
// wraps a lisp error with the syntax-error condition.
type SyntaxError struct {
	lerr       *lisp.LVal
	incomplete bool
}

func (e *SyntaxError) Error() string {
	return lisp.GoError(e.lerr).Error()
}

func (e *SyntaxError) Unwrap() error {
	return lisp.GoError(e.lerr)
}

// Incomplete returns true if the error was caused by input ending before an
// expression was finished.
func (e *SyntaxError) Incomplete() bool {
	return e.incomplete
}

// IsIncomplete returns true if err is a SyntaxError caused by reaching the
// end of input inside an expression.  More input may complete the expression.
func IsIncomplete(err error) bool {
	var serr *SyntaxError
	return errors.As(err, &serr) && serr.incomplete
}

// Parser is a lisp parser.
type Parser struct {
	lex  *lexer.Lexer
	curr *token.Token
	peek *token.Token

	// incomplete is set when an error is caused by the end of input.
	incomplete bool
}

// New initializes and returns a new Parser that reads tokens from scanner.
func New(scanner *token.Scanner) *Parser {
	p := &Parser{
		lex: lexer.New(scanner),
	}
	p.initTokens()
	return p
}

func (p *Parser) initTokens() {
	// Setup the peek token so the parser is in the proper state when the first
	// parse function is called.
	p.ReadToken()
}

// ParseProgram parses every expression in the input.
func (p *Parser) ParseProgram() ([]*lisp.LVal, error) {
	var exprs []*lisp.LVal

	for {
		p.skipComments()
		if p.expect(token.EOF) {
			break
		}
		expr := p.ParseExpression()
		if expr.Type == lisp.LError {
			return nil, &SyntaxError{expr, p.incomplete}
		}
		exprs = append(exprs, expr)
	}

	return exprs, nil
}

// ParseExpression parses a single expression.  Parse errors are returned as
// lisp errors with the syntax-error condition.
func (p *Parser) ParseExpression() *lisp.LVal {
	p.skipComments()
	switch p.PeekType() {
	case token.INT:
		return p.ParseLiteralInt()
	case token.FLOAT:
		return p.ParseLiteralFloat()
	case token.STRING:
		return p.ParseLiteralString()
	case token.STRING_RAW:
		return p.ParseLiteralStringRaw()
	case token.QUOTE:
		return p.ParseQuote(lisp.QuoteSymbol)
	case token.QUASIQUOTE:
		return p.ParseQuote(lisp.QuasiquoteSymbol)
	case token.UNQUOTE:
		return p.ParseQuote(lisp.UnquoteSymbol)
	case token.UNQUOTE_SPLICING:
		return p.ParseQuote(lisp.UnquoteSplicingSymbol)
	case token.SYMBOL:
		return p.ParseSymbol()
	case token.PAREN_L:
		return p.ParseConsExpression()
	case token.BRACKET_L:
		return p.ParseVector()
	case token.BRACE_L:
		return p.ParseMap()
	case token.EOF:
		p.ReadToken()
		p.incomplete = true
		return p.errorf("unexpected end of input")
	case token.ERROR, token.INVALID:
		p.ReadToken()
		if p.Token().Text == lexer.UnexpectedEOF {
			p.incomplete = true
		}
		return p.errorf("%s", p.Token().Text)
	default:
		p.ReadToken()
		return p.errorf("unexpected %s", p.Token().Type)
	}
}

func (p *Parser) ParseLiteralInt() *lisp.LVal {
	if !p.expect(token.INT) {
		return p.errorf("invalid integer literal: %v", p.PeekType())
	}
	text := p.Token().Text
	x, err := strconv.Atoi(text)
	if err != nil {
		return p.errorf("integer literal overflows int: %v", text)
	}
	return p.Int(x)
}

func (p *Parser) ParseLiteralFloat() *lisp.LVal {
	if !p.expect(token.FLOAT) {
		return p.errorf("invalid float literal: %v", p.PeekType())
	}
	text := p.Token().Text
	x, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return p.errorf("invalid floating point literal: %v", text)
	}
	return p.Float(x)
}

func (p *Parser) ParseLiteralString() *lisp.LVal {
	if !p.expect(token.STRING) {
		return p.errorf("invalid string literal: %v", p.PeekType())
	}
	text := strings.ReplaceAll(p.Token().Text, "\r\n", "\n")
	// strconv.Unquote rejects literal newlines, which strings may contain.
	s, err := strconv.Unquote(strings.ReplaceAll(text, "\n", `\n`))
	if err != nil {
		return p.errorf("invalid string literal: %v", text)
	}
	return p.String(s)
}

func (p *Parser) ParseLiteralStringRaw() *lisp.LVal {
	if !p.expect(token.STRING_RAW) {
		return p.errorf("invalid raw string literal: %v", p.PeekType())
	}
	text := p.Token().Text
	if len(text) < 6 {
		return p.errorf("invalid raw string literal: %v", text)
	}
	return p.String(strings.ReplaceAll(text[3:len(text)-3], "\r\n", "\n"))
}

// ParseQuote parses one of the quoting shorthands and returns the expression
// (sym x).
func (p *Parser) ParseQuote(sym string) *lisp.LVal {
	p.ReadToken()
	tok := p.Token()
	x := p.ParseExpression()
	if x.Type == lisp.LError {
		return x
	}
	head := lisp.Symbol(sym)
	head.Source = tok.Source
	v := lisp.ListOf(head, x)
	v.Source = tok.Source
	return v
}

func (p *Parser) ParseSymbol() *lisp.LVal {
	if !p.expect(token.SYMBOL) {
		return p.errorf("invalid symbol: %v", p.PeekType())
	}
	text := p.Token().Text
	if text == lisp.NilSymbol {
		return p.tokenLVal(lisp.Nil())
	}
	if text == "." {
		return p.errorf("unexpected dot")
	}
	return p.Symbol(text)
}

// ParseConsExpression parses a list.  A dot before the final element makes
// it the tail of the list.
func (p *Parser) ParseConsExpression() *lisp.LVal {
	if !p.expect(token.PAREN_L) {
		return p.errorf("invalid list: %v", p.PeekType())
	}
	open := p.Token()
	var b lisp.ListBuilder
	n := 0
	for {
		p.skipComments()
		if p.expect(token.EOF) {
			p.incomplete = true
			return p.errorAtf(open, "unmatched %s", open.Text)
		}
		if p.expect(token.PAREN_R) {
			break
		}
		if p.isDot() {
			p.ReadToken()
			if n == 0 {
				return p.errorf("dotted pair has no head")
			}
			tail := p.ParseExpression()
			if tail.Type == lisp.LError {
				return tail
			}
			p.skipComments()
			if p.expect(token.EOF) {
				p.incomplete = true
				return p.errorAtf(open, "unmatched %s", open.Text)
			}
			if !p.expect(token.PAREN_R) {
				p.ReadToken()
				return p.errorf("expected %s after dotted pair tail", token.PAREN_R)
			}
			b.Terminate(tail)
			break
		}
		x := p.ParseExpression()
		if x.Type == lisp.LError {
			return x
		}
		b.Append(x)
		n++
	}
	expr := b.List()
	expr.Source = open.Source
	return expr
}

func (p *Parser) ParseVector() *lisp.LVal {
	if !p.expect(token.BRACKET_L) {
		return p.errorf("invalid vector: %v", p.PeekType())
	}
	open := p.Token()
	cells, lerr := p.parseSequence(open, token.BRACKET_R)
	if lerr != nil {
		return lerr
	}
	v := lisp.Vector(cells)
	v.Source = open.Source
	return v
}

// ParseMap parses a map literal.  Keys must be atoms and every key must have
// a value.
func (p *Parser) ParseMap() *lisp.LVal {
	if !p.expect(token.BRACE_L) {
		return p.errorf("invalid map: %v", p.PeekType())
	}
	open := p.Token()
	cells, lerr := p.parseSequence(open, token.BRACE_R)
	if lerr != nil {
		return lerr
	}
	if len(cells)%2 != 0 {
		return p.errorAtf(open, "map literal has an odd number of entries: %d", len(cells))
	}
	m := lisp.NewMap(len(cells) / 2)
	for i := 0; i < len(cells); i += 2 {
		err := m.MapData().Set(cells[i], cells[i+1])
		if err != nil {
			return p.errorAtf(&token.Token{Source: cells[i].Source}, "%v", err)
		}
	}
	m.Source = open.Source
	return m
}

func (p *Parser) parseSequence(open *token.Token, close token.Type) ([]*lisp.LVal, *lisp.LVal) {
	var cells []*lisp.LVal
	for {
		p.skipComments()
		if p.expect(token.EOF) {
			p.incomplete = true
			return nil, p.errorAtf(open, "unmatched %s", open.Text)
		}
		if p.expect(close) {
			return cells, nil
		}
		x := p.ParseExpression()
		if x.Type == lisp.LError {
			return nil, x
		}
		cells = append(cells, x)
	}
}

func (p *Parser) isDot() bool {
	return p.peek.Type == token.SYMBOL && p.peek.Text == "."
}

func (p *Parser) skipComments() {
	for p.expect(token.COMMENT) {
	}
}

func (p *Parser) ReadToken() *token.Token {
	p.curr = p.peek
	p.peek = p.lex.NextToken()
	return p.curr
}

func (p *Parser) Token() *token.Token {
	return p.curr
}

func (p *Parser) Peek() *token.Token {
	return p.peek
}

func (p *Parser) PeekType() token.Type {
	return p.peek.Type
}

func (p *Parser) String(s string) *lisp.LVal {
	return p.tokenLVal(lisp.String(s))
}

func (p *Parser) Symbol(sym string) *lisp.LVal {
	return p.tokenLVal(lisp.Symbol(sym))
}

func (p *Parser) Int(x int) *lisp.LVal {
	return p.tokenLVal(lisp.Int(x))
}

func (p *Parser) Float(x float64) *lisp.LVal {
	return p.tokenLVal(lisp.Float(x))
}

func (p *Parser) tokenLVal(v *lisp.LVal) *lisp.LVal {
	v.Source = p.Token().Source
	return v
}

func (p *Parser) expect(typ ...token.Type) bool {
	peekType := p.peek.Type
	if len(typ) == 0 {
		return peekType != token.EOF
	}
	for _, typ := range typ {
		if typ == peekType {
			p.ReadToken()
			return true
		}
	}
	return false
}

func (p *Parser) errorf(format string, v ...interface{}) *lisp.LVal {
	return p.errorAtf(p.Token(), format, v...)
}

func (p *Parser) errorAtf(tok *token.Token, format string, v ...interface{}) *lisp.LVal {
	err := lisp.ErrorConditionf(lisp.CondSyntaxError, format, v...)
	if tok != nil {
		err.Source = tok.Source
	}
	return err
}
