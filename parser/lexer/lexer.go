package lexer

import (
	"fmt"
	"io"
	"strings"
	"unicode"

	"github.com/bmatsuo/rlisp/parser/token"
)

const miscWordRunes = "0123456789" + miscWordSymbols
const miscWordSymbols = "._+-*/=<>!&~%?$"

// UnexpectedEOF is the text of ERROR tokens emitted when input ends inside a
// token, such as an unterminated string.
const UnexpectedEOF = "unexpected EOF"

type Lexer struct {
	scanner *token.Scanner
	ch      rune // current unicode rune

	// readErr is the first error returned by the scanner.  Once set every
	// call to NextToken returns an error or EOF token.
	readErr error
}

func New(s *token.Scanner) *Lexer {
	lex := &Lexer{
		scanner: s,
	}
	return lex
}

func (lex *Lexer) NextToken() *token.Token {
	if lex.readErr != nil {
		return lex.emitError(lex.readErr, true)
	}
	lex.readErr = lex.skipWhitespace()
	if lex.readErr != nil {
		return lex.emitError(lex.readErr, true)
	}
	lex.readChar()
	if lex.readErr != nil {
		return lex.emitError(lex.readErr, true)
	}
	switch lex.ch {
	case '(':
		return lex.charToken(token.PAREN_L)
	case ')':
		return lex.charToken(token.PAREN_R)
	case '[':
		return lex.charToken(token.BRACKET_L)
	case ']':
		return lex.charToken(token.BRACKET_R)
	case '{':
		return lex.charToken(token.BRACE_L)
	case '}':
		return lex.charToken(token.BRACE_R)
	case '\'':
		return lex.charToken(token.QUOTE)
	case '`':
		return lex.charToken(token.QUASIQUOTE)
	case ',':
		if lex.peekRune() == '@' {
			if lex.readChar() != nil {
				return lex.emitError(lex.readErr, false)
			}
			return lex.charToken(token.UNQUOTE_SPLICING)
		}
		return lex.charToken(token.UNQUOTE)
	case ':':
		if !isWord(lex.peekRune()) {
			return lex.errorf("invalid keyword: %q", lex.scanner.Text())
		}
		err := lex.readSymbol()
		if err != nil {
			return lex.emitError(err, false)
		}
		return lex.scanner.EmitToken(token.SYMBOL)
	case ';':
		for lex.peekRune() != '\n' {
			err := lex.readChar()
			if err == io.EOF {
				return lex.scanner.EmitToken(token.COMMENT)
			}
			if err != nil {
				return lex.emitError(err, false)
			}
		}
		return lex.scanner.EmitToken(token.COMMENT)
	case '-', '+':
		if isDigit(lex.peekRune()) {
			return lex.readNumber()
		}
		err := lex.readSymbol()
		if err != nil {
			return lex.emitError(err, false)
		}
		return lex.scanner.EmitToken(token.SYMBOL)
	case '"':
		return lex.readString()
	default:
		if isDigit(lex.ch) {
			return lex.readNumber()
		}
		if lex.ch == '.' && isDigit(lex.peekRune()) {
			return lex.readFloatFraction()
		}

		if isWordStart(lex.ch) {
			err := lex.readSymbol()
			if err != nil {
				return lex.emitError(err, false)
			}
			return lex.scanner.EmitToken(token.SYMBOL)
		}

		lex.readErr = fmt.Errorf("unexpected text starting with %q", lex.ch)
		return lex.emit(token.INVALID, lex.readErr.Error())
	}
}

func (lex *Lexer) emit(typ token.Type, text string) *token.Token {
	tok := &token.Token{
		Type:   typ,
		Text:   text,
		Source: lex.scanner.LocStart(),
	}
	lex.scanner.Ignore()
	return tok
}

func (lex *Lexer) emitError(err error, expectEOF bool) *token.Token {
	if err == io.EOF {
		if expectEOF {
			return lex.emit(token.EOF, "")
		}
		return lex.emit(token.ERROR, UnexpectedEOF)
	}
	return lex.emit(token.ERROR, err.Error())
}

func (lex *Lexer) errorf(format string, v ...interface{}) *token.Token {
	return lex.emitError(fmt.Errorf(format, v...), false)
}

func (lex *Lexer) charToken(typ token.Type) *token.Token {
	return lex.scanner.EmitToken(typ)
}

// readString scans a string literal.  Escape sequences are checked by the
// parser.  Three consecutive quotes begin a raw string which ends at the next
// three consecutive quotes.
func (lex *Lexer) readString() *token.Token {
	n := 0
	for lex.peekRune() != '"' {
		n++
		err := lex.readChar()
		if err != nil {
			return lex.emitError(err, false)
		}
		if lex.ch == '\\' {
			err := lex.readChar()
			if err != nil {
				return lex.emitError(err, false)
			}
		}
	}
	err := lex.readChar()
	if err != nil {
		return lex.emitError(err, false)
	}
	if n > 0 || lex.peekRune() != '"' {
		return lex.scanner.EmitToken(token.STRING)
	}
	// This is a raw string -- consume the third quote.
	err = lex.readChar()
	if err != nil {
		return lex.emitError(err, false)
	}
	quotes := 0
	for quotes < 3 {
		err = lex.readChar()
		if err != nil {
			return lex.emitError(err, false)
		}
		if lex.ch == '"' {
			quotes++
		} else {
			quotes = 0
		}
	}
	return lex.scanner.EmitToken(token.STRING_RAW)
}

func (lex *Lexer) readSymbol() error {
	for isWord(lex.peekRune()) {
		err := lex.readChar()
		if err != nil {
			return err
		}
	}
	return nil
}

func (lex *Lexer) readNumber() *token.Token {
	for isDigit(lex.peekRune()) {
		err := lex.readChar()
		if err != nil {
			return lex.emitError(err, false)
		}
	}
	switch lex.peekRune() {
	case '.':
		err := lex.readChar()
		if err != nil {
			return lex.emitError(err, false)
		}
		return lex.readFloatFraction()
	case 'e', 'E':
		err := lex.readChar()
		if err != nil {
			return lex.emitError(err, false)
		}
		return lex.readFloatExponent()
	}
	if !isWord(lex.peekRune()) {
		// the returned string may not actually be a usable number (overflow),
		// but we can find that out at parse time -- not scan time.
		return lex.scanner.EmitToken(token.INT)
	}
	err := lex.readSymbol()
	if err != nil {
		return lex.emitError(err, false)
	}
	text := lex.scanner.Text()
	if isIncrementSymbol(text) {
		return lex.scanner.EmitToken(token.SYMBOL)
	}
	return lex.errorf("malformed numeric literal: %s", text)
}

// isIncrementSymbol reports whether text is a run of digits followed by a
// single '+' or '-', like the symbols 1+ and 1-.
func isIncrementSymbol(text string) bool {
	n := len(text)
	if n < 2 || (text[n-1] != '+' && text[n-1] != '-') {
		return false
	}
	for _, c := range text[:n-1] {
		if !isDigit(c) {
			return false
		}
	}
	return true
}

func (lex *Lexer) readFloatFraction() *token.Token {
	if !isDigit(lex.peekRune()) {
		return lex.errorf("malformed numeric literal: %s", lex.scanner.Text())
	}
	for isDigit(lex.peekRune()) {
		err := lex.readChar()
		if err != nil {
			return lex.emitError(err, false)
		}
	}
	switch lex.peekRune() {
	case 'e', 'E':
		err := lex.readChar()
		if err != nil {
			return lex.emitError(err, false)
		}
		return lex.readFloatExponent()
	}
	return lex.endFloat()
}

func (lex *Lexer) readFloatExponent() *token.Token {
	switch lex.peekRune() {
	case '+', '-':
		err := lex.readChar()
		if err != nil {
			return lex.emitError(err, false)
		}
	}
	if !isDigit(lex.peekRune()) {
		return lex.errorf("malformed numeric literal: %s", lex.scanner.Text())
	}
	for isDigit(lex.peekRune()) {
		err := lex.readChar()
		if err != nil {
			return lex.emitError(err, false)
		}
	}
	return lex.endFloat()
}

func (lex *Lexer) endFloat() *token.Token {
	if !isWord(lex.peekRune()) {
		return lex.scanner.EmitToken(token.FLOAT)
	}
	err := lex.readSymbol()
	if err != nil {
		return lex.emitError(err, false)
	}
	return lex.errorf("malformed numeric literal: %s", lex.scanner.Text())
}

func (lex *Lexer) skipWhitespace() error {
	for unicode.IsSpace(lex.peekRune()) {
		err := lex.readChar()
		if err != nil {
			return err
		}
	}
	lex.scanner.Ignore()
	return nil
}

func (lex *Lexer) peekRune() rune {
	r, _ := lex.scanner.Peek()
	return r
}

func (lex *Lexer) readChar() error {
	lex.readErr = lex.scanner.ScanRune()
	if lex.readErr != nil {
		return lex.readErr
	}
	lex.ch = lex.scanner.Rune()
	return nil
}

func isWordStart(c rune) bool {
	return unicode.IsLetter(c) || strings.ContainsRune(miscWordSymbols, c)
}

func isWord(c rune) bool {
	return unicode.IsLetter(c) || strings.ContainsRune(miscWordRunes, c)
}

func isDigit(c rune) bool {
	return '0' <= c && c <= '9'
}
