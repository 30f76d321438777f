// Package repl implements an interactive read-eval-print loop for rlisp.
package repl

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/bmatsuo/rlisp/lisp"
	"github.com/bmatsuo/rlisp/parser"
	"github.com/bmatsuo/rlisp/render"
	"github.com/chzyer/readline"
)

// SourceName is the file name used in the locations of errors in input
// typed at the prompt.
const SourceName = "stdin"

// RunRepl runs a repl reading from the terminal until EOF.  The environment
// is created by render.NewEnv with the given configuration.
func RunRepl(prompt string, config ...lisp.Config) error {
	rl, err := readline.New(prompt)
	if err != nil {
		return err
	}
	defer rl.Close()

	config = append([]lisp.Config{
		lisp.WithStdout(rl.Stdout()),
		lisp.WithStderr(rl.Stderr()),
	}, config...)
	env, err := render.NewEnv(config...)
	if err != nil {
		return err
	}

	s := NewSession(env, rl.Stdout())
	contPrompt := strings.Repeat(" ", len(prompt)) // prompt had better be ascii...
	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			s.Reset()
			rl.SetPrompt(prompt)
			continue
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if s.Feed(line) {
			rl.SetPrompt(contPrompt)
		} else {
			rl.SetPrompt(prompt)
		}
	}
}

// Session accumulates input lines until they form complete expressions and
// evaluates them in a single environment.
type Session struct {
	env *lisp.LEnv
	out io.Writer
	buf bytes.Buffer
}

// NewSession returns a Session which evaluates input in env and writes
// results to out.
func NewSession(env *lisp.LEnv, out io.Writer) *Session {
	return &Session{env: env, out: out}
}

// Reset discards buffered input.
func (s *Session) Reset() {
	s.buf.Reset()
}

// Feed adds line to the buffered input.  When the buffer holds complete
// expressions they are evaluated and the value of each is printed.  Feed
// returns true when more input is needed to complete an expression.
func (s *Session) Feed(line string) (more bool) {
	if s.buf.Len() > 0 {
		s.buf.WriteByte('\n')
	}
	s.buf.WriteString(line)
	if strings.TrimSpace(s.buf.String()) == "" {
		s.buf.Reset()
		return false
	}

	forms, err := s.env.Runtime.Reader.Read(SourceName, bytes.NewReader(s.buf.Bytes()))
	if parser.IsIncomplete(err) {
		return true
	}
	s.buf.Reset()
	if err != nil {
		s.printError(lisp.Error(err))
		return false
	}
	for _, form := range forms {
		v := s.eval(form)
		if v.Type == lisp.LError {
			s.printError(v)
			return false
		}
		fmt.Fprintln(s.out, v)
	}
	return false
}

func (s *Session) eval(form *lisp.LVal) *lisp.LVal {
	rt := s.env.Runtime
	rt.Lock()
	defer rt.Unlock()
	return s.env.LoadForms([]*lisp.LVal{form})
}

func (s *Session) printError(lerr *lisp.LVal) {
	w := s.env.Runtime.Stderr
	if w == nil {
		w = s.out
	}
	logger := log.New(w, "", 0)
	logger.Print(lisp.GoError(lerr))
	if stack := lerr.CallStack(); stack != nil && stack.Height() > 0 {
		_, _ = stack.DebugPrint(w)
	}
}
