package lisp

import (
	"fmt"
	"io"

	"github.com/bmatsuo/rlisp/parser/token"
)

// DefaultMaxHeight is the default limit on the number of frames in a
// CallStack.
const DefaultMaxHeight = 10000

// CallStack is a function call stack.
type CallStack struct {
	Frames []CallFrame
	// MaxHeight limits the number of frames.  A MaxHeight of zero or less
	// disables the limit.
	MaxHeight int
}

// CallFrame is one frame in the CallStack
type CallFrame struct {
	Source *token.Location
	FID    string
	Name   string
}

// FunName returns the name of the function executing in f, falling back to
// its FID for anonymous functions.
func (f *CallFrame) FunName() string {
	if f == nil {
		return ""
	}
	if f.Name == "" {
		return f.FID
	}
	return f.Name
}

// ErrStackOverflow is returned by CallStack.PushFID when a frame would exceed
// the stack's MaxHeight.
type ErrStackOverflow struct {
	Height int
}

func (e *ErrStackOverflow) Error() string {
	return fmt.Sprintf("maximum stack height exceeded: %d", e.Height)
}

// Copy creates a copy of the current stack so that it can be attach to a
// runtime error.
func (s *CallStack) Copy() *CallStack {
	frames := make([]CallFrame, len(s.Frames))
	copy(frames, s.Frames)
	return &CallStack{Frames: frames, MaxHeight: s.MaxHeight}
}

// Height returns the number of frames in s.
func (s *CallStack) Height() int {
	return len(s.Frames)
}

// Top returns the CallFrame at the top of the stack or nil if none exists.
func (s *CallStack) Top() *CallFrame {
	if s == nil || len(s.Frames) == 0 {
		return nil
	}
	return &s.Frames[len(s.Frames)-1]
}

// PushFID pushes a new stack frame with the given FID onto s.  If the push
// would exceed s.MaxHeight no frame is pushed and an *ErrStackOverflow is
// returned.
func (s *CallStack) PushFID(src *token.Location, fid string, name string) error {
	if s.MaxHeight > 0 && len(s.Frames) >= s.MaxHeight {
		return &ErrStackOverflow{Height: len(s.Frames)}
	}
	s.Frames = append(s.Frames, CallFrame{Source: src, FID: fid, Name: name})
	return nil
}

// Pop removes the top CallFrame from the stack and returns it.  Pop panics if
// the stack is empty.
func (s *CallStack) Pop() CallFrame {
	if len(s.Frames) < 1 {
		panic("pop called on an empty stack")
	}
	f := s.Frames[len(s.Frames)-1]
	s.Frames[len(s.Frames)-1] = CallFrame{}
	s.Frames = s.Frames[:len(s.Frames)-1]
	return f
}

// DebugPrint prints s
func (s *CallStack) DebugPrint(w io.Writer) (int, error) {
	n, err := fmt.Fprintf(w, "Stack Trace [%d frames -- entrypoint last]:\n", len(s.Frames))
	if err != nil {
		return n, err
	}
	indent := "  "
	for i := len(s.Frames) - 1; i >= 0; i-- {
		f := &s.Frames[i]
		var _n int
		if f.Source != nil {
			_n, err = fmt.Fprintf(w, "%sheight %d: %s [%s]\n", indent, i, f.FunName(), f.Source)
		} else {
			_n, err = fmt.Fprintf(w, "%sheight %d: %s\n", indent, i, f.FunName())
		}
		n += _n
		if err != nil {
			return n, err
		}
	}
	return n, nil
}
