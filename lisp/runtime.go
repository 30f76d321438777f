package lisp

import (
	"io"
	"os"
	"sync"
	"sync/atomic"
)

// Runtime is the state shared by every LEnv descending from one root
// environment.  A Runtime is not safe for concurrent evaluation; Render,
// Evaluate and LEnv.Set serialize access through Lock and Unlock.
type Runtime struct {
	Stack  *CallStack
	Reader Reader
	// Stdout receives the output of println and print.
	Stdout io.Writer
	// Stderr receives diagnostic output such as stack traces.
	Stderr io.Writer

	mu     sync.Mutex
	numenv uint64
}

// StandardRuntime returns a new Runtime with an empty stack limited to
// DefaultMaxHeight frames, which writes to os.Stdout and os.Stderr.
func StandardRuntime() *Runtime {
	return &Runtime{
		Stack:  &CallStack{MaxHeight: DefaultMaxHeight},
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}
}

// GenEnvID returns a number unique to the runtime for identifying an LEnv.
func (r *Runtime) GenEnvID() uint {
	return uint(atomic.AddUint64(&r.numenv, 1))
}

// Lock acquires exclusive use of the runtime.
func (r *Runtime) Lock() {
	r.mu.Lock()
}

// Unlock releases a lock acquired with Lock.
func (r *Runtime) Unlock() {
	r.mu.Unlock()
}

// SwapStdout installs w as the runtime's output sink and returns a function
// which restores the previous sink.
func (r *Runtime) SwapStdout(w io.Writer) (restore func()) {
	prev := r.Stdout
	r.Stdout = w
	return func() { r.Stdout = prev }
}

func (r *Runtime) getStdout() io.Writer {
	if r.Stdout == nil {
		return io.Discard
	}
	return r.Stdout
}

func (r *Runtime) getStderr() io.Writer {
	if r.Stderr == nil {
		return os.Stderr
	}
	return r.Stderr
}
