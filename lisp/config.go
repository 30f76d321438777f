package lisp

import "io"

// Config is a function that configures a root environment or its runtime.
type Config func(env *LEnv) *LVal

// WithMaximumStackHeight returns a Config that limits the number of nested
// function calls in an environment to n.  Evaluation which would exceed the
// limit fails with a stack-overflow condition.  A value of zero or less
// removes the limit.
func WithMaximumStackHeight(n int) Config {
	return func(env *LEnv) *LVal {
		env.Runtime.Stack.MaxHeight = n
		return Nil()
	}
}

// WithReader returns a Config that makes environments use r to parse source
// streams.  There is no default Reader for an environment.
func WithReader(r Reader) Config {
	return func(env *LEnv) *LVal {
		env.Runtime.Reader = r
		return Nil()
	}
}

// WithStdout returns a Config that makes println and print write to w instead
// of the default, os.Stdout.
func WithStdout(w io.Writer) Config {
	return func(env *LEnv) *LVal {
		env.Runtime.Stdout = w
		return Nil()
	}
}

// WithStderr returns a Config that makes environments write debugging output
// to w instead of the default, os.Stderr.
func WithStderr(w io.Writer) Config {
	return func(env *LEnv) *LVal {
		env.Runtime.Stderr = w
		return Nil()
	}
}

// WithLibrary returns a Config that runs the given loaders against the
// environment in order, stopping at the first error.  Library packages
// provide loaders like lisplib.LoadLibrary.
func WithLibrary(loaders ...Loader) Config {
	return func(env *LEnv) *LVal {
		for _, fn := range loaders {
			lerr := fn(env)
			if lerr.Type == LError {
				return lerr
			}
		}
		return Nil()
	}
}

// WithBindings returns a Config that binds each entry of bindings in the root
// environment, converting values with FromGo.
func WithBindings(bindings map[string]interface{}) Config {
	return func(env *LEnv) *LVal {
		for name, v := range bindings {
			lerr := env.root().Put(Symbol(name), FromGo(v))
			if lerr.Type == LError {
				return lerr
			}
		}
		return Nil()
	}
}

// Loader is a function that adds definitions to an environment.
type Loader func(env *LEnv) *LVal
