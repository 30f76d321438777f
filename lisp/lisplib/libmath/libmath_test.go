package libmath_test

import (
	"testing"

	"github.com/bmatsuo/rlisp/rlisptest"
)

func TestPackage(t *testing.T) {
	r := &rlisptest.Runner{}
	r.RunTestFile(t, "math_test.lisp")
}
