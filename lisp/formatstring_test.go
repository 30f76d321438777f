package lisp

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatString(t *testing.T) {
	vals := []*LVal{String("Chai"), Float(18), ListOf(Int(1), String("x"))}
	tests := []struct {
		format string
		result string
		err    string
	}{
		{"", "", ""},
		{"plain", "plain", ""},
		{"{} costs {}", "Chai costs 18", ""},
		{"{1} {0} {1}", "18 Chai 18", ""},
		{"{2}", `(1 "x")`, ""},
		{"{{}} {}", "{} Chai", ""},
		{"{3}", "", "placeholder index 3 out of range (3 values)"},
		{"{", "", "unterminated placeholder at position 0"},
		{"a}", "", "unmatched closing brace at position 1"},
		{"{x}", "", "invalid placeholder: {x}"},
		{"{} {} {} {}", "", "placeholder index 3 out of range (3 values)"},
	}
	for _, test := range tests {
		s, err := FormatString(test.format, vals)
		if test.err != "" {
			assert.EqualError(t, err, test.err, "format %q", test.format)
			continue
		}
		if assert.NoError(t, err, "format %q", test.format) {
			assert.Equal(t, test.result, s, "format %q", test.format)
		}
	}
}
