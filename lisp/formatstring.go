package lisp

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
)

// FormatString substitutes vals into the placeholders of format.  The
// placeholder {} takes the next value and {N} takes the value at index N.
// The sequences {{ and }} produce literal braces.  Values are written as by
// println.
func FormatString(format string, vals []*LVal) (string, error) {
	var buf bytes.Buffer
	next := 0
	for i := 0; i < len(format); {
		c := format[i]
		switch {
		case c == '{' && strings.HasPrefix(format[i:], "{{"):
			buf.WriteByte('{')
			i += 2
		case c == '}' && strings.HasPrefix(format[i:], "}}"):
			buf.WriteByte('}')
			i += 2
		case c == '}':
			return "", fmt.Errorf("unmatched closing brace at position %d", i)
		case c == '{':
			end := strings.IndexByte(format[i:], '}')
			if end < 0 {
				return "", fmt.Errorf("unterminated placeholder at position %d", i)
			}
			spec := format[i+1 : i+end]
			idx := next
			if spec == "" {
				next++
			} else {
				n, err := strconv.Atoi(spec)
				if err != nil || n < 0 {
					return "", fmt.Errorf("invalid placeholder: {%s}", spec)
				}
				idx = n
			}
			if idx >= len(vals) {
				return "", fmt.Errorf("placeholder index %d out of range (%d values)", idx, len(vals))
			}
			_, _ = Print(&buf, vals[idx])
			i += end + 1
		default:
			buf.WriteByte(c)
			i++
		}
	}
	return buf.String(), nil
}
