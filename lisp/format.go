package lisp

import (
	"fmt"
	"io"
	"strconv"

	"github.com/bmatsuo/rlisp/lisp/internal/lfmt"
)

// Format writes the readable representation of v to w.  Strings are quoted so
// that the output of Format can be read back where the type permits it.
func Format(w io.Writer, v *LVal) (int, error) {
	return format(lfmt.NewCountingWriter(w), v, true)
}

// Print writes v to w the way println displays it.  Print is like Format
// except that a string argument is written without quotes or escapes.
func Print(w io.Writer, v *LVal) (int, error) {
	if v.Type == LString {
		return io.WriteString(w, v.Str)
	}
	return Format(w, v)
}

// FormatFloat returns the shortest decimal representation of x which
// round-trips, without an exponent.
func FormatFloat(x float64) string {
	return strconv.FormatFloat(x, 'f', -1, 64)
}

func format(w lfmt.CountingWriter, v *LVal, quote bool) (int, error) {
	var err error
	switch v.Type {
	case LNil:
		_, err = w.WriteString("()")
	case LInt:
		_, err = w.WriteString(strconv.Itoa(v.Int))
	case LFloat:
		_, err = w.WriteString(FormatFloat(v.Float))
	case LString:
		if quote {
			_, err = w.WriteString(strconv.Quote(v.Str))
		} else {
			_, err = w.WriteString(v.Str)
		}
	case LSymbol:
		_, err = w.WriteString(v.Str)
	case LCons:
		err = formatCons(w, v)
	case LVector:
		err = formatCells(w, "[", v.Cells, "]")
	case LMap:
		err = formatMap(w, v.MapData())
	case LFun:
		err = formatFun(w, v)
	case LNative:
		_, err = fmt.Fprint(w, v.Native)
	case LError:
		_, err = w.WriteString((*ErrorVal)(v).Condition() + ": " + (*ErrorVal)(v).Message())
	default:
		_, err = fmt.Fprintf(w, "#<%s>", v.Type)
	}
	return w.N(), err
}

func formatCons(w lfmt.CountingWriter, v *LVal) error {
	if q, ok := quoteForm(v); ok {
		_, err := w.WriteString(q)
		if err != nil {
			return err
		}
		_, err = format(w, v.ConsData().CDR.ConsData().CAR, true)
		return err
	}
	_, err := w.WriteString("(")
	if err != nil {
		return err
	}
	seen := make(map[*ConsData]bool)
	for i := 0; v.Type == LCons; i++ {
		data := v.ConsData()
		if seen[data] {
			_, err = w.WriteString(" ...")
			if err != nil {
				return err
			}
			v = Nil()
			break
		}
		seen[data] = true
		if i > 0 {
			_, err = w.WriteString(" ")
			if err != nil {
				return err
			}
		}
		_, err = w.DeferCount(func(w io.Writer) (int, error) {
			return Format(w, data.CAR)
		})
		if err != nil {
			return err
		}
		v = data.CDR
	}
	if !v.IsNil() {
		_, err = w.WriteString(" . ")
		if err != nil {
			return err
		}
		_, err = w.DeferCount(func(w io.Writer) (int, error) {
			return Format(w, v)
		})
		if err != nil {
			return err
		}
	}
	_, err = w.WriteString(")")
	return err
}

// quoteForm returns the reader shorthand for a two element list headed by one
// of the quoting symbols.
func quoteForm(v *LVal) (string, bool) {
	data := v.ConsData()
	if data.CAR.Type != LSymbol {
		return "", false
	}
	rest := data.CDR.ConsData()
	if rest == nil || !rest.CDR.IsNil() {
		return "", false
	}
	switch data.CAR.Str {
	case QuoteSymbol:
		return "'", true
	case QuasiquoteSymbol:
		return "`", true
	case UnquoteSymbol:
		return ",", true
	case UnquoteSplicingSymbol:
		return ",@", true
	}
	return "", false
}

func formatCells(w lfmt.CountingWriter, open string, cells []*LVal, close string) error {
	_, err := w.WriteString(open)
	if err != nil {
		return err
	}
	for i, c := range cells {
		if i > 0 {
			_, err = w.WriteString(" ")
			if err != nil {
				return err
			}
		}
		_, err = w.DeferCount(func(w io.Writer) (int, error) {
			return Format(w, c)
		})
		if err != nil {
			return err
		}
	}
	_, err = w.WriteString(close)
	return err
}

func formatMap(w lfmt.CountingWriter, m *MapData) error {
	cells := make([]*LVal, 0, 2*m.Len())
	m.Each(func(k, v *LVal) bool {
		cells = append(cells, k, v)
		return true
	})
	return formatCells(w, "{", cells, "}")
}

func formatFun(w lfmt.CountingWriter, v *LVal) error {
	if v.Builtin() != nil {
		_, err := w.WriteString(v.FID())
		return err
	}
	cells := make([]*LVal, 0, len(v.Cells)+1)
	if v.IsMacro() {
		cells = append(cells, Symbol("macro"))
	} else {
		cells = append(cells, Symbol("fn"))
	}
	cells = append(cells, v.Cells...)
	return formatCells(w, "(", cells, ")")
}
