package libstring

import (
	"bytes"
	"strings"

	"github.com/bmatsuo/rlisp/lisp"
	"github.com/bmatsuo/rlisp/lisp/lisplib/internal/libutil"
	"golang.org/x/text/cases"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// DefaultLocale is the locale used by formatting functions when none is
// given.
const DefaultLocale = "en"

// LoadPackage adds the string functions to env
func LoadPackage(env *lisp.LEnv) *lisp.LVal {
	return libutil.Load(env, builtins)
}

var builtins = []*libutil.Builtin{
	libutil.Function("format", lisp.Formals("format-string", lisp.VarArgSymbol, "values"), builtinFormat),
	libutil.Function("format-number", lisp.Formals("number", lisp.OptArgSymbol, "decimals", "locale"), builtinFormatNumber),
	libutil.Function("format-percent", lisp.Formals("number", lisp.OptArgSymbol, "locale"), builtinFormatPercent),
	libutil.Function("format-currency", lisp.Formals("number", "currency-code", lisp.OptArgSymbol, "locale"), builtinFormatCurrency),
	libutil.Function("title-case", lisp.Formals("s"), builtinTitleCase),
	libutil.Function("string-join", lisp.Formals("seq", "separator"), builtinJoin),
	libutil.Function("string-split", lisp.Formals("s", "separator"), builtinSplit),
	libutil.Function("string-trim", lisp.Formals("s", lisp.OptArgSymbol, "cutset"), builtinTrim),
	libutil.Function("string-contains?", lisp.Formals("s", "substring"), builtinContains),
	libutil.Function("string-prefix?", lisp.Formals("s", "prefix"), builtinHasPrefix),
	libutil.Function("string-suffix?", lisp.Formals("s", "suffix"), builtinHasSuffix),
	libutil.Function("string-replace", lisp.Formals("s", "old", "new"), builtinReplace),
}

func builtinFormat(env *lisp.LEnv, args *lisp.LVal) *lisp.LVal {
	format, lerr := libutil.StringArg(env, args, 0)
	if lerr != nil {
		return lerr
	}
	s, err := lisp.FormatString(format, args.Cells[1:])
	if err != nil {
		return env.Errorf("format: %v", err)
	}
	return lisp.String(s)
}

// printer returns a message.Printer for the locale argument at index i.
func printer(env *lisp.LEnv, args *lisp.LVal, i int) (*message.Printer, *lisp.LVal) {
	locale := DefaultLocale
	if !args.Cells[i].IsNil() {
		s, lerr := libutil.StringArg(env, args, i)
		if lerr != nil {
			return nil, lerr
		}
		locale = s
	}
	tag, err := language.Parse(locale)
	if err != nil {
		return nil, env.Errorf("invalid locale: %q", locale)
	}
	return message.NewPrinter(tag), nil
}

func builtinFormatNumber(env *lisp.LEnv, args *lisp.LVal) *lisp.LVal {
	x := args.Cells[0]
	if !x.IsNumeric() {
		return env.ArgTypeError(1, "a number", x)
	}
	var opts []number.Option
	if dec := args.Cells[1]; !dec.IsNil() {
		if dec.Type != lisp.LInt || dec.Int < 0 {
			return env.ArgTypeError(2, "a non-negative int", dec)
		}
		opts = append(opts, number.MinFractionDigits(dec.Int), number.MaxFractionDigits(dec.Int))
	}
	p, lerr := printer(env, args, 2)
	if lerr != nil {
		return lerr
	}
	return lisp.String(p.Sprint(number.Decimal(x.Interface(), opts...)))
}

func builtinFormatPercent(env *lisp.LEnv, args *lisp.LVal) *lisp.LVal {
	x := args.Cells[0]
	if !x.IsNumeric() {
		return env.ArgTypeError(1, "a number", x)
	}
	p, lerr := printer(env, args, 1)
	if lerr != nil {
		return lerr
	}
	return lisp.String(p.Sprint(number.Percent(x.Interface())))
}

func builtinFormatCurrency(env *lisp.LEnv, args *lisp.LVal) *lisp.LVal {
	x := args.Cells[0]
	if !x.IsNumeric() {
		return env.ArgTypeError(1, "a number", x)
	}
	code, lerr := libutil.StringArg(env, args, 1)
	if lerr != nil {
		return lerr
	}
	unit, err := currency.ParseISO(code)
	if err != nil {
		return env.Errorf("invalid currency code: %q", code)
	}
	p, lerr := printer(env, args, 2)
	if lerr != nil {
		return lerr
	}
	return lisp.String(p.Sprint(currency.Symbol(unit.Amount(x.Interface()))))
}

func builtinTitleCase(env *lisp.LEnv, args *lisp.LVal) *lisp.LVal {
	s, lerr := libutil.StringArg(env, args, 0)
	if lerr != nil {
		return lerr
	}
	return lisp.String(cases.Title(language.Und).String(s))
}

func builtinJoin(env *lisp.LEnv, args *lisp.LVal) *lisp.LVal {
	seq := args.Cells[0]
	values, ok := lisp.SeqValues(seq)
	if !ok {
		return env.ArgTypeError(1, "a sequence", seq)
	}
	sep, lerr := libutil.StringArg(env, args, 1)
	if lerr != nil {
		return lerr
	}
	var buf bytes.Buffer
	for i, v := range values {
		if i > 0 {
			buf.WriteString(sep)
		}
		_, _ = lisp.Print(&buf, v)
	}
	return lisp.String(buf.String())
}

func builtinSplit(env *lisp.LEnv, args *lisp.LVal) *lisp.LVal {
	s, lerr := libutil.StringArg(env, args, 0)
	if lerr != nil {
		return lerr
	}
	sep, lerr := libutil.StringArg(env, args, 1)
	if lerr != nil {
		return lerr
	}
	var b lisp.ListBuilder
	for _, part := range strings.Split(s, sep) {
		b.Append(lisp.String(part))
	}
	return b.List()
}

func builtinTrim(env *lisp.LEnv, args *lisp.LVal) *lisp.LVal {
	s, lerr := libutil.StringArg(env, args, 0)
	if lerr != nil {
		return lerr
	}
	if args.Cells[1].IsNil() {
		return lisp.String(strings.TrimSpace(s))
	}
	cutset, lerr := libutil.StringArg(env, args, 1)
	if lerr != nil {
		return lerr
	}
	return lisp.String(strings.Trim(s, cutset))
}

func builtinContains(env *lisp.LEnv, args *lisp.LVal) *lisp.LVal {
	return stringPredicate(env, args, strings.Contains)
}

func builtinHasPrefix(env *lisp.LEnv, args *lisp.LVal) *lisp.LVal {
	return stringPredicate(env, args, strings.HasPrefix)
}

func builtinHasSuffix(env *lisp.LEnv, args *lisp.LVal) *lisp.LVal {
	return stringPredicate(env, args, strings.HasSuffix)
}

func stringPredicate(env *lisp.LEnv, args *lisp.LVal, fn func(s, t string) bool) *lisp.LVal {
	s, lerr := libutil.StringArg(env, args, 0)
	if lerr != nil {
		return lerr
	}
	t, lerr := libutil.StringArg(env, args, 1)
	if lerr != nil {
		return lerr
	}
	return lisp.Bool(fn(s, t))
}

func builtinReplace(env *lisp.LEnv, args *lisp.LVal) *lisp.LVal {
	var strs [3]string
	for i := range strs {
		s, lerr := libutil.StringArg(env, args, i)
		if lerr != nil {
			return lerr
		}
		strs[i] = s
	}
	return lisp.String(strings.ReplaceAll(strs[0], strs[1], strs[2]))
}
