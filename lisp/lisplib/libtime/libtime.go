// Package libtime provides functions for formatting and inspecting time
// values supplied by the host.  There is deliberately no access to the
// system clock so rendering stays deterministic.
package libtime

import (
	"strings"
	"time"

	"github.com/bmatsuo/rlisp/lisp"
	"github.com/bmatsuo/rlisp/lisp/lisplib/internal/libutil"
	"github.com/goodsign/monday"
)

// LoadPackage adds the time functions to env
func LoadPackage(env *lisp.LEnv) *lisp.LVal {
	return libutil.Load(env, builtins)
}

// Time creates an LVal representing the time t.
func Time(t time.Time) *lisp.LVal {
	return lisp.Native(t)
}

// Get gets a time.Time value from v and returns it.
func Get(v *lisp.LVal) (time.Time, bool) {
	if v.Type != lisp.LNative {
		return time.Time{}, false
	}
	t, ok := v.Native.(time.Time)
	return t, ok
}

// Duration returns an LVal representing duration d.
func Duration(d time.Duration) *lisp.LVal {
	return lisp.Native(d)
}

// GetDuration gets a time.Duration value from v and returns it.
func GetDuration(v *lisp.LVal) (time.Duration, bool) {
	if v.Type != lisp.LNative {
		return 0, false
	}
	d, ok := v.Native.(time.Duration)
	return d, ok
}

var builtins = []*libutil.Builtin{
	libutil.Function("parse-rfc3339", lisp.Formals("timestamp"), BuiltinParseRFC3339),
	libutil.Function("format-rfc3339", lisp.Formals("datetime"), BuiltinFormatRFC3339),
	libutil.Function("format-time", lisp.Formals("datetime", "layout", lisp.OptArgSymbol, "locale"), BuiltinFormatTime),
	libutil.Function("time-year", lisp.Formals("datetime"), timeField(func(t time.Time) int { return t.Year() })),
	libutil.Function("time-month", lisp.Formals("datetime"), timeField(func(t time.Time) int { return int(t.Month()) })),
	libutil.Function("time-day", lisp.Formals("datetime"), timeField(func(t time.Time) int { return t.Day() })),
	libutil.Function("time-unix", lisp.Formals("datetime"), timeField(func(t time.Time) int { return int(t.Unix()) })),
	libutil.Function("time-sub", lisp.Formals("end", "start"), BuiltinSub),
	libutil.Function("duration-seconds", lisp.Formals("time-duration"), BuiltinDurationSeconds),
}

func timeArg(env *lisp.LEnv, args *lisp.LVal, i int) (time.Time, *lisp.LVal) {
	t, ok := Get(args.Cells[i])
	if !ok {
		return time.Time{}, env.ArgTypeError(i+1, "a time", args.Cells[i])
	}
	return t, nil
}

func BuiltinParseRFC3339(env *lisp.LEnv, args *lisp.LVal) *lisp.LVal {
	stamp, lerr := libutil.StringArg(env, args, 0)
	if lerr != nil {
		return lerr
	}
	t, err := time.Parse(time.RFC3339, stamp)
	if err != nil {
		return env.Error(err)
	}
	return Time(t)
}

func BuiltinFormatRFC3339(env *lisp.LEnv, args *lisp.LVal) *lisp.LVal {
	t, lerr := timeArg(env, args, 0)
	if lerr != nil {
		return lerr
	}
	return lisp.String(t.Format(time.RFC3339))
}

// BuiltinFormatTime formats a time using a Go layout string.  Month and day
// names are translated for the optional locale.
func BuiltinFormatTime(env *lisp.LEnv, args *lisp.LVal) *lisp.LVal {
	t, lerr := timeArg(env, args, 0)
	if lerr != nil {
		return lerr
	}
	layout, lerr := libutil.StringArg(env, args, 1)
	if lerr != nil {
		return lerr
	}
	var locale monday.Locale = monday.LocaleEnUS
	if !args.Cells[2].IsNil() {
		name, lerr := libutil.StringArg(env, args, 2)
		if lerr != nil {
			return lerr
		}
		var ok bool
		locale, ok = mondayLocale(name)
		if !ok {
			return env.Errorf("unsupported locale: %q", name)
		}
	}
	return lisp.String(monday.Format(t, layout, locale))
}

// mondayLocale maps a BCP 47 locale string to a monday.Locale.  Bare
// language codes select the language's primary region.
func mondayLocale(name string) (monday.Locale, bool) {
	name = strings.ToLower(strings.ReplaceAll(name, "-", "_"))
	switch name {
	case "en":
		return monday.LocaleEnUS, true
	case "de":
		return monday.LocaleDeDE, true
	case "fr":
		return monday.LocaleFrFR, true
	case "es":
		return monday.LocaleEsES, true
	case "it":
		return monday.LocaleItIT, true
	case "pt":
		return monday.LocalePtPT, true
	case "nl":
		return monday.LocaleNlNL, true
	case "ja":
		return monday.LocaleJaJP, true
	case "zh":
		return monday.LocaleZhCN, true
	}
	for _, loc := range monday.ListLocales() {
		if strings.ToLower(string(loc)) == name {
			return loc, true
		}
	}
	return "", false
}

func timeField(fn func(time.Time) int) lisp.LBuiltin {
	return func(env *lisp.LEnv, args *lisp.LVal) *lisp.LVal {
		t, lerr := timeArg(env, args, 0)
		if lerr != nil {
			return lerr
		}
		return lisp.Int(fn(t))
	}
}

func BuiltinSub(env *lisp.LEnv, args *lisp.LVal) *lisp.LVal {
	t1, lerr := timeArg(env, args, 0)
	if lerr != nil {
		return lerr
	}
	t2, lerr := timeArg(env, args, 1)
	if lerr != nil {
		return lerr
	}
	return Duration(t1.Sub(t2))
}

// BuiltinDurationSeconds returns a float equal to the number of seconds in
// the given duration.
func BuiltinDurationSeconds(env *lisp.LEnv, args *lisp.LVal) *lisp.LVal {
	d, ok := GetDuration(args.Cells[0])
	if !ok {
		return env.ArgTypeError(1, "a duration", args.Cells[0])
	}
	return lisp.Float(d.Seconds())
}
