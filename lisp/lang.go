package lisp

// Symbols with special meaning in a function's list of formal arguments.
const (
	// MetaArgPrefix is the prefix shared by all control symbols in a formal
	// argument list.
	MetaArgPrefix = "&"
	// VarArgSymbol binds the remaining arguments as a list.
	VarArgSymbol = "&rest"
	// OptArgSymbol binds following formals to nil when no argument is given.
	OptArgSymbol = "&optional"
)

// Symbols of the reader's quoting forms.
const (
	QuoteSymbol           = "quote"
	QuasiquoteSymbol      = "quasiquote"
	UnquoteSymbol         = "unquote"
	UnquoteSplicingSymbol = "unquote-splicing"
)

// Boolean constants.  They are bound in every root environment and cannot be
// rebound.
const (
	TrueSymbol  = "true"
	FalseSymbol = "false"
	NilSymbol   = "nil"
)

// KeywordPrefix begins self-evaluating keyword symbols.
const KeywordPrefix = ":"

// MemberPrefix begins symbols which access members of host values when they
// appear at the head of an expression.
const MemberPrefix = "."

// ReturnSymbol names the special operator which stops a load and supplies its
// result.
const ReturnSymbol = "return"
