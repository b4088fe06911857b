// Package token defines the lexical token vocabulary for Quiche/MetaQuiche,
// including the three layout tokens (NEWLINE, INDENT, DEDENT) that carry
// significant indentation through the rest of the pipeline (spec.md §3).
package token

import "fmt"

// Type identifies the lexical category of a Token.
type Type int

const (
	EOF Type = iota
	ILLEGAL

	// Layout
	NEWLINE
	INDENT
	DEDENT

	// Identifiers and literals
	IDENT
	INT
	FLOAT
	STRING
	BYTES
	FSTRING_START // leading literal chunk of an f-string, up to the first '{'
	FSTRING_MID   // literal chunk between two embedded expressions
	FSTRING_END   // trailing literal chunk, after the last '}'
	BOOL
	NONE_LIT

	// Keywords
	DEF
	CLASS
	TYPE
	IF
	ELIF
	ELSE
	FOR
	WHILE
	MATCH
	CASE
	RETURN
	PASS
	BREAK
	CONTINUE
	TRY
	EXCEPT
	IMPORT
	FROM
	AS
	LAMBDA
	AND
	OR
	NOT
	TRUE
	FALSE
	NONE
	IN
	IS
	ASSERT

	// Punctuation / operators
	LPAREN
	RPAREN
	LBRACKET
	RBRACKET
	LBRACE
	RBRACE
	COMMA
	COLON
	SEMICOLON
	DOT
	ARROW    // ->
	PIPE_GT  // |>
	ELLIPSIS // ...

	ASSIGN // =
	PLUS
	MINUS
	STAR
	SLASH
	DSLASH // //
	PERCENT
	DSTAR // **
	AMP
	CARET
	VBAR
	TILDE
	LSHIFT
	RSHIFT

	PLUS_EQ
	MINUS_EQ
	STAR_EQ
	SLASH_EQ
	DSLASH_EQ
	PERCENT_EQ
	AMP_EQ
	VBAR_EQ
	CARET_EQ
	LSHIFT_EQ
	RSHIFT_EQ

	EQ
	NEQ
	LT
	LTE
	GT
	GTE

	AT // decorators

	COMMENT
)

var names = map[Type]string{
	EOF: "EOF", ILLEGAL: "ILLEGAL",
	NEWLINE: "NEWLINE", INDENT: "INDENT", DEDENT: "DEDENT",
	IDENT: "IDENT", INT: "INT", FLOAT: "FLOAT", STRING: "STRING", BYTES: "BYTES",
	FSTRING_START: "FSTRING_START", FSTRING_MID: "FSTRING_MID", FSTRING_END: "FSTRING_END",
	BOOL: "BOOL", NONE_LIT: "NONE",
	DEF: "def", CLASS: "class", TYPE: "type", IF: "if", ELIF: "elif", ELSE: "else",
	FOR: "for", WHILE: "while", MATCH: "match", CASE: "case", RETURN: "return",
	PASS: "pass", BREAK: "break", CONTINUE: "continue", TRY: "try", EXCEPT: "except",
	IMPORT: "import", FROM: "from", AS: "as", LAMBDA: "lambda",
	AND: "and", OR: "or", NOT: "not", TRUE: "True", FALSE: "False", NONE: "None",
	IN: "in", IS: "is", ASSERT: "assert",
	LPAREN: "(", RPAREN: ")", LBRACKET: "[", RBRACKET: "]", LBRACE: "{", RBRACE: "}",
	COMMA: ",", COLON: ":", SEMICOLON: ";", DOT: ".", ARROW: "->", PIPE_GT: "|>",
	ELLIPSIS: "...",
	ASSIGN:   "=", PLUS: "+", MINUS: "-", STAR: "*", SLASH: "/", DSLASH: "//",
	PERCENT: "%", DSTAR: "**", AMP: "&", CARET: "^", VBAR: "|", TILDE: "~",
	LSHIFT: "<<", RSHIFT: ">>",
	PLUS_EQ: "+=", MINUS_EQ: "-=", STAR_EQ: "*=", SLASH_EQ: "/=", DSLASH_EQ: "//=",
	PERCENT_EQ: "%=", AMP_EQ: "&=", VBAR_EQ: "|=", CARET_EQ: "^=",
	LSHIFT_EQ: "<<=", RSHIFT_EQ: ">>=",
	EQ: "==", NEQ: "!=", LT: "<", LTE: "<=", GT: ">", GTE: ">=",
	AT: "@", COMMENT: "COMMENT",
}

func (t Type) String() string {
	if s, ok := names[t]; ok {
		return s
	}
	return fmt.Sprintf("Type(%d)", int(t))
}

// Keywords maps reserved identifiers to their keyword token type.
var Keywords = map[string]Type{
	"def": DEF, "class": CLASS, "type": TYPE, "if": IF, "elif": ELIF, "else": ELSE,
	"for": FOR, "while": WHILE, "match": MATCH, "case": CASE, "return": RETURN,
	"pass": PASS, "break": BREAK, "continue": CONTINUE, "try": TRY, "except": EXCEPT,
	"import": IMPORT, "from": FROM, "as": AS, "lambda": LAMBDA,
	"and": AND, "or": OR, "not": NOT, "True": TRUE, "False": FALSE, "None": NONE,
	"in": IN, "is": IS, "assert": ASSERT,
}

// Position is a 1-based line/column location, duplicated here (rather than
// imported from diag) to keep token zero-allocation-friendly the way the
// host lexer keeps Token a flat value type.
type Position struct {
	Line   int
	Column int
	Offset int
}

// Token is the lexer's atomic output unit (spec.md §3 Token).
type Token struct {
	Type  Type
	Text  string
	Start Position
	End   Position
}

func (t Token) String() string {
	if t.Text != "" {
		return fmt.Sprintf("%s(%q)@%d:%d", t.Type, t.Text, t.Start.Line, t.Start.Column)
	}
	return fmt.Sprintf("%s@%d:%d", t.Type, t.Start.Line, t.Start.Column)
}
