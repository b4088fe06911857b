// Package lexer turns Quiche/MetaQuiche source text into a token stream
// with significant indentation (spec.md §4.1). It follows the host
// compiler's lexer shape: a rune-by-rune scanner with readChar/peekChar,
// a token queue for cases where one scan produces several tokens (layout
// tokens, f-string chunks), and a slog logger gated by an environment
// variable for debug tracing.
package lexer

import (
	"log/slog"
	"os"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/quichelang/quiche/internal/diag"
	"github.com/quichelang/quiche/internal/token"
)

// Lexer scans one source file into tokens.
type Lexer struct {
	input  string
	pos    int // byte offset of ch
	readPos int
	ch     rune
	line   int
	column int

	// Indentation tracking (spec.md §4.1).
	indents     []int // stack, always starts at [0]
	atLineStart bool
	bracketDepth int // (), [], {} nesting: suppresses NEWLINE/INDENT/DEDENT

	tokenQueue []token.Token
	logger     *slog.Logger

	errs []error
}

// New creates a Lexer over the given source text.
func New(src string) *Lexer {
	logLevel := slog.LevelInfo
	if os.Getenv("QUICHE_DEBUG_LEXER") != "" {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				return slog.Attr{}
			}
			return a
		},
	}))

	l := &Lexer{
		input:       src,
		line:        1,
		column:      0,
		indents:     []int{0},
		atLineStart: true,
		logger:      logger,
	}
	l.readChar()
	logger.Debug("lex start", "bytes", len(src))
	return l
}

// Errs returns every LexError accumulated while scanning; the pipeline
// surfaces the first one and halts (spec.md §7 propagation policy).
func (l *Lexer) Errs() []error { return l.errs }

func (l *Lexer) pushErr(span diag.Span, reason string) {
	l.errs = append(l.errs, &diag.LexError{Span: span, Reason: reason})
	l.logger.Warn("lex error", "span", span.String(), "reason", reason)
}

func (l *Lexer) here() token.Position {
	return token.Position{Line: l.line, Column: l.column, Offset: l.pos}
}

func (l *Lexer) readChar() {
	l.pos = l.readPos
	if l.readPos >= len(l.input) {
		l.ch = 0
		return
	}
	r, size := utf8.DecodeRuneInString(l.input[l.readPos:])
	if r == utf8.RuneError && size == 1 {
		r = rune(l.input[l.readPos])
	}
	l.ch = r
	l.readPos += size
	if l.ch == '\n' {
		l.line++
		l.column = 0
	} else {
		l.column++
	}
}

func (l *Lexer) peekChar() rune {
	if l.readPos >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.readPos:])
	return r
}

func (l *Lexer) peekCharAt(offset int) rune {
	p := l.readPos
	var r rune
	for i := 0; i <= offset; i++ {
		if p >= len(l.input) {
			return 0
		}
		var size int
		r, size = utf8.DecodeRuneInString(l.input[p:])
		if i < offset {
			p += size
		}
	}
	return r
}

func (l *Lexer) make(typ token.Type, text string, start token.Position) token.Token {
	return token.Token{Type: typ, Text: text, Start: start, End: l.here()}
}

// TokenizeAll drains the lexer into a slice terminated by EOF. The
// parser and the pipeline both lex this way and parse the whole slice.
func (l *Lexer) TokenizeAll() ([]token.Token, error) {
	var toks []token.Token
	for {
		t := l.Next()
		toks = append(toks, t)
		if t.Type == token.EOF {
			break
		}
	}
	if len(l.errs) > 0 {
		l.logger.Warn("lex failed", "tokens", len(toks), "errors", len(l.errs))
		return toks, l.errs[0]
	}
	l.logger.Debug("lex done", "tokens", len(toks))
	return toks, nil
}

// Next returns the next token, handling indentation/layout bookkeeping
// before falling through to content scanning.
func (l *Lexer) Next() token.Token {
	if len(l.tokenQueue) > 0 {
		t := l.tokenQueue[0]
		l.tokenQueue = l.tokenQueue[1:]
		return t
	}

	if l.atLineStart && l.bracketDepth == 0 {
		if done, t := l.scanIndentation(); done {
			return t
		}
		if l.atLineStart && l.ch != 0 {
			// A blank or comment-only line was consumed; measure the
			// indentation of the line that follows it.
			return l.Next()
		}
	}

	l.skipInlineWhitespaceAndContinuations()

	start := l.here()

	if l.ch == 0 {
		// Emit DEDENTs down to 0, then EOF.
		if len(l.indents) > 1 {
			l.indents = l.indents[:len(l.indents)-1]
			return l.make(token.DEDENT, "", start)
		}
		return l.make(token.EOF, "", start)
	}

	if l.ch == '#' {
		l.skipComment()
		return l.Next()
	}

	if l.ch == '\n' {
		l.readChar()
		if l.bracketDepth > 0 {
			return l.Next()
		}
		l.atLineStart = true
		return l.make(token.NEWLINE, "\\n", start)
	}

	switch {
	case isIdentStart(l.ch):
		return l.lexIdentOrKeywordOrPrefixedString(start)
	case unicode.IsDigit(l.ch):
		return l.lexNumber(start)
	case l.ch == '"' || l.ch == '\'':
		return l.lexString(start, "")
	}

	return l.lexOperator(start)
}

// scanIndentation consumes leading spaces of a logical line and emits
// INDENT/DEDENT tokens per spec.md §4.1. Returns done=false when the line
// is blank or a comment-only line, in which case the caller continues
// scanning normally (no layout token is produced for it).
func (l *Lexer) scanIndentation() (bool, token.Token) {
	start := l.here()
	spaces := 0
	sawTab, sawSpace := false, false
	for l.ch == ' ' || l.ch == '\t' {
		if l.ch == '\t' {
			sawTab = true
		} else {
			sawSpace = true
		}
		spaces++
		l.readChar()
	}
	if sawTab && sawSpace {
		// Mixed tabs/spaces in the same indent unit (spec.md §4.1 failure mode).
		l.pushErr(diag.Span{Start: diag.Position{Line: start.Line, Column: start.Column}},
			"inconsistent use of tabs and spaces in indentation")
	}

	if l.ch == '\n' || l.ch == '#' || l.ch == 0 {
		// Blank or comment-only line: no layout token, let Next() handle it.
		l.atLineStart = false
		if l.ch == '#' {
			l.skipComment()
		}
		if l.ch == '\n' {
			l.readChar()
		}
		if l.ch == 0 {
			// Trailing blank line at EOF: fall through to DEDENT/EOF handling.
			l.atLineStart = true
			return false, token.Token{}
		}
		l.atLineStart = true
		return false, token.Token{}
	}

	l.atLineStart = false
	top := l.indents[len(l.indents)-1]
	switch {
	case spaces > top:
		l.indents = append(l.indents, spaces)
		return true, l.make(token.INDENT, "", start)
	case spaces < top:
		popped := 0
		for len(l.indents) > 1 && l.indents[len(l.indents)-1] > spaces {
			l.indents = l.indents[:len(l.indents)-1]
			popped++
		}
		if l.indents[len(l.indents)-1] != spaces {
			l.pushErr(diag.Span{Start: diag.Position{Line: start.Line, Column: start.Column}},
				"dedent does not match any outer indentation level")
		}
		for i := 1; i < popped; i++ {
			l.tokenQueue = append(l.tokenQueue, l.make(token.DEDENT, "", start))
		}
		return true, l.make(token.DEDENT, "", start)
	default:
		return false, token.Token{}
	}
}

func (l *Lexer) skipInlineWhitespaceAndContinuations() {
	for {
		for l.ch == ' ' || l.ch == '\t' || l.ch == '\r' {
			l.readChar()
		}
		if l.ch == '\\' && l.peekChar() == '\n' {
			l.readChar()
			l.readChar()
			continue
		}
		if l.ch == '\n' && l.bracketDepth > 0 {
			l.readChar()
			continue
		}
		break
	}
}

func (l *Lexer) skipComment() {
	for l.ch != '\n' && l.ch != 0 {
		l.readChar()
	}
}

func isIdentStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isIdentPart(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

func (l *Lexer) lexIdentOrKeywordOrPrefixedString(start token.Position) token.Token {
	var sb strings.Builder
	for isIdentPart(l.ch) {
		sb.WriteRune(l.ch)
		l.readChar()
	}
	name := sb.String()

	// f-string / byte-string prefixes.
	if (name == "f" || name == "F") && (l.ch == '"' || l.ch == '\'') {
		return l.lexString(start, "f")
	}
	if (name == "b" || name == "B") && (l.ch == '"' || l.ch == '\'') {
		return l.lexString(start, "b")
	}
	if (name == "r" || name == "R") && (l.ch == '"' || l.ch == '\'') {
		return l.lexString(start, "r")
	}

	if name == "True" {
		return l.make(token.TRUE, name, start)
	}
	if name == "False" {
		return l.make(token.FALSE, name, start)
	}
	if name == "None" {
		return l.make(token.NONE, name, start)
	}
	if kw, ok := token.Keywords[name]; ok {
		return l.make(kw, name, start)
	}
	return l.make(token.IDENT, name, start)
}

func (l *Lexer) lexNumber(start token.Position) token.Token {
	var sb strings.Builder

	if l.ch == '0' && (l.peekChar() == 'x' || l.peekChar() == 'X') {
		sb.WriteRune(l.ch)
		l.readChar()
		sb.WriteRune(l.ch)
		l.readChar()
		for isHexDigit(l.ch) || l.ch == '_' {
			sb.WriteRune(l.ch)
			l.readChar()
		}
		return l.make(token.INT, sb.String(), start)
	}
	if l.ch == '0' && (l.peekChar() == 'b' || l.peekChar() == 'B') {
		sb.WriteRune(l.ch)
		l.readChar()
		sb.WriteRune(l.ch)
		l.readChar()
		for l.ch == '0' || l.ch == '1' || l.ch == '_' {
			sb.WriteRune(l.ch)
			l.readChar()
		}
		return l.make(token.INT, sb.String(), start)
	}
	if l.ch == '0' && (l.peekChar() == 'o' || l.peekChar() == 'O') {
		sb.WriteRune(l.ch)
		l.readChar()
		sb.WriteRune(l.ch)
		l.readChar()
		for (l.ch >= '0' && l.ch <= '7') || l.ch == '_' {
			sb.WriteRune(l.ch)
			l.readChar()
		}
		return l.make(token.INT, sb.String(), start)
	}

	isFloat := false
	for unicode.IsDigit(l.ch) || l.ch == '_' {
		sb.WriteRune(l.ch)
		l.readChar()
	}
	if l.ch == '.' && unicode.IsDigit(l.peekChar()) {
		isFloat = true
		sb.WriteRune(l.ch)
		l.readChar()
		for unicode.IsDigit(l.ch) || l.ch == '_' {
			sb.WriteRune(l.ch)
			l.readChar()
		}
	}
	if l.ch == 'e' || l.ch == 'E' {
		isFloat = true
		sb.WriteRune(l.ch)
		l.readChar()
		if l.ch == '+' || l.ch == '-' {
			sb.WriteRune(l.ch)
			l.readChar()
		}
		for unicode.IsDigit(l.ch) {
			sb.WriteRune(l.ch)
			l.readChar()
		}
	}
	if isFloat {
		return l.make(token.FLOAT, sb.String(), start)
	}
	return l.make(token.INT, sb.String(), start)
}

func isHexDigit(r rune) bool {
	return unicode.IsDigit(r) || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
}

// lexString handles single/double and triple-quoted strings, with an
// optional prefix ("f", "b", "r"). f-strings are lexed into a compound
// sequence of FSTRING_START/MID/END tokens with the embedded expression
// text captured verbatim in Text for later re-lexing/re-parsing
// (spec.md §4.1, §4.2).
func (l *Lexer) lexString(start token.Position, prefix string) token.Token {
	quote := l.ch
	l.readChar() // consume opening quote

	triple := false
	if l.ch == quote && l.peekChar() == quote {
		triple = true
		l.readChar()
		l.readChar()
	}

	if prefix == "f" {
		return l.lexFStringChunk(start, quote, triple, true)
	}

	var sb strings.Builder
	for {
		if l.ch == 0 {
			l.pushErr(diag.Span{Start: diag.Position{Line: start.Line, Column: start.Column}}, "unterminated string literal")
			break
		}
		if !triple && l.ch == '\n' {
			l.pushErr(diag.Span{Start: diag.Position{Line: start.Line, Column: start.Column}}, "unterminated string literal")
			break
		}
		if l.ch == quote {
			if triple {
				if l.peekChar() == quote && l.peekCharAt(1) == quote {
					l.readChar()
					l.readChar()
					l.readChar()
					break
				}
			} else {
				l.readChar()
				break
			}
		}
		if l.ch == '\\' {
			sb.WriteRune(l.ch)
			l.readChar()
			if l.ch == 0 {
				l.pushErr(diag.Span{Start: diag.Position{Line: start.Line, Column: start.Column}}, "unterminated escape sequence")
				break
			}
			sb.WriteRune(l.ch)
			l.readChar()
			continue
		}
		sb.WriteRune(l.ch)
		l.readChar()
	}

	typ := token.STRING
	if prefix == "b" {
		typ = token.BYTES
	}
	return l.make(typ, sb.String(), start)
}

// lexFStringChunk scans one literal chunk of an f-string up to the next
// '{' (an embedded expression boundary) or the closing quote, and queues
// the follow-on tokens so the caller still gets one token per call.
func (l *Lexer) lexFStringChunk(start token.Position, quote rune, triple, isFirst bool) token.Token {
	var sb strings.Builder
	for {
		if l.ch == 0 {
			l.pushErr(diag.Span{Start: diag.Position{Line: start.Line, Column: start.Column}}, "unterminated f-string literal")
			break
		}
		if l.ch == '{' && l.peekChar() == '{' {
			sb.WriteRune('{')
			l.readChar()
			l.readChar()
			continue
		}
		if l.ch == '}' && l.peekChar() == '}' {
			sb.WriteRune('}')
			l.readChar()
			l.readChar()
			continue
		}
		if l.ch == '{' {
			l.readChar()
			exprText := l.scanFStringExpr()
			// consume closing '}'
			if l.ch == '}' {
				l.readChar()
			}
			typ := token.FSTRING_MID
			if isFirst {
				typ = token.FSTRING_START
			}
			lit := l.make(typ, sb.String(), start)
			exprTok := l.make(token.IDENT, exprText, l.here())
			atEnd := l.atStringClose(quote, triple)
			if atEnd {
				endChunk := l.consumeStringClose(quote, triple, start)
				l.tokenQueue = append(l.tokenQueue, exprTok, endChunk)
			} else {
				nextStart := l.here()
				l.tokenQueue = append(l.tokenQueue, exprTok, l.lexFStringChunkFrom(nextStart, quote, triple))
			}
			return lit
		}
		if !triple && l.ch == '\n' {
			l.pushErr(diag.Span{Start: diag.Position{Line: start.Line, Column: start.Column}}, "unterminated f-string literal")
			break
		}
		if l.ch == quote {
			if triple {
				if l.peekChar() == quote && l.peekCharAt(1) == quote {
					l.readChar()
					l.readChar()
					l.readChar()
					break
				}
			} else {
				l.readChar()
				break
			}
		}
		sb.WriteRune(l.ch)
		l.readChar()
	}
	typ := token.FSTRING_END
	if isFirst {
		// A plain (non-interpolated) f-string still round-trips as a
		// single FSTRING_START with no embedded expressions.
		typ = token.FSTRING_START
	}
	return l.make(typ, sb.String(), start)
}

func (l *Lexer) lexFStringChunkFrom(start token.Position, quote rune, triple bool) token.Token {
	return l.lexFStringChunk(start, quote, triple, false)
}

func (l *Lexer) atStringClose(quote rune, triple bool) bool {
	if l.ch != quote {
		return false
	}
	if !triple {
		return true
	}
	return l.peekChar() == quote && l.peekCharAt(1) == quote
}

func (l *Lexer) consumeStringClose(quote rune, triple bool, start token.Position) token.Token {
	if triple {
		l.readChar()
		l.readChar()
		l.readChar()
	} else {
		l.readChar()
	}
	return l.make(token.FSTRING_END, "", start)
}

// scanFStringExpr captures the raw text of an embedded expression inside
// an f-string, tracking nested brackets/strings so a '}' inside a nested
// dict literal or string doesn't prematurely end the expression.
func (l *Lexer) scanFStringExpr() string {
	var sb strings.Builder
	depth := 0
	for {
		if l.ch == 0 {
			break
		}
		if depth == 0 && l.ch == '}' {
			break
		}
		if l.ch == '{' || l.ch == '(' || l.ch == '[' {
			depth++
		}
		if l.ch == '}' || l.ch == ')' || l.ch == ']' {
			if depth > 0 {
				depth--
			}
		}
		if l.ch == '"' || l.ch == '\'' {
			q := l.ch
			sb.WriteRune(l.ch)
			l.readChar()
			for l.ch != 0 && l.ch != q {
				sb.WriteRune(l.ch)
				l.readChar()
			}
			if l.ch == q {
				sb.WriteRune(l.ch)
				l.readChar()
			}
			continue
		}
		sb.WriteRune(l.ch)
		l.readChar()
	}
	return sb.String()
}

func (l *Lexer) lexOperator(start token.Position) token.Token {
	ch := l.ch
	two := string(ch) + string(l.peekChar())

	bracketOpen := func(t token.Type) token.Token {
		l.bracketDepth++
		l.readChar()
		return l.make(t, string(ch), start)
	}
	bracketClose := func(t token.Type) token.Token {
		if l.bracketDepth > 0 {
			l.bracketDepth--
		}
		l.readChar()
		return l.make(t, string(ch), start)
	}

	switch ch {
	case '(':
		return bracketOpen(token.LPAREN)
	case ')':
		return bracketClose(token.RPAREN)
	case '[':
		return bracketOpen(token.LBRACKET)
	case ']':
		return bracketClose(token.RBRACKET)
	case '{':
		return bracketOpen(token.LBRACE)
	case '}':
		return bracketClose(token.RBRACE)
	case ',':
		l.readChar()
		return l.make(token.COMMA, ",", start)
	case ':':
		l.readChar()
		return l.make(token.COLON, ":", start)
	case ';':
		l.readChar()
		return l.make(token.SEMICOLON, ";", start)
	case '@':
		l.readChar()
		return l.make(token.AT, "@", start)
	case '~':
		l.readChar()
		return l.make(token.TILDE, "~", start)
	}

	three := two + string(l.peekCharAt(1))
	switch {
	case three == "...":
		l.readChar()
		l.readChar()
		l.readChar()
		return l.make(token.ELLIPSIS, "...", start)
	case two == "//" && l.peekCharAt(1) == '=':
		l.readChar()
		l.readChar()
		l.readChar()
		return l.make(token.DSLASH_EQ, "//=", start)
	case two == "**" && l.peekCharAt(1) != '=':
		l.readChar()
		l.readChar()
		return l.make(token.DSTAR, "**", start)
	case two == "<<" && l.peekCharAt(1) == '=':
		l.readChar()
		l.readChar()
		l.readChar()
		return l.make(token.LSHIFT_EQ, "<<=", start)
	case two == ">>" && l.peekCharAt(1) == '=':
		l.readChar()
		l.readChar()
		l.readChar()
		return l.make(token.RSHIFT_EQ, ">>=", start)
	}

	twoTok, isTwo := map[string]token.Type{
		"->": token.ARROW, "|>": token.PIPE_GT, "//": token.DSLASH,
		"==": token.EQ, "!=": token.NEQ, "<=": token.LTE, ">=": token.GTE,
		"<<": token.LSHIFT, ">>": token.RSHIFT,
		"+=": token.PLUS_EQ, "-=": token.MINUS_EQ, "*=": token.STAR_EQ, "/=": token.SLASH_EQ,
		"%=": token.PERCENT_EQ, "&=": token.AMP_EQ, "|=": token.VBAR_EQ, "^=": token.CARET_EQ,
	}[two]
	if isTwo {
		l.readChar()
		l.readChar()
		return l.make(twoTok, two, start)
	}

	oneTok, isOne := map[rune]token.Type{
		'=': token.ASSIGN, '+': token.PLUS, '-': token.MINUS, '*': token.STAR,
		'/': token.SLASH, '%': token.PERCENT, '&': token.AMP, '^': token.CARET,
		'|': token.VBAR, '<': token.LT, '>': token.GT, '.': token.DOT,
	}[ch]
	if isOne {
		l.readChar()
		return l.make(oneTok, string(ch), start)
	}

	l.pushErr(diag.Span{Start: diag.Position{Line: start.Line, Column: start.Column}},
		"illegal character '"+string(ch)+"'")
	l.readChar()
	return l.make(token.ILLEGAL, string(ch), start)
}
