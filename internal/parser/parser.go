// Package parser implements the recursive-descent parser that builds a
// Module AST from a token stream (spec.md §4.2). It follows the host
// parser's shape: a cursor over a flat token slice, a precedence-climbing
// expression parser (binaryExpr(minPrec)), and panicless-by-design error
// return (first error wins, per spec.md §4.2 contract).
package parser

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/quichelang/quiche/internal/ast"
	"github.com/quichelang/quiche/internal/diag"
	"github.com/quichelang/quiche/internal/lexer"
	"github.com/quichelang/quiche/internal/token"
)

type parser struct {
	toks []token.Token
	pos  int
	err  error

	// inTypeContext governs the `[` ambiguity: generic type argument vs
	// subscript (spec.md §4.2 edge cases). Pushed/popped around type
	// positions (after `:`, `->`, or inside a type expression).
	inTypeContext bool

	logger *slog.Logger
}

// Parse lexes and parses source text into a Module.
func Parse(src string) (*ast.Module, error) {
	lx := lexer.New(src)
	toks, err := lx.TokenizeAll()
	if err != nil {
		return nil, err
	}
	return ParseTokens(toks)
}

// ParseTokens parses an already-lexed token stream.
func ParseTokens(toks []token.Token) (*ast.Module, error) {
	logLevel := slog.LevelInfo
	if os.Getenv("QUICHE_DEBUG_PARSER") != "" {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))

	p := &parser{toks: toks, logger: logger}
	logger.Debug("parse start", "tokens", len(toks))
	mod := ast.NewModule()
	for !p.atEOF() {
		p.skipNewlines()
		if p.atEOF() {
			break
		}
		stmt := p.statement()
		if p.err != nil {
			return nil, p.err
		}
		if stmt != nil {
			mod.Stmts = append(mod.Stmts, stmt)
			recordImport(mod, stmt)
		}
	}
	if p.err != nil {
		return nil, p.err
	}
	logger.Debug("parse done", "statements", len(mod.Stmts))
	return mod, nil
}

func recordImport(mod *ast.Module, s ast.Stmt) {
	switch st := s.(type) {
	case *ast.Import:
		local := st.Module
		if st.Alias != "" {
			local = st.Alias
		}
		mod.Imports = append(mod.Imports, ast.ImportEntry{LocalName: local, Path: st.Module})
	case *ast.FromImport:
		for _, n := range st.Names {
			local := n.Name
			if n.Alias != "" {
				local = n.Alias
			}
			mod.Imports = append(mod.Imports, ast.ImportEntry{LocalName: local, Path: st.Module + "." + n.Name})
		}
	}
}

// ---------------------------------------------------------------------
// Span / node-base helpers
// ---------------------------------------------------------------------

func (p *parser) cur() token.Token {
	if p.pos >= len(p.toks) {
		return token.Token{Type: token.EOF}
	}
	return p.toks[p.pos]
}

func (p *parser) peekAt(n int) token.Token {
	idx := p.pos + n
	if idx >= len(p.toks) {
		return token.Token{Type: token.EOF}
	}
	return p.toks[idx]
}

func (p *parser) atEOF() bool { return p.cur().Type == token.EOF }

func (p *parser) advance() token.Token {
	t := p.cur()
	if p.pos < len(p.toks) {
		p.pos++
	}
	return t
}

func (p *parser) check(t token.Type) bool { return p.cur().Type == t }

func (p *parser) match(t token.Type) bool {
	if p.check(t) {
		p.advance()
		return true
	}
	return false
}

func posOf(t token.Token) diag.Position {
	return diag.Position{Line: t.Start.Line, Column: t.Start.Column}
}

// spanFrom builds a span from a starting token to the parser's current
// position, used right before a production returns.
func (p *parser) spanFrom(start token.Token) diag.Span {
	end := p.cur()
	if p.pos > 0 {
		end = p.toks[p.pos-1]
	}
	return diag.Span{Start: posOf(start), End: posOf(end)}
}

func sb(sp diag.Span) ast.StmtBase    { return ast.StmtBase{Base: ast.Base{Sp: sp}} }
func eb(sp diag.Span) ast.ExprBase    { return ast.ExprBase{Base: ast.Base{Sp: sp}} }
func pb(sp diag.Span) ast.PatternBase { return ast.PatternBase{Base: ast.Base{Sp: sp}} }

func (p *parser) expect(t token.Type) token.Token {
	if p.err != nil {
		return token.Token{}
	}
	if !p.check(t) {
		p.fail(t.String(), p.cur())
		return token.Token{}
	}
	return p.advance()
}

func (p *parser) fail(expected string, found token.Token) {
	if p.err != nil {
		return
	}
	p.err = &diag.ParseError{
		Span:     diag.Span{Start: posOf(found)},
		Expected: expected,
		Found:    describeToken(found),
	}
	if p.logger != nil {
		p.logger.Warn("parse error", "span", p.err.(*diag.ParseError).Span.String(), "expected", expected, "found", describeToken(found))
	}
}

func describeToken(t token.Token) string {
	if t.Type == token.EOF {
		return "end of input"
	}
	if t.Text != "" {
		return fmt.Sprintf("%q", t.Text)
	}
	return t.Type.String()
}

func (p *parser) skipNewlines() {
	for p.check(token.NEWLINE) {
		p.advance()
	}
}

// endOfStmt consumes the NEWLINE (or allows EOF/DEDENT) terminating a
// simple statement.
func (p *parser) endOfStmt() {
	if p.check(token.NEWLINE) {
		p.advance()
		return
	}
	if p.check(token.SEMICOLON) {
		p.advance()
		return
	}
	if p.atEOF() || p.check(token.DEDENT) {
		return
	}
	p.fail("newline", p.cur())
}

// ---------------------------------------------------------------------
// Statements
// ---------------------------------------------------------------------

func (p *parser) statement() ast.Stmt {
	decorators := p.decoratorPrefix()
	if p.err != nil {
		return nil
	}

	switch p.cur().Type {
	case token.DEF:
		return p.funcDef(decorators, false, ast.SelfNone)
	case token.CLASS:
		return p.classDef(decorators)
	case token.TYPE:
		return p.typeDef(decorators)
	case token.IF:
		return p.ifStmt()
	case token.WHILE:
		return p.whileStmt()
	case token.FOR:
		return p.forStmt()
	case token.MATCH:
		return p.matchStmt()
	case token.TRY:
		return p.tryStmt()
	case token.RETURN:
		return p.returnStmt()
	case token.PASS:
		t := p.advance()
		p.endOfStmt()
		return &ast.Pass{StmtBase: sb(p.spanFrom(t))}
	case token.BREAK:
		t := p.advance()
		p.endOfStmt()
		return &ast.Break{StmtBase: sb(p.spanFrom(t))}
	case token.CONTINUE:
		t := p.advance()
		p.endOfStmt()
		return &ast.Continue{StmtBase: sb(p.spanFrom(t))}
	case token.IMPORT:
		return p.importStmt()
	case token.FROM:
		return p.fromImportStmt()
	case token.ASSERT:
		return p.assertStmt()
	}

	if p.cur().Type == token.IDENT && p.peekAt(1).Type == token.COLON && len(decorators) == 0 {
		return p.annAssignOrConstStmt()
	}

	return p.exprOrAssignStmt()
}

// decoratorPrefix parses zero or more `@name(args)` lines preceding a
// class/function definition (spec.md §4.2 decorators).
func (p *parser) decoratorPrefix() []ast.Decorator {
	var out []ast.Decorator
	for p.check(token.AT) {
		start := p.advance()
		name := p.expect(token.IDENT).Text
		var args []ast.Expr
		kwargs := map[string]ast.Expr{}
		if p.match(token.LPAREN) {
			for !p.check(token.RPAREN) && p.err == nil {
				if p.check(token.IDENT) && p.peekAt(1).Type == token.ASSIGN {
					key := p.advance().Text
					p.advance() // '='
					kwargs[key] = p.expression()
				} else {
					args = append(args, p.expression())
				}
				if !p.match(token.COMMA) {
					break
				}
			}
			p.expect(token.RPAREN)
		}
		p.skipNewlines()
		out = append(out, ast.Decorator{Name: name, Args: args, Kwargs: kwargs, Sp: p.spanFrom(start)})
		if p.err != nil {
			return out
		}
	}
	return out
}

func (p *parser) block() []ast.Stmt {
	p.expect(token.COLON)
	if p.check(token.NEWLINE) {
		p.advance()
		p.expect(token.INDENT)
		var stmts []ast.Stmt
		for !p.check(token.DEDENT) && !p.atEOF() && p.err == nil {
			p.skipNewlines()
			if p.check(token.DEDENT) || p.atEOF() {
				break
			}
			s := p.statement()
			if p.err != nil {
				return stmts
			}
			if s != nil {
				stmts = append(stmts, s)
			}
		}
		p.match(token.DEDENT)
		return stmts
	}
	// Single-line suite: `if x: return y`
	s := p.statement()
	if s == nil {
		return nil
	}
	return []ast.Stmt{s}
}

func (p *parser) funcDef(decorators []ast.Decorator, isMethod bool, _ ast.SelfMode) ast.Stmt {
	start := p.advance() // 'def'
	name := p.expect(token.IDENT).Text
	typeParams := p.maybeTypeParams()
	params := p.paramList()
	var ret ast.Expr
	if p.match(token.ARROW) {
		ret = p.typeExpr()
	}
	body := p.block()
	if p.err != nil {
		return nil
	}

	selfMode := ast.SelfNone
	if isMethod && len(params) > 0 && params[0].Name == "self" {
		selfMode = ast.SelfShared
		if n, ok := params[0].Type.(*ast.Call); ok {
			if id, ok := n.Func.(*ast.Name); ok && id.Id == "mutref" {
				selfMode = ast.SelfExclusive
			}
		}
		if n, ok := params[0].Type.(*ast.Name); ok && n.Id == "mutref" {
			selfMode = ast.SelfExclusive
		}
	}

	return &ast.FunctionDef{
		StmtBase:   sb(p.spanFrom(start)),
		Name:       name,
		TypeParams: typeParams,
		Params:     params,
		ReturnType: ret,
		Body:       body,
		Decorators: decorators,
		IsMethod:   isMethod,
		SelfMode:   selfMode,
	}
}

// maybeTypeParams parses an optional `[T, U: Bound, ...]` generic
// parameter list, which the grammar places before the parenthesized
// parameter list (spec.md §4.2).
func (p *parser) maybeTypeParams() []ast.TypeParam {
	if !p.check(token.LBRACKET) {
		return nil
	}
	p.advance()
	var out []ast.TypeParam
	for !p.check(token.RBRACKET) && p.err == nil {
		name := p.expect(token.IDENT).Text
		var bounds []string
		if p.match(token.COLON) {
			bounds = append(bounds, p.boundName())
			for p.match(token.PLUS) {
				bounds = append(bounds, p.boundName())
			}
		}
		out = append(out, ast.TypeParam{Name: name, Bounds: bounds})
		if !p.match(token.COMMA) {
			break
		}
	}
	p.expect(token.RBRACKET)
	return out
}

func (p *parser) boundName() string {
	return p.expect(token.IDENT).Text
}

func (p *parser) paramList() []ast.Param {
	p.expect(token.LPAREN)
	var params []ast.Param
	for !p.check(token.RPAREN) && p.err == nil {
		name := p.expect(token.IDENT).Text
		var typ ast.Expr
		if p.match(token.COLON) {
			typ = p.typeExpr()
		}
		var def ast.Expr
		var defSpan diag.Span
		if p.match(token.ASSIGN) {
			dstart := p.cur()
			def = p.expression()
			defSpan = p.spanFrom(dstart)
		}
		params = append(params, ast.Param{Name: name, Type: typ, Default: def, DefaultSpan: defSpan})
		if !p.match(token.COMMA) {
			break
		}
	}
	p.expect(token.RPAREN)
	return params
}

// typeExpr parses a type position expression, enabling inTypeContext so
// `Name[Args]` parses as a generic instantiation rather than a subscript.
func (p *parser) typeExpr() ast.Expr {
	prev := p.inTypeContext
	p.inTypeContext = true
	defer func() { p.inTypeContext = prev }()
	return p.unionType()
}

// unionType handles `A | B | C` at the type grammar level, which is
// reused both for `type X = A | B | C` and for annotations.
func (p *parser) unionType() ast.Expr {
	start := p.cur()
	first := p.postfix(p.primary())
	parts := []ast.Expr{first}
	for p.match(token.VBAR) {
		parts = append(parts, p.postfix(p.primary()))
	}
	if len(parts) == 1 {
		return first
	}
	return &ast.BoolOp{ExprBase: eb(p.spanFrom(start)), Op: "|", Values: parts}
}

func (p *parser) classDef(decorators []ast.Decorator) ast.Stmt {
	start := p.advance() // 'class'
	name := p.expect(token.IDENT).Text
	typeParams := p.maybeTypeParams()
	var bases []string
	if p.match(token.LPAREN) {
		for !p.check(token.RPAREN) && p.err == nil {
			bases = append(bases, p.expect(token.IDENT).Text)
			if !p.match(token.COMMA) {
				break
			}
		}
		p.expect(token.RPAREN)
	}
	p.expect(token.COLON)
	p.skipToBlockBody()
	body := p.classBody()
	return &ast.ClassDef{
		StmtBase:   sb(p.spanFrom(start)),
		Name:       name,
		TypeParams: typeParams,
		Bases:      bases,
		Body:       body,
		Decorators: decorators,
	}
}

// skipToBlockBody consumes the NEWLINE+INDENT that block() would
// normally also consume; classBody re-implements block() because method
// defs need IsMethod=true threaded through.
func (p *parser) skipToBlockBody() {
	if p.check(token.NEWLINE) {
		p.advance()
	}
	p.expect(token.INDENT)
}

func (p *parser) classBody() []ast.Stmt {
	var stmts []ast.Stmt
	for !p.check(token.DEDENT) && !p.atEOF() && p.err == nil {
		p.skipNewlines()
		if p.check(token.DEDENT) || p.atEOF() {
			break
		}
		decorators := p.decoratorPrefix()
		if p.err != nil {
			return stmts
		}
		var s ast.Stmt
		if p.check(token.DEF) {
			s = p.funcDef(decorators, true, ast.SelfNone)
		} else {
			s = p.statement()
		}
		if p.err != nil {
			return stmts
		}
		if s != nil {
			stmts = append(stmts, s)
		}
	}
	p.match(token.DEDENT)
	return stmts
}

// typeDef parses `type T: ...` (struct or enum body) and
// `type T = A | B | C` (inline union), per spec.md §4.2/§4.3.
func (p *parser) typeDef(decorators []ast.Decorator) ast.Stmt {
	start := p.advance() // 'type'
	name := p.expect(token.IDENT).Text
	typeParams := p.maybeTypeParams()

	if p.match(token.ASSIGN) {
		union := []ast.Expr{p.postfix(p.primary())}
		for p.match(token.VBAR) {
			union = append(union, p.postfix(p.primary()))
		}
		p.endOfStmt()
		return &ast.TypeDef{StmtBase: sb(p.spanFrom(start)), Name: name, TypeParams: typeParams, Union: union, Decorators: decorators}
	}

	p.expect(token.COLON)
	p.skipToBlockBody()

	var fields []ast.Field
	var variants []ast.Variant
	for !p.check(token.DEDENT) && !p.atEOF() && p.err == nil {
		p.skipNewlines()
		if p.check(token.DEDENT) || p.atEOF() {
			break
		}
		memberName := p.expect(token.IDENT).Text
		if p.match(token.ASSIGN) {
			// Variant = (Type, Type, ...) or Variant = (field: Type, ...)
			v := ast.Variant{Name: memberName}
			if p.match(token.LPAREN) {
				for !p.check(token.RPAREN) && p.err == nil {
					if p.check(token.IDENT) && p.peekAt(1).Type == token.COLON {
						fname := p.advance().Text
						p.advance()
						v.Fields = append(v.Fields, ast.Field{Name: fname, Type: p.typeExpr()})
					} else {
						v.Fields = append(v.Fields, ast.Field{Type: p.typeExpr()})
					}
					if !p.match(token.COMMA) {
						break
					}
				}
				p.expect(token.RPAREN)
			}
			variants = append(variants, v)
		} else if p.check(token.NEWLINE) || p.check(token.DEDENT) || p.atEOF() {
			// A bare `Variant` line is a variant with no payload.
			variants = append(variants, ast.Variant{Name: memberName})
		} else {
			p.expect(token.COLON)
			fields = append(fields, ast.Field{Name: memberName, Type: p.typeExpr()})
		}
		p.endOfStmt()
	}
	p.match(token.DEDENT)

	return &ast.TypeDef{
		StmtBase:   sb(p.spanFrom(start)),
		Name:       name,
		TypeParams: typeParams,
		Fields:     fields,
		Variants:   variants,
		Decorators: decorators,
	}
}

func (p *parser) ifStmt() ast.Stmt {
	start := p.advance() // 'if'
	cond := p.expression()
	body := p.block()
	var elifs []ast.ElifClause
	var elseBody []ast.Stmt
	for p.check(token.ELIF) {
		p.advance()
		ec := p.expression()
		ebody := p.block()
		elifs = append(elifs, ast.ElifClause{Cond: ec, Body: ebody})
	}
	if p.match(token.ELSE) {
		elseBody = p.block()
	}
	return &ast.If{StmtBase: sb(p.spanFrom(start)), Cond: cond, Body: body, Elifs: elifs, Else: elseBody}
}

func (p *parser) whileStmt() ast.Stmt {
	start := p.advance()
	cond := p.expression()
	body := p.block()
	return &ast.While{StmtBase: sb(p.spanFrom(start)), Cond: cond, Body: body}
}

func (p *parser) forStmt() ast.Stmt {
	start := p.advance()
	target := p.primary()
	p.expect(token.IN)
	iter := p.expression()
	body := p.block()
	return &ast.For{StmtBase: sb(p.spanFrom(start)), Target: target, Iter: iter, Body: body}
}

func (p *parser) matchStmt() ast.Stmt {
	start := p.advance()
	subject := p.expression()
	p.expect(token.COLON)
	p.skipToBlockBody()
	var arms []ast.MatchArm
	for !p.check(token.DEDENT) && !p.atEOF() && p.err == nil {
		p.skipNewlines()
		if p.check(token.DEDENT) || p.atEOF() {
			break
		}
		astart := p.expect(token.CASE)
		pat := p.pattern()
		var guard ast.Expr
		if p.match(token.IF) {
			guard = p.expression()
		}
		body := p.block()
		arms = append(arms, ast.MatchArm{Pattern: pat, Guard: guard, Body: body, Sp: p.spanFrom(astart)})
	}
	p.match(token.DEDENT)
	return &ast.Match{StmtBase: sb(p.spanFrom(start)), Subject: subject, Arms: arms}
}

// pattern parses one match-pattern production: wildcard, literal,
// identifier-binding, constructor (positional or named), tuple, or a
// star-rest tail (spec.md §3 Patterns).
func (p *parser) pattern() ast.Pattern {
	start := p.cur()
	if p.check(token.IDENT) && p.cur().Text == "_" {
		p.advance()
		return &ast.WildcardPattern{PatternBase: pb(p.spanFrom(start))}
	}
	if p.check(token.LPAREN) {
		p.advance()
		var elems []ast.Pattern
		for !p.check(token.RPAREN) && p.err == nil {
			elems = append(elems, p.pattern())
			if !p.match(token.COMMA) {
				break
			}
		}
		p.expect(token.RPAREN)
		return &ast.TuplePattern{PatternBase: pb(p.spanFrom(start)), Elems: elems}
	}
	if p.check(token.IDENT) {
		name := p.cur().Text
		if p.peekAt(1).Type == token.LPAREN {
			p.advance()
			p.advance()
			var positional []ast.Pattern
			for !p.check(token.RPAREN) && p.err == nil {
				if p.check(token.STAR) {
					p.advance()
					rn := ""
					if p.check(token.IDENT) {
						rn = p.advance().Text
					}
					positional = append(positional, &ast.StarRestPattern{PatternBase: pb(p.spanFrom(start)), Name: rn})
				} else {
					positional = append(positional, p.pattern())
				}
				if !p.match(token.COMMA) {
					break
				}
			}
			p.expect(token.RPAREN)
			return &ast.CtorPattern{PatternBase: pb(p.spanFrom(start)), Name: name, Positional: positional}
		}
		if p.peekAt(1).Type == token.LBRACE {
			p.advance()
			p.advance()
			var keys []string
			var vals []ast.Pattern
			for !p.check(token.RBRACE) && p.err == nil {
				k := p.expect(token.IDENT).Text
				p.expect(token.COLON)
				keys = append(keys, k)
				vals = append(vals, p.pattern())
				if !p.match(token.COMMA) {
					break
				}
			}
			p.expect(token.RBRACE)
			return &ast.CtorPattern{PatternBase: pb(p.spanFrom(start)), Name: name, NamedKeys: keys, NamedValues: vals}
		}
		// Qualified enum variant: EnumType.Variant or a bare binding.
		p.advance()
		nm := name
		for p.match(token.DOT) {
			nm += "." + p.expect(token.IDENT).Text
		}
		if nm != name {
			if p.check(token.LPAREN) {
				p.advance()
				var positional []ast.Pattern
				for !p.check(token.RPAREN) && p.err == nil {
					positional = append(positional, p.pattern())
					if !p.match(token.COMMA) {
						break
					}
				}
				p.expect(token.RPAREN)
				return &ast.CtorPattern{PatternBase: pb(p.spanFrom(start)), Name: nm, Positional: positional}
			}
			return &ast.CtorPattern{PatternBase: pb(p.spanFrom(start)), Name: nm}
		}
		return &ast.BindPattern{PatternBase: pb(p.spanFrom(start)), Name: name}
	}
	// Literal pattern.
	e := p.unary()
	return &ast.LiteralPattern{PatternBase: pb(p.spanFrom(start)), Value: e}
}

func (p *parser) tryStmt() ast.Stmt {
	start := p.advance()
	body := p.block()
	p.expect(token.EXCEPT)
	hstart := p.cur()
	bind := ""
	if p.check(token.IDENT) {
		bind = p.advance().Text
	} else if p.match(token.AS) {
		bind = p.expect(token.IDENT).Text
	}
	if bind != "" && p.check(token.COMMA) {
		// `except as e` already consumed AS above; nothing more to do.
	}
	hbody := p.block()
	return &ast.Try{
		StmtBase: sb(p.spanFrom(start)),
		Body:     body,
		Handler:  ast.ExceptHandler{BindName: bind, Body: hbody, Sp: p.spanFrom(hstart)},
	}
}

func (p *parser) returnStmt() ast.Stmt {
	start := p.advance()
	var val ast.Expr
	if !p.check(token.NEWLINE) && !p.atEOF() && !p.check(token.DEDENT) {
		val = p.expression()
	}
	p.endOfStmt()
	return &ast.Return{StmtBase: sb(p.spanFrom(start)), Value: val}
}

func (p *parser) assertStmt() ast.Stmt {
	start := p.advance()
	cond := p.expression()
	var msg ast.Expr
	if p.match(token.COMMA) {
		msg = p.expression()
	}
	p.endOfStmt()
	call := &ast.Call{ExprBase: eb(p.spanFrom(start)), Func: &ast.Name{ExprBase: eb(p.spanFrom(start)), Id: "assert"}, Args: []ast.Expr{cond}}
	if msg != nil {
		call.Args = append(call.Args, msg)
	}
	return &ast.ExprStmt{StmtBase: sb(p.spanFrom(start)), X: call}
}

func (p *parser) importStmt() ast.Stmt {
	start := p.advance()
	mod := p.dottedName()
	alias := ""
	if p.match(token.AS) {
		alias = p.expect(token.IDENT).Text
	}
	p.endOfStmt()
	return &ast.Import{StmtBase: sb(p.spanFrom(start)), Module: mod, Alias: alias}
}

func (p *parser) fromImportStmt() ast.Stmt {
	start := p.advance()
	mod := p.dottedName()
	p.expect(token.IMPORT)
	var names []ast.ImportedName
	paren := p.match(token.LPAREN)
	for {
		n := p.expect(token.IDENT).Text
		alias := ""
		if p.match(token.AS) {
			alias = p.expect(token.IDENT).Text
		}
		names = append(names, ast.ImportedName{Name: n, Alias: alias})
		if !p.match(token.COMMA) {
			break
		}
	}
	if paren {
		p.expect(token.RPAREN)
	}
	p.endOfStmt()
	return &ast.FromImport{StmtBase: sb(p.spanFrom(start)), Module: mod, Names: names}
}

func (p *parser) dottedName() string {
	name := p.expect(token.IDENT).Text
	for p.match(token.DOT) {
		name += "." + p.expect(token.IDENT).Text
	}
	return name
}

// annAssignOrConstStmt handles `NAME: Type = value`, including the
// `SCREAMING_NAME: T = v` and `name: Const[T] = v` forms the desugarer
// later turns into constants (spec.md §4.3).
func (p *parser) annAssignOrConstStmt() ast.Stmt {
	start := p.cur()
	target := &ast.Name{ExprBase: eb(p.spanFrom(start)), Id: p.advance().Text}
	p.expect(token.COLON)
	typ := p.typeExpr()
	var val ast.Expr
	if p.match(token.ASSIGN) {
		val = p.expression()
	}
	p.endOfStmt()
	return &ast.AnnAssign{StmtBase: sb(p.spanFrom(start)), Target: target, Type: typ, Value: val}
}

var augOps = map[token.Type]string{
	token.PLUS_EQ: "+=", token.MINUS_EQ: "-=", token.STAR_EQ: "*=", token.SLASH_EQ: "/=",
	token.DSLASH_EQ: "//=", token.PERCENT_EQ: "%=", token.AMP_EQ: "&=", token.VBAR_EQ: "|=",
	token.CARET_EQ: "^=", token.LSHIFT_EQ: "<<=", token.RSHIFT_EQ: ">>=",
}

func (p *parser) exprOrAssignStmt() ast.Stmt {
	start := p.cur()
	first := p.expression()

	if op, ok := augOps[p.cur().Type]; ok {
		p.advance()
		val := p.expression()
		p.endOfStmt()
		return &ast.AugAssign{StmtBase: sb(p.spanFrom(start)), Target: first, Op: op, Value: val}
	}

	if p.check(token.ASSIGN) {
		targets := []ast.Expr{first}
		var val ast.Expr
		for p.match(token.ASSIGN) {
			val = p.expression()
			if p.check(token.ASSIGN) {
				targets = append(targets, val)
			}
		}
		p.endOfStmt()
		return &ast.Assign{StmtBase: sb(p.spanFrom(start)), Targets: targets, Value: val}
	}

	p.endOfStmt()
	return &ast.ExprStmt{StmtBase: sb(p.spanFrom(start)), X: first}
}
