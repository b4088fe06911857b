package parser

import (
	"strconv"
	"strings"

	"github.com/quichelang/quiche/internal/ast"
	"github.com/quichelang/quiche/internal/lexer"
	"github.com/quichelang/quiche/internal/token"
)

// Precedence levels, low to high, matching spec.md §4.2's precedence
// table. `or` binds loosest; atoms bind tightest.
const (
	precOr = iota + 1
	precAnd
	precNot
	precCompare
	precBitOr
	precBitXor
	precBitAnd
	precShift
	precAdd
	precMul
)

var binPrec = map[token.Type]int{
	token.VBAR:   precBitOr,
	token.CARET:  precBitXor,
	token.AMP:    precBitAnd,
	token.LSHIFT: precShift, token.RSHIFT: precShift,
	token.PLUS: precAdd, token.MINUS: precAdd,
	token.STAR: precMul, token.SLASH: precMul, token.DSLASH: precMul, token.PERCENT: precMul,
}

var compareOps = map[token.Type]string{
	token.EQ: "==", token.NEQ: "!=", token.LT: "<", token.LTE: "<=",
	token.GT: ">", token.GTE: ">=", token.IN: "in", token.IS: "is",
}

// expression is the entry point for a full expression, including
// lambdas and the `x |> f(args)` pipe form (spec.md §4.2).
func (p *parser) expression() ast.Expr {
	e := p.orExpr()
	if p.check(token.PIPE_GT) {
		return p.pipeChain(e)
	}
	if p.check(token.IF) {
		return p.ifExp(e)
	}
	return e
}

// pipeChain lowers `x |> f(a) |> g(b)` left-associatively at parse time
// into plain Call nodes; the desugarer (spec.md §4.3 S3) would otherwise
// have to do this, but folding it here keeps downstream stages simpler
// and the AST already expression-shaped for this form.
func (p *parser) pipeChain(first ast.Expr) ast.Expr {
	cur := first
	for p.match(token.PIPE_GT) {
		start := p.cur()
		callee := p.postfix(p.primary())
		call, ok := callee.(*ast.Call)
		if !ok {
			call = &ast.Call{ExprBase: eb(p.spanFrom(start)), Func: callee}
		}
		call.Args = append([]ast.Expr{cur}, call.Args...)
		cur = call
	}
	return cur
}

func (p *parser) ifExp(thenVal ast.Expr) ast.Expr {
	start := p.cur()
	p.advance() // 'if'
	cond := p.orExpr()
	p.expect(token.ELSE)
	elseVal := p.expression()
	return &ast.IfExp{ExprBase: eb(p.spanFrom(start)), Cond: cond, Then: thenVal, Else: elseVal}
}

func (p *parser) orExpr() ast.Expr {
	start := p.cur()
	first := p.andExpr()
	if !p.check(token.OR) {
		return first
	}
	vals := []ast.Expr{first}
	for p.match(token.OR) {
		vals = append(vals, p.andExpr())
	}
	return &ast.BoolOp{ExprBase: eb(p.spanFrom(start)), Op: "or", Values: vals}
}

func (p *parser) andExpr() ast.Expr {
	start := p.cur()
	first := p.notExpr()
	if !p.check(token.AND) {
		return first
	}
	vals := []ast.Expr{first}
	for p.match(token.AND) {
		vals = append(vals, p.notExpr())
	}
	return &ast.BoolOp{ExprBase: eb(p.spanFrom(start)), Op: "and", Values: vals}
}

func (p *parser) notExpr() ast.Expr {
	if p.check(token.NOT) {
		start := p.advance()
		x := p.notExpr()
		return &ast.UnaryOp{ExprBase: eb(p.spanFrom(start)), Op: "not", X: x}
	}
	return p.compareExpr()
}

// compareExpr chain-collapses `a < b <= c` into one Compare node
// (spec.md §4.2).
func (p *parser) compareExpr() ast.Expr {
	start := p.cur()
	first := p.binaryExpr(precBitOr)
	var ops []string
	operands := []ast.Expr{first}
	for {
		if p.check(token.NOT) && p.peekAt(1).Type == token.IN {
			p.advance()
			p.advance()
			ops = append(ops, "not in")
			operands = append(operands, p.binaryExpr(precBitOr))
			continue
		}
		if p.check(token.IS) && p.peekAt(1).Type == token.NOT {
			p.advance()
			p.advance()
			ops = append(ops, "is not")
			operands = append(operands, p.binaryExpr(precBitOr))
			continue
		}
		op, ok := compareOps[p.cur().Type]
		if !ok {
			break
		}
		p.advance()
		ops = append(ops, op)
		operands = append(operands, p.binaryExpr(precBitOr))
	}
	if len(ops) == 0 {
		return first
	}
	return &ast.Compare{ExprBase: eb(p.spanFrom(start)), Ops: ops, Operands: operands}
}

// binaryExpr implements precedence-climbing over the bitwise/arithmetic
// operators (spec.md §4.2 precedence table), left-associative throughout
// this band.
func (p *parser) binaryExpr(minPrec int) ast.Expr {
	start := p.cur()
	left := p.unary()
	for {
		prec, ok := binPrec[p.cur().Type]
		if !ok || prec < minPrec {
			break
		}
		opTok := p.advance()
		right := p.binaryExpr(prec + 1)
		left = &ast.BinOp{ExprBase: eb(p.spanFrom(start)), Op: opTok.Type.String(), Left: left, Right: right}
	}
	return left
}

// unary handles prefix `+ - ~` below power, which is right-associative
// and binds tighter than unary per spec.md §4.2.
func (p *parser) unary() ast.Expr {
	switch p.cur().Type {
	case token.PLUS, token.MINUS, token.TILDE:
		start := p.advance()
		x := p.unary()
		return &ast.UnaryOp{ExprBase: eb(p.spanFrom(start)), Op: start.Type.String(), X: x}
	}
	return p.power()
}

func (p *parser) power() ast.Expr {
	start := p.cur()
	base := p.postfix(p.primary())
	if p.match(token.DSTAR) {
		exp := p.unary() // right-associative
		return &ast.BinOp{ExprBase: eb(p.spanFrom(start)), Op: "**", Left: base, Right: exp}
	}
	return base
}

// postfix chains call/attribute/subscript suffixes onto an atom
// (spec.md §4.2 precedence: postfix binds tighter than power and unary,
// looser than an atom).
func (p *parser) postfix(x ast.Expr) ast.Expr {
	start := p.cur()
	for {
		switch {
		case p.check(token.DOT):
			p.advance()
			name := p.expect(token.IDENT).Text
			x = &ast.Attribute{ExprBase: eb(p.spanFrom(start)), Value: x, Attr: name}
		case p.check(token.LPAREN):
			x = p.callSuffix(x, start)
		case p.check(token.LBRACKET):
			x = p.subscriptOrGenericSuffix(x, start)
		default:
			return x
		}
	}
}

func (p *parser) callSuffix(fn ast.Expr, start token.Token) ast.Expr {
	p.advance() // '('
	var args []ast.Expr
	kwargs := map[string]ast.Expr{}
	var order []string
	for !p.check(token.RPAREN) && p.err == nil {
		if p.check(token.STAR) {
			sstart := p.advance()
			args = append(args, &ast.Starred{ExprBase: eb(p.spanFrom(sstart)), Value: p.expression()})
		} else if p.check(token.IDENT) && p.peekAt(1).Type == token.ASSIGN {
			key := p.advance().Text
			p.advance()
			kwargs[key] = p.expression()
			order = append(order, key)
		} else {
			args = append(args, p.expression())
		}
		if !p.match(token.COMMA) {
			break
		}
	}
	p.expect(token.RPAREN)
	return &ast.Call{ExprBase: eb(p.spanFrom(start)), Func: fn, Args: args, Kwargs: kwargs, KwargOrder: order}
}

// isTypeLikeBase reports whether x looks like a type name rather than a
// value — a bare capitalized identifier — the same uppercase heuristic
// codegen's attribute-separator resolution falls back on when a name
// isn't bound in scope.
func isTypeLikeBase(x ast.Expr) bool {
	name, ok := x.(*ast.Name)
	if !ok || name.Id == "" {
		return false
	}
	r := name.Id[0]
	return r >= 'A' && r <= 'Z'
}

// subscriptOrGenericSuffix resolves the `[` ambiguity: in type context
// (after `:`, `->`, or within a type expression) it is a generic
// instantiation wrapped as a Call on the base type's name for codegen's
// turbo-fish handling. Outside type context it is ordinarily a
// subscript/slice, except when the base is a bare capitalized name —
// `Stack[Int](5)` is a generic constructor call in expression position
// (spec.md §4.5 "Turbo-fish"), so it gets the same nested-Call shape.
func (p *parser) subscriptOrGenericSuffix(x ast.Expr, start token.Token) ast.Expr {
	p.advance() // '['
	if p.inTypeContext || isTypeLikeBase(x) {
		var args []ast.Expr
		for !p.check(token.RBRACKET) && p.err == nil {
			args = append(args, p.typeExpr())
			if !p.match(token.COMMA) {
				break
			}
		}
		p.expect(token.RBRACKET)
		return &ast.Call{ExprBase: eb(p.spanFrom(start)), Func: x, Args: args}
	}

	// Slice or subscript: a[i], a[i:j], a[i:], a[:j], a[:].
	if p.check(token.COLON) {
		p.advance()
		var hi ast.Expr
		if !p.check(token.RBRACKET) {
			hi = p.expression()
		}
		p.expect(token.RBRACKET)
		sl := &ast.Slice{ExprBase: eb(p.spanFrom(start)), Lo: nil, Hi: hi}
		return &ast.Subscript{ExprBase: eb(p.spanFrom(start)), Value: x, Index: sl}
	}
	idx := p.expression()
	if p.match(token.COLON) {
		var hi ast.Expr
		if !p.check(token.RBRACKET) {
			hi = p.expression()
		}
		p.expect(token.RBRACKET)
		sl := &ast.Slice{ExprBase: eb(p.spanFrom(start)), Lo: idx, Hi: hi}
		return &ast.Subscript{ExprBase: eb(p.spanFrom(start)), Value: x, Index: sl}
	}
	p.expect(token.RBRACKET)
	return &ast.Subscript{ExprBase: eb(p.spanFrom(start)), Value: x, Index: idx}
}

// primary parses one atom: literal, name, parenthesized expr, list/dict/
// set (with comprehension support), lambda, or f-string (spec.md §4.2).
func (p *parser) primary() ast.Expr {
	start := p.cur()
	switch p.cur().Type {
	case token.INT:
		t := p.advance()
		return &ast.NumberLiteral{ExprBase: eb(p.spanFrom(start)), Kind: ast.NumInt, Text: t.Text}
	case token.FLOAT:
		t := p.advance()
		return &ast.NumberLiteral{ExprBase: eb(p.spanFrom(start)), Kind: ast.NumFloat, Text: t.Text}
	case token.STRING:
		t := p.advance()
		return &ast.StringLiteral{ExprBase: eb(p.spanFrom(start)), Value: unescapeString(t.Text)}
	case token.BYTES:
		t := p.advance()
		return &ast.StringLiteral{ExprBase: eb(p.spanFrom(start)), Value: unescapeString(t.Text), IsBytes: true}
	case token.FSTRING_START:
		return p.fstring()
	case token.TRUE:
		p.advance()
		return &ast.BooleanLiteral{ExprBase: eb(p.spanFrom(start)), Value: true}
	case token.FALSE:
		p.advance()
		return &ast.BooleanLiteral{ExprBase: eb(p.spanFrom(start)), Value: false}
	case token.NONE:
		p.advance()
		return &ast.NoneLiteral{ExprBase: eb(p.spanFrom(start))}
	case token.IDENT:
		t := p.advance()
		return &ast.Name{ExprBase: eb(p.spanFrom(start)), Id: t.Text}
	case token.LPAREN:
		return p.parenOrTuple(start)
	case token.LBRACKET:
		return p.listOrComprehension(start)
	case token.LBRACE:
		return p.dictOrSetOrComprehension(start)
	case token.LAMBDA:
		return p.lambda(start)
	case token.VBAR:
		return p.pipeLambda(start)
	case token.STAR:
		p.advance()
		return &ast.Starred{ExprBase: eb(p.spanFrom(start)), Value: p.unary()}
	}
	p.fail("expression", p.cur())
	p.advance()
	return &ast.NoneLiteral{ExprBase: eb(p.spanFrom(start))}
}

func unescapeString(raw string) string {
	s, err := strconv.Unquote(`"` + strings.ReplaceAll(raw, `"`, `\"`) + `"`)
	if err != nil {
		return raw
	}
	return s
}

func (p *parser) parenOrTuple(start token.Token) ast.Expr {
	p.advance() // '('
	if p.match(token.RPAREN) {
		return &ast.Tuple{ExprBase: eb(p.spanFrom(start))}
	}
	first := p.expression()
	if !p.check(token.COMMA) {
		p.expect(token.RPAREN)
		return first
	}
	elts := []ast.Expr{first}
	for p.match(token.COMMA) {
		if p.check(token.RPAREN) {
			break
		}
		elts = append(elts, p.expression())
	}
	p.expect(token.RPAREN)
	return &ast.Tuple{ExprBase: eb(p.spanFrom(start)), Elts: elts}
}

func (p *parser) listOrComprehension(start token.Token) ast.Expr {
	p.advance() // '['
	if p.match(token.RBRACKET) {
		return &ast.List{ExprBase: eb(p.spanFrom(start))}
	}
	first := p.expression()
	if p.check(token.FOR) {
		return p.finishComprehension(start, ast.CompList, nil, first)
	}
	elts := []ast.Expr{first}
	for p.match(token.COMMA) {
		if p.check(token.RBRACKET) {
			break
		}
		elts = append(elts, p.expression())
	}
	p.expect(token.RBRACKET)
	return &ast.List{ExprBase: eb(p.spanFrom(start)), Elts: elts}
}

func (p *parser) dictOrSetOrComprehension(start token.Token) ast.Expr {
	p.advance() // '{'
	if p.match(token.RBRACE) {
		return &ast.Dict{ExprBase: eb(p.spanFrom(start))}
	}
	first := p.expression()
	if p.check(token.COLON) {
		p.advance()
		val := p.expression()
		if p.check(token.FOR) {
			return p.finishComprehension(start, ast.CompDict, first, val)
		}
		entries := []ast.DictEntry{{Key: first, Value: val}}
		for p.match(token.COMMA) {
			if p.check(token.RBRACE) {
				break
			}
			k := p.expression()
			p.expect(token.COLON)
			v := p.expression()
			entries = append(entries, ast.DictEntry{Key: k, Value: v})
		}
		p.expect(token.RBRACE)
		return &ast.Dict{ExprBase: eb(p.spanFrom(start)), Entries: entries}
	}
	if p.check(token.FOR) {
		return p.finishComprehension(start, ast.CompSet, nil, first)
	}
	elts := []ast.Expr{first}
	for p.match(token.COMMA) {
		if p.check(token.RBRACE) {
			break
		}
		elts = append(elts, p.expression())
	}
	p.expect(token.RBRACE)
	return &ast.Set{ExprBase: eb(p.spanFrom(start)), Elts: elts}
}

func (p *parser) finishComprehension(start token.Token, kind ast.ComprehensionKind, key, element ast.Expr) ast.Expr {
	p.expect(token.FOR)
	target := p.primary()
	p.expect(token.IN)
	iter := p.orExpr()
	var ifs []ast.Expr
	for p.match(token.IF) {
		ifs = append(ifs, p.orExpr())
	}
	var closeTok token.Type = token.RBRACKET
	if kind != ast.CompList {
		closeTok = token.RBRACE
	}
	p.expect(closeTok)
	return &ast.Comprehension{
		ExprBase: eb(p.spanFrom(start)), Kind: kind, Key: key, Element: element,
		Target: target, Iter: iter, Ifs: ifs,
	}
}

// lambda accepts `lambda x, y: body`; pipeLambda accepts the `|x, y| body`
// / `|x: T, y: T| body` surface forms (spec.md §4.2).
func (p *parser) lambda(start token.Token) ast.Expr {
	p.advance() // 'lambda'
	var params []ast.Param
	for !p.check(token.COLON) && p.err == nil {
		name := p.expect(token.IDENT).Text
		params = append(params, ast.Param{Name: name})
		if !p.match(token.COMMA) {
			break
		}
	}
	p.expect(token.COLON)
	body := p.expression()
	return &ast.Lambda{ExprBase: eb(p.spanFrom(start)), Params: params, Body: body}
}

func (p *parser) pipeLambda(start token.Token) ast.Expr {
	p.advance() // '|'
	var params []ast.Param
	for !p.check(token.VBAR) && p.err == nil {
		name := p.expect(token.IDENT).Text
		var typ ast.Expr
		if p.match(token.COLON) {
			typ = p.typeExpr()
		}
		params = append(params, ast.Param{Name: name, Type: typ})
		if !p.match(token.COMMA) {
			break
		}
	}
	p.expect(token.VBAR)
	body := p.expression()
	return &ast.Lambda{ExprBase: eb(p.spanFrom(start)), Params: params, Body: body}
}

// fstring reassembles the lexer's FSTRING_START/MID/END token sequence
// into an FString node, re-parsing each embedded expression text with a
// fresh parser instance constrained to expression position
// (spec.md §4.1, §4.2).
func (p *parser) fstring() ast.Expr {
	start := p.advance() // FSTRING_START
	parts := []ast.FStringPart{{Literal: start.Text}}
	for {
		if !p.check(token.IDENT) {
			break
		}
		// The lexer queues an IDENT token carrying the raw embedded
		// expression text, followed by an FSTRING_MID or FSTRING_END.
		exprText := p.advance().Text
		sub, err := parseEmbeddedExpr(exprText)
		if err != nil {
			p.err = err
			return &ast.FString{ExprBase: eb(p.spanFrom(start)), Parts: parts}
		}
		parts[len(parts)-1].Expr = sub
		if p.check(token.FSTRING_MID) {
			t := p.advance()
			parts = append(parts, ast.FStringPart{Literal: t.Text})
			continue
		}
		if p.check(token.FSTRING_END) {
			t := p.advance()
			parts = append(parts, ast.FStringPart{Literal: t.Text})
			break
		}
		break
	}
	return &ast.FString{ExprBase: eb(p.spanFrom(start)), Parts: parts}
}

func parseEmbeddedExpr(text string) (ast.Expr, error) {
	lx := lexer.New(text)
	toks, err := lx.TokenizeAll()
	if err != nil {
		return nil, err
	}
	sub := &parser{toks: toks}
	e := sub.expression()
	if sub.err != nil {
		return nil, sub.err
	}
	return e, nil
}
