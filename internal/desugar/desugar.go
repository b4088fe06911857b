// Package desugar lowers high-level Quiche surface forms into the
// restricted core that the code generator consumes (spec.md §4.3):
// f-strings become format calls, comprehensions become iterator
// chains, `assert` becomes a conditional runtime-failure call, and
// `type`/`class` surface forms are classified into struct/enum/trait
// declarations. Slices stay Slice nodes for codegen to emit as ranges,
// and pipes arrive already folded into nested calls by the parser; this
// pass does not rewrite either.
package desugar

import (
	"fmt"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/quichelang/quiche/internal/ast"
	"github.com/quichelang/quiche/internal/diag"
)

// knownDecorators is consulted when rejecting an unrecognized decorator,
// to produce a fuzzy "did you mean" suggestion (SPEC_FULL.md §2.2).
var knownDecorators = []string{"derive", "impl", "implement", "extern", "enum", "macro"}

// Run lowers a parsed Module into its desugared form. It returns a new
// Module; sub-trees that need no rewriting are reused by reference, per
// spec.md §3's "functionally fresh, may alias" lifecycle note.
func Run(mod *ast.Module) (*ast.Module, error) {
	d := &desugarer{}
	out := ast.NewModule()
	out.Imports = mod.Imports
	out.EmittedTypes = mod.EmittedTypes
	for _, s := range mod.Stmts {
		ls, err := d.stmt(s)
		if err != nil {
			return nil, err
		}
		out.Stmts = append(out.Stmts, ls...)
	}
	return out, nil
}

// depth counts enclosing function bodies; 0 means true module scope.
// SCREAMING_NAME const lowering only fires at depth 0 — see assign/
// annAssign below — since sema has no binding path for a function-local
// ConstDef and codegen has no local-item rendering for one.
type desugarer struct {
	depth int
}

func fail(span diag.Span, reason string) error {
	return &diag.DesugarError{Span: span, Reason: reason}
}

func suggestDecorator(name string) string {
	matches := fuzzy.RankFindFold(name, knownDecorators)
	if len(matches) == 0 {
		return ""
	}
	return matches[0].Target
}

// stmt lowers one statement, possibly expanding it into several (e.g. a
// `class X(Struct): ...` becomes a TypeDef followed by its method
// FunctionDefs, unchanged apart from their own lowering).
func (d *desugarer) stmt(s ast.Stmt) ([]ast.Stmt, error) {
	switch n := s.(type) {
	case *ast.FunctionDef:
		return d.functionDef(n)
	case *ast.ClassDef:
		return d.classDef(n)
	case *ast.TypeDef:
		return d.typeDef(n)
	case *ast.AnnAssign:
		return d.annAssign(n)
	case *ast.Assign:
		return d.assign(n)
	case *ast.If:
		return d.ifStmt(n)
	case *ast.While:
		return d.whileStmt(n)
	case *ast.For:
		return d.forStmt(n)
	case *ast.Match:
		return d.matchStmt(n)
	case *ast.Try:
		return d.tryStmt(n)
	case *ast.Return:
		v, err := d.exprOrNil(n.Value)
		if err != nil {
			return nil, err
		}
		return []ast.Stmt{&ast.Return{StmtBase: n.StmtBase, Value: v}}, nil
	case *ast.ExprStmt:
		if call, ok := n.X.(*ast.Call); ok {
			if fn, ok := call.Func.(*ast.Name); ok && fn.Id == "assert" {
				return d.assertStmt(n, call)
			}
		}
		v, err := d.expr(n.X)
		if err != nil {
			return nil, err
		}
		return []ast.Stmt{&ast.ExprStmt{StmtBase: n.StmtBase, X: v}}, nil
	default:
		return []ast.Stmt{s}, nil
	}
}

func (d *desugarer) stmts(in []ast.Stmt) ([]ast.Stmt, error) {
	var out []ast.Stmt
	for _, s := range in {
		ls, err := d.stmt(s)
		if err != nil {
			return nil, err
		}
		out = append(out, ls...)
	}
	return out, nil
}

func (d *desugarer) exprOrNil(e ast.Expr) (ast.Expr, error) {
	if e == nil {
		return nil, nil
	}
	return d.expr(e)
}

// functionDef rejects default arguments per policy (spec.md §7) and
// recurses into the body and decorators.
func (d *desugarer) functionDef(n *ast.FunctionDef) ([]ast.Stmt, error) {
	for _, p := range n.Params {
		if p.Default != nil {
			return nil, fail(p.DefaultSpan, "default function arguments are not supported")
		}
	}
	for _, dec := range n.Decorators {
		if err := checkDecoratorName(dec); err != nil {
			return nil, err
		}
	}
	d.depth++
	body, err := d.stmts(n.Body)
	d.depth--
	if err != nil {
		return nil, err
	}
	out := *n
	out.Body = body
	return []ast.Stmt{&out}, nil
}

func checkDecoratorName(dec ast.Decorator) error {
	switch dec.Name {
	case "derive", "impl", "implement", "extern", "enum":
		return nil
	case "macro":
		return fail(dec.Sp, "@macro is reserved; macro frontends are not implemented")
	default:
		return &diag.DesugarError{
			Span:       dec.Sp,
			Reason:     fmt.Sprintf("unrecognized decorator @%s", dec.Name),
			Suggestion: suggestDecorator(dec.Name),
		}
	}
}

// classDef lowers the legacy `class X(Struct|Enum|Trait): ...` surface
// into the corresponding TypeDef, or into trait-impl method bindings for
// `@impl(T)` (spec.md §4.3, §9).
func (d *desugarer) classDef(n *ast.ClassDef) ([]ast.Stmt, error) {
	for _, dec := range n.Decorators {
		if err := checkDecoratorName(dec); err != nil {
			return nil, err
		}
	}

	if len(n.Bases) == 1 {
		switch n.Bases[0] {
		case "Struct":
			return d.classAsStruct(n)
		case "Enum":
			return d.classAsEnum(n)
		case "Trait":
			return d.classAsTrait(n)
		}
	}
	if len(n.Bases) > 1 {
		return nil, fail(n.Span(), "multiple inheritance is not supported; use @impl to compose trait implementations")
	}

	// A plain `class X: ...` with no recognized base and an @impl/@implement
	// decorator is lowered into an impl block tying its methods to a trait.
	for _, dec := range n.Decorators {
		if dec.Name == "impl" || dec.Name == "implement" {
			body, err := d.stmts(n.Body)
			if err != nil {
				return nil, err
			}
			out := *n
			out.Body = body
			return []ast.Stmt{&out}, nil
		}
	}

	if len(n.Bases) == 0 {
		return nil, fail(n.Span(), "class without a recognized base (Struct, Enum, Trait) or @impl decorator")
	}
	return nil, fail(n.Span(), fmt.Sprintf("unsupported class base %q; inheritance is not supported", n.Bases[0]))
}

func (d *desugarer) classAsStruct(n *ast.ClassDef) ([]ast.Stmt, error) {
	var fields []ast.Field
	var methods []ast.Stmt
	for _, s := range n.Body {
		switch m := s.(type) {
		case *ast.AnnAssign:
			name, ok := m.Target.(*ast.Name)
			if !ok {
				return nil, fail(m.Span(), "struct field must be a plain name")
			}
			fields = append(fields, ast.Field{Name: name.Id, Type: m.Type})
		case *ast.FunctionDef:
			lowered, err := d.functionDef(m)
			if err != nil {
				return nil, err
			}
			methods = append(methods, lowered...)
		case *ast.Pass:
			// empty struct body
		default:
			return nil, fail(s.Span(), "unsupported member in struct class body")
		}
	}
	td := &ast.TypeDef{StmtBase: n.StmtBase, Name: n.Name, TypeParams: n.TypeParams, Fields: fields, Decorators: n.Decorators}
	return append([]ast.Stmt{td}, methods...), nil
}

func (d *desugarer) classAsEnum(n *ast.ClassDef) ([]ast.Stmt, error) {
	var variants []ast.Variant
	var methods []ast.Stmt
	for _, s := range n.Body {
		switch m := s.(type) {
		case *ast.Assign:
			if len(m.Targets) != 1 {
				return nil, fail(m.Span(), "enum variant assignment must have one target")
			}
			name, ok := m.Targets[0].(*ast.Name)
			if !ok {
				return nil, fail(m.Span(), "enum variant must be a plain name")
			}
			variants = append(variants, ast.Variant{Name: name.Id})
		case *ast.FunctionDef:
			lowered, err := d.functionDef(m)
			if err != nil {
				return nil, err
			}
			methods = append(methods, lowered...)
		case *ast.Pass:
		default:
			return nil, fail(s.Span(), "unsupported member in enum class body")
		}
	}
	td := &ast.TypeDef{StmtBase: n.StmtBase, Name: n.Name, TypeParams: n.TypeParams, Variants: variants, Decorators: n.Decorators}
	return append([]ast.Stmt{td}, methods...), nil
}

func (d *desugarer) classAsTrait(n *ast.ClassDef) ([]ast.Stmt, error) {
	body, err := d.stmts(n.Body)
	if err != nil {
		return nil, err
	}
	out := *n
	out.Body = body
	return []ast.Stmt{&out}, nil
}

// typeDef lowers `type X = A | B | C` into an enum with synthetic
// variant names (spec.md §4.3). `type X: ...` bodies arrive already
// split into Fields/Variants by the parser and pass through unchanged.
func (d *desugarer) typeDef(n *ast.TypeDef) ([]ast.Stmt, error) {
	if len(n.Union) > 0 {
		var variants []ast.Variant
		for _, u := range n.Union {
			name, ok := u.(*ast.Name)
			if !ok {
				return nil, fail(u.Span(), "union member must be a bare type name")
			}
			variants = append(variants, ast.Variant{Name: name.Id})
		}
		return []ast.Stmt{&ast.TypeDef{StmtBase: n.StmtBase, Name: n.Name, TypeParams: n.TypeParams, Variants: variants, Decorators: n.Decorators}}, nil
	}
	return []ast.Stmt{n}, nil
}

// isConstName reports whether a module-level assignment target's name
// is SCREAMING_CASE, which lowers it to a const declaration (spec.md
// §4.3); the explicit `Const[T]` annotation form is isConstAnnotation.
func isConstName(name string) bool {
	if name == "" {
		return false
	}
	sawLetter := false
	for _, r := range name {
		if r >= 'a' && r <= 'z' {
			return false
		}
		if r >= 'A' && r <= 'Z' {
			sawLetter = true
		}
	}
	return sawLetter
}

func isConstAnnotation(t ast.Expr) bool {
	call, ok := t.(*ast.Call)
	if !ok {
		return false
	}
	name, ok := call.Func.(*ast.Name)
	return ok && name.Id == "Const"
}

func (d *desugarer) annAssign(n *ast.AnnAssign) ([]ast.Stmt, error) {
	name, ok := n.Target.(*ast.Name)
	val, err := d.exprOrNil(n.Value)
	if err != nil {
		return nil, err
	}
	if d.depth == 0 && ok && (isConstName(name.Id) || isConstAnnotation(n.Type)) {
		typ := n.Type
		if isConstAnnotation(typ) {
			typ = typ.(*ast.Call).Args[0]
		}
		return []ast.Stmt{&ast.ConstDef{StmtBase: n.StmtBase, Name: name.Id, Type: typ, Value: val}}, nil
	}
	return []ast.Stmt{&ast.AnnAssign{StmtBase: n.StmtBase, Target: n.Target, Type: n.Type, Value: val}}, nil
}

func (d *desugarer) assign(n *ast.Assign) ([]ast.Stmt, error) {
	val, err := d.expr(n.Value)
	if err != nil {
		return nil, err
	}
	if d.depth == 0 && len(n.Targets) == 1 {
		if name, ok := n.Targets[0].(*ast.Name); ok && isConstName(name.Id) {
			// SCREAMING_NAME = v is only lowered to a const declaration
			// at module scope; inside a function it stays a plain
			// (uppercase-named) local assignment, since sema has no
			// function-scope binding path for ConstDef and codegen
			// has no local-item rendering for one.
			return []ast.Stmt{&ast.ConstDef{StmtBase: n.StmtBase, Name: name.Id, Value: val}}, nil
		}
	}
	return []ast.Stmt{&ast.Assign{StmtBase: n.StmtBase, Targets: n.Targets, Value: val}}, nil
}

// assertStmt lowers `assert cond, msg` into a conditional call to
// runtime failure with message (spec.md §4.3): `if !(cond) { panic(msg) }`.
// The parser already folds the statement into a bare Call to "assert";
// this is the one callee name the desugarer special-cases by hand.
func (d *desugarer) assertStmt(orig *ast.ExprStmt, call *ast.Call) ([]ast.Stmt, error) {
	cond, err := d.expr(call.Args[0])
	if err != nil {
		return nil, err
	}
	var msg ast.Expr
	if len(call.Args) > 1 {
		msg, err = d.expr(call.Args[1])
		if err != nil {
			return nil, err
		}
	} else {
		msg = &ast.StringLiteral{ExprBase: call.ExprBase, Value: "assertion failed"}
	}
	notCond := &ast.UnaryOp{ExprBase: call.ExprBase, Op: "not", X: cond}
	panicCall := &ast.Call{ExprBase: call.ExprBase, Func: &ast.Name{ExprBase: call.ExprBase, Id: "panic"}, Args: []ast.Expr{msg}}
	body := []ast.Stmt{&ast.ExprStmt{StmtBase: orig.StmtBase, X: panicCall}}
	return []ast.Stmt{&ast.If{StmtBase: orig.StmtBase, Cond: notCond, Body: body}}, nil
}

func (d *desugarer) ifStmt(n *ast.If) ([]ast.Stmt, error) {
	cond, err := d.expr(n.Cond)
	if err != nil {
		return nil, err
	}
	body, err := d.stmts(n.Body)
	if err != nil {
		return nil, err
	}
	var elifs []ast.ElifClause
	for _, e := range n.Elifs {
		c, err := d.expr(e.Cond)
		if err != nil {
			return nil, err
		}
		b, err := d.stmts(e.Body)
		if err != nil {
			return nil, err
		}
		elifs = append(elifs, ast.ElifClause{Cond: c, Body: b})
	}
	var elseBody []ast.Stmt
	if n.Else != nil {
		elseBody, err = d.stmts(n.Else)
		if err != nil {
			return nil, err
		}
	}
	return []ast.Stmt{&ast.If{StmtBase: n.StmtBase, Cond: cond, Body: body, Elifs: elifs, Else: elseBody}}, nil
}

func (d *desugarer) whileStmt(n *ast.While) ([]ast.Stmt, error) {
	cond, err := d.expr(n.Cond)
	if err != nil {
		return nil, err
	}
	body, err := d.stmts(n.Body)
	if err != nil {
		return nil, err
	}
	return []ast.Stmt{&ast.While{StmtBase: n.StmtBase, Cond: cond, Body: body}}, nil
}

func (d *desugarer) forStmt(n *ast.For) ([]ast.Stmt, error) {
	iter, err := d.expr(n.Iter)
	if err != nil {
		return nil, err
	}
	body, err := d.stmts(n.Body)
	if err != nil {
		return nil, err
	}
	return []ast.Stmt{&ast.For{StmtBase: n.StmtBase, Target: n.Target, Iter: iter, Body: body}}, nil
}

// matchStmt desugars pattern guards and bodies; exhaustiveness
// (spec.md I4) is checked later by codegen, which has access to the
// symbol table's knowledge of closed sums.
func (d *desugarer) matchStmt(n *ast.Match) ([]ast.Stmt, error) {
	subject, err := d.expr(n.Subject)
	if err != nil {
		return nil, err
	}
	var arms []ast.MatchArm
	for _, a := range n.Arms {
		var guard ast.Expr
		if a.Guard != nil {
			guard, err = d.expr(a.Guard)
			if err != nil {
				return nil, err
			}
		}
		body, err := d.stmts(a.Body)
		if err != nil {
			return nil, err
		}
		arms = append(arms, ast.MatchArm{Pattern: a.Pattern, Guard: guard, Body: body, Sp: a.Sp})
	}
	return []ast.Stmt{&ast.Match{StmtBase: n.StmtBase, Subject: subject, Arms: arms}}, nil
}

// tryStmt lowers `try/except` into itself; the shape is already the
// restricted core form codegen expects (a body plus one handler). The
// actual "scoped error-catching expression" rewrite happens in codegen's
// emitTry (spec.md §4.3 "try/except").
func (d *desugarer) tryStmt(n *ast.Try) ([]ast.Stmt, error) {
	body, err := d.stmts(n.Body)
	if err != nil {
		return nil, err
	}
	hbody, err := d.stmts(n.Handler.Body)
	if err != nil {
		return nil, err
	}
	return []ast.Stmt{&ast.Try{
		StmtBase: n.StmtBase,
		Body:     body,
		Handler:  ast.ExceptHandler{BindName: n.Handler.BindName, Body: hbody, Sp: n.Handler.Sp},
	}}, nil
}

// expr lowers an expression bottom-up: f-strings become a literal
// template plus argument list (represented here as a Call to
// `format`), comprehensions become iterator
// chains, and slices remain Slice nodes for codegen to emit as ranges.
func (d *desugarer) expr(e ast.Expr) (ast.Expr, error) {
	switch n := e.(type) {
	case *ast.FString:
		return d.fstring(n)
	case *ast.Comprehension:
		return d.comprehension(n)
	case *ast.BinOp:
		l, err := d.expr(n.Left)
		if err != nil {
			return nil, err
		}
		r, err := d.expr(n.Right)
		if err != nil {
			return nil, err
		}
		return &ast.BinOp{ExprBase: n.ExprBase, Op: n.Op, Left: l, Right: r}, nil
	case *ast.UnaryOp:
		x, err := d.expr(n.X)
		if err != nil {
			return nil, err
		}
		return &ast.UnaryOp{ExprBase: n.ExprBase, Op: n.Op, X: x}, nil
	case *ast.BoolOp:
		vals, err := d.exprList(n.Values)
		if err != nil {
			return nil, err
		}
		return &ast.BoolOp{ExprBase: n.ExprBase, Op: n.Op, Values: vals}, nil
	case *ast.Compare:
		ops, err := d.exprList(n.Operands)
		if err != nil {
			return nil, err
		}
		return &ast.Compare{ExprBase: n.ExprBase, Ops: n.Ops, Operands: ops}, nil
	case *ast.Call:
		fn, err := d.expr(n.Func)
		if err != nil {
			return nil, err
		}
		args, err := d.exprList(n.Args)
		if err != nil {
			return nil, err
		}
		kwargs := map[string]ast.Expr{}
		for k, v := range n.Kwargs {
			lv, err := d.expr(v)
			if err != nil {
				return nil, err
			}
			kwargs[k] = lv
		}
		return &ast.Call{ExprBase: n.ExprBase, Func: fn, Args: args, Kwargs: kwargs, KwargOrder: n.KwargOrder}, nil
	case *ast.Attribute:
		v, err := d.expr(n.Value)
		if err != nil {
			return nil, err
		}
		return &ast.Attribute{ExprBase: n.ExprBase, Value: v, Attr: n.Attr}, nil
	case *ast.Subscript:
		v, err := d.expr(n.Value)
		if err != nil {
			return nil, err
		}
		idx, err := d.expr(n.Index)
		if err != nil {
			return nil, err
		}
		return &ast.Subscript{ExprBase: n.ExprBase, Value: v, Index: idx}, nil
	case *ast.Slice:
		lo, err := d.exprOrNil(n.Lo)
		if err != nil {
			return nil, err
		}
		hi, err := d.exprOrNil(n.Hi)
		if err != nil {
			return nil, err
		}
		return &ast.Slice{ExprBase: n.ExprBase, Lo: lo, Hi: hi}, nil
	case *ast.Tuple:
		elts, err := d.exprList(n.Elts)
		if err != nil {
			return nil, err
		}
		return &ast.Tuple{ExprBase: n.ExprBase, Elts: elts}, nil
	case *ast.List:
		elts, err := d.exprList(n.Elts)
		if err != nil {
			return nil, err
		}
		return &ast.List{ExprBase: n.ExprBase, Elts: elts}, nil
	case *ast.Set:
		elts, err := d.exprList(n.Elts)
		if err != nil {
			return nil, err
		}
		return &ast.Set{ExprBase: n.ExprBase, Elts: elts}, nil
	case *ast.Dict:
		var entries []ast.DictEntry
		for _, en := range n.Entries {
			k, err := d.expr(en.Key)
			if err != nil {
				return nil, err
			}
			v, err := d.expr(en.Value)
			if err != nil {
				return nil, err
			}
			entries = append(entries, ast.DictEntry{Key: k, Value: v})
		}
		return &ast.Dict{ExprBase: n.ExprBase, Entries: entries}, nil
	case *ast.IfExp:
		c, err := d.expr(n.Cond)
		if err != nil {
			return nil, err
		}
		t, err := d.expr(n.Then)
		if err != nil {
			return nil, err
		}
		el, err := d.expr(n.Else)
		if err != nil {
			return nil, err
		}
		return &ast.IfExp{ExprBase: n.ExprBase, Cond: c, Then: t, Else: el}, nil
	case *ast.Lambda:
		body, err := d.expr(n.Body)
		if err != nil {
			return nil, err
		}
		return &ast.Lambda{ExprBase: n.ExprBase, Params: n.Params, Body: body}, nil
	case *ast.Starred:
		v, err := d.expr(n.Value)
		if err != nil {
			return nil, err
		}
		return &ast.Starred{ExprBase: n.ExprBase, Value: v}, nil
	default:
		return e, nil
	}
}

func (d *desugarer) exprList(in []ast.Expr) ([]ast.Expr, error) {
	out := make([]ast.Expr, len(in))
	for i, e := range in {
		le, err := d.expr(e)
		if err != nil {
			return nil, err
		}
		out[i] = le
	}
	return out, nil
}

// fstring lowers `f"…{e}…"` into a Call to the core `format` helper
// taking the literal template and the sequence of expression arguments
// (spec.md §4.3 table, scenario not numbered but described throughout
// §4.1/§4.2 f-string handling).
func (d *desugarer) fstring(n *ast.FString) (ast.Expr, error) {
	var template string
	var args []ast.Expr
	for _, part := range n.Parts {
		template += part.Literal
		if part.Expr != nil {
			template += "{}"
			arg, err := d.expr(part.Expr)
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
		}
	}
	call := &ast.Call{
		ExprBase: n.ExprBase,
		Func:     &ast.Name{ExprBase: n.ExprBase, Id: "format"},
		Args:     append([]ast.Expr{&ast.StringLiteral{ExprBase: n.ExprBase, Value: template}}, args...),
	}
	return call, nil
}

// comprehension lowers `[e for x in xs if c]` into
// `xs.iter().filter(|x| c).map(|x| e).collect()`, and the dict form
// `{k: v for x in xs}` into `xs.iter().map(|x| (k, v)).collect()`
// (spec.md §4.3 table, scenario S4).
func (d *desugarer) comprehension(n *ast.Comprehension) (ast.Expr, error) {
	iter, err := d.expr(n.Iter)
	if err != nil {
		return nil, err
	}
	element, err := d.expr(n.Element)
	if err != nil {
		return nil, err
	}

	cur := &ast.Attribute{ExprBase: n.ExprBase, Value: iter, Attr: "iter"}
	curCall := &ast.Call{ExprBase: n.ExprBase, Func: cur}

	for _, cond := range n.Ifs {
		lc, err := d.expr(cond)
		if err != nil {
			return nil, err
		}
		filterFn := &ast.Lambda{ExprBase: n.ExprBase, Params: []ast.Param{{Name: exprAsParamName(n.Target)}}, Body: lc}
		curCall = &ast.Call{
			ExprBase: n.ExprBase,
			Func:     &ast.Attribute{ExprBase: n.ExprBase, Value: curCall, Attr: "filter"},
			Args:     []ast.Expr{filterFn},
		}
	}

	var mapBody ast.Expr = element
	if n.Kind == ast.CompDict {
		key, err := d.expr(n.Key)
		if err != nil {
			return nil, err
		}
		mapBody = &ast.Tuple{ExprBase: n.ExprBase, Elts: []ast.Expr{key, element}}
	}
	mapFn := &ast.Lambda{ExprBase: n.ExprBase, Params: []ast.Param{{Name: exprAsParamName(n.Target)}}, Body: mapBody}
	curCall = &ast.Call{
		ExprBase: n.ExprBase,
		Func:     &ast.Attribute{ExprBase: n.ExprBase, Value: curCall, Attr: "map"},
		Args:     []ast.Expr{mapFn},
	}

	return &ast.Call{
		ExprBase: n.ExprBase,
		Func:     &ast.Attribute{ExprBase: n.ExprBase, Value: curCall, Attr: "collect"},
	}, nil
}

func exprAsParamName(e ast.Expr) string {
	if name, ok := e.(*ast.Name); ok {
		return name.Id
	}
	return "_"
}
