package sema

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/quichelang/quiche/internal/ast"
	"github.com/quichelang/quiche/internal/diag"
)

// Result is the semantic pass's output: the root scope plus per-module
// bookkeeping codegen consults for attribute-separator and exhaustiveness
// decisions (spec.md §4.4, §4.5).
type Result struct {
	Root       *Scope
	Types      map[string]*ast.TypeDef
	Funcs      map[string]*ast.FunctionDef
	Consts     map[string]*ast.ConstDef
	TypeParams map[string]int // declared type's generic arity, by name
}

// Check runs the semantic pass over a desugared module: name resolution,
// duplicate-symbol detection, mutability/borrow inference, and generic
// arity checking. It collects as many diagnostics as it can rather than
// stopping at the first, matching how the rest of the pipeline reports
// errors in batches (spec.md §4.4).
func Check(mod *ast.Module) (*Result, []error) {
	logLevel := slog.LevelInfo
	if os.Getenv("QUICHE_DEBUG_SEMA") != "" {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))

	r := &resolver{
		res: &Result{
			Root:       newScope(ScopeModule, nil),
			Types:      map[string]*ast.TypeDef{},
			Funcs:      map[string]*ast.FunctionDef{},
			Consts:     map[string]*ast.ConstDef{},
			TypeParams: map[string]int{},
		},
		logger: logger,
	}
	logger.Debug("sema start", "statements", len(mod.Stmts))
	r.collectTopLevel(mod)
	r.resolveStmts(mod.Stmts, r.res.Root)
	logger.Debug("sema done", "symbols", len(r.res.Root.names()), "errors", len(r.errs))
	return r.res, r.errs
}

type resolver struct {
	res    *Result
	errs   []error
	logger *slog.Logger
}

func (r *resolver) errf(span diag.Span, format string, args ...any) {
	reason := fmt.Sprintf(format, args...)
	r.errs = append(r.errs, &diag.SemanticError{Span: span, Reason: reason})
	r.logger.Warn("semantic error", "span", span.String(), "reason", reason)
}

func (r *resolver) suggest(name string, scope *Scope) string {
	matches := fuzzy.RankFindFold(name, scope.names())
	if len(matches) == 0 {
		return ""
	}
	return matches[0].Target
}

// collectTopLevel registers every module-scope declaration before name
// resolution runs, so forward references (a function calling one
// declared later in the file) resolve correctly.
func (r *resolver) collectTopLevel(mod *ast.Module) {
	declaredAt := map[string]diag.Span{}
	declare := func(name string, span diag.Span, kind SymbolKind, node ast.Node) {
		if prev, ok := declaredAt[name]; ok {
			r.errf(span, "duplicate top-level symbol %q (first declared at %s)", name, prev)
			return
		}
		declaredAt[name] = span
		r.res.Root.define(&Symbol{Name: name, Kind: kind, DeclaredAt: node})
	}

	for _, s := range mod.Stmts {
		switch n := s.(type) {
		case *ast.FunctionDef:
			declare(n.Name, n.Span(), SymFunc, n)
			r.res.Funcs[n.Name] = n
			r.res.TypeParams[n.Name] = len(n.TypeParams)
		case *ast.TypeDef:
			declare(n.Name, n.Span(), SymType, n)
			r.res.Types[n.Name] = n
			r.res.TypeParams[n.Name] = len(n.TypeParams)
		case *ast.ConstDef:
			declare(n.Name, n.Span(), SymConst, n)
			r.res.Consts[n.Name] = n
		}
	}
}

func (r *resolver) resolveStmts(stmts []ast.Stmt, scope *Scope) {
	for _, s := range stmts {
		r.resolveStmt(s, scope)
	}
}

func (r *resolver) resolveStmt(s ast.Stmt, scope *Scope) {
	switch n := s.(type) {
	case *ast.FunctionDef:
		fnScope := newScope(ScopeFunction, scope)
		for i := range n.Params {
			p := &n.Params[i]
			sym := &Symbol{Name: p.Name, Kind: SymParam, DeclaredAt: n, Type: p.Type}
			if p.Type != nil {
				classifyParamBorrow(sym, p.Type)
			}
			fnScope.define(sym)
			r.checkTypeExpr(p.Type, scope)
		}
		r.checkTypeExpr(n.ReturnType, scope)
		r.resolveStmts(n.Body, fnScope)
	case *ast.ConstDef:
		if !isConstExpr(n.Value) {
			r.errf(n.Span(), "const %q initializer must be a literal or const expression", n.Name)
		}
		r.checkTypeExpr(n.Type, scope)
	case *ast.Assign:
		r.resolveExpr(n.Value, scope)
		for _, t := range n.Targets {
			r.bindTarget(t, scope, false)
		}
		if len(n.Targets) == 1 {
			if tname, ok := n.Targets[0].(*ast.Name); ok {
				if sym, ok := scope.lookup(tname.Id); ok && sym.Type == nil {
					sym.Type = inferLiteralType(n.Value)
				}
			}
		}
	case *ast.AnnAssign:
		r.checkTypeExpr(n.Type, scope)
		if n.Value != nil {
			r.resolveExpr(n.Value, scope)
		}
		r.bindTarget(n.Target, scope, false)
		if name, ok := n.Target.(*ast.Name); ok {
			if sym, ok := scope.lookup(name.Id); ok {
				sym.Type = n.Type
			}
		}
	case *ast.AugAssign:
		r.resolveExpr(n.Value, scope)
		r.bindTarget(n.Target, scope, true)
	case *ast.If:
		r.resolveExpr(n.Cond, scope)
		r.resolveStmts(n.Body, newScope(ScopeBlock, scope))
		for _, e := range n.Elifs {
			r.resolveExpr(e.Cond, scope)
			r.resolveStmts(e.Body, newScope(ScopeBlock, scope))
		}
		if n.Else != nil {
			r.resolveStmts(n.Else, newScope(ScopeBlock, scope))
		}
	case *ast.While:
		r.resolveExpr(n.Cond, scope)
		r.resolveStmts(n.Body, newScope(ScopeBlock, scope))
	case *ast.For:
		r.resolveExpr(n.Iter, scope)
		body := newScope(ScopeBlock, scope)
		r.bindTarget(n.Target, body, false)
		r.markIterableRef(n.Target, n.Iter, body)
		r.resolveStmts(n.Body, body)
	case *ast.Match:
		r.resolveExpr(n.Subject, scope)
		for _, a := range n.Arms {
			arm := newScope(ScopeMatchArm, scope)
			r.bindPattern(a.Pattern, arm)
			if a.Guard != nil {
				r.resolveExpr(a.Guard, arm)
			}
			r.resolveStmts(a.Body, arm)
		}
	case *ast.Try:
		r.resolveStmts(n.Body, newScope(ScopeBlock, scope))
		h := newScope(ScopeBlock, scope)
		if n.Handler.BindName != "" {
			h.define(&Symbol{Name: n.Handler.BindName, Kind: SymVar})
		}
		r.resolveStmts(n.Handler.Body, h)
	case *ast.Return:
		if n.Value != nil {
			r.resolveExpr(n.Value, scope)
		}
	case *ast.ExprStmt:
		r.resolveExpr(n.X, scope)
	case *ast.Raise:
		if n.Value != nil {
			r.resolveExpr(n.Value, scope)
		}
	}
}

func (r *resolver) bindTarget(target ast.Expr, scope *Scope, isMutatingOp bool) {
	switch t := target.(type) {
	case *ast.Name:
		if sym, ok := scope.lookup(t.Id); ok {
			sym.Mutated = true
			return
		}
		scope.define(&Symbol{Name: t.Id, Kind: SymVar, Mutated: isMutatingOp})
	case *ast.Tuple:
		for _, e := range t.Elts {
			r.bindTarget(e, scope, isMutatingOp)
		}
	case *ast.Attribute, *ast.Subscript:
		r.resolveExpr(t, scope)
	}
}

func (r *resolver) bindPattern(p ast.Pattern, scope *Scope) {
	switch pt := p.(type) {
	case *ast.BindPattern:
		scope.define(&Symbol{Name: pt.Name, Kind: SymVar})
	case *ast.StarRestPattern:
		if pt.Name != "" {
			scope.define(&Symbol{Name: pt.Name, Kind: SymVar})
		}
	case *ast.CtorPattern:
		for _, sub := range pt.Positional {
			r.bindPattern(sub, scope)
		}
		for _, sub := range pt.NamedValues {
			r.bindPattern(sub, scope)
		}
	case *ast.TuplePattern:
		for _, sub := range pt.Elems {
			r.bindPattern(sub, scope)
		}
	}
}

// markIterableRef flags a for-loop target as an iterable reference when
// the iterated expression is a bare name bound to a Ref/MutRef parameter
// (spec.md §4.4). The wrapped type is not checked for being a container.
// Codegen's emitFor does not read this flag; it checks the iterable's
// IsRef itself.
func (r *resolver) markIterableRef(target, iter ast.Expr, scope *Scope) {
	name, ok := iter.(*ast.Name)
	if !ok {
		return
	}
	sym, ok := scope.lookup(name.Id)
	if !ok || !sym.IsRef {
		return
	}
	if tname, ok := target.(*ast.Name); ok {
		if tsym, ok := scope.lookup(tname.Id); ok {
			tsym.IsIterRef = true
		}
	}
}

func (r *resolver) resolveExpr(e ast.Expr, scope *Scope) {
	switch n := e.(type) {
	case *ast.Name:
		if _, ok := scope.lookup(n.Id); ok {
			return
		}
		if r.res.Funcs[n.Id] != nil || r.res.Types[n.Id] != nil || r.res.Consts[n.Id] != nil {
			return
		}
		if isBuiltin(n.Id) {
			return
		}
		r.errf(n.Span(), "unresolved name %q", n.Id)
		r.errs[len(r.errs)-1].(*diag.SemanticError).Suggestion = r.suggest(n.Id, scope)
	case *ast.Attribute:
		r.resolveExpr(n.Value, scope)
	case *ast.Subscript:
		r.resolveExpr(n.Value, scope)
		r.resolveExpr(n.Index, scope)
	case *ast.Call:
		r.resolveExpr(n.Func, scope)
		for _, a := range n.Args {
			r.resolveExpr(a, scope)
		}
		for _, v := range n.Kwargs {
			r.resolveExpr(v, scope)
		}
		r.checkCallArity(n, scope)
		if attr, ok := n.Func.(*ast.Attribute); ok && isMutatingMethod(attr.Attr) {
			if recv, ok := attr.Value.(*ast.Name); ok {
				if sym, ok := scope.lookup(recv.Id); ok {
					sym.Mutated = true
				}
			}
		}
	case *ast.BinOp:
		r.resolveExpr(n.Left, scope)
		r.resolveExpr(n.Right, scope)
	case *ast.UnaryOp:
		r.resolveExpr(n.X, scope)
	case *ast.BoolOp:
		for _, v := range n.Values {
			r.resolveExpr(v, scope)
		}
	case *ast.Compare:
		for _, v := range n.Operands {
			r.resolveExpr(v, scope)
		}
	case *ast.IfExp:
		r.resolveExpr(n.Cond, scope)
		r.resolveExpr(n.Then, scope)
		r.resolveExpr(n.Else, scope)
	case *ast.Lambda:
		inner := newScope(ScopeFunction, scope)
		for _, p := range n.Params {
			inner.define(&Symbol{Name: p.Name, Kind: SymParam})
		}
		r.resolveExpr(n.Body, inner)
	case *ast.Tuple:
		for _, el := range n.Elts {
			r.resolveExpr(el, scope)
		}
	case *ast.List:
		for _, el := range n.Elts {
			r.resolveExpr(el, scope)
		}
	case *ast.Set:
		for _, el := range n.Elts {
			r.resolveExpr(el, scope)
		}
	case *ast.Dict:
		for _, en := range n.Entries {
			r.resolveExpr(en.Key, scope)
			r.resolveExpr(en.Value, scope)
		}
	case *ast.Slice:
		if n.Lo != nil {
			r.resolveExpr(n.Lo, scope)
		}
		if n.Hi != nil {
			r.resolveExpr(n.Hi, scope)
		}
	case *ast.Starred:
		r.resolveExpr(n.Value, scope)
	}
}

// checkTypeExpr walks a type-position expression, validating generic
// arity against declared type params (spec.md §4.4's arity check). Type
// expressions reuse Call nodes for bracket instantiation (parser's
// subscriptOrGenericSuffix), so this mirrors checkCallArity for that shape.
func (r *resolver) checkTypeExpr(t ast.Expr, scope *Scope) {
	if t == nil {
		return
	}
	switch n := t.(type) {
	case *ast.Call:
		if base, ok := n.Func.(*ast.Name); ok {
			if want, known := r.res.TypeParams[base.Id]; known && want != len(n.Args) {
				r.errf(n.Span(), "type %q expects %d type argument(s), got %d", base.Id, want, len(n.Args))
			}
		}
		for _, a := range n.Args {
			r.checkTypeExpr(a, scope)
		}
	case *ast.BinOp: // union type `A | B` parsed through the normal expression grammar
		r.checkTypeExpr(n.Left, scope)
		r.checkTypeExpr(n.Right, scope)
	}
}

func (r *resolver) checkCallArity(call *ast.Call, scope *Scope) {
	name, ok := call.Func.(*ast.Name)
	if !ok {
		return
	}
	fn, ok := r.res.Funcs[name.Id]
	if !ok {
		return
	}
	if len(fn.Params) != len(call.Args)+len(call.Kwargs) {
		r.errf(call.Span(), "%q expects %d argument(s), got %d", name.Id, len(fn.Params), len(call.Args)+len(call.Kwargs))
	}
}

// inferLiteralType gives a best-effort declared type to an unannotated
// `name = literal` binding, so later passes (borrow classification,
// codegen's method-family dispatch) have something to consult without
// requiring the source to annotate every local. Returns nil when the
// initializer isn't one of the recognized container/scalar literal shapes.
func inferLiteralType(e ast.Expr) ast.Expr {
	switch n := e.(type) {
	case *ast.List:
		return &ast.Call{Func: &ast.Name{Id: "List"}}
	case *ast.Dict:
		return &ast.Call{Func: &ast.Name{Id: "Dict"}}
	case *ast.Set:
		return &ast.Call{Func: &ast.Name{Id: "Set"}}
	case *ast.StringLiteral:
		return &ast.Name{Id: "String"}
	case *ast.NumberLiteral:
		if n.Kind == ast.NumFloat {
			return &ast.Name{Id: "Float"}
		}
		return &ast.Name{Id: "Int"}
	case *ast.BooleanLiteral:
		return &ast.Name{Id: "Bool"}
	default:
		return nil
	}
}

func isConstExpr(e ast.Expr) bool {
	switch n := e.(type) {
	case *ast.NumberLiteral, *ast.StringLiteral, *ast.BooleanLiteral, *ast.NoneLiteral:
		return true
	case *ast.UnaryOp:
		return isConstExpr(n.X)
	case *ast.BinOp:
		return isConstExpr(n.Left) && isConstExpr(n.Right)
	case *ast.Tuple:
		for _, el := range n.Elts {
			if !isConstExpr(el) {
				return false
			}
		}
		return true
	case *ast.Name:
		return false
	default:
		return false
	}
}

func isBuiltin(name string) bool {
	switch name {
	case "Int", "Float", "Bool", "String", "Str", "StrRef", "Bytes", "List", "Vec", "Dict", "HashMap",
		"Set", "Option", "Result", "Ref", "MutRef", "Dyn", "Box", "Const",
		"len", "print", "format", "range", "zip", "enumerate", "Some", "None", "Ok", "Err", "self", "panic":
		return true
	default:
		return false
	}
}
