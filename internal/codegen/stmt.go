package codegen

import (
	"fmt"
	"strings"

	"github.com/quichelang/quiche/internal/ast"
)

func (e *Emitter) emitStmt(s ast.Stmt) error {
	switch n := s.(type) {
	case *ast.Assign:
		return e.emitAssign(n)
	case *ast.AnnAssign:
		return e.emitAnnAssign(n)
	case *ast.AugAssign:
		return e.emitAugAssign(n)
	case *ast.ExprStmt:
		x, err := e.emitExpr(n.X)
		if err != nil {
			return err
		}
		e.writeln("%s;", x)
		return nil
	case *ast.Return:
		if n.Value == nil {
			e.writeln("return;")
			return nil
		}
		v, err := e.emitExpr(n.Value)
		if err != nil {
			return err
		}
		e.writeln("return %s;", v)
		return nil
	case *ast.If:
		return e.emitIf(n)
	case *ast.While:
		return e.emitWhile(n)
	case *ast.For:
		return e.emitFor(n)
	case *ast.Match:
		return e.emitMatch(n)
	case *ast.Try:
		return e.emitTry(n)
	case *ast.Pass:
		return nil
	case *ast.Break:
		e.writeln("break;")
		return nil
	case *ast.Continue:
		e.writeln("continue;")
		return nil
	case *ast.Raise:
		if n.Value == nil {
			e.writeln("return Err(());")
			return nil
		}
		v, err := e.emitExpr(n.Value)
		if err != nil {
			return err
		}
		e.writeln("return Err(%s);", v)
		return nil
	case *ast.ConstDef:
		return e.emitConstDef(n)
	default:
		return failCodegen(s.Span(), "unsupported-statement", fmt.Sprintf("%T cannot appear in this position", s))
	}
}

// emitAssign implements scope-aware `let` (spec.md §4.5): a bare-name
// target not yet bound anywhere visible gets `let`/`let mut`; a target
// already bound rebinds without `let`.
func (e *Emitter) emitAssign(n *ast.Assign) error {
	val, err := e.emitExpr(n.Value)
	if err != nil {
		return err
	}
	if len(n.Targets) == 1 {
		if name, ok := n.Targets[0].(*ast.Name); ok {
			if e.boundAnywhereVisible(name.Id) {
				e.writeln("%s = %s;", name.Id, val)
				return nil
			}
			e.top()[name.Id] = true
			e.writeln("let %s%s = %s;", mutKeyword(e.isMutated(name.Id)), name.Id, val)
			return nil
		}
	}
	targets := make([]string, len(n.Targets))
	for i, t := range n.Targets {
		ts, err := e.emitExpr(t)
		if err != nil {
			return err
		}
		targets[i] = ts
	}
	e.writeln("(%s) = %s;", strings.Join(targets, ", "), val)
	return nil
}

func mutKeyword(mut bool) string {
	if mut {
		return "mut "
	}
	return ""
}

func (e *Emitter) isMutated(name string) bool {
	if e.sym == nil {
		return false
	}
	sym, ok := e.sym.Root.lookupAny(name)
	return ok && sym.Mutated
}

func (e *Emitter) emitAnnAssign(n *ast.AnnAssign) error {
	name, ok := n.Target.(*ast.Name)
	if !ok {
		return failCodegen(n.Span(), "invalid-target", "annotated assignment target must be a bare name")
	}
	typ := typeString(n.Type)
	if n.Value == nil {
		e.top()[name.Id] = true
		e.writeln("let %s%s: %s;", mutKeyword(e.isMutated(name.Id)), name.Id, typ)
		return nil
	}
	val, err := e.emitExpr(n.Value)
	if err != nil {
		return err
	}
	e.top()[name.Id] = true
	e.writeln("let %s%s: %s = %s;", mutKeyword(e.isMutated(name.Id)), name.Id, typ, val)
	return nil
}

func (e *Emitter) emitAugAssign(n *ast.AugAssign) error {
	target, err := e.emitExpr(n.Target)
	if err != nil {
		return err
	}
	val, err := e.emitExpr(n.Value)
	if err != nil {
		return err
	}
	e.writeln("%s %s %s;", target, n.Op, val)
	return nil
}

func (e *Emitter) emitBlock(body []ast.Stmt) error {
	e.pushScope()
	for _, s := range body {
		if err := e.emitStmt(s); err != nil {
			e.popScope()
			return err
		}
	}
	e.popScope()
	return nil
}

func (e *Emitter) emitIf(n *ast.If) error {
	cond, err := e.emitExpr(n.Cond)
	if err != nil {
		return err
	}
	e.writeln("if %s {", cond)
	if err := e.emitBlock(n.Body); err != nil {
		return err
	}
	for _, el := range n.Elifs {
		ec, err := e.emitExpr(el.Cond)
		if err != nil {
			return err
		}
		e.writeln("} else if %s {", ec)
		if err := e.emitBlock(el.Body); err != nil {
			return err
		}
	}
	if n.Else != nil {
		e.writeln("} else {")
		if err := e.emitBlock(n.Else); err != nil {
			return err
		}
	}
	e.writeln("}")
	return nil
}

func (e *Emitter) emitWhile(n *ast.While) error {
	cond, err := e.emitExpr(n.Cond)
	if err != nil {
		return err
	}
	e.writeln("while %s {", cond)
	if err := e.emitBlock(n.Body); err != nil {
		return err
	}
	e.writeln("}")
	return nil
}

// emitFor appends `.iter().cloned()` to the iterable when it is a bare
// name bound to a Ref[T] or MutRef[T] parameter (spec.md §4.4's
// iterable-ref rule). It does not check that T is a container, does not
// look at the element type, and never emits a plain `.iter()` instead.
func (e *Emitter) emitFor(n *ast.For) error {
	target, err := e.emitExpr(n.Target)
	if err != nil {
		return err
	}
	iter, err := e.emitExpr(n.Iter)
	if err != nil {
		return err
	}
	if iterName, ok := n.Iter.(*ast.Name); ok && e.sym != nil {
		if sym, ok := e.sym.Root.lookupAny(iterName.Id); ok && sym.IsRef {
			iter = iter + ".iter().cloned()"
		}
	}
	e.writeln("for %s in %s {", target, iter)
	if err := e.emitBlock(n.Body); err != nil {
		return err
	}
	e.writeln("}")
	return nil
}
