package codegen

import (
	"fmt"
	"strings"

	"github.com/quichelang/quiche/internal/ast"
)

// emitMatch emits match arms, qualifying constructor-pattern names with
// their enum path when the symbol table resolves it, and inserting a
// guard's `if` clause after the pattern (spec.md §4.5 "Match arm
// emission"). When the scrutinee's declared type resolves to a known
// enum, every variant must be covered by a constructor pattern or a
// catch-all arm (spec.md §7, invariant I4); a scrutinee whose type
// can't be resolved to a closed sum is assumed exhaustive as written.
func (e *Emitter) emitMatch(n *ast.Match) error {
	if err := e.checkExhaustive(n); err != nil {
		return err
	}
	subj, err := e.emitExpr(n.Subject)
	if err != nil {
		return err
	}
	e.writeln("match %s {", subj)
	e.pushScope()
	for _, arm := range n.Arms {
		pat, err := e.emitPattern(arm.Pattern)
		if err != nil {
			e.popScope()
			return err
		}
		guard := ""
		if arm.Guard != nil {
			g, err := e.emitExpr(arm.Guard)
			if err != nil {
				e.popScope()
				return err
			}
			guard = " if " + g
		}
		e.writeln("    %s%s => {", pat, guard)
		e.pushScope()
		for _, s := range arm.Body {
			if err := e.emitStmt(s); err != nil {
				e.popScope()
				e.popScope()
				return err
			}
		}
		e.popScope()
		e.writeln("    }")
	}
	e.popScope()
	e.writeln("}")
	return nil
}

// checkExhaustive rejects a match over a known closed sum that leaves
// variants uncovered and has no catch-all arm (spec.md §7's named
// CodegenError policy). It returns nil when the subject's type can't be
// resolved to an enum with variants, leaving ad-hoc scrutinees to the
// generator's as-written assumption.
func (e *Emitter) checkExhaustive(n *ast.Match) error {
	typeName, variants := e.enumVariantsForSubject(n.Subject)
	if variants == nil {
		return nil
	}
	covered := map[string]bool{}
	for _, arm := range n.Arms {
		switch p := arm.Pattern.(type) {
		case *ast.WildcardPattern, *ast.BindPattern:
			return nil
		case *ast.CtorPattern:
			covered[p.Name] = true
		}
	}
	var missing []string
	for _, v := range variants {
		if !covered[v] {
			missing = append(missing, v)
		}
	}
	if len(missing) > 0 {
		return failCodegen(n.Span(), "non-exhaustive", fmt.Sprintf("match over %q is missing variant(s): %s", typeName, strings.Join(missing, ", ")))
	}
	return nil
}

// enumVariantsForSubject resolves the scrutinee's declared type to a
// known enum's name and variant list, or ("", nil) if it isn't one.
func (e *Emitter) enumVariantsForSubject(subject ast.Expr) (string, []string) {
	name, ok := subject.(*ast.Name)
	if !ok || e.sym == nil {
		return "", nil
	}
	sym, ok := e.sym.Root.lookupAny(name.Id)
	if !ok || sym.Type == nil {
		return "", nil
	}
	base := sym.Type
	if call, ok := base.(*ast.Call); ok {
		base = call.Func
	}
	tn, ok := base.(*ast.Name)
	if !ok {
		return "", nil
	}
	td, ok := e.sym.Types[tn.Id]
	if !ok || len(td.Variants) == 0 {
		return "", nil
	}
	names := make([]string, len(td.Variants))
	for i, v := range td.Variants {
		names[i] = v.Name
	}
	return tn.Id, names
}

func (e *Emitter) emitPattern(p ast.Pattern) (string, error) {
	switch pt := p.(type) {
	case *ast.WildcardPattern:
		return "_", nil
	case *ast.BindPattern:
		e.top()[pt.Name] = true
		return pt.Name, nil
	case *ast.LiteralPattern:
		return e.emitExpr(pt.Value)
	case *ast.StarRestPattern:
		if pt.Name == "" {
			return "..", nil
		}
		e.top()[pt.Name] = true
		return pt.Name + " @ ..", nil
	case *ast.TuplePattern:
		parts := make([]string, len(pt.Elems))
		for i, sub := range pt.Elems {
			s, err := e.emitPattern(sub)
			if err != nil {
				return "", err
			}
			parts[i] = s
		}
		return "(" + strings.Join(parts, ", ") + ")", nil
	case *ast.CtorPattern:
		name := e.qualifyEnumVariant(pt.Name)
		if len(pt.NamedKeys) > 0 {
			parts := make([]string, len(pt.NamedKeys))
			for i, k := range pt.NamedKeys {
				v, err := e.emitPattern(pt.NamedValues[i])
				if err != nil {
					return "", err
				}
				parts[i] = fmt.Sprintf("%s: %s", k, v)
			}
			return fmt.Sprintf("%s { %s }", name, strings.Join(parts, ", ")), nil
		}
		if len(pt.Positional) == 0 {
			return name, nil
		}
		parts := make([]string, len(pt.Positional))
		for i, sub := range pt.Positional {
			s, err := e.emitPattern(sub)
			if err != nil {
				return "", err
			}
			parts[i] = s
		}
		return fmt.Sprintf("%s(%s)", name, strings.Join(parts, ", ")), nil
	default:
		return "", failCodegen(p.Span(), "unsupported-pattern", fmt.Sprintf("%T", p))
	}
}

// qualifyEnumVariant resolves a bare variant name (`Variant`) to its
// enum path (`EnumType::Variant`) using the symbol table; unresolved
// names are emitted as-is, matching spec.md's "if unresolved, emit as
// a qualified path" fallback of passing the name through unchanged.
func (e *Emitter) qualifyEnumVariant(name string) string {
	if e.sym == nil {
		return name
	}
	for _, td := range e.sym.Types {
		for _, v := range td.Variants {
			if v.Name == name {
				return td.Name + "::" + name
			}
		}
	}
	return name
}

// emitTry lowers `try`/`except` into a scoped error-catching expression:
// the try body runs inside an immediately-invoked closure, and its
// failure path is matched against the handler (spec.md §4.5, §9).
// A bare `except` binds the failure as `_`; `except as e` binds it as a
// string-valued handle (spec.md §7 policy).
func (e *Emitter) emitTry(n *ast.Try) error {
	e.writeln("match (|| -> Result<(), String> {")
	e.pushScope()
	for _, s := range n.Body {
		if err := e.emitStmt(s); err != nil {
			e.popScope()
			return err
		}
	}
	e.writeln("    Ok(())")
	e.popScope()
	e.writeln("})() {")
	e.writeln("    Ok(()) => {}")
	bind := n.Handler.BindName
	if bind == "" {
		bind = "_"
	}
	e.writeln("    Err(%s) => {", bind)
	e.pushScope()
	if bind != "_" {
		e.top()[bind] = true
	}
	for _, s := range n.Handler.Body {
		if err := e.emitStmt(s); err != nil {
			e.popScope()
			return err
		}
	}
	e.popScope()
	e.writeln("    }")
	e.writeln("}")
	return nil
}
