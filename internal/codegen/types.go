package codegen

import (
	"strings"

	"github.com/quichelang/quiche/internal/ast"
)

// typeString maps a type-position expression to its emission string
// (spec.md §4.5 "Type string mapping"). Generic subscript is always
// rendered with angle brackets, never square brackets (invariant P5).
func typeString(t ast.Expr) string {
	switch n := t.(type) {
	case *ast.Name:
		return mapTypeName(n.Id)
	case *ast.Call: // bracket generic instantiation, reused as a Call node by the parser
		base := typeString(n.Func)
		if len(n.Args) == 0 {
			return base
		}
		args := make([]string, len(n.Args))
		for i, a := range n.Args {
			args[i] = typeString(a)
		}
		return wrapGeneric(base, n.Func, args)
	case *ast.BinOp: // `A | B` union type surface
		return typeString(n.Left) + " | " + typeString(n.Right)
	case *ast.Attribute:
		return typeString(n.Value) + "::" + n.Attr
	default:
		return "_"
	}
}

// wrapGeneric applies the substitutions that change shape rather than
// just name (List/Dict/Ref/MutRef/Dyn/Box), falling back to plain
// angle-bracket instantiation for user generics.
func wrapGeneric(base string, fn ast.Expr, args []string) string {
	name, _ := fn.(*ast.Name)
	if name == nil {
		return base + "<" + strings.Join(args, ", ") + ">"
	}
	switch name.Id {
	case "Ref", "ref":
		return "&" + args[0]
	case "MutRef", "mutref":
		return "&mut " + args[0]
	case "Dyn":
		return "dyn " + args[0]
	case "Box":
		return "Box<" + args[0] + ">"
	default:
		return base + "<" + strings.Join(args, ", ") + ">"
	}
}

func mapTypeName(id string) string {
	switch id {
	case "List", "Vec":
		return "Vec"
	case "Dict", "HashMap":
		return "HashMap"
	case "String", "str", "Str":
		return "String"
	case "StrRef":
		return "&str"
	case "Option":
		return "Option"
	case "Result":
		return "Result"
	default:
		return id
	}
}

// typeStringExprPos renders a type for an *expression*-position turbo-fish
// (`::<…>`) rather than type position (`<…>`) (spec.md §4.5 "Turbo-fish").
func typeStringExprPos(t ast.Expr) string {
	s := typeString(t)
	// Only bracketed generics need the :: prefix; bare names and & forms don't.
	if idx := strings.IndexByte(s, '<'); idx >= 0 && !strings.HasPrefix(s, "&") {
		return s[:idx] + "::" + s[idx:]
	}
	return s
}
