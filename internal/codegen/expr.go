package codegen

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/quichelang/quiche/internal/ast"
)

func (e *Emitter) emitExpr(x ast.Expr) (string, error) {
	switch n := x.(type) {
	case *ast.Name:
		if n.Id == "self" {
			return "self", nil
		}
		return n.Id, nil
	case *ast.NumberLiteral:
		return n.Text, nil
	case *ast.StringLiteral:
		if n.IsBytes {
			return fmt.Sprintf("b%q", n.Value), nil
		}
		return strconv.Quote(n.Value), nil
	case *ast.BooleanLiteral:
		if n.Value {
			return "true", nil
		}
		return "false", nil
	case *ast.NoneLiteral:
		return "None", nil
	case *ast.Attribute:
		return e.emitAttribute(n)
	case *ast.Subscript:
		v, err := e.emitExpr(n.Value)
		if err != nil {
			return "", err
		}
		idx, err := e.emitExpr(n.Index)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%s[%s]", v, idx), nil
	case *ast.Slice:
		return e.emitSlice(n)
	case *ast.Call:
		return e.emitCall(n)
	case *ast.BinOp:
		l, err := e.emitExpr(n.Left)
		if err != nil {
			return "", err
		}
		r, err := e.emitExpr(n.Right)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("(%s %s %s)", l, n.Op, r), nil
	case *ast.UnaryOp:
		v, err := e.emitExpr(n.X)
		if err != nil {
			return "", err
		}
		op := n.Op
		if op == "not" {
			op = "!"
		}
		return fmt.Sprintf("(%s%s)", op, v), nil
	case *ast.BoolOp:
		parts := make([]string, len(n.Values))
		for i, v := range n.Values {
			s, err := e.emitExpr(v)
			if err != nil {
				return "", err
			}
			parts[i] = s
		}
		joiner := " && "
		if n.Op == "or" {
			joiner = " || "
		}
		return "(" + strings.Join(parts, joiner) + ")", nil
	case *ast.Compare:
		return e.emitCompare(n)
	case *ast.IfExp:
		c, err := e.emitExpr(n.Cond)
		if err != nil {
			return "", err
		}
		t, err := e.emitExpr(n.Then)
		if err != nil {
			return "", err
		}
		el, err := e.emitExpr(n.Else)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("(if %s { %s } else { %s })", c, t, el), nil
	case *ast.Lambda:
		params := make([]string, len(n.Params))
		for i, p := range n.Params {
			params[i] = p.Name
		}
		body, err := e.emitExpr(n.Body)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("|%s| %s", strings.Join(params, ", "), body), nil
	case *ast.Tuple:
		parts, err := e.emitExprList(n.Elts)
		if err != nil {
			return "", err
		}
		return "(" + strings.Join(parts, ", ") + ")", nil
	case *ast.List:
		parts, err := e.emitExprList(n.Elts)
		if err != nil {
			return "", err
		}
		return "vec![" + strings.Join(parts, ", ") + "]", nil
	case *ast.Set:
		parts, err := e.emitExprList(n.Elts)
		if err != nil {
			return "", err
		}
		return "HashSet::from([" + strings.Join(parts, ", ") + "])", nil
	case *ast.Dict:
		parts := make([]string, len(n.Entries))
		for i, en := range n.Entries {
			k, err := e.emitExpr(en.Key)
			if err != nil {
				return "", err
			}
			v, err := e.emitExpr(en.Value)
			if err != nil {
				return "", err
			}
			parts[i] = fmt.Sprintf("(%s, %s)", k, v)
		}
		return "HashMap::from([" + strings.Join(parts, ", ") + "])", nil
	case *ast.Starred:
		v, err := e.emitExpr(n.Value)
		if err != nil {
			return "", err
		}
		return "..." + v, nil
	default:
		return "", failCodegen(x.Span(), "unsupported-expression", fmt.Sprintf("%T", x))
	}
}

func (e *Emitter) emitExprList(in []ast.Expr) ([]string, error) {
	out := make([]string, len(in))
	for i, x := range in {
		s, err := e.emitExpr(x)
		if err != nil {
			return nil, err
		}
		out[i] = s
	}
	return out, nil
}

// emitSlice lowers `a[lo:hi]` to a half-open range subscript
// (spec.md §4.3/§4.5 slice lowering).
func (e *Emitter) emitSlice(n *ast.Slice) (string, error) {
	// A bare Slice expression standing alone (not subscripted) still
	// needs a receiver; callers reach this only via Subscript.Index,
	// which is handled there, or directly when a slice appears as a
	// statement target we don't support. Render the range operand.
	lo := ""
	if n.Lo != nil {
		v, err := e.emitExpr(n.Lo)
		if err != nil {
			return "", err
		}
		lo = v
	}
	hi := ""
	if n.Hi != nil {
		v, err := e.emitExpr(n.Hi)
		if err != nil {
			return "", err
		}
		hi = v
	}
	return lo + ".." + hi, nil
}

// emitCompare renders a chain-collapsed comparison (spec.md §4.2) as a
// conjunction of pairwise Rust comparisons: `a < b <= c` becomes
// `(a < b) && (b <= c)`.
func (e *Emitter) emitCompare(n *ast.Compare) (string, error) {
	if len(n.Operands) < 2 {
		return "", failCodegen(n.Span(), "malformed-compare", "comparison needs at least two operands")
	}
	parts := make([]string, 0, len(n.Ops))
	for i, op := range n.Ops {
		l, err := e.emitExpr(n.Operands[i])
		if err != nil {
			return "", err
		}
		r, err := e.emitExpr(n.Operands[i+1])
		if err != nil {
			return "", err
		}
		parts = append(parts, fmt.Sprintf("(%s %s %s)", l, op, r))
	}
	return strings.Join(parts, " && "), nil
}

// emitAttribute chooses `.` vs `::` per spec.md §4.5 "Attribute access
// separator": value receivers use `.`, type/module/external-path
// receivers use `::`. `.new` is always static, and `def_` emits `def`.
func (e *Emitter) emitAttribute(n *ast.Attribute) (string, error) {
	attr := n.Attr
	if attr == "def_" {
		attr = "def"
	}
	base, err := e.emitExpr(n.Value)
	if err != nil {
		return "", err
	}
	if attr == "new" {
		return base + "::new", nil
	}
	if e.receiverIsTypeLike(n.Value, base) {
		return base + "::" + attr, nil
	}
	return base + "." + attr, nil
}

// receiverIsTypeLike implements the heuristic from spec.md §9's
// "dynamic attribute access" re-architecture note: a receiver resolves
// to type/module/external if it's a known type name, starts with an
// uppercase letter and isn't a value in scope, or already contains `::`.
func (e *Emitter) receiverIsTypeLike(recv ast.Expr, emitted string) bool {
	if strings.Contains(emitted, "::") {
		return true
	}
	name, ok := recv.(*ast.Name)
	if !ok {
		return false
	}
	if e.sym != nil {
		if _, ok := e.sym.Types[name.Id]; ok {
			return true
		}
		if _, bound := e.sym.Root.lookupAny(name.Id); bound {
			return false
		}
	}
	return len(name.Id) > 0 && name.Id[0] >= 'A' && name.Id[0] <= 'Z'
}

func (e *Emitter) emitCall(n *ast.Call) (string, error) {
	// Generic instantiation surfaces as Call-on-type in expression
	// position (constructor turbo-fish) when Func is itself a Call
	// whose args are type expressions — the parser produces this same
	// nested-Call shape for `Name[Args](ctorArgs)` when Name looks like
	// a type (subscriptOrGenericSuffix's capitalized-base heuristic),
	// not just inside an annotation. The common cases below cover
	// constructor calls and method calls; a bare function call falls
	// through to the default rendering.
	if attr, ok := n.Func.(*ast.Attribute); ok {
		return e.emitMethodCall(attr, n)
	}
	if genCall, ok := n.Func.(*ast.Call); ok {
		if base, ok := genCall.Func.(*ast.Name); ok && e.sym != nil {
			if _, isType := e.sym.Types[base.Id]; isType {
				return e.emitConstructorCall(typeStringExprPos(genCall), n)
			}
		}
	}
	if name, ok := n.Func.(*ast.Name); ok {
		if name.Id == "panic" && len(n.Args) == 1 {
			msg, err := e.emitExpr(n.Args[0])
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("panic!(\"{}\", %s)", msg), nil
		}
		if e.sym != nil {
			if _, isType := e.sym.Types[name.Id]; isType {
				return e.emitConstructorCall(name.Id, n)
			}
		}
	}
	args, err := e.emitArgsForCall(n, e.paramTypesFor(n.Func))
	if err != nil {
		return "", err
	}
	fn, err := e.emitExpr(n.Func)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s(%s)", fn, strings.Join(args, ", ")), nil
}

// emitConstructorCall renders `Ctor(v, …)` as positional struct
// construction and `Ctor(field=v, …)` as named-field construction
// (spec.md §4.5 "Constructor calls", scenario S1).
func (e *Emitter) emitConstructorCall(name string, n *ast.Call) (string, error) {
	if len(n.Kwargs) > 0 {
		parts := make([]string, 0, len(n.Kwargs))
		for _, k := range n.KwargOrder {
			v, err := e.emitExpr(n.Kwargs[k])
			if err != nil {
				return "", err
			}
			parts = append(parts, fmt.Sprintf("%s: %s", k, v))
		}
		return fmt.Sprintf("%s { %s }", name, strings.Join(parts, ", ")), nil
	}
	args, err := e.emitExprList(n.Args)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s(%s)", name, strings.Join(args, ", ")), nil
}

// emitMethodCall applies the container method-remapping table, wraps
// mutating calls in the runtime `check` helper unless skip-listed, and
// auto-borrows the first argument for map methods that key by
// reference (spec.md §4.5 "Method remapping").
func (e *Emitter) emitMethodCall(attr *ast.Attribute, call *ast.Call) (string, error) {
	recv, err := e.emitExpr(attr.Value)
	if err != nil {
		return "", err
	}
	family := e.receiverFamily(attr.Value)
	emittedName, borrowsKey, known := remapMethod(family, attr.Attr)

	args, err := e.emitArgsForCall(call, nil)
	if err != nil {
		return "", err
	}
	if known && borrowsKey && len(args) > 0 {
		args[0] = "&" + args[0]
	}

	call1 := fmt.Sprintf("%s.%s(%s)", recv, emittedName, strings.Join(args, ", "))
	if known && family == familyMap && attr.Attr == "get" && e.mapValueNeedsClone(attr.Value) {
		call1 += ".cloned()"
	}
	if known && isMutatingVectorOrMapCall(attr.Attr) && !checkSkipList[emittedName] {
		return fmt.Sprintf("check(%s)", call1), nil
	}
	if !known && isMutatingMethodName(attr.Attr) && !checkSkipList[attr.Attr] {
		return fmt.Sprintf("check(%s)", call1), nil
	}
	return call1, nil
}

func isMutatingMethodName(name string) bool {
	switch name {
	case "push", "pop", "insert", "remove", "clear", "sort", "extend", "update":
		return true
	}
	return false
}

// receiverFamily classifies a call receiver as vector/map/unknown using
// the symbol table's declared parameter type, when available.
func (e *Emitter) receiverFamily(recv ast.Expr) receiverFamily {
	name, ok := recv.(*ast.Name)
	if !ok || e.sym == nil {
		return familyUnknown
	}
	sym, ok := e.sym.Root.lookupAny(name.Id)
	if !ok || sym.Type == nil {
		return familyUnknown
	}
	return familyFromType(sym.Type)
}

// mapValueNeedsClone reports whether a `.get(k)` on recv should append
// `.cloned()` — HashMap::get returns Option<&V>, and spec.md §4.5's
// method table calls for the owned Option<V> form whenever V isn't a
// Copy primitive (spec.md "get (+ .cloned() when value is owned and
// non-copy)").
func (e *Emitter) mapValueNeedsClone(recv ast.Expr) bool {
	name, ok := recv.(*ast.Name)
	if !ok || e.sym == nil {
		return false
	}
	sym, ok := e.sym.Root.lookupAny(name.Id)
	if !ok || sym.Type == nil {
		return false
	}
	vt := mapValueType(sym.Type)
	return vt != nil && !isCopyTypeName(vt)
}

func mapValueType(t ast.Expr) ast.Expr {
	call, ok := t.(*ast.Call)
	if !ok || len(call.Args) < 2 {
		return nil
	}
	return call.Args[1]
}

func isCopyTypeName(t ast.Expr) bool {
	name, ok := t.(*ast.Name)
	if !ok {
		return false
	}
	switch name.Id {
	case "Int", "Float", "Bool":
		return true
	default:
		return false
	}
}

func familyFromType(t ast.Expr) receiverFamily {
	base := t
	if call, ok := t.(*ast.Call); ok {
		base = call.Func
	}
	name, ok := base.(*ast.Name)
	if !ok {
		return familyUnknown
	}
	switch name.Id {
	case "List", "Vec":
		return familyVector
	case "Dict", "HashMap":
		return familyMap
	default:
		return familyUnknown
	}
}

// emitArgsForCall renders call arguments with auto-borrow insertion
// (spec.md §4.5 "Auto-borrow insertion at call sites"): a bare name
// matching an expected reference parameter is borrowed; an already-
// reference expression passes through; a complex expression expecting
// a shared reference is parenthesized and borrowed.
func (e *Emitter) emitArgsForCall(call *ast.Call, paramTypes []ast.Expr) ([]string, error) {
	out := make([]string, len(call.Args))
	for i, a := range call.Args {
		s, err := e.emitExpr(a)
		if err != nil {
			return nil, err
		}
		if i < len(paramTypes) {
			s = e.autoBorrow(a, s, paramTypes[i])
		}
		out[i] = s
	}
	return out, nil
}

// paramTypesFor looks up a callee's declared parameter types so
// emitArgsForCall can auto-borrow. Returns nil for unresolved callees
// (lambdas, higher-order values), which simply skip auto-borrow.
func (e *Emitter) paramTypesFor(fn ast.Expr) []ast.Expr {
	name, ok := fn.(*ast.Name)
	if !ok || e.sym == nil {
		return nil
	}
	def, ok := e.sym.Funcs[name.Id]
	if !ok {
		return nil
	}
	out := make([]ast.Expr, len(def.Params))
	for i, p := range def.Params {
		out[i] = p.Type
	}
	return out
}

func (e *Emitter) autoBorrow(argExpr ast.Expr, emitted string, paramType ast.Expr) string {
	if paramType == nil {
		return emitted
	}
	call, ok := paramType.(*ast.Call)
	if !ok {
		return emitted
	}
	base, ok := call.Func.(*ast.Name)
	if !ok {
		return emitted
	}
	if strings.HasPrefix(emitted, "&") {
		return emitted
	}
	switch base.Id {
	case "Ref", "ref":
		if _, ok := argExpr.(*ast.Name); ok {
			return "&" + emitted
		}
		return "&(" + emitted + ")"
	case "MutRef", "mutref":
		if _, ok := argExpr.(*ast.Name); ok {
			return "&mut " + emitted
		}
		return "&mut (" + emitted + ")"
	default:
		return emitted
	}
}
