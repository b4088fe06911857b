package sema

import "github.com/quichelang/quiche/internal/ast"

// classifyParamBorrow inspects a parameter's type annotation and tags
// the symbol as a shared or exclusive reference, matching spec.md
// §4.4's Ref[T]/MutRef[T] borrow classification. Plain-container
// parameters (List[T], Dict[K, V], Set[T]) without an explicit
// Ref/MutRef wrapper are classified as owned, not borrowed.
func classifyParamBorrow(sym *Symbol, typ ast.Expr) {
	call, ok := typ.(*ast.Call)
	if !ok {
		return
	}
	base, ok := call.Func.(*ast.Name)
	if !ok {
		return
	}
	switch base.Id {
	case "Ref":
		sym.IsRef = true
	case "MutRef":
		sym.IsRef = true
		sym.IsMutRef = true
	}
}

// isMutatingMethod reports whether a method name is known to mutate its
// receiver, so a bare `x.push(v)` call marks `x` as needing `let mut`
// even though it is never directly reassigned (spec.md §4.4, §4.5's
// method remap table covers the emitted name; this table covers intent).
var mutatingMethods = map[string]bool{
	"push": true, "pop": true, "append": true, "insert": true, "remove": true,
	"clear": true, "sort": true, "extend": true, "retain": true, "truncate": true,
	"set": true, "update": true,
}

func isMutatingMethod(attr string) bool {
	return mutatingMethods[attr]
}
