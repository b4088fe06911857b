// Package sema resolves names, infers mutability and borrow shape, and
// classifies top-level declarations ahead of code generation (spec.md
// §4.4). Its design mirrors the teacher's scope-graph approach: a tree
// of scopes linked by parent pointers, populated in one pass and
// queried in a second.
package sema

import "github.com/quichelang/quiche/internal/ast"

// ScopeKind distinguishes the binding rules that apply within a scope.
// Only Function and Comprehension/Match scopes are "leaf" boundaries for
// binding purposes; If/For/While/Block scopes are transparent — an
// assignment inside one binds in the nearest enclosing Function or
// Module scope, matching Quiche's Pythonic scoping rule (spec.md §4.4).
type ScopeKind int

const (
	ScopeModule ScopeKind = iota
	ScopeFunction
	ScopeComprehension
	ScopeMatchArm
	ScopeBlock // if/elif/else, for, while, try bodies: transparent for binding
)

// Symbol records one resolved binding.
type Symbol struct {
	Name       string
	Kind       SymbolKind
	DeclaredAt ast.Node
	Type       ast.Expr // declared or inferred type annotation, nil if unknown
	IsRef      bool
	IsMutRef   bool
	IsIterRef  bool
	IsConst    bool
	Mutated    bool // set once any rebind/augassign/mutating-call is observed
}

type SymbolKind int

const (
	SymVar SymbolKind = iota
	SymParam
	SymFunc
	SymType
	SymConst
	SymImport
)

// Scope is one node in the lexical scope tree.
type Scope struct {
	kind     ScopeKind
	parent   *Scope
	children []*Scope
	symbols  map[string]*Symbol
}

func newScope(kind ScopeKind, parent *Scope) *Scope {
	s := &Scope{kind: kind, parent: parent, symbols: map[string]*Symbol{}}
	if parent != nil {
		parent.children = append(parent.children, s)
	}
	return s
}

// bindingScope walks up past transparent Block scopes to find the scope
// an assignment actually binds in (spec.md §4.4's Pythonic rule).
func (s *Scope) bindingScope() *Scope {
	cur := s
	for cur.kind == ScopeBlock {
		cur = cur.parent
	}
	return cur
}

// define installs a new symbol in this scope's binding scope.
func (s *Scope) define(sym *Symbol) {
	s.bindingScope().symbols[sym.Name] = sym
}

// lookup searches this scope and its ancestors, innermost first,
// implementing local→enclosing-function(s)→module precedence.
func (s *Scope) lookup(name string) (*Symbol, bool) {
	for cur := s; cur != nil; cur = cur.parent {
		if sym, ok := cur.symbols[name]; ok {
			return sym, true
		}
	}
	return nil, false
}

// lookupAny searches this scope's entire subtree for a symbol by name,
// depth-first. Codegen uses it to recover mutability/borrow
// classification for a name without threading the exact lexical scope
// through every emission call; it is a best-effort query, not a
// shadowing-correct lookup.
func (s *Scope) lookupAny(name string) (*Symbol, bool) {
	if sym, ok := s.symbols[name]; ok {
		return sym, true
	}
	for _, c := range s.children {
		if sym, ok := c.lookupAny(name); ok {
			return sym, true
		}
	}
	return nil, false
}

// names collects every identifier visible from this scope, for
// fuzzy-match "did you mean" suggestions.
func (s *Scope) names() []string {
	seen := map[string]bool{}
	var out []string
	for cur := s; cur != nil; cur = cur.parent {
		for n := range cur.symbols {
			if !seen[n] {
				seen[n] = true
				out = append(out, n)
			}
		}
	}
	return out
}
