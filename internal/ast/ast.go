// Package ast defines the Quiche/MetaQuiche semantic AST (spec.md §3):
// statement and expression sum types, match patterns, and the Module
// container. Every node carries a source Span.
package ast

import "github.com/quichelang/quiche/internal/diag"

// Node is implemented by every statement and expression.
type Node interface {
	Span() diag.Span
}

// Base holds the source span shared by every node. Embed it (by value)
// in a node literal to satisfy Node, e.g. &Pass{StmtBase{Base{Sp: sp}}}.
type Base struct {
	Sp diag.Span
}

func (b Base) Span() diag.Span { return b.Sp }

// ---------------------------------------------------------------------
// Statements
// ---------------------------------------------------------------------

type Stmt interface {
	Node
	stmtNode()
}

// StmtBase is embedded by every Stmt implementation.
type StmtBase struct{ Base }

func (StmtBase) stmtNode() {}

type Import struct {
	StmtBase
	Module string
	Alias  string // "" if none
}

type FromImport struct {
	StmtBase
	Module string
	Names  []ImportedName
}

type ImportedName struct {
	Name  string
	Alias string // "" if none
}

// Param is a function/lambda parameter.
type Param struct {
	Name        string
	Type        Expr // nil if unannotated
	Default     Expr // nil if none; present defaults are rejected by the desugarer (spec.md §7)
	DefaultSpan diag.Span
}

// TypeParam is a generic parameter with optional trait bounds, e.g.
// `T: Trait` or `U: A + B`.
type TypeParam struct {
	Name   string
	Bounds []string
}

type FunctionDef struct {
	StmtBase
	Name        string
	TypeParams  []TypeParam
	Params      []Param
	ReturnType  Expr // nil if unannotated
	Body        []Stmt
	Decorators  []Decorator
	IsMethod    bool
	SelfMode    SelfMode // only meaningful when IsMethod
}

// SelfMode classifies how a method receives `self`.
type SelfMode int

const (
	SelfNone SelfMode = iota
	SelfShared
	SelfExclusive
)

type Decorator struct {
	Name string
	Args []Expr
	Kwargs map[string]Expr
	Sp   diag.Span
}

type ClassDef struct {
	StmtBase
	Name       string
	TypeParams []TypeParam
	Bases      []string // base names as written, e.g. "Struct", "Enum", "Trait", or a user base
	Body       []Stmt
	Decorators []Decorator
}

// TypeDef represents `type T: ...` / `type T = A | B | C` before the
// desugarer classifies it as struct/enum (spec.md §4.3).
type TypeDef struct {
	StmtBase
	Name       string
	TypeParams []TypeParam
	Union      []Expr   // non-nil for `type X = A | B | C`
	Fields     []Field  // non-nil for struct-shaped `type X:` body
	Variants   []Variant // non-nil for enum-shaped `type X:` body
	Decorators []Decorator
}

type Field struct {
	Name string
	Type Expr
}

type Variant struct {
	Name   string
	Fields []Field // positional types wrapped as Field with empty Name, or named
}

type ConstDef struct {
	StmtBase
	Name  string
	Type  Expr // nil if unannotated
	Value Expr
}

type Assign struct {
	StmtBase
	Targets []Expr
	Value   Expr
}

type AnnAssign struct {
	StmtBase
	Target Expr
	Type   Expr
	Value  Expr // nil if none
}

type AugAssign struct {
	StmtBase
	Target Expr
	Op     string // "+=", "-=", ...
	Value  Expr
}

type If struct {
	StmtBase
	Cond   Expr
	Body   []Stmt
	Elifs  []ElifClause
	Else   []Stmt // nil if none
}

type ElifClause struct {
	Cond Expr
	Body []Stmt
}

type While struct {
	StmtBase
	Cond Expr
	Body []Stmt
}

type For struct {
	StmtBase
	Target Expr
	Iter   Expr
	Body   []Stmt
}

type Match struct {
	StmtBase
	Subject Expr
	Arms    []MatchArm
}

type MatchArm struct {
	Pattern Pattern
	Guard   Expr // nil if none
	Body    []Stmt
	Sp      diag.Span
}

type Try struct {
	StmtBase
	Body    []Stmt
	Handler ExceptHandler
}

type ExceptHandler struct {
	BindName string // "" for bare `except:`
	Body     []Stmt
	Sp       diag.Span
}

type Return struct {
	StmtBase
	Value Expr // nil for bare return
}

type ExprStmt struct {
	StmtBase
	X Expr
}

type Pass struct{ StmtBase }
type Break struct{ StmtBase }
type Continue struct{ StmtBase }

type Raise struct {
	StmtBase
	Value Expr // nil for bare reraise
}

// ---------------------------------------------------------------------
// Expressions
// ---------------------------------------------------------------------

type Expr interface {
	Node
	exprNode()
}

// ExprBase is embedded by every Expr implementation.
type ExprBase struct{ Base }

func (ExprBase) exprNode() {}

type Name struct {
	ExprBase
	Id string
}

type Attribute struct {
	ExprBase
	Value Expr
	Attr  string
}

type Subscript struct {
	ExprBase
	Value Expr
	Index Expr
}

type Call struct {
	ExprBase
	Func   Expr
	Args   []Expr
	Kwargs map[string]Expr
	// KwargOrder preserves source order of keyword arguments, since map
	// iteration is non-deterministic and emission must be (spec.md §5).
	KwargOrder []string
}

type BinOp struct {
	ExprBase
	Op          string
	Left, Right Expr
}

type UnaryOp struct {
	ExprBase
	Op string
	X  Expr
}

type BoolOp struct {
	ExprBase
	Op     string // "and" | "or"
	Values []Expr
}

// Compare is a chain-collapsed comparison: `a < b <= c` becomes one node
// with Ops=["<","<="], Operands=[a,b,c] (spec.md §4.2).
type Compare struct {
	ExprBase
	Ops      []string
	Operands []Expr
}

type Lambda struct {
	ExprBase
	Params []Param
	Body   Expr
}

type IfExp struct {
	ExprBase
	Cond, Then, Else Expr
}

type Tuple struct {
	ExprBase
	Elts []Expr
}

type List struct {
	ExprBase
	Elts []Expr
}

type DictEntry struct {
	Key, Value Expr
}

type Dict struct {
	ExprBase
	Entries []DictEntry
}

type Set struct {
	ExprBase
	Elts []Expr
}

// FStringPart is one literal-or-expression segment of an f-string.
type FStringPart struct {
	Literal string
	Expr    Expr // nil when this part is a plain literal chunk
}

type FString struct {
	ExprBase
	Parts []FStringPart
}

type NumberKind int

const (
	NumInt NumberKind = iota
	NumFloat
)

type NumberLiteral struct {
	ExprBase
	Kind NumberKind
	Text string // original lexeme, underscores and base prefix intact
}

type StringLiteral struct {
	ExprBase
	Value string
	IsBytes bool
}

type BooleanLiteral struct {
	ExprBase
	Value bool
}

type NoneLiteral struct{ ExprBase }

// Slice represents `a[lo:hi]`, with either bound possibly nil
// (spec.md §4.3 slice lowering).
type Slice struct {
	ExprBase
	Lo, Hi Expr
}

type Starred struct {
	ExprBase
	Value Expr
}

type ComprehensionKind int

const (
	CompList ComprehensionKind = iota
	CompDict
	CompSet
)

type Comprehension struct {
	ExprBase
	Kind    ComprehensionKind
	Element Expr      // list/set element, or dict value when Kind==CompDict
	Key     Expr      // dict key; nil otherwise
	Target  Expr      // loop variable(s)
	Iter    Expr
	Ifs     []Expr
}

// ---------------------------------------------------------------------
// Match patterns
// ---------------------------------------------------------------------

type Pattern interface {
	Node
	patternNode()
}

// PatternBase is embedded by every Pattern implementation.
type PatternBase struct{ Base }

func (PatternBase) patternNode() {}

type WildcardPattern struct{ PatternBase }

type LiteralPattern struct {
	PatternBase
	Value Expr
}

type BindPattern struct {
	PatternBase
	Name string
}

// CtorPattern matches `Ctor(sub, ...)` or `Ctor{field: pat, ...}`.
type CtorPattern struct {
	PatternBase
	Name        string
	Positional  []Pattern
	NamedKeys   []string
	NamedValues []Pattern
}

type TuplePattern struct {
	PatternBase
	Elems []Pattern
}

// StarRestPattern matches the `*rest` tail of a sequence pattern.
type StarRestPattern struct {
	PatternBase
	Name string // "" for an anonymous `*_`
}

// ---------------------------------------------------------------------
// Module
// ---------------------------------------------------------------------

// Module is the parser's top-level output: an ordered sequence of
// statements plus bookkeeping the rest of the pipeline consults
// (spec.md §3 Module).
type Module struct {
	Stmts []Stmt

	// Imports maps a locally-visible name to its source module path,
	// populated from Import/FromImport statements in source order.
	Imports []ImportEntry

	// EmittedTypes is a set of type names. NewModule creates it empty and
	// the desugarer carries it over; no stage fills it in. Codegen's
	// exhaustiveness and attribute-separator decisions read the semantic
	// pass's Types table instead.
	EmittedTypes map[string]bool
}

type ImportEntry struct {
	LocalName string
	Path      string
}

func NewModule() *Module {
	return &Module{EmittedTypes: map[string]bool{}}
}
