package parser_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quichelang/quiche/internal/ast"
	"github.com/quichelang/quiche/internal/parser"
)

func TestParse_FunctionDefWithTypedParamsAndReturn(t *testing.T) {
	src := "def add(a: Int, b: Int) -> Int:\n    return a + b\n"
	mod, err := parser.Parse(src)
	require.NoError(t, err)
	require.Len(t, mod.Stmts, 1)
	fn, ok := mod.Stmts[0].(*ast.FunctionDef)
	require.True(t, ok)
	assert.Equal(t, "add", fn.Name)
	require.Len(t, fn.Params, 2)
	assert.Equal(t, "a", fn.Params[0].Name)
	require.Len(t, fn.Body, 1)
	ret, ok := fn.Body[0].(*ast.Return)
	require.True(t, ok)
	assert.NotNil(t, ret.Value)
}

func TestParse_IfElifElse(t *testing.T) {
	src := "if a:\n    pass\nelif b:\n    pass\nelse:\n    pass\n"
	mod, err := parser.Parse(src)
	require.NoError(t, err)
	require.Len(t, mod.Stmts, 1)
	stmt, ok := mod.Stmts[0].(*ast.If)
	require.True(t, ok)
	require.Len(t, stmt.Elifs, 1)
	assert.NotEmpty(t, stmt.Else)
}

func TestParse_MatchWithGuardAndWildcard(t *testing.T) {
	src := "match s:\n    case Circle(r) if r > 0:\n        pass\n    case _:\n        pass\n"
	mod, err := parser.Parse(src)
	require.NoError(t, err)
	m, ok := mod.Stmts[0].(*ast.Match)
	require.True(t, ok)
	require.Len(t, m.Arms, 2)
	ctor, ok := m.Arms[0].Pattern.(*ast.CtorPattern)
	require.True(t, ok)
	assert.Equal(t, "Circle", ctor.Name)
	assert.NotNil(t, m.Arms[0].Guard)
	_, ok = m.Arms[1].Pattern.(*ast.WildcardPattern)
	assert.True(t, ok)
}

func TestParse_AssertLowersToCallNode(t *testing.T) {
	src := "def f():\n    assert n > 0, \"n must be positive\"\n"
	mod, err := parser.Parse(src)
	require.NoError(t, err)
	fn := mod.Stmts[0].(*ast.FunctionDef)
	stmt, ok := fn.Body[0].(*ast.ExprStmt)
	require.True(t, ok)
	call, ok := stmt.X.(*ast.Call)
	require.True(t, ok)
	name, ok := call.Func.(*ast.Name)
	require.True(t, ok)
	assert.Equal(t, "assert", name.Id)
	require.Len(t, call.Args, 2)
}

func TestParse_TypeDefStructAndEnum(t *testing.T) {
	src := "type Point:\n    x: Int\n    y: Int\n\ntype Shape:\n    Circle = (r: Int)\n    Square\n"
	mod, err := parser.Parse(src)
	require.NoError(t, err)
	require.Len(t, mod.Stmts, 2)
	point := mod.Stmts[0].(*ast.TypeDef)
	require.Len(t, point.Fields, 2)
	shape := mod.Stmts[1].(*ast.TypeDef)
	require.Len(t, shape.Variants, 2)
	assert.Equal(t, "Circle", shape.Variants[0].Name)
	assert.Equal(t, "Square", shape.Variants[1].Name)
}

// TestParse_TypePositionGenericUsesSubscriptSyntax covers the `[` type vs
// subscript ambiguity inside an annotation (spec.md §4.2 edge cases).
func TestParse_TypePositionGenericUsesSubscriptSyntax(t *testing.T) {
	src := "def wrap(xs: List[Int]):\n    pass\n"
	mod, err := parser.Parse(src)
	require.NoError(t, err)
	fn := mod.Stmts[0].(*ast.FunctionDef)
	call, ok := fn.Params[0].Type.(*ast.Call)
	require.True(t, ok)
	base, ok := call.Func.(*ast.Name)
	require.True(t, ok)
	assert.Equal(t, "List", base.Id)
	require.Len(t, call.Args, 1)
}

// TestParse_ExpressionPositionGenericConstructorAlsoUsesCallShape covers
// the same ambiguity in expression position: `Stack[Int](5)` must parse
// with the identical nested-Call shape a type annotation gets, per the
// capitalized-base heuristic in subscriptOrGenericSuffix.
func TestParse_ExpressionPositionGenericConstructorAlsoUsesCallShape(t *testing.T) {
	src := "def make():\n    return Stack[Int](5)\n"
	mod, err := parser.Parse(src)
	require.NoError(t, err)
	fn := mod.Stmts[0].(*ast.FunctionDef)
	ret := fn.Body[0].(*ast.Return)
	outer, ok := ret.Value.(*ast.Call)
	require.True(t, ok)
	inner, ok := outer.Func.(*ast.Call)
	require.True(t, ok, "expression-position Stack[Int] must be a nested Call, not a Subscript")
	base, ok := inner.Func.(*ast.Name)
	require.True(t, ok)
	assert.Equal(t, "Stack", base.Id)
	require.Len(t, inner.Args, 1)
}

// TestParse_LowercaseSubscriptStaysSubscript guards the heuristic from
// comment 3's fix against over-firing: a lowercase-based receiver (an
// ordinary value, not a type) must still parse as a plain subscript.
func TestParse_LowercaseSubscriptStaysSubscript(t *testing.T) {
	src := "def f():\n    return xs[0]\n"
	mod, err := parser.Parse(src)
	require.NoError(t, err)
	fn := mod.Stmts[0].(*ast.FunctionDef)
	ret := fn.Body[0].(*ast.Return)
	_, ok := ret.Value.(*ast.Subscript)
	assert.True(t, ok)
}

func TestParse_BinaryPrecedenceClimbing(t *testing.T) {
	src := "x = 1 + 2 * 3\n"
	mod, err := parser.Parse(src)
	require.NoError(t, err)
	assign := mod.Stmts[0].(*ast.Assign)
	bin, ok := assign.Value.(*ast.BinOp)
	require.True(t, ok)
	assert.Equal(t, "+", bin.Op)
	rhs, ok := bin.Right.(*ast.BinOp)
	require.True(t, ok, "multiplication must bind tighter than addition")
	assert.Equal(t, "*", rhs.Op)
}

func TestParse_ImportAndFromImportRecorded(t *testing.T) {
	src := "import os\nfrom collections import Counter, Deque as Dq\n"
	mod, err := parser.Parse(src)
	require.NoError(t, err)
	require.Len(t, mod.Imports, 3)
	assert.Equal(t, "os", mod.Imports[0].LocalName)
	assert.Equal(t, "Dq", mod.Imports[2].LocalName)
}

func TestParse_UnexpectedTokenIsParseError(t *testing.T) {
	src := "def f(:\n    pass\n"
	_, err := parser.Parse(src)
	require.Error(t, err)
}

// TestParse_SpanStaysWithinSource is a narrow check for testable property
// P1: every top-level statement's span starts at or after line 1, column 0
// and never reports an earlier/negative position than the source allows.
func TestParse_SpanStaysWithinSource(t *testing.T) {
	src := "x = 1\ny = 2\n"
	mod, err := parser.Parse(src)
	require.NoError(t, err)
	for _, s := range mod.Stmts {
		sp := s.Span()
		assert.GreaterOrEqual(t, sp.Start.Line, 1)
		assert.GreaterOrEqual(t, sp.Start.Column, 0)
	}
}
