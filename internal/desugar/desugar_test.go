package desugar_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quichelang/quiche/internal/ast"
	"github.com/quichelang/quiche/internal/desugar"
	"github.com/quichelang/quiche/internal/diag"
)

func name(id string) *ast.Name { return &ast.Name{Id: id} }

func TestRun_ConstDetection(t *testing.T) {
	tests := []struct {
		name      string
		stmt      ast.Stmt
		wantConst bool
	}{
		{
			name: "screaming case assign becomes const",
			stmt: &ast.Assign{Targets: []ast.Expr{name("MAX_SIZE")}, Value: &ast.NumberLiteral{Kind: ast.NumInt, Text: "64"}},
			wantConst: true,
		},
		{
			name: "lowercase assign stays a plain assign",
			stmt: &ast.Assign{Targets: []ast.Expr{name("total")}, Value: &ast.NumberLiteral{Kind: ast.NumInt, Text: "64"}},
			wantConst: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mod := ast.NewModule()
			mod.Stmts = []ast.Stmt{tt.stmt}
			out, err := desugar.Run(mod)
			require.NoError(t, err)
			require.Len(t, out.Stmts, 1)
			_, isConst := out.Stmts[0].(*ast.ConstDef)
			assert.Equal(t, tt.wantConst, isConst)
		})
	}
}

func TestRun_ScreamingNameInsideFunctionStaysPlainAssign(t *testing.T) {
	fn := &ast.FunctionDef{
		Name: "f",
		Body: []ast.Stmt{
			&ast.Assign{Targets: []ast.Expr{name("MAX_SIZE")}, Value: &ast.NumberLiteral{Kind: ast.NumInt, Text: "64"}},
			&ast.Return{Value: name("MAX_SIZE")},
		},
	}
	mod := ast.NewModule()
	mod.Stmts = []ast.Stmt{fn}
	out, err := desugar.Run(mod)
	require.NoError(t, err)

	outFn := out.Stmts[0].(*ast.FunctionDef)
	require.Len(t, outFn.Body, 2)
	_, isAssign := outFn.Body[0].(*ast.Assign)
	assert.True(t, isAssign, "function-scope SCREAMING_NAME stays a plain assign, not a ConstDef")
}

func TestRun_MacroDecoratorRejected(t *testing.T) {
	fn := &ast.FunctionDef{
		Name:       "f",
		Decorators: []ast.Decorator{{Name: "macro"}},
	}
	mod := ast.NewModule()
	mod.Stmts = []ast.Stmt{fn}
	_, err := desugar.Run(mod)
	require.Error(t, err)
	var de *diag.DesugarError
	require.ErrorAs(t, err, &de)
	assert.Contains(t, de.Reason, "@macro")
}

func TestRun_UnknownDecoratorSuggestsKnownOne(t *testing.T) {
	fn := &ast.FunctionDef{
		Name:       "f",
		Decorators: []ast.Decorator{{Name: "implment"}}, // typo of "implement"
	}
	mod := ast.NewModule()
	mod.Stmts = []ast.Stmt{fn}
	_, err := desugar.Run(mod)
	require.Error(t, err)
	var de *diag.DesugarError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "implement", de.Suggestion)
}

func TestRun_DefaultArgumentRejected(t *testing.T) {
	fn := &ast.FunctionDef{
		Name:   "f",
		Params: []ast.Param{{Name: "x", Default: &ast.NumberLiteral{Kind: ast.NumInt, Text: "1"}}},
	}
	mod := ast.NewModule()
	mod.Stmts = []ast.Stmt{fn}
	_, err := desugar.Run(mod)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "default")
}

func TestRun_ClassAsStruct(t *testing.T) {
	cls := &ast.ClassDef{
		Name:  "Point",
		Bases: []string{"Struct"},
		Body: []ast.Stmt{
			&ast.AnnAssign{Target: name("x"), Type: name("Int")},
			&ast.AnnAssign{Target: name("y"), Type: name("Int")},
		},
	}
	mod := ast.NewModule()
	mod.Stmts = []ast.Stmt{cls}
	out, err := desugar.Run(mod)
	require.NoError(t, err)
	require.Len(t, out.Stmts, 1)
	td, ok := out.Stmts[0].(*ast.TypeDef)
	require.True(t, ok, "expected a TypeDef, got %T", out.Stmts[0])
	assert.Equal(t, "Point", td.Name)
	require.Len(t, td.Fields, 2)
	assert.Equal(t, "x", td.Fields[0].Name)
	assert.Equal(t, "y", td.Fields[1].Name)
}

func TestRun_ClassAsEnum(t *testing.T) {
	cls := &ast.ClassDef{
		Name:  "Color",
		Bases: []string{"Enum"},
		Body: []ast.Stmt{
			&ast.Assign{Targets: []ast.Expr{name("Red")}},
			&ast.Assign{Targets: []ast.Expr{name("Blue")}},
		},
	}
	mod := ast.NewModule()
	mod.Stmts = []ast.Stmt{cls}
	out, err := desugar.Run(mod)
	require.NoError(t, err)
	td := out.Stmts[0].(*ast.TypeDef)
	require.Len(t, td.Variants, 2)
	assert.Equal(t, "Red", td.Variants[0].Name)
	assert.Equal(t, "Blue", td.Variants[1].Name)
}

func TestRun_ClassMultipleBasesRejected(t *testing.T) {
	cls := &ast.ClassDef{Name: "X", Bases: []string{"Struct", "Trait"}}
	mod := ast.NewModule()
	mod.Stmts = []ast.Stmt{cls}
	_, err := desugar.Run(mod)
	require.Error(t, err)
}

func TestRun_TypeUnionBecomesEnum(t *testing.T) {
	td := &ast.TypeDef{
		Name:  "Shape",
		Union: []ast.Expr{name("Circle"), name("Square")},
	}
	mod := ast.NewModule()
	mod.Stmts = []ast.Stmt{td}
	out, err := desugar.Run(mod)
	require.NoError(t, err)
	got := out.Stmts[0].(*ast.TypeDef)
	require.Len(t, got.Variants, 2)
	assert.Equal(t, "Circle", got.Variants[0].Name)
	assert.Equal(t, "Square", got.Variants[1].Name)
}

func TestRun_FStringLoweredToFormatCall(t *testing.T) {
	fstr := &ast.FString{
		Parts: []ast.FStringPart{
			{Literal: "hello "},
			{Literal: "", Expr: name("who")},
			{Literal: "!"},
		},
	}
	mod := ast.NewModule()
	mod.Stmts = []ast.Stmt{&ast.ExprStmt{X: fstr}}
	out, err := desugar.Run(mod)
	require.NoError(t, err)
	es := out.Stmts[0].(*ast.ExprStmt)
	call, ok := es.X.(*ast.Call)
	require.True(t, ok)
	fn, ok := call.Func.(*ast.Name)
	require.True(t, ok)
	assert.Equal(t, "format", fn.Id)
	require.Len(t, call.Args, 2)
	lit := call.Args[0].(*ast.StringLiteral)
	assert.Equal(t, "hello {}!", lit.Value)
}

func TestRun_ListComprehensionLoweredToIteratorChain(t *testing.T) {
	comp := &ast.Comprehension{
		Kind:    ast.CompList,
		Element: name("x"),
		Target:  name("x"),
		Iter:    name("xs"),
		Ifs:     []ast.Expr{name("cond")},
	}
	mod := ast.NewModule()
	mod.Stmts = []ast.Stmt{&ast.ExprStmt{X: comp}}
	out, err := desugar.Run(mod)
	require.NoError(t, err)
	es := out.Stmts[0].(*ast.ExprStmt)

	collect, ok := es.X.(*ast.Call)
	require.True(t, ok)
	collectAttr := collect.Func.(*ast.Attribute)
	assert.Equal(t, "collect", collectAttr.Attr)

	mapCall, ok := collectAttr.Value.(*ast.Call)
	require.True(t, ok)
	mapAttr := mapCall.Func.(*ast.Attribute)
	assert.Equal(t, "map", mapAttr.Attr)

	filterCall, ok := mapAttr.Value.(*ast.Call)
	require.True(t, ok)
	filterAttr := filterCall.Func.(*ast.Attribute)
	assert.Equal(t, "filter", filterAttr.Attr)

	iterCall, ok := filterAttr.Value.(*ast.Call)
	require.True(t, ok)
	iterAttr := iterCall.Func.(*ast.Attribute)
	assert.Equal(t, "iter", iterAttr.Attr)
}

func TestRun_DictComprehensionPairsKeyAndValue(t *testing.T) {
	comp := &ast.Comprehension{
		Kind:    ast.CompDict,
		Key:     name("k"),
		Element: name("v"),
		Target:  name("k"),
		Iter:    name("pairs"),
	}
	mod := ast.NewModule()
	mod.Stmts = []ast.Stmt{&ast.ExprStmt{X: comp}}
	out, err := desugar.Run(mod)
	require.NoError(t, err)
	es := out.Stmts[0].(*ast.ExprStmt)
	collect := es.X.(*ast.Call)
	mapCall := collect.Func.(*ast.Attribute).Value.(*ast.Call)
	mapFn := mapCall.Args[0].(*ast.Lambda)
	pair, ok := mapFn.Body.(*ast.Tuple)
	require.True(t, ok)
	require.Len(t, pair.Elts, 2)
}

func TestRun_AssertLoweredToConditionalPanic(t *testing.T) {
	call := &ast.Call{Func: name("assert"), Args: []ast.Expr{
		&ast.Compare{Ops: []string{">"}, Operands: []ast.Expr{name("n"), &ast.NumberLiteral{Kind: ast.NumInt, Text: "0"}}},
		&ast.StringLiteral{Value: "n must be positive"},
	}}
	mod := ast.NewModule()
	mod.Stmts = []ast.Stmt{&ast.ExprStmt{X: call}}
	out, err := desugar.Run(mod)
	require.NoError(t, err)
	require.Len(t, out.Stmts, 1)

	ifStmt, ok := out.Stmts[0].(*ast.If)
	require.True(t, ok)
	require.Len(t, ifStmt.Body, 1)

	notCond, ok := ifStmt.Cond.(*ast.UnaryOp)
	require.True(t, ok)
	assert.Equal(t, "not", notCond.Op)

	panicStmt := ifStmt.Body[0].(*ast.ExprStmt)
	panicCall := panicStmt.X.(*ast.Call)
	panicFn := panicCall.Func.(*ast.Name)
	assert.Equal(t, "panic", panicFn.Id)
	msg := panicCall.Args[0].(*ast.StringLiteral)
	assert.Equal(t, "n must be positive", msg.Value)
}

func TestRun_AssertWithoutMessageGetsDefaultPanicMessage(t *testing.T) {
	call := &ast.Call{Func: name("assert"), Args: []ast.Expr{name("ok")}}
	mod := ast.NewModule()
	mod.Stmts = []ast.Stmt{&ast.ExprStmt{X: call}}
	out, err := desugar.Run(mod)
	require.NoError(t, err)

	ifStmt := out.Stmts[0].(*ast.If)
	panicStmt := ifStmt.Body[0].(*ast.ExprStmt)
	panicCall := panicStmt.X.(*ast.Call)
	msg := panicCall.Args[0].(*ast.StringLiteral)
	assert.Equal(t, "assertion failed", msg.Value)
}
