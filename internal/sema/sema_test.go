package sema_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quichelang/quiche/internal/ast"
	"github.com/quichelang/quiche/internal/sema"
)

func name(id string) *ast.Name { return &ast.Name{Id: id} }

func TestCheck_UnresolvedNameReported(t *testing.T) {
	mod := ast.NewModule()
	mod.Stmts = []ast.Stmt{
		&ast.ExprStmt{X: name("mystery")},
	}
	_, errs := sema.Check(mod)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Error(), "mystery")
}

func TestCheck_DuplicateTopLevelSymbol(t *testing.T) {
	mod := ast.NewModule()
	mod.Stmts = []ast.Stmt{
		&ast.FunctionDef{Name: "run"},
		&ast.FunctionDef{Name: "run"},
	}
	_, errs := sema.Check(mod)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Error(), "duplicate")
}

func TestCheck_ForwardReferenceResolves(t *testing.T) {
	mod := ast.NewModule()
	mod.Stmts = []ast.Stmt{
		&ast.FunctionDef{Name: "a", Body: []ast.Stmt{
			&ast.ExprStmt{X: &ast.Call{Func: name("b")}},
		}},
		&ast.FunctionDef{Name: "b"},
	}
	_, errs := sema.Check(mod)
	assert.Empty(t, errs)
}

func TestCheck_ConstWithNonLiteralInitializerRejected(t *testing.T) {
	mod := ast.NewModule()
	mod.Stmts = []ast.Stmt{
		&ast.FunctionDef{Name: "compute"},
		&ast.ConstDef{Name: "SIZE", Value: &ast.Call{Func: name("compute")}},
	}
	_, errs := sema.Check(mod)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Error(), "literal or const expression")
}

func TestCheck_ConstWithLiteralInitializerAccepted(t *testing.T) {
	mod := ast.NewModule()
	mod.Stmts = []ast.Stmt{
		&ast.ConstDef{Name: "SIZE", Value: &ast.NumberLiteral{Kind: ast.NumInt, Text: "64"}},
	}
	_, errs := sema.Check(mod)
	assert.Empty(t, errs)
}

func TestCheck_CallArityMismatchReported(t *testing.T) {
	mod := ast.NewModule()
	mod.Stmts = []ast.Stmt{
		&ast.FunctionDef{Name: "add", Params: []ast.Param{{Name: "a"}, {Name: "b"}}},
		&ast.ExprStmt{X: &ast.Call{Func: name("add"), Args: []ast.Expr{&ast.NumberLiteral{Kind: ast.NumInt, Text: "1"}}}},
	}
	_, errs := sema.Check(mod)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Error(), "expects 2 argument")
}

func TestCheck_TypeGenericArityMismatch(t *testing.T) {
	mod := ast.NewModule()
	mod.Stmts = []ast.Stmt{
		&ast.TypeDef{Name: "Pair", TypeParams: []ast.TypeParam{{Name: "A"}, {Name: "B"}}},
		&ast.FunctionDef{
			Name: "f",
			Params: []ast.Param{
				{Name: "p", Type: &ast.Call{Func: name("Pair"), Args: []ast.Expr{name("Int")}}},
			},
		},
	}
	_, errs := sema.Check(mod)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Error(), "expects 2 type argument")
}

func TestCheck_MutRefParamMarksBorrow(t *testing.T) {
	mod := ast.NewModule()
	mod.Stmts = []ast.Stmt{
		&ast.FunctionDef{
			Name: "grow",
			Params: []ast.Param{
				{Name: "buf", Type: &ast.Call{Func: name("MutRef"), Args: []ast.Expr{name("List")}}},
			},
			Body: []ast.Stmt{
				&ast.ExprStmt{X: &ast.Call{Func: &ast.Attribute{Value: name("buf"), Attr: "push"}, Args: []ast.Expr{name("buf")}}},
			},
		},
	}
	res, errs := sema.Check(mod)
	require.Empty(t, errs)
	require.NotNil(t, res)
}
