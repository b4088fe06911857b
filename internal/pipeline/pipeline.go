// Package pipeline composes the front-end stages — lexer, parser,
// desugarer, semantic pass, code generator — into the single entry
// point the CLI calls (spec.md §2). The bootstrap package does not call
// it; its stages run through the StageRunner values its caller supplies.
package pipeline

import (
	"github.com/pkg/errors"

	"github.com/quichelang/quiche/internal/ast"
	"github.com/quichelang/quiche/internal/codegen"
	"github.com/quichelang/quiche/internal/desugar"
	"github.com/quichelang/quiche/internal/lexer"
	"github.com/quichelang/quiche/internal/parser"
	"github.com/quichelang/quiche/internal/sema"
)

// EmitMode selects what stage's artifact the caller wants back
// (spec.md §6 "CLI"). The CLI surface that parses flags into this enum
// is out of scope; this type is the contract the core offers it.
type EmitMode int

const (
	EmitSource EmitMode = iota
	EmitDesugaredAST
	EmitRawAST
)

// Result carries the artifacts produced up to the requested stage.
// Compile returns as soon as that artifact exists: EmitRawAST stops after
// parsing and EmitDesugaredAST after desugaring, so later stages do not
// run for those modes. Semantic diagnostics are not stored here; the
// first one is returned as Compile's error.
type Result struct {
	RawAST    *ast.Module
	Desugared *ast.Module
	Semantic  *sema.Result
	Source    string
}

// Compile runs the full pipeline over one file's text. It halts at the
// first failing stage and reports no partial emission, per spec.md §7's
// propagation policy.
func Compile(filename, src string, mode EmitMode) (*Result, error) {
	lx := lexer.New(src)
	toks, err := lx.TokenizeAll()
	if err != nil {
		return nil, errors.Wrapf(err, "%s: lex", filename)
	}
	if errs := lx.Errs(); len(errs) > 0 {
		return nil, errors.Wrapf(errs[0], "%s: lex", filename)
	}

	mod, err := parser.ParseTokens(toks)
	if err != nil {
		return nil, errors.Wrapf(err, "%s: parse", filename)
	}
	if mode == EmitRawAST {
		return &Result{RawAST: mod}, nil
	}

	desugared, err := desugar.Run(mod)
	if err != nil {
		return nil, errors.Wrapf(err, "%s: desugar", filename)
	}
	if mode == EmitDesugaredAST {
		return &Result{RawAST: mod, Desugared: desugared}, nil
	}

	semResult, semErrs := sema.Check(desugared)
	if len(semErrs) > 0 {
		return nil, errors.Wrapf(semErrs[0], "%s: semantic", filename)
	}

	out, err := codegen.EmitModule(desugared, semResult)
	if err != nil {
		return nil, errors.Wrapf(err, "%s: codegen", filename)
	}
	return &Result{RawAST: mod, Desugared: desugared, Semantic: semResult, Source: out}, nil
}
