// Command quichec is a thin driver over the compiler core: it reads one
// input file, runs the pipeline, and prints the requested artifact.
// Project scaffolding, manifest generation, and invoking the downstream
// native toolchain are out of scope (spec.md §1) and not implemented
// here.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/quichelang/quiche/internal/pipeline"
)

// Exit code constants, mirrored after the core's error taxonomy
// (spec.md §7): any non-zero code signals the pipeline halted at some
// stage without emitting.
const (
	exitSuccess      = 0
	exitInvalidUsage = 1
	exitIOError      = 2
	exitCompileError = 3
)

func main() {
	var (
		emitDesugared bool
		emitRawAST    bool
	)

	root := &cobra.Command{
		Use:     "quichec [file]",
		Short:   "Compile a Quiche source file to RustOut",
		Version: "0.1.0",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			data, err := os.ReadFile(path)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(exitIOError)
			}

			mode := pipeline.EmitSource
			switch {
			case emitRawAST:
				mode = pipeline.EmitRawAST
			case emitDesugared:
				mode = pipeline.EmitDesugaredAST
			}

			res, err := pipeline.Compile(path, string(data), mode)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(exitCompileError)
			}

			switch mode {
			case pipeline.EmitRawAST:
				fmt.Fprintf(cmd.OutOrStdout(), "%+v\n", res.RawAST)
			case pipeline.EmitDesugaredAST:
				fmt.Fprintf(cmd.OutOrStdout(), "%+v\n", res.Desugared)
			default:
				fmt.Fprint(cmd.OutOrStdout(), res.Source)
			}
			return nil
		},
	}

	root.Flags().BoolVar(&emitDesugared, "emit-desugared-ast", false, "print the desugared AST instead of emitting source")
	root.Flags().BoolVar(&emitRawAST, "emit-raw-ast", false, "print the raw parsed AST instead of emitting source")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitInvalidUsage)
	}
	os.Exit(exitSuccess)
}
