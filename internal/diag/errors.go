package diag

import (
	"fmt"

	"github.com/pkg/errors"
)

// LexError is raised by the lexer: unterminated literal, bad escape,
// illegal character, or inconsistent indentation (spec.md §7).
type LexError struct {
	Span   Span
	Reason string
}

func (e *LexError) Error() string {
	return fmt.Sprintf("%s: lex error: %s", e.Span, e.Reason)
}

// ParseError is raised by the parser: unexpected token, missing
// punctuation, malformed pattern, invalid decorator form.
type ParseError struct {
	Span     Span
	Expected string
	Found    string
}

func (e *ParseError) Error() string {
	if e.Expected == "" {
		return fmt.Sprintf("%s: unexpected %s", e.Span, e.Found)
	}
	return fmt.Sprintf("%s: expected %s, found %s", e.Span, e.Expected, e.Found)
}

// DesugarError is raised by the lowering pass: unrecognized decorator,
// a default argument (rejected by policy), or a reserved form that is
// not implemented.
type DesugarError struct {
	Span       Span
	Reason     string
	Suggestion string
}

func (e *DesugarError) Error() string {
	if e.Suggestion != "" {
		return fmt.Sprintf("%s: %s (did you mean %q?)", e.Span, e.Reason, e.Suggestion)
	}
	return fmt.Sprintf("%s: %s", e.Span, e.Reason)
}

// SemanticError is raised during name resolution and classification:
// unresolved name, duplicate top-level symbol, wrong generic arity,
// trait bound syntax error, non-literal const initializer.
type SemanticError struct {
	Span       Span
	Reason     string
	Suggestion string
}

func (e *SemanticError) Error() string {
	if e.Suggestion != "" {
		return fmt.Sprintf("%s: %s (did you mean %q?)", e.Span, e.Reason, e.Suggestion)
	}
	return fmt.Sprintf("%s: %s", e.Span, e.Reason)
}

// CodegenError is raised by the emitter: invalid type shape,
// non-exhaustive match with no wildcard, conflicting let-rebinding.
type CodegenError struct {
	Span   Span
	Kind   string
	Reason string
}

func (e *CodegenError) Error() string {
	return fmt.Sprintf("%s: codegen error (%s): %s", e.Span, e.Kind, e.Reason)
}

// BootstrapError wraps a stage build failure or a parity verification
// failure (spec.md §4.6, §7).
type BootstrapError struct {
	Stage  string
	Reason string
	Cause  error
}

func (e *BootstrapError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("stage %s: %s: %v", e.Stage, e.Reason, e.Cause)
	}
	return fmt.Sprintf("stage %s: %s", e.Stage, e.Reason)
}

func (e *BootstrapError) Unwrap() error { return e.Cause }

// Wrap attaches stage context to an underlying error without discarding
// it, so a top-level reporter can print the full cause chain.
func Wrap(err error, stage string) error {
	if err == nil {
		return nil
	}
	return errors.WithMessage(err, stage)
}
