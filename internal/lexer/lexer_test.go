package lexer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quichelang/quiche/internal/lexer"
	"github.com/quichelang/quiche/internal/token"
)

func types(toks []token.Token) []token.Type {
	out := make([]token.Type, len(toks))
	for i, t := range toks {
		out[i] = t.Type
	}
	return out
}

func TestTokenizeAll_IndentationProducesIndentDedent(t *testing.T) {
	src := "def f():\n    pass\nx = 1\n"
	toks, err := lexer.New(src).TokenizeAll()
	require.NoError(t, err)
	got := types(toks)
	assert.Contains(t, got, token.INDENT)
	assert.Contains(t, got, token.DEDENT)

	var sawIndent, sawDedentBeforeX bool
	for i, ty := range got {
		if ty == token.INDENT {
			sawIndent = true
		}
		if ty == token.DEDENT && !sawDedentBeforeX {
			sawDedentBeforeX = true
			// the next content token should be the `x` identifier.
			next := toks[i+1]
			assert.Equal(t, token.IDENT, next.Type)
			assert.Equal(t, "x", next.Text)
		}
	}
	assert.True(t, sawIndent)
	assert.True(t, sawDedentBeforeX)
}

func TestTokenizeAll_NestedIndentationEmitsMultipleDedents(t *testing.T) {
	src := "if a:\n    if b:\n        pass\nx = 1\n"
	toks, err := lexer.New(src).TokenizeAll()
	require.NoError(t, err)
	count := 0
	for _, ty := range types(toks) {
		if ty == token.DEDENT {
			count++
		}
	}
	assert.Equal(t, 2, count)
}

func TestTokenizeAll_BlankAndCommentOnlyLinesProduceNoLayoutTokens(t *testing.T) {
	src := "x = 1\n\n# a comment\ny = 2\n"
	toks, err := lexer.New(src).TokenizeAll()
	require.NoError(t, err)
	for _, ty := range types(toks) {
		assert.NotEqual(t, token.INDENT, ty)
		assert.NotEqual(t, token.DEDENT, ty)
	}
}

func TestTokenizeAll_MixedTabsAndSpacesIsLexError(t *testing.T) {
	src := "if a:\n\t    pass\n"
	_, err := lexer.New(src).TokenizeAll()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "tabs and spaces")
}

func TestTokenizeAll_DedentToUnknownLevelIsLexError(t *testing.T) {
	src := "if a:\n        pass\n    pass\n"
	_, err := lexer.New(src).TokenizeAll()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dedent")
}

func TestTokenizeAll_FStringSplitsIntoStartExprEnd(t *testing.T) {
	src := `x = f"hi {name}!"` + "\n"
	toks, err := lexer.New(src).TokenizeAll()
	require.NoError(t, err)
	got := types(toks)
	assert.Contains(t, got, token.FSTRING_START)
	assert.Contains(t, got, token.FSTRING_END)

	var chunkTexts []string
	var exprText string
	for i, ty := range got {
		if ty == token.FSTRING_START {
			chunkTexts = append(chunkTexts, toks[i].Text)
		}
		if ty == token.IDENT && toks[i].Text == "name" {
			exprText = toks[i].Text
		}
	}
	assert.Equal(t, "hi ", chunkTexts[0])
	assert.Equal(t, "name", exprText)
}

func TestTokenizeAll_PlainFStringWithNoInterpolationIsOneChunk(t *testing.T) {
	src := `x = f"no braces here"` + "\n"
	toks, err := lexer.New(src).TokenizeAll()
	require.NoError(t, err)
	var found bool
	for _, tk := range toks {
		if tk.Type == token.FSTRING_START && tk.Text == "no braces here" {
			found = true
		}
	}
	assert.True(t, found)
}

func TestTokenizeAll_NumberLiterals(t *testing.T) {
	tests := []struct {
		name string
		src  string
		typ  token.Type
		text string
	}{
		{"int", "42\n", token.INT, "42"},
		{"float", "3.14\n", token.FLOAT, "3.14"},
		{"exponent", "1e10\n", token.FLOAT, "1e10"},
		{"hex", "0xFF\n", token.INT, "0xFF"},
		{"binary", "0b1010\n", token.INT, "0b1010"},
		{"octal", "0o17\n", token.INT, "0o17"},
		{"underscore separated", "1_000\n", token.INT, "1_000"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			toks, err := lexer.New(tt.src).TokenizeAll()
			require.NoError(t, err)
			require.Equal(t, tt.typ, toks[0].Type)
			assert.Equal(t, tt.text, toks[0].Text)
		})
	}
}

func TestTokenizeAll_OperatorsAndKeywords(t *testing.T) {
	src := "x -> y |> z // 2\n"
	toks, err := lexer.New(src).TokenizeAll()
	require.NoError(t, err)
	got := types(toks)
	assert.Contains(t, got, token.ARROW)
	assert.Contains(t, got, token.PIPE_GT)
	assert.Contains(t, got, token.DSLASH)
}

func TestTokenizeAll_KeywordIdentifierRecognized(t *testing.T) {
	src := "assert x\n"
	toks, err := lexer.New(src).TokenizeAll()
	require.NoError(t, err)
	require.Equal(t, token.ASSERT, toks[0].Type)
}

func TestTokenizeAll_IllegalCharacterIsLexError(t *testing.T) {
	src := "x = $\n"
	_, err := lexer.New(src).TokenizeAll()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "illegal character")
}

func TestTokenizeAll_UnterminatedStringIsLexError(t *testing.T) {
	src := "x = \"unterminated\n"
	_, err := lexer.New(src).TokenizeAll()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unterminated")
}

func TestTokenizeAll_TripleQuotedStringSpansLines(t *testing.T) {
	src := "x = \"\"\"line one\nline two\"\"\"\n"
	toks, err := lexer.New(src).TokenizeAll()
	require.NoError(t, err)
	var found bool
	for _, tk := range toks {
		if tk.Type == token.STRING {
			assert.Contains(t, tk.Text, "line one")
			assert.Contains(t, tk.Text, "line two")
			found = true
		}
	}
	assert.True(t, found)
}

// TestTokenizeAll_EveryStreamEndsInEOF covers testable property P8's
// precondition: every token stream is terminated, never truncated.
func TestTokenizeAll_EveryStreamEndsInEOF(t *testing.T) {
	srcs := []string{
		"",
		"x = 1\n",
		"def f():\n    pass\n",
		"if a:\n    b\nelse:\n    c\n",
	}
	for _, src := range srcs {
		toks, err := lexer.New(src).TokenizeAll()
		require.NoError(t, err)
		require.NotEmpty(t, toks)
		assert.Equal(t, token.EOF, toks[len(toks)-1].Type)
	}
}
