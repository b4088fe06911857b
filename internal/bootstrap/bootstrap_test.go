package bootstrap_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quichelang/quiche/internal/bootstrap"
)

// copyRunner simulates a compiler stage by copying srcDir verbatim
// into outDir, which is deterministic and therefore always stabilizes.
type copyRunner struct{}

func (copyRunner) CompileTree(srcDir, outDir string) error {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return err
	}
	entries, err := os.ReadDir(srcDir)
	if err != nil {
		return err
	}
	for _, e := range entries {
		data, err := os.ReadFile(filepath.Join(srcDir, e.Name()))
		if err != nil {
			return err
		}
		if err := os.WriteFile(filepath.Join(outDir, e.Name()), data, 0o644); err != nil {
			return err
		}
	}
	return nil
}

// mismatchRunner writes a stage id into its output so stage1 and stage2
// trees visibly differ, exercising the parity-failure path.
type mismatchRunner struct{ tag string }

func (m mismatchRunner) CompileTree(srcDir, outDir string) error {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(outDir, "out.rs"), []byte("stage:"+m.tag+"\n"), 0o644)
}

func TestRun_IdenticalStagesReportParity(t *testing.T) {
	work := t.TempDir()
	src := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(src, "main.q"), []byte("def f(): pass\n"), 0o644))

	rep, err := bootstrap.Run(copyRunner{}, copyRunner{}, src, work)
	require.NoError(t, err)
	assert.True(t, rep.Parity.Equal)
	assert.Equal(t, rep.Stage1Hash, rep.Stage2Hash)
}

func TestRun_DivergentStagesReportFirstMismatch(t *testing.T) {
	work := t.TempDir()
	src := t.TempDir()

	rep, err := bootstrap.Run(mismatchRunner{tag: "one"}, mismatchRunner{tag: "two"}, src, work)
	require.NoError(t, err, "a byte-diff is a parity failure, not a build failure")
	assert.False(t, rep.Parity.Equal)
	assert.Equal(t, "out.rs", rep.Parity.FirstMismatch)
	assert.Greater(t, rep.Parity.DiffLineCount, 0)
}

func TestVerifyParity_MissingFileCountsAsMismatch(t *testing.T) {
	dir1 := t.TempDir()
	dir2 := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir1, "a.rs"), []byte("fn main() {}\n"), 0o644))

	rep, err := bootstrap.VerifyParity(dir1, dir2)
	require.NoError(t, err)
	assert.False(t, rep.Equal)
	assert.Equal(t, "a.rs", rep.FirstMismatch)
}
