// Package bootstrap implements the self-hosting verification controller
// (spec.md §4.6): it drives a host implementation to produce a stage-1
// build of the source-language twin, drives stage-1 to produce stage-2,
// and verifies the two outputs are byte-identical.
//
// Actually invoking a compiled artifact is the downstream native
// toolchain's job (spec.md §1 Non-goals), so each stage is represented
// here by a StageRunner collaborator supplied by the caller; this
// package owns only orchestration, hash-based stabilization, and
// parity verification.
package bootstrap

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/crypto/blake2b"

	"github.com/quichelang/quiche/internal/diag"
)

// StageRunner compiles every file in srcDir into outDir. The host stage
// is the Go pipeline itself; stage-1 and stage-2 runners wrap whatever
// self-hosted binary resulted from the previous stage — supplied by the
// caller, since invoking it is outside this package's scope.
type StageRunner interface {
	CompileTree(srcDir, outDir string) error
}

// ExcludeFromParity names artifact patterns that legitimately differ
// between stages (embedded build hashes, absolute paths) and must be
// skipped during the byte diff (spec.md §4.6 "excluding hash- and
// path-dependent artifacts").
var ExcludeFromParity = []string{".stagehash", ".buildpath"}

// Report summarizes one bootstrap run.
type Report struct {
	Stage1Dir string
	Stage2Dir string
	Stage1Hash string
	Stage2Hash string
	Parity    *ParityReport
}

// Run executes the three ordered steps (spec.md §4.6 "Algorithm"). It
// rejects a step whose output hash does not stabilize across two
// consecutive compiles of the same input, and reports the first
// failing stage as a *diag.BootstrapError.
func Run(host, stage1 StageRunner, srcTree, workDir string) (*Report, error) {
	stage1Dir := filepath.Join(workDir, "stage1")
	if err := compileStable(host, srcTree, stage1Dir); err != nil {
		return nil, &diag.BootstrapError{Stage: "stage1", Reason: "build did not stabilize", Cause: err}
	}
	stage1Hash, err := hashTree(stage1Dir)
	if err != nil {
		return nil, &diag.BootstrapError{Stage: "stage1", Reason: "hashing artifact tree failed", Cause: err}
	}

	stage2Dir := filepath.Join(workDir, "stage2")
	if err := compileStable(stage1, srcTree, stage2Dir); err != nil {
		return nil, &diag.BootstrapError{Stage: "stage2", Reason: "build did not stabilize", Cause: err}
	}
	stage2Hash, err := hashTree(stage2Dir)
	if err != nil {
		return nil, &diag.BootstrapError{Stage: "stage2", Reason: "hashing artifact tree failed", Cause: err}
	}

	parity, err := VerifyParity(stage1Dir, stage2Dir)
	if err != nil {
		return nil, &diag.BootstrapError{Stage: "verify", Reason: "parity check failed to run", Cause: err}
	}

	return &Report{
		Stage1Dir:  stage1Dir,
		Stage2Dir:  stage2Dir,
		Stage1Hash: stage1Hash,
		Stage2Hash: stage2Hash,
		Parity:     parity,
	}, nil
}

// compileStable runs the stage twice into a scratch directory and the
// real output directory, and fails unless their content hashes match —
// the "output hash does not stabilize" rejection (spec.md §4.6).
func compileStable(runner StageRunner, srcTree, outDir string) error {
	scratch := outDir + ".verify"
	defer os.RemoveAll(scratch)

	if err := runner.CompileTree(srcTree, outDir); err != nil {
		return fmt.Errorf("first compile: %w", err)
	}
	if err := runner.CompileTree(srcTree, scratch); err != nil {
		return fmt.Errorf("stabilization compile: %w", err)
	}
	h1, err := hashTree(outDir)
	if err != nil {
		return err
	}
	h2, err := hashTree(scratch)
	if err != nil {
		return err
	}
	if h1 != h2 {
		return fmt.Errorf("output hash changed between consecutive compiles of the same input (%s vs %s)", h1, h2)
	}
	return nil
}

// hashTree computes a blake2b digest over every regular file's path and
// content in sorted order, used as a fast stabilization signal ahead of
// the full byte diff in VerifyParity (SPEC_FULL.md §5).
func hashTree(root string) (string, error) {
	var paths []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || excluded(path) {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		paths = append(paths, rel)
		return nil
	})
	if err != nil {
		return "", err
	}
	sort.Strings(paths)

	h, err := blake2b.New256(nil)
	if err != nil {
		return "", err
	}
	for _, rel := range paths {
		data, err := os.ReadFile(filepath.Join(root, rel))
		if err != nil {
			return "", err
		}
		h.Write([]byte(rel))
		h.Write(data)
	}
	return fmt.Sprintf("%x", h.Sum(nil)), nil
}

func excluded(path string) bool {
	for _, pat := range ExcludeFromParity {
		if strings.Contains(path, pat) {
			return true
		}
	}
	return false
}

// ParityReport is the outcome of a recursive file-by-file byte diff
// between two output trees (spec.md §4.6, invariant P7).
type ParityReport struct {
	Equal         bool
	FirstMismatch string
	DiffLineCount int
}

// VerifyParity walks dir1 and reports the first file whose content in
// dir2 differs, along with the number of differing lines (spec.md
// §4.6 "On difference, the controller reports the first mismatching
// file and a line-count of the diff"). A byte-diff is reported but is
// not itself a build failure; only Run's stabilization check is fatal
// to the build.
func VerifyParity(dir1, dir2 string) (*ParityReport, error) {
	var rels []string
	err := filepath.WalkDir(dir1, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || excluded(path) {
			return nil
		}
		rel, err := filepath.Rel(dir1, path)
		if err != nil {
			return err
		}
		rels = append(rels, rel)
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(rels)

	for _, rel := range rels {
		a, err := os.ReadFile(filepath.Join(dir1, rel))
		if err != nil {
			return nil, err
		}
		b, err := os.ReadFile(filepath.Join(dir2, rel))
		if err != nil {
			return &ParityReport{Equal: false, FirstMismatch: rel, DiffLineCount: len(strings.Split(string(a), "\n"))}, nil
		}
		if string(a) == string(b) {
			continue
		}
		diff := cmp.Diff(string(a), string(b))
		return &ParityReport{
			Equal:         false,
			FirstMismatch: rel,
			DiffLineCount: strings.Count(diff, "\n"),
		}, nil
	}
	return &ParityReport{Equal: true}, nil
}
