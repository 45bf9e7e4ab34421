// Package driver orchestrates semantic runs over multiple serialized
// trees. Each file gets its own Analyzer state, so runs are independent
// and safe to execute in parallel.
package driver

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"golang.org/x/sync/errgroup"

	"marlin/internal/ast"
	"marlin/internal/sema"
	"marlin/internal/treeio"
)

// Options configure a multi-file run.
type Options struct {
	// Jobs bounds concurrent analyses; 0 means one per CPU.
	Jobs int
	// MaxDiagnostics caps each file's bag; 0 means no limit.
	MaxDiagnostics int
	// MaxDepth overrides the analyzer recursion limit when positive.
	MaxDepth int
}

// FileResult is the outcome for one input file. Err covers I/O and
// decode failures; semantic findings land in Res.Bag instead.
type FileResult struct {
	Path string
	Res  sema.Result
	Err  error
}

// AnalyzeFiles loads and analyzes every path. Results come back in
// input order regardless of which analysis finished first. The context
// cancels pending work; files already analyzed keep their results.
func AnalyzeFiles(ctx context.Context, paths []string, opts Options) ([]FileResult, error) {
	if len(paths) == 0 {
		return nil, nil
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}

	results := make([]FileResult, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)

	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = analyzeFile(path, opts)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}

// AnalyzeTree runs one in-memory tree through a fresh analyzer.
func AnalyzeTree(root *ast.Node, opts Options) sema.Result {
	return sema.Analyze(root, sema.Options{
		MaxDiagnostics: opts.MaxDiagnostics,
		MaxDepth:       opts.MaxDepth,
	})
}

func analyzeFile(path string, opts Options) FileResult {
	out := FileResult{Path: path}
	root, err := loadTree(path)
	if err != nil {
		out.Err = err
		return out
	}
	out.Res = AnalyzeTree(root, opts)
	return out
}

// loadTree picks the decoder by extension: .msgpack is the binary
// format, everything else is treated as JSON.
func loadTree(path string) (*ast.Node, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if strings.EqualFold(filepath.Ext(path), ".msgpack") {
		return treeio.DecodeMsgpack(data)
	}
	return treeio.DecodeJSON(bytes.NewReader(data))
}
