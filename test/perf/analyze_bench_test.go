package perf

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/codewithboateng/purslint/internal/engine"
	"github.com/codewithboateng/purslint/internal/shared"
)

const benchSample = `module App.Bench
  ( runAll
  , bad_check
  ) where

import Prelude

import App.Bench.Internal (b, a, c)

runAll :: Effect Unit
runAll = bad_check unit

bad_check x = case x of
    true -> one
    false -> other
`

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func writeBenchTree(b *testing.B) string {
	b.Helper()
	dir := b.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "bench.purs"), []byte(benchSample), 0o644); err != nil {
		b.Fatal(err)
	}
	return dir
}

// Cold path: a fresh engine each iteration, so every file is read, parsed,
// and evaluated from scratch.
func BenchmarkCheck_Small(b *testing.B) {
	dir := writeBenchTree(b)
	cfg := shared.DefaultConfig()
	log := quietLogger()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		run, err := engine.New(cfg, log).Check(context.Background(), dir)
		if err != nil {
			b.Fatal(err)
		}
		if len(run.Files) == 0 {
			b.Fatal("no files checked")
		}
	}
}

// Warm path: one engine across iterations, so repeat checks come from the
// result cache. This is the watch-mode steady state.
func BenchmarkCheck_WarmCache(b *testing.B) {
	dir := writeBenchTree(b)
	eng := engine.New(shared.DefaultConfig(), quietLogger())
	if _, err := eng.Check(context.Background(), dir); err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		run, err := eng.Check(context.Background(), dir)
		if err != nil {
			b.Fatal(err)
		}
		if len(run.Files) == 0 {
			b.Fatal("no files checked")
		}
	}
}
