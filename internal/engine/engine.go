package engine

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/codewithboateng/purslint/internal/ir"
	"github.com/codewithboateng/purslint/internal/metrics"
	"github.com/codewithboateng/purslint/internal/parser"
	"github.com/codewithboateng/purslint/internal/rules"
	"github.com/codewithboateng/purslint/internal/shared"
)

// Engine runs the check pipeline over a source tree: collect files, parse,
// annotate metrics, evaluate rules, assemble a Run. Per-file checks run
// concurrently; each file's result lands in its own slot, so the assembled
// run is deterministic for a given tree and settings.
type Engine struct {
	cfg   shared.Config
	log   *slog.Logger
	cache *resultCache
}

func New(cfg shared.Config, log *slog.Logger) *Engine {
	return &Engine{
		cfg:   cfg,
		log:   log,
		cache: newResultCache(cfg.Engine.CacheSize, cfg.EngineCacheTTL()),
	}
}

// Check walks root (a directory or a single file), checks every .purs file
// found, and returns the assembled run. Unreadable or unparsable files
// become per-file diagnostics, not errors; only a missing root or a
// canceled context fails the run as a whole.
func (e *Engine) Check(ctx context.Context, root string) (*ir.Run, error) {
	e.applySettings()

	paths, walkDiags, err := collectFiles(root)
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		e.log.Warn("no .purs files found", "path", root)
	}

	results := make([]ir.FileResult, len(paths))
	perFile := make([][]ir.Violation, len(paths))

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(e.workers())
	for i, p := range paths {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i], perFile[i] = e.checkFile(p)
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	run := &ir.Run{
		ID:        uuid.NewString(),
		StartedAt: time.Now().UTC(),
		Source:    filepath.Clean(root),
		IRVersion: ir.Version,
		Context:   contextFrom(e.cfg),
	}
	run.Files = append(run.Files, walkDiags...)
	run.Files = append(run.Files, results...)
	sort.Slice(run.Files, func(i, j int) bool { return run.Files[i].Path < run.Files[j].Path })
	for _, vs := range perFile {
		run.Violations = append(run.Violations, vs...)
	}
	ir.SortViolations(run.Violations)
	return run, nil
}

// CacheStats returns cumulative cache hit and miss counts.
func (e *Engine) CacheStats() (hits, misses int64) {
	return e.cache.stats()
}

// applySettings pushes the config snapshot into the rule package before a
// run. Safe to call repeatedly; watch mode re-checks with the same config.
func (e *Engine) applySettings() {
	cats := make(map[string]bool, len(e.cfg.Checks.EnabledRuleCategories))
	for _, c := range e.cfg.Checks.EnabledRuleCategories {
		cats[c] = true
	}
	dis := make(map[string]bool, len(e.cfg.Checks.DisabledRules))
	for _, id := range e.cfg.Checks.DisabledRules {
		dis[strings.ToUpper(id)] = true
	}
	rules.SetSettings(rules.Settings{
		MaxLineLength:        e.cfg.Checks.MaxLineLength,
		IndentSize:           e.cfg.Checks.IndentSize,
		NestedIndentSize:     e.cfg.Checks.NestedIndentSize,
		ArrowIndentThreshold: e.cfg.Checks.MaxArrowIndentThreshold,
		MaxMatcherBodyLines:  e.cfg.Checks.MaxMatcherBodyLines,
		Categories:           cats,
		SeverityThreshold:    e.cfg.Checks.SeverityThreshold,
		Disabled:             dis,
		LocalPrefixes:        e.cfg.Imports.LocalPrefixes,
	})
}

func (e *Engine) workers() int {
	if e.cfg.Engine.Workers > 0 {
		return e.cfg.Engine.Workers
	}
	return runtime.GOMAXPROCS(0)
}

// checkFile checks one file, consulting the cache first. IO and parse
// failures come back as diagnostics on the FileResult.
func (e *Engine) checkFile(path string) (ir.FileResult, []ir.Violation) {
	fr := ir.FileResult{Path: path}

	st, err := os.Stat(path)
	if err != nil {
		fr.Diagnostics = append(fr.Diagnostics, ioDiag(path, err))
		return fr, nil
	}
	if r, ok := e.cache.get(path, st.Size(), st.ModTime()); ok {
		return r.file, r.violations
	}

	b, err := os.ReadFile(path)
	if err != nil {
		fr.Diagnostics = append(fr.Diagnostics, ioDiag(path, err))
		return fr, nil
	}

	sf, err := parser.ParseSource(path, string(b))
	if err != nil {
		fr.Diagnostics = append(fr.Diagnostics, ir.Diagnostic{
			File: path, Kind: ir.DiagParse, Message: err.Error(),
		})
		e.cache.put(path, cachedResult{size: st.Size(), mtime: st.ModTime(), file: fr})
		return fr, nil
	}

	fr.Metrics = metrics.Annotate(sf)
	vs := rules.Evaluate(sf)
	e.cache.put(path, cachedResult{size: st.Size(), mtime: st.ModTime(), file: fr, violations: vs})
	return fr, vs
}

// collectFiles resolves root to a sorted list of .purs paths. Walk errors on
// entries become diagnostic-only FileResults; a missing root is an error.
func collectFiles(root string) ([]string, []ir.FileResult, error) {
	if _, err := os.Stat(root); err != nil {
		return nil, nil, fmt.Errorf("stat %s: %w", root, err)
	}
	var paths []string
	var diags []ir.FileResult
	_ = filepath.WalkDir(root, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			diags = append(diags, ir.FileResult{
				Path:        p,
				Diagnostics: []ir.Diagnostic{{File: p, Kind: ir.DiagIO, Message: err.Error()}},
			})
			return nil
		}
		if d.IsDir() {
			// skip dot directories (.git, .spago)
			if p != root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasSuffix(strings.ToLower(d.Name()), ".purs") {
			paths = append(paths, p)
		}
		return nil
	})
	sort.Strings(paths)
	return paths, diags, nil
}

func ioDiag(path string, err error) ir.Diagnostic {
	return ir.Diagnostic{File: path, Kind: ir.DiagIO, Message: err.Error()}
}

func contextFrom(cfg shared.Config) ir.Context {
	return ir.Context{
		MaxLineLength:           cfg.Checks.MaxLineLength,
		IndentSize:              cfg.Checks.IndentSize,
		NestedIndentSize:        cfg.Checks.NestedIndentSize,
		MaxArrowIndentThreshold: cfg.Checks.MaxArrowIndentThreshold,
		MaxMatcherBodyLines:     cfg.Checks.MaxMatcherBodyLines,
		EnabledRuleCategories:   cfg.Checks.EnabledRuleCategories,
		SeverityThreshold:       cfg.Checks.SeverityThreshold,
		DisabledRules:           cfg.Checks.DisabledRules,
	}
}
