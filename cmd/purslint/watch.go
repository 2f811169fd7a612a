package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/codewithboateng/purslint/internal/engine"
	"github.com/codewithboateng/purslint/internal/ir"
	"github.com/codewithboateng/purslint/internal/reporting"
	"github.com/codewithboateng/purslint/internal/rules"
	"github.com/codewithboateng/purslint/internal/shared"
	"github.com/codewithboateng/purslint/internal/storage"
)

func watchCmd(args []string) {
	fs := flag.NewFlagSet("watch", flag.ExitOnError)
	configPath := fs.String("config", "", "Path to YAML config (optional)")
	inPath := fs.String("path", "", "PureScript source directory")
	dbPath := fs.String("db", "", "SQLite database path")
	_ = fs.Parse(args)

	cfg, err := shared.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "watch:", err)
		os.Exit(2)
	}
	logger := shared.InitLogger(cfg.Logging.Format, cfg.Logging.Level)

	if *inPath == "" {
		fmt.Fprintln(os.Stderr, "watch: --path is required")
		os.Exit(2)
	}
	if *dbPath == "" {
		*dbPath = cfg.Database.DSN
	}

	db, err := storage.OpenSQLite(*dbPath)
	if err != nil {
		logger.Error("db open error", "err", err)
		os.Exit(2)
	}
	defer db.Close()
	if err := db.CreateSchema(); err != nil {
		logger.Error("db schema error", "err", err)
		os.Exit(2)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		logger.Error("watcher create error", "err", err)
		os.Exit(2)
	}
	defer watcher.Close()
	if err := watchTree(watcher, *inPath); err != nil {
		logger.Error("watcher setup error", "err", err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	eng := engine.New(cfg, logger)
	var prev map[string]string

	recheck := func() {
		start := time.Now()
		run, err := eng.Check(ctx, *inPath)
		if err != nil {
			logger.Error("check failed", "err", err)
			return
		}
		waivers, err := db.ListWaivers(true)
		if err != nil {
			logger.Error("db list waivers error", "err", err)
			return
		}
		run.Violations, _ = rules.ApplyWaivers(run.Violations, waivers)

		cur := fingerprints(run)
		changed := changedFiles(prev, cur)
		prev = cur
		if len(changed) > 0 {
			_ = reporting.WriteTextFiltered(os.Stdout, run, changed)
		}
		hits, misses := eng.CacheStats()
		logger.Info("checked",
			"files", len(run.Files),
			"changed", len(changed),
			"violations", len(run.Violations),
			"gating", ir.HasGating(run.Violations),
			"cache_hits", hits,
			"cache_misses", misses,
			"duration", time.Since(start).Round(time.Millisecond).String(),
		)
	}
	recheck()

	debounce := time.Duration(cfg.Watch.DebounceMs) * time.Millisecond
	timer := time.NewTimer(debounce)
	if !timer.Stop() {
		<-timer.C
	}
	pending := false

	logger.Info("watching", "path", *inPath, "debounce", debounce.String())
	for {
		select {
		case <-ctx.Done():
			logger.Info("watch stopped")
			return
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if event.Op&fsnotify.Create != 0 {
				if fi, err := os.Stat(event.Name); err == nil && fi.IsDir() {
					if err := watcher.Add(event.Name); err != nil {
						logger.Warn("cannot watch new directory", "path", event.Name, "err", err)
					}
					// the new directory may already hold source files
					pending = true
					timer.Reset(debounce)
					continue
				}
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			if !strings.HasSuffix(strings.ToLower(event.Name), ".purs") {
				continue
			}
			pending = true
			timer.Reset(debounce)
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			logger.Warn("watcher error", "err", err)
		case <-timer.C:
			if pending {
				pending = false
				recheck()
			}
		}
	}
}

// watchTree recursively adds every directory under root to the watcher.
func watchTree(watcher *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return watcher.Add(path)
		}
		return nil
	})
}

// fingerprints reduces a run to one string per file covering its
// diagnostics and violations, for change detection between rechecks.
func fingerprints(run *ir.Run) map[string]string {
	out := make(map[string]string, len(run.Files))
	for _, fr := range run.Files {
		var sb strings.Builder
		for _, d := range fr.Diagnostics {
			fmt.Fprintf(&sb, "%s|%s\n", d.Kind, d.Message)
		}
		out[fr.Path] = sb.String()
	}
	for _, v := range run.Violations {
		out[v.File] += fmt.Sprintf("%d|%d|%s|%s\n", v.Line, v.Column, v.RuleID, v.Message)
	}
	return out
}

// changedFiles returns files whose fingerprint differs between runs,
// including files that disappeared.
func changedFiles(prev, cur map[string]string) map[string]bool {
	ch := map[string]bool{}
	for f, sig := range cur {
		if prev[f] != sig {
			ch[f] = true
		}
	}
	for f := range prev {
		if _, ok := cur[f]; !ok {
			ch[f] = true
		}
	}
	return ch
}
