package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/codewithboateng/purslint/internal/engine"
	"github.com/codewithboateng/purslint/internal/ir"
	"github.com/codewithboateng/purslint/internal/reporting"
	"github.com/codewithboateng/purslint/internal/rules"
	"github.com/codewithboateng/purslint/internal/rulesdsl"
	"github.com/codewithboateng/purslint/internal/shared"
	"github.com/codewithboateng/purslint/internal/storage"
)

func checkCmd(args []string) {
	fs := flag.NewFlagSet("check", flag.ExitOnError)
	configPath := fs.String("config", "", "Path to YAML config (optional)")
	inPath := fs.String("path", "", "PureScript source file or directory")
	outDir := fs.String("out", "", "Output directory for reports")
	dbPath := fs.String("db", "", "SQLite database path")
	format := fs.String("format", "text", "Report format on stdout: text or json")
	rulesPack := fs.String("rules-pack", "", "YAML rule pack to load (optional)")
	threshold := fs.String("severity-threshold", "", "Minimum severity to report")
	maxLineLen := fs.Int("max-line-length", 0, "Override maxLineLength")
	exitZero := fs.Bool("exit-zero", false, "Exit 0 even when gating violations were found")
	_ = fs.Parse(args)

	cfg, err := shared.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "check:", err)
		os.Exit(2)
	}
	logger := shared.InitLogger(cfg.Logging.Format, cfg.Logging.Level)

	// precedence: flags > env > config > defaults
	if *threshold != "" {
		cfg.Checks.SeverityThreshold = strings.ToUpper(*threshold)
	}
	if *maxLineLen > 0 {
		cfg.Checks.MaxLineLength = *maxLineLen
	}
	if *outDir == "" {
		*outDir = cfg.Reporting.OutDir
	}
	if *dbPath == "" {
		*dbPath = cfg.Database.DSN
	}
	// flag overrides go through the same validation as the file
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, "check:", err)
		os.Exit(2)
	}
	if *inPath == "" {
		fmt.Fprintln(os.Stderr, "check: --path is required")
		os.Exit(2)
	}
	if *format != "text" && *format != "json" {
		fmt.Fprintln(os.Stderr, "check: --format must be text or json")
		os.Exit(2)
	}

	if *rulesPack != "" {
		n, err := rulesdsl.LoadAndRegister(*rulesPack)
		if err != nil {
			fmt.Fprintln(os.Stderr, "check: rules pack:", err)
			os.Exit(2)
		}
		logger.Info("rules pack loaded", "path", *rulesPack, "rules", n)
	}

	start := time.Now()
	eng := engine.New(cfg, logger)
	run, err := eng.Check(context.Background(), *inPath)
	if err != nil {
		slog.Error("check failed", "err", err)
		os.Exit(2)
	}

	db, err := storage.OpenSQLite(*dbPath)
	if err != nil {
		slog.Error("db open error", "err", err)
		os.Exit(2)
	}
	defer db.Close()
	if err := db.CreateSchema(); err != nil {
		slog.Error("db schema error", "err", err)
		os.Exit(2)
	}

	waivers, err := db.ListWaivers(true)
	if err != nil {
		slog.Error("db list waivers error", "err", err)
		os.Exit(2)
	}
	var waived int
	run.Violations, waived = rules.ApplyWaivers(run.Violations, waivers)

	// the stored run reflects what was reported, after waivers
	if err := db.SaveRun(run); err != nil {
		slog.Error("db save run error", "err", err)
		os.Exit(2)
	}

	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		slog.Error("cannot create out dir", "err", err)
		os.Exit(2)
	}
	jsonPath, _ := reporting.WriteJSON(run.ID, *outDir, run)
	htmlPath, _ := reporting.WriteHTML(run.ID, *outDir, run)

	switch *format {
	case "json":
		if err := reporting.WriteJSONTo(os.Stdout, run); err != nil {
			slog.Error("render error", "err", err)
			os.Exit(2)
		}
	default:
		if err := reporting.WriteText(os.Stdout, run); err != nil {
			slog.Error("render error", "err", err)
			os.Exit(2)
		}
	}

	var diagCount int
	for _, f := range run.Files {
		diagCount += len(f.Diagnostics)
	}
	if diagCount > 0 {
		slog.Warn("file diagnostics", "count", diagCount)
	}
	slog.Info("check complete",
		"run", run.ID,
		"files", len(run.Files),
		"violations", len(run.Violations),
		"waived", waived,
		"duration", time.Since(start).Round(time.Millisecond).String(),
		"json", jsonPath,
		"html", htmlPath,
	)

	if ir.HasGating(run.Violations) && !*exitZero {
		os.Exit(1)
	}
}
