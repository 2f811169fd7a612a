package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/codewithboateng/purslint/internal/shared"
	"github.com/codewithboateng/purslint/internal/storage"
)

func waiveCmd(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "waive: expected add, list, or revoke")
		os.Exit(2)
	}
	switch args[0] {
	case "add":
		waiveAdd(args[1:])
	case "list":
		waiveList(args[1:])
	case "revoke":
		waiveRevoke(args[1:])
	default:
		fmt.Fprintf(os.Stderr, "waive: unknown subcommand %q\n", args[0])
		os.Exit(2)
	}
}

func openWaiverDB(configPath, dbPath string) *storage.DB {
	cfg, err := shared.LoadConfig(configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "waive:", err)
		os.Exit(2)
	}
	shared.InitLogger(cfg.Logging.Format, cfg.Logging.Level)
	if dbPath == "" {
		dbPath = cfg.Database.DSN
	}
	db, err := storage.OpenSQLite(dbPath)
	if err != nil {
		slog.Error("db open error", "err", err)
		os.Exit(2)
	}
	if err := db.CreateSchema(); err != nil {
		slog.Error("db schema error", "err", err)
		os.Exit(2)
	}
	return db
}

func waiveAdd(args []string) {
	fs := flag.NewFlagSet("waive add", flag.ExitOnError)
	configPath := fs.String("config", "", "Path to YAML config (optional)")
	dbPath := fs.String("db", "", "SQLite database path")
	rule := fs.String("rule", "", "Rule ID to waive")
	file := fs.String("file", "", "Only violations whose file path contains this substring")
	pattern := fs.String("pattern", "", "Only violations whose evidence or message contains this substring")
	reason := fs.String("reason", "", "Why this waiver exists")
	by := fs.String("by", "", "Who created the waiver (default $USER)")
	ttl := fs.Duration("ttl", 30*24*time.Hour, "How long the waiver stays active")
	_ = fs.Parse(args)

	if *rule == "" || *reason == "" {
		fmt.Fprintln(os.Stderr, "waive add: --rule and --reason are required")
		os.Exit(2)
	}
	if *by == "" {
		*by = os.Getenv("USER")
	}
	if *by == "" {
		*by = "cli"
	}

	db := openWaiverDB(*configPath, *dbPath)
	defer db.Close()

	expires := time.Now().UTC().Add(*ttl)
	id, err := db.CreateWaiver(*rule, *file, *pattern, *reason, *by, expires)
	if err != nil {
		slog.Error("create waiver error", "err", err)
		os.Exit(2)
	}
	fmt.Printf("Waiver %d created (expires %s)\n", id, expires.Format(time.RFC3339))
}

func waiveList(args []string) {
	fs := flag.NewFlagSet("waive list", flag.ExitOnError)
	configPath := fs.String("config", "", "Path to YAML config (optional)")
	dbPath := fs.String("db", "", "SQLite database path")
	all := fs.Bool("all", false, "Include expired and revoked waivers")
	_ = fs.Parse(args)

	db := openWaiverDB(*configPath, *dbPath)
	defer db.Close()

	ws, err := db.ListWaivers(!*all)
	if err != nil {
		slog.Error("list waivers error", "err", err)
		os.Exit(2)
	}
	now := time.Now().UTC()
	for _, w := range ws {
		state := "active"
		switch {
		case w.RevokedAt != nil:
			state = "revoked"
		case w.ExpiresAt.Before(now):
			state = "expired"
		}
		fmt.Printf("%-5d %-24s %-20s %-8s %-20s %s\n",
			w.ID, w.RuleID, w.File, state, w.ExpiresAt.Format(time.RFC3339), w.Reason)
	}
}

func waiveRevoke(args []string) {
	fs := flag.NewFlagSet("waive revoke", flag.ExitOnError)
	configPath := fs.String("config", "", "Path to YAML config (optional)")
	dbPath := fs.String("db", "", "SQLite database path")
	id := fs.Int64("id", 0, "Waiver ID to revoke")
	_ = fs.Parse(args)

	if *id <= 0 {
		fmt.Fprintln(os.Stderr, "waive revoke: --id is required")
		os.Exit(2)
	}
	db := openWaiverDB(*configPath, *dbPath)
	defer db.Close()

	if err := db.RevokeWaiver(*id); err != nil {
		slog.Error("revoke waiver error", "err", err)
		os.Exit(2)
	}
	fmt.Printf("Waiver %d revoked\n", *id)
}
