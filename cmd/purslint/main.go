package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/codewithboateng/purslint/internal/ir"
	"github.com/codewithboateng/purslint/internal/rules"
)

const version = "0.3.0"

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}
	switch os.Args[1] {
	case "check":
		checkCmd(os.Args[2:])
	case "report":
		reportCmd(os.Args[2:])
	case "diff":
		diffCmd(os.Args[2:])
	case "watch":
		watchCmd(os.Args[2:])
	case "waive":
		waiveCmd(os.Args[2:])
	case "rules":
		rulesCmd(os.Args[2:])
	case "version":
		fmt.Println("purslint", version, "IR:", ir.Version)
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, `purslint – PureScript style checker

Usage:
  purslint check  --path <src> [--config FILE] [--format text|json] [--out DIR] [--db DSN]
                  [--rules-pack FILE] [--severity-threshold LVL] [--max-line-length N] [--exit-zero]
  purslint report --run <run-id> [--db DSN] [--out DIR] [--config FILE]
  purslint diff   --base <run-id> --head <run-id> [--db DSN] [--out DIR] [--config FILE]
  purslint watch  --path <src> [--config FILE] [--db DSN]
  purslint waive  add --rule ID --reason TEXT [--file SUB] [--pattern SUB] [--by NAME] [--ttl DUR]
  purslint waive  list [--all]
  purslint waive  revoke --id N
  purslint rules  [--category C]
  purslint version

Exit codes: 0 clean or advisory-only, 1 gating violations found, 2 usage or config error.
`)
}

func rulesCmd(args []string) {
	fs := flag.NewFlagSet("rules", flag.ExitOnError)
	category := fs.String("category", "", "Only rules in this category")
	_ = fs.Parse(args)

	for _, r := range rules.All() {
		if *category != "" && r.Category != *category {
			continue
		}
		fmt.Printf("%-24s %-16s %-9s %s\n", r.ID, r.Category, r.Severity, r.Summary)
	}
}
