package reporting

import (
	"fmt"
	"html"
	"os"
	"path/filepath"
	"sort"

	"github.com/codewithboateng/purslint/internal/ir"
)

func WriteHTML(runID, outDir string, run *ir.Run) (string, error) {
	path := filepath.Join(outDir, runID+".html")
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	// Totals
	bySeverity := map[string]int{}
	byRule := map[string]int{}
	for _, v := range run.Violations {
		bySeverity[v.Severity]++
		byRule[v.RuleID]++
	}
	diags := 0
	for _, fr := range run.Files {
		diags += len(fr.Diagnostics)
	}

	// Head + styles
	fmt.Fprintf(f, "<!doctype html><html><head><meta charset='utf-8'><title>%s</title>", html.EscapeString(runID))
	fmt.Fprint(f, "<style>body{font-family:system-ui,Arial,sans-serif;padding:20px;line-height:1.4} table{border-collapse:collapse;margin:8px 0} td,th{border:1px solid #ddd;padding:6px} h1,h2{margin:6px 0 4px} .dim{color:#666} .mono{font-family:ui-monospace,Menlo,Consolas,monospace}</style>")
	fmt.Fprint(f, "</head><body>")

	// Title + summary
	fmt.Fprintf(f, "<h1>purslint report – <span class='mono'>%s</span></h1>", html.EscapeString(runID))
	fmt.Fprintf(f, "<p>Files: %d &nbsp; Violations: %d &nbsp; Diagnostics: %d</p>", len(run.Files), len(run.Violations), diags)
	fmt.Fprintf(f, "<p><b>By severity</b>: ERROR=%d &nbsp; WARNING=%d &nbsp; ADVISORY=%d</p>",
		bySeverity[ir.SeverityError], bySeverity[ir.SeverityWarning], bySeverity[ir.SeverityAdvisory])

	// Settings banner
	fmt.Fprintf(f, "<p class='dim'>Severity threshold: %s", html.EscapeString(run.Context.SeverityThreshold))
	if n := len(run.Context.DisabledRules); n > 0 {
		fmt.Fprintf(f, " &nbsp; Disabled rules: %d", n)
	}
	fmt.Fprintf(f, " &nbsp; Max line length: %d &nbsp; Indent: %d/%d</p>",
		run.Context.MaxLineLength, run.Context.IndentSize, run.Context.NestedIndentSize)

	// Noisiest rules (by count desc)
	if len(byRule) > 0 {
		type rc struct {
			id string
			n  int
		}
		var tops []rc
		for id, n := range byRule {
			tops = append(tops, rc{id, n})
		}
		sort.Slice(tops, func(i, j int) bool {
			if tops[i].n == tops[j].n {
				return tops[i].id < tops[j].id
			}
			return tops[i].n > tops[j].n
		})
		fmt.Fprint(f, "<h2>Noisiest Rules</h2><table><tr><th>Rule</th><th>Violations</th></tr>")
		limit := len(tops)
		if limit > 20 {
			limit = 20
		}
		for i := 0; i < limit; i++ {
			fmt.Fprintf(f, "<tr><td class='mono'>%s</td><td>%d</td></tr>", html.EscapeString(tops[i].id), tops[i].n)
		}
		fmt.Fprint(f, "</table>")
	}

	// Per-file metrics
	if len(run.Files) > 0 {
		fmt.Fprint(f, "<h2>Files</h2><table><tr><th>File</th><th>Lines</th><th>Code</th><th>Comments</th><th>Max width</th><th>Doc coverage</th><th>Diagnostics</th></tr>")
		for _, fr := range run.Files {
			fmt.Fprintf(f, "<tr><td class='mono'>%s</td><td>%d</td><td>%d</td><td>%d</td><td>%d</td><td>%.0f%%</td><td>%d</td></tr>",
				html.EscapeString(fr.Path),
				fr.Metrics.Lines,
				fr.Metrics.CodeLines,
				fr.Metrics.CommentLines,
				fr.Metrics.MaxWidth,
				fr.Metrics.DocCoverage*100,
				len(fr.Diagnostics),
			)
		}
		fmt.Fprint(f, "</table>")
	}

	// All violations
	if len(run.Violations) > 0 {
		fmt.Fprint(f, "<h2>All Violations</h2><table><tr><th>Severity</th><th>Rule</th><th>File</th><th>Line</th><th>Message</th></tr>")
		for _, v := range run.Violations {
			line := ""
			if v.Line > 0 {
				line = fmt.Sprintf("%d", v.Line)
			}
			fmt.Fprintf(f, "<tr><td>%s</td><td class='mono'>%s</td><td class='mono'>%s</td><td>%s</td><td>%s</td></tr>",
				html.EscapeString(v.Severity),
				html.EscapeString(v.RuleID),
				html.EscapeString(v.File),
				line,
				html.EscapeString(v.Message),
			)
		}
		fmt.Fprint(f, "</table>")
	} else {
		fmt.Fprint(f, "<h2>All Violations</h2><p class='dim'>No violations at or above the configured threshold.</p>")
	}

	fmt.Fprint(f, "</body></html>")
	return path, nil
}
