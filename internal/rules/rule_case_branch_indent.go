package rules

import (
	"fmt"

	"github.com/codewithboateng/purslint/internal/ir"
)

func init() {
	Register(Rule{
		ID:       "CASE-BRANCH-INDENT",
		Category: ir.CategoryCase,
		Severity: ir.SeverityWarning,
		Summary:  "Case branches not indented one step past the case line.",
		Eval:     evalCaseBranchIndent,
	})
}

// All branches of a block share one column by construction, so the check
// compares that column against the case keyword's line once per block.
func evalCaseBranchIndent(f *ir.SourceFile) []ir.Violation {
	var out []ir.Violation
	for _, cb := range f.Cases {
		if len(cb.Branches) == 0 {
			continue
		}
		want := cb.Indent + rsettings.IndentSize
		got := cb.Branches[0].Indent
		if got == want {
			continue
		}
		first := cb.Branches[0]
		out = append(out, ir.Violation{
			Line:     first.Line + 1,
			Column:   got + 1,
			Message:  fmt.Sprintf("case branch at column %d; expected column %d (one step past the case line)", got+1, want+1),
			Evidence: snippet(f.Lines[first.Line].Text),
		})
	}
	return out
}
