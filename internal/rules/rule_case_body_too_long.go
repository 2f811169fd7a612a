package rules

import (
	"fmt"

	"github.com/codewithboateng/purslint/internal/ir"
)

func init() {
	Register(Rule{
		ID:       "CASE-BODY-TOO-LONG",
		Category: ir.CategoryCase,
		Severity: ir.SeverityAdvisory,
		Summary:  "Matcher body long enough to deserve a named helper.",
		Eval:     evalCaseBodyTooLong,
	})
}

func evalCaseBodyTooLong(f *ir.SourceFile) []ir.Violation {
	limit := rsettings.MaxMatcherBodyLines
	var out []ir.Violation
	for _, cb := range f.Cases {
		for _, br := range cb.Branches {
			if br.BodyLines <= limit {
				continue
			}
			out = append(out, ir.Violation{
				Line:     br.Line + 1,
				Message:  fmt.Sprintf("matcher body spans %d lines (max %d); consider extracting a named helper", br.BodyLines, limit),
				Evidence: snippet(f.Lines[br.Line].Text),
			})
		}
	}
	return out
}
