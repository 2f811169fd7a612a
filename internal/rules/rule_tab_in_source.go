package rules

import "github.com/codewithboateng/purslint/internal/ir"

func init() {
	Register(Rule{
		ID:       "TAB-IN-SOURCE",
		Category: ir.CategoryFormatting,
		Severity: ir.SeverityWarning,
		Summary:  "Tab character in leading whitespace or code.",
		Eval:     evalTabInSource,
	})
}

// Tabs inside string and comment interiors are blanked out of the masked
// text by the scanner, so a tab in Masked is a tab in code or indentation.
// At most one violation per line no matter how many tabs it holds.
func evalTabInSource(f *ir.SourceFile) []ir.Violation {
	var out []ir.Violation
	for _, ln := range f.Lines {
		col := 0
		for i, r := range []rune(ln.Masked) {
			if r == '\t' {
				col = i + 1
				break
			}
		}
		if col == 0 {
			continue
		}
		out = append(out, ir.Violation{
			Line:     ln.Index + 1,
			Column:   col,
			Message:  "tab character in source; indent with spaces",
			Evidence: snippet(ln.Text),
		})
	}
	return out
}
