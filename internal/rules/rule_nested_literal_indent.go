package rules

import (
	"fmt"

	"github.com/codewithboateng/purslint/internal/ir"
)

func init() {
	Register(Rule{
		ID:       "NESTED-LITERAL-INDENT",
		Category: ir.CategoryFormatting,
		Severity: ir.SeverityWarning,
		Summary:  "Record/array literal body not indented the nested step past its opener.",
		Eval:     evalNestedLiteralIndent,
	})
}

func evalNestedLiteralIndent(f *ir.SourceFile) []ir.Violation {
	want := rsettings.NestedIndentSize
	var out []ir.Violation
	for _, lb := range f.Literals {
		got := lb.BodyIndent - lb.Indent
		if got == want {
			continue
		}
		out = append(out, ir.Violation{
			Line:     lb.BodyLine + 1,
			Column:   lb.BodyIndent + 1,
			Message:  fmt.Sprintf("literal body indented %d columns past its opening line; expected %d", got, want),
			Evidence: snippet(f.Lines[lb.BodyLine].Text),
		})
	}
	return out
}
