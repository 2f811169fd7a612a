package rules

import (
	"fmt"

	"github.com/codewithboateng/purslint/internal/ir"
)

func init() {
	Register(Rule{
		ID:       "INDENT-STEP",
		Category: ir.CategoryFormatting,
		Severity: ir.SeverityWarning,
		Summary:  "Indent increment is not a multiple of the configured step.",
		Eval:     evalIndentStep,
	})
}

// evalIndentStep walks the code lines with an indent ladder: entering a
// deeper column must move by a whole number of steps from the enclosing
// column. Literal bodies are governed by NESTED-LITERAL-INDENT instead;
// their column is pushed onto the ladder unchecked so their siblings line
// up against it.
func evalIndentStep(f *ir.SourceFile) []ir.Violation {
	step := rsettings.IndentSize
	var out []ir.Violation

	literalBody := map[int]bool{}
	for _, lb := range f.Literals {
		literalBody[lb.BodyLine] = true
	}

	stack := []int{0}
	for _, ln := range f.Lines {
		if ln.Blank || ln.Comment || ln.InComment || ln.InString {
			continue
		}
		ind := ln.Indent
		for len(stack) > 1 && stack[len(stack)-1] > ind {
			stack = stack[:len(stack)-1]
		}
		top := stack[len(stack)-1]
		if ind <= top {
			continue
		}
		if !literalBody[ln.Index] {
			if delta := ind - top; delta%step != 0 {
				out = append(out, ir.Violation{
					Line:     ln.Index + 1,
					Column:   ind + 1,
					Message:  fmt.Sprintf("indent moves %d columns from column %d; expected a multiple of %d", ind-top, top, step),
					Evidence: snippet(ln.Text),
				})
			}
		}
		stack = append(stack, ind)
	}
	return out
}
