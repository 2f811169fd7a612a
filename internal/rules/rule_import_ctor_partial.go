package rules

import (
	"fmt"
	"strings"

	"github.com/codewithboateng/purslint/internal/ir"
)

func init() {
	Register(Rule{
		ID:       "IMPORT-CTOR-PARTIAL",
		Category: ir.CategoryImports,
		Severity: ir.SeverityWarning,
		Summary:  "Type imports an explicit subset of its data constructors.",
		Eval:     evalImportCtorPartial,
	})
}

// A type should bring in all constructors (T(..)) or none (T). A partial
// list silently breaks when the type grows a constructor.
func evalImportCtorPartial(f *ir.SourceFile) []ir.Violation {
	var out []ir.Violation
	for _, d := range f.Imports {
		if !d.HasItems || d.Hiding {
			continue
		}
		for _, it := range d.Items {
			if it.Ctors != ir.CtorsPartial {
				continue
			}
			names := strings.Join(it.CtorNames, ", ")
			out = append(out, ir.Violation{
				Line:     d.Line + 1,
				Message:  fmt.Sprintf("type %q imports an explicit constructor subset; import %s(..) or just %s", it.Name, it.Name, it.Name),
				Evidence: fmt.Sprintf("%s(%s)", it.Name, names),
			})
		}
	}
	return out
}
