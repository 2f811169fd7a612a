package rules

import "github.com/codewithboateng/purslint/internal/ir"

func init() {
	Register(Rule{
		ID:       "EXPORT-ITEM-ORDER",
		Category: ir.CategoryExports,
		Severity: ir.SeverityWarning,
		Summary:  "Items inside the module export list are out of order.",
		Eval:     evalExportItemOrder,
	})
}

// Same ordering contract as import lists, applied to the module header.
func evalExportItemOrder(f *ir.SourceFile) []ir.Violation {
	if !f.Module.HasExportList {
		return nil
	}
	var out []ir.Violation
	for _, iss := range listOrderIssues(f.Module.Name, f.Module.Exports) {
		out = append(out, ir.Violation{
			Line:     f.Module.Line + 1,
			Message:  iss.message("export"),
			Evidence: iss.evidence(),
		})
	}
	return out
}
