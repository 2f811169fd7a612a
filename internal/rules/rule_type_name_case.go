package rules

import (
	"fmt"
	"regexp"

	"github.com/codewithboateng/purslint/internal/ir"
)

func init() {
	Register(Rule{
		ID:       "TYPE-NAME-CASE",
		Category: ir.CategoryNaming,
		Severity: ir.SeverityWarning,
		Summary:  "Type, constructor, and class names must be UpperCamelCase.",
		Eval:     evalTypeNameCase,
	})
}

var upperCamel = regexp.MustCompile(`^[A-Z][a-zA-Z0-9]*'*$`)

func evalTypeNameCase(f *ir.SourceFile) []ir.Violation {
	var out []ir.Violation
	for _, b := range f.Bindings {
		switch b.Kind {
		case ir.BindType, ir.BindConstructor, ir.BindClass:
		default:
			continue
		}
		if upperCamel.MatchString(b.Name) {
			continue
		}
		out = append(out, ir.Violation{
			Line:     b.Line + 1,
			Message:  fmt.Sprintf("%s name %q is not UpperCamelCase", bindNoun(b.Kind), b.Name),
			Evidence: b.Name,
		})
	}
	return out
}
