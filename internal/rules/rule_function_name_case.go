package rules

import (
	"fmt"
	"regexp"

	"github.com/codewithboateng/purslint/internal/ir"
)

func init() {
	Register(Rule{
		ID:       "FUNCTION-NAME-CASE",
		Category: ir.CategoryNaming,
		Severity: ir.SeverityWarning,
		Summary:  "Function and value binding names must be lowerCamelCase.",
		Eval:     evalFunctionNameCase,
	})
}

// Leading lowercase letter, then letters/digits, optional trailing primes.
// Underscores and snake_case fail the match.
var lowerCamel = regexp.MustCompile(`^[a-z][a-zA-Z0-9]*'*$`)

func evalFunctionNameCase(f *ir.SourceFile) []ir.Violation {
	var out []ir.Violation
	for _, b := range f.Bindings {
		switch b.Kind {
		case ir.BindFunction, ir.BindValue, ir.BindForeign, ir.BindInstance:
		default:
			continue
		}
		if lowerCamel.MatchString(b.Name) {
			continue
		}
		out = append(out, ir.Violation{
			Line:     b.Line + 1,
			Message:  fmt.Sprintf("%s name %q is not lowerCamelCase", bindNoun(b.Kind), b.Name),
			Evidence: b.Name,
		})
	}
	return out
}

func bindNoun(kind string) string {
	switch kind {
	case ir.BindFunction:
		return "function"
	case ir.BindValue:
		return "value"
	case ir.BindType:
		return "type"
	case ir.BindConstructor:
		return "constructor"
	case ir.BindClass:
		return "class"
	case ir.BindInstance:
		return "instance"
	case ir.BindForeign:
		return "foreign import"
	}
	return "binding"
}
