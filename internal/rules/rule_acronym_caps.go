package rules

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/codewithboateng/purslint/internal/ir"
)

func init() {
	Register(Rule{
		ID:       "ACRONYM-CAPS",
		Category: ir.CategoryNaming,
		Severity: ir.SeverityAdvisory,
		Summary:  "Fully-capitalized acronym inside an identifier.",
		Eval:     evalAcronymCaps,
	})
}

// An uppercase run of 2 or 3 letters is tolerated in type, constructor, and
// class names (IORef, JSValue); anything longer, or any run in a
// function-side name, draws the suggestion. When a run is followed by a
// lowercase letter its last capital starts the next word, so HTTPServer
// carries the acronym HTTP.
func evalAcronymCaps(f *ir.SourceFile) []ir.Violation {
	var out []ir.Violation
	for _, b := range f.Bindings {
		typeSide := false
		switch b.Kind {
		case ir.BindType, ir.BindConstructor, ir.BindClass:
			typeSide = true
		case ir.BindFunction, ir.BindValue, ir.BindInstance, ir.BindForeign:
		default:
			continue
		}
		for _, a := range acronymRuns(b.Name) {
			if typeSide && len(a) <= 3 {
				continue
			}
			out = append(out, ir.Violation{
				Line:     b.Line + 1,
				Message:  fmt.Sprintf("acronym %q in %s name %q is fully capitalized; prefer %q", a, bindNoun(b.Kind), b.Name, titleWord(a)),
				Evidence: b.Name,
			})
		}
	}
	return out
}

func acronymRuns(name string) []string {
	r := []rune(name)
	var runs []string
	i := 0
	for i < len(r) {
		if !unicode.IsUpper(r[i]) {
			i++
			continue
		}
		j := i
		for j < len(r) && unicode.IsUpper(r[j]) {
			j++
		}
		run := r[i:j]
		if j < len(r) && unicode.IsLower(r[j]) && len(run) > 1 {
			run = run[:len(run)-1]
		}
		if len(run) >= 2 {
			runs = append(runs, string(run))
		}
		i = j
	}
	return runs
}

func titleWord(a string) string {
	if a == "" {
		return a
	}
	return a[:1] + strings.ToLower(a[1:])
}
