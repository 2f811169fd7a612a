package rules

import (
	"fmt"
	"strings"

	"github.com/codewithboateng/purslint/internal/ir"
)

func init() {
	Register(Rule{
		ID:       "MODULE-NAME-PLURAL",
		Category: ir.CategoryNaming,
		Severity: ir.SeverityAdvisory,
		Summary:  "Module name segment looks plural; prefer singular nouns.",
		Eval:     evalModuleNamePlural,
	})
}

// Telling a true plural from a noun that happens to end in s needs a
// dictionary, so this stays a suggestion. Endings that are rarely plurals
// (ss, us, is) are skipped.
func evalModuleNamePlural(f *ir.SourceFile) []ir.Violation {
	var out []ir.Violation
	for _, seg := range f.Module.Segments {
		if !pluralish(seg) {
			continue
		}
		out = append(out, ir.Violation{
			Line:     f.Module.Line + 1,
			Message:  fmt.Sprintf("module segment %q looks plural; prefer the singular %q", seg, seg[:len(seg)-1]),
			Evidence: f.Module.Name,
		})
	}
	return out
}

func pluralish(seg string) bool {
	l := strings.ToLower(seg)
	if len(l) < 3 || !strings.HasSuffix(l, "s") {
		return false
	}
	for _, suf := range []string{"ss", "us", "is"} {
		if strings.HasSuffix(l, suf) {
			return false
		}
	}
	return true
}
