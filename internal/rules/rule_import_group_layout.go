package rules

import (
	"fmt"
	"strings"

	"github.com/codewithboateng/purslint/internal/ir"
)

func init() {
	Register(Rule{
		ID:       "IMPORT-GROUP-LAYOUT",
		Category: ir.CategoryImports,
		Severity: ir.SeverityWarning,
		Summary:  "Import groups out of order, badly separated, or unsorted.",
		Eval:     evalImportGroupLayout,
	})
}

const (
	groupPrelude = iota
	groupThirdParty
	groupLocal
)

func groupNoun(g int) string {
	switch g {
	case groupPrelude:
		return "prelude"
	case groupLocal:
		return "local"
	}
	return "third-party"
}

// evalImportGroupLayout enforces the three-group layout: Prelude, then
// third-party modules, then local modules, each group separated by exactly
// one blank line and sorted by module name. Qualified imports sit after the
// unqualified ones of their group as a separately sorted sub-list. Local
// modules are those whose first path segment matches a configured prefix,
// defaulting to the containing module's own first segment.
func evalImportGroupLayout(f *ir.SourceFile) []ir.Violation {
	if len(f.Imports) == 0 {
		return nil
	}
	var out []ir.Violation

	local := rsettings.LocalPrefixes
	if len(local) == 0 && len(f.Module.Segments) > 0 {
		local = []string{f.Module.Segments[0]}
	}
	groupOf := func(m string) int {
		if m == "Prelude" {
			return groupPrelude
		}
		seg := m
		if k := strings.IndexByte(seg, '.'); k != -1 {
			seg = seg[:k]
		}
		for _, p := range local {
			if seg == p {
				return groupLocal
			}
		}
		return groupThirdParty
	}

	type runState struct {
		lastUnqual string
		lastQual   string
		sawQual    bool
		alphaU     bool
		alphaQ     bool
		mixed      bool
	}
	st := runState{}
	orderFlagged := false

	prevGroup := -1
	for i, d := range f.Imports {
		g := groupOf(d.Module)
		if i > 0 {
			prev := f.Imports[i-1]
			blanks := blanksBetween(f, prev.EndLine, d.Line)
			switch {
			case g == prevGroup && blanks > 0:
				out = append(out, ir.Violation{
					Line:     d.Line + 1,
					Message:  fmt.Sprintf("blank line inside the %s import group", groupNoun(g)),
					Evidence: d.Module,
				})
			case g != prevGroup && blanks == 0:
				out = append(out, ir.Violation{
					Line:     d.Line + 1,
					Message:  fmt.Sprintf("missing blank line between %s and %s import groups", groupNoun(prevGroup), groupNoun(g)),
					Evidence: d.Module,
				})
			case g != prevGroup && blanks > 1:
				out = append(out, ir.Violation{
					Line:     d.Line + 1,
					Message:  fmt.Sprintf("%d blank lines between %s and %s import groups; expected one", blanks, groupNoun(prevGroup), groupNoun(g)),
					Evidence: d.Module,
				})
			}
			if g < prevGroup && !orderFlagged {
				out = append(out, ir.Violation{
					Line:     d.Line + 1,
					Message:  fmt.Sprintf("%s import %q after %s imports; expected prelude, third-party, then local", groupNoun(g), d.Module, groupNoun(prevGroup)),
					Evidence: d.Module,
				})
				orderFlagged = true
			}
			if g != prevGroup {
				st = runState{}
			}
		}
		prevGroup = g

		if d.Qualified {
			if !st.alphaQ && st.sawQual && d.Module < st.lastQual {
				out = append(out, ir.Violation{
					Line:     d.Line + 1,
					Message:  fmt.Sprintf("qualified imports not sorted: %q should come before %q", d.Module, st.lastQual),
					Evidence: st.lastQual + ", " + d.Module,
				})
				st.alphaQ = true
			}
			st.lastQual = d.Module
			st.sawQual = true
			continue
		}

		if st.sawQual && !st.mixed {
			out = append(out, ir.Violation{
				Line:     d.Line + 1,
				Message:  fmt.Sprintf("unqualified import %q after qualified imports; qualified imports go last in their group", d.Module),
				Evidence: d.Module,
			})
			st.mixed = true
		}
		if !st.alphaU && st.lastUnqual != "" && d.Module < st.lastUnqual {
			out = append(out, ir.Violation{
				Line:     d.Line + 1,
				Message:  fmt.Sprintf("imports not sorted: %q should come before %q", d.Module, st.lastUnqual),
				Evidence: st.lastUnqual + ", " + d.Module,
			})
			st.alphaU = true
		}
		st.lastUnqual = d.Module
	}
	return out
}

func blanksBetween(f *ir.SourceFile, a, b int) int {
	n := 0
	for i := a + 1; i < b && i < len(f.Lines); i++ {
		if f.Lines[i].Blank {
			n++
		}
	}
	return n
}
