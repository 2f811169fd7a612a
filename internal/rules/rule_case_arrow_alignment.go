package rules

import (
	"fmt"

	"github.com/codewithboateng/purslint/internal/ir"
)

func init() {
	Register(Rule{
		ID:       "CASE-ARROW-ALIGNMENT",
		Category: ir.CategoryCase,
		Severity: ir.SeverityAdvisory,
		Summary:  "Arrow alignment in a case block works against readability.",
		Eval:     evalCaseArrowAlignment,
	})
}

// Aligning arrows reads well until the patterns diverge in width. When the
// padding needed to align every arrow exceeds the threshold, an aligned
// block draws the suggestion to unalign; within the threshold, an unaligned
// block draws the suggestion to align. Blocks where any branch lacks an
// arrow on its pattern line are skipped.
func evalCaseArrowAlignment(f *ir.SourceFile) []ir.Violation {
	th := rsettings.ArrowIndentThreshold
	var out []ir.Violation
	for _, cb := range f.Cases {
		if len(cb.Branches) < 2 {
			continue
		}
		ok := true
		for _, br := range cb.Branches {
			if br.ArrowCol < 0 {
				ok = false
				break
			}
		}
		if !ok {
			continue
		}

		minPE, maxPE := cb.Branches[0].PatternEnd, cb.Branches[0].PatternEnd
		aligned := true
		first := cb.Branches[0].ArrowCol
		for _, br := range cb.Branches[1:] {
			if br.PatternEnd < minPE {
				minPE = br.PatternEnd
			}
			if br.PatternEnd > maxPE {
				maxPE = br.PatternEnd
			}
			if br.ArrowCol != first {
				aligned = false
			}
		}
		pad := maxPE - minPE

		switch {
		case pad > th && aligned:
			out = append(out, ir.Violation{
				Line:     cb.Line + 1,
				Message:  fmt.Sprintf("aligning these arrows pads %d columns (threshold %d); prefer a single space before each ->", pad, th),
				Evidence: snippet(f.Lines[cb.Line].Text),
			})
		case pad <= th && !aligned:
			out = append(out, ir.Violation{
				Line:     cb.Line + 1,
				Message:  fmt.Sprintf("arrows in this case block are not aligned; %d columns of padding would align them (threshold %d)", pad, th),
				Evidence: snippet(f.Lines[cb.Line].Text),
			})
		}
	}
	return out
}
