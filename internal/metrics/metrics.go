package metrics

import (
	"math"

	"github.com/codewithboateng/purslint/internal/ir"
)

// Annotate derives per-file counters from the parsed surface.
// Counting rules:
// - a line inside a block comment counts as comment, not code
// - a line that has code and trails into a comment counts as code
// - doc coverage looks at bindings that take doc comments: functions,
//   values, types, classes, and foreign imports
func Annotate(sf *ir.SourceFile) ir.Metrics {
	m := ir.Metrics{Lines: len(sf.Lines)}
	for _, ln := range sf.Lines {
		if ln.Visible > m.MaxWidth {
			m.MaxWidth = ln.Visible
		}
		switch {
		case ln.Blank:
			m.BlankLines++
		case ln.Comment:
			m.CommentLines++
		default:
			m.CodeLines++
		}
	}
	if m.Lines > 0 {
		m.CommentRatio = round4(float64(m.CommentLines) / float64(m.Lines))
	}

	total, doc := 0, 0
	for _, b := range sf.Bindings {
		switch b.Kind {
		case ir.BindFunction, ir.BindValue, ir.BindType, ir.BindClass, ir.BindForeign:
			total++
			if b.Documented {
				doc++
			}
		}
	}
	if total > 0 {
		m.DocCoverage = round4(float64(doc) / float64(total))
	}
	return m
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
