package reporting

import (
	"fmt"
	"io"

	"github.com/codewithboateng/purslint/internal/ir"
)

// WriteText renders the per-line report: diagnostics first, then one
// violation per line grouped by file and line. No ids or timestamps;
// identical runs print identical bytes.
func WriteText(w io.Writer, run *ir.Run) error {
	for _, fr := range run.Files {
		for _, d := range fr.Diagnostics {
			if _, err := fmt.Fprintf(w, "%s: [%s] %s\n", d.File, d.Kind, d.Message); err != nil {
				return err
			}
		}
	}
	for _, v := range run.Violations {
		if err := writeViolation(w, v); err != nil {
			return err
		}
	}
	return nil
}

// WriteTextFiltered is WriteText restricted to the named files. Watch mode
// uses it to re-print only files whose findings changed.
func WriteTextFiltered(w io.Writer, run *ir.Run, files map[string]bool) error {
	for _, fr := range run.Files {
		if !files[fr.Path] {
			continue
		}
		for _, d := range fr.Diagnostics {
			if _, err := fmt.Fprintf(w, "%s: [%s] %s\n", d.File, d.Kind, d.Message); err != nil {
				return err
			}
		}
	}
	for _, v := range run.Violations {
		if !files[v.File] {
			continue
		}
		if err := writeViolation(w, v); err != nil {
			return err
		}
	}
	return nil
}

func writeViolation(w io.Writer, v ir.Violation) error {
	var err error
	switch {
	case v.Line == 0:
		_, err = fmt.Fprintf(w, "%s: [%s] %s (%s)\n", v.File, v.Severity, v.Message, v.RuleID)
	case v.Column == 0:
		_, err = fmt.Fprintf(w, "%s:%d: [%s] %s (%s)\n", v.File, v.Line, v.Severity, v.Message, v.RuleID)
	default:
		_, err = fmt.Fprintf(w, "%s:%d:%d: [%s] %s (%s)\n", v.File, v.Line, v.Column, v.Severity, v.Message, v.RuleID)
	}
	return err
}
