package rules

import (
	"strconv"
	"strings"

	"github.com/codewithboateng/purslint/internal/ir"
)

func init() {
	Register(Rule{
		ID:       "TRAILING-WHITESPACE",
		Category: ir.CategoryFormatting,
		Severity: ir.SeverityWarning,
		Summary:  "Whitespace before the line terminator.",
		Eval:     evalTrailingWhitespace,
	})
}

func evalTrailingWhitespace(f *ir.SourceFile) []ir.Violation {
	var out []ir.Violation
	for _, ln := range f.Lines {
		if !ln.TrailingWS {
			continue
		}
		tail := ln.Text[len(strings.TrimRight(ln.Text, " \t")):]
		out = append(out, ir.Violation{
			Line:     ln.Index + 1,
			Column:   ln.Visible + 1,
			Message:  "trailing whitespace",
			Evidence: strconv.Quote(tail),
		})
	}
	return out
}
