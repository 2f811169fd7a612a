package rules

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/codewithboateng/purslint/internal/ir"
)

func init() {
	Register(Rule{
		ID:       "LINE-TOO-LONG",
		Category: ir.CategoryFormatting,
		Severity: ir.SeverityWarning,
		Summary:  "Line exceeds the configured maximum visible width.",
		Eval:     evalLineTooLong,
	})
}

// A line that is nothing but a URL (optionally behind a comment leader) is
// exempt; URLs do not wrap.
var urlOnly = regexp.MustCompile(`^(--+\s*)?[A-Za-z][A-Za-z0-9+.-]*://\S+$`)

func evalLineTooLong(f *ir.SourceFile) []ir.Violation {
	limit := rsettings.MaxLineLength
	var out []ir.Violation
	for _, ln := range f.Lines {
		if ln.Visible <= limit {
			continue
		}
		if urlOnly.MatchString(strings.TrimSpace(ln.Text)) {
			continue
		}
		out = append(out, ir.Violation{
			Line:     ln.Index + 1,
			Column:   limit + 1,
			Message:  fmt.Sprintf("line is %d characters long (max %d)", ln.Visible, limit),
			Evidence: snippet(ln.Text),
		})
	}
	return out
}

func snippet(s string) string {
	s = strings.TrimSpace(s)
	if len(s) > 200 {
		return s[:200] + "..."
	}
	return s
}
