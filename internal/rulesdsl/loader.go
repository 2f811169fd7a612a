package rulesdsl

import (
	"fmt"
	"os"
	"regexp"
	"strings"
	"unicode/utf8"

	"gopkg.in/yaml.v3"

	"github.com/codewithboateng/purslint/internal/ir"
	"github.com/codewithboateng/purslint/internal/rules"
)

type dslPack struct {
	Rules []dslRule `yaml:"rules"`
}

type dslRule struct {
	ID       string `yaml:"id"`
	Category string `yaml:"category"` // formatting|naming|imports|exports|case-statements
	Severity string `yaml:"severity"` // ADVISORY|WARNING (ERROR is clamped to WARNING)
	Summary  string `yaml:"summary"`
	Message  string `yaml:"message"`

	Match struct {
		LineRegex  string `yaml:"lineRegex"`
		FileSuffix string `yaml:"fileSuffix"`
	} `yaml:"match"`
}

type compiled struct {
	rule   dslRule
	reLine *regexp.Regexp
	suffix string
}

// LoadAndRegister compiles a YAML rule pack and registers each rule into
// the shared table; pack rules are indistinguishable from built-ins
// downstream. A malformed pack is a configuration error.
func LoadAndRegister(path string) (int, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("read rules pack: %w", err)
	}
	var pack dslPack
	if err := yaml.Unmarshal(b, &pack); err != nil {
		return 0, fmt.Errorf("parse yaml: %w", err)
	}
	var n int
	for _, r := range pack.Rules {
		cr, err := compile(r)
		if err != nil {
			return n, fmt.Errorf("compile rule %q: %w", r.ID, err)
		}
		registerCompiled(*cr)
		n++
	}
	return n, nil
}

func compile(r dslRule) (*compiled, error) {
	if r.ID == "" || r.Severity == "" || r.Message == "" {
		return nil, fmt.Errorf("missing required fields (id/severity/message)")
	}
	r.ID = strings.ToUpper(strings.TrimSpace(r.ID))
	if _, exists := rules.Get(r.ID); exists {
		return nil, fmt.Errorf("rule id already registered")
	}

	switch sev := strings.ToUpper(strings.TrimSpace(r.Severity)); sev {
	case ir.SeverityAdvisory, ir.SeverityWarning:
		r.Severity = sev
	case ir.SeverityError:
		// pack rules never gate harder than built-ins
		r.Severity = ir.SeverityWarning
	default:
		return nil, fmt.Errorf("unknown severity %q", r.Severity)
	}

	if r.Category == "" {
		r.Category = ir.CategoryFormatting
	}
	known := false
	for _, c := range ir.Categories() {
		if r.Category == c {
			known = true
			break
		}
	}
	if !known {
		return nil, fmt.Errorf("unknown category %q", r.Category)
	}

	if r.Match.LineRegex == "" {
		return nil, fmt.Errorf("match.lineRegex is required")
	}
	re, err := regexp.Compile(r.Match.LineRegex)
	if err != nil {
		return nil, fmt.Errorf("match.lineRegex: %w", err)
	}
	return &compiled{rule: r, reLine: re, suffix: r.Match.FileSuffix}, nil
}

func registerCompiled(c compiled) {
	rules.Register(rules.Rule{
		ID:       c.rule.ID,
		Category: c.rule.Category,
		Severity: c.rule.Severity,
		Summary:  c.rule.Summary,
		Eval: func(f *ir.SourceFile) []ir.Violation {
			if c.suffix != "" && !strings.HasSuffix(f.Path, c.suffix) {
				return nil
			}
			var out []ir.Violation
			for _, ln := range f.Lines {
				loc := c.reLine.FindStringIndex(ln.Text)
				if loc == nil {
					continue
				}
				out = append(out, ir.Violation{
					Line:     ln.Index + 1,
					Column:   utf8.RuneCountInString(ln.Text[:loc[0]]) + 1,
					Message:  c.rule.Message,
					Evidence: evidenceFor(ln.Text),
				})
			}
			return out
		},
	})
}

func evidenceFor(line string) string {
	line = strings.TrimSpace(line)
	if len(line) > 80 {
		return line[:80] + "..."
	}
	return line
}
