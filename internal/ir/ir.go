package ir

import (
	"sort"
	"strings"
	"time"
)

const Version = "1.0"

// Severity tiers, strongest first. Advisory findings are suggestions and
// never gate the exit status.
const (
	SeverityError    = "ERROR"
	SeverityWarning  = "WARNING"
	SeverityAdvisory = "ADVISORY"
)

// SeverityRank maps a severity to a comparable weight. Unknown values rank
// as ADVISORY.
func SeverityRank(sev string) int {
	switch strings.ToUpper(strings.TrimSpace(sev)) {
	case SeverityError:
		return 3
	case SeverityWarning:
		return 2
	default:
		return 1
	}
}

// Rule categories, in the order reports list them.
const (
	CategoryFormatting = "formatting"
	CategoryNaming     = "naming"
	CategoryImports    = "imports"
	CategoryExports    = "exports"
	CategoryCase       = "case-statements"
)

func Categories() []string {
	return []string{
		CategoryFormatting,
		CategoryNaming,
		CategoryImports,
		CategoryExports,
		CategoryCase,
	}
}

type Run struct {
	ID        string    `json:"id"`
	StartedAt time.Time `json:"started_at"`
	Source    string    `json:"source,omitempty"`
	IRVersion string    `json:"ir_version,omitempty"`

	Context    Context      `json:"context"`
	Files      []FileResult `json:"files"`
	Violations []Violation  `json:"violations,omitempty"`
}

// Context records the effective engine options for a run.
type Context struct {
	MaxLineLength           int      `json:"max_line_length,omitempty"`
	IndentSize              int      `json:"indent_size,omitempty"`
	NestedIndentSize        int      `json:"nested_indent_size,omitempty"`
	MaxArrowIndentThreshold int      `json:"max_arrow_indent_threshold,omitempty"`
	MaxMatcherBodyLines     int      `json:"max_matcher_body_lines,omitempty"`
	EnabledRuleCategories   []string `json:"enabled_rule_categories,omitempty"`
	SeverityThreshold       string   `json:"severity_threshold,omitempty"`
	DisabledRules           []string `json:"disabled_rules,omitempty"`
}

type FileResult struct {
	Path        string       `json:"path"`
	Metrics     Metrics      `json:"metrics"`
	Diagnostics []Diagnostic `json:"diagnostics,omitempty"`
}

// Diagnostic kinds.
const (
	DiagParse = "PARSE"
	DiagIO    = "IO"
)

// Diagnostic is a file-level failure (unreadable or unparsable source),
// reported apart from style violations and excluded from the exit gate.
type Diagnostic struct {
	File    string `json:"file"`
	Kind    string `json:"kind"` // PARSE|IO
	Message string `json:"message"`
}

// Metrics are per-file style measurements annotated before rule evaluation.
type Metrics struct {
	Lines        int     `json:"lines"`
	CodeLines    int     `json:"code_lines"`
	CommentLines int     `json:"comment_lines"`
	BlankLines   int     `json:"blank_lines"`
	MaxWidth     int     `json:"max_width"`
	CommentRatio float64 `json:"comment_ratio,omitempty"`
	DocCoverage  float64 `json:"doc_coverage,omitempty"`
}

// Violation is one reported deviation from an enabled rule.
// Line is 1-based for output; 0 means the violation is file-scoped.
type Violation struct {
	ID       string `json:"id"`
	File     string `json:"file"`
	Line     int    `json:"line,omitempty"`
	Column   int    `json:"column,omitempty"`
	RuleID   string `json:"rule_id"`
	Category string `json:"category"`
	Severity string `json:"severity"` // ERROR|WARNING|ADVISORY
	Message  string `json:"message"`
	Evidence string `json:"evidence,omitempty"`
}

// Gating reports whether v alone should fail a check run.
func (v Violation) Gating() bool {
	return SeverityRank(v.Severity) > SeverityRank(SeverityAdvisory)
}

// HasGating reports whether any violation in vs gates the exit status.
func HasGating(vs []Violation) bool {
	for _, v := range vs {
		if v.Gating() {
			return true
		}
	}
	return false
}

// SortViolations orders violations by file, line, column, rule ID, then
// message. File-scoped violations (line 0) sort before line-scoped ones of
// the same file.
func SortViolations(vs []Violation) {
	sort.SliceStable(vs, func(i, j int) bool {
		a, b := vs[i], vs[j]
		if a.File != b.File {
			return a.File < b.File
		}
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		if a.Column != b.Column {
			return a.Column < b.Column
		}
		if a.RuleID != b.RuleID {
			return a.RuleID < b.RuleID
		}
		return a.Message < b.Message
	})
}
