package rulesdsl_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codewithboateng/purslint/internal/ir"
	"github.com/codewithboateng/purslint/internal/parser"
	"github.com/codewithboateng/purslint/internal/rules"
	"github.com/codewithboateng/purslint/internal/rulesdsl"
)

func writePack(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "pack.yaml")
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	return p
}

func hits(vs []ir.Violation, id string) []ir.Violation {
	var out []ir.Violation
	for _, v := range vs {
		if v.RuleID == id {
			out = append(out, v)
		}
	}
	return out
}

func TestLoadAndRegister_PackRulesEvaluate(t *testing.T) {
	pack := writePack(t, `
rules:
  - id: org-debug-trace
    category: formatting
    severity: ADVISORY
    summary: Leftover trace call.
    message: remove the Debug.Trace call before committing
    match:
      lineRegex: 'Debug\.Trace'
  - id: org-spec-only
    severity: WARNING
    message: spec helper used outside a spec file
    match:
      lineRegex: 'unsafeSpecHelper'
      fileSuffix: 'Spec.purs'
`)
	n, err := rulesdsl.LoadAndRegister(pack)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	r, ok := rules.Get("ORG-DEBUG-TRACE")
	require.True(t, ok)
	assert.Equal(t, ir.SeverityAdvisory, r.Severity)
	assert.Equal(t, ir.CategoryFormatting, r.Category)

	sf, err := parser.ParseSource("App/Main.purs", "module M where\n\nx = Debug.Trace.spy one\ny = unsafeSpecHelper\n")
	require.NoError(t, err)
	vs := rules.Evaluate(sf)

	traced := hits(vs, "ORG-DEBUG-TRACE")
	require.Len(t, traced, 1)
	assert.Equal(t, 3, traced[0].Line)
	assert.Equal(t, 5, traced[0].Column)
	assert.Equal(t, "remove the Debug.Trace call before committing", traced[0].Message)
	assert.Equal(t, "x = Debug.Trace.spy one", traced[0].Evidence)

	// the suffix filter keeps the second rule out of a non-spec file
	assert.Empty(t, hits(vs, "ORG-SPEC-ONLY"))
}

func TestLoadAndRegister_ErrorSeverityClamped(t *testing.T) {
	pack := writePack(t, `
rules:
  - id: org-clamped
    severity: ERROR
    message: flagged
    match:
      lineRegex: 'never-matches-anything'
`)
	n, err := rulesdsl.LoadAndRegister(pack)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	r, ok := rules.Get("ORG-CLAMPED")
	require.True(t, ok)
	assert.Equal(t, ir.SeverityWarning, r.Severity)
}

func TestLoadAndRegister_DuplicateID(t *testing.T) {
	pack := writePack(t, `
rules:
  - id: org-dup
    severity: WARNING
    message: first
    match:
      lineRegex: 'aaa'
  - id: org-dup
    severity: WARNING
    message: second
    match:
      lineRegex: 'bbb'
`)
	n, err := rulesdsl.LoadAndRegister(pack)
	assert.Equal(t, 1, n)
	require.Error(t, err)
	assert.ErrorContains(t, err, "rule id already registered")
}

func TestLoadAndRegister_BadPacks(t *testing.T) {
	cases := []struct {
		name    string
		body    string
		wantErr string
	}{
		{
			name:    "missing message",
			body:    "rules:\n  - id: org-bad-a\n    severity: WARNING\n    match:\n      lineRegex: 'x'\n",
			wantErr: "missing required fields",
		},
		{
			name:    "unknown severity",
			body:    "rules:\n  - id: org-bad-b\n    severity: CRITICAL\n    message: m\n    match:\n      lineRegex: 'x'\n",
			wantErr: `unknown severity "CRITICAL"`,
		},
		{
			name:    "unknown category",
			body:    "rules:\n  - id: org-bad-c\n    category: style\n    severity: WARNING\n    message: m\n    match:\n      lineRegex: 'x'\n",
			wantErr: `unknown category "style"`,
		},
		{
			name:    "missing lineRegex",
			body:    "rules:\n  - id: org-bad-d\n    severity: WARNING\n    message: m\n",
			wantErr: "match.lineRegex is required",
		},
		{
			name:    "invalid lineRegex",
			body:    "rules:\n  - id: org-bad-e\n    severity: WARNING\n    message: m\n    match:\n      lineRegex: '(['\n",
			wantErr: "match.lineRegex",
		},
		{
			name:    "broken yaml",
			body:    "rules: [",
			wantErr: "parse yaml",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := rulesdsl.LoadAndRegister(writePack(t, tc.body))
			require.Error(t, err)
			assert.ErrorContains(t, err, tc.wantErr)
		})
	}
}

func TestLoadAndRegister_MissingFile(t *testing.T) {
	_, err := rulesdsl.LoadAndRegister(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.ErrorContains(t, err, "read rules pack")
}
