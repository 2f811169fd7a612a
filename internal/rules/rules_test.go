package rules_test

import (
	"reflect"
	"testing"

	"github.com/codewithboateng/purslint/internal/ir"
	"github.com/codewithboateng/purslint/internal/parser"
	"github.com/codewithboateng/purslint/internal/rules"
	"github.com/codewithboateng/purslint/internal/storage"
)

// testSettings spells out every knob so a test never depends on the
// zero-value fill in SetSettings.
func testSettings() rules.Settings {
	cats := map[string]bool{}
	for _, c := range ir.Categories() {
		cats[c] = true
	}
	return rules.Settings{
		MaxLineLength:        80,
		IndentSize:           2,
		NestedIndentSize:     4,
		ArrowIndentThreshold: 10,
		MaxMatcherBodyLines:  3,
		Categories:           cats,
		SeverityThreshold:    ir.SeverityAdvisory,
		Disabled:             map[string]bool{},
	}
}

func parseFile(t *testing.T, src string) *ir.SourceFile {
	t.Helper()
	sf, err := parser.ParseSource("App/Main.purs", src)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return sf
}

// lint evaluates src under the default test settings.
func lint(t *testing.T, src string) []ir.Violation {
	t.Helper()
	rules.SetSettings(testSettings())
	return rules.Evaluate(parseFile(t, src))
}

func byRule(vs []ir.Violation, id string) []ir.Violation {
	var out []ir.Violation
	for _, v := range vs {
		if v.RuleID == id {
			out = append(out, v)
		}
	}
	return out
}

// mixedSource trips one rule in every category: export order, import list
// order, group separation, a snake_case value, a lowercase type, a plural
// module segment, trailing whitespace, a misindented case branch, and
// unaligned arrows.
const mixedSource = `module App.Helpers
  ( zeta
  , alpha
  ) where

import Prelude
import App.Helpers.Internal (b, a, c)

badName_snake = one

data color = Mkcolor

answer = two` + " " + `

check x = case x of
    true -> one
    false -> two
`

func TestEvaluate_MixedSampleHitsEveryCategory(t *testing.T) {
	vs := lint(t, mixedSource)

	want := map[string]int{
		"CASE-ARROW-ALIGNMENT": 1,
		"CASE-BRANCH-INDENT":   1,
		"EXPORT-ITEM-ORDER":    1,
		"FUNCTION-NAME-CASE":   1,
		"IMPORT-GROUP-LAYOUT":  1,
		"IMPORT-ITEM-ORDER":    1,
		"MODULE-NAME-PLURAL":   1,
		"TRAILING-WHITESPACE":  1,
		"TYPE-NAME-CASE":       1,
	}
	got := map[string]int{}
	for _, v := range vs {
		got[v.RuleID]++
	}
	if !reflect.DeepEqual(want, got) {
		t.Fatalf("rule hit counts:\n want %v\n  got %v", want, got)
	}
}

func TestEvaluate_CategoryOrderDoesNotChangeResults(t *testing.T) {
	sf := parseFile(t, mixedSource)

	runWith := func(order []string) []ir.Violation {
		cats := map[string]bool{}
		for _, c := range order {
			cats[c] = true
		}
		s := testSettings()
		s.Categories = cats
		rules.SetSettings(s)
		return rules.Evaluate(sf)
	}

	forward := ir.Categories()
	backward := make([]string, len(forward))
	for i, c := range forward {
		backward[len(forward)-1-i] = c
	}

	a := runWith(forward)
	b := runWith(backward)
	c := runWith(forward)

	if len(a) == 0 {
		t.Fatal("expected violations from the mixed sample; got none")
	}
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("shuffled category order changed the result:\n a=%+v\n b=%+v", a, b)
	}
	if !reflect.DeepEqual(a, c) {
		t.Fatalf("re-evaluating the same file changed the result")
	}
}

func TestEvaluate_StampsAndUniqueIDs(t *testing.T) {
	vs := lint(t, mixedSource)

	seen := map[string]bool{}
	for _, v := range vs {
		if v.ID == "" || v.File != "App/Main.purs" || v.RuleID == "" || v.Category == "" || v.Severity == "" {
			t.Fatalf("violation missing stamped fields: %+v", v)
		}
		if seen[v.ID] {
			t.Fatalf("duplicate violation ID %s", v.ID)
		}
		seen[v.ID] = true
	}

	// stable output order
	sorted := make([]ir.Violation, len(vs))
	copy(sorted, vs)
	ir.SortViolations(sorted)
	if !reflect.DeepEqual(vs, sorted) {
		t.Fatalf("Evaluate output not in the stable order")
	}
}

func TestEvaluate_SeverityThreshold(t *testing.T) {
	sf := parseFile(t, mixedSource)

	rules.SetSettings(testSettings())
	all := rules.Evaluate(sf)

	s := testSettings()
	s.SeverityThreshold = ir.SeverityWarning
	rules.SetSettings(s)
	warnUp := rules.Evaluate(sf)

	if len(warnUp) >= len(all) {
		t.Fatalf("expected WARNING threshold to drop advisories; got %d vs %d", len(warnUp), len(all))
	}
	for _, v := range warnUp {
		if v.Severity == ir.SeverityAdvisory {
			t.Fatalf("advisory survived a WARNING threshold: %+v", v)
		}
	}
	if len(byRule(warnUp, "MODULE-NAME-PLURAL")) != 0 {
		t.Fatalf("MODULE-NAME-PLURAL is advisory and must not pass a WARNING threshold")
	}

	s.SeverityThreshold = ir.SeverityError
	rules.SetSettings(s)
	if got := rules.Evaluate(sf); len(got) != 0 {
		t.Fatalf("no built-in rule reports ERROR; expected empty set, got %d", len(got))
	}
}

func TestEvaluate_DisabledRule(t *testing.T) {
	sf := parseFile(t, mixedSource)

	s := testSettings()
	s.Disabled = map[string]bool{"TRAILING-WHITESPACE": true}
	rules.SetSettings(s)
	vs := rules.Evaluate(sf)

	if got := byRule(vs, "TRAILING-WHITESPACE"); len(got) != 0 {
		t.Fatalf("disabled rule still reported: %+v", got)
	}
	if got := byRule(vs, "FUNCTION-NAME-CASE"); len(got) != 1 {
		t.Fatalf("unrelated rule affected by disable; got %d hits", len(got))
	}
}

func TestList_FiltersByCategoryAndDisable(t *testing.T) {
	s := testSettings()
	s.Categories = map[string]bool{ir.CategoryFormatting: true}
	rules.SetSettings(s)

	for _, r := range rules.List() {
		if r.Category != ir.CategoryFormatting {
			t.Fatalf("List leaked rule %s from category %s", r.ID, r.Category)
		}
	}
	if len(rules.List()) == 0 {
		t.Fatal("formatting category has rules; List returned none")
	}
	if len(rules.All()) <= len(rules.List()) {
		t.Fatalf("All must ignore the category filter")
	}
}

func TestGet_CaseInsensitive(t *testing.T) {
	rules.SetSettings(testSettings())

	r, ok := rules.Get("line-too-long")
	if !ok || r.ID != "LINE-TOO-LONG" {
		t.Fatalf("Get(line-too-long) = %+v, %v", r, ok)
	}
	if _, ok := rules.Get("NO-SUCH-RULE"); ok {
		t.Fatal("Get found a rule that was never registered")
	}
}

func TestApplyWaivers(t *testing.T) {
	vs := []ir.Violation{
		{RuleID: "TAB-IN-SOURCE", File: "src/App/Main.purs", Message: "tab character in source; indent with spaces"},
		{RuleID: "LINE-TOO-LONG", File: "src/App/Main.purs", Evidence: "selectAllUsersByNameAndDate :: Query"},
		{RuleID: "LINE-TOO-LONG", File: "src/App/Other.purs", Evidence: "shortBinding"},
	}
	waivers := []storage.Waiver{
		{ID: 1, RuleID: "tab-in-source", Reason: "legacy file"},
		{ID: 2, RuleID: "LINE-TOO-LONG", File: "app/main", PatternSub: "selectall", Reason: "generated query"},
	}

	kept, waived := rules.ApplyWaivers(vs, waivers)
	if waived != 2 {
		t.Fatalf("expected 2 waived; got %d", waived)
	}
	if len(kept) != 1 || kept[0].File != "src/App/Other.purs" {
		t.Fatalf("expected only the Other.purs violation to survive; got %+v", kept)
	}

	kept, waived = rules.ApplyWaivers(vs, nil)
	if waived != 0 || len(kept) != 3 {
		t.Fatalf("no waivers must keep everything; got %d kept, %d waived", len(kept), waived)
	}
}
