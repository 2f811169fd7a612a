package rules

import (
	"fmt"
	"strings"

	"github.com/codewithboateng/purslint/internal/ir"
)

func init() {
	Register(Rule{
		ID:       "IMPORT-ITEM-ORDER",
		Category: ir.CategoryImports,
		Severity: ir.SeverityWarning,
		Summary:  "Items inside an import list are out of order.",
		Eval:     evalImportItemOrder,
	})
}

func evalImportItemOrder(f *ir.SourceFile) []ir.Violation {
	var out []ir.Violation
	for _, d := range f.Imports {
		if !d.HasItems {
			continue
		}
		for _, iss := range listOrderIssues(d.Module, d.Items) {
			out = append(out, ir.Violation{
				Line:     d.Line + 1,
				Message:  iss.message("import"),
				Evidence: iss.evidence(),
			})
		}
	}
	return out
}

// orderIssue is one breach of the list ordering contract; the export-list
// rule shares it.
type orderIssue struct {
	prev, cur   ir.ListItem
	prevK, curK string
	categoryBad bool
}

func (o orderIssue) message(noun string) string {
	if o.categoryBad {
		return fmt.Sprintf("%s list category order: %s %q listed after %s %q (expected kinds, classes, types, operators, then functions)",
			noun, kindNoun(o.curK), o.cur.Name, kindNoun(o.prevK), o.prev.Name)
	}
	return fmt.Sprintf("%s list not alphabetical: %q should come before %q", noun, o.cur.Name, o.prev.Name)
}

func (o orderIssue) evidence() string {
	return o.prev.Name + ", " + o.cur.Name
}

// listOrderIssues checks one import/export list. Categories must appear in
// rank order and each same-kind segment must be alphabetical. At most one
// issue per segment plus one for the first category breach keeps the output
// readable on badly scrambled lists.
func listOrderIssues(module string, items []ir.ListItem) []orderIssue {
	var issues []orderIssue
	catFlagged := false
	segFlagged := false
	for i := 1; i < len(items); i++ {
		prev, cur := items[i-1], items[i]
		pk, ck := resolvedKind(module, prev), resolvedKind(module, cur)
		pr, cr := kindRank(pk), kindRank(ck)
		switch {
		case cr < pr:
			if !catFlagged {
				issues = append(issues, orderIssue{prev: prev, cur: cur, prevK: pk, curK: ck, categoryBad: true})
				catFlagged = true
			}
			segFlagged = false
		case cr > pr:
			segFlagged = false
		default:
			if !segFlagged && itemLess(cur, prev) {
				issues = append(issues, orderIssue{prev: prev, cur: cur, prevK: pk, curK: ck})
				segFlagged = true
			}
		}
	}
	return issues
}

func itemLess(a, b ir.ListItem) bool {
	al, bl := strings.ToLower(a.Name), strings.ToLower(b.Name)
	if al != bl {
		return al < bl
	}
	return a.Name < b.Name
}

func kindRank(kind string) int {
	switch kind {
	case ir.NameModule:
		return 0
	case ir.NameKindImport:
		return 1
	case ir.NameClass:
		return 2
	case ir.NameEffect:
		return 3
	case ir.NameType:
		return 4
	case ir.NameOperator:
		return 5
	}
	return 6 // functions last
}

func kindNoun(kind string) string {
	switch kind {
	case ir.NameModule:
		return "module re-export"
	case ir.NameKindImport:
		return "kind"
	case ir.NameClass:
		return "class"
	case ir.NameEffect:
		return "effect"
	case ir.NameType:
		return "type"
	case ir.NameOperator:
		return "operator"
	}
	return "function"
}
