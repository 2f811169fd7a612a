package rules

import "github.com/codewithboateng/purslint/internal/ir"

// Rule represents a single style rule executed over a parsed file.
type Rule struct {
	ID       string
	Category string
	Severity string
	Summary  string
	// Eval inspects the file facts (lines, imports, bindings, case blocks)
	// and returns violations. Location and message are the rule's job;
	// RuleID, Category, Severity, and File are stamped by Evaluate when
	// left empty.
	Eval func(f *ir.SourceFile) []ir.Violation
}

// NameResolver refines the classification of an import/export list entry.
// The lexical classifier cannot tell an effect row from a type; a resolver
// with module knowledge can. Returning "" keeps the lexical kind.
type NameResolver interface {
	ResolveKind(module string, item ir.ListItem) string
}
