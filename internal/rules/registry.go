package rules

import (
	"fmt"
	"hash/crc32"
	"sort"
	"strings"

	"github.com/codewithboateng/purslint/internal/ir"
)

var (
	registry  []Rule
	ruleIndex = map[string]int{} // UPPER(ruleID) -> index
)

func Register(r Rule) {
	registry = append(registry, r)
	ruleIndex[strings.ToUpper(strings.TrimSpace(r.ID))] = len(registry) - 1
}

// List returns the enabled rules under the current settings, sorted by ID.
func List() []Rule {
	out := make([]Rule, 0, len(registry))
	for _, r := range registry {
		if rsettings.Disabled[strings.ToUpper(r.ID)] {
			continue
		}
		if !rsettings.Categories[r.Category] {
			continue
		}
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// All returns every registered rule regardless of settings, sorted by ID.
func All() []Rule {
	out := make([]Rule, len(registry))
	copy(out, registry)
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Evaluate runs the enabled rules over one parsed file. Each violation gets
// the file path and rule metadata stamped, a unique ID within the result,
// and the whole set comes back in the stable output order. Rules are pure
// over the immutable file facts, so the iteration order cannot change the
// result.
func Evaluate(f *ir.SourceFile) []ir.Violation {
	var all []ir.Violation
	rs := List()

	seen := make(map[string]struct{}) // violation IDs seen for this file
	seq := 0

	put := func(id string) bool {
		if _, ok := seen[id]; ok {
			return false
		}
		seen[id] = struct{}{}
		return true
	}

	for _, rule := range rs {
		vs := rule.Eval(f)
		for k := range vs {
			if vs[k].File == "" {
				vs[k].File = f.Path
			}
			if vs[k].RuleID == "" {
				vs[k].RuleID = rule.ID
			}
			if vs[k].Category == "" {
				vs[k].Category = rule.Category
			}
			if vs[k].Severity == "" {
				vs[k].Severity = rule.Severity
			}
			if !severityOK(vs[k].Severity) {
				continue
			}
			// Guarantee a unique, deterministic ID within the file
			id := makeID(vs[k].RuleID, vs[k].File, vs[k].Line, vs[k].Evidence)
			if !put(id) {
				for {
					seq++
					candidate := fmt.Sprintf("%s-%06d", rule.ID, seq)
					if put(candidate) {
						id = candidate
						break
					}
				}
			}
			vs[k].ID = id
			all = append(all, vs[k])
		}
	}

	ir.SortViolations(all)
	return all
}

func makeID(ruleID, file string, line int, evidence string) string {
	data := fmt.Sprintf("%s|%s|%d|%s", ruleID, file, line, evidence)
	sum := crc32.ChecksumIEEE([]byte(data))
	return fmt.Sprintf("%s-%08x", ruleID, sum)
}

// Get returns a rule by ID if registered (used by the HTML report and the
// rules subcommand).
func Get(id string) (Rule, bool) {
	idx, ok := ruleIndex[strings.ToUpper(strings.TrimSpace(id))]
	if !ok || idx < 0 || idx >= len(registry) {
		return Rule{}, false
	}
	return registry[idx], true
}
