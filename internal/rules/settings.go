package rules

import "github.com/codewithboateng/purslint/internal/ir"

type Settings struct {
	MaxLineLength        int
	IndentSize           int
	NestedIndentSize     int
	ArrowIndentThreshold int
	MaxMatcherBodyLines  int
	Categories           map[string]bool
	SeverityThreshold    string
	Disabled             map[string]bool
	LocalPrefixes        []string
	Resolver             NameResolver
}

var rsettings = defaultSettings()

func defaultSettings() Settings {
	cats := map[string]bool{}
	for _, c := range ir.Categories() {
		cats[c] = true
	}
	return Settings{
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

func SetSettings(s Settings) {
	// fill defaults
	d := defaultSettings()
	if s.MaxLineLength == 0 {
		s.MaxLineLength = d.MaxLineLength
	}
	if s.IndentSize == 0 {
		s.IndentSize = d.IndentSize
	}
	if s.NestedIndentSize == 0 {
		s.NestedIndentSize = d.NestedIndentSize
	}
	if s.ArrowIndentThreshold < 0 {
		// zero is a meaningful threshold; only negatives fall back
		s.ArrowIndentThreshold = d.ArrowIndentThreshold
	}
	if s.MaxMatcherBodyLines == 0 {
		s.MaxMatcherBodyLines = d.MaxMatcherBodyLines
	}
	if s.Categories == nil {
		s.Categories = d.Categories
	}
	if s.SeverityThreshold == "" {
		s.SeverityThreshold = d.SeverityThreshold
	}
	if s.Disabled == nil {
		s.Disabled = map[string]bool{}
	}
	rsettings = s
}

// CurrentSettings returns a snapshot of the effective settings.
func CurrentSettings() Settings {
	return rsettings
}

func severityOK(sev string) bool {
	return ir.SeverityRank(sev) >= ir.SeverityRank(rsettings.SeverityThreshold)
}

// resolvedKind asks the configured resolver for an item's kind, falling back
// to the lexical classification.
func resolvedKind(module string, it ir.ListItem) string {
	if rsettings.Resolver != nil {
		if k := rsettings.Resolver.ResolveKind(module, it); k != "" {
			return k
		}
	}
	return it.Kind
}
