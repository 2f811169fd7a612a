package parser

import (
	"fmt"
	"os"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/codewithboateng/purslint/internal/ir"
)

// ParseFile reads and parses one source file.
func ParseFile(path string) (*ir.SourceFile, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseSource(path, string(b))
}

// ParseSource extracts the structural facts the rules consume: line
// attributes, the module header, the import section, top-level bindings,
// case blocks, and literal openers. A non-nil error means the file is
// unusable as a whole; callers surface it as a file-level diagnostic and
// skip rule evaluation.
func ParseSource(path, content string) (*ir.SourceFile, error) {
	if !utf8.ValidString(content) {
		return nil, fmt.Errorf("source is not valid UTF-8")
	}
	raw := splitLines(content)
	lex, err := maskLines(raw)
	if err != nil {
		return nil, err
	}

	sf := &ir.SourceFile{Path: path}
	sf.Lines = buildLines(raw, lex)

	headerEnd, err := parseModuleHeader(sf)
	if err != nil {
		return nil, err
	}
	importLines := parseImports(sf, headerEnd)
	parseBindings(sf, headerEnd, importLines)
	parseCaseBlocks(sf)
	parseLiteralBlocks(sf)
	return sf, nil
}

func splitLines(content string) []string {
	lines := strings.Split(content, "\n")
	if n := len(lines); n > 0 && lines[n-1] == "" {
		lines = lines[:n-1]
	}
	for i, s := range lines {
		lines[i] = strings.TrimSuffix(s, "\r")
	}
	return lines
}

func buildLines(raw []string, lex []lineLex) []ir.SourceLine {
	out := make([]ir.SourceLine, len(raw))
	for i, text := range raw {
		trimmed := strings.TrimRight(text, " \t")
		lead := leadingWS(text)
		out[i] = ir.SourceLine{
			Index:      i,
			Text:       text,
			Masked:     lex[i].masked,
			Visible:    utf8.RuneCountInString(trimmed),
			Indent:     utf8.RuneCountInString(lead),
			LeadWS:     lead,
			TrailingWS: trimmed != text,
			Blank:      strings.TrimSpace(text) == "",
			InComment:  lex[i].inComment,
			InString:   lex[i].inString,
		}
		// A non-blank line whose masked text is empty is a comment line,
		// unless what was masked away was string content.
		out[i].Comment = !out[i].Blank && !lex[i].hasStr && strings.TrimSpace(out[i].Masked) == ""
	}
	return out
}

func leadingWS(s string) string {
	for i, c := range s {
		if c != ' ' && c != '\t' {
			return s[:i]
		}
	}
	return s
}

// isCode reports whether the line carries any code in its masked text.
func isCode(ln ir.SourceLine) bool {
	return !ln.Blank && strings.TrimSpace(ln.Masked) != ""
}

var whereWord = regexp.MustCompile(`(^|[^\w'])where([^\w']|$)`)

func parseModuleHeader(sf *ir.SourceFile) (int, error) {
	start := -1
	for i, ln := range sf.Lines {
		if ln.InComment || ln.InString || !isCode(ln) {
			continue
		}
		if ln.Indent == 0 && strings.HasPrefix(ln.Masked, "module ") {
			start = i
			break
		}
		return 0, fmt.Errorf("line %d: code before module declaration", i+1)
	}
	if start == -1 {
		return 0, fmt.Errorf("no module declaration")
	}

	depth := 0
	end := -1
	var b strings.Builder
	for i := start; i < len(sf.Lines); i++ {
		t := sf.Lines[i].Masked
		depth += delimDelta(t)
		b.WriteString(t)
		b.WriteByte(' ')
		if depth == 0 && whereWord.MatchString(t) {
			end = i
			break
		}
	}
	if end == -1 {
		return 0, fmt.Errorf("module header: missing where")
	}

	rest := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(b.String()), "module"))
	name := rest
	if k := strings.IndexAny(name, " ("); k != -1 {
		name = name[:k]
	}
	if name == "" {
		return 0, fmt.Errorf("module header: missing module name")
	}
	sf.Module = ir.ModuleDecl{Name: name, Segments: strings.Split(name, "."), Line: start}

	after := strings.TrimSpace(rest[len(name):])
	if strings.HasPrefix(after, "(") {
		inner, _, ok := parenSpan(after, 0)
		if !ok {
			return 0, fmt.Errorf("module header: unbalanced export list")
		}
		sf.Module.HasExportList = true
		sf.Module.Exports = parseListItems(inner)
	}
	return end, nil
}

func delimDelta(s string) int {
	d := 0
	for _, c := range s {
		switch c {
		case '(':
			d++
		case ')':
			d--
		}
	}
	return d
}

// parenSpan returns the content of the first balanced paren group at or
// after from, plus the byte index just past its closing paren.
func parenSpan(s string, from int) (string, int, bool) {
	open := strings.Index(s[from:], "(")
	if open == -1 {
		return "", 0, false
	}
	open += from
	depth := 0
	for i := open; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return s[open+1 : i], i + 1, true
			}
		}
	}
	return "", 0, false
}

// splitTop splits on commas outside any bracket nesting.
func splitTop(s string) []string {
	var parts []string
	depth := 0
	last := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			depth--
		case ',':
			if depth == 0 {
				parts = append(parts, strings.TrimSpace(s[last:i]))
				last = i + 1
			}
		}
	}
	if p := strings.TrimSpace(s[last:]); p != "" {
		parts = append(parts, p)
	}
	return parts
}

func parseListItems(inner string) []ir.ListItem {
	var items []ir.ListItem
	for _, e := range splitTop(inner) {
		items = append(items, classifyItem(e))
	}
	return items
}

// classifyItem assigns a lexical name kind to one list entry. An upper-case
// head is a type; effects cannot be told apart from types without a semantic
// resolver, so the lexical pass never yields NameEffect.
func classifyItem(e string) ir.ListItem {
	switch {
	case strings.HasPrefix(e, "class "):
		return ir.ListItem{Name: strings.TrimSpace(e[len("class "):]), Kind: ir.NameClass}
	case strings.HasPrefix(e, "kind "):
		return ir.ListItem{Name: strings.TrimSpace(e[len("kind "):]), Kind: ir.NameKindImport}
	case strings.HasPrefix(e, "module "):
		return ir.ListItem{Name: strings.TrimSpace(e[len("module "):]), Kind: ir.NameModule}
	case strings.HasPrefix(e, "type "):
		rest := strings.TrimSpace(e[len("type "):])
		if strings.HasPrefix(rest, "(") {
			return ir.ListItem{Name: strings.Trim(rest, "() "), Kind: ir.NameOperator}
		}
		return ir.ListItem{Name: rest, Kind: ir.NameType}
	case strings.HasPrefix(e, "("):
		return ir.ListItem{Name: strings.Trim(e, "() "), Kind: ir.NameOperator}
	}

	it := ir.ListItem{Name: e}
	if open := strings.Index(e, "("); open != -1 {
		it.Name = strings.TrimSpace(e[:open])
		if inner, _, ok := parenSpan(e, open); ok {
			switch inner = strings.TrimSpace(inner); inner {
			case "..":
				it.Ctors = ir.CtorsAll
			case "":
				it.Ctors = ir.CtorsNone
			default:
				it.Ctors = ir.CtorsPartial
				it.CtorNames = splitTop(inner)
			}
		}
	}
	r, _ := utf8.DecodeRuneInString(it.Name)
	if unicode.IsUpper(r) {
		it.Kind = ir.NameType
	} else {
		it.Kind = ir.NameFunction
	}
	return it
}

func parseImports(sf *ir.SourceFile, headerEnd int) map[int]bool {
	used := map[int]bool{}
	i := headerEnd + 1
	for i < len(sf.Lines) {
		ln := sf.Lines[i]
		if ln.InComment || ln.InString || !isCode(ln) ||
			ln.Indent != 0 || !strings.HasPrefix(ln.Masked, "import ") {
			i++
			continue
		}
		decl, end := parseImportAt(sf, i)
		for j := i; j <= end; j++ {
			used[j] = true
		}
		sf.Imports = append(sf.Imports, decl)
		i = end + 1
	}
	return used
}

func parseImportAt(sf *ir.SourceFile, start int) (ir.ImportDecl, int) {
	depth := 0
	end := start
	var b strings.Builder
	for i := start; i < len(sf.Lines); i++ {
		t := sf.Lines[i].Masked
		depth += delimDelta(t)
		b.WriteString(t)
		b.WriteByte(' ')
		end = i
		if depth <= 0 {
			break
		}
	}
	decl := parseImportText(b.String())
	decl.Line = start
	decl.EndLine = end
	return decl, end
}

func parseImportText(s string) ir.ImportDecl {
	d := ir.ImportDecl{}
	rest := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(s), "import"))
	name := rest
	if k := strings.IndexAny(name, " ("); k != -1 {
		name = name[:k]
	}
	d.Module = name
	rest = strings.TrimSpace(rest[len(name):])

	if strings.HasPrefix(rest, "hiding") {
		d.Hiding = true
		rest = strings.TrimSpace(strings.TrimPrefix(rest, "hiding"))
	}
	if strings.HasPrefix(rest, "(") {
		if inner, after, ok := parenSpan(rest, 0); ok {
			d.HasItems = true
			d.Items = parseListItems(inner)
			rest = strings.TrimSpace(rest[after:])
		}
	}
	if rest == "as" || strings.HasPrefix(rest, "as ") {
		d.Qualified = true
		d.Alias = strings.TrimSpace(strings.TrimPrefix(rest, "as"))
		if k := strings.IndexByte(d.Alias, ' '); k != -1 {
			d.Alias = d.Alias[:k]
		}
	}
	return d
}

func parseBindings(sf *ir.SourceFile, headerEnd int, skip map[int]bool) {
	seen := map[string]bool{}
	for i := headerEnd + 1; i < len(sf.Lines); i++ {
		ln := sf.Lines[i]
		if skip[i] || ln.InComment || ln.InString || !isCode(ln) || ln.Indent != 0 {
			continue
		}
		fields := strings.Fields(ln.Masked)
		if len(fields) == 0 {
			continue
		}
		switch fields[0] {
		case "data", "newtype":
			if len(fields) >= 2 {
				addBinding(sf, i, typeHeadName(fields[1]), ir.BindType, seen)
				parseConstructors(sf, i)
			}
		case "type":
			if len(fields) >= 2 {
				addBinding(sf, i, typeHeadName(fields[1]), ir.BindType, seen)
			}
		case "class":
			if name := classHeadName(ln.Masked); name != "" {
				addBinding(sf, i, name, ir.BindClass, seen)
			}
		case "instance":
			if len(fields) >= 3 && fields[2] == "::" {
				addBinding(sf, i, fields[1], ir.BindInstance, seen)
			}
		case "derive":
			for k := 1; k+2 < len(fields); k++ {
				if fields[k] == "instance" && fields[k+2] == "::" {
					addBinding(sf, i, fields[k+1], ir.BindInstance, seen)
					break
				}
			}
		case "foreign":
			if len(fields) >= 3 && fields[1] == "import" {
				if fields[2] == "data" && len(fields) >= 4 {
					addBinding(sf, i, typeHeadName(fields[3]), ir.BindType, seen)
				} else {
					addBinding(sf, i, fields[2], ir.BindForeign, seen)
				}
			}
		case "infixl", "infixr", "infix", "else", "module", "import":
			// fixity declarations, instance chains, stray header lines
		default:
			name := fields[0]
			r, _ := utf8.DecodeRuneInString(name)
			if r == '(' || unicode.IsUpper(r) {
				continue
			}
			kind := ir.BindValue
			if bindsFunction(ln.Masked, name) {
				kind = ir.BindFunction
			}
			addBinding(sf, i, name, kind, seen)
		}
	}
}

func addBinding(sf *ir.SourceFile, line int, name, kind string, seen map[string]bool) {
	name = strings.TrimSpace(name)
	if name == "" || seen[kind+"|"+name] {
		return
	}
	seen[kind+"|"+name] = true
	sf.Bindings = append(sf.Bindings, ir.Binding{
		Line:       line,
		Name:       name,
		Kind:       kind,
		Documented: docAbove(sf, line),
	})
}

// typeHeadName trims a head token down to its identifier: "Foo=" names Foo.
func typeHeadName(tok string) string {
	for i, c := range tok {
		if !isIdentRune(c) {
			return tok[:i]
		}
	}
	return tok
}

// classHeadName extracts the class name, skipping superclass constraints:
// `class (Eq a) <= Ord a where` names Ord.
func classHeadName(masked string) string {
	s := masked
	if k := strings.LastIndex(s, "<="); k != -1 {
		s = s[k+2:]
	} else {
		s = strings.TrimPrefix(s, "class")
	}
	for _, f := range strings.Fields(s) {
		r, _ := utf8.DecodeRuneInString(f)
		if unicode.IsUpper(r) {
			return typeHeadName(f)
		}
	}
	return ""
}

// bindsFunction reports whether a top-level equation or signature describes
// a function rather than a plain value.
func bindsFunction(masked, name string) bool {
	rest := strings.TrimSpace(strings.TrimPrefix(masked, name))
	if strings.HasPrefix(rest, "::") {
		return strings.Contains(rest, "->")
	}
	if eq := strings.IndexByte(rest, '='); eq != -1 {
		return strings.TrimSpace(rest[:eq]) != ""
	}
	return false
}

func parseConstructors(sf *ir.SourceFile, declLine int) {
	emit := func(line int, seg string) {
		fields := strings.Fields(seg)
		if len(fields) == 0 {
			return
		}
		name := typeHeadName(fields[0])
		r, _ := utf8.DecodeRuneInString(name)
		if name != "" && unicode.IsUpper(r) {
			sf.Bindings = append(sf.Bindings, ir.Binding{Line: line, Name: name, Kind: ir.BindConstructor})
		}
	}

	first := sf.Lines[declLine].Masked
	if eq := strings.IndexByte(first, '='); eq != -1 {
		for _, seg := range splitAlternatives(first[eq+1:]) {
			emit(declLine, strings.TrimSpace(seg))
		}
	}
	for i := declLine + 1; i < len(sf.Lines); i++ {
		ln := sf.Lines[i]
		if ln.Blank || ln.Comment {
			continue
		}
		if ln.Indent == 0 {
			break
		}
		t := strings.TrimSpace(ln.Masked)
		if strings.HasPrefix(t, "=") || strings.HasPrefix(t, "|") {
			for _, seg := range splitAlternatives(t[1:]) {
				emit(i, strings.TrimSpace(seg))
			}
		}
	}
}

// splitAlternatives splits constructor alternatives on top-level bars,
// leaving row-type bars inside braces alone.
func splitAlternatives(s string) []string {
	var parts []string
	depth := 0
	last := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			depth--
		case '|':
			if depth == 0 {
				parts = append(parts, s[last:i])
				last = i + 1
			}
		}
	}
	parts = append(parts, s[last:])
	return parts
}

// docAbove reports whether the contiguous comment block directly above line
// contains a doc marker.
func docAbove(sf *ir.SourceFile, line int) bool {
	for j := line - 1; j >= 0; j-- {
		ln := sf.Lines[j]
		if ln.Comment || ln.InComment {
			t := strings.TrimSpace(ln.Text)
			if strings.HasPrefix(t, "-- |") || strings.HasPrefix(t, "{- |") {
				return true
			}
			continue
		}
		return false
	}
	return false
}

var (
	caseWord = regexp.MustCompile(`(^|[^\w'])case([^\w']|$)`)
	ofAtEnd  = regexp.MustCompile(`(^|[^\w'])of$`)
)

func parseCaseBlocks(sf *ir.SourceFile) {
	for i, ln := range sf.Lines {
		if !isCode(ln) {
			continue
		}
		t := strings.TrimRight(ln.Masked, " \t")
		if !caseWord.MatchString(t) || !ofAtEnd.MatchString(t) {
			continue
		}
		cb := ir.CaseBlock{Line: i, Indent: ln.Indent}
		collectBranches(sf, &cb)
		if len(cb.Branches) > 0 {
			sf.Cases = append(sf.Cases, cb)
		}
	}
}

func collectBranches(sf *ir.SourceFile, cb *ir.CaseBlock) {
	branchIndent := -1
	end := len(sf.Lines)
	var starts []int

	for i := cb.Line + 1; i < len(sf.Lines); i++ {
		ln := sf.Lines[i]
		if ln.Blank || ln.Comment || ln.InComment || ln.InString {
			continue
		}
		if ln.Indent <= cb.Indent {
			end = i
			break
		}
		if branchIndent == -1 {
			branchIndent = ln.Indent
		}
		if ln.Indent == branchIndent {
			starts = append(starts, i)
			arrow := arrowCol(ln.Masked)
			pe := 0
			if arrow > 0 {
				pe = patternEnd(ln.Masked, arrow)
			}
			cb.Branches = append(cb.Branches, ir.CaseBranch{
				Line: i, Indent: ln.Indent, ArrowCol: arrow, PatternEnd: pe,
			})
		}
	}

	for k := range cb.Branches {
		spanEnd := end
		if k+1 < len(starts) {
			spanEnd = starts[k+1]
		}
		cb.Branches[k].BodyLines = bodyLineCount(sf, cb.Branches[k], spanEnd, branchIndent)
	}
}

// arrowCol returns the zero-based column of the branch arrow in the masked
// line, or -1. Arrows inside brackets and longer operators (-->, ->>) do
// not count.
func arrowCol(masked string) int {
	r := []rune(masked)
	depth := 0
	for i := 0; i+1 < len(r); i++ {
		switch r[i] {
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			depth--
		case '-':
			if depth == 0 && r[i+1] == '>' {
				before := i == 0 || !strings.ContainsRune(operatorRunes, r[i-1])
				after := i+2 >= len(r) || !strings.ContainsRune(operatorRunes, r[i+2])
				if before && after {
					return i
				}
			}
		}
	}
	return -1
}

func patternEnd(masked string, arrow int) int {
	r := []rune(masked)
	i := arrow - 1
	for i >= 0 && (r[i] == ' ' || r[i] == '\t') {
		i--
	}
	return i + 1
}

func bodyLineCount(sf *ir.SourceFile, br ir.CaseBranch, spanEnd, branchIndent int) int {
	n := 0
	if br.ArrowCol >= 0 {
		r := []rune(sf.Lines[br.Line].Masked)
		if rest := strings.TrimSpace(string(r[min(br.ArrowCol+2, len(r)):])); rest != "" {
			n++
		}
	}
	for i := br.Line + 1; i < spanEnd; i++ {
		ln := sf.Lines[i]
		if ln.Blank || ln.Comment || ln.InComment {
			continue
		}
		if ln.Indent > branchIndent {
			n++
		}
	}
	return n
}

func parseLiteralBlocks(sf *ir.SourceFile) {
	for i, ln := range sf.Lines {
		if ln.InComment || ln.InString || !isCode(ln) {
			continue
		}
		t := strings.TrimRight(ln.Masked, " \t")
		if t == "" {
			continue
		}
		var delim byte
		switch last := t[len(t)-1]; last {
		case '{', '[':
			delim = last
		case ':':
			// A record key awaiting its value. `::` ends a signature and a
			// spaced colon is an operator; neither opens a literal.
			if strings.HasSuffix(t, "::") || len(t) < 2 || !isIdentByte(t[len(t)-2]) {
				continue
			}
			delim = ':'
		default:
			continue
		}

		body := -1
		for j := i + 1; j < len(sf.Lines); j++ {
			nl := sf.Lines[j]
			if nl.Blank || nl.Comment || nl.InComment || nl.InString {
				continue
			}
			body = j
			break
		}
		if body == -1 || sf.Lines[body].Indent <= ln.Indent {
			continue
		}
		sf.Literals = append(sf.Literals, ir.LiteralBlock{
			OpenLine: i, Delim: delim, Indent: ln.Indent,
			BodyLine: body, BodyIndent: sf.Lines[body].Indent,
		})
	}
}

func isIdentByte(b byte) bool {
	return b == '_' || b == '\'' ||
		(b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}
