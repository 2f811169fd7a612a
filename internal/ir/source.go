package ir

// Name kinds assigned to entries of import, hiding, and export lists.
// The lexical classifier never produces NameEffect; only a semantic
// resolver can, but the ordering tables reserve its slot.
const (
	NameKindImport = "kind"
	NameClass      = "class"
	NameEffect     = "effect"
	NameType       = "type"
	NameOperator   = "operator"
	NameFunction   = "function"
	NameModule     = "module" // re-export entry in an export list
)

// Constructor import modes for a type entry: T, T(..), or T(A, B).
const (
	CtorsNone    = ""
	CtorsAll     = "all"
	CtorsPartial = "partial"
)

// Binding kinds for top-level declarations.
const (
	BindFunction    = "function"
	BindValue       = "value"
	BindType        = "type"
	BindConstructor = "constructor"
	BindClass       = "class"
	BindInstance    = "instance"
	BindForeign     = "foreign"
)

// SourceFile is the parsed surface of one module: the structural facts the
// rules evaluate, not a syntax tree.
type SourceFile struct {
	Path     string
	Module   ModuleDecl
	Lines    []SourceLine
	Imports  []ImportDecl
	Bindings []Binding
	Cases    []CaseBlock
	Literals []LiteralBlock
}

// SourceLine is one raw line plus computed attributes. Index is zero-based;
// rendered line numbers are Index+1.
type SourceLine struct {
	Index      int
	Text       string // raw text without the terminator
	Masked     string // Text with comment and string interiors blanked
	Visible    int    // rune width ignoring trailing whitespace
	Indent     int    // leading whitespace width in runes
	LeadWS     string // the leading whitespace characters themselves
	TrailingWS bool
	Blank      bool
	InComment  bool // line starts inside a block comment
	InString   bool // line starts inside a multi-line string
	Comment    bool // line holds no code (comment-only)
}

type ModuleDecl struct {
	Name          string
	Segments      []string
	Line          int // zero-based
	Exports       []ListItem
	HasExportList bool
}

type ImportDecl struct {
	Line      int // zero-based; EndLine covers multi-line item lists
	EndLine   int
	Module    string
	Qualified bool
	Alias     string
	Hiding    bool
	Items     []ListItem
	HasItems  bool
}

// ListItem is one entry of an import, hiding, or export list.
type ListItem struct {
	Name      string
	Kind      string // one of the Name* kinds
	Ctors     string // CtorsNone|CtorsAll|CtorsPartial (types only)
	CtorNames []string
}

type Binding struct {
	Line       int // zero-based
	Name       string
	Kind       string // one of the Bind* kinds
	Documented bool   // preceded by a -- | doc comment
}

// CaseBlock is one case ... of expression whose branches sit on the
// following lines.
type CaseBlock struct {
	Line     int // zero-based line holding `case ... of`
	Indent   int
	Branches []CaseBranch
}

type CaseBranch struct {
	Line       int
	Indent     int
	PatternEnd int // zero-based column one past the pattern text
	ArrowCol   int // zero-based column of ->; -1 when not on the pattern line
	BodyLines  int // lines the branch body spans
}

// LiteralBlock is a record or array literal opened at end of line, whose
// body continues on the following lines.
type LiteralBlock struct {
	OpenLine   int  // zero-based line whose code ends with the delimiter
	Delim      byte // '{' or '['
	Indent     int  // indent of the opening line
	BodyLine   int  // zero-based first body line; -1 if the body is empty
	BodyIndent int
}
