package parser

import (
	"fmt"
	"strings"
)

// lineLex is the lexical view of one line after masking.
type lineLex struct {
	masked    string
	inComment bool // line starts inside a block comment
	inString  bool // line starts inside a multi-line string
	hasStr    bool // line carries string or char literal content
}

const operatorRunes = ":!#$%&*+./<=>?@\\^|~-"

// maskLines blanks comment and string interiors so the structural pass can
// scan for delimiters without tripping on literals. Block comments nest and
// triple-quoted strings span lines; both carry state across lines. Tabs in
// masked regions become spaces, so a tab surviving in the masked text is a
// tab in code.
func maskLines(lines []string) ([]lineLex, error) {
	out := make([]lineLex, len(lines))
	depth := 0 // block comment nesting
	raw := false

	for i, s := range lines {
		r := []rune(s)
		m := make([]rune, len(r))
		out[i] = lineLex{inComment: depth > 0, inString: raw}

		j := 0
		for j < len(r) {
			switch {
			case raw:
				out[i].hasStr = true
				if hasTripleQuote(r, j) {
					m[j], m[j+1], m[j+2] = ' ', ' ', ' '
					j += 3
					raw = false
					continue
				}
				m[j] = ' '
				j++

			case depth > 0:
				if r[j] == '{' && j+1 < len(r) && r[j+1] == '-' {
					depth++
					m[j], m[j+1] = ' ', ' '
					j += 2
					continue
				}
				if r[j] == '-' && j+1 < len(r) && r[j+1] == '}' {
					depth--
					m[j], m[j+1] = ' ', ' '
					j += 2
					continue
				}
				m[j] = ' '
				j++

			default:
				switch {
				case r[j] == '{' && j+1 < len(r) && r[j+1] == '-':
					depth++
					m[j], m[j+1] = ' ', ' '
					j += 2
				case r[j] == '-' && j+1 < len(r) && r[j+1] == '-' && lineCommentAt(r, j):
					for ; j < len(r); j++ {
						m[j] = ' '
					}
				case r[j] == '"' && hasTripleQuote(r, j):
					m[j], m[j+1], m[j+2] = ' ', ' ', ' '
					j += 3
					raw = true
					out[i].hasStr = true
				case r[j] == '"':
					out[i].hasStr = true
					m[j] = ' '
					j++
					for j < len(r) {
						if r[j] == '\\' && j+1 < len(r) {
							m[j], m[j+1] = ' ', ' '
							j += 2
							continue
						}
						closed := r[j] == '"'
						m[j] = ' '
						j++
						if closed {
							break
						}
					}
				case r[j] == '\'':
					if n := charLitLen(r, j); n > 0 {
						out[i].hasStr = true
						for k := j; k < j+n; k++ {
							m[k] = ' '
						}
						j += n
					} else {
						m[j] = r[j]
						j++
					}
				default:
					m[j] = r[j]
					j++
				}
			}
		}
		out[i].masked = string(m)
	}

	if depth > 0 {
		return nil, fmt.Errorf("unterminated block comment")
	}
	if raw {
		return nil, fmt.Errorf("unterminated multi-line string")
	}
	return out, nil
}

func hasTripleQuote(r []rune, j int) bool {
	return j+2 < len(r) && r[j] == '"' && r[j+1] == '"' && r[j+2] == '"'
}

// lineCommentAt reports whether the dashes at j start a line comment. A dash
// run followed by another operator rune is an operator (e.g. -->), not a
// comment.
func lineCommentAt(r []rune, j int) bool {
	k := j
	for k < len(r) && r[k] == '-' {
		k++
	}
	if k == len(r) {
		return true
	}
	return !strings.ContainsRune(":!#$%&*+./<=>?@\\^|~", r[k])
}

// charLitLen returns the rune length of a character literal starting at j,
// or 0 when the quote is not a literal (a prime in an identifier). Escape
// bodies are capped so a stray quote never swallows the line.
func charLitLen(r []rune, j int) int {
	if j > 0 && isIdentRune(r[j-1]) {
		return 0
	}
	k := j + 1
	if k >= len(r) {
		return 0
	}
	if r[k] == '\\' {
		k++
		if k < len(r) {
			k++ // the escaped rune, which may itself be a quote
		}
		for k < len(r) && r[k] != '\'' && k-j < 8 {
			k++ // numeric escapes: '\120'
		}
	} else {
		k++
	}
	if k < len(r) && r[k] == '\'' {
		return k - j + 1
	}
	return 0
}

func isIdentRune(c rune) bool {
	return c == '_' || c == '\'' ||
		(c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}
