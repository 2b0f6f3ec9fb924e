package filter

import (
	"strconv"
	"strings"
)

// normalize rewrites a Mailgun route expression into expr syntax. Quoted
// literals become raw strings so regex escapes such as \. survive, and the
// upper-case logical keywords are lowered.
func normalize(expression string) (string, error) {
	var (
		out strings.Builder
		pos int
	)
	out.Grow(len(expression) + 8)

	for pos < len(expression) {
		ch := expression[pos]

		switch {
		case ch == '"' || ch == '\'':
			literal, next, ok := readLiteral(expression, pos)
			if !ok {
				return "", &CompilationError{
					Expression: expression,
					Reason:     "unterminated string literal",
					Position:   pos,
				}
			}
			out.WriteString(rawString(literal))
			pos = next

		case isIdentStart(ch):
			start := pos
			for pos < len(expression) && isIdentPart(expression[pos]) {
				pos++
			}
			word := expression[start:pos]
			switch word {
			case "AND", "OR", "NOT":
				word = strings.ToLower(word)
			}
			out.WriteString(word)

		default:
			out.WriteByte(ch)
			pos++
		}
	}

	return out.String(), nil
}

// readLiteral reads the quoted literal starting at pos. A backslash keeps
// the following byte in the literal, so \" does not end the string.
func readLiteral(s string, pos int) (string, int, bool) {
	quote := s[pos]
	var b strings.Builder

	for i := pos + 1; i < len(s); i++ {
		switch s[i] {
		case '\\':
			b.WriteByte('\\')
			if i+1 < len(s) {
				i++
				b.WriteByte(s[i])
			}
		case quote:
			return b.String(), i + 1, true
		default:
			b.WriteByte(s[i])
		}
	}

	return "", len(s), false
}

// rawString renders s as an expr literal with no escape processing
func rawString(s string) string {
	if !strings.Contains(s, "`") {
		return "`" + s + "`"
	}
	return strconv.Quote(s)
}

func isIdentStart(ch byte) bool {
	return ch == '_' || (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

func isIdentPart(ch byte) bool {
	return isIdentStart(ch) || (ch >= '0' && ch <= '9')
}
