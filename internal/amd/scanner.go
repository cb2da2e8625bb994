package amd

import "strings"

type tokenKind int

const (
	tokNone tokenKind = iota
	tokWord
	tokValue
	tokPunct
)

// regexKeywords are words after which a slash starts a regular expression.
var regexKeywords = map[string]bool{
	"return": true, "typeof": true, "instanceof": true, "in": true, "of": true,
	"new": true, "delete": true, "void": true, "throw": true, "case": true,
	"do": true, "else": true, "yield": true, "await": true,
}

// defineCall locates the argument list of a loader declaration call.
type defineCall struct {
	// open is the offset just past the opening parenthesis.
	open int
	// named reports whether the first argument is a string literal.
	named bool
	// empty reports whether the argument list is empty.
	empty bool
}

// headKeywords open a parenthesized head after which a slash starts a
// regular expression: `if (ok) /re/.test(s)`.
var headKeywords = map[string]bool{"if": true, "while": true, "for": true, "with": true}

// scanner walks JavaScript source only as far as needed to find the first
// top-level-looking `define(` call. It understands comments, string,
// template and regular expression literals so that occurrences inside them
// are ignored. It never fails: unknown input is consumed byte by byte.
type scanner struct {
	src   string
	pos   int
	prev  tokenKind
	punct byte
	word  string
	// heads holds, per open parenthesis, whether it opens a statement head.
	heads []bool
	// afterHead is set when the last `)` closed a statement head.
	afterHead bool
}

func findDefine(src string) (defineCall, bool) {
	s := &scanner{src: src}
	for {
		w, ok := s.next()
		if !ok {
			return defineCall{}, false
		}
		if w == "" {
			continue
		}
		if w == "define" && !s.afterMemberAccess() && s.word != "function" {
			if call, ok := s.callAfter(s.pos); ok && !s.isMethodDefinition(call.open-1) {
				return call, true
			}
		}
		s.setWord(w)
	}
}

// next consumes blanks, comments and one token. It returns the identifier
// read, which the caller commits with setWord, or "" for any other token.
// It reports false at the end of input.
func (s *scanner) next() (string, bool) {
	for s.pos < len(s.src) {
		c := s.src[s.pos]
		switch {
		case isSpace(c):
			s.pos++
		case c == '/' && s.peek(1) == '/':
			s.skipLineComment()
		case c == '/' && s.peek(1) == '*':
			s.skipBlockComment()
		case c == '\'' || c == '"':
			s.skipString(c)
			s.setValue()
			return "", true
		case c == '`':
			s.skipTemplate()
			s.setValue()
			return "", true
		case c == '/' && s.regexAllowed():
			s.skipRegex()
			s.setValue()
			return "", true
		case isIdentStart(c):
			start := s.pos
			s.skipIdent()
			return s.src[start:s.pos], true
		case isDigit(c):
			s.skipNumber()
			s.setValue()
			return "", true
		default:
			s.pos++
			s.setPunct(c)
			return "", true
		}
	}
	return "", false
}

func (s *scanner) peek(n int) byte {
	if s.pos+n < len(s.src) {
		return s.src[s.pos+n]
	}
	return 0
}

func (s *scanner) setValue() {
	s.prev = tokValue
	s.word = ""
}

func (s *scanner) setWord(w string) {
	s.prev = tokWord
	s.word = w
}

func (s *scanner) setPunct(c byte) {
	s.afterHead = false
	switch c {
	case '(':
		s.heads = append(s.heads, s.prev == tokWord && headKeywords[s.word])
	case ')':
		if n := len(s.heads); n > 0 {
			s.afterHead = s.heads[n-1]
			s.heads = s.heads[:n-1]
		}
	}
	s.prev = tokPunct
	s.punct = c
	s.word = ""
}

func (s *scanner) afterMemberAccess() bool {
	return s.prev == tokPunct && s.punct == '.'
}

func (s *scanner) regexAllowed() bool {
	switch s.prev {
	case tokNone:
		return true
	case tokValue:
		return false
	case tokWord:
		return regexKeywords[s.word]
	default:
		if s.punct == ')' {
			return s.afterHead
		}
		return s.punct != ']'
	}
}

// callAfter reports whether a parenthesis follows offset i, skipping blanks
// and comments, and inspects the first argument of that call.
func (s *scanner) callAfter(i int) (defineCall, bool) {
	i = skipBlank(s.src, i)
	if i >= len(s.src) || s.src[i] != '(' {
		return defineCall{}, false
	}
	call := defineCall{open: i + 1}
	j := skipBlank(s.src, i+1)
	if j >= len(s.src) {
		return defineCall{}, false
	}
	switch s.src[j] {
	case '\'', '"', '`':
		call.named = true
	case ')':
		call.empty = true
	}
	return call, true
}

// isMethodDefinition reports whether the parenthesis at open closes onto a
// `{`, as in object or class method shorthand `define(k, v) { ... }`.
// An unbalanced argument list is not a method definition.
func (s *scanner) isMethodDefinition(open int) bool {
	t := &scanner{src: s.src, pos: open}
	for {
		w, ok := t.next()
		if !ok {
			return false
		}
		if w != "" {
			t.setWord(w)
			continue
		}
		if len(t.heads) == 0 {
			end := skipBlank(t.src, t.pos)
			return end < len(t.src) && t.src[end] == '{'
		}
	}
}

func (s *scanner) skipLineComment() {
	if idx := strings.IndexByte(s.src[s.pos:], '\n'); idx >= 0 {
		s.pos += idx + 1
		return
	}
	s.pos = len(s.src)
}

func (s *scanner) skipBlockComment() {
	if idx := strings.Index(s.src[s.pos+2:], "*/"); idx >= 0 {
		s.pos += idx + 4
		return
	}
	s.pos = len(s.src)
}

func (s *scanner) skipString(quote byte) {
	s.pos++
	for s.pos < len(s.src) {
		c := s.src[s.pos]
		switch c {
		case '\\':
			s.pos += 2
			continue
		case quote:
			s.pos++
			return
		case '\n':
			// unterminated literal, resume on the next line
			return
		}
		s.pos++
	}
}

func (s *scanner) skipTemplate() {
	s.pos++
	depth := 0
	for s.pos < len(s.src) {
		c := s.src[s.pos]
		switch {
		case c == '\\':
			s.pos += 2
			continue
		case depth == 0 && c == '`':
			s.pos++
			return
		case c == '$' && s.peek(1) == '{':
			depth++
			s.pos += 2
			continue
		case depth > 0 && c == '}':
			depth--
		}
		s.pos++
	}
}

func (s *scanner) skipRegex() {
	s.pos++
	inClass := false
	for s.pos < len(s.src) {
		c := s.src[s.pos]
		switch {
		case c == '\\':
			s.pos += 2
			continue
		case c == '\n':
			return
		case c == '[':
			inClass = true
		case c == ']':
			inClass = false
		case c == '/' && !inClass:
			s.pos++
			for s.pos < len(s.src) && isIdentPart(s.src[s.pos]) {
				s.pos++
			}
			return
		}
		s.pos++
	}
}

func (s *scanner) skipIdent() {
	for s.pos < len(s.src) && isIdentPart(s.src[s.pos]) {
		s.pos++
	}
}

func (s *scanner) skipNumber() {
	for s.pos < len(s.src) && (isIdentPart(s.src[s.pos]) || s.src[s.pos] == '.') {
		s.pos++
	}
}

// skipBlank returns the first offset at or after i that is neither
// whitespace nor part of a comment.
func skipBlank(src string, i int) int {
	for i < len(src) {
		switch {
		case isSpace(src[i]):
			i++
		case strings.HasPrefix(src[i:], "//"):
			idx := strings.IndexByte(src[i:], '\n')
			if idx < 0 {
				return len(src)
			}
			i += idx + 1
		case strings.HasPrefix(src[i:], "/*"):
			idx := strings.Index(src[i+2:], "*/")
			if idx < 0 {
				return len(src)
			}
			i += idx + 4
		default:
			return i
		}
	}
	return i
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f' || c == '\v'
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isIdentStart(c byte) bool {
	return c == '_' || c == '$' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c >= 0x80
}

func isIdentPart(c byte) bool { return isIdentStart(c) || isDigit(c) }
