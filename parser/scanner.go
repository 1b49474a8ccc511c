package parser

import (
	"fmt"
	"go/token"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/gusakk/fluxsem/frontend/ast"
)

var durationUnits = map[string]bool{
	"y": true, "mo": true, "w": true, "d": true, "h": true, "m": true,
	"s": true, "ms": true, "us": true, "µs": true, "ns": true,
}

type scanError struct {
	pos token.Pos
	msg string
}

type scanner struct {
	src  []byte
	file *token.File

	offset   int
	comments []ast.Comment
	errors   []scanError
}

func newScanner(file *token.File, src []byte) *scanner {
	return &scanner{src: src, file: file}
}

// scanAll tokenizes the whole source. The last item is always tEOF.
func (s *scanner) scanAll() []item {
	var items []item
	for {
		it := s.next()
		items = append(items, it)
		if it.kind == tEOF {
			return items
		}
	}
}

func (s *scanner) peekRune(at int) rune {
	if at >= len(s.src) {
		return -1
	}
	r, _ := utf8.DecodeRune(s.src[at:])
	return r
}

func (s *scanner) errorf(offset int, format string, args ...any) {
	s.errors = append(s.errors, scanError{pos: s.file.Pos(offset), msg: fmt.Sprintf(format, args...)})
}

func (s *scanner) skipSpaceAndComments() {
	for s.offset < len(s.src) {
		r, w := utf8.DecodeRune(s.src[s.offset:])
		switch {
		case r == '/' && s.peekRune(s.offset+1) == '/':
			start := s.offset
			for s.offset < len(s.src) && s.src[s.offset] != '\n' {
				s.offset++
			}
			text := strings.TrimRight(string(s.src[start:s.offset]), "\r")
			s.comments = append(s.comments, ast.Comment{
				Range: ast.Range{PosStart: s.file.Pos(start), PosEnd: s.file.Pos(s.offset)},
				Text:  text,
			})
		case unicode.IsSpace(r):
			s.offset += w
		default:
			return
		}
	}
}

func (s *scanner) next() item {
	s.skipSpaceAndComments()
	comments := s.comments
	s.comments = nil

	start := s.offset
	it := s.scanToken()
	it.pos = s.file.Pos(start)
	it.end = s.file.Pos(s.offset)
	it.comments = comments
	return it
}

func isIdentStart(r rune) bool { return r == '_' || unicode.IsLetter(r) }
func isIdentPart(r rune) bool  { return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) }
func isDigit(r rune) bool      { return '0' <= r && r <= '9' }

func (s *scanner) scanToken() item {
	if s.offset >= len(s.src) {
		return item{kind: tEOF}
	}
	r, w := utf8.DecodeRune(s.src[s.offset:])
	switch {
	case isIdentStart(r):
		return s.scanIdent()
	case isDigit(r):
		return s.scanNumber()
	case r == '"':
		return s.scanString()
	}

	s.offset += w
	two := func(next rune, ifNext, otherwise tokenKind) item {
		if s.peekRune(s.offset) == next {
			s.offset++
			return item{kind: ifNext}
		}
		return item{kind: otherwise}
	}
	switch r {
	case '+':
		return item{kind: tAdd}
	case '-':
		return item{kind: tSub}
	case '*':
		return item{kind: tMul}
	case '/':
		return item{kind: tDiv}
	case '%':
		return item{kind: tMod}
	case '^':
		return item{kind: tPow}
	case '(':
		return item{kind: tLParen}
	case ')':
		return item{kind: tRParen}
	case '[':
		return item{kind: tLBrack}
	case ']':
		return item{kind: tRBrack}
	case '{':
		return item{kind: tLBrace}
	case '}':
		return item{kind: tRBrace}
	case ',':
		return item{kind: tComma}
	case ':':
		return item{kind: tColon}
	case '.':
		return item{kind: tDot}
	case '?':
		return item{kind: tQuestion}
	case '>':
		return two('=', tGte, tGt)
	case '<':
		switch s.peekRune(s.offset) {
		case '=':
			s.offset++
			return item{kind: tLte}
		case '-':
			s.offset++
			return item{kind: tPipeReceive}
		}
		return item{kind: tLt}
	case '=':
		switch s.peekRune(s.offset) {
		case '=':
			s.offset++
			return item{kind: tEq}
		case '~':
			s.offset++
			return item{kind: tRegexEq}
		case '>':
			s.offset++
			return item{kind: tArrow}
		}
		return item{kind: tAssign}
	case '!':
		switch s.peekRune(s.offset) {
		case '=':
			s.offset++
			return item{kind: tNeq}
		case '~':
			s.offset++
			return item{kind: tRegexNeq}
		}
	case '|':
		if s.peekRune(s.offset) == '>' {
			s.offset++
			return item{kind: tPipeForward}
		}
	}
	s.errorf(s.offset-w, "unexpected character %q", r)
	return item{kind: tIllegal, lit: string(r)}
}

func (s *scanner) scanIdent() item {
	start := s.offset
	for s.offset < len(s.src) {
		r, w := utf8.DecodeRune(s.src[s.offset:])
		if !isIdentPart(r) {
			break
		}
		s.offset += w
	}
	lit := string(s.src[start:s.offset])
	if kind, ok := keywords[lit]; ok {
		return item{kind: kind, lit: lit}
	}
	return item{kind: tIdent, lit: lit}
}

func (s *scanner) scanDigits() {
	for s.offset < len(s.src) && isDigit(rune(s.src[s.offset])) {
		s.offset++
	}
}

func (s *scanner) scanNumber() item {
	start := s.offset
	s.scanDigits()

	if s.peekRune(s.offset) == '.' && isDigit(s.peekRune(s.offset+1)) {
		s.offset++
		s.scanDigits()
		return item{kind: tFloat, lit: string(s.src[start:s.offset])}
	}
	if !isIdentStart(s.peekRune(s.offset)) {
		return item{kind: tInt, lit: string(s.src[start:s.offset])}
	}

	// a duration is a sequence of magnitude-unit pairs: 1h30m
	for {
		unitStart := s.offset
		for s.offset < len(s.src) {
			r, w := utf8.DecodeRune(s.src[s.offset:])
			if !unicode.IsLetter(r) {
				break
			}
			s.offset += w
		}
		unit := string(s.src[unitStart:s.offset])
		if !durationUnits[unit] {
			s.errorf(unitStart, "invalid duration unit %q", unit)
			return item{kind: tIllegal, lit: string(s.src[start:s.offset])}
		}
		if !isDigit(s.peekRune(s.offset)) {
			break
		}
		s.scanDigits()
	}
	return item{kind: tDuration, lit: string(s.src[start:s.offset])}
}

func (s *scanner) scanString() item {
	start := s.offset
	s.offset++ // opening quote
	sb := strings.Builder{}
	for {
		if s.offset >= len(s.src) {
			s.errorf(start, "string literal not terminated")
			return item{kind: tIllegal, lit: string(s.src[start:])}
		}
		r, w := utf8.DecodeRune(s.src[s.offset:])
		s.offset += w
		switch r {
		case '"':
			return item{kind: tString, lit: sb.String()}
		case '\\':
			esc := s.peekRune(s.offset)
			s.offset++
			switch esc {
			case 'n':
				sb.WriteByte('\n')
			case 't':
				sb.WriteByte('\t')
			case 'r':
				sb.WriteByte('\r')
			case '\\', '"', '$':
				sb.WriteRune(esc)
			default:
				s.errorf(s.offset-2, "invalid escape sequence \\%c", esc)
			}
		default:
			sb.WriteRune(r)
		}
	}
}
