package token

import (
	"bufio"
	"errors"
	"io"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

type Scanner struct {
	r   *bufio.Reader
	pos Pos

	peeked bool
	pr     rune
	psize  int
	perr   error
}

func NewScanner(r io.Reader) *Scanner {
	br, ok := r.(*bufio.Reader)
	if !ok {
		br = bufio.NewReader(r)
	}
	return &Scanner{r: br, pos: Pos{Line: 1, Col: 1}}
}

// Pos returns the position of the next unread rune.
func (s *Scanner) Pos() Pos { return s.pos }

// Peek returns the next rune without consuming it.  At end of input it
// returns io.EOF.
func (s *Scanner) Peek() (rune, error) {
	if !s.peeked {
		s.pr, s.psize, s.perr = s.r.ReadRune()
		s.peeked = true
	}
	return s.pr, s.perr
}

func (s *Scanner) read() (rune, error) {
	r, err := s.Peek()
	if err != nil {
		return r, err
	}
	s.peeked = false
	s.pos.Off += s.psize
	if r == '\n' {
		s.pos.Line++
		s.pos.Col = 1
	} else {
		s.pos.Col++
	}
	return r, nil
}

// SkipSpace consumes white space and ';' comments.  Reaching the end of
// input is not an error.
func (s *Scanner) SkipSpace() error {
	for {
		r, err := s.Peek()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		switch {
		case r == ';':
			for {
				r, err := s.read()
				if err == io.EOF {
					return nil
				}
				if err != nil {
					return err
				}
				if r == '\n' {
					break
				}
			}
		case unicode.IsSpace(r):
			s.read()
		default:
			return nil
		}
	}
}

// Next skips space and returns the next token.  At end of input it
// returns a TEOF token and a nil error.
func (s *Scanner) Next() (Token, error) {
	if err := s.SkipSpace(); err != nil {
		return Token{}, err
	}
	pos := s.pos
	r, err := s.Peek()
	if err == io.EOF {
		return Token{Type: TEOF, Pos: pos}, nil
	}
	if err != nil {
		return Token{}, err
	}
	single := map[rune]TokenType{
		'{': TLCurl, '}': TRCurl,
		'[': TLSquare, ']': TRSquare,
		'(': TLParen, ')': TRParen,
		':': TColon, ',': TComma, '=': TEqual,
	}
	if tt, ok := single[r]; ok {
		s.read()
		return Token{Type: tt, Pos: pos}, nil
	}
	switch {
	case r == '"':
		text, err := s.quoted()
		if err != nil {
			return Token{}, err
		}
		return Token{Type: TString, Pos: pos, Text: text}, nil
	case r == '&' || r == '^':
		s.read()
		if q, err := s.Peek(); err != nil || q != '"' {
			return Token{}, errAt(pos, "expected string after %q", r)
		}
		text, err := s.quoted()
		if err != nil {
			return Token{}, err
		}
		tt := TStringName
		if r == '^' {
			tt = TNodePath
		}
		return Token{Type: tt, Pos: pos, Text: text}, nil
	case r == '-' || r == '.' || isDigit(r):
		return s.number(pos)
	case r == '_' || unicode.IsLetter(r):
		b := &strings.Builder{}
		for {
			r, err := s.Peek()
			if err != nil || !(r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)) {
				break
			}
			s.read()
			b.WriteRune(r)
		}
		return Token{Type: TIdent, Pos: pos, Text: b.String()}, nil
	}
	return Token{}, errAt(pos, "unexpected character %q", r)
}

func isDigit(r rune) bool { return r >= '0' && r <= '9' }

func (s *Scanner) number(pos Pos) (Token, error) {
	b := &strings.Builder{}
	isFloat := false
	accept := func(f func(rune) bool) bool {
		r, err := s.Peek()
		if err != nil || !f(r) {
			return false
		}
		s.read()
		b.WriteRune(r)
		return true
	}
	digits := func() int {
		n := 0
		for accept(isDigit) {
			n++
		}
		return n
	}
	if accept(func(r rune) bool { return r == '-' }) {
		if r, err := s.Peek(); err == nil && r == 'i' {
			id, err := s.Next()
			if err != nil || id.Type != TIdent || id.Text != "inf" {
				return Token{}, errAt(pos, "expected number after '-'")
			}
			return Token{Type: TFloat, Pos: pos, Text: "-inf"}, nil
		}
	}
	n := digits()
	if accept(func(r rune) bool { return r == '.' }) {
		isFloat = true
		n += digits()
	}
	if n == 0 {
		return Token{}, errAt(pos, "malformed number %q", b.String())
	}
	if accept(func(r rune) bool { return r == 'e' || r == 'E' }) {
		isFloat = true
		accept(func(r rune) bool { return r == '+' || r == '-' })
		if digits() == 0 {
			return Token{}, errAt(pos, "malformed exponent in %q", b.String())
		}
	}
	tt := TInteger
	if isFloat {
		tt = TFloat
	}
	return Token{Type: tt, Pos: pos, Text: b.String()}, nil
}

// quoted reads a double quoted string with escapes.  Raw newlines are
// allowed inside the quotes.
func (s *Scanner) quoted() (string, error) {
	start := s.pos
	if r, err := s.read(); err != nil || r != '"' {
		return "", errAt(start, "expected '\"'")
	}
	b := &strings.Builder{}
	for {
		r, err := s.read()
		if err == io.EOF {
			return "", errAt(start, "unterminated string")
		}
		if err != nil {
			return "", err
		}
		switch r {
		case '"':
			return b.String(), nil
		case '\\':
			if err := s.escape(b, start); err != nil {
				return "", err
			}
		default:
			b.WriteRune(r)
		}
	}
}

func (s *Scanner) escape(b *strings.Builder, start Pos) error {
	r, err := s.read()
	if err != nil {
		return errAt(start, "unterminated escape")
	}
	switch r {
	case 'b':
		b.WriteByte('\b')
	case 't':
		b.WriteByte('\t')
	case 'n':
		b.WriteByte('\n')
	case 'f':
		b.WriteByte('\f')
	case 'r':
		b.WriteByte('\r')
	case '"', '\\', '\'', '/':
		b.WriteRune(r)
	case 'u', 'U':
		n := 4
		if r == 'U' {
			n = 6
		}
		hex := make([]rune, 0, n)
		for range n {
			h, err := s.read()
			if err != nil {
				return errAt(start, "unterminated unicode escape")
			}
			hex = append(hex, h)
		}
		code, err := strconv.ParseUint(string(hex), 16, 32)
		if err != nil || !utf8.ValidRune(rune(code)) {
			return errAt(start, "invalid unicode escape \\%c%s", r, string(hex))
		}
		b.WriteRune(rune(code))
	default:
		return errAt(start, "invalid escape \\%c", r)
	}
	return nil
}

// ReadKey reads a property name: either a quoted string or a run of
// characters up to white space or '='.
func (s *Scanner) ReadKey() (string, Pos, error) {
	if err := s.SkipSpace(); err != nil {
		return "", s.pos, err
	}
	pos := s.pos
	r, err := s.Peek()
	if err == io.EOF {
		return "", pos, errAt(pos, "expected property name, got end of file")
	}
	if err != nil {
		return "", pos, err
	}
	if r == '"' {
		k, err := s.quoted()
		return k, pos, err
	}
	b := &strings.Builder{}
	for {
		r, err := s.Peek()
		if errors.Is(err, io.EOF) || r == '=' || unicode.IsSpace(r) {
			break
		}
		if err != nil {
			return "", pos, err
		}
		s.read()
		b.WriteRune(r)
	}
	if b.Len() == 0 {
		return "", pos, errAt(pos, "expected property name")
	}
	return b.String(), pos, nil
}
