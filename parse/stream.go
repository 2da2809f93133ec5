package parse

import (
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/signadot/tres/format"
	"github.com/signadot/tres/token"
	"github.com/signadot/tres/variant"
)

type RefKind int

const (
	// ExternalRef is an ExtResource("id") literal.
	ExternalRef RefKind = iota
	// EmbeddedRef is a SubResource("id") literal.
	EmbeddedRef
)

func (k RefKind) String() string {
	if k == ExternalRef {
		return "ExtResource"
	}
	return "SubResource"
}

// RefResolver turns reference literals into values as they are read.
type RefResolver interface {
	Resolve(kind RefKind, id string, line int) (*variant.Value, error)
}

type RefResolverFunc func(kind RefKind, id string, line int) (*variant.Value, error)

func (f RefResolverFunc) Resolve(kind RefKind, id string, line int) (*variant.Value, error) {
	return f(kind, id, line)
}

// SkipRefs resolves every reference to null.  It lets scans read past
// values without a reference table.
var SkipRefs RefResolver = RefResolverFunc(func(RefKind, string, int) (*variant.Value, error) {
	return variant.Nil(), nil
})

// Statement is either a tag header (Tag != nil) or an assignment.
type Statement struct {
	Tag   *Tag
	Key   string
	Value *variant.Value
	Line  int
}

type Stream struct {
	s    *token.Scanner
	opts parseOpts
}

func NewStream(r io.Reader, opts ...ParseOption) *Stream {
	st := &Stream{s: token.NewScanner(r)}
	for _, opt := range opts {
		opt(&st.opts)
	}
	return st
}

// Line returns the current line.
func (st *Stream) Line() int { return st.s.Pos().Line }

// Offset returns the byte offset of the next unread rune.
func (st *Stream) Offset() int { return st.s.Pos().Off }

// Next reads the next statement.  It returns io.EOF at end of input.
func (st *Stream) Next(rp RefResolver) (*Statement, error) {
	if err := st.s.SkipSpace(); err != nil {
		return nil, format.Wrap(format.ErrIO, st.Line(), err, "reading")
	}
	r, err := st.s.Peek()
	if err == io.EOF {
		return nil, io.EOF
	}
	if err != nil {
		return nil, format.Wrap(format.ErrIO, st.Line(), err, "reading")
	}
	if r == '[' {
		tag, err := st.tag(rp)
		if err != nil {
			return nil, err
		}
		return &Statement{Tag: tag, Line: tag.Line}, nil
	}
	key, pos, err := st.s.ReadKey()
	if err != nil {
		return nil, err
	}
	if err := st.expect(token.TEqual); err != nil {
		return nil, err
	}
	v, err := st.value(rp)
	if err != nil {
		return nil, err
	}
	return &Statement{Key: key, Value: v, Line: pos.Line}, nil
}

func (st *Stream) tag(rp RefResolver) (*Tag, error) {
	pos := st.s.Pos()
	if err := st.expect(token.TLSquare); err != nil {
		return nil, err
	}
	name, err := st.s.Next()
	if err != nil {
		return nil, err
	}
	if name.Type != token.TIdent {
		return nil, st.unexpected(name, "tag name")
	}
	tag := &Tag{Name: name.Text, Line: pos.Line, Start: pos.Off}
	for {
		tok, err := st.s.Next()
		if err != nil {
			return nil, err
		}
		switch tok.Type {
		case token.TRSquare:
			tag.End = st.s.Pos().Off
			return tag, nil
		case token.TIdent:
			if err := st.expect(token.TEqual); err != nil {
				return nil, err
			}
			v, err := st.value(rp)
			if err != nil {
				return nil, err
			}
			tag.Fields = append(tag.Fields, Field{Key: tok.Text, Value: v})
		default:
			return nil, st.unexpected(tok, "tag field or ']'")
		}
	}
}

func (st *Stream) expect(tt token.TokenType) error {
	tok, err := st.s.Next()
	if err != nil {
		return err
	}
	if tok.Type != tt {
		want := token.Token{Type: tt}
		return st.unexpected(tok, "'"+want.String()+"'")
	}
	return nil
}

func (st *Stream) unexpected(tok token.Token, want string) error {
	return format.Errorf(format.ErrFormat, tok.Pos.Line, "expected %s, got %s", want, tok.String())
}

func (st *Stream) value(rp RefResolver) (*variant.Value, error) {
	tok, err := st.s.Next()
	if err != nil {
		return nil, err
	}
	return st.valueFrom(tok, rp)
}

func (st *Stream) valueFrom(tok token.Token, rp RefResolver) (*variant.Value, error) {
	switch tok.Type {
	case token.TString:
		return variant.FromString(tok.Text), nil
	case token.TStringName:
		return variant.FromStringName(tok.Text), nil
	case token.TNodePath:
		return variant.FromNodePath(tok.Text), nil
	case token.TInteger:
		i, err := strconv.ParseInt(tok.Text, 10, 64)
		if err != nil {
			return nil, format.Wrap(format.ErrFormat, tok.Pos.Line, err, "invalid integer %s", tok.Text)
		}
		return variant.FromInt(i), nil
	case token.TFloat:
		if tok.Text == "-inf" {
			return variant.FromFloat(math.Inf(-1)), nil
		}
		f, err := strconv.ParseFloat(tok.Text, 64)
		if err != nil {
			return nil, format.Wrap(format.ErrFormat, tok.Pos.Line, err, "invalid float %s", tok.Text)
		}
		return variant.FromFloat(f), nil
	case token.TLSquare:
		vs, err := st.list(token.TRSquare, rp)
		if err != nil {
			return nil, err
		}
		return variant.FromSlice(vs), nil
	case token.TLCurl:
		return st.dict(rp)
	case token.TIdent:
		return st.ident(tok, rp)
	}
	return nil, st.unexpected(tok, "value")
}

// list reads comma separated values up to end, allowing a trailing comma.
func (st *Stream) list(end token.TokenType, rp RefResolver) ([]*variant.Value, error) {
	res := []*variant.Value{}
	for {
		tok, err := st.s.Next()
		if err != nil {
			return nil, err
		}
		if tok.Type == end {
			return res, nil
		}
		if len(res) > 0 {
			if tok.Type != token.TComma {
				return nil, st.unexpected(tok, "','")
			}
			tok, err = st.s.Next()
			if err != nil {
				return nil, err
			}
			if tok.Type == end {
				return res, nil
			}
		}
		v, err := st.valueFrom(tok, rp)
		if err != nil {
			return nil, err
		}
		res = append(res, v)
	}
}

func (st *Stream) dict(rp RefResolver) (*variant.Value, error) {
	res := variant.FromKeyVals(nil)
	for {
		tok, err := st.s.Next()
		if err != nil {
			return nil, err
		}
		if tok.Type == token.TRCurl {
			return res, nil
		}
		if len(res.Keys) > 0 {
			if tok.Type != token.TComma {
				return nil, st.unexpected(tok, "','")
			}
			tok, err = st.s.Next()
			if err != nil {
				return nil, err
			}
			if tok.Type == token.TRCurl {
				return res, nil
			}
		}
		k, err := st.valueFrom(tok, rp)
		if err != nil {
			return nil, err
		}
		if err := st.expect(token.TColon); err != nil {
			return nil, err
		}
		v, err := st.value(rp)
		if err != nil {
			return nil, err
		}
		res.Keys = append(res.Keys, k)
		res.Values = append(res.Values, v)
	}
}

func (st *Stream) ident(tok token.Token, rp RefResolver) (*variant.Value, error) {
	switch tok.Text {
	case "true":
		return variant.FromBool(true), nil
	case "false":
		return variant.FromBool(false), nil
	case "null", "nil":
		return variant.Nil(), nil
	case "inf":
		return variant.FromFloat(math.Inf(1)), nil
	case "inf_neg":
		return variant.FromFloat(math.Inf(-1)), nil
	case "nan":
		return variant.FromFloat(math.NaN()), nil
	case "ExtResource", "SubResource":
		return st.ref(tok, rp)
	case "NodePath", "StringName":
		args, err := st.args(rp)
		if err != nil {
			return nil, err
		}
		if len(args) != 1 || args[0].Type != variant.StringType {
			return nil, format.Errorf(format.ErrFormat, tok.Pos.Line, "%s expects one string argument", tok.Text)
		}
		if tok.Text == "NodePath" {
			return variant.FromNodePath(args[0].String), nil
		}
		return variant.FromStringName(args[0].String), nil
	case "Array":
		return st.typedArray(tok, rp)
	}
	if !variant.Constructors[tok.Text] && !st.opts.anyCtor {
		return nil, format.Errorf(format.ErrFormat, tok.Pos.Line, "unexpected identifier %q", tok.Text)
	}
	args, err := st.args(rp)
	if err != nil {
		return nil, err
	}
	return variant.Ctor(tok.Text, args...), nil
}

func (st *Stream) args(rp RefResolver) ([]*variant.Value, error) {
	if err := st.expect(token.TLParen); err != nil {
		return nil, err
	}
	return st.list(token.TRParen, rp)
}

func (st *Stream) ref(tok token.Token, rp RefResolver) (*variant.Value, error) {
	if err := st.expect(token.TLParen); err != nil {
		return nil, err
	}
	idTok, err := st.s.Next()
	if err != nil {
		return nil, err
	}
	if idTok.Type != token.TString && idTok.Type != token.TInteger {
		return nil, st.unexpected(idTok, "reference id")
	}
	if err := st.expect(token.TRParen); err != nil {
		return nil, err
	}
	kind := ExternalRef
	if tok.Text == "SubResource" {
		kind = EmbeddedRef
	}
	if rp == nil {
		rp = SkipRefs
	}
	return rp.Resolve(kind, idTok.Text, tok.Pos.Line)
}

// typedArray reads Array[T]([...]).  A bare Array is not a value.
func (st *Stream) typedArray(tok token.Token, rp RefResolver) (*variant.Value, error) {
	if err := st.expect(token.TLSquare); err != nil {
		return nil, err
	}
	elem := &strings.Builder{}
	for {
		t, err := st.s.Next()
		if err != nil {
			return nil, err
		}
		if t.Type == token.TRSquare {
			break
		}
		if t.Type != token.TIdent {
			return nil, st.unexpected(t, "array element type")
		}
		elem.WriteString(t.Text)
	}
	if elem.Len() == 0 {
		return nil, format.Errorf(format.ErrFormat, tok.Pos.Line, "empty element type")
	}
	args, err := st.args(rp)
	if err != nil {
		return nil, err
	}
	if len(args) != 1 || args[0].Type != variant.ArrayType {
		return nil, format.Errorf(format.ErrFormat, tok.Pos.Line, "Array[%s] expects one array argument", elem)
	}
	return variant.FromTypedSlice(elem.String(), args[0].Values), nil
}

// ParseValue parses a single value from src.
func ParseValue(src string, rp RefResolver, opts ...ParseOption) (*variant.Value, error) {
	st := NewStream(strings.NewReader(src), opts...)
	v, err := st.value(rp)
	if err != nil {
		return nil, err
	}
	tok, err := st.s.Next()
	if err != nil {
		return nil, err
	}
	if tok.Type != token.TEOF {
		return nil, st.unexpected(tok, "end of value")
	}
	return v, nil
}

func formatInt(i int64) string {
	return strconv.FormatInt(i, 10)
}
