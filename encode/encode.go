package encode

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/signadot/tres/format"
	"github.com/signadot/tres/parse"
	"github.com/signadot/tres/variant"
)

// RefEncoder maps a referenced object to the literal that names it.
type RefEncoder interface {
	Ref(o *variant.Object) (parse.RefKind, string, error)
}

type RefEncoderFunc func(o *variant.Object) (parse.RefKind, string, error)

func (f RefEncoderFunc) Ref(o *variant.Object) (parse.RefKind, string, error) {
	return f(o)
}

type EncState struct {
	escapeNL bool

	Color func(variant.Type, ColorAttr, string) string
}

func newState(opts []EncodeOption) *EncState {
	es := &EncState{}
	for _, opt := range opts {
		opt(es)
	}
	return es
}

func (es *EncState) color(t variant.Type, a ColorAttr, s string) string {
	if es.Color == nil {
		return s
	}
	return es.Color(t, a, s)
}

// Encode writes v to w.
func Encode(w io.Writer, v *variant.Value, refs RefEncoder, opts ...EncodeOption) error {
	s, err := valueString(v, refs, newState(opts))
	if err != nil {
		return err
	}
	return writeString(w, s)
}

// ValueString returns the text of v.
func ValueString(v *variant.Value, refs RefEncoder, opts ...EncodeOption) (string, error) {
	return valueString(v, refs, newState(opts))
}

// EncodeTag writes a tag header without a trailing newline.
func EncodeTag(w io.Writer, tag *parse.Tag, refs RefEncoder, opts ...EncodeOption) error {
	es := newState(opts)
	b := &strings.Builder{}
	b.WriteString(es.color(variant.NilType, TagColor, "["+tag.Name))
	for _, f := range tag.Fields {
		vs, err := valueString(f.Value, refs, es)
		if err != nil {
			return fmt.Errorf("tag %s field %s: %w", tag.Name, f.Key, err)
		}
		b.WriteString(" ")
		b.WriteString(es.color(variant.NilType, FieldColor, f.Key))
		b.WriteString(es.color(variant.NilType, SepColor, "="))
		b.WriteString(vs)
	}
	b.WriteString(es.color(variant.NilType, TagColor, "]"))
	return writeString(w, b.String())
}

// EncodeProperty writes "key = value" followed by a newline.
func EncodeProperty(w io.Writer, key string, v *variant.Value, refs RefEncoder, opts ...EncodeOption) error {
	es := newState(opts)
	vs, err := valueString(v, refs, es)
	if err != nil {
		return fmt.Errorf("property %s: %w", key, err)
	}
	k := es.color(variant.NilType, FieldColor, PropertyName(key))
	return writeString(w, k+" "+es.color(variant.NilType, SepColor, "=")+" "+vs+"\n")
}

// PropertyName quotes key if it cannot be read back as a bare key.
func PropertyName(key string) string {
	if key == "" {
		return `""`
	}
	for _, r := range key {
		if r <= ' ' || strings.ContainsRune(`="';[]{}\`, r) {
			return quote(key, true)
		}
	}
	return key
}

func writeString(w io.Writer, s string) error {
	_, err := io.WriteString(w, s)
	return err
}

func valueString(v *variant.Value, refs RefEncoder, es *EncState) (string, error) {
	b := &strings.Builder{}
	if err := writeValue(b, v, refs, es); err != nil {
		return "", err
	}
	return b.String(), nil
}

func writeValue(b *strings.Builder, v *variant.Value, refs RefEncoder, es *EncState) error {
	if v == nil {
		b.WriteString(es.color(variant.NilType, ValueColor, "null"))
		return nil
	}
	switch v.Type {
	case variant.NilType:
		b.WriteString(es.color(v.Type, ValueColor, "null"))
	case variant.BoolType:
		b.WriteString(es.color(v.Type, ValueColor, strconv.FormatBool(v.Bool)))
	case variant.IntType:
		b.WriteString(es.color(v.Type, ValueColor, strconv.FormatInt(v.Int64, 10)))
	case variant.FloatType:
		b.WriteString(es.color(v.Type, ValueColor, FormatFloat(v.Float64)))
	case variant.StringType:
		b.WriteString(es.color(v.Type, ValueColor, quote(v.String, es.escapeNL)))
	case variant.StringNameType:
		b.WriteString(es.color(v.Type, ValueColor, "&"+quote(v.String, es.escapeNL)))
	case variant.NodePathType:
		b.WriteString(es.color(v.Type, ValueColor, "NodePath("+quote(v.String, es.escapeNL)+")"))
	case variant.CtorType:
		b.WriteString(es.color(v.Type, TagColor, v.Ctor) + "(")
		if err := writeList(b, v.Values, refs, es); err != nil {
			return err
		}
		b.WriteString(")")
	case variant.ArrayType:
		if v.ElemType != "" {
			b.WriteString(es.color(v.Type, TagColor, "Array["+v.ElemType+"]") + "(")
		}
		b.WriteString("[")
		if err := writeList(b, v.Values, refs, es); err != nil {
			return err
		}
		b.WriteString("]")
		if v.ElemType != "" {
			b.WriteString(")")
		}
	case variant.DictType:
		if len(v.Keys) == 0 {
			b.WriteString("{}")
			return nil
		}
		b.WriteString("{\n")
		for i := range v.Keys {
			if err := writeValue(b, v.Keys[i], refs, es); err != nil {
				return err
			}
			b.WriteString(es.color(v.Type, SepColor, ":") + " ")
			if err := writeValue(b, v.Values[i], refs, es); err != nil {
				return err
			}
			if i < len(v.Keys)-1 {
				b.WriteString(",")
			}
			b.WriteString("\n")
		}
		b.WriteString("}")
	case variant.ObjectType:
		if v.Object == nil {
			b.WriteString(es.color(variant.NilType, ValueColor, "null"))
			return nil
		}
		if refs == nil {
			return fmt.Errorf("%w: reference to %s outside of a resource file", format.ErrUnsupportedValue, v.Object)
		}
		kind, id, err := refs.Ref(v.Object)
		if err != nil {
			return err
		}
		b.WriteString(es.color(v.Type, RefColor, kind.String()+"("+strconv.Quote(id)+")"))
	default:
		return fmt.Errorf("%w: %s value of Go type %T", format.ErrUnsupportedValue, v.Type, v.Native)
	}
	return nil
}

func writeList(b *strings.Builder, vs []*variant.Value, refs RefEncoder, es *EncState) error {
	for i, c := range vs {
		if i > 0 {
			b.WriteString(", ")
		}
		if err := writeValue(b, c, refs, es); err != nil {
			return err
		}
	}
	return nil
}

// FormatFloat renders f so that it reads back as a float.
func FormatFloat(f float64) string {
	switch {
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "inf_neg"
	case math.IsNaN(f):
		return "nan"
	}
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".e") {
		s += ".0"
	}
	return s
}

func quote(s string, escapeNL bool) string {
	b := &strings.Builder{}
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			if escapeNL {
				b.WriteString(`\n`)
			} else {
				b.WriteByte('\n')
			}
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}
