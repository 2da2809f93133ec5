package parse

import (
	"github.com/signadot/tres/variant"
)

// Tag is a tag header.  Fields keep their order of appearance.
type Tag struct {
	Name   string
	Fields []Field

	Line int
	// Start and End are the byte offsets of '[' and just past ']'.
	Start, End int
}

type Field struct {
	Key   string
	Value *variant.Value
}

func NewTag(name string) *Tag {
	return &Tag{Name: name}
}

// Get returns the value of a field, or nil.
func (t *Tag) Get(key string) *variant.Value {
	for i := range t.Fields {
		if t.Fields[i].Key == key {
			return t.Fields[i].Value
		}
	}
	return nil
}

func (t *Tag) Has(key string) bool {
	return t.Get(key) != nil
}

// String returns a string field, and whether it was present as a string.
func (t *Tag) String(key string) (string, bool) {
	v := t.Get(key)
	if v == nil {
		return "", false
	}
	switch v.Type {
	case variant.StringType, variant.StringNameType, variant.NodePathType:
		return v.String, true
	}
	return "", false
}

// Int returns an integer field.
func (t *Tag) Int(key string) (int64, bool) {
	v := t.Get(key)
	if v == nil || v.Type != variant.IntType {
		return 0, false
	}
	return v.Int64, true
}

// ID returns an id field, which may be written as a string or an integer.
func (t *Tag) ID(key string) (string, bool) {
	if s, ok := t.String(key); ok {
		return s, true
	}
	if i, ok := t.Int(key); ok {
		return formatInt(i), true
	}
	return "", false
}

// Set sets a field, keeping the position of an existing one.
func (t *Tag) Set(key string, v *variant.Value) *Tag {
	for i := range t.Fields {
		if t.Fields[i].Key == key {
			t.Fields[i].Value = v
			return t
		}
	}
	t.Fields = append(t.Fields, Field{Key: key, Value: v})
	return t
}

// SetString is Set with a string value.
func (t *Tag) SetString(key, v string) *Tag {
	return t.Set(key, variant.FromString(v))
}

func (t *Tag) Delete(key string) {
	for i := range t.Fields {
		if t.Fields[i].Key == key {
			t.Fields = append(t.Fields[:i], t.Fields[i+1:]...)
			return
		}
	}
}
