package variant

import (
	"fmt"
	"math"
	"strings"
)

type Value struct {
	Type Type

	Bool    bool
	Int64   int64
	Float64 float64
	String  string

	// Ctor names the constructor of a CtorType value.
	Ctor string
	// ElemType names the element type of a typed array.
	ElemType string

	Keys   []*Value
	Values []*Value

	Object *Object
	Native any
}

func Nil() *Value { return &Value{Type: NilType} }

func FromBool(v bool) *Value { return &Value{Type: BoolType, Bool: v} }

func FromInt(v int64) *Value { return &Value{Type: IntType, Int64: v} }

func FromFloat(v float64) *Value { return &Value{Type: FloatType, Float64: v} }

func FromString(v string) *Value { return &Value{Type: StringType, String: v} }

func FromStringName(v string) *Value { return &Value{Type: StringNameType, String: v} }

func FromNodePath(v string) *Value { return &Value{Type: NodePathType, String: v} }

// FromObject returns a reference to o.  A nil o yields a null reference,
// which is encoded as null.
func FromObject(o *Object) *Value { return &Value{Type: ObjectType, Object: o} }

// FromNative wraps an arbitrary Go value.  Such values cannot be encoded.
func FromNative(v any) *Value { return &Value{Type: NativeType, Native: v} }

func FromSlice(vs []*Value) *Value {
	if vs == nil {
		vs = []*Value{}
	}
	return &Value{Type: ArrayType, Values: vs}
}

func FromTypedSlice(elem string, vs []*Value) *Value {
	res := FromSlice(vs)
	res.ElemType = elem
	return res
}

func FromStrings(vs ...string) *Value {
	res := make([]*Value, len(vs))
	for i, v := range vs {
		res[i] = FromString(v)
	}
	return FromSlice(res)
}

type KeyVal struct {
	Key *Value
	Val *Value
}

func FromKeyVals(kvs []KeyVal) *Value {
	res := &Value{Type: DictType, Keys: []*Value{}, Values: []*Value{}}
	for _, kv := range kvs {
		res.Keys = append(res.Keys, kv.Key)
		res.Values = append(res.Values, kv.Val)
	}
	return res
}

// Ctor returns a constructor literal value.
func Ctor(name string, args ...*Value) *Value {
	if args == nil {
		args = []*Value{}
	}
	return &Value{Type: CtorType, Ctor: name, Values: args}
}

// Floats is a shorthand for a constructor of float arguments, as in
// Floats("Vector2", 1, 2).
func Floats(name string, fs ...float64) *Value {
	args := make([]*Value, len(fs))
	for i, f := range fs {
		args[i] = FromFloat(f)
	}
	return Ctor(name, args...)
}

func (v *Value) IsNil() bool {
	return v == nil || v.Type == NilType || (v.Type == ObjectType && v.Object == nil)
}

// Lookup returns the value of a dictionary entry with a string key.
func (v *Value) Lookup(key string) *Value {
	if v == nil || v.Type != DictType {
		return nil
	}
	for i, k := range v.Keys {
		if k.Type == StringType && k.String == key {
			return v.Values[i]
		}
	}
	return nil
}

// Walk calls f on v and then on every value contained in v, depth first.
// Walk does not descend into objects.
func (v *Value) Walk(f func(*Value) error) error {
	if v == nil {
		return nil
	}
	if err := f(v); err != nil {
		return err
	}
	for _, k := range v.Keys {
		if err := k.Walk(f); err != nil {
			return err
		}
	}
	for _, c := range v.Values {
		if err := c.Walk(f); err != nil {
			return err
		}
	}
	return nil
}

// Clone copies v deeply.  Object references are shared, not copied.
func (v *Value) Clone() *Value {
	if v == nil {
		return nil
	}
	res := *v
	if v.Keys != nil {
		res.Keys = make([]*Value, len(v.Keys))
		for i, k := range v.Keys {
			res.Keys[i] = k.Clone()
		}
	}
	if v.Values != nil {
		res.Values = make([]*Value, len(v.Values))
		for i, c := range v.Values {
			res.Values[i] = c.Clone()
		}
	}
	return &res
}

func (v *Value) GoString() string {
	if v == nil {
		return "<nil>"
	}
	switch v.Type {
	case NilType:
		return "null"
	case BoolType:
		return fmt.Sprint(v.Bool)
	case IntType:
		return fmt.Sprint(v.Int64)
	case FloatType:
		switch {
		case math.IsInf(v.Float64, 1):
			return "inf"
		case math.IsInf(v.Float64, -1):
			return "inf_neg"
		}
		return fmt.Sprint(v.Float64)
	case StringType, StringNameType, NodePathType:
		return fmt.Sprintf("%s(%q)", v.Type, v.String)
	case CtorType:
		return v.Ctor + "(" + goStrings(v.Values) + ")"
	case ArrayType:
		return "[" + goStrings(v.Values) + "]"
	case DictType:
		return fmt.Sprintf("dict(%d)", len(v.Keys))
	case ObjectType:
		if v.Object == nil {
			return "null"
		}
		return v.Object.String()
	default:
		return fmt.Sprintf("native(%T)", v.Native)
	}
}

func goStrings(vs []*Value) string {
	parts := make([]string, len(vs))
	for i, v := range vs {
		parts[i] = v.GoString()
	}
	return strings.Join(parts, ", ")
}
