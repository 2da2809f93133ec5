package variant

import "fmt"

type Type int

const (
	NilType Type = iota
	BoolType
	IntType
	FloatType
	StringType
	StringNameType
	NodePathType
	CtorType
	ArrayType
	DictType
	ObjectType
	NativeType
)

func Types() []Type {
	return []Type{
		NilType, BoolType, IntType, FloatType, StringType, StringNameType,
		NodePathType, CtorType, ArrayType, DictType, ObjectType, NativeType,
	}
}

func (t Type) String() string {
	d, err := t.MarshalText()
	if err != nil {
		return fmt.Sprintf("<type %d>", int(t))
	}
	return string(d)
}

func (t Type) MarshalText() ([]byte, error) {
	switch t {
	case NilType:
		return []byte("nil"), nil
	case BoolType:
		return []byte("bool"), nil
	case IntType:
		return []byte("int"), nil
	case FloatType:
		return []byte("float"), nil
	case StringType:
		return []byte("string"), nil
	case StringNameType:
		return []byte("stringname"), nil
	case NodePathType:
		return []byte("nodepath"), nil
	case CtorType:
		return []byte("ctor"), nil
	case ArrayType:
		return []byte("array"), nil
	case DictType:
		return []byte("dict"), nil
	case ObjectType:
		return []byte("object"), nil
	case NativeType:
		return []byte("native"), nil
	default:
		return nil, fmt.Errorf("invalid type %d", t)
	}
}

// IsContainer reports whether values of type t hold child values.
func (t Type) IsContainer() bool {
	switch t {
	case CtorType, ArrayType, DictType:
		return true
	}
	return false
}

// Constructors lists the constructor literals recognized by the value
// grammar.  ExtResource and SubResource are reference forms and are not
// listed here.
var Constructors = map[string]bool{
	"Vector2":            true,
	"Vector2i":           true,
	"Rect2":              true,
	"Rect2i":             true,
	"Vector3":            true,
	"Vector3i":           true,
	"Vector4":            true,
	"Vector4i":           true,
	"Transform2D":        true,
	"Plane":              true,
	"Quaternion":         true,
	"AABB":               true,
	"Basis":              true,
	"Transform3D":        true,
	"Projection":         true,
	"Color":              true,
	"RID":                true,
	"Callable":           true,
	"Signal":             true,
	"PackedByteArray":    true,
	"PackedInt32Array":   true,
	"PackedInt64Array":   true,
	"PackedFloat32Array": true,
	"PackedFloat64Array": true,
	"PackedStringArray":  true,
	"PackedVector2Array": true,
	"PackedVector3Array": true,
	"PackedColorArray":   true,
	"PackedVector4Array": true,
}
