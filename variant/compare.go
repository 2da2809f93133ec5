package variant

import (
	"math"
)

// Equal reports whether a and b are structurally equivalent.  Objects are
// compared by class, external path and properties, and the object
// correspondence must be one to one, so that two graphs are equal only if
// they share the same reference topology.  Cycles are handled.
func Equal(a, b *Value) bool {
	return newEq().values(a, b)
}

// EqualObjects is Equal for two objects.  a and b themselves are compared
// by properties even if they are stored in files of their own.
func EqualObjects(a, b *Object) bool {
	return newEq().deep(a, b)
}

type eq struct {
	ab map[*Object]*Object
	ba map[*Object]*Object
}

func newEq() *eq {
	return &eq{ab: map[*Object]*Object{}, ba: map[*Object]*Object{}}
}

func (e *eq) values(a, b *Value) bool {
	if a == b {
		return true
	}
	// null and a null object reference are the same text
	if a.IsNil() || b.IsNil() {
		return a.IsNil() && b.IsNil()
	}
	if a.Type != b.Type {
		return false
	}
	switch a.Type {
	case NilType:
		return true
	case BoolType:
		return a.Bool == b.Bool
	case IntType:
		return a.Int64 == b.Int64
	case FloatType:
		if math.IsNaN(a.Float64) && math.IsNaN(b.Float64) {
			return true
		}
		return a.Float64 == b.Float64
	case StringType, StringNameType, NodePathType:
		return a.String == b.String
	case CtorType, ArrayType, DictType:
		if a.Ctor != b.Ctor || a.ElemType != b.ElemType {
			return false
		}
		return e.lists(a.Keys, b.Keys) && e.lists(a.Values, b.Values)
	case ObjectType:
		return e.objects(a.Object, b.Object)
	case NativeType:
		return a.Native == b.Native
	}
	return false
}

func (e *eq) lists(a, b []*Value) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !e.values(a[i], b[i]) {
			return false
		}
	}
	return true
}

func (e *eq) objects(a, b *Object) bool {
	if a == nil || b == nil {
		return a == b
	}
	if x, ok := e.ab[a]; ok {
		return x == b
	}
	if x, ok := e.ba[b]; ok {
		return x == a
	}
	if a.class != b.class {
		return false
	}
	if !a.IsBuiltIn() || !b.IsBuiltIn() {
		return a.path == b.path
	}
	return e.deep(a, b)
}

func (e *eq) deep(a, b *Object) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.class != b.class {
		return false
	}
	// assume equal while descending so cycles terminate
	e.ab[a] = b
	e.ba[b] = a
	pa, pb := stored(a), stored(b)
	if len(pa) != len(pb) {
		return false
	}
	for i := range pa {
		if pa[i].Name != pb[i].Name {
			return false
		}
		if !e.values(pa[i].Value, pb[i].Value) {
			return false
		}
	}
	return true
}

func stored(o *Object) []Property {
	var res []Property
	for _, p := range o.Properties() {
		if p.Usage.Has(UsageNoStorage) {
			continue
		}
		res = append(res, p)
	}
	return res
}
