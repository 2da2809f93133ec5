package scene

import "github.com/signadot/tres/variant"

const PackedSceneClass = "PackedScene"

// NewPacked returns a PackedScene object carrying s.
func NewPacked(s *Scene) *variant.Object {
	o := variant.New(PackedSceneClass)
	o.Data = s
	return o
}

// FromObject returns the scene carried by a PackedScene object.
func FromObject(o *variant.Object) (*Scene, bool) {
	if o == nil || o.Class() != PackedSceneClass {
		return nil, false
	}
	s, ok := o.Data.(*Scene)
	return s, ok && s != nil
}

// Register adds the PackedScene class to r.
func Register(r *variant.Registry) {
	r.Register(&variant.Class{Name: PackedSceneClass})
}
