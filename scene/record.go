package scene

import (
	"strings"

	"github.com/signadot/tres/variant"
)

// NodeRecord is one node tag with its properties.
//
// Parent is empty for the root, "." for children of the root and a path
// relative to the root otherwise.  Owner follows the same convention and
// is empty when the node has no owner.
type NodeRecord struct {
	Name   string
	Type   string
	Parent string
	Owner  string
	// Index is the position hint among siblings, or -1.
	Index  int
	Groups []string

	// Instance is the PackedScene this node instances, if any.
	Instance            *variant.Object
	InstancePlaceholder string

	Props []variant.Property
}

func NewRecord(name, typ, parent string) *NodeRecord {
	return &NodeRecord{Name: name, Type: typ, Parent: parent, Index: -1}
}

// Set appends or replaces a property.
func (r *NodeRecord) Set(name string, v *variant.Value) *NodeRecord {
	for i := range r.Props {
		if r.Props[i].Name == name {
			r.Props[i].Value = v
			return r
		}
	}
	r.Props = append(r.Props, variant.Property{Name: name, Value: v})
	return r
}

// Get returns a property value, or nil.
func (r *NodeRecord) Get(name string) *variant.Value {
	for i := range r.Props {
		if r.Props[i].Name == name {
			return r.Props[i].Value
		}
	}
	return nil
}

// Path returns the path of the node relative to the root.
func (r *NodeRecord) Path() string {
	return JoinPath(r.Parent, r.Name)
}

// JoinPath joins a parent path and a node name.
func JoinPath(parent, name string) string {
	switch parent {
	case "":
		return "."
	case ".":
		return name
	}
	return strings.TrimSuffix(parent, "/") + "/" + name
}

// Connection is a signal connection between two nodes.
type Connection struct {
	Signal string
	From   string
	To     string
	Method string
	Flags  int64
	Binds  *variant.Value
}
