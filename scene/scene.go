package scene

import (
	"github.com/signadot/tres/variant"
)

type Node struct {
	NodeRecord

	ParentNode *Node
	Children   []*Node
}

func (n *Node) insert(c *Node) {
	i := c.Index
	if i < 0 || i >= len(n.Children) {
		n.Children = append(n.Children, c)
		return
	}
	n.Children = append(n.Children, nil)
	copy(n.Children[i+1:], n.Children[i:])
	n.Children[i] = c
}

// Child returns the direct child called name.
func (n *Node) Child(name string) *Node {
	for _, c := range n.Children {
		if c.Name == name {
			return c
		}
	}
	return nil
}

type Scene struct {
	Root        *Node
	// Nodes holds every node in declaration order.
	Nodes       []*Node
	Connections []*Connection
	Editables   []string
}

// Find returns the node at a root relative path.
func (s *Scene) Find(path string) *Node {
	for _, n := range s.Nodes {
		if n.Path() == path {
			return n
		}
	}
	return nil
}

// Records returns the node records in declaration order.
func (s *Scene) Records() []*NodeRecord {
	res := make([]*NodeRecord, len(s.Nodes))
	for i, n := range s.Nodes {
		res[i] = &n.NodeRecord
	}
	return res
}

// Values calls f on every value held by the scene, including instanced
// scenes as object references.
func (s *Scene) Values(f func(*variant.Value) error) error {
	for _, n := range s.Nodes {
		if n.Instance != nil {
			if err := f(variant.FromObject(n.Instance)); err != nil {
				return err
			}
		}
		for i := range n.Props {
			if err := f(n.Props[i].Value); err != nil {
				return err
			}
		}
	}
	for _, c := range s.Connections {
		if c.Binds != nil {
			if err := f(c.Binds); err != nil {
				return err
			}
		}
	}
	return nil
}

// Build assembles a scene from records, as a loader would.
func Build(recs ...*NodeRecord) (*Scene, error) {
	a := NewAssembler()
	for i, r := range recs {
		if err := a.Add(r, i+1); err != nil {
			return nil, err
		}
	}
	return a.Finish(len(recs))
}
