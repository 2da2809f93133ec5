package scene

import (
	"github.com/signadot/tres/debug"
	"github.com/signadot/tres/format"
)

type State int

const (
	ExpectRoot State = iota
	Building
	Done
)

func (s State) String() string {
	switch s {
	case ExpectRoot:
		return "expect-root"
	case Building:
		return "building"
	case Done:
		return "done"
	}
	return "unknown"
}

// Assembler builds a Scene from records added in declaration order.
type Assembler struct {
	state  State
	scene  *Scene
	byPath map[string]*Node
}

func NewAssembler() *Assembler {
	return &Assembler{
		scene:  &Scene{},
		byPath: map[string]*Node{},
	}
}

func (a *Assembler) State() State { return a.state }

func structErr(line int, msg string, args ...any) error {
	return format.Errorf(format.ErrStructure, line, msg, args...)
}

// Add places rec under its parent.  line is used to report errors.
func (a *Assembler) Add(rec *NodeRecord, line int) error {
	switch a.state {
	case Done:
		return structErr(line, "node %q after end of scene", rec.Name)
	case ExpectRoot:
		if rec.Parent != "" {
			return structErr(line, "node %q has parent %q but no root was declared", rec.Name, rec.Parent)
		}
		n := &Node{NodeRecord: *rec}
		a.scene.Root = n
		a.scene.Nodes = append(a.scene.Nodes, n)
		a.byPath["."] = n
		a.state = Building
		if debug.Scene() {
			debug.Logf("scene: root %s (%s)", rec.Name, rec.Type)
		}
		return nil
	}
	if rec.Parent == "" {
		return structErr(line, "root declared twice: %q", rec.Name)
	}
	if rec.Name == "" {
		return structErr(line, "node without name under %q", rec.Parent)
	}
	parent := a.byPath[rec.Parent]
	if parent == nil {
		return structErr(line, "missing parent %q of node %q", rec.Parent, rec.Name)
	}
	if rec.Owner != "" && a.byPath[rec.Owner] == nil {
		return structErr(line, "missing owner %q of node %q", rec.Owner, rec.Name)
	}
	p := rec.Path()
	if a.byPath[p] != nil {
		return structErr(line, "duplicate node %q", p)
	}
	n := &Node{NodeRecord: *rec, ParentNode: parent}
	parent.insert(n)
	a.scene.Nodes = append(a.scene.Nodes, n)
	a.byPath[p] = n
	if debug.Scene() {
		debug.Logf("scene: %s (%s)", p, rec.Type)
	}
	return nil
}

// Connect adds a connection between already declared nodes.
func (a *Assembler) Connect(c *Connection, line int) error {
	if a.state != Building {
		return structErr(line, "connection %q outside of a scene", c.Signal)
	}
	if a.byPath[c.From] == nil {
		return structErr(line, "connection %q from unknown node %q", c.Signal, c.From)
	}
	if a.byPath[c.To] == nil {
		return structErr(line, "connection %q to unknown node %q", c.Signal, c.To)
	}
	a.scene.Connections = append(a.scene.Connections, c)
	return nil
}

// Editable marks an instanced child as editable.
func (a *Assembler) Editable(path string, line int) error {
	if a.state != Building {
		return structErr(line, "editable %q outside of a scene", path)
	}
	if a.byPath[path] == nil {
		return structErr(line, "editable path %q is not a node", path)
	}
	a.scene.Editables = append(a.scene.Editables, path)
	return nil
}

// Finish ends assembly.  A scene without a root is a structure error.
func (a *Assembler) Finish(line int) (*Scene, error) {
	if a.state == ExpectRoot {
		return nil, structErr(line, "empty scene")
	}
	a.state = Done
	return a.scene, nil
}
