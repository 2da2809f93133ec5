package reftable

import (
	"github.com/signadot/tres/format"
	"github.com/signadot/tres/parse"
	"github.com/signadot/tres/variant"
)

// External is a dependency stored in another file.  Object is nil until the
// reference is first resolved.
type External struct {
	ID   string
	Path string
	Type string
	UID  string

	Object *variant.Object
}

type namespace struct {
	byID  map[string]*variant.Object
	byObj map[*variant.Object]string
	order []string
	seq   Seq
}

func newNamespace() *namespace {
	return &namespace{
		byID:  map[string]*variant.Object{},
		byObj: map[*variant.Object]string{},
	}
}

func (ns *namespace) declare(id string, o *variant.Object, line int) error {
	if _, ok := ns.byID[id]; ok {
		return format.Errorf(format.ErrFormat, line, "duplicate id %q", id)
	}
	ns.byID[id] = o
	ns.order = append(ns.order, id)
	ns.seq.Reserve(id)
	if o != nil {
		ns.byObj[o] = id
	}
	return nil
}

type Table struct {
	ext  *namespace
	emb  *namespace
	exts map[string]*External
}

func New() *Table {
	return &Table{
		ext:  newNamespace(),
		emb:  newNamespace(),
		exts: map[string]*External{},
	}
}

func (t *Table) ns(kind parse.RefKind) *namespace {
	if kind == parse.ExternalRef {
		return t.ext
	}
	return t.emb
}

// DeclareExternal records an external reference by its id.  Declaring an
// id twice is a format error.
func (t *Table) DeclareExternal(e *External, line int) error {
	if err := t.ext.declare(e.ID, e.Object, line); err != nil {
		return err
	}
	t.exts[e.ID] = e
	return nil
}

// DeclareEmbedded records an embedded object by its id.
func (t *Table) DeclareEmbedded(id string, o *variant.Object, line int) error {
	return t.emb.declare(id, o, line)
}

// External returns the external reference declared as id.
func (t *Table) External(id string) (*External, bool) {
	e, ok := t.exts[id]
	return e, ok
}

// Externals returns the external references in declaration order.
func (t *Table) Externals() []*External {
	res := make([]*External, 0, len(t.ext.order))
	for _, id := range t.ext.order {
		res = append(res, t.exts[id])
	}
	return res
}

// Bind sets the object of a declared external reference.
func (t *Table) Bind(id string, o *variant.Object) {
	e := t.exts[id]
	if e == nil {
		return
	}
	if e.Object != nil {
		delete(t.ext.byObj, e.Object)
	}
	e.Object = o
	t.ext.byID[id] = o
	if o != nil {
		t.ext.byObj[o] = id
	}
}

// Lookup returns the object declared under id.  An external reference that
// is declared but not yet resolved yields (nil, true).
func (t *Table) Lookup(kind parse.RefKind, id string) (*variant.Object, bool) {
	o, ok := t.ns(kind).byID[id]
	return o, ok
}

// ID returns the id of o in the namespace of kind.
func (t *Table) ID(kind parse.RefKind, o *variant.Object) (string, bool) {
	id, ok := t.ns(kind).byObj[o]
	return id, ok
}

// IDs returns the ids of a namespace in declaration order.
func (t *Table) IDs(kind parse.RefKind) []string {
	return append([]string(nil), t.ns(kind).order...)
}

// Assign returns the id of o in the namespace of kind, allocating the next
// free sequence id if o has none.
func (t *Table) Assign(kind parse.RefKind, o *variant.Object) string {
	ns := t.ns(kind)
	if id, ok := ns.byObj[o]; ok {
		return id
	}
	id := ns.seq.Next()
	ns.byID[id] = o
	ns.byObj[o] = id
	ns.order = append(ns.order, id)
	return id
}

// Len returns the number of ids in the namespace of kind.
func (t *Table) Len(kind parse.RefKind) int {
	return len(t.ns(kind).order)
}
