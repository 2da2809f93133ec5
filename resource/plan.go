package resource

import (
	"fmt"

	"github.com/signadot/tres/format"
	"github.com/signadot/tres/parse"
	"github.com/signadot/tres/reftable"
	"github.com/signadot/tres/scene"
	"github.com/signadot/tres/variant"
)

// NonPersistentKey names an object held by a not-persistent property.
// Such objects are regenerated on every read, so they are tracked by the
// property holding them rather than by identity.
type NonPersistentKey struct {
	Owner *variant.Object
	Prop  string
}

// Embedded is an object written inline, with the properties that are
// written for it.
type Embedded struct {
	ID     string
	Object *variant.Object
	Props  []variant.Property
}

// Plan is the result of discovering the graph reachable from a root: every
// object is classified as external or embedded and has an id.
type Plan struct {
	Path  string
	Root  *variant.Object
	Scene *scene.Scene
	Flags SaveFlags

	// RootProps are the written properties of a non-scene root.
	RootProps []variant.Property
	// Embedded is sorted by id.
	Embedded []*Embedded

	// NonPersistent holds the object found under each not-persistent
	// property.  Such an object is embedded wherever else it is referenced.
	NonPersistent map[NonPersistentKey]*variant.Object

	refs  *reftable.Table
	state map[*variant.Object]visit
	held  map[*variant.Object]NonPersistentKey
	// external candidates in discovery order
	exts    []*variant.Object
	extSeen map[*variant.Object]bool
	props map[*variant.Object][]variant.Property
	nodes map[*scene.Node][]variant.Property
}

type visit int

const (
	unvisited visit = iota
	visiting
	visited
)

// NewPlan discovers the graph reachable from root for writing to path.
func NewPlan(path string, root *variant.Object, flags SaveFlags) (*Plan, error) {
	if root == nil {
		return nil, fmt.Errorf("%w: nil root", format.ErrUnsupportedValue)
	}
	p := &Plan{
		Path:          path,
		Root:          root,
		Flags:         flags,
		NonPersistent: map[NonPersistentKey]*variant.Object{},
		refs:          reftable.New(),
		state:         map[*variant.Object]visit{},
		held:          map[*variant.Object]NonPersistentKey{},
		extSeen:       map[*variant.Object]bool{},
		props:         map[*variant.Object][]variant.Property{},
		nodes:         map[*scene.Node][]variant.Property{},
	}
	if err := p.refs.DeclareEmbedded(MainID, root, 0); err != nil {
		return nil, err
	}
	p.state[root] = visiting
	if sc, ok := scene.FromObject(root); ok {
		p.Scene = sc
		if err := p.discoverScene(sc); err != nil {
			return nil, err
		}
	} else {
		props, err := p.discoverProps(root)
		if err != nil {
			return nil, err
		}
		p.RootProps = props
	}
	p.state[root] = visited
	for _, o := range p.exts {
		if _, ok := p.held[o]; ok {
			continue
		}
		p.refs.Assign(parse.ExternalRef, o)
	}
	ids := p.refs.IDs(parse.EmbeddedRef)[1:]
	reftable.SortNatural(ids)
	for _, id := range ids {
		o, _ := p.refs.Lookup(parse.EmbeddedRef, id)
		p.Embedded = append(p.Embedded, &Embedded{ID: id, Object: o, Props: p.props[o]})
	}
	return p, nil
}

// Externals returns the external references in discovery order.
func (p *Plan) Externals() []*reftable.External {
	ids := p.refs.IDs(parse.ExternalRef)
	res := make([]*reftable.External, len(ids))
	for i, id := range ids {
		o, _ := p.refs.Lookup(parse.ExternalRef, id)
		res[i] = &reftable.External{ID: id, Path: o.Path(), Type: o.Class(), UID: o.UID(), Object: o}
	}
	return res
}

// Ref implements encode.RefEncoder.
func (p *Plan) Ref(o *variant.Object) (parse.RefKind, string, error) {
	if id, ok := p.refs.ID(parse.EmbeddedRef, o); ok {
		return parse.EmbeddedRef, id, nil
	}
	if id, ok := p.refs.ID(parse.ExternalRef, o); ok {
		return parse.ExternalRef, id, nil
	}
	return 0, "", fmt.Errorf("%w: %s was not discovered", format.ErrUnsupportedValue, o)
}

// LoadSteps is the number of objects the loader instantiates.
func (p *Plan) LoadSteps() int {
	return 1 + p.refs.Len(parse.ExternalRef) + len(p.Embedded)
}

// NodeProps returns the written properties of a scene node.
func (p *Plan) NodeProps(n *scene.Node) []variant.Property {
	return p.nodes[n]
}

func (p *Plan) discoverScene(sc *scene.Scene) error {
	for _, n := range sc.Nodes {
		if n.Instance != nil {
			if err := p.walk(p.Root, "", variant.FromObject(n.Instance)); err != nil {
				return err
			}
		}
		props := p.filter(n.Props)
		for _, prop := range props {
			if err := checkValue(prop.Value); err != nil {
				return fmt.Errorf("node %s property %s: %w", n.Path(), prop.Name, err)
			}
			if err := p.walk(p.Root, "", prop.Value); err != nil {
				return err
			}
		}
		p.nodes[n] = props
	}
	for _, c := range sc.Connections {
		if err := checkValue(c.Binds); err != nil {
			return fmt.Errorf("connection %s binds: %w", c.Signal, err)
		}
		if err := p.walk(p.Root, "", c.Binds); err != nil {
			return err
		}
	}
	return nil
}

func (p *Plan) filter(props []variant.Property) []variant.Property {
	res := make([]variant.Property, 0, len(props))
	for _, prop := range props {
		if prop.Usage.Has(variant.UsageNoStorage) {
			continue
		}
		if p.Flags.SkipEditorOnly && prop.Usage.Has(variant.UsageEditorOnly) {
			continue
		}
		res = append(res, prop)
	}
	return res
}

// discoverProps evaluates and walks the written properties of o.
func (p *Plan) discoverProps(o *variant.Object) ([]variant.Property, error) {
	props := p.filter(o.Properties())
	for _, prop := range props {
		if err := checkValue(prop.Value); err != nil {
			return nil, fmt.Errorf("%s property %s: %w", o, prop.Name, err)
		}
		np := ""
		if prop.Usage.Has(variant.UsageNotPersistent) {
			np = prop.Name
		}
		if err := p.walk(o, np, prop.Value); err != nil {
			return nil, err
		}
	}
	return props, nil
}

func checkValue(v *variant.Value) error {
	return v.Walk(func(v *variant.Value) error {
		if v.Type == variant.NativeType {
			return fmt.Errorf("%w: %T has no text form", format.ErrUnsupportedValue, v.Native)
		}
		return nil
	})
}

// walk classifies the objects referenced by v, a value of a property of
// owner.  np names the property if it is not persistent.
func (p *Plan) walk(owner *variant.Object, np string, v *variant.Value) error {
	return v.Walk(func(v *variant.Value) error {
		if v.Type != variant.ObjectType || v.Object == nil {
			return nil
		}
		o := v.Object
		if np != "" {
			key := NonPersistentKey{Owner: owner, Prop: np}
			p.NonPersistent[key] = o
			if _, ok := p.held[o]; !ok {
				p.held[o] = key
			}
			return p.embed(owner, o)
		}
		if _, ok := p.held[o]; ok || !p.external(o) {
			return p.embed(owner, o)
		}
		if !p.extSeen[o] {
			p.extSeen[o] = true
			p.exts = append(p.exts, o)
		}
		return nil
	})
}

func (p *Plan) external(o *variant.Object) bool {
	path := o.Path()
	if o == p.Root || variant.IsBuiltInPath(path) || path == p.Path {
		return false
	}
	if !p.Flags.BundleResources {
		return true
	}
	// a packed scene has no properties to embed
	_, isScene := scene.FromObject(o)
	return isScene
}

// embed descends into o and gives it the next embedded id once all the
// objects it references have theirs.
func (p *Plan) embed(owner, o *variant.Object) error {
	switch p.state[o] {
	case visited:
		return nil
	case visiting:
		if o == owner || o == p.Root {
			return nil
		}
		return fmt.Errorf("%w: reference cycle through embedded %s does not pass through the main object", format.ErrUnsupportedValue, o)
	}
	if _, ok := scene.FromObject(o); ok {
		return fmt.Errorf("%w: packed scene %s cannot be embedded", format.ErrUnsupportedValue, o)
	}
	p.state[o] = visiting
	props, err := p.discoverProps(o)
	if err != nil {
		return err
	}
	p.props[o] = props
	p.state[o] = visited
	p.refs.Assign(parse.EmbeddedRef, o)
	return nil
}
