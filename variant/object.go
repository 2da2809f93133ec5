package variant

import (
	"fmt"
	"strings"
)

// Usage flags describe how a property takes part in persistence.
type Usage uint32

const (
	// UsageNoStorage properties are never written.
	UsageNoStorage Usage = 1 << iota
	// UsageEditorOnly properties are dropped when saving with editor data
	// skipped.
	UsageEditorOnly
	// UsageNotPersistent properties hold objects regenerated on each read.
	// Such objects are always embedded afresh on save.
	UsageNotPersistent
)

func (u Usage) Has(f Usage) bool { return u&f != 0 }

type Property struct {
	Name  string
	Value *Value
	Usage Usage

	get func() *Value
}

// Computed reports whether the property value is produced by a getter.
func (p *Property) Computed() bool { return p.get != nil }

// BuiltInSep separates a file path from an embedded id in a built-in path.
const BuiltInSep = "::"

type Object struct {
	class string
	path  string
	uid   string

	props []Property
	index map[string]int

	// Data holds a host representation attached to the object, such as
	// the node tree of a packed scene.
	Data any
}

// New creates an object of the given class without consulting a
// Registry.
func New(class string) *Object {
	return &Object{class: class, index: map[string]int{}}
}

func (o *Object) Class() string { return o.class }

// Path returns the storage location of the object, or "" if it has none.
func (o *Object) Path() string { return o.path }

func (o *Object) SetPath(p string) { o.path = p }

func (o *Object) UID() string { return o.uid }

func (o *Object) SetUID(uid string) { o.uid = uid }

// IsBuiltIn reports whether the object is persisted inside another file.
func (o *Object) IsBuiltIn() bool {
	return IsBuiltInPath(o.path)
}

func IsBuiltInPath(p string) bool {
	return p == "" || strings.Contains(p, BuiltInSep)
}

// BuiltInPath returns the path of the embedded object id within file.
func BuiltInPath(file, id string) string {
	return file + BuiltInSep + id
}

// Set assigns a stored property, replacing any getter of the same name
// while keeping its usage flags.
func (o *Object) Set(name string, v *Value) {
	if v == nil {
		v = Nil()
	}
	if i, ok := o.index[name]; ok {
		o.props[i].Value = v
		o.props[i].get = nil
		return
	}
	o.index[name] = len(o.props)
	o.props = append(o.props, Property{Name: name, Value: v})
}

// SetUsage sets the usage flags of a property, declaring it if needed.
func (o *Object) SetUsage(name string, u Usage) {
	if _, ok := o.index[name]; !ok {
		o.Set(name, Nil())
	}
	o.props[o.index[name]].Usage = u
}

// SetComputed declares a property whose value is produced by get each
// time it is read.
func (o *Object) SetComputed(name string, u Usage, get func() *Value) {
	o.SetUsage(name, u)
	o.props[o.index[name]].get = get
}

// Get returns the current value of a property.
func (o *Object) Get(name string) (*Value, bool) {
	i, ok := o.index[name]
	if !ok {
		return nil, false
	}
	return o.props[i].read(), true
}

// Usage returns the usage flags of a property.
func (o *Object) Usage(name string) Usage {
	i, ok := o.index[name]
	if !ok {
		return 0
	}
	return o.props[i].Usage
}

func (o *Object) Has(name string) bool {
	_, ok := o.index[name]
	return ok
}

// Properties returns the properties of o in declaration order, with
// computed properties evaluated now.
func (o *Object) Properties() []Property {
	res := make([]Property, len(o.props))
	for i := range o.props {
		res[i] = o.props[i]
		res[i].Value = o.props[i].read()
	}
	return res
}

func (o *Object) Len() int { return len(o.props) }

func (p *Property) read() *Value {
	if p.get != nil {
		v := p.get()
		if v == nil {
			return Nil()
		}
		return v
	}
	return p.Value
}

// Snapshot captures the properties of o so that they may be restored.
func (o *Object) Snapshot() []Property {
	return append([]Property(nil), o.props...)
}

// Restore replaces the properties of o with a snapshot.
func (o *Object) Restore(props []Property) {
	o.props = append(o.props[:0:0], props...)
	o.index = make(map[string]int, len(props))
	for i := range o.props {
		o.index[o.props[i].Name] = i
	}
}

// Release drops all stored property values of o, breaking any reference
// cycles through it.  Usage flags and getters are kept.
func (o *Object) Release() {
	for i := range o.props {
		o.props[i].Value = Nil()
	}
	o.Data = nil
}

// Reset removes every stored property so that o can be reparsed in place.
// Computed properties keep their getters and usage.
func (o *Object) Reset() {
	kept := o.props[:0:0]
	for _, p := range o.props {
		if p.get != nil {
			kept = append(kept, p)
		}
	}
	o.Restore(kept)
}

func (o *Object) String() string {
	if o == nil {
		return "<nil object>"
	}
	if o.path != "" {
		return fmt.Sprintf("%s(%s)", o.class, o.path)
	}
	return fmt.Sprintf("%s(%p)", o.class, o)
}
