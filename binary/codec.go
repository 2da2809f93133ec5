package binary

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"

	"github.com/fxamacker/cbor/v2"

	"github.com/signadot/tres/format"
	"github.com/signadot/tres/parse"
	"github.com/signadot/tres/resource"
	"github.com/signadot/tres/scene"
	"github.com/signadot/tres/variant"
)

// Magic begins every binary resource.
const Magic = "TRES"

// Version is the version of the File layout.
const Version = 1

var encMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("binary: failed to create CBOR enc mode: %v", err))
	}
	encMode = em
}

// Codec is a resource.BinaryCodec.
type Codec struct {
	Log *slog.Logger
}

func (c *Codec) log() *slog.Logger {
	if c.Log == nil {
		return slog.Default()
	}
	return c.Log
}

// WriteBinary implements resource.BinaryCodec.
func (c *Codec) WriteBinary(w io.Writer, p *resource.Plan) error {
	f, err := FromPlan(p)
	if err != nil {
		return err
	}
	d, err := encMode.Marshal(f)
	if err != nil {
		return fmt.Errorf("binary: marshal: %w", err)
	}
	if _, err := io.WriteString(w, Magic); err != nil {
		return err
	}
	if _, err := w.Write(d); err != nil {
		return err
	}
	c.log().Debug("wrote binary resource", "path", p.Path, "bytes", len(d)+len(Magic))
	return nil
}

// FromPlan converts a discovered graph to its binary form.
func FromPlan(p *resource.Plan) (*File, error) {
	f := &File{Version: Version, UID: p.Root.UID(), Type: p.Root.Class()}
	for _, e := range p.Externals() {
		f.Externals = append(f.Externals, External{ID: e.ID, Type: e.Type, Path: e.Path, UID: e.UID})
	}
	for _, e := range p.Embedded {
		props, err := properties(p, e.Props)
		if err != nil {
			return nil, err
		}
		f.Embedded = append(f.Embedded, Object{ID: e.ID, Class: e.Object.Class(), Props: props})
	}
	if p.Scene == nil {
		props, err := properties(p, p.RootProps)
		if err != nil {
			return nil, err
		}
		f.Main = &Object{ID: resource.MainID, Class: p.Root.Class(), Props: props}
		return f, nil
	}
	f.Scene = true
	if err := fromScene(f, p, p.Scene); err != nil {
		return nil, err
	}
	return f, nil
}

func fromScene(f *File, p *resource.Plan, sc *scene.Scene) error {
	for _, n := range sc.Nodes {
		props, err := properties(p, p.NodeProps(n))
		if err != nil {
			return err
		}
		bn := Node{
			Name:                n.Name,
			Type:                n.Type,
			Owner:               n.Owner,
			Index:               n.Index,
			Groups:              n.Groups,
			InstancePlaceholder: n.InstancePlaceholder,
			Props:               props,
		}
		if n.ParentNode != nil {
			bn.Parent = n.NodeRecord.Parent
		}
		if n.Instance != nil {
			r, err := ref(p, n.Instance)
			if err != nil {
				return err
			}
			bn.Instance = r
		}
		f.Nodes = append(f.Nodes, bn)
	}
	for _, c := range sc.Connections {
		bc := Connection{Signal: c.Signal, From: c.From, To: c.To, Method: c.Method, Flags: c.Flags}
		if c.Binds != nil {
			v, err := value(p, c.Binds)
			if err != nil {
				return err
			}
			bc.Binds = &v
		}
		f.Connections = append(f.Connections, bc)
	}
	f.Editables = sc.Editables
	return nil
}

func properties(p *resource.Plan, props []variant.Property) ([]Property, error) {
	res := make([]Property, 0, len(props))
	for i := range props {
		v, err := value(p, props[i].Value)
		if err != nil {
			return nil, fmt.Errorf("property %s: %w", props[i].Name, err)
		}
		res = append(res, Property{Name: props[i].Name, Value: v})
	}
	return res, nil
}

func ref(p *resource.Plan, o *variant.Object) (*Ref, error) {
	kind, id, err := p.Ref(o)
	if err != nil {
		return nil, err
	}
	return &Ref{External: kind == parse.ExternalRef, ID: id}, nil
}

func value(p *resource.Plan, v *variant.Value) (Value, error) {
	res := Value{Type: uint8(v.Type)}
	switch v.Type {
	case variant.NilType:
	case variant.BoolType:
		res.Bool = v.Bool
	case variant.IntType:
		res.Int = v.Int64
	case variant.FloatType:
		res.Float = v.Float64
	case variant.StringType, variant.StringNameType, variant.NodePathType:
		res.String = v.String
	case variant.CtorType, variant.ArrayType, variant.DictType:
		res.Name = v.Ctor
		if v.Type == variant.ArrayType {
			res.Name = v.ElemType
		}
		var err error
		if res.Keys, err = values(p, v.Keys); err != nil {
			return res, err
		}
		if res.Values, err = values(p, v.Values); err != nil {
			return res, err
		}
	case variant.ObjectType:
		if v.Object == nil {
			return res, nil
		}
		r, err := ref(p, v.Object)
		if err != nil {
			return res, err
		}
		res.Ref = r
	default:
		return res, fmt.Errorf("%w: %T has no binary form", format.ErrUnsupportedValue, v.Native)
	}
	return res, nil
}

func values(p *resource.Plan, vs []*variant.Value) ([]Value, error) {
	if len(vs) == 0 {
		return nil, nil
	}
	res := make([]Value, len(vs))
	for i, v := range vs {
		bv, err := value(p, v)
		if err != nil {
			return nil, err
		}
		res[i] = bv
	}
	return res, nil
}

// Read decodes a binary resource.
func Read(r io.Reader) (*File, error) {
	d, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if !bytes.HasPrefix(d, []byte(Magic)) {
		return nil, fmt.Errorf("%w: missing %s magic", format.ErrBadFormat, Magic)
	}
	f := &File{}
	if err := cbor.Unmarshal(d[len(Magic):], f); err != nil {
		return nil, fmt.Errorf("%w: binary: unmarshal: %v", format.ErrBadFormat, err)
	}
	if f.Version != Version {
		return nil, fmt.Errorf("%w: binary version %d", format.ErrBadFormat, f.Version)
	}
	return f, nil
}
