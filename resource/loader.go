package resource

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"

	"github.com/signadot/tres/debug"
	"github.com/signadot/tres/format"
	"github.com/signadot/tres/parse"
	"github.com/signadot/tres/reftable"
	"github.com/signadot/tres/scene"
	"github.com/signadot/tres/variant"
)

// MainID is the embedded id under which the main object of a file can be
// referenced from its embedded objects.
const MainID = "0"

type inflightKey struct{}

// inflight is the chain of files being loaded by one call to Load.
type inflight struct {
	path   string
	root   *variant.Object
	parent *inflight
}

func inflightRoot(ctx context.Context, path string) *variant.Object {
	f, _ := ctx.Value(inflightKey{}).(*inflight)
	for ; f != nil; f = f.parent {
		if f.path == path {
			return f.root
		}
	}
	return nil
}

type snapshot struct {
	o     *variant.Object
	props []variant.Property
	data  any
	path  string
	uid   string
}

type phase int

const (
	declPhase phase = iota
	mainPhase
)

type loader struct {
	s    *Store
	ctx  context.Context
	path string
	opts *loadOpts
	log  *slog.Logger

	st     *parse.Stream
	refs   *reftable.Table
	target *variant.Object
	root   *variant.Object
	uid    string

	isScene  bool
	asm      *scene.Assembler
	node     *scene.NodeRecord
	nodeLine int

	phase phase
	cur   *variant.Object

	created []*variant.Object
	reused  []snapshot
	subs    []*variant.Object
}

func (l *loader) run(r io.Reader) (*variant.Object, error) {
	l.st = parse.NewStream(r)
	stmt, err := l.st.Next(parse.SkipRefs)
	if err == io.EOF {
		return nil, format.Errorf(format.ErrUnrecognized, 0, "empty file")
	}
	if err != nil {
		return nil, &format.Error{Kind: format.ErrUnrecognized, Line: l.st.Line(), Msg: "not a text resource", Err: err}
	}
	if stmt.Tag == nil {
		return nil, format.Errorf(format.ErrUnrecognized, stmt.Line, "expected a header tag, got property %q", stmt.Key)
	}
	if err := l.header(stmt.Tag); err != nil {
		l.rollback()
		return nil, err
	}
	parent, _ := l.ctx.Value(inflightKey{}).(*inflight)
	l.ctx = context.WithValue(l.ctx, inflightKey{}, &inflight{path: l.path, root: l.root, parent: parent})
	if err := l.body(); err != nil {
		l.rollback()
		return nil, err
	}
	l.commit()
	return l.root, nil
}

func (l *loader) header(tag *parse.Tag) error {
	var class string
	switch tag.Name {
	case "gd_resource":
		t, ok := tag.String("type")
		if !ok || t == "" {
			return format.Errorf(format.ErrFormat, tag.Line, "gd_resource without type")
		}
		class = t
	case "gd_scene":
		l.isScene = true
		l.asm = scene.NewAssembler()
		class = scene.PackedSceneClass
	default:
		return format.Errorf(format.ErrUnrecognized, tag.Line, "unknown header tag %q", tag.Name)
	}
	if v := tag.Get("format"); v != nil {
		n, ok := tag.Int("format")
		if !ok || n < 1 || n > format.Version {
			return format.Errorf(format.ErrFormat, tag.Line, "unsupported format version %#v", v)
		}
	}
	if n, ok := tag.Int("load_steps"); ok {
		l.opts.progress.setCount(n)
	}
	l.uid, _ = tag.String("uid")
	root, err := l.instantiate(class, l.target, tag.Line)
	if err != nil {
		return err
	}
	root.SetPath(l.path)
	l.root = root
	return l.refs.DeclareEmbedded(MainID, root, tag.Line)
}

// instantiate returns reuse, emptied for reparsing, if it has the wanted
// class and a new object otherwise.
func (l *loader) instantiate(class string, reuse *variant.Object, line int) (*variant.Object, error) {
	if reuse != nil {
		if reuse.Class() == class {
			l.reused = append(l.reused, snapshot{
				o:     reuse,
				props: reuse.Snapshot(),
				data:  reuse.Data,
				path:  reuse.Path(),
				uid:   reuse.UID(),
			})
			reuse.Reset()
			return reuse, nil
		}
		l.log.Warn("class changed, replacing object", "path", reuse.Path(), "was", reuse.Class(), "now", class)
	}
	o, err := l.s.registry().Instantiate(class)
	if err != nil {
		return nil, format.Wrap(format.ErrFormat, line, err, "cannot instantiate %s", class)
	}
	l.created = append(l.created, o)
	return o, nil
}

func (l *loader) body() error {
	for {
		stmt, err := l.st.Next(l)
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		if stmt.Tag == nil {
			if err := l.assign(stmt); err != nil {
				return err
			}
			continue
		}
		if err := l.tag(stmt.Tag); err != nil {
			return err
		}
		l.opts.progress.step()
	}
	return l.finish()
}

func (l *loader) assign(stmt *parse.Statement) error {
	switch {
	case l.node != nil:
		l.node.Set(stmt.Key, stmt.Value)
	case l.cur != nil:
		l.cur.Set(stmt.Key, stmt.Value)
	default:
		return format.Errorf(format.ErrFormat, stmt.Line, "property %q outside of a resource or node", stmt.Key)
	}
	return nil
}

func (l *loader) tag(t *parse.Tag) error {
	switch t.Name {
	case "ext_resource", "sub_resource":
		if l.phase != declPhase {
			return format.Errorf(format.ErrFormat, t.Line, "%s after main content", t.Name)
		}
		if t.Name == "ext_resource" {
			return l.extResource(t)
		}
		return l.subResource(t)
	case "resource":
		if l.isScene {
			return format.Errorf(format.ErrFormat, t.Line, "[resource] in a scene file")
		}
		if l.phase == mainPhase {
			return format.Errorf(format.ErrFormat, t.Line, "duplicate [resource]")
		}
		l.phase = mainPhase
		l.cur = l.root
		return nil
	case "node", "connection", "editable":
		if !l.isScene {
			return format.Errorf(format.ErrFormat, t.Line, "[%s] in a resource file", t.Name)
		}
		if err := l.flushNode(); err != nil {
			return err
		}
		l.phase = mainPhase
		l.cur = nil
		switch t.Name {
		case "node":
			return l.nodeTag(t)
		case "connection":
			return l.connection(t)
		}
		p, ok := t.String("path")
		if !ok {
			return format.Errorf(format.ErrFormat, t.Line, "editable without path")
		}
		return l.asm.Editable(p, t.Line)
	}
	return format.Errorf(format.ErrFormat, t.Line, "unknown tag %q", t.Name)
}

func required(t *parse.Tag, key string) (string, error) {
	v, ok := t.String(key)
	if !ok {
		return "", format.Errorf(format.ErrFormat, t.Line, "%s without %s", t.Name, key)
	}
	return v, nil
}

func (l *loader) extResource(t *parse.Tag) error {
	p, err := required(t, "path")
	if err != nil {
		return err
	}
	typ, err := required(t, "type")
	if err != nil {
		return err
	}
	id, ok := t.ID("id")
	if !ok {
		return format.Errorf(format.ErrFormat, t.Line, "ext_resource without id")
	}
	uid, _ := t.String("uid")
	e := &reftable.External{ID: id, Path: l.depPath(p, uid), Type: typ, UID: uid}
	if err := l.refs.DeclareExternal(e, t.Line); err != nil {
		return err
	}
	l.cur = nil
	if l.opts.eager {
		if _, err := l.resolveExternal(e, t.Line); err != nil {
			return err
		}
	}
	return nil
}

// depPath returns the path of a dependency.  A known uid takes precedence
// over the written path.
func (l *loader) depPath(p, uid string) string {
	res := resolvePath(l.path, p)
	if uid == "" || l.s.UIDs == nil {
		return res
	}
	if up, ok := l.s.UIDs.Path(uid); ok {
		if up != res {
			l.log.Debug("dependency path from uid", "file", l.path, "uid", uid, "path", up, "written", res)
		}
		return up
	}
	l.log.Warn("unknown uid, using written path", "file", l.path, "uid", uid, "path", res)
	return res
}

func (l *loader) subResource(t *parse.Tag) error {
	typ, err := required(t, "type")
	if err != nil {
		return err
	}
	id, ok := t.ID("id")
	if !ok {
		return format.Errorf(format.ErrFormat, t.Line, "sub_resource without id")
	}
	bp := variant.BuiltInPath(l.path, id)
	var reuse *variant.Object
	if l.opts.mode == CacheReplaceDeep {
		reuse, _ = l.s.cache().Get(bp)
	}
	o, err := l.instantiate(typ, reuse, t.Line)
	if err != nil {
		return err
	}
	if err := l.refs.DeclareEmbedded(id, o, t.Line); err != nil {
		return err
	}
	if l.opts.mode != CacheIgnore {
		o.SetPath(bp)
		l.subs = append(l.subs, o)
	}
	l.cur = o
	return nil
}

func (l *loader) nodeTag(t *parse.Tag) error {
	name, err := required(t, "name")
	if err != nil {
		return err
	}
	rec := scene.NewRecord(name, "", "")
	rec.Type, _ = t.String("type")
	rec.Parent, _ = t.String("parent")
	rec.Owner, _ = t.String("owner")
	if v := t.Get("index"); v != nil {
		i, ok := t.Int("index")
		if !ok {
			s, _ := t.String("index")
			n, err := strconv.Atoi(s)
			if err != nil {
				return format.Errorf(format.ErrFormat, t.Line, "bad node index %#v", v)
			}
			i = int64(n)
		}
		rec.Index = int(i)
	}
	if v := t.Get("groups"); v != nil {
		if v.Type != variant.ArrayType {
			return format.Errorf(format.ErrFormat, t.Line, "node groups must be an array")
		}
		for _, g := range v.Values {
			switch g.Type {
			case variant.StringType, variant.StringNameType:
				rec.Groups = append(rec.Groups, g.String)
			default:
				return format.Errorf(format.ErrFormat, t.Line, "node group %#v is not a string", g)
			}
		}
	}
	if v := t.Get("instance"); v != nil {
		if v.Type != variant.ObjectType {
			return format.Errorf(format.ErrFormat, t.Line, "node instance must be an ExtResource")
		}
		rec.Instance = v.Object
	}
	rec.InstancePlaceholder, _ = t.String("instance_placeholder")
	l.node = rec
	l.nodeLine = t.Line
	return nil
}

func (l *loader) flushNode() error {
	if l.node == nil {
		return nil
	}
	rec := l.node
	l.node = nil
	return l.asm.Add(rec, l.nodeLine)
}

func (l *loader) connection(t *parse.Tag) error {
	c := &scene.Connection{}
	for _, f := range []struct {
		key string
		dst *string
	}{
		{"signal", &c.Signal},
		{"from", &c.From},
		{"to", &c.To},
		{"method", &c.Method},
	} {
		v, err := required(t, f.key)
		if err != nil {
			return err
		}
		*f.dst = v
	}
	c.Flags, _ = t.Int("flags")
	c.Binds = t.Get("binds")
	return l.asm.Connect(c, t.Line)
}

func (l *loader) finish() error {
	if l.isScene {
		if err := l.flushNode(); err != nil {
			return err
		}
		sc, err := l.asm.Finish(l.st.Line())
		if err != nil {
			return err
		}
		l.root.Data = sc
		return nil
	}
	if l.phase != mainPhase {
		return format.Errorf(format.ErrFormat, l.st.Line(), "missing [resource] tag")
	}
	return nil
}

// Resolve implements parse.RefResolver against the reference table of the
// file.
func (l *loader) Resolve(kind parse.RefKind, id string, line int) (*variant.Value, error) {
	if kind == parse.EmbeddedRef {
		o, ok := l.refs.Lookup(kind, id)
		if !ok {
			return nil, format.Errorf(format.ErrFormat, line, "SubResource %q used before its declaration", id)
		}
		return variant.FromObject(o), nil
	}
	e, ok := l.refs.External(id)
	if !ok {
		return nil, format.Errorf(format.ErrFormat, line, "undeclared ExtResource %q", id)
	}
	o, err := l.resolveExternal(e, line)
	if err != nil {
		return nil, err
	}
	return variant.FromObject(o), nil
}

func (l *loader) resolveExternal(e *reftable.External, line int) (*variant.Object, error) {
	if e.Object != nil {
		return e.Object, nil
	}
	var o *variant.Object
	if l.opts.placeholders {
		o = variant.New(e.Type)
		o.SetPath(e.Path)
		o.SetUID(e.UID)
	} else {
		dep, err := l.s.load(l.ctx, e.Path, l.opts.depOpts())
		if err != nil {
			return nil, &format.Error{
				Kind: format.ErrDependency,
				Line: line,
				Msg:  fmt.Sprintf("loading %s", e.Path),
				Err:  err,
			}
		}
		if e.Type != "" && dep.Class() != e.Type {
			l.log.Warn("dependency type mismatch", "file", l.path, "path", e.Path, "declared", e.Type, "loaded", dep.Class())
		}
		o = dep
	}
	l.refs.Bind(e.ID, o)
	if l.opts.touched != nil {
		*l.opts.touched = append(*l.opts.touched, e.Path)
	}
	if debug.Load() {
		debug.Logf("load %s: resolved ExtResource(%q) -> %s", l.path, e.ID, o)
	}
	return o, nil
}

// rollback discards the objects of a failed load.  Reused objects get their
// previous properties back.
func (l *loader) rollback() {
	for _, o := range l.created {
		o.Release()
	}
	for i := len(l.reused) - 1; i >= 0; i-- {
		s := &l.reused[i]
		s.o.Restore(s.props)
		s.o.Data = s.data
		s.o.SetPath(s.path)
		s.o.SetUID(s.uid)
	}
	if debug.Load() {
		debug.Logf("load %s: rolled back %d new, %d reused objects", l.path, len(l.created), len(l.reused))
	}
}

func (l *loader) commit() {
	if l.uid != "" {
		l.root.SetUID(l.uid)
		if reg, ok := l.s.UIDs.(UIDRegistry); ok {
			reg.Register(l.uid, l.path)
		}
	}
	cache := l.s.cache()
	for _, o := range l.subs {
		switch l.opts.mode {
		case CacheReuse:
			cache.Put(o.Path(), o)
		case CacheReplace, CacheReplaceDeep:
			cache.Replace(o.Path(), o)
		}
	}
	if debug.Load() {
		debug.Logf("load %s: %d external, %d embedded", l.path, l.refs.Len(parse.ExternalRef), l.refs.Len(parse.EmbeddedRef)-1)
	}
}
