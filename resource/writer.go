package resource

import (
	"io"
	"strconv"

	"github.com/signadot/tres/encode"
	"github.com/signadot/tres/format"
	"github.com/signadot/tres/parse"
	"github.com/signadot/tres/scene"
	"github.com/signadot/tres/variant"
)

type writer struct {
	w    io.Writer
	p    *Plan
	uids UIDResolver
	opts []encode.EncodeOption
}

func (w *writer) raw(s string) error {
	_, err := io.WriteString(w.w, s)
	return err
}

func (w *writer) tag(t *parse.Tag) error {
	if err := encode.EncodeTag(w.w, t, w.p, w.opts...); err != nil {
		return err
	}
	return w.raw("\n")
}

func (w *writer) section(t *parse.Tag, props []variant.Property) error {
	if err := w.raw("\n"); err != nil {
		return err
	}
	if err := w.tag(t); err != nil {
		return err
	}
	for i := range props {
		if err := encode.EncodeProperty(w.w, props[i].Name, props[i].Value, w.p, w.opts...); err != nil {
			return err
		}
	}
	return nil
}

func (w *writer) write() error {
	if err := w.header(); err != nil {
		return err
	}
	if err := w.externals(); err != nil {
		return err
	}
	for _, e := range w.p.Embedded {
		t := parse.NewTag("sub_resource").
			SetString("type", e.Object.Class()).
			SetString("id", e.ID)
		if err := w.section(t, e.Props); err != nil {
			return err
		}
	}
	if w.p.Scene != nil {
		return w.scene(w.p.Scene)
	}
	return w.section(parse.NewTag("resource"), w.p.RootProps)
}

func (w *writer) header() error {
	var t *parse.Tag
	if w.p.Scene != nil {
		t = parse.NewTag("gd_scene")
	} else {
		t = parse.NewTag("gd_resource").SetString("type", w.p.Root.Class())
	}
	if n := w.p.LoadSteps(); n > 1 {
		t.Set("load_steps", variant.FromInt(int64(n)))
	}
	t.Set("format", variant.FromInt(format.Version))
	if uid := w.p.Root.UID(); uid != "" {
		t.SetString("uid", uid)
	}
	return w.tag(t)
}

func (w *writer) externals() error {
	exts := w.p.Externals()
	if len(exts) == 0 {
		return nil
	}
	if err := w.raw("\n"); err != nil {
		return err
	}
	for _, e := range exts {
		t := parse.NewTag("ext_resource").SetString("type", e.Type)
		uid := e.UID
		if uid == "" && w.uids != nil {
			uid, _ = w.uids.UID(e.Path)
		}
		if uid != "" {
			t.SetString("uid", uid)
		}
		p := e.Path
		if w.p.Flags.RelativePaths {
			p = relativePath(w.p.Path, p)
		}
		t.SetString("path", p).SetString("id", e.ID)
		if err := w.tag(t); err != nil {
			return err
		}
	}
	return nil
}

func (w *writer) scene(sc *scene.Scene) error {
	for _, n := range sc.Nodes {
		t := parse.NewTag("node").SetString("name", n.Name)
		if n.Type != "" {
			t.SetString("type", n.Type)
		}
		if n.ParentNode != nil {
			t.SetString("parent", n.NodeRecord.Parent)
		}
		if n.Owner != "" {
			t.SetString("owner", n.Owner)
		}
		if n.Index >= 0 {
			t.SetString("index", strconv.Itoa(n.Index))
		}
		if len(n.Groups) > 0 {
			t.Set("groups", variant.FromStrings(n.Groups...))
		}
		if n.InstancePlaceholder != "" {
			t.SetString("instance_placeholder", n.InstancePlaceholder)
		}
		if n.Instance != nil {
			t.Set("instance", variant.FromObject(n.Instance))
		}
		if err := w.section(t, w.p.NodeProps(n)); err != nil {
			return err
		}
	}
	for _, c := range sc.Connections {
		t := parse.NewTag("connection").
			SetString("signal", c.Signal).
			SetString("from", c.From).
			SetString("to", c.To).
			SetString("method", c.Method)
		if c.Flags != 0 {
			t.Set("flags", variant.FromInt(c.Flags))
		}
		if c.Binds != nil && !(c.Binds.Type == variant.ArrayType && len(c.Binds.Values) == 0) {
			t.Set("binds", c.Binds)
		}
		if err := w.section(t, nil); err != nil {
			return err
		}
	}
	for _, e := range sc.Editables {
		if err := w.section(parse.NewTag("editable").SetString("path", e), nil); err != nil {
			return err
		}
	}
	return nil
}
