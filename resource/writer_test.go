package resource

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/signadot/tres/format"
	"github.com/signadot/tres/scene"
	"github.com/signadot/tres/variant"
)

const enemyScene = `[gd_scene format=3]

[node name="Enemy" type="Area2D"]
`

const mainScene = `[gd_scene load_steps=3 format=3]

[ext_resource type="PackedScene" path="res://enemy.tscn" id="1"]

[sub_resource type="RectangleShape2D" id="1"]
size = Vector2(4.0, 8.0)

[node name="Main" type="Node2D"]

[node name="Body" type="StaticBody2D" parent="." groups=["solid"]]
position = Vector2(1.0, 2.0)

[node name="Shape" type="CollisionShape2D" parent="Body"]
shape = SubResource("1")

[node name="Enemy" parent="." instance=ExtResource("1")]

[connection signal="body_entered" from="Body" to="." method="_on_body_entered"]
`

const themeGolden = `[gd_resource type="Theme" load_steps=4 format=3]

[ext_resource type="Texture2D" path="res://tex.tres" id="1"]

[sub_resource type="Curve" id="1"]
points = [1.0, 2.0]

[sub_resource type="StyleBox" id="2"]
curve = SubResource("1")
texture = ExtResource("1")

[resource]
name = "main"
box = SubResource("2")
other = SubResource("2")
`

// themeGraph builds a theme sharing one style box, which references an
// external texture and an embedded curve.
func themeGraph(t *testing.T, s *Store) *variant.Object {
	t.Helper()
	tex, err := s.Load(context.Background(), "res://tex.tres")
	if err != nil {
		t.Fatal(err)
	}
	curve := variant.New("Curve")
	curve.Set("points", variant.FromSlice([]*variant.Value{variant.FromFloat(1), variant.FromFloat(2)}))
	box := variant.New("StyleBox")
	box.Set("curve", variant.FromObject(curve))
	box.Set("texture", variant.FromObject(tex))
	root := variant.New("Theme")
	root.Set("name", variant.FromString("main"))
	root.Set("box", variant.FromObject(box))
	root.Set("other", variant.FromObject(box))
	return root
}

func readFile(t *testing.T, fsys *MemFS, p string) string {
	t.Helper()
	d, err := fsys.ReadFile(p)
	if err != nil {
		t.Fatal(err)
	}
	return string(d)
}

func TestSaveGolden(t *testing.T) {
	s, fsys := newTestStore(t)
	fsys.WriteFile("res://tex.tres", []byte(texFile))
	root := themeGraph(t, s)
	if err := s.Save("res://theme.tres", root, SaveFlags{}); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(themeGolden, readFile(t, fsys, "res://theme.tres")); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestRoundTripAndIdempotence(t *testing.T) {
	ctx := context.Background()
	s, fsys := newTestStore(t)
	fsys.WriteFile("res://tex.tres", []byte(texFile))
	root := themeGraph(t, s)
	root.Set("dict", variant.FromKeyVals([]variant.KeyVal{
		{Key: variant.FromString("box"), Val: mustGet(t, root, "box")},
		{Key: variant.FromInt(2), Val: variant.Ctor("Color", variant.FromFloat(1), variant.FromFloat(0.5), variant.FromFloat(0), variant.FromFloat(1))},
	}))
	root.Set("names", variant.FromTypedSlice("StringName", []*variant.Value{variant.FromStringName("a")}))
	root.Set("path", variant.FromNodePath("../x"))
	root.Set("nothing", variant.FromObject(nil))
	if err := s.Save("res://theme.tres", root, SaveFlags{}); err != nil {
		t.Fatal(err)
	}
	first := readFile(t, fsys, "res://theme.tres")

	loaded, err := s.Load(ctx, "res://theme.tres")
	if err != nil {
		t.Fatal(err)
	}
	if loaded == root {
		t.Fatalf("load returned the saved object")
	}
	if !variant.EqualObjects(root, loaded) {
		t.Errorf("loaded graph differs from saved graph")
	}
	if mustGet(t, loaded, "box").Object != mustGet(t, loaded, "dict").Lookup("box").Object {
		t.Errorf("shared object was duplicated")
	}
	if err := s.Save("res://theme.tres", loaded, SaveFlags{}); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(first, readFile(t, fsys, "res://theme.tres")); diff != "" {
		t.Errorf("second save differs (-first +second):\n%s", diff)
	}
}

func TestSceneRoundTrip(t *testing.T) {
	s, fsys := newTestStore(t)
	fsys.WriteFile("res://enemy.tscn", []byte(enemyScene))
	fsys.WriteFile("res://main.tscn", []byte(mainScene))
	root, err := s.Load(context.Background(), "res://main.tscn")
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Save("res://main.tscn", root, SaveFlags{}); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(mainScene, readFile(t, fsys, "res://main.tscn")); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestBuiltSceneSave(t *testing.T) {
	s, fsys := newTestStore(t)
	root := scene.NewRecord("Root", "Node", "")
	child := scene.NewRecord("Label", "Label", ".").Set("text", variant.FromString("hi"))
	child.Owner = "."
	child.Index = 0
	sc, err := scene.Build(root, child)
	if err != nil {
		t.Fatal(err)
	}
	sc.Connections = append(sc.Connections, &scene.Connection{
		Signal: "ready", From: ".", To: "Label", Method: "show", Flags: 3,
		Binds: variant.FromSlice([]*variant.Value{variant.FromInt(1)}),
	})
	sc.Editables = append(sc.Editables, "Label")
	if err := s.Save("res://built.tscn", scene.NewPacked(sc), SaveFlags{}); err != nil {
		t.Fatal(err)
	}
	want := `[gd_scene format=3]

[node name="Root" type="Node"]

[node name="Label" type="Label" parent="." owner="." index="0"]
text = "hi"

[connection signal="ready" from="." to="Label" method="show" flags=3 binds=[1]]

[editable path="Label"]
`
	if diff := cmp.Diff(want, readFile(t, fsys, "res://built.tscn")); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
	o, err := s.Load(context.Background(), "res://built.tscn")
	if err != nil {
		t.Fatal(err)
	}
	back, _ := scene.FromObject(o)
	if n := back.Find("Label"); n == nil || n.Index != 0 || n.Owner != "." {
		t.Errorf("label %+v", n)
	}
	if c := back.Connections[0]; c.Flags != 3 || len(c.Binds.Values) != 1 {
		t.Errorf("connection %+v", c)
	}
}

func TestCycleSafety(t *testing.T) {
	s, fsys := newTestStore(t)
	a := variant.New("Theme")
	b := variant.New("StyleBox")
	a.Set("b", variant.FromObject(b))
	b.Set("a", variant.FromObject(a))
	b.Set("self", variant.FromObject(b))
	if err := s.Save("res://cycle.tres", a, SaveFlags{}); err != nil {
		t.Fatal(err)
	}
	want := `[gd_resource type="Theme" load_steps=2 format=3]

[sub_resource type="StyleBox" id="1"]
a = SubResource("0")
self = SubResource("1")

[resource]
b = SubResource("1")
`
	if diff := cmp.Diff(want, readFile(t, fsys, "res://cycle.tres")); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
	la, err := s.Load(context.Background(), "res://cycle.tres")
	if err != nil {
		t.Fatal(err)
	}
	lb := mustGet(t, la, "b").Object
	if mustGet(t, lb, "a").Object != la || mustGet(t, lb, "self").Object != lb {
		t.Errorf("cycle identity lost")
	}
}

func TestCrossFileCycleSave(t *testing.T) {
	s, fsys := newTestStore(t)
	a := variant.New("A")
	a.SetPath("res://a.tres")
	b := variant.New("B")
	b.SetPath("res://b.tres")
	a.Set("b", variant.FromObject(b))
	b.Set("a", variant.FromObject(a))
	if err := s.Save("res://a.tres", a, SaveFlags{}); err != nil {
		t.Fatal(err)
	}
	if err := s.Save("res://b.tres", b, SaveFlags{}); err != nil {
		t.Fatal(err)
	}
	fresh := NewStore(fsys)
	fresh.Log = s.Log
	la, err := fresh.Load(context.Background(), "res://a.tres")
	if err != nil {
		t.Fatal(err)
	}
	lb := mustGet(t, la, "b").Object
	if mustGet(t, lb, "a").Object != la {
		t.Errorf("cross file cycle not restored")
	}
}

func TestEmbeddedCycleRejected(t *testing.T) {
	s, fsys := newTestStore(t)
	fsys.WriteFile("res://r.tres", []byte("previous"))
	r := variant.New("R")
	x := variant.New("X")
	y := variant.New("Y")
	r.Set("x", variant.FromObject(x))
	x.Set("y", variant.FromObject(y))
	y.Set("x", variant.FromObject(x))
	err := s.Save("res://r.tres", r, SaveFlags{})
	if !errors.Is(err, format.ErrUnsupportedValue) {
		t.Fatalf("got %v", err)
	}
	if got := readFile(t, fsys, "res://r.tres"); got != "previous" {
		t.Errorf("failed save changed the file: %q", got)
	}
}

func TestUnsupportedValue(t *testing.T) {
	s, fsys := newTestStore(t)
	r := variant.New("R")
	sub := variant.New("S")
	sub.Set("native", variant.FromNative(make(chan int)))
	r.Set("sub", variant.FromObject(sub))
	err := s.Save("res://u.tres", r, SaveFlags{})
	if !errors.Is(err, format.ErrUnsupportedValue) {
		t.Fatalf("got %v", err)
	}
	if len(fsys.Paths()) != 0 {
		t.Errorf("failed save wrote %v", fsys.Paths())
	}
}

func TestNonPersistentProperty(t *testing.T) {
	s, _ := newTestStore(t)
	root := variant.New("Material")
	n := 0
	root.SetComputed("generated", variant.UsageNotPersistent, func() *variant.Value {
		n++
		g := variant.New("Gradient")
		g.SetPath("res://gen.tres")
		g.Set("n", variant.FromInt(int64(n)))
		return variant.FromObject(g)
	})
	buf := &bytes.Buffer{}
	if err := s.Encode(buf, "res://m.tres", root, SaveFlags{}); err != nil {
		t.Fatal(err)
	}
	want := `[gd_resource type="Material" load_steps=2 format=3]

[sub_resource type="Gradient" id="1"]
n = 1

[resource]
generated = SubResource("1")
`
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
	p, err := NewPlan("res://m.tres", root, SaveFlags{})
	if err != nil {
		t.Fatal(err)
	}
	g := p.NonPersistent[NonPersistentKey{Owner: root, Prop: "generated"}]
	if g == nil || len(p.Embedded) != 1 || p.Embedded[0].Object != g {
		t.Errorf("non-persistent object not embedded by key")
	}
}

func TestNonPersistentObjectStaysEmbedded(t *testing.T) {
	s, _ := newTestStore(t)
	tex := variant.New("Texture2D")
	tex.SetPath("res://tex.tres")
	tex.Set("n", variant.FromInt(1))
	root := variant.New("Material")
	root.Set("tex", variant.FromObject(tex))
	root.SetComputed("generated", variant.UsageNotPersistent, func() *variant.Value {
		return variant.FromObject(tex)
	})
	buf := &bytes.Buffer{}
	if err := s.Encode(buf, "res://m.tres", root, SaveFlags{}); err != nil {
		t.Fatal(err)
	}
	want := `[gd_resource type="Material" load_steps=2 format=3]

[sub_resource type="Texture2D" id="1"]
n = 1

[resource]
tex = SubResource("1")
generated = SubResource("1")
`
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
	p, err := NewPlan("res://m.tres", root, SaveFlags{})
	if err != nil {
		t.Fatal(err)
	}
	if n := len(p.Externals()); n != 0 {
		t.Errorf("got %d externals, want 0", n)
	}
}

func TestSaveFlags(t *testing.T) {
	ctx := context.Background()
	s, fsys := newTestStore(t)
	fsys.WriteFile("res://dir/tex.tres", []byte(texFile))
	tex, err := s.Load(ctx, "res://dir/tex.tres")
	if err != nil {
		t.Fatal(err)
	}
	build := func() *variant.Object {
		root := variant.New("Theme")
		root.Set("editor", variant.FromInt(1))
		root.SetUsage("editor", variant.UsageEditorOnly)
		root.Set("hidden", variant.FromInt(2))
		root.SetUsage("hidden", variant.UsageNoStorage)
		root.Set("tex", variant.FromObject(tex))
		box := variant.New("StyleBox")
		root.Set("box", variant.FromObject(box))
		return root
	}
	encode := func(flags SaveFlags) string {
		buf := &bytes.Buffer{}
		if err := s.Encode(buf, "res://dir/theme.tres", build(), flags); err != nil {
			t.Fatal(err)
		}
		return buf.String()
	}

	plain := encode(SaveFlags{})
	if !strings.Contains(plain, "editor = 1") || strings.Contains(plain, "hidden") {
		t.Errorf("plain:\n%s", plain)
	}
	if !strings.Contains(plain, `path="res://dir/tex.tres"`) {
		t.Errorf("plain:\n%s", plain)
	}
	if got := encode(SaveFlags{SkipEditorOnly: true}); strings.Contains(got, "editor") {
		t.Errorf("skip editor:\n%s", got)
	}
	if got := encode(SaveFlags{RelativePaths: true}); !strings.Contains(got, `path="tex.tres"`) {
		t.Errorf("relative:\n%s", got)
	}
	bundled := encode(SaveFlags{BundleResources: true})
	if strings.Contains(bundled, "ext_resource") || !strings.Contains(bundled, `[sub_resource type="Texture2D"`) {
		t.Errorf("bundle:\n%s", bundled)
	}

	root := build()
	if err := s.Save("res://dir/theme.tres", root, SaveFlags{RelativePaths: true, TakeoverPaths: true}); err != nil {
		t.Fatal(err)
	}
	if root.Path() != "res://dir/theme.tres" {
		t.Errorf("root path %q", root.Path())
	}
	if p := mustGet(t, root, "box").Object.Path(); p != "res://dir/theme.tres::1" {
		t.Errorf("box path %q", p)
	}
	if o, _ := s.Cache.Get("res://dir/theme.tres"); o != root {
		t.Errorf("taken over root not cached")
	}
	fresh := NewStore(fsys)
	fresh.Log = s.Log
	loaded, err := fresh.Load(ctx, "res://dir/theme.tres")
	if err != nil {
		t.Fatal(err)
	}
	if p := mustGet(t, loaded, "tex").Object.Path(); p != "res://dir/tex.tres" {
		t.Errorf("relative dependency resolved to %q", p)
	}
}

func TestEmbeddedNaturalOrder(t *testing.T) {
	s, fsys := newTestStore(t)
	root := variant.New("R")
	for i := range 12 {
		o := variant.New("S")
		o.Set("i", variant.FromInt(int64(i)))
		root.Set(fmt.Sprintf("p%d", i), variant.FromObject(o))
	}
	if err := s.Save("res://many.tres", root, SaveFlags{}); err != nil {
		t.Fatal(err)
	}
	out := readFile(t, fsys, "res://many.tres")
	last := -1
	for i := 1; i <= 12; i++ {
		at := strings.Index(out, fmt.Sprintf(`[sub_resource type="S" id="%d"]`, i))
		if at < 0 || at < last {
			t.Fatalf("id %d out of order in:\n%s", i, out)
		}
		last = at
	}
	loaded, err := s.Load(context.Background(), "res://many.tres")
	if err != nil {
		t.Fatal(err)
	}
	if !variant.EqualObjects(root, loaded) {
		t.Errorf("many embedded objects did not round trip")
	}
}

func TestSaveUIDs(t *testing.T) {
	s, fsys := newTestStore(t)
	uids := NewUIDs()
	uids.Register("uid://tex", "res://tex.tres")
	s.UIDs = uids
	fsys.WriteFile("res://tex.tres", []byte(texFile))
	root := themeGraph(t, s)
	if err := s.Save("res://theme.tres", root, SaveFlags{}, WithUIDs()); err != nil {
		t.Fatal(err)
	}
	if !IsUID(root.UID()) {
		t.Fatalf("no uid minted: %q", root.UID())
	}
	if p, ok := uids.Path(root.UID()); !ok || p != "res://theme.tres" {
		t.Errorf("minted uid maps to %q", p)
	}
	out := readFile(t, fsys, "res://theme.tres")
	header := fmt.Sprintf(`[gd_resource type="Theme" load_steps=4 format=3 uid=%q]`, root.UID())
	if !strings.HasPrefix(out, header+"\n") {
		t.Errorf("header:\n%s", out)
	}
	if !strings.Contains(out, `[ext_resource type="Texture2D" uid="uid://tex" path="res://tex.tres" id="1"]`) {
		t.Errorf("ext_resource:\n%s", out)
	}
}

func TestFailedSaveMintsNoUID(t *testing.T) {
	s, fsys := newTestStore(t)
	uids := NewUIDs()
	s.UIDs = uids
	root := variant.New("Theme")
	root.Set("native", variant.FromNative(make(chan int)))
	err := s.Save("res://theme.tres", root, SaveFlags{}, WithUIDs())
	if !errors.Is(err, format.ErrUnsupportedValue) {
		t.Fatalf("got %v", err)
	}
	if root.UID() != "" {
		t.Errorf("failed save left uid %q on the root", root.UID())
	}
	if got := uids.All(); len(got) != 0 {
		t.Errorf("failed save registered %v", got)
	}
	if len(fsys.Paths()) != 0 {
		t.Errorf("failed save wrote %v", fsys.Paths())
	}
}
