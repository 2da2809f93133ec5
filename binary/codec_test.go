package binary

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/signadot/tres/format"
	"github.com/signadot/tres/resource"
	"github.com/signadot/tres/variant"
)

func newStore() (*resource.Store, *resource.MemFS) {
	fsys := resource.NewMemFS()
	s := resource.NewStore(fsys)
	s.Log = slog.New(slog.NewTextHandler(io.Discard, nil))
	s.Binary = &Codec{Log: s.Log}
	return s, fsys
}

func readBinary(t *testing.T, fsys *resource.MemFS, path string) *File {
	t.Helper()
	d, err := fsys.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	f, err := Read(bytes.NewReader(d))
	if err != nil {
		t.Fatal(err)
	}
	return f
}

func TestSaveResource(t *testing.T) {
	s, fsys := newStore()
	tex := variant.New("Texture2D")
	tex.SetPath("res://tex.tres")
	box := variant.New("StyleBox")
	box.Set("texture", variant.FromObject(tex))
	box.Set("color", variant.Floats("Color", 1, 0, 0, 1))
	root := variant.New("Theme")
	root.Set("box", variant.FromObject(box))
	root.Set("names", variant.FromTypedSlice("StringName", []*variant.Value{variant.FromStringName("a")}))
	root.Set("none", variant.FromObject(nil))
	if err := s.Save("res://theme.res", root, resource.SaveFlags{}); err != nil {
		t.Fatal(err)
	}
	got := readBinary(t, fsys, "res://theme.res")
	want := &File{
		Version:   Version,
		Type:      "Theme",
		Externals: []External{{ID: "1", Type: "Texture2D", Path: "res://tex.tres"}},
		Embedded: []Object{{ID: "1", Class: "StyleBox", Props: []Property{
			{Name: "texture", Value: Value{Type: uint8(variant.ObjectType), Ref: &Ref{External: true, ID: "1"}}},
			{Name: "color", Value: Value{Type: uint8(variant.CtorType), Name: "Color", Values: []Value{
				{Type: uint8(variant.FloatType), Float: 1},
				{Type: uint8(variant.FloatType)},
				{Type: uint8(variant.FloatType)},
				{Type: uint8(variant.FloatType), Float: 1},
			}}},
		}}},
		Main: &Object{ID: "0", Class: "Theme", Props: []Property{
			{Name: "box", Value: Value{Type: uint8(variant.ObjectType), Ref: &Ref{ID: "1"}}},
			{Name: "names", Value: Value{Type: uint8(variant.ArrayType), Name: "StringName", Values: []Value{
				{Type: uint8(variant.StringNameType), String: "a"},
			}}},
			{Name: "none", Value: Value{Type: uint8(variant.ObjectType)}},
		}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestDeterministic(t *testing.T) {
	s, _ := newStore()
	root := variant.New("Curve")
	root.Set("points", variant.FromKeyVals([]variant.KeyVal{
		{Key: variant.FromString("b"), Val: variant.FromInt(2)},
		{Key: variant.FromString("a"), Val: variant.FromInt(1)},
	}))
	p, err := resource.NewPlan("res://c.res", root, resource.SaveFlags{})
	if err != nil {
		t.Fatal(err)
	}
	var a, b bytes.Buffer
	c := &Codec{Log: s.Log}
	if err := c.WriteBinary(&a, p); err != nil {
		t.Fatal(err)
	}
	if err := c.WriteBinary(&b, p); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(a.Bytes(), b.Bytes()) {
		t.Error("encodings differ")
	}
	if !bytes.HasPrefix(a.Bytes(), []byte(Magic)) {
		t.Error("missing magic")
	}
}

const enemy = `[gd_scene format=3]

[node name="Enemy" type="Area2D"]
`

const level = `[gd_scene load_steps=2 format=3]

[ext_resource type="PackedScene" path="res://enemy.tscn" id="1"]

[node name="Level" type="Node2D"]

[node name="Enemy" parent="." index="0" instance=ExtResource("1")]
position = Vector2(3, 4)

[connection signal="died" from="Enemy" to="." method="_on_died" binds=[1]]

[editable path="Enemy"]
`

func TestConvertScene(t *testing.T) {
	s, fsys := newStore()
	fsys.WriteFile("res://enemy.tscn", []byte(enemy))
	fsys.WriteFile("res://level.tscn", []byte(level))
	if err := s.ConvertToBinary(context.Background(), "res://level.tscn", "res://level.scn"); err != nil {
		t.Fatal(err)
	}
	got := readBinary(t, fsys, "res://level.scn")
	want := &File{
		Version:   Version,
		Type:      "PackedScene",
		Scene:     true,
		Externals: []External{{ID: "1", Type: "PackedScene", Path: "res://enemy.tscn"}},
		Nodes: []Node{
			{Name: "Level", Type: "Node2D", Index: -1},
			{Name: "Enemy", Parent: ".", Index: 0, Instance: &Ref{External: true, ID: "1"}, Props: []Property{
				{Name: "position", Value: Value{Type: uint8(variant.CtorType), Name: "Vector2", Values: []Value{
					{Type: uint8(variant.IntType), Int: 3},
					{Type: uint8(variant.IntType), Int: 4},
				}}},
			}},
		},
		Connections: []Connection{{Signal: "died", From: "Enemy", To: ".", Method: "_on_died",
			Binds: &Value{Type: uint8(variant.ArrayType), Values: []Value{{Type: uint8(variant.IntType), Int: 1}}}}},
		Editables: []string{"Enemy"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
	if paths := s.Cache.Paths(); len(paths) != 0 {
		t.Errorf("conversion cached %v", paths)
	}
}

func TestReadErrors(t *testing.T) {
	tests := []struct {
		name string
		in   []byte
	}{
		{"empty", nil},
		{"magic", []byte("RSRC")},
		{"cbor", []byte(Magic + "\xff\xff")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Read(bytes.NewReader(tt.in)); !errors.Is(err, format.ErrBadFormat) {
				t.Errorf("got %v", err)
			}
		})
	}
}
