package scene

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/signadot/tres/format"
	"github.com/signadot/tres/variant"
)

func TestBuildTree(t *testing.T) {
	s, err := Build(
		NewRecord("Main", "Node2D", ""),
		NewRecord("Player", "CharacterBody2D", "."),
		NewRecord("Sprite", "Sprite2D", "Player"),
		NewRecord("Shape", "CollisionShape2D", "Player"),
		NewRecord("HUD", "CanvasLayer", "."),
	)
	if err != nil {
		t.Fatal(err)
	}
	var paths []string
	for _, n := range s.Nodes {
		paths = append(paths, n.Path())
	}
	want := []string{".", "Player", "Player/Sprite", "Player/Shape", "HUD"}
	if diff := cmp.Diff(want, paths); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
	player := s.Root.Child("Player")
	if player == nil || len(player.Children) != 2 || player.ParentNode != s.Root {
		t.Fatalf("bad player node %+v", player)
	}
	if s.Find("Player/Shape") != player.Children[1] {
		t.Errorf("Find did not return the shape node")
	}
}

func TestIndexHint(t *testing.T) {
	c := NewRecord("C", "Node", ".")
	c.Index = 0
	s, err := Build(
		NewRecord("Root", "Node", ""),
		NewRecord("A", "Node", "."),
		NewRecord("B", "Node", "."),
		c,
	)
	if err != nil {
		t.Fatal(err)
	}
	var names []string
	for _, n := range s.Root.Children {
		names = append(names, n.Name)
	}
	if diff := cmp.Diff([]string{"C", "A", "B"}, names); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
	if s.Nodes[3].Name != "C" {
		t.Errorf("declaration order changed")
	}
}

func TestStructureErrors(t *testing.T) {
	owned := NewRecord("X", "Node", ".")
	owned.Owner = "Nowhere"
	tests := []struct {
		name string
		recs []*NodeRecord
		msg  string
	}{
		{
			name: "missing parent",
			recs: []*NodeRecord{NewRecord("Root", "Node", ""), NewRecord("X", "Node", "A/B")},
			msg:  "missing parent",
		},
		{
			name: "root twice",
			recs: []*NodeRecord{NewRecord("Root", "Node", ""), NewRecord("Other", "Node", "")},
			msg:  "root declared twice",
		},
		{
			name: "child before root",
			recs: []*NodeRecord{NewRecord("X", "Node", ".")},
			msg:  "no root",
		},
		{
			name: "empty",
			msg:  "empty scene",
		},
		{
			name: "missing owner",
			recs: []*NodeRecord{NewRecord("Root", "Node", ""), owned},
			msg:  "missing owner",
		},
		{
			name: "duplicate",
			recs: []*NodeRecord{NewRecord("Root", "Node", ""), NewRecord("A", "Node", "."), NewRecord("A", "Node", ".")},
			msg:  "duplicate node",
		},
	}
	for _, tt := range tests {
		_, err := Build(tt.recs...)
		if !errors.Is(err, format.ErrStructure) {
			t.Errorf("%s: got %v", tt.name, err)
			continue
		}
		if !strings.Contains(err.Error(), tt.msg) {
			t.Errorf("%s: %q does not mention %q", tt.name, err, tt.msg)
		}
	}
}

func TestConnectionsAndEditables(t *testing.T) {
	a := NewAssembler()
	if err := a.Add(NewRecord("Root", "Node", ""), 1); err != nil {
		t.Fatal(err)
	}
	if err := a.Add(NewRecord("Button", "Button", "."), 2); err != nil {
		t.Fatal(err)
	}
	if err := a.Connect(&Connection{Signal: "pressed", From: "Button", To: ".", Method: "_on_pressed"}, 3); err != nil {
		t.Fatal(err)
	}
	err := a.Connect(&Connection{Signal: "pressed", From: "Ghost", To: ".", Method: "x"}, 4)
	if !errors.Is(err, format.ErrStructure) {
		t.Errorf("unknown endpoint: got %v", err)
	}
	if err := a.Editable("Button", 5); err != nil {
		t.Fatal(err)
	}
	s, err := a.Finish(6)
	if err != nil {
		t.Fatal(err)
	}
	if len(s.Connections) != 1 || len(s.Editables) != 1 {
		t.Errorf("got %d connections, %d editables", len(s.Connections), len(s.Editables))
	}
	if a.State() != Done {
		t.Errorf("state %s", a.State())
	}
	if err := a.Add(NewRecord("Late", "Node", "."), 7); !errors.Is(err, format.ErrStructure) {
		t.Errorf("add after done: got %v", err)
	}
}

func TestValuesAndPacked(t *testing.T) {
	tex := variant.New("Texture2D")
	inst := NewPacked(&Scene{})
	child := NewRecord("Enemy", "", ".")
	child.Instance = inst
	root := NewRecord("Root", "Node2D", "").Set("texture", variant.FromObject(tex))
	s, err := Build(root, child)
	if err != nil {
		t.Fatal(err)
	}
	var objs []*variant.Object
	err = s.Values(func(v *variant.Value) error {
		return v.Walk(func(v *variant.Value) error {
			if v.Type == variant.ObjectType {
				objs = append(objs, v.Object)
			}
			return nil
		})
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(objs) != 2 || objs[0] != tex || objs[1] != inst {
		t.Errorf("got %v", objs)
	}
	p := NewPacked(s)
	got, ok := FromObject(p)
	if !ok || got != s {
		t.Errorf("FromObject did not return the scene")
	}
	if _, ok := FromObject(variant.New("Resource")); ok {
		t.Errorf("plain resource taken as scene")
	}
}
