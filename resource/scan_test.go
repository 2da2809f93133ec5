package resource

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/signadot/tres/format"
)

func TestRecognizeType(t *testing.T) {
	s, fsys := newTestStore(t)
	fsys.WriteFile("res://tex.tres", []byte(texFile))
	fsys.WriteFile("res://enemy.tscn", []byte(enemyScene))
	fsys.WriteFile("res://junk.tres", []byte("hello = 1\n"))
	fsys.WriteFile("res://empty.tres", nil)
	tests := []struct {
		path    string
		want    string
		wantErr error
	}{
		{"res://tex.tres", "Texture2D", nil},
		{"res://enemy.tscn", "PackedScene", nil},
		{"res://junk.tres", "", format.ErrUnrecognized},
		{"res://empty.tres", "", format.ErrUnrecognized},
		{"res://missing.tres", "", format.ErrUnrecognized},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := s.RecognizeType(tt.path)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("got %v, want %v", err, tt.wantErr)
				}
				if !IsUnrecognized(err) {
					t.Errorf("IsUnrecognized(%v) = false", err)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

const depsFile = `[gd_resource type="Theme" load_steps=4 format=3]

[ext_resource type="Texture2D" path="res://tex.tres" id="1"]
; moved once already
[ext_resource type="Font" uid="uid://font" path="res://old/font.tres" id="2"]
[ext_resource type="Script" uid="uid://gone" path="lib/s.gd" id="3"]

[resource]
tex = ExtResource("1")
`

func TestGetDependencies(t *testing.T) {
	s, fsys := newTestStore(t)
	uids := NewUIDs()
	uids.Register("uid://font", "res://fonts/font.tres")
	s.UIDs = uids
	fsys.WriteFile("res://ui/theme.tres", []byte(depsFile))

	got, err := s.GetDependencies("res://ui/theme.tres", true)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{
		"res://tex.tres::Texture2D",
		"res://fonts/font.tres::Font",
		"res://ui/lib/s.gd::Script",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}

	got, err = s.GetDependencies("res://ui/theme.tres", false)
	if err != nil {
		t.Fatal(err)
	}
	want = []string{"res://tex.tres", "res://fonts/font.tres", "res://ui/lib/s.gd"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}

	if _, err := s.GetDependencies("res://nope.tres", false); !IsUnrecognized(err) {
		t.Errorf("missing file: %v", err)
	}
}

func TestRenameDependencies(t *testing.T) {
	s, fsys := newTestStore(t)
	uids := NewUIDs()
	uids.Register("uid://tex2", "res://img/tex.tres")
	s.UIDs = uids
	fsys.WriteFile("res://ui/theme.tres", []byte(depsFile))
	fsys.WriteFile("res://img/tex.tres", []byte(texFile))

	err := s.RenameDependencies("res://ui/theme.tres", map[string]string{
		"res://tex.tres":    "res://img/tex.tres",
		"res://ui/lib/s.gd": "res://scripts/s.gd",
	})
	if err != nil {
		t.Fatal(err)
	}
	want := `[gd_resource type="Theme" load_steps=4 format=3]

[ext_resource type="Texture2D" path="res://img/tex.tres" id="1" uid="uid://tex2"]
; moved once already
[ext_resource type="Font" uid="uid://font" path="res://old/font.tres" id="2"]
[ext_resource type="Script" path="res://scripts/s.gd" id="3"]

[resource]
tex = ExtResource("1")
`
	got := readFile(t, fsys, "res://ui/theme.tres")
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}

	deps, err := s.GetDependencies("res://ui/theme.tres", false)
	if err != nil {
		t.Fatal(err)
	}
	if deps[0] != "res://img/tex.tres" {
		t.Errorf("deps %v", deps)
	}
	root, err := s.Load(context.Background(), "res://ui/theme.tres")
	if err != nil {
		t.Fatal(err)
	}
	if p := mustGet(t, root, "tex").Object.Path(); p != "res://img/tex.tres" {
		t.Errorf("tex loaded from %q", p)
	}
}

func TestRenameDependenciesNoMatch(t *testing.T) {
	s, fsys := newTestStore(t)
	fsys.WriteFile("res://ui/theme.tres", []byte(depsFile))
	if err := s.RenameDependencies("res://ui/theme.tres", map[string]string{"res://other.tres": "res://x.tres"}); err != nil {
		t.Fatal(err)
	}
	if got := readFile(t, fsys, "res://ui/theme.tres"); got != depsFile {
		t.Errorf("file changed:\n%s", got)
	}
	if err := s.RenameDependencies("res://nope.tres", nil); !IsUnrecognized(err) {
		t.Errorf("missing file: %v", err)
	}
}

const interleavedFile = `[gd_resource type="Theme" load_steps=3 format=3]

[sub_resource type="Curve" id="1"]
points = [1, 2]

[ext_resource type="Texture2D" path="res://tex.tres" id="1"]

[resource]
tex = ExtResource("1")
curve = SubResource("1")
`

func TestDependenciesAfterSubResource(t *testing.T) {
	s, fsys := newTestStore(t)
	fsys.WriteFile("res://theme.tres", []byte(interleavedFile))
	fsys.WriteFile("res://tex.tres", []byte(texFile))
	fsys.WriteFile("res://b.tres", []byte(texFile))

	root, err := s.Load(context.Background(), "res://theme.tres")
	if err != nil {
		t.Fatal(err)
	}
	if p := mustGet(t, root, "tex").Object.Path(); p != "res://tex.tres" {
		t.Fatalf("tex loaded from %q", p)
	}
	got, err := s.GetDependencies("res://theme.tres", true)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"res://tex.tres::Texture2D"}, got); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}

	if err := s.RenameDependencies("res://theme.tres", map[string]string{"res://tex.tres": "res://b.tres"}); err != nil {
		t.Fatal(err)
	}
	want := `[gd_resource type="Theme" load_steps=3 format=3]

[sub_resource type="Curve" id="1"]
points = [1, 2]

[ext_resource type="Texture2D" path="res://b.tres" id="1"]

[resource]
tex = ExtResource("1")
curve = SubResource("1")
`
	if diff := cmp.Diff(want, readFile(t, fsys, "res://theme.tres")); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
	got, err = s.GetDependencies("res://theme.tres", false)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"res://b.tres"}, got); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}
