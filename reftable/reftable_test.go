package reftable

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/signadot/tres/format"
	"github.com/signadot/tres/parse"
	"github.com/signadot/tres/variant"
)

func TestNaturalLess(t *testing.T) {
	tests := []struct {
		a, b string
		less bool
	}{
		{"id9", "id10", true},
		{"id10", "id9", false},
		{"2", "10", true},
		{"Mesh_2", "mesh_10", true},
		{"a", "B", true},
		{"B", "a", false},
		{"1", "01", true},
		{"x", "x1", true},
		{"abc", "abc", false},
	}
	for _, tt := range tests {
		if got := NaturalLess(tt.a, tt.b); got != tt.less {
			t.Errorf("NaturalLess(%q, %q) = %v", tt.a, tt.b, got)
		}
	}
}

func TestSortNatural(t *testing.T) {
	ids := []string{"id10", "id2", "ID1", "id9", "10", "9", "abc_3"}
	SortNatural(ids)
	want := []string{"9", "10", "abc_3", "ID1", "id2", "id9", "id10"}
	if diff := cmp.Diff(want, ids); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestSeqSkipsReserved(t *testing.T) {
	s := &Seq{}
	s.Reserve("2")
	got := []string{s.Next(), s.Next(), s.Next()}
	if diff := cmp.Diff([]string{"1", "3", "4"}, got); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestTableNamespacesAreDisjoint(t *testing.T) {
	tab := New()
	a := variant.New("A")
	b := variant.New("B")
	if err := tab.DeclareEmbedded("1", a, 3); err != nil {
		t.Fatal(err)
	}
	if err := tab.DeclareExternal(&External{ID: "1", Path: "res://b.tres", Type: "B"}, 2); err != nil {
		t.Fatal(err)
	}
	o, ok := tab.Lookup(parse.ExternalRef, "1")
	if !ok || o != nil {
		t.Errorf("unresolved external: got %v %v", o, ok)
	}
	tab.Bind("1", b)
	if o, _ := tab.Lookup(parse.ExternalRef, "1"); o != b {
		t.Errorf("bound external: got %v", o)
	}
	if o, _ := tab.Lookup(parse.EmbeddedRef, "1"); o != a {
		t.Errorf("embedded: got %v", o)
	}
	if id, ok := tab.ID(parse.ExternalRef, b); !ok || id != "1" {
		t.Errorf("reverse external: got %q %v", id, ok)
	}
	if _, ok := tab.ID(parse.ExternalRef, a); ok {
		t.Errorf("embedded object found in external namespace")
	}
}

func TestTableDuplicateID(t *testing.T) {
	tab := New()
	if err := tab.DeclareEmbedded("x", variant.New("A"), 1); err != nil {
		t.Fatal(err)
	}
	err := tab.DeclareEmbedded("x", variant.New("A"), 7)
	if !errors.Is(err, format.ErrFormat) {
		t.Fatalf("got %v", err)
	}
	var fe *format.Error
	if !errors.As(err, &fe) || fe.Line != 7 {
		t.Errorf("expected line 7, got %v", err)
	}
}

func TestTableAssign(t *testing.T) {
	tab := New()
	if err := tab.DeclareEmbedded("0", variant.New("Root"), 1); err != nil {
		t.Fatal(err)
	}
	a, b := variant.New("A"), variant.New("B")
	got := []string{
		tab.Assign(parse.EmbeddedRef, a),
		tab.Assign(parse.EmbeddedRef, b),
		tab.Assign(parse.EmbeddedRef, a),
		tab.Assign(parse.ExternalRef, b),
	}
	if diff := cmp.Diff([]string{"1", "2", "1", "1"}, got); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"0", "1", "2"}, tab.IDs(parse.EmbeddedRef)); diff != "" {
		t.Errorf("ids (-want +got):\n%s", diff)
	}
}
